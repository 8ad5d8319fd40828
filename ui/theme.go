// Package ui draws the viewer overlays: status text, the phase timing
// panel and the sea state panel.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	BarBg         rl.Color
	BarFill       rl.Color
	Warn          rl.Color
	Alert         rl.Color
	StatusText    rl.Color
	HintText      rl.Color
	Padding       int32
	LineHeight    int32
	FontSize      int32
	HeaderSize    int32
	StatusSize    int32
	HintSize      int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 10, G: 20, B: 30, A: 210},
		PanelBorder:   rl.Color{R: 60, G: 80, B: 100, A: 255},
		SectionHeader: rl.Yellow,
		LabelColor:    rl.LightGray,
		BarBg:         rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:       rl.Color{R: 100, G: 150, B: 200, A: 255},
		Warn:          rl.Orange,
		Alert:         rl.Red,
		StatusText:    rl.White,
		HintText:      rl.Gray,
		Padding:       8,
		LineHeight:    16,
		FontSize:      12,
		HeaderSize:    14,
		StatusSize:    20,
		HintSize:      14,
	}
}

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawBar draws a horizontal bar filled to frac of its width.
func (r *Renderer) DrawBar(x, y, width, height int32, frac float32, fill rl.Color) {
	rl.DrawRectangle(x, y, width, height, r.Theme.BarBg)
	if frac > 1 {
		frac = 1
	}
	if frac > 0 {
		rl.DrawRectangle(x, y, int32(float32(width)*frac), height, fill)
	}
}

// PanelHeight returns the height of a panel holding a header and n rows.
func (r *Renderer) PanelHeight(rows int) int32 {
	return 2*r.Theme.Padding + r.Theme.LineHeight + 4 + int32(rows)*r.Theme.LineHeight
}
