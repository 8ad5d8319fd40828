package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the status lines.
type HUDData struct {
	SimTime    float64
	Frame      int32
	TimeScale  float64
	N          int
	PatchSize  float64
	WindSpeed  float64
	Choppiness float64
	View       string
	Backend    string
	Probe      string // empty = no cursor probe
	Paused     bool
}

// Lines formats the status lines, top to bottom.
func (d HUDData) Lines() []string {
	lines := []string{
		fmt.Sprintf("t = %.2fs  frame %d  speed %.3gx", d.SimTime, d.Frame, d.TimeScale),
		fmt.Sprintf("N %d  L %.0fm  wind %.1fm/s  chop %.2f", d.N, d.PatchSize, d.WindSpeed, d.Choppiness),
		fmt.Sprintf("view %s [N]  backend %s", d.View, d.Backend),
	}
	if d.Probe != "" {
		lines = append(lines, d.Probe)
	}
	if d.Paused {
		lines = append(lines, "PAUSED  [.] step")
	}
	return lines
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the status lines in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	th := h.renderer.Theme
	for i, line := range data.Lines() {
		rl.DrawText(line, th.Padding, h.lineY(i), th.StatusSize, th.StatusText)
	}
}

// lineY returns the top of status line i.
func (h *HUD) lineY(i int) int32 {
	th := h.renderer.Theme
	return th.Padding + int32(i)*(th.StatusSize+th.Padding/4)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	th := h.renderer.Theme
	rl.DrawText(controls, th.Padding, screenHeight-th.HintSize-th.Padding, th.HintSize, th.HintText)
}

// PerfPanelData holds phase timings for display.
type PerfPanelData struct {
	Phases   []string // display order
	PhaseAvg map[string]time.Duration
	Total    time.Duration
}

// PhaseShare returns a phase's fraction of the frame total.
func (d PerfPanelData) PhaseShare(phase string) float64 {
	if d.Total <= 0 {
		return 0
	}
	return float64(d.PhaseAvg[phase]) / float64(d.Total)
}

// PerfPanel renders the frame phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	r := p.renderer
	th := r.Theme
	r.DrawPanel(p.x, p.y, p.width, r.PanelHeight(len(data.Phases)+1))

	x := p.x + th.Padding
	y := p.y + th.Padding
	rl.DrawText("Frame Phases", x, y, th.HeaderSize, th.SectionHeader)
	y += th.LineHeight + 4

	rl.DrawText(fmt.Sprintf("total %s", data.Total.Round(time.Microsecond)), x, y, th.FontSize, th.LabelColor)
	y += th.LineHeight

	barX := x + 150
	barW := p.width - 150 - 2*th.Padding
	for _, phase := range data.Phases {
		share := data.PhaseShare(phase)
		color := th.LabelColor
		if share > 0.5 {
			color = th.Alert
		} else if share > 0.25 {
			color = th.Warn
		}
		rl.DrawText(fmt.Sprintf("%-10s %8s", phase, data.PhaseAvg[phase].Round(time.Microsecond)), x, y, th.FontSize, color)
		r.DrawBar(barX, y+2, barW, th.FontSize-2, float32(share), th.BarFill)
		y += th.LineHeight
	}
}

// SeaStateData holds the latest telemetry window for display.
type SeaStateData struct {
	HsMean      float64
	ExpectedHs  float64
	MaxCrest    float64
	MaxSlope    float64
	MaxResidual float64
	LastEvent   string
}

// Rows formats the panel rows.
func (d SeaStateData) Rows() []string {
	rows := []string{
		fmt.Sprintf("Hs %.2fm (expected %.2fm)", d.HsMean, d.ExpectedHs),
		fmt.Sprintf("max crest %.2fm", d.MaxCrest),
		fmt.Sprintf("max slope %.3f", d.MaxSlope),
		fmt.Sprintf("residual %.1e", d.MaxResidual),
	}
	if d.LastEvent != "" {
		rows = append(rows, d.LastEvent)
	}
	return rows
}

// SeaStatePanel renders window statistics and the last bookmark.
type SeaStatePanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewSeaStatePanel creates a new sea state panel.
func NewSeaStatePanel(x, y, width int32) *SeaStatePanel {
	return &SeaStatePanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (s *SeaStatePanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the sea state panel.
func (s *SeaStatePanel) Draw(data SeaStateData) {
	r := s.renderer
	th := r.Theme
	rows := data.Rows()
	r.DrawPanel(s.x, s.y, s.width, r.PanelHeight(len(rows)))

	x := s.x + th.Padding
	y := s.y + th.Padding
	rl.DrawText("Sea State", x, y, th.HeaderSize, th.SectionHeader)
	y += th.LineHeight + 4
	for i, row := range rows {
		color := th.LabelColor
		if data.LastEvent != "" && i == len(rows)-1 {
			color = th.Alert
		}
		rl.DrawText(row, x, y, th.FontSize, color)
		y += th.LineHeight
	}
}
