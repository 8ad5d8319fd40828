// Package renderer draws ocean surface fields with raylib.
package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swell/ocean"
)

// ViewMode selects which field the surface view shows.
type ViewMode int

const (
	ViewShaded ViewMode = iota
	ViewHeight
	ViewNormals
	viewModeCount
)

func (m ViewMode) String() string {
	switch m {
	case ViewShaded:
		return "shaded"
	case ViewHeight:
		return "height"
	case ViewNormals:
		return "normals"
	}
	return "unknown"
}

// Next cycles to the following view mode.
func (m ViewMode) Next() ViewMode {
	return (m + 1) % viewModeCount
}

// Palette endpoints for the height colormap.
var (
	troughColor = color.RGBA{R: 4, G: 22, B: 58, A: 255}
	meanColor   = color.RGBA{R: 18, G: 96, B: 138, A: 255}
	crestColor  = color.RGBA{R: 226, G: 244, B: 250, A: 255}
)

// SurfaceView uploads simulation fields into a texture and draws it.
type SurfaceView struct {
	tex         rl.Texture2D
	pixels      []color.RGBA
	n           int
	initialized bool

	// HeightScale maps heights in meters onto the colormap; heights at
	// +-HeightScale reach the crest and trough colors.
	HeightScale float32
	// Sun is the unit direction towards the light for the shaded view.
	Sun [3]float32
	// Tiles is how many copies of the patch are drawn along each axis.
	Tiles float32
}

// NewSurfaceView creates a view for n x n fields.
func NewSurfaceView(n int) *SurfaceView {
	return &SurfaceView{
		n:           n,
		HeightScale: 2,
		Sun:         normalize3(0.4, 0.8, 0.45),
		Tiles:       2,
	}
}

// Init allocates the texture (must be called after raylib window is created).
func (v *SurfaceView) Init() {
	if v.initialized {
		return
	}

	img := rl.GenImageColor(v.n, v.n, rl.Black)
	v.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	rl.SetTextureFilter(v.tex, rl.FilterBilinear)
	// The patch is periodic, so repeating it is seamless.
	rl.SetTextureWrap(v.tex, rl.WrapRepeat)

	v.pixels = make([]color.RGBA, v.n*v.n)
	v.initialized = true
}

// Update recolors the texture from f using the given mode.
func (v *SurfaceView) Update(f *ocean.Fields, mode ViewMode) {
	if !v.initialized {
		v.Init()
	}
	v.Fill(v.pixels, f, mode)
	rl.UpdateTexture(v.tex, v.pixels)
}

// Fill writes one pixel per cell of f into dst.
func (v *SurfaceView) Fill(dst []color.RGBA, f *ocean.Fields, mode ViewMode) {
	switch mode {
	case ViewHeight:
		for i, h := range f.Height {
			dst[i] = HeightColor(h, v.HeightScale)
		}
	case ViewNormals:
		for i := range f.Height {
			dst[i] = NormalColor(f.Normal[3*i], f.Normal[3*i+1], f.Normal[3*i+2])
		}
	default:
		for i, h := range f.Height {
			base := HeightColor(h, v.HeightScale)
			dst[i] = Shade(base, f.Normal[3*i], f.Normal[3*i+1], f.Normal[3*i+2], v.Sun)
		}
	}
}

// Draw renders the texture into dst, tiled Tiles times per axis.
func (v *SurfaceView) Draw(dst rl.Rectangle) {
	if !v.initialized {
		return
	}
	size := float32(v.n) * v.Tiles
	v.DrawRegion(rl.Rectangle{X: 0, Y: 0, Width: size, Height: size}, dst)
}

// DrawRegion renders the texel region src into dst. src may extend past
// the texture in any direction; the patch repeats.
func (v *SurfaceView) DrawRegion(src, dst rl.Rectangle) {
	if !v.initialized {
		return
	}
	rl.DrawTexturePro(v.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Texture exposes the uploaded texture for export.
func (v *SurfaceView) Texture() rl.Texture2D {
	return v.tex
}

// Unload frees resources.
func (v *SurfaceView) Unload() {
	if v.initialized {
		rl.UnloadTexture(v.tex)
		v.initialized = false
	}
}

// HeightColor maps a height onto the trough-mean-crest palette.
func HeightColor(h, scale float32) color.RGBA {
	t := clamp01(h/scale*0.5 + 0.5)
	if t < 0.5 {
		return lerpColor(troughColor, meanColor, t*2)
	}
	return lerpColor(meanColor, crestColor, t*2-1)
}

// NormalColor encodes a unit normal as a tangent-space style normal map,
// with y (up) in the blue channel.
func NormalColor(nx, ny, nz float32) color.RGBA {
	return color.RGBA{
		R: unitToByte(nx),
		G: unitToByte(nz),
		B: unitToByte(ny),
		A: 255,
	}
}

// Shade applies Lambert lighting from sun to base.
func Shade(base color.RGBA, nx, ny, nz float32, sun [3]float32) color.RGBA {
	const ambient = 0.35
	d := nx*sun[0] + ny*sun[1] + nz*sun[2]
	if d < 0 {
		d = 0
	}
	k := ambient + (1-ambient)*d
	scale := func(c uint8) uint8 {
		return uint8(float32(c)*k + 0.5)
	}
	return color.RGBA{R: scale(base.R), G: scale(base.G), B: scale(base.B), A: 255}
}

func lerpColor(a, b color.RGBA, t float32) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func unitToByte(x float32) uint8 {
	return uint8(clamp01(x*0.5+0.5)*255 + 0.5)
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func normalize3(x, y, z float32) [3]float32 {
	l := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	return [3]float32{x / l, y / l, z / l}
}
