// Package camera provides a 2D camera over a periodic ocean patch.
package camera

import "math"

// maxTilesAcross limits zooming out to this many patch copies across the
// larger viewport side.
const maxTilesAcross = 6

// maxPixelsPerCell limits zooming in.
const maxPixelsPerCell = 16

// Camera controls the viewport onto an endlessly tiled patch.
// World coordinates are meters; the patch repeats every PatchSize.
type Camera struct {
	// Position is the camera center in world coordinates, always in [0, PatchSize)
	X, Y float32

	// Zoom is screen pixels per meter
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Patch side length in meters and samples
	PatchSize float32
	N         int

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the patch, zoomed so one patch fills
// the smaller viewport side.
func New(viewportW, viewportH, patchSize float32, n int) *Camera {
	c := &Camera{
		PatchSize: patchSize,
		N:         n,
		MaxZoom:   maxPixelsPerCell * float32(n) / patchSize,
	}
	c.Resize(viewportW, viewportH)
	c.Reset()
	return c
}

// WorldToScreen converts world coordinates to screen coordinates, taking
// the copy of the point nearest the camera.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := toroidalDelta(wx, c.X, c.PatchSize)
	dy := toroidalDelta(wy, c.Y, c.PatchSize)
	sx = c.ViewportW/2 + dx*c.Zoom
	sy = c.ViewportH/2 + dy*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates within
// the base patch.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.ViewportW/2) / c.Zoom
	dy := (sy - c.ViewportH/2) / c.Zoom
	wx = mod(c.X+dx, c.PatchSize)
	wy = mod(c.Y+dy, c.PatchSize)
	return wx, wy
}

// CellAt returns the grid cell under a screen position.
func (c *Camera) CellAt(sx, sy float32) (x, z int) {
	wx, wy := c.ScreenToWorld(sx, sy)
	cell := c.PatchSize / float32(c.N)
	x = int(wx/cell) % c.N
	z = int(wy/cell) % c.N
	return x, z
}

// SourceRect returns the texture region, in texels, that fills the
// viewport. It extends past the texture; the texture must repeat.
func (c *Camera) SourceRect() (x, y, w, h float32) {
	texelsPerMeter := float32(c.N) / c.PatchSize
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return (c.X - halfW) * texelsPerMeter,
		(c.Y - halfH) * texelsPerMeter,
		2 * halfW * texelsPerMeter,
		2 * halfH * texelsPerMeter
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = max(viewportW, viewportH) / (maxTilesAcross * c.PatchSize)
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
// Automatically wraps around the patch.
func (c *Camera) Pan(dx, dy float32) {
	c.X = mod(c.X+dx/c.Zoom, c.PatchSize)
	c.Y = mod(c.Y+dy/c.Zoom, c.PatchSize)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the camera with one patch across the smaller viewport side.
func (c *Camera) Reset() {
	c.X = c.PatchSize / 2
	c.Y = c.PatchSize / 2
	c.SetZoom(min(c.ViewportW, c.ViewportH) / c.PatchSize)
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
