package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	minTimeScale = 0.125
	maxTimeScale = 8

	panSpeed  = 600 // screen pixels per second
	zoomSpeed = 1.1 // per wheel notch
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Cycle shaded / height / normals
	if rl.IsKeyPressed(rl.KeyN) {
		g.viewMode = g.viewMode.Next()
	}

	// Playback speed, doubling or halving
	scale := g.clock.Scale()
	speed := math.Abs(scale)
	if (rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd)) && speed < maxTimeScale {
		g.clock.SetScale(scale * 2)
	}
	if (rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract)) && speed > minTimeScale {
		g.clock.SetScale(scale / 2)
	}
	// R reverses time; the surface runs backwards through the same states.
	if rl.IsKeyPressed(rl.KeyR) {
		g.clock.SetScale(-g.clock.Scale())
	}

	// Single step while paused
	if g.paused && rl.IsKeyPressed(rl.KeyPeriod) {
		g.stepOnce = true
	}

	g.handleCamera()

	// Snapshot on demand
	if rl.IsKeyPressed(rl.KeyS) && g.snapshotDir != "" && g.fields != nil {
		g.saveSnapshot(nil)
	}
}

// handleResize tracks the window size.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())
	g.cam.Resize(g.screenWidth, g.screenHeight)
	g.layoutPanels()
}

// handleCamera pans with arrow keys or right-drag, zooms with the wheel.
func (g *Game) handleCamera() {
	step := panSpeed * rl.GetFrameTime()
	if rl.IsKeyDown(rl.KeyLeft) {
		g.cam.Pan(-step, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		g.cam.Pan(step, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.cam.Pan(0, -step)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.cam.Pan(0, step)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.cam.Pan(-d.X, -d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.ZoomBy(float32(math.Pow(zoomSpeed, float64(wheel))))
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.cam.Reset()
	}
}
