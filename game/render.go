package game

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swell/telemetry"
	"github.com/pthm-cable/swell/ui"
)

const (
	panelWidth = 320
	controls   = "Space pause  N view  +/- speed  R reverse  arrows/RMB pan  wheel zoom  Home reset  S snapshot"
)

// Update advances the viewer by the real frame time scaled by the clock.
func (g *Game) Update() error {
	g.handleInput()

	if g.paused && !g.stepOnce {
		return nil
	}
	dt := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
	if g.stepOnce {
		dt = g.dt
		g.stepOnce = false
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		if err := g.step(g.clock.Advance(dt)); err != nil {
			return err
		}
	}
	return nil
}

// Draw renders the surface and overlays.
func (g *Game) Draw() {
	g.perfCollector.RecordPresent()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	if g.fields != nil {
		if g.viewMode != g.uploadedMode {
			g.upload()
		}
		x, y, w, h := g.cam.SourceRect()
		src := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
		dst := rl.Rectangle{Width: g.screenWidth, Height: g.screenHeight}
		g.view.DrawRegion(src, dst)
	}

	g.drawHUD()
	rl.EndDrawing()
}

// upload refreshes the surface texture from the latest fields.
func (g *Game) upload() {
	g.view.Update(g.fields, g.viewMode)
	g.uploadedMode = g.viewMode
}

// layoutPanels anchors the panels to the right edge.
func (g *Game) layoutPanels() {
	x := int32(g.screenWidth) - panelWidth - 10
	g.perfPanel.SetPosition(x, 36)
	g.seaPanel.SetPosition(x, 200)
}

func (g *Game) drawHUD() {
	p := g.sim.Params()
	g.hud.Draw(ui.HUDData{
		SimTime:    g.SimTime(),
		Frame:      g.frame,
		TimeScale:  g.clock.Scale(),
		N:          p.N,
		PatchSize:  p.PatchSize,
		WindSpeed:  p.WindSpeed,
		Choppiness: p.Choppiness,
		View:       g.viewMode.String(),
		Backend:    string(g.sim.Backend()),
		Probe:      g.probe(),
		Paused:     g.paused,
	})
	g.hud.DrawControls(int32(g.screenHeight), controls)

	perf := g.perfCollector.Stats()
	g.perfPanel.Draw(ui.PerfPanelData{
		Phases:   telemetry.FramePhases(),
		PhaseAvg: perf.PhaseAvg,
		Total:    perf.AvgFrameDuration,
	})

	if s := g.lastStats; s.Frames > 0 {
		data := ui.SeaStateData{
			HsMean:      s.HsMean,
			ExpectedHs:  g.expectedHs,
			MaxCrest:    s.MaxCrest,
			MaxSlope:    s.MaxSlope,
			MaxResidual: s.MaxResidual,
		}
		if bm := g.lastBookmark; bm.Type != "" {
			data.LastEvent = fmt.Sprintf("%s @ %.1fs", bm.Type, bm.SimTimeSec)
		}
		g.seaPanel.Draw(data)
	}

	rl.DrawFPS(int32(g.screenWidth)-90, 10)
}

// probe describes the cell under the mouse cursor.
func (g *Game) probe() string {
	if g.fields == nil {
		return ""
	}
	mouse := rl.GetMousePosition()
	x, z := g.cam.CellAt(mouse.X, mouse.Y)
	dx, dz := g.fields.DisplacementAt(x, z)
	return fmt.Sprintf("cell (%d, %d)  h %+.2fm  d (%+.2f, %+.2f)  zoom %.2fpx/m",
		x, z, g.fields.HeightAt(x, z), dx, dz, g.cam.Zoom)
}
