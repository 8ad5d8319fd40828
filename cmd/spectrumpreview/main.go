// Spectrum preview tool - tune wind and spectrum parameters with sliders
// and watch the surface and its radial energy spectrum respond.
//
// Usage: go run ./cmd/spectrumpreview [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swell/config"
	"github.com/pthm-cable/swell/ocean"
	"github.com/pthm-cable/swell/renderer"
	"github.com/pthm-cable/swell/telemetry"
)

const (
	windowWidth  = 1100
	windowHeight = 760
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	plotHeight   = 180
	spectrumBins = 48
)

// slider binds one float parameter to a raygui slider.
type slider struct {
	label    string
	min, max float32
	format   string
	get      func(p *ocean.Params) float64
	set      func(p *ocean.Params, v float64)
}

var sliders = []slider{
	{
		label: "Wind speed (m/s)", min: 1, max: 40, format: "%.1f",
		get: func(p *ocean.Params) float64 { return p.WindSpeed },
		set: func(p *ocean.Params, v float64) { p.WindSpeed = v },
	},
	{
		label: "Wind angle (deg)", min: 0, max: 360, format: "%.0f",
		get: func(p *ocean.Params) float64 {
			a := math.Atan2(p.WindDirection.Y, p.WindDirection.X) * 180 / math.Pi
			if a < 0 {
				a += 360
			}
			return a
		},
		set: func(p *ocean.Params, v float64) {
			r := v * math.Pi / 180
			p.WindDirection = ocean.Vec2{X: math.Cos(r), Y: math.Sin(r)}
		},
	},
	{
		label: "Patch size (m)", min: 16, max: 2048, format: "%.0f",
		get: func(p *ocean.Params) float64 { return p.PatchSize },
		set: func(p *ocean.Params, v float64) { p.PatchSize = v },
	},
	{
		label: "Choppiness", min: 0, max: 3, format: "%.2f",
		get: func(p *ocean.Params) float64 { return p.Choppiness },
		set: func(p *ocean.Params, v float64) { p.Choppiness = v },
	},
	{
		// Amplitude spans decades, so the slider works in log10.
		label: "Amplitude (log10 A)", min: -10, max: -4, format: "%.2f",
		get: func(p *ocean.Params) float64 { return math.Log10(p.Amplitude) },
		set: func(p *ocean.Params, v float64) { p.Amplitude = math.Pow(10, v) },
	},
	{
		label: "Small wave cutoff (m)", min: 0, max: 2, format: "%.2f",
		get: func(p *ocean.Params) float64 { return p.SmallWaveCutoff },
		set: func(p *ocean.Params, v float64) { p.SmallWaveCutoff = v },
	},
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	params := cfg.OceanParams()
	defaults := params

	rl.InitWindow(windowWidth, windowHeight, "Spectrum Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	view := renderer.NewSurfaceView(params.N)
	defer view.Unload()
	mode := renderer.ViewShaded

	var sim *ocean.Simulation
	var expectedHs float64
	rebuild := func() {
		if sim != nil {
			sim.Close()
		}
		sim, err = ocean.Initialize(params, cfg.OceanOptions()...)
		if err != nil {
			// Sliders keep values in range; only a bad config gets here.
			slog.Error("failed to initialize", "error", err)
			os.Exit(1)
		}
		expectedHs = ocean.ExpectedHs(params)
		view.HeightScale = float32(max(0.25, 0.5*expectedHs))
	}
	rebuild()
	defer func() { sim.Close() }()

	var t float64
	animating := true
	var bins []telemetry.SpectrumBin

	for !rl.WindowShouldClose() {
		if animating {
			t += float64(rl.GetFrameTime())
		}
		if rl.IsKeyPressed(rl.KeyN) {
			mode = mode.Next()
		}

		fields, err := sim.StepFrame(t)
		if err != nil {
			slog.Error("step failed", "error", err)
			return
		}
		view.Update(fields, mode)
		bins = telemetry.RadialSpectrum(fields.Height, fields.N, params.PatchSize, spectrumBins)
		fs := telemetry.NewAnalyzer(fields.N).Field(fields)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		view.Draw(rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize})
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 20)
		rl.DrawText(fmt.Sprintf("t %.1fs  Hs %.2fm (expected %.2fm)  crest %.2fm", t, fs.Hs, expectedHs, fs.Crest), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("view %s [N]  peak k %.3f rad/m  max slope %.2f", mode, telemetry.PeakK(bins), fs.MaxSlope), 15, statsY+20, 16, rl.DarkGray)
		drawSpectrum(bins, rl.Rectangle{X: 10, Y: float32(statsY + 50), Width: previewSize, Height: plotHeight})

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Spectrum Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			cur := float32(s.get(&params))
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				cur, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, cur), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if next != cur {
				s.set(&params, float64(next))
				changed = true
			}
			panelY += 35
		}

		panelY += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Time") {
			t = 0
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Next Seed") {
			params.Seed++
			changed = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			changed = true
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 250, Height: 30}, "Save preview.yaml") {
			cfg.SetOceanParams(params)
			if err := cfg.WriteYAML("preview.yaml"); err != nil {
				slog.Error("failed to save", "error", err)
			} else {
				slog.Info("saved", "path", "preview.yaml")
			}
		}

		rl.EndDrawing()

		if changed {
			rebuild()
		}
	}
}

// drawSpectrum plots log energy per bin as bars.
func drawSpectrum(bins []telemetry.SpectrumBin, r rl.Rectangle) {
	rl.DrawRectangleLinesEx(r, 1, rl.LightGray)
	if len(bins) == 0 {
		return
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range bins {
		if b.Energy > 0 {
			e := math.Log10(b.Energy)
			lo, hi = math.Min(lo, e), math.Max(hi, e)
		}
	}
	if hi <= lo {
		return
	}
	w := r.Width / float32(len(bins))
	for i, b := range bins {
		if b.Energy <= 0 {
			continue
		}
		f := float32((math.Log10(b.Energy) - lo) / (hi - lo))
		h := f * (r.Height - 4)
		rl.DrawRectangleV(
			rl.Vector2{X: r.X + float32(i)*w + 1, Y: r.Y + r.Height - 2 - h},
			rl.Vector2{X: w - 2, Y: h},
			rl.SkyBlue,
		)
	}
	rl.DrawText("log E(|k|)", int32(r.X+6), int32(r.Y+4), 14, rl.Gray)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
