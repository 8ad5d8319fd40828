// Field export tool - renders the surface at a given time to PNG files
// (shaded, height colormap and normal map) for inspection.
//
// Usage: go run ./cmd/fieldexport -time 12.5 -out frames/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swell/config"
	"github.com/pthm-cable/swell/ocean"
	"github.com/pthm-cable/swell/renderer"
	"github.com/pthm-cable/swell/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	snapshotPath := flag.String("snapshot", "", "Render a saved snapshot instead of simulating")
	t := flag.Float64("time", 0, "Simulated time in seconds")
	outDir := flag.String("out", ".", "Output directory")
	flag.Parse()

	fields, n, err := loadFields(*configPath, *snapshotPath, *t)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "creating output directory: %v\n", err)
		os.Exit(1)
	}

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(n), int32(n), "Field Export")
	defer rl.CloseWindow()

	view := renderer.NewSurfaceView(n)
	defer view.Unload()

	failed := false
	for _, mode := range []renderer.ViewMode{renderer.ViewShaded, renderer.ViewHeight, renderer.ViewNormals} {
		view.Update(fields, mode)

		img := rl.LoadImageFromTexture(view.Texture())
		path := filepath.Join(*outDir, fmt.Sprintf("%s_t%.2f.png", mode, fields.Time))
		ok := rl.ExportImage(*img, path)
		rl.UnloadImage(img)

		if ok {
			fmt.Printf("Field rendered to: %s (%dx%d)\n", path, n, n)
		} else {
			fmt.Fprintf(os.Stderr, "Failed to export %s\n", path)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// loadFields reads a snapshot or simulates the configured ocean at time t.
func loadFields(configPath, snapshotPath string, t float64) (*ocean.Fields, int, error) {
	if snapshotPath != "" {
		snap, err := telemetry.LoadSnapshot(snapshotPath)
		if err != nil {
			return nil, 0, err
		}
		return snap.Fields(), snap.N, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, 0, fmt.Errorf("loading config: %w", err)
	}
	sim, err := ocean.Initialize(cfg.OceanParams(), cfg.OceanOptions()...)
	if err != nil {
		return nil, 0, err
	}
	defer sim.Close()

	f, err := sim.StepFrame(t)
	if err != nil {
		return nil, 0, err
	}
	// The simulation owns f; keep a copy past Close.
	return f.Clone(), cfg.Ocean.N, nil
}
