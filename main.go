package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swell/config"
	"github.com/pthm-cable/swell/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in simulated seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Uint64("seed", 0, "Spectrum seed (0 = use config)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Frames per update call (higher = faster headless runs)")
	backend := flag.String("backend", "", "FFT backend: cpu or opencl (empty = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *seed != 0 {
		p := cfg.OceanParams()
		p.Seed = *seed
		cfg.SetOceanParams(p)
	}
	if *backend != "" {
		cfg.Compute.Backend = *backend
	}

	opts := game.Options{
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		g, err := game.NewGameWithOptions(cfg, opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless simulation",
			"n", cfg.Ocean.N,
			"seed", cfg.Ocean.Seed,
			"dt", cfg.Playback.DT,
			"max_frames", *maxFrames,
			"steps_per_update", *stepsPerUpdate,
		)

		for {
			if err := g.UpdateHeadless(); err != nil {
				slog.Error("simulation failed", "error", err)
				return
			}
			if *maxFrames > 0 && int(g.Frame()) >= *maxFrames {
				slog.Info("max frames reached", "frame", g.Frame(), "sim_time", g.SimTime())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Swell")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		if err := g.Update(); err != nil {
			slog.Error("simulation failed", "error", err)
			return
		}
		g.Draw()

		if *maxFrames > 0 && int(g.Frame()) >= *maxFrames {
			break
		}
	}
}
