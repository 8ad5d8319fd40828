// Package game drives the ocean simulation frame by frame, both headless
// and inside a raylib window, and feeds the telemetry pipeline.
package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/swell/camera"
	"github.com/pthm-cable/swell/config"
	"github.com/pthm-cable/swell/ocean"
	"github.com/pthm-cable/swell/renderer"
	"github.com/pthm-cable/swell/telemetry"
	"github.com/pthm-cable/swell/ui"
)

// Options configures a run.
type Options struct {
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	StepsPerUpdate int // frames simulated per Update call
}

// Game owns the simulation and everything observing it.
type Game struct {
	cfg *config.Config
	sim *ocean.Simulation

	clock  *ocean.Clock
	dt     time.Duration
	fields *ocean.Fields
	frame  int32

	// Telemetry
	analyzer         *telemetry.Analyzer
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	spectrum         *telemetry.SpectrumAnalyzer
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	lastStats        telemetry.WindowStats
	lastBookmark     telemetry.Bookmark
	expectedHs       float64
	logStats         bool
	snapshotDir      string

	// Viewer state
	headless       bool
	paused         bool
	stepOnce       bool
	stepsPerUpdate int
	view           *renderer.SurfaceView
	cam            *camera.Camera
	hud            *ui.HUD
	perfPanel      *ui.PerfPanel
	seaPanel       *ui.SeaStatePanel
	viewMode       renderer.ViewMode
	uploadedMode   renderer.ViewMode
	screenWidth    float32
	screenHeight   float32
}

// NewGameWithOptions builds the simulation described by cfg.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:              cfg,
		clock:            ocean.NewClock(),
		dt:               cfg.Derived.DT,
		analyzer:         telemetry.NewAnalyzer(cfg.Ocean.N),
		collector:        telemetry.NewCollector(statsWindow, cfg.Playback.DT),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.RogueHistorySize, thresholds(cfg)),
		spectrum:         telemetry.NewSpectrumAnalyzer(cfg.Ocean.N, cfg.Ocean.PatchSize, cfg.Telemetry.SpectrumBins),
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		headless:         opts.Headless,
		stepsPerUpdate:   steps,
		screenWidth:      cfg.Derived.ScreenW32,
		screenHeight:     cfg.Derived.ScreenH32,
	}
	g.clock.SetScale(cfg.Playback.TimeScale)
	g.expectedHs = ocean.ExpectedHs(cfg.OceanParams())

	simOpts := append(cfg.OceanOptions(), ocean.WithPhaseTimer(g.perfCollector))
	sim, err := ocean.Initialize(cfg.OceanParams(), simOpts...)
	if err != nil {
		return nil, fmt.Errorf("initializing ocean: %w", err)
	}
	g.sim = sim

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		sim.Close()
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if !g.headless {
		g.view = renderer.NewSurfaceView(cfg.Ocean.N)
		g.view.HeightScale = float32(max(0.5, 0.5*g.expectedHs))
		g.cam = camera.New(g.screenWidth, g.screenHeight, float32(cfg.Ocean.PatchSize), cfg.Ocean.N)
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(0, 10, panelWidth)
		g.seaPanel = ui.NewSeaStatePanel(0, 0, panelWidth)
		g.layoutPanels()
	}
	return g, nil
}

func thresholds(cfg *config.Config) telemetry.Thresholds {
	rw := cfg.RogueWave
	return telemetry.Thresholds{
		HeightRatio:   rw.HeightRatio,
		CrestRatio:    rw.CrestRatio,
		HsShift:       rw.HsShift,
		ResidualLimit: rw.ResidualLimit,
	}
}

// SetStatsCallback registers a function called with every flushed window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// UpdateHeadless advances by StepsPerUpdate fixed steps of playback.dt.
func (g *Game) UpdateHeadless() error {
	for i := 0; i < g.stepsPerUpdate; i++ {
		if err := g.step(g.clock.Advance(g.dt)); err != nil {
			return err
		}
	}
	return nil
}

// step runs one frame at simulated time t.
func (g *Game) step(t float64) error {
	g.perfCollector.StartFrame()

	fields, err := g.sim.StepFrame(t)
	if err != nil {
		return fmt.Errorf("frame %d: %w", g.frame, err)
	}
	g.fields = fields
	g.frame++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Record(g.analyzer.Field(fields))
	g.flushTelemetry()

	if g.view != nil {
		g.perfCollector.StartPhase(telemetry.PhaseRender)
		g.upload()
	}

	g.perfCollector.EndFrame()
	return nil
}

// Unload saves the final snapshot and releases resources.
func (g *Game) Unload() {
	if g.snapshotDir != "" && g.fields != nil {
		g.saveSnapshot(nil)
	}
	if g.view != nil {
		g.view.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	if err := g.sim.Close(); err != nil {
		slog.Error("failed to close simulation", "error", err)
	}
}

// Frame returns the number of frames simulated.
func (g *Game) Frame() int32 {
	return g.frame
}

// SimTime returns the simulated time of the latest frame.
func (g *Game) SimTime() float64 {
	if g.fields == nil {
		return 0
	}
	return g.fields.Time
}

// Fields returns the latest frame's fields, or nil before the first frame.
func (g *Game) Fields() *ocean.Fields {
	return g.fields
}

// ExpectedHs returns the ensemble significant wave height of the configured
// spectrum, computed once at construction.
func (g *Game) ExpectedHs() float64 {
	return g.expectedHs
}

// LastStats returns the most recently flushed window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}
