package game

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/swell/config"
	"github.com/pthm-cable/swell/ocean"
	"github.com/pthm-cable/swell/telemetry"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.OceanParams()
	p.N = 64
	p.PatchSize = 64
	cfg.SetOceanParams(p)
	cfg.Telemetry.StatsWindow = 0.5
	return cfg
}

func TestHeadlessRun(t *testing.T) {
	cfg := smallConfig(t)
	outDir := filepath.Join(t.TempDir(), "out")
	snapDir := filepath.Join(t.TempDir(), "snaps")

	g, err := NewGameWithOptions(cfg, Options{
		Headless:       true,
		OutputDir:      outDir,
		SnapshotDir:    snapDir,
		StepsPerUpdate: 10,
	})
	if err != nil {
		t.Fatal(err)
	}

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) { windows = append(windows, s) })

	for g.Frame() < 90 {
		if err := g.UpdateHeadless(); err != nil {
			t.Fatal(err)
		}
	}
	if math.Abs(g.SimTime()-1.5) > 1e-6 {
		t.Errorf("SimTime = %v after 90 frames, want 1.5", g.SimTime())
	}
	if len(windows) != 3 {
		t.Fatalf("got %d stats windows, want 3", len(windows))
	}
	for i, w := range windows {
		if w.Frames != 30 || w.HsMean <= 0 || w.MaxResidual > 1e-2 {
			t.Errorf("window %d = %+v", i, w)
		}
	}
	if g.LastStats() != windows[2] {
		t.Error("LastStats is not the latest window")
	}
	g.Unload()

	data, err := os.ReadFile(filepath.Join(outDir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 4 {
		t.Errorf("telemetry.csv has %d lines, want 4", len(lines))
	}
	if _, err := os.Stat(filepath.Join(outDir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}

	snap, err := telemetry.LoadSnapshot(filepath.Join(snapDir, "snapshot_90.msgpack"))
	if err != nil {
		t.Fatalf("final snapshot: %v", err)
	}
	if snap.Frame != 90 || snap.N != 64 || snap.Params != cfg.OceanParams() {
		t.Errorf("snapshot header = frame %d n %d params %+v", snap.Frame, snap.N, snap.Params)
	}
}

// A snapshot's parameters and time regenerate its fields exactly.
func TestSnapshotReplays(t *testing.T) {
	cfg := smallConfig(t)
	g, err := NewGameWithOptions(cfg, Options{Headless: true, SnapshotDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Unload()
	for i := 0; i < 7; i++ {
		if err := g.UpdateHeadless(); err != nil {
			t.Fatal(err)
		}
	}
	snap := telemetry.NewSnapshot(cfg.OceanParams(), g.Frame(), g.Fields(), nil)

	sim, err := ocean.Initialize(snap.Params, cfg.OceanOptions()...)
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Close()
	f, err := sim.StepFrame(snap.Time)
	if err != nil {
		t.Fatal(err)
	}
	for i := range f.Height {
		if f.Height[i] != snap.Height[i] {
			t.Fatalf("replayed Height[%d] = %v, want %v", i, f.Height[i], snap.Height[i])
		}
	}
}

func TestNewGameRejectsBadCompute(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Compute.Backend = "tpu"
	_, err := NewGameWithOptions(cfg, Options{Headless: true})
	if !errors.Is(err, ocean.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestExpectedHsComputedOnce(t *testing.T) {
	cfg := smallConfig(t)
	g, err := NewGameWithOptions(cfg, Options{Headless: true, OutputDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Unload()

	want := ocean.ExpectedHs(cfg.OceanParams())
	if want <= 0 || g.ExpectedHs() != want {
		t.Errorf("ExpectedHs = %v, want %v", g.ExpectedHs(), want)
	}

	// Later edits to the config do not touch the cached value.
	cfg.Ocean.Amplitude *= 4
	if g.ExpectedHs() != want {
		t.Errorf("ExpectedHs changed to %v after config edit", g.ExpectedHs())
	}
}
