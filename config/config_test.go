package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/swell/ocean"
)

func TestDefaultsMatchOceanDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}
	if got, want := cfg.OceanParams(), ocean.DefaultParams(); got != want {
		t.Errorf("OceanParams() = %+v, want %+v", got, want)
	}
}

func TestDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	d := cfg.Derived

	if want := 15.0 * 15.0 / 9.81; math.Abs(d.WindLength-want) > 1e-9 {
		t.Errorf("WindLength = %v, want %v", d.WindLength, want)
	}
	if want := 1 / (math.Sqrt2 * d.WindLength); math.Abs(d.PeakWaveNum-want) > 1e-12 {
		t.Errorf("PeakWaveNum = %v, want %v", d.PeakWaveNum, want)
	}
	if d.CellSize != 1 {
		t.Errorf("CellSize = %v, want 1", d.CellSize)
	}
	if d.DT < 16*time.Millisecond || d.DT > 17*time.Millisecond {
		t.Errorf("DT = %v, want ~16.7ms", d.DT)
	}
	if d.StatsWindowN != 600 {
		t.Errorf("StatsWindowN = %d, want 600", d.StatsWindowN)
	}
}

func TestLoadOverridesPartially(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("ocean:\n  n: 512\n  wind_direction: [0.0, 2.0]\ncompute:\n  precision: float64\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p := cfg.OceanParams()
	if p.N != 512 {
		t.Errorf("N = %d, want 512", p.N)
	}
	if p.WindDirection != (ocean.Vec2{X: 0, Y: 2}) {
		t.Errorf("WindDirection = %+v, want {0 2}", p.WindDirection)
	}
	if p.WindSpeed != 15 {
		t.Errorf("WindSpeed = %v, want default 15", p.WindSpeed)
	}
	if cfg.Compute.Precision != "float64" || cfg.Compute.Backend != "cpu" {
		t.Errorf("compute = %+v", cfg.Compute)
	}
	if cfg.Derived.CellSize != 0.5 {
		t.Errorf("CellSize = %v, want 0.5", cfg.Derived.CellSize)
	}
}

func TestLoadRejectsInvalidOcean(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"grid not power of two", "ocean:\n  n: 300\n"},
		{"grid too small", "ocean:\n  n: 32\n"},
		{"zero wind", "ocean:\n  wind_direction: [0, 0]\n"},
		{"unknown normals", "ocean:\n  normals: sobel\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, ocean.ErrInvalidConfig) {
				t.Errorf("Load error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadRejectsBadPlayback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("playback:\n  dt: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for zero dt")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	p := cfg.OceanParams()
	p.Amplitude = 1.25e-6
	p.Seed = 99
	cfg.SetOceanParams(p)

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if got := back.OceanParams(); got != p {
		t.Errorf("round trip = %+v, want %+v", got, p)
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}

func TestMustInit(t *testing.T) {
	MustInit("")
	if Cfg().Ocean.N != 256 {
		t.Errorf("Cfg().Ocean.N = %d, want 256", Cfg().Ocean.N)
	}
}
