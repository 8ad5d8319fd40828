// Package config provides configuration loading and access for the ocean simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/swell/ocean"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Ocean     OceanConfig     `yaml:"ocean"`
	Compute   ComputeConfig   `yaml:"compute"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Screen    ScreenConfig    `yaml:"screen"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	RogueWave RogueWaveConfig `yaml:"rogue_wave"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// OceanConfig holds the spectrum and grid parameters.
type OceanConfig struct {
	N               int        `yaml:"n"`                 // Grid side, power of two in [64, 1024]
	PatchSize       float64    `yaml:"patch_size"`        // Patch side length in meters
	WindDirection   [2]float64 `yaml:"wind_direction"`    // Normalized on use; must be non-zero
	WindSpeed       float64    `yaml:"wind_speed"`        // m/s
	Amplitude       float64    `yaml:"amplitude"`         // Phillips constant A
	SmallWaveCutoff float64    `yaml:"small_wave_cutoff"` // Damping length for tiny waves (m)
	Gravity         float64    `yaml:"gravity"`
	Choppiness      float64    `yaml:"choppiness"` // Horizontal displacement scale
	Seed            uint64     `yaml:"seed"`
	Normals         string     `yaml:"normals"` // spectral | finite_difference
}

// ComputeConfig selects where and how the transforms run.
type ComputeConfig struct {
	Backend   string `yaml:"backend"`   // cpu | opencl
	Precision string `yaml:"precision"` // float32 | float64
	Workers   int    `yaml:"workers"`   // 0 = GOMAXPROCS
}

// PlaybackConfig holds the frame clock settings.
type PlaybackConfig struct {
	DT        float64 `yaml:"dt"`         // Fixed step for headless runs (seconds)
	TimeScale float64 `yaml:"time_scale"` // Viewer playback speed
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Simulated seconds per stats row
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Frames averaged for perf stats
	SpectrumBins        int     `yaml:"spectrum_bins"`         // Radial spectrum bins
	RogueHistorySize    int     `yaml:"rogue_history_size"`    // Windows kept for Hs baseline
}

// RogueWaveConfig holds extreme-wave detection thresholds.
type RogueWaveConfig struct {
	HeightRatio   float64 `yaml:"height_ratio"`   // Crest-to-trough height over Hs
	CrestRatio    float64 `yaml:"crest_ratio"`    // Crest height over Hs
	HsShift       float64 `yaml:"hs_shift"`       // Relative Hs change that marks a new sea state
	ResidualLimit float64 `yaml:"residual_limit"` // Largest tolerated imaginary residual
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT           time.Duration // Playback.DT as a duration
	WindLength   float64       // V^2/g, the largest wind-driven wave
	PeakWaveNum  float64       // |k| where the Phillips spectrum peaks
	CellSize     float64       // Patch size / N
	ScreenW32    float32
	ScreenH32    float32
	StatsWindowN int // Frames per stats window at DT
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The ocean section is
// validated; invalid values are reported, never clamped.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.OceanParams().Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	if cfg.Playback.DT <= 0 {
		return nil, fmt.Errorf("config %q: playback.dt must be positive, got %v", path, cfg.Playback.DT)
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT = time.Duration(c.Playback.DT * float64(time.Second))
	c.Derived.WindLength = c.Ocean.WindSpeed * c.Ocean.WindSpeed / c.Ocean.Gravity
	// d/dk of exp(-1/(kL)^2)/k^4 vanishes at k = 1/(sqrt(2) L).
	c.Derived.PeakWaveNum = 1 / (math.Sqrt2 * c.Derived.WindLength)
	c.Derived.CellSize = c.Ocean.PatchSize / float64(c.Ocean.N)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.StatsWindowN = max(1, int(math.Round(c.Telemetry.StatsWindow/c.Playback.DT)))
}

// OceanParams maps the ocean and compute sections onto simulation parameters.
func (c *Config) OceanParams() ocean.Params {
	o := c.Ocean
	return ocean.Params{
		N:               o.N,
		PatchSize:       o.PatchSize,
		WindDirection:   ocean.Vec2{X: o.WindDirection[0], Y: o.WindDirection[1]},
		WindSpeed:       o.WindSpeed,
		Amplitude:       o.Amplitude,
		SmallWaveCutoff: o.SmallWaveCutoff,
		Gravity:         o.Gravity,
		Choppiness:      o.Choppiness,
		Seed:            o.Seed,
		Normals:         ocean.NormalMode(o.Normals),
	}
}

// OceanOptions returns the Initialize options for the compute section.
func (c *Config) OceanOptions() []ocean.Option {
	return []ocean.Option{
		ocean.WithBackend(ocean.Backend(c.Compute.Backend)),
		ocean.WithPrecision(ocean.Precision(c.Compute.Precision)),
		ocean.WithWorkers(c.Compute.Workers),
	}
}

// SetOceanParams writes p back into the ocean section.
func (c *Config) SetOceanParams(p ocean.Params) {
	c.Ocean = OceanConfig{
		N:               p.N,
		PatchSize:       p.PatchSize,
		WindDirection:   [2]float64{p.WindDirection.X, p.WindDirection.Y},
		WindSpeed:       p.WindSpeed,
		Amplitude:       p.Amplitude,
		SmallWaveCutoff: p.SmallWaveCutoff,
		Gravity:         p.Gravity,
		Choppiness:      p.Choppiness,
		Seed:            p.Seed,
		Normals:         string(p.Normals),
	}
	c.computeDerived()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
