// Package ocean computes a time-varying ocean surface (height, horizontal
// displacement, normals) from a Phillips spectrum evolved in the frequency
// domain and brought to the spatial domain with a separable 2D inverse FFT.
package ocean

import (
	"math"
	"math/bits"
)

// Grid size limits.
const (
	MinGridSize = 64
	MaxGridSize = 1024
)

// DefaultGravity is standard gravitational acceleration in m/s^2.
const DefaultGravity = 9.81

// NormalMode selects how surface normals are derived.
type NormalMode string

const (
	// NormalsSpectral inverse-transforms the slope spectrum i*k*h.
	NormalsSpectral NormalMode = "spectral"
	// NormalsFiniteDifference differences the height field across wrapped neighbours.
	NormalsFiniteDifference NormalMode = "finite_difference"
)

// Vec2 is a 2D vector in the horizontal (x, z) plane.
type Vec2 struct {
	X, Y float64
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Params holds the grid and wind parameters of one simulation.
// A Params value is immutable once handed to Initialize; changing any field
// means building a new Simulation.
type Params struct {
	N               int        // grid side length, power of two in [MinGridSize, MaxGridSize]
	PatchSize       float64    // physical side length L of the patch in meters
	WindDirection   Vec2       // any non-zero vector, normalized on use
	WindSpeed       float64    // m/s
	Amplitude       float64    // Phillips constant A
	SmallWaveCutoff float64    // damping length l for waves much shorter than the grid
	Gravity         float64    // m/s^2
	Choppiness      float64    // horizontal displacement scale lambda
	Seed            uint64     // Gaussian draw seed
	Normals         NormalMode // spectral or finite_difference
}

// DefaultParams returns the reference scenario: a 256 m patch under a
// 15 m/s wind blowing along (1, 1).
func DefaultParams() Params {
	return Params{
		N:               256,
		PatchSize:       256,
		WindDirection:   Vec2{X: 1, Y: 1},
		WindSpeed:       15,
		Amplitude:       5e-7,
		SmallWaveCutoff: 0.1,
		Gravity:         DefaultGravity,
		Choppiness:      1.0,
		Seed:            1,
		Normals:         NormalsSpectral,
	}
}

// Validate checks p against the configuration rules. It never rounds or
// clamps: every violation is reported as a *ConfigError.
func (p Params) Validate() error {
	if p.N < MinGridSize || p.N > MaxGridSize {
		return configErr("n", p.N, "must be in [64, 1024]")
	}
	if !isPowerOfTwo(p.N) {
		return configErr("n", p.N, "must be a power of two")
	}
	if !(p.PatchSize > 0) || math.IsInf(p.PatchSize, 0) {
		return configErr("patch_size", p.PatchSize, "must be a positive finite length")
	}
	if !(p.WindSpeed > 0) || math.IsInf(p.WindSpeed, 0) {
		return configErr("wind_speed", p.WindSpeed, "must be positive")
	}
	l := p.WindDirection.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return configErr("wind_direction", p.WindDirection, "must be a non-zero finite vector")
	}
	if p.Amplitude < 0 || math.IsNaN(p.Amplitude) {
		return configErr("amplitude", p.Amplitude, "must not be negative")
	}
	if p.SmallWaveCutoff < 0 || math.IsNaN(p.SmallWaveCutoff) {
		return configErr("small_wave_cutoff", p.SmallWaveCutoff, "must not be negative")
	}
	if !(p.Gravity > 0) {
		return configErr("gravity", p.Gravity, "must be positive")
	}
	if math.IsNaN(p.Choppiness) || math.IsInf(p.Choppiness, 0) {
		return configErr("choppiness", p.Choppiness, "must be finite")
	}
	switch p.Normals {
	case NormalsSpectral, NormalsFiniteDifference:
	default:
		return configErr("normals", p.Normals, "must be spectral or finite_difference")
	}
	return nil
}

// WindUnit returns the normalized wind direction.
func (p Params) WindUnit() Vec2 {
	l := p.WindDirection.Len()
	return Vec2{X: p.WindDirection.X / l, Y: p.WindDirection.Y / l}
}

// WindLength returns the largest wave length L_wind = V^2/g arising from a
// continuous wind of speed V.
func (p Params) WindLength() float64 {
	return p.WindSpeed * p.WindSpeed / p.Gravity
}

// WaveVector returns k for grid cell (i, j). The zero frequency sits at
// (N/2, N/2).
func (p Params) WaveVector(i, j int) (kx, kz float64) {
	half := p.N / 2
	scale := 2 * math.Pi / p.PatchSize
	return float64(i-half) * scale, float64(j-half) * scale
}

// CellSize returns the spatial distance between neighbouring samples.
func (p Params) CellSize() float64 {
	return p.PatchSize / float64(p.N)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// log2 returns the exponent of a power of two.
func log2(n int) int {
	return bits.TrailingZeros(uint(n))
}
