// Package telemetry provides sea-state statistics, rogue-wave bookmarks,
// performance timing and field snapshots for the ocean simulation.
package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/swell/ocean"
)

// FieldStats summarizes one frame's surface.
type FieldStats struct {
	Time     float64
	Mean     float64 // mean height, zero up to rounding
	Variance float64
	Hs       float64 // significant wave height, 4 * stddev
	Crest    float64 // highest point
	Trough   float64 // lowest point
	// MaxSlope is the steepest |grad h| implied by the normals.
	MaxSlope float64
	// MaxDisplacement is the largest horizontal offset magnitude.
	MaxDisplacement float64
	Residual        float64
}

// Analyzer computes FieldStats. It reuses its scratch buffer across frames
// and is not safe for concurrent use.
type Analyzer struct {
	heights []float64
}

// NewAnalyzer creates an analyzer for n x n fields.
func NewAnalyzer(n int) *Analyzer {
	return &Analyzer{heights: make([]float64, n*n)}
}

// Field computes the statistics of f.
func (a *Analyzer) Field(f *ocean.Fields) FieldStats {
	if len(a.heights) != len(f.Height) {
		a.heights = make([]float64, len(f.Height))
	}
	for i, h := range f.Height {
		a.heights[i] = float64(h)
	}

	mean, variance := stat.MeanVariance(a.heights, nil)
	fs := FieldStats{
		Time:     f.Time,
		Mean:     mean,
		Variance: variance,
		Hs:       SignificantWaveHeight(variance),
		Crest:    floats.Max(a.heights),
		Trough:   floats.Min(a.heights),
		Residual: f.Residual,
	}

	for i := 0; i < len(f.Normal); i += 3 {
		ny := float64(f.Normal[i+1])
		if ny <= 0 {
			continue
		}
		s := math.Hypot(float64(f.Normal[i]), float64(f.Normal[i+2])) / ny
		fs.MaxSlope = math.Max(fs.MaxSlope, s)
	}
	for i := 0; i < len(f.Displacement); i += 2 {
		d := math.Hypot(float64(f.Displacement[i]), float64(f.Displacement[i+1]))
		fs.MaxDisplacement = math.Max(fs.MaxDisplacement, d)
	}
	return fs
}

// SignificantWaveHeight returns Hs = 4 * sqrt(variance).
func SignificantWaveHeight(variance float64) float64 {
	return 4 * math.Sqrt(variance)
}

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int32   `csv:"-"`
	WindowEndFrame   int32   `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`
	Frames           int     `csv:"frames"`

	MeanHeight float64 `csv:"mean_height"`

	// Hs distribution over the window's frames
	HsMean float64 `csv:"hs_mean"`
	HsP10  float64 `csv:"hs_p10"`
	HsP50  float64 `csv:"hs_p50"`
	HsP90  float64 `csv:"hs_p90"`

	// Extremes over the window
	MaxCrest        float64 `csv:"max_crest"`
	MinTrough       float64 `csv:"min_trough"`
	MaxWaveHeight   float64 `csv:"max_wave_height"` // largest crest minus trough in a single frame
	MaxSlope        float64 `csv:"max_slope"`
	MaxDisplacement float64 `csv:"max_displacement"`
	MaxResidual     float64 `csv:"max_residual"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean and percentiles of values.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartFrame)),
		slog.Int("window_end", int(s.WindowEndFrame)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("frames", s.Frames),
		slog.Float64("mean_height", s.MeanHeight),
		slog.Float64("hs_mean", s.HsMean),
		slog.Float64("hs_p10", s.HsP10),
		slog.Float64("hs_p50", s.HsP50),
		slog.Float64("hs_p90", s.HsP90),
		slog.Float64("max_crest", s.MaxCrest),
		slog.Float64("min_trough", s.MinTrough),
		slog.Float64("max_wave_height", s.MaxWaveHeight),
		slog.Float64("max_slope", s.MaxSlope),
		slog.Float64("max_displacement", s.MaxDisplacement),
		slog.Float64("max_residual", s.MaxResidual),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTimeSec,
		"frames", s.Frames,
		"mean_height", s.MeanHeight,
		"hs_mean", s.HsMean,
		"hs_p50", s.HsP50,
		"max_crest", s.MaxCrest,
		"min_trough", s.MinTrough,
		"max_wave_height", s.MaxWaveHeight,
		"max_slope", s.MaxSlope,
		"max_residual", s.MaxResidual,
	)
}
