package telemetry

import "math"

// Collector accumulates per-frame FieldStats within fixed windows and
// produces WindowStats.
type Collector struct {
	windowFrames int32
	dt           float64

	windowStartFrame int32
	lastTime         float64

	hs              []float64
	meanSum         float64
	maxCrest        float64
	minTrough       float64
	maxWaveHeight   float64
	maxSlope        float64
	maxDisplacement float64
	maxResidual     float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each window lasts in simulated seconds
// dt: seconds per frame
func NewCollector(windowDurationSec, dt float64) *Collector {
	frames := int32(math.Round(windowDurationSec / dt))
	if frames < 1 {
		frames = 1
	}
	c := &Collector{windowFrames: frames, dt: dt}
	c.reset(0)
	return c
}

// Record adds one frame.
func (c *Collector) Record(fs FieldStats) {
	c.lastTime = fs.Time
	c.hs = append(c.hs, fs.Hs)
	c.meanSum += fs.Mean
	c.maxCrest = max(c.maxCrest, fs.Crest)
	c.minTrough = min(c.minTrough, fs.Trough)
	c.maxWaveHeight = max(c.maxWaveHeight, fs.Crest-fs.Trough)
	c.maxSlope = max(c.maxSlope, fs.MaxSlope)
	c.maxDisplacement = max(c.maxDisplacement, fs.MaxDisplacement)
	c.maxResidual = max(c.maxResidual, fs.Residual)
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame int32) bool {
	return currentFrame-c.windowStartFrame >= c.windowFrames
}

// Flush produces a WindowStats and resets for the next window.
func (c *Collector) Flush(currentFrame int32) WindowStats {
	hsMean, hsP10, hsP50, hsP90 := ComputeDistribution(c.hs)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,
		SimTimeSec:       float64(currentFrame) * c.dt,
		Frames:           len(c.hs),
		HsMean:           hsMean,
		HsP10:            hsP10,
		HsP50:            hsP50,
		HsP90:            hsP90,
		MaxSlope:         c.maxSlope,
		MaxDisplacement:  c.maxDisplacement,
		MaxResidual:      c.maxResidual,
	}
	if n := len(c.hs); n > 0 {
		// Viewer frames are not evenly spaced; trust the recorded time.
		stats.SimTimeSec = c.lastTime
		stats.MeanHeight = c.meanSum / float64(n)
		stats.MaxCrest = c.maxCrest
		stats.MinTrough = c.minTrough
		stats.MaxWaveHeight = c.maxWaveHeight
	}

	c.reset(currentFrame)
	return stats
}

func (c *Collector) reset(frame int32) {
	c.windowStartFrame = frame
	c.hs = c.hs[:0]
	c.meanSum = 0
	c.maxCrest = math.Inf(-1)
	c.minTrough = math.Inf(1)
	c.maxWaveHeight = 0
	c.maxSlope = 0
	c.maxDisplacement = 0
	c.maxResidual = 0
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int32 {
	return c.windowFrames
}
