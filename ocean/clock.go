package ocean

import "time"

// Clock accumulates frame deltas as integer nanoseconds so that long runs
// do not lose float precision in the accumulated time itself.
type Clock struct {
	elapsed time.Duration
	scale   float64
}

// NewClock returns a clock at zero running at real speed.
func NewClock() *Clock {
	return &Clock{scale: 1}
}

// Advance adds dt, multiplied by the time scale, and returns the new time.
func (c *Clock) Advance(dt time.Duration) float64 {
	c.elapsed += time.Duration(float64(dt) * c.scale)
	return c.Seconds()
}

// Seconds returns the elapsed time in seconds.
func (c *Clock) Seconds() float64 {
	return c.elapsed.Seconds()
}

// Elapsed returns the elapsed time.
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}

// SetScale sets the playback speed. Negative values run time backwards.
func (c *Clock) SetScale(s float64) {
	c.scale = s
}

// Scale returns the playback speed.
func (c *Clock) Scale() float64 {
	return c.scale
}

// Reset returns the clock to zero.
func (c *Clock) Reset() {
	c.elapsed = 0
}
