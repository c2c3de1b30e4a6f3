package device

import "sync"

// DefaultClockAlpha is the EWMA smoothing factor for the clock offset
// estimate: offset <- alpha*offset_prev + (1-alpha)*(now - hw_ts).
const DefaultClockAlpha = 0.95

// ClockSync estimates the offset between a device's own hardware clock
// and the host monotonic clock, an exponentially-weighted moving
// average seeded on the first sample. IMU samples are preferred as the
// update source (smallest transmission jitter); the cached offset is
// reused for camera frames arriving between IMU samples.
type ClockSync struct {
	mu          sync.Mutex
	alpha       float64
	offsetNs    int64
	initialized bool
}

// NewClockSync constructs a ClockSync with the given EWMA alpha.
func NewClockSync(alpha float64) *ClockSync {
	return &ClockSync{alpha: alpha}
}

// Update folds in one (hwTimestampNs, monotonicNowNs) observation.
func (c *ClockSync) Update(hwTimestampNs, monotonicNowNs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sample := monotonicNowNs - hwTimestampNs
	if !c.initialized {
		c.offsetNs = sample
		c.initialized = true
		return
	}
	c.offsetNs = int64(c.alpha*float64(c.offsetNs) + (1-c.alpha)*float64(sample))
}

// ToMonotonic converts a hardware timestamp into the host monotonic
// clock using the current offset estimate. Before the first Update it
// assumes zero offset.
func (c *ClockSync) ToMonotonic(hwTimestampNs int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return hwTimestampNs + c.offsetNs
}

// Offset reports the current offset estimate, for diagnostics.
func (c *ClockSync) Offset() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offsetNs
}
