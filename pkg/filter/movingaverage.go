// Package filter implements the output filters: a time-windowed moving
// average, exponential smoothing, and the one-Euro adaptive filter.
package filter

import "github.com/foxis/trackcore/pkg/xrmath"

type sample struct {
	tNs int64
	v   xrmath.Vec3
}

// MovingAverage is a FIFO of timestamped Vec3 samples bounded by a
// configurable window length in milliseconds.
type MovingAverage struct {
	windowNs int64
	buf      []sample
}

// NewMovingAverage constructs a moving-average filter over the given
// window, in milliseconds.
func NewMovingAverage(windowMs int64) *MovingAverage {
	return &MovingAverage{windowNs: windowMs * 1_000_000}
}

// Push appends a sample and evicts anything older than the window
// relative to tNs.
func (m *MovingAverage) Push(v xrmath.Vec3, tNs int64) {
	m.buf = append(m.buf, sample{tNs, v})
	cutoff := tNs - m.windowNs
	i := 0
	for ; i < len(m.buf); i++ {
		if m.buf[i].tNs >= cutoff {
			break
		}
	}
	if i > 0 {
		m.buf = append(m.buf[:0], m.buf[i:]...)
	}
}

// Reset discards all buffered samples.
func (m *MovingAverage) Reset() { m.buf = m.buf[:0] }

// Filter computes the arithmetic mean of samples with timestamps in
// [start, stop], returning the sample count used (0 means the returned
// average is the zero vector).
func (m *MovingAverage) Filter(start, stop int64) (xrmath.Vec3, int) {
	var sum xrmath.Vec3
	count := 0
	for _, s := range m.buf {
		if s.tNs >= start && s.tNs <= stop {
			sum = xrmath.Vec3Add(sum, s.v)
			count++
		}
	}
	if count == 0 {
		return xrmath.Vec3{}, 0
	}
	return xrmath.Vec3ScalarMul(sum, 1/float32(count)), count
}

// Len reports the number of samples currently retained.
func (m *MovingAverage) Len() int { return len(m.buf) }
