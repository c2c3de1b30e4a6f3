// Package clock provides the host monotonic-clock reading every
// per-device ClockSync estimator compares hardware timestamps against.
// It exists as its own package, rather than a private helper inside
// pkg/device, so the device reader loop and any frame-timestamp
// reconciliation code share one monotonic source.
package clock

import "time"

// base anchors NowNanos to the wall clock once; every later reading
// advances by the monotonic time elapsed since base.
var base = time.Now()

// NowNanos returns the current reading of the host monotonic clock, in
// nanoseconds, the unit every timestamp in this module is expressed in.
func NowNanos() int64 { return base.UnixNano() + int64(time.Since(base)) }
