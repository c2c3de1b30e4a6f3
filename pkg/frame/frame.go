// Package frame implements the frame graph: reference-counted video
// frames, single-method sink interfaces, and the process-wide
// FrameContext that owns deterministic two-phase teardown of the
// pipeline's nodes. Frames carry an explicit atomic refcount plus a
// release hook so a zero-copy consumer (the gocv.Mat wrapper in
// pkg/slam) can be the one thing that drops the last reference.
package frame

import (
	"sync/atomic"

	"github.com/foxis/trackcore/internal/xrlog"
)

// PixelFormat identifies the layout of Data.
type PixelFormat int

const (
	FormatUnknown PixelFormat = iota
	FormatGray8
	FormatBGR8
	FormatYUYV
)

// Frame is a reference-counted video frame. The zero value is not
// usable; construct with New.
type Frame struct {
	Data            []byte
	Width           int
	Height          int
	Stride          int
	Format          PixelFormat
	TimestampNs     int64
	SourceTimestamp int64
	SourceSequence  uint64
	SourceID        int

	refcount *atomic.Int32
	release  func()
}

// New constructs a Frame with an initial reference count of 1. release,
// if non-nil, is invoked exactly once, when the last reference is
// dropped.
func New(data []byte, width, height, stride int, format PixelFormat, timestampNs int64, release func()) *Frame {
	rc := &atomic.Int32{}
	rc.Store(1)
	return &Frame{
		Data:        data,
		Width:       width,
		Height:      height,
		Stride:      stride,
		Format:      format,
		TimestampNs: timestampNs,
		refcount:    rc,
		release:     release,
	}
}

// Ref increments the reference count and returns the same Frame,
// mirroring the C convention of "acquiring" a reference before handing
// it to another consumer.
func (f *Frame) Ref() *Frame {
	f.refcount.Add(1)
	return f
}

// Release decrements the reference count, invoking the release hook
// (if any) exactly once when it reaches zero. Release is idempotent
// only across balanced Ref/Release pairs — calling it more times than
// there are outstanding references is a caller bug.
func (f *Frame) Release() {
	if f.refcount.Add(-1) == 0 && f.release != nil {
		f.release()
	}
}

// RefCount reports the current reference count, for tests and
// diagnostics.
func (f *Frame) RefCount() int32 {
	return f.refcount.Load()
}

// Clone deep-copies the frame's pixel data into a new, independently
// refcounted Frame with no release hook (the copy owns its own heap
// buffer).
func (f *Frame) Clone() *Frame {
	data := make([]byte, len(f.Data))
	copy(data, f.Data)
	clone := New(data, f.Width, f.Height, f.Stride, f.Format, f.TimestampNs, nil)
	clone.SourceTimestamp = f.SourceTimestamp
	clone.SourceSequence = f.SourceSequence
	clone.SourceID = f.SourceID
	return clone
}

// FrameSink consumes frames. Implementations must treat the passed
// Frame as borrowed: Ref it to retain beyond the call, never Release
// more times than Ref'd.
type FrameSink interface {
	PushFrame(f *Frame) error
}

// ImuSample is a single accelerometer+gyroscope reading.
type ImuSample struct {
	TimestampNs int64
	Accel       [3]float32
	Gyro        [3]float32
}

// ImuSink consumes IMU samples.
type ImuSink interface {
	PushImu(s ImuSample) error
}

// PoseSample is a single externally-sourced pose reading (e.g.
// ground-truth for error metrics).
type PoseSample struct {
	TimestampNs int64
	Position    [3]float32
	Orientation [4]float32
}

// PoseSink consumes pose samples.
type PoseSink interface {
	PushPose(s PoseSample) error
}

// Logger is the package-wide fallback logger, overridable by callers
// that construct sinks directly rather than through a FrameContext.
var Logger = xrlog.Log
