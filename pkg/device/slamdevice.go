package device

import (
	"context"
	"sync"

	"github.com/foxis/trackcore/internal/clock"
	"github.com/foxis/trackcore/internal/xrlog"
	"github.com/foxis/trackcore/pkg/frame"
	"github.com/foxis/trackcore/pkg/hand"
	"github.com/foxis/trackcore/pkg/relation"
	"github.com/foxis/trackcore/pkg/slam"
	"github.com/foxis/trackcore/pkg/xrmath"
)

// SLAMDevice is a device kind backed by a visual-inertial SLAM
// adapter, the other concrete Device kind alongside ThreeDOFDevice.
type SLAMDevice struct {
	mu         sync.Mutex
	adapter    *slam.Adapter
	clock      *ClockSync
	offsetPose xrmath.Pose

	hand      *hand.Skeleton
	handKeys  []xrmath.Vec3
	haveHands bool

	haptics         map[string]HapticDescriptor
	inputsUpdatedNs int64

	reader *reader
}

// NewSLAMDevice constructs a SLAMDevice around an already-configured
// slam.Adapter. offsetPose is the device's tracking-origin correction
// applied after prediction.
func NewSLAMDevice(adapter *slam.Adapter, offsetPose xrmath.Pose) *SLAMDevice {
	return &SLAMDevice{
		adapter:    adapter,
		clock:      NewClockSync(DefaultClockAlpha),
		offsetPose: offsetPose,
		haptics:    map[string]HapticDescriptor{"haptic": {}},
	}
}

// NewRunningSLAMDevice builds the adapter around engine, initializes
// and starts it, and returns the wired device. On any failure the
// successfully initialized sub-resources are torn down in LIFO order
// before the error is returned.
func NewRunningSLAMDevice(ctx context.Context, engine slam.ExternalSLAM, offsetPose xrmath.Pose, opts ...slam.Option) (*SLAMDevice, error) {
	adapter, err := slam.New(engine, opts...)
	if err != nil {
		return nil, wrapf("construct slam adapter", err)
	}

	var cleanup []func()
	unwind := func(op string, err error) (*SLAMDevice, error) {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
		return nil, wrapf(op, err)
	}

	if err := adapter.Initialize(ctx); err != nil {
		return unwind("initialize slam adapter", err)
	}
	cleanup = append(cleanup, func() { _ = adapter.Destroy() })

	if err := adapter.StartRunning(); err != nil {
		return unwind("start slam adapter", err)
	}

	return NewSLAMDevice(adapter, offsetPose), nil
}

// StereoSink wraps the adapter's per-eye sinks in a pair-order
// enforcing sink: a right frame whose left partner has not arrived yet
// is dropped together with its pair.
func (d *SLAMDevice) StereoSink() *frame.StereoPairSink {
	return frame.NewStereoPairSink(d.adapter.LeftSink(), d.adapter.RightSink())
}

// ImuSink, LeftSink, RightSink, GroundTruthSink expose the device's
// fan-in points for a FrameContext to wire reader-thread output into,
// delegating directly to the underlying slam.Adapter.
func (d *SLAMDevice) ImuSink() frame.ImuSink          { return d.adapter.ImuSink() }
func (d *SLAMDevice) LeftSink() frame.FrameSink       { return d.adapter.LeftSink() }
func (d *SLAMDevice) RightSink() frame.FrameSink      { return d.adapter.RightSink() }
func (d *SLAMDevice) GroundTruthSink() frame.PoseSink { return d.adapter.GroundTruthSink() }

// UpdateInputs refreshes the device's cached input timestamp to now,
// so button/axis consumers observe a fresh last-updated time.
func (d *SLAMDevice) UpdateInputs() error {
	d.mu.Lock()
	d.inputsUpdatedNs = clock.NowNanos()
	d.mu.Unlock()
	return nil
}

// InputsUpdatedNs reports when UpdateInputs last ran, 0 if never.
func (d *SLAMDevice) InputsUpdatedNs() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inputsUpdatedNs
}

// GetTrackedPose builds the device's relation chain: the SLAM
// adapter's flush+predict+filter snapshot, then the tracking-origin
// offset pose.
func (d *SLAMDevice) GetTrackedPose(inputName string, atNs int64) relation.Relation {
	r := d.adapter.GetTrackedPose(atNs)

	var chain relation.Chain
	_ = chain.PushRelation(r)
	_ = chain.PushPoseIfNotIdentity(d.offsetPose)
	return chain.Resolve()
}

// GetViewPoses returns the single head pose shared by both eyes; a
// per-eye offset (device-from-camera isometry, pkg/calib.CameraCalibration)
// is the caller's responsibility to apply, since it is render-path state
// this package does not own.
func (d *SLAMDevice) GetViewPoses(atNs int64) []xrmath.Pose {
	r := d.GetTrackedPose("view", atNs)
	return []xrmath.Pose{r.Pose, r.Pose}
}

// SetHandKeypoints feeds the 21 triangulated keypoints the upstream
// perception stage produced; the next GetHandTracking call solves
// against them.
func (d *SLAMDevice) SetHandKeypoints(skeleton *hand.Skeleton, keypoints []xrmath.Vec3) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hand = skeleton
	d.handKeys = keypoints
	d.haveHands = skeleton != nil && len(keypoints) > 0
}

// GetHandTracking solves the hand IK against the most recently set
// keypoints and returns the resulting JointSet.
func (d *SLAMDevice) GetHandTracking(atNs int64) (hand.JointSet, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.haveHands {
		return hand.JointSet{}, false
	}
	return hand.SolveJointSet(d.hand, d.handKeys), true
}

// SetOutput stores a haptic descriptor for the named output; amplitude
// is clamped into [0,1], with 0 disabling the actuator.
func (d *SLAMDevice) SetOutput(name string, descriptor HapticDescriptor) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.haptics[name]; !ok {
		return ErrUnknownOutput
	}
	descriptor.Amplitude = clampAmplitude(descriptor.Amplitude)
	d.haptics[name] = descriptor
	return nil
}

// AttachReader wires a transport+decoder pair to run on its own
// goroutine, feeding this device's ClockSync. Frames pushed through the
// device's sinks keep the timestamps they arrive with; SLAMDevice does
// not convert them through ClockSync.
func (d *SLAMDevice) AttachReader(t Transport, dec Decoder) {
	d.reader = startReader(t, dec, d.clock, xrlog.Log)
}

// Close stops the reader goroutine (if any) and tears down the SLAM
// adapter.
func (d *SLAMDevice) Close() error {
	var readerErr error
	if d.reader != nil {
		readerErr = d.reader.Stop()
	}
	if err := d.adapter.Destroy(); err != nil {
		return wrapf("close slam adapter", err)
	}
	return readerErr
}

var _ Device = (*ThreeDOFDevice)(nil)
var _ Device = (*SLAMDevice)(nil)
