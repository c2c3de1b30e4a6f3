package device

import (
	"sync"

	"github.com/foxis/trackcore/internal/xrlog"
	"github.com/foxis/trackcore/pkg/frame"
	"github.com/foxis/trackcore/pkg/fusion"
	"github.com/foxis/trackcore/pkg/hand"
	"github.com/foxis/trackcore/pkg/relation"
	"github.com/foxis/trackcore/pkg/xrmath"
)

// ThreeDOFDevice is a device kind backed only by the 3-DoF orientation
// fuser, for devices with no SLAM camera pair: orientation and angular
// velocity come from the fuser, position stays zero.
type ThreeDOFDevice struct {
	mu         sync.Mutex
	fuser      *fusion.Fuser
	history    *relation.History
	clock      *ClockSync
	offsetPose xrmath.Pose

	lastImuTsNs int64
	reader      *reader
}

// NewThreeDOFDevice constructs a ThreeDOFDevice. offsetPose is the
// device-specific tracking-origin correction, e.g. the
// imu-to-middle-of-eyes transform from calibration.
func NewThreeDOFDevice(fuserOpts []fusion.Option, offsetPose xrmath.Pose) *ThreeDOFDevice {
	return &ThreeDOFDevice{
		fuser:      fusion.New(fuserOpts...),
		history:    relation.NewHistory(relation.DefaultCapacity),
		clock:      NewClockSync(DefaultClockAlpha),
		offsetPose: offsetPose,
	}
}

// PushImu feeds one IMU sample into the fuser. Implements frame.ImuSink
// so it can be wired directly to a reader's decoder or a FrameContext.
func (d *ThreeDOFDevice) PushImu(s frame.ImuSample) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastImuTsNs != 0 && s.TimestampNs <= d.lastImuTsNs {
		return nil // timestamp regression: dropped.
	}
	d.lastImuTsNs = s.TimestampNs
	accel := xrmath.Vec3{s.Accel[0], s.Accel[1], s.Accel[2]}
	gyro := xrmath.Vec3{s.Gyro[0], s.Gyro[1], s.Gyro[2]}
	d.fuser.Update(s.TimestampNs, accel, gyro)

	r := relation.Relation{
		Flags:           relation.AllValid | relation.OrientationTracked,
		Pose:            xrmath.Pose{Orientation: d.fuser.Orientation()},
		AngularVelocity: d.fuser.AngularVelocity(),
	}
	d.history.Push(r, s.TimestampNs)
	return nil
}

// UpdateInputs is a no-op for a pure orientation device: there are no
// cached button/axis timestamps to refresh.
func (d *ThreeDOFDevice) UpdateInputs() error { return nil }

// GetTrackedPose builds the device's relation chain: fuser snapshot,
// then the tracking-origin offset pose.
func (d *ThreeDOFDevice) GetTrackedPose(inputName string, atNs int64) relation.Relation {
	d.mu.Lock()
	r := relation.Relation{
		Flags:           relation.AllValid | relation.OrientationTracked,
		Pose:            xrmath.Pose{Orientation: d.fuser.Orientation()},
		AngularVelocity: d.fuser.AngularVelocity(),
	}
	d.mu.Unlock()

	var chain relation.Chain
	_ = chain.PushRelation(r)
	_ = chain.PushPoseIfNotIdentity(d.offsetPose)
	return chain.Resolve()
}

// GetViewPoses returns a single view pose at the current orientation
// (a 3-DoF device has no stereo SLAM pair to offer distinct eyes).
func (d *ThreeDOFDevice) GetViewPoses(atNs int64) []xrmath.Pose {
	r := d.GetTrackedPose("view", atNs)
	return []xrmath.Pose{r.Pose}
}

// GetHandTracking is unsupported on a pure 3-DoF device.
func (d *ThreeDOFDevice) GetHandTracking(atNs int64) (hand.JointSet, bool) {
	return hand.JointSet{}, false
}

// SetOutput is unsupported on a pure 3-DoF device: no haptic actuator.
func (d *ThreeDOFDevice) SetOutput(name string, descriptor HapticDescriptor) error {
	return ErrUnknownOutput
}

// AttachReader wires a transport+decoder pair to run on its own
// goroutine, feeding this device's ClockSync.
func (d *ThreeDOFDevice) AttachReader(t Transport, dec Decoder) {
	d.reader = startReader(t, dec, d.clock, xrlog.Log)
}

// Close stops the reader goroutine, if any.
func (d *ThreeDOFDevice) Close() error {
	if d.reader == nil {
		return nil
	}
	return d.reader.Stop()
}
