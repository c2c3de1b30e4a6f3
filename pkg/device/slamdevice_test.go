package device

import (
	"context"
	"errors"
	"testing"

	"github.com/foxis/trackcore/pkg/frame"
	"github.com/foxis/trackcore/pkg/hand"
	"github.com/foxis/trackcore/pkg/slam"
	"github.com/foxis/trackcore/pkg/xrmath"
	"github.com/stretchr/testify/require"
)

// stubEngine is a minimal slam.ExternalSLAM that never produces a pose,
// enough to exercise the device-layer wiring without re-testing the
// adapter's own prediction arithmetic (covered in pkg/slam).
type stubEngine struct{}

func (stubEngine) Initialize(ctx context.Context) error { return nil }
func (stubEngine) Start() error                         { return nil }
func (stubEngine) Stop() error                          { return nil }
func (stubEngine) Finalize() error                      { return nil }
func (stubEngine) PushImuSample(ts int64, accel, gyro xrmath.Vec3) error { return nil }
func (stubEngine) PushFrame(ts int64, cameraIndex, width, height, stride int, data []byte) error {
	return nil
}
func (stubEngine) TryDequeuePose() (int64, xrmath.Pose, bool) { return 0, xrmath.Pose{}, false }
func (stubEngine) SupportsFeature(name string) bool            { return false }
func (stubEngine) UseFeature(name string, enabled bool) error  { return nil }

func newTestSLAMDevice(t *testing.T) *SLAMDevice {
	t.Helper()
	adapter, err := slam.New(stubEngine{})
	require.NoError(t, err)
	return NewSLAMDevice(adapter, xrmath.PoseIdentity())
}

func TestSLAMDeviceGetTrackedPoseWithoutAnyPoseIsInvalid(t *testing.T) {
	d := newTestSLAMDevice(t)
	r := d.GetTrackedPose("head", 100)
	require.Equal(t, uint8(0), uint8(r.Flags))
}

func TestSLAMDeviceGetViewPosesReturnsTwoEyes(t *testing.T) {
	d := newTestSLAMDevice(t)
	poses := d.GetViewPoses(0)
	require.Len(t, poses, 2)
	require.Equal(t, poses[0], poses[1])
}

func TestSLAMDeviceHandTrackingUnsetReturnsFalse(t *testing.T) {
	d := newTestSLAMDevice(t)
	_, ok := d.GetHandTracking(0)
	require.False(t, ok)
}

func TestSLAMDeviceHandTrackingSolvesAfterKeypointsSet(t *testing.T) {
	d := newTestSLAMDevice(t)
	s := hand.NewRestingSkeleton(1.0, false)
	keypoints := make([]xrmath.Vec3, hand.KeypointCount)
	for i := range keypoints {
		keypoints[i] = xrmath.Vec3{float32(i) * 0.01, 0, 0}
	}

	d.SetHandKeypoints(s, keypoints)
	js, ok := d.GetHandTracking(0)
	require.True(t, ok)
	require.True(t, js.Valid())
}

func TestSLAMDeviceSetOutputClampsAmplitude(t *testing.T) {
	d := newTestSLAMDevice(t)
	require.NoError(t, d.SetOutput("haptic", HapticDescriptor{Amplitude: 5}))
	require.Equal(t, float32(1), d.haptics["haptic"].Amplitude)
}

func TestSLAMDeviceSetOutputUnknownName(t *testing.T) {
	d := newTestSLAMDevice(t)
	require.ErrorIs(t, d.SetOutput("rumble", HapticDescriptor{}), ErrUnknownOutput)
}

func TestSLAMDeviceCloseDestroysAdapter(t *testing.T) {
	d := newTestSLAMDevice(t)
	require.NoError(t, d.Close())
	require.Equal(t, slam.StateDestroyed, d.adapter.State())
}

// failingStartEngine fails in Start, exercising the constructor's
// LIFO unwind of already-initialized sub-resources.
type failingStartEngine struct {
	stubEngine
	stopped   bool
	finalized bool
}

func (e *failingStartEngine) Start() error    { return errStartFailed }
func (e *failingStartEngine) Stop() error     { e.stopped = true; return nil }
func (e *failingStartEngine) Finalize() error { e.finalized = true; return nil }

var errStartFailed = errors.New("engine start failed")

func TestNewRunningSLAMDeviceUnwindsOnStartFailure(t *testing.T) {
	engine := &failingStartEngine{}
	_, err := NewRunningSLAMDevice(context.Background(), engine, xrmath.PoseIdentity())
	require.ErrorIs(t, err, errStartFailed)
	require.True(t, engine.stopped)
	require.True(t, engine.finalized)
}

func TestNewRunningSLAMDeviceStartsAdapter(t *testing.T) {
	d, err := NewRunningSLAMDevice(context.Background(), stubEngine{}, xrmath.PoseIdentity())
	require.NoError(t, err)
	require.Equal(t, slam.StateRunning, d.adapter.State())
	require.NoError(t, d.Close())
}

func TestUpdateInputsRefreshesTimestamp(t *testing.T) {
	d := newTestSLAMDevice(t)
	require.Zero(t, d.InputsUpdatedNs())
	require.NoError(t, d.UpdateInputs())
	require.NotZero(t, d.InputsUpdatedNs())
}

func TestStereoSinkDropsUnpairedRightFrame(t *testing.T) {
	d := newTestSLAMDevice(t)
	stereo := d.StereoSink()

	r := frame.New(make([]byte, 4), 2, 2, 2, frame.FormatGray8, 100, nil)
	require.NoError(t, stereo.RightSink().PushFrame(r))
	// The unpaired right frame never reached the adapter, so its
	// per-camera monotonic guard is still unset.
	l := frame.New(make([]byte, 4), 2, 2, 2, frame.FormatGray8, 100, nil)
	require.NoError(t, stereo.LeftSink().PushFrame(l))
}
