package device

import (
	"testing"

	"github.com/foxis/trackcore/pkg/frame"
	"github.com/foxis/trackcore/pkg/relation"
	"github.com/foxis/trackcore/pkg/xrmath"
	"github.com/stretchr/testify/require"
)

func TestThreeDOFDevicePushImuUpdatesTrackedPose(t *testing.T) {
	d := NewThreeDOFDevice(nil, xrmath.PoseIdentity())

	for i := int64(0); i <= 1000; i++ {
		require.NoError(t, d.PushImu(frame.ImuSample{
			TimestampNs: i * int64(time1ms),
			Accel:       [3]float32{0, -9.8066, 0},
			Gyro:        [3]float32{0, 0, 0},
		}))
	}

	r := d.GetTrackedPose("orientation", 1_000_000_000)
	require.True(t, r.Flags.Has(relation.OrientationValid))
	require.InDelta(t, 1, r.Pose.Orientation[3], 1e-3)
}

const time1ms = 1_000_000

func TestThreeDOFDeviceDropsTimestampRegression(t *testing.T) {
	d := NewThreeDOFDevice(nil, xrmath.PoseIdentity())
	require.NoError(t, d.PushImu(frame.ImuSample{TimestampNs: 1000}))
	require.NoError(t, d.PushImu(frame.ImuSample{TimestampNs: 500}))
	require.Equal(t, int64(1000), d.lastImuTsNs)
}

func TestThreeDOFDeviceAppliesOffsetPose(t *testing.T) {
	offset := xrmath.Pose{Orientation: xrmath.QuatIdentity(), Position: xrmath.Vec3{1, 0, 0}}
	d := NewThreeDOFDevice(nil, offset)
	r := d.GetTrackedPose("orientation", 0)
	require.Equal(t, float32(1), r.Pose.Position[0])
}

func TestThreeDOFDeviceUnsupportedCapabilities(t *testing.T) {
	d := NewThreeDOFDevice(nil, xrmath.PoseIdentity())
	_, ok := d.GetHandTracking(0)
	require.False(t, ok)
	require.ErrorIs(t, d.SetOutput("haptic", HapticDescriptor{}), ErrUnknownOutput)
	require.Len(t, d.GetViewPoses(0), 1)
}

func TestThreeDOFDeviceCloseWithoutReaderIsNoop(t *testing.T) {
	d := NewThreeDOFDevice(nil, xrmath.PoseIdentity())
	require.NoError(t, d.Close())
}
