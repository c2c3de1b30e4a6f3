package xrmath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatrix4x4IsometryInverseRoundTrip(t *testing.T) {
	p := Pose{
		Orientation: QuatFromAngleVector(0.9, Vec3Normalize(Vec3{1, 1, 0})),
		Position:    Vec3{1, 2, 3},
	}
	m := Matrix4x4IsometryFromPose(p)
	inv := Matrix4x4IsometryInverse(m)
	identity := multiply4x4(m, inv)
	want := Matrix4x4Identity()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			require.InDelta(t, want[i][j], identity[i][j], 1e-4)
		}
	}
}

func multiply4x4(a, b Matrix4x4) Matrix4x4 {
	var out Matrix4x4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float32
			for k := 0; k < 4; k++ {
				s += a[i][k] * b[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

func TestMatrix3x3InverseSingular(t *testing.T) {
	_, ok := Matrix3x3Inverse(Matrix3x3{})
	require.False(t, ok)
}

func TestMatrix3x3SwitchXY(t *testing.T) {
	m := Matrix3x3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	swapped := Matrix3x3SwitchXY(m)
	require.Equal(t, m[1], swapped[0])
	require.Equal(t, m[0], swapped[1])
}

func TestMatrix4x4ViewFromPoseIsInverse(t *testing.T) {
	p := Pose{Orientation: QuatIdentity(), Position: Vec3{1, 0, 0}}
	view := Matrix4x4ViewFromPose(p)
	require.InDelta(t, float32(-1), view[0][3], 1e-4)
}
