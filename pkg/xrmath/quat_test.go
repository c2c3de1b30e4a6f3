package xrmath

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/require"
)

func angularDistance(a, b Quat) float32 {
	d := math32.Abs(QuatDot(a, b))
	if d > 1 {
		d = 1
	}
	return 2 * math32.Acos(d)
}

// For unit quaternions in the upper hemisphere, from(to(q)) == q
// within 1e-3 angular distance.
func TestQuatSwingTwistRoundTrip(t *testing.T) {
	cases := []Quat{
		QuatIdentity(),
		QuatFromAngleVector(0.3, Vec3Normalize(Vec3{1, 0, 0})),
		QuatFromAngleVector(0.6, Vec3Normalize(Vec3{0, 1, 0})),
		QuatFromAngleVector(0.9, Vec3Normalize(Vec3{1, 1, 1})),
	}
	for _, q := range cases {
		if q[3] < 0 {
			q = Quat{-q[0], -q[1], -q[2], -q[3]}
		}
		swing, twist := QuatToSwingTwist(q)
		got := QuatFromSwingTwist(swing, twist)
		require.Less(t, angularDistance(q, got), float32(1e-3))
	}
}

// A double swing-twist round trip agrees with itself within 1e-3,
// even outside the valid hemisphere.
func TestQuatDoubleRoundTripAgreesWithItself(t *testing.T) {
	q := QuatFromAngleVector(2.5, Vec3Normalize(Vec3{0.2, 0.6, 0.3}))
	swing1, twist1 := QuatToSwingTwist(q)
	r1 := QuatFromSwingTwist(swing1, twist1)
	swing2, twist2 := QuatToSwingTwist(r1)
	r2 := QuatFromSwingTwist(swing2, twist2)
	require.Less(t, angularDistance(r1, r2), float32(1e-3))
}

// For |omega*dt| < pi, the log map recovers exp's input within 1e-5.
func TestExpLogRoundTrip(t *testing.T) {
	omegas := []Vec3{
		{0, 0, 0},
		{0.1, 0, 0},
		{0, 2.0, 0},
		{0.5, -0.7, 1.1},
		{1e-6, 1e-6, 1e-6},
	}
	const dt = float32(0.5)
	for _, omega := range omegas {
		if Vec3Length(Vec3ScalarMul(omega, dt)) >= math32.Pi {
			continue
		}
		q := QuatIntegrateVelocity(QuatIdentity(), omega, dt)
		back := quatLogCompanion(q)
		want := Vec3ScalarMul(omega, dt)
		for i := range back {
			require.InDelta(t, want[i], back[i], 1e-5)
		}
	}
}

func TestQuatSlerpHandlesAntipode(t *testing.T) {
	a := QuatIdentity()
	b := Quat{-0 - 0, 0, 0, -1} // antipode of identity
	got := QuatSlerp(a, b, 0.5)
	require.InDelta(t, float32(1), QuatLength(got), 1e-4)
}

// The left-to-right handed transform is its own inverse.
func TestChangeOfBasis(t *testing.T) {
	q := QuatFromAngleVector(1.2, Vec3Normalize(Vec3{1, 2, 3}))
	once := QuatLeftToRightHanded(q)
	twice := QuatLeftToRightHanded(once)
	for i := range q {
		require.InDelta(t, q[i], twice[i], 1e-3)
	}
}

func TestQuatRotateVec3PreservesLength(t *testing.T) {
	q := QuatFromAngleVector(0.7, Vec3Normalize(Vec3{0, 1, 0}))
	v := Vec3{1, 2, 3}
	rotated := QuatRotateVec3(q, v)
	require.InDelta(t, Vec3Length(v), Vec3Length(rotated), 1e-4)
}

func TestQuatFromPlusXZ(t *testing.T) {
	q := QuatFromPlusXZ(Vec3{1, 0, 0}, Vec3{0, 0, 1})
	require.InDelta(t, float32(1), QuatLength(q), 1e-4)
	// Identity basis should produce identity rotation (up to sign).
	require.InDelta(t, float32(1), math32.Abs(q[3]), 1e-4)
}

func TestQuatEnsureNormalizedDetectsCorruption(t *testing.T) {
	_, ok := QuatEnsureNormalized(Quat{5, 5, 5, 5}, 1e-3)
	require.False(t, ok)
	q, ok := QuatEnsureNormalized(Quat{1, 0, 0, 1e-7}, 1e-3)
	require.True(t, ok)
	require.InDelta(t, float32(1), QuatLength(q), 1e-4)
}
