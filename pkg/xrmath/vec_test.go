package xrmath

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/require"
)

func TestVec3CrossIsRightHanded(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	require.Equal(t, Vec3{0, 0, 1}, Vec3Cross(x, y))
}

func TestVec3NormalizeUnitLength(t *testing.T) {
	v := Vec3Normalize(Vec3{3, 4, 0})
	require.InDelta(t, float32(1), Vec3Length(v), 1e-6)
}

func TestVec3NormalizeZeroVectorUnchanged(t *testing.T) {
	require.Equal(t, Vec3{}, Vec3Normalize(Vec3{}))
}

func TestVec3AccumFusedMultiplyAdd(t *testing.T) {
	got := Vec3Accum(Vec3{1, 1, 1}, 2, Vec3{1, 2, 3})
	require.Equal(t, Vec3{3, 5, 7}, got)
}

func TestVec3LerpEndpoints(t *testing.T) {
	a, b := Vec3{0, 0, 0}, Vec3{10, 0, 0}
	require.Equal(t, a, Vec3Lerp(a, b, 0))
	require.Equal(t, b, Vec3Lerp(a, b, 1))
	require.Equal(t, Vec3{5, 0, 0}, Vec3Lerp(a, b, 0.5))
}

func TestVec3ValidateRejectsNaNAndInf(t *testing.T) {
	require.True(t, Vec3Validate(Vec3{1, 2, 3}))
	require.False(t, Vec3Validate(Vec3{math32.NaN(), 0, 0}))
	require.False(t, Vec3Validate(Vec3{math32.Inf(1), 0, 0}))
}

func TestVec3DotOrthogonalIsZero(t *testing.T) {
	require.Equal(t, float32(0), Vec3Dot(Vec3{1, 0, 0}, Vec3{0, 1, 0}))
}
