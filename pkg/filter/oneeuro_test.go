package filter

import (
	"testing"

	"github.com/foxis/trackcore/pkg/xrmath"
	"github.com/stretchr/testify/require"
)

// The no-commit (Peek) run with a given (t, y) returns the same output
// as the committing run, and never mutates state.
func TestOneEuroScalarNoCommitMatchesCommit(t *testing.T) {
	f := NewOneEuroScalar(1.0, 0.01, 1.0)
	f.Filter(0, 1.0)
	f.Filter(10_000_000, 1.5)

	snapshot := *f
	peeked := f.Peek(20_000_000, 2.0)
	require.Equal(t, snapshot, *f, "Peek must not mutate filter state")

	committed := f.Filter(20_000_000, 2.0)
	require.Equal(t, peeked, committed)
}

func TestOneEuroScalarFirstSampleSeedsState(t *testing.T) {
	f := NewOneEuroScalar(1.0, 0.01, 1.0)
	out := f.Filter(0, 5.0)
	require.Equal(t, float32(5.0), out)
}

func TestOneEuroScalarSmoothsNoise(t *testing.T) {
	f := NewOneEuroScalar(1.0, 0.0, 1.0)
	f.Filter(0, 0)
	// A single large spike should be attenuated, not passed through
	// unchanged, given a low MinCutoff.
	out := f.Filter(1_000_000, 10.0)
	require.Less(t, out, float32(10.0))
	require.Greater(t, out, float32(0.0))
}

func TestOneEuroVec3NoCommitMatchesCommit(t *testing.T) {
	f := NewOneEuroVec3(1.0, 0.01, 1.0)
	f.Filter(0, xrmath.Vec3{0, 0, 0})
	f.Filter(10_000_000, xrmath.Vec3{1, 0, 0})

	snapshot := *f
	peeked := f.Peek(20_000_000, xrmath.Vec3{2, 1, 0})
	require.Equal(t, snapshot, *f)

	committed := f.Filter(20_000_000, xrmath.Vec3{2, 1, 0})
	require.Equal(t, peeked, committed)
}

func TestOneEuroQuatNoCommitMatchesCommit(t *testing.T) {
	f := NewOneEuroQuat(1.0, 0.01, 1.0)
	f.Filter(0, xrmath.QuatIdentity())
	q := xrmath.QuatFromAngleVector(0.1, xrmath.Vec3{0, 1, 0})
	f.Filter(10_000_000, q)

	snapshot := *f
	q2 := xrmath.QuatFromAngleVector(0.2, xrmath.Vec3{0, 1, 0})
	peeked := f.Peek(20_000_000, q2)
	require.Equal(t, snapshot, *f)

	committed := f.Filter(20_000_000, q2)
	require.Equal(t, peeked, committed)
}

func TestOneEuroVec2NoCommitMatchesCommit(t *testing.T) {
	f := NewOneEuroVec2(1.0, 0.01, 1.0)
	f.Filter(0, xrmath.Vec2{0, 0})
	f.Filter(10_000_000, xrmath.Vec2{1, 0})

	snapshot := *f
	peeked := f.Peek(20_000_000, xrmath.Vec2{2, 1})
	require.Equal(t, snapshot, *f)

	committed := f.Filter(20_000_000, xrmath.Vec2{2, 1})
	require.Equal(t, peeked, committed)
}

func TestOneEuroScalarResetReseeds(t *testing.T) {
	f := NewOneEuroScalar(1.0, 0.01, 1.0)
	f.Filter(0, 1.0)
	f.Filter(10_000_000, 5.0)
	f.Reset()
	out := f.Filter(20_000_000, 42.0)
	require.Equal(t, float32(42.0), out)
}
