package relation

import (
	"testing"

	"github.com/foxis/trackcore/pkg/xrmath"
	"github.com/stretchr/testify/require"
)

// A chain of one orientation-only step and one position-only step
// resolves to both halves valid with no tracking claim.
func TestPoseValidityUpgrade(t *testing.T) {
	a := Relation{Flags: OrientationValid, Pose: xrmath.Pose{Orientation: xrmath.QuatFromAngleVector(0.5, xrmath.Vec3{0, 1, 0})}}
	b := Relation{Flags: PositionValid, Pose: xrmath.Pose{Position: xrmath.Vec3{1, 0, 0}}}

	var c Chain
	require.NoError(t, c.PushRelation(a))
	require.NoError(t, c.PushRelation(b))
	out := c.Resolve()

	require.True(t, out.Flags.Has(OrientationValid))
	require.True(t, out.Flags.Has(PositionValid))
	require.False(t, out.Flags.Has(OrientationTracked))
	require.False(t, out.Flags.Has(PositionTracked))
}

// TestComposeBothPositionOnlyStillValidatesOrientation guards against
// conditioning OrientationValid/PositionValid on which side contributed
// that component instead of setting both unconditionally on every
// successful compose: two position-only inputs have no orientation
// contribution from either side, which an OR-based condition would
// leave OrientationValid unset.
func TestComposeBothPositionOnlyStillValidatesOrientation(t *testing.T) {
	a := Relation{Flags: PositionValid, Pose: xrmath.Pose{Position: xrmath.Vec3{1, 0, 0}}}
	b := Relation{Flags: PositionValid, Pose: xrmath.Pose{Position: xrmath.Vec3{0, 1, 0}}}

	out := Compose(a, b)
	require.True(t, out.Flags.Has(OrientationValid))
	require.True(t, out.Flags.Has(PositionValid))
	require.False(t, out.Flags.Has(OrientationTracked))
}

// Any step with neither pose half valid collapses the whole chain to
// the flags-cleared relation.
func TestBrokenChainShortCircuit(t *testing.T) {
	var c Chain
	require.NoError(t, c.PushPose(xrmath.PoseIdentity()))
	require.NoError(t, c.PushRelation(Relation{}))
	require.NoError(t, c.PushPose(xrmath.Pose{Position: xrmath.Vec3{1, 2, 3}}))

	out := c.Resolve()
	require.Equal(t, Flags(0), out.Flags)
}

// A pure pose step composed under a fully valid relation accumulates
// translation and stays untracked.
func TestResolveAccumulatesTranslationUntracked(t *testing.T) {
	var c Chain
	require.NoError(t, c.PushPose(xrmath.Pose{Position: xrmath.Vec3{0, 1, 0}}))
	require.NoError(t, c.PushRelation(Relation{
		Flags: AllValid,
		Pose:  xrmath.Pose{Orientation: xrmath.QuatIdentity(), Position: xrmath.Vec3{1, 0, 0}},
	}))

	out := c.Resolve()
	require.InDelta(t, float32(1), out.Pose.Position[0], 1e-5)
	require.InDelta(t, float32(1), out.Pose.Position[1], 1e-5)
	require.InDelta(t, float32(0), out.Pose.Position[2], 1e-5)
	require.True(t, out.Flags.Has(OrientationValid))
	require.True(t, out.Flags.Has(PositionValid))
	require.False(t, out.Flags.Has(OrientationTracked))
	require.False(t, out.Flags.Has(PositionTracked))
}

func TestChainFullReturnsError(t *testing.T) {
	var c Chain
	for i := 0; i < ChainCapacity; i++ {
		require.NoError(t, c.PushPose(xrmath.PoseIdentity()))
	}
	require.ErrorIs(t, c.PushPose(xrmath.PoseIdentity()), ErrChainFull)
}

func TestPushPoseIfNotIdentitySkipsIdentity(t *testing.T) {
	var c Chain
	require.NoError(t, c.PushPoseIfNotIdentity(xrmath.PoseIdentity()))
	require.Equal(t, 0, c.Len())
	require.NoError(t, c.PushPoseIfNotIdentity(xrmath.Pose{Position: xrmath.Vec3{1, 0, 0}}))
	require.Equal(t, 1, c.Len())
}
