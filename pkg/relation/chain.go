package relation

import "github.com/foxis/trackcore/pkg/xrmath"

// ChainCapacity bounds Chain to a fixed-size array so it can be
// stack-allocated by callers on the rendering hot path.
const ChainCapacity = 16

// Chain is a bounded, ordered sequence of relation steps, folded
// leaves-first by Resolve.
type Chain struct {
	steps [ChainCapacity]Relation
	n     int
}

// ErrChainFull is returned by push operations once the chain is at
// capacity; callers size Chain generously enough that this indicates a
// programming error, not a runtime condition to recover from.
var ErrChainFull = errorString("relation: chain is full")

type errorString string

func (e errorString) Error() string { return string(e) }

func (c *Chain) push(r Relation) error {
	if c.n >= ChainCapacity {
		return ErrChainFull
	}
	c.steps[c.n] = r
	c.n++
	return nil
}

// PushPose pushes a valid, untracked relation at pose p: both pose
// halves valid, no velocities, no tracking claim.
func (c *Chain) PushPose(p xrmath.Pose) error {
	return c.push(Relation{
		Flags: OrientationValid | PositionValid,
		Pose:  p,
	})
}

// PushPoseIfNotIdentity pushes p only if it differs from identity,
// letting callers unconditionally call it for an optional offset
// without growing the chain when that offset happens to be a no-op.
func (c *Chain) PushPoseIfNotIdentity(p xrmath.Pose) error {
	if p.IsIdentity() {
		return nil
	}
	return c.PushPose(p)
}

// PushInvertedPoseIfNotIdentity is PushPoseIfNotIdentity over the
// inverse of p.
func (c *Chain) PushInvertedPoseIfNotIdentity(p xrmath.Pose) error {
	if p.IsIdentity() {
		return nil
	}
	return c.PushPose(xrmath.PoseInverse(p))
}

// PushRelation pushes r verbatim.
func (c *Chain) PushRelation(r Relation) error {
	return c.push(r)
}

// PushInvertedRelation pushes the inverse of r: inverted pose, and
// velocities negated and rotated into the inverted frame.
func (c *Chain) PushInvertedRelation(r Relation) error {
	invPose := xrmath.PoseInverse(r.Pose)
	invOrient := invPose.Orientation
	inv := Relation{
		Flags:           r.Flags,
		Pose:            invPose,
		LinearVelocity:  xrmath.Vec3ScalarMul(xrmath.QuatRotateVec3(invOrient, r.LinearVelocity), -1),
		AngularVelocity: xrmath.Vec3ScalarMul(xrmath.QuatRotateVec3(invOrient, r.AngularVelocity), -1),
	}
	return c.push(inv)
}

// Len reports the number of pushed steps.
func (c *Chain) Len() int { return c.n }

// Reset empties the chain for reuse.
func (c *Chain) Reset() { c.n = 0 }

// Resolve folds the chain leaves-first into a single relation, from the
// last-pushed step back to the first. Any step
// with neither orientation nor position valid short-circuits the whole
// chain to the flags-cleared relation; velocities never propagate
// through a broken chain.
func (c *Chain) Resolve() Relation {
	if c.n == 0 {
		return Zero()
	}
	for i := 0; i < c.n; i++ {
		if !c.steps[i].Flags.Has(OrientationValid) && !c.steps[i].Flags.Has(PositionValid) {
			return Invalid()
		}
	}
	out := c.steps[c.n-1]
	for i := c.n - 2; i >= 0; i-- {
		out = Compose(out, c.steps[i])
	}
	out.Pose.Orientation = xrmath.QuatNormalize(out.Pose.Orientation)
	return out
}
