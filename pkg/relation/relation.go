// Package relation implements the space-relation algebra: pose+velocity
// with validity/tracking bits, a fixed-capacity relation chain, and an
// interpolating history buffer.
package relation

import "github.com/foxis/trackcore/pkg/xrmath"

// Flags is the validity/tracking bitset carried by every Relation.
type Flags uint8

const (
	OrientationValid Flags = 1 << iota
	PositionValid
	LinearVelValid
	AngularVelValid
	OrientationTracked
	PositionTracked
)

// AllValid is the flag set of a fully valid, untracked relation.
const AllValid = OrientationValid | PositionValid | LinearVelValid | AngularVelValid

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Relation is a pose plus linear/angular velocity and its validity bits.
type Relation struct {
	Flags          Flags
	Pose           xrmath.Pose
	LinearVelocity xrmath.Vec3
	AngularVelocity xrmath.Vec3
}

// Zero is the zero-relation: identity pose, every bit set — the
// "fully trusted, nothing happened yet" starting value, distinct from
// the broken-chain output which instead has Flags == 0.
func Zero() Relation {
	return Relation{
		Flags: OrientationValid | PositionValid | LinearVelValid | AngularVelValid |
			OrientationTracked | PositionTracked,
		Pose: xrmath.PoseIdentity(),
	}
}

// Invalid is the relation produced by a broken chain or an
// as-yet-unavailable pose: Flags == 0.
func Invalid() Relation {
	return Relation{Pose: xrmath.PoseIdentity()}
}

// upgrade fills the missing half of a one-sided pose with identity: a
// relation with only orientation (or only position) valid is treated,
// for composition purposes, as if the missing half were identity.
func upgrade(r Relation) (pose xrmath.Pose, orientationWasValid, positionWasValid bool) {
	orientationWasValid = r.Flags.Has(OrientationValid)
	positionWasValid = r.Flags.Has(PositionValid)
	pose = r.Pose
	if !orientationWasValid {
		pose.Orientation = xrmath.QuatIdentity()
	}
	if !positionWasValid {
		pose.Position = xrmath.Vec3{}
	}
	return pose, orientationWasValid, positionWasValid
}

// Compose folds B into A's parent frame: "A applied to B", i.e. B
// expressed in A's parent frame. This is the single fold step chains
// and resolution are built from.
func Compose(a, b Relation) Relation {
	if a.Flags == 0 || b.Flags == 0 {
		return Invalid()
	}

	aPose, aOrientOK, aPosOK := upgrade(a)
	bPose, bOrientOK, bPosOK := upgrade(b)

	composedPose := xrmath.PoseCompose(aPose, bPose)
	composedPose.Orientation = xrmath.QuatNormalize(composedPose.Orientation)

	linVel := xrmath.QuatRotateVec3(aPose.Orientation, b.LinearVelocity)
	linVel = xrmath.Vec3Add(linVel, a.LinearVelocity)
	tangential := xrmath.Vec3Cross(a.AngularVelocity, xrmath.QuatRotateVec3(aPose.Orientation, bPose.Position))
	linVel = xrmath.Vec3Add(linVel, tangential)

	angVel := xrmath.QuatRotateDerivative(aPose.Orientation, b.AngularVelocity)
	angVel = xrmath.Vec3Add(angVel, a.AngularVelocity)

	// Position and orientation are always VALID on a successful compose
	// (both inputs already passed the flags==0 short-circuit above),
	// regardless of which side actually had that component valid.
	flags := OrientationValid | PositionValid
	// TRACKED only propagates when both sides contributed a valid
	// component of that kind. When only one side had it, the other
	// side's contribution was identity filler, not tracked data.
	if aOrientOK && bOrientOK {
		flags |= (a.Flags | b.Flags) & OrientationTracked
	}
	if aPosOK && bPosOK {
		flags |= (a.Flags | b.Flags) & PositionTracked
	}
	flags |= (a.Flags | b.Flags) & (LinearVelValid | AngularVelValid)

	return Relation{
		Flags:           flags,
		Pose:            composedPose,
		LinearVelocity:  linVel,
		AngularVelocity: angVel,
	}
}
