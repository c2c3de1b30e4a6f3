package xrmath

import "github.com/chewxy/math32"

// Pose is a rigid-body transform: a unit orientation plus a translation.
type Pose struct {
	Orientation Quat
	Position    Vec3
}

// PoseIdentity is the no-rotation, zero-translation pose.
func PoseIdentity() Pose {
	return Pose{Orientation: QuatIdentity()}
}

// IsIdentity reports whether p is the identity pose, treating +-0 and
// +-1 as equivalent for the quaternion real part (a common artifact of
// renormalization picking either sign of w for the same rotation).
func (p Pose) IsIdentity() bool {
	if p.Position != (Vec3{}) {
		return false
	}
	w := math32.Abs(p.Orientation[3])
	return p.Orientation[0] == 0 && p.Orientation[1] == 0 && p.Orientation[2] == 0 && math32.Abs(w-1) < 1e-6
}

// PoseCompose returns a applied to b, i.e. b expressed in a's parent
// frame: orientation = a.orientation * b.orientation, position =
// a.position + a.orientation * b.position.
func PoseCompose(a, b Pose) Pose {
	return Pose{
		Orientation: QuatNormalize(QuatRotate(a.Orientation, b.Orientation)),
		Position:    Vec3Add(a.Position, QuatRotateVec3(a.Orientation, b.Position)),
	}
}

// PoseInverse returns the inverse rigid transform.
func PoseInverse(p Pose) Pose {
	invOrient := QuatConjugate(p.Orientation)
	return Pose{
		Orientation: invOrient,
		Position:    Vec3ScalarMul(QuatRotateVec3(invOrient, p.Position), -1),
	}
}

// PoseInterpolate interpolates position (LERP) and orientation (SLERP)
// between a and b at t in [0,1].
func PoseInterpolate(a, b Pose, t float32) Pose {
	return Pose{
		Orientation: QuatSlerp(a.Orientation, b.Orientation, t),
		Position:    Vec3Lerp(a.Position, b.Position, t),
	}
}

// PoseIntegrate advances p forward by dt seconds given constant linear
// and angular velocity, used by both prediction (relation history) and
// the SLAM adapter's straight-line + angular-exp integrator.
func PoseIntegrate(p Pose, linearVel, angularVel Vec3, dt float32) Pose {
	return Pose{
		Orientation: QuatIntegrateVelocity(p.Orientation, angularVel, dt),
		Position:    Vec3Accum(p.Position, dt, linearVel),
	}
}
