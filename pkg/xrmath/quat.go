package xrmath

import "github.com/chewxy/math32"

// Quat is a unit quaternion stored {x, y, z, w} — the scalar part is
// the last component.
type Quat [4]float32

// QuatIdentity is the no-rotation quaternion.
func QuatIdentity() Quat { return Quat{0, 0, 0, 1} }

func (q Quat) Vec() Vec3  { return Vec3{q[0], q[1], q[2]} }
func (q Quat) W() float32 { return q[3] }

func QuatDot(a, b Quat) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}

func QuatLengthSqr(q Quat) float32 { return QuatDot(q, q) }

func QuatLength(q Quat) float32 { return math32.Sqrt(QuatLengthSqr(q)) }

// QuatNormalize unconditionally renormalizes q.
func QuatNormalize(q Quat) Quat {
	l := QuatLength(q)
	if l < 1e-12 {
		return QuatIdentity()
	}
	inv := 1 / l
	return Quat{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// QuatEnsureNormalized only renormalizes if q is already within tol of
// unit length; otherwise it reports false without modifying q, which
// callers use as a corruption-detection signal.
func QuatEnsureNormalized(q Quat, tol float32) (Quat, bool) {
	l2 := QuatLengthSqr(q)
	if math32.Abs(l2-1) > tol {
		return q, false
	}
	return QuatNormalize(q), true
}

func QuatValidate(q Quat) bool {
	for _, c := range q {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// QuatValidateWithin1Percent reports whether q is a valid, near-unit
// quaternion (|q|^2 within 1% of 1).
func QuatValidateWithin1Percent(q Quat) bool {
	if !QuatValidate(q) {
		return false
	}
	return math32.Abs(QuatLengthSqr(q)-1) < 0.01
}

// QuatFromAngleVector builds a rotation of rad radians about axis
// (which must be pre-normalized).
func QuatFromAngleVector(rad float32, axis Vec3) Quat {
	half := rad * 0.5
	s := math32.Sin(half)
	c := math32.Cos(half)
	return Quat{axis[0] * s, axis[1] * s, axis[2] * s, c}
}

// QuatFromPlusXZ builds a right-handed basis quaternion from a device's
// +X and +Z axes (both pre-normalized): +Z × +X -> +Y completes the
// basis, then the basis-change to a quaternion is read off the rotation
// matrix columns.
func QuatFromPlusXZ(plusX, plusZ Vec3) Quat {
	plusY := Vec3Cross(plusZ, plusX)
	m := Matrix3x3{
		{plusX[0], plusY[0], plusZ[0]},
		{plusX[1], plusY[1], plusZ[1]},
		{plusX[2], plusY[2], plusZ[2]},
	}
	return QuatFromMatrix3x3(m)
}

// QuatFromMatrix3x3 extracts a unit quaternion from a rotation matrix
// using the standard trace/branch method.
func QuatFromMatrix3x3(m Matrix3x3) Quat {
	trace := m[0][0] + m[1][1] + m[2][2]
	var q Quat
	switch {
	case trace > 0:
		s := math32.Sqrt(trace+1) * 2
		q[3] = 0.25 * s
		q[0] = (m[2][1] - m[1][2]) / s
		q[1] = (m[0][2] - m[2][0]) / s
		q[2] = (m[1][0] - m[0][1]) / s
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := math32.Sqrt(1+m[0][0]-m[1][1]-m[2][2]) * 2
		q[3] = (m[2][1] - m[1][2]) / s
		q[0] = 0.25 * s
		q[1] = (m[0][1] + m[1][0]) / s
		q[2] = (m[0][2] + m[2][0]) / s
	case m[1][1] > m[2][2]:
		s := math32.Sqrt(1+m[1][1]-m[0][0]-m[2][2]) * 2
		q[3] = (m[0][2] - m[2][0]) / s
		q[0] = (m[0][1] + m[1][0]) / s
		q[1] = 0.25 * s
		q[2] = (m[1][2] + m[2][1]) / s
	default:
		s := math32.Sqrt(1+m[2][2]-m[0][0]-m[1][1]) * 2
		q[3] = (m[1][0] - m[0][1]) / s
		q[0] = (m[0][2] + m[2][0]) / s
		q[1] = (m[1][2] + m[2][1]) / s
		q[2] = 0.25 * s
	}
	return QuatNormalize(q)
}

// QuatRotate composes two rotations, left then applied to right's frame:
// left * right.
func QuatRotate(left, right Quat) Quat {
	lx, ly, lz, lw := left[0], left[1], left[2], left[3]
	rx, ry, rz, rw := right[0], right[1], right[2], right[3]
	return Quat{
		lw*rx + lx*rw + ly*rz - lz*ry,
		lw*ry - lx*rz + ly*rw + lz*rx,
		lw*rz + lx*ry - ly*rx + lz*rw,
		lw*rw - lx*rx - ly*ry - lz*rz,
	}
}

// QuatConjugate returns the inverse of a unit quaternion.
func QuatConjugate(q Quat) Quat {
	return Quat{-q[0], -q[1], -q[2], q[3]}
}

// QuatUnrotate is left^-1 * right.
func QuatUnrotate(left, right Quat) Quat {
	return QuatRotate(QuatConjugate(left), right)
}

// QuatRotateVec3 rotates v by q.
func QuatRotateVec3(q Quat, v Vec3) Vec3 {
	u := q.Vec()
	s := q[3]
	uv := Vec3Cross(u, v)
	uuv := Vec3Cross(u, uv)
	out := Vec3Accum(v, 2*s, uv)
	return Vec3Accum(out, 2, uuv)
}

// QuatRotateDerivative is QuatRotateVec3 under a different name, used
// when the vector being rotated is an angular quantity (e.g. angular
// velocity) rather than a position — same math, different semantic
// role at the call site.
func QuatRotateDerivative(q Quat, v Vec3) Vec3 { return QuatRotateVec3(q, v) }

// quatExpMapTaylorThreshold is |theta| below which the Taylor expansion
// of sin(theta)/theta (for the exponential map) and theta/sin(theta)
// (for the log map) is used instead of direct trig evaluation —
// roughly eps^(1/4) for float32 epsilon, with margin.
const quatExpMapTaylorThreshold = 0.0250000001 // ~= (1e-7)^0.25, generous margin

// QuatIntegrateVelocity advances q by angular velocity omega over dt
// seconds: q * exp(omega*dt/2), using the Grassia sinc-based exponential
// map so the small-angle branch stays numerically stable.
func QuatIntegrateVelocity(q Quat, omega Vec3, dt float32) Quat {
	scaledOmega := Vec3ScalarMul(omega, dt*0.5)
	expQ := quatExpGrassia(scaledOmega)
	return QuatNormalize(QuatRotate(q, expQ))
}

// quatExpGrassia computes exp(v) for a pure-vector quaternion exponent,
// i.e. the rotation quaternion whose half-angle is |v| about axis v/|v|.
func quatExpGrassia(v Vec3) Quat {
	theta := Vec3Length(v)
	var sincTheta float32
	if theta < quatExpMapTaylorThreshold {
		// sin(theta)/theta ~= 1 - theta^2/6 (degree-2 Taylor term of the series).
		t2 := theta * theta
		sincTheta = 1 - t2/6
	} else {
		sincTheta = math32.Sin(theta) / theta
	}
	return Quat{v[0] * sincTheta, v[1] * sincTheta, v[2] * sincTheta, math32.Cos(theta)}
}

// quatLogCompanion computes 2*log(q) for a unit quaternion q, returning
// the pure-vector result (the angular displacement vector).
func quatLogCompanion(q Quat) Vec3 {
	u := q.Vec()
	uLen := Vec3Length(u)
	w := q[3]
	var scale float32
	if uLen < quatExpMapTaylorThreshold {
		// theta/sin(theta) ~= 1 + theta^2/6 near theta=0, with theta =
		// atan2(uLen, w) and sin(theta) = uLen for a unit quaternion.
		// For w < 0 the result is taken from -q (the same rotation the
		// short way round), which flips the sign.
		scale = 2 * (1 + uLen*uLen/6)
		if w < 0 {
			scale = -scale
		}
	} else {
		theta := math32.Atan2(uLen, w)
		scale = 2 * theta / uLen
	}
	return Vec3ScalarMul(u, scale)
}

// QuatFiniteDifference estimates the angular velocity that rotates q0 to
// q1 over dt seconds: 2*log(q1*q0^-1)/dt.
func QuatFiniteDifference(q0, q1 Quat, dt float32) Vec3 {
	if dt == 0 {
		return Vec3{}
	}
	delta := QuatRotate(q1, QuatConjugate(q0))
	logv := quatLogCompanion(delta)
	return Vec3ScalarMul(logv, 1/dt)
}

// QuatSlerp spherically interpolates from a to b at t in [0,1], flipping
// b's sign if the inputs are on opposite hemispheres so the interpolation
// takes the short way round.
func QuatSlerp(a, b Quat, t float32) Quat {
	cosHalfTheta := QuatDot(a, b)
	if cosHalfTheta < 0 {
		b = Quat{-b[0], -b[1], -b[2], -b[3]}
		cosHalfTheta = -cosHalfTheta
	}
	if cosHalfTheta > 0.9995 {
		return QuatNormalize(Quat{
			a[0] + t*(b[0]-a[0]),
			a[1] + t*(b[1]-a[1]),
			a[2] + t*(b[2]-a[2]),
			a[3] + t*(b[3]-a[3]),
		})
	}
	halfTheta := math32.Acos(cosHalfTheta)
	sinHalfTheta := math32.Sqrt(1 - cosHalfTheta*cosHalfTheta)
	ka := math32.Sin((1-t)*halfTheta) / sinHalfTheta
	kb := math32.Sin(t*halfTheta) / sinHalfTheta
	return Quat{
		a[0]*ka + b[0]*kb,
		a[1]*ka + b[1]*kb,
		a[2]*ka + b[2]*kb,
		a[3]*ka + b[3]*kb,
	}
}

// QuatFromSwingTwist reconstructs a quaternion from a 2D swing (x,y
// components projected on the XY plane) and an axial twist about Z.
func QuatFromSwingTwist(swing Vec2, twist float32) Quat {
	sx, sy := swing[0], swing[1]
	swingLenSqr := sx*sx + sy*sy
	if swingLenSqr > 1 {
		// Degenerate input past the upper hemisphere; clamp to the
		// equator rather than producing NaN.
		n := math32.Sqrt(swingLenSqr)
		sx /= n
		sy /= n
		swingLenSqr = 1
	}
	swingW := math32.Sqrt(1 - swingLenSqr)
	swingQ := Quat{sx, sy, 0, swingW}
	twistQ := QuatFromAngleVector(twist, Vec3{0, 0, 1})
	return QuatNormalize(QuatRotate(swingQ, twistQ))
}

// QuatToSwingTwist decomposes q into its swing (XY projection) and twist
// (about Z) components; valid over the upper hemisphere (swingW >= 0, as
// produced by QuatFromSwingTwist).
func QuatToSwingTwist(q Quat) (swing Vec2, twist float32) {
	qx, qy, qz, qw := q[0], q[1], q[2], q[3]
	twistLenSqr := qz*qz + qw*qw
	if twistLenSqr < 1e-12 {
		return Vec2{qx, qy}, math32.Pi
	}
	twistInv := 1 / math32.Sqrt(twistLenSqr)
	twistW := qw * twistInv
	twistZ := qz * twistInv
	twist = 2 * math32.Atan2(twistZ, twistW)

	// swing = q * twist^-1
	twistConj := Quat{0, 0, -twistZ, twistW}
	swingQ := QuatRotate(q, twistConj)
	if swingQ[3] < 0 {
		swingQ = Quat{-swingQ[0], -swingQ[1], -swingQ[2], -swingQ[3]}
		twist += math32.Pi
		if twist > math32.Pi {
			twist -= 2 * math32.Pi
		}
	}
	return Vec2{swingQ[0], swingQ[1]}, twist
}

// QuatLeftToRightHanded converts a left-handed quaternion to its
// right-handed equivalent, (x,y,z,w) -> (-x,y,z,-w). The transform is
// its own inverse.
func QuatLeftToRightHanded(q Quat) Quat {
	return Quat{-q[0], q[1], q[2], -q[3]}
}
