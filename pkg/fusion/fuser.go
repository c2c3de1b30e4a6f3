// Package fusion implements the 3-DoF orientation fuser: gyro
// integration corrected toward gravity from the accelerometer.
package fusion

import (
	"github.com/chewxy/math32"
	"github.com/foxis/trackcore/pkg/xrmath"
)

// Fuser maintains an orientation estimate from a stream of
// (t, accel, gyro) IMU samples.
type Fuser struct {
	Options

	q                   xrmath.Quat
	lastAngularVelocity xrmath.Vec3
	lastTimestampNs     int64
	haveSample          bool
}

// New constructs a Fuser at identity orientation.
func New(opts ...Option) *Fuser {
	f := &Fuser{
		Options: defaultOptions(),
		q:       xrmath.QuatIdentity(),
	}
	applyOptions(&f.Options, opts...)
	return f
}

// Reset returns the fuser to identity orientation and clears sample
// history.
func (f *Fuser) Reset() {
	f.q = xrmath.QuatIdentity()
	f.lastAngularVelocity = xrmath.Vec3{}
	f.haveSample = false
}

// Update ingests one IMU sample at timestampNs.
func (f *Fuser) Update(timestampNs int64, accel, gyro xrmath.Vec3) {
	if !f.haveSample {
		f.lastTimestampNs = timestampNs
		f.haveSample = true
		f.lastAngularVelocity = gyro
		return
	}

	dt := float32(timestampNs-f.lastTimestampNs) / 1e9
	if dt < 0 {
		dt = 0
	}
	if dt > f.MaxDtSeconds {
		dt = f.MaxDtSeconds
	}
	f.lastTimestampNs = timestampNs

	f.q = xrmath.QuatIntegrateVelocity(f.q, gyro, dt)

	f.applyGravityCorrection(accel, dt)

	f.lastAngularVelocity = gyro
}

// applyGravityCorrection nudges q so that gravity, rotated into the
// device frame by q's inverse, aligns with the measured accelerometer
// reading — attenuated the further |accel| is from standard gravity
// (i.e. the device is under linear acceleration and the reading is not
// trustworthy as a gravity reference).
func (f *Fuser) applyGravityCorrection(accel xrmath.Vec3, dt float32) {
	accelMag := xrmath.Vec3Length(accel)
	if accelMag < 1e-6 || dt <= 0 {
		return
	}
	// Convention: a stationary device at identity orientation reads
	// (0,-9.8066,0) — its own gravity-down direction directly, not the
	// reaction force opposing it.
	measuredDown := xrmath.Vec3ScalarMul(accel, 1/accelMag)
	worldDown := xrmath.Vec3{0, -1, 0}
	predictedDown := xrmath.QuatRotateVec3(xrmath.QuatConjugate(f.q), worldDown)

	axis := xrmath.Vec3Cross(predictedDown, measuredDown)
	axisLen := xrmath.Vec3Length(axis)
	if axisLen < 1e-8 {
		return
	}
	cosAngle := xrmath.Vec3Dot(predictedDown, measuredDown)
	if cosAngle > 1 {
		cosAngle = 1
	} else if cosAngle < -1 {
		cosAngle = -1
	}
	angle := math32.Acos(cosAngle)

	// Attenuate by how far accel magnitude is from standard gravity:
	// weight 1 when exactly at 9.8066, falling off under linear accel.
	confidence := 1 - math32.Min(1, math32.Abs(accelMag-StandardGravity)/StandardGravity)

	// Time-constant blend toward the correction, giving the gravity
	// mode its low-pass duration.
	blend := 1 - math32.Exp(-dt/f.GravityTimeConstant)
	correctionAngle := angle * confidence * blend

	correction := xrmath.QuatFromAngleVector(correctionAngle, xrmath.Vec3ScalarMul(axis, 1/axisLen))
	f.q = xrmath.QuatNormalize(xrmath.QuatRotate(f.q, correction))
}

// Orientation returns the current fused orientation estimate.
func (f *Fuser) Orientation() xrmath.Quat { return f.q }

// AngularVelocity returns the most recent bias-corrected gyro reading.
func (f *Fuser) AngularVelocity() xrmath.Vec3 { return f.lastAngularVelocity }
