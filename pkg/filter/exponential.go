package filter

import (
	"github.com/chewxy/math32"
	"github.com/foxis/trackcore/pkg/xrmath"
)

// AlphaFromTimeConstant converts a time constant (seconds) into the
// smoothing factor for a per-sample blend over dt seconds.
func AlphaFromTimeConstant(timeConstant, dt float32) float32 {
	if timeConstant <= 0 {
		return 1
	}
	return 1 - math32.Exp(-dt/timeConstant)
}

// Exponential smooths a Vec3/Quat pose componentwise (Vec3: lerp,
// Quat: slerp) toward a target value: state <- alpha*target +
// (1-alpha)*state.
type Exponential struct {
	Alpha       float32
	position    xrmath.Vec3
	orientation xrmath.Quat
	initialized bool
}

// NewExponential constructs a smoother with the given fixed blend
// factor alpha in (0,1].
func NewExponential(alpha float32) *Exponential {
	return &Exponential{Alpha: alpha, orientation: xrmath.QuatIdentity()}
}

// Reset clears the filter so the next sample seeds state directly.
func (e *Exponential) Reset() {
	e.initialized = false
}

// Update blends (position, orientation) into the filter state and
// returns the new state.
func (e *Exponential) Update(position xrmath.Vec3, orientation xrmath.Quat) (xrmath.Vec3, xrmath.Quat) {
	if !e.initialized {
		e.position = position
		e.orientation = orientation
		e.initialized = true
		return e.position, e.orientation
	}
	e.position = xrmath.Vec3Lerp(e.position, position, e.Alpha)
	e.orientation = xrmath.QuatSlerp(e.orientation, orientation, e.Alpha)
	return e.position, e.orientation
}
