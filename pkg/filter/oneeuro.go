package filter

import (
	"github.com/chewxy/math32"
	"github.com/foxis/trackcore/pkg/xrmath"
)

// oneEuroAlpha computes the low-pass blend factor for cutoff fc over dt
// seconds: alpha = 1 / (1 + 1/(2*pi*fc*dt)).
func oneEuroAlpha(fc, dt float32) float32 {
	tau := 1 / (2 * math32.Pi * fc)
	return 1 / (1 + tau/dt)
}

// OneEuroScalar implements the Casiez et al. 2012 one-Euro filter for a
// scalar signal.
type OneEuroScalar struct {
	MinCutoff float32
	Beta      float32
	DCutoff   float32

	prevY    float32
	prevDy   float32
	prevTsNs int64
	haveSamp bool
}

// NewOneEuroScalar constructs a filter with the given base cutoff
// (minCutoff, Hz), speed coefficient (beta), and derivative low-pass
// cutoff (dCutoff, Hz).
func NewOneEuroScalar(minCutoff, beta, dCutoff float32) *OneEuroScalar {
	return &OneEuroScalar{MinCutoff: minCutoff, Beta: beta, DCutoff: dCutoff}
}

// Filter ingests (t, y), mutating state, and returns the filtered value.
func (f *OneEuroScalar) Filter(tNs int64, y float32) float32 {
	out, newDy := f.step(tNs, y)
	f.prevDy = newDy
	f.prevY = out
	f.prevTsNs = tNs
	f.haveSamp = true
	return out
}

// Peek computes the filtered value for (t, y) without mutating state —
// the no-commit variant used for prediction queries.
func (f *OneEuroScalar) Peek(tNs int64, y float32) float32 {
	out, _ := f.step(tNs, y)
	return out
}

func (f *OneEuroScalar) step(tNs int64, y float32) (filtered, dy float32) {
	if !f.haveSamp {
		return y, 0
	}
	dt := float32(tNs-f.prevTsNs) / 1e9
	if dt <= 0 {
		return f.prevY, f.prevDy
	}
	dy = (y - f.prevY) / dt
	dAlpha := oneEuroAlpha(f.DCutoff, dt)
	edy := dAlpha*dy + (1-dAlpha)*f.prevDy

	fc := f.MinCutoff + f.Beta*math32.Abs(edy)
	alpha := oneEuroAlpha(fc, dt)
	filtered = alpha*y + (1-alpha)*f.prevY
	return filtered, edy
}

// Reset clears filter state so the next sample seeds it directly.
func (f *OneEuroScalar) Reset() { f.haveSamp = false }

// OneEuroVec3 is the Vec3 one-Euro variant: the speed estimate is the
// magnitude of the componentwise derivative, and the resulting adaptive
// cutoff is applied uniformly to all three components.
type OneEuroVec3 struct {
	MinCutoff float32
	Beta      float32
	DCutoff   float32

	prevY    xrmath.Vec3
	prevDy   xrmath.Vec3
	prevTsNs int64
	haveSamp bool
}

func NewOneEuroVec3(minCutoff, beta, dCutoff float32) *OneEuroVec3 {
	return &OneEuroVec3{MinCutoff: minCutoff, Beta: beta, DCutoff: dCutoff}
}

func (f *OneEuroVec3) Filter(tNs int64, y xrmath.Vec3) xrmath.Vec3 {
	out, newDy := f.step(tNs, y)
	f.prevDy = newDy
	f.prevY = out
	f.prevTsNs = tNs
	f.haveSamp = true
	return out
}

func (f *OneEuroVec3) Peek(tNs int64, y xrmath.Vec3) xrmath.Vec3 {
	out, _ := f.step(tNs, y)
	return out
}

func (f *OneEuroVec3) step(tNs int64, y xrmath.Vec3) (filtered, dy xrmath.Vec3) {
	if !f.haveSamp {
		return y, xrmath.Vec3{}
	}
	dt := float32(tNs-f.prevTsNs) / 1e9
	if dt <= 0 {
		return f.prevY, f.prevDy
	}
	dy = xrmath.Vec3ScalarMul(xrmath.Vec3Sub(y, f.prevY), 1/dt)
	dAlpha := oneEuroAlpha(f.DCutoff, dt)
	edy := xrmath.Vec3Lerp(f.prevDy, dy, dAlpha)

	fc := f.MinCutoff + f.Beta*xrmath.Vec3Length(edy)
	alpha := oneEuroAlpha(fc, dt)
	filtered = xrmath.Vec3Lerp(f.prevY, y, alpha)
	return filtered, edy
}

func (f *OneEuroVec3) Reset() { f.haveSamp = false }

// OneEuroQuat is the Quat one-Euro variant: the low-pass step is a
// SLERP, and the speed estimate is the finite-difference angular
// velocity magnitude.
type OneEuroQuat struct {
	MinCutoff float32
	Beta      float32
	DCutoff   float32

	prevY    xrmath.Quat
	prevDy   float32
	prevTsNs int64
	haveSamp bool
}

func NewOneEuroQuat(minCutoff, beta, dCutoff float32) *OneEuroQuat {
	return &OneEuroQuat{MinCutoff: minCutoff, Beta: beta, DCutoff: dCutoff, prevY: xrmath.QuatIdentity()}
}

func (f *OneEuroQuat) Filter(tNs int64, y xrmath.Quat) xrmath.Quat {
	out, newDy := f.step(tNs, y)
	f.prevDy = newDy
	f.prevY = out
	f.prevTsNs = tNs
	f.haveSamp = true
	return out
}

func (f *OneEuroQuat) Peek(tNs int64, y xrmath.Quat) xrmath.Quat {
	out, _ := f.step(tNs, y)
	return out
}

func (f *OneEuroQuat) step(tNs int64, y xrmath.Quat) (filtered xrmath.Quat, dy float32) {
	if !f.haveSamp {
		return y, 0
	}
	dt := float32(tNs-f.prevTsNs) / 1e9
	if dt <= 0 {
		return f.prevY, f.prevDy
	}
	dy = xrmath.Vec3Length(xrmath.QuatFiniteDifference(f.prevY, y, dt))
	dAlpha := oneEuroAlpha(f.DCutoff, dt)
	edy := dAlpha*dy + (1-dAlpha)*f.prevDy

	fc := f.MinCutoff + f.Beta*math32.Abs(edy)
	alpha := oneEuroAlpha(fc, dt)
	filtered = xrmath.QuatSlerp(f.prevY, y, alpha)
	return filtered, edy
}

func (f *OneEuroQuat) Reset() { f.haveSamp = false }

// OneEuroVec2 is the Vec2 one-Euro variant, identical in shape to
// OneEuroVec3 but over two components (used for screen-space/2D
// signals elsewhere in the tracking pipeline's input surface).
type OneEuroVec2 struct {
	MinCutoff float32
	Beta      float32
	DCutoff   float32

	prevY    xrmath.Vec2
	prevDy   xrmath.Vec2
	prevTsNs int64
	haveSamp bool
}

func NewOneEuroVec2(minCutoff, beta, dCutoff float32) *OneEuroVec2 {
	return &OneEuroVec2{MinCutoff: minCutoff, Beta: beta, DCutoff: dCutoff}
}

func (f *OneEuroVec2) Filter(tNs int64, y xrmath.Vec2) xrmath.Vec2 {
	out, newDy := f.step(tNs, y)
	f.prevDy = newDy
	f.prevY = out
	f.prevTsNs = tNs
	f.haveSamp = true
	return out
}

func (f *OneEuroVec2) Peek(tNs int64, y xrmath.Vec2) xrmath.Vec2 {
	out, _ := f.step(tNs, y)
	return out
}

func (f *OneEuroVec2) step(tNs int64, y xrmath.Vec2) (filtered, dy xrmath.Vec2) {
	if !f.haveSamp {
		return y, xrmath.Vec2{}
	}
	dt := float32(tNs-f.prevTsNs) / 1e9
	if dt <= 0 {
		return f.prevY, f.prevDy
	}
	dy = xrmath.Vec2{(y[0] - f.prevY[0]) / dt, (y[1] - f.prevY[1]) / dt}
	dAlpha := oneEuroAlpha(f.DCutoff, dt)
	edy := xrmath.Vec2{
		dAlpha*dy[0] + (1-dAlpha)*f.prevDy[0],
		dAlpha*dy[1] + (1-dAlpha)*f.prevDy[1],
	}
	speed := math32.Sqrt(edy[0]*edy[0] + edy[1]*edy[1])
	fc := f.MinCutoff + f.Beta*speed
	alpha := oneEuroAlpha(fc, dt)
	filtered = xrmath.Vec2{
		alpha*y[0] + (1-alpha)*f.prevY[0],
		alpha*y[1] + (1-alpha)*f.prevY[1],
	}
	return filtered, edy
}

func (f *OneEuroVec2) Reset() { f.haveSamp = false }
