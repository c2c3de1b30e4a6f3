// Package xrmath is the rigid-body math kernel: vectors, quaternions,
// matrices, and poses, all pure functions on POD float32 types.
package xrmath

import "github.com/chewxy/math32"

// Vec2 is a 2D vector, {x, y}.
type Vec2 [2]float32

// Vec3 is a 3D vector, {x, y, z}.
type Vec3 [3]float32

func (v Vec2) X() float32 { return v[0] }
func (v Vec2) Y() float32 { return v[1] }

func (v Vec3) X() float32 { return v[0] }
func (v Vec3) Y() float32 { return v[1] }
func (v Vec3) Z() float32 { return v[2] }

func Vec3Add(a, b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func Vec3Sub(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Vec3ScalarMul returns v scaled by s.
func Vec3ScalarMul(v Vec3, s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Vec3Accum returns dst + s*v, the fused accumulate used by the
// integrators (pose prediction, filter state updates).
func Vec3Accum(dst Vec3, s float32, v Vec3) Vec3 {
	return Vec3{dst[0] + s*v[0], dst[1] + s*v[1], dst[2] + s*v[2]}
}

func Vec3Dot(a, b Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func Vec3Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func Vec3LengthSqr(v Vec3) float32 { return Vec3Dot(v, v) }

func Vec3Length(v Vec3) float32 { return math32.Sqrt(Vec3LengthSqr(v)) }

// Vec3Normalize returns v scaled to unit length; the zero vector is
// returned unchanged (there is no well-defined direction to produce).
func Vec3Normalize(v Vec3) Vec3 {
	l := Vec3Length(v)
	if l < 1e-12 {
		return v
	}
	return Vec3ScalarMul(v, 1/l)
}

// Vec3Lerp linearly interpolates between a and b at t in [0,1].
func Vec3Lerp(a, b Vec3, t float32) Vec3 {
	return Vec3{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
		a[2] + t*(b[2]-a[2]),
	}
}

// Vec3Validate reports whether every component is finite.
func Vec3Validate(v Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func Vec3Zero() Vec3 { return Vec3{} }
