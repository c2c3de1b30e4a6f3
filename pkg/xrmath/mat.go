package xrmath

import "github.com/chewxy/math32"

// Matrix3x3 is a row-major 3x3 matrix: m[row][col].
type Matrix3x3 [3][3]float32

// Matrix4x4 is a row-major 4x4 matrix: m[row][col].
type Matrix4x4 [4][4]float32

func Matrix3x3Identity() Matrix3x3 {
	return Matrix3x3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func Matrix4x4Identity() Matrix4x4 {
	return Matrix4x4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

// Matrix3x3Multiply returns a*b. Safe for a, b, or the result to alias
// the same backing value since both operands are read before any write
// happens to the (separate) result value.
func Matrix3x3Multiply(a, b Matrix3x3) Matrix3x3 {
	var out Matrix3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float32
			for k := 0; k < 3; k++ {
				s += a[i][k] * b[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

func Matrix3x3Transpose(m Matrix3x3) Matrix3x3 {
	var out Matrix3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// Matrix3x3Inverse inverts m via the adjugate/determinant method,
// reporting ok=false for a singular (|det| below eps) matrix.
func Matrix3x3Inverse(m Matrix3x3) (Matrix3x3, bool) {
	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	g, h, i := m[2][0], m[2][1], m[2][2]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if math32.Abs(det) < 1e-12 {
		return Matrix3x3{}, false
	}
	invDet := 1 / det

	return Matrix3x3{
		{(e*i - f*h) * invDet, (c*h - b*i) * invDet, (b*f - c*e) * invDet},
		{(f*g - d*i) * invDet, (a*i - c*g) * invDet, (c*d - a*f) * invDet},
		{(d*h - e*g) * invDet, (b*g - a*h) * invDet, (a*e - b*d) * invDet},
	}, true
}

func Matrix3x3TransformVec3(m Matrix3x3, v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Matrix3x3FromQuat builds the rotation matrix corresponding to q.
func Matrix3x3FromQuat(q Quat) Matrix3x3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2
	return Matrix3x3{
		{1 - (yy + zz), xy - wz, xz + wy},
		{xy + wz, 1 - (xx + zz), yz - wx},
		{xz - wy, yz + wx, 1 - (xx + yy)},
	}
}

// Matrix3x3SwitchXY swaps the X and Y rows, used by devices that mirror
// a handedness across those two axes.
func Matrix3x3SwitchXY(m Matrix3x3) Matrix3x3 {
	out := m
	out[0], out[1] = m[1], m[0]
	return out
}

// Matrix4x4IsometryFromRT builds a 4x4 rigid transform from a rotation
// matrix and translation.
func Matrix4x4IsometryFromRT(r Matrix3x3, t Vec3) Matrix4x4 {
	var out Matrix4x4
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[i][j]
		}
		out[i][3] = t[i]
	}
	out[3] = [4]float32{0, 0, 0, 1}
	return out
}

// Matrix4x4IsometryFromPose builds a 4x4 rigid transform from a Pose.
func Matrix4x4IsometryFromPose(p Pose) Matrix4x4 {
	return Matrix4x4IsometryFromRT(Matrix3x3FromQuat(p.Orientation), p.Position)
}

// Matrix4x4IsometryInverse inverts a rigid transform in closed form,
// exploiting orthogonality of the rotation block: R^-1 = R^T,
// t^-1 = -R^T*t.
func Matrix4x4IsometryInverse(m Matrix4x4) Matrix4x4 {
	var r Matrix3x3
	var t Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j]
		}
		t[i] = m[i][3]
	}
	rt := Matrix3x3Transpose(r)
	negRTt := Vec3ScalarMul(Matrix3x3TransformVec3(rt, t), -1)
	return Matrix4x4IsometryFromRT(rt, negRTt)
}

// Matrix4x4Model builds a model matrix placing a size-scaled cube/quad
// at pose (used by renderers to draw a tracked frame's gizmo; the core
// only supplies the matrix, never draws).
func Matrix4x4Model(p Pose, size Vec3) Matrix4x4 {
	scale := Matrix3x3{{size[0], 0, 0}, {0, size[1], 0}, {0, 0, size[2]}}
	rot := Matrix3x3Multiply(Matrix3x3FromQuat(p.Orientation), scale)
	return Matrix4x4IsometryFromRT(rot, p.Position)
}

// Matrix4x4ViewFromPose returns the view matrix for a camera at pose,
// i.e. the inverse of the pose's world transform.
func Matrix4x4ViewFromPose(p Pose) Matrix4x4 {
	return Matrix4x4IsometryInverse(Matrix4x4IsometryFromPose(p))
}

// Matrix4x4InverseViewProjection computes the inverse of the 3x3
// rotation block of a view matrix (used to unproject view-space rays
// back to world space without needing the full 4x4 inverse).
func Matrix4x4InverseViewProjection(view Matrix4x4) Matrix3x3 {
	var r Matrix3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = view[i][j]
		}
	}
	return Matrix3x3Transpose(r) // orthonormal: inverse == transpose
}
