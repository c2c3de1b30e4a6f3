package hand

import (
	"github.com/chewxy/math32"
	"github.com/foxis/trackcore/pkg/xrmath"
)

// SolveIterations is the fixed per-solve iteration budget.
const SolveIterations = 15

// KeypointCount is the number of triangulated input keypoints: the
// wrist plus four per finger.
const KeypointCount = 21

// Solve runs the CCDIK loop: targets holds one triangulated 3D position
// per keypoint, wrist first, then four keypoints per finger root-to-tip
// (21 entries total — each finger's root metacarpal bone contributes no
// keypoint of its own).
func Solve(s *Skeleton, targets []xrmath.Vec3) {
	for iter := 0; iter < SolveIterations; iter++ {
		alignWrist(s, targets)
		for fi := range s.Fingers {
			ccdFinger(s, fi, targets)
		}
		s.Propagate()
	}
}

// alignWrist performs translation-only rigid alignment (a simplified,
// scale- and rotation-free Umeyama step) of the current skeletal
// keypoints to the targets, updating only the wrist's world position.
func alignWrist(s *Skeleton, targets []xrmath.Vec3) {
	current := skeletonKeypoints(s)
	n := len(current)
	if n == 0 || len(targets) < n {
		return
	}
	var meanCur, meanTgt xrmath.Vec3
	for i := 0; i < n; i++ {
		meanCur = xrmath.Vec3Add(meanCur, current[i])
		meanTgt = xrmath.Vec3Add(meanTgt, targets[i])
	}
	meanCur = xrmath.Vec3ScalarMul(meanCur, 1/float32(n))
	meanTgt = xrmath.Vec3ScalarMul(meanTgt, 1/float32(n))

	delta := xrmath.Vec3Sub(meanTgt, meanCur)
	s.Wrist.WorldPose.Position = xrmath.Vec3Add(s.Wrist.WorldPose.Position, delta)
	s.Wrist.BoneRelation.Position = s.Wrist.WorldPose.Position
	s.Propagate()
}

// skeletonKeypoints returns the skeleton's current world-space
// keypoints in the target indexing convention: wrist first, then each
// finger's bones 1..4 (the root metacarpal bone, hidden padding on the
// thumb, has no keypoint).
func skeletonKeypoints(s *Skeleton) []xrmath.Vec3 {
	out := make([]xrmath.Vec3, 0, KeypointCount)
	out = append(out, s.Wrist.WorldPose.Position)
	for fi := range s.Fingers {
		for bi := 1; bi < BonesPerFinger; bi++ {
			out = append(out, s.Fingers[fi].Bones[bi].WorldPose.Position)
		}
	}
	return out
}

// ccdFinger runs one tip-to-root CCD pass over a single finger. The
// tip bone has no descendants to pull toward a target, so the pass
// starts one bone in from the tip.
func ccdFinger(s *Skeleton, fi int, targets []xrmath.Vec3) {
	bones := s.Fingers[fi].Bones
	base := keypointIndexBase(fi)

	for bi := len(bones) - 2; bi >= 0; bi-- {
		b := bones[bi]
		if fi == Thumb && bi == 0 {
			continue
		}
		descendantCurrent, descendantTarget, n := descendantMeans(bones, bi, targets, base)
		if n == 0 {
			continue
		}

		origin := b.WorldPose.Position
		toCurrent := xrmath.Vec3Sub(descendantCurrent, origin)
		toTarget := xrmath.Vec3Sub(descendantTarget, origin)
		curLen, tgtLen := xrmath.Vec3Length(toCurrent), xrmath.Vec3Length(toTarget)
		if curLen < 1e-8 || tgtLen < 1e-8 {
			continue
		}

		minRot := minimumRotation(xrmath.Vec3ScalarMul(toCurrent, 1/curLen), xrmath.Vec3ScalarMul(toTarget, 1/tgtLen))

		// Apply the correction in the bone's parent frame: rotate the
		// world-space minimum-rotation quaternion into local space,
		// then left-multiply into the bone's local rotation.
		parentOrient := xrmath.QuatIdentity()
		if b.Parent != nil {
			parentOrient = b.Parent.WorldPose.Orientation
		}
		localCorrection := xrmath.QuatUnrotate(parentOrient, xrmath.QuatRotate(minRot, parentOrient))
		b.Rotation = xrmath.QuatNormalize(xrmath.QuatRotate(localCorrection, b.Rotation))
		b.Rotation = clampToLimits(b.Rotation, b.Limits)

		b.BoneRelation = b.localRelation()
		if b.Parent != nil {
			b.WorldPose = xrmath.PoseCompose(b.Parent.WorldPose, b.BoneRelation)
		} else {
			b.WorldPose = b.BoneRelation
		}
		propagateDescendants(bones, bi)
	}
}

// keypointIndexBase returns the index into the target/current keypoint
// slices (as produced by skeletonKeypoints) of finger fi's first
// keypoint-bearing bone (bone 1).
func keypointIndexBase(fi int) int {
	return 1 + fi*(BonesPerFinger-1) // wrist occupies index 0.
}

// descendantMeans computes the mean current and target position of
// bone bi's strict descendants in the same finger. Bone j's keypoint
// lives at targets[keypointBase + j - 1]; bone 0, the metacarpal,
// carries no keypoint.
func descendantMeans(bones [BonesPerFinger]*Bone, bi int, targets []xrmath.Vec3, keypointBase int) (current, target xrmath.Vec3, count int) {
	for j := bi + 1; j < len(bones); j++ {
		ki := keypointBase + j - 1
		if ki >= len(targets) {
			break
		}
		current = xrmath.Vec3Add(current, bones[j].WorldPose.Position)
		target = xrmath.Vec3Add(target, targets[ki])
		count++
	}
	if count == 0 {
		return current, target, 0
	}
	return xrmath.Vec3ScalarMul(current, 1/float32(count)), xrmath.Vec3ScalarMul(target, 1/float32(count)), count
}

// propagateDescendants recomputes WorldPose for every bone after bi in
// the same finger chain, given bi's WorldPose just changed.
func propagateDescendants(bones [BonesPerFinger]*Bone, bi int) {
	for j := bi + 1; j < len(bones); j++ {
		b := bones[j]
		b.BoneRelation = b.localRelation()
		b.WorldPose = xrmath.PoseCompose(b.Parent.WorldPose, b.BoneRelation)
	}
}

// minimumRotation builds the minimum-angle quaternion rotating unit
// vector from onto unit vector to.
func minimumRotation(from, to xrmath.Vec3) xrmath.Quat {
	dot := xrmath.Vec3Dot(from, to)
	if dot > 0.999999 {
		return xrmath.QuatIdentity()
	}
	if dot < -0.999999 {
		// 180 degree rotation: pick any axis orthogonal to `from`.
		axis := xrmath.Vec3Cross(xrmath.Vec3{1, 0, 0}, from)
		if xrmath.Vec3Length(axis) < 1e-6 {
			axis = xrmath.Vec3Cross(xrmath.Vec3{0, 1, 0}, from)
		}
		return xrmath.QuatFromAngleVector(3.14159265, xrmath.Vec3Normalize(axis))
	}
	axis := xrmath.Vec3Cross(from, to)
	w := 1 + dot
	q := xrmath.Quat{axis[0], axis[1], axis[2], w}
	return xrmath.QuatNormalize(q)
}

// clampToLimits constrains a bone's local rotation: hinge joints are
// projected to rotation-about-X with an asin bounds check, everything
// else is decomposed into swing+twist and clamped independently.
func clampToLimits(q xrmath.Quat, limits JointLimits) xrmath.Quat {
	if limits.HingeOnly {
		return clampHinge(q, limits)
	}
	swing, twist := xrmath.QuatToSwingTwist(q)
	swing = clampSwing(swing, limits.SwingMaxRad)
	if twist > limits.TwistMaxRad {
		twist = limits.TwistMaxRad
	} else if twist < -limits.TwistMaxRad {
		twist = -limits.TwistMaxRad
	}
	return xrmath.QuatFromSwingTwist(swing, twist)
}

// clampHinge projects q to a pure rotation about X bounded by
// [min, max], using asin of the rotated +Y axis's cross-product X
// component as the bounds check.
func clampHinge(q xrmath.Quat, limits JointLimits) xrmath.Quat {
	rotatedY := xrmath.QuatRotateVec3(q, xrmath.Vec3{0, 1, 0})
	cross := xrmath.Vec3Cross(xrmath.Vec3{0, 1, 0}, rotatedY)
	angle := asinClamped(cross[0])
	if angle > limits.HingeMax {
		angle = limits.HingeMax
	} else if angle < limits.HingeMin {
		angle = limits.HingeMin
	}
	return xrmath.QuatFromAngleVector(angle, xrmath.Vec3{1, 0, 0})
}

func asinClamped(x float32) float32 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return math32.Asin(x)
}

// clampSwing bounds the swing vector's magnitude using a tan-angle
// bound.
func clampSwing(swing xrmath.Vec2, maxRad float32) xrmath.Vec2 {
	maxTan := math32.Tan(maxRad)
	mag := math32.Sqrt(swing[0]*swing[0] + swing[1]*swing[1])
	if mag <= maxTan || mag < 1e-8 {
		return swing
	}
	scale := maxTan / mag
	return xrmath.Vec2{swing[0] * scale, swing[1] * scale}
}
