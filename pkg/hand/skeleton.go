// Package hand implements the CCDIK hand-model inverse kinematics
// solver: given 21 triangulated keypoints it solves a 26-joint
// skeleton (5 fingers x 5 bones, the thumb's first bone hidden
// padding) subject to per-bone joint limits.
package hand

import "github.com/foxis/trackcore/pkg/xrmath"

// FingerCount and BonesPerFinger give the fixed 5x5 skeleton shape:
// the thumb's first bone is hidden padding, so every finger is still
// represented uniformly as 5 bones.
const (
	FingerCount    = 5
	BonesPerFinger = 5
	JointCount     = FingerCount * BonesPerFinger
)

// Finger indices in canonical skeleton order.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Little
)

// JointLimits bounds a bone's local rotation, either as a simple
// rotate-about-X flexion hinge, or as an independently clamped
// swing+twist pair.
type JointLimits struct {
	HingeOnly bool // true for bones 1..4 of every finger (proximal through tip): X-axis only.
	// HingeMin/HingeMax bound flexion about X when HingeOnly.
	HingeMin, HingeMax float32

	// SwingMaxRad bounds the swing cone half-angle (tan-angle bound);
	// TwistMaxRad bounds the absolute twist angle. Used when !HingeOnly.
	SwingMaxRad, TwistMaxRad float32
}

// Default joint limits, in radians. Ergonomic tuning parameters, not
// hard anatomy. Only bone 0 of a finger takes swing/twist limits
// (thumbMCPLimits on the thumb, proximalLimits elsewhere); every other
// bone takes hingeLimits.
var (
	thumbMCPLimits = JointLimits{SwingMaxRad: deg(70), TwistMaxRad: deg(40)}
	proximalLimits = JointLimits{SwingMaxRad: deg(10), TwistMaxRad: deg(30)}
	hingeLimits    = JointLimits{HingeOnly: true, HingeMin: deg(-90), HingeMax: deg(10)}
)

func deg(d float32) float32 { return d * 3.14159265 / 180 }

// Bone is one segment of the hand skeleton.
type Bone struct {
	TransFromLastJoint xrmath.Vec3 // bone length/offset in parent frame.
	RotWCT              xrmath.Vec3 // waggle/curl/twist Euler triple.
	Rotation            xrmath.Quat // quaternion form of RotWCT.
	BoneRelation        xrmath.Pose // local SE(3): TransFromLastJoint + Rotation.
	WorldPose           xrmath.Pose // cached, repropagated each solve iteration.
	Limits              JointLimits

	Parent *Bone // nil for the wrist/root bone.
}

// localRelation recomputes BoneRelation from TransFromLastJoint and
// Rotation.
func (b *Bone) localRelation() xrmath.Pose {
	return xrmath.Pose{Orientation: b.Rotation, Position: b.TransFromLastJoint}
}

// Finger is five bones, root-to-tip.
type Finger struct {
	Bones [BonesPerFinger]*Bone
}

// Skeleton is the full 26-joint hand model: a wrist/root bone plus
// five fingers of five bones each (the thumb's first bone is hidden
// padding, carried so every finger has uniform indexing).
type Skeleton struct {
	Wrist   *Bone
	Fingers [FingerCount]Finger
	// HandSize scales bone lengths from the resting template.
	HandSize float32
	// RightHand mirrors output by negating X.
	RightHand bool
}

// NewRestingSkeleton builds the hardcoded resting skeleton: per-finger
// bone lengths scaled by handSize, resting joint rotations, and the
// joint-limit table.
func NewRestingSkeleton(handSize float32, rightHand bool) *Skeleton {
	s := &Skeleton{HandSize: handSize, RightHand: rightHand}
	s.Wrist = &Bone{WorldPose: xrmath.PoseIdentity()}

	// Resting template bone lengths, in meters at handSize=1, root to
	// tip. Thumb's first entry is the hidden padding bone (zero length).
	lengths := [FingerCount][BonesPerFinger]float32{
		Thumb:  {0, 0.032, 0.030, 0.027, 0},
		Index:  {0.010, 0.045, 0.025, 0.018, 0},
		Middle: {0.010, 0.048, 0.028, 0.020, 0},
		Ring:   {0.010, 0.045, 0.026, 0.019, 0},
		Little: {0.010, 0.038, 0.020, 0.016, 0},
	}
	spread := [FingerCount]float32{Thumb: deg(30), Index: deg(8), Middle: 0, Ring: deg(-8), Little: deg(-16)}

	for fi := 0; fi < FingerCount; fi++ {
		var parent *Bone = s.Wrist
		for bi := 0; bi < BonesPerFinger; bi++ {
			limits := hingeLimits
			if bi == 0 {
				if fi == Thumb {
					limits = thumbMCPLimits
				} else {
					limits = proximalLimits
				}
			}
			trans := xrmath.Vec3{lengths[fi][bi] * handSize, 0, 0}
			rot := xrmath.QuatIdentity()
			if bi == 0 {
				rot = xrmath.QuatFromAngleVector(spread[fi], xrmath.Vec3{0, 0, 1})
			}
			b := &Bone{
				TransFromLastJoint: trans,
				Rotation:           rot,
				Limits:             limits,
				Parent:             parent,
			}
			b.BoneRelation = b.localRelation()
			s.Fingers[fi].Bones[bi] = b
			parent = b
		}
	}
	s.Propagate()
	return s
}

// Propagate recomputes every bone's cached WorldPose from its parent
// chain, root to tip.
func (s *Skeleton) Propagate() {
	for fi := range s.Fingers {
		for _, b := range s.Fingers[fi].Bones {
			b.BoneRelation = b.localRelation()
			if b.Parent != nil {
				b.WorldPose = xrmath.PoseCompose(b.Parent.WorldPose, b.BoneRelation)
			} else {
				b.WorldPose = b.BoneRelation
			}
		}
	}
}

// Joints returns the 26 joint world poses in canonical skeleton order:
// wrist first, then each finger root-to-tip.
func (s *Skeleton) Joints() []xrmath.Pose {
	out := make([]xrmath.Pose, 0, JointCount+1)
	out = append(out, s.Wrist.WorldPose)
	for fi := range s.Fingers {
		for _, b := range s.Fingers[fi].Bones {
			out = append(out, b.WorldPose)
		}
	}
	if s.RightHand {
		for i := range out {
			out[i] = mirrorX(out[i])
		}
	}
	return out
}

// mirrorX negates X position and the X row of the rotation, turning a
// left-hand pose into its right-hand mirror.
func mirrorX(p xrmath.Pose) xrmath.Pose {
	p.Position[0] = -p.Position[0]
	m := xrmath.Matrix3x3FromQuat(p.Orientation)
	m[0][0], m[0][1], m[0][2] = -m[0][0], -m[0][1], -m[0][2]
	p.Orientation = xrmath.QuatFromMatrix3x3(m)
	return p
}
