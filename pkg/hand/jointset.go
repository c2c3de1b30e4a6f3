package hand

import (
	"github.com/foxis/trackcore/pkg/relation"
	"github.com/foxis/trackcore/pkg/xrmath"
)

// JointNames gives the canonical order Joints/JointSet use: wrist
// first, then each finger root-to-tip.
var JointNames = buildJointNames()

func buildJointNames() []string {
	names := make([]string, 0, JointCount+1)
	names = append(names, "wrist")
	fingerNames := [FingerCount]string{Thumb: "thumb", Index: "index", Middle: "middle", Ring: "ring", Little: "little"}
	boneNames := [BonesPerFinger]string{"meta", "proximal", "intermediate", "distal", "tip"}
	for fi := 0; fi < FingerCount; fi++ {
		for bi := 0; bi < BonesPerFinger; bi++ {
			names = append(names, fingerNames[fi]+"_"+boneNames[bi])
		}
	}
	return names
}

// JointSet is the hand-tracking output: one Relation per bone world
// pose plus the wrist, in JointNames order. Velocities are left zero:
// the solver is a per-frame pose fit, not an integrator.
type JointSet struct {
	Joints []relation.Relation
}

// Valid reports whether the JointSet carries the expected joint count.
func (j JointSet) Valid() bool { return len(j.Joints) == JointCount+1 }

// toJointSet converts a Skeleton's solved world poses into a JointSet,
// every joint marked fully valid and tracked — the solve output is
// always a complete fit against the input keypoints.
func toJointSet(s *Skeleton) JointSet {
	poses := s.Joints()
	out := JointSet{Joints: make([]relation.Relation, len(poses))}
	for i, p := range poses {
		out.Joints[i] = relation.Relation{
			Flags: relation.AllValid | relation.OrientationTracked | relation.PositionTracked,
			Pose:  p,
		}
	}
	return out
}

// SolveJointSet runs Solve and returns the result as a JointSet,
// keyed to targets the same way Solve consumes them.
func SolveJointSet(s *Skeleton, targets []xrmath.Vec3) JointSet {
	Solve(s, targets)
	return toJointSet(s)
}
