// Package device implements the per-device state and clock-domain
// reconciliation layer: a Device interface over concrete 3-DoF and
// SLAM device kinds, each owning a per-device relation.History, mutex,
// and reader goroutine, plus the hw->monotonic clock offset estimator.
package device

import (
	"errors"
	"fmt"

	"github.com/foxis/trackcore/pkg/hand"
	"github.com/foxis/trackcore/pkg/relation"
	"github.com/foxis/trackcore/pkg/xrmath"
)

// Device is the capability set every concrete device kind implements.
// Kinds are flat concrete types behind this one interface; there is no
// inheritance-style layering between them.
type Device interface {
	UpdateInputs() error
	GetTrackedPose(inputName string, atNs int64) relation.Relation
	GetViewPoses(atNs int64) []xrmath.Pose
	GetHandTracking(atNs int64) (hand.JointSet, bool)
	SetOutput(name string, descriptor HapticDescriptor) error
	Close() error
}

// HapticDescriptor is a vibration command.
type HapticDescriptor struct {
	FrequencyHz float32
	Amplitude   float32 // [0,1]; 0 disables output.
	DurationNs  int64
}

// clampAmplitude clamps amplitude into [0,1].
func clampAmplitude(a float32) float32 {
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

// ErrUnknownOutput is returned by SetOutput for an unrecognized output
// name.
var ErrUnknownOutput = errors.New("device: unknown output name")

// ErrClosed reports a device operation after Close. ThreeDOFDevice and
// SLAMDevice do not return it: their methods do not check whether Close
// has run.
var ErrClosed = errors.New("device: closed")

func wrapf(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("device: %s: %w", op, err)
}
