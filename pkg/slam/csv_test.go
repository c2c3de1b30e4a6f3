package slam

import (
	"bytes"
	"testing"

	"github.com/foxis/trackcore/pkg/xrmath"
	"github.com/stretchr/testify/require"
)

type nopCloseBuffer struct{ bytes.Buffer }

func (b *nopCloseBuffer) Close() error { return nil }

// TestCSVWriterUsesCRLFAndFixedPrecision pins the EuRoC dump format:
// CRLF line endings, 10-digit fixed precision, fixed column order.
func TestCSVWriterUsesCRLFAndFixedPrecision(t *testing.T) {
	traj := &nopCloseBuffer{}
	gt := &nopCloseBuffer{}

	w := NewCSVWriter(traj, gt)
	require.NoError(t, w.WriteTrajectory(100, xrmath.Pose{
		Orientation: xrmath.QuatIdentity(),
		Position:    xrmath.Vec3{1, 2, 3},
	}))
	require.NoError(t, w.WriteGroundTruth(200, xrmath.Pose{
		Orientation: xrmath.Quat{0, 0, 0, 1},
		Position:    xrmath.Vec3{-1.5, 0, 0.25},
	}))
	require.NoError(t, w.Close())

	wantHeader := "#timestamp [ns],p_x,p_y,p_z,q_w,q_x,q_y,q_z\r\n"
	wantTrajRow := "100,1.0000000000,2.0000000000,3.0000000000,1.0000000000,0.0000000000,0.0000000000,0.0000000000\r\n"
	wantGtRow := "200,-1.5000000000,0.0000000000,0.2500000000,1.0000000000,0.0000000000,0.0000000000,0.0000000000\r\n"

	require.Equal(t, wantHeader+wantTrajRow, traj.String())
	require.Equal(t, wantHeader+wantGtRow, gt.String())
}

// TestCSVWriterNilGroundTruthSkipsWrite covers the optional
// ground-truth writer being absent: WriteGroundTruth is then a no-op.
func TestCSVWriterNilGroundTruthSkipsWrite(t *testing.T) {
	traj := &nopCloseBuffer{}
	w := NewCSVWriter(traj, nil)
	require.NoError(t, w.WriteGroundTruth(1, xrmath.PoseIdentity()))
	require.NoError(t, w.Close())
}
