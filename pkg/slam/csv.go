package slam

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/foxis/trackcore/pkg/xrmath"
)

// csvWriter emits EuRoC-format trajectory rows
// (#timestamp [ns], p_x, p_y, p_z, q_w, q_x, q_y, q_z). Debug only; the
// format carries no stability guarantee across versions.
type csvWriter struct {
	trajectory *csv.Writer
	groundTruth *csv.Writer
	trajClose  func() error
	gtClose    func() error
}

// NewCSVWriter constructs a csvWriter over the given trajectory and
// (optional, may be nil) ground-truth writers. Both writers use CRLF
// line endings and poseRow formats floats at a fixed 10-digit
// precision, matching t_euroc_recorder.h's CSV_EOL "\r\n" and
// CSV_PRECISION 10 (std::fixed << std::setprecision(10)).
func NewCSVWriter(trajectory io.WriteCloser, groundTruth io.WriteCloser) *csvWriter {
	w := &csvWriter{
		trajectory: csv.NewWriter(trajectory),
		trajClose:  trajectory.Close,
	}
	w.trajectory.UseCRLF = true
	_ = w.trajectory.Write([]string{"#timestamp [ns]", "p_x", "p_y", "p_z", "q_w", "q_x", "q_y", "q_z"})
	if groundTruth != nil {
		w.groundTruth = csv.NewWriter(groundTruth)
		w.gtClose = groundTruth.Close
		w.groundTruth.UseCRLF = true
		_ = w.groundTruth.Write([]string{"#timestamp [ns]", "p_x", "p_y", "p_z", "q_w", "q_x", "q_y", "q_z"})
	}
	return w
}

func poseRow(tsNs int64, p xrmath.Pose) []string {
	return []string{
		fmt.Sprintf("%d", tsNs),
		fmt.Sprintf("%.10f", p.Position[0]),
		fmt.Sprintf("%.10f", p.Position[1]),
		fmt.Sprintf("%.10f", p.Position[2]),
		fmt.Sprintf("%.10f", p.Orientation[3]),
		fmt.Sprintf("%.10f", p.Orientation[0]),
		fmt.Sprintf("%.10f", p.Orientation[1]),
		fmt.Sprintf("%.10f", p.Orientation[2]),
	}
}

// WriteTrajectory appends a filtered pose estimate row.
func (w *csvWriter) WriteTrajectory(tsNs int64, p xrmath.Pose) error {
	if err := w.trajectory.Write(poseRow(tsNs, p)); err != nil {
		return err
	}
	w.trajectory.Flush()
	return w.trajectory.Error()
}

// WriteGroundTruth appends a ground-truth pose row, if a ground-truth
// writer was configured.
func (w *csvWriter) WriteGroundTruth(tsNs int64, p xrmath.Pose) error {
	if w.groundTruth == nil {
		return nil
	}
	if err := w.groundTruth.Write(poseRow(tsNs, p)); err != nil {
		return err
	}
	w.groundTruth.Flush()
	return w.groundTruth.Error()
}

// Close flushes and closes the underlying writers.
func (w *csvWriter) Close() error {
	w.trajectory.Flush()
	var err error
	if w.trajClose != nil {
		err = w.trajClose()
	}
	if w.groundTruth != nil {
		w.groundTruth.Flush()
		if w.gtClose != nil {
			if gtErr := w.gtClose(); gtErr != nil && err == nil {
				err = gtErr
			}
		}
	}
	return err
}
