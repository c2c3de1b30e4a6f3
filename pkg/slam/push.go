package slam

import (
	"fmt"

	"github.com/foxis/trackcore/pkg/frame"
	"github.com/foxis/trackcore/pkg/xrmath"
	"gocv.io/x/gocv"
)

type imuSinkAdapter struct{ a *Adapter }

func (s imuSinkAdapter) PushImu(sample frame.ImuSample) error {
	return s.a.pushImu(sample.TimestampNs, xrmath.Vec3(sample.Accel), xrmath.Vec3(sample.Gyro))
}

// pushImu forwards sample to the external engine and appends it to the
// gyro/accel FIFOs used for prediction. IMU timestamps must be strictly
// monotonically increasing; regressions are dropped rather than
// forwarded.
func (a *Adapter) pushImu(timestampNs int64, accel, gyro xrmath.Vec3) error {
	a.mu.Lock()
	if timestampNs <= a.lastImuTsNs && a.lastImuTsNs != 0 {
		a.mu.Unlock()
		a.Logger.Warn().Int64("ts", timestampNs).Int64("last", a.lastImuTsNs).Msg("slam: dropping non-monotonic imu sample")
		return nil
	}
	a.lastImuTsNs = timestampNs
	a.gyroFIFO.Push(gyro, timestampNs)
	a.accelFIFO.Push(accel, timestampNs)
	a.mu.Unlock()

	err := a.engine.PushImuSample(timestampNs, accel, gyro)
	a.wake()
	return err
}

type frameSinkAdapter struct {
	a           *Adapter
	cameraIndex int
}

func (s frameSinkAdapter) PushFrame(f *frame.Frame) error {
	return s.a.pushFrame(f, s.cameraIndex)
}

// pushFrame wraps f's backing buffer in a zero-copy gocv.Mat and hands
// the engine the Mat's own backing slice rather than f.Data directly.
// The Mat is closed as soon as the engine's PushFrame call returns:
// PushFrame is a blocking call, so by then the engine has either
// consumed or copied the pixel data, and closing the Mat is the point
// at which the held Frame reference is released.
func (a *Adapter) pushFrame(f *frame.Frame, cameraIndex int) error {
	a.mu.Lock()
	last := a.lastFrameTsNs[cameraIndex]
	if f.TimestampNs <= last && last != 0 {
		a.mu.Unlock()
		a.Logger.Warn().Int64("ts", f.TimestampNs).Int("camera", cameraIndex).Msg("slam: dropping non-monotonic frame")
		return nil
	}
	a.lastFrameTsNs[cameraIndex] = f.TimestampNs
	a.mu.Unlock()

	f.Ref()
	defer f.Release()

	matType := gocv.MatTypeCV8UC1
	if f.Format == frame.FormatBGR8 {
		matType = gocv.MatTypeCV8UC3
	}
	mat, err := gocv.NewMatFromBytes(f.Height, f.Width, matType, f.Data)
	if err != nil {
		return fmt.Errorf("slam: wrap frame as mat: %w", err)
	}
	defer mat.Close()

	matData, err := mat.DataPtrUint8()
	if err != nil {
		return fmt.Errorf("slam: read mat data: %w", err)
	}

	err = a.engine.PushFrame(f.TimestampNs, cameraIndex, mat.Cols(), mat.Rows(), mat.Step(), matData)
	a.wake()
	return err
}

type gtSinkAdapter struct{ a *Adapter }

// PushPose records a ground-truth pose for error metrics only; it never
// feeds into the history used for prediction.
func (s gtSinkAdapter) PushPose(sample frame.PoseSample) error {
	if s.a.csv == nil {
		return nil
	}
	pose := xrmath.Pose{
		Orientation: xrmath.Quat(sample.Orientation),
		Position:    xrmath.Vec3(sample.Position),
	}
	return s.a.csv.WriteGroundTruth(sample.TimestampNs, pose)
}
