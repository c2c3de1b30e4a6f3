// Package calib holds the plain calibration structs: camera intrinsics
// and extrinsics, IMU pre-filter parameters, and lighthouse sensor
// layouts. pkg/imupre builds its pre-filter from ImuCalibration. There is no decoding/parsing logic here — whoever loads the
// configuration file hands these structs over already populated. The
// fields are POD rather than cv.Mat so the package carries no gocv
// dependency of its own.
package calib

import "github.com/foxis/trackcore/pkg/xrmath"

// CameraCalibration holds a single camera's intrinsics, distortion
// model, and its extrinsic pose relative to the device's tracking
// origin.
type CameraCalibration struct {
	Width, Height int

	// CameraMatrix is the row-major 3x3 intrinsic matrix K.
	CameraMatrix xrmath.Matrix3x3
	// DistortionCoeffs holds (k1, k2, p1, p2, k3, ...) in OpenCV order.
	DistortionCoeffs []float64

	// PoseInDevice locates this camera relative to the device's
	// tracking origin.
	PoseInDevice xrmath.Pose
}

// ImuCalibration holds an accelerometer/gyroscope's per-axis
// pre-filter parameters plus its pose relative to the device's
// tracking origin.
type ImuCalibration struct {
	AccelTicksToFloat xrmath.Vec3
	AccelBias         xrmath.Vec3
	AccelGain         xrmath.Vec3
	AccelRemap        xrmath.Matrix3x3

	GyroTicksToFloat xrmath.Vec3
	GyroBias         xrmath.Vec3
	GyroGain         xrmath.Vec3
	GyroRemap        xrmath.Matrix3x3

	PoseInDevice xrmath.Pose
}

// LighthouseSensor is one photodiode sensor's position and normal on a
// lighthouse-tracked device, in the device's local frame.
type LighthouseSensor struct {
	Position xrmath.Vec3
	Normal   xrmath.Vec3
}

// LighthouseSensors is the full constellation of photodiode sensors
// used by a lighthouse (base-station) tracked device.
type LighthouseSensors struct {
	Sensors []LighthouseSensor
}

// ControllerIMUCalibration is the per-controller counterpart of
// ImuCalibration: identical shape, kept as a distinct type since
// controllers calibrate independently of the HMD.
type ControllerIMUCalibration struct {
	Imu ImuCalibration
}
