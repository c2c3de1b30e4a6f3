// Package imupre applies the per-device IMU pre-filter: raw ticks to SI
// units, bias/gain correction, and an axis-remap matrix.
package imupre

import (
	"github.com/foxis/trackcore/pkg/calib"
	"github.com/foxis/trackcore/pkg/xrmath"
)

// AxisFilter holds the per-axis calibration for one sensor (accel or
// gyro): scalar tick conversion, additive bias, multiplicative gain, and
// a 3x3 remap matrix normalizing device-local axes to a common
// convention.
type AxisFilter struct {
	TicksToFloat xrmath.Vec3
	Bias         xrmath.Vec3
	Gain         xrmath.Vec3
	Remap        xrmath.Matrix3x3
}

// NewAxisFilter returns an identity pre-filter: unit conversion, zero
// bias, unit gain, identity remap.
func NewAxisFilter() AxisFilter {
	return AxisFilter{
		TicksToFloat: xrmath.Vec3{1, 1, 1},
		Gain:         xrmath.Vec3{1, 1, 1},
		Remap:        xrmath.Matrix3x3Identity(),
	}
}

// SetSwitchXY swaps the X and Y rows of the remap matrix, for devices
// that mirror a handedness across those two axes.
func (f *AxisFilter) SetSwitchXY() {
	f.Remap = xrmath.Matrix3x3SwitchXY(f.Remap)
}

// Apply converts a raw tick sample into calibrated SI units:
// M * (gain ⊙ (v_ticks * ticks_to_float − bias)).
func (f AxisFilter) Apply(raw xrmath.Vec3) xrmath.Vec3 {
	var scaled xrmath.Vec3
	for i := 0; i < 3; i++ {
		scaled[i] = (raw[i]*f.TicksToFloat[i] - f.Bias[i]) * f.Gain[i]
	}
	return xrmath.Matrix3x3TransformVec3(f.Remap, scaled)
}

// Filter holds the independent accel and gyro pre-filters for one
// device.
type Filter struct {
	Accel AxisFilter
	Gyro  AxisFilter
}

// NewFilter returns an identity pre-filter for both channels.
func NewFilter() Filter {
	return Filter{Accel: NewAxisFilter(), Gyro: NewAxisFilter()}
}

// Apply runs both channels independently.
func (f Filter) Apply(rawAccel, rawGyro xrmath.Vec3) (accel, gyro xrmath.Vec3) {
	return f.Accel.Apply(rawAccel), f.Gyro.Apply(rawGyro)
}

// NewFilterFromCalibration builds a Filter directly from the config
// loader's typed ImuCalibration struct; this package never sees raw
// config-file bytes.
func NewFilterFromCalibration(c calib.ImuCalibration) Filter {
	return Filter{
		Accel: AxisFilter{
			TicksToFloat: c.AccelTicksToFloat,
			Bias:         c.AccelBias,
			Gain:         c.AccelGain,
			Remap:        c.AccelRemap,
		},
		Gyro: AxisFilter{
			TicksToFloat: c.GyroTicksToFloat,
			Bias:         c.GyroBias,
			Gain:         c.GyroGain,
			Remap:        c.GyroRemap,
		},
	}
}
