package fusion

// GravityMode selects the low-pass time constant of the gravity
// correction step. The two named durations are the common presets, not
// a fixed contract — Options.GravityTimeConstant can be set directly
// for any other value.
type GravityMode int

const (
	GravityDur20ms GravityMode = iota
	GravityDur300ms
)

func (m GravityMode) timeConstantSeconds() float32 {
	switch m {
	case GravityDur300ms:
		return 0.300
	default:
		return 0.020
	}
}

// StandardGravity is the nominal gravitational acceleration magnitude
// (m/s^2) used to gate the correction step.
const StandardGravity = 9.8066

// Options configures a Fuser.
type Options struct {
	GravityTimeConstant float32
	MaxDtSeconds        float32
}

type Option func(*Options)

func defaultOptions() Options {
	return Options{
		GravityTimeConstant: GravityDur20ms.timeConstantSeconds(),
		MaxDtSeconds:        0.200,
	}
}

func applyOptions(o *Options, opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// WithGravityMode selects one of the two named gravity-correction
// durations.
func WithGravityMode(mode GravityMode) Option {
	return func(o *Options) { o.GravityTimeConstant = mode.timeConstantSeconds() }
}

// WithGravityTimeConstant sets an arbitrary gravity-correction time
// constant in seconds, for tuning beyond the two named modes.
func WithGravityTimeConstant(seconds float32) Option {
	return func(o *Options) { o.GravityTimeConstant = seconds }
}

// WithMaxDt bounds the per-sample integration step so a pause in the
// sample stream doesn't produce a huge single-step rotation.
func WithMaxDt(seconds float32) Option {
	return func(o *Options) { o.MaxDtSeconds = seconds }
}
