// Package slam adapts an external visual-inertial SLAM implementation
// into the tracking pipeline: it fans IMU samples and stereo frames
// into the external engine, drains its pose queue, predicts forward to
// the query timestamp, and filters the result.
package slam

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/foxis/trackcore/internal/xrlog"
	"github.com/foxis/trackcore/pkg/filter"
	"github.com/foxis/trackcore/pkg/frame"
	"github.com/foxis/trackcore/pkg/relation"
	"github.com/foxis/trackcore/pkg/xrmath"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ExternalSLAM is the capability set an external visual-inertial SLAM
// engine must expose.
type ExternalSLAM interface {
	Initialize(ctx context.Context) error
	Start() error
	Stop() error
	Finalize() error
	PushImuSample(timestampNs int64, accel, gyro xrmath.Vec3) error
	PushFrame(timestampNs int64, cameraIndex int, width, height, stride int, data []byte) error
	TryDequeuePose() (timestampNs int64, pose xrmath.Pose, ok bool)
	SupportsFeature(name string) bool
	UseFeature(name string, enabled bool) error
}

// PredictionMode selects how the adapter sources velocity when
// predicting a pose forward from the latest SLAM sample.
type PredictionMode int

const (
	// PredictNone returns the latest relation unchanged.
	PredictNone PredictionMode = iota
	// PredictSPSOSASL: straight pose/orientation, straight accel/"straight linvel" —
	// interpolate from history, never extrapolate with fresh IMU data.
	PredictSPSOSASL
	// PredictSPSOIASL: integrate angular velocity from the gyro FIFO average.
	PredictSPSOIASL
	// PredictSPSOIAIL: additionally integrate linear velocity from the
	// accel FIFO average, gravity-corrected.
	PredictSPSOIAIL
)

// Option configures an Adapter.
type Option func(*Options)

// Options holds Adapter configuration.
type Options struct {
	Mode              PredictionMode
	GravityVec        xrmath.Vec3
	HistoryCapacity   int
	ImuFifoWindowMs   int64
	OneEuroMinCutoff  float32
	OneEuroBeta       float32
	OneEuroDCutoff    float32
	ExponentialAlpha  float32
	EnableOneEuro     bool
	EnableExponential bool
	Logger            zerolog.Logger
}

func defaultOptions() Options {
	return Options{
		Mode:             PredictNone,
		GravityVec:       xrmath.Vec3{0, 0, -9.8066},
		HistoryCapacity:  relation.DefaultCapacity,
		ImuFifoWindowMs:  500,
		OneEuroMinCutoff: 1.0,
		OneEuroBeta:      0.01,
		OneEuroDCutoff:   1.0,
		ExponentialAlpha: 1.0,
		Logger:           xrlog.Log,
	}
}

func applyOptions(o *Options, opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

func WithPredictionMode(m PredictionMode) Option { return func(o *Options) { o.Mode = m } }
func WithGravityVec(g xrmath.Vec3) Option        { return func(o *Options) { o.GravityVec = g } }
func WithOneEuro(enabled bool) Option            { return func(o *Options) { o.EnableOneEuro = enabled } }
func WithExponential(enabled bool) Option {
	return func(o *Options) { o.EnableExponential = enabled }
}
func WithLogger(l zerolog.Logger) Option { return func(o *Options) { o.Logger = l } }

// State is the adapter's own lifecycle state machine. Transitions are
// one-way: Created -> Initialized -> Running -> Stopping -> Destroyed.
type State int

const (
	StateCreated State = iota
	StateInitialized
	StateRunning
	StateStopping
	StateDestroyed
)

// Adapter owns an external SLAM engine and turns its raw pose stream
// into filtered, queryable relations.
//
// The adapter mutex is never held across a call into the external
// engine: the engine may run its own pipeline and reenter a push sink,
// which would deadlock on a held lock.
type Adapter struct {
	Options

	engine ExternalSLAM

	mu          sync.Mutex
	state       State
	history     *relation.History
	gyroFIFO    *filter.MovingAverage
	accelFIFO   *filter.MovingAverage
	oneEuroPos  *filter.OneEuroVec3
	oneEuroOri  *filter.OneEuroQuat
	exponential *filter.Exponential

	lastImuTsNs   int64
	lastFrameTsNs [2]int64

	cacheTsNs int64
	cacheRel  relation.Relation
	haveCache bool

	csv *csvWriter

	// worker goroutine lifecycle: notify is signalled (without
	// blocking) by the push paths so the worker drains the engine's
	// pose queue promptly instead of only at query time.
	worker       *errgroup.Group
	workerCancel context.CancelFunc
	notify       chan struct{}
}

// New constructs an Adapter around engine. Configuration-file-missing
// style construction failures belong to whoever built the engine;
// they abort before this point.
func New(engine ExternalSLAM, opts ...Option) (*Adapter, error) {
	if engine == nil {
		return nil, errors.New("slam: engine must not be nil")
	}
	o := defaultOptions()
	applyOptions(&o, opts...)

	a := &Adapter{
		Options:     o,
		engine:      engine,
		history:     relation.NewHistory(o.HistoryCapacity),
		gyroFIFO:    filter.NewMovingAverage(o.ImuFifoWindowMs),
		accelFIFO:   filter.NewMovingAverage(o.ImuFifoWindowMs),
		oneEuroPos:  filter.NewOneEuroVec3(o.OneEuroMinCutoff, o.OneEuroBeta, o.OneEuroDCutoff),
		oneEuroOri:  filter.NewOneEuroQuat(o.OneEuroMinCutoff, o.OneEuroBeta, o.OneEuroDCutoff),
		exponential: filter.NewExponential(o.ExponentialAlpha),
		notify:      make(chan struct{}, 1),
	}
	return a, nil
}

// transition flips the state machine from want to next under the lock,
// without the engine call itself — transitions are one-way, and the
// engine is always invoked with the lock released.
func (a *Adapter) transition(want, next State, op string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != want {
		return fmt.Errorf("slam: %s called in state %v, want %v", op, a.state, want)
	}
	a.state = next
	return nil
}

// Initialize transitions Created -> Initialized, calling the external
// engine's Initialize.
func (a *Adapter) Initialize(ctx context.Context) error {
	if err := a.transition(StateCreated, StateInitialized, "Initialize"); err != nil {
		return err
	}
	if err := a.engine.Initialize(ctx); err != nil {
		return fmt.Errorf("slam: engine initialize: %w", err)
	}
	return nil
}

// StartRunning transitions Initialized -> Running: the external engine
// is started and the adapter's worker goroutine begins draining the
// engine's pose queue, woken by the push paths.
func (a *Adapter) StartRunning() error {
	if err := a.transition(StateInitialized, StateRunning, "Start"); err != nil {
		return err
	}
	if err := a.engine.Start(); err != nil {
		return fmt.Errorf("slam: engine start: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	a.mu.Lock()
	a.worker = g
	a.workerCancel = cancel
	a.mu.Unlock()
	g.Go(func() error { return a.runWorker(gctx) })
	return nil
}

// runWorker is the adapter's worker loop: it blocks until a push path
// signals fresh input (or shutdown cancels it), then drains the
// engine's pose queue into the history.
func (a *Adapter) runWorker(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.notify:
			a.flush()
		}
	}
}

// wake nudges the worker without blocking the push path.
func (a *Adapter) wake() {
	select {
	case a.notify <- struct{}{}:
	default:
	}
}

// Destroy transitions to Destroyed: the worker is cancelled and
// joined, then the external engine is stopped and finalized.
// Idempotent: repeated calls are no-ops.
func (a *Adapter) Destroy() error {
	a.mu.Lock()
	if a.state == StateDestroyed || a.state == StateStopping {
		a.mu.Unlock()
		return nil
	}
	a.state = StateStopping
	worker, cancel := a.worker, a.workerCancel
	csvw := a.csv
	a.mu.Unlock()

	var errs []error
	if worker != nil {
		cancel()
		if err := worker.Wait(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.engine.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := a.engine.Finalize(); err != nil {
		errs = append(errs, err)
	}
	if csvw != nil {
		if err := csvw.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	a.mu.Lock()
	a.state = StateDestroyed
	a.mu.Unlock()
	return errors.Join(errs...)
}

// WithCSVWriters attaches EuRoC-format trajectory/ground-truth CSV writers
// for debugging; call before StartRunning.
func (a *Adapter) WithCSVWriters(w *csvWriter) {
	a.mu.Lock()
	a.csv = w
	a.mu.Unlock()
}

// State reports the adapter's current lifecycle state.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// ImuSink returns a frame.ImuSink view onto the adapter's IMU push
// path, for wiring into a FrameContext/device reader thread.
func (a *Adapter) ImuSink() frame.ImuSink { return imuSinkAdapter{a} }

// LeftSink returns the left-camera frame.FrameSink.
func (a *Adapter) LeftSink() frame.FrameSink { return frameSinkAdapter{a, 0} }

// RightSink returns the right-camera frame.FrameSink.
func (a *Adapter) RightSink() frame.FrameSink { return frameSinkAdapter{a, 1} }

// GroundTruthSink returns the optional ground-truth frame.PoseSink,
// recorded for error metrics only and never fed into prediction.
func (a *Adapter) GroundTruthSink() frame.PoseSink { return gtSinkAdapter{a} }
