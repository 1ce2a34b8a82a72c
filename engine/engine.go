package engine

import (
	"time"

	"github.com/pneumostabsim/pneumostabsim/common"
	"github.com/pneumostabsim/pneumostabsim/engine/profiler"
	"github.com/pneumostabsim/pneumostabsim/engine/window"
	"github.com/rs/zerolog"
)

// DefaultTickRate is the fixed-step rate used when none is configured.
const DefaultTickRate = 60.0

// maxCatchUpTicks bounds how many fixed steps one frame may run after a stall.
const maxCatchUpTicks = 5

// engine implements the Engine interface.
// Everything runs on the window thread: the window update callback drives
// the fixed-step ticks, the frame callback and the profiler.
type engine struct {
	running  bool
	quitDone bool

	window window.Window
	clock  common.Clock
	logger zerolog.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	stepper stepper

	tickCallback  func(step time.Duration)
	frameCallback func(dt time.Duration)
	statsCallback func(stats profiler.Stats)
}

// Engine orchestrates the fixed-step update loop and per-frame work on top of a Window.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the fixed-step rate in ticks per second.
	//
	// Parameters:
	//   - hz: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(hz float64)

	// TickInterval returns the fixed step duration.
	//
	// Returns:
	//   - time.Duration: the step
	TickInterval() time.Duration

	// SetTickCallback registers the function called once per fixed step.
	//
	// Parameters:
	//   - callback: function receiving the fixed step duration
	SetTickCallback(callback func(step time.Duration))

	// SetFrameCallback registers the function called once per window update,
	// after the fixed steps for that update have run.
	//
	// Parameters:
	//   - callback: function receiving the wall time since the previous frame
	SetFrameCallback(callback func(dt time.Duration))

	// SetStatsCallback registers the function called whenever the profiler
	// completes a sampling window.
	//
	// Parameters:
	//   - callback: function receiving the sampled statistics
	SetStatsCallback(callback func(stats profiler.Stats))

	// Update advances the loop by one iteration: measure dt, run the due
	// fixed steps, run the frame callback, then sample the profiler.
	// Run calls it from the window update callback; hosts without a window
	// may call it directly.
	Update()

	// Run starts the window message loop and blocks until the window closes.
	Run()

	// Quit stops the loop and asks the window to close.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, tick rate, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		clock:   common.RealClock{},
		logger:  zerolog.Nop(),
		stepper: newStepper(rateToInterval(DefaultTickRate), maxCatchUpTicks),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithClock(e.clock), profiler.WithLogger(e.logger))
	}

	if e.window != nil {
		e.window.SetUpdateCallback(e.Update)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	if e.window == nil {
		e.logger.Warn().Msg("engine has no window to run")
		return
	}
	e.running = true
	e.stepper.reset(e.clock.Now())
	e.window.ProcessMessages()
	e.running = false
}

func (e *engine) Update() {
	now := e.clock.Now()
	dt, ticks := e.stepper.advance(now)
	if e.tickCallback != nil {
		for range ticks {
			e.tickCallback(e.stepper.step)
		}
	}

	if e.frameCallback != nil {
		e.frameCallback(dt)
	}

	if e.profilingEnabled && e.profiler != nil {
		if stats, ok := e.profiler.Tick(); ok && e.statsCallback != nil {
			e.statsCallback(stats)
		}
	}
}

func (e *engine) Quit() {
	if e.quitDone {
		return
	}
	e.quitDone = true
	e.running = false
	if e.window != nil {
		e.window.RequestClose()
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(hz float64) {
	e.stepper.step = rateToInterval(hz)
}

func (e *engine) TickInterval() time.Duration {
	return e.stepper.step
}

func (e *engine) SetTickCallback(callback func(step time.Duration)) {
	e.tickCallback = callback
}

func (e *engine) SetFrameCallback(callback func(dt time.Duration)) {
	e.frameCallback = callback
}

func (e *engine) SetStatsCallback(callback func(stats profiler.Stats)) {
	e.statsCallback = callback
}

func rateToInterval(hz float64) time.Duration {
	if !(hz > 0) || !common.IsFinite(hz) {
		hz = DefaultTickRate
	}
	return time.Duration(float64(time.Second) / hz)
}

// stepper converts wall time into a count of fixed steps.
// Time left over after a capped catch-up is dropped rather than carried.
type stepper struct {
	step     time.Duration
	maxTicks int

	started bool
	last    time.Time
	acc     time.Duration
}

func newStepper(step time.Duration, maxTicks int) stepper {
	return stepper{step: step, maxTicks: maxTicks}
}

func (s *stepper) reset(now time.Time) {
	s.started = true
	s.last = now
	s.acc = 0
}

// advance returns the wall time since the previous call and the number of
// fixed steps now due. The first call only records the start time.
func (s *stepper) advance(now time.Time) (time.Duration, int) {
	if !s.started {
		s.reset(now)
		return 0, 0
	}
	dt := now.Sub(s.last)
	s.last = now
	if dt < 0 {
		dt = 0
	}

	s.acc += dt
	ticks := int(s.acc / s.step)
	if ticks > s.maxTicks {
		ticks = s.maxTicks
		s.acc = 0
	} else {
		s.acc -= time.Duration(ticks) * s.step
	}
	return dt, ticks
}
