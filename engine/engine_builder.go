package engine

import (
	"github.com/pneumostabsim/pneumostabsim/common"
	"github.com/pneumostabsim/pneumostabsim/engine/profiler"
	"github.com/pneumostabsim/pneumostabsim/engine/window"
	"github.com/rs/zerolog"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the fixed-step rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - hz: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(hz float64) EngineBuilderOption {
	return func(e *engine) {
		e.stepper.step = rateToInterval(hz)
	}
}

// WithWindow sets the window whose message loop drives the engine.
//
// Parameters:
//   - w: a spawned Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithClock sets the time source for frame timing and the default profiler.
//
// Parameters:
//   - clock: the time source
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(clock common.Clock) EngineBuilderOption {
	return func(e *engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithLogger sets the engine logger.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger zerolog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler to sample each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}
