package camera

import (
	"time"

	"github.com/pneumostabsim/pneumostabsim/common"
	"github.com/rs/zerolog"
)

// InputOption is a functional option for configuring an InputController.
type InputOption func(*inputControllerImpl)

// WithInputClock sets the clock the motion settle deadline is measured against.
//
// Parameters:
//   - clock: the time source
//
// Returns:
//   - InputOption: functional option to set the clock
func WithInputClock(clock common.Clock) InputOption {
	return func(ic *inputControllerImpl) {
		if clock != nil {
			ic.clock = clock
		}
	}
}

// WithInputLogger sets the logger for discarded input events.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - InputOption: functional option to set the logger
func WithInputLogger(logger zerolog.Logger) InputOption {
	return func(ic *inputControllerImpl) {
		ic.logger = logger
	}
}

// WithViewportHeight sets the initial surface height used for pan scaling.
//
// Parameters:
//   - height: viewport height in pixels
//
// Returns:
//   - InputOption: functional option to set the viewport height
func WithViewportHeight(height float64) InputOption {
	return func(ic *inputControllerImpl) {
		ic.SetViewportHeight(height)
	}
}

// WithMotionSettling sets the motion settle interval.
//
// Parameters:
//   - d: the settle interval
//
// Returns:
//   - InputOption: functional option to set the settle interval
func WithMotionSettling(d time.Duration) InputOption {
	return func(ic *inputControllerImpl) {
		ic.settle = max(d, 0)
	}
}

// WithAdaptiveMotion sets whether input flags camera motion.
//
// Parameters:
//   - enabled: the initial mode
//
// Returns:
//   - InputOption: functional option to set adaptive mode
func WithAdaptiveMotion(enabled bool) InputOption {
	return func(ic *inputControllerImpl) {
		ic.adaptive = enabled
	}
}
