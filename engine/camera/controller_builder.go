package camera

import (
	"time"

	"github.com/pneumostabsim/pneumostabsim/common"
	"github.com/rs/zerolog"
)

// ControllerOption is a functional option for configuring a CameraController.
type ControllerOption func(*cameraControllerImpl)

// WithClock sets the time source for the motion settle deadline.
//
// Parameters:
//   - clock: the time source
//
// Returns:
//   - ControllerOption: functional option to set the clock
func WithClock(clock common.Clock) ControllerOption {
	return func(cc *cameraControllerImpl) {
		if clock != nil {
			cc.clock = clock
		}
	}
}

// WithLogger sets the controller logger. The input controller inherits it.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - ControllerOption: functional option to set the logger
func WithLogger(logger zerolog.Logger) ControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.logger = logger
	}
}

// WithGeometry sets the initial frame geometry in controller units.
//
// Parameters:
//   - g: the geometry used by fit and reset
//
// Returns:
//   - ControllerOption: functional option to set the geometry
func WithGeometry(g Geometry) ControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.geometry = g
	}
}

// WithSceneScaleFactor sets the meters to controller units factor applied to
// payload lengths.
//
// Parameters:
//   - v: the scale factor, falls back to 1000 when not positive
//
// Returns:
//   - ControllerOption: functional option to set the scale factor
func WithSceneScaleFactor(v float64) ControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.sceneScaleFactor = v
	}
}

// WithSmoothing sets the settle time of presentation smoothing.
//
// Parameters:
//   - d: the settle time, 0 disables easing
//
// Returns:
//   - ControllerOption: functional option to set the smoothing time
func WithSmoothing(d time.Duration) ControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.smoothing = d
	}
}

// WithStateOptions forwards options to the camera state.
//
// Parameters:
//   - options: the state options
//
// Returns:
//   - ControllerOption: functional option to configure the state
func WithStateOptions(options ...StateOption) ControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.stateOptions = append(cc.stateOptions, options...)
	}
}

// WithRigOptions forwards options to the rig.
//
// Parameters:
//   - options: the rig options
//
// Returns:
//   - ControllerOption: functional option to configure the rig
func WithRigOptions(options ...RigOption) ControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rigOptions = append(cc.rigOptions, options...)
	}
}

// WithInputOptions forwards options to the input controller. They are
// applied after the controller's clock and logger.
//
// Parameters:
//   - options: the input options
//
// Returns:
//   - ControllerOption: functional option to configure input
func WithInputOptions(options ...InputOption) ControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.inputOptions = append(cc.inputOptions, options...)
	}
}
