package camera

// RigOption is a functional option for configuring a Rig.
type RigOption func(*Rig)

// WithControllerUnitsPerMeter sets how many controller units make one meter.
//
// Parameters:
//   - v: controller units per meter, falls back to 1000 when not positive
//
// Returns:
//   - RigOption: functional option to set the host unit scale
func WithControllerUnitsPerMeter(v float64) RigOption {
	return func(r *Rig) {
		r.controllerUnitsPerMeter = v
	}
}

// WithSceneUnitsPerMeter sets how many scene units make one meter.
//
// Parameters:
//   - v: scene units per meter, falls back to 1 when not positive
//
// Returns:
//   - RigOption: functional option to set the scene unit scale
func WithSceneUnitsPerMeter(v float64) RigOption {
	return func(r *Rig) {
		r.sceneUnitsPerMeter = v
	}
}
