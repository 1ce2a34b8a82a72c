package camera

import "github.com/go-gl/mathgl/mgl64"

// StateOption is a functional option for configuring a State.
// Options assign values as given; clamping applies only to later mutations.
type StateOption func(*State)

// WithPivot sets the initial orbit center in controller units.
//
// Parameters:
//   - x, y, z: pivot coordinates
//
// Returns:
//   - StateOption: functional option to set the pivot
func WithPivot(x, y, z float64) StateOption {
	return func(s *State) {
		s.pivot = mgl64.Vec3{x, y, z}
	}
}

// WithDistance sets the initial orbit distance in controller units.
//
// Parameters:
//   - distance: camera-to-pivot distance
//
// Returns:
//   - StateOption: functional option to set the distance
func WithDistance(distance float64) StateOption {
	return func(s *State) {
		s.distance = distance
	}
}

// WithOrbit sets the initial yaw and pitch in degrees.
//
// Parameters:
//   - yawDeg: horizontal orbit angle
//   - pitchDeg: vertical orbit angle
//
// Returns:
//   - StateOption: functional option to set the orbit angles
func WithOrbit(yawDeg, pitchDeg float64) StateOption {
	return func(s *State) {
		s.yawDeg = yawDeg
		s.pitchDeg = pitchDeg
	}
}

// WithPan sets the initial camera-plane offset in controller units.
//
// Parameters:
//   - x, y: pan offset
//
// Returns:
//   - StateOption: functional option to set the pan offset
func WithPan(x, y float64) StateOption {
	return func(s *State) {
		s.panX = x
		s.panY = y
	}
}

// WithFov sets the vertical field of view in degrees.
//
// Parameters:
//   - fov: field of view in degrees
//
// Returns:
//   - StateOption: functional option to set the field of view
func WithFov(fov float64) StateOption {
	return func(s *State) {
		s.fov = fov
	}
}

// WithClipPlanes sets the near and far clip distances in controller units.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - StateOption: functional option to set the clip planes
func WithClipPlanes(near, far float64) StateOption {
	return func(s *State) {
		s.nearPlane = near
		s.farPlane = far
	}
}

// WithSpeed sets the movement speed multiplier.
//
// Parameters:
//   - speed: multiplier applied to pan input
//
// Returns:
//   - StateOption: functional option to set the speed
func WithSpeed(speed float64) StateOption {
	return func(s *State) {
		s.speed = speed
	}
}

// WithRotateSpeed sets the mouse drag sensitivity in degrees per pixel.
//
// Parameters:
//   - rotateSpeed: degrees per pixel of drag
//
// Returns:
//   - StateOption: functional option to set the rotate speed
func WithRotateSpeed(rotateSpeed float64) StateOption {
	return func(s *State) {
		s.rotateSpeed = rotateSpeed
	}
}

// WithAutoRotate sets the initial auto-rotation flag and speed.
//
// Parameters:
//   - enabled: whether auto-rotation starts enabled
//   - speed: auto-rotation speed in degrees per second
//
// Returns:
//   - StateOption: functional option to set auto-rotation
func WithAutoRotate(enabled bool, speed float64) StateOption {
	return func(s *State) {
		s.autoRotate = enabled
		s.autoRotateSpeed = speed
	}
}
