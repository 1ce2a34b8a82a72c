package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pneumostabsim/pneumostabsim/common"
)

// Limits and defaults of the orbit camera. Linear quantities are in controller
// units (millimetres), angles in degrees.
const (
	MinDistance = 150.0
	MaxDistance = 30000.0
	MaxPitchDeg = 89.0
	MinFov      = 10.0
	MaxFov      = 120.0
	MinClipGap  = 0.1

	DefaultDistance        = 3500.0
	DefaultYawDeg          = 225.0
	DefaultPitchDeg        = -25.0
	DefaultFov             = 60.0
	DefaultNearPlane       = 10.0
	DefaultFarPlane        = 50000.0
	DefaultSpeed           = 1.0
	DefaultRotateSpeed     = 0.35
	DefaultAutoRotateSpeed = 0.5
	DefaultMarginFactor    = 1.15
	DefaultTrackWidth      = 1600.0

	// softResetYawLimit bounds the accumulated yaw a soft reset will keep.
	softResetYawLimit = 720.0
	// clipRepairGap is the gap restored between near and far when a clip
	// update would leave far <= near + MinClipGap.
	clipRepairGap = 1.0
)

// State holds every orbit camera parameter. Yaw, pitch, distance and pan are
// authoritative targets; the eased values drawn on screen come from Smoother.
//
// State is owned by a single CameraController and mutated only on the thread
// that drives it. Setters are silent; callers batch their changes and fire one
// NotifyCameraChanged.
type State struct {
	pivot    mgl64.Vec3
	distance float64
	yawDeg   float64
	pitchDeg float64
	panX     float64
	panY     float64

	fov       float64
	nearPlane float64
	farPlane  float64

	speed       float64
	rotateSpeed float64

	autoRotate      bool
	autoRotateSpeed float64

	isMoving bool

	onCameraChanged func()
	onViewReset     func()
	onMotionChanged func(moving bool)
}

// Pose is a value copy of the spatial part of State, the input of CameraRig.
type Pose struct {
	Pivot    mgl64.Vec3
	Distance float64
	YawDeg   float64
	PitchDeg float64
	PanX     float64
	PanY     float64
	Fov      float64
	Near     float64
	Far      float64
}

// NewState creates a State with the session defaults and applies options.
// Options assign raw values without clamping, matching how the controller
// builder options behave.
//
// Parameters:
//   - options: functional options to configure the state
//
// Returns:
//   - *State: the newly created state
func NewState(options ...StateOption) *State {
	s := &State{
		pivot:           mgl64.Vec3{0, 0, 0},
		distance:        DefaultDistance,
		yawDeg:          DefaultYawDeg,
		pitchDeg:        DefaultPitchDeg,
		fov:             DefaultFov,
		nearPlane:       DefaultNearPlane,
		farPlane:        DefaultFarPlane,
		speed:           DefaultSpeed,
		rotateSpeed:     DefaultRotateSpeed,
		autoRotateSpeed: DefaultAutoRotateSpeed,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// ClampPitch clamps a pitch angle to [-MaxPitchDeg, MaxPitchDeg] so the orbit
// never reaches gimbal lock at ±90°. NaN maps to 0.
func ClampPitch(p float64) float64 {
	return common.ClampFinite(p, -MaxPitchDeg, MaxPitchDeg, 0)
}

// ClampDistance clamps an orbit distance to [MinDistance, MaxDistance].
// NaN maps to MinDistance.
func ClampDistance(d float64) float64 {
	return common.ClampFinite(d, MinDistance, MaxDistance, MinDistance)
}

func clampFov(f float64) float64 {
	return common.ClampFinite(f, MinFov, MaxFov, DefaultFov)
}

// Pivot returns the orbit center in controller units.
func (s *State) Pivot() mgl64.Vec3 { return s.pivot }
// Distance returns the camera distance from the pivot.
func (s *State) Distance() float64 { return s.distance }
// YawDeg returns the unwrapped yaw angle in degrees.
func (s *State) YawDeg() float64 { return s.yawDeg }
// PitchDeg returns the pitch angle in degrees, within ±MaxPitchDeg.
func (s *State) PitchDeg() float64 { return s.pitchDeg }
// PanX returns the horizontal pan offset.
func (s *State) PanX() float64 { return s.panX }
// PanY returns the vertical pan offset.
func (s *State) PanY() float64 { return s.panY }
// Fov returns the vertical field of view in degrees.
func (s *State) Fov() float64 { return s.fov }
// NearPlane returns the near clip distance.
func (s *State) NearPlane() float64 { return s.nearPlane }
// FarPlane returns the far clip distance.
func (s *State) FarPlane() float64 { return s.farPlane }
// Speed returns the input speed multiplier.
func (s *State) Speed() float64 { return s.speed }
// RotateSpeed returns the orbit degrees per dragged pixel.
func (s *State) RotateSpeed() float64 { return s.rotateSpeed }
// AutoRotate returns whether auto-rotation is on.
func (s *State) AutoRotate() bool { return s.autoRotate }
// AutoRotateSpeed returns the auto-rotation rate.
func (s *State) AutoRotateSpeed() float64 { return s.autoRotateSpeed }
// IsMoving returns whether the camera is flagged as moving.
func (s *State) IsMoving() bool { return s.isMoving }

// Pose returns the current target pose.
func (s *State) Pose() Pose {
	return Pose{
		Pivot:    s.pivot,
		Distance: s.distance,
		YawDeg:   s.yawDeg,
		PitchDeg: s.pitchDeg,
		PanX:     s.panX,
		PanY:     s.panY,
		Fov:      s.fov,
		Near:     s.nearPlane,
		Far:      s.farPlane,
	}
}

// --- silent setters ---
//
// Each setter ignores non-finite input and reports whether the stored value
// changed.

// SetPivot sets the orbit center. The whole vector is rejected if any
// component is not finite.
func (s *State) SetPivot(p mgl64.Vec3) bool {
	if !common.IsFinite(p[0]) || !common.IsFinite(p[1]) || !common.IsFinite(p[2]) {
		return false
	}
	if s.pivot == p {
		return false
	}
	s.pivot = p
	return true
}

// SetDistance sets the orbit distance, clamped to [MinDistance, MaxDistance].
func (s *State) SetDistance(d float64) bool {
	if !common.IsFinite(d) {
		return false
	}
	return setFloat(&s.distance, ClampDistance(d))
}

// SetYawDeg sets the yaw angle. Yaw accumulates without wrapping.
func (s *State) SetYawDeg(y float64) bool {
	if !common.IsFinite(y) {
		return false
	}
	return setFloat(&s.yawDeg, y)
}

// SetPitchDeg sets the pitch angle, clamped by ClampPitch.
func (s *State) SetPitchDeg(p float64) bool {
	if !common.IsFinite(p) {
		return false
	}
	return setFloat(&s.pitchDeg, ClampPitch(p))
}

// SetPan sets the camera-plane offset. Both components must be finite.
func (s *State) SetPan(x, y float64) bool {
	if !common.IsFinite(x) || !common.IsFinite(y) {
		return false
	}
	changed := setFloat(&s.panX, x)
	return setFloat(&s.panY, y) || changed
}

// SetFov sets the vertical field of view in degrees, clamped to [MinFov, MaxFov].
func (s *State) SetFov(f float64) bool {
	if !common.IsFinite(f) {
		return false
	}
	return setFloat(&s.fov, clampFov(f))
}

// SetClipPlanes sets both clip distances at once. Non-finite or non-positive
// values keep the current plane. If the result would violate
// far > near + MinClipGap, far is pushed out to near + 1.
func (s *State) SetClipPlanes(near, far float64) bool {
	newNear, newFar := s.nearPlane, s.farPlane
	if common.IsFinite(near) && near > 0 {
		newNear = near
	}
	if common.IsFinite(far) && far > 0 {
		newFar = far
	}
	if !(newFar > newNear+MinClipGap) {
		newFar = newNear + clipRepairGap
	}
	changed := setFloat(&s.nearPlane, newNear)
	return setFloat(&s.farPlane, newFar) || changed
}

// SetSpeed sets the movement speed multiplier. Negative values clamp to 0.
func (s *State) SetSpeed(v float64) bool {
	if !common.IsFinite(v) {
		return false
	}
	return setFloat(&s.speed, math.Max(0, v))
}

// SetRotateSpeed sets the mouse-to-degrees sensitivity. Negative values clamp to 0.
func (s *State) SetRotateSpeed(v float64) bool {
	if !common.IsFinite(v) {
		return false
	}
	return setFloat(&s.rotateSpeed, math.Max(0, v))
}

// SetAutoRotate enables or disables auto-rotation.
func (s *State) SetAutoRotate(on bool) bool {
	if s.autoRotate == on {
		return false
	}
	s.autoRotate = on
	return true
}

// SetAutoRotateSpeed sets the auto-rotation speed in degrees per second
// (before the legacy x10 tick scale).
func (s *State) SetAutoRotateSpeed(v float64) bool {
	if !common.IsFinite(v) {
		return false
	}
	return setFloat(&s.autoRotateSpeed, v)
}

// --- motion flag ---

// FlagMotion marks the camera as moving. Only the false to true transition
// fires the motion callback.
func (s *State) FlagMotion() {
	if s.isMoving {
		return
	}
	s.isMoving = true
	if s.onMotionChanged != nil {
		s.onMotionChanged(true)
	}
}

// ClearMotion marks the camera as settled. Only the true to false transition
// fires the motion callback.
func (s *State) ClearMotion() {
	if !s.isMoving {
		return
	}
	s.isMoving = false
	if s.onMotionChanged != nil {
		s.onMotionChanged(false)
	}
}

// --- notifications ---

// SetCameraChangedCallback sets the function fired after a mutation that affects rendering.
func (s *State) SetCameraChangedCallback(callback func()) {
	s.onCameraChanged = callback
}

// SetViewResetCallback sets the function fired by the reset operations.
func (s *State) SetViewResetCallback(callback func()) {
	s.onViewReset = callback
}

// SetMotionChangedCallback sets the function fired when the motion flag flips.
func (s *State) SetMotionChangedCallback(callback func(moving bool)) {
	s.onMotionChanged = callback
}

// NotifyCameraChanged fires the camera changed callback, if any.
func (s *State) NotifyCameraChanged() {
	if s.onCameraChanged != nil {
		s.onCameraChanged()
	}
}

func (s *State) notifyViewReset() {
	if s.onViewReset != nil {
		s.onViewReset()
	}
}

func setFloat(dst *float64, v float64) bool {
	if *dst == v {
		return false
	}
	*dst = v
	return true
}
