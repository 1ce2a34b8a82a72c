package camera

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pneumostabsim/pneumostabsim/common"
	"github.com/rs/zerolog"
)

const (
	// AutoRotateInterval is the fixed tick the auto-rotation scheduler is
	// designed for.
	AutoRotateInterval = time.Second / 60

	// DefaultSceneScaleFactor converts payload meters to controller units.
	DefaultSceneScaleFactor = 1000.0

	// autoRotateScale is a legacy multiplier on the per-tick yaw advance.
	autoRotateScale = 10.0
)

// CameraController is the single integration point between a host and the
// camera subsystem. It owns the camera state, derives the rig transform,
// routes input and applies host payloads.
type CameraController interface {
	// AutoFitFrame frames the current geometry with the given margin.
	// NaN selects DefaultMarginFactor; values below 1 are raised to 1.
	//
	// Parameters:
	//   - margin: headroom factor
	AutoFitFrame(margin float64)

	// ResetView recenters the pivot, keeping an in-bounds orbit.
	ResetView()

	// FullResetView restores the default orbit and refits the geometry.
	FullResetView()

	// ApplyCameraUpdates merges a decoded camera update into the state and
	// fires a single "camera changed" notification.
	//
	// Parameters:
	//   - u: the decoded update
	ApplyCameraUpdates(u CameraUpdate)

	// ApplyCameraPayload decodes a raw payload and applies it.
	//
	// Parameters:
	//   - payload: the raw key-value payload
	ApplyCameraPayload(payload map[string]any)

	// UpdateGeometry merges a decoded geometry update used by fit and reset.
	//
	// Parameters:
	//   - u: the decoded update in controller units
	UpdateGeometry(u GeometryUpdate)

	// UpdateGeometryPayload decodes a raw geometry payload and applies it.
	//
	// Parameters:
	//   - payload: the raw key-value payload
	UpdateGeometryPayload(payload map[string]any)

	// Geometry returns the geometry used by fit and reset.
	//
	// Returns:
	//   - Geometry: the current geometry in controller units
	Geometry() Geometry

	// Tick advances auto-rotation by one fixed step and polls the motion
	// settle deadline.
	//
	// Parameters:
	//   - step: the fixed step in seconds
	Tick(step float64)

	// Frame advances presentation smoothing by dt and returns the eased
	// scene transform.
	//
	// Parameters:
	//   - dt: elapsed frame time in seconds
	//
	// Returns:
	//   - RigTransform: the eased transform
	Frame(dt float64) RigTransform

	// Transform returns the scene transform of the authoritative state.
	//
	// Returns:
	//   - RigTransform: the target transform
	Transform() RigTransform

	// Snapshot returns a value copy of the camera state.
	//
	// Returns:
	//   - Snapshot: the current state
	Snapshot() Snapshot

	Pivot() mgl64.Vec3
	Distance() float64
	YawDeg() float64
	PitchDeg() float64
	PanX() float64
	PanY() float64
	Fov() float64
	NearPlane() float64
	FarPlane() float64
	Speed() float64
	AutoRotate() bool
	AutoRotateSpeed() float64
	IsMoving() bool

	// MotionSettlingMs returns the input settle interval in milliseconds.
	//
	// Returns:
	//   - int64: the settle interval
	MotionSettlingMs() int64

	// SetAutoRotate enables or disables auto-rotation.
	//
	// Parameters:
	//   - enabled: the new auto-rotation flag
	SetAutoRotate(enabled bool)

	// ToggleAutoRotate flips auto-rotation.
	ToggleAutoRotate()

	// SceneScaleFactor returns the meters to controller units factor applied
	// to payload lengths.
	//
	// Returns:
	//   - float64: the scale factor
	SceneScaleFactor() float64

	// SetSceneScaleFactor sets the payload scale factor. Values that are not
	// positive and finite fall back to DefaultSceneScaleFactor.
	//
	// Parameters:
	//   - v: the scale factor
	SetSceneScaleFactor(v float64)

	// AdaptiveMotion reports whether input and auto-rotation flag motion.
	//
	// Returns:
	//   - bool: true when adaptive mode is on
	AdaptiveMotion() bool

	// SetAdaptiveMotion toggles adaptive mode.
	//
	// Parameters:
	//   - enabled: the new mode
	SetAdaptiveMotion(enabled bool)

	// FlagMotion sets the motion flag and restarts the settle deadline.
	FlagMotion()

	// Input returns the input controller bound to this camera.
	//
	// Returns:
	//   - InputController: the input controller
	Input() InputController

	// Rig returns the unit-converting rig.
	//
	// Returns:
	//   - *Rig: the rig
	Rig() *Rig

	// SetCameraChangedCallback sets the function fired after any mutation
	// that affects rendering.
	SetCameraChangedCallback(callback func())

	// SetViewResetCallback sets the function fired by reset operations.
	SetViewResetCallback(callback func())

	// SetMotionChangedCallback sets the function fired when the motion flag flips.
	SetMotionChangedCallback(callback func(moving bool))

	// SetToggleHudCallback sets the function invoked by Ctrl+H.
	SetToggleHudCallback(callback func())
}

// Snapshot is a value copy of the camera state read by the HUD and by hosts
// that persist the camera.
type Snapshot struct {
	Pivot            mgl64.Vec3 `json:"pivot"`
	Distance         float64    `json:"distance"`
	YawDeg           float64    `json:"yawDeg"`
	PitchDeg         float64    `json:"pitchDeg"`
	PanX             float64    `json:"panX"`
	PanY             float64    `json:"panY"`
	Fov              float64    `json:"fov"`
	NearPlane        float64    `json:"nearPlane"`
	FarPlane         float64    `json:"farPlane"`
	Speed            float64    `json:"speed"`
	RotateSpeed      float64    `json:"rotateSpeed"`
	AutoRotate       bool       `json:"autoRotate"`
	AutoRotateSpeed  float64    `json:"autoRotateSpeed"`
	IsMoving         bool       `json:"isMoving"`
	MotionSettlingMs int64      `json:"motionSettlingMs"`
}

type cameraControllerImpl struct {
	state    *State
	rig      *Rig
	input    InputController
	smoother *Smoother
	clock    common.Clock
	logger   zerolog.Logger

	geometry         Geometry
	sceneScaleFactor float64

	stateOptions []StateOption
	rigOptions   []RigOption
	inputOptions []InputOption
	smoothing    time.Duration

	onToggleHud func()
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller with the session defaults.
// Keyboard and double-click shortcuts are wired to the controller's own
// reset, fit and auto-rotation operations; Ctrl+H goes to the toggle HUD
// callback.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...ControllerOption) CameraController {
	cc := &cameraControllerImpl{
		clock:            common.RealClock{},
		logger:           zerolog.Nop(),
		geometry:         DefaultGeometry(),
		sceneScaleFactor: DefaultSceneScaleFactor,
		smoothing:        DefaultSmoothing,
	}
	for _, option := range options {
		option(cc)
	}
	cc.sceneScaleFactor = common.PositiveOr(cc.sceneScaleFactor, DefaultSceneScaleFactor)

	cc.state = NewState(cc.stateOptions...)
	cc.rig = NewRig(cc.rigOptions...)
	cc.smoother = NewSmoother(cc.smoothing)
	inputOptions := append([]InputOption{
		WithInputClock(cc.clock),
		WithInputLogger(cc.logger),
	}, cc.inputOptions...)
	cc.input = NewInputController(cc.state, inputOptions...)

	cc.input.SetResetViewCallback(cc.ResetView)
	cc.input.SetAutoFitCallback(func() { cc.AutoFitFrame(DefaultMarginFactor) })
	cc.input.SetToggleAnimationCallback(cc.ToggleAutoRotate)
	cc.input.SetToggleHudCallback(func() { invoke(cc.onToggleHud) })
	return cc
}

// effectiveGeometry returns the stored geometry with FrameToPivot resolved.
func (cc *cameraControllerImpl) effectiveGeometry() Geometry {
	g := cc.geometry
	g.FrameToPivot = ResolveFrameToPivot(g.FrameLength, g.FrameToPivot)
	return g
}

func (cc *cameraControllerImpl) AutoFitFrame(margin float64) {
	cc.state.AutoFitFrame(cc.effectiveGeometry(), margin)
}

func (cc *cameraControllerImpl) ResetView() {
	full := !cc.state.orbitInBounds()
	cc.state.ResetView(cc.effectiveGeometry())
	if full {
		cc.smoother.Snap(cc.state.Pose())
	}
}

func (cc *cameraControllerImpl) FullResetView() {
	cc.state.FullResetView(cc.effectiveGeometry(), DefaultTrackWidth)
	cc.smoother.Snap(cc.state.Pose())
}

func (cc *cameraControllerImpl) ApplyCameraUpdates(u CameraUpdate) {
	if u.IsEmpty() {
		return
	}
	scale := cc.sceneScaleFactor
	applied := false

	if u.Fov != nil {
		cc.state.SetFov(*u.Fov)
		applied = true
	}
	if u.Near != nil || u.Far != nil {
		cc.state.SetClipPlanes(scaled(u.Near, scale), scaled(u.Far, scale))
		applied = true
	}
	if u.Speed != nil {
		cc.state.SetSpeed(*u.Speed)
		applied = true
	}
	if u.YawDeg != nil {
		cc.state.SetYawDeg(*u.YawDeg)
		applied = true
	}
	if u.PitchDeg != nil {
		cc.state.SetPitchDeg(*u.PitchDeg)
		applied = true
	}
	if u.Distance != nil {
		cc.state.SetDistance(*u.Distance * scale)
		applied = true
	}
	if pivot, ok := cc.mergedPivot(u, scale); ok {
		cc.state.SetPivot(pivot)
		applied = true
	}
	if u.AutoRotate != nil {
		cc.state.SetAutoRotate(*u.AutoRotate)
		applied = true
	}
	if u.AutoRotateSpeed != nil {
		cc.state.SetAutoRotateSpeed(*u.AutoRotateSpeed)
		applied = true
	}
	if u.RotateSpeed != nil {
		cc.state.SetRotateSpeed(*u.RotateSpeed)
		applied = true
	}

	if u.CenterCamera {
		cc.AutoFitFrame(DefaultMarginFactor)
		return
	}
	if applied {
		cc.state.NotifyCameraChanged()
	}
}

// mergedPivot combines the vector target and the discrete components, the
// latter taking precedence, on top of the current pivot.
func (cc *cameraControllerImpl) mergedPivot(u CameraUpdate, scale float64) (mgl64.Vec3, bool) {
	if u.Target == nil && u.TargetX == nil && u.TargetY == nil && u.TargetZ == nil {
		return mgl64.Vec3{}, false
	}
	pivot := cc.state.Pivot()
	if u.Target != nil {
		pivot = u.Target.Mul(scale)
	}
	for i, c := range []*float64{u.TargetX, u.TargetY, u.TargetZ} {
		if c != nil {
			pivot[i] = *c * scale
		}
	}
	return pivot, true
}

func (cc *cameraControllerImpl) ApplyCameraPayload(payload map[string]any) {
	u := ParseCameraUpdate(payload)
	if u.IsEmpty() && len(payload) > 0 {
		cc.logger.Debug().Int("keys", len(payload)).Msg("camera payload had no usable fields")
	}
	cc.ApplyCameraUpdates(u)
}

func (cc *cameraControllerImpl) UpdateGeometry(u GeometryUpdate) {
	if u.FrameLength != nil {
		cc.geometry.FrameLength = *u.FrameLength
	}
	if u.FrameHeight != nil {
		cc.geometry.FrameHeight = *u.FrameHeight
	}
	if u.TrackWidth != nil {
		cc.geometry.TrackWidth = *u.TrackWidth
	}
	if u.BeamSize != nil {
		cc.geometry.BeamSize = *u.BeamSize
	}
	if u.FrameToPivot != nil {
		cc.geometry.FrameToPivot = *u.FrameToPivot
	}
}

func (cc *cameraControllerImpl) UpdateGeometryPayload(payload map[string]any) {
	u := ParseGeometryUpdate(payload)
	if u.IsEmpty() && len(payload) > 0 {
		cc.logger.Debug().Int("keys", len(payload)).Msg("geometry payload had no usable fields")
	}
	cc.UpdateGeometry(u)
}

func (cc *cameraControllerImpl) Geometry() Geometry {
	return cc.geometry
}

func (cc *cameraControllerImpl) Tick(step float64) {
	if cc.state.AutoRotate() && common.IsFinite(step) && step > 0 {
		advance := cc.state.AutoRotateSpeed() * step * autoRotateScale
		if cc.state.SetYawDeg(cc.state.YawDeg() + advance) {
			if cc.input.AdaptiveMotion() {
				cc.FlagMotion()
			}
			cc.state.NotifyCameraChanged()
		}
	}
	cc.input.Poll()
}

func (cc *cameraControllerImpl) Frame(dt float64) RigTransform {
	return cc.rig.Transform(cc.smoother.Step(cc.state.Pose(), dt))
}

func (cc *cameraControllerImpl) Transform() RigTransform {
	return cc.rig.Transform(cc.state.Pose())
}

func (cc *cameraControllerImpl) Snapshot() Snapshot {
	s := cc.state
	return Snapshot{
		Pivot:            s.Pivot(),
		Distance:         s.Distance(),
		YawDeg:           s.YawDeg(),
		PitchDeg:         s.PitchDeg(),
		PanX:             s.PanX(),
		PanY:             s.PanY(),
		Fov:              s.Fov(),
		NearPlane:        s.NearPlane(),
		FarPlane:         s.FarPlane(),
		Speed:            s.Speed(),
		RotateSpeed:      s.RotateSpeed(),
		AutoRotate:       s.AutoRotate(),
		AutoRotateSpeed:  s.AutoRotateSpeed(),
		IsMoving:         s.IsMoving(),
		MotionSettlingMs: cc.MotionSettlingMs(),
	}
}

func (cc *cameraControllerImpl) Pivot() mgl64.Vec3 { return cc.state.Pivot() }
func (cc *cameraControllerImpl) Distance() float64 { return cc.state.Distance() }
func (cc *cameraControllerImpl) YawDeg() float64 { return cc.state.YawDeg() }
func (cc *cameraControllerImpl) PitchDeg() float64 { return cc.state.PitchDeg() }
func (cc *cameraControllerImpl) PanX() float64 { return cc.state.PanX() }
func (cc *cameraControllerImpl) PanY() float64 { return cc.state.PanY() }
func (cc *cameraControllerImpl) Fov() float64 { return cc.state.Fov() }
func (cc *cameraControllerImpl) NearPlane() float64 { return cc.state.NearPlane() }
func (cc *cameraControllerImpl) FarPlane() float64 { return cc.state.FarPlane() }
func (cc *cameraControllerImpl) Speed() float64 { return cc.state.Speed() }
func (cc *cameraControllerImpl) AutoRotate() bool { return cc.state.AutoRotate() }
func (cc *cameraControllerImpl) AutoRotateSpeed() float64 { return cc.state.AutoRotateSpeed() }
func (cc *cameraControllerImpl) IsMoving() bool { return cc.state.IsMoving() }

func (cc *cameraControllerImpl) MotionSettlingMs() int64 {
	return cc.input.MotionSettling().Milliseconds()
}

func (cc *cameraControllerImpl) SetAutoRotate(enabled bool) {
	if cc.state.SetAutoRotate(enabled) {
		cc.logger.Debug().Bool("enabled", enabled).Msg("auto-rotate")
		cc.state.NotifyCameraChanged()
	}
}

func (cc *cameraControllerImpl) ToggleAutoRotate() {
	cc.SetAutoRotate(!cc.state.AutoRotate())
}

func (cc *cameraControllerImpl) SceneScaleFactor() float64 {
	return cc.sceneScaleFactor
}

func (cc *cameraControllerImpl) SetSceneScaleFactor(v float64) {
	cc.sceneScaleFactor = common.PositiveOr(v, DefaultSceneScaleFactor)
}

func (cc *cameraControllerImpl) AdaptiveMotion() bool {
	return cc.input.AdaptiveMotion()
}

func (cc *cameraControllerImpl) SetAdaptiveMotion(enabled bool) {
	cc.input.SetAdaptiveMotion(enabled)
}

func (cc *cameraControllerImpl) FlagMotion() {
	cc.state.FlagMotion()
	cc.input.ScheduleSettle()
}

func (cc *cameraControllerImpl) Input() InputController {
	return cc.input
}

func (cc *cameraControllerImpl) Rig() *Rig {
	return cc.rig
}

func (cc *cameraControllerImpl) SetCameraChangedCallback(callback func()) {
	cc.state.SetCameraChangedCallback(callback)
}

func (cc *cameraControllerImpl) SetViewResetCallback(callback func()) {
	cc.state.SetViewResetCallback(callback)
}

func (cc *cameraControllerImpl) SetMotionChangedCallback(callback func(moving bool)) {
	cc.state.SetMotionChangedCallback(callback)
}

func (cc *cameraControllerImpl) SetToggleHudCallback(callback func()) {
	cc.onToggleHud = callback
}

// scaled returns *v * scale, or NaN when v is absent so clip updates keep the
// current plane.
func scaled(v *float64, scale float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v * scale
}
