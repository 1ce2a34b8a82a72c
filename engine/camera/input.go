package camera

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pneumostabsim/pneumostabsim/common"
	"github.com/rs/zerolog"
)

const (
	// DefaultMotionSettling is how long the motion flag stays set after the
	// last pointer release.
	DefaultMotionSettling = 240 * time.Millisecond

	// DefaultViewportHeight is used for pan scaling until the host reports
	// the real surface height.
	DefaultViewportHeight = 720.0

	// maxPointerDelta is the largest per-event cursor jump, in pixels, that
	// is treated as real motion.
	maxPointerDelta = 100.0

	// wheelUnitsPerStep converts wheel deltas (1/8 degree units, 120 per
	// notch) into the zoom factor denominator.
	wheelUnitsPerStep = 1200.0
)

// InputController translates pointer and keyboard events over the render
// surface into camera state changes.
//
// It is a two-state machine: idle, or dragging with one button while tracking
// the last cursor position.
type InputController interface {
	// HandlePress starts a drag with the given button at (x, y).
	// Non-finite coordinates are ignored.
	//
	// Parameters:
	//   - button: the pressed mouse button
	//   - x, y: cursor position in pixels
	HandlePress(button common.MouseButton, x, y float64)

	// HandleMove processes a cursor move. Left drag orbits, right or middle
	// drag pans. Jumps larger than 100 pixels on either axis are discarded
	// but still update the tracked cursor position.
	//
	// Parameters:
	//   - x, y: cursor position in pixels
	HandleMove(x, y float64)

	// HandleRelease ends the drag if button is the dragging button and, in
	// adaptive mode, schedules the motion settle deadline.
	//
	// Parameters:
	//   - button: the released mouse button
	//   - x, y: cursor position in pixels
	HandleRelease(button common.MouseButton, x, y float64)

	// HandleWheel zooms multiplicatively by 1 + deltaY/1200.
	//
	// Parameters:
	//   - deltaY: vertical wheel delta in 1/8 degree units
	HandleWheel(deltaY float64)

	// HandleDoubleClick invokes the reset view callback.
	HandleDoubleClick()

	// HandleKey dispatches the keyboard shortcuts R, F, Space and Ctrl+H.
	//
	// Parameters:
	//   - key: the key code
	//   - mods: modifier bits held with the key
	//
	// Returns:
	//   - bool: true if the key matched a shortcut and was consumed
	HandleKey(key int, mods uint32) bool

	// Poll clears the motion flag once the settle deadline has passed.
	// Called from the controller tick.
	Poll()

	// ScheduleSettle (re)starts the motion settle deadline. A pending
	// deadline is replaced.
	ScheduleSettle()

	// Dragging reports whether a drag is active and with which button.
	//
	// Returns:
	//   - bool: true while dragging
	//   - common.MouseButton: the dragging button
	Dragging() (bool, common.MouseButton)

	// ViewportHeight returns the surface height used for pan scaling.
	//
	// Returns:
	//   - float64: viewport height in pixels
	ViewportHeight() float64

	// SetViewportHeight sets the surface height used for pan scaling.
	// Non-positive or non-finite values are ignored.
	//
	// Parameters:
	//   - height: viewport height in pixels
	SetViewportHeight(height float64)

	// MotionSettling returns the settle interval.
	//
	// Returns:
	//   - time.Duration: the settle interval
	MotionSettling() time.Duration

	// SetMotionSettling sets the settle interval. Negative values clamp to 0.
	//
	// Parameters:
	//   - d: the settle interval
	SetMotionSettling(d time.Duration)

	// AdaptiveMotion reports whether input flags camera motion.
	//
	// Returns:
	//   - bool: true when adaptive mode is on
	AdaptiveMotion() bool

	// SetAdaptiveMotion toggles adaptive mode. Turning it off clears any
	// pending deadline and the motion flag.
	//
	// Parameters:
	//   - enabled: the new mode
	SetAdaptiveMotion(enabled bool)

	// SetResetViewCallback sets the function invoked by R and double-click.
	SetResetViewCallback(callback func())

	// SetAutoFitCallback sets the function invoked by F.
	SetAutoFitCallback(callback func())

	// SetToggleAnimationCallback sets the function invoked by Space.
	SetToggleAnimationCallback(callback func())

	// SetToggleHudCallback sets the function invoked by Ctrl+H.
	SetToggleHudCallback(callback func())
}

type inputControllerImpl struct {
	state  *State
	clock  common.Clock
	logger zerolog.Logger

	dragging bool
	button   common.MouseButton
	lastX    float64
	lastY    float64

	viewportHeight float64

	adaptive      bool
	settle        time.Duration
	settleAt      time.Time
	settlePending bool

	onResetView       func()
	onAutoFit         func()
	onToggleAnimation func()
	onToggleHud       func()
}

var _ InputController = &inputControllerImpl{}

// NewInputController creates an InputController that mutates the given state.
// Adaptive motion is on by default.
//
// Parameters:
//   - state: the camera state to drive
//   - options: functional options to configure the controller
//
// Returns:
//   - InputController: the newly created input controller
func NewInputController(state *State, options ...InputOption) InputController {
	ic := &inputControllerImpl{
		state:          state,
		clock:          common.RealClock{},
		logger:         zerolog.Nop(),
		viewportHeight: DefaultViewportHeight,
		adaptive:       true,
		settle:         DefaultMotionSettling,
	}
	for _, option := range options {
		option(ic)
	}
	return ic
}

func (ic *inputControllerImpl) HandlePress(button common.MouseButton, x, y float64) {
	if !common.IsFinite(x) || !common.IsFinite(y) {
		return
	}
	ic.dragging = true
	ic.button = button
	ic.lastX, ic.lastY = x, y
	ic.settlePending = false
	if ic.adaptive {
		ic.state.FlagMotion()
	}
}

func (ic *inputControllerImpl) HandleMove(x, y float64) {
	if !ic.dragging || !common.IsFinite(x) || !common.IsFinite(y) {
		return
	}
	dx, dy := x-ic.lastX, y-ic.lastY
	ic.lastX, ic.lastY = x, y

	if math.Abs(dx) > maxPointerDelta || math.Abs(dy) > maxPointerDelta {
		ic.logger.Debug().
			Float64("dx", dx).
			Float64("dy", dy).
			Msg("discarding spurious pointer delta")
		return
	}

	var changed bool
	switch ic.button {
	case common.MouseButtonLeft:
		changed = ic.orbit(dx, dy)
	case common.MouseButtonRight, common.MouseButtonMiddle:
		changed = ic.pan(dx, dy)
	}
	if ic.adaptive {
		ic.state.FlagMotion()
	}
	if changed {
		ic.state.NotifyCameraChanged()
	}
}

func (ic *inputControllerImpl) orbit(dx, dy float64) bool {
	speed := ic.state.RotateSpeed()
	changed := ic.state.SetYawDeg(ic.state.YawDeg() - dx*speed)
	return ic.state.SetPitchDeg(ic.state.PitchDeg()-dy*speed) || changed
}

func (ic *inputControllerImpl) pan(dx, dy float64) bool {
	fovRad := mgl64.DegToRad(ic.state.Fov())
	worldPerPixel := 2 * ic.state.Distance() * math.Tan(fovRad/2) / ic.viewportHeight
	step := worldPerPixel * ic.state.Speed()
	return ic.state.SetPan(ic.state.PanX()-dx*step, ic.state.PanY()+dy*step)
}

func (ic *inputControllerImpl) HandleRelease(button common.MouseButton, x, y float64) {
	if !ic.dragging || button != ic.button {
		return
	}
	if common.IsFinite(x) && common.IsFinite(y) {
		ic.lastX, ic.lastY = x, y
	}
	ic.dragging = false
	if ic.adaptive {
		ic.ScheduleSettle()
	}
}

func (ic *inputControllerImpl) HandleWheel(deltaY float64) {
	if !common.IsFinite(deltaY) {
		return
	}
	factor := 1 + deltaY/wheelUnitsPerStep
	if ic.state.SetDistance(ClampDistance(ic.state.Distance() * factor)) {
		ic.state.NotifyCameraChanged()
	}
	if ic.adaptive {
		ic.state.FlagMotion()
		if !ic.dragging {
			ic.ScheduleSettle()
		}
	}
}

func (ic *inputControllerImpl) HandleDoubleClick() {
	invoke(ic.onResetView)
}

func (ic *inputControllerImpl) HandleKey(key int, mods uint32) bool {
	switch key {
	case common.KeyR:
		invoke(ic.onResetView)
	case common.KeyF:
		invoke(ic.onAutoFit)
	case common.KeySpace:
		invoke(ic.onToggleAnimation)
	case common.KeyH:
		if mods&common.ModControl == 0 {
			return false
		}
		invoke(ic.onToggleHud)
	default:
		return false
	}
	return true
}

func (ic *inputControllerImpl) Poll() {
	if !ic.settlePending || ic.clock.Now().Before(ic.settleAt) {
		return
	}
	ic.settlePending = false
	ic.state.ClearMotion()
}

func (ic *inputControllerImpl) ScheduleSettle() {
	ic.settleAt = ic.clock.Now().Add(ic.settle)
	ic.settlePending = true
}

func (ic *inputControllerImpl) Dragging() (bool, common.MouseButton) {
	return ic.dragging, ic.button
}

func (ic *inputControllerImpl) ViewportHeight() float64 {
	return ic.viewportHeight
}

func (ic *inputControllerImpl) SetViewportHeight(height float64) {
	if !common.IsFinite(height) || height <= 0 {
		return
	}
	ic.viewportHeight = height
}

func (ic *inputControllerImpl) MotionSettling() time.Duration {
	return ic.settle
}

func (ic *inputControllerImpl) SetMotionSettling(d time.Duration) {
	ic.settle = max(d, 0)
}

func (ic *inputControllerImpl) AdaptiveMotion() bool {
	return ic.adaptive
}

func (ic *inputControllerImpl) SetAdaptiveMotion(enabled bool) {
	ic.adaptive = enabled
	if !enabled {
		ic.settlePending = false
		ic.state.ClearMotion()
	}
}

func (ic *inputControllerImpl) SetResetViewCallback(callback func()) {
	ic.onResetView = callback
}

func (ic *inputControllerImpl) SetAutoFitCallback(callback func()) {
	ic.onAutoFit = callback
}

func (ic *inputControllerImpl) SetToggleAnimationCallback(callback func()) {
	ic.onToggleAnimation = callback
}

func (ic *inputControllerImpl) SetToggleHudCallback(callback func()) {
	ic.onToggleHud = callback
}

func invoke(callback func()) {
	if callback != nil {
		callback()
	}
}
