package camera

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pneumostabsim/pneumostabsim/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestInput(t *testing.T, options ...InputOption) (*State, InputController, *common.MockClock) {
	t.Helper()
	clock := common.NewMockClock(epoch)
	s := NewState()
	ic := NewInputController(s, append([]InputOption{WithInputClock(clock)}, options...)...)
	return s, ic, clock
}

func TestLeftDragOrbits(t *testing.T) {
	s, ic, _ := newTestInput(t)
	changed := 0
	s.SetCameraChangedCallback(func() { changed++ })

	ic.HandlePress(common.MouseButtonLeft, 100, 100)
	ic.HandleMove(110, 90)

	assert.InDelta(t, 225-10*0.35, s.YawDeg(), 1e-9)
	assert.InDelta(t, -25+10*0.35, s.PitchDeg(), 1e-9)
	assert.Equal(t, 1, changed)
}

func TestLeftDragClampsPitch(t *testing.T) {
	s, ic, _ := newTestInput(t)

	ic.HandlePress(common.MouseButtonLeft, 0, 0)
	for y := 1.0; y <= 2000; y += 50 {
		ic.HandleMove(0, y)
	}
	assert.Equal(t, -MaxPitchDeg, s.PitchDeg())
}

func TestSpuriousDeltaIsDiscardedButCached(t *testing.T) {
	s, ic, _ := newTestInput(t)

	ic.HandlePress(common.MouseButtonLeft, 0, 0)
	ic.HandleMove(500, 0)

	assert.Equal(t, DefaultYawDeg, s.YawDeg())
	assert.Equal(t, DefaultPitchDeg, s.PitchDeg())

	ic.HandleMove(510, 0)
	assert.InDelta(t, DefaultYawDeg-10*DefaultRotateSpeed, s.YawDeg(), 1e-9)
	assert.Equal(t, DefaultPitchDeg, s.PitchDeg())
}

func TestRightAndMiddleDragPan(t *testing.T) {
	for _, button := range []common.MouseButton{common.MouseButtonRight, common.MouseButtonMiddle} {
		t.Run(button.String(), func(t *testing.T) {
			s, ic, _ := newTestInput(t, WithViewportHeight(720))

			ic.HandlePress(button, 0, 0)
			ic.HandleMove(10, 4)

			worldPerPixel := 2 * DefaultDistance * math.Tan(mgl64.DegToRad(DefaultFov)/2) / 720
			assert.InDelta(t, -10*worldPerPixel, s.PanX(), 1e-9)
			assert.InDelta(t, 4*worldPerPixel, s.PanY(), 1e-9)
			assert.Equal(t, DefaultYawDeg, s.YawDeg())
		})
	}
}

func TestPanScalesWithSpeed(t *testing.T) {
	s, ic, _ := newTestInput(t)
	s.SetSpeed(2)

	ic.HandlePress(common.MouseButtonRight, 0, 0)
	ic.HandleMove(10, 0)

	worldPerPixel := 2 * DefaultDistance * math.Tan(mgl64.DegToRad(DefaultFov)/2) / DefaultViewportHeight
	assert.InDelta(t, -20*worldPerPixel, s.PanX(), 1e-9)
}

func TestMoveWithoutPressDoesNothing(t *testing.T) {
	s, ic, _ := newTestInput(t)
	before := s.Pose()

	ic.HandleMove(10, 10)
	assert.Equal(t, before, s.Pose())
}

func TestNonFinitePointerEventsAreDropped(t *testing.T) {
	s, ic, _ := newTestInput(t)

	ic.HandlePress(common.MouseButtonLeft, math.NaN(), 0)
	dragging, _ := ic.Dragging()
	assert.False(t, dragging)
	assert.False(t, s.IsMoving())

	ic.HandlePress(common.MouseButtonLeft, 0, 0)
	ic.HandleMove(math.Inf(1), 0)
	ic.HandleMove(5, 0)
	assert.InDelta(t, DefaultYawDeg-5*DefaultRotateSpeed, s.YawDeg(), 1e-9)
}

func TestReleaseOnlyEndsMatchingButton(t *testing.T) {
	_, ic, _ := newTestInput(t)

	ic.HandlePress(common.MouseButtonLeft, 0, 0)
	ic.HandleRelease(common.MouseButtonRight, 0, 0)
	dragging, button := ic.Dragging()
	assert.True(t, dragging)
	assert.Equal(t, common.MouseButtonLeft, button)

	ic.HandleRelease(common.MouseButtonLeft, 0, 0)
	dragging, _ = ic.Dragging()
	assert.False(t, dragging)
}

func TestMotionSettlesAfterRelease(t *testing.T) {
	s, ic, clock := newTestInput(t)

	ic.HandlePress(common.MouseButtonLeft, 0, 0)
	ic.HandleMove(3, 0)
	require.True(t, s.IsMoving())

	ic.HandleRelease(common.MouseButtonLeft, 3, 0)
	clock.Advance(DefaultMotionSettling - time.Millisecond)
	ic.Poll()
	assert.True(t, s.IsMoving())

	clock.Advance(time.Millisecond)
	ic.Poll()
	assert.False(t, s.IsMoving())
}

func TestReleaseRestartsSettleDeadline(t *testing.T) {
	s, ic, clock := newTestInput(t)

	ic.HandlePress(common.MouseButtonLeft, 0, 0)
	ic.HandleRelease(common.MouseButtonLeft, 0, 0)
	clock.Advance(200 * time.Millisecond)

	ic.HandlePress(common.MouseButtonLeft, 0, 0)
	ic.HandleRelease(common.MouseButtonLeft, 0, 0)
	clock.Advance(200 * time.Millisecond)
	ic.Poll()
	assert.True(t, s.IsMoving(), "first deadline was replaced")

	clock.Advance(40 * time.Millisecond)
	ic.Poll()
	assert.False(t, s.IsMoving())
}

func TestPressCancelsPendingSettle(t *testing.T) {
	s, ic, clock := newTestInput(t)

	ic.HandlePress(common.MouseButtonLeft, 0, 0)
	ic.HandleRelease(common.MouseButtonLeft, 0, 0)
	ic.HandlePress(common.MouseButtonLeft, 0, 0)

	clock.Advance(time.Second)
	ic.Poll()
	assert.True(t, s.IsMoving())
}

func TestNonAdaptiveInputNeverFlagsMotion(t *testing.T) {
	s, ic, _ := newTestInput(t, WithAdaptiveMotion(false))

	ic.HandlePress(common.MouseButtonLeft, 0, 0)
	ic.HandleMove(5, 5)
	ic.HandleRelease(common.MouseButtonLeft, 5, 5)
	ic.HandleWheel(120)

	assert.False(t, s.IsMoving())
}

func TestDisablingAdaptiveClearsMotion(t *testing.T) {
	s, ic, _ := newTestInput(t)
	ic.HandlePress(common.MouseButtonLeft, 0, 0)
	require.True(t, s.IsMoving())

	ic.SetAdaptiveMotion(false)
	assert.False(t, s.IsMoving())
	assert.False(t, ic.AdaptiveMotion())
}

func TestWheelZoom(t *testing.T) {
	s, ic, _ := newTestInput(t)

	ic.HandleWheel(120)
	assert.InDelta(t, DefaultDistance*1.1, s.Distance(), 1e-9)

	ic.HandleWheel(-120)
	assert.InDelta(t, DefaultDistance*1.1*0.9, s.Distance(), 1e-9)

	before := s.Distance()
	ic.HandleWheel(math.NaN())
	assert.Equal(t, before, s.Distance())

	ic.HandleWheel(-1200)
	assert.Equal(t, MinDistance, s.Distance(), "a full zoom-in step clamps to the minimum")

	s.SetDistance(DefaultDistance)
	ic.HandleWheel(-5000)
	assert.Equal(t, MinDistance, s.Distance(), "a negative factor clamps to the minimum")

	for range 100 {
		ic.HandleWheel(1000)
	}
	assert.Equal(t, MaxDistance, s.Distance())
}

func TestKeyboardShortcuts(t *testing.T) {
	_, ic, _ := newTestInput(t)
	var calls []string
	ic.SetResetViewCallback(func() { calls = append(calls, "reset") })
	ic.SetAutoFitCallback(func() { calls = append(calls, "fit") })
	ic.SetToggleAnimationCallback(func() { calls = append(calls, "animate") })
	ic.SetToggleHudCallback(func() { calls = append(calls, "hud") })

	assert.True(t, ic.HandleKey(common.KeyR, 0))
	assert.True(t, ic.HandleKey(common.KeyF, common.ModShift))
	assert.True(t, ic.HandleKey(common.KeySpace, 0))
	assert.False(t, ic.HandleKey(common.KeyH, 0))
	assert.True(t, ic.HandleKey(common.KeyH, common.ModControl))
	assert.False(t, ic.HandleKey(common.KeyEsc, 0))
	ic.HandleDoubleClick()

	assert.Equal(t, []string{"reset", "fit", "animate", "hud", "reset"}, calls)
}

func TestMissingCallbacksAreNoOps(t *testing.T) {
	_, ic, _ := newTestInput(t)

	assert.NotPanics(t, func() {
		ic.HandleKey(common.KeyR, 0)
		ic.HandleKey(common.KeyF, 0)
		ic.HandleKey(common.KeySpace, 0)
		ic.HandleKey(common.KeyH, common.ModControl)
		ic.HandleDoubleClick()
	})
}

func TestViewportAndSettleSetters(t *testing.T) {
	_, ic, _ := newTestInput(t, WithMotionSettling(300*time.Millisecond))

	ic.SetViewportHeight(1080)
	ic.SetViewportHeight(0)
	ic.SetViewportHeight(math.NaN())
	assert.Equal(t, 1080.0, ic.ViewportHeight())

	assert.Equal(t, 300*time.Millisecond, ic.MotionSettling())
	ic.SetMotionSettling(-time.Second)
	assert.Equal(t, time.Duration(0), ic.MotionSettling())
}
