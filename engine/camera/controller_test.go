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

func newTestController(t *testing.T, options ...ControllerOption) (CameraController, *common.MockClock, *int) {
	t.Helper()
	clock := common.NewMockClock(epoch)
	cc := NewCameraController(append([]ControllerOption{WithClock(clock)}, options...)...)
	changed := new(int)
	cc.SetCameraChangedCallback(func() { *changed++ })
	return cc, clock, changed
}

func TestControllerDefaults(t *testing.T) {
	cc, _, _ := newTestController(t)

	assert.Equal(t, DefaultDistance, cc.Distance())
	assert.Equal(t, DefaultYawDeg, cc.YawDeg())
	assert.Equal(t, DefaultPitchDeg, cc.PitchDeg())
	assert.Equal(t, DefaultSceneScaleFactor, cc.SceneScaleFactor())
	assert.Equal(t, int64(240), cc.MotionSettlingMs())
	assert.True(t, cc.AdaptiveMotion())
	assert.Equal(t, 3200.0, cc.Geometry().FrameLength)
	assert.True(t, math.IsNaN(cc.Geometry().FrameToPivot))
}

func TestApplyCameraUpdatesFiresOnce(t *testing.T) {
	cc, _, changed := newTestController(t)

	cc.ApplyCameraPayload(map[string]any{"fov": 70, "speed": 2})

	assert.Equal(t, 70.0, cc.Fov())
	assert.Equal(t, 2.0, cc.Speed())
	assert.Equal(t, 1, *changed)
}

func TestApplyCameraUpdatesEmptyIsNoOp(t *testing.T) {
	cc, _, changed := newTestController(t)
	before := cc.Snapshot()

	cc.ApplyCameraPayload(nil)
	cc.ApplyCameraPayload(map[string]any{})
	cc.ApplyCameraPayload(map[string]any{"fov": "NaN", "bogus": 1})
	cc.ApplyCameraUpdates(CameraUpdate{})

	assert.Equal(t, before, cc.Snapshot())
	assert.Equal(t, 0, *changed)
}

func TestApplyCameraUpdatesIsIdempotent(t *testing.T) {
	payload := map[string]any{
		"fov":            65,
		"near":           0.05,
		"far":            120,
		"orbit_yaw":      30,
		"orbit_pitch":    -10,
		"orbit_distance": 6,
		"orbit_target":   []any{0.1, 0.2, 0.3},
		"auto_rotate":    true,
		"rotate_speed":   0.5,
	}
	once, _, _ := newTestController(t)
	once.ApplyCameraPayload(payload)

	twice, _, _ := newTestController(t)
	twice.ApplyCameraPayload(payload)
	twice.ApplyCameraPayload(payload)

	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestApplyCameraUpdatesScalesMeters(t *testing.T) {
	cc, _, _ := newTestController(t)

	cc.ApplyCameraPayload(map[string]any{
		"orbit_distance": 6,
		"near":           0.05,
		"far":            120,
		"orbit_target":   []any{1, 2, 3},
		"orbit_target_x": 5,
	})

	assert.Equal(t, 6000.0, cc.Distance())
	assert.InDelta(t, 50, cc.NearPlane(), 1e-9)
	assert.Equal(t, 120000.0, cc.FarPlane())
	assert.Equal(t, mgl64.Vec3{5000, 2000, 3000}, cc.Pivot())
}

func TestApplyCameraUpdatesClampsDistance(t *testing.T) {
	cc, _, _ := newTestController(t)

	cc.ApplyCameraPayload(map[string]any{"orbit_distance": 1000})
	assert.Equal(t, MaxDistance, cc.Distance())

	cc.ApplyCameraPayload(map[string]any{"pitch": 95})
	assert.Equal(t, MaxPitchDeg, cc.PitchDeg())
}

func TestSceneScaleFactorFallback(t *testing.T) {
	cc, _, _ := newTestController(t, WithSceneScaleFactor(-3))
	assert.Equal(t, DefaultSceneScaleFactor, cc.SceneScaleFactor())

	cc.SetSceneScaleFactor(100)
	cc.ApplyCameraPayload(map[string]any{"distance": 20})
	assert.Equal(t, 2000.0, cc.Distance())

	cc.SetSceneScaleFactor(math.NaN())
	assert.Equal(t, DefaultSceneScaleFactor, cc.SceneScaleFactor())
}

func TestCenterCameraRunsAutoFitInstead(t *testing.T) {
	cc, _, changed := newTestController(t)

	cc.ApplyCameraPayload(map[string]any{"fov": 70, "center_camera": true})

	assert.Equal(t, 70.0, cc.Fov(), "fields before the flag are still applied")
	assert.Equal(t, mgl64.Vec3{0, 385, 0}, cc.Pivot())
	want := 3200 * DefaultMarginFactor / (2 * math.Tan(mgl64.DegToRad(35)))
	assert.InDelta(t, want, cc.Distance(), 1e-6)
	assert.Equal(t, 1, *changed)
}

func TestUpdateGeometryUnitHeuristic(t *testing.T) {
	cc, _, _ := newTestController(t)

	cc.UpdateGeometryPayload(map[string]any{"frameLength": 20})
	assert.Equal(t, 20000.0, cc.Geometry().FrameLength)

	cc.UpdateGeometryPayload(map[string]any{"frameLength": 21})
	assert.Equal(t, 21.0, cc.Geometry().FrameLength)

	cc.UpdateGeometryPayload(map[string]any{"trackWidth": "garbage"})
	assert.Equal(t, DefaultTrackWidth, cc.Geometry().TrackWidth)
}

func TestAutoFitUsesStoredGeometry(t *testing.T) {
	cc, _, changed := newTestController(t)
	cc.UpdateGeometry(GeometryUpdate{FrameLength: Float64(4000), FrameToPivot: Float64(9999)})

	cc.AutoFitFrame(DefaultMarginFactor)

	assert.InDelta(t, 4000-2000, cc.Pivot().Z(), 1e-9, "frameToPivot is clamped to the frame")
	assert.Equal(t, 1, *changed)
}

func TestControllerResetViews(t *testing.T) {
	cc, _, _ := newTestController(t)
	resets := 0
	cc.SetViewResetCallback(func() { resets++ })

	cc.ApplyCameraPayload(map[string]any{"yaw": 45, "pitch": -30, "distance": 5})
	cc.ResetView()
	assert.Equal(t, 45.0, cc.YawDeg())
	assert.Equal(t, 5000.0, cc.Distance())
	assert.Equal(t, mgl64.Vec3{0, 385, 0}, cc.Pivot())

	cc.FullResetView()
	assert.Equal(t, DefaultYawDeg, cc.YawDeg())
	assert.Equal(t, DefaultPitchDeg, cc.PitchDeg())
	assert.Equal(t, 2, resets)

	eased := cc.Frame(1.0 / 60)
	assert.Equal(t, cc.Transform(), eased, "full reset snaps the presentation")
}

func TestControllerSoftResetFallbackSnaps(t *testing.T) {
	cc, _, _ := newTestController(t)

	cc.Frame(1.0 / 60)
	cc.ApplyCameraPayload(map[string]any{"distance": 999999, "yaw": 10})
	require.NotEqual(t, cc.Transform(), cc.Frame(1.0/60), "presentation still easing")

	cc.ResetView()
	assert.Equal(t, DefaultYawDeg, cc.YawDeg())
	assert.Equal(t, cc.Transform(), cc.Frame(1.0/60), "fallback reset snaps like a full reset")
}

func TestAutoRotationTick(t *testing.T) {
	cc, _, changed := newTestController(t)

	step := AutoRotateInterval.Seconds()
	cc.Tick(step)
	assert.Equal(t, DefaultYawDeg, cc.YawDeg())
	assert.Equal(t, 0, *changed)

	cc.SetAutoRotate(true)
	require.Equal(t, 1, *changed)
	cc.Tick(step)
	assert.InDelta(t, DefaultYawDeg+DefaultAutoRotateSpeed*step*10, cc.YawDeg(), 1e-9)
	assert.True(t, cc.IsMoving())
	assert.Equal(t, 2, *changed)

	for range 59 {
		cc.Tick(step)
	}
	assert.InDelta(t, DefaultYawDeg+60*DefaultAutoRotateSpeed*step*10, cc.YawDeg(), 1e-9)

	cc.ToggleAutoRotate()
	yaw := cc.YawDeg()
	cc.Tick(step)
	assert.Equal(t, yaw, cc.YawDeg())
}

func TestAutoRotationWithoutAdaptiveMotion(t *testing.T) {
	cc, _, _ := newTestController(t, WithInputOptions(WithAdaptiveMotion(false)))

	cc.SetAutoRotate(true)
	cc.Tick(AutoRotateInterval.Seconds())
	assert.False(t, cc.IsMoving())
}

func TestMotionFlagLifecycle(t *testing.T) {
	cc, clock, _ := newTestController(t)
	var events []bool
	cc.SetMotionChangedCallback(func(moving bool) { events = append(events, moving) })

	cc.FlagMotion()
	assert.True(t, cc.IsMoving())

	clock.Advance(time.Duration(cc.MotionSettlingMs())*time.Millisecond - time.Millisecond)
	cc.Tick(AutoRotateInterval.Seconds())
	assert.True(t, cc.IsMoving())

	clock.Advance(time.Millisecond)
	cc.Tick(AutoRotateInterval.Seconds())
	assert.False(t, cc.IsMoving())
	assert.Equal(t, []bool{true, false}, events)
}

func TestShortcutsDriveController(t *testing.T) {
	cc, _, _ := newTestController(t)
	huds := 0
	cc.SetToggleHudCallback(func() { huds++ })

	cc.Input().HandleKey(common.KeySpace, 0)
	assert.True(t, cc.AutoRotate())

	cc.Input().HandleKey(common.KeyH, common.ModControl)
	assert.Equal(t, 1, huds)

	cc.Input().HandleKey(common.KeyF, 0)
	assert.Equal(t, mgl64.Vec3{0, 385, 0}, cc.Pivot())

	cc.ApplyCameraPayload(map[string]any{"distance": 100})
	cc.Input().HandleDoubleClick()
	assert.Equal(t, DefaultYawDeg, cc.YawDeg())
	assert.Less(t, cc.Distance(), MaxDistance)
}

func TestFrameEasesTowardTarget(t *testing.T) {
	cc, _, _ := newTestController(t)
	cc.Frame(1.0 / 60)

	cc.ApplyCameraPayload(map[string]any{"yaw": 315})
	eased := cc.Frame(1.0 / 60)
	target := cc.Transform()

	assert.Less(t, eased.PivotNode.EulerDeg.Y(), target.PivotNode.EulerDeg.Y())
	assert.Equal(t, 315.0, cc.YawDeg(), "the target stays authoritative")
}

func TestSnapshotMirrorsAccessors(t *testing.T) {
	cc, _, _ := newTestController(t)
	cc.ApplyCameraPayload(map[string]any{"auto_rotate_speed": 3})

	s := cc.Snapshot()
	assert.Equal(t, cc.Distance(), s.Distance)
	assert.Equal(t, cc.YawDeg(), s.YawDeg)
	assert.Equal(t, 3.0, s.AutoRotateSpeed)
	assert.Equal(t, cc.MotionSettlingMs(), s.MotionSettlingMs)
	assert.Equal(t, DefaultRotateSpeed, s.RotateSpeed)
}
