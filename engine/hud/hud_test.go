package hud

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pneumostabsim/pneumostabsim/engine/camera"
	"github.com/pneumostabsim/pneumostabsim/engine/profiler"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() camera.Snapshot {
	return camera.Snapshot{
		Pivot:            mgl64.Vec3{0, 385, -10},
		Distance:         3186.9,
		YawDeg:           225,
		PitchDeg:         -25,
		Fov:              60,
		NearPlane:        10,
		FarPlane:         50000,
		Speed:            1,
		AutoRotate:       true,
		AutoRotateSpeed:  0.5,
		IsMoving:         true,
		MotionSettlingMs: 240,
	}
}

func TestLines(t *testing.T) {
	lines := Lines(snapshot(), profiler.Stats{FPS: 59.6, HeapMB: 12.34})

	require.Len(t, lines, 6)
	assert.Equal(t, "pivot 0 385 -10 mm", lines[0])
	assert.Equal(t, "dist 3187 mm  yaw 225.0°  pitch -25.0°", lines[1])
	assert.Equal(t, "auto-rotate 0.50  moving (settle 240 ms)", lines[4])
	assert.Equal(t, "60 fps  heap 12.3 MB", lines[5])
}

func TestLinesIdle(t *testing.T) {
	s := snapshot()
	s.AutoRotate = false
	s.IsMoving = false

	lines := Lines(s, profiler.Stats{})

	assert.Equal(t, "auto-rotate off  idle (settle 240 ms)", lines[4])
}

func TestToggleAndTitle(t *testing.T) {
	h := New()
	assert.False(t, h.Visible())
	assert.Equal(t, "PneumoStabSim", h.Title("PneumoStabSim", snapshot(), profiler.Stats{}))

	assert.True(t, h.Toggle())
	assert.Equal(t, "PneumoStabSim | d=3187 yaw=225 pitch=-25 fov=60 | 30 fps",
		h.Title("PneumoStabSim", snapshot(), profiler.Stats{FPS: 30}))

	assert.False(t, h.Toggle())
}

func TestLogOnlyWhileVisible(t *testing.T) {
	var buf bytes.Buffer
	h := New(WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	h.Log(snapshot(), profiler.Stats{})
	assert.Empty(t, buf.String())

	h = New(WithVisible(true), WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	h.Log(snapshot(), profiler.Stats{})
	assert.Contains(t, buf.String(), "pivot 0 385 -10 mm")
}
