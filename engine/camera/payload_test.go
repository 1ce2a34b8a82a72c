package camera

import (
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCameraUpdateAliases(t *testing.T) {
	u := ParseCameraUpdate(map[string]any{
		"fieldOfView":     55,
		"clipNear":        "0.02",
		"clipFar":         80.0,
		"yaw":             10,
		"pitch":           -5,
		"distance":        4.5,
		"autoRotate":      "true",
		"autoRotateSpeed": 1.5,
		"rotateSpeed":     0.2,
	})

	require.NotNil(t, u.Fov)
	assert.Equal(t, 55.0, *u.Fov)
	assert.Equal(t, 0.02, *u.Near)
	assert.Equal(t, 80.0, *u.Far)
	assert.Equal(t, 10.0, *u.YawDeg)
	assert.Equal(t, -5.0, *u.PitchDeg)
	assert.Equal(t, 4.5, *u.Distance)
	assert.True(t, *u.AutoRotate)
	assert.Equal(t, 1.5, *u.AutoRotateSpeed)
	assert.Equal(t, 0.2, *u.RotateSpeed)
	assert.False(t, u.CenterCamera)
}

func TestParseCameraUpdatePrimaryKeyWins(t *testing.T) {
	u := ParseCameraUpdate(map[string]any{"fov": 70, "fieldOfView": 40})
	assert.Equal(t, 70.0, *u.Fov)

	u = ParseCameraUpdate(map[string]any{"fov": "wide", "fieldOfView": 40})
	assert.Equal(t, 40.0, *u.Fov, "an unusable primary value falls through to the alias")
}

func TestParseCameraUpdateTreatsGarbageAsAbsent(t *testing.T) {
	u := ParseCameraUpdate(map[string]any{
		"fov":            "NaN",
		"speed":          "fast",
		"orbit_distance": nil,
		"orbit_target":   []any{1, "x", 3},
		"auto_rotate":    "sometimes",
		"unknown":        12,
	})
	assert.True(t, u.IsEmpty())

	assert.True(t, ParseCameraUpdate(nil).IsEmpty())
	assert.True(t, ParseCameraUpdate(map[string]any{}).IsEmpty())
}

func TestParseCameraUpdateTargets(t *testing.T) {
	u := ParseCameraUpdate(map[string]any{
		"orbit_target":   map[string]any{"x": 1, "y": 2, "z": "3"},
		"orbit_target_y": 7,
	})
	require.NotNil(t, u.Target)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, *u.Target)
	assert.Nil(t, u.TargetX)
	assert.Equal(t, 7.0, *u.TargetY)
}

func TestToVec3(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want mgl64.Vec3
		ok   bool
	}{
		{"any list", []any{1, 2.5, "3"}, mgl64.Vec3{1, 2.5, 3}, true},
		{"float list", []float64{4, 5, 6}, mgl64.Vec3{4, 5, 6}, true},
		{"array", [3]float64{7, 8, 9}, mgl64.Vec3{7, 8, 9}, true},
		{"vec3", mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}, true},
		{"map", map[string]any{"x": 1, "y": 0, "z": -1}, mgl64.Vec3{1, 0, -1}, true},
		{"json numbers", []any{json.Number("1"), json.Number("2"), json.Number("3")}, mgl64.Vec3{1, 2, 3}, true},
		{"too short", []any{1, 2}, mgl64.Vec3{}, false},
		{"map missing z", map[string]any{"x": 1, "y": 2}, mgl64.Vec3{}, false},
		{"scalar", 5, mgl64.Vec3{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToVec3(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeLengthBoundary(t *testing.T) {
	assert.Equal(t, 20000.0, NormalizeLength(20))
	assert.Equal(t, 21.0, NormalizeLength(21))
	assert.Equal(t, -20000.0, NormalizeLength(-20))
	assert.Equal(t, 0.0, NormalizeLength(0))
	assert.Equal(t, 15000.0, NormalizeLength(15))
	assert.Equal(t, 3200.0, NormalizeLength(3200))
}

func TestParseGeometryUpdate(t *testing.T) {
	u := ParseGeometryUpdate(map[string]any{
		"frameLength":    3.2,
		"track_width":    "1600",
		"frameHeight":    0.65,
		"beamSize":       "bad",
		"frame_to_pivot": 1.6,
	})

	assert.InDelta(t, 3200, *u.FrameLength, 1e-9)
	assert.Equal(t, 1600.0, *u.TrackWidth)
	assert.InDelta(t, 650, *u.FrameHeight, 1e-9)
	assert.Nil(t, u.BeamSize)
	assert.InDelta(t, 1600, *u.FrameToPivot, 1e-9)
	assert.False(t, u.IsEmpty())
}
