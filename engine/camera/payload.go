package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pneumostabsim/pneumostabsim/common"
	"github.com/spf13/cast"
)

// metersThreshold is the largest magnitude a geometry length may have and
// still be read as meters rather than controller units.
const metersThreshold = 20.0

// CameraUpdate is a decoded camera payload. Nil fields are absent.
// Distance, Near, Far and the target components are in host meters; the
// controller scales them by its scene scale factor.
type CameraUpdate struct {
	Fov             *float64
	Near            *float64
	Far             *float64
	Speed           *float64
	YawDeg          *float64
	PitchDeg        *float64
	Distance        *float64
	Target          *mgl64.Vec3
	TargetX         *float64
	TargetY         *float64
	TargetZ         *float64
	AutoRotate      *bool
	AutoRotateSpeed *float64
	RotateSpeed     *float64
	CenterCamera    bool
}

// IsEmpty reports whether the update carries nothing to apply.
func (u CameraUpdate) IsEmpty() bool {
	return u == CameraUpdate{}
}

// GeometryUpdate is a decoded geometry payload with lengths already
// normalized to controller units. Nil fields are absent.
type GeometryUpdate struct {
	FrameLength  *float64
	FrameHeight  *float64
	TrackWidth   *float64
	BeamSize     *float64
	FrameToPivot *float64
}

// IsEmpty reports whether the update carries nothing to apply.
func (u GeometryUpdate) IsEmpty() bool {
	return u == GeometryUpdate{}
}

// ParseCameraUpdate decodes a loosely typed camera payload. Unknown keys are
// ignored. Values that do not coerce to a finite number are treated as
// absent. When a key and its alias are both present the primary key wins.
//
// Parameters:
//   - payload: the raw key-value payload, may be nil
//
// Returns:
//   - CameraUpdate: the decoded update
func ParseCameraUpdate(payload map[string]any) CameraUpdate {
	var u CameraUpdate
	if len(payload) == 0 {
		return u
	}
	u.Fov = lookupFloat(payload, "fov", "fieldOfView")
	u.Near = lookupFloat(payload, "near", "clipNear")
	u.Far = lookupFloat(payload, "far", "clipFar")
	u.Speed = lookupFloat(payload, "speed")
	u.YawDeg = lookupFloat(payload, "orbit_yaw", "yaw")
	u.PitchDeg = lookupFloat(payload, "orbit_pitch", "pitch")
	u.Distance = lookupFloat(payload, "orbit_distance", "distance")
	if v, ok := payload["orbit_target"]; ok {
		if target, ok := ToVec3(v); ok {
			u.Target = &target
		}
	}
	u.TargetX = lookupFloat(payload, "orbit_target_x")
	u.TargetY = lookupFloat(payload, "orbit_target_y")
	u.TargetZ = lookupFloat(payload, "orbit_target_z")
	u.AutoRotate = lookupBool(payload, "auto_rotate", "autoRotate")
	u.AutoRotateSpeed = lookupFloat(payload, "auto_rotate_speed", "autoRotateSpeed")
	u.RotateSpeed = lookupFloat(payload, "rotate_speed", "rotateSpeed")
	if center := lookupBool(payload, "center_camera"); center != nil {
		u.CenterCamera = *center
	}
	return u
}

// ParseGeometryUpdate decodes a loosely typed geometry payload and
// normalizes each length with NormalizeLength. Both camelCase and snake_case
// keys are accepted.
//
// Parameters:
//   - payload: the raw key-value payload, may be nil
//
// Returns:
//   - GeometryUpdate: the decoded update in controller units
func ParseGeometryUpdate(payload map[string]any) GeometryUpdate {
	var u GeometryUpdate
	if len(payload) == 0 {
		return u
	}
	u.FrameLength = normalized(lookupFloat(payload, "frameLength", "frame_length"))
	u.FrameHeight = normalized(lookupFloat(payload, "frameHeight", "frame_height"))
	u.TrackWidth = normalized(lookupFloat(payload, "trackWidth", "track_width"))
	u.BeamSize = normalized(lookupFloat(payload, "beamSize", "beam_size"))
	u.FrameToPivot = normalized(lookupFloat(payload, "frameToPivot", "frame_to_pivot"))
	return u
}

// NormalizeLength converts a geometry length to controller units. Magnitudes
// up to 20 are read as meters and multiplied by 1000; larger magnitudes are
// assumed to be controller units already. A legitimate small controller-unit
// value, such as a 15 mm beam, is misread as meters.
//
// Parameters:
//   - v: the raw length
//
// Returns:
//   - float64: the length in controller units
func NormalizeLength(v float64) float64 {
	if math.Abs(v) <= metersThreshold {
		return v * 1000
	}
	return v
}

// ToVec3 coerces a 3-vector given as a list of three numbers, a map with
// x, y and z keys, or an mgl64.Vec3. Every component must be finite.
//
// Parameters:
//   - v: the raw value
//
// Returns:
//   - mgl64.Vec3: the decoded vector
//   - bool: true if v held a usable vector
func ToVec3(v any) (mgl64.Vec3, bool) {
	var parts []any
	switch val := v.(type) {
	case mgl64.Vec3:
		parts = []any{val[0], val[1], val[2]}
	case [3]float64:
		parts = []any{val[0], val[1], val[2]}
	case []float64:
		for _, f := range val {
			parts = append(parts, f)
		}
	case []any:
		parts = val
	case map[string]any:
		parts = []any{val["x"], val["y"], val["z"]}
	default:
		if m, err := cast.ToStringMapE(v); err == nil {
			parts = []any{m["x"], m["y"], m["z"]}
		}
	}
	if len(parts) != 3 {
		return mgl64.Vec3{}, false
	}
	var out mgl64.Vec3
	for i, p := range parts {
		f, ok := common.ToFinite(p)
		if !ok {
			return mgl64.Vec3{}, false
		}
		out[i] = f
	}
	return out, true
}

func lookupFloat(payload map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		if f, ok := common.ToFinite(raw); ok {
			return &f
		}
	}
	return nil
}

func lookupBool(payload map[string]any, keys ...string) *bool {
	for _, key := range keys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		if b, ok := common.ToBool(raw); ok {
			return &b
		}
	}
	return nil
}

func normalized(v *float64) *float64 {
	if v == nil {
		return nil
	}
	n := NormalizeLength(*v)
	return &n
}

// Float64 returns a pointer to v, for building updates in code.
func Float64(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v, for building updates in code.
func Bool(v bool) *bool {
	return &v
}
