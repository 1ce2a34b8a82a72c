package common

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// IsFinite reports whether v is neither NaN nor an infinity.
//
// Parameters:
//   - v: the value to check
//
// Returns:
//   - bool: true if v is a finite number
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ToFinite coerces a loosely typed payload value into a finite float64.
// Numbers of any width, json.Number and numeric strings are accepted. Booleans,
// nil, unparseable strings and values that parse to NaN or an infinity are
// reported as absent.
//
// Parameters:
//   - v: the raw payload value
//
// Returns:
//   - float64: the coerced value (0 when absent)
//   - bool: true if v held a usable finite number
func ToFinite(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch val := v.(type) {
	case nil, bool:
		return 0, false
	case json.Number:
		f, err = val.Float64()
	case string:
		f, err = cast.ToFloat64E(strings.TrimSpace(val))
	default:
		f, err = cast.ToFloat64E(val)
	}
	if err != nil || !IsFinite(f) {
		return 0, false
	}
	return f, true
}

// ToBool coerces a loosely typed payload value into a bool.
// Accepts booleans, numbers (non-zero is true) and the strings understood by
// strconv.ParseBool.
//
// Parameters:
//   - v: the raw payload value
//
// Returns:
//   - bool: the coerced value (false when absent)
//   - bool: true if v held a usable boolean
func ToBool(v any) (bool, bool) {
	if v == nil {
		return false, false
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// ClampFinite clamps v to [lo, hi]. NaN maps to fallback, which is itself
// expected to lie inside the interval.
//
// Parameters:
//   - v: the value to clamp
//   - lo, hi: closed interval bounds
//   - fallback: value returned for NaN input
//
// Returns:
//   - float64: the clamped value
func ClampFinite(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
