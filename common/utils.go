package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// PositiveOr returns the first value that is finite and strictly positive.
// Used for scale factors that must never become a zero or negative divisor.
//
// Parameters:
//   - values: candidate values in priority order; the last one is usually a constant fallback
//
// Returns:
//   - float64: the first positive finite value, or 0 if none qualify
func PositiveOr(values ...float64) float64 {
	for _, v := range values {
		if IsFinite(v) && v > 0 {
			return v
		}
	}
	return 0
}
