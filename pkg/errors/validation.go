package errors

import "strings"

// Limits enforced on simulation inputs.
const (
	// MaxSurfaceDepth is the deepest silhouette a fingerprint can encode.
	MaxSurfaceDepth = 255

	// MaxRocks bounds the rock count so that extrapolated heights stay
	// comfortably inside int64 (each rock adds at most 4 rows).
	MaxRocks = int64(1) << 60
)

// ValidateRockCount validates the number of rocks to drop.
//
// The validation rules are:
//   - Must not be negative (zero rocks leave only the floor, height 0)
//   - Must not exceed [MaxRocks]
func ValidateRockCount(n int64) error {
	if n < 0 {
		return New(ErrCodeInvalidRockCount, "rock count must not be negative, got %d", n)
	}
	if n > MaxRocks {
		return New(ErrCodeInvalidRockCount, "rock count too large (max %d)", MaxRocks)
	}
	return nil
}

// ValidateSurfaceDepth validates the silhouette cap used by cycle detection.
func ValidateSurfaceDepth(depth int) error {
	if depth < 1 || depth > MaxSurfaceDepth {
		return New(ErrCodeInvalidSurfaceDepth, "surface depth must be between 1 and %d, got %d", MaxSurfaceDepth, depth)
	}
	return nil
}

// ValidateMode checks that mode is one of the allowed simulation modes.
func ValidateMode(mode string, allowed ...string) error {
	for _, m := range allowed {
		if mode == m {
			return nil
		}
	}
	return New(ErrCodeInvalidMode, "invalid mode: %q (must be one of: %s)", mode, strings.Join(allowed, ", "))
}

// ValidateBackend checks a cache or history backend name from configuration.
func ValidateBackend(kind, backend string, allowed ...string) error {
	for _, b := range allowed {
		if backend == b {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "invalid %s backend: %q (must be one of: %s)", kind, backend, strings.Join(allowed, ", "))
}
