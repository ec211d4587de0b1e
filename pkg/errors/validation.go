package errors

import (
	"math"
	"unicode"
)

// MaxDepthLimit bounds the configurable recursion depth. A tree of this depth
// holds at most 4^(MaxDepthLimit+1) nodes, which is already far beyond what
// any image produces.
const MaxDepthLimit = 16

// ValidateThreshold checks that a split threshold is a finite, non-negative number.
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return New(ErrCodeInvalidInput, "threshold must be a finite number")
	}
	if threshold < 0 {
		return New(ErrCodeInvalidInput, "threshold must be >= 0 (got %g)", threshold)
	}
	return nil
}

// ValidateMaxDepth checks that a depth limit lies in [0, MaxDepthLimit].
func ValidateMaxDepth(depth int) error {
	if depth < 0 {
		return New(ErrCodeInvalidInput, "depth must be >= 0 (got %d)", depth)
	}
	if depth > MaxDepthLimit {
		return New(ErrCodeInvalidInput, "depth too large (max %d, got %d)", MaxDepthLimit, depth)
	}
	return nil
}

// ValidateDimensions rejects images without a valid root region.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidImage, "image has no pixels: %dx%d", width, height)
	}
	return nil
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
