package errors

import (
	"math"
	"strings"
	"unicode"

	"github.com/graphkit/marquee/pkg/geom"
)

// ValidateGraphID validates a stored-graph identifier for safety.
// IDs become file names and database keys, so the rules are conservative:
//   - No empty IDs
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateGraphID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraphID, "graph ID cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidGraphID, "graph ID too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraphID, "graph ID contains control characters")
		}
	}

	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidGraphID, "graph ID cannot contain path components")
	}

	return nil
}

// ValidateRect validates a selection rectangle received over the wire.
// Width and height must be non-negative finite numbers; a degenerate
// (zero-size) rectangle is valid input and simply selects nothing.
func ValidateRect(r geom.Rect) error {
	for _, v := range []float64{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidRect, "rectangle has non-finite component")
		}
	}
	if r.W < 0 || r.H < 0 {
		return New(ErrCodeInvalidRect, "rectangle has negative dimensions")
	}
	return nil
}

// ValidateSizeMultiplier validates the hit-radius scale factor.
func ValidateSizeMultiplier(m float64) error {
	if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
		return New(ErrCodeInvalidOptions, "size multiplier must be a non-negative finite number")
	}
	return nil
}
