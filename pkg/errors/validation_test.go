package errors

import (
	"math"
	"strings"
	"testing"

	"github.com/graphkit/marquee/pkg/geom"
)

func TestValidateGraphID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Valid", "3f6c0a52-8f3e-4a9d-b6a1-2f1f6f3f9a1b", false},
		{"ValidSimple", "my-graph", false},
		{"Empty", "", true},
		{"TooLong", strings.Repeat("a", 129), true},
		{"PathSeparator", "a/b", true},
		{"Backslash", `a\b`, true},
		{"Traversal", "..secret", true},
		{"ControlChar", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraphID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGraphID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidGraphID) {
				t.Errorf("wrong code: %v", GetCode(err))
			}
		})
	}
}

func TestValidateRect(t *testing.T) {
	tests := []struct {
		name    string
		rect    geom.Rect
		wantErr bool
	}{
		{"Valid", geom.Rect{X: 0, Y: 0, W: 10, H: 10}, false},
		{"DegenerateIsValid", geom.Rect{}, false},
		{"NegativeWidth", geom.Rect{W: -1}, true},
		{"NaN", geom.Rect{X: math.NaN()}, true},
		{"Inf", geom.Rect{H: math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRect(tt.rect)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRect(%v) error = %v, wantErr %v", tt.rect, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSizeMultiplier(t *testing.T) {
	if err := ValidateSizeMultiplier(2); err != nil {
		t.Errorf("valid multiplier rejected: %v", err)
	}
	if err := ValidateSizeMultiplier(0); err != nil {
		t.Errorf("zero multiplier should be accepted (means default): %v", err)
	}
	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := ValidateSizeMultiplier(bad); err == nil {
			t.Errorf("ValidateSizeMultiplier(%v) should fail", bad)
		}
	}
}
