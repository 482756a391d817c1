// Package color validates hex color values used for the rendered
// sparkline accents.
package color

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// hexColorPattern matches hex color codes in #RRGGBB format (case insensitive).
var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ErrInvalidHexFormat is returned for anything that is not #RRGGBB.
var ErrInvalidHexFormat = errors.New("invalid hex color format, expected #RRGGBB")

// IsValidHexColor validates that a color string is in #RRGGBB format.
func IsValidHexColor(color string) bool {
	return hexColorPattern.MatchString(color)
}

// ValidateHexColor validates a hex color and returns an error if invalid.
func ValidateHexColor(color string) error {
	if !IsValidHexColor(color) {
		return fmt.Errorf("%w: got %q", ErrInvalidHexFormat, color)
	}
	return nil
}

// SanitizeColor sanitizes a configured color string before it is embedded
// in SVG markup. Returns the color if valid, or empty string if not.
func SanitizeColor(color string) string {
	sanitized := html.EscapeString(strings.TrimSpace(color))
	if !IsValidHexColor(sanitized) {
		return ""
	}
	return sanitized
}
