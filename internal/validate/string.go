// Package validate provides input validation for values that cross the
// API boundary: tracked analytics labels, configured URLs, and upload
// file types.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// String validation errors
var (
	ErrEmpty             = errors.New("string is empty")
	ErrStringTooLong     = errors.New("string is too long")
	ErrInvalidCharacters = errors.New("string contains invalid characters")
)

// MaxLabelLength caps tracked analytics labels. Anything longer is
// noise or abuse; stored label cardinality stays bounded.
const MaxLabelLength = 200

// Label validates a client-supplied analytics label such as a page name
// or photo source. The label is trimmed, must be non-empty, must fit
// MaxLabelLength runes, and must not contain control characters.
func Label(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmpty
	}
	if utf8.RuneCountInString(s) > MaxLabelLength {
		return "", fmt.Errorf("%w: maximum is %d characters", ErrStringTooLong, MaxLabelLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: control character", ErrInvalidCharacters)
		}
	}
	return s, nil
}
