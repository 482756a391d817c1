package validate

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// URL validation errors
var (
	ErrInvalidURL       = errors.New("invalid URL format")
	ErrDisallowedScheme = errors.New("URL scheme not allowed")
)

// maxURLLength bounds configured URLs.
const maxURLLength = 2048

// PublicURL validates an absolute http or https URL, as used for the
// analytics forwarder, the geo endpoint, and the R2 endpoints. Returns
// the trimmed URL.
func PublicURL(urlStr string) (string, error) {
	urlStr = strings.TrimSpace(urlStr)
	if urlStr == "" {
		return "", ErrEmpty
	}
	if len(urlStr) > maxURLLength {
		return "", fmt.Errorf("%w: URL exceeds %d characters", ErrStringTooLong, maxURLLength)
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: got %q, allowed: http, https", ErrDisallowedScheme, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return urlStr, nil
}
