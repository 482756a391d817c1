package uploader

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var leadingDigits = regexp.MustCompile(`^\d+\s*`)

// Caption derives a photo caption from its file name: separators become
// spaces and a leading index number is dropped, so "01-city-lights.jpg"
// captions as "city lights". Captions can be edited in the store later.
func Caption(fileName string) string {
	base := trimExtension(fileName)
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	base = leadingDigits.ReplaceAllString(base, "")
	return strings.Join(strings.Fields(base), " ")
}

// Title derives a collection title from its directory name: separators
// become spaces and each word is capitalized.
func Title(dirName string) string {
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(dirName))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Slug renders a title as a URL-safe identifier.
func Slug(title string) string {
	var b strings.Builder
	dash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == ' ' || r == '-' || r == '_':
			if !dash {
				b.WriteRune('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func trimExtension(fileName string) string {
	if idx := strings.LastIndex(fileName, "."); idx > 0 {
		return fileName[:idx]
	}
	return fileName
}
