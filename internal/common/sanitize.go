package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SanitizeFilename normalizes a user-supplied name into a filesystem-safe
// path segment: accents are stripped via NFKD decomposition, whitespace
// collapses to a single underscore, and anything outside [A-Za-z0-9_.-] is
// dropped. Leading dots are removed so the result can never be hidden or
// escape the storage directory. An input that sanitizes to nothing yields
// "_" so callers always get a usable segment.
func SanitizeFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	b.Grow(len(decomposed))
	lastUnderscore := false
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// Combining mark left over from decomposition.
		case unicode.IsSpace(r) || r == '/' || r == '\\':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '-', r == '.':
			b.WriteRune(r)
			lastUnderscore = false
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" || out == "-" {
		return "_"
	}
	return out
}
