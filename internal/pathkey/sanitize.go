package pathkey

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackSegment is returned for input that sanitizes to nothing. An empty
// segment would silently shift the path depth of every descendant key, so the
// sanitizer never produces one.
const FallbackSegment = "unknown"

// asciiFold decomposes accented characters and strips the combining marks,
// so "Café" folds to "Cafe" before the byte-level filtering below.
var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Sanitize converts arbitrary text into a safe lowercase path segment.
// Whitespace runs collapse to a single hyphen, characters outside
// [a-z0-9-_.] are dropped, and repeated hyphens collapse. Empty or
// fully-stripped input yields FallbackSegment.
func Sanitize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackSegment
	}
	if folded, _, err := transform.String(asciiFold, text); err == nil {
		text = folded
	}

	var b strings.Builder
	b.Grow(len(text))
	lastHyphen := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastHyphen = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastHyphen = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		case r == '_' || r == '.':
			b.WriteRune(r)
			lastHyphen = false
		}
	}

	out := strings.Trim(b.String(), "-.")
	if out == "" {
		return FallbackSegment
	}
	return out
}
