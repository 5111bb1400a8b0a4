// Package keyword normalizes identifiers so that differently cased or
// separated spellings of the same words compare equal.
//
//	keyword.Of("fooBar") == keyword.Of("foo_bar") == keyword.Of("FOO-BAR") == "foo_bar"
package keyword

import (
	"strings"
	"unicode"
)

// Of returns the canonical form of s: lower case words joined by a single underscore.
// Word boundaries are separators ('_', '-', '.', ' '), lower-to-upper transitions and
// the last upper case letter of an acronym followed by a lower case letter ("HTTPServer").
func Of(s string) string {
	return strings.Join(Words(s), "_")
}

// Words splits s into lower case words using the rules documented on Of.
func Words(s string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	rs := []rune(s)
	for i, r := range rs {
		switch {
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r):
			if len(cur) > 0 {
				prev := rs[i-1]
				nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					flush()
				}
			}
		case unicode.IsDigit(r):
			// digits stick to the word they follow
		case !unicode.IsLetter(r):
			flush()
			continue
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// Equal reports whether a and b normalize to the same keyword.
func Equal(a, b string) bool {
	if a == b {
		return true
	}
	return Of(a) == Of(b)
}
