package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize removes invalid UTF-8, DEL and the C0 and C1 control ranges, keeping \n \r and \t
// Clean input comes back as the same string without copying
func Sanitize(s string) string {
	at := badIndex(s)
	if at < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:at])
	for rest := s[at:]; rest != ""; {
		r, w := utf8.DecodeRuneInString(rest)
		if !unwanted(r, w) {
			b.WriteString(rest[:w])
		}
		rest = rest[w:]
	}
	return b.String()
}

// badIndex is the offset of the first rune Sanitize would drop, or -1
func badIndex(s string) int {
	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])
		if unwanted(r, w) {
			return i
		}
		i += w
	}
	return -1
}

// unwanted reports whether the rune r of encoded width w is dropped
// a width of 1 with RuneError marks a byte that is not valid UTF-8
func unwanted(r rune, w int) bool {
	switch {
	case r == utf8.RuneError && w == 1:
		return true
	case r == '\n', r == '\r', r == '\t':
		return false
	case r < 0x20, r == 0x7f:
		return true
	default:
		return r >= 0x80 && r <= 0x9f
	}
}
