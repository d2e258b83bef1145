// Package normalize cleans submitted text before it is split into requirement lines
//
// Pipeline per line
//  1. drop invalid UTF-8 and control bytes (Sanitize)
//  2. remove invisible joiners and byte order marks that editors leave behind
//  3. Unicode NFC composition
//  4. trim surrounding whitespace
package normalize

import (
	"strings"
	"sync"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// invisible reports runes that render as nothing and never carry meaning in a requirement
// U+200D is kept so emoji sequences survive
func invisible(r rune) bool {
	switch r {
	case '\u200b', '\u2060', '\ufeff', '\u00ad':
		return true
	}
	return false
}

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(runes.Remove(runes.Predicate(invisible)), norm.NFC)
	},
}

// Line returns the cleaned, NFC composed and trimmed form of one line
func Line(s string) string {
	s = Sanitize(s)
	if s == "" {
		return ""
	}
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		out = norm.NFC.String(s)
	}
	return strings.TrimSpace(out)
}

// Lines splits s on newlines and returns the non-empty cleaned lines
// CRLF and lone CR line endings are accepted
func Lines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = Line(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
