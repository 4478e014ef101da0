// gestion-multi-profs/internal/importer/normalize.go

// Package importer contains the spreadsheet import and reconciliation
// engine: header detection, column-mapping heuristics, the two-phase
// preview staging store, the grade component codec and the row-by-row
// reconciler that merges parsed rows into students and grade records.
package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader canonicalizes a raw cell value into the comparison key
// used by all heuristic matching: NFKD decomposition with combining marks
// removed, lowercased, with whitespace, hyphens and underscores stripped.
// It is total and never fails; unconvertible input is matched as-is.
func NormalizeHeader(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}

	stripped, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))),
		text,
	)
	if err == nil {
		text = stripped
	}

	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
