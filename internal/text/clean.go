// Package text provides the shared text-processing primitives of the
// pipeline: cleaning, stopword filtering, tokenization, and
// example-sentence capture. All functions are pure and treat empty input
// as a normal case, never an error.
package text

import (
	"strings"
	"unicode"
)

// keptPunct is the punctuation that survives cleaning. Everything outside
// letters, digits, underscore, whitespace, and this set becomes a space.
const keptPunct = ".,!?;:-"

// Clean normalizes raw document text for tokenization and ranking:
// whitespace runs collapse to single spaces, characters outside the kept
// classes become spaces, spaces are collapsed again, and the result is
// lowercased and trimmed. Umlauts and other Unicode letters survive.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = collapseSpaces(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		case strings.ContainsRune(keptPunct, r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.TrimSpace(strings.ToLower(collapseSpaces(b.String())))
}

// collapseSpaces replaces every whitespace run with a single space.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
