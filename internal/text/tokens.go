package text

import (
	"strings"
	"unicode/utf8"
)

const (
	minTokenRunes = 3
	maxTokenRunes = 20
)

// isWordRune matches the letter classes the corpus tokenizer accepts:
// ASCII letters plus German umlauts and ß. Digits and punctuation end a
// token.
func isWordRune(r rune) bool {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	return strings.ContainsRune("äöüÄÖÜß", r)
}

// Words splits cleaned text into letter runs, preserving order and
// duplicates.
func Words(cleaned string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range cleaned {
		if isWordRune(r) {
			cur.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return words
}

// Tokenize returns the keyword-bearing tokens of cleaned text: letter runs
// of 3 to 20 runes that are not stopwords. Order and duplicates are
// preserved so callers can compute frequencies and adjacency.
func Tokenize(cleaned string) []string {
	words := Words(cleaned)
	tokens := words[:0:0]
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		if n < minTokenRunes || n > maxTokenRunes {
			continue
		}
		lw := strings.ToLower(w)
		if IsStopword(lw) {
			continue
		}
		tokens = append(tokens, lw)
	}
	return tokens
}
