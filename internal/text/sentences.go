package text

import (
	"strings"
	"unicode/utf8"
)

// minSentenceRunes filters fragments too short to be useful evidence.
const minSentenceRunes = 20

// SplitSentences splits raw text on runs of sentence-ending punctuation
// (. ! ?). The terminators are dropped; segments are returned untrimmed.
func SplitSentences(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}

// SentencesWithKeywords returns the sentences of raw text that contain at
// least one of the given lowercase terms, in document order. Sentences of
// 20 runes or fewer are skipped.
func SentencesWithKeywords(raw string, terms []string) []string {
	if raw == "" || len(terms) == 0 {
		return nil
	}

	var relevant []string
	for _, sentence := range SplitSentences(raw) {
		sentence = strings.TrimSpace(sentence)
		if utf8.RuneCountInString(sentence) <= minSentenceRunes {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, term := range terms {
			if term != "" && strings.Contains(lower, term) {
				relevant = append(relevant, sentence)
				break
			}
		}
	}
	return relevant
}
