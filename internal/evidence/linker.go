// Package evidence implements the keyword-to-sentence evidence linker:
// given a document's raw text and a keyword phrase, it selects the single
// sentence-like segment that best illustrates the phrase's occurrence.
//
// The linker is a pure function of its inputs. Segmentation intentionally
// breaks on abbreviation periods; correcting that would change which
// evidence sentences get selected for existing data.
package evidence

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenRunes is the shortest phrase token considered in the fallback
// pass. Phrases whose tokens are all this short never match in pass 2 and
// degrade to the caller's example-sentence fallback.
const minTokenRunes = 3

// FindSentence locates the most representative segment of text for the
// phrase. Pass 1 returns the first segment containing the phrase verbatim
// (case-insensitive). Pass 2 re-scans segments split on commas and returns
// the first sub-clause containing any phrase token of three or more runes.
// The returned segment is trimmed. ok is false when text is empty or both
// passes miss, in which case the caller applies its own fallback.
func FindSentence(text, phrase string) (string, bool) {
	if text == "" {
		return "", false
	}

	segments := splitSegments(text)
	k := strings.ToLower(phrase)

	for _, s := range segments {
		if strings.Contains(strings.ToLower(s), k) {
			return strings.TrimSpace(s), true
		}
	}

	var tokens []string
	for _, tok := range strings.Fields(k) {
		if utf8.RuneCountInString(tok) >= minTokenRunes {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return "", false
	}

	for _, s := range segments {
		for _, part := range strings.Split(s, ",") {
			lower := strings.ToLower(part)
			for _, tok := range tokens {
				if strings.Contains(lower, tok) {
					return strings.TrimSpace(part), true
				}
			}
		}
	}

	return "", false
}

// splitSegments cuts text into sentence-like units. A segment ends at a
// '.', '!', '?', or newline that is followed by whitespace; the boundary
// rune stays with its segment and the whitespace run is consumed. A
// boundary at the very end of the text does not split.
func splitSegments(text string) []string {
	runes := []rune(text)
	var segments []string

	start := 0
	i := 0
	for i < len(runes) {
		r := runes[i]
		if isBoundary(r) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			segments = append(segments, string(runes[start:i+1]))
			i++
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			start = i
			continue
		}
		i++
	}
	if start < len(runes) {
		segments = append(segments, string(runes[start:]))
	}

	return segments
}

func isBoundary(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '\n'
}

// FirstNonEmpty returns the first sentence that is non-blank after
// trimming, trimmed. Used for the example-sentence fallback when the
// linker misses.
func FirstNonEmpty(sentences []string) string {
	for _, s := range sentences {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
