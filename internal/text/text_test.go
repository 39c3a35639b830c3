package text

import (
	"reflect"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		desc     string
		input    string
		expected string
	}{
		{
			desc:     "Collapses whitespace and lowercases",
			input:    "Die  Anzeige\n\twar   GUT",
			expected: "die anzeige war gut",
		},
		{
			desc:     "Strips special characters but keeps umlauts and punctuation",
			input:    "Größe (wichtig): ja!",
			expected: "größe wichtig : ja!",
		},
		{
			desc:     "Keeps hyphens and commas",
			input:    "UX-Evaluation, Teil 2",
			expected: "ux-evaluation, teil 2",
		},
		{
			desc:     "Empty input",
			input:    "",
			expected: "",
		},
		{
			desc:     "Only special characters",
			input:    "@#$%^&*",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := Clean(tt.input)
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		desc     string
		input    string
		expected []string
	}{
		{
			desc:     "Filters stopwords",
			input:    "die umfrage zeigte mehr interesse",
			expected: []string{"umfrage", "zeigte", "interesse"},
		},
		{
			desc:     "Drops short and overlong words",
			input:    "ux am sitzgelegenheitenanordnungsplanung platz",
			expected: []string{"platz"},
		},
		{
			desc:     "Domain stopwords removed",
			input:    "bamboard display zeigt fahrplan",
			expected: []string{"zeigt", "fahrplan"},
		},
		{
			desc:     "Empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSentencesWithKeywords(t *testing.T) {
	raw := "Die Umfrage zeigte großes Interesse an mehr Sitzgelegenheiten. " +
		"Kurz. " +
		"Viele Teilnehmer wünschten sich bessere Filter für Veranstaltungen! " +
		"Ohne Treffer hier."

	got := SentencesWithKeywords(raw, []string{"umfrage", "filter"})
	expected := []string{
		"Die Umfrage zeigte großes Interesse an mehr Sitzgelegenheiten",
		"Viele Teilnehmer wünschten sich bessere Filter für Veranstaltungen",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestSentencesWithKeywordsEmpty(t *testing.T) {
	if got := SentencesWithKeywords("", []string{"a"}); got != nil {
		t.Errorf("Expected nil for empty text, got %v", got)
	}
	if got := SentencesWithKeywords("some text here that is long enough", nil); got != nil {
		t.Errorf("Expected nil for no terms, got %v", got)
	}
}

func TestIsStopword(t *testing.T) {
	for _, w := range []string{"der", "the", "bamboards", "für"} {
		if !IsStopword(w) {
			t.Errorf("Expected %q to be a stopword", w)
		}
	}
	for _, w := range []string{"umfrage", "prototype", "sitzbank"} {
		if IsStopword(w) {
			t.Errorf("Expected %q not to be a stopword", w)
		}
	}
}
