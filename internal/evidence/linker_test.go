package evidence

import (
	"reflect"
	"testing"
)

func TestFindSentenceVerbatim(t *testing.T) {
	tests := []struct {
		desc   string
		text   string
		phrase string
		want   string
		wantOK bool
	}{
		{
			desc:   "Phrase found verbatim in second sentence",
			text:   "Wir haben viele Rückmeldungen gesammelt. Die Bürger wünschen sich mehr Sitzgelegenheiten am Markt. Danke.",
			phrase: "mehr Sitzgelegenheiten",
			want:   "Die Bürger wünschen sich mehr Sitzgelegenheiten am Markt.",
			wantOK: true,
		},
		{
			desc:   "Match is case-insensitive",
			text:   "Die Bürger wünschen sich mehr Sitzgelegenheiten am Markt.",
			phrase: "MEHR SITZGELEGENHEITEN",
			want:   "Die Bürger wünschen sich mehr Sitzgelegenheiten am Markt.",
			wantOK: true,
		},
		{
			desc:   "First matching sentence wins",
			text:   "Feedback war gut. Das Feedback kam per Mail.",
			phrase: "Feedback",
			want:   "Feedback war gut.",
			wantOK: true,
		},
		{
			desc:   "Abbreviation period clips the segment",
			text:   "Dr. Weber leitete die Umfrage im Rathaus.",
			phrase: "Umfrage",
			want:   "Weber leitete die Umfrage im Rathaus.",
			wantOK: true,
		},
		{
			desc:   "Empty text misses",
			text:   "",
			phrase: "Umfrage",
			want:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, ok := FindSentence(tt.text, tt.phrase)
			if ok != tt.wantOK {
				t.Fatalf("Expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFindSentenceTokenFallback(t *testing.T) {
	tests := []struct {
		desc   string
		text   string
		phrase string
		want   string
		wantOK bool
	}{
		{
			desc:   "Comma sub-clause matched by a single token",
			text:   "Viele wünschten sich eine Karte, die digitale Angebote zeigt, und bessere Filter. Sonst nichts.",
			phrase: "digitale Stadtkarte",
			want:   "die digitale Angebote zeigt",
			wantOK: true,
		},
		{
			desc:   "Tokens split across sentences still land on the first",
			text:   "Wir mögen Filter. Karten sind gut.",
			phrase: "filter karten",
			want:   "Wir mögen Filter.",
			wantOK: true,
		},
		{
			desc:   "Phrases of only short tokens never match the fallback",
			text:   "Das UX Team hat gute Arbeit geleistet.",
			phrase: "ux ui",
			want:   "",
			wantOK: false,
		},
		{
			desc:   "No token present anywhere misses",
			text:   "Hier steht etwas ganz anderes.",
			phrase: "Fahrradweg",
			want:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, ok := FindSentence(tt.text, tt.phrase)
			if ok != tt.wantOK {
				t.Fatalf("Expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSplitSegments(t *testing.T) {
	tests := []struct {
		desc string
		text string
		want []string
	}{
		{
			desc: "Terminators followed by spaces split",
			text: "Eins. Zwei! Drei? Vier",
			want: []string{"Eins.", "Zwei!", "Drei?", "Vier"},
		},
		{
			desc: "Bare newline does not split",
			text: "a\nb",
			want: []string{"a\nb"},
		},
		{
			desc: "Period before newline splits",
			text: "a.\nb",
			want: []string{"a.", "b"},
		},
		{
			desc: "Blank line splits on the first newline",
			text: "a\n\nb",
			want: []string{"a\n", "b"},
		},
		{
			desc: "Trailing terminator does not split",
			text: "Ende.",
			want: []string{"Ende."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := splitSegments(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty([]string{"", "  ", " Der Markt ist schön. ", "x"}); got != "Der Markt ist schön." {
		t.Errorf("Expected %q, got %q", "Der Markt ist schön.", got)
	}
	if got := FirstNonEmpty(nil); got != "" {
		t.Errorf("Expected empty string for nil input, got %q", got)
	}
	if got := FirstNonEmpty([]string{"", "\t"}); got != "" {
		t.Errorf("Expected empty string for blank sentences, got %q", got)
	}
}
