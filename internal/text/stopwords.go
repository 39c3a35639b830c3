package text

// Stopword data for the German/English feedback corpus. The lists are
// flat literal data, built once at init and read-only afterwards.

var germanStopwords = []string{
	"der", "die", "das", "und", "oder", "aber", "auch", "noch", "nicht",
	"ist", "sind", "war", "waren", "haben", "hat", "hatte", "hatten",
	"werden", "wird", "wurde", "wurden", "sein", "seine", "seiner",
	"ich", "du", "er", "sie", "es", "wir", "ihr", "mich", "dich",
	"sich", "uns", "euch", "ihm", "ihnen", "mir", "dir",
	"ein", "eine", "einer", "eines", "einem", "einen",
	"auf", "aus", "bei", "mit", "nach", "von", "zu", "an", "in", "für",
	"über", "unter", "durch", "gegen", "ohne", "um", "vor", "zwischen",
	"dass", "wenn", "weil", "da", "als", "wie", "wo", "was", "wer",
	"welche", "welcher", "welches", "dieser", "diese", "dieses",
	"jeder", "jede", "jedes", "alle", "alles", "viele", "wenige",
	"mehr", "weniger", "sehr", "ganz", "gar", "nur", "schon",
}

var englishStopwords = []string{
	"the", "a", "an", "and", "or", "but", "on", "at", "to", "for",
	"of", "with", "by", "from", "up", "about", "into", "through", "during",
	"before", "after", "above", "below", "between", "among", "throughout",
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"do", "does", "did", "will", "would", "could", "should", "may", "might",
	"must", "can", "shall", "ought", "need", "dare",
	"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us",
	"them", "my", "your", "his", "its", "our", "their", "mine",
	"yours", "ours", "theirs", "myself", "yourself", "himself", "herself",
	"itself", "ourselves", "yourselves", "themselves",
	"this", "that", "these", "those", "what", "which", "who", "whom",
	"whose", "where", "when", "why", "how", "all", "any", "both", "each",
	"few", "more", "most", "other", "some", "such", "no", "nor", "not",
	"only", "own", "same", "so", "than", "too", "very", "just", "now",
}

// domainStopwords are corpus-specific terms that dominate every document
// and carry no signal (the project name, format noise, generic UI words).
var domainStopwords = []string{
	"bamboard", "bamboards", "display", "screen", "digital", "public",
	"system", "user", "users", "interface", "design", "technology",
	"page", "document", "file", "pdf", "docx", "text", "content",
}

var stopwords map[string]struct{}

func init() {
	stopwords = make(map[string]struct{},
		len(germanStopwords)+len(englishStopwords)+len(domainStopwords))
	for _, list := range [][]string{germanStopwords, englishStopwords, domainStopwords} {
		for _, w := range list {
			stopwords[w] = struct{}{}
		}
	}
}

// IsStopword reports whether the lowercase word is filtered from keyword
// candidates.
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}
