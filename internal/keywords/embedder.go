// Package keywords ranks candidate keyphrases for a document by embedding
// similarity. Candidates are unigrams and bigrams of the document's own
// tokens; selection uses maximal marginal relevance so the top phrases do
// not all say the same thing.
package keywords

import (
	"context"
	"math"
)

// Embedder turns texts into dense vectors. Implementations must return one
// vector per input text, in input order.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Config holds embedder settings. APIKey comes from the environment, never
// from config files.
type Config struct {
	Provider      string
	Model         string
	APIKey        string
	BaseURL       string
	BatchSize     int
	RatePerSecond float64
}

// Cosine returns the cosine similarity of two vectors, or 0 when either
// has zero norm or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
