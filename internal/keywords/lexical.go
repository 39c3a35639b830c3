package keywords

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// lexicalDim is the fixed dimensionality of hashed trigram vectors. Large
// enough that collisions stay rare for short phrases.
const lexicalDim = 512

// LexicalEmbedder is a deterministic, offline embedder: texts become
// L2-normalized frequency vectors of hashed character trigrams. It has no
// semantic knowledge, but surface overlap is a workable relevance proxy
// for ranking a document's own vocabulary, and it keeps the pipeline
// usable without any API key.
type LexicalEmbedder struct{}

// NewLexicalEmbedder creates the offline trigram embedder.
func NewLexicalEmbedder() *LexicalEmbedder {
	return &LexicalEmbedder{}
}

// Name returns the embedder name.
func (e *LexicalEmbedder) Name() string {
	return "lexical"
}

// Embed vectorizes each text independently. It never fails.
func (e *LexicalEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		vecs[i] = trigramVector(t)
	}
	return vecs, nil
}

// trigramVector hashes every character trigram of the lowercased text,
// padded with one space on each side so word boundaries contribute, into a
// fixed-size frequency vector.
func trigramVector(s string) []float32 {
	vec := make([]float32, lexicalDim)
	runes := []rune(" " + strings.ToLower(s) + " ")
	for i := 0; i+3 <= len(runes); i++ {
		h := fnv.New32a()
		h.Write([]byte(string(runes[i : i+3])))
		vec[h.Sum32()%lexicalDim]++
	}
	normalize(vec)
	return vec
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
