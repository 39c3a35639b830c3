package keywords

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/participax/civiclens/internal/model"
	"github.com/participax/civiclens/internal/text"
)

// maxCandidates caps the candidate set per document so embedding cost stays
// bounded for long reports. The cap keeps the most frequent phrases.
const maxCandidates = 512

// Ranker extracts the top keyphrases of a document.
type Ranker struct {
	embedder  Embedder
	topN      int
	diversity float64
}

// NewRanker creates a ranker. Out-of-range settings fall back to the
// defaults (top 20, diversity 0.6).
func NewRanker(embedder Embedder, topN int, diversity float64) *Ranker {
	if topN <= 0 {
		topN = 20
	}
	if diversity < 0 || diversity > 1 {
		diversity = 0.6
	}
	return &Ranker{
		embedder:  embedder,
		topN:      topN,
		diversity: diversity,
	}
}

// Rank returns up to topN keyphrases for cleaned document text, ordered by
// maximal-marginal-relevance selection. Each score is the cosine similarity
// between the phrase and the whole document, rounded to four decimals. An
// empty or all-stopword document yields an empty result, not an error.
func (r *Ranker) Rank(ctx context.Context, cleaned string) ([]model.KeywordScore, error) {
	candidates := candidatePhrases(cleaned)
	if len(candidates) == 0 {
		return nil, nil
	}

	// One embedding call covers the document and every candidate.
	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, cleaned)
	texts = append(texts, candidates...)
	vecs, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed candidates: %w", err)
	}
	docVec := vecs[0]
	candVecs := vecs[1:]

	relevance := make([]float64, len(candidates))
	for i, v := range candVecs {
		relevance[i] = Cosine(v, docVec)
	}

	picked := r.selectMMR(candVecs, relevance)
	ranked := make([]model.KeywordScore, 0, len(picked))
	for _, idx := range picked {
		ranked = append(ranked, model.KeywordScore{
			Keyword: candidates[idx],
			Score:   round4(relevance[idx]),
		})
	}
	return ranked, nil
}

// candidatePhrases builds the distinct unigram and bigram candidates from
// the document's non-stopword tokens, ordered by frequency (ties by first
// appearance) and capped at maxCandidates.
func candidatePhrases(cleaned string) []string {
	tokens := text.Tokenize(cleaned)

	type cand struct {
		phrase string
		count  int
		first  int
	}
	var order []*cand
	index := make(map[string]*cand)
	add := func(phrase string) {
		if c, ok := index[phrase]; ok {
			c.count++
			return
		}
		c := &cand{phrase: phrase, count: 1, first: len(order)}
		index[phrase] = c
		order = append(order, c)
	}
	for i, tok := range tokens {
		add(tok)
		if i+1 < len(tokens) {
			add(tok + " " + tokens[i+1])
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})
	if len(order) > maxCandidates {
		order = order[:maxCandidates]
	}

	phrases := make([]string, len(order))
	for i, c := range order {
		phrases[i] = c.phrase
	}
	return phrases
}

// selectMMR picks up to topN candidate indices. The first pick is the most
// relevant candidate; each further pick maximizes
// (1-diversity)*relevance - diversity*maxSimilarityToSelected.
func (r *Ranker) selectMMR(vecs [][]float32, relevance []float64) []int {
	n := len(relevance)
	k := r.topN
	if k > n {
		k = n
	}
	if k == 0 {
		return nil
	}

	best := 0
	for i := 1; i < n; i++ {
		if relevance[i] > relevance[best] {
			best = i
		}
	}
	selected := make([]int, 0, k)
	selected = append(selected, best)
	used := make([]bool, n)
	used[best] = true

	// maxSim[i] is the highest similarity between candidate i and any
	// selected candidate seen so far; it is folded in one selection at a
	// time as the loop advances.
	maxSim := make([]float64, n)
	for len(selected) < k {
		last := selected[len(selected)-1]
		bestIdx := -1
		bestScore := math.Inf(-1)
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			if sim := Cosine(vecs[i], vecs[last]); sim > maxSim[i] {
				maxSim[i] = sim
			}
			score := (1-r.diversity)*relevance[i] - r.diversity*maxSim[i]
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected = append(selected, bestIdx)
		used[bestIdx] = true
	}
	return selected
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
