package worker

import (
	"context"
	"fmt"
	"io"

	"github.com/participax/civiclens/internal/llm"
	"github.com/participax/civiclens/internal/model"
)

// SuggestJob generates role suggestions for one structured entry.
type SuggestJob struct {
	Index    int
	Entry    *model.Entry
	Provider llm.Provider
	Limiter  *Limiter
}

// Execute calls the provider for the entry's keyword and evidence sentence.
func (j *SuggestJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Provider.Name()); err != nil {
			return &SuggestResult{Index: j.Index, Error: err}
		}
	}

	resp, err := j.Provider.Suggest(ctx, llm.SuggestRequest{
		Keyword:  j.Entry.Keyword,
		Sentence: j.Entry.CitizenSentence(),
	})
	if err != nil {
		return &SuggestResult{Index: j.Index, Error: err}
	}
	return &SuggestResult{Index: j.Index, Response: resp}
}

// SuggestResult is the outcome of one suggestion job. Index points back at
// the entry the job was built from.
type SuggestResult struct {
	Index    int
	Response *llm.SuggestResponse
	Error    error
}

// GetError returns the error from the suggestion result.
func (r *SuggestResult) GetError() error {
	return r.Error
}

// Suggester fills designer and planner suggestions for a batch of entries
// concurrently. Entry order is preserved; a failed call degrades that
// entry to unavailable placeholders instead of failing the batch.
type Suggester struct {
	provider    llm.Provider
	limiter     *Limiter
	concurrency int
	logW        io.Writer
}

// NewSuggester creates a batch suggestion driver. Warnings about failed
// calls go to logW; pass io.Discard to silence them.
func NewSuggester(provider llm.Provider, limiter *Limiter, concurrency int, logW io.Writer) *Suggester {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logW == nil {
		logW = io.Discard
	}
	return &Suggester{
		provider:    provider,
		limiter:     limiter,
		concurrency: concurrency,
		logW:        logW,
	}
}

// SuggestStats summarizes one batch run.
type SuggestStats struct {
	Succeeded  int
	Failed     int
	TokensUsed int
}

// Apply generates suggestions for every entry and writes them into the
// entries in place. Canceling ctx stops in-flight calls; entries whose
// jobs never ran keep their zero-value suggestions.
func (s *Suggester) Apply(ctx context.Context, entries []*model.Entry) SuggestStats {
	if len(entries) == 0 {
		return SuggestStats{}
	}

	pool := NewPool(s.concurrency)
	pool.Start()
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for i, entry := range entries {
		pool.Submit(&SuggestJob{
			Index:    i,
			Entry:    entry,
			Provider: s.provider,
			Limiter:  s.limiter,
		})
	}
	results := pool.Wait()
	close(done)

	var stats SuggestStats
	for _, result := range results {
		sr, ok := result.(*SuggestResult)
		if !ok {
			continue
		}
		entry := entries[sr.Index]

		if sr.Error != nil {
			fallback := llm.UnavailableSuggestions(entry.Keyword)
			entry.Roles.Designer.DesignSuggestion = fallback.DesignSuggestion
			entry.Roles.Planner.PlanningSuggestion = fallback.PlanningSuggestion
			stats.Failed++
			fmt.Fprintf(s.logW, "Warning: suggestion failed for %q: %v\n", entry.Keyword, sr.Error)
			continue
		}

		entry.Roles.Designer.DesignSuggestion = sr.Response.DesignSuggestion
		entry.Roles.Planner.PlanningSuggestion = sr.Response.PlanningSuggestion
		stats.Succeeded++
		stats.TokensUsed += sr.Response.TokensUsed
	}
	return stats
}
