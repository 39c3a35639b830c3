// Package pipeline orchestrates the civiclens stages: fetch the interview
// archive, rank keywords per corpus file, build structured keyword entries
// backed by evidence sentences, and assign lifecycle phases. Every stage
// writes one JSON artifact and the next stage reads it back, so each stage
// can also run standalone from the CLI.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/participax/civiclens/internal/archive"
	"github.com/participax/civiclens/internal/cache"
	"github.com/participax/civiclens/internal/evidence"
	"github.com/participax/civiclens/internal/extract"
	"github.com/participax/civiclens/internal/keywords"
	"github.com/participax/civiclens/internal/llm"
	"github.com/participax/civiclens/internal/model"
	"github.com/participax/civiclens/internal/phase"
	"github.com/participax/civiclens/internal/text"
	"github.com/participax/civiclens/internal/worker"
)

const userAgent = "civiclens/1.0 (+https://github.com/participax/civiclens)"

// Per-file limits on what flows into the keywords artifact.
const (
	maxSentenceTerms    = 8
	maxExampleSentences = 6
)

// researchTerms marks PDFs that are publications rather than feedback
// material. Matched as substrings against the lowercased file name and
// path. Only PDFs are checked: the corpus keeps its interviews and
// feedback reports in office and text formats.
var researchTerms = []string{
	"paper", "papers", "proceedings", "conference", "journal", "journal-",
	"etal", "doi", "study", "studies", "research", "maas_", "chi",
	"proceeding", "citizenneeds", "foundations", "display_value", "paper_chi",
}

// Pipeline wires the stages together with their shared collaborators.
type Pipeline struct {
	config     *model.Config
	fetcher    *archive.Fetcher
	filter     *archive.Filter
	texts      *extract.CachedRegistry
	ranker     *keywords.Ranker
	provider   llm.Provider
	suggester  *worker.Suggester
	classifier *phase.Classifier

	verbose bool
	out     io.Writer
	errW    io.Writer
}

// NewPipeline builds a pipeline from cfg. Progress goes to out and
// warnings to errW; nil writers default to stdout and stderr. A
// misconfigured LLM provider degrades to placeholder suggestions with a
// warning, while a broken embedder or rubric is a hard error because
// keyword ranking and phase assignment have no fallback.
func NewPipeline(cfg *model.Config, verbose bool, out, errW io.Writer) (*Pipeline, error) {
	if out == nil {
		out = os.Stdout
	}
	if errW == nil {
		errW = os.Stderr
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	embedder, err := keywords.NewEmbedder(keywords.ConfigFromModel(cfg.Embedder))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	rubric := phase.DefaultRubric()
	if cfg.RubricFile != "" {
		rubric, err = phase.LoadRubric(cfg.RubricFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load rubric: %w", err)
		}
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		fmt.Fprintf(errW, "Warning: LLM provider unavailable, falling back to placeholders: %v\n", err)
		provider = llm.NewDisabledProvider()
	}

	ttl := time.Duration(cfg.Cache.TTLDays) * 24 * time.Hour
	texts := extract.NewCachedRegistry(extract.NewRegistry(), cache.New(cfg.Cache), ttl)

	// Placeholder suggestions are local; only real providers get throttled.
	rps := cfg.LLM.RatePerSecond
	if provider.Name() == "disabled" {
		rps = 0
	}
	limiter := worker.NewLimiter(rps, 1)

	return &Pipeline{
		config:     cfg,
		fetcher:    archive.NewFetcher(cfg.HTTP, userAgent),
		filter:     archive.NewFilter(),
		texts:      texts,
		ranker:     keywords.NewRanker(embedder, cfg.Embedder.TopN, cfg.Embedder.Diversity),
		provider:   provider,
		suggester:  worker.NewSuggester(provider, limiter, cfg.Workers, errW),
		classifier: phase.NewClassifier(rubric),
		verbose:    verbose,
		out:        out,
		errW:       errW,
	}, nil
}

// Fetch downloads the share archive and extracts the interview-related
// files into the corpus directory. An already downloaded archive is
// reused.
func (p *Pipeline) Fetch(ctx context.Context) (*model.FetchResult, error) {
	shareURL := p.config.ShareURL
	if shareURL == "" {
		shareURL = archive.DefaultShareURL
	}

	downloaded, err := p.fetcher.DownloadArchive(ctx, shareURL, p.config.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download archive: %w", err)
	}
	if downloaded {
		fmt.Fprintf(p.out, "Downloaded archive to %s\n", p.config.ArchivePath)
	} else {
		fmt.Fprintf(p.out, "Archive already exists: %s, skipping download\n", p.config.ArchivePath)
	}

	result, err := archive.ExtractInterviews(p.config.ArchivePath, p.config.CorpusDir, p.filter)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(p.out, "Extracted %d interview-related files to %s (%d of %d archive entries skipped)\n",
		len(result.Extracted), p.config.CorpusDir, len(result.Skipped), result.Total)
	if p.verbose {
		for _, f := range result.Extracted {
			fmt.Fprintf(p.out, "  + %s (%d bytes)\n", f.Name, f.Size)
		}
		for _, s := range result.Skipped {
			fmt.Fprintf(p.out, "  - %s: %s\n", s.Name, s.Reason)
		}
	}
	return result, nil
}

// ListShare fetches the share's index page and prints the advertised
// corpus files without downloading the archive. Files the extraction
// filter would keep are marked with a plus.
func (p *Pipeline) ListShare(ctx context.Context) ([]string, error) {
	shareURL := p.config.ShareURL
	if shareURL == "" {
		shareURL = archive.DefaultShareURL
	}

	names, err := p.fetcher.ListShare(ctx, shareURL, p.filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list share: %w", err)
	}

	fmt.Fprintf(p.out, "Share lists %d corpus files:\n", len(names))
	for _, name := range names {
		marker := "-"
		if p.filter.IsInterviewRelated(name) {
			marker = "+"
		}
		fmt.Fprintf(p.out, "  %s %s\n", marker, name)
	}
	return names, nil
}

// ExtractKeywords walks the corpus, extracts text from every supported
// file, ranks its keyphrases, and writes the keywords artifact. Files are
// processed on a worker pool and reassembled by index, so the artifact
// keeps walk order. Files whose text cannot be extracted are skipped with
// a warning; ranking failures still record the file with an empty keyword
// list so downstream stages see it was processed.
func (p *Pipeline) ExtractKeywords(ctx context.Context) (*model.KeywordsArtifact, error) {
	root := p.config.CorpusDir
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("corpus directory %s not found. Run 'civiclens fetch' first", root)
	}

	files, skipped, err := p.corpusFiles(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	if skipped > 0 {
		fmt.Fprintf(p.out, "Skipped %d files identified as research papers/journals\n", skipped)
	}
	fmt.Fprintf(p.out, "Found %d supported files in %s\n", len(files), root)

	pool := worker.NewPool(p.config.Workers)
	pool.Start()
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for i, path := range files {
		if p.verbose {
			fmt.Fprintf(p.out, "Processing %s\n", path)
		}
		pool.Submit(&fileJob{index: i, path: path, texts: p.texts, ranker: p.ranker})
	}
	results := pool.Wait()
	close(done)

	byIndex := make([]*fileResult, len(files))
	for _, result := range results {
		if fr, ok := result.(*fileResult); ok {
			byIndex[fr.index] = fr
		}
	}

	artifact := &model.KeywordsArtifact{Results: []model.FileKeywords{}}
	for _, fr := range byIndex {
		if fr == nil {
			continue
		}
		if fr.warning != "" {
			fmt.Fprintf(p.errW, "Warning: %s\n", fr.warning)
		}
		if fr.file != nil {
			artifact.Results = append(artifact.Results, *fr.file)
		}
	}
	artifact.Summary.FilesProcessed = len(artifact.Results)

	// Canceled runs must not persist a partial artifact.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := WriteJSON(p.config.Artifacts.Keywords, artifact); err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "Saved keywords for %d files to %s\n", artifact.Summary.FilesProcessed, p.config.Artifacts.Keywords)
	return artifact, nil
}

// fileJob extracts and ranks one corpus file on the pool.
type fileJob struct {
	index  int
	path   string
	texts  *extract.CachedRegistry
	ranker *keywords.Ranker
}

// fileResult carries one file's keywords back to the reassembly loop. A
// nil file means the file was skipped; warning explains any degradation.
// Degradations never fail the stage, so GetError always reports nil.
type fileResult struct {
	index   int
	file    *model.FileKeywords
	warning string
}

func (r *fileResult) GetError() error { return nil }

func (j *fileJob) Execute(ctx context.Context) worker.Result {
	raw, err := j.texts.Extract(j.path)
	if err != nil {
		return &fileResult{index: j.index, warning: fmt.Sprintf("failed to extract text from %s: %v", j.path, err)}
	}
	if strings.TrimSpace(raw) == "" {
		return &fileResult{index: j.index, warning: fmt.Sprintf("no text extracted from %s, skipping", j.path)}
	}

	warning := ""
	ranked, err := j.ranker.Rank(ctx, text.Clean(raw))
	if err != nil {
		warning = fmt.Sprintf("keyword ranking failed for %s: %v", j.path, err)
		ranked = nil
	}
	if ranked == nil {
		ranked = []model.KeywordScore{}
	}

	terms := make([]string, 0, maxSentenceTerms)
	for _, ks := range ranked {
		if len(terms) == maxSentenceTerms {
			break
		}
		terms = append(terms, ks.Keyword)
	}
	sentences := text.SentencesWithKeywords(raw, terms)
	if len(sentences) > maxExampleSentences {
		sentences = sentences[:maxExampleSentences]
	}
	if sentences == nil {
		sentences = []string{}
	}

	return &fileResult{
		index: j.index,
		file: &model.FileKeywords{
			Filename:         filepath.Base(j.path),
			Filepath:         j.path,
			Keywords:         ranked,
			ExampleSentences: sentences,
		},
		warning: warning,
	}
}

// corpusFiles returns the supported corpus files in lexical walk order,
// along with the number of research PDFs that were filtered out.
func (p *Pipeline) corpusFiles(root string) ([]string, int, error) {
	var files []string
	skipped := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !p.texts.Supported(path) {
			return nil
		}
		if isResearchPDF(path) {
			skipped++
			if p.verbose {
				fmt.Fprintf(p.out, "Skipping research paper: %s\n", path)
			}
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, skipped, err
}

func isResearchPDF(path string) bool {
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return false
	}
	name := strings.ToLower(filepath.Base(path))
	full := strings.ToLower(path)
	for _, term := range researchTerms {
		if strings.Contains(name, term) || strings.Contains(full, term) {
			return true
		}
	}
	return false
}

// BuildEntries turns the keywords artifact into flat structured entries.
// Each keyword gets an evidence sentence from its source document (or the
// first recorded example sentence when the document no longer yields one)
// and designer/planner suggestions from the LLM provider. The result is
// written as the structured keywords artifact.
func (p *Pipeline) BuildEntries(ctx context.Context) ([]model.Entry, error) {
	artifact, err := ReadKeywords(p.config.Artifacts.Keywords)
	if err != nil {
		return nil, err
	}

	var entries []*model.Entry
	for _, file := range artifact.Results {
		raw := p.sourceText(file.Filepath)

		for _, ks := range file.Keywords {
			keyword := strings.TrimSpace(ks.Keyword)
			if keyword == "" {
				continue
			}

			sentence, found := evidence.FindSentence(raw, keyword)
			if !found {
				sentence = evidence.FirstNonEmpty(file.ExampleSentences)
			}

			source := file.Filepath
			if source == "" {
				source = file.Filename
			}
			if source == "" {
				source = "unknown"
			}

			entries = append(entries, &model.Entry{
				Keyword: keyword,
				Roles: model.Roles{
					Citizen: model.CitizenRole{
						OriginalSentence: sentence,
						ExactSentence:    sentence,
					},
				},
				Source: source,
			})
		}
	}

	stats := p.suggester.Apply(ctx, entries)
	if p.verbose {
		fmt.Fprintf(p.out, "Suggestions: %d generated, %d fell back to placeholders, %d tokens used\n",
			stats.Succeeded, stats.Failed, stats.TokensUsed)
	}

	// A canceled run may leave entries without suggestions; never persist
	// those.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]model.Entry, len(entries))
	for i, e := range entries {
		out[i] = *e
	}

	if err := WriteJSON(p.config.Artifacts.Structured, out); err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "Processed %d files and wrote %d keyword entries to %s\n",
		len(artifact.Results), len(out), p.config.Artifacts.Structured)
	return out, nil
}

// sourceText re-extracts the text of a corpus file for evidence linking.
// A missing or unreadable file yields empty text, which pushes every
// keyword of that file onto its recorded example sentences.
func (p *Pipeline) sourceText(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	raw, err := p.texts.Extract(path)
	if err != nil {
		fmt.Fprintf(p.errW, "Warning: failed to re-extract text from %s: %v\n", path, err)
		return ""
	}
	return raw
}

// AssignPhases classifies every structured entry into a lifecycle phase,
// drops the transient day field, and writes the phased artifact. The
// returned map counts entries per phase.
func (p *Pipeline) AssignPhases() ([]model.PhasedEntry, map[model.Phase]int, error) {
	entries, err := ReadEntries(p.config.Artifacts.Structured)
	if err != nil {
		return nil, nil, err
	}

	phased := make([]model.PhasedEntry, 0, len(entries))
	counts := make(map[model.Phase]int)
	for _, e := range entries {
		breakdown := p.classifier.Score(e)
		counts[breakdown.Phase]++
		phased = append(phased, e.WithPhase(breakdown.Phase))
		if p.verbose {
			for _, ps := range breakdown.Scores {
				if ps.Phase == breakdown.Phase {
					fmt.Fprintf(p.out, "  %-30s -> %-8s (ratio %.3f + boost %.1f)\n", e.Keyword, ps.Phase, ps.Ratio, ps.Boost)
					break
				}
			}
		}
	}

	if err := WriteJSON(p.config.Artifacts.Phased, phased); err != nil {
		return nil, nil, err
	}
	fmt.Fprintf(p.out, "Assigned phases to %d entries, saved to %s\n", len(phased), p.config.Artifacts.Phased)
	fmt.Fprintf(p.out, "Phase distribution:\n")
	for _, ph := range model.PhaseOrder {
		fmt.Fprintf(p.out, "  %-8s %d\n", ph, counts[ph])
	}
	return phased, counts, nil
}

// Run executes the stages in order and reports what happened. The fetch
// stage only runs when requested; the corpus is usually already on disk.
func (p *Pipeline) Run(ctx context.Context, withFetch bool) (*model.RunReport, error) {
	report := &model.RunReport{StartedAt: time.Now().UTC()}

	steps := 3
	step := 0
	if withFetch {
		steps = 4
		step++
		fmt.Fprintf(p.out, "Step %d/%d: fetch\n", step, steps)
		start := time.Now()
		result, err := p.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		report.AddStage("fetch", len(result.Extracted), time.Since(start))
		report.FilesMatched = len(result.Extracted)
	}

	step++
	fmt.Fprintf(p.out, "Step %d/%d: extract\n", step, steps)
	start := time.Now()
	artifact, err := p.ExtractKeywords(ctx)
	if err != nil {
		return nil, err
	}
	report.AddStage("extract", artifact.Summary.FilesProcessed, time.Since(start))
	report.FilesProcessed = artifact.Summary.FilesProcessed

	step++
	fmt.Fprintf(p.out, "Step %d/%d: build\n", step, steps)
	start = time.Now()
	entries, err := p.BuildEntries(ctx)
	if err != nil {
		return nil, err
	}
	report.AddStage("build", len(entries), time.Since(start))
	report.Entries = len(entries)

	step++
	fmt.Fprintf(p.out, "Step %d/%d: phase\n", step, steps)
	start = time.Now()
	_, counts, err := p.AssignPhases()
	if err != nil {
		return nil, err
	}
	report.AddStage("phase", report.Entries, time.Since(start))
	report.PhaseCounts = counts

	report.Duration = time.Since(report.StartedAt)
	return report, nil
}
