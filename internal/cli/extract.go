package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/participax/civiclens/internal/pipeline"
)

var (
	extractCorpus    string
	extractOut       string
	extractEmbedder  string
	extractModel     string
	extractTopN      int
	extractDiversity float64
	extractNoCache   bool
	extractTimeout   time.Duration
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract and rank keyphrases from the corpus",
	Long: `Walk the corpus directory, pull plain text out of every supported
document (.txt, .md, .pdf, .docx, .doc, .html) and rank candidate
keyphrases per file with embedding-based MMR.

Research papers and journal articles that ended up in the corpus are
detected by filename and skipped. The ranked keywords, together with
example sentences for later evidence linking, are written to
keybert_keywords.json.

Ranking uses OpenAI embeddings when OPENAI_API_KEY is set and falls
back to a local lexical embedder otherwise.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractCorpus, "corpus-dir", "", "directory holding the extracted corpus")
	extractCmd.Flags().StringVar(&extractOut, "output", "", "path for the keywords artifact")
	extractCmd.Flags().StringVar(&extractEmbedder, "embedder", "", "embedding provider: auto, openai or lexical")
	extractCmd.Flags().StringVar(&extractModel, "embedder-model", "", "embedding model name")
	extractCmd.Flags().IntVar(&extractTopN, "top-n", 0, "number of keyphrases to keep per document")
	extractCmd.Flags().Float64Var(&extractDiversity, "diversity", -1, "MMR diversity between 0 and 1")
	extractCmd.Flags().BoolVar(&extractNoCache, "no-cache", false, "bypass the text extraction cache")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 30*time.Minute, "overall timeout for the extract stage")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("corpus-dir") {
		cfg.CorpusDir = extractCorpus
	}
	if flags.Changed("output") {
		cfg.Artifacts.Keywords = extractOut
	}
	if flags.Changed("embedder") {
		cfg.Embedder.Provider = extractEmbedder
	}
	if flags.Changed("embedder-model") {
		cfg.Embedder.Model = extractModel
	}
	if flags.Changed("top-n") {
		cfg.Embedder.TopN = extractTopN
	}
	if flags.Changed("diversity") {
		cfg.Embedder.Diversity = extractDiversity
	}
	if extractNoCache {
		cfg.Cache.Enabled = false
	}

	p, err := pipeline.NewPipeline(cfg, verbose, nil, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	_, err = p.ExtractKeywords(ctx)
	return err
}
