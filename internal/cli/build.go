package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/participax/civiclens/internal/pipeline"
)

var (
	buildIn          string
	buildOut         string
	buildLLM         bool
	buildLLMProvider string
	buildLLMModel    string
	buildWorkers     int
	buildRate        float64
	buildTimeout     time.Duration
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build structured keyword entries with evidence sentences",
	Long: `Turn the ranked keywords from the extract stage into one structured
entry per keyword. Each entry carries the sentence from the source
document in which the keyword actually occurs, plus a design suggestion
and a planning suggestion for that keyword.

Suggestions come from an LLM when one is configured (--llm with an API
key in the environment) and are deterministic placeholders otherwise.
The entries are written to structured_keywords.json.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildIn, "input", "", "path of the keywords artifact to read")
	buildCmd.Flags().StringVar(&buildOut, "output", "", "path for the structured entries artifact")
	buildCmd.Flags().BoolVar(&buildLLM, "llm", false, "generate suggestions with the configured LLM provider")
	buildCmd.Flags().StringVar(&buildLLMProvider, "llm-provider", "", "LLM provider: openai, anthropic or ollama")
	buildCmd.Flags().StringVar(&buildLLMModel, "llm-model", "", "LLM model name")
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0, "number of concurrent suggestion workers")
	buildCmd.Flags().Float64Var(&buildRate, "rate", 0, "maximum LLM requests per second")
	buildCmd.Flags().DurationVar(&buildTimeout, "timeout", 30*time.Minute, "overall timeout for the build stage")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Artifacts.Keywords = buildIn
	}
	if flags.Changed("output") {
		cfg.Artifacts.Structured = buildOut
	}
	if flags.Changed("llm") {
		cfg.LLM.Enabled = buildLLM
	}
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = buildLLMProvider
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = buildLLMModel
	}
	if flags.Changed("workers") {
		cfg.Workers = buildWorkers
	}
	if flags.Changed("rate") {
		cfg.LLM.RatePerSecond = buildRate
	}

	p, err := pipeline.NewPipeline(cfg, verbose, nil, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()

	_, err = p.BuildEntries(ctx)
	return err
}
