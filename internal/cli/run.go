package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/participax/civiclens/internal/pipeline"
)

var (
	runWithFetch bool
	runTimeout   time.Duration
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: extract, build and phase",
	Long: `Run all pipeline stages in order and write all three artifacts. By
default the corpus directory is expected to exist already; pass --fetch
to download and extract the archive first.

Equivalent to running 'civiclens extract', 'civiclens build' and
'civiclens phase' back to back, with a summary at the end.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runWithFetch, "fetch", false, "download and extract the archive before processing")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 60*time.Minute, "overall timeout for the whole pipeline")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg, verbose, nil, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	report, err := p.Run(ctx, runWithFetch)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Pipeline finished in %s\n", report.Duration.Round(time.Millisecond))
	for _, st := range report.Stages {
		fmt.Printf("  %-8s %5d items  %s\n", st.Name, st.Items, st.Duration.Round(time.Millisecond))
	}
	fmt.Printf("Files processed: %d, entries written: %d\n", report.FilesProcessed, report.Entries)
	fmt.Println(strings.Repeat("=", 60))
	return nil
}
