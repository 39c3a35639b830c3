package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/participax/civiclens/internal/model"
	"github.com/participax/civiclens/internal/pipeline"
)

var (
	watchCorpus string
	watchSettle time.Duration
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the pipeline whenever the corpus changes",
	Long: `Run extract, build and phase once, then watch the corpus directory and
re-run the stages after files change. Bursts of changes are collapsed:
the pipeline runs once the directory has been quiet for the settle
interval.

Useful while curating the corpus by hand or while a sync tool drops new
interview files in. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchCorpus, "corpus-dir", "", "directory to watch for corpus changes")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 2*time.Second, "quiet period before a change triggers a run")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("corpus-dir") {
		cfg.CorpusDir = watchCorpus
	}

	p, err := pipeline.NewPipeline(cfg, verbose, nil, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch every directory in the corpus tree; fsnotify does not recurse.
	err = filepath.WalkDir(cfg.CorpusDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.CorpusDir, err)
	}

	runStages := func() {
		if _, err := p.ExtractKeywords(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: extract failed: %v\n", err)
			return
		}
		if _, err := p.BuildEntries(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: build failed: %v\n", err)
			return
		}
		if _, _, err := p.AssignPhases(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: phase failed: %v\n", err)
		}
	}

	runStages()
	fmt.Fprintf(os.Stderr, "Watching %s for changes\n", cfg.CorpusDir)

	var settled <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if isArtifactPath(event.Name, cfg.Artifacts) {
				continue
			}
			// New subdirectories join the watch.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "Change detected: %s\n", event.Name)
			}
			settled = time.After(watchSettle)

		case <-settled:
			settled = nil
			runStages()
			fmt.Fprintf(os.Stderr, "Watching %s for changes\n", cfg.CorpusDir)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Warning: watcher error: %v\n", err)
		}
	}
}

// isArtifactPath keeps pipeline outputs from re-triggering the pipeline
// when the artifacts are configured to live inside the corpus directory.
func isArtifactPath(name string, artifacts model.ArtifactsConfig) bool {
	clean := filepath.Clean(name)
	for _, artifact := range []string{artifacts.Keywords, artifacts.Structured, artifacts.Phased} {
		if clean == filepath.Clean(artifact) {
			return true
		}
	}
	return false
}
