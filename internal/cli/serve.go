package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/participax/civiclens/internal/phase"
	"github.com/participax/civiclens/internal/server"
)

var (
	servePort    int
	serveDataset string
	serveWatch   bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the phased dataset over HTTP",
	Long: `Load the phased dataset and serve it over HTTP:

  GET  /health        liveness and dataset stats
  GET  /api/entries   all entries, filterable with ?phase=Discover
  GET  /api/phases    entry counts per phase
  POST /api/classify  score free text or entry fields against the rubric
  GET  /metrics       Prometheus metrics

With --watch the dataset file is watched and reloaded whenever the
pipeline rewrites it, so a running server picks up new runs without a
restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on")
	serveCmd.Flags().StringVar(&serveDataset, "dataset", "", "path of the phased entries artifact to serve")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the dataset when the file changes")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Server.Port = servePort
	}
	if flags.Changed("dataset") {
		cfg.Server.Dataset = serveDataset
	}

	rubric := phase.DefaultRubric()
	if cfg.RubricFile != "" {
		rubric, err = phase.LoadRubric(cfg.RubricFile)
		if err != nil {
			return fmt.Errorf("failed to load rubric: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := server.NewStore(cfg.Server.Dataset, os.Stderr)
	if err := store.Load(); err != nil {
		return err
	}
	if serveWatch {
		if err := store.Watch(ctx); err != nil {
			return fmt.Errorf("failed to watch dataset: %w", err)
		}
	}

	srv := server.New(cfg.Server, store, phase.NewClassifier(rubric))
	fmt.Fprintf(os.Stderr, "Serving %d entries on port %d\n", store.Len(), cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		fmt.Fprintln(os.Stderr, "Shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
