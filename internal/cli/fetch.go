package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/participax/civiclens/internal/pipeline"
)

var (
	fetchShareURL string
	fetchArchive  string
	fetchCorpus   string
	fetchList     bool
	fetchNoRobots bool
	fetchTimeout  time.Duration
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the shared archive and extract interview files",
	Long: `Download the feedback archive from a Nextcloud share link and extract
the interview-related files into the corpus directory.

An existing archive on disk is reused, so re-running fetch is cheap.
Files whose names look like timetables, posters or research papers are
skipped during extraction; run with --verbose to see why each archive
entry was kept or dropped. With --list the share's index is printed
instead and nothing is downloaded.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchShareURL, "share-url", "", "Nextcloud share link to download from")
	fetchCmd.Flags().StringVar(&fetchArchive, "archive", "", "local path for the downloaded archive")
	fetchCmd.Flags().StringVar(&fetchCorpus, "corpus-dir", "", "directory to extract interview files into")
	fetchCmd.Flags().BoolVar(&fetchList, "list", false, "list the share's files instead of downloading")
	fetchCmd.Flags().BoolVar(&fetchNoRobots, "no-robots", false, "skip robots.txt checks before downloading")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 10*time.Minute, "overall timeout for download and extraction")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("share-url") {
		cfg.ShareURL = fetchShareURL
	}
	if flags.Changed("archive") {
		cfg.ArchivePath = fetchArchive
	}
	if flags.Changed("corpus-dir") {
		cfg.CorpusDir = fetchCorpus
	}
	if fetchNoRobots {
		cfg.HTTP.CheckRobots = false
	}

	p, err := pipeline.NewPipeline(cfg, verbose, nil, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	if fetchList {
		_, err = p.ListShare(ctx)
		return err
	}

	_, err = p.Fetch(ctx)
	return err
}
