package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/participax/civiclens/internal/model"
)

// DefaultShareURL is the public share hosting the feedback corpus.
const DefaultShareURL = "https://cloud.smartcitybamberg.de/s/fna28j9bAedqzP2"

const maxFetchAttempts = 3

// fetchSleepFunc is replaceable in tests to avoid real backoff sleeps.
var fetchSleepFunc = time.Sleep

// Fetcher downloads the share archive over HTTP with size limits, retry on
// transient failures, optional proxying, and robots.txt checks.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker
}

// NewFetcher creates a fetcher from the HTTP configuration.
func NewFetcher(cfg model.HTTPConfig, userAgent string) *Fetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: newProxyFunc(cfg.Proxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  int64(cfg.MaxBodyMB) << 20,
	}
	if cfg.CheckRobots {
		f.robots = NewRobotsChecker(userAgent, timeout)
	}
	return f
}

// DownloadURL returns the bulk-download endpoint of a public share.
func DownloadURL(shareURL string) string {
	return strings.TrimRight(shareURL, "/") + "/download"
}

// DownloadArchive fetches the share's zip archive to destPath. An existing
// file at destPath is kept as is; the bool result reports whether a
// download happened.
func (f *Fetcher) DownloadArchive(ctx context.Context, shareURL, destPath string) (bool, error) {
	if _, err := os.Stat(destPath); err == nil {
		return false, nil
	}

	downloadURL := DownloadURL(shareURL)
	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, downloadURL)
		if err != nil {
			return false, fmt.Errorf("check robots.txt: %w", err)
		}
		if !allowed {
			return false, fmt.Errorf("robots.txt disallows fetching %s", downloadURL)
		}
		if crawlDelay > 0 {
			fetchSleepFunc(crawlDelay)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if attempt > 1 {
			fetchSleepFunc(time.Duration(attempt-1) * time.Second)
		}
		err := f.downloadOnce(ctx, downloadURL, destPath)
		if err == nil {
			return true, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) {
			return false, err
		}
	}
	return false, lastErr
}

// downloadOnce streams one download into a temp file and renames it into
// place, so destPath never holds a partial archive.
func (f *Fetcher) downloadOnce(ctx context.Context, downloadURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/zip,application/octet-stream;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create download dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".civiclens-download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	// Read one byte past the limit so truncation is detectable.
	n, err := io.Copy(tmp, io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("read body: %w", err)
	}
	if n > f.maxBytes {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("archive exceeds size limit of %d MB", f.maxBytes>>20)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), destPath); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("move archive into place: %w", err)
	}
	return nil
}

// isRetryableFetchError reports whether a failed attempt is worth
// repeating: transport errors and 5xx/429 statuses are, client errors and
// local file problems are not.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "unexpected status: "); ok {
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return false
		}
		code, convErr := strconv.Atoi(fields[0])
		if convErr != nil {
			return false
		}
		return code >= 500 || code == http.StatusTooManyRequests
	}
	return strings.HasPrefix(msg, "fetch: ")
}
