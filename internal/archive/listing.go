package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ListShare fetches the share's HTML page and returns the filenames it
// advertises, so a run can be previewed without downloading the archive.
// Only names with corpus extensions are returned.
func (f *Fetcher) ListShare(ctx context.Context, shareURL string, filter *Filter) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, shareURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	return parseListing(doc, filter), nil
}

// parseListing collects filenames from a share listing page. Nextcloud
// renders one table row per file with a data-file attribute; plain anchors
// to documents cover other layouts.
func parseListing(doc *goquery.Document, filter *Filter) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || !filter.IsRelevantExtension(name) || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	doc.Find("tr[data-file]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("data-file"); ok {
			add(v)
		}
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		if base := path.Base(u.Path); base != "." && base != "/" {
			add(base)
		}
	})
	return names
}
