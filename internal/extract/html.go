package extract

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor extracts visible text from saved HTML pages. Not part of
// the canonical corpus formats, but exported notes and wiki pages land in
// shared folders often enough to be worth reading.
type HTMLExtractor struct{}

// NewHTMLExtractor creates a new HTML extractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Name returns the extractor name.
func (e *HTMLExtractor) Name() string { return "html" }

// Extensions returns the handled extensions.
func (e *HTMLExtractor) Extensions() []string { return []string{".html", ".htm"} }

// Extract parses the page and returns its visible text.
func (e *HTMLExtractor) Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	return visibleText(doc), nil
}

// visibleText collects text nodes, skipping markup that never renders.
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
