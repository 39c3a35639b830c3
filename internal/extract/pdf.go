package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts text from PDF files page by page.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Name returns the extractor name.
func (e *PDFExtractor) Name() string { return "pdf" }

// Extensions returns the handled extensions.
func (e *PDFExtractor) Extensions() []string { return []string{".pdf"} }

// Extract concatenates the plain text of every page, one page per line.
func (e *PDFExtractor) Extract(path string) (text string, err error) {
	// The parser panics on some malformed xref tables; turn that into an
	// error so one broken scan does not kill the whole run.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse %s: %v", filepath.Base(path), r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d of %s: %w", i, filepath.Base(path), err)
		}
		buf.WriteString(content)
		buf.WriteString("\n")
	}

	return buf.String(), nil
}
