package extract

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// PlainExtractor reads text files as-is. Files that are not valid UTF-8
// are reinterpreted as Latin-1, which maps every byte to a rune and so
// never fails. RTF files are read raw, control words included; the corpus
// barely has any and the cleaner strips most of the markup anyway.
type PlainExtractor struct{}

// NewPlainExtractor creates a new plain-text extractor.
func NewPlainExtractor() *PlainExtractor {
	return &PlainExtractor{}
}

// Name returns the extractor name.
func (e *PlainExtractor) Name() string { return "plain" }

// Extensions returns the handled extensions.
func (e *PlainExtractor) Extensions() []string { return []string{".txt", ".rtf"} }

// Extract returns the file contents, decoding Latin-1 when needed.
func (e *PlainExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode file: %w", err)
	}
	return string(decoded), nil
}
