package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// DocxExtractor extracts text from DOCX files by reading the main document
// part directly. Body paragraphs come first, one per line, followed by
// table rows with cells separated by spaces.
type DocxExtractor struct{}

// NewDocxExtractor creates a new DOCX extractor.
func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

// Name returns the extractor name.
func (e *DocxExtractor) Name() string { return "docx" }

// Extensions returns the handled extensions.
func (e *DocxExtractor) Extensions() []string { return []string{".docx"} }

// Extract reads word/document.xml out of the archive and flattens it.
func (e *DocxExtractor) Extract(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer zr.Close()

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("no document part in %s", filepath.Base(path))
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open document part: %w", err)
	}
	defer rc.Close()

	text, err := flattenDocument(rc)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return text, nil
}

// flattenDocument walks the WordprocessingML token stream. Paragraphs
// inside tables are collected per cell; everything else is a body
// paragraph. Table text is emitted after all body paragraphs.
func flattenDocument(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paras     []string
		rows      []string
		para      strings.Builder
		cellParas []string
		cells     []string
		tblDepth  int
		inText    bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteString("\t")
			case "br", "cr":
				para.WriteString("\n")
			case "tbl":
				tblDepth++
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				text := para.String()
				para.Reset()
				if tblDepth > 0 {
					cellParas = append(cellParas, text)
				} else {
					paras = append(paras, text)
				}
			case "tc":
				if tblDepth == 1 {
					cells = append(cells, strings.Join(cellParas, "\n"))
					cellParas = nil
				}
			case "tr":
				if tblDepth == 1 {
					rows = append(rows, strings.Join(cells, " "))
					cells = nil
				}
			case "tbl":
				tblDepth--
			}

		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}

	var buf strings.Builder
	for _, p := range paras {
		buf.WriteString(p)
		buf.WriteString("\n")
	}
	for _, row := range rows {
		buf.WriteString(row)
		buf.WriteString(" \n")
	}
	return buf.String(), nil
}
