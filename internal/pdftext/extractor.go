// Package pdftext turns text-layer PDFs into per-page plain text. The
// statement parsers only see pages of text, so every extraction backend
// hides behind Extractor.
package pdftext

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/taxstmt/internal/logging"
)

// Extractor extracts the text of every page of a PDF file.
type Extractor interface {
	// ExtractPages returns one string per page, in page order.
	ExtractPages(pdfPath string) ([]string, error)
}

// Supported extractor kinds, as accepted by the pdf.extractor setting.
const (
	KindAuto      = "auto"
	KindPdftotext = "pdftotext"
	KindLibrary   = "library"
)

// ErrNoText is returned when a PDF has no text layer.
var ErrNoText = errors.New("no text layer found")

// New builds the extractor for a configured kind. "auto" prefers poppler
// and falls back to the pure Go library reader.
func New(kind, pdftotextPath string, logger logging.Logger) (Extractor, error) {
	logger = logging.OrDefault(logger)
	switch strings.ToLower(kind) {
	case KindPdftotext:
		return NewPopplerExtractor(pdftotextPath, logger), nil
	case KindLibrary:
		return NewLibraryExtractor(logger), nil
	case "", KindAuto:
		return NewChain(logger, NewPopplerExtractor(pdftotextPath, logger), NewLibraryExtractor(logger)), nil
	default:
		return nil, fmt.Errorf("unknown pdf extractor: %s", kind)
	}
}

// FirstPage returns the text of the first page, used for cheap sniffing.
func FirstPage(e Extractor, pdfPath string) (string, error) {
	pages, err := e.ExtractPages(pdfPath)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", ErrNoText
	}
	return pages[0], nil
}

// Join concatenates pages with newlines.
func Join(pages []string) string {
	return strings.Join(pages, "\n")
}

// Lines splits text on newlines, dropping carriage returns.
func Lines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
