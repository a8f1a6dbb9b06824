package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	dspdf "github.com/dslipak/pdf"
	lpdf "github.com/ledongthuc/pdf"

	"fjacquet/taxstmt/internal/logging"
)

// LibraryExtractor reads the text layer in pure Go with dslipak/pdf. The
// library returns the whole document as one stream, so the result holds a
// single page; it is the fallback when poppler is not installed.
type LibraryExtractor struct {
	logger logging.Logger
}

// NewLibraryExtractor creates a LibraryExtractor.
func NewLibraryExtractor(logger logging.Logger) *LibraryExtractor {
	return &LibraryExtractor{logger: logging.OrDefault(logger)}
}

// ExtractPages implements Extractor.
func (e *LibraryExtractor) ExtractPages(pdfPath string) ([]string, error) {
	r, err := dspdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}

	var buf bytes.Buffer
	text, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("error extracting text: %w", err)
	}
	if _, err := buf.ReadFrom(text); err != nil {
		return nil, fmt.Errorf("error reading extracted text: %w", err)
	}

	if strings.TrimSpace(buf.String()) == "" {
		return nil, ErrNoText
	}
	e.logger.Debug("Extracted PDF text with library reader",
		logging.F(logging.FieldFile, pdfPath),
		logging.F(logging.FieldCount, r.NumPage()))
	return []string{buf.String()}, nil
}

// SecondaryExtractor reads pages row by row with ledongthuc/pdf. Its
// tokenization differs from poppler's, which is why statement-date
// resolution tries it last when the primary text hides a date marker.
type SecondaryExtractor struct {
	logger logging.Logger
}

// NewSecondaryExtractor creates a SecondaryExtractor.
func NewSecondaryExtractor(logger logging.Logger) *SecondaryExtractor {
	return &SecondaryExtractor{logger: logging.OrDefault(logger)}
}

// ExtractPages implements Extractor.
func (e *SecondaryExtractor) ExtractPages(pdfPath string) ([]string, error) {
	f, r, err := lpdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			e.logger.WithError(closeErr).Warn("Failed to close PDF file")
		}
	}()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			e.logger.WithError(err).Debug("Skipping unreadable page",
				logging.F(logging.FieldFile, pdfPath),
				logging.F(logging.FieldPage, i))
			pages = append(pages, "")
			continue
		}
		var page strings.Builder
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			page.WriteString(strings.Join(words, " "))
			page.WriteByte('\n')
		}
		pages = append(pages, page.String())
	}

	if !hasText(pages) {
		return nil, ErrNoText
	}
	return pages, nil
}
