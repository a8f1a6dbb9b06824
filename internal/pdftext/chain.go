package pdftext

import (
	"errors"
	"fmt"

	"fjacquet/taxstmt/internal/logging"
)

// Chain tries each extractor in order and returns the first result that
// contains text.
type Chain struct {
	extractors []Extractor
	logger     logging.Logger
}

// NewChain creates a Chain over extractors.
func NewChain(logger logging.Logger, extractors ...Extractor) *Chain {
	return &Chain{extractors: extractors, logger: logging.OrDefault(logger)}
}

// ExtractPages implements Extractor.
func (c *Chain) ExtractPages(pdfPath string) ([]string, error) {
	var errs []error
	for i, e := range c.extractors {
		pages, err := e.ExtractPages(pdfPath)
		if err == nil && hasText(pages) {
			return pages, nil
		}
		if err == nil {
			err = ErrNoText
		}
		c.logger.Debug("PDF extractor failed, trying next",
			logging.F(logging.FieldFile, pdfPath),
			logging.F("extractor", fmt.Sprintf("%T", e)),
			logging.F(logging.FieldStage, i),
			logging.F(logging.FieldError, err.Error()))
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrNoText
	}
	return nil, errors.Join(errs...)
}
