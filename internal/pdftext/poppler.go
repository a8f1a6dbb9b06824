package pdftext

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"fjacquet/taxstmt/internal/logging"
)

// PopplerExtractor runs `pdftotext -layout`, which keeps the column layout
// the line classifiers rely on. It requires poppler-utils on the host.
type PopplerExtractor struct {
	binary string
	logger logging.Logger
}

// NewPopplerExtractor creates an extractor calling binary, or "pdftotext"
// from PATH when binary is empty.
func NewPopplerExtractor(binary string, logger logging.Logger) *PopplerExtractor {
	if binary == "" {
		binary = "pdftotext"
	}
	return &PopplerExtractor{binary: binary, logger: logging.OrDefault(logger)}
}

// Available reports whether the pdftotext binary can be found.
func (e *PopplerExtractor) Available() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

// ExtractPages implements Extractor. Pages are split on form feeds.
func (e *PopplerExtractor) ExtractPages(pdfPath string) ([]string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(e.binary, "-layout", pdfPath, "-") // #nosec G204 -- binary comes from configuration
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		e.logger.WithError(err).Debug("pdftotext failed",
			logging.F(logging.FieldFile, pdfPath),
			logging.F("stderr", strings.TrimSpace(stderr.String())))
		return nil, fmt.Errorf("error running pdftotext: %w", err)
	}

	pages := strings.Split(stdout.String(), "\f")
	// pdftotext terminates the last page with a form feed too.
	if n := len(pages); n > 0 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	if !hasText(pages) {
		return nil, ErrNoText
	}
	return pages, nil
}
