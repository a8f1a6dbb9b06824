// Package report renders batch run summaries for audit trails.
package report

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"fjacquet/taxstmt/internal/batch"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatYAML = "yaml"
)

// FileSummary is the serializable form of batch.FileReport.
type FileSummary struct {
	File      string   `json:"file" xml:"file,attr" yaml:"file"`
	Parser    string   `json:"parser" xml:"parser,attr" yaml:"parser"`
	Extracted int      `json:"extracted" xml:"extracted,attr" yaml:"extracted"`
	Validated int      `json:"validated" xml:"validated,attr" yaml:"validated"`
	Skipped   []string `json:"skipped,omitempty" xml:"skipped>reason,omitempty" yaml:"skipped,omitempty"`
	Error     string   `json:"error,omitempty" xml:"error,omitempty" yaml:"error,omitempty"`
}

// RunSummary is the serializable form of batch.Report.
type RunSummary struct {
	XMLName      xml.Name      `json:"-" yaml:"-" xml:"run"`
	RunID        string        `json:"run_id" xml:"id,attr" yaml:"run_id"`
	FileCount    int           `json:"file_count" xml:"fileCount,attr" yaml:"file_count"`
	Failures     int           `json:"failures" xml:"failures,attr" yaml:"failures"`
	Transactions int           `json:"transactions" xml:"transactions,attr" yaml:"transactions"`
	Duplicates   int           `json:"duplicate_hashes" xml:"duplicateHashes,attr" yaml:"duplicate_hashes"`
	Files        []FileSummary `json:"files" xml:"file" yaml:"files"`
}

// Summarize flattens a batch report.
func Summarize(r *batch.Report) *RunSummary {
	s := &RunSummary{
		RunID:        r.RunID,
		FileCount:    len(r.Files),
		Failures:     r.Failures(),
		Transactions: len(r.Transactions),
		Duplicates:   r.Duplicates,
		Files:        make([]FileSummary, 0, len(r.Files)),
	}
	for _, f := range r.Files {
		fs := FileSummary{
			File:      f.File,
			Parser:    f.Parser,
			Extracted: f.Extracted,
			Validated: f.Validated,
			Skipped:   f.Skipped,
		}
		if f.Err != nil {
			fs.Error = f.Err.Error()
		}
		s.Files = append(s.Files, fs)
	}
	return s
}

// Generator renders run summaries.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{logger: logging.OrDefault(logger).WithField(logging.FieldComponent, "report")}
}

// Generate renders the report in the given format.
func (g *Generator) Generate(r *batch.Report, format string) ([]byte, error) {
	summary := Summarize(r)
	switch strings.ToLower(format) {
	case FormatJSON:
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return out, nil
	case FormatXML:
		out, err := xml.MarshalIndent(summary, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal XML report: %w", err)
		}
		return []byte(xml.Header + string(out)), nil
	case FormatYAML, "yml":
		out, err := yaml.Marshal(summary)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteFile renders the report in the format named by the file extension.
func (g *Generator) WriteFile(r *batch.Report, path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	data, err := g.Generate(r, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, models.PermissionOutputFile); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	g.logger.Info("Wrote run report", logging.F(logging.FieldFile, path), logging.F("format", format))
	return nil
}
