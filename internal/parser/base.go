package parser

import (
	"path/filepath"
	"strings"

	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/parsererror"
	"fjacquet/taxstmt/internal/pdftext"
	"fjacquet/taxstmt/internal/textutils"
)

// BaseParser provides common functionality for all parser implementations.
// Parsers embed it to inherit logging and the default NormalizeData:
//
//	type MyParser struct {
//		parser.BaseParser
//		// parser-specific fields
//	}
//
// BaseParser deliberately has no CanParse, so embedding it does not make a
// parser a Detector.
type BaseParser struct {
	name   string
	logger logging.Logger
}

// NewBaseParser creates a new BaseParser instance with the provided logger.
// If logger is nil, a default logger will be used.
func NewBaseParser(name string, logger logging.Logger) BaseParser {
	return BaseParser{
		name:   name,
		logger: logging.OrDefault(logger).WithField(logging.FieldParser, name),
	}
}

// Name returns the registry name of the parser.
func (b *BaseParser) Name() string {
	return b.name
}

// SetLogger replaces the logger; nil is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger.WithField(logging.FieldParser, b.name)
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// NormalizeData implements Parser with NormalizeRecords.
func (b *BaseParser) NormalizeData(records []models.RawRecord) models.Table {
	table := NormalizeRecords(records)
	b.logger.Debug("Normalized records",
		logging.F(logging.FieldCount, table.Len()),
		logging.F("columns", len(table.Columns)))
	return table
}

// Skip logs a discarded line and records it on result.
func (b *BaseParser) Skip(result *models.ParseResult, line int, text, reason string) {
	b.logger.Warn("Skipping line",
		logging.F(logging.FieldLine, line),
		logging.F(logging.FieldReason, reason),
		logging.F("text", textutils.Snippet(text, 80)))
	result.Skip(line, text, reason)
}

// SkipAll records every classifier skip on result.
func (b *BaseParser) SkipAll(result *models.ParseResult, skipped []models.SkipReason) {
	for _, s := range skipped {
		b.Skip(result, s.Line, s.Text, s.Reason)
	}
}

// HeaderMissing logs a HeaderNotFoundError and records it on result. The
// file then yields zero records without failing the batch.
func (b *BaseParser) HeaderMissing(result *models.ParseResult, filePath, header string) {
	err := &parsererror.HeaderNotFoundError{Parser: b.name, FilePath: filePath, Header: header}
	b.logger.WithError(err).Error("Table header not found",
		logging.F(logging.FieldFile, filePath))
	result.Skip(0, header, err.Error())
}

// NormalizeRecords standardizes the column names of every record. The
// table columns are the union of all names, in the order first seen, with
// each record's keys visited in sorted order. When two raw names collapse
// to the same column the first non-empty value is kept.
func NormalizeRecords(records []models.RawRecord) models.Table {
	table := models.Table{
		Columns: []string{},
		Rows:    make([]models.Row, 0, len(records)),
	}
	seen := make(map[string]bool)

	for _, record := range records {
		row := make(models.Row, len(record))
		for _, key := range record.Keys() {
			column := textutils.StandardizeColumnName(key)
			if column == "" {
				continue
			}
			value := record[key]
			if existing, ok := row[column]; ok && !isEmpty(existing) {
				continue
			}
			row[column] = value
			if !seen[column] {
				seen[column] = true
				table.Columns = append(table.Columns, column)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// HasExtension reports whether filePath ends in one of exts, ignoring case.
func HasExtension(filePath string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// SniffPDF reports whether filePath is a PDF whose first page mentions
// every phrase. Extraction failures count as no match.
func SniffPDF(e pdftext.Extractor, filePath string, phrases ...string) bool {
	if e == nil || !HasExtension(filePath, ".pdf") {
		return false
	}
	first, err := pdftext.FirstPage(e, filePath)
	if err != nil {
		return false
	}
	return textutils.ContainsAllFold(first, phrases...)
}
