// Package taxorganizerparser reads tax organizer workbooks printed to PDF.
// Unlike the statement parsers it first builds a structured Organizer
// (page inventory, topic index, forms and their fields); ParseFile then
// flattens the numeric fields into raw records.
package taxorganizerparser

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"fjacquet/taxstmt/internal/currencyutils"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/parsererror"
	"fjacquet/taxstmt/internal/pdftext"
)

// Name is the registry name of this parser.
const Name = "tax_organizer"

// HintTaxYear is the ParseConfig.Extra key overriding the detected year.
const HintTaxYear = "tax_year"

// ReasonNoTaxYear is recorded when no tax year can be determined.
const ReasonNoTaxYear = "tax year not found"

var numericValueRe = regexp.MustCompile(`^[-+(]?\$?\s*[\d,]*\d(\.\d+)?\)?$`)

// Parser implements parser.Parser and parser.Detector.
type Parser struct {
	parser.BaseParser
	extractor pdftext.Extractor
}

// New creates a tax organizer parser.
func New(deps parser.Dependencies) parser.Parser {
	return &Parser{
		BaseParser: parser.NewBaseParser(Name, deps.Logger),
		extractor:  deps.PDFExtractor(),
	}
}

// CanParse sniffs the first page for the workbook title.
func (p *Parser) CanParse(filePath string) bool {
	return parser.SniffPDF(p.extractor, filePath, "tax organizer")
}

// ParseOrganizer extracts and indexes the workbook at filePath.
func (p *Parser) ParseOrganizer(filePath string) (*Organizer, error) {
	pages, err := p.extractor.ExtractPages(filePath)
	if err != nil {
		return nil, &parsererror.DataExtractionError{FilePath: filePath, Reason: "extracting pdf text", Err: err}
	}
	org := BuildOrganizer(pages)
	for _, e := range org.Errors {
		p.GetLogger().Warn("Organizer index problem",
			logging.F(logging.FieldFile, filePath),
			logging.F(logging.FieldReason, string(e.Kind)),
			logging.F(logging.FieldPage, e.Page),
			logging.F("code", e.Code))
	}
	return org, nil
}

// ParseFile implements parser.Parser. Each numeric field becomes a record
// dated December 31 of the tax year.
func (p *Parser) ParseFile(filePath string, cfg models.ParseConfig) (models.ParseResult, error) {
	var result models.ParseResult
	logger := p.GetLogger().WithField(logging.FieldFile, filePath)
	logger.Info("Parsing tax organizer")

	org, err := p.ParseOrganizer(filePath)
	if err != nil {
		return result, err
	}
	for _, e := range org.Errors {
		result.Skip(e.Page, e.Code, e.Error())
	}

	year := org.TaxYear
	if v := cfg.Hint(HintTaxYear); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if year == 0 {
		logger.Error("Tax year not found")
		result.Skip(0, "", ReasonNoTaxYear)
		return result, nil
	}

	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	period := models.StatementPeriod{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   yearEnd,
	}

	for _, form := range org.Forms {
		for _, field := range form.Fields {
			if !numericValueRe.MatchString(field.Value) {
				continue
			}
			amount, err := currencyutils.ParseAmount(field.Value)
			if err != nil {
				p.Skip(&result, field.Line, field.Value, err.Error())
				continue
			}
			record := models.RawRecord{
				"Date":        yearEnd.Format(models.ISODate),
				"Description": fmt.Sprintf("%s - %s: %s", form.Topic, form.Name, field.Label),
				"Amount":      amount.InexactFloat64(),
				"Topic":       form.Topic,
				"Form":        form.Name,
				"Form Code":   form.Code,
				"Field":       field.Label,
				"Page":        form.Page,
			}
			if cfg.AccountNumber != "" {
				record["Account Number"] = cfg.AccountNumber
			}
			period.Stamp(record)
			result.Add(record)
		}
	}

	logger.Info("Parsed tax organizer",
		logging.F("forms", len(org.Forms)),
		logging.F(logging.FieldCount, len(result.Records)),
		logging.F("errors", len(org.Errors)))
	return result, nil
}
