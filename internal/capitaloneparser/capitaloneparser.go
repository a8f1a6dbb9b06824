// Package capitaloneparser extracts transactions from Capital One credit
// card statement PDFs.
package capitaloneparser

import (
	"regexp"

	"fjacquet/taxstmt/internal/currencyutils"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/parsererror"
	"fjacquet/taxstmt/internal/pdftext"
	"fjacquet/taxstmt/internal/statementdate"
	"fjacquet/taxstmt/internal/statementtext"
)

// Name is the registry name of this parser.
const Name = "capitalone_credit"

const header = "Trans Date"

var (
	// Payments print as "- $200.00"; the classifier needs one token.
	splitSignRe = regexp.MustCompile(`-\s+\$`)
	headerRe    = regexp.MustCompile(`(?im)^\s*(?:trans(?:action)?\s+date\b|transactions\s*$)`)
	accountRe   = regexp.MustCompile(`(?i)ending\s+in\s+(\d{4})`)
)

// Parser implements parser.Parser and parser.Detector.
type Parser struct {
	parser.BaseParser
	extractor  pdftext.Extractor
	dates      *statementdate.Resolver
	classifier *statementtext.Classifier
}

// New creates a Capital One credit card parser.
func New(deps parser.Dependencies) parser.Parser {
	return &Parser{
		BaseParser: parser.NewBaseParser(Name, deps.Logger),
		extractor:  deps.PDFExtractor(),
		dates:      deps.DateResolver(),
		classifier: statementtext.New(statementtext.Options{}),
	}
}

// CanParse sniffs the first page for the issuer name.
func (p *Parser) CanParse(filePath string) bool {
	return parser.SniffPDF(p.extractor, filePath, "Capital One")
}

// ParseFile implements parser.Parser. Lines read
// "Mon D [Mon D] description $amount"; credits carry a leading minus.
func (p *Parser) ParseFile(filePath string, cfg models.ParseConfig) (models.ParseResult, error) {
	var result models.ParseResult
	logger := p.GetLogger().WithField(logging.FieldFile, filePath)
	logger.Info("Parsing Capital One statement")

	pages, err := p.extractor.ExtractPages(filePath)
	if err != nil {
		return result, &parsererror.DataExtractionError{FilePath: filePath, Reason: "extracting pdf text", Err: err}
	}
	text := pdftext.Join(pages)

	loc := headerRe.FindStringIndex(text)
	if loc == nil {
		p.HeaderMissing(&result, filePath, header)
		return result, nil
	}

	account := cfg.AccountNumber
	if account == "" {
		if m := accountRe.FindStringSubmatch(text); m != nil {
			account = m[1]
		}
	}
	period, ok := p.dates.Resolve(statementdate.Input{
		ConfigValue: cfg.StatementDate,
		Pages:       pages,
		FilePath:    filePath,
	})
	if !ok {
		logger.Warn("Statement period not found")
	}

	body := splitSignRe.ReplaceAllString(text[loc[0]:], "-$$")
	classified := p.classifier.Classify(pdftext.Lines(body))
	p.SkipAll(&result, classified.Skipped)

	for _, m := range classified.Matches {
		amount, err := currencyutils.ParseAmount(m.Amount)
		if err != nil {
			p.Skip(&result, m.Line, m.Text, err.Error())
			continue
		}
		record := models.RawRecord{
			"Transaction Date": m.DateToken,
			"Description":      m.Description,
			"Amount":           amount.InexactFloat64(),
			"Account Number":   account,
		}
		if m.PostDate != "" {
			record["Posting Date"] = m.PostDate
		}
		period.Stamp(record)
		result.Add(record)
	}

	logger.Info("Parsed Capital One statement",
		logging.F(logging.FieldCount, len(result.Records)),
		logging.F("skipped", len(result.Skipped)))
	return result, nil
}
