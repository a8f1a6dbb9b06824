// Package chaseparser extracts transactions from Chase checking statement
// PDFs. Transaction lines follow the "TRANSACTION DETAIL" header and read
// "MM/DD description amount balance".
package chaseparser

import (
	"regexp"
	"strings"

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
const Name = "chase_checking"

const header = "TRANSACTION DETAIL"

var (
	headerRe  = regexp.MustCompile(`(?i)transaction\s+detail`)
	accountRe = regexp.MustCompile(`(?i)account\s+number:?[ \t]*(\d[\d -]*\d)`)
)

// Parser implements parser.Parser and parser.Detector.
type Parser struct {
	parser.BaseParser
	extractor  pdftext.Extractor
	dates      *statementdate.Resolver
	classifier *statementtext.Classifier
}

// New creates a Chase checking parser.
func New(deps parser.Dependencies) parser.Parser {
	return &Parser{
		BaseParser: parser.NewBaseParser(Name, deps.Logger),
		extractor:  deps.PDFExtractor(),
		dates:      deps.DateResolver(),
		classifier: statementtext.New(statementtext.Options{HasBalance: true}),
	}
}

// CanParse sniffs the first page for the bank name and account type.
func (p *Parser) CanParse(filePath string) bool {
	return parser.SniffPDF(p.extractor, filePath, "JPMorgan Chase", "checking")
}

// ParseFile implements parser.Parser.
func (p *Parser) ParseFile(filePath string, cfg models.ParseConfig) (models.ParseResult, error) {
	var result models.ParseResult
	logger := p.GetLogger().WithField(logging.FieldFile, filePath)
	logger.Info("Parsing Chase checking statement")

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
		account = findAccount(text)
	}
	period, ok := p.dates.Resolve(statementdate.Input{
		ConfigValue: cfg.StatementDate,
		Pages:       pages,
		FilePath:    filePath,
	})
	if !ok {
		logger.Warn("Statement period not found")
	}

	classified := p.classifier.Classify(pdftext.Lines(text[loc[1]:]))
	p.SkipAll(&result, classified.Skipped)

	for _, m := range classified.Matches {
		amount, err := currencyutils.ParseAmount(m.Amount)
		if err != nil {
			p.Skip(&result, m.Line, m.Text, err.Error())
			continue
		}
		record := models.RawRecord{
			"Date":           m.DateToken,
			"Description":    m.Description,
			"Amount":         amount.InexactFloat64(),
			"Account Number": account,
		}
		if m.Balance != "" {
			if balance, err := currencyutils.ParseAmount(m.Balance); err == nil {
				record["Balance"] = balance.InexactFloat64()
			}
		}
		period.Stamp(record)
		result.Add(record)
	}

	logger.Info("Parsed Chase checking statement",
		logging.F(logging.FieldCount, len(result.Records)),
		logging.F("skipped", len(result.Skipped)))
	return result, nil
}

func findAccount(text string) string {
	m := accountRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.NewReplacer(" ", "", "-", "").Replace(m[1])
}
