// Package normalizer turns one statement file into validated canonical
// transactions: parse, standardize, map, resolve dates and amounts, hash,
// validate, and stamp provenance.
package normalizer

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fjacquet/taxstmt/internal/currencyutils"
	"fjacquet/taxstmt/internal/dateutils"
	"fjacquet/taxstmt/internal/fingerprint"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/textutils"
	"fjacquet/taxstmt/internal/transform"
	"fjacquet/taxstmt/internal/validation"
)

// Result is the outcome of normalizing one file.
type Result struct {
	Parser       string
	FilePath     string
	Transactions []models.CanonicalTransaction
	// Extracted counts the records the parser produced.
	Extracted int
	Rejected  []validation.Rejection
	Skipped   []models.SkipReason
}

// Hashes returns the transaction hashes in output order.
func (r *Result) Hashes() []string {
	out := make([]string, len(r.Transactions))
	for i, tx := range r.Transactions {
		out[i] = tx.TransactionHash
	}
	return out
}

// Normalizer composes the registry, the transformation maps and the
// validator. It holds no per-file state.
type Normalizer struct {
	registry  *parser.Registry
	maps      transform.Maps
	validator *validation.Validator
	logger    logging.Logger

	// MissingDateSentinel, when set, fills statement_end_date on records
	// whose statement period could not be resolved.
	MissingDateSentinel string
}

// New creates a Normalizer. A nil maps value disables transformation.
func New(registry *parser.Registry, maps transform.Maps, logger logging.Logger) *Normalizer {
	logger = logging.OrDefault(logger)
	return &Normalizer{
		registry:  registry,
		maps:      maps,
		validator: validation.NewValidator(logger),
		logger:    logger.WithField(logging.FieldComponent, "normalizer"),
	}
}

// Normalize runs parserName over filePath. An unknown parser name returns
// the registry's *parsererror.UnknownSourceError; a file the parser cannot
// read returns its error. Bad lines and invalid records never fail the
// call; they are reported in the result.
func (n *Normalizer) Normalize(parserName, filePath string, cfg models.ParseConfig) (*Result, error) {
	p, err := n.registry.Get(parserName)
	if err != nil {
		n.logger.WithError(err).Error("Unknown parser", logging.F(logging.FieldParser, parserName))
		return nil, err
	}

	parsed, err := p.ParseFile(filePath, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing %s with %s: %w", filePath, parserName, err)
	}

	result := n.NormalizeTable(parserName, filePath, p.NormalizeData(parsed.Records), cfg)
	result.Extracted = len(parsed.Records)
	result.Skipped = parsed.Skipped
	return result, nil
}

// NormalizeTable applies every step after extraction to an already
// normalized table.
func (n *Normalizer) NormalizeTable(parserName, filePath string, table models.Table, cfg models.ParseConfig) *Result {
	logger := n.logger.WithFields(
		logging.F(logging.FieldParser, parserName),
		logging.F(logging.FieldFile, filePath))

	fallback := configPeriod(cfg, logger)
	rows := make([]models.Row, 0, table.Len())
	for _, raw := range table.Rows {
		row := standardize(raw)
		row = n.maps.Apply(parserName, row)
		if !fallback.IsZero() {
			fillPeriod(row, fallback)
		}
		n.normalizeDate(row, logger)
		normalizeAmount(row)
		if d, ok := row[models.FieldDescription].(string); ok {
			row[models.FieldDescription] = strings.TrimSpace(d)
		}
		row[models.FieldTransactionHash] = fingerprint.TransactionHash(
			row[models.FieldTransactionDate],
			row[models.FieldAmount],
			row[models.FieldDescription],
			row[models.FieldAccountNumber])
		rows = append(rows, row)
	}

	valid, rejected := n.validator.Filter(rows)

	result := &Result{
		Parser:       parserName,
		FilePath:     filePath,
		Extracted:    table.Len(),
		Rejected:     rejected,
		Transactions: make([]models.CanonicalTransaction, 0, len(valid)),
	}
	fileName := filepath.Base(filePath)
	for _, row := range valid {
		row[models.FieldSource] = parserName
		row[models.FieldFilePath] = filePath
		row[models.FieldFileName] = fileName
		tx := toCanonical(row)
		if tx.StatementEndDate == "" && n.MissingDateSentinel != "" {
			tx.StatementEndDate = n.MissingDateSentinel
		}
		result.Transactions = append(result.Transactions, tx)
	}

	logger.Info("Normalized file",
		logging.F(logging.FieldCount, len(result.Transactions)),
		logging.F("rejected", len(rejected)))
	return result
}

func (n *Normalizer) normalizeDate(row models.Row, logger logging.Logger) {
	raw, ok := row[models.FieldTransactionDate]
	if !ok || raw == nil {
		return
	}
	year, _ := toInt(row[models.FieldStatementYear])
	month, _ := toInt(row[models.FieldStatementMonth])
	iso, ok := dateutils.NormalizeTransactionDate(fmt.Sprint(raw), year, month)
	if !ok {
		logger.Debug("Unresolved transaction date", logging.F("raw_date", fmt.Sprint(raw)))
		row[models.FieldTransactionDate] = nil
		return
	}
	row[models.FieldTransactionDate] = iso
}

func normalizeAmount(row models.Row) {
	raw, ok := row[models.FieldAmount]
	if !ok || raw == nil {
		return
	}
	if f, ok := currencyutils.ToFloat(raw); ok {
		row[models.FieldAmount] = f
	}
}

// standardize re-applies the column standardizer so rows from tables built
// outside a parser get the same keys.
func standardize(in models.Row) models.Row {
	out := make(models.Row, len(in))
	for k, v := range in {
		key := textutils.StandardizeColumnName(k)
		if key == "" {
			continue
		}
		if existing, ok := out[key]; ok && existing != nil && existing != "" {
			continue
		}
		out[key] = v
	}
	return out
}

// configPeriod turns the caller's statement date hint into a period. The
// hint accepts the same layouts as the PDF statement-date resolver.
func configPeriod(cfg models.ParseConfig, logger logging.Logger) models.StatementPeriod {
	hint := strings.TrimSpace(cfg.StatementDate)
	if hint == "" {
		return models.StatementPeriod{}
	}
	iso, ok := dateutils.NormalizeTransactionDate(hint, 0, 0)
	if !ok {
		logger.Warn("Ignoring unparseable statement date hint", logging.F("statement_date", hint))
		return models.StatementPeriod{}
	}
	end, err := time.Parse(dateutils.DateLayoutISO, iso)
	if err != nil {
		return models.StatementPeriod{}
	}
	return models.StatementPeriod{End: end}
}

// fillPeriod adds statement context a parser could not provide.
func fillPeriod(row models.Row, period models.StatementPeriod) {
	if _, ok := toInt(row[models.FieldStatementYear]); ok {
		return
	}
	row[models.FieldStatementYear] = period.Year()
	row[models.FieldStatementMonth] = period.Month()
	row[models.FieldStatementEndDate] = period.EndDate()
}

func toCanonical(row models.Row) models.CanonicalTransaction {
	year, _ := toInt(row[models.FieldStatementYear])
	month, _ := toInt(row[models.FieldStatementMonth])
	amount, _ := row[models.FieldAmount].(float64)
	if i, ok := row[models.FieldAmount].(int); ok {
		amount = float64(i)
	}

	tx := models.CanonicalTransaction{
		TransactionDate:    str(row[models.FieldTransactionDate]),
		Description:        str(row[models.FieldDescription]),
		Amount:             amount,
		AccountNumber:      str(row[models.FieldAccountNumber]),
		Source:             str(row[models.FieldSource]),
		FilePath:           str(row[models.FieldFilePath]),
		FileName:           str(row[models.FieldFileName]),
		TransactionHash:    str(row[models.FieldTransactionHash]),
		StatementYear:      models.OptionalInt(year),
		StatementMonth:     models.OptionalInt(month),
		StatementStartDate: str(row[models.FieldStatementStartDate]),
		StatementEndDate:   str(row[models.FieldStatementEndDate]),
	}

	canonical := make(map[string]bool, len(models.CanonicalColumns))
	for _, c := range models.CanonicalColumns {
		canonical[c] = true
	}
	for k, v := range row {
		if canonical[k] {
			continue
		}
		if tx.Extra == nil {
			tx.Extra = make(map[string]any)
		}
		tx.Extra[k] = v
	}
	return tx
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return fingerprint.Stringify(v)
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, t != 0
	case int64:
		return int(t), t != 0
	case float64:
		return int(t), t != 0
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		return i, err == nil && i != 0
	}
	return 0, false
}
