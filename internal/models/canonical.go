package models

import "strconv"

// CanonicalTransaction is the normalized, validated output unit. Only the
// normalizer creates one, and identity fields are never changed afterwards.
type CanonicalTransaction struct {
	TransactionDate    string      `csv:"transaction_date" json:"transaction_date"`
	Description        string      `csv:"description" json:"description"`
	Amount             float64     `csv:"amount" json:"amount"`
	AccountNumber      string      `csv:"account_number" json:"account_number,omitempty"`
	Source             string      `csv:"source" json:"source"`
	FilePath           string      `csv:"file_path" json:"file_path"`
	FileName           string      `csv:"file_name" json:"file_name"`
	TransactionHash    string      `csv:"transaction_hash" json:"transaction_hash"`
	StatementYear      OptionalInt `csv:"statement_year" json:"statement_year,omitempty"`
	StatementMonth     OptionalInt `csv:"statement_month" json:"statement_month,omitempty"`
	StatementStartDate string      `csv:"statement_start_date" json:"statement_start_date,omitempty"`
	StatementEndDate   string      `csv:"statement_end_date" json:"statement_end_date,omitempty"`

	// Extra keeps non-canonical columns for in-memory collaborators.
	Extra map[string]any `csv:"-" json:"extra,omitempty"`
}

// OptionalInt is an int that serializes to an empty CSV cell when zero.
type OptionalInt int

// MarshalCSV implements gocsv.TypeMarshaller.
func (i OptionalInt) MarshalCSV() (string, error) {
	if i == 0 {
		return "", nil
	}
	return strconv.Itoa(int(i)), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (i *OptionalInt) UnmarshalCSV(value string) error {
	if value == "" {
		*i = 0
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*i = OptionalInt(n)
	return nil
}

// Row returns the transaction as a canonical row, extras included.
func (t CanonicalTransaction) Row() Row {
	row := make(Row, len(CanonicalColumns)+len(t.Extra))
	for k, v := range t.Extra {
		row[k] = v
	}
	row[FieldTransactionDate] = t.TransactionDate
	row[FieldDescription] = t.Description
	row[FieldAmount] = t.Amount
	row[FieldAccountNumber] = t.AccountNumber
	row[FieldSource] = t.Source
	row[FieldFilePath] = t.FilePath
	row[FieldFileName] = t.FileName
	row[FieldTransactionHash] = t.TransactionHash
	if t.StatementYear != 0 {
		row[FieldStatementYear] = int(t.StatementYear)
	}
	if t.StatementMonth != 0 {
		row[FieldStatementMonth] = int(t.StatementMonth)
	}
	if t.StatementStartDate != "" {
		row[FieldStatementStartDate] = t.StatementStartDate
	}
	if t.StatementEndDate != "" {
		row[FieldStatementEndDate] = t.StatementEndDate
	}
	return row
}
