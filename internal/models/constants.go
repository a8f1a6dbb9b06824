package models

// Canonical column names, in output order.
const (
	FieldTransactionDate    = "transaction_date"
	FieldDescription        = "description"
	FieldAmount             = "amount"
	FieldAccountNumber      = "account_number"
	FieldSource             = "source"
	FieldFilePath           = "file_path"
	FieldFileName           = "file_name"
	FieldTransactionHash    = "transaction_hash"
	FieldStatementYear      = "statement_year"
	FieldStatementMonth     = "statement_month"
	FieldStatementStartDate = "statement_start_date"
	FieldStatementEndDate   = "statement_end_date"
)

// Auxiliary raw fields parsers commonly emit next to the canonical ones.
const (
	FieldBalance  = "balance"
	FieldCurrency = "currency"
	FieldCategory = "category"
	FieldLine     = "line"
	FieldPage     = "page"
)

// CanonicalColumns is the fixed output schema consumed by downstream tools.
var CanonicalColumns = []string{
	FieldTransactionDate,
	FieldDescription,
	FieldAmount,
	FieldAccountNumber,
	FieldSource,
	FieldFilePath,
	FieldFileName,
	FieldTransactionHash,
	FieldStatementYear,
	FieldStatementMonth,
	FieldStatementStartDate,
	FieldStatementEndDate,
}

// RequiredFields must be present and valid on every canonical record.
var RequiredFields = []string{
	FieldTransactionDate,
	FieldDescription,
	FieldAmount,
}

// ISODate is the layout of every normalized date.
const ISODate = "2006-01-02"

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionOutputFile = 0644
)
