package validation

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/parsererror"
)

// Rejection is a row the validator filtered out.
type Rejection struct {
	Row models.Row
	Err error
}

// Validator checks that the required canonical fields are present:
// transaction_date must be an ISO date, description a non-blank string
// and amount a number.
type Validator struct {
	logger logging.Logger
}

// NewValidator creates a Validator; nil logger selects the default.
func NewValidator(logger logging.Logger) *Validator {
	return &Validator{logger: logging.OrDefault(logger)}
}

// Validate returns nil for a valid row, otherwise a
// *parsererror.MissingRequiredFieldError naming the first failing field.
func (v *Validator) Validate(row models.Row) error {
	for _, field := range models.RequiredFields {
		value, ok := row[field]
		if !ok || value == nil {
			return &parsererror.MissingRequiredFieldError{Field: field}
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			return &parsererror.MissingRequiredFieldError{Field: field}
		}

		switch field {
		case models.FieldTransactionDate:
			s, isString := value.(string)
			if !isString {
				return invalid(field, value, "date is not a string")
			}
			if _, err := time.Parse(models.ISODate, s); err != nil {
				return invalid(field, value, "unparseable date")
			}
		case models.FieldAmount:
			if !isNumber(value) {
				return invalid(field, value, "amount is not numeric")
			}
		}
	}
	return nil
}

// Filter splits rows into the valid ones and the rejections, logging each
// rejection with the failing field.
func (v *Validator) Filter(rows []models.Row) ([]models.Row, []Rejection) {
	valid := make([]models.Row, 0, len(rows))
	var rejected []Rejection
	for _, row := range rows {
		if err := v.Validate(row); err != nil {
			rejected = append(rejected, Rejection{Row: row, Err: err})
			v.logger.WithError(err).Warn("Record failed validation",
				logging.F(logging.FieldField, fieldOf(err)),
				logging.F("description", fmt.Sprint(row[models.FieldDescription])))
			continue
		}
		valid = append(valid, row)
	}
	return valid, rejected
}

func invalid(field string, value any, reason string) error {
	return &parsererror.MissingRequiredFieldError{Field: field, Value: fmt.Sprint(value), Reason: reason}
}

func fieldOf(err error) string {
	if e, ok := err.(*parsererror.MissingRequiredFieldError); ok {
		return e.Field
	}
	return ""
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32:
		return true
	}
	return false
}
