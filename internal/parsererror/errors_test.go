package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "parse error",
			err:      &ParseError{Parser: "camt053", Field: "amount", Value: "abc", Err: errors.New("invalid decimal")},
			expected: "camt053: failed to parse amount='abc': invalid decimal",
		},
		{
			name:     "header not found",
			err:      &HeaderNotFoundError{Parser: "chase_checking", FilePath: "a.pdf", Header: "TRANSACTION DETAIL"},
			expected: `chase_checking: header "TRANSACTION DETAIL" not found in a.pdf`,
		},
		{
			name:     "unparseable line",
			err:      &UnparseableLineError{Line: 7, Text: "01/02 FOO", Reason: "no amount"},
			expected: `line 7 unparseable (no amount): "01/02 FOO"`,
		},
		{
			name:     "missing field",
			err:      &MissingRequiredFieldError{Field: "description"},
			expected: "missing required field 'description'",
		},
		{
			name:     "invalid field",
			err:      &MissingRequiredFieldError{Field: "transaction_date", Value: "13/45", Reason: "unparseable date"},
			expected: "invalid required field 'transaction_date'='13/45': unparseable date",
		},
		{
			name:     "unknown source",
			err:      &UnknownSourceError{Name: "nope"},
			expected: "unknown parser type: nope",
		},
		{
			name:     "unknown source with names",
			err:      &UnknownSourceError{Name: "nope", Available: []string{"ofx"}},
			expected: "unknown parser type: nope (available: [ofx])",
		},
		{
			name:     "invalid format",
			err:      &InvalidFormatError{FilePath: "x.csv", ExpectedFormat: "Revolut CSV", Msg: "missing columns"},
			expected: "invalid format in file 'x.csv': missing columns. Expected: Revolut CSV",
		},
		{
			name:     "extraction with field",
			err:      &DataExtractionError{FilePath: "s.pdf", FieldName: "account_number", Reason: "no marker"},
			expected: "data extraction failed in file 's.pdf' for field 'account_number': no marker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestUnwrapAndAs(t *testing.T) {
	cause := errors.New("pdftotext not found")
	err := fmt.Errorf("reading statement: %w", &DataExtractionError{FilePath: "s.pdf", Reason: "extract text", Err: cause})

	var extractErr *DataExtractionError
	require.True(t, errors.As(err, &extractErr))
	assert.Equal(t, "s.pdf", extractErr.FilePath)
	assert.True(t, errors.Is(err, cause))

	parseErr := &ParseError{Parser: "ofx", Field: "date", Err: cause}
	assert.True(t, errors.Is(parseErr, cause))

	wrapped := fmt.Errorf("normalize: %w", &UnknownSourceError{Name: "foo"})
	var unknown *UnknownSourceError
	require.True(t, errors.As(wrapped, &unknown))
	assert.Equal(t, "foo", unknown.Name)
}
