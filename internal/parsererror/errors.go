// Package parsererror holds the typed error taxonomy of the pipeline.
// Callers branch on these with errors.As.
package parsererror

import "fmt"

// ParseError represents a failure to interpret a single field value.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// HeaderNotFoundError is returned when a parser cannot locate its expected
// table header in the extracted text. The file yields zero records.
type HeaderNotFoundError struct {
	Parser   string
	FilePath string
	Header   string
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("%s: header %q not found in %s", e.Parser, e.Header, e.FilePath)
}

// UnparseableLineError describes a line that looked like a transaction but
// failed token or numeric validation.
type UnparseableLineError struct {
	Line   int
	Text   string
	Reason string
}

func (e *UnparseableLineError) Error() string {
	return fmt.Sprintf("line %d unparseable (%s): %q", e.Line, e.Reason, e.Text)
}

// MissingRequiredFieldError is produced by the validator when a canonical
// record lacks a required field or carries an unparseable date.
type MissingRequiredFieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *MissingRequiredFieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("missing required field '%s'", e.Field)
	}
	return fmt.Sprintf("invalid required field '%s'='%s': %s", e.Field, e.Value, e.Reason)
}

// UnknownSourceError is returned when a parser name is not registered.
type UnknownSourceError struct {
	Name      string
	Available []string
}

func (e *UnknownSourceError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown parser type: %s", e.Name)
	}
	return fmt.Sprintf("unknown parser type: %s (available: %v)", e.Name, e.Available)
}

// InvalidFormatError represents an error where the input file does not conform
// to the expected format for a specific parser.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string // Optional: a snippet of the actual content for debugging
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// DataExtractionError represents an error where text or rows could not be
// pulled out of a file, e.g. an unreadable PDF.
type DataExtractionError struct {
	FilePath  string
	FieldName string
	Reason    string
	Err       error
}

func (e *DataExtractionError) Error() string {
	if e.FieldName != "" {
		return fmt.Sprintf("data extraction failed in file '%s' for field '%s': %s",
			e.FilePath, e.FieldName, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("data extraction failed in file '%s': %s: %v", e.FilePath, e.Reason, e.Err)
	}
	return fmt.Sprintf("data extraction failed in file '%s': %s", e.FilePath, e.Reason)
}

func (e *DataExtractionError) Unwrap() error {
	return e.Err
}
