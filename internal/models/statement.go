package models

import "time"

// StatementPeriod is the date range a statement covers. End is always set
// when the period is valid; Start may be zero for single-date statements.
type StatementPeriod struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether no period was resolved.
func (p StatementPeriod) IsZero() bool {
	return p.End.IsZero()
}

// Year returns the statement year, taken from the closing date.
func (p StatementPeriod) Year() int {
	if p.IsZero() {
		return 0
	}
	return p.End.Year()
}

// Month returns the statement month, taken from the closing date.
func (p StatementPeriod) Month() int {
	if p.IsZero() {
		return 0
	}
	return int(p.End.Month())
}

// StartDate returns the ISO start date or "".
func (p StatementPeriod) StartDate() string {
	if p.Start.IsZero() {
		return ""
	}
	return p.Start.Format(ISODate)
}

// EndDate returns the ISO end date or "".
func (p StatementPeriod) EndDate() string {
	if p.End.IsZero() {
		return ""
	}
	return p.End.Format(ISODate)
}

// Stamp writes the statement-context fields into a raw record. Nothing is
// written for a zero period so the caller can fall back to a sentinel.
func (p StatementPeriod) Stamp(record RawRecord) {
	if p.IsZero() {
		return
	}
	record[FieldStatementYear] = p.Year()
	record[FieldStatementMonth] = p.Month()
	if start := p.StartDate(); start != "" {
		record[FieldStatementStartDate] = start
	}
	record[FieldStatementEndDate] = p.EndDate()
}
