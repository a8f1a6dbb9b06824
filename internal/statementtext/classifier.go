// Package statementtext classifies the lines of a text-layer statement into
// transaction candidates.
//
// A line that starts with a date token opens a candidate. Following lines
// are buffered until the trailing tokens form a valid amount (and balance,
// when the layout has one), then the candidate is emitted. A candidate that
// never completes, or whose trailing token looks numeric but is not a valid
// currency amount, is discarded with a models.SkipReason instead of an
// error.
package statementtext

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/taxstmt/internal/currencyutils"
	"fjacquet/taxstmt/internal/dateutils"
	"fjacquet/taxstmt/internal/models"
)

// DefaultMaxContinuation is how many lines may follow a date line before an
// incomplete candidate is dropped.
const DefaultMaxContinuation = 3

// Skip reasons.
const (
	ReasonIncomplete     = "incomplete transaction"
	ReasonInvalidAmount  = "invalid amount format"
	ReasonTooFewTokens   = "too few tokens"
	ReasonNoDescription  = "missing description"
	ReasonTooManyContLns = "too many continuation lines"
)

var (
	// dateStart matches an optional weekday, then "Mon D" or MM/DD[/YY[YY]].
	dateStart = regexp.MustCompile(`(?i)^(?:` + dateutils.WeekdayPattern + `,?\s+)?(` +
		dateutils.MonthNamePattern + `\.?\s+\d{1,2}|\d{1,2}/\d{1,2}(?:/\d{2}(?:\d{2})?)?)(?:\s+|$)`)
	// looksNumeric catches tokens that try to be amounts.
	looksNumeric = regexp.MustCompile(`^[-+(]?\$?[\d,]*\d[\d,]*(\.\d*)?\)?(-|CR)?$`)
)

// Options tune the classifier to one statement layout.
type Options struct {
	// HasBalance is set for layouts with a running-balance column.
	HasBalance bool
	// MaxContinuation overrides DefaultMaxContinuation when positive.
	MaxContinuation int
}

// LineMatch is an accepted transaction candidate.
type LineMatch struct {
	// Line is the 1-based number of the line holding the date token.
	Line        int
	DateToken   string
	PostDate    string
	Description string
	Amount      string
	Balance     string
	Text        string
}

// Result is the outcome of classifying a block of lines.
type Result struct {
	Matches []LineMatch
	Skipped []models.SkipReason
}

// Classifier is the two-state line machine.
type Classifier struct {
	opts Options
}

// New creates a Classifier.
func New(opts Options) *Classifier {
	if opts.MaxContinuation <= 0 {
		opts.MaxContinuation = DefaultMaxContinuation
	}
	return &Classifier{opts: opts}
}

// MatchDateStart returns the date token a line starts with, and the rest
// of the line.
func MatchDateStart(line string) (token, rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	loc := dateStart.FindStringSubmatchIndex(trimmed)
	if loc == nil {
		return "", "", false
	}
	token = trimmed[loc[2]:loc[3]]
	rest = strings.TrimSpace(trimmed[loc[1]:])
	return token, rest, true
}

type state int

const (
	scanningForDate state = iota
	accumulating
)

type outcome int

const (
	outcomeComplete outcome = iota
	outcomeIncomplete
	outcomeInvalid
)

type candidate struct {
	line     int
	date     string
	postDate string
	tokens   []string
	text     []string
	extra    int
}

// Classify runs the state machine over lines.
func (c *Classifier) Classify(lines []string) Result {
	var (
		res     Result
		st      = scanningForDate
		pending candidate
	)

	discard := func(reason string) {
		res.Skipped = append(res.Skipped, models.SkipReason{
			Line:   pending.line,
			Text:   strings.Join(pending.text, " "),
			Reason: reason,
		})
		st = scanningForDate
	}

	// resolve tries to finish the pending candidate; it reports whether the
	// machine is back to scanning.
	resolve := func() bool {
		match, out, reason := c.evaluate(pending)
		switch out {
		case outcomeComplete:
			res.Matches = append(res.Matches, match)
			st = scanningForDate
			return true
		case outcomeInvalid:
			discard(reason)
			return true
		}
		return false
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if token, rest, ok := MatchDateStart(line); ok {
			if st == accumulating {
				discard(ReasonIncomplete)
			}
			pending = candidate{line: i + 1, date: token, text: []string{line}}
			if post, after, ok := MatchDateStart(rest); ok {
				pending.postDate = post
				rest = after
			}
			pending.tokens = strings.Fields(rest)
			st = accumulating
			resolve()
			continue
		}

		if st != accumulating {
			continue
		}
		pending.extra++
		pending.text = append(pending.text, line)
		pending.tokens = append(pending.tokens, strings.Fields(line)...)
		if resolve() {
			continue
		}
		if pending.extra >= c.opts.MaxContinuation {
			discard(ReasonTooManyContLns)
		}
	}

	if st == accumulating {
		discard(ReasonIncomplete)
	}
	return res
}

// evaluate applies the numeric-trailing-token test to a candidate.
func (c *Classifier) evaluate(p candidate) (LineMatch, outcome, string) {
	tokens := p.tokens
	n := len(tokens)
	if n == 0 {
		return LineMatch{}, outcomeIncomplete, ""
	}

	last := tokens[n-1]
	if !currencyutils.IsCurrencyNumber(last) {
		if looksNumeric.MatchString(last) && strings.ContainsAny(last, ".,") {
			return LineMatch{}, outcomeInvalid, fmt.Sprintf("%s: %q", ReasonInvalidAmount, last)
		}
		return LineMatch{}, outcomeIncomplete, ""
	}

	match := LineMatch{
		Line:      p.line,
		DateToken: p.date,
		PostDate:  p.postDate,
		Text:      strings.Join(p.text, " "),
	}

	descEnd := n - 1
	if c.opts.HasBalance && n >= 3 && currencyutils.IsCurrencyNumber(tokens[n-2]) {
		match.Amount = tokens[n-2]
		match.Balance = last
		descEnd = n - 2
	} else {
		match.Amount = last
	}

	if descEnd < 1 {
		return LineMatch{}, outcomeInvalid, ReasonTooFewTokens
	}
	match.Description = strings.Join(tokens[:descEnd], " ")
	if strings.TrimSpace(match.Description) == "" {
		return LineMatch{}, outcomeInvalid, ReasonNoDescription
	}
	return match, outcomeComplete, ""
}
