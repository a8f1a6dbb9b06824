// Package statementdate finds the period a statement covers. Statements
// print the period in many ways and PDF extraction often mangles it, so
// resolution is a chain of increasingly aggressive stages, each tried
// only when the previous ones found nothing.
package statementdate

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"fjacquet/taxstmt/internal/dateutils"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/models"
	"fjacquet/taxstmt/internal/pdftext"
)

// Stage identifies which step of the chain produced a period.
type Stage string

// Resolution stages, in the order they are attempted.
const (
	StageConfig     Stage = "config"
	StageDirect     Stage = "direct"
	StageNormalized Stage = "normalized"
	StageCompact    Stage = "compact"
	StageLineSearch Stage = "line_search"
	StageSecondary  Stage = "secondary"
	StageFilename   Stage = "filename"
	StageNone       Stage = "none"
)

const (
	monthPattern   = dateutils.MonthNamePattern
	datePattern    = `(?:` + monthPattern + `\.?\s*\d{1,2},?\s*\d{4}|\d{1,2}/\d{1,2}/\d{2}(?:\d{2})?)`
	rangeSeparator = `\s*(?:through|thru|to|-)\s*`
)

var (
	rangeRe        = regexp.MustCompile(`(?i)\b(` + datePattern + `)` + rangeSeparator + `(` + datePattern + `)`)
	compactRangeRe = regexp.MustCompile(`(?i)(` + datePattern + `)` + rangeSeparator + `(` + datePattern + `)`)
	closingRe      = regexp.MustCompile(`(?i)(?:closing\s*date|statement\s*date|period\s*ending|ending\s*date|statement\s*closing)\s*:?\s*(?:of\s*)?(` + datePattern + `)`)
	anyDateRe      = regexp.MustCompile(`(?i)\b` + datePattern)
	keywordRe      = regexp.MustCompile(`(?i)through|thru|statement\s+period|closing\s+date|period\s+ending|billing\s+cycle|opening/closing`)

	monthDateRe   = regexp.MustCompile(`(?i)^(` + monthPattern + `)\.?\s*(\d{1,2}),?\s*(\d{4})$`)
	numericDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}(?:\d{2})?)$`)
	filenameRe    = regexp.MustCompile(`(?:^|\D)(\d{8})(?:\D|$)`)

	spaceRunRe = regexp.MustCompile(`[ \t]+`)
	dashes     = strings.NewReplacer("\u2010", "-", "\u2011", "-", "\u2012", "-", "\u2013", "-", "\u2014", "-", "\u2212", "-")
)

// Input is everything the resolver may look at.
type Input struct {
	// ConfigValue is an explicit statement date supplied by the caller.
	ConfigValue string
	// Pages is the primary extracted text.
	Pages []string
	// FilePath is used by the secondary extractor and the filename stage.
	FilePath string
}

// Resolver runs the fallback chain.
type Resolver struct {
	secondary pdftext.Extractor
	logger    logging.Logger
}

// NewResolver creates a Resolver. secondary may be nil, which skips the
// secondary-extraction stage.
func NewResolver(secondary pdftext.Extractor, logger logging.Logger) *Resolver {
	return &Resolver{secondary: secondary, logger: logging.OrDefault(logger)}
}

// Resolve returns the statement period, or false when no stage matched.
// Callers substitute a sentinel rather than failing the parse.
func (r *Resolver) Resolve(in Input) (models.StatementPeriod, bool) {
	period, stage, ok := r.ResolveWithStage(in)
	r.logger.Debug("Statement date resolution finished",
		logging.F(logging.FieldFile, in.FilePath),
		logging.F(logging.FieldStage, string(stage)),
		logging.F(logging.FieldStatus, ok))
	return period, ok
}

// ResolveWithStage is Resolve, also reporting the stage that matched.
func (r *Resolver) ResolveWithStage(in Input) (models.StatementPeriod, Stage, bool) {
	if v := strings.TrimSpace(in.ConfigValue); v != "" {
		if iso, ok := dateutils.NormalizeTransactionDate(v, 0, 0); ok {
			end, _ := time.Parse(dateutils.DateLayoutISO, iso)
			return models.StatementPeriod{End: end}, StageConfig, true
		}
		r.logger.Warn("Ignoring unparseable configured statement date",
			logging.F(logging.FieldFile, in.FilePath),
			logging.F("statement_date", v))
	}

	if period, stage, ok := searchText(in.Pages); ok {
		return period, stage, true
	}

	if r.secondary != nil && in.FilePath != "" {
		pages, err := r.secondary.ExtractPages(in.FilePath)
		if err != nil {
			r.logger.WithError(err).Debug("Secondary extraction failed",
				logging.F(logging.FieldFile, in.FilePath))
		} else if period, _, ok := searchText(pages); ok {
			return period, StageSecondary, true
		}
	}

	if period, ok := FromFilename(in.FilePath); ok {
		return period, StageFilename, true
	}
	return models.StatementPeriod{}, StageNone, false
}

// searchText runs the text-only stages over pages.
func searchText(pages []string) (models.StatementPeriod, Stage, bool) {
	if len(pages) == 0 {
		return models.StatementPeriod{}, StageNone, false
	}
	text := strings.Join(pages, "\n")

	if p, ok := FindPeriod(text); ok {
		return p, StageDirect, true
	}
	for _, pass := range normalizationPasses {
		if p, ok := FindPeriod(pass(text)); ok {
			return p, StageNormalized, true
		}
	}
	if p, ok := findRange(compactRangeRe, compact(text)); ok {
		return p, StageCompact, true
	}
	if p, ok := searchLines(text); ok {
		return p, StageLineSearch, true
	}
	return models.StatementPeriod{}, StageNone, false
}

// normalizationPasses are applied one at a time, each more aggressive.
var normalizationPasses = []func(string) string{
	func(s string) string {
		s = strings.ReplaceAll(s, "\u00a0", " ")
		return spaceRunRe.ReplaceAllString(s, " ")
	},
	func(s string) string {
		s = dashes.Replace(norm.NFKC.String(s))
		return spaceRunRe.ReplaceAllString(s, " ")
	},
	func(s string) string {
		s = dashes.Replace(norm.NFKC.String(s))
		return strings.Join(strings.Fields(s), " ")
	},
}

// compact drops every whitespace rune so a date range split mid-word by
// the extractor ("Janu ary 5") reads contiguously.
func compact(s string) string {
	s = dashes.Replace(norm.NFKC.String(s))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\u00a0' {
			return -1
		}
		return r
	}, s)
}

// FindPeriod looks for a "<date> through <date>" range, then for a
// closing-date marker.
func FindPeriod(text string) (models.StatementPeriod, bool) {
	if p, ok := findRange(rangeRe, text); ok {
		return p, true
	}
	if m := closingRe.FindStringSubmatch(text); m != nil {
		if end, ok := ParseDate(m[1]); ok {
			return models.StatementPeriod{End: end}, true
		}
	}
	return models.StatementPeriod{}, false
}

func findRange(re *regexp.Regexp, text string) (models.StatementPeriod, bool) {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		start, okStart := ParseDate(m[1])
		end, okEnd := ParseDate(m[2])
		if okStart && okEnd && !end.Before(start) {
			return models.StatementPeriod{Start: start, End: end}, true
		}
	}
	return models.StatementPeriod{}, false
}

// searchLines is the brute-force stage: any line carrying a period keyword
// contributes the dates found on it and on the following line.
func searchLines(text string) (models.StatementPeriod, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !keywordRe.MatchString(line) {
			continue
		}
		window := line
		if i+1 < len(lines) {
			window += " " + lines[i+1]
		}
		window = strings.Join(strings.Fields(norm.NFKC.String(window)), " ")

		var dates []time.Time
		for _, raw := range anyDateRe.FindAllString(window, -1) {
			if d, ok := ParseDate(raw); ok {
				dates = append(dates, d)
			}
		}
		switch len(dates) {
		case 0:
			continue
		case 1:
			return models.StatementPeriod{End: dates[0]}, true
		default:
			start, end := dates[0], dates[len(dates)-1]
			if end.Before(start) {
				start, end = end, start
			}
			return models.StatementPeriod{Start: start, End: end}, true
		}
	}
	return models.StatementPeriod{}, false
}

// FromFilename extracts an embedded YYYYMMDD date from the file name.
func FromFilename(path string) (models.StatementPeriod, bool) {
	if path == "" {
		return models.StatementPeriod{}, false
	}
	base := filepath.Base(path)
	for _, m := range filenameRe.FindAllStringSubmatch(base, -1) {
		t, err := time.Parse(dateutils.DateLayoutCompact, m[1])
		if err != nil || t.Year() < 1990 || t.Year() > 2100 {
			continue
		}
		return models.StatementPeriod{End: t}, true
	}
	return models.StatementPeriod{}, false
}

// ParseDate parses one date as matched by the period patterns, with or
// without whitespace between its parts.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if m := monthDateRe.FindStringSubmatch(s); m != nil {
		month, ok := dateutils.MonthFromAbbrev(m[1])
		if !ok {
			return time.Time{}, false
		}
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return validDate(year, month, day)
	}
	if m := numericDateRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		if month < 1 || month > 12 {
			return time.Time{}, false
		}
		return validDate(year, time.Month(month), day)
	}
	return time.Time{}, false
}

func validDate(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
