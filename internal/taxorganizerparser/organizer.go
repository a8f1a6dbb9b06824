package taxorganizerparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fjacquet/taxstmt/internal/textutils"
)

// ErrorKind categorizes a problem found while indexing an organizer.
type ErrorKind string

// Error kinds.
const (
	ErrMissingPage ErrorKind = "missing_page"
	ErrInvalidPage ErrorKind = "invalid_page"
	ErrNoIndex     ErrorKind = "no_index"
)

// OrganizerError is one categorized indexing problem. It does not stop the
// remaining topics from being read.
type OrganizerError struct {
	Kind   ErrorKind
	Topic  string
	Code   string
	Page   int
	Detail string
}

func (e OrganizerError) Error() string {
	switch e.Kind {
	case ErrMissingPage:
		return fmt.Sprintf("%s: topic %q code %s has no page", e.Kind, e.Topic, e.Code)
	case ErrInvalidPage:
		return fmt.Sprintf("%s: topic %q code %s points at page %d: %s", e.Kind, e.Topic, e.Code, e.Page, e.Detail)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
}

// PageInfo is one entry of the page inventory.
type PageInfo struct {
	Number   int
	TopLabel string
	Codes    []string
	// Lines are the non-empty lines below the top label.
	Lines []string
}

// IndexEntry is one (topic, form, codes) triple of the table of contents.
type IndexEntry struct {
	Topic string
	Form  string
	Codes []string
}

// Field is a label/value pair read from a form page.
type Field struct {
	Label string
	Value string
	Line  int
}

// Form is an indexed page and the fields found on it.
type Form struct {
	Topic        string
	Name         string
	Code         string
	Page         int
	Fields       []Field
	Unclassified []string
}

// Organizer is the structured view of a tax organizer workbook.
type Organizer struct {
	TaxYear int
	TOCPage int
	Pages   []PageInfo
	Index   []IndexEntry
	Forms   []Form
	Errors  []OrganizerError
}

var (
	codeRe     = regexp.MustCompile(`\b([A-Z][A-Z0-9]{0,4}-\d{1,3}[A-Z]?)\b`)
	codeListRe = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,4}-\d{1,3}[A-Z]?(?:\s*[,;]?\s*[A-Z][A-Z0-9]{0,4}-\d{1,3}[A-Z]?)*$`)
	tocRe      = regexp.MustCompile(`(?i)table\s+of\s+contents|topic\s+index`)
	taxYearRe  = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})\s+tax\s+organizer\b|\btax\s+year:?\s*((?:19|20)\d{2})\b`)
	pageNumRe  = regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`)

	// fieldSeparators are tried in order.
	fieldSeparators = []*regexp.Regexp{
		regexp.MustCompile(`:`),
		regexp.MustCompile(`\t+`),
		regexp.MustCompile(` {2,}`),
	}
)

// BuildOrganizer indexes the extracted pages of an organizer.
func BuildOrganizer(pages []string) *Organizer {
	org := &Organizer{Pages: inventory(pages)}
	org.TaxYear = findTaxYear(pages)

	toc := findTOC(org.Pages)
	if toc == nil {
		org.Errors = append(org.Errors, OrganizerError{Kind: ErrNoIndex, Detail: "no table of contents page"})
		return org
	}
	org.TOCPage = toc.Number
	org.Index = parseIndex(toc.Lines)
	if len(org.Index) == 0 {
		org.Errors = append(org.Errors, OrganizerError{Kind: ErrNoIndex, Page: toc.Number, Detail: "table of contents has no entries"})
		return org
	}

	byCode := make(map[string][]*PageInfo)
	for i := range org.Pages {
		page := &org.Pages[i]
		if page.Number == toc.Number {
			continue
		}
		for _, code := range page.Codes {
			byCode[code] = append(byCode[code], page)
		}
	}

	for _, entry := range org.Index {
		for _, code := range entry.Codes {
			targets := byCode[code]
			if len(targets) == 0 {
				org.Errors = append(org.Errors, OrganizerError{Kind: ErrMissingPage, Topic: entry.Topic, Code: code})
				continue
			}
			for _, page := range targets {
				if len(page.Lines) == 0 {
					org.Errors = append(org.Errors, OrganizerError{
						Kind: ErrInvalidPage, Topic: entry.Topic, Code: code, Page: page.Number, Detail: "page is blank",
					})
					continue
				}
				form := Form{Topic: entry.Topic, Name: entry.Form, Code: code, Page: page.Number}
				form.Fields, form.Unclassified = extractFields(page.Lines)
				org.Forms = append(org.Forms, form)
			}
		}
	}
	return org
}

func inventory(pages []string) []PageInfo {
	out := make([]PageInfo, 0, len(pages))
	for i, text := range pages {
		info := PageInfo{Number: i + 1}
		for _, raw := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
			line := strings.TrimRight(raw, " \t")
			if strings.TrimSpace(line) == "" {
				continue
			}
			if info.TopLabel == "" {
				info.TopLabel = textutils.CollapseSpaces(line)
				info.Codes = codeRe.FindAllString(info.TopLabel, -1)
				continue
			}
			if pageNumRe.MatchString(strings.TrimSpace(line)) {
				continue
			}
			info.Lines = append(info.Lines, line)
		}
		out = append(out, info)
	}
	return out
}

func findTOC(pages []PageInfo) *PageInfo {
	for i := range pages {
		if tocRe.MatchString(pages[i].TopLabel) {
			return &pages[i]
		}
	}
	for i := range pages {
		for _, line := range pages[i].Lines {
			if tocRe.MatchString(line) {
				return &pages[i]
			}
		}
	}
	return nil
}

// parseIndex reads index lines printed in one or two columns. Cells are
// buffered until a cell made only of form codes closes an entry; the first
// buffered cell is the topic and the rest name the form.
func parseIndex(lines []string) []IndexEntry {
	var entries []IndexEntry
	for _, line := range lines {
		var pending []string
		for _, cell := range textutils.SplitColumns(line) {
			if !codeListRe.MatchString(cell) {
				pending = append(pending, cell)
				continue
			}
			if len(pending) == 0 {
				continue
			}
			entries = append(entries, IndexEntry{
				Topic: pending[0],
				Form:  strings.Join(pending[1:], " "),
				Codes: codeRe.FindAllString(cell, -1),
			})
			pending = nil
		}
	}
	return entries
}

// extractFields splits each line into a label and a value on a colon, then
// on a tab, then on a run of spaces. Lines that do not split are kept as
// unclassified.
func extractFields(lines []string) ([]Field, []string) {
	var (
		fields       []Field
		unclassified []string
	)
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		label, value, ok := splitField(line)
		if !ok {
			unclassified = append(unclassified, textutils.CollapseSpaces(line))
			continue
		}
		fields = append(fields, Field{Label: label, Value: value, Line: i + 1})
	}
	return fields, unclassified
}

func splitField(line string) (string, string, bool) {
	for _, sep := range fieldSeparators {
		parts := sep.Split(line, 2)
		if len(parts) != 2 {
			continue
		}
		label, value := textutils.CollapseSpaces(parts[0]), textutils.CollapseSpaces(parts[1])
		if label != "" && value != "" {
			return label, value, true
		}
	}
	return "", "", false
}

func findTaxYear(pages []string) int {
	for _, page := range pages {
		m := taxYearRe.FindStringSubmatch(page)
		if m == nil {
			continue
		}
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if year, err := strconv.Atoi(raw); err == nil {
			return year
		}
	}
	return 0
}
