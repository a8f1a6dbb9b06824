// Package transform maps parser-specific columns onto the canonical
// transaction fields. A Map is static configuration: the builtin maps are
// Go values, and a YAML file can add or override entries per source.
package transform

import (
	"strings"

	"fjacquet/taxstmt/internal/models"
)

// Rule produces the value of one canonical field from a standardized row.
type Rule interface {
	// Value returns the field value, or false when the row has none.
	Value(row models.Row) (any, bool)
}

// Renamer is implemented by rules that move a column instead of copying it.
type Renamer interface {
	Source() string
}

type columnRule string

// Column copies a single column and drops it under its old name.
func Column(name string) Rule {
	return columnRule(name)
}

func (c columnRule) Value(row models.Row) (any, bool) {
	v, ok := row[string(c)]
	return v, ok && !isBlank(v)
}

func (c columnRule) Source() string {
	return string(c)
}

type coalesceRule []string

// Coalesce takes the first non-blank of several columns.
func Coalesce(names ...string) Rule {
	return coalesceRule(names)
}

func (c coalesceRule) Value(row models.Row) (any, bool) {
	for _, name := range c {
		if v, ok := row[name]; ok && !isBlank(v) {
			return v, true
		}
	}
	return nil, false
}

type deriveRule func(models.Row) any

// Derive computes a value from the whole row; a nil result means absent.
func Derive(fn func(models.Row) any) Rule {
	return deriveRule(fn)
}

func (d deriveRule) Value(row models.Row) (any, bool) {
	v := d(row)
	return v, !isBlank(v)
}

// Map assigns a rule to each canonical field it sets.
type Map map[string]Rule

// Maps holds one Map per parser name.
type Maps map[string]Map

// Apply returns a copy of row with the source's map applied. Columns the
// map does not consume are kept; a field whose rule finds nothing keeps
// whatever value the row already had. A source without a map gets the
// row back unchanged.
func (m Maps) Apply(source string, row models.Row) models.Row {
	fields, ok := m[source]
	if !ok || len(fields) == 0 {
		return row
	}

	out := row.Clone()
	for field, rule := range fields {
		v, ok := rule.Value(row)
		if !ok {
			continue
		}
		out[field] = v
		if r, isRename := rule.(Renamer); isRename && r.Source() != field {
			if _, mapped := fields[r.Source()]; !mapped {
				delete(out, r.Source())
			}
		}
	}
	return out
}

// Has reports whether a map is configured for source.
func (m Maps) Has(source string) bool {
	_, ok := m[source]
	return ok
}

// Merge returns m with every field of overlay applied on top. Neither
// input is modified.
func (m Maps) Merge(overlay Maps) Maps {
	out := make(Maps, len(m)+len(overlay))
	for source, fields := range m {
		out[source] = copyMap(fields)
	}
	for source, fields := range overlay {
		dst, ok := out[source]
		if !ok {
			dst = make(Map, len(fields))
			out[source] = dst
		}
		for field, rule := range fields {
			dst[field] = rule
		}
	}
	return out
}

func copyMap(in Map) Map {
	out := make(Map, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}
