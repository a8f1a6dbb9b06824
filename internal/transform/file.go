package transform

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fjacquet/taxstmt/internal/textutils"
)

// mapFile is the YAML layout of a transformation map file:
//
//	sources:
//	  generic_csv:
//	    transaction_date: Posted On
//	    description: [Payee Name, Memo]
type mapFile struct {
	Sources map[string]map[string]columnSpec `yaml:"sources"`
}

// columnSpec is a single column name or a list to coalesce.
type columnSpec []string

func (c *columnSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*c = columnSpec{value.Value}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		*c = names
		return nil
	default:
		return fmt.Errorf("line %d: column must be a name or a list of names", value.Line)
	}
}

// LoadMapFile reads transformation maps from a YAML file. Column and field
// names are standardized, so labels may be written as they appear in the
// source file.
func LoadMapFile(path string) (Maps, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading transformation map file: %w", err)
	}
	return ParseMaps(data)
}

// ParseMaps decodes the YAML map layout.
func ParseMaps(data []byte) (Maps, error) {
	var file mapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing transformation map: %w", err)
	}

	maps := make(Maps, len(file.Sources))
	for source, fields := range file.Sources {
		m := make(Map, len(fields))
		for field, spec := range fields {
			name := textutils.StandardizeColumnName(field)
			columns := textutils.StandardizeColumnNames(spec)
			switch len(columns) {
			case 0:
				return nil, fmt.Errorf("source %s: field %s has no columns", source, field)
			case 1:
				m[name] = Column(columns[0])
			default:
				m[name] = Coalesce(columns...)
			}
		}
		maps[source] = m
	}
	return maps, nil
}
