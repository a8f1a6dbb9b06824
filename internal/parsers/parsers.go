// Package parsers wires every institution parser into a registry.
package parsers

import (
	"fjacquet/taxstmt/internal/amazonparser"
	"fjacquet/taxstmt/internal/camtparser"
	"fjacquet/taxstmt/internal/capitaloneparser"
	"fjacquet/taxstmt/internal/chaseparser"
	"fjacquet/taxstmt/internal/csvparser"
	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/ofxparser"
	"fjacquet/taxstmt/internal/parser"
	"fjacquet/taxstmt/internal/revolutparser"
	"fjacquet/taxstmt/internal/taxorganizerparser"
	"fjacquet/taxstmt/internal/xlsparser"
)

// Builtin lists the known parsers in detection order. Structured formats
// come first since their sniffs are exact; the PDF parsers follow, most
// specific phrase first. The generic CSV parser has no detector.
var Builtin = []parser.Descriptor{
	{Name: camtparser.Name, New: camtparser.New},
	{Name: ofxparser.Name, New: ofxparser.New},
	{Name: revolutparser.Name, New: revolutparser.New},
	{Name: xlsparser.Name, New: xlsparser.New},
	{Name: taxorganizerparser.Name, New: taxorganizerparser.New},
	{Name: amazonparser.Name, New: amazonparser.New},
	{Name: chaseparser.Name, New: chaseparser.New},
	{Name: capitaloneparser.Name, New: capitaloneparser.New},
	{Name: csvparser.Name, New: csvparser.New},
}

// Discover registers every builtin parser on reg. Names already present
// are left alone, so calling it twice changes nothing.
func Discover(reg *parser.Registry, logger logging.Logger) *parser.Registry {
	logger = logging.OrDefault(logger)
	added := 0
	for _, d := range Builtin {
		if reg.Register(d.Name, d.New) {
			added++
		}
	}
	logger.Debug("Discovered parsers",
		logging.F(logging.FieldCount, added),
		logging.F("registered", reg.Len()))
	return reg
}

// Bootstrap returns a registry holding every builtin parser.
func Bootstrap(deps parser.Dependencies) *parser.Registry {
	return Discover(parser.NewRegistry(deps), deps.Logger)
}
