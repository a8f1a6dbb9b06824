package parser

import (
	"fmt"

	"fjacquet/taxstmt/internal/logging"
	"fjacquet/taxstmt/internal/parsererror"
	"fjacquet/taxstmt/internal/pdftext"
	"fjacquet/taxstmt/internal/statementdate"
)

// Dependencies are handed to every constructor.
type Dependencies struct {
	Logger    logging.Logger
	Extractor pdftext.Extractor
	Dates     *statementdate.Resolver
}

// PDFExtractor returns the configured extractor, or the auto chain.
func (d Dependencies) PDFExtractor() pdftext.Extractor {
	if d.Extractor != nil {
		return d.Extractor
	}
	e, _ := pdftext.New(pdftext.KindAuto, "", d.Logger)
	return e
}

// DateResolver returns the configured resolver, or one backed by the
// secondary extractor.
func (d Dependencies) DateResolver() *statementdate.Resolver {
	if d.Dates != nil {
		return d.Dates
	}
	return statementdate.NewResolver(pdftext.NewSecondaryExtractor(d.Logger), d.Logger)
}

// Constructor builds a parser instance.
type Constructor func(deps Dependencies) Parser

// Descriptor is a registered (name, constructor) pair.
type Descriptor struct {
	Name string
	New  Constructor
}

// Registry maps parser names to constructors. It is filled once at startup
// and only read afterwards, so it carries no lock.
type Registry struct {
	deps        Dependencies
	logger      logging.Logger
	descriptors []Descriptor
	index       map[string]int
}

// NewRegistry creates an empty registry whose parsers receive deps.
func NewRegistry(deps Dependencies) *Registry {
	deps.Logger = logging.OrDefault(deps.Logger)
	return &Registry{
		deps:   deps,
		logger: deps.Logger.WithField(logging.FieldComponent, "registry"),
		index:  make(map[string]int),
	}
}

// Register adds a parser. The first registration of a name wins; a repeat
// is a no-op and returns false.
func (r *Registry) Register(name string, ctor Constructor) bool {
	if name == "" || ctor == nil {
		return false
	}
	if _, exists := r.index[name]; exists {
		return false
	}
	r.index[name] = len(r.descriptors)
	r.descriptors = append(r.descriptors, Descriptor{Name: name, New: ctor})
	r.logger.Debug("Registered parser", logging.F(logging.FieldParser, name))
	return true
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Get returns a new instance of the named parser, or an
// *parsererror.UnknownSourceError.
func (r *Registry) Get(name string) (Parser, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, &parsererror.UnknownSourceError{Name: name, Available: r.Names()}
	}
	return r.descriptors[i].New(r.deps), nil
}

// Names lists registered parsers in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.descriptors))
	for i, d := range r.descriptors {
		names[i] = d.Name
	}
	return names
}

// Len returns the number of registered parsers.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

// Detect returns the first parser, in registration order, whose CanParse
// accepts filePath. A panicking detector counts as a non-match. No match
// is a normal outcome reported as ("", false).
func (r *Registry) Detect(filePath string) (string, bool) {
	for _, d := range r.descriptors {
		p := d.New(r.deps)
		detector, ok := p.(Detector)
		if !ok {
			continue
		}
		if r.safeCanParse(d.Name, detector, filePath) {
			r.logger.Debug("Detected parser",
				logging.F(logging.FieldFile, filePath),
				logging.F(logging.FieldParser, d.Name))
			return d.Name, true
		}
	}
	return "", false
}

func (r *Registry) safeCanParse(name string, d Detector, filePath string) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("Parser detection panicked",
				logging.F(logging.FieldParser, name),
				logging.F(logging.FieldFile, filePath),
				logging.F(logging.FieldError, fmt.Sprint(rec)))
			ok = false
		}
	}()
	return d.CanParse(filePath)
}
