package pdftext

// MockExtractor returns canned pages, for tests.
type MockExtractor struct {
	Pages []string
	Err   error
	Calls int
	// ByPath overrides Pages for specific files.
	ByPath map[string][]string
}

// NewMockExtractor creates a MockExtractor returning pages or err.
func NewMockExtractor(pages []string, err error) *MockExtractor {
	return &MockExtractor{Pages: pages, Err: err}
}

// ExtractPages implements Extractor.
func (m *MockExtractor) ExtractPages(pdfPath string) ([]string, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if pages, ok := m.ByPath[pdfPath]; ok {
		return pages, nil
	}
	return m.Pages, nil
}
