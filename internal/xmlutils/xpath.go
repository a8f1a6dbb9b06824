package xmlutils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/xmlpath.v2"
)

// LoadXMLFile loads an XML file and returns the XML root node
func LoadXMLFile(xmlFilePath string) (*xmlpath.Node, error) {
	file, err := os.Open(xmlFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads an XML document.
func Parse(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML file: %w", err)
	}
	return root, nil
}

// ExtractFromXML extracts values from an XML node using an XPath expression
func ExtractFromXML(root *xmlpath.Node, xpath string) ([]string, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath: %w", err)
	}

	var values []string
	iter := path.Iter(root)
	for iter.Next() {
		values = append(values, iter.Node().String())
	}

	return values, nil
}

// Nodes returns every node matching xpath below root.
func Nodes(root *xmlpath.Node, xpath string) ([]*xmlpath.Node, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath: %w", err)
	}

	var nodes []*xmlpath.Node
	iter := path.Iter(root)
	for iter.Next() {
		nodes = append(nodes, iter.Node())
	}
	return nodes, nil
}

// Exists reports whether xpath matches anything below root. An invalid
// expression matches nothing.
func Exists(root *xmlpath.Node, xpath string) bool {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return false
	}
	return path.Exists(root)
}

// Value returns the cleaned text of the first match, or "".
func Value(node *xmlpath.Node, xpath string) string {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return ""
	}
	s, ok := path.String(node)
	if !ok {
		return ""
	}
	return CleanText(s)
}

// CleanText collapses whitespace and drops common label prefixes from XML
// text content.
func CleanText(text string) string {
	text = strings.Join(strings.Fields(text), " ")

	prefixes := []string{
		"Remittance Info: ",
		"Remittance Information: ",
		"Additional Entry Info: ",
		"Additional Transaction Info: ",
		"Details: ",
	}
	for _, prefix := range prefixes {
		text = strings.TrimPrefix(text, prefix)
	}
	return strings.TrimSpace(text)
}
