// Package xmlequal compares XML documents for semantic equality.
//
// Documents are canonicalized before comparison: namespace declarations are
// dropped, element and attribute names and QName-valued attributes are
// resolved to {namespace}local, attributes are sorted, whitespace-only text is
// ignored and leaf text is trimmed. Child order is significant. Text mixed
// with child elements is not compared.
package xmlequal

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"aqwari.net/xml/xmltree"
	"github.com/google/go-cmp/cmp"
)

const xmlnsNamespace = "http://www.w3.org/2000/xmlns/"

// qnameAttrs lists unqualified attributes whose values are QNames in XSD and WSDL 1.1.
var qnameAttrs = map[string]bool{
	"type":              true,
	"base":              true,
	"ref":               true,
	"element":           true,
	"message":           true,
	"binding":           true,
	"itemType":          true,
	"substitutionGroup": true,
	"refer":             true,
}

// Node is a canonical element.
type Node struct {
	Name     string
	Text     string
	Attrs    []Attr
	Children []Node
}

// Attr is a canonical attribute.
type Attr struct {
	Name  string
	Value string
}

// Canonicalize parses doc and returns its canonical root element.
func Canonicalize(doc []byte) (*Node, error) {
	root, err := xmltree.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	n := canonical(root)
	return &n, nil
}

// Equal reports whether a and b are semantically equal documents.
func Equal(a, b []byte) (bool, error) {
	diff, err := Diff(a, b)
	if err != nil {
		return false, err
	}
	return diff == "", nil
}

// Diff returns a human-readable difference between the canonical forms of
// want and got, or the empty string when they are equal.
func Diff(want, got []byte) (string, error) {
	cw, err := Canonicalize(want)
	if err != nil {
		return "", fmt.Errorf("want: %w", err)
	}
	cg, err := Canonicalize(got)
	if err != nil {
		return "", fmt.Errorf("got: %w", err)
	}
	return cmp.Diff(cw, cg), nil
}

func canonical(el *xmltree.Element) Node {
	n := Node{Name: nameString(el.Name)}
	for _, a := range el.StartElement.Attr {
		if isNamespaceDecl(a.Name) {
			continue
		}
		value := a.Value
		if a.Name.Space == "" && qnameAttrs[a.Name.Local] {
			value = resolveQName(el, value)
		}
		n.Attrs = append(n.Attrs, Attr{Name: nameString(a.Name), Value: value})
	}
	slices.SortFunc(n.Attrs, func(x, y Attr) int {
		return strings.Compare(x.Name, y.Name)
	})

	if len(el.Children) == 0 {
		n.Text = strings.TrimSpace(leafText(el.Content))
		return n
	}
	for i := range el.Children {
		n.Children = append(n.Children, canonical(&el.Children[i]))
	}
	return n
}

func resolveQName(el *xmltree.Element, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	name := el.Resolve(value)
	if name.Space == "" {
		return name.Local
	}
	return nameString(name)
}

func nameString(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return "{" + name.Space + "}" + name.Local
}

func isNamespaceDecl(name xml.Name) bool {
	switch {
	case name.Space == "xmlns", name.Space == xmlnsNamespace:
		return true
	case name.Space == "" && name.Local == "xmlns":
		return true
	default:
		return false
	}
}

// leafText decodes the raw content of an element without child elements so
// entity references and CDATA sections compare by value and comments vanish.
func leafText(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	var doc bytes.Buffer
	doc.WriteString("<x>")
	doc.Write(content)
	doc.WriteString("</x>")

	dec := xml.NewDecoder(&doc)
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return text.String()
		}
		if err != nil {
			return string(content)
		}
		if cd, ok := tok.(xml.CharData); ok {
			text.Write(cd)
		}
	}
}
