package xmlnode

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Parse reads a document and returns its root element.
//
// Whitespace-only text is dropped. Comments inside the root element are
// kept; the XML declaration, processing instructions and DOCTYPE are not.
func Parse(r io.Reader) (*Node, error) {
	if r == nil {
		return nil, fmt.Errorf("nil XML reader")
	}
	dec := xml.NewDecoder(r)
	dec.Strict = true

	var (
		root  *Node
		stack []*Node
	)
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml token: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, fmt.Errorf("multiple root elements: %s", rawName(t.Name))
			}
			el, err := newParsedElement(t, top(stack))
			if err != nil {
				return nil, err
			}
			if parent := top(stack); parent != nil {
				parent.AppendChild(el)
			} else {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			cur := top(stack)
			if cur == nil {
				return nil, fmt.Errorf("unexpected end element %s", rawName(t.Name))
			}
			if got := rawName(t.Name); got != cur.Name.Qualified() {
				return nil, fmt.Errorf("element %s closed by %s", cur.Name.Qualified(), got)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			cur := top(stack)
			if cur == nil {
				if len(bytes.TrimSpace(t)) != 0 {
					return nil, fmt.Errorf("text outside root element")
				}
				continue
			}
			if len(bytes.TrimSpace(t)) == 0 {
				continue
			}
			appendText(cur, string(t))
		case xml.Comment:
			if cur := top(stack); cur != nil {
				cur.AppendChild(&Node{Kind: CommentNode, Data: string(t)})
			}
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unclosed element %s", top(stack).Name.Qualified())
	}
	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	return root, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

func newParsedElement(start xml.StartElement, parent *Node) (*Node, error) {
	el := &Node{Kind: ElementNode, parent: parent}
	el.Name = Name{Prefix: start.Name.Space, Local: start.Name.Local}
	el.Attrs = make([]Attr, 0, len(start.Attr))
	for _, a := range start.Attr {
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			el.Attrs = append(el.Attrs, Attr{Name: Name{Space: XMLNSNamespace, Local: "xmlns"}, Value: a.Value})
		case a.Name.Space == "xmlns":
			el.Attrs = append(el.Attrs, Attr{Name: Name{Space: XMLNSNamespace, Prefix: "xmlns", Local: a.Name.Local}, Value: a.Value})
		default:
			el.Attrs = append(el.Attrs, Attr{Name: Name{Prefix: a.Name.Space, Local: a.Name.Local}, Value: a.Value})
		}
	}

	space, ok := el.LookupNamespace(el.Name.Prefix)
	if !ok {
		return nil, fmt.Errorf("element %s: prefix %s not bound", el.Name.Qualified(), el.Name.Prefix)
	}
	el.Name.Space = space
	for i := range el.Attrs {
		a := &el.Attrs[i]
		if a.IsNamespaceDecl() || a.Name.Prefix == "" {
			continue
		}
		ns, ok := el.LookupNamespace(a.Name.Prefix)
		if !ok {
			return nil, fmt.Errorf("attribute %s on %s: prefix %s not bound",
				a.Name.Qualified(), el.Name.Qualified(), a.Name.Prefix)
		}
		a.Name.Space = ns
	}
	return el, nil
}

func appendText(n *Node, data string) {
	if last := len(n.Children) - 1; last >= 0 && n.Children[last].Kind == TextNode {
		n.Children[last].Data += data
		return
	}
	n.AppendChild(NewText(data))
}

func top(stack []*Node) *Node {
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
