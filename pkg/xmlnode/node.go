// Package xmlnode provides a small prefix-preserving XML tree.
//
// Names keep both the lexical prefix found in the source and the namespace it
// resolves to, so documents can be moved between trees and written back
// without renaming prefixes used inside QName-valued attributes.
package xmlnode

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	// XMLNamespace is the namespace bound to the reserved xml prefix.
	XMLNamespace = "http://www.w3.org/XML/1998/namespace"
	// XMLNSNamespace is the namespace of namespace declaration attributes.
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

// Kind identifies the node type.
type Kind uint8

const (
	ElementNode Kind = iota
	TextNode
	CommentNode
)

// Name is a namespace-resolved XML name that remembers its lexical prefix.
type Name struct {
	Space  string
	Prefix string
	Local  string
}

// Qualified returns the lexical prefix:local form.
func (n Name) Qualified() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

// XMLName returns the resolved name.
func (n Name) XMLName() xml.Name {
	return xml.Name{Space: n.Space, Local: n.Local}
}

// Attr is an attribute. Namespace declarations are kept as attributes with
// Space set to XMLNSNamespace.
type Attr struct {
	Name  Name
	Value string
}

// IsNamespaceDecl reports whether the attribute declares a namespace prefix.
func (a Attr) IsNamespaceDecl() bool {
	return a.Name.Space == XMLNSNamespace
}

// DeclaredPrefix returns the prefix declared by a namespace declaration.
// The default namespace declaration yields the empty prefix.
func (a Attr) DeclaredPrefix() string {
	if a.Name.Prefix == "" {
		return ""
	}
	return a.Name.Local
}

// Node is an element, text or comment.
type Node struct {
	parent   *Node
	Name     Name
	Data     string
	Attrs    []Attr
	Children []*Node
	Kind     Kind
}

// NewElement creates a detached element.
func NewElement(space, prefix, local string) *Node {
	return &Node{Kind: ElementNode, Name: Name{Space: space, Prefix: prefix, Local: local}}
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	return &Node{Kind: TextNode, Data: data}
}

// Parent returns the enclosing element, or nil for a detached root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Is reports whether n is an element with the given resolved name.
func (n *Node) Is(space, local string) bool {
	return n != nil && n.Kind == ElementNode && n.Name.Space == space && n.Name.Local == local
}

// Attr returns the value of a non-declaration attribute.
func (n *Node) Attr(space, local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.IsNamespaceDecl() {
			continue
		}
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the attribute value or the empty string.
func (n *Node) AttrValue(space, local string) string {
	v, _ := n.Attr(space, local)
	return v
}

// SetAttr replaces or appends a non-declaration attribute.
func (n *Node) SetAttr(name Name, value string) {
	for i, a := range n.Attrs {
		if !a.IsNamespaceDecl() && a.Name.Space == name.Space && a.Name.Local == name.Local {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes a non-declaration attribute and reports whether it existed.
func (n *Node) RemoveAttr(space, local string) bool {
	for i, a := range n.Attrs {
		if !a.IsNamespaceDecl() && a.Name.Space == space && a.Name.Local == local {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// DeclareNamespace binds prefix to uri on n, replacing an existing binding of
// the same prefix on n.
func (n *Node) DeclareNamespace(prefix, uri string) {
	attr := Attr{Name: Name{Space: XMLNSNamespace, Prefix: "xmlns", Local: prefix}, Value: uri}
	if prefix == "" {
		attr.Name = Name{Space: XMLNSNamespace, Local: "xmlns"}
	}
	for i, a := range n.Attrs {
		if a.IsNamespaceDecl() && a.DeclaredPrefix() == prefix {
			n.Attrs[i] = attr
			return
		}
	}
	n.Attrs = append(n.Attrs, attr)
}

// Namespaces returns the prefixes declared directly on n.
func (n *Node) Namespaces() map[string]string {
	out := make(map[string]string)
	for _, a := range n.Attrs {
		if a.IsNamespaceDecl() {
			out[a.DeclaredPrefix()] = a.Value
		}
	}
	return out
}

// InScopeNamespaces returns every binding visible at n, nearest declaration first.
func (n *Node) InScopeNamespaces() map[string]string {
	out := make(map[string]string)
	for cur := n; cur != nil; cur = cur.parent {
		for _, a := range cur.Attrs {
			if !a.IsNamespaceDecl() {
				continue
			}
			prefix := a.DeclaredPrefix()
			if _, seen := out[prefix]; !seen {
				out[prefix] = a.Value
			}
		}
	}
	return out
}

// LookupNamespace resolves prefix in the scope of n.
func (n *Node) LookupNamespace(prefix string) (string, bool) {
	switch prefix {
	case "xml":
		return XMLNamespace, true
	case "xmlns":
		return XMLNSNamespace, true
	}
	for cur := n; cur != nil; cur = cur.parent {
		for _, a := range cur.Attrs {
			if a.IsNamespaceDecl() && a.DeclaredPrefix() == prefix {
				return a.Value, true
			}
		}
	}
	if prefix == "" {
		return "", true
	}
	return "", false
}

// ResolveQName resolves a QName-valued attribute or text in the scope of n.
// Unprefixed values take the default namespace.
func (n *Node) ResolveQName(value string) (xml.Name, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return xml.Name{}, fmt.Errorf("empty QName")
	}
	prefix, local, found := strings.Cut(value, ":")
	if !found {
		prefix, local = "", value
	}
	if local == "" || strings.Contains(local, ":") {
		return xml.Name{}, fmt.Errorf("invalid QName %q", value)
	}
	ns, ok := n.LookupNamespace(prefix)
	if !ok {
		return xml.Name{}, fmt.Errorf("prefix %s not bound for QName %q", prefix, value)
	}
	return xml.Name{Space: ns, Local: local}, nil
}

// Elements returns the element children of n.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// ChildElements returns the element children with the given resolved name.
func (n *Node) ChildElements(space, local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Is(space, local) {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the concatenated text children of n.
func (n *Node) Text() string {
	var b strings.Builder
	for _, c := range n.Children {
		if c.Kind == TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// AppendChild attaches c as the last child of n.
func (n *Node) AppendChild(c *Node) {
	c.parent = n
	n.Children = append(n.Children, c)
}

// SetChildren replaces the children of n.
func (n *Node) SetChildren(children []*Node) {
	for _, c := range children {
		c.parent = n
	}
	n.Children = children
}

// Clone returns a detached deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Name: n.Name, Data: n.Data}
	if len(n.Attrs) > 0 {
		out.Attrs = make([]Attr, len(n.Attrs))
		copy(out.Attrs, n.Attrs)
	}
	for _, c := range n.Children {
		out.AppendChild(c.Clone())
	}
	return out
}
