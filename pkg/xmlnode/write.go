package xmlnode

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		"\"", "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

// WriteOptions controls indentation. An empty Indent writes compact output.
type WriteOptions struct {
	Prefix string
	Indent string
	Depth  int
}

// Write writes n and its subtree. Elements holding text are written inline so
// their character data is not altered by indentation.
func Write(w io.Writer, n *Node, opts WriteOptions) error {
	bw := bufio.NewWriter(w)
	enc := &writer{w: bw, opts: opts}
	enc.node(n, opts.Depth)
	if enc.err != nil {
		return enc.err
	}
	return bw.Flush()
}

// String returns the compact serialization of n.
func (n *Node) String() string {
	var b strings.Builder
	if err := Write(&b, n, WriteOptions{}); err != nil {
		return fmt.Sprintf("<!-- %v -->", err)
	}
	return b.String()
}

// EscapeText escapes character data.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes an attribute value for a double-quoted attribute.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

type writer struct {
	w    *bufio.Writer
	err  error
	opts WriteOptions
}

func (e *writer) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s)
}

func (e *writer) newline(depth int) {
	if e.opts.Indent == "" {
		return
	}
	e.write("\n")
	e.write(e.opts.Prefix)
	e.write(strings.Repeat(e.opts.Indent, depth))
}

func (e *writer) node(n *Node, depth int) {
	switch n.Kind {
	case TextNode:
		e.write(EscapeText(n.Data))
	case CommentNode:
		e.write("<!--")
		e.write(n.Data)
		e.write("-->")
	case ElementNode:
		e.element(n, depth)
	}
}

func (e *writer) element(n *Node, depth int) {
	name := n.Name.Qualified()
	e.write("<")
	e.write(name)
	for _, a := range n.Attrs {
		e.write(" ")
		e.write(a.Name.Qualified())
		e.write(`="`)
		e.write(EscapeAttr(a.Value))
		e.write(`"`)
	}
	if len(n.Children) == 0 {
		e.write("/>")
		return
	}
	e.write(">")

	if hasText(n) {
		indent := e.opts.Indent
		e.opts.Indent = ""
		for _, c := range n.Children {
			e.node(c, depth+1)
		}
		e.opts.Indent = indent
	} else {
		for _, c := range n.Children {
			e.newline(depth + 1)
			e.node(c, depth+1)
		}
		e.newline(depth)
	}
	e.write("</")
	e.write(name)
	e.write(">")
}

func hasText(n *Node) bool {
	for _, c := range n.Children {
		if c.Kind == TextNode {
			return true
		}
	}
	return false
}
