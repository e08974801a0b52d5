package xmlequal

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			name: "whitespace ignored",
			a:    `<a><b>text</b></a>`,
			b:    "<a>\n  <b>  text  </b>\n</a>",
			want: true,
		},
		{
			name: "prefixes ignored",
			a:    `<w:a xmlns:w="urn:w"><w:b/></w:a>`,
			b:    `<a xmlns="urn:w"><b/></a>`,
			want: true,
		},
		{
			name: "attribute order ignored",
			a:    `<a x="1" y="2"/>`,
			b:    `<a y="2" x="1"/>`,
			want: true,
		},
		{
			name: "qname values resolved",
			a:    `<part xmlns:s="urn:s" element="s:Order"/>`,
			b:    `<part xmlns:schema="urn:s" element="schema:Order"/>`,
			want: true,
		},
		{
			name: "entities and cdata compare by value",
			a:    `<a>x &amp; y</a>`,
			b:    `<a><![CDATA[x & y]]></a>`,
			want: true,
		},
		{
			name: "comments ignored in leaf text",
			a:    `<a><!-- note --></a>`,
			b:    `<a/>`,
			want: true,
		},
		{
			name: "qname values in different namespaces",
			a:    `<part xmlns:s="urn:s" element="s:Order"/>`,
			b:    `<part xmlns:s="urn:t" element="s:Order"/>`,
			want: false,
		},
		{
			name: "different namespace",
			a:    `<a xmlns="urn:a"/>`,
			b:    `<a xmlns="urn:b"/>`,
			want: false,
		},
		{
			name: "child order significant",
			a:    `<a><b/><c/></a>`,
			b:    `<a><c/><b/></a>`,
			want: false,
		},
		{
			name: "attribute value differs",
			a:    `<a x="1"/>`,
			b:    `<a x="2"/>`,
			want: false,
		},
		{
			name: "missing child",
			a:    `<a><b/></a>`,
			b:    `<a/>`,
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Equal([]byte(tt.a), []byte(tt.b))
			if err != nil {
				t.Fatalf("Equal() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDiffReportsDifference(t *testing.T) {
	diff, err := Diff([]byte(`<a x="1"/>`), []byte(`<a x="2"/>`))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if !strings.Contains(diff, `"1"`) || !strings.Contains(diff, `"2"`) {
		t.Fatalf("Diff() = %q, want both values mentioned", diff)
	}
}

func TestDiffParseError(t *testing.T) {
	if _, err := Diff([]byte(`<a>`), []byte(`<a/>`)); err == nil {
		t.Fatalf("Diff() error = nil, want parse error")
	}
	if _, err := Diff([]byte(`<a/>`), []byte(`<a`)); err == nil {
		t.Fatalf("Diff() error = nil, want parse error")
	}
}

func TestCanonicalizeDropsDeclarations(t *testing.T) {
	n, err := Canonicalize([]byte(`<p:a xmlns:p="urn:p" xmlns="urn:d" k="v"/>`))
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}
	if n.Name != "{urn:p}a" {
		t.Fatalf("Name = %q, want {urn:p}a", n.Name)
	}
	if len(n.Attrs) != 1 || n.Attrs[0] != (Attr{Name: "k", Value: "v"}) {
		t.Fatalf("Attrs = %+v, want [k=v]", n.Attrs)
	}
}

func TestCanonicalizeAttributes(t *testing.T) {
	n, err := Canonicalize([]byte(`<x:a xmlns:x="urn:x" xmlns:t="urn:t" z="1" type="t:T" x:b="2"/>`))
	if err != nil {
		t.Fatalf("Canonicalize() error = %v", err)
	}
	want := []Attr{
		{Name: "type", Value: "{urn:t}T"},
		{Name: "z", Value: "1"},
		{Name: "{urn:x}b", Value: "2"},
	}
	if diff := cmp.Diff(want, n.Attrs); diff != "" {
		t.Fatalf("Attrs mismatch (-want +got):\n%s", diff)
	}
}
