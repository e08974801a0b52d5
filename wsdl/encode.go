package wsdl

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/jacoelho/wsdlgen/pkg/xmlnode"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Encoder writes definitions as XML documents.
type Encoder struct {
	w      io.Writer
	prefix string
	indent string
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Indent sets line prefix and indentation, as in encoding/xml.
func (e *Encoder) Indent(prefix, indent string) {
	e.prefix = prefix
	e.indent = indent
}

// Encode writes the XML declaration followed by the definitions element.
func (e *Encoder) Encode(d *Definitions) error {
	root, err := d.Node()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(e.w, xmlHeader); err != nil {
		return err
	}
	if err := xmlnode.Write(e.w, root, xmlnode.WriteOptions{Prefix: e.prefix, Indent: e.indent}); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

// Marshal returns the compact XML form of d.
func Marshal(d *Definitions) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent is like Marshal but indents the output.
func MarshalIndent(d *Definitions, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.Indent(prefix, indent)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Node converts d into an XML tree. Schemas of the types section are copied.
func (d *Definitions) Node() (*xmlnode.Node, error) {
	if d == nil {
		return nil, fmt.Errorf("nil definitions")
	}
	wsdlPrefix, ok := d.Prefix(Namespace)
	if !ok {
		return nil, fmt.Errorf("no prefix bound to %s", Namespace)
	}
	b := &treeBuilder{defs: d, wsdl: wsdlPrefix}

	root := b.wsdlElement("definitions")
	for _, ns := range d.Namespaces {
		root.DeclareNamespace(ns.Prefix, ns.URI)
	}
	if d.Name != "" {
		root.SetAttr(xmlnode.Name{Local: "name"}, d.Name)
	}
	if d.TargetNamespace != "" {
		root.SetAttr(xmlnode.Name{Local: "targetNamespace"}, d.TargetNamespace)
	}

	for _, imp := range d.Imports {
		el := b.wsdlElement("import")
		el.SetAttr(xmlnode.Name{Local: "namespace"}, imp.Namespace)
		el.SetAttr(xmlnode.Name{Local: "location"}, imp.Location)
		root.AppendChild(el)
	}
	if d.Types != nil {
		types := b.wsdlElement("types")
		for _, schema := range d.Types.Schemas {
			types.AppendChild(schema.Clone())
		}
		root.AppendChild(types)
	}
	for _, m := range d.Messages {
		root.AppendChild(b.message(m))
	}
	for _, pt := range d.PortTypes {
		root.AppendChild(b.portType(pt))
	}
	for _, binding := range d.Bindings {
		root.AppendChild(b.binding(binding))
	}
	for _, svc := range d.Services {
		root.AppendChild(b.service(svc))
	}
	if b.err != nil {
		return nil, b.err
	}
	return root, nil
}

type treeBuilder struct {
	defs *Definitions
	err  error
	wsdl string
	soap string
}

func (b *treeBuilder) wsdlElement(local string) *xmlnode.Node {
	return xmlnode.NewElement(Namespace, b.wsdl, local)
}

func (b *treeBuilder) soapElement(local string) *xmlnode.Node {
	if b.soap == "" {
		prefix, ok := b.defs.Prefix(SOAPNamespace)
		if !ok {
			b.fail(fmt.Errorf("no prefix bound to %s", SOAPNamespace))
		}
		b.soap = prefix
	}
	return xmlnode.NewElement(SOAPNamespace, b.soap, local)
}

func (b *treeBuilder) qname(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	prefix, ok := b.defs.Prefix(name.Space)
	if !ok {
		b.fail(fmt.Errorf("no prefix bound to %s for %s", name.Space, name.Local))
		return name.Local
	}
	if prefix == "" {
		return name.Local
	}
	return prefix + ":" + name.Local
}

func (b *treeBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func setName(el *xmlnode.Node, name string) {
	if name != "" {
		el.SetAttr(xmlnode.Name{Local: "name"}, name)
	}
}

func (b *treeBuilder) message(m *Message) *xmlnode.Node {
	el := b.wsdlElement("message")
	setName(el, m.Name)
	for _, p := range m.Parts {
		part := b.wsdlElement("part")
		part.SetAttr(xmlnode.Name{Local: "element"}, b.qname(p.Element))
		setName(part, p.Name)
		el.AppendChild(part)
	}
	return el
}

func (b *treeBuilder) operationIO(local string, ref IO) *xmlnode.Node {
	el := b.wsdlElement(local)
	el.SetAttr(xmlnode.Name{Local: "message"}, b.qname(ref.Message))
	setName(el, ref.Name)
	return el
}

func (b *treeBuilder) portType(pt *PortType) *xmlnode.Node {
	el := b.wsdlElement("portType")
	setName(el, pt.Name)
	for _, op := range pt.Operations {
		opEl := b.wsdlElement("operation")
		setName(opEl, op.Name)
		if op.Input != nil {
			opEl.AppendChild(b.operationIO("input", *op.Input))
		}
		if op.Output != nil {
			opEl.AppendChild(b.operationIO("output", *op.Output))
		}
		for _, f := range op.Faults {
			opEl.AppendChild(b.operationIO("fault", f))
		}
		el.AppendChild(opEl)
	}
	return el
}

func (b *treeBuilder) bindingIO(local string, ref *BindingIO) *xmlnode.Node {
	el := b.wsdlElement(local)
	setName(el, ref.Name)
	if ref.Body != nil {
		body := b.soapElement("body")
		body.SetAttr(xmlnode.Name{Local: "use"}, ref.Body.Use)
		el.AppendChild(body)
	}
	return el
}

func (b *treeBuilder) binding(binding *Binding) *xmlnode.Node {
	el := b.wsdlElement("binding")
	setName(el, binding.Name)
	el.SetAttr(xmlnode.Name{Local: "type"}, b.qname(binding.Type))
	if binding.SOAP != nil {
		sb := b.soapElement("binding")
		sb.SetAttr(xmlnode.Name{Local: "style"}, binding.SOAP.Style)
		sb.SetAttr(xmlnode.Name{Local: "transport"}, binding.SOAP.Transport)
		el.AppendChild(sb)
	}
	for _, op := range binding.Operations {
		opEl := b.wsdlElement("operation")
		setName(opEl, op.Name)
		if op.SOAP != nil {
			so := b.soapElement("operation")
			so.SetAttr(xmlnode.Name{Local: "soapAction"}, op.SOAP.SOAPAction)
			opEl.AppendChild(so)
		}
		if op.Input != nil {
			opEl.AppendChild(b.bindingIO("input", op.Input))
		}
		if op.Output != nil {
			opEl.AppendChild(b.bindingIO("output", op.Output))
		}
		for _, f := range op.Faults {
			faultEl := b.wsdlElement("fault")
			setName(faultEl, f.Name)
			if f.Fault != nil {
				sf := b.soapElement("fault")
				setName(sf, f.Fault.Name)
				sf.SetAttr(xmlnode.Name{Local: "use"}, f.Fault.Use)
				faultEl.AppendChild(sf)
			}
			opEl.AppendChild(faultEl)
		}
		el.AppendChild(opEl)
	}
	return el
}

func (b *treeBuilder) service(svc *Service) *xmlnode.Node {
	el := b.wsdlElement("service")
	setName(el, svc.Name)
	for _, p := range svc.Ports {
		port := b.wsdlElement("port")
		port.SetAttr(xmlnode.Name{Local: "binding"}, b.qname(p.Binding))
		setName(port, p.Name)
		if p.Address != nil {
			addr := b.soapElement("address")
			addr.SetAttr(xmlnode.Name{Local: "location"}, p.Address.Location)
			port.AppendChild(addr)
		}
		el.AppendChild(port)
	}
	return el
}
