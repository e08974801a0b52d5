// Package wsdl models a WSDL 1.1 description with SOAP 1.1 extensions and
// writes it as XML.
package wsdl

import (
	"encoding/xml"

	"github.com/jacoelho/wsdlgen/pkg/xmlnode"
)

const (
	// Namespace is the WSDL 1.1 namespace.
	Namespace = "http://schemas.xmlsoap.org/wsdl/"
	// SOAPNamespace is the WSDL 1.1 SOAP 1.1 binding namespace.
	SOAPNamespace = "http://schemas.xmlsoap.org/wsdl/soap/"
	// SOAPHTTPTransport is the SOAP over HTTP transport URI.
	SOAPHTTPTransport = "http://schemas.xmlsoap.org/soap/http"
)

// NamespaceDecl binds a prefix on the definitions element.
type NamespaceDecl struct {
	Prefix string
	URI    string
}

// Definitions is the root of a WSDL document.
type Definitions struct {
	Types           *Types
	Name            string
	TargetNamespace string
	Namespaces      []NamespaceDecl
	Imports         []Import
	Messages        []*Message
	PortTypes       []*PortType
	Bindings        []*Binding
	Services        []*Service
}

// NewDefinitions creates an empty definition for targetNamespace.
func NewDefinitions(targetNamespace string) *Definitions {
	return &Definitions{TargetNamespace: targetNamespace}
}

// AddNamespace binds prefix to uri. An existing binding for prefix is replaced.
func (d *Definitions) AddNamespace(prefix, uri string) {
	for i, ns := range d.Namespaces {
		if ns.Prefix == prefix {
			d.Namespaces[i].URI = uri
			return
		}
	}
	d.Namespaces = append(d.Namespaces, NamespaceDecl{Prefix: prefix, URI: uri})
}

// Prefix returns the first prefix bound to uri.
func (d *Definitions) Prefix(uri string) (string, bool) {
	for _, ns := range d.Namespaces {
		if ns.URI == uri {
			return ns.Prefix, true
		}
	}
	return "", false
}

// Message returns the message with the given local name.
func (d *Definitions) Message(name string) *Message {
	for _, m := range d.Messages {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// PortType returns the port type with the given local name.
func (d *Definitions) PortType(name string) *PortType {
	for _, pt := range d.PortTypes {
		if pt.Name == name {
			return pt
		}
	}
	return nil
}

// Binding returns the binding with the given local name.
func (d *Definitions) Binding(name string) *Binding {
	for _, b := range d.Bindings {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Import is a wsdl:import.
type Import struct {
	Namespace string
	Location  string
}

// Types holds the schemas of the types section.
type Types struct {
	Schemas []*xmlnode.Node
}

// Message is a wsdl:message.
type Message struct {
	Name  string
	Parts []Part
}

// Part is a document/literal message part referencing a global element.
type Part struct {
	Name    string
	Element xml.Name
}

// PortType is a wsdl:portType.
type PortType struct {
	Name       string
	Operations []*Operation
}

// Operation is a port type operation.
type Operation struct {
	Input  *IO
	Output *IO
	Name   string
	Faults []IO
}

// IO names an operation input, output or fault and the message it carries.
type IO struct {
	Message xml.Name
	Name    string
}

// Binding is a wsdl:binding with a SOAP 1.1 binding extension.
type Binding struct {
	SOAP       *SOAPBinding
	Name       string
	Type       xml.Name
	Operations []*BindingOperation
}

// SOAPBinding is soap:binding.
type SOAPBinding struct {
	Style     string
	Transport string
}

// BindingOperation is a wsdl:operation inside a binding.
type BindingOperation struct {
	SOAP   *SOAPOperation
	Input  *BindingIO
	Output *BindingIO
	Name   string
	Faults []BindingFault
}

// SOAPOperation is soap:operation.
type SOAPOperation struct {
	SOAPAction string
}

// BindingIO is a binding input or output with its soap:body.
type BindingIO struct {
	Body *SOAPBody
	Name string
}

// SOAPBody is soap:body.
type SOAPBody struct {
	Use string
}

// BindingFault is a binding fault with its soap:fault.
type BindingFault struct {
	Fault *SOAPFault
	Name  string
}

// SOAPFault is soap:fault.
type SOAPFault struct {
	Name string
	Use  string
}

// Service is a wsdl:service.
type Service struct {
	Name  string
	Ports []*Port
}

// Port is a wsdl:port with a soap:address.
type Port struct {
	Address *SOAPAddress
	Name    string
	Binding xml.Name
}

// SOAPAddress is soap:address.
type SOAPAddress struct {
	Location string
}
