package wsdlgen

import (
	"encoding/xml"

	"github.com/jacoelho/wsdlgen/wsdl"
)

const (
	documentStyle = "document"
	literalUse    = "literal"
)

// BuildBindings creates the SOAP 1.1 document/literal binding of the port type.
func (b *Builder) BuildBindings() error {
	return b.run(phaseBindings, func() error {
		pt := b.portType
		binding := &wsdl.Binding{
			Name: pt.Name + b.opts.bindingSuffix,
			Type: xml.Name{Space: b.opts.targetNamespace, Local: pt.Name},
			SOAP: &wsdl.SOAPBinding{Style: documentStyle, Transport: wsdl.SOAPHTTPTransport},
		}
		for _, op := range pt.Operations {
			bop := &wsdl.BindingOperation{
				Name: op.Name,
				SOAP: &wsdl.SOAPOperation{},
			}
			if op.Input != nil {
				bop.Input = &wsdl.BindingIO{Name: op.Input.Name, Body: &wsdl.SOAPBody{Use: literalUse}}
			}
			if op.Output != nil {
				bop.Output = &wsdl.BindingIO{Name: op.Output.Name, Body: &wsdl.SOAPBody{Use: literalUse}}
			}
			for _, f := range op.Faults {
				bop.Faults = append(bop.Faults, wsdl.BindingFault{
					Name:  f.Name,
					Fault: &wsdl.SOAPFault{Name: f.Name, Use: literalUse},
				})
			}
			binding.Operations = append(binding.Operations, bop)
		}
		b.defs.Bindings = append(b.defs.Bindings, binding)
		b.binding = binding
		return nil
	})
}

// BuildServices creates the service with a single port addressed at the location URI.
func (b *Builder) BuildServices() error {
	return b.run(phaseServices, func() error {
		name := b.portType.Name
		svc := &wsdl.Service{
			Name: name + b.opts.serviceSuffix,
			Ports: []*wsdl.Port{{
				Name:    name + b.opts.portSuffix,
				Binding: xml.Name{Space: b.opts.targetNamespace, Local: b.binding.Name},
				Address: &wsdl.SOAPAddress{Location: b.opts.locationURI},
			}},
		}
		b.defs.Services = append(b.defs.Services, svc)
		return nil
	})
}
