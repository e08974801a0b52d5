package wsdlgen

import (
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/jacoelho/wsdlgen/internal/schemaload"
	"github.com/jacoelho/wsdlgen/pkg/xmlnode"
	"github.com/jacoelho/wsdlgen/wsdl"
)

const (
	wsdlPrefix           = "wsdl"
	soapPrefix           = "soap"
	targetPrefix         = "tns"
	schemaPrefix         = "schema"
	schemaImportPrefixes = "schema%d"
	xsdPrefix            = "xsd"
)

// BuildDefinition parses the root schema and creates the definition with its
// target namespace and namespace prefixes.
func (b *Builder) BuildDefinition() error {
	return b.run(phaseDefinition, func() error {
		root, err := b.loader.LoadRoot(b.opts.schema.Name())
		if err != nil {
			return err
		}
		b.root = root

		defs := wsdl.NewDefinitions(b.opts.targetNamespace)
		defs.AddNamespace(wsdlPrefix, wsdl.Namespace)
		defs.AddNamespace(soapPrefix, wsdl.SOAPNamespace)
		if root.TargetNamespace != "" && root.TargetNamespace != b.opts.targetNamespace {
			defs.AddNamespace(schemaPrefix, root.TargetNamespace)
		}
		defs.AddNamespace(targetPrefix, b.opts.targetNamespace)
		b.defs = defs
		return nil
	})
}

// BuildImports records the schema import of import mode and, when enabled,
// follows the include and import directives of the schema.
func (b *Builder) BuildImports() error {
	return b.run(phaseImports, func() error {
		if b.opts.schemaLocation != "" {
			b.schemaImports = append(b.schemaImports, wsdl.Import{
				Namespace: b.root.TargetNamespace,
				Location:  b.opts.schemaLocation,
			})
		}

		set, err := b.loader.Expand(b.root)
		if err != nil {
			return err
		}
		b.schemas = set

		namespaces := lo.Uniq(lo.FilterMap(set.Imported, func(s *schemaload.Schema, _ int) (string, bool) {
			return s.TargetNamespace, s.TargetNamespace != ""
		}))
		n := 0
		for _, ns := range namespaces {
			if _, bound := b.defs.Prefix(ns); bound {
				continue
			}
			n++
			b.defs.AddNamespace(fmt.Sprintf(schemaImportPrefixes, n), ns)
		}
		if len(set.Imported) > 0 {
			b.logger.Debug("imported schemas inlined", zap.Int("count", len(set.Imported)))
		}
		return nil
	})
}

// BuildTypes fills the types section: an importing wrapper schema when a
// schema location is set, the inlined schemas otherwise.
func (b *Builder) BuildTypes() error {
	return b.run(phaseTypes, func() error {
		if len(b.schemaImports) > 0 {
			wrapper := xmlnode.NewElement(schemaload.XSDNamespace, xsdPrefix, "schema")
			wrapper.DeclareNamespace(xsdPrefix, schemaload.XSDNamespace)
			for _, imp := range b.schemaImports {
				el := xmlnode.NewElement(schemaload.XSDNamespace, xsdPrefix, "import")
				if imp.Namespace != "" {
					el.SetAttr(xmlnode.Name{Local: "namespace"}, imp.Namespace)
				}
				el.SetAttr(xmlnode.Name{Local: "schemaLocation"}, imp.Location)
				wrapper.AppendChild(el)
			}
			b.defs.Types = &wsdl.Types{Schemas: []*xmlnode.Node{wrapper}}
			return nil
		}

		b.defs.Types = &wsdl.Types{
			Schemas: lo.Map(b.schemas.Schemas(), func(s *schemaload.Schema, _ int) *xmlnode.Node {
				return s.Root
			}),
		}
		return nil
	})
}
