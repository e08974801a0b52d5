package schemaload

import (
	"go.uber.org/zap"

	wsdlerrors "github.com/jacoelho/wsdlgen/errors"
)

func (l *Loader) followImports(schema *Schema, st *expansion) error {
	for _, imp := range schema.Root.ChildElements(XSDNamespace, "import") {
		location := imp.AttrValue("", "schemaLocation")
		if location == "" {
			continue
		}
		namespace := imp.AttrValue("", "namespace")
		base := schema.SystemID
		if origin, ok := st.origin[imp]; ok {
			base = origin
		}

		doc, systemID, err := l.resolve(ResolveRequest{
			BaseSystemID:   base,
			SchemaLocation: location,
			Namespace:      namespace,
			Kind:           ResolveImport,
		})
		if err != nil {
			e := wsdlerrors.Wrap(wsdlerrors.ErrImportUnresolved, err, "load imported schema "+location)
			e.Location = base
			return e
		}
		imp.RemoveAttr("", "schemaLocation")

		if _, ok := st.loaded[systemID]; ok {
			if closeErr := doc.Close(); closeErr != nil {
				l.logger.Warn("close imported schema", zap.String("systemID", systemID), zap.Error(closeErr))
			}
			continue
		}

		imported, err := parseSchemaDocument(doc, systemID)
		if err != nil {
			return err
		}
		if imported.TargetNamespace != namespace {
			expected := namespace
			if expected == "" {
				expected = "no namespace"
			}
			e := wsdlerrors.Newf(wsdlerrors.ErrNamespaceMismatch,
				"imported schema %s namespace mismatch: expected %s, got %s",
				location, expected, imported.TargetNamespace)
			e.Location = base
			return e
		}
		st.loaded[systemID] = imported
		st.set.Imported = append(st.set.Imported, imported)
		l.logger.Debug("inlined imported schema",
			zap.String("systemID", systemID), zap.String("namespace", namespace))

		if l.config.FollowIncludes {
			if err := l.expandIncludes(imported, st); err != nil {
				return err
			}
		}
		if err := l.followImports(imported, st); err != nil {
			return err
		}
	}
	return nil
}
