package schemaload

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	wsdlerrors "github.com/jacoelho/wsdlgen/errors"
	"github.com/jacoelho/wsdlgen/pkg/xmlnode"
)

func (l *Loader) expandIncludes(schema *Schema, st *expansion) error {
	included := map[string]bool{schema.SystemID: true}
	children, changed, err := l.inlineIncludes(schema.Root, schema.Root, schema.SystemID, schema.TargetNamespace, included, st)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	isImport := func(n *xmlnode.Node, _ int) bool { return n.Is(XSDNamespace, "import") }
	imports := lo.Filter(children, isImport)
	rest := lo.Reject(children, isImport)
	schema.Root.SetChildren(append(imports, rest...))
	return nil
}

// inlineIncludes returns the children of parent with every xsd:include
// replaced by the top-level content of the included document. dest is the
// schema element the content will end up in.
func (l *Loader) inlineIncludes(parent, dest *xmlnode.Node, baseSystemID, targetNamespace string,
	included map[string]bool, st *expansion,
) ([]*xmlnode.Node, bool, error) {
	var (
		out     []*xmlnode.Node
		changed bool
	)
	for _, child := range parent.Children {
		if !child.Is(XSDNamespace, "include") {
			out = append(out, child)
			continue
		}
		changed = true
		location := child.AttrValue("", "schemaLocation")
		doc, systemID, err := l.resolve(ResolveRequest{
			BaseSystemID:   baseSystemID,
			SchemaLocation: location,
			Kind:           ResolveInclude,
		})
		if err != nil {
			e := wsdlerrors.Wrap(wsdlerrors.ErrIncludeUnresolved, err, "load included schema "+location)
			e.Location = baseSystemID
			return nil, false, e
		}
		if included[systemID] {
			if closeErr := doc.Close(); closeErr != nil {
				l.logger.Warn("close included schema", zap.String("systemID", systemID), zap.Error(closeErr))
			}
			l.logger.Debug("schema already included", zap.String("systemID", systemID))
			continue
		}
		included[systemID] = true

		inc, err := parseSchemaDocument(doc, systemID)
		if err != nil {
			return nil, false, err
		}
		switch {
		case inc.TargetNamespace == targetNamespace:
		case inc.TargetNamespace == "":
			l.logger.Debug("chameleon include", zap.String("systemID", systemID), zap.String("namespace", targetNamespace))
		default:
			e := wsdlerrors.Newf(wsdlerrors.ErrNamespaceMismatch,
				"included schema %s namespace mismatch: expected %s, got %s",
				location, targetNamespace, inc.TargetNamespace)
			e.Location = baseSystemID
			return nil, false, e
		}

		chameleon := inc.TargetNamespace == "" && targetNamespace != ""
		nested, _, err := l.inlineIncludes(inc.Root, dest, systemID, targetNamespace, included, st)
		if err != nil {
			return nil, false, err
		}
		for _, n := range nested {
			if n.Kind == xmlnode.ElementNode && n.Parent() == inc.Root {
				carryNamespaces(n, inc.Root, dest)
				if chameleon {
					adoptNamespace(n, dest, targetNamespace)
				}
			}
			if n.Is(XSDNamespace, "import") {
				if _, ok := st.origin[n]; !ok {
					st.origin[n] = systemID
				}
			}
			out = append(out, n)
		}
		l.logger.Debug("inlined included schema",
			zap.String("systemID", systemID), zap.Int("components", len(nested)))
	}
	return out, changed, nil
}

// carryNamespaces declares on n the bindings of from that dest does not
// already provide, so QName values inside n keep resolving after the move.
func carryNamespaces(n, from, dest *xmlnode.Node) {
	own := n.Namespaces()
	for prefix, uri := range from.Namespaces() {
		if _, ok := own[prefix]; ok {
			continue
		}
		if got, ok := dest.LookupNamespace(prefix); ok && got == uri {
			continue
		}
		n.DeclareNamespace(prefix, uri)
	}
}

// chameleonQNameAttrs are the unqualified XSD attributes holding a QName or a
// list of QNames.
var chameleonQNameAttrs = map[string]bool{
	"type":              true,
	"base":              true,
	"ref":               true,
	"itemType":          true,
	"memberTypes":       true,
	"substitutionGroup": true,
	"refer":             true,
}

// adoptNamespace rewrites the no-namespace QName references inside n, a top
// level component of a chameleon include, to targetNamespace. n must still be
// attached to the included document so its original scope is visible.
func adoptNamespace(n, dest *xmlnode.Node, targetNamespace string) {
	prefix := adoptedPrefix(n, dest, targetNamespace)
	declared := false
	var walk func(el *xmlnode.Node)
	walk = func(el *xmlnode.Node) {
		for i := range el.Attrs {
			a := &el.Attrs[i]
			if a.Name.Space != "" || a.Name.Prefix != "" || !chameleonQNameAttrs[a.Name.Local] {
				continue
			}
			value, changed := qualifyNoNamespace(el, a.Value, prefix)
			if !changed {
				continue
			}
			a.Value = value
			if !declared {
				n.DeclareNamespace(prefix, targetNamespace)
				declared = true
			}
			if uri, _ := el.LookupNamespace(prefix); uri != targetNamespace {
				el.DeclareNamespace(prefix, targetNamespace)
			}
		}
		for _, c := range el.Elements() {
			walk(c)
		}
	}
	walk(n)
}

// qualifyNoNamespace prefixes every token of value that resolves to no
// namespace in the scope of el.
func qualifyNoNamespace(el *xmlnode.Node, value, prefix string) (string, bool) {
	if ns, _ := el.LookupNamespace(""); ns != "" {
		return value, false
	}
	tokens := strings.Fields(value)
	changed := false
	for i, tok := range tokens {
		if strings.Contains(tok, ":") {
			continue
		}
		tokens[i] = prefix + ":" + tok
		changed = true
	}
	if !changed {
		return value, false
	}
	return strings.Join(tokens, " "), true
}

// adoptedPrefix picks a prefix for targetNamespace that rebinds nothing
// visible to n or dest. Prefixes dest already binds to targetNamespace win.
func adoptedPrefix(n, dest *xmlnode.Node, targetNamespace string) string {
	usable := func(prefix string) bool {
		for _, scope := range []*xmlnode.Node{n, dest} {
			if uri, bound := scope.LookupNamespace(prefix); bound && uri != targetNamespace {
				return false
			}
		}
		return true
	}
	scope := dest.InScopeNamespaces()
	prefixes := lo.Keys(scope)
	slices.Sort(prefixes)
	for _, prefix := range prefixes {
		if prefix != "" && scope[prefix] == targetNamespace && usable(prefix) {
			return prefix
		}
	}
	for i := 0; ; i++ {
		prefix := "tns"
		if i > 0 {
			prefix = fmt.Sprintf("tns%d", i)
		}
		if usable(prefix) {
			return prefix
		}
	}
}
