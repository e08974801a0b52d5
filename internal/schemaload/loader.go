// Package schemaload reads XSD documents and, on request, follows their
// include and import directives so the result can be embedded in a WSDL
// types section.
package schemaload

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	wsdlerrors "github.com/jacoelho/wsdlgen/errors"
	"github.com/jacoelho/wsdlgen/pkg/xmlnode"
)

// XSDNamespace is the XML Schema namespace.
const XSDNamespace = "http://www.w3.org/2001/XMLSchema"

// Schema is a parsed schema document.
type Schema struct {
	Root            *xmlnode.Node
	SystemID        string
	TargetNamespace string
}

// Set is a root schema together with the schemas it imports, in discovery order.
type Set struct {
	Root     *Schema
	Imported []*Schema
}

// Schemas returns the root schema followed by the imported ones.
func (s *Set) Schemas() []*Schema {
	if s == nil || s.Root == nil {
		return nil
	}
	return append([]*Schema{s.Root}, s.Imported...)
}

// Config configures a Loader.
type Config struct {
	Resolver       Resolver
	Logger         *zap.Logger
	FollowIncludes bool
	FollowImports  bool
}

// Loader parses schema documents through a Resolver.
type Loader struct {
	resolver Resolver
	logger   *zap.Logger
	config   Config
}

// NewLoader creates a loader.
func NewLoader(cfg Config) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{config: cfg, resolver: cfg.Resolver, logger: logger}
}

// Load parses the root schema and expands it according to the configuration.
func (l *Loader) Load(systemID string) (*Set, error) {
	root, err := l.LoadRoot(systemID)
	if err != nil {
		return nil, err
	}
	return l.Expand(root)
}

// LoadRoot parses the root schema document without following directives.
func (l *Loader) LoadRoot(location string) (*Schema, error) {
	doc, systemID, err := l.resolve(ResolveRequest{SchemaLocation: location, Kind: ResolveRoot})
	if err != nil {
		e := wsdlerrors.Wrap(wsdlerrors.ErrSchemaNotFound, err, "schema not found")
		e.Location = location
		return nil, e
	}
	return parseSchemaDocument(doc, systemID)
}

func (l *Loader) resolve(req ResolveRequest) (io.ReadCloser, string, error) {
	if l.resolver == nil {
		return nil, "", fmt.Errorf("no resolver configured")
	}
	fields := []zap.Field{
		zap.Stringer("kind", req.Kind),
		zap.String("location", req.SchemaLocation),
		zap.String("base", req.BaseSystemID),
	}
	if req.Kind == ResolveImport {
		fields = append(fields, zap.String("namespace", req.Namespace))
	}
	l.logger.Debug("resolve schema", fields...)
	return l.resolver.Resolve(req)
}

func parseSchemaDocument(doc io.ReadCloser, systemID string) (schema *Schema, err error) {
	if doc == nil {
		return nil, fmt.Errorf("nil schema reader")
	}
	defer func() {
		if closeErr := doc.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", systemID, closeErr)
		}
	}()

	root, err := xmlnode.Parse(doc)
	if err != nil {
		e := wsdlerrors.Wrap(wsdlerrors.ErrSchemaParse, err, "schema is not well-formed")
		e.Location = systemID
		return nil, e
	}
	if !root.Is(XSDNamespace, "schema") {
		e := wsdlerrors.Newf(wsdlerrors.ErrSchemaInvalid, "root element {%s}%s is not xsd:schema",
			root.Name.Space, root.Name.Local)
		e.Location = systemID
		return nil, e
	}
	return &Schema{
		Root:            root,
		SystemID:        systemID,
		TargetNamespace: root.AttrValue("", "targetNamespace"),
	}, nil
}

// expansion tracks state shared by one Expand call.
type expansion struct {
	set    *Set
	loaded map[string]*Schema
	// origin records the system ID an import directive was declared in when
	// it was moved out of an included document.
	origin map[*xmlnode.Node]string
}

// Expand follows include and import directives of root in place.
func (l *Loader) Expand(root *Schema) (*Set, error) {
	set := &Set{Root: root}
	st := &expansion{
		set:    set,
		loaded: map[string]*Schema{root.SystemID: root},
		origin: make(map[*xmlnode.Node]string),
	}
	if l.config.FollowIncludes {
		if err := l.expandIncludes(root, st); err != nil {
			return nil, err
		}
	}
	if l.config.FollowImports {
		if err := l.followImports(root, st); err != nil {
			return nil, err
		}
	}
	return set, nil
}
