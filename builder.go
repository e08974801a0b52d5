package wsdlgen

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	wsdlerrors "github.com/jacoelho/wsdlgen/errors"
	"github.com/jacoelho/wsdlgen/internal/schemaload"
	"github.com/jacoelho/wsdlgen/wsdl"
)

type phase uint8

const (
	phaseNone phase = iota
	phaseDefinition
	phaseImports
	phaseTypes
	phaseMessages
	phasePortTypes
	phaseBindings
	phaseServices
)

func (p phase) String() string {
	switch p {
	case phaseNone:
		return "none"
	case phaseDefinition:
		return "build definition"
	case phaseImports:
		return "build imports"
	case phaseTypes:
		return "build types"
	case phaseMessages:
		return "build messages"
	case phasePortTypes:
		return "build port types"
	case phaseBindings:
		return "build bindings"
	case phaseServices:
		return "build services"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Builder derives a WSDL definition from a schema in seven ordered phases.
// A Builder is single-use and not safe for concurrent use.
type Builder struct {
	opts   resolvedBuildOptions
	logger *zap.Logger
	loader *schemaload.Loader

	defs    *wsdl.Definitions
	root    *schemaload.Schema
	schemas *schemaload.Set

	// schemaImports is non-empty when the types section imports the schema
	// instead of embedding it.
	schemaImports []wsdl.Import
	messages      []classifiedMessage
	portType      *wsdl.PortType
	binding       *wsdl.Binding

	done   phase
	failed error
}

// NewBuilder validates opts and returns a builder ready for BuildDefinition.
func NewBuilder(opts BuildOptions) (*Builder, error) {
	resolved, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	logger := resolved.logger.With(zap.String("port_type", resolved.portTypeName))
	if resolved.schemaLocation != "" && resolved.followIncludeImport {
		logger.Warn("schema location is set; followed includes and imports only feed messages",
			zap.String("schema_location", resolved.schemaLocation))
	}
	loader := schemaload.NewLoader(schemaload.Config{
		Resolver:       schemaload.NewFSResolver(resolved.schema.FS()),
		Logger:         logger,
		FollowIncludes: resolved.followIncludeImport,
		FollowImports:  resolved.followIncludeImport,
	})
	return &Builder{opts: resolved, logger: logger, loader: loader}, nil
}

// Build runs every phase in order, checking ctx between phases.
func (b *Builder) Build(ctx context.Context) error {
	steps := []func() error{
		b.BuildDefinition,
		b.BuildImports,
		b.BuildTypes,
		b.BuildMessages,
		b.BuildPortTypes,
		b.BuildBindings,
		b.BuildServices,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("build %s: %w", b.opts.schema.Name(), err)
		}
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// Definition returns the built definition once every phase has run.
func (b *Builder) Definition() (*Definition, error) {
	if b.done != phaseServices {
		return nil, wsdlerrors.Newf(wsdlerrors.ErrPhaseOrder,
			"definition is incomplete: last completed phase is %s", b.done)
	}
	return &Definition{defs: b.defs}, nil
}

// run executes fn as phase p when p directly follows the last completed phase.
func (b *Builder) run(p phase, fn func() error) error {
	if b.failed != nil {
		e := wsdlerrors.Wrap(wsdlerrors.ErrPhaseOrder, b.failed, "builder failed in an earlier phase")
		e.Phase = p.String()
		return e
	}
	if b.done != p-1 {
		var e *wsdlerrors.Error
		if b.done >= p {
			e = wsdlerrors.New(wsdlerrors.ErrPhaseOrder, "phase already ran")
		} else {
			e = wsdlerrors.Newf(wsdlerrors.ErrPhaseOrder, "phase requires %s first", p-1)
		}
		e.Phase = p.String()
		return e
	}
	if err := fn(); err != nil {
		b.failed = err
		return fmt.Errorf("%s: %w", p, err)
	}
	b.done = p
	b.logger.Debug("phase complete", zap.Stringer("phase", p))
	return nil
}
