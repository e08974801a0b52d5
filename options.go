package wsdlgen

import (
	"fmt"
	"net/url"
	"unicode"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	wsdlerrors "github.com/jacoelho/wsdlgen/errors"
)

const (
	defaultRequestSuffix  = "Request"
	defaultResponseSuffix = "Response"
	defaultFaultSuffix    = "Fault"
	defaultBindingSuffix  = "Binding"
	defaultServiceSuffix  = "Service"
	defaultPortSuffix     = "Port"
)

type stringOption struct {
	value string
	set   bool
}

func (o stringOption) resolved(def string) string {
	if !o.set {
		return def
	}
	return o.value
}

// BuildOptions configures a Builder. Values are immutable; every With method
// returns a modified copy.
type BuildOptions struct {
	logger              *zap.Logger
	schema              Resource
	schemaLocation      string
	portTypeName        string
	targetNamespace     string
	locationURI         string
	requestSuffix       stringOption
	responseSuffix      stringOption
	faultSuffix         stringOption
	bindingSuffix       stringOption
	serviceSuffix       stringOption
	portSuffix          stringOption
	followIncludeImport bool
}

type resolvedBuildOptions struct {
	logger              *zap.Logger
	schema              Resource
	schemaLocation      string
	portTypeName        string
	targetNamespace     string
	locationURI         string
	requestSuffix       string
	responseSuffix      string
	faultSuffix         string
	bindingSuffix       string
	serviceSuffix       string
	portSuffix          string
	followIncludeImport bool
}

// NewBuildOptions returns options with default suffixes and nothing else set.
func NewBuildOptions() BuildOptions {
	return BuildOptions{}
}

// WithSchema sets the schema the definition is derived from.
func (o BuildOptions) WithSchema(schema Resource) BuildOptions {
	o.schema = schema
	return o
}

// WithSchemaLocation makes the types section import the schema from location
// instead of embedding it.
func (o BuildOptions) WithSchemaLocation(location string) BuildOptions {
	o.schemaLocation = location
	return o
}

// WithPortTypeName sets the port type name; binding, service and port names derive from it.
func (o BuildOptions) WithPortTypeName(name string) BuildOptions {
	o.portTypeName = name
	return o
}

// WithTargetNamespace sets the target namespace of the definition.
func (o BuildOptions) WithTargetNamespace(namespace string) BuildOptions {
	o.targetNamespace = namespace
	return o
}

// WithLocationURI sets the soap:address location of the service port.
func (o BuildOptions) WithLocationURI(uri string) BuildOptions {
	o.locationURI = uri
	return o
}

// WithFollowIncludeImport controls whether xsd:include and xsd:import
// directives are resolved and their schemas inlined.
func (o BuildOptions) WithFollowIncludeImport(follow bool) BuildOptions {
	o.followIncludeImport = follow
	return o
}

// WithRequestSuffix sets the element name suffix of request messages (default "Request").
func (o BuildOptions) WithRequestSuffix(suffix string) BuildOptions {
	o.requestSuffix = stringOption{value: suffix, set: true}
	return o
}

// WithResponseSuffix sets the element name suffix of response messages (default "Response").
func (o BuildOptions) WithResponseSuffix(suffix string) BuildOptions {
	o.responseSuffix = stringOption{value: suffix, set: true}
	return o
}

// WithFaultSuffix sets the element name suffix of fault messages (default "Fault").
func (o BuildOptions) WithFaultSuffix(suffix string) BuildOptions {
	o.faultSuffix = stringOption{value: suffix, set: true}
	return o
}

// WithBindingSuffix sets the suffix appended to the port type name for the binding (default "Binding").
func (o BuildOptions) WithBindingSuffix(suffix string) BuildOptions {
	o.bindingSuffix = stringOption{value: suffix, set: true}
	return o
}

// WithServiceSuffix sets the suffix appended to the port type name for the service (default "Service").
func (o BuildOptions) WithServiceSuffix(suffix string) BuildOptions {
	o.serviceSuffix = stringOption{value: suffix, set: true}
	return o
}

// WithPortSuffix sets the suffix appended to the port type name for the port (default "Port").
func (o BuildOptions) WithPortSuffix(suffix string) BuildOptions {
	o.portSuffix = stringOption{value: suffix, set: true}
	return o
}

// WithLogger sets the logger used by the builder (default: no logging).
func (o BuildOptions) WithLogger(logger *zap.Logger) BuildOptions {
	o.logger = logger
	return o
}

// Validate checks that required options are present and consistent. All
// problems are reported together as an ErrInvalidOption error.
func (o BuildOptions) Validate() error {
	_, err := o.withDefaults()
	return err
}

func (o BuildOptions) withDefaults() (resolvedBuildOptions, error) {
	r := resolvedBuildOptions{
		logger:              o.logger,
		schema:              o.schema,
		schemaLocation:      o.schemaLocation,
		portTypeName:        o.portTypeName,
		targetNamespace:     o.targetNamespace,
		locationURI:         o.locationURI,
		requestSuffix:       o.requestSuffix.resolved(defaultRequestSuffix),
		responseSuffix:      o.responseSuffix.resolved(defaultResponseSuffix),
		faultSuffix:         o.faultSuffix.resolved(defaultFaultSuffix),
		bindingSuffix:       o.bindingSuffix.resolved(defaultBindingSuffix),
		serviceSuffix:       o.serviceSuffix.resolved(defaultServiceSuffix),
		portSuffix:          o.portSuffix.resolved(defaultPortSuffix),
		followIncludeImport: o.followIncludeImport,
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	var result *multierror.Error
	if r.schema.IsZero() {
		result = multierror.Append(result, fmt.Errorf("schema is required"))
	}
	switch {
	case r.portTypeName == "":
		result = multierror.Append(result, fmt.Errorf("port type name is required"))
	case !isNCName(r.portTypeName):
		result = multierror.Append(result, fmt.Errorf("port type name %q is not an NCName", r.portTypeName))
	}
	switch {
	case r.targetNamespace == "":
		result = multierror.Append(result, fmt.Errorf("target namespace is required"))
	case !isAbsoluteURI(r.targetNamespace):
		result = multierror.Append(result, fmt.Errorf("target namespace %q is not an absolute URI", r.targetNamespace))
	}
	switch {
	case r.locationURI == "":
		result = multierror.Append(result, fmt.Errorf("location URI is required"))
	default:
		if _, err := url.Parse(r.locationURI); err != nil {
			result = multierror.Append(result, fmt.Errorf("location URI: %w", err))
		}
	}

	suffixes := []struct {
		name  string
		value string
	}{
		{"request", r.requestSuffix},
		{"response", r.responseSuffix},
		{"fault", r.faultSuffix},
		{"binding", r.bindingSuffix},
		{"service", r.serviceSuffix},
		{"port", r.portSuffix},
	}
	for _, s := range suffixes {
		if s.value == "" {
			result = multierror.Append(result, fmt.Errorf("%s suffix must not be empty", s.name))
		}
	}
	messageSuffixes := suffixes[:3]
	for i := range messageSuffixes {
		for j := i + 1; j < len(messageSuffixes); j++ {
			if messageSuffixes[i].value != "" && messageSuffixes[i].value == messageSuffixes[j].value {
				result = multierror.Append(result, fmt.Errorf("%s and %s suffixes are both %q",
					messageSuffixes[i].name, messageSuffixes[j].name, messageSuffixes[i].value))
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return resolvedBuildOptions{}, wsdlerrors.Wrap(wsdlerrors.ErrInvalidOption, err, "invalid build options")
	}
	return r, nil
}

func isAbsoluteURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

func isNCName(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return s != ""
}
