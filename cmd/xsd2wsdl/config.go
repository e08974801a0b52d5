package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/jacoelho/wsdlgen"
)

const envPrefix = "XSD2WSDL"

// config holds the generation settings. Later sources override earlier ones:
// the YAML file, then XSD2WSDL_* environment variables, then flags.
type config struct {
	Schema              string `yaml:"schema" envconfig:"SCHEMA"`
	SchemaLocation      string `yaml:"schemaLocation" envconfig:"SCHEMA_LOCATION"`
	PortTypeName        string `yaml:"portTypeName" envconfig:"PORT_TYPE_NAME"`
	TargetNamespace     string `yaml:"targetNamespace" envconfig:"TARGET_NAMESPACE"`
	LocationURI         string `yaml:"locationUri" envconfig:"LOCATION_URI"`
	RequestSuffix       string `yaml:"requestSuffix" envconfig:"REQUEST_SUFFIX"`
	ResponseSuffix      string `yaml:"responseSuffix" envconfig:"RESPONSE_SUFFIX"`
	FaultSuffix         string `yaml:"faultSuffix" envconfig:"FAULT_SUFFIX"`
	BindingSuffix       string `yaml:"bindingSuffix" envconfig:"BINDING_SUFFIX"`
	ServiceSuffix       string `yaml:"serviceSuffix" envconfig:"SERVICE_SUFFIX"`
	PortSuffix          string `yaml:"portSuffix" envconfig:"PORT_SUFFIX"`
	LogLevel            string `yaml:"logLevel" envconfig:"LOG_LEVEL"`
	FollowIncludeImport bool   `yaml:"followIncludeImport" envconfig:"FOLLOW_INCLUDE_IMPORT"`
}

func defaultConfig() config {
	return config{LogLevel: "warn"}
}

func loadConfigFile(afs afero.Fs, path string, cfg *config) error {
	data, err := afero.ReadFile(afs, path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *config) error {
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// buildFlags are the flags that override config fields.
type buildFlags struct {
	cfg config
}

func (f *buildFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.cfg.Schema, "schema", "", "path to the XSD schema")
	flags.StringVar(&f.cfg.SchemaLocation, "schema-location", "", "import the schema from this location instead of embedding it")
	flags.StringVar(&f.cfg.PortTypeName, "port-type", "", "port type name")
	flags.StringVar(&f.cfg.TargetNamespace, "target-namespace", "", "target namespace of the definition")
	flags.StringVar(&f.cfg.LocationURI, "location-uri", "", "service port address")
	flags.StringVar(&f.cfg.RequestSuffix, "request-suffix", "", "request element suffix (default Request)")
	flags.StringVar(&f.cfg.ResponseSuffix, "response-suffix", "", "response element suffix (default Response)")
	flags.StringVar(&f.cfg.FaultSuffix, "fault-suffix", "", "fault element suffix (default Fault)")
	flags.StringVar(&f.cfg.BindingSuffix, "binding-suffix", "", "suffix of the binding name (default Binding)")
	flags.StringVar(&f.cfg.ServiceSuffix, "service-suffix", "", "suffix of the service name (default Service)")
	flags.StringVar(&f.cfg.PortSuffix, "port-suffix", "", "suffix of the port name (default Port)")
	flags.BoolVar(&f.cfg.FollowIncludeImport, "follow", false, "resolve and inline xsd:include and xsd:import")
}

// apply copies every flag the user set onto cfg.
func (f *buildFlags) apply(flags *pflag.FlagSet, cfg *config) {
	overrides := map[string]func(){
		"schema":           func() { cfg.Schema = f.cfg.Schema },
		"schema-location":  func() { cfg.SchemaLocation = f.cfg.SchemaLocation },
		"port-type":        func() { cfg.PortTypeName = f.cfg.PortTypeName },
		"target-namespace": func() { cfg.TargetNamespace = f.cfg.TargetNamespace },
		"location-uri":     func() { cfg.LocationURI = f.cfg.LocationURI },
		"request-suffix":   func() { cfg.RequestSuffix = f.cfg.RequestSuffix },
		"response-suffix":  func() { cfg.ResponseSuffix = f.cfg.ResponseSuffix },
		"fault-suffix":     func() { cfg.FaultSuffix = f.cfg.FaultSuffix },
		"binding-suffix":   func() { cfg.BindingSuffix = f.cfg.BindingSuffix },
		"service-suffix":   func() { cfg.ServiceSuffix = f.cfg.ServiceSuffix },
		"port-suffix":      func() { cfg.PortSuffix = f.cfg.PortSuffix },
		"follow":           func() { cfg.FollowIncludeImport = f.cfg.FollowIncludeImport },
	}
	flags.Visit(func(fl *pflag.Flag) {
		if set, ok := overrides[fl.Name]; ok {
			set()
		}
	})
}

// buildOptions turns cfg into builder options, opening the schema through afs.
func (c config) buildOptions(afs afero.Fs) (wsdlgen.BuildOptions, error) {
	opts := wsdlgen.NewBuildOptions().
		WithSchemaLocation(c.SchemaLocation).
		WithPortTypeName(c.PortTypeName).
		WithTargetNamespace(c.TargetNamespace).
		WithLocationURI(c.LocationURI).
		WithFollowIncludeImport(c.FollowIncludeImport)
	if c.RequestSuffix != "" {
		opts = opts.WithRequestSuffix(c.RequestSuffix)
	}
	if c.ResponseSuffix != "" {
		opts = opts.WithResponseSuffix(c.ResponseSuffix)
	}
	if c.FaultSuffix != "" {
		opts = opts.WithFaultSuffix(c.FaultSuffix)
	}
	if c.BindingSuffix != "" {
		opts = opts.WithBindingSuffix(c.BindingSuffix)
	}
	if c.ServiceSuffix != "" {
		opts = opts.WithServiceSuffix(c.ServiceSuffix)
	}
	if c.PortSuffix != "" {
		opts = opts.WithPortSuffix(c.PortSuffix)
	}
	if c.Schema == "" {
		return opts, nil
	}
	schema, err := wsdlgen.OpenPath(afs, c.Schema)
	if err != nil {
		return opts, err
	}
	return opts.WithSchema(schema), nil
}
