package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jacoelho/wsdlgen"
	"github.com/jacoelho/wsdlgen/pkg/xmlequal"
)

var errDifferent = errors.New("generated WSDL differs from expected")

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr, afero.NewOsFs())
}

func runWithArgs(args []string, stdout, stderr io.Writer, afs afero.Fs) int {
	cmd := newRootCommand(stdout, stderr, afs)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errDifferent):
		return 1
	case errors.As(err, new(*usageError)):
		_ = writef(stderr, "error: %v\n", err)
		return 2
	default:
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}
}

type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

type app struct {
	stdout     io.Writer
	stderr     io.Writer
	afs        afero.Fs
	configPath string
	logLevel   string
	build      buildFlags
}

func newRootCommand(stdout, stderr io.Writer, afs afero.Fs) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, afs: afs}
	root := &cobra.Command{
		Use:           "xsd2wsdl",
		Short:         "Generate SOAP 1.1 WSDL from XSD",
		Long:          "Derive a WSDL 1.1 definition with a document/literal SOAP binding from an XML Schema.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	a.build.register(root.PersistentFlags())

	root.AddCommand(a.generateCommand(), a.verifyCommand())
	return root
}

func (a *app) generateCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the generated WSDL",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := a.generate(cmd)
			if err != nil {
				return err
			}
			if output == "" {
				_, err := def.WriteTo(a.stdout)
				return err
			}
			out, err := def.Bytes()
			if err != nil {
				return err
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := a.afs.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create %s: %w", dir, err)
				}
			}
			if err := afero.WriteFile(a.afs, output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func (a *app) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <expected.wsdl>",
		Short: "Compare the generated WSDL with an expected document",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{msg: "exactly one expected WSDL argument is required"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.generate(cmd)
			if err != nil {
				return err
			}
			got, err := def.Bytes()
			if err != nil {
				return err
			}
			want, err := afero.ReadFile(a.afs, args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			diff, err := xmlequal.Diff(want, got)
			if err != nil {
				return fmt.Errorf("compare with %s: %w", args[0], err)
			}
			if diff != "" {
				if err := writef(a.stderr, "%s differs (-want +got):\n%s", args[0], diff); err != nil {
					return err
				}
				return errDifferent
			}
			return writef(a.stdout, "%s matches\n", args[0])
		},
	}
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &usageError{msg: fmt.Sprintf("unexpected arguments %q", args)}
	}
	return nil
}

// generate resolves the layered configuration and runs the builder.
func (a *app) generate(cmd *cobra.Command) (*wsdlgen.Definition, error) {
	cfg := defaultConfig()
	if a.configPath != "" {
		if err := loadConfigFile(a.afs, a.configPath, &cfg); err != nil {
			return nil, err
		}
	}
	if err := loadEnv(&cfg); err != nil {
		return nil, err
	}
	a.build.apply(cmd.Flags(), &cfg)
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	logger, err := newLogger(cfg.LogLevel, a.stderr)
	if err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	defer func() { _ = logger.Sync() }()

	opts, err := cfg.buildOptions(a.afs)
	if err != nil {
		return nil, err
	}
	builder, err := wsdlgen.NewBuilder(opts.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := builder.Build(cmd.Context()); err != nil {
		return nil, err
	}
	logger.Info("definition generated", zap.String("schema", cfg.Schema))
	return builder.Definition()
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
