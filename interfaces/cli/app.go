// Package cli provides the opregistry command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/opregistry"
	"github.com/felixgeelhaar/opregistry/application"
	"github.com/felixgeelhaar/opregistry/infrastructure/logging"
	"github.com/felixgeelhaar/opregistry/infrastructure/observability"
)

// Version information set at build time.
var (
	Version   = opregistry.Version
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App represents the CLI application.
type App struct {
	root      *cobra.Command
	stdout    io.Writer
	stderr    io.Writer
	globals   globalOptions
	telemetry *observability.Provider
}

// globalOptions holds the persistent flags.
type globalOptions struct {
	logLevel     string
	logFormat    string
	trace        string
	otlpEndpoint string
	metrics      bool
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "opregistry",
		Short: "Resolve atomic operation converters and validators",
		Long: `opregistry resolves which converter or validator handles a named atomic
operation for a cloud provider.

Handlers are declared in a manifest. A request names an operation, optionally
pinned to a version with name@version, and optionally a provider. Names are
first looked up verbatim in the flat component namespace; otherwise the
handlers tagged with the provider's capability tag are filtered by declared
name and accepted version.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}

	flags := app.root.PersistentFlags()
	flags.StringVar(&app.globals.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&app.globals.logFormat, "log-format", "console", "Log format (console, json)")
	flags.StringVar(&app.globals.trace, "trace", "", "Export resolution spans (stdout, otlp, noop)")
	flags.StringVar(&app.globals.otlpEndpoint, "otlp-endpoint", "localhost:4317", "OTLP/gRPC endpoint used with --trace otlp")
	flags.BoolVar(&app.globals.metrics, "metrics", false, "Print resolution metrics to stderr on exit")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newParseCmd(),
		app.newResolveCmd(),
		app.newValidateCmd(),
		app.newListCmd(),
		app.newExportSchemaCmd(),
		app.newCatalogCmd(),
		app.newWatchCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := a.root.ExecuteContext(ctx)
	return errors.Join(err, a.teardown(ctx))
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// setup configures logging and telemetry from the persistent flags.
func (a *App) setup() error {
	err := logging.Configure(logging.Config{
		Level:  a.globals.logLevel,
		Format: a.globals.logFormat,
		Output: a.stderr,
	})
	if err != nil {
		return err
	}

	var opts []observability.Option
	opts = append(opts, observability.WithServiceVersion(Version))
	if a.globals.trace != "" {
		exporter, ok := observability.ParseExporterType(a.globals.trace)
		if !ok {
			return fmt.Errorf("unknown --trace exporter %q (want stdout, otlp or noop)", a.globals.trace)
		}
		switch exporter {
		case observability.ExporterStdout:
			opts = append(opts, observability.WithStdoutTracing(a.stderr))
		case observability.ExporterOTLP:
			opts = append(opts,
				observability.WithTracing(observability.ExporterOTLP, a.globals.otlpEndpoint),
				observability.WithTracingInsecure(),
			)
		}
	}
	if a.globals.metrics {
		opts = append(opts, observability.WithMetrics())
	}

	a.telemetry, err = observability.New(opts...)
	return err
}

// teardown prints collected metrics and flushes telemetry.
func (a *App) teardown(ctx context.Context) error {
	if a.telemetry == nil {
		return nil
	}
	defer func() { a.telemetry = nil }()

	var errs []error
	if a.globals.metrics {
		errs = append(errs, a.telemetry.WriteMetrics(ctx, a.stderr))
	}
	errs = append(errs, a.telemetry.Shutdown(context.WithoutCancel(ctx)))
	return errors.Join(errs...)
}

// registryOptions connects a registry to the configured telemetry.
func (a *App) registryOptions() []application.Option {
	if a.telemetry == nil {
		return nil
	}
	return []application.Option{
		application.WithTracerProvider(a.telemetry.TracerProvider()),
		application.WithMeterProvider(a.telemetry.MeterProvider()),
	}
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "opregistry version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}
