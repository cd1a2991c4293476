// Package observability wires OpenTelemetry tracing and metrics for the
// registry process.
package observability

import (
	"io"
	"os"
	"time"
)

// Config configures the observability infrastructure.
type Config struct {
	// ServiceName is the name of the service for telemetry.
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Environment is the deployment environment (e.g., "production", "staging").
	Environment string

	// Tracing configures distributed tracing.
	Tracing TracingConfig

	// Metrics configures metrics collection.
	Metrics MetricsConfig
}

// TracingConfig configures distributed tracing.
type TracingConfig struct {
	// Enabled enables tracing (default: false).
	Enabled bool

	// Exporter specifies the trace exporter type.
	Exporter ExporterType

	// Endpoint is the OTLP endpoint (e.g., "localhost:4317").
	Endpoint string

	// Insecure disables TLS for the exporter connection.
	Insecure bool

	// Writer receives spans from the stdout exporter (default: os.Stderr).
	Writer io.Writer

	// SampleRate is the sampling rate (0.0-1.0, default: 1.0).
	SampleRate float64

	// BatchTimeout is the batch export timeout for OTLP.
	BatchTimeout time.Duration
}

// MetricsConfig configures metrics collection. Metrics are gathered by a
// manual reader and collected on demand.
type MetricsConfig struct {
	// Enabled enables metrics (default: false).
	Enabled bool
}

// ExporterType specifies the telemetry exporter.
type ExporterType string

const (
	// ExporterOTLP exports to an OTLP/gRPC endpoint.
	ExporterOTLP ExporterType = "otlp"

	// ExporterStdout writes spans as JSON (useful for development).
	ExporterStdout ExporterType = "stdout"

	// ExporterNoop disables export.
	ExporterNoop ExporterType = "noop"
)

// ParseExporterType converts a flag value into an exporter type.
func ParseExporterType(s string) (ExporterType, bool) {
	switch t := ExporterType(s); t {
	case ExporterOTLP, ExporterStdout, ExporterNoop:
		return t, true
	default:
		return "", false
	}
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "opregistry",
		ServiceVersion: "dev",
		Environment:    "development",
		Tracing: TracingConfig{
			Exporter:     ExporterNoop,
			Writer:       os.Stderr,
			SampleRate:   1.0,
			BatchTimeout: 5 * time.Second,
		},
	}
}

// Option configures the observability infrastructure.
type Option func(*Config)

// WithServiceName sets the service name.
func WithServiceName(name string) Option {
	return func(c *Config) {
		c.ServiceName = name
	}
}

// WithServiceVersion sets the service version.
func WithServiceVersion(version string) Option {
	return func(c *Config) {
		c.ServiceVersion = version
	}
}

// WithEnvironment sets the environment.
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithTracing enables tracing with the specified exporter.
func WithTracing(exporter ExporterType, endpoint string) Option {
	return func(c *Config) {
		c.Tracing.Enabled = true
		c.Tracing.Exporter = exporter
		c.Tracing.Endpoint = endpoint
	}
}

// WithTracingInsecure disables TLS for tracing.
func WithTracingInsecure() Option {
	return func(c *Config) {
		c.Tracing.Insecure = true
	}
}

// WithSampleRate sets the trace sampling rate.
func WithSampleRate(rate float64) Option {
	return func(c *Config) {
		c.Tracing.SampleRate = rate
	}
}

// WithStdoutTracing enables JSON span output to w.
func WithStdoutTracing(w io.Writer) Option {
	return func(c *Config) {
		c.Tracing.Enabled = true
		c.Tracing.Exporter = ExporterStdout
		if w != nil {
			c.Tracing.Writer = w
		}
	}
}

// WithMetrics enables on-demand metric collection.
func WithMetrics() Option {
	return func(c *Config) {
		c.Metrics.Enabled = true
	}
}
