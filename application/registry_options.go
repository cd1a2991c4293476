package application

import (
	"errors"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Construction errors.
var (
	// ErrDirectoryRequired indicates the registry was built without a directory.
	ErrDirectoryRequired = errors.New("component directory is required")

	// ErrCatalogRequired indicates the registry was built without a provider catalog.
	ErrCatalogRequired = errors.New("provider catalog is required")

	// ErrSourceRequired indicates the registry was built without a store source.
	ErrSourceRequired = errors.New("store source is required")
)

// RegistryConfig contains optional registry dependencies.
type RegistryConfig struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Option configures the registry.
type Option func(*RegistryConfig)

// WithTracerProvider sets the tracer provider used for resolution spans.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *RegistryConfig) {
		if tp != nil {
			c.TracerProvider = tp
		}
	}
}

// WithMeterProvider sets the meter provider used for resolution counters.
// Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *RegistryConfig) {
		if mp != nil {
			c.MeterProvider = mp
		}
	}
}
