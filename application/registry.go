// Package application provides the operation registry: it resolves which
// converter or validator handles a named operation for a cloud provider.
package application

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/opregistry/domain/operation"
	"github.com/felixgeelhaar/opregistry/domain/provider"
	"github.com/felixgeelhaar/opregistry/infrastructure/logging"
)

// instrumentationName names the tracer and meter used by the registry.
const instrumentationName = "github.com/felixgeelhaar/opregistry/application"

// Outcome labels how a resolution ended.
type Outcome string

const (
	OutcomeLegacy Outcome = "legacy" // Found in the flat namespace
	OutcomeTagged Outcome = "tagged" // Found among the provider's tagged handlers
	OutcomeAbsent Outcome = "absent" // No validator configured
	OutcomeError  Outcome = "error"  // Resolution failed
)

// Source hands out a directory and the catalog that belongs with it.
// Implementations that reload must publish both together.
type Source interface {
	Snapshot() (operation.Directory, provider.Catalog)
}

// fixedSource serves one directory and catalog for the registry's lifetime.
type fixedSource struct {
	directory operation.Directory
	catalog   provider.Catalog
}

func (s fixedSource) Snapshot() (operation.Directory, provider.Catalog) {
	return s.directory, s.catalog
}

// Registry resolves converters and validators from a component directory and
// a provider catalog. It holds no mutable state and is safe for concurrent use
// as long as the directory and catalog are safe for concurrent reads.
type Registry struct {
	source      Source
	tracer      trace.Tracer
	resolutions metric.Int64Counter
}

// NewRegistry creates a registry reading from directory and catalog.
func NewRegistry(directory operation.Directory, catalog provider.Catalog, opts ...Option) (*Registry, error) {
	if directory == nil {
		return nil, ErrDirectoryRequired
	}
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	return NewRegistryFromSource(fixedSource{directory: directory, catalog: catalog}, opts...)
}

// NewRegistryFromSource creates a registry that takes one snapshot from source
// per resolution, so every step of a resolution sees the same directory and
// catalog.
func NewRegistryFromSource(source Source, opts ...Option) (*Registry, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}

	cfg := RegistryConfig{
		TracerProvider: otel.GetTracerProvider(),
		MeterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	resolutions, err := cfg.MeterProvider.Meter(instrumentationName).Int64Counter(
		"opregistry.resolutions",
		metric.WithDescription("Number of handler resolutions by kind and outcome"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, err
	}

	return &Registry{
		source:      source,
		tracer:      cfg.TracerProvider.Tracer(instrumentationName),
		resolutions: resolutions,
	}, nil
}

// ResolveConverter returns the converter for description, which may carry a
// version as in "createServerGroup@v2". providerID may be empty, in which case
// only the legacy namespace is consulted.
func (r *Registry) ResolveConverter(ctx context.Context, description, providerID string) (operation.Handler, error) {
	return r.resolve(ctx, operation.KindConverter, description, providerID)
}

// ResolveValidator returns the validator for name. A nil handler with a nil
// error means no validator is configured, which callers treat as valid.
func (r *Registry) ResolveValidator(ctx context.Context, name, providerID string) (operation.Handler, error) {
	return r.resolve(ctx, operation.KindValidator, name, providerID)
}

func (r *Registry) resolve(ctx context.Context, kind operation.Kind, name, providerID string) (operation.Handler, error) {
	ctx, span := r.tracer.Start(ctx, "opregistry.resolve", trace.WithAttributes(
		attribute.String("opregistry.kind", kind.String()),
		attribute.String("opregistry.operation", name),
		attribute.String("opregistry.provider", providerID),
	))
	defer span.End()

	directory, catalog := r.source.Snapshot()
	h, outcome, err := r.lookup(directory, catalog, kind, name, providerID)
	if err != nil {
		outcome = OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("opregistry.outcome", string(outcome)))
	r.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind.String()),
		attribute.String("outcome", string(outcome)),
	))

	return h, err
}

// lookup runs the legacy lookup and, when a provider is given, falls back to
// the provider-tagged namespace.
func (r *Registry) lookup(directory operation.Directory, catalog provider.Catalog, kind operation.Kind, name, providerID string) (operation.Handler, Outcome, error) {
	legacy, err := directory.LookupByName(name)
	if err != nil && !errors.Is(err, operation.ErrComponentNotFound) {
		return nil, OutcomeError, err
	}
	if err == nil && legacy != nil {
		if legacy.Kind() != kind {
			return nil, OutcomeError, &operation.KindMismatchError{Name: name, Want: kind, Got: legacy.Kind()}
		}
		logging.Debug().
			Add(logging.Kind(kind)).
			Add(logging.Operation(name)).
			Msg("resolved legacy handler")
		return legacy, OutcomeLegacy, nil
	}

	if providerID == "" {
		if err == nil {
			err = &operation.ComponentNotFoundError{Name: name}
		}
		return nil, OutcomeError, err
	}

	versioned, err := operation.ParseVersionedName(name)
	if err != nil {
		return nil, OutcomeError, err
	}

	tag, err := resolveTag(catalog, providerID)
	if err != nil {
		return nil, OutcomeError, err
	}

	candidates := directory.ListByCapabilityTag(tag)
	matches := filterHandlers(candidates, kind, versioned)

	logging.Debug().
		Add(logging.Kind(kind)).
		Add(logging.Operation(versioned.Base)).
		Add(logging.Version(versioned.Version)).
		Add(logging.Provider(providerID)).
		Add(logging.Tag(tag)).
		Add(logging.Candidates(len(candidates))).
		Msg("filtered tagged handlers")

	switch len(matches) {
	case 0:
		if kind == operation.KindValidator {
			return nil, OutcomeAbsent, nil
		}
		return nil, OutcomeError, &operation.ConverterNotFoundError{Description: name, Provider: providerID}
	case 1:
		return matches[0], OutcomeTagged, nil
	default:
		err := &operation.AmbiguousHandlerError{Kind: kind, Name: name, Provider: providerID, Count: len(matches)}
		logging.Error().
			Add(logging.Kind(kind)).
			Add(logging.Operation(name)).
			Add(logging.Provider(providerID)).
			Add(logging.ErrorField(err)).
			Msg("duplicate handler registration")
		return nil, OutcomeError, err
	}
}

// filterHandlers keeps the handlers of kind declaring versioned.Base that
// accept versioned.Version.
func filterHandlers(candidates []operation.Handler, kind operation.Kind, versioned operation.VersionedName) []operation.Handler {
	var matches []operation.Handler
	for _, h := range candidates {
		if h == nil || h.Kind() != kind || h.DeclaredName() != versioned.Base {
			continue
		}
		if h.AcceptsVersion(versioned.Version) {
			matches = append(matches, h)
		}
	}
	return matches
}
