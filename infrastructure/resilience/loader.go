// Package resilience loads provider catalogs from remote sources with retries.
package resilience

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/opregistry/domain/provider"
	"github.com/felixgeelhaar/opregistry/infrastructure/logging"
	"github.com/felixgeelhaar/opregistry/infrastructure/storage/memory"
)

// CatalogSource is a store providers can be loaded from.
type CatalogSource interface {
	Load(ctx context.Context) ([]provider.Provider, error)
}

// LoaderConfig configures a catalog loader.
type LoaderConfig struct {
	// RetryMaxAttempts is the maximum number of load attempts.
	RetryMaxAttempts int

	// RetryInitialDelay is the delay before the first retry.
	RetryInitialDelay time.Duration

	// RetryBackoffMultiplier is the exponential backoff multiplier.
	RetryBackoffMultiplier float64

	// Timeout bounds a whole load including retries.
	Timeout time.Duration
}

// DefaultLoaderConfig returns the configuration used by the CLI.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		RetryMaxAttempts:       3,
		RetryInitialDelay:      100 * time.Millisecond,
		RetryBackoffMultiplier: 2.0,
		Timeout:                10 * time.Second,
	}
}

// Option configures the loader.
type Option func(*LoaderConfig)

// WithRetryAttempts sets the maximum load attempts.
func WithRetryAttempts(n int) Option {
	return func(c *LoaderConfig) {
		c.RetryMaxAttempts = n
	}
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *LoaderConfig) {
		c.RetryInitialDelay = d
	}
}

// WithTimeout sets the overall load timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *LoaderConfig) {
		c.Timeout = d
	}
}

// CatalogLoader reads providers from a CatalogSource, retrying transient
// failures. Invalid provider data is never retried.
type CatalogLoader struct {
	source  CatalogSource
	retry   retry.Retry[[]provider.Provider]
	timeout time.Duration
}

// NewCatalogLoader creates a loader for source.
func NewCatalogLoader(source CatalogSource, opts ...Option) *CatalogLoader {
	config := DefaultLoaderConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.RetryMaxAttempts < 1 {
		config.RetryMaxAttempts = 1
	}

	return &CatalogLoader{
		source: source,
		retry: retry.New[[]provider.Provider](retry.Config{
			MaxAttempts:        config.RetryMaxAttempts,
			InitialDelay:       config.RetryInitialDelay,
			BackoffPolicy:      retry.BackoffExponential,
			Multiplier:         config.RetryBackoffMultiplier,
			NonRetryableErrors: []error{provider.ErrInvalidProvider},
		}),
		timeout: config.Timeout,
	}
}

// Load reads every provider from the source.
func (l *CatalogLoader) Load(ctx context.Context) ([]provider.Provider, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	providers, err := l.retry.Do(ctx, func(ctx context.Context) ([]provider.Provider, error) {
		return l.source.Load(ctx)
	})
	if err != nil {
		logging.Error().
			Add(logging.Component("catalog-loader")).
			Add(logging.Duration(time.Since(start))).
			Add(logging.ErrorField(err)).
			Msg("catalog load failed")
		return nil, fmt.Errorf("load provider catalog: %w", err)
	}

	logging.Debug().
		Add(logging.Component("catalog-loader")).
		Add(logging.Duration(time.Since(start))).
		Add(logging.Int("providers", len(providers))).
		Msg("catalog loaded")
	return providers, nil
}

// MergeInto loads the source and appends its providers to catalog. Ids
// already present are kept, so a provider known to both ends up duplicated and
// is reported as such at resolve time.
func (l *CatalogLoader) MergeInto(ctx context.Context, catalog *memory.Catalog) (int, error) {
	loaded, err := l.Load(ctx)
	if err != nil {
		return 0, err
	}

	merged := append(catalog.List(), loaded...)
	if err := catalog.Replace(merged); err != nil {
		return 0, err
	}
	return len(loaded), nil
}
