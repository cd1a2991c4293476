package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/opregistry/application"
	domainconfig "github.com/felixgeelhaar/opregistry/domain/config"
	"github.com/felixgeelhaar/opregistry/domain/operation"
	"github.com/felixgeelhaar/opregistry/infrastructure/config"
	"github.com/felixgeelhaar/opregistry/infrastructure/resilience"
	"github.com/felixgeelhaar/opregistry/infrastructure/storage/memory"
	redisstore "github.com/felixgeelhaar/opregistry/infrastructure/storage/redis"
	"github.com/felixgeelhaar/opregistry/infrastructure/storage/sqlite"
)

// manifestOptions locate a manifest and the extra catalog sources merged into it.
type manifestOptions struct {
	configPath  string
	strict      bool
	catalogDB   string
	redisAddr   string
	redisPrefix string
}

func (o *manifestOptions) bind(cmd *cobra.Command, withSources bool) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "Path to manifest file (required)")
	cmd.Flags().BoolVar(&o.strict, "strict", false, "Fail on unset environment variables")
	_ = cmd.MarkFlagRequired("config")

	if withSources {
		cmd.Flags().StringVar(&o.catalogDB, "catalog-db", "", "SQLite catalog whose providers are added to the manifest's")
		cmd.Flags().StringVar(&o.redisAddr, "catalog-redis", "", "Redis address whose catalog is added to the manifest's")
		cmd.Flags().StringVar(&o.redisPrefix, "redis-prefix", redisstore.DefaultConfig().KeyPrefix, "Key prefix of the Redis catalog")
	}
}

func (o *manifestOptions) load() (*domainconfig.Manifest, error) {
	loader := config.NewLoader(config.WithStrictEnv(o.strict))
	m, err := loader.LoadFile(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	return m, nil
}

// stores builds the in-memory stores for the manifest and merges any
// configured catalog sources into the provider catalog.
func (o *manifestOptions) stores(ctx context.Context) (*memory.Directory, *memory.Catalog, error) {
	m, err := o.load()
	if err != nil {
		return nil, nil, err
	}

	directory, catalog, err := config.NewStores(m)
	if err != nil {
		return nil, nil, err
	}

	if o.catalogDB != "" {
		store, err := sqlite.NewCatalogStore(sqlite.DefaultConfig(), sqlite.WithPath(o.catalogDB))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open catalog database: %w", err)
		}
		defer store.Close()

		if _, err := resilience.NewCatalogLoader(store).MergeInto(ctx, catalog); err != nil {
			return nil, nil, err
		}
	}

	if o.redisAddr != "" {
		store, err := redisstore.NewCatalogStore(redisstore.DefaultConfig(),
			redisstore.WithAddress(o.redisAddr),
			redisstore.WithKeyPrefix(o.redisPrefix),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to catalog: %w", err)
		}
		defer store.Close()

		if _, err := resilience.NewCatalogLoader(store).MergeInto(ctx, catalog); err != nil {
			return nil, nil, err
		}
	}

	return directory, catalog, nil
}

// resolveOptions holds options for the resolve command.
type resolveOptions struct {
	manifestOptions
	kind     string
	provider string
}

// newResolveCmd creates the resolve command.
func (a *App) newResolveCmd() *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve <name[@version]>",
		Short: "Resolve the handler for an operation",
		Long: `Resolve the converter or validator that handles an operation.

Prints the id of the resolved handler. A validator lookup that matches nothing
prints "no validator configured".

Examples:
  # Resolve the default converter for aws
  opregistry resolve -c registry.yaml --provider aws deployServerGroup

  # Resolve a pinned version
  opregistry resolve -c registry.yaml --provider aws deployServerGroup@v2

  # Resolve a validator, adding providers from a catalog database
  opregistry resolve -c registry.yaml --kind validator --catalog-db catalog.db \
    --provider aws-gov deployServerGroup`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.resolve(cmd.Context(), opts, args[0])
		},
	}

	opts.bind(cmd, true)
	cmd.Flags().StringVar(&opts.kind, "kind", operation.KindConverter.String(), "Handler kind (converter, validator)")
	cmd.Flags().StringVarP(&opts.provider, "provider", "p", "", "Cloud provider id")

	return cmd
}

// resolve runs a single resolution.
func (a *App) resolve(ctx context.Context, opts *resolveOptions, name string) error {
	kind, err := operation.ParseKind(opts.kind)
	if err != nil {
		return err
	}

	directory, catalog, err := opts.stores(ctx)
	if err != nil {
		return err
	}

	registry, err := application.NewRegistry(directory, catalog, a.registryOptions()...)
	if err != nil {
		return err
	}

	var h operation.Handler
	switch kind {
	case operation.KindValidator:
		h, err = registry.ResolveValidator(ctx, name, opts.provider)
	default:
		h, err = registry.ResolveConverter(ctx, name, opts.provider)
	}
	if err != nil {
		return err
	}

	if h == nil {
		fmt.Fprintln(a.stdout, "no validator configured")
		return nil
	}
	fmt.Fprintln(a.stdout, handlerID(h))
	return nil
}

// handlerID names a handler for output.
func handlerID(h operation.Handler) string {
	if named, ok := h.(interface{ ID() string }); ok {
		return named.ID()
	}
	return h.DeclaredName()
}
