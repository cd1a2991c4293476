package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/opregistry/domain/provider"
	redisstore "github.com/felixgeelhaar/opregistry/infrastructure/storage/redis"
	"github.com/felixgeelhaar/opregistry/infrastructure/storage/sqlite"
)

// catalogStore is implemented by the durable provider catalogs.
type catalogStore interface {
	Save(ctx context.Context, p provider.Provider) error
	Load(ctx context.Context) ([]provider.Provider, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

var (
	_ catalogStore = (*sqlite.CatalogStore)(nil)
	_ catalogStore = (*redisstore.CatalogStore)(nil)
)

// catalogOptions select the catalog a catalog subcommand works on.
type catalogOptions struct {
	dbPath      string
	redisAddr   string
	redisPrefix string
}

func (o *catalogOptions) open() (catalogStore, error) {
	switch {
	case o.dbPath != "" && o.redisAddr != "":
		return nil, errors.New("use either --db or --redis, not both")
	case o.dbPath != "":
		return sqlite.NewCatalogStore(sqlite.DefaultConfig(), sqlite.WithPath(o.dbPath))
	case o.redisAddr != "":
		return redisstore.NewCatalogStore(redisstore.DefaultConfig(),
			redisstore.WithAddress(o.redisAddr),
			redisstore.WithKeyPrefix(o.redisPrefix),
		)
	default:
		return nil, errors.New("a catalog is required (--db or --redis)")
	}
}

// newCatalogCmd creates the catalog command group.
func (a *App) newCatalogCmd() *cobra.Command {
	opts := &catalogOptions{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage a durable provider catalog",
		Long: `Manage a provider catalog kept in SQLite or Redis.

Catalogs are merged into a manifest's providers by resolve --catalog-db and
resolve --catalog-redis.

Examples:
  opregistry catalog add --db catalog.db aws-gov --tag aws
  opregistry catalog list --db catalog.db
  opregistry catalog remove --redis localhost:6379 aws-gov`,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.dbPath, "db", "", "SQLite catalog file")
	flags.StringVar(&opts.redisAddr, "redis", "", "Redis address")
	flags.StringVar(&opts.redisPrefix, "redis-prefix", redisstore.DefaultConfig().KeyPrefix, "Key prefix of the Redis catalog")

	cmd.AddCommand(
		a.newCatalogAddCmd(opts),
		a.newCatalogListCmd(opts),
		a.newCatalogRemoveCmd(opts),
	)

	return cmd
}

func (a *App) newCatalogAddCmd(opts *catalogOptions) *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "add <provider-id>",
		Short: "Add a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := provider.Provider{ID: args[0], Tag: provider.CapabilityTag(tag)}
			if p.Tag == "" {
				p.Tag = provider.CapabilityTag(p.ID)
			}

			return a.withCatalog(opts, func(store catalogStore) error {
				if err := store.Save(cmd.Context(), p); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Added provider %s (tag %s)\n", p.ID, p.Tag)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Capability tag (default: the provider id)")

	return cmd
}

func (a *App) newCatalogListCmd(opts *catalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(opts, func(store catalogStore) error {
				providers, err := store.Load(cmd.Context())
				if err != nil {
					return err
				}
				if len(providers) == 0 {
					fmt.Fprintln(a.stdout, "No providers in catalog.")
					return nil
				}

				tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "PROVIDER\tTAG\n")
				for _, p := range providers {
					fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.Tag)
				}
				return tw.Flush()
			})
		},
	}
}

func (a *App) newCatalogRemoveCmd(opts *catalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <provider-id>",
		Short: "Remove a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(opts, func(store catalogStore) error {
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Removed provider %s\n", args[0])
				return nil
			})
		},
	}
}

// withCatalog opens the selected catalog for the duration of fn.
func (a *App) withCatalog(opts *catalogOptions, fn func(catalogStore) error) error {
	store, err := opts.open()
	if err != nil {
		return err
	}
	return errors.Join(fn(store), store.Close())
}
