package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/opregistry/infrastructure/config"
	"github.com/felixgeelhaar/opregistry/infrastructure/storage/memory"
)

// newWatchCmd creates the watch command.
func (a *App) newWatchCmd() *cobra.Command {
	opts := &manifestOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload a manifest whenever it changes",
		Long: `Load a manifest and reload it whenever the file changes, reporting each
reload. A manifest that fails to load leaves the previous registrations in
place. Stops on interrupt.

Examples:
  opregistry watch -c registry.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd, opts)
		},
	}

	opts.bind(cmd, false)

	return cmd
}

func (a *App) watch(cmd *cobra.Command, opts *manifestOptions) error {
	stores := memory.NewStores(nil, nil)

	report := func(err error) {
		if err != nil {
			fmt.Fprintf(a.stderr, "reload failed: %v\n", err)
			return
		}
		current := stores.Current()
		fmt.Fprintf(a.stdout, "loaded %d providers, %d handlers\n", current.Catalog.Count(), current.Directory.Count())
	}

	w := config.NewWatcher(opts.configPath, stores,
		config.WithWatchLoader(config.NewLoader(config.WithStrictEnv(opts.strict))),
		config.WithReloadHook(report),
	)

	if err := w.Reload(); err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}
	report(nil)

	return w.Run(cmd.Context())
}
