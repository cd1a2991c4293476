package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/opregistry/domain/operation"
	"github.com/felixgeelhaar/opregistry/infrastructure/config"
)

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &manifestOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a manifest",
		Long: `Validate a registry manifest.

This command checks:
  - File format (YAML or JSON)
  - Required fields and unique ids
  - Handler kinds, versions and semantic version constraints
  - Provider references from handlers
  - Environment variable references (in strict mode)

Examples:
  opregistry validate -c registry.yaml
  opregistry validate -c registry.yaml --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validate(opts)
		},
	}

	opts.bind(cmd, false)

	return cmd
}

// validate loads and builds the manifest and prints a summary.
func (a *App) validate(opts *manifestOptions) error {
	m, err := opts.load()
	if err != nil {
		return err
	}

	result, err := config.Build(m)
	if err != nil {
		return err
	}

	counts := make(map[operation.Kind]int)
	legacy := 0
	for _, e := range result.Entries {
		counts[e.Handler.Kind()]++
		if e.Name != "" {
			legacy++
		}
	}

	fmt.Fprintf(a.stdout, "✓ Manifest is valid\n")
	fmt.Fprintf(a.stdout, "  Name: %s\n", m.Name)
	if m.Description != "" {
		fmt.Fprintf(a.stdout, "  Description: %s\n", m.Description)
	}
	fmt.Fprintf(a.stdout, "  Providers: %d\n", len(result.Providers))
	fmt.Fprintf(a.stdout, "  Converters: %d\n", counts[operation.KindConverter])
	fmt.Fprintf(a.stdout, "  Validators: %d\n", counts[operation.KindValidator])
	fmt.Fprintf(a.stdout, "  Named components: %d\n", legacy)
	return nil
}
