package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/opregistry/domain/operation"
)

// newParseCmd creates the parse command.
func (a *App) newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <name[@version]>",
		Short: "Split an operation name into base name and version",
		Long: `Split an operation name into its base name and version.

A name without '@' has no version. A name with '@' must have exactly one
separator with text on both sides.

Examples:
  opregistry parse deployServerGroup
  opregistry parse deployServerGroup@v2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := operation.ParseVersionedName(args[0])
			if err != nil {
				return err
			}

			version := name.Version
			if !name.HasVersion() {
				version = "(none)"
			}
			fmt.Fprintf(a.stdout, "base:    %s\n", name.Base)
			fmt.Fprintf(a.stdout, "version: %s\n", version)
			return nil
		},
	}
}
