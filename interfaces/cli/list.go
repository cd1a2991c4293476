package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domainconfig "github.com/felixgeelhaar/opregistry/domain/config"
)

// listOptions holds options for the list command.
type listOptions struct {
	manifestOptions
	json bool
}

// listView is the JSON shape of the list command.
type listView struct {
	Name      string                        `json:"name"`
	Providers []domainconfig.ProviderConfig `json:"providers"`
	Handlers  []domainconfig.HandlerConfig  `json:"handlers"`
}

// newListCmd creates the list command.
func (a *App) newListCmd() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the providers and handlers of a manifest",
		Long: `List the providers and handlers declared in a manifest.

Examples:
  opregistry list -c registry.yaml
  opregistry list -c registry.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(opts)
		},
	}

	opts.bind(cmd, false)
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print JSON")

	return cmd
}

// list prints the manifest contents.
func (a *App) list(opts *listOptions) error {
	m, err := opts.load()
	if err != nil {
		return err
	}

	if opts.json {
		view := listView{Name: m.Name, Providers: m.Providers, Handlers: m.Handlers}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "PROVIDER\tTAG\n")
	for _, p := range m.Providers {
		fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.CapabilityTag())
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "HANDLER\tKIND\tNAME\tCOMPONENT\tPROVIDERS\tVERSIONS\n")
	for _, h := range m.Handlers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			h.ID, h.Kind, h.Name, orDash(h.Component),
			orDash(strings.Join(h.Providers, ",")), versionSummary(h))
	}

	return tw.Flush()
}

// versionSummary describes which versions a handler accepts.
func versionSummary(h domainconfig.HandlerConfig) string {
	var parts []string
	if h.IsDefault() {
		parts = append(parts, "default")
	}
	parts = append(parts, h.Versions...)
	if h.Constraint != "" {
		parts = append(parts, h.Constraint)
	}
	return strings.Join(parts, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
