package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seantiz/rssd/internal/render"
)

// newRenderSystemsCommand creates the "render-systems" subcommand that lists
// the registered render systems in selection order.
func newRenderSystemsCommand(reg *render.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "render-systems",
		Short: "List the available render systems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tNAME")
			for _, info := range reg.List() {
				fmt.Fprintf(tw, "%d\t%s\n", info.Index, info.Name)
			}
			return tw.Flush()
		},
	}
}
