package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the declared options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tKIND\tDEFAULT\tALLOWED\tDESCRIPTION")
			for _, spec := range c.app.Options() {
				allowed := strings.Join(spec.Allowed, "|")
				if allowed == "" {
					allowed = "*"
				}
				def := spec.Default
				if def == "" {
					def = "-"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", spec.Name, spec.Kind, def, allowed, spec.Description)
			}
			return w.Flush()
		},
	}
}
