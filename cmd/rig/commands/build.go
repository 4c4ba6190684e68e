package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Resolve, fetch dependencies and run the lifecycle actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := request(cmd)
			if err != nil {
				return err
			}

			results, err := c.app.Build(cmd.Context(), req)
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", r.Phase, r.Status)
			}
			return err
		},
	}
}
