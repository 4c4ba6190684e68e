package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/rig/internal/app"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve options and environment into dependencies, definitions and actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := request(cmd)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			lock, _ := cmd.Flags().GetBool("lock")
			check, _ := cmd.Flags().GetBool("check")

			var inv *app.Invocation
			switch {
			case lock:
				inv, err = c.app.Lock(cmd.Context(), req)
			case check:
				inv, err = c.app.Check(cmd.Context(), req)
			default:
				inv, err = c.app.Resolve(cmd.Context(), req)
			}
			if err != nil {
				return err
			}

			return render(cmd, format, inv.Resolution)
		},
	}
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().Bool("lock", false, "Write the resolution to the lockfile")
	cmd.Flags().Bool("check", false, "Fail if the resolution differs from the lockfile")
	cmd.MarkFlagsMutuallyExclusive("lock", "check")
	return cmd
}

func render(cmd *cobra.Command, format string, res *domain.Resolution) error {
	out := cmd.OutOrStdout()

	switch format {
	case "text":
		_, err := fmt.Fprint(out, res.String())
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Lockfile())
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(res.Lockfile()); err != nil {
			return err
		}
		return enc.Close()
	default:
		return zerr.With(zerr.New("unknown output format"), "format", format)
	}
}
