// Package commands implements the CLI commands for the rig build variant resolver.
package commands

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/rig/internal/adapters/config"
	"go.trai.ch/rig/internal/app"
	"go.trai.ch/rig/internal/build"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for rig.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "rig",
		Short:         "Resolve build variants into dependencies, definitions and lifecycle actions",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("profile", "p", config.DefaultProfile, "Profile file (.yaml or .hcl)")
	flags.StringArrayP("option", "o", nil, "Override an option as key=value (repeatable)")
	flags.String("host", "", "Host platform")
	flags.String("target", "", "Target platform")
	flags.Bool("cross", false, "Treat the invocation as a cross build")
	flags.Bool("configure", true, "Run the configure phase")
	flags.Bool("build", true, "Run the build phase")
	flags.Bool("test", false, "Run the test phase")
	flags.Bool("install", false, "Run the install phase")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newOptionsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

// request builds an app.Request from the persistent flags of cmd.
func request(cmd *cobra.Command) (app.Request, error) {
	flags := cmd.Flags()

	profile, _ := flags.GetString("profile")
	req := app.Request{
		ProfilePath:     profile,
		ProfileRequired: flags.Changed("profile"),
		Options:         make(map[string]string),
	}

	pairs, _ := flags.GetStringArray("option")
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return app.Request{}, zerr.With(zerr.Wrap(domain.ErrSchema, "option override must be key=value"), "option", pair)
		}
		req.Options[key] = strings.TrimSpace(value)
	}

	if flags.Changed("host") {
		v, _ := flags.GetString("host")
		req.Environment.Host = &v
	}
	if flags.Changed("target") {
		v, _ := flags.GetString("target")
		req.Environment.Target = &v
	}

	for name, dst := range map[string]**bool{
		"cross":     &req.Environment.CrossBuilding,
		"configure": &req.Environment.ShouldConfigure,
		"build":     &req.Environment.ShouldBuild,
		"test":      &req.Environment.ShouldTest,
		"install":   &req.Environment.ShouldInstall,
	} {
		if flags.Changed(name) {
			v, _ := flags.GetBool(name)
			*dst = &v
		}
	}

	return req, nil
}
