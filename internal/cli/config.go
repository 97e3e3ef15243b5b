package cli

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/taskq/internal/app"
	"github.com/runoshun/taskq/internal/usecase"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage taskq configuration files and settings.

Without a subcommand, displays the effective configuration.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, c)
		},
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Shows which config files were consulted and the final merged
configuration: defaults, then the global file, then the store file.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, c)
		},
	}
}

// runConfigShow prints the config sources and the effective merged
// configuration in TOML format.
func runConfigShow(cmd *cobra.Command, c *app.Container) error {
	uc := c.ShowConfigUseCase()
	out, err := uc.Execute(cmd.Context(), usecase.ShowConfigInput{})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	// Display consulted files section
	_, _ = fmt.Fprintln(w, "[Loaded from]")
	if out.GlobalConfig.Exists {
		_, _ = fmt.Fprintf(w, "- %s\n", out.GlobalConfig.Path)
	} else {
		_, _ = fmt.Fprintf(w, "- %s (not found)\n", out.GlobalConfig.Path)
	}
	if out.StoreConfig.Exists {
		_, _ = fmt.Fprintf(w, "- %s\n", out.StoreConfig.Path)
	} else {
		_, _ = fmt.Fprintf(w, "- %s (not found)\n", out.StoreConfig.Path)
	}

	_, _ = fmt.Fprintln(w)

	// Display effective config in TOML format
	_, _ = fmt.Fprintln(w, "[Effective Config]")
	if err := toml.NewEncoder(w).Encode(out.Config); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return nil
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a configuration file template",
		Long: `Generate a configuration file template.

By default, creates the store configuration file at
<root>/tasks/config.toml. With --global, creates the global
configuration file under the user config directory instead.

Error conditions:
- Target file already exists: error`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitConfigInput{
				Global: global,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Generate the global configuration file")

	return cmd
}
