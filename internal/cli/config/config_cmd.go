package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pystrap-dev/pystrap/internal/cli/shared"
	cfgpkg "github.com/pystrap-dev/pystrap/internal/config"
	clierrors "github.com/pystrap-dev/pystrap/internal/errors"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect pystrap configuration",
		Long: `Inspect pystrap configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (PYSTRAP_*)
  2. Project config (.pystrap.json or --config)
  3. User config (~/.config/pystrap/config.json)
  4. Built-in defaults`,
		Example: `  # Show the effective configuration
  pystrap config show

  # Show where configuration files are read from
  pystrap config path`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current effective configuration",
		Long: `Display the current effective configuration values as YAML.

Shows the merged result of defaults, user config, project config, and
environment variables.`,
		Args: cobra.NoArgs,
		RunE: runConfigShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file locations",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	})
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	projectPath := projectConfigPath(cmd)

	cfg, err := cfgpkg.Load(projectPath)
	if err != nil {
		return clierrors.ConfigParseError(projectPath, err)
	}
	data, err := cfg.YAML()
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	userPath, err := cfgpkg.UserConfigPath()
	if err != nil {
		userPath = "(unavailable)"
	}
	fmt.Fprintf(out, "# Configuration Sources\n")
	fmt.Fprintf(out, "# User config:    %s\n", userPath)
	fmt.Fprintf(out, "# Project config: %s\n", projectPath)
	fmt.Fprintf(out, "\n")
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	userPath, err := cfgpkg.UserConfigPath()
	if err != nil {
		return clierrors.Wrap(err, clierrors.Configuration)
	}
	projectPath, err := shared.ResolvePath(projectConfigPath(cmd))
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	fmt.Fprintf(out, "User config:    %s%s\n", userPath, presence(userPath))
	fmt.Fprintf(out, "Project config: %s%s\n", projectPath, presence(projectPath))
	return nil
}

// projectConfigPath returns --config when the command inherits it and it
// is set, otherwise the default project config path.
func projectConfigPath(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return cfgpkg.ProjectConfigPath()
}

func presence(path string) string {
	if _, err := os.Stat(path); err != nil {
		return " (not found)"
	}
	return ""
}
