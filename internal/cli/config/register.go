// Package config provides the CLI commands that inspect pystrap configuration.
// Includes: config show, config path
package config

import (
	"github.com/spf13/cobra"

	"github.com/pystrap-dev/pystrap/internal/cli/shared"
)

// Register adds the configuration commands to the root command.
// This function is called from the root CLI package during initialization.
func Register(rootCmd *cobra.Command) {
	cmd := newConfigCmd()
	cmd.GroupID = shared.GroupConfiguration
	rootCmd.AddCommand(cmd)
}
