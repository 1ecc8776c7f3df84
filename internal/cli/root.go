// pystrap - Python project scaffolding

// Package cli provides the Cobra-based command line for pystrap. The root
// command scaffolds a project; subcommands report the version and inspect
// the effective configuration.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pystrap-dev/pystrap/internal/cli/config"
	"github.com/pystrap-dev/pystrap/internal/cli/shared"
	clierrors "github.com/pystrap-dev/pystrap/internal/errors"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupProject       = shared.GroupProject
	GroupConfiguration = shared.GroupConfiguration
)

const usageLine = "pystrap <project_name> [flags]"

// createOptions holds the flags of the root command.
type createOptions struct {
	interactive   bool
	authorName    string
	authorEmail   string
	description   string
	python        string
	distributable bool
	force         bool
	dir           string
	git           bool
	quiet         bool
	verbose       bool
	logDir        string
	manifestExtra string
}

// NewRootCmd builds the pystrap command tree.
func NewRootCmd() *cobra.Command {
	opts := &createOptions{}

	rootCmd := &cobra.Command{
		Use:   "pystrap [project_name]",
		Short: "Create a new Python project",
		Long: `pystrap creates the boilerplate of an installable Python project:

  src/<project_name>/__init__.py
  tests/__init__.py
  pyproject.toml
  setup.py           (with --distributable)

Metadata defaults come from the configuration (see 'pystrap config show').
Existing files are never replaced unless --force is given.`,
		Example: `  # Create ./src/demo, ./tests and ./pyproject.toml
  pystrap demo

  # Answer the questions interactively
  pystrap -i

  # Write into another directory and initialize a git repository
  pystrap demo -C ~/projects/demo --git

  # Set the author and the supported Python versions
  pystrap demo --author-name "Ada Lovelace" --author-email ada@example.com --python ">=3.11"`,
		Args:          projectArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args, opts)
		},
	}

	rootCmd.AddGroup(&cobra.Group{ID: GroupProject, Title: "Project:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})
	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to project config file (default .pystrap.json)")

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "Ask for the project settings interactively")
	flags.StringVar(&opts.authorName, "author-name", "", "Author name (overrides author_name)")
	flags.StringVar(&opts.authorEmail, "author-email", "", "Author email (overrides author_email)")
	flags.StringVar(&opts.description, "description", "", "Project description (overrides description)")
	flags.StringVar(&opts.python, "python", "", "requires-python constraint, e.g. \">=3.10\" (overrides requires_python)")
	flags.BoolVar(&opts.distributable, "distributable", false, "Also write setup.py for a package meant for PyPI")
	flags.BoolVarP(&opts.force, "force", "f", false, "Replace existing files")
	flags.StringVarP(&opts.dir, "dir", "C", "", "Directory to create the project in (default: current directory)")
	flags.BoolVar(&opts.git, "git", false, "Initialize a git repository in the project directory")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Disable logging (takes precedence over --log-file)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&opts.logDir, "log-file", "", "Write the log to a timestamped file in this directory")
	flags.StringVar(&opts.manifestExtra, "manifest-extra", "", "TOML fragment merged into the generated manifest (overrides manifest_extra)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			"Run '"+cmd.CommandPath()+" --help' to list the available flags")
	})

	config.Register(rootCmd)
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// projectArgs accepts at most one positional project name.
func projectArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("expected at most one project name, got %d arguments", len(args)),
			usageLine,
			"Quote names that contain spaces, or pass a single name",
		)
	}
	return nil
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err != nil {
		clierrors.FprintError(rootCmd.ErrOrStderr(), clierrors.FromError(err))
	}
	return err
}
