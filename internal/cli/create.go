package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pystrap-dev/pystrap/internal/cli/shared"
	"github.com/pystrap-dev/pystrap/internal/config"
	clierrors "github.com/pystrap-dev/pystrap/internal/errors"
	"github.com/pystrap-dev/pystrap/internal/logging"
	"github.com/pystrap-dev/pystrap/internal/manifest"
	"github.com/pystrap-dev/pystrap/internal/progress"
	"github.com/pystrap-dev/pystrap/internal/project"
	"github.com/pystrap-dev/pystrap/internal/prompt"
	"github.com/pystrap-dev/pystrap/internal/scaffold"
)

func runCreate(cmd *cobra.Command, args []string, opts *createOptions) error {
	out := cmd.OutOrStdout()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		if configPath == "" {
			configPath = config.ProjectConfigPath()
		}
		return clierrors.ConfigParseError(configPath, err)
	}

	root, err := shared.ResolvePath(opts.dir)
	if err != nil {
		return clierrors.NewRuntimeError(
			fmt.Sprintf("cannot resolve project directory %q: %v", opts.dir, err),
			"Pass an existing or creatable path with -C",
		)
	}

	spec, err := collectSpec(cmd, args, cfg, opts)
	if err != nil {
		return err
	}
	defaults, err := manifestDefaults(cfg, opts, spec)
	if err != nil {
		return err
	}

	// Nothing is written, log file included, until the input is known good.
	logger, closer, err := newLogger(cmd, cfg, opts)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "failed to set up logging",
			"Check that the --log-file directory exists and is writable")
	}
	defer closer.Close()
	logger.Debug("project spec collected", "name", spec.Name, "root", root)

	res, err := scaffold.Generate(scaffold.Options{
		Spec:         spec,
		Defaults:     defaults,
		ManifestFile: cfg.ManifestFile,
		Root:         root,
		Overwrite:    opts.force,
		InitGit:      opts.git,
		Logger:       logger,
		Progress:     newDisplay(out),
	})
	if err != nil {
		logger.Debug("project generation failed", "error", err)
		if res != nil {
			return clierrors.PartialWrite(err, writtenPaths(res))
		}
		return err
	}

	printSummary(out, spec, res)
	return nil
}

// newLogger picks the log mode: --quiet, then --log-file, then log_mode.
func newLogger(cmd *cobra.Command, cfg *config.Configuration, opts *createOptions) (*slog.Logger, io.Closer, error) {
	mode := logging.Mode(cfg.LogMode)
	dir := "."
	if opts.logDir != "" {
		mode = logging.ModeFile
		dir = opts.logDir
	}
	if opts.quiet {
		mode = logging.ModeQuiet
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}

	if mode == logging.ModeFile {
		resolved, err := shared.ResolvePath(dir)
		if err != nil {
			return nil, nil, err
		}
		dir = resolved
	}
	return logging.New(logging.Options{
		Mode:    mode,
		Level:   level,
		Console: cmd.ErrOrStderr(),
		Dir:     dir,
	})
}

// collectSpec builds the project spec from flags and configuration, or from
// the prompt flow when --interactive is set. Flags win over configuration.
func collectSpec(cmd *cobra.Command, args []string, cfg *config.Configuration, opts *createOptions) (project.Spec, error) {
	var name string
	if len(args) == 1 {
		name = args[0]
	}
	authorName := firstNonEmpty(opts.authorName, cfg.AuthorName)
	authorEmail := firstNonEmpty(opts.authorEmail, cfg.AuthorEmail)
	python := firstNonEmpty(opts.python, cfg.RequiresPython)

	if opts.interactive {
		out := cmd.OutOrStdout()
		if shared.IsTerminal(out) {
			shared.PrintBanner(out)
		}
		p := prompt.New(cmd.InOrStdin(), out, cfg.PromptMaxAttempts)
		return p.Run(prompt.Defaults{
			Name:                    name,
			Description:             opts.description,
			AuthorName:              authorName,
			AuthorEmail:             authorEmail,
			Version:                 cfg.Version,
			PythonVersionConstraint: python,
			Distributable:           opts.distributable,
		})
	}

	if name == "" {
		return project.Spec{}, clierrors.MissingProjectName()
	}
	return project.New(project.Spec{
		Name:                    name,
		AuthorName:              authorName,
		AuthorEmail:             authorEmail,
		Description:             opts.description,
		Version:                 cfg.Version,
		PythonVersionConstraint: python,
		Distributable:           opts.distributable,
	})
}

// manifestDefaults maps configuration onto manifest defaults and loads the
// optional manifest fragment. A fragment that cannot be merged into the
// manifest for spec is a configuration error.
func manifestDefaults(cfg *config.Configuration, opts *createOptions, spec project.Spec) (manifest.Defaults, error) {
	defaults := manifest.Defaults{
		Description:   cfg.Description,
		Dependencies:  cfg.Dependencies,
		BuildRequires: cfg.BuildRequires,
		BuildBackend:  cfg.BuildBackend,
	}

	path := firstNonEmpty(opts.manifestExtra, cfg.ManifestExtra)
	if path == "" {
		return defaults, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, clierrors.NewConfigError(
			fmt.Sprintf("failed to read manifest extra %s: %v", path, err),
			"Check the manifest_extra setting or the --manifest-extra flag",
		)
	}
	extra, err := manifest.Parse(data)
	if err != nil {
		return defaults, clierrors.NewConfigError(
			fmt.Sprintf("manifest extra %s cannot be used: %v", path, err),
			"Use [section] tables whose values are strings, string arrays or inline tables",
		)
	}
	defaults.Extra = extra

	var ferr *manifest.FragmentError
	if _, err := manifest.Build(spec, defaults); errors.As(err, &ferr) {
		return defaults, clierrors.NewConfigError(
			fmt.Sprintf("manifest extra %s cannot be used: %v", path, ferr),
			"Keep the values in manifest extra valid for pyproject.toml",
		)
	}
	return defaults, nil
}

func newDisplay(out io.Writer) *progress.Display {
	var caps progress.TerminalCapabilities
	if f, ok := out.(*os.File); ok {
		caps = progress.DetectTerminalCapabilities(f)
	}
	return progress.NewDisplay(out, caps)
}

func printSummary(out io.Writer, spec project.Spec, res *scaffold.Result) {
	colors := shared.NewColors()

	fmt.Fprintf(out, "\n%s Created project %s in %s\n", colors.Green("✓"), colors.Cyan(spec.Name), res.Root)
	for _, p := range res.Created {
		fmt.Fprintf(out, "  + %s\n", p)
	}
	for _, p := range res.Replaced {
		fmt.Fprintf(out, "  ~ %s\n", p)
	}
	if res.Repository != nil && res.Repository.Created {
		fmt.Fprintf(out, "  git repository initialized on branch %s\n", res.Repository.Branch)
	}
}

// writtenPaths lists what a run left on disk, the root first when the run
// created it.
func writtenPaths(res *scaffold.Result) []string {
	if !res.RootCreated {
		return res.Created
	}
	return append([]string{res.Root}, res.Created...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
