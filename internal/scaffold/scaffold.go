// Package scaffold generates a project: it builds and renders the manifest,
// plans the file layout, writes it under a root and optionally initializes
// a git repository there.
package scaffold

import (
	"fmt"
	"log/slog"

	"github.com/pystrap-dev/pystrap/internal/git"
	"github.com/pystrap-dev/pystrap/internal/layout"
	"github.com/pystrap-dev/pystrap/internal/logging"
	"github.com/pystrap-dev/pystrap/internal/manifest"
	"github.com/pystrap-dev/pystrap/internal/progress"
	"github.com/pystrap-dev/pystrap/internal/project"
)

// DefaultManifestFile is the manifest name used when Options leaves it empty.
const DefaultManifestFile = "pyproject.toml"

// Progress receives step notifications. *progress.Display implements it.
type Progress interface {
	StartStep(step progress.StepInfo) error
	CompleteStep(step progress.StepInfo, detail string) error
	FailStep(step progress.StepInfo, err error) error
}

// Options configures a Generate call.
type Options struct {
	Spec         project.Spec
	Defaults     manifest.Defaults
	ManifestFile string
	Root         string
	Overwrite    bool
	InitGit      bool
	Logger       *slog.Logger
	Progress     Progress
}

// Result describes a run. On failure it still lists what was written.
type Result struct {
	Root        string
	RootCreated bool
	Manifest    []byte
	Created     []string
	Replaced    []string
	Repository  *git.InitResult
}

// Generate runs the scaffold steps in order and stops at the first failure.
// Paths written before a failure are left on disk and reported in Result.
func Generate(opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	manifestFile := opts.ManifestFile
	if manifestFile == "" {
		manifestFile = DefaultManifestFile
	}
	if opts.Root == "" {
		return nil, fmt.Errorf("scaffold root is not set")
	}

	total := 2
	if opts.InitGit {
		total++
	}
	steps := stepRunner{progress: opts.Progress, total: total}
	res := &Result{Root: opts.Root}

	var content []byte
	err := steps.run("build manifest", func() (string, error) {
		doc, err := manifest.Build(opts.Spec, opts.Defaults)
		if err != nil {
			return "", err
		}
		content, err = manifest.Serialize(doc)
		if err != nil {
			return "", err
		}
		logger.Debug("manifest rendered", "file", manifestFile, "bytes", len(content))
		return manifestFile, nil
	})
	if err != nil {
		return nil, err
	}
	res.Manifest = content

	if name, changed := opts.Spec.ImportName(); changed {
		logger.Warn("project name is not a valid Python import name",
			"name", opts.Spec.Name, "suggestion", name)
	}

	err = steps.run("write files", func() (string, error) {
		plan, err := layout.Plan(opts.Spec, manifestFile, content)
		if err != nil {
			return "", err
		}
		w := layout.Writer{Root: opts.Root, Overwrite: opts.Overwrite, Logger: logger}
		written, err := w.Write(plan)
		if written != nil {
			res.RootCreated = written.RootCreated
			res.Created = written.Created
			res.Replaced = written.Replaced
		}
		if err != nil {
			return "", err
		}
		logger.Info("project files written", "root", opts.Root,
			"created", len(res.Created), "replaced", len(res.Replaced))
		return writeSummary(written), nil
	})
	if err != nil {
		return res, err
	}

	if !opts.InitGit {
		return res, nil
	}
	err = steps.run("init repository", func() (string, error) {
		repo, err := git.InitRepository(opts.Root)
		if err != nil {
			return "", err
		}
		res.Repository = repo
		if !repo.Created {
			logger.Info("already inside a git repository, skipping init", "repository", repo.Root)
			return "existing repository at " + repo.Root, nil
		}
		logger.Info("git repository initialized", "root", repo.Root, "branch", repo.Branch)
		return "branch " + repo.Branch, nil
	})
	if err != nil {
		return res, err
	}
	return res, nil
}

func writeSummary(r *layout.Result) string {
	s := fmt.Sprintf("%d created", len(r.Created))
	if len(r.Replaced) > 0 {
		s += fmt.Sprintf(", %d replaced", len(r.Replaced))
	}
	return s
}

// stepRunner numbers steps and reports them to an optional Progress.
type stepRunner struct {
	progress Progress
	total    int
	number   int
}

func (s *stepRunner) run(name string, fn func() (string, error)) error {
	s.number++
	info := progress.StepInfo{Name: name, Number: s.number, TotalSteps: s.total}
	if s.progress != nil {
		if err := s.progress.StartStep(info); err != nil {
			return err
		}
	}

	detail, err := fn()
	if s.progress == nil {
		return err
	}
	if err != nil {
		_ = s.progress.FailStep(info, err)
		return err
	}
	return s.progress.CompleteStep(info, detail)
}
