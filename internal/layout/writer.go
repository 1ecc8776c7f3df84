package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	clierrors "github.com/pystrap-dev/pystrap/internal/errors"
	"github.com/pystrap-dev/pystrap/internal/logging"
)

// Writer writes layouts under Root. Root is used as given; the writer
// never consults the process working directory.
type Writer struct {
	Root      string
	Overwrite bool
	Logger    *slog.Logger
}

// Result lists what a Write call changed, as layout paths in write order.
// RootCreated is set when Root itself did not exist before the call.
type Result struct {
	Created     []string
	Replaced    []string
	RootCreated bool
}

type action int

const (
	actionCreate action = iota
	actionReuse
	actionReplace
)

// Write checks every entry for collisions, then creates directories and
// writes files.
//
// Existing files collide unless Overwrite is set. An existing path whose
// type differs from the entry always collides. Existing directories are
// reused. All collisions are reported together in a TargetExistsError and
// nothing is written.
//
// On a failure part way through, the returned Result still lists what was
// created; those paths are left in place.
func (w Writer) Write(l Layout) (*Result, error) {
	logger := w.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if w.Root == "" {
		return nil, errors.New("write root is not set")
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	plan, err := w.check(l)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	_, statErr := os.Stat(w.Root)
	if err := os.MkdirAll(w.Root, 0o755); err != nil {
		return res, fmt.Errorf("creating root %s: %w", w.Root, err)
	}
	if errors.Is(statErr, fs.ErrNotExist) {
		res.RootCreated = true
		logger.Debug("created root", "path", w.Root)
	}

	for i, e := range l.Entries {
		if !e.Dir || plan[i] == actionReuse {
			continue
		}
		if err := os.Mkdir(w.abs(e.Path), 0o755); err != nil {
			return res, fmt.Errorf("creating directory %s: %w", e.Path, err)
		}
		res.Created = append(res.Created, e.Path)
		logger.Debug("created directory", "path", e.Path)
	}

	for i, e := range l.Entries {
		if e.Dir {
			continue
		}
		if err := writeAtomically(w.abs(e.Path), e.Content); err != nil {
			return res, fmt.Errorf("writing %s: %w", e.Path, err)
		}
		if plan[i] == actionReplace {
			res.Replaced = append(res.Replaced, e.Path)
			logger.Debug("replaced file", "path", e.Path)
			continue
		}
		res.Created = append(res.Created, e.Path)
		logger.Debug("created file", "path", e.Path, "bytes", len(e.Content))
	}
	return res, nil
}

// check decides the action for each entry and gathers collisions.
func (w Writer) check(l Layout) ([]action, error) {
	plan := make([]action, len(l.Entries))
	var collisions []string
	// Directories that do not exist yet, or that collided; nothing below
	// them is on disk.
	absent := make(map[string]bool)
	for i, e := range l.Entries {
		if absent[path.Dir(e.Path)] {
			plan[i] = actionCreate
			absent[e.Path] = true
			continue
		}
		info, err := os.Lstat(w.abs(e.Path))
		if errors.Is(err, fs.ErrNotExist) {
			plan[i] = actionCreate
			absent[e.Path] = true
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", e.Path, err)
		}

		switch {
		case e.Dir && info.IsDir():
			plan[i] = actionReuse
		case !e.Dir && info.Mode().IsRegular() && w.Overwrite:
			plan[i] = actionReplace
		default:
			collisions = append(collisions, e.Path)
			absent[e.Path] = true
		}
	}
	if len(collisions) > 0 {
		return nil, clierrors.NewTargetExistsError(collisions...)
	}
	return plan, nil
}

func (w Writer) abs(p string) string {
	return filepath.Join(w.Root, filepath.FromSlash(p))
}

// writeAtomically writes content to a temp file in the target directory
// and renames it into place.
func writeAtomically(target string, content []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(target), ".pystrap-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		// Clean up temp file on error
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()
	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing to temp file: %w", err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		tmpFile.Close()
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	tmpPath = "" // Prevent cleanup since rename succeeded
	return nil
}
