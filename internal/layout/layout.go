// Package layout plans the project file tree and writes it to disk.
package layout

import (
	"fmt"
	"path"
	"strings"

	"github.com/pystrap-dev/pystrap/internal/project"
)

// SetupPy is the content of setup.py for distributable projects.
const SetupPy = "from setuptools import setup\n\n\nif __name__ == '__main__':\n    setup()\n"

// Entry is a single directory or file in a layout. Path is slash-separated
// and relative to the write root.
type Entry struct {
	Path    string
	Dir     bool
	Content []byte
}

// Layout is an ordered list of entries. Directories must appear before the
// entries they contain.
type Layout struct {
	Entries []Entry
}

// AddDir appends a directory entry.
func (l *Layout) AddDir(p string) {
	l.Entries = append(l.Entries, Entry{Path: p, Dir: true})
}

// AddFile appends a file entry.
func (l *Layout) AddFile(p string, content []byte) {
	l.Entries = append(l.Entries, Entry{Path: p, Content: content})
}

// Validate checks that every path is a clean relative path, that no path
// repeats, and that each entry's parent is the root or an earlier
// directory entry.
func (l Layout) Validate() error {
	dirs := make(map[string]bool)
	seen := make(map[string]bool)
	for _, e := range l.Entries {
		if e.Path == "" || path.IsAbs(e.Path) || strings.Contains(e.Path, `\`) {
			return fmt.Errorf("entry %q: not a relative slash path", e.Path)
		}
		if path.Clean(e.Path) != e.Path || e.Path == "." || strings.HasPrefix(e.Path, "../") || e.Path == ".." {
			return fmt.Errorf("entry %q: path is not clean", e.Path)
		}
		if seen[e.Path] {
			return fmt.Errorf("entry %q: listed twice", e.Path)
		}
		seen[e.Path] = true

		if parent := path.Dir(e.Path); parent != "." && !dirs[parent] {
			return fmt.Errorf("entry %q: parent %q is not listed before it", e.Path, parent)
		}
		if e.Dir {
			if len(e.Content) > 0 {
				return fmt.Errorf("entry %q: directory with content", e.Path)
			}
			dirs[e.Path] = true
		}
	}
	return nil
}

// Plan returns the layout for spec:
//
//	src/<name>/__init__.py
//	tests/__init__.py
//	<manifestName>
//	setup.py (distributable projects only)
//
// The init files are empty.
func Plan(spec project.Spec, manifestName string, manifest []byte) (Layout, error) {
	if err := project.ValidateName(spec.Name); err != nil {
		return Layout{}, fmt.Errorf("project name %q: %w", spec.Name, err)
	}
	if manifestName == "" || strings.ContainsAny(manifestName, `/\`) {
		return Layout{}, fmt.Errorf("manifest file name %q must be a plain file name", manifestName)
	}

	var l Layout
	l.AddDir("src")
	l.AddDir("src/" + spec.Name)
	l.AddFile("src/"+spec.Name+"/__init__.py", nil)
	l.AddDir("tests")
	l.AddFile("tests/__init__.py", nil)
	l.AddFile(manifestName, manifest)
	if spec.Distributable {
		l.AddFile("setup.py", []byte(SetupPy))
	}

	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}
