// Package layout_test tests writing layouts to disk, collision handling and
// partial failure reporting.
// Related: internal/layout/writer.go
// Tags: layout, writer, filesystem, collisions, overwrite
package layout

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/pystrap-dev/pystrap/internal/errors"
	"github.com/pystrap-dev/pystrap/internal/project"
)

func demoLayout(t *testing.T) Layout {
	t.Helper()
	l, err := Plan(project.Spec{Name: "demo"}, "pyproject.toml", []byte("[project]\nname = \"demo\"\n"))
	require.NoError(t, err)
	return l
}

func TestWriter_Write_Fresh(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "out")
	res, err := Writer{Root: root}.Write(demoLayout(t))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"src", "src/demo", "tests",
		"src/demo/__init__.py", "tests/__init__.py", "pyproject.toml",
	}, res.Created)
	assert.Empty(t, res.Replaced)
	assert.True(t, res.RootCreated)

	data, err := os.ReadFile(filepath.Join(root, "src", "demo", "__init__.py"))
	require.NoError(t, err)
	assert.Empty(t, data)

	data, err = os.ReadFile(filepath.Join(root, "pyproject.toml"))
	require.NoError(t, err)
	assert.Equal(t, "[project]\nname = \"demo\"\n", string(data))

	info, err := os.Stat(filepath.Join(root, "pyproject.toml"))
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	}

	// No temp files left behind.
	matches, err := filepath.Glob(filepath.Join(root, ".pystrap-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestWriter_Write_ReusesDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tests"), 0o755))

	res, err := Writer{Root: root}.Write(demoLayout(t))
	require.NoError(t, err)
	assert.False(t, res.RootCreated)
	assert.NotContains(t, res.Created, "src")
	assert.NotContains(t, res.Created, "tests")
	assert.Contains(t, res.Created, "src/demo")
}

func TestWriter_Write_Collisions(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setup     func(t *testing.T, root string)
		overwrite bool
		wantPaths []string
	}{
		"existing manifest": {
			setup: func(t *testing.T, root string) {
				writeFile(t, filepath.Join(root, "pyproject.toml"), "keep")
			},
			wantPaths: []string{"pyproject.toml"},
		},
		"several files": {
			setup: func(t *testing.T, root string) {
				require.NoError(t, os.MkdirAll(filepath.Join(root, "tests"), 0o755))
				writeFile(t, filepath.Join(root, "tests", "__init__.py"), "keep")
				writeFile(t, filepath.Join(root, "pyproject.toml"), "keep")
			},
			wantPaths: []string{"tests/__init__.py", "pyproject.toml"},
		},
		"file where directory goes": {
			setup: func(t *testing.T, root string) {
				writeFile(t, filepath.Join(root, "src"), "keep")
			},
			wantPaths: []string{"src"},
		},
		"directory where file goes, even with overwrite": {
			setup: func(t *testing.T, root string) {
				require.NoError(t, os.MkdirAll(filepath.Join(root, "pyproject.toml"), 0o755))
			},
			overwrite: true,
			wantPaths: []string{"pyproject.toml"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			tt.setup(t, root)

			res, err := Writer{Root: root, Overwrite: tt.overwrite}.Write(demoLayout(t))
			require.Error(t, err)
			assert.Nil(t, res)

			var terr *clierrors.TargetExistsError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.wantPaths, terr.Paths)
			assert.Equal(t, clierrors.TargetExists, clierrors.CategoryOf(err))
		})
	}
}

func TestWriter_Write_ExistingFileUntouched(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	manifest := filepath.Join(root, "pyproject.toml")
	writeFile(t, manifest, "keep")

	_, err := Writer{Root: root}.Write(demoLayout(t))
	require.Error(t, err)

	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestWriter_Write_Overwrite(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pyproject.toml"), "old")

	res, err := Writer{Root: root, Overwrite: true}.Write(demoLayout(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"pyproject.toml"}, res.Replaced)
	assert.NotContains(t, res.Created, "pyproject.toml")

	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	require.NoError(t, err)
	assert.Equal(t, "[project]\nname = \"demo\"\n", string(data))
}

func TestWriter_Write_PartialFailure(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("requires non-root POSIX permissions")
	}

	root := t.TempDir()
	var l Layout
	l.AddDir("pkg")
	l.AddFile("pkg/a.txt", []byte("a"))
	l.AddDir("locked")
	l.AddFile("locked/b.txt", []byte("b"))

	// Make "locked" read-only once it exists by pre-creating it.
	require.NoError(t, os.Mkdir(filepath.Join(root, "locked"), 0o555))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(root, "locked"), 0o755) })

	res, err := Writer{Root: root}.Write(l)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"pkg", "pkg/a.txt"}, res.Created)
	assert.Contains(t, err.Error(), "locked/b.txt")

	_, statErr := os.Stat(filepath.Join(root, "pkg", "a.txt"))
	assert.NoError(t, statErr)
}

func TestWriter_Write_RootCreated(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		root        func(t *testing.T) string
		wantCreated bool
	}{
		"existing root": {
			root:        func(t *testing.T) string { return t.TempDir() },
			wantCreated: false,
		},
		"missing root": {
			root:        func(t *testing.T) string { return filepath.Join(t.TempDir(), "out") },
			wantCreated: true,
		},
		"missing nested root": {
			root:        func(t *testing.T) string { return filepath.Join(t.TempDir(), "a", "b") },
			wantCreated: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := tt.root(t)
			res, err := Writer{Root: root}.Write(demoLayout(t))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, res.RootCreated)
			assert.DirExists(t, root)
		})
	}
}

func TestWriter_Write_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Writer{}.Write(demoLayout(t))
	assert.Error(t, err)

	bad := Layout{Entries: []Entry{{Path: "a/b"}}}
	_, err = Writer{Root: t.TempDir()}.Write(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid layout")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
