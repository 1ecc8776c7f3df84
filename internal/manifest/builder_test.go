// Package manifest_test tests manifest construction from a project spec.
// Related: internal/manifest/builder.go
// Tags: manifest, builder, pyproject, defaults
package manifest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/pystrap-dev/pystrap/internal/errors"
	"github.com/pystrap-dev/pystrap/internal/project"
)

func demoSpec() project.Spec {
	return project.Spec{
		Name:                    "demo",
		Version:                 "0.0.1",
		PythonVersionConstraint: ">=3.10",
	}
}

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()

	doc, err := Build(demoSpec(), Defaults{})
	require.NoError(t, err)

	assert.Equal(t, []string{"project", "build-system"}, doc.Sections())

	proj, ok := doc.Lookup("project")
	require.True(t, ok)
	assert.Equal(t, []string{"name", "version", "description", "requires-python", "dependencies"}, proj.Keys())
	assertString(t, proj, "name", "demo")
	assertString(t, proj, "version", "0.0.1")
	assertString(t, proj, "description", DefaultDescription)
	assertString(t, proj, "requires-python", ">=3.10")
	deps, _ := proj.Get("dependencies")
	assert.Equal(t, []string{}, deps)

	bs, ok := doc.Lookup("build-system")
	require.True(t, ok)
	requires, _ := bs.Get("requires")
	assert.Equal(t, []string{"setuptools>=42", "wheel"}, requires)
	assertString(t, bs, "build-backend", DefaultBuildBackend)
}

func TestBuild_NameMatchesInput(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"demo", "my-project", "acme.tools", "x", "Pkg_2"} {
		spec := demoSpec()
		spec.Name = name
		doc, err := Build(spec, Defaults{})
		require.NoError(t, err, name)
		proj, _ := doc.Lookup("project")
		assertString(t, proj, "name", name)
	}
}

func TestBuild_Authors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		authorName  string
		authorEmail string
		wantKeys    []string
		wantPeople  bool
	}{
		"neither":    {wantPeople: false},
		"name only":  {authorName: "Ada", wantKeys: []string{"name"}, wantPeople: true},
		"email only": {authorEmail: "ada@example.com", wantKeys: []string{"email"}, wantPeople: true},
		"both":       {authorName: "Ada", authorEmail: "ada@example.com", wantKeys: []string{"name", "email"}, wantPeople: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			spec := demoSpec()
			spec.AuthorName = tt.authorName
			spec.AuthorEmail = tt.authorEmail

			doc, err := Build(spec, Defaults{})
			require.NoError(t, err)
			proj, _ := doc.Lookup("project")

			for _, key := range []string{"authors", "maintainers"} {
				v, ok := proj.Get(key)
				if !tt.wantPeople {
					assert.False(t, ok, key)
					continue
				}
				require.True(t, ok, key)
				people, ok := v.([]*Table)
				require.True(t, ok)
				require.Len(t, people, 1)
				assert.Equal(t, tt.wantKeys, people[0].Keys())
			}
			if tt.wantPeople {
				assert.Equal(t,
					[]string{"name", "version", "description", "authors", "maintainers", "requires-python", "dependencies"},
					proj.Keys())
			}
		})
	}
}

func TestBuild_ConfiguredDefaults(t *testing.T) {
	t.Parallel()

	spec := demoSpec()
	deps := []string{"requests>=2"}
	doc, err := Build(spec, Defaults{
		Description:   "Configured",
		Dependencies:  deps,
		BuildRequires: []string{"hatchling"},
		BuildBackend:  "hatchling.build",
	})
	require.NoError(t, err)

	proj, _ := doc.Lookup("project")
	assertString(t, proj, "description", "Configured")
	got, _ := proj.Get("dependencies")
	assert.Equal(t, deps, got)

	// The document does not alias the caller's slice.
	deps[0] = "changed"
	got, _ = proj.Get("dependencies")
	assert.Equal(t, []string{"requests>=2"}, got)

	bs, _ := doc.Lookup("build-system")
	assertString(t, bs, "build-backend", "hatchling.build")
}

func TestBuild_SpecDescriptionWins(t *testing.T) {
	t.Parallel()

	spec := demoSpec()
	spec.Description = "Mine"
	doc, err := Build(spec, Defaults{Description: "Configured"})
	require.NoError(t, err)
	proj, _ := doc.Lookup("project")
	assertString(t, proj, "description", "Mine")
}

func TestBuild_Extra(t *testing.T) {
	t.Parallel()

	extra := NewDocument()
	extra.Section("project").
		Set("name", "hijacked").
		Set("dependencies", []string{"click"}).
		Set("urls", NewTable().Set("Homepage", "https://example.com"))
	extra.Section("tool.pytest.ini_options").Set("testpaths", []string{"tests"})

	doc, err := Build(demoSpec(), Defaults{Extra: extra})
	require.NoError(t, err)

	assert.Equal(t, []string{"project", "build-system", "tool.pytest.ini_options"}, doc.Sections())
	proj, _ := doc.Lookup("project")
	assertString(t, proj, "name", "demo")
	deps, _ := proj.Get("dependencies")
	assert.Equal(t, []string{"click"}, deps)
	assert.Equal(t, "urls", proj.Keys()[len(proj.Keys())-1])
}

func TestBuild_InvalidSpec(t *testing.T) {
	t.Parallel()

	spec := demoSpec()
	spec.Name = "a/b"
	_, err := Build(spec, Defaults{})
	require.Error(t, err)
	var verr *clierrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBuild_FragmentBreaksSchema(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		extra    func() *Document
		wantPath string
	}{
		"empty build backend": {
			extra: func() *Document {
				d := NewDocument()
				d.Section("build-system").Set("build-backend", "")
				return d
			},
			wantPath: "/build-system/build-backend",
		},
		"dependencies as a string": {
			extra: func() *Document {
				d := NewDocument()
				d.Section("project").Set("dependencies", "requests")
				return d
			},
			wantPath: "/project/dependencies",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Build(demoSpec(), Defaults{Extra: tt.extra()})
			require.Error(t, err)
			var ferr *FragmentError
			require.ErrorAs(t, err, &ferr)
			assert.NotEmpty(t, ferr.Issues)
			assert.Contains(t, err.Error(), tt.wantPath)

			var serr *clierrors.SerializationError
			assert.False(t, errors.As(err, &serr))
		})
	}
}

func assertString(t *testing.T, table *Table, key, want string) {
	t.Helper()
	v, ok := table.Get(key)
	require.True(t, ok, "missing key %s", key)
	assert.Equal(t, want, v, key)
}
