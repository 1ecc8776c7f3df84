package manifest

import (
	clierrors "github.com/pystrap-dev/pystrap/internal/errors"
	"github.com/pystrap-dev/pystrap/internal/project"
)

// Built-in manifest defaults, used for any Defaults field left empty.
const (
	DefaultDescription  = "This project has been created with pystrap."
	DefaultBuildBackend = "setuptools.build_meta"
)

// DefaultBuildRequires returns the default build-system requirements.
func DefaultBuildRequires() []string {
	return []string{"setuptools>=42", "wheel"}
}

// Defaults carries the configured values the builder falls back to.
type Defaults struct {
	Description   string
	Dependencies  []string
	BuildRequires []string
	BuildBackend  string

	// Extra is merged over the generated document before it is checked.
	// project.name always keeps Spec.Name.
	Extra *Document
}

// FragmentError reports a Defaults.Extra document whose merge breaks the
// manifest schema. The generated manifest on its own was valid.
type FragmentError struct {
	Issues []SchemaIssue
}

func (e *FragmentError) Error() string {
	return "fragment breaks the manifest: " + joinIssues(e.Issues)
}

// Build assembles the manifest for spec:
//
//	[project]
//	name, version, description, authors?, maintainers?, requires-python, dependencies
//	[build-system]
//	requires, build-backend
//
// The result is checked against the embedded schema before it is returned.
// A violation introduced by Defaults.Extra is a *FragmentError; any other
// violation is a SerializationError.
func Build(spec project.Spec, defaults Defaults) (*Document, error) {
	spec, err := project.New(spec)
	if err != nil {
		return nil, err
	}

	description := spec.Description
	if description == "" {
		description = defaults.Description
	}
	if description == "" {
		description = DefaultDescription
	}
	buildRequires := defaults.BuildRequires
	if len(buildRequires) == 0 {
		buildRequires = DefaultBuildRequires()
	}
	backend := defaults.BuildBackend
	if backend == "" {
		backend = DefaultBuildBackend
	}

	doc := NewDocument()
	proj := doc.Section("project")
	proj.Set("name", spec.Name).
		Set("version", spec.Version).
		Set("description", description)
	if people := contacts(spec); people != nil {
		proj.Set("authors", people)
		proj.Set("maintainers", contacts(spec))
	}
	proj.Set("requires-python", spec.PythonVersionConstraint).
		Set("dependencies", cloneStrings(defaults.Dependencies))

	doc.Section("build-system").
		Set("requires", cloneStrings(buildRequires)).
		Set("build-backend", backend)

	if err := CheckSchema(doc); err != nil {
		return nil, err
	}
	if defaults.Extra == nil {
		return doc, nil
	}

	doc.Merge(defaults.Extra)
	proj.Set("name", spec.Name)
	issues, err := ValidateSchema(doc)
	if err != nil {
		return nil, &clierrors.SerializationError{Reason: "schema check failed", Err: err}
	}
	if len(issues) > 0 {
		return nil, &FragmentError{Issues: issues}
	}
	return doc, nil
}

// contacts returns the single-entry people list for authors/maintainers,
// or nil when neither author field is set.
func contacts(spec project.Spec) []*Table {
	if spec.AuthorName == "" && spec.AuthorEmail == "" {
		return nil
	}
	person := NewTable()
	if spec.AuthorName != "" {
		person.Set("name", spec.AuthorName)
	}
	if spec.AuthorEmail != "" {
		person.Set("email", spec.AuthorEmail)
	}
	return []*Table{person}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
