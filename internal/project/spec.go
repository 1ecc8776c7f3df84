// Package project holds the validated description of the project to scaffold.
package project

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/stoewer/go-strcase"

	clierrors "github.com/pystrap-dev/pystrap/internal/errors"
)

// Spec is the immutable input to manifest building and layout planning.
// Construct it with New; the zero value is not valid.
type Spec struct {
	Name                    string `validate:"required,projectname"`
	AuthorName              string
	AuthorEmail             string `validate:"omitempty,email"`
	Description             string
	Version                 string `validate:"required,release"`
	PythonVersionConstraint string `validate:"required,pyconstraint"`
	Distributable           bool
}

var (
	namePattern   = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)
	importPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("projectname", func(fl validator.FieldLevel) bool {
		return ValidateName(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("release", func(fl validator.FieldLevel) bool {
		return ValidateVersion(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("pyconstraint", func(fl validator.FieldLevel) bool {
		return ValidateConstraint(fl.Field().String()) == nil
	})
	return v
}

// New trims and validates the given fields and returns the resulting Spec.
// Any failure is a *errors.ValidationError naming the offending field.
func New(s Spec) (Spec, error) {
	s.Name = strings.TrimSpace(s.Name)
	s.AuthorName = strings.TrimSpace(s.AuthorName)
	s.AuthorEmail = strings.TrimSpace(s.AuthorEmail)
	s.Description = strings.TrimSpace(s.Description)
	s.Version = strings.TrimSpace(s.Version)
	s.PythonVersionConstraint = strings.TrimSpace(s.PythonVersionConstraint)

	if err := validate.Struct(s); err != nil {
		return Spec{}, toValidationError(s, err)
	}
	return s, nil
}

func toValidationError(s Spec, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return clierrors.NewValidationError("project", "", err.Error())
	}
	fe := verrs[0]
	switch fe.StructField() {
	case "Name":
		if fe.Tag() == "required" {
			return clierrors.NewValidationError("project name", "", "must not be empty")
		}
		return clierrors.NewValidationError("project name", s.Name, ValidateName(s.Name).Error())
	case "AuthorEmail":
		return clierrors.NewValidationError("author email", s.AuthorEmail, ValidateEmail(s.AuthorEmail).Error())
	case "Version":
		if fe.Tag() == "required" {
			return clierrors.NewValidationError("version", "", "must not be empty")
		}
		return clierrors.NewValidationError("version", s.Version, ValidateVersion(s.Version).Error())
	case "PythonVersionConstraint":
		if fe.Tag() == "required" {
			return clierrors.NewValidationError("python version constraint", "", "must not be empty")
		}
		return clierrors.NewValidationError("python version constraint", s.PythonVersionConstraint,
			ValidateConstraint(s.PythonVersionConstraint).Error())
	default:
		return clierrors.NewValidationError(fe.Field(), fmt.Sprint(fe.Value()), fe.Tag())
	}
}

// ValidateName reports why name cannot be used as a project directory and
// distribution name, or nil if it can.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("must not be empty")
	case strings.ContainsAny(name, `/\`):
		return errors.New("must not contain path separators")
	case name == "." || name == "..":
		return errors.New("must not be a relative path")
	case !namePattern.MatchString(name):
		return errors.New("must start and end with a letter or digit and contain only letters, digits, '.', '_' or '-'")
	}
	return nil
}

// ValidateEmail reports whether email looks like user@domain.tld.
// The empty string is accepted; the email is optional.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if err := validate.Var(email, "email"); err != nil {
		return errors.New("must look like user@domain.tld")
	}
	return nil
}

// ValidateVersion reports whether v is a usable release version. PEP 440
// forms such as "1.0rc1", "0.1.dev0" and "1.0.post2" are accepted.
func ValidateVersion(v string) error {
	if _, err := semver.NewVersion(toSemver(v)); err != nil {
		return fmt.Errorf("not a release version: %w", err)
	}
	return nil
}

// ValidateConstraint checks a requires-python style constraint such as
// ">=3.10" or "~=3.11, !=3.11.2".
func ValidateConstraint(c string) error {
	if strings.TrimSpace(c) == "" {
		return errors.New("must not be empty")
	}
	if _, err := semver.NewConstraint(normalizeConstraint(c)); err != nil {
		return fmt.Errorf("not a version constraint: %w", err)
	}
	return nil
}

// normalizeConstraint rewrites the PEP 440 operators semver does not know
// into their closest equivalents and the versions in each clause into
// semver form. Wildcards like "==3.*" map onto "=3.*".
func normalizeConstraint(c string) string {
	c = strings.ReplaceAll(c, "~=", "~")
	c = strings.ReplaceAll(c, "===", "=")
	c = strings.ReplaceAll(c, "==", "=")

	clauses := strings.Split(c, ",")
	for i, clause := range clauses {
		m := clausePattern.FindStringSubmatch(strings.TrimSpace(clause))
		if m == nil {
			clauses[i] = strings.TrimSpace(clause)
			continue
		}
		clauses[i] = m[1] + toSemver(m[2])
	}
	return strings.Join(clauses, ", ")
}

var (
	clausePattern = regexp.MustCompile(`^(!=|>=|<=|=|>|<|~|\^)?\s*(\S+)$`)
	pep440Pattern = regexp.MustCompile(`(?i)^v?(\d+(?:\.\d+)*)` +
		`(?:[-_.]?(alpha|beta|preview|pre|rc|a|b|c)[-_.]?(\d*))?` +
		`(?:-(\d+)|[-_.]?(post|rev|r)[-_.]?(\d*))?` +
		`(?:[-_.]?(dev)[-_.]?(\d*))?` +
		`(?:\+([a-z0-9]+(?:[-_.][a-z0-9]+)*))?$`)
)

// toSemver rewrites a PEP 440 version into the semver form used for
// checking: pre and dev parts become prerelease identifiers, post and
// local parts become build metadata. Anything else is returned unchanged.
func toSemver(v string) string {
	m := pep440Pattern.FindStringSubmatch(v)
	if m == nil {
		return v
	}
	release := strings.Split(m[1], ".")
	if len(release) > 3 {
		release = release[:3]
	}
	for i, seg := range release {
		release[i] = number(seg)
	}

	var pre, build []string
	if m[2] != "" {
		label := strings.ToLower(m[2])
		switch label {
		case "alpha":
			label = "a"
		case "beta":
			label = "b"
		case "c", "pre", "preview":
			label = "rc"
		}
		pre = append(pre, label, number(m[3]))
	}
	switch {
	case m[4] != "":
		build = append(build, "post", number(m[4]))
	case m[5] != "":
		build = append(build, "post", number(m[6]))
	}
	if m[7] != "" {
		pre = append(pre, "dev", number(m[8]))
	}
	if m[9] != "" {
		build = append(build, strings.FieldsFunc(strings.ToLower(m[9]), func(r rune) bool {
			return r == '-' || r == '_' || r == '.'
		})...)
	}

	out := strings.Join(release, ".")
	if len(pre) > 0 {
		out += "-" + strings.Join(pre, ".")
	}
	if len(build) > 0 {
		out += "+" + strings.Join(build, ".")
	}
	return out
}

// number drops leading zeros, which semver rejects in numeric segments.
// An empty number is 0.
func number(s string) string {
	if s = strings.TrimLeft(s, "0"); s == "" {
		return "0"
	}
	return s
}

// ImportName returns the name the package is imported under in Python and
// whether it differs from the project name.
func (s Spec) ImportName() (string, bool) {
	if importPattern.MatchString(s.Name) {
		return s.Name, false
	}
	return strcase.SnakeCase(strings.ReplaceAll(s.Name, ".", "_")), true
}
