// Package prompt_test tests the interactive question flow: defaults,
// re-asking on invalid answers, attempt limits and end of input.
// Related: internal/prompt/prompt.go
// Tags: prompt, interactive, validation, retry
package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/pystrap-dev/pystrap/internal/errors"
	"github.com/pystrap-dev/pystrap/internal/project"
)

func baseDefaults() Defaults {
	return Defaults{
		Version:                 "0.0.1",
		PythonVersionConstraint: ">=3.10",
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		defaults func() Defaults
		input    string
		want     project.Spec
	}{
		"all answers given": {
			defaults: baseDefaults,
			input:    "demo\nA demo\nAda\nada@example.com\n>=3.11\ny\n",
			want: project.Spec{
				Name: "demo", Description: "A demo", AuthorName: "Ada", AuthorEmail: "ada@example.com",
				Version: "0.0.1", PythonVersionConstraint: ">=3.11", Distributable: true,
			},
		},
		"defaults accepted": {
			defaults: func() Defaults {
				d := baseDefaults()
				d.Name = "fromarg"
				d.AuthorName = "Config Author"
				return d
			},
			input: "\n\n\n\n\n\n",
			want: project.Spec{
				Name: "fromarg", AuthorName: "Config Author",
				Version: "0.0.1", PythonVersionConstraint: ">=3.10",
			},
		},
		"optional default cleared": {
			defaults: func() Defaults {
				d := baseDefaults()
				d.AuthorEmail = "config@example.com"
				return d
			},
			input: "demo\n\n\n-\n\nn\n",
			want: project.Spec{
				Name: "demo", Version: "0.0.1", PythonVersionConstraint: ">=3.10",
			},
		},
		"input ends after required answers": {
			defaults: baseDefaults,
			input:    "demo",
			want: project.Spec{
				Name: "demo", Version: "0.0.1", PythonVersionConstraint: ">=3.10",
			},
		},
		"whitespace trimmed": {
			defaults: baseDefaults,
			input:    "  demo  \r\n  Described  \n\n\n\nYES\n",
			want: project.Spec{
				Name: "demo", Description: "Described",
				Version: "0.0.1", PythonVersionConstraint: ">=3.10", Distributable: true,
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			got, err := New(strings.NewReader(tt.input), &out, 3).Run(tt.defaults())
			require.NoError(t, err, out.String())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_ReasksOnInvalidAnswers(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"a/b",          // rejected name
		"demo",         // accepted
		"",             // description
		"",             // author name
		"not-an-email", // rejected email
		"ada@example.com",
		"python3", // rejected constraint
		">=3.12",
		"maybe", // rejected yes/no
		"no",
	}, "\n") + "\n"

	var out bytes.Buffer
	got, err := New(strings.NewReader(input), &out, 3).Run(baseDefaults())
	require.NoError(t, err)

	assert.Equal(t, "demo", got.Name)
	assert.Equal(t, "ada@example.com", got.AuthorEmail)
	assert.Equal(t, ">=3.12", got.PythonVersionConstraint)
	assert.False(t, got.Distributable)

	printed := out.String()
	assert.Equal(t, 2, strings.Count(printed, "Project name: "))
	assert.Contains(t, printed, "must not contain path separators")
	assert.Contains(t, printed, "must look like user@domain.tld")
	assert.Contains(t, printed, "not a version constraint")
	assert.Contains(t, printed, `answer "maybe" is not yes or no`)
	assert.Equal(t, 4, strings.Count(printed, "✗"))
}

func TestRun_AttemptsExhausted(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input       string
		maxAttempts int
		wantField   string
	}{
		"name": {
			input:       "a/b\n../x\nc\\d\n",
			maxAttempts: 3,
			wantField:   "project name",
		},
		"single attempt": {
			input:       "a/b\ndemo\n",
			maxAttempts: 1,
			wantField:   "project name",
		},
		"required left empty": {
			input:       "\n\n",
			maxAttempts: 2,
			wantField:   "project name",
		},
		"email": {
			input:       "demo\n\n\nx\ny\nz\n",
			maxAttempts: 3,
			wantField:   "author email",
		},
		"distributable": {
			input:       "demo\n\n\n\n\nmaybe\nperhaps\n",
			maxAttempts: 2,
			wantField:   "distributable",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			_, err := New(strings.NewReader(tt.input), &out, tt.maxAttempts).Run(baseDefaults())
			require.Error(t, err)

			var verr *clierrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Contains(t, verr.Reason, "attempts")
		})
	}
}

func TestRun_EndOfInput(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input      string
		wantField  string
		wantReason string
	}{
		"no input": {
			input:      "",
			wantField:  "project name",
			wantReason: "input ended",
		},
		"invalid answer then end": {
			input:      "a/b",
			wantField:  "project name",
			wantReason: "input ended",
		},
		"invalid default at end": {
			input:      "demo\n\n\n\n",
			wantField:  "python version constraint",
			wantReason: "not a version constraint",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			d := baseDefaults()
			if tt.wantField == "python version constraint" {
				d.PythonVersionConstraint = "python3"
			}
			_, err := New(strings.NewReader(tt.input), &out, 3).Run(d)
			require.Error(t, err)

			var verr *clierrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Contains(t, verr.Reason, tt.wantReason)
		})
	}
}

func TestRun_ShowsDefaults(t *testing.T) {
	t.Parallel()

	d := baseDefaults()
	d.Name = "demo"
	d.Distributable = true

	var out bytes.Buffer
	_, err := New(strings.NewReader("\n\n\n\n\n\n"), &out, 3).Run(d)
	require.NoError(t, err)

	printed := out.String()
	assert.Contains(t, printed, "Project name [demo]: ")
	assert.Contains(t, printed, "Python version constraint [>=3.10]: ")
	assert.Contains(t, printed, "[Y/n]: ")
}

func TestNew_ClampsAttempts(t *testing.T) {
	t.Parallel()
	p := New(strings.NewReader(""), &bytes.Buffer{}, 0)
	assert.Equal(t, 1, p.maxAttempts)
}
