// Package progress_test tests step display rendering, counters, marks and spinner lifecycle.
// Related: internal/progress/display.go
// Tags: progress, display, rendering, steps, spinner, tty
package progress_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pystrap-dev/pystrap/internal/progress"
)

func TestDisplay_StartStep(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		step    progress.StepInfo
		wantErr bool
	}{
		"valid":             {step: progress.StepInfo{Name: "write files", Number: 1, TotalSteps: 3}},
		"empty name":        {step: progress.StepInfo{Number: 1, TotalSteps: 3}, wantErr: true},
		"zero number":       {step: progress.StepInfo{Name: "x", Number: 0, TotalSteps: 3}, wantErr: true},
		"zero total":        {step: progress.StepInfo{Name: "x", Number: 1, TotalSteps: 0}, wantErr: true},
		"number over total": {step: progress.StepInfo{Name: "x", Number: 4, TotalSteps: 3}, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			d := progress.NewDisplay(&out, progress.TerminalCapabilities{})
			err := d.StartStep(tt.step)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			// Non-TTY start prints nothing; only results are shown.
			assert.Empty(t, out.String())
			d.StopSpinner()
		})
	}
}

func TestDisplay_CompleteStep(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps         progress.TerminalCapabilities
		detail       string
		wantContains []string
		wantAbsent   []string
	}{
		"ascii without detail": {
			caps:         progress.TerminalCapabilities{},
			wantContains: []string{"[OK]", "[2/3]", "Write files\n"},
		},
		"unicode with detail": {
			caps:         progress.TerminalCapabilities{SupportsUnicode: true},
			detail:       "6 paths created",
			wantContains: []string{"✓", "[2/3] Write files: 6 paths created"},
			wantAbsent:   []string{"\033[32m"},
		},
		"unicode with color": {
			caps:         progress.TerminalCapabilities{SupportsUnicode: true, SupportsColor: true},
			wantContains: []string{"\033[32m✓\033[0m"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			d := progress.NewDisplay(&out, tt.caps)
			step := progress.StepInfo{Name: "write files", Number: 2, TotalSteps: 3}
			require.NoError(t, d.StartStep(step))
			require.NoError(t, d.CompleteStep(step, tt.detail))

			for _, want := range tt.wantContains {
				assert.Contains(t, out.String(), want)
			}
			for _, absent := range tt.wantAbsent {
				assert.NotContains(t, out.String(), absent)
			}
		})
	}
}

func TestDisplay_FailStep(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	d := progress.NewDisplay(&out, progress.TerminalCapabilities{})
	step := progress.StepInfo{Name: "init repository", Number: 3, TotalSteps: 3}
	require.NoError(t, d.StartStep(step))
	require.NoError(t, d.FailStep(step, errors.New("permission denied")))

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "[FAIL] [3/3] Init repository failed: permission denied"), got)
}

func TestDisplay_SpinnerLifecycle(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	d := progress.NewDisplay(&out, progress.TerminalCapabilities{IsTTY: true, SupportsUnicode: true})
	step := progress.StepInfo{Name: "build manifest", Number: 1, TotalSteps: 2}

	require.NoError(t, d.StartStep(step))
	d.StopSpinner()
	d.StopSpinner() // stopping twice is a no-op
	require.NoError(t, d.CompleteStep(step, ""))
	assert.Contains(t, out.String(), "Build manifest")
}
