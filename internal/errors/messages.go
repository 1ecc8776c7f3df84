package errors

import (
	"fmt"
	"strings"
)

// FromError converts any error into a CLIError with remediation steps
// appropriate to its category. CLIErrors are returned unchanged.
func FromError(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	category := CategoryOf(err)
	cliErr := &CLIError{Category: category, Message: err.Error(), Err: err}

	switch category {
	case Validation:
		cliErr.Remediation = []string{
			"Project names may contain letters, digits, '.', '_' and '-'",
			"Names must start and end with a letter or digit and contain no path separators",
		}
	case TargetExists:
		cliErr.Remediation = []string{
			"Choose an empty directory with --dir",
			"Re-run with --force to replace the existing files",
		}
	case Serialization:
		cliErr.Remediation = []string{
			"This indicates a bug in pystrap; please report it with the command you ran",
		}
	}
	return cliErr
}

// MissingProjectName returns the error for a run without a project name.
func MissingProjectName() *CLIError {
	return NewArgumentErrorWithUsage(
		"project name is required",
		"pystrap <project_name> [flags]",
		"Pass the project name as the first argument",
		"Or run 'pystrap --interactive' to be prompted for it",
	)
}

// PromptAttemptsExhausted returns the error raised when a prompt answer
// stays invalid after the allowed number of attempts.
func PromptAttemptsExhausted(field string, attempts int, last error) *ValidationError {
	reason := fmt.Sprintf("no valid answer after %d attempts", attempts)
	if last != nil {
		reason = fmt.Sprintf("%s (last error: %v)", reason, last)
	}
	return NewValidationError(field, "", reason)
}

// ConfigParseError returns the error for an unreadable configuration file.
func ConfigParseError(path string, err error) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  fmt.Sprintf("failed to load config %s: %v", path, err),
		Remediation: []string{
			"Check that the file contains valid JSON",
			"Run 'pystrap config show' to see the effective configuration",
		},
		Err: err,
	}
}

// PartialWrite wraps a write failure with the list of paths that were
// created before it happened. Those paths are left on disk.
func PartialWrite(err error, created []string) *CLIError {
	cliErr := FromError(err)
	if len(created) == 0 {
		return cliErr
	}
	out := *cliErr
	out.Err = err
	out.Remediation = append([]string{
		"These paths were written before the failure and remain on disk: " + strings.Join(created, ", "),
	}, cliErr.Remediation...)
	return &out
}
