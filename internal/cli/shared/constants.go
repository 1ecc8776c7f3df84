// Package shared provides constants and helpers used across CLI subpackages.
// This package has no dependencies on other CLI packages to avoid circular imports.
package shared

import (
	clierrors "github.com/pystrap-dev/pystrap/internal/errors"
)

// Command group IDs for organizing help output
const (
	GroupProject       = "project"
	GroupConfiguration = "configuration"
)

// Exit codes for CLI commands
const (
	ExitSuccess       = 0
	ExitValidation    = 1
	ExitTargetExists  = 2
	ExitSerialization = 3
	ExitConfig        = 4
	ExitRuntime       = 5
)

// ExitCode returns the process exit code for an error returned by a command.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch clierrors.CategoryOf(err) {
	case clierrors.Validation:
		return ExitValidation
	case clierrors.TargetExists:
		return ExitTargetExists
	case clierrors.Serialization:
		return ExitSerialization
	case clierrors.Configuration:
		return ExitConfig
	default:
		return ExitRuntime
	}
}
