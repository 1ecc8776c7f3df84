package cli

import (
	"github.com/pystrap-dev/pystrap/internal/cli/shared"
)

// Exit codes for the pystrap CLI (re-exported from shared)
const (
	// ExitSuccess indicates the project was created
	ExitSuccess = shared.ExitSuccess

	// ExitValidation indicates invalid user input or arguments
	ExitValidation = shared.ExitValidation

	// ExitTargetExists indicates a generated path already exists
	ExitTargetExists = shared.ExitTargetExists

	// ExitSerialization indicates the manifest could not be rendered
	ExitSerialization = shared.ExitSerialization

	// ExitConfig indicates an unreadable or invalid configuration
	ExitConfig = shared.ExitConfig

	// ExitRuntime indicates any other failure
	ExitRuntime = shared.ExitRuntime
)

// ExitCode returns the exit code from an error (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
