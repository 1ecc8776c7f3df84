// Package errors provides the pystrap error taxonomy and structured CLI error output.
//
// Three error types describe what can go wrong while scaffolding a project:
// ValidationError (bad user input), TargetExistsError (collision with existing
// filesystem entries) and SerializationError (the manifest document could not
// be rendered). CLIError carries the human-readable presentation of any of them.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCategory classifies errors for presentation and exit codes.
type ErrorCategory int

const (
	// Validation indicates invalid user input (project name, email, constraint).
	Validation ErrorCategory = iota
	// TargetExists indicates a generated path collides with an existing entry.
	TargetExists
	// Serialization indicates the manifest document could not be rendered or parsed.
	Serialization
	// Configuration indicates an unreadable or invalid configuration file.
	Configuration
	// Runtime indicates any other failure (filesystem, terminal I/O).
	Runtime
)

// String returns the display label for the category.
func (c ErrorCategory) String() string {
	switch c {
	case Validation:
		return "Validation Error"
	case TargetExists:
		return "Target Exists Error"
	case Serialization:
		return "Serialization Error"
	case Configuration:
		return "Configuration Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// ValidationError reports user input that cannot satisfy a constraint.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// TargetExistsError reports generated paths that already exist on disk.
type TargetExistsError struct {
	Paths []string
}

// NewTargetExistsError creates a TargetExistsError for the colliding paths.
func NewTargetExistsError(paths ...string) *TargetExistsError {
	return &TargetExistsError{Paths: paths}
}

func (e *TargetExistsError) Error() string {
	if len(e.Paths) == 1 {
		return fmt.Sprintf("target already exists: %s", e.Paths[0])
	}
	return fmt.Sprintf("%d targets already exist: %s", len(e.Paths), strings.Join(e.Paths, ", "))
}

// SerializationError reports a manifest value that cannot be represented.
// Path is the dotted key path of the offending value.
type SerializationError struct {
	Path   string
	Reason string
	Err    error
}

// NewSerializationError creates a SerializationError at the given key path.
func NewSerializationError(path, reason string) *SerializationError {
	return &SerializationError{Path: path, Reason: reason}
}

func (e *SerializationError) Error() string {
	msg := e.Reason
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "serialization failed: " + msg
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// CLIError is the presentation form of an error: a category, a message,
// optional usage line and remediation steps.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Usage       string
	Remediation []string
	Err         error
}

func (e *CLIError) Error() string {
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewArgumentError creates a validation CLIError with remediation steps.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Validation,
		Message:     message,
		Remediation: remediation,
	}
}

// NewArgumentErrorWithUsage creates a validation CLIError that shows usage.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Validation,
		Message:     message,
		Usage:       usage,
		Remediation: remediation,
	}
}

// NewConfigError creates a configuration CLIError.
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Configuration,
		Message:     message,
		Remediation: remediation,
	}
}

// NewRuntimeError creates a runtime CLIError.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Runtime,
		Message:     message,
		Remediation: remediation,
	}
}

// Wrap wraps an error with a category and remediation steps.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
		Err:         err,
	}
}

// WrapWithMessage wraps an error, prefixing its message.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %s", message, err.Error()),
		Remediation: remediation,
		Err:         err,
	}
}

// AsCLIError returns err as a *CLIError, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}

// CategoryOf classifies any error by walking its wrap chain.
// Typed taxonomy errors win over an enclosing CLIError's category.
func CategoryOf(err error) ErrorCategory {
	var (
		validationErr    *ValidationError
		targetErr        *TargetExistsError
		serializationErr *SerializationError
	)
	switch {
	case stderrors.As(err, &validationErr):
		return Validation
	case stderrors.As(err, &targetErr):
		return TargetExists
	case stderrors.As(err, &serializationErr):
		return Serialization
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr.Category
	}
	return Runtime
}
