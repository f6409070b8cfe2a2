package pipeline

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-followgraph/pkg/artifact"
	"github.com/dd0wney/cluso-followgraph/pkg/community"
	"github.com/dd0wney/cluso-followgraph/pkg/network"
	"github.com/dd0wney/cluso-followgraph/pkg/report"
)

// Error kinds surfaced by a stage
var (
	ErrInputMissing     = errors.New("input missing")
	ErrConfig           = errors.New("invalid configuration")
	ErrMalformedInput   = errors.New("malformed input")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrUnknownStage     = errors.New("unknown stage")
)

// StageError provides structured error information for a failed stage.
type StageError struct {
	Stage   string // Stage that failed (e.g., "edges", "matrix")
	Entity  string // Artifact or input involved (e.g., "master list")
	Path    string // File path (if applicable)
	Kind    error  // One of the Err* kinds above
	Cause   error  // Underlying error
	Context string // Additional context
}

// Error implements the error interface.
func (e *StageError) Error() string {
	msg := e.Stage
	if e.Entity != "" {
		msg += " " + e.Entity
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Context != "" {
		msg += fmt.Sprintf(" (%s)", e.Context)
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *StageError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the error kind or the cause.
func (e *StageError) Is(target error) bool {
	if target == nil {
		return false
	}
	if e.Kind != nil && e.Kind == target {
		return true
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building StageErrors.
type ErrorBuilder struct {
	err StageError
}

// NewError creates a new error builder for the given stage.
func NewError(stage string) *ErrorBuilder {
	return &ErrorBuilder{err: StageError{Stage: stage}}
}

// Entity names the artifact or input involved.
func (b *ErrorBuilder) Entity(name string) *ErrorBuilder {
	b.err.Entity = name
	return b
}

// Path sets the file path.
func (b *ErrorBuilder) Path(path string) *ErrorBuilder {
	b.err.Path = path
	return b
}

// Kind sets the error kind explicitly.
func (b *ErrorBuilder) Kind(kind error) *ErrorBuilder {
	b.err.Kind = kind
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(ctx string) *ErrorBuilder {
	b.err.Context = ctx
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Build returns the constructed StageError. Without an explicit kind, the
// kind is derived from the cause.
func (b *ErrorBuilder) Build() *StageError {
	if b.err.Kind == nil {
		b.err.Kind = classify(b.err.Cause)
	}
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return b.Build()
}

// classify maps package errors onto stage error kinds.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, artifact.ErrNotFound), errors.Is(err, report.ErrInputMissing):
		return ErrInputMissing
	case errors.Is(err, artifact.ErrMalformed), errors.Is(err, network.ErrUnknownMember):
		return ErrMalformedInput
	case errors.Is(err, network.ErrPopulationTooSmall):
		return ErrConfig
	case errors.Is(err, community.ErrUnknownAlgorithm), errors.Is(err, community.ErrDuplicateAlgorithm):
		return ErrUnknownAlgorithm
	default:
		return nil
	}
}

// Convenience functions for common error patterns

// InputError wraps a failure to read a stage input.
func InputError(stage, entity, path string, cause error) error {
	return NewError(stage).Entity(entity).Path(path).Cause(cause).Err()
}

// OutputError wraps a failure to write a stage output.
func OutputError(stage, entity, path string, cause error) error {
	return NewError(stage).Entity(entity).Path(path).Context("write").Cause(cause).Err()
}

// IsFatal reports whether err aborts a whole run rather than one stage.
// Only configuration errors do; everything else is stage-local.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfig)
}
