// Package apperr defines the error taxonomy shared by both command-line tools
// and the mapping from error kinds to process exit codes.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind represents a category of failure reported to the user
type Kind int

const (
	KindUnknown Kind = iota
	KindUsage
	KindResourceUnavailable
	KindConstraintUnsatisfiable
	KindIO
	KindInterrupted
)

// Exit codes returned by the command-line tools
const (
	ExitOK                      = 0
	ExitUnknown                 = 1
	ExitUsage                   = 2
	ExitResourceUnavailable     = 3
	ExitConstraintUnsatisfiable = 4
	ExitIO                      = 5
	ExitInterrupted             = 130
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindResourceUnavailable:
		return "resource_unavailable"
	case KindConstraintUnsatisfiable:
		return "constraint_unsatisfiable"
	case KindIO:
		return "io_failure"
	case KindInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// ExitCode returns the process exit status for the kind
func (k Kind) ExitCode() int {
	switch k {
	case KindUsage:
		return ExitUsage
	case KindResourceUnavailable:
		return ExitResourceUnavailable
	case KindConstraintUnsatisfiable:
		return ExitConstraintUnsatisfiable
	case KindIO:
		return ExitIO
	case KindInterrupted:
		return ExitInterrupted
	default:
		return ExitUnknown
	}
}

// Error is a categorized error carrying a user-facing message
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error of the given kind
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind with an underlying cause
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Usage is shorthand for New(KindUsage, ...)
func Usage(format string, args ...any) *Error {
	return New(KindUsage, format, args...)
}

// Interrupted wraps a context error as a user cancellation
func Interrupted(cause error) *Error {
	return Wrap(KindInterrupted, cause, "operación interrumpida")
}

// KindOf reports the kind of err. Context cancellation counts as an interrupt
// even when it was not wrapped in an *Error.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.Canceled) {
		return KindInterrupted
	}
	return KindUnknown
}

// ExitCode returns the exit status for err; nil maps to ExitOK
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return KindOf(err).ExitCode()
}

// Is reports whether err is of the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
