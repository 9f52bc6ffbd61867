package core

import (
	"errors"
	"fmt"
)

// Standard sentinel errors. Typed errors below match them through errors.Is.
var (
	// ErrInvalidArgument is returned when a call receives input it cannot
	// work with, e.g. an empty change set or an unsupported condition.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTemplateNotFound is returned when no template is registered for an
	// expression type.
	ErrTemplateNotFound = errors.New("no template for expression")

	// ErrNotFound is returned when a key is absent from a container.
	ErrNotFound = errors.New("key not found")

	// ErrInvalidContainer is returned when a value cannot be read as a container.
	ErrInvalidContainer = errors.New("invalid container")

	// ErrUnhashedLiteral is returned by strict builders for a value that has
	// no placeholder token.
	ErrUnhashedLiteral = errors.New("value has no placeholder token")
)

// InvalidArgumentError carries a message, an optional code, an optional cause
// and the offending argument for diagnostics.
type InvalidArgumentError struct {
	Message  string
	Code     int
	Cause    error
	Argument any
}

// NewInvalidArgumentError builds an InvalidArgumentError with a translated message.
func NewInvalidArgumentError(msg string, cause error, argument any) *InvalidArgumentError {
	return &InvalidArgumentError{Message: Translate(msg), Cause: cause, Argument: argument}
}

// InvalidArgumentf builds an InvalidArgumentError with a translated,
// formatted message.
func InvalidArgumentf(cause error, argument any, format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Message: Translate(format, args...), Cause: cause, Argument: argument}
}

// Error returns the error string.
func (e *InvalidArgumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the cause.
func (e *InvalidArgumentError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrInvalidArgument.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// NotFoundError is returned by Container.Get for absent keys.
type NotFoundError struct {
	Key string
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	return Translate("key %q not found", e.Key)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound returns true if err, or any error it wraps, is a missing key.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
