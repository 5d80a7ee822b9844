// Package apperrors defines the error kinds surfaced by the catalog, the music bot and the services.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError represents caller-supplied data that fails a structural rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation creates a ValidationError for the given field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError represents a reference to an id absent from its collection.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFound creates a NotFoundError.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// InvalidSourceError is returned when a source URL cannot be resolved to track metadata.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type InvalidSourceError struct {
	URL   string
	Cause error
}

func (e *InvalidSourceError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("invalid source %q", e.URL)
	}
	return fmt.Sprintf("invalid source %q: %v", e.URL, e.Cause)
}

func (e *InvalidSourceError) Unwrap() error {
	return e.Cause
}

// UnknownCommandError is returned for an unrecognized bot command name.
type UnknownCommandError struct {
	Command string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %s", e.Command)
}

// ForbiddenError is returned when the caller may not act on a resource it does not own.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInvalidSource reports whether err is or wraps an *InvalidSourceError.
func IsInvalidSource(err error) bool {
	var target *InvalidSourceError
	return errors.As(err, &target)
}

// IsUnknownCommand reports whether err is or wraps an *UnknownCommandError.
func IsUnknownCommand(err error) bool {
	var target *UnknownCommandError
	return errors.As(err, &target)
}

// IsForbidden reports whether err is or wraps a *ForbiddenError.
func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}
