// Package errors defines the tagged error kinds that cross component
// boundaries in place of language-native exceptions, per the error handling
// design: validation/not-found/auth/conflict surface to API callers,
// provider/template/transient are retry-policy inputs, fatal propagates to
// the supervisor and exits the process.
package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ValidationError indicates bad input: unknown currency, invalid status,
// missing product. Never retried.
type ValidationError struct {
	Field   string
	Message string
	cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation: %s", e.Message)
}

func (e *ValidationError) Unwrap() error { return e.cause }

func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func Validationf(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a missing entity.
type NotFoundError struct {
	Entity string
	ID     string
	cause  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.cause }

func NotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// AuthError indicates a missing or wrong API key or webhook signature.
type AuthError struct {
	Message string
	cause   error
}

func (e *AuthError) Error() string { return fmt.Sprintf("auth: %s", e.Message) }
func (e *AuthError) Unwrap() error  { return e.cause }

func Auth(message string) *AuthError {
	return &AuthError{Message: message}
}

// ConflictError indicates an idempotency dedup hit or a version mismatch.
type ConflictError struct {
	Message string
	cause   error
}

func (e *ConflictError) Error() string { return fmt.Sprintf("conflict: %s", e.Message) }
func (e *ConflictError) Unwrap() error  { return e.cause }

func Conflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// ProviderEndpointError indicates an upstream HTTP failure from a provider
// endpoint call. Retried by the caller if within policy.
type ProviderEndpointError struct {
	Status  int
	Preview string
	cause   error
}

func (e *ProviderEndpointError) Error() string {
	return fmt.Sprintf("provider endpoint returned %d: %s", e.Status, e.Preview)
}

func (e *ProviderEndpointError) Unwrap() error { return e.cause }

func ProviderEndpoint(status int, preview string) *ProviderEndpointError {
	return &ProviderEndpointError{Status: status, Preview: preview}
}

// TemplateError indicates a missing context key or an invalid expression.
// A task hit by this is marked failed immediately, no retry.
type TemplateError struct {
	Expr    string
	Message string
	cause   error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q: %s", e.Expr, e.Message)
}

func (e *TemplateError) Unwrap() error { return e.cause }

func Template(expr, message string) *TemplateError {
	return &TemplateError{Expr: expr, Message: message}
}

// MissingContextKey is the distinct TemplateError raised for an unresolved
// dotted path, per the renderer's spec.
func MissingContextKey(expr string) *TemplateError {
	return &TemplateError{Expr: expr, Message: "missing context key"}
}

// TransientError indicates a DB deadlock or network reset. Retried with
// backoff by the caller.
type TransientError struct {
	Message string
	cause   error
}

func (e *TransientError) Error() string { return fmt.Sprintf("transient: %s", e.Message) }
func (e *TransientError) Unwrap() error  { return e.cause }

func Transient(message string, cause error) *TransientError {
	return &TransientError{Message: message, cause: cause}
}

// FatalError indicates an unreachable DB or missing config. Propagates to
// the supervisor; the process exits.
type FatalError struct {
	Message string
	cause   error
}

func (e *FatalError) Error() string { return fmt.Sprintf("fatal: %s", e.Message) }
func (e *FatalError) Unwrap() error  { return e.cause }

func Fatal(message string, cause error) *FatalError {
	return &FatalError{Message: message, cause: cause}
}

// Wrap attaches stack context to an underlying cause without changing its
// kind, mirroring the teacher's pkg/errors convention at call sites.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(err, message)
}

// Cause unwraps a pkg/errors-wrapped error back to its original value.
func Cause(err error) error {
	return pkgerrors.Cause(err)
}

// IsRetryable reports whether err's kind is one the caller's retry policy
// should act on (ProviderEndpointError or TransientError).
func IsRetryable(err error) bool {
	switch Cause(err).(type) {
	case *ProviderEndpointError, *TransientError:
		return true
	default:
		return false
	}
}
