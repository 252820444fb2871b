// Package common defines sentinel errors and the tagged error type shared by
// stores, services and transports. Callers should use errors.Is / errors.As.
package common

import (
	"errors"
	"net/http"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Kind classifies a failure reported to API callers.
type Kind string

const (
	KindValidationFailed   Kind = "VALIDATION_FAILED"
	KindDuplicateUser      Kind = "DUPLICATE_USER"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindForbidden          Kind = "FORBIDDEN"
	KindNotFound           Kind = "NOT_FOUND"
	KindInternal           Kind = "INTERNAL"
)

// Status returns the HTTP-like status code reported for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidationFailed:
		return http.StatusUnprocessableEntity
	case KindDuplicateUser:
		return http.StatusConflict
	case KindInvalidCredentials, KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is an operation failure with a kind, a client-facing message and
// optional per-field details. Err keeps the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Extensions is picked up by the GraphQL executor and mirrors the
// {message, status, data} error body of the HTTP endpoints.
func (e *Error) Extensions() map[string]interface{} {
	data := make([]map[string]string, 0, len(e.Details))
	for _, d := range e.Details {
		data = append(data, map[string]string{"message": d})
	}
	return map[string]interface{}{
		"code":   string(e.Kind),
		"status": e.Kind.Status(),
		"data":   data,
	}
}

var (
	ErrValidationFailed   = &Error{Kind: KindValidationFailed, Message: "Invalid input"}
	ErrDuplicateUser      = &Error{Kind: KindDuplicateUser, Message: "User already exists!"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Invalid username or password"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "Not authenticated"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "Not authorized"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "Not found"}
	ErrInternal           = &Error{Kind: KindInternal, Message: "Internal error"}
)

// Validation builds a ValidationFailed error listing every failed rule.
func Validation(details ...string) *Error {
	return &Error{Kind: KindValidationFailed, Message: "Invalid input", Details: details}
}

// NotFound builds a NotFound error with a resource-specific message.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Unauthenticated builds an Unauthenticated error with a custom message.
func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

// Internal wraps an unexpected failure. The cause is never shown to clients.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal error", Err: err}
}

// KindOf reports the kind of err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Public converts any error to a client-safe *Error.
func Public(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindInternal {
			return ErrInternal
		}
		return &Error{Kind: e.Kind, Message: e.Message, Details: e.Details}
	}
	return ErrInternal
}
