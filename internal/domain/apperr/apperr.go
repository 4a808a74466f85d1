package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure so callers can decide whether the
// operation is retryable and what to tell the operator.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindNotFound         Kind = "not_found"
	KindInvalidState     Kind = "invalid_state"
	KindPrecondition     Kind = "precondition"
	KindConflict         Kind = "conflict"
	KindStoreUnavailable Kind = "store_unavailable"
)

// Error is a structured domain error carrying the failure kind and, where it
// applies, the offending field.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Validation reports malformed or out-of-range input on the named field.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NotFound reports an absent referenced entity.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Field: entity, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// InvalidState reports an operation that is illegal for the entity's current state.
func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// Precondition reports a required upstream fact that is missing.
func Precondition(message string) *Error {
	return &Error{Kind: KindPrecondition, Message: message}
}

// Conflict reports state that changed between read and write.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// StoreUnavailable wraps a transient infrastructure failure; the whole
// operation is safe to retry.
func StoreUnavailable(err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: "record store unavailable", cause: err}
}

// KindOf extracts the Kind from err, or KindStoreUnavailable for errors that
// did not originate in the domain layer.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreUnavailable
}

// FieldOf extracts the offending field from err, when present.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// HTTPStatus maps a failure kind to the status code the API reports.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindConflict:
		return http.StatusConflict
	case KindPrecondition:
		return http.StatusPreconditionFailed
	default:
		return http.StatusServiceUnavailable
	}
}
