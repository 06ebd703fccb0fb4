package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error beyond its HTTP status code.
// The reconciliation and lifecycle engine uses kinds to distinguish
// retryable conflicts from hard failures.
type Kind string

const (
	KindValidation             Kind = "validation"
	KindInvalidTransition      Kind = "invalid_transition"
	KindConflict               Kind = "conflict"
	KindOverpayment            Kind = "overpayment"
	KindNumberingFailure       Kind = "numbering_failure"
	KindPersistenceUnavailable Kind = "persistence_unavailable"
	KindNotFound               Kind = "not_found"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error from field errors
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewValidationMessage creates a validation error with a single message
func NewValidationMessage(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: message,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewInvalidTransitionError reports an illegal state-machine move with
// enough context to render a precise message
func NewInvalidTransitionError(resource, id, currentStatus, event string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("%s %s cannot %s while %s", resource, id, event, currentStatus),
	}
}

// NewConflictError reports a lost update detected on a versioned resource.
// Conflicts are retryable against fresh state.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewOverpaymentError reports a payment that would exceed the invoice
// balance without an explicit override
func NewOverpaymentError(invoiceNumber, balance, attempted string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindOverpayment,
		Message: fmt.Sprintf("payment of %s exceeds outstanding balance %s on invoice %s", attempted, balance, invoiceNumber),
	}
}

// NewNumberingFailure reports that the document counter increment could not
// complete. The creation attempt must be aborted; a document is never
// persisted without a number.
func NewNumberingFailure(docType string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindNumberingFailure,
		Message: fmt.Sprintf("could not allocate %s document number: %v", docType, cause),
	}
}

// NewPersistenceUnavailable reports an unreachable record store
func NewPersistenceUnavailable(cause error) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindPersistenceUnavailable,
		Message: fmt.Sprintf("record store unavailable: %v", cause),
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// IsConflict reports whether err is a retryable version conflict
func IsConflict(err error) bool {
	return IsKind(err, KindConflict)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
