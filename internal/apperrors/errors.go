package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that the request conflicts with existing state
// (overlapping segments, already-open shifts, duplicate time off).
var ErrConflict = errors.New("conflict with existing state")

// ErrForbidden indicates that the acting user is not allowed to touch the
// target resource (non-admin acting outside their own worker scope).
var ErrForbidden = errors.New("operation not permitted")

// ErrSettled indicates an attempt to alter or delete a shift whose obligation
// has already been settled. Settled financial history is immutable.
var ErrSettled = errors.New("obligation already settled")

// ErrConfiguration indicates a missing piece of reference configuration,
// such as no salary category or no employer account.
var ErrConfiguration = errors.New("configuration error")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level error with an HTTP-ish status code and a
// message suitable for logs. Repositories use it to wrap driver errors.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(_, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
