package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found, or that it
// exists but is outside the caller's visibility scope. The two cases are deliberately
// indistinguishable so callers cannot probe for records they may not see.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is authenticated but not entitled to perform
// the operation on this resource, including client edits outside the mutation window.
var ErrForbidden = errors.New("operation forbidden")

// ErrUnauthorized indicates the caller is not authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidStateTransition indicates an attempt to move a transaction out of a
// terminal status, or any other transition the state machine does not allow.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// ErrLinkIntegrity indicates a supplied link (service/task/project/order) does not
// resolve to an existing entity, or that more than one link was supplied at once.
var ErrLinkIntegrity = errors.New("link integrity violation")

// AppError wraps an infrastructure failure with an HTTP-ish status code.
// Business rejections use the sentinel errors above instead.
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

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
