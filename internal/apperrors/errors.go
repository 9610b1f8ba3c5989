package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller lacks the permission for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the resource is in a state that does not allow the operation.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an infrastructure failure.
var ErrInternal = errors.New("internal error")

// Business rule sentinels. The structured errors in business.go unwrap to these.
var (
	ErrImbalance               = errors.New("debits and credits do not balance")
	ErrAlreadyPosted           = errors.New("already posted")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrNoCostBasis             = errors.New("no cost basis")
	ErrCreditLimitExceeded     = errors.New("credit limit exceeded")
	ErrExactSettlementRequired = errors.New("exact settlement required")
	ErrOverpayment             = errors.New("amount exceeds outstanding balance")
	ErrMissingAccount          = errors.New("required account missing")
)

// AppError wraps an underlying error with an HTTP-ish status code and a message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError. A nil err is allowed.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
