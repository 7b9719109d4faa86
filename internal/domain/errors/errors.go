// Package errors defines the application error taxonomy. Every failure that
// crosses the service boundary is one of these, carrying the HTTP status
// code the delivery layer must answer with.
package errors

import (
	"fmt"
	"net/http"

	"storefront/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types. HTTP codes follow the original endpoint contract:
// login failures answer 404 regardless of whether the account or the
// password was wrong, and a failed delete answers 404.
var (
	ErrAccountExists = NewBaseError(
		http.StatusBadRequest,
		"ACCOUNT_ALREADY_EXISTS",
		"account already exists",
		"",
	)

	ErrAccountNotFound = NewBaseError(
		http.StatusNotFound,
		"ACCOUNT_NOT_FOUND",
		"account does not exist",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusNotFound,
		"INVALID_CREDENTIALS",
		"email or password is invalid",
		"",
	)

	ErrMissingToken = NewBaseError(
		http.StatusUnprocessableEntity,
		"MISSING_TOKEN",
		"missing token",
		"",
	)

	ErrInvalidToken = NewBaseError(
		http.StatusUnprocessableEntity,
		"INVALID_TOKEN",
		"invalid or expired token",
		"",
	)

	ErrNoAccountsMatched = NewBaseError(
		http.StatusNotFound,
		"NO_ACCOUNTS_MATCHED",
		"no accounts matched the given filters",
		"",
	)

	ErrListFailed = NewBaseError(
		http.StatusBadRequest,
		"LIST_FAILED",
		"failed to list accounts",
		"",
	)

	ErrDeletionFailed = NewBaseError(
		http.StatusNotFound,
		"DELETION_FAILED",
		"deletion failed",
		"",
	)

	ErrMailDeliveryFailed = NewBaseError(
		http.StatusInternalServerError,
		"MAIL_DELIVERY_FAILED",
		"failed to send notification email",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"authentication required",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"access denied",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal server error",
		"",
	)
)

// NewMissingFieldError reports the first empty required field by name,
// mirroring the registration contract ("The email field is required").
func NewMissingFieldError(field string) *BaseError {
	return NewBaseError(
		http.StatusBadRequest,
		"MISSING_FIELD",
		fmt.Sprintf("The %s field is required", field),
		"",
	)
}

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
