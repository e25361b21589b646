package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Precondition errors
	ErrPreconditionFailed = errors.New("precondition failed")

	// Authentication errors
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")
	ErrUnauthorized  = errors.New("unauthorized")
)

// Book errors
var (
	ErrBookNotFound     = errors.New("book not found")
	ErrBookNotAvailable = errors.New("book is not available")
	ErrBookOnLoan       = errors.New("cannot delete: copies on loan")
	ErrAlreadyBorrowed  = errors.New("book already borrowed by this student")
)

// Borrow errors
var (
	ErrNoActiveBorrow = errors.New("no active borrow for this book")
)

// Category errors
var (
	ErrCategoryNotFound = errors.New("category not found")
)

// Author errors
var (
	ErrAuthorNotFound = errors.New("author not found")
)

// Presence errors
var (
	ErrAlreadyCheckedIn = errors.New("student already has an open check-in")
	ErrNoOpenCheckIn    = errors.New("no open check-in found")
	ErrStudentNotFound  = errors.New("student not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewPreconditionFailedError creates a new custom error for unmet preconditions with a message
func NewPreconditionFailedError(message string) error {
	return &CustomError{
		Err:     ErrPreconditionFailed,
		Message: message,
	}
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
