package apperrors

import "errors"

// ErrBadRequest marks a request body that could not be used
var ErrBadRequest = errors.New("bad request")

// Form session errors
var (
	ErrSessionNotFound = errors.New("form session not found")
	ErrUnknownField    = errors.New("unknown form field")
	ErrInvalidStep     = errors.New("action not allowed on the current step")
)

// Session token errors
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
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
