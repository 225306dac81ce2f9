package errors

import "fmt"

// AppError represents an application error
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Err:     err,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Err:     err,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Err:     err,
	}
}

// NewDataError creates an error for a schedule whose related rows are
// missing or unusable (no phone number, deleted medication). Recovered
// per schedule, never fatal for a sweep.
func NewDataError(message string, err error) *AppError {
	return &AppError{
		Code:    "DATA_ERROR",
		Message: message,
		Err:     err,
	}
}

// NewProviderError creates an error for a failed outbound send
func NewProviderError(message string, err error) *AppError {
	return &AppError{
		Code:    "PROVIDER_ERROR",
		Message: message,
		Err:     err,
	}
}

// NewStoreError creates an error for an unreachable or failing backing store.
// Fatal for the current sweep; the next trigger retries.
func NewStoreError(message string, err error) *AppError {
	return &AppError{
		Code:    "STORE_ERROR",
		Message: message,
		Err:     err,
	}
}
