package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped copies with a
// more specific message still match the sentinel.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// NotFound returns a NOT_FOUND error naming the missing resource
func NotFound(resource string) *DomainError {
	return NewDomainError(ErrNotFound.Code, resource+" not found")
}

// InvalidInput returns an INVALID_INPUT error with the given message
func InvalidInput(message string) *DomainError {
	return NewDomainError(ErrInvalidInput.Code, message)
}

// AlreadyExists returns an ALREADY_EXISTS error with the given message
func AlreadyExists(message string) *DomainError {
	return NewDomainError(ErrAlreadyExists.Code, message)
}
