// Package apperror defines the application's error kinds and how each one is
// presented to API clients. Services return *AppError values; the respond
// package turns them into the JSON envelope and HTTP status.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType enumerates the categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the storage layer
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// UnauthenticatedError represents a missing, invalid, expired or revoked credential
	UnauthenticatedError
	// NotFoundError represents a resource that does not exist for the caller
	NotFoundError
	// ValidationError represents field-level input validation failures
	ValidationError
	// TooManyRequestsError represents a throttled client
	TooManyRequestsError
	// InternalError represents a generic internal server error
	InternalError
	// MigrationError represents an error during database migrations
	MigrationError
)

// FieldErrors maps a request field name to its validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// AppError is the application's error type. Message is safe to show to
// clients; Err carries the underlying cause for logs only.
type AppError struct {
	Type    ErrorType
	Message string
	Fields  FieldErrors
	Err     error // Underlying error
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case UnauthenticatedError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusUnprocessableEntity
	case TooManyRequestsError:
		return http.StatusTooManyRequests
	case DatabaseError, ConfigError, InternalError, MigrationError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// IsServerError reports whether the error maps to a 5xx status.
func (e *AppError) IsServerError() bool {
	return e.StatusCode() >= http.StatusInternalServerError
}

// NewAppError creates a new AppError.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewUnauthenticatedError creates a new UnauthenticatedError
func NewUnauthenticatedError(message string, underlyingError error) *AppError {
	return NewAppError(UnauthenticatedError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a ValidationError carrying per-field messages.
func NewValidationError(message string, fields FieldErrors) *AppError {
	e := NewAppError(ValidationError, message, nil)
	e.Fields = fields
	return e
}

// NewTooManyRequestsError creates a new TooManyRequestsError
func NewTooManyRequestsError(message string) *AppError {
	return NewAppError(TooManyRequestsError, message, nil)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// ErrorResponse is the envelope written for every failed request.
type ErrorResponse struct {
	Status  bool        `json:"status" example:"false"`
	Message string      `json:"message" example:"Validation failed"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

// genericServerMessage replaces the message of every 5xx error in responses.
const genericServerMessage = "Server Error"

// ToResponse converts an AppError to the client-facing envelope. Server
// errors never expose their message or cause.
func (e *AppError) ToResponse() ErrorResponse {
	if e.IsServerError() {
		return ErrorResponse{Status: false, Message: genericServerMessage}
	}
	return ErrorResponse{Status: false, Message: e.Message, Errors: e.Fields}
}

// FromError finds an *AppError in err's chain.
// It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func isType(err error, t ErrorType) bool {
	ae, ok := FromError(err)
	return ok && ae.Type == t
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool { return isType(err, NotFoundError) }

// IsUnauthenticated checks if an error is an UnauthenticatedError
func IsUnauthenticated(err error) bool { return isType(err, UnauthenticatedError) }

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool { return isType(err, ValidationError) }
