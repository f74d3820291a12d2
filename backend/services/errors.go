package services

import (
	"errors"
	"fmt"

	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/repositories"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError of the same type
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Not Found Errors
	ErrUserNotFound     = NewDomainError(ErrorTypeNotFound, "User not found", nil)
	ErrEventNotFound    = NewDomainError(ErrorTypeNotFound, "Event not found", nil)
	ErrProjectNotFound  = NewDomainError(ErrorTypeNotFound, "Project not found", nil)
	ErrCategoryNotFound = NewDomainError(ErrorTypeNotFound, "Category not found", nil)
	ErrThreadNotFound   = NewDomainError(ErrorTypeNotFound, "Thread not found", nil)
	ErrReplyNotFound    = NewDomainError(ErrorTypeNotFound, "Reply not found", nil)

	// Validation Errors
	ErrInvalidDateRange    = NewDomainError(ErrorTypeValidation, "End date must not be before start date", nil)
	ErrAddMemberFailed     = NewDomainError(ErrorTypeValidation, "Failed to add member to project", nil)
	ErrRemoveMemberFailed  = NewDomainError(ErrorTypeValidation, "Failed to remove member from project", nil)
	ErrSearchQueryRequired = NewDomainError(ErrorTypeValidation, "Query parameter is required", nil)

	// Authentication Errors
	ErrUnauthorized       = NewDomainError(ErrorTypeUnauthorized, "Authentication required", nil)
	ErrInvalidCredentials = NewDomainError(ErrorTypeUnauthorized, "Invalid email or password", nil)

	// Permission Errors
	ErrForbidden = NewDomainError(ErrorTypeForbidden, "Admin privileges required", nil)

	// Conflict Errors
	ErrDuplicateEmail = NewDomainError(ErrorTypeConflict, "User with this email already exists", nil)
)

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return GetErrorType(err) == ErrorTypeForbidden
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return GetErrorType(err) == ErrorTypeConflict
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorMessage returns the client-facing message of a domain error, or
// err.Error() for anything else
func GetErrorMessage(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// Denied converts a refusing policy decision into a DomainError. Unauthenticated
// decisions become 401s; the rest become 403s carrying message and the policy reason.
func Denied(d policy.Decision, message string) error {
	if d.Unauthenticated {
		return NewDomainError(ErrorTypeUnauthorized, ErrUnauthorized.Message, nil).
			WithDetail("reason", d.Reason)
	}
	return NewDomainError(ErrorTypeForbidden, message, nil).
		WithDetail("reason", d.Reason)
}

// FromRepository maps repository sentinels onto domain errors. notFound is
// returned for repositories.ErrNotFound; anything unrecognized is internal.
func FromRepository(err error, notFound *DomainError, message string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return NewDomainError(notFound.Type, notFound.Message, err)
	case errors.Is(err, repositories.ErrReferenceMissing):
		return NewDomainError(ErrorTypeValidation, message, err)
	default:
		return WrapInternal(message, err)
	}
}
