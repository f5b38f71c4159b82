package shared

import (
	"errors"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped sentinels compare equal
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes grouped by the class the HTTP layer maps them to.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidQuantity     = "INVALID_QUANTITY"
	CodeInvalidPrice        = "INVALID_PRICE"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeOverpayment         = "OVERPAYMENT"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeDuplicateNumber     = "DUPLICATE_NUMBER"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeDuplicateRequest    = "DUPLICATE_REQUEST"
	CodeDayClosed           = "DAY_CLOSED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInvalidState        = "INVALID_STATE"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConflict            = NewDomainError(CodeConflict, "Request conflicts with the current state")
	ErrDuplicateNumber     = NewDomainError(CodeDuplicateNumber, "Document number already in use")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrDuplicateRequest    = NewDomainError(CodeDuplicateRequest, "Request with this idempotency key was already processed")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrOverpayment         = NewDomainError(CodeOverpayment, "Payment exceeds the amount due")
	ErrDayClosed           = NewDomainError(CodeDayClosed, "Cash flow day is closed")
)

// NewValidationError creates a validation-class error with the given code
func NewValidationError(code, message string) *DomainError {
	if code == "" {
		code = CodeValidation
	}
	return NewDomainError(code, message)
}

// NewNotFoundError creates a not-found error naming the missing resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, resource+" not found")
}

var validationCodes = map[string]bool{
	CodeValidation:        true,
	CodeInvalidInput:      true,
	CodeInvalidQuantity:   true,
	CodeInvalidPrice:      true,
	CodeInvalidAmount:     true,
	CodeInsufficientStock: true,
	CodeOverpayment:       true,
	CodeInvalidState:      true,
}

var conflictCodes = map[string]bool{
	CodeConflict:            true,
	CodeAlreadyExists:       true,
	CodeDuplicateNumber:     true,
	CodeConcurrencyConflict: true,
	CodeDuplicateRequest:    true,
	CodeDayClosed:           true,
}

// CodeOf returns the domain error code carried by err, or "" if none
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsValidation reports whether err is a validation-class domain error
func IsValidation(err error) bool {
	code := CodeOf(err)
	return validationCodes[code] || strings.HasPrefix(code, "INVALID_")
}

// IsNotFound reports whether err is a not-found domain error
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsConflict reports whether err is a conflict-class domain error
func IsConflict(err error) bool {
	return conflictCodes[CodeOf(err)]
}

// IsPermission reports whether err is a permission-class domain error
func IsPermission(err error) bool {
	code := CodeOf(err)
	return code == CodeForbidden || code == CodeUnauthorized
}

// IsRetryable reports whether the operation that produced err may be retried
// with a freshly generated document number.
func IsRetryable(err error) bool {
	code := CodeOf(err)
	return code == CodeDuplicateNumber || code == CodeConcurrencyConflict
}
