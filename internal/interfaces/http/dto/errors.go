package dto

import (
	"net/http"

	"github.com/dokan/papershop/internal/domain/shared"
)

// Transport-level error codes. Domain codes pass through unchanged.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = shared.CodeValidation
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeUnauthorized    = shared.CodeUnauthorized
	ErrCodeForbidden       = shared.CodeForbidden
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "INVALID_TOKEN"
	ErrCodeTokenRevoked    = "TOKEN_REVOKED"
	ErrCodeNotFound        = shared.CodeNotFound
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation -> 400
	shared.CodeValidation:      http.StatusBadRequest,
	shared.CodeInvalidInput:    http.StatusBadRequest,
	shared.CodeInvalidQuantity: http.StatusBadRequest,
	shared.CodeInvalidPrice:    http.StatusBadRequest,
	shared.CodeInvalidAmount:   http.StatusBadRequest,
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeInvalidJSON:         http.StatusBadRequest,

	// Business rules the request was well-formed for -> 422
	shared.CodeInsufficientStock: http.StatusUnprocessableEntity,
	shared.CodeOverpayment:       http.StatusUnprocessableEntity,
	shared.CodeInvalidState:      http.StatusUnprocessableEntity,

	// Auth
	shared.CodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeTokenInvalid:     http.StatusUnauthorized,
	ErrCodeTokenRevoked:     http.StatusUnauthorized,
	shared.CodeForbidden:    http.StatusForbidden,

	shared.CodeNotFound: http.StatusNotFound,

	// Conflicts -> 409
	shared.CodeConflict:            http.StatusConflict,
	shared.CodeAlreadyExists:       http.StatusConflict,
	shared.CodeDuplicateNumber:     http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,
	shared.CodeDuplicateRequest:    http.StatusConflict,
	shared.CodeDayClosed:           http.StatusConflict,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status of an error code. Unknown codes are
// classified through the shared error classes, then default to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	err := shared.NewDomainError(code, "")
	switch {
	case shared.IsValidation(err):
		return http.StatusBadRequest
	case shared.IsConflict(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
