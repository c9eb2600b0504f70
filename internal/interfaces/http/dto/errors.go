package dto

import (
	"net/http"

	"github.com/fleet/ledger/internal/domain/shared"
)

// Error codes returned in the response envelope. Domain codes pass through
// unchanged; the rest are produced by the HTTP layer itself.
const (
	ErrCodeNotFound               = shared.CodeNotFound
	ErrCodeValidation             = shared.CodeValidation
	ErrCodeInvalidState           = shared.CodeInvalidState
	ErrCodeConflict               = shared.CodeConflict
	ErrCodeForbidden              = shared.CodeForbidden
	ErrCodeUnauthorized           = shared.CodeUnauthorized
	ErrCodeReconciliationRequired = shared.CodeReconciliationRequired

	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeUnauthorized: http.StatusUnauthorized,

	// the ledger committed but the wallet did not follow
	ErrCodeReconciliationRequired: http.StatusInternalServerError,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
