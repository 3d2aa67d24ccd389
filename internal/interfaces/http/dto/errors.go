package dto

import "net/http"

// Error codes emitted by the HTTP layer itself, for failures that never
// reach a domain service.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
)

// domainCodeStatus maps domain error codes to HTTP status codes.
// Codes missing from the map fall through to 500.
var domainCodeStatus = map[string]int{
	"NOT_FOUND":             http.StatusNotFound,
	"RECEIPT_NOT_FOUND":     http.StatusNotFound,
	"NO_MATCHING_UNITS":     http.StatusNotFound,
	"ALREADY_EXISTS":        http.StatusConflict,
	"DUPLICATE_IDENTIFIER":  http.StatusConflict,
	"DUPLICATE_RETURN":      http.StatusConflict,
	"CONCURRENCY_CONFLICT":  http.StatusConflict,
	"INVALID_INPUT":         http.StatusBadRequest,
	"EMPTY_NAME":            http.StatusBadRequest,
	"NEGATIVE_QUANTITY":     http.StatusBadRequest,
	"BAD_REQUEST":           http.StatusBadRequest,
	"UNAUTHORIZED":          http.StatusUnauthorized,
	"FORBIDDEN":             http.StatusForbidden,
	"INVALID_STATE":         http.StatusUnprocessableEntity,
	"AMBIGUOUS_PRICING":     http.StatusUnprocessableEntity,
	"PARTIAL_BATCH_FAILURE": http.StatusUnprocessableEntity,
}

// HTTPStatusForCode returns the HTTP status for a domain error code
func HTTPStatusForCode(code string) int {
	if status, ok := domainCodeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
