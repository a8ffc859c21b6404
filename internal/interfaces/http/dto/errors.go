package dto

import "net/http"

// Error codes surfaced by the HTTP layer itself. Domain errors carry
// their own codes; these cover failures before a request reaches a
// service.
const (
	ErrCodeInternal     = "INTERNAL"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps error codes, domain and HTTP-level alike, to
// response status codes. Concurrency conflicts and duplicates both map
// to 409; an invalid lifecycle transition is a semantic rejection, 422.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeRateLimited: http.StatusTooManyRequests,

	"VALIDATION":           http.StatusBadRequest,
	"UNAUTHORIZED":         http.StatusUnauthorized,
	"FORBIDDEN":            http.StatusForbidden,
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVALID_TRANSITION":   http.StatusUnprocessableEntity,
	"UPSTREAM_UNAVAILABLE": http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting
// to 500 for codes it does not recognize
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
