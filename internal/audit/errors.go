package audit

import (
	"errors"
	"net/http"
)

// Domain errors for audit operations.
var (
	ErrNotFound     = errors.New("audit entry not found")
	ErrCaseNotFound = errors.New("case not found")
)

// MapHTTPStatus maps audit domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrCaseNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
