package cases

import (
	"errors"
	"net/http"
)

// Domain errors for case operations.
var (
	ErrNotFound        = errors.New("case not found")
	ErrInvalidID       = errors.New("invalid case id")
	ErrInvalidStatus   = errors.New("invalid case status")
	ErrInvalidDecision = errors.New("override decision must be approved or rejected")
	ErrNotScored       = errors.New("case has no risk score to decide against")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// MapHTTPStatus maps case domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidID) || errors.Is(err, ErrInvalidStatus) || errors.Is(err, ErrInvalidDecision) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotScored) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrUnsupportedFile) {
		return http.StatusUnsupportedMediaType
	}
	return http.StatusInternalServerError
}
