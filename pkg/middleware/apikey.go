package middleware

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/archis17/AI-KYC/pkg/handlers"
)

// APIKeyHeader carries the shared key for automation clients.
const APIKeyHeader = "X-API-Key"

// ErrInvalidAPIKey indicates a missing or mismatched automation key.
var ErrInvalidAPIKey = errors.New("invalid API key")

// APIKey returns middleware that guards automation routes with a shared key.
// An empty configured key rejects every request, keeping the surface closed
// until explicitly provisioned.
func APIKey(key string, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("system", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(APIKeyHeader)

			if key == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrInvalidAPIKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
