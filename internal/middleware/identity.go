package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/marcogenualdo/taddoist/internal/session"
)

// Identity resolves the identity cookie for every request. Anonymous
// requests pass through; a cookie that fails verification is cleared.
func Identity(sessions *session.Manager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := sessions.Identity(w, r)
			switch {
			case err == nil:
				r = r.WithContext(session.WithUser(r.Context(), userID))
			case errors.Is(err, session.ErrNoIdentity):
			case errors.Is(err, session.ErrInvalidIdentity):
				logger.Debug("discarding identity cookie", "path", r.URL.Path, "error", err)
				sessions.Clear(w)
			default:
				logger.Error("failed to resolve identity", "error", err)
			}

			next.ServeHTTP(w, r)
		})
	}
}
