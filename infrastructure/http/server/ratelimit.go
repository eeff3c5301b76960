package server

import (
	"dm-lab/auth"
	"dm-lab/contract"
	"dm-lab/errors"
	"dm-lab/observability"
	"log/slog"
	"net/http"
)

// RateLimit throttles requests per authenticated caller. A limiter failure
// lets the request through: sending must not depend on the limiter backend.
func RateLimit(log *slog.Logger, limiter contract.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := auth.UserIDFromContext(r.Context())
			if err != nil {
				RespondError(log, w, r, err)
				return
			}
			allowed, err := limiter.Allow(r.Context(), userID)
			if err != nil {
				log.Warn("Rate limiter unavailable, allowing request", "user", userID, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				observability.SendRateLimited.Inc()
				RespondError(log, w, r, errors.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
