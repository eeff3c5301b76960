package auth

import (
	"context"
	"dm-lab/errors"
	"net/http"
	"strings"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// ErrorWriter renders an authentication failure. The HTTP layer supplies it
// so every error body has the same shape.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware validates the Authorization header and injects the caller id
// into the request context for downstream handlers.
func Middleware(tokens *TokenManager, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, r, errors.ErrUnauthenticated)
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
			if err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserIDFromContext returns the authenticated caller, or ErrUnauthenticated.
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, _ := ctx.Value(UserIDKey).(string)
	if userID == "" {
		return "", errors.ErrUnauthenticated
	}
	return userID, nil
}
