package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hongminglow/passvault-be/internal/auth"
	"github.com/hongminglow/passvault-be/internal/http/respond"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// RequireAuth enforces a valid bearer access token and stores the
// authenticated user id in the request context. The rejection message is
// uniform for missing, malformed, and expired tokens.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respond.Error(w, http.StatusUnauthorized, "auth_error", "invalid or missing token")
				return
			}

			userID, err := tokens.ParseUserID(token)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "auth_error", "invalid or missing token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user id placed by RequireAuth.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
