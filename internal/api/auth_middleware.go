package api

import (
	"net/http"
	"strings"

	"github.com/driftline/driftline/internal/auth"
	"github.com/driftline/driftline/internal/middleware"
)

// RequireAuth validates the Bearer token and stores the user ID in the
// request context. Refresh tokens are rejected on API endpoints.
func RequireAuth(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				ctx := middleware.SetErrorCode(r.Context(), ErrCodeAuthFailed)
				WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Missing Authorization header")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				ctx := middleware.SetErrorCode(r.Context(), ErrCodeAuthFailed)
				WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Authorization header must be a Bearer token")
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				ctx := middleware.SetErrorCode(r.Context(), ErrCodeAuthFailed)
				WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Invalid or expired token")
				return
			}
			if claims.Type != auth.TokenTypeAccess {
				ctx := middleware.SetErrorCode(r.Context(), ErrCodeAuthFailed)
				WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Access token required")
				return
			}

			ctx := middleware.SetUserID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
