package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/planwise/engine/internal/auth"
	"github.com/planwise/engine/internal/models"
	appErr "github.com/planwise/engine/pkg/errors"
	"github.com/planwise/engine/pkg/logger"
	"go.uber.org/zap"
)

// AccessTokenCookie is set on login and read when no Authorization header is sent.
const AccessTokenCookie = "access_token"

// TokenVerifier resolves a bearer token to its user.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return ""
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// Auth requires a valid bearer token and puts the token's user in the request context.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, appErr.CodeUnauthorized, "Unauthorized")
				return
			}

			u, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrUserNotFound) {
					logger.L().Error("verify token failed", zap.String("id", GetRequestID(r.Context())), zap.Error(err))
				}
				writeError(w, http.StatusUnauthorized, appErr.CodeUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	}
}

// RequireRole lets through only users whose role is listed. Must run after Auth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := CurrentUser(r.Context())
			if u == nil || !auth.RoleAllowed(u.Role, roles) {
				writeError(w, http.StatusUnauthorized, appErr.CodeUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CurrentUser returns the authenticated user, or nil outside Auth.
func CurrentUser(ctx context.Context) *models.User {
	return auth.UserFrom(ctx)
}
