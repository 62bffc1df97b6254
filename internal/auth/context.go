package auth

import (
	"context"

	"github.com/planwise/engine/internal/models"
)

type userContextKey struct{}

// WithUser attaches the authenticated user to ctx.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFrom returns the authenticated user, or nil.
func UserFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userContextKey{}).(*models.User)
	return u
}
