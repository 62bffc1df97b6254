// Package auth verifies credentials and access tokens.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/planwise/engine/internal/models"
	"github.com/planwise/engine/internal/repository"
	appErr "github.com/planwise/engine/pkg/errors"
	"github.com/planwise/engine/pkg/utils"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// InvalidCredentialsMessage is shown for every failed login.
const InvalidCredentialsMessage = "Invalid email or password."

// Authenticator is built once at startup and shared by the login handler
// and the bearer middleware.
type Authenticator struct {
	users  repository.UserRepository
	hasher *Hasher
	tokens *TokenIssuer
}

func NewAuthenticator(users repository.UserRepository, hasher *Hasher, tokens *TokenIssuer) *Authenticator {
	return &Authenticator{users: users, hasher: hasher, tokens: tokens}
}

// Hasher exposes the password hasher so signup hashes with the same cost.
func (a *Authenticator) Hasher() *Hasher { return a.hasher }

// TokenTTL is the lifetime of tokens returned by IssueToken.
func (a *Authenticator) TokenTTL() time.Duration { return a.tokens.TTL() }

// Authenticate checks an email/password pair. Unknown email and wrong
// password fail identically.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	if err := a.users.GetByEmail(ctx, utils.NormalizeEmail(email), &u); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := a.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *Authenticator) IssueToken(u *models.User) (string, time.Time, error) {
	return a.tokens.Issue(u.ID)
}

// Verify resolves a bearer token to its user. The role always comes from
// the store, never from the token.
func (a *Authenticator) Verify(ctx context.Context, token string) (*models.User, error) {
	id, err := a.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := a.users.GetByID(ctx, id, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// RoleAllowed reports whether role is in allowed.
func RoleAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
