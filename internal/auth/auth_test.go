package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/planwise/engine/internal/models"
	"github.com/planwise/engine/internal/repository"
	"github.com/planwise/engine/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret-key-for-jwt-signing")

func newTestAuthenticator(t *testing.T) (*Authenticator, repository.UserRepository) {
	t.Helper()
	users := repository.NewUserRepository(testutil.NewDB(t))
	return NewAuthenticator(users, NewHasher(bcrypt.MinCost), NewTokenIssuer(testSecret, 0)), users
}

func seedUser(t *testing.T, a *Authenticator, users repository.UserRepository, email, password string) *models.User {
	t.Helper()
	hash, err := a.Hasher().Hash(password)
	require.NoError(t, err)
	u := &models.User{Email: email, PasswordHash: hash, Role: models.RolePremium}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestHasher(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, h.Compare("not-a-hash", "x"), ErrInvalidCredentials)

	_, err = h.Hash(strings.Repeat("a", MaxPasswordBytes))
	assert.NoError(t, err)
	_, err = h.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 0)
	id := uuid.New()

	token, exp, err := issuer.Issue(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp, 5*time.Second)

	got, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)

	expired := NewTokenIssuer(testSecret, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Issue(uuid.New())
	require.NoError(t, err)

	otherSecret, _, err := NewTokenIssuer([]byte("a-different-secret-entirely"), time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": uuid.NewString()}).SignedString(testSecret)
	require.NoError(t, err)

	badSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"expired", expiredToken},
		{"wrong secret", otherSecret},
		{"missing exp", noExp},
		{"non-uuid subject", badSub},
		{"wrong algorithm", hs512},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	a, users := newTestAuthenticator(t)
	seeded := seedUser(t, a, users, "ada@example.com", "password123")

	u, err := a.Authenticate(context.Background(), "  Ada@Example.com ", "password123")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, u.ID)

	_, wrongPassword := a.Authenticate(context.Background(), "ada@example.com", "nope")
	_, unknownEmail := a.Authenticate(context.Background(), "bob@example.com", "password123")
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestVerifyRefetchesUser(t *testing.T) {
	a, users := newTestAuthenticator(t)
	u := seedUser(t, a, users, "ada@example.com", "password123")

	token, _, err := a.IssueToken(u)
	require.NoError(t, err)

	got, err := a.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, models.RolePremium, got.Role)

	ghost, _, err := a.IssueToken(&models.User{ID: uuid.New()})
	require.NoError(t, err)
	_, err = a.Verify(context.Background(), ghost)
	assert.True(t, errors.Is(err, ErrUserNotFound))

	_, err = a.Verify(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRoleAllowed(t *testing.T) {
	allowed := []models.Role{models.RoleFree, models.RolePremium}
	assert.True(t, RoleAllowed(models.RoleFree, allowed))
	assert.False(t, RoleAllowed(models.RoleAdmin, allowed))
	assert.False(t, RoleAllowed(models.RoleFree, nil))
}

func TestUserContext(t *testing.T) {
	assert.Nil(t, UserFrom(context.Background()))
	u := &models.User{ID: uuid.New()}
	assert.Same(t, u, UserFrom(WithUser(context.Background(), u)))
}
