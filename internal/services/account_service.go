package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/planwise/engine/internal/auth"
	"github.com/planwise/engine/internal/models"
	"github.com/planwise/engine/internal/repository"
	appErr "github.com/planwise/engine/pkg/errors"
	"github.com/planwise/engine/pkg/logger"
	"github.com/planwise/engine/pkg/utils"
	"go.uber.org/zap"
)

type AccountService interface {
	Signup(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *ProfileInput) (*models.User, error)
}

type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// ProfileInput carries a required email plus optional profile fields; nil
// fields are left untouched.
type ProfileInput struct {
	Email    string
	Name     *string
	Gender   *string
	Location *string
	Website  *string
}

// Field-level reasons surfaced in the errors list.
const (
	ReasonEmailExists = "email_exist"
	ReasonKeyExists   = "key_exist"
)

type accountService struct {
	users repository.UserRepository
	authn *auth.Authenticator
}

func NewAccountService(users repository.UserRepository, authn *auth.Authenticator) AccountService {
	return &accountService{users: users, authn: authn}
}

var _ AccountService = (*accountService)(nil)

func emailExists() *appErr.AppError {
	return appErr.New(appErr.CodeAlreadyExists, "Email already exists").
		WithMeta("field", "email").
		WithMeta("reason", ReasonEmailExists)
}

func (s *accountService) Signup(ctx context.Context, email, password string) (*models.User, error) {
	email = utils.NormalizeEmail(email)

	taken, err := s.users.EmailTaken(ctx, email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, emailExists()
	}

	hash, err := s.authn.Hasher().Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, "Password must be at most 72 bytes").
			WithMeta("field", "password").
			WithMeta("reason", "maxbytes")
	}
	if err != nil {
		return nil, appErr.Internal(err, "hash password failed")
	}

	u := &models.User{Email: email, PasswordHash: hash, Role: models.RoleFree}
	if err := s.users.Create(ctx, u); err != nil {
		if appErr.IsCode(err, appErr.CodeAlreadyExists) {
			return nil, emailExists()
		}
		return nil, err
	}

	logger.L().Info("user signed up", zap.String("user_id", u.ID.String()))
	return u, nil
}

func (s *accountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.authn.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, appErr.Wrap(err, appErr.CodeInvalidCredentials, auth.InvalidCredentialsMessage)
		}
		return nil, appErr.Internal(err, "authenticate failed")
	}

	token, exp, err := s.authn.IssueToken(u)
	if err != nil {
		return nil, appErr.Internal(err, "issue token failed")
	}

	logger.L().Info("user logged in", zap.String("user_id", u.ID.String()))
	return &LoginResult{User: u, Token: token, ExpiresAt: exp}, nil
}

func (s *accountService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.users.GetByID(ctx, userID, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *ProfileInput) (*models.User, error) {
	logger.L().Info("update profile", zap.String("user_id", userID.String()))

	email := utils.NormalizeEmail(input.Email)
	taken, err := s.users.EmailTaken(ctx, email, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, emailExists()
	}

	fields := map[string]any{"email": email}
	set(fields, "profile_name", input.Name)
	set(fields, "profile_gender", input.Gender)
	set(fields, "profile_location", input.Location)
	set(fields, "profile_website", input.Website)

	var u models.User
	if err := s.users.UpdateProfile(ctx, userID, fields, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeAlreadyExists) {
			return nil, emailExists()
		}
		return nil, err
	}
	return &u, nil
}
