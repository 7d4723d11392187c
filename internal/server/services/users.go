// Package services contains the server business logic: the user directory,
// the post store, the like engine and avatar uploads. Services work through
// a repomanager.RepositoryManager and never touch SQL directly.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/cryptox"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Registration carries the fields of a sign-up request.
type Registration struct {
	Email          string
	Identifier     string
	Name           string
	ProfilePicture string
	Password       string
}

// Session is the outcome of a successful login.
type Session struct {
	User  *models.User
	Token string
}

// UserService is the user directory: lookup, registration and login.
type UserService struct {
	repos     repomanager.RepositoryManager
	protector cryptox.PasswordProtector
	tokens    *auth.TokenService
	log       logging.Logger
}

func NewUserService(repos repomanager.RepositoryManager, protector cryptox.PasswordProtector, tokens *auth.TokenService, log logging.Logger) *UserService {
	return &UserService{
		repos:     repos,
		protector: protector,
		tokens:    tokens,
		log:       log.With("module", "users"),
	}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail returns nil, nil when no user has the address.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.repos.Users().GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByIdentifier returns nil, nil when the handle is free.
func (s *UserService) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	u, err := s.repos.Users().GetByIdentifier(ctx, identifier)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by identifier: %w", err)
	}
	return u, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repos.Users().GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Register creates an account. The email is checked first, then the
// identifier; a concurrent insert that wins the race surfaces as the same
// duplicate error through the store's unique keys.
func (s *UserService) Register(ctx context.Context, r Registration) (*models.User, error) {
	email := NormalizeEmail(r.Email)

	existing, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, common.ErrDuplicateEmail
	}

	existing, err = s.FindByIdentifier(ctx, r.Identifier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, common.ErrDuplicateIdentifier
	}

	blob, err := s.protector.Protect(r.Password)
	if err != nil {
		return nil, fmt.Errorf("protect password: %w", err)
	}

	user := &models.User{
		ID:             uuid.NewString(),
		Email:          email,
		Identifier:     r.Identifier,
		Name:           r.Name,
		ProfilePicture: r.ProfilePicture,
		Password:       blob,
	}

	created, err := s.repos.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		if errors.Is(err, common.ErrDuplicateIdentifier) {
			return nil, common.ErrDuplicateIdentifier
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", created.ID, "identifier", created.Identifier)
	return created, nil
}

// Authenticate checks the credentials and issues a session token. An
// unknown email and a wrong password both yield common.ErrAuthFailed.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrAuthFailed
	}

	ok, err := s.protector.Verify(user.Password, password)
	if err != nil {
		s.log.Warn(ctx, "stored password unusable", "user_id", user.ID, "error", err)
		return nil, common.ErrAuthFailed
	}
	if !ok {
		return nil, common.ErrAuthFailed
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Session{User: user, Token: token}, nil
}

// Identify resolves a bearer token to its user.
func (s *UserService) Identify(ctx context.Context, token string) (*models.User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}
