package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/aussiebroadwan/freshmart/internal/auth/store"
	"github.com/aussiebroadwan/freshmart/pkg/cryptox"
	"github.com/aussiebroadwan/freshmart/pkg/slogx"
)

var (
	ErrUsernameTaken   = errors.New("service: username already taken")
	ErrEmailRegistered = errors.New("service: email already registered")
	ErrAdminLimit      = errors.New("service: admin account limit reached")
	ErrBadCredentials  = errors.New("service: invalid credentials")
)

// RegisterInput is a validated registration request. Role must already have
// passed domain.ParseRole.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// Register creates a new account with a hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	u, err := s.store.Users().Create(ctx, domain.User{
		Username:     in.Username,
		Email:        in.Email,
		Role:         in.Role,
		PasswordHash: hash,
	})
	switch {
	case errors.Is(err, store.ErrDuplicateUsername):
		return domain.User{}, ErrUsernameTaken
	case errors.Is(err, store.ErrDuplicateEmail):
		return domain.User{}, ErrEmailRegistered
	case errors.Is(err, store.ErrAdminLimit):
		return domain.User{}, ErrAdminLimit
	case err != nil:
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "username", u.Username, "role", u.Role)
	return u, nil
}

// LoginResult bundles a successful login's greeting and token pair.
type LoginResult struct {
	Message string
	User    domain.User
	Tokens  TokenPair
}

// Authenticate verifies the password and hands back the account's token
// pair. A wrong password and an unknown username both come back as
// ErrBadCredentials so the response does not leak which one it was.
func (s *Service) Authenticate(ctx context.Context, username, password string) (LoginResult, error) {
	u, err := s.store.Users().GetByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, ErrBadCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return LoginResult{}, ErrBadCredentials
	}

	tokens, err := s.IssueTokenPair(ctx, u)
	if err != nil {
		return LoginResult{}, err
	}

	slogx.FromContext(ctx).Info("user logged in", "username", u.Username)
	return LoginResult{
		Message: fmt.Sprintf("Welcome back, %s! Your login was successful.", u.Username),
		User:    u,
		Tokens:  tokens,
	}, nil
}
