package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicates(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	registerUser(t, svc, "erin", "erin@example.com", domain.RoleUser)

	_, err := svc.Register(ctx, RegisterInput{
		Username: "erin", Email: "other@example.com",
		Password: "pw-long-enough", Role: domain.RoleUser,
	})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, RegisterInput{
		Username: "erin2", Email: "erin@example.com",
		Password: "pw-long-enough", Role: domain.RoleUser,
	})
	require.ErrorIs(t, err, ErrEmailRegistered)
}

func TestAuthenticateSuccess(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	registerUser(t, svc, "frank", "frank@example.com", domain.RoleUser)

	res, err := svc.Authenticate(ctx, "frank", "correct horse battery staple")
	require.NoError(t, err)
	require.Equal(t, "Welcome back, frank! Your login was successful.", res.Message)
	require.NotEmpty(t, res.Tokens.AccessToken)
	require.NotEmpty(t, res.Tokens.RefreshToken)
}

func TestAuthenticateBadCredentials(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	registerUser(t, svc, "grace", "grace@example.com", domain.RoleUser)

	_, err := svc.Authenticate(ctx, "grace", "wrong password")
	require.ErrorIs(t, err, ErrBadCredentials)

	// Unknown usernames fail the same way as wrong passwords.
	_, err = svc.Authenticate(ctx, "nobody", "correct horse battery staple")
	require.ErrorIs(t, err, ErrBadCredentials)
}
