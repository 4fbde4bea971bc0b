package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/aussiebroadwan/freshmart/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/freshmart/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// fakeMailer records outbound mail and can be told to fail.
type fakeMailer struct {
	failNext bool

	resetCalls []resetCall
	otpCalls   []otpCall
}

type resetCall struct {
	to, name, callbackURL string
}

type otpCall struct {
	to, name string
	otp      int
}

var errMailDown = errors.New("smtp unreachable")

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, name, callbackURL string) error {
	if m.failNext {
		m.failNext = false
		return errMailDown
	}
	m.resetCalls = append(m.resetCalls, resetCall{to, name, callbackURL})
	return nil
}

func (m *fakeMailer) SendOTP(_ context.Context, to, name string, otp int) error {
	if m.failNext {
		m.failNext = false
		return errMailDown
	}
	m.otpCalls = append(m.otpCalls, otpCall{to, name, otp})
	return nil
}

func newTestService(t *testing.T) (*Service, *sqlite.Store, *fakeMailer) {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations(context.Background()))

	mailer := &fakeMailer{}
	signer := jwtx.NewSigner("test-signing-key", "freshmart", []string{"freshmart"})
	svc := New(st, signer, mailer, Config{
		PasswordResetURL: "https://shop.example.com/reset-password",
	})
	return svc, st, mailer
}

func registerUser(t *testing.T, svc *Service, username, email string, role domain.Role) domain.User {
	t.Helper()

	u, err := svc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "correct horse battery staple",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}
