// Package service implements the credential lifecycle flows: login and
// registration, token issuance and reuse, password reset, one-time-code
// login and logout. Handlers stay thin; every business decision lives here.
package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/freshmart/internal/auth/store"
	"github.com/aussiebroadwan/freshmart/pkg/jwtx"
)

// Mailer dispatches the outbound notification emails. The SMTP
// implementation lives in internal/auth/email; tests substitute a fake.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, callbackURL string) error
	SendOTP(ctx context.Context, to, name string, otp int) error
}

// Config carries the service-level settings injected at construction. None
// of the flows read the environment directly.
type Config struct {
	// PasswordResetURL is the base URL of the frontend reset page. The
	// userId and code query parameters are appended when a reset email
	// goes out.
	PasswordResetURL string
}

type Service struct {
	store  store.Store
	signer *jwtx.Signer
	mailer Mailer
	cfg    Config

	// now is swapped out by tests that pin the clock.
	now func() time.Time
}

func New(st store.Store, signer *jwtx.Signer, mailer Mailer, cfg Config) *Service {
	return &Service{
		store:  st,
		signer: signer,
		mailer: mailer,
		cfg:    cfg,
		now:    time.Now,
	}
}
