package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/aussiebroadwan/freshmart/internal/auth/store"
	"github.com/aussiebroadwan/freshmart/pkg/cryptox"
	"github.com/aussiebroadwan/freshmart/pkg/slogx"
)

// StartOTPLogin generates a one-time code and emails it. Like the password
// reset flow, the email is dispatched before the code is persisted so a
// mail failure leaves no orphaned code behind, and an email registered
// under a different role reads as not found.
func (s *Service) StartOTPLogin(ctx context.Context, email string, role domain.Role) (Outcome, error) {
	log := slogx.FromContext(ctx)

	u, err := s.store.Users().GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) || (err == nil && u.Role != role) {
		return fail(CodeNotFound, MsgEmailNotFound), nil
	}
	if err != nil {
		return Outcome{}, err
	}

	otp := cryptox.NewOTP()
	if err := s.mailer.SendOTP(ctx, u.Email, u.Username, otp); err != nil {
		log.Error("otp email failed", "email", u.Email, "err", err)
		return fail(CodeUnavailable, MsgServiceDown), nil
	}

	if err := s.store.OTPCodes().Upsert(ctx, domain.OTPCode{
		UserID: u.ID,
		Email:  u.Email,
		Code:   otp,
	}); err != nil {
		return Outcome{}, err
	}

	log.Info("otp login started", "email", u.Email)
	return ok(MsgOTPSent), nil
}

// OTPLoginResult carries the outcome plus the fresh token pair minted on a
// successful confirmation.
type OTPLoginResult struct {
	Outcome Outcome
	Tokens  TokenPair
}

// ConfirmOTPLogin validates the submitted code. On a match any stored
// tokens are dropped and a fresh pair is minted, so an OTP login always
// rotates the account's tokens. The pending code itself stays in place; a
// second confirmation with the same code succeeds again and rotates the
// tokens once more.
func (s *Service) ConfirmOTPLogin(ctx context.Context, email string, otp int) (OTPLoginResult, error) {
	log := slogx.FromContext(ctx)

	u, err := s.store.Users().GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return OTPLoginResult{Outcome: fail(CodeNotFound, MsgEmailNotFound)}, nil
	}
	if err != nil {
		return OTPLoginResult{}, err
	}

	pending, err := s.store.OTPCodes().GetByUserID(ctx, u.ID)
	if errors.Is(err, store.ErrNotFound) {
		return OTPLoginResult{Outcome: fail(CodeNotFound, MsgOTPNotFound)}, nil
	}
	if err != nil {
		return OTPLoginResult{}, err
	}

	if pending.Code != otp {
		return OTPLoginResult{Outcome: fail(CodeInvalid, MsgOTPInvalid)}, nil
	}

	// Drop the stored pair first so the issue below always mints fresh
	// tokens instead of reusing the old ones.
	if err := s.store.AccessTokens().DeleteByEmail(ctx, u.Email); err != nil {
		return OTPLoginResult{}, err
	}
	if err := s.store.RefreshTokens().DeleteByEmail(ctx, u.Email); err != nil {
		return OTPLoginResult{}, err
	}

	tokens, err := s.IssueTokenPair(ctx, u)
	if err != nil {
		return OTPLoginResult{}, err
	}

	log.Info("otp login confirmed", "email", u.Email)
	return OTPLoginResult{Outcome: ok(MsgOTPValid), Tokens: tokens}, nil
}
