package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/aussiebroadwan/freshmart/internal/auth/store"
	"github.com/aussiebroadwan/freshmart/pkg/cryptox"
	"github.com/aussiebroadwan/freshmart/pkg/slogx"
)

// StartPasswordReset generates a reset code for the account and emails the
// callback link. The email goes out before the code is persisted: if the
// mail provider is down the account is left untouched and the caller sees a
// retryable failure instead of a dead link.
func (s *Service) StartPasswordReset(ctx context.Context, email string, role domain.Role) (Outcome, error) {
	log := slogx.FromContext(ctx)

	u, err := s.store.Users().GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) || (err == nil && u.Role != role) {
		return fail(CodeNotFound, MsgEmailNotFound), nil
	}
	if err != nil {
		return Outcome{}, err
	}

	// The code is stored and transmitted URL-encoded so the link survives
	// the special characters in the code alphabet.
	code := cryptox.NewResetCode()
	encoded := url.QueryEscape(code)
	callback := fmt.Sprintf("%s?userId=%d&code=%s", s.cfg.PasswordResetURL, u.ID, encoded)

	if err := s.mailer.SendPasswordReset(ctx, u.Email, u.Username, callback); err != nil {
		log.Error("password reset email failed", "email", u.Email, "err", err)
		return fail(CodeUnavailable, MsgServiceDown), nil
	}

	if err := s.store.ResetCodes().Upsert(ctx, domain.ResetCode{
		UserID: u.ID,
		Email:  u.Email,
		Code:   encoded,
	}); err != nil {
		return Outcome{}, err
	}

	log.Info("password reset started", "email", u.Email)
	return ok(MsgResetEmailSent), nil
}

// CompletePasswordReset checks the emailed code against the pending one and,
// on a match, replaces the account password. The caller's code arrives
// already URL-decoded, so the stored code is decoded before comparison.
// The pending code is not removed on success; it stays valid until a new
// reset replaces it or the sweeper ages it out.
func (s *Service) CompletePasswordReset(ctx context.Context, userID int64, code, newPassword string) (Outcome, error) {
	log := slogx.FromContext(ctx)

	u, err := s.store.Users().GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return fail(CodeInvalid, MsgInvalidUser), nil
	}
	if err != nil {
		return Outcome{}, err
	}

	pending, err := s.store.ResetCodes().GetByUserID(ctx, u.ID)
	if errors.Is(err, store.ErrNotFound) {
		return fail(CodeExpired, MsgResetLinkExpired), nil
	}
	if err != nil {
		return Outcome{}, err
	}

	stored, err := url.QueryUnescape(pending.Code)
	if err != nil || stored != code {
		return fail(CodeExpired, MsgResetLinkExpired), nil
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return Outcome{}, err
	}

	rows, err := s.store.Users().UpdatePasswordByEmail(ctx, u.Email, hash)
	if err != nil || rows == 0 {
		if err != nil {
			log.Error("password update failed", "email", u.Email, "err", err)
		}
		return fail(CodeInternal, MsgResetFailed), nil
	}

	log.Info("password reset completed", "email", u.Email)
	return ok(MsgPasswordUpdated), nil
}
