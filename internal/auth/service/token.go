package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/aussiebroadwan/freshmart/internal/auth/store"
	"github.com/aussiebroadwan/freshmart/pkg/idx"
	"github.com/aussiebroadwan/freshmart/pkg/jwtx"
	"github.com/aussiebroadwan/freshmart/pkg/slogx"
)

// TokenPair is the access/refresh pair handed to a client on login.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// IssueTokenPair returns the caller's current token pair, minting fresh
// tokens only where the stored ones are missing or expired. An unexpired
// stored token is always reused as-is, so a client logging in twice inside
// the token lifetime sees the same token string both times.
func (s *Service) IssueTokenPair(ctx context.Context, u domain.User) (TokenPair, error) {
	access, err := s.getOrIssueAccess(ctx, u)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.getOrIssueRefresh(ctx, u)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshToken:     refresh.Token,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

func (s *Service) getOrIssueAccess(ctx context.Context, u domain.User) (domain.AccessTokenRecord, error) {
	now := s.now()
	repo := s.store.AccessTokens()

	existing, err := repo.GetByEmail(ctx, u.Email)
	switch {
	case err == nil && !existing.Expired(now):
		return existing, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return domain.AccessTokenRecord{}, err
	}

	signed, err := s.signer.Issue(identityOf(u), jwtx.PolicyAccess, now)
	if err != nil {
		return domain.AccessTokenRecord{}, err
	}

	rec := domain.AccessTokenRecord{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		Token:     signed.Token,
		ExpiresAt: signed.ExpiresAt,
	}
	if err := repo.Upsert(ctx, rec); err != nil {
		return domain.AccessTokenRecord{}, err
	}

	// Re-read so concurrent issuers all converge on whichever write won.
	return repo.GetByEmail(ctx, u.Email)
}

func (s *Service) getOrIssueRefresh(ctx context.Context, u domain.User) (domain.RefreshTokenRecord, error) {
	now := s.now()
	repo := s.store.RefreshTokens()

	existing, err := repo.GetByEmail(ctx, u.Email)
	switch {
	case err == nil && !existing.Expired(now):
		return existing, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return domain.RefreshTokenRecord{}, err
	}

	signed, err := s.signer.Issue(identityOf(u), jwtx.PolicyRefresh, now)
	if err != nil {
		return domain.RefreshTokenRecord{}, err
	}

	rec := domain.RefreshTokenRecord{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		Token:     signed.Token,
		ExpiresAt: signed.ExpiresAt,
	}
	if err := repo.Upsert(ctx, rec); err != nil {
		return domain.RefreshTokenRecord{}, err
	}

	return repo.GetByEmail(ctx, u.Email)
}

// Logout drops both stored tokens for the account. The JWTs themselves stay
// valid until expiry; logout only clears the reuse state.
func (s *Service) Logout(ctx context.Context, email string) (Outcome, error) {
	if err := s.store.AccessTokens().DeleteByEmail(ctx, email); err != nil {
		return Outcome{}, err
	}
	if err := s.store.RefreshTokens().DeleteByEmail(ctx, email); err != nil {
		return Outcome{}, err
	}

	slogx.FromContext(ctx).Info("user logged out", "email", email)
	return ok(MsgLoggedOut), nil
}

func identityOf(u domain.User) jwtx.Identity {
	return jwtx.Identity{
		Username: u.Username,
		Role:     u.Role.String(),
		Email:    u.Email,
	}
}
