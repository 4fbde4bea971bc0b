// Package store defines the persistence boundary for the auth service.
// Drivers live under drivers/ and must translate their backend's failures
// into the tagged errors below so callers never match on error strings.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
)

// Tagged errors every driver must return for the corresponding conditions.
var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateUsername is returned when a create would violate the
	// unique username constraint.
	ErrDuplicateUsername = errors.New("store: username already taken")

	// ErrDuplicateEmail is returned when a create would violate the unique
	// email constraint.
	ErrDuplicateEmail = errors.New("store: email already registered")

	// ErrAdminLimit is returned when a create would exceed the maximum
	// number of admin accounts.
	ErrAdminLimit = errors.New("store: admin account limit reached")
)

// Store is the root persistence interface. Sub-repositories group the
// operations by aggregate; the sweep methods live on the root because the
// background sweeper is their only caller.
type Store interface {
	Users() UserRepository
	AccessTokens() AccessTokenRepository
	RefreshTokens() RefreshTokenRepository
	ResetCodes() ResetCodeRepository
	OTPCodes() OTPCodeRepository
	Carts() CartRepository

	// SweepExpiredTokens deletes every access and refresh token whose
	// expiry is at or before now. Returns the number of rows removed.
	SweepExpiredTokens(ctx context.Context, now time.Time) (int64, error)

	// SweepStaleCarts deletes cart items not touched since the cutoff.
	SweepStaleCarts(ctx context.Context, cutoff time.Time) (int64, error)

	// ApplyMigrations brings the schema up to date.
	ApplyMigrations(ctx context.Context) error

	Ping(ctx context.Context) error
	Close() error
}

type UserRepository interface {
	// Create inserts a new account and returns it with the assigned ID.
	// Fails with ErrDuplicateUsername, ErrDuplicateEmail or ErrAdminLimit.
	Create(ctx context.Context, u domain.User) (domain.User, error)

	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)

	// UpdatePasswordByEmail replaces the stored password hash and reports
	// how many rows changed.
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (int64, error)
}

type AccessTokenRepository interface {
	// Upsert inserts the record, replacing any existing row for the same
	// email. This is what keeps the one-row-per-account invariant even
	// under concurrent issuance.
	Upsert(ctx context.Context, rec domain.AccessTokenRecord) error

	GetByEmail(ctx context.Context, email string) (domain.AccessTokenRecord, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type RefreshTokenRepository interface {
	Upsert(ctx context.Context, rec domain.RefreshTokenRecord) error
	GetByEmail(ctx context.Context, email string) (domain.RefreshTokenRecord, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type ResetCodeRepository interface {
	// Upsert stores the code for the user, replacing any pending one.
	Upsert(ctx context.Context, code domain.ResetCode) error
	GetByUserID(ctx context.Context, userID int64) (domain.ResetCode, error)
	DeleteByUserID(ctx context.Context, userID int64) error
}

type OTPCodeRepository interface {
	Upsert(ctx context.Context, code domain.OTPCode) error
	GetByUserID(ctx context.Context, userID int64) (domain.OTPCode, error)
	DeleteByUserID(ctx context.Context, userID int64) error
}

type CartRepository interface {
	UpsertItem(ctx context.Context, item domain.CartItem) error
	ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error)
	DeleteByUser(ctx context.Context, userID int64) error
}
