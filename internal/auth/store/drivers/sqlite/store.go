package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/freshmart/internal/auth/store"
	sqlite3 "modernc.org/sqlite"
)

// MaxAdmins caps how many admin accounts may exist. The driver enforces it
// at create time so the limit holds regardless of which caller registers.
const MaxAdmins = 2

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() store.UserRepository                 { return &usersRepo{db: s.db} }
func (s *Store) AccessTokens() store.AccessTokenRepository   { return &accessTokensRepo{db: s.db} }
func (s *Store) RefreshTokens() store.RefreshTokenRepository { return &refreshTokensRepo{db: s.db} }
func (s *Store) ResetCodes() store.ResetCodeRepository       { return &resetCodesRepo{db: s.db} }
func (s *Store) OTPCodes() store.OTPCodeRepository           { return &otpCodesRepo{db: s.db} }
func (s *Store) Carts() store.CartRepository                 { return &cartsRepo{db: s.db} }

// codeMaxAge bounds how long a pending reset code or OTP stays usable. The
// code tables carry no expiry column, so the sweep ages rows out by
// created_at instead; a day comfortably outlives any legitimate attempt.
const codeMaxAge = 24 * time.Hour

// SweepExpiredTokens removes expired rows from both token namespaces, plus
// aged-out reset codes and OTPs, in a single transaction so a partial sweep
// never survives a crash.
func (s *Store) SweepExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var total int64
	for _, table := range []string{"access_tokens", "refresh_tokens"} {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE expires_at <= ?`, now.Unix())
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}

	codeCutoff := now.Add(-codeMaxAge).Unix()
	for _, table := range []string{"reset_codes", "otp_codes"} {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE created_at <= ?`, codeCutoff)
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

// SweepStaleCarts removes cart items last touched before the cutoff.
func (s *Store) SweepStaleCarts(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE updated_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// mapNotFound translates sql.ErrNoRows into the store's tagged error.
func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint translates SQLite unique-constraint failures into the
// store's tagged errors. The constraint name in the driver message is the
// only way SQLite identifies which index fired; the translation is
// contained here so nothing above the driver touches error text.
func mapConstraint(err error) error {
	var se *sqlite3.Error
	if !errors.As(err, &se) {
		return err
	}

	msg := se.Error()
	switch {
	case strings.Contains(msg, "users.username"):
		return store.ErrDuplicateUsername
	case strings.Contains(msg, "users.email"):
		return store.ErrDuplicateEmail
	}
	return err
}
