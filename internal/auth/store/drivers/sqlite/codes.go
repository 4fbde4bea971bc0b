package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
)

type resetCodesRepo struct {
	db *sql.DB
}

func (r *resetCodesRepo) Upsert(ctx context.Context, code domain.ResetCode) error {
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reset_codes (user_id, email, code, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			email      = excluded.email,
			code       = excluded.code,
			created_at = excluded.created_at`,
		code.UserID, code.Email, code.Code, code.CreatedAt.Unix())
	return err
}

func (r *resetCodesRepo) GetByUserID(ctx context.Context, userID int64) (domain.ResetCode, error) {
	var (
		c       domain.ResetCode
		created int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, email, code, created_at
		FROM reset_codes WHERE user_id = ?`, userID,
	).Scan(&c.UserID, &c.Email, &c.Code, &created)
	if err != nil {
		return domain.ResetCode{}, mapNotFound(err)
	}
	c.CreatedAt = time.Unix(created, 0).UTC()
	return c, nil
}

func (r *resetCodesRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reset_codes WHERE user_id = ?`, userID)
	return err
}

type otpCodesRepo struct {
	db *sql.DB
}

func (r *otpCodesRepo) Upsert(ctx context.Context, code domain.OTPCode) error {
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO otp_codes (user_id, email, code, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			email      = excluded.email,
			code       = excluded.code,
			created_at = excluded.created_at`,
		code.UserID, code.Email, code.Code, code.CreatedAt.Unix())
	return err
}

func (r *otpCodesRepo) GetByUserID(ctx context.Context, userID int64) (domain.OTPCode, error) {
	var (
		c       domain.OTPCode
		created int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, email, code, created_at
		FROM otp_codes WHERE user_id = ?`, userID,
	).Scan(&c.UserID, &c.Email, &c.Code, &created)
	if err != nil {
		return domain.OTPCode{}, mapNotFound(err)
	}
	c.CreatedAt = time.Unix(created, 0).UTC()
	return c, nil
}

func (r *otpCodesRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM otp_codes WHERE user_id = ?`, userID)
	return err
}
