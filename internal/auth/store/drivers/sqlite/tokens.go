package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
)

// Both token namespaces share the same shape, so the two repos delegate to
// common helpers parameterised by table name.

type accessTokensRepo struct {
	db *sql.DB
}

func (r *accessTokensRepo) Upsert(ctx context.Context, rec domain.AccessTokenRecord) error {
	return upsertToken(ctx, r.db, "access_tokens", tokenRow{
		ID: rec.ID, UserID: rec.UserID, Email: rec.Email, Username: rec.Username,
		Role: string(rec.Role), Token: rec.Token, ExpiresAt: rec.ExpiresAt,
	})
}

func (r *accessTokensRepo) GetByEmail(ctx context.Context, email string) (domain.AccessTokenRecord, error) {
	row, err := getTokenByEmail(ctx, r.db, "access_tokens", email)
	if err != nil {
		return domain.AccessTokenRecord{}, err
	}
	return domain.AccessTokenRecord{
		ID: row.ID, UserID: row.UserID, Email: row.Email, Username: row.Username,
		Role: domain.Role(row.Role), Token: row.Token, ExpiresAt: row.ExpiresAt,
	}, nil
}

func (r *accessTokensRepo) DeleteByEmail(ctx context.Context, email string) error {
	return deleteTokenByEmail(ctx, r.db, "access_tokens", email)
}

type refreshTokensRepo struct {
	db *sql.DB
}

func (r *refreshTokensRepo) Upsert(ctx context.Context, rec domain.RefreshTokenRecord) error {
	return upsertToken(ctx, r.db, "refresh_tokens", tokenRow{
		ID: rec.ID, UserID: rec.UserID, Email: rec.Email, Username: rec.Username,
		Role: string(rec.Role), Token: rec.Token, ExpiresAt: rec.ExpiresAt,
	})
}

func (r *refreshTokensRepo) GetByEmail(ctx context.Context, email string) (domain.RefreshTokenRecord, error) {
	row, err := getTokenByEmail(ctx, r.db, "refresh_tokens", email)
	if err != nil {
		return domain.RefreshTokenRecord{}, err
	}
	return domain.RefreshTokenRecord{
		ID: row.ID, UserID: row.UserID, Email: row.Email, Username: row.Username,
		Role: domain.Role(row.Role), Token: row.Token, ExpiresAt: row.ExpiresAt,
	}, nil
}

func (r *refreshTokensRepo) DeleteByEmail(ctx context.Context, email string) error {
	return deleteTokenByEmail(ctx, r.db, "refresh_tokens", email)
}

type tokenRow struct {
	ID        string
	UserID    int64
	Email     string
	Username  string
	Role      string
	Token     string
	ExpiresAt time.Time
}

// upsertToken inserts the record, replacing the existing row for the same
// email. The database resolves the conflict atomically, which is what keeps
// one row per account even when two requests issue tokens at once.
func upsertToken(ctx context.Context, db *sql.DB, table string, row tokenRow) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO `+table+` (id, user_id, email, username, role, token, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			id         = excluded.id,
			user_id    = excluded.user_id,
			username   = excluded.username,
			role       = excluded.role,
			token      = excluded.token,
			expires_at = excluded.expires_at`,
		row.ID, row.UserID, row.Email, row.Username, row.Role, row.Token, row.ExpiresAt.Unix())
	return err
}

func getTokenByEmail(ctx context.Context, db *sql.DB, table, email string) (tokenRow, error) {
	var (
		row     tokenRow
		expires int64
	)
	err := db.QueryRowContext(ctx, `
		SELECT id, user_id, email, username, role, token, expires_at
		FROM `+table+` WHERE email = ?`, email,
	).Scan(&row.ID, &row.UserID, &row.Email, &row.Username, &row.Role, &row.Token, &expires)
	if err != nil {
		return tokenRow{}, mapNotFound(err)
	}
	row.ExpiresAt = time.Unix(expires, 0).UTC()
	return row, nil
}

func deleteTokenByEmail(ctx context.Context, db *sql.DB, table, email string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE email = ?`, email)
	return err
}
