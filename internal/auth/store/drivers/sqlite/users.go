package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/aussiebroadwan/freshmart/internal/auth/store"
)

type usersRepo struct {
	db *sql.DB
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// The admin cap is checked inside the same transaction as the insert
	// so two concurrent admin registrations cannot both slip under it.
	if u.Role == domain.RoleAdmin {
		var admins int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM users WHERE role = ?`, string(domain.RoleAdmin),
		).Scan(&admins)
		if err != nil {
			return domain.User{}, err
		}
		if admins >= MaxAdmins {
			return domain.User{}, store.ErrAdminLimit
		}
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO users (username, email, role, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.Email, string(u.Role), u.PasswordHash, u.CreatedAt.Unix())
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	u.ID = id

	if err := tx.Commit(); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getWhere(ctx, `email = ?`, email)
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getWhere(ctx, `username = ?`, username)
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return r.getWhere(ctx, `id = ?`, id)
}

func (r *usersRepo) getWhere(ctx context.Context, where string, arg any) (domain.User, error) {
	var (
		u       domain.User
		role    string
		created int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, role, password_hash, created_at
		FROM users WHERE `+where, arg,
	).Scan(&u.ID, &u.Username, &u.Email, &role, &u.PasswordHash, &created)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.CreatedAt = time.Unix(created, 0).UTC()
	return u, nil
}

func (r *usersRepo) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE email = ?`, passwordHash, email)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
