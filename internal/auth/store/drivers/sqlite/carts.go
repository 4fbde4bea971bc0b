package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
)

type cartsRepo struct {
	db *sql.DB
}

func (r *cartsRepo) UpsertItem(ctx context.Context, item domain.CartItem) error {
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, product_id) DO UPDATE SET
			quantity   = excluded.quantity,
			updated_at = excluded.updated_at`,
		item.UserID, item.ProductID, item.Quantity, item.UpdatedAt.Unix())
	return err
}

func (r *cartsRepo) ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, product_id, quantity, updated_at
		FROM cart_items WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var (
			item    domain.CartItem
			updated int64
		)
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &updated); err != nil {
			return nil, err
		}
		item.UpdatedAt = time.Unix(updated, 0).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *cartsRepo) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}
