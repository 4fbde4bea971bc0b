package domain

import "time"

// ResetCode is a pending password-reset credential. Code is stored
// URL-encoded, exactly as it appears in the emailed callback link, and is
// decoded before comparison.
type ResetCode struct {
	UserID    int64
	Email     string
	Code      string
	CreatedAt time.Time
}

// OTPCode is a pending one-time login code. At most one per user; resending
// replaces the previous code.
type OTPCode struct {
	UserID    int64
	Email     string
	Code      int
	CreatedAt time.Time
}

// CartItem is a shopping-cart row. The auth service only touches carts to
// sweep stale ones during the overnight window.
type CartItem struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
	UpdatedAt time.Time
}
