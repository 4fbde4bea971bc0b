package domain

import "time"

// AccessTokenRecord is a persisted access token. The store keeps at most one
// row per email: issuing a new token for the same account replaces the old
// row rather than adding another.
type AccessTokenRecord struct {
	ID        string
	UserID    int64
	Email     string
	Username  string
	Role      Role
	Token     string
	ExpiresAt time.Time
}

// RefreshTokenRecord mirrors AccessTokenRecord for the refresh namespace.
// The two namespaces are stored and swept independently.
type RefreshTokenRecord struct {
	ID        string
	UserID    int64
	Email     string
	Username  string
	Role      Role
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the record's expiry is at or before now.
func (t AccessTokenRecord) Expired(now time.Time) bool  { return !t.ExpiresAt.After(now) }
func (t RefreshTokenRecord) Expired(now time.Time) bool { return !t.ExpiresAt.After(now) }
