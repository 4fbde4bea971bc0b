package domain

import (
	"errors"
	"time"
)

// Role is the closed set of account roles. Anything outside the set is
// rejected at parse time rather than stored.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole validates a raw role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string { return string(r) }

// User is an account row. PasswordHash is a bcrypt digest and never leaves
// the service layer.
type User struct {
	ID           int64
	Username     string
	Email        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}
