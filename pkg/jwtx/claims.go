package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token TTL constants for the freshmart auth flows. Access tokens are the
// short-lived credential carried on every request; refresh tokens get a
// slightly wider window so a client can refresh right up to access expiry.
const (
	// AccessTokenTTL is the lifetime of an access token.
	AccessTokenTTL = 120 * time.Minute

	// RefreshTokenTTL is the lifetime of a refresh token.
	RefreshTokenTTL = 125 * time.Minute
)

// Policy selects the expiry window applied when a token is issued.
type Policy int

const (
	// PolicyAccess issues with AccessTokenTTL.
	PolicyAccess Policy = iota

	// PolicyRefresh issues with RefreshTokenTTL.
	PolicyRefresh
)

// TTL returns the lifetime the policy applies.
func (p Policy) TTL() time.Duration {
	if p == PolicyRefresh {
		return RefreshTokenTTL
	}
	return AccessTokenTTL
}

// Identity is the minimal claim set embedded in every signed token.
type Identity struct {
	Username string
	Role     string
	Email    string
}

// Claims are the JWT claims we mint. Keep changes additive so previously
// issued tokens keep verifying.
type Claims struct {
	jwt.RegisteredClaims

	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

func newClaims(id Identity, policy Policy, issuer string, audience []string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.Email,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(policy.TTL())),
		},
		Username: id.Username,
		Role:     id.Role,
		Email:    id.Email,
	}
}
