package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSigningKey reports a missing or empty symmetric key. This is a
// configuration fault, not something a caller should retry.
var ErrNoSigningKey = errors.New("jwtx: signing key is empty")

// SignedToken is the result of issuing a token.
type SignedToken struct {
	Token     string
	ExpiresAt time.Time
}

// Signer mints HS256 tokens with a process-wide symmetric key. The key,
// issuer and audience are fixed at construction; Issue is pure given its
// arguments and the wall clock passed in.
type Signer struct {
	key      []byte
	issuer   string
	audience []string
}

// NewSigner builds a Signer. The key is validated on Issue, not here.
func NewSigner(key, issuer string, audience []string) *Signer {
	return &Signer{key: []byte(key), issuer: issuer, audience: audience}
}

// Issue signs a token for the given identity under the given expiry policy.
// It performs no I/O.
func (s *Signer) Issue(id Identity, policy Policy, now time.Time) (SignedToken, error) {
	if len(s.key) == 0 {
		return SignedToken{}, ErrNoSigningKey
	}

	claims := newClaims(id, policy, s.issuer, s.audience, now)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := tok.SignedString(s.key)
	if err != nil {
		return SignedToken{}, err
	}

	return SignedToken{Token: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}
