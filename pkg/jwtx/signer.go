package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest shared secret we accept for HS256.
const MinSecretLength = 16

// ErrWeakSecret is returned when the configured secret is too short.
var ErrWeakSecret = errors.New("jwtx: signing secret must be at least 16 bytes")

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// HS256 signs and verifies tokens with one shared secret. The HTTP layer and
// the realtime gateway hold the same instance so a token minted at login is
// accepted on the websocket without a second trust root.
type HS256 struct {
	secret []byte
	issuer string
}

// NewHS256 builds an HS256 signer/verifier. issuer may be empty to skip the
// issuer check on verification.
func NewHS256(secret []byte, issuer string) (*HS256, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}

	// Copy so callers can't mutate our key out from under us
	key := make([]byte, len(secret))
	copy(key, secret)

	return &HS256{secret: key, issuer: issuer}, nil
}

func (h *HS256) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Issuer returns the issuer stamped on (and required of) tokens.
func (h *HS256) Issuer() string { return h.issuer }

// Sign takes your claims and turns them into a signed JWT string.
func (h *HS256) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(h.secret)
}
