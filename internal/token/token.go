// Package token issues and verifies signed, time-limited access tokens.
// Tokens are stateless: nothing is persisted and there is no revocation.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification errors. The Access Guard collapses all of them into a single
// generic unauthorized response; the distinction exists for logging and tests.
var (
	ErrMalformed        = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token is expired")
)

// Claims carries the user-identity payload embedded in a token.
// Email is the only field with semantics downstream; the rest is opaque
// profile data signed on behalf of the caller.
type Claims struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	PhotoURL string `json:"photoURL,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and verifies HMAC-signed tokens with a fixed lifetime.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token Service.
func NewService(secret []byte, ttl time.Duration) *Service {
	return &Service{secret: secret, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs the identity claims into a token valid for the configured
// lifetime from now. Issuance is unconditional: any payload may be signed.
func (s *Service) Issue(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Verify checks the signature and expiry of a token and returns the original
// identity claims. It is a pure cryptographic check with no side effects.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, mapJWTError(err)
	}

	if !tok.Valid {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}

// mapJWTError converts jwt library errors into this package's sentinels.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrInvalidSignature
	}
}
