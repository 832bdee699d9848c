// Package token issues and verifies the signed, time-limited bearer tokens
// that carry an authenticated subject identity between requests.
//
// Tokens are HS256 JWTs signed with a process-wide secret loaded once at
// startup. The payload is the subject's user ID plus an expiration
// timestamp; there is no revocation list, a token dies only by expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetime.
const DefaultLifetime = 48 * time.Hour

// Verification failures. Callers collapse both into the same
// unauthenticated outcome; the distinction exists for logs and metrics.
var (
	// ErrInvalid covers signature failures, wrong algorithms, and malformed
	// encodings. A tampered payload is invalid, never a different identity.
	ErrInvalid = errors.New("token invalid")

	// ErrExpired covers structurally valid tokens past their expiry.
	ErrExpired = errors.New("token expired")
)

// Claims is the signed token payload: the subject identity and the
// registered expiry claim.
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// Service issues and verifies bearer tokens. It is immutable and safe for
// concurrent use.
type Service struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the time source used for expiry stamping and
// verification. Tests use this to simulate expiration.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service. An empty secret is a startup error: the process
// must refuse to run rather than sign tokens with a guessable key.
func New(secret []byte, lifetime time.Duration, opts ...Option) (*Service, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token: signing secret is required")
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}

	s := &Service{
		secret:   secret,
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for the given subject, expiring lifetime from now.
func (s *Service) Issue(userID int64) (string, error) {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	})

	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks signature integrity and expiry, in that order, and returns
// the embedded subject ID. Any structural deviation (wrong signature,
// wrong algorithm, malformed encoding) yields ErrInvalid; a valid but
// stale token yields ErrExpired.
func (s *Service) Verify(tokenString string) (int64, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("%w: %w", ErrExpired, err)
		}
		return 0, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if !tok.Valid || claims.UserID == 0 {
		return 0, ErrInvalid
	}

	return claims.UserID, nil
}
