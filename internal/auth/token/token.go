// Package token issues and validates the signed access/refresh token pairs
// used across the platform. Tokens are HS256 JWTs carrying the caller-facing
// claims under a reserved "data" key so they can never collide with the
// "exp" and "token_type" fields the platform itself owns.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ipvault/internal/sentinel"
)

// Type tags a token as usable for API access or for refresh rotation only.
type Type string

const (
	TypeAccess  Type = "access_token"
	TypeRefresh Type = "refresh_token"
)

// Subject is the domain payload embedded in every token.
type Subject struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Claims is the full signed payload.
type Claims struct {
	Data      Subject `json:"data"`
	TokenType string  `json:"token_type"`
	jwt.RegisteredClaims
}

// Pair bundles the two tokens issued together on login, register, and refresh.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RevocationList answers whether a raw token string has been revoked.
type RevocationList interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Service signs and validates tokens with a single shared secret. It is a
// pure function of its inputs, the clock, and the secret; revocation state
// lives behind the RevocationList.
type Service struct {
	secret      []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	revocations RevocationList
	now         func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService constructs a token service from the shared secret and the two
// TTLs. The revocation list may be nil only when validation is never used.
func NewService(secret string, accessTTL, refreshTTL time.Duration, revocations RevocationList, opts ...Option) *Service {
	s := &Service{
		secret:      []byte(secret),
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		revocations: revocations,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssuePair issues a fresh access/refresh pair for the subject.
func (s *Service) IssuePair(sub Subject) (Pair, error) {
	access, err := s.Issue(sub, TypeAccess, s.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.Issue(sub, TypeRefresh, s.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// Issue signs a token of the given type expiring ttl from now.
func (s *Service) Issue(sub Subject, tokenType Type, ttl time.Duration) (string, error) {
	now := s.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Data:      sub,
		TokenType: string(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", tokenType, err)
	}
	return signed, nil
}

// Validate performs the full validity check: signature, expiry, token type,
// and revocation-list membership, in that order. Failures are reported as
// sentinel errors so callers can map them to the right client error.
func (s *Service) Validate(ctx context.Context, raw string, required Type) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(raw, claims, s.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token expired: %w", sentinel.ErrExpired)
		}
		return nil, fmt.Errorf("token rejected: %w", sentinel.ErrMalformed)
	}

	if claims.TokenType != string(required) {
		return nil, fmt.Errorf("token type %q where %q required: %w", claims.TokenType, required, sentinel.ErrWrongType)
	}

	revoked, err := s.revocations.IsRevoked(ctx, raw)
	if err != nil {
		// Fail closed: an unreachable revocation ledger never admits a token.
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("token revoked: %w", sentinel.ErrRevoked)
	}

	return claims, nil
}

// IsWellFormed reports whether the token carries a valid signature,
// tolerating expiry. Logout uses it to decide whether a token is even worth
// adding to the revocation ledger.
func (s *Service) IsWellFormed(raw string) bool {
	_, err := jwt.ParseWithClaims(raw, new(Claims), s.keyFunc, jwt.WithoutClaimsValidation())
	return err == nil
}

func (s *Service) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
	}
	return s.secret, nil
}

// DecodeSubjectUnverified extracts the subject without verifying the
// signature or expiry. It exists solely to attribute logout audit events,
// where the access token may already be expired; never use it for
// authentication decisions.
func DecodeSubjectUnverified(raw string) (Subject, error) {
	claims := new(Claims)
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Subject{}, fmt.Errorf("decode token: %w", sentinel.ErrMalformed)
	}
	return claims.Data, nil
}
