// Package statetoken signs and verifies the CSRF state envelope carried
// across the account-linking OAuth redirect. It is not a login token: it
// exists only to prove the callback belongs to the request that initiated
// it, and to carry which ChildProfile/platform/parent the link is for.
package statetoken

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured         = errors.New("state token secret not configured")
	ErrInvalidSigningMethod  = errors.New("unexpected state token signing method")
	ErrInvalid               = errors.New("invalid or expired state token")
	ErrFailedToSign          = errors.New("failed to sign state token")
	ErrFailedToGenerateNonce = errors.New("failed to generate state token nonce")
)

// Envelope is the payload carried by the state token: which child profile
// and platform the OAuth link is for, who initiated it, and a nonce to make
// each flow unique.
type Envelope struct {
	ChildProfileID string
	Platform       string
	ParentID       string
	Timestamp      time.Time
	Nonce          string
}

type claims struct {
	ChildProfileID string `json:"child_profile_id"`
	Platform       string `json:"platform"`
	ParentID       string `json:"parent_id"`
	Nonce          string `json:"nonce"`
	jwt.RegisteredClaims
}

// Service signs and parses Envelopes as HS256 JWTs, same shape as the
// reference JWTTokenService.
type Service struct {
	secret string
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = time.Hour
	}

	return &Service{secret: secret, ttl: ttl}
}

// Generate mints a signed state token for the given link request, filling
// in Timestamp and Nonce.
func (s *Service) Generate(childProfileID, platform, parentID string) (string, Envelope, error) {
	if s.secret == "" {
		return "", Envelope{}, ErrNotConfigured
	}

	nonce, err := generateNonce()
	if err != nil {
		return "", Envelope{}, err
	}

	now := time.Now()
	envelope := Envelope{
		ChildProfileID: childProfileID,
		Platform:       platform,
		ParentID:       parentID,
		Timestamp:      now,
		Nonce:          nonce,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ChildProfileID: envelope.ChildProfileID,
		Platform:       envelope.Platform,
		ParentID:       envelope.ParentID,
		Nonce:          envelope.Nonce,
		RegisteredClaims: jwt.RegisteredClaims{ //nolint:exhaustruct
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", Envelope{}, fmt.Errorf("%w: %w", ErrFailedToSign, err)
	}

	return signed, envelope, nil
}

// Verify parses and validates a state token, returning its Envelope. An
// expired or tampered token is always ErrInvalid so callers can map it to a
// flat 400 without leaking which check failed.
func (s *Service) Verify(tokenStr string) (Envelope, error) {
	if s.secret == "" {
		return Envelope{}, ErrNotConfigured
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (any, error) { //nolint:exhaustruct
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}

		return []byte(s.secret), nil
	})
	if err != nil || !parsed.Valid {
		return Envelope{}, ErrInvalid
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || c.IssuedAt == nil {
		return Envelope{}, ErrInvalid
	}

	return Envelope{
		ChildProfileID: c.ChildProfileID,
		Platform:       c.Platform,
		ParentID:       c.ParentID,
		Timestamp:      c.IssuedAt.Time,
		Nonce:          c.Nonce,
	}, nil
}

func generateNonce() (string, error) {
	raw := make([]byte, 16)

	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%w: %w", ErrFailedToGenerateNonce, err)
	}

	return hex.EncodeToString(raw), nil
}
