package custody

import (
	"context"
	"time"

	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

// Client is the authenticated handle returned to a caller that successfully
// obtained (or refreshed) a usable access token. It never outlives the call
// that requested it; nothing here is persisted.
type Client struct {
	LinkedAccountID string
	AccessToken     string
}

// RevokeOutcome reports whether the provider accepted the revocation call;
// the account is deactivated locally regardless.
type RevokeOutcome struct {
	AccessTokenRevoked  bool
	RefreshTokenRevoked bool
	ProviderError       error
}

// RefreshResult is what a Refresher returns on a successful token refresh.
type RefreshResult struct {
	AccessToken  string
	RefreshToken string // empty when the provider did not rotate it
	ExpiresAt    time.Time
}

// Refresher exchanges a refresh token for a new access token with the
// platform's token endpoint. A non-nil error is always treated as a
// RefreshError (HTTP 4xx from the provider, in practice).
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (RefreshResult, error)
}

// Revoker best-effort revokes a token with the platform.
type Revoker interface {
	Revoke(ctx context.Context, token string) error
}

// Repository is the persistence port the Custodian reads and writes
// LinkedAccount rows through.
type Repository interface {
	GetLinkedAccount(ctx context.Context, id string) (*domain.LinkedAccount, error)
	UpdateTokens(
		ctx context.Context,
		id string,
		accessTokenCiphertext []byte,
		refreshTokenCiphertext []byte,
		tokenExpiry *time.Time,
	) error
	Deactivate(ctx context.Context, id string) error
}

// Cipher seals and opens token plaintext for at-rest storage.
type Cipher interface {
	Seal(plaintext string) ([]byte, error)
	Open(sealed []byte) (string, error)
}

// AuditRecorder is the narrow slice of the audit log the Custodian needs.
type AuditRecorder interface {
	RecordSystemError(ctx context.Context, resourceType, resourceID string, details map[string]any)
}
