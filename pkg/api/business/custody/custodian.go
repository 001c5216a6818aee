package custody

import (
	"context"
	"fmt"
	"time"

	"github.com/parentwatch/scanguard/pkg/ajan/clockfx"
	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

// DefaultRefreshBuffer is how far ahead of expiry a refresh is attempted,
// matching TOKEN_REFRESH_BUFFER_MINUTES' documented default.
const DefaultRefreshBuffer = 5 * time.Minute

// Custodian is the only component permitted to hold plaintext OAuth tokens.
// It loads, decrypts, refreshes-if-needed, and re-encrypts LinkedAccount
// credentials, and revokes them on unlink.
type Custodian struct {
	repo      Repository
	cipher    Cipher
	refresher Refresher
	revoker   Revoker
	audit     AuditRecorder
	clock     clockfx.Clock

	refreshBuffer time.Duration
}

func NewCustodian(
	repo Repository,
	cipher Cipher,
	refresher Refresher,
	revoker Revoker,
	audit AuditRecorder,
	clock clockfx.Clock,
) *Custodian {
	return &Custodian{
		repo:          repo,
		cipher:        cipher,
		refresher:     refresher,
		revoker:       revoker,
		audit:         audit,
		clock:         clock,
		refreshBuffer: DefaultRefreshBuffer,
	}
}

// GetAuthenticatedClient loads the account, decrypts its tokens, refreshes
// them if within refreshBuffer of expiry (or already expired) and a refresh
// token is present, and returns a Client carrying a usable access token.
func (c *Custodian) GetAuthenticatedClient(ctx context.Context, linkedAccountID string) (*Client, error) {
	account, err := c.repo.GetLinkedAccount(ctx, linkedAccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAccountNotFound, err)
	}

	accessToken, err := c.cipher.Open(account.AccessTokenCiphertext)
	if err != nil {
		c.onIntegrityFailure(ctx, account)

		return nil, ErrIntegrityError
	}

	if !c.needsRefresh(account) {
		return &Client{LinkedAccountID: account.ID, AccessToken: accessToken}, nil
	}

	if len(account.RefreshTokenCiphertext) == 0 {
		// No refresh token: caller must degrade gracefully on 401.
		return &Client{LinkedAccountID: account.ID, AccessToken: accessToken}, nil
	}

	refreshToken, err := c.cipher.Open(account.RefreshTokenCiphertext)
	if err != nil {
		c.onIntegrityFailure(ctx, account)

		return nil, ErrIntegrityError
	}

	result, err := c.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		c.audit.RecordSystemError(ctx, "linked_account", account.ID, map[string]any{
			"reason": "refresh_failed",
		})

		return nil, fmt.Errorf("%w: %w", ErrAuthFailure, err)
	}

	newAccessCiphertext, err := c.cipher.Seal(result.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("custody: failed to seal refreshed access token: %w", err)
	}

	newRefreshCiphertext := account.RefreshTokenCiphertext

	if result.RefreshToken != "" {
		newRefreshCiphertext, err = c.cipher.Seal(result.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("custody: failed to seal rotated refresh token: %w", err)
		}
	}

	expiresAt := result.ExpiresAt

	err = c.repo.UpdateTokens(ctx, account.ID, newAccessCiphertext, newRefreshCiphertext, &expiresAt)
	if err != nil {
		return nil, fmt.Errorf("custody: failed to persist refreshed tokens: %w", err)
	}

	return &Client{LinkedAccountID: account.ID, AccessToken: result.AccessToken}, nil
}

func (c *Custodian) needsRefresh(account *domain.LinkedAccount) bool {
	if account.TokenExpiry == nil {
		return true
	}

	return account.TokenExpiry.Sub(c.clock.Now()) < c.refreshBuffer
}

func (c *Custodian) onIntegrityFailure(ctx context.Context, account *domain.LinkedAccount) {
	_ = c.repo.Deactivate(ctx, account.ID)

	c.audit.RecordSystemError(ctx, "linked_account", account.ID, map[string]any{
		"reason": "ciphertext_integrity_failure",
	})
}

// Revoke best-effort revokes both tokens with the provider, then always
// deactivates the account locally.
func (c *Custodian) Revoke(ctx context.Context, account *domain.LinkedAccount) RevokeOutcome {
	outcome := RevokeOutcome{} //nolint:exhaustruct

	if accessToken, err := c.cipher.Open(account.AccessTokenCiphertext); err == nil {
		if revokeErr := c.revoker.Revoke(ctx, accessToken); revokeErr == nil {
			outcome.AccessTokenRevoked = true
		} else {
			outcome.ProviderError = revokeErr
		}
	}

	if len(account.RefreshTokenCiphertext) > 0 {
		if refreshToken, err := c.cipher.Open(account.RefreshTokenCiphertext); err == nil {
			if revokeErr := c.revoker.Revoke(ctx, refreshToken); revokeErr == nil {
				outcome.RefreshTokenRevoked = true
			} else if outcome.ProviderError == nil {
				outcome.ProviderError = revokeErr
			}
		}
	}

	if outcome.ProviderError != nil {
		c.audit.RecordSystemError(ctx, "linked_account", account.ID, map[string]any{
			"reason": "revocation_failed",
			"error":  outcome.ProviderError.Error(),
		})
	}

	_ = c.repo.Deactivate(ctx, account.ID)

	return outcome
}
