package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

// GetLinkedAccount satisfies both custody.Repository and
// scan.LinkedAccountRepository.
func (r *Repository) GetLinkedAccount(ctx context.Context, id string) (*domain.LinkedAccount, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, child_profile_id, platform, platform_account_id, platform_username,
		       access_token_ciphertext, refresh_token_ciphertext, token_expiry, scopes,
		       last_scan_at, is_active, created_at, updated_at
		FROM linked_accounts
		WHERE id = $1
	`, id)

	return scanLinkedAccount(row)
}

// GetChildProfile satisfies scan.LinkedAccountRepository.
func (r *Repository) GetChildProfile(ctx context.Context, childProfileID string) (*domain.ChildProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, parent_id, display_name, age, is_active, created_at, updated_at
		FROM child_profiles
		WHERE id = $1
	`, childProfileID)

	var (
		profile domain.ChildProfile
		age     sql.NullInt64
	)

	err := row.Scan(&profile.ID, &profile.ParentID, &profile.DisplayName, &age,
		&profile.IsActive, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if age.Valid {
		ageVal := int(age.Int64)
		profile.Age = &ageVal
	}

	return &profile, nil
}

// UpdateLastScanAt satisfies scan.LinkedAccountRepository.
func (r *Repository) UpdateLastScanAt(ctx context.Context, linkedAccountID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE linked_accounts SET last_scan_at = $2, updated_at = now() WHERE id = $1
	`, linkedAccountID, at)

	return err
}

// UpdateTokens satisfies custody.Repository.
func (r *Repository) UpdateTokens(
	ctx context.Context,
	id string,
	accessTokenCiphertext []byte,
	refreshTokenCiphertext []byte,
	tokenExpiry *time.Time,
) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE linked_accounts
		SET access_token_ciphertext = $2, refresh_token_ciphertext = $3, token_expiry = $4, updated_at = now()
		WHERE id = $1
	`, id, accessTokenCiphertext, refreshTokenCiphertext, tokenExpiry)

	return err
}

// Deactivate satisfies custody.Repository.
func (r *Repository) Deactivate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE linked_accounts SET is_active = false, updated_at = now() WHERE id = $1
	`, id)

	return err
}

// ListDueForScan returns active linked accounts never scanned, or last
// scanned before olderThan.
func (r *Repository) ListDueForScan(ctx context.Context, olderThan time.Time, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM linked_accounts
		WHERE is_active = true AND (last_scan_at IS NULL OR last_scan_at < $1)
		ORDER BY last_scan_at NULLS FIRST
		LIMIT $2
	`, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ListAllActive satisfies scheduler.AccountLister: the full population of
// active linked accounts a scheduler tick enumerates.
func (r *Repository) ListAllActive(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM linked_accounts WHERE is_active = true
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var ids []string

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// CreateLinkedAccount persists a new linked account produced by the
// account-linking OAuth callback.
func (r *Repository) CreateLinkedAccount(ctx context.Context, account *domain.LinkedAccount) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO linked_accounts
			(id, child_profile_id, platform, platform_account_id, platform_username,
			 access_token_ciphertext, refresh_token_ciphertext, token_expiry, scopes,
			 is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
	`, account.ID, account.ChildProfileID, string(account.Platform), account.PlatformAccountID,
		account.PlatformUsername, account.AccessTokenCiphertext, account.RefreshTokenCiphertext,
		account.TokenExpiry, account.Scopes, account.IsActive, account.CreatedAt)

	return err
}

func scanLinkedAccount(row *sql.Row) (*domain.LinkedAccount, error) {
	var (
		account  domain.LinkedAccount
		platform string
	)

	err := row.Scan(
		&account.ID, &account.ChildProfileID, &platform, &account.PlatformAccountID, &account.PlatformUsername,
		&account.AccessTokenCiphertext, &account.RefreshTokenCiphertext, &account.TokenExpiry, &account.Scopes,
		&account.LastScanAt, &account.IsActive, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Platform = domain.Platform(platform)

	return &account, nil
}
