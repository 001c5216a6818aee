package storage

import (
	"context"
	"database/sql"

	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

// GetActiveVerification satisfies coppa.Repository: the most recent VERIFIED
// record for (childProfileID, platform) that has not expired.
func (r *Repository) GetActiveVerification(ctx context.Context, childProfileID string, platform domain.Platform) (*domain.CoppaVerification, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, child_profile_id, platform, method, status, verified_at, expires_at, notes, data, created_at, updated_at
		FROM coppa_verifications
		WHERE child_profile_id = $1 AND platform = $2 AND status = $3
			AND (expires_at IS NULL OR expires_at > now())
		ORDER BY verified_at DESC
		LIMIT 1
	`, childProfileID, string(platform), string(domain.VerificationStatusVerified))

	verification, err := scanVerification(row)
	if err == sql.ErrNoRows {
		return nil, nil //nolint:nilnil
	}

	return verification, err
}

// GetPendingVerification satisfies coppa.Repository.
func (r *Repository) GetPendingVerification(ctx context.Context, childProfileID string, platform domain.Platform) (*domain.CoppaVerification, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, child_profile_id, platform, method, status, verified_at, expires_at, notes, data, created_at, updated_at
		FROM coppa_verifications
		WHERE child_profile_id = $1 AND platform = $2 AND status = $3
		ORDER BY created_at DESC
		LIMIT 1
	`, childProfileID, string(platform), string(domain.VerificationStatusPending))

	verification, err := scanVerification(row)
	if err == sql.ErrNoRows {
		return nil, nil //nolint:nilnil
	}

	return verification, err
}

// CreateVerification satisfies coppa.Repository.
func (r *Repository) CreateVerification(ctx context.Context, verification *domain.CoppaVerification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO coppa_verifications
			(id, child_profile_id, platform, method, status, verified_at, expires_at, notes, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`, verification.ID, verification.ChildProfileID, string(verification.Platform), string(verification.Method),
		string(verification.Status), verification.VerifiedAt, verification.ExpiresAt, verification.Notes,
		verification.Data, verification.CreatedAt)

	return err
}

func scanVerification(row *sql.Row) (*domain.CoppaVerification, error) {
	var (
		verification domain.CoppaVerification
		platform     string
		method       string
		status       string
	)

	err := row.Scan(&verification.ID, &verification.ChildProfileID, &platform, &method, &status,
		&verification.VerifiedAt, &verification.ExpiresAt, &verification.Notes, &verification.Data,
		&verification.CreatedAt, &verification.UpdatedAt)
	if err != nil {
		return nil, err
	}

	verification.Platform = domain.Platform(platform)
	verification.Method = domain.VerificationMethod(method)
	verification.Status = domain.VerificationStatus(status)

	return &verification, nil
}
