package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

// GetPreferences satisfies alerts.PreferencesRepository. A parent with no row
// yet gets the all-enabled defaults the notification_preferences migration
// assigns new rows.
func (r *Repository) GetPreferences(ctx context.Context, parentID string) (*domain.NotificationPreferences, error) {
	var (
		emailEnabled bool
		pushEnabled  bool
		mutedJSON    []byte
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT email_enabled, push_enabled, per_alert_type_muted
		FROM notification_preferences WHERE parent_id = $1
	`, parentID).Scan(&emailEnabled, &pushEnabled, &mutedJSON)

	if err == sql.ErrNoRows {
		return &domain.NotificationPreferences{
			ParentID:          parentID,
			EmailEnabled:      true,
			PushEnabled:       true,
			PerAlertTypeMuted: map[domain.AlertType]bool{},
		}, nil
	}

	if err != nil {
		return nil, err
	}

	muted := map[domain.AlertType]bool{}
	if len(mutedJSON) > 0 {
		_ = json.Unmarshal(mutedJSON, &muted)
	}

	return &domain.NotificationPreferences{
		ParentID:          parentID,
		EmailEnabled:      emailEnabled,
		PushEnabled:       pushEnabled,
		PerAlertTypeMuted: muted,
	}, nil
}

// UpsertPreferences persists a parent's notification settings.
func (r *Repository) UpsertPreferences(ctx context.Context, prefs *domain.NotificationPreferences) error {
	mutedJSON, err := json.Marshal(prefs.PerAlertTypeMuted)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO notification_preferences (parent_id, email_enabled, push_enabled, per_alert_type_muted)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (parent_id) DO UPDATE SET
			email_enabled = EXCLUDED.email_enabled,
			push_enabled = EXCLUDED.push_enabled,
			per_alert_type_muted = EXCLUDED.per_alert_type_muted
	`, prefs.ParentID, prefs.EmailEnabled, prefs.PushEnabled, mutedJSON)

	return err
}

// ListDeviceTokens satisfies alerts.PreferencesRepository.
func (r *Repository) ListDeviceTokens(ctx context.Context, parentID string) ([]*domain.DeviceToken, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, parent_id, token, platform, created_at
		FROM device_tokens WHERE parent_id = $1
	`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var tokens []*domain.DeviceToken

	for rows.Next() {
		var token domain.DeviceToken

		if err := rows.Scan(&token.ID, &token.ParentID, &token.Token, &token.Platform, &token.CreatedAt); err != nil {
			return nil, err
		}

		tokens = append(tokens, &token)
	}

	return tokens, rows.Err()
}

// RegisterDeviceToken persists a push-notification device token for a
// parent, ignoring duplicates of the same (parent_id, token) pair.
func (r *Repository) RegisterDeviceToken(ctx context.Context, token *domain.DeviceToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO device_tokens (id, parent_id, token, platform, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (parent_id, token) DO NOTHING
	`, token.ID, token.ParentID, token.Token, token.Platform, token.CreatedAt)

	return err
}
