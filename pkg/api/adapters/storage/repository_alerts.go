package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/parentwatch/scanguard/pkg/api/business/alerts"
	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

// CreateAlert satisfies alerts.Repository.
func (r *Repository) CreateAlert(ctx context.Context, id string, params alerts.CreateParams, createdAt time.Time) (*domain.Alert, error) {
	var summaryJSON []byte

	if params.SummaryData != nil {
		data, err := json.Marshal(params.SummaryData)
		if err != nil {
			return nil, err
		}

		summaryJSON = data
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alerts (id, child_profile_id, alert_type, title, message, summary_data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7)
	`, id, params.ChildProfileID, string(params.AlertType), params.Title, params.Message, summaryJSON, createdAt)
	if err != nil {
		return nil, err
	}

	return &domain.Alert{
		ID:             id,
		ChildProfileID: params.ChildProfileID,
		AlertType:      params.AlertType,
		Title:          params.Title,
		Message:        params.Message,
		SummaryData:    params.SummaryData,
		IsRead:         false,
		ReadAt:         nil,
		CreatedAt:      createdAt,
	}, nil
}

// GetAlert satisfies alerts.Repository.
func (r *Repository) GetAlert(ctx context.Context, alertID string) (*domain.Alert, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, child_profile_id, alert_type, title, message, summary_data, is_read, read_at, created_at
		FROM alerts WHERE id = $1
	`, alertID)

	return scanAlert(row)
}

// MarkRead satisfies alerts.Repository.
func (r *Repository) MarkRead(ctx context.Context, alertID string, readAt time.Time) (*domain.Alert, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE alerts SET is_read = true, read_at = $2 WHERE id = $1
	`, alertID, readAt)
	if err != nil {
		return nil, err
	}

	return r.GetAlert(ctx, alertID)
}

// MarkAllRead satisfies alerts.Repository.
func (r *Repository) MarkAllRead(ctx context.Context, childProfileID string, readAt time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE alerts SET is_read = true, read_at = $2
		WHERE child_profile_id = $1 AND NOT is_read
	`, childProfileID, readAt)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}

// ListByChildProfile satisfies alerts.Repository.
func (r *Repository) ListByChildProfile(ctx context.Context, childProfileID string, limit int) ([]*domain.Alert, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, child_profile_id, alert_type, title, message, summary_data, is_read, read_at, created_at
		FROM alerts
		WHERE child_profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, childProfileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var items []*domain.Alert

	for rows.Next() {
		alert, err := scanAlertRow(rows)
		if err != nil {
			return nil, err
		}

		items = append(items, alert)
	}

	return items, rows.Err()
}

// ParentIDForChildProfile satisfies alerts.Repository.
func (r *Repository) ParentIDForChildProfile(ctx context.Context, childProfileID string) (string, error) {
	var parentID string

	err := r.db.QueryRowContext(ctx, `
		SELECT parent_id FROM child_profiles WHERE id = $1
	`, childProfileID).Scan(&parentID)

	return parentID, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row *sql.Row) (*domain.Alert, error) {
	return scanAlertRow(row)
}

func scanAlertRow(row rowScanner) (*domain.Alert, error) {
	var (
		alert       domain.Alert
		alertType   string
		summaryJSON []byte
		readAt      sql.NullTime
	)

	err := row.Scan(&alert.ID, &alert.ChildProfileID, &alertType, &alert.Title, &alert.Message,
		&summaryJSON, &alert.IsRead, &readAt, &alert.CreatedAt)
	if err != nil {
		return nil, err
	}

	alert.AlertType = domain.AlertType(alertType)

	if len(summaryJSON) > 0 {
		_ = json.Unmarshal(summaryJSON, &alert.SummaryData)
	}

	if readAt.Valid {
		alert.ReadAt = &readAt.Time
	}

	return &alert, nil
}
