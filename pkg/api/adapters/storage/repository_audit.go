package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/parentwatch/scanguard/pkg/api/business/domain"
	"github.com/parentwatch/scanguard/pkg/api/business/events"
)

// InsertAudit persists an audit log row recording a parent's or the
// system's action against a child's oversight data, per §4.7.
func (r *Repository) InsertAudit(ctx context.Context, id string, params events.AuditParams, createdAt time.Time) error {
	var detailsJSON []byte

	if params.Details != nil {
		data, err := json.Marshal(params.Details)
		if err != nil {
			return err
		}

		detailsJSON = data
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs
			(id, parent_id, action, resource_type, resource_id, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, toNullString(params.ParentID), string(params.Action), params.ResourceType, params.ResourceID,
		detailsJSON, params.IPAddress, params.UserAgent, createdAt)

	return err
}

// ListByResource returns audit entries recorded against a resource, most
// recent first.
func (r *Repository) ListByResource(ctx context.Context, resourceType, resourceID string, limit int) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, parent_id, action, resource_type, resource_id, details, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, resourceType, resourceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog

	for rows.Next() {
		var (
			entry       domain.AuditLog
			action      string
			parentID    sql.NullString
			detailsJSON []byte
		)

		if err := rows.Scan(
			&entry.ID, &parentID, &action, &entry.ResourceType, &entry.ResourceID,
			&detailsJSON, &entry.IPAddress, &entry.UserAgent, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}

		entry.Action = domain.AuditActionType(action)
		entry.ParentID = nullStringPtr(parentID)

		if len(detailsJSON) > 0 {
			_ = json.Unmarshal(detailsJSON, &entry.Details)
		}

		logs = append(logs, &entry)
	}

	return logs, rows.Err()
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{} //nolint:exhaustruct
	}

	return sql.NullString{String: *s, Valid: true}
}
