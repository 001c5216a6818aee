package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/parentwatch/scanguard/pkg/api/business/events"
)

// Enqueue inserts a new item into the task queue.
func (r *Repository) Enqueue(
	ctx context.Context,
	id string,
	itemType events.QueueItemType,
	payload map[string]any,
	maxRetries int,
	visibilityTimeoutSecs int,
	visibleAt time.Time,
) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO task_queue (id, type, payload, status, retry_count, max_retries, visible_at, visibility_timeout_secs, created_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $7, now())
	`, id, string(itemType), payloadJSON, string(events.QueueStatusPending), maxRetries, visibleAt, visibilityTimeoutSecs)

	return err
}

// ClaimNext atomically claims the next available item for processing using a
// SKIP LOCKED row lock, so multiple workers polling concurrently never claim
// the same item twice. Returns nil, nil if nothing is eligible.
func (r *Repository) ClaimNext(ctx context.Context, workerID string) (*events.QueueItem, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE task_queue
		SET status = $1, worker_id = $2, started_at = now(), updated_at = now()
		WHERE id = (
			SELECT id FROM task_queue
			WHERE status = $3 AND visible_at <= now()
			ORDER BY visible_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING id, type, payload, status, retry_count, max_retries, visible_at,
			visibility_timeout_secs, started_at, completed_at, failed_at, created_at,
			updated_at, error_message, worker_id
	`, string(events.QueueStatusProcessing), workerID, string(events.QueueStatusPending))

	item, err := scanQueueItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil //nolint:nilnil
		}

		return nil, err
	}

	return item, nil
}

// Complete marks an item as successfully completed. The worker_id check
// keeps a worker from completing an item it did not claim. Items are not
// reclaimed when their visibility timeout passes: ClaimNext only claims
// pending items.
func (r *Repository) Complete(ctx context.Context, id string, workerID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE task_queue SET status = $1, completed_at = now(), updated_at = now()
		WHERE id = $2 AND worker_id = $3
	`, string(events.QueueStatusCompleted), id, workerID)

	return err
}

// Fail marks an item as failed, rescheduling it after backoffSeconds unless
// its retries are exhausted, in which case it is marked dead.
func (r *Repository) Fail(
	ctx context.Context,
	id string,
	workerID string,
	errorMessage string,
	backoffSeconds int,
) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE task_queue
		SET
			retry_count = retry_count + 1,
			error_message = $1,
			failed_at = now(),
			updated_at = now(),
			status = CASE WHEN retry_count + 1 >= max_retries THEN $2 ELSE $3 END,
			visible_at = CASE WHEN retry_count + 1 >= max_retries THEN visible_at ELSE now() + ($4 || ' seconds')::interval END
		WHERE id = $5 AND worker_id = $6
	`, errorMessage, string(events.QueueStatusDead), string(events.QueueStatusPending), backoffSeconds, id, workerID)

	return err
}

// ListByType returns items of a given type for audit/debugging.
func (r *Repository) ListByType(ctx context.Context, itemType events.QueueItemType, limit int) ([]*events.QueueItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, payload, status, retry_count, max_retries, visible_at,
			visibility_timeout_secs, started_at, completed_at, failed_at, created_at,
			updated_at, error_message, worker_id
		FROM task_queue WHERE type = $1 ORDER BY created_at DESC LIMIT $2
	`, string(itemType), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*events.QueueItem

	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

// queueRowScanner is satisfied by both *sql.Row and *sql.Rows.
type queueRowScanner interface {
	Scan(dest ...any) error
}

func scanQueueItem(row queueRowScanner) (*events.QueueItem, error) {
	var (
		item             events.QueueItem
		itemType, status string
		payloadJSON      []byte
		startedAt        sql.NullTime
		completedAt      sql.NullTime
		failedAt         sql.NullTime
		updatedAt        sql.NullTime
		errorMessage     sql.NullString
		workerID         sql.NullString
	)

	err := row.Scan(
		&item.ID, &itemType, &payloadJSON, &status, &item.RetryCount, &item.MaxRetries,
		&item.VisibleAt, &item.VisibilityTimeoutSecs, &startedAt, &completedAt, &failedAt,
		&item.CreatedAt, &updatedAt, &errorMessage, &workerID,
	)
	if err != nil {
		return nil, err
	}

	item.Type = events.QueueItemType(itemType)
	item.Status = events.QueueItemStatus(status)

	if len(payloadJSON) > 0 {
		_ = json.Unmarshal(payloadJSON, &item.Payload)
	}

	item.StartedAt = nullTimePtr(startedAt)
	item.CompletedAt = nullTimePtr(completedAt)
	item.FailedAt = nullTimePtr(failedAt)
	item.UpdatedAt = nullTimePtr(updatedAt)
	item.ErrorMessage = nullStringPtr(errorMessage)
	item.WorkerID = nullStringPtr(workerID)

	return &item, nil
}

func nullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}

	return &v.Time
}

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}

	return &v.String
}
