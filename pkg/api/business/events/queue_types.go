package events

import (
	"time"
)

// QueueItemStatus represents the lifecycle of an item in the event queue.
type QueueItemStatus string

const (
	QueueStatusPending    QueueItemStatus = "pending"
	QueueStatusProcessing QueueItemStatus = "processing"
	QueueStatusCompleted  QueueItemStatus = "completed"
	QueueStatusFailed     QueueItemStatus = "failed"
	QueueStatusDead       QueueItemStatus = "dead"
)

// QueueItemType identifies the kind of item for handler dispatch. Values are
// the task names carried in the §6 queue message envelope
// (`{"task": "...", "args": [...], "id": ...}`).
type QueueItemType string

const (
	// TaskPerformAccountScan is enqueued by the scheduler (periodic sweep)
	// or a parent's manual "scan now" action; args[0] is a linked_account_id.
	TaskPerformAccountScan QueueItemType = "perform_account_scan"

	// TaskSweepExpiredVerifications names a task for flipping
	// CoppaVerification rows past their expires_at to EXPIRED. Nothing in
	// this repository enqueues it, and no handler is registered for it.
	TaskSweepExpiredVerifications QueueItemType = "sweep_expired_verifications"
)

// QueueItem represents an item in the event queue.
type QueueItem struct {
	ID                    string
	Type                  QueueItemType
	Payload               map[string]any
	Status                QueueItemStatus
	RetryCount            int
	MaxRetries            int
	VisibleAt             time.Time
	VisibilityTimeoutSecs int
	StartedAt             *time.Time
	CompletedAt           *time.Time
	FailedAt              *time.Time
	CreatedAt             time.Time
	UpdatedAt             *time.Time
	ErrorMessage          *string
	WorkerID              *string
}

// QueueEnqueueParams holds parameters for enqueueing a new item.
type QueueEnqueueParams struct {
	Type                  QueueItemType
	Payload               map[string]any
	MaxRetries            int        // 0 means use default (3)
	VisibilityTimeoutSecs int        // 0 means use default (300 = 5 minutes)
	ScheduledAt           *time.Time // nil means now (immediately eligible)
}
