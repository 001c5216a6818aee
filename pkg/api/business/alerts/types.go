package alerts

import (
	"context"
	"time"

	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

// Repository defines the storage operations an alert synthesizer needs:
// writing and reading Alert rows, and looking up who owns the child profile
// an alert is written against so NotificationPreferences can be consulted.
type Repository interface {
	CreateAlert(ctx context.Context, id string, params CreateParams, createdAt time.Time) (*domain.Alert, error)
	GetAlert(ctx context.Context, alertID string) (*domain.Alert, error)
	MarkRead(ctx context.Context, alertID string, readAt time.Time) (*domain.Alert, error)
	MarkAllRead(ctx context.Context, childProfileID string, readAt time.Time) (int, error)
	ListByChildProfile(ctx context.Context, childProfileID string, limit int) ([]*domain.Alert, error)

	// ParentIDForChildProfile resolves the owning parent, needed to load
	// NotificationPreferences and DeviceTokens.
	ParentIDForChildProfile(ctx context.Context, childProfileID string) (string, error)
}

// PreferencesRepository defines storage operations for a parent's
// notification settings (port).
type PreferencesRepository interface {
	GetPreferences(ctx context.Context, parentID string) (*domain.NotificationPreferences, error)
	ListDeviceTokens(ctx context.Context, parentID string) ([]*domain.DeviceToken, error)
}

// CreateParams holds the fields needed to write a new Alert row.
type CreateParams struct {
	ChildProfileID string
	AlertType      domain.AlertType
	Title          string
	Message        string
	SummaryData    map[string]any
}

// Notifier delivers a created alert over the email and push channels. Each
// channel returns whether delivery succeeded; a Notifier implementation
// MUST NOT let a transport error propagate to the caller, since a failed
// notification must never undo or fail the underlying alert write.
type Notifier interface {
	SendEmail(ctx context.Context, parentID string, alert *domain.Alert) bool
	SendPush(ctx context.Context, parentID string, tokens []*domain.DeviceToken, alert *domain.Alert) bool
}

// IDGenerator generates unique alert row IDs.
type IDGenerator func() string

// Clock abstracts wall-clock time for deterministic testing.
type Clock interface {
	Now() time.Time
}

// Auditor is the narrow slice of the audit service the synthesizer calls
// when an alert is read or bulk-read.
type Auditor interface {
	RecordAction(ctx context.Context, action domain.AuditActionType, resourceType, resourceID string, details map[string]any)
}
