// Package events holds the durable task queue and audit trail shared by the
// scan worker, the scheduler, and the parent-facing API surface.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/parentwatch/scanguard/pkg/ajan/logfx"
	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

// AuditParams holds parameters for recording an audit entry. ParentID is nil
// for system-initiated actions (scan worker, scheduler).
type AuditParams struct {
	Action       domain.AuditActionType
	ResourceType string
	ResourceID   string
	ParentID     *string
	Details      map[string]any
	IPAddress    string
	UserAgent    string
}

// AuditRepository defines storage operations for audit log rows (port).
type AuditRepository interface {
	InsertAudit(ctx context.Context, id string, params AuditParams, createdAt time.Time) error
	ListByResource(ctx context.Context, resourceType, resourceID string, limit int) ([]*domain.AuditLog, error)
}

// IDGenerator is a function that generates unique IDs.
type IDGenerator func() string

// AuditService records the audit trail required by §6/§4.7: every mutation a
// parent or the system performs against a child's oversight data.
type AuditService struct {
	logger      *logfx.Logger
	repo        AuditRepository
	idGenerator IDGenerator
	clock       clock
}

type clock interface{ Now() time.Time }

// NewAuditService creates a new audit service.
func NewAuditService(logger *logfx.Logger, repo AuditRepository, idGenerator IDGenerator, clk clock) *AuditService {
	return &AuditService{logger: logger, repo: repo, idGenerator: idGenerator, clock: clk}
}

// Record persists an audit entry. Fire-and-forget: errors are logged but not
// propagated, because audit failures must never break the operation they
// describe.
func (s *AuditService) Record(ctx context.Context, params AuditParams) {
	id := s.idGenerator()

	err := s.repo.InsertAudit(ctx, id, params, s.clock.Now())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to record audit entry",
			slog.String("action", string(params.Action)),
			slog.String("resource_type", params.ResourceType),
			slog.String("resource_id", params.ResourceID),
			slog.Any("error", err),
		)
	}
}

// RecordSystemError satisfies custody.AuditRecorder: a narrowed entry point
// for system-initiated SYSTEM_ERROR entries with no acting parent.
func (s *AuditService) RecordSystemError(ctx context.Context, resourceType, resourceID string, details map[string]any) {
	s.Record(ctx, AuditParams{
		Action:       domain.AuditActionSystemError,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		ParentID:     nil,
		IPAddress:    "",
		UserAgent:    "",
	})
}

// RecordAction satisfies scan.Auditor: a system-initiated entry for any
// action type, with no acting parent.
func (s *AuditService) RecordAction(ctx context.Context, action domain.AuditActionType, resourceType, resourceID string, details map[string]any) {
	s.Record(ctx, AuditParams{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		ParentID:     nil,
		IPAddress:    "",
		UserAgent:    "",
	})
}

// ListByResource returns the audit entries recorded against a given resource.
func (s *AuditService) ListByResource(ctx context.Context, resourceType, resourceID string, limit int) ([]*domain.AuditLog, error) {
	return s.repo.ListByResource(ctx, resourceType, resourceID, limit)
}
