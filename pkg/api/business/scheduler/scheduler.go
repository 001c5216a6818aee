// Package scheduler implements §4.8: the periodic tick that enumerates every
// active LinkedAccount and enqueues a scan for each.
package scheduler

import (
	"context"
	"errors"

	"github.com/parentwatch/scanguard/pkg/api/business/domain"
	"github.com/parentwatch/scanguard/pkg/api/business/events"
)

var ErrFailedToListAccounts = errors.New("failed to list active linked accounts")

// AccountLister enumerates every active linked account, the full-population
// view §4.8's tick enumerates (in contrast to the worker-level lease/backoff
// concerns, which stay out of this package).
type AccountLister interface {
	ListAllActive(ctx context.Context) ([]string, error)
}

// Queue is the narrow slice of the task queue the scheduler writes to.
type Queue interface {
	Enqueue(ctx context.Context, params events.QueueEnqueueParams) (string, error)
}

// Auditor is the narrow slice of the audit service the scheduler calls.
type Auditor interface {
	RecordAction(ctx context.Context, action domain.AuditActionType, resourceType, resourceID string, details map[string]any)
}

// Service drives one scheduler tick: enumerate, enqueue, audit.
type Service struct {
	accounts AccountLister
	queue    Queue
	audit    Auditor
}

func NewService(accounts AccountLister, queue Queue, audit Auditor) *Service {
	return &Service{accounts: accounts, queue: queue, audit: audit}
}

// Tick enumerates every is_active=true LinkedAccount, enqueues a
// perform_account_scan task for each, and records a tick-level SCAN_TRIGGERED
// audit entry with the total count. Returns the number of accounts enqueued.
func (s *Service) Tick(ctx context.Context) (int, error) {
	accountIDs, err := s.accounts.ListAllActive(ctx)
	if err != nil {
		return 0, errors.Join(ErrFailedToListAccounts, err)
	}

	enqueued := 0

	for _, linkedAccountID := range accountIDs {
		if _, enqueueErr := s.queue.Enqueue(ctx, events.QueueEnqueueParams{ //nolint:exhaustruct
			Type:    events.TaskPerformAccountScan,
			Payload: events.ScanTaskPayload(linkedAccountID),
		}); enqueueErr == nil {
			enqueued++
		}
	}

	s.audit.RecordAction(ctx, domain.AuditActionScanTriggered, "scheduler_tick", "", map[string]any{
		"accounts_enumerated": len(accountIDs),
		"accounts_enqueued":   enqueued,
	})

	return enqueued, nil
}
