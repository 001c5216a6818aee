package scheduler_test

import (
	"context"
	"testing"

	"github.com/parentwatch/scanguard/pkg/api/business/domain"
	"github.com/parentwatch/scanguard/pkg/api/business/events"
	"github.com/parentwatch/scanguard/pkg/api/business/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccounts struct{ ids []string }

func (f *fakeAccounts) ListAllActive(_ context.Context) ([]string, error) {
	return f.ids, nil
}

type fakeQueue struct{ enqueued []string }

func (f *fakeQueue) Enqueue(_ context.Context, params events.QueueEnqueueParams) (string, error) {
	id, err := events.LinkedAccountIDFromPayload(params.Payload)
	if err != nil {
		return "", err
	}

	f.enqueued = append(f.enqueued, id)

	return "queue-id", nil
}

type fakeAuditor struct {
	calls   int
	details map[string]any
}

func (a *fakeAuditor) RecordAction(_ context.Context, _ domain.AuditActionType, _, _ string, details map[string]any) {
	a.calls++
	a.details = details
}

func TestService_Tick_EnqueuesEveryActiveAccountAndAudits(t *testing.T) {
	t.Parallel()

	accounts := &fakeAccounts{ids: []string{"la-1", "la-2", "la-3"}}
	queue := &fakeQueue{}
	audit := &fakeAuditor{}
	svc := scheduler.NewService(accounts, queue, audit)

	count, err := svc.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.ElementsMatch(t, []string{"la-1", "la-2", "la-3"}, queue.enqueued)
	assert.Equal(t, 1, audit.calls)
	assert.Equal(t, 3, audit.details["accounts_enumerated"])
	assert.Equal(t, 3, audit.details["accounts_enqueued"])
}

func TestService_Tick_NoActiveAccountsStillAudits(t *testing.T) {
	t.Parallel()

	svc := scheduler.NewService(&fakeAccounts{}, &fakeQueue{}, &fakeAuditor{})

	count, err := svc.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
