package alerts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parentwatch/scanguard/pkg/ajan/logfx"
	"github.com/parentwatch/scanguard/pkg/api/business/alerts"
	"github.com/parentwatch/scanguard/pkg/api/business/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (f fakeClock) Now() time.Time { return f.now }

type fakeRepo struct {
	byID      map[string]*domain.Alert
	byChild   map[string][]*domain.Alert
	parentIDs map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:      map[string]*domain.Alert{},
		byChild:   map[string][]*domain.Alert{},
		parentIDs: map[string]string{},
	}
}

func (r *fakeRepo) CreateAlert(_ context.Context, id string, params alerts.CreateParams, createdAt time.Time) (*domain.Alert, error) {
	alert := &domain.Alert{
		ID:             id,
		ChildProfileID: params.ChildProfileID,
		AlertType:      params.AlertType,
		Title:          params.Title,
		Message:        params.Message,
		SummaryData:    params.SummaryData,
		IsRead:         false,
		ReadAt:         nil,
		CreatedAt:      createdAt,
	}
	r.byID[id] = alert
	r.byChild[params.ChildProfileID] = append(r.byChild[params.ChildProfileID], alert)

	return alert, nil
}

func (r *fakeRepo) GetAlert(_ context.Context, alertID string) (*domain.Alert, error) {
	alert, ok := r.byID[alertID]
	if !ok {
		return nil, errors.New("not found")
	}

	return alert, nil
}

func (r *fakeRepo) MarkRead(ctx context.Context, alertID string, readAt time.Time) (*domain.Alert, error) {
	alert, err := r.GetAlert(ctx, alertID)
	if err != nil {
		return nil, err
	}

	alert.IsRead = true
	alert.ReadAt = &readAt

	return alert, nil
}

func (r *fakeRepo) MarkAllRead(_ context.Context, childProfileID string, readAt time.Time) (int, error) {
	count := 0

	for _, alert := range r.byChild[childProfileID] {
		if !alert.IsRead {
			alert.IsRead = true
			alert.ReadAt = &readAt
			count++
		}
	}

	return count, nil
}

func (r *fakeRepo) ListByChildProfile(_ context.Context, childProfileID string, _ int) ([]*domain.Alert, error) {
	return r.byChild[childProfileID], nil
}

func (r *fakeRepo) ParentIDForChildProfile(_ context.Context, childProfileID string) (string, error) {
	parentID, ok := r.parentIDs[childProfileID]
	if !ok {
		return "", errors.New("not found")
	}

	return parentID, nil
}

type fakePreferences struct {
	prefs  map[string]*domain.NotificationPreferences
	tokens map[string][]*domain.DeviceToken
}

func (p *fakePreferences) GetPreferences(_ context.Context, parentID string) (*domain.NotificationPreferences, error) {
	if prefs, ok := p.prefs[parentID]; ok {
		return prefs, nil
	}

	return &domain.NotificationPreferences{
		ParentID: parentID, EmailEnabled: true, PushEnabled: true, PerAlertTypeMuted: map[domain.AlertType]bool{},
	}, nil
}

func (p *fakePreferences) ListDeviceTokens(_ context.Context, parentID string) ([]*domain.DeviceToken, error) {
	return p.tokens[parentID], nil
}

type fakeNotifier struct {
	emailsSent int
	pushesSent int
}

func (n *fakeNotifier) SendEmail(_ context.Context, _ string, _ *domain.Alert) bool {
	n.emailsSent++

	return true
}

func (n *fakeNotifier) SendPush(_ context.Context, _ string, _ []*domain.DeviceToken, _ *domain.Alert) bool {
	n.pushesSent++

	return true
}

type fakeAuditor struct{ calls int }

func (a *fakeAuditor) RecordAction(_ context.Context, _ domain.AuditActionType, _, _ string, _ map[string]any) {
	a.calls++
}

func newTestService(repo *fakeRepo, prefs *fakePreferences, notifier *fakeNotifier, audit *fakeAuditor) *alerts.Service {
	logger := logfx.NewLogger()
	ids := 0
	idGen := func() string {
		ids++

		return "alert-id"
	}

	return alerts.NewService(logger, repo, prefs, notifier, audit, idGen, fakeClock{now: time.Now()})
}

func TestService_CreateScanCompleteAlert_NotifiesWhenEnabled(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.parentIDs["child-1"] = "parent-1"
	prefs := &fakePreferences{prefs: map[string]*domain.NotificationPreferences{}, tokens: map[string][]*domain.DeviceToken{
		"parent-1": {{ID: "d1", ParentID: "parent-1", Token: "tok", Platform: "ios", CreatedAt: time.Now()}},
	}}
	notifier := &fakeNotifier{}
	audit := &fakeAuditor{}
	svc := newTestService(repo, prefs, notifier, audit)

	err := svc.CreateScanCompleteAlert(context.Background(), "child-1", 3, 0)
	require.NoError(t, err)

	assert.Len(t, repo.byChild["child-1"], 1)
	assert.Equal(t, 1, notifier.emailsSent)
	assert.Equal(t, 1, notifier.pushesSent)
}

func TestService_CreateHighRiskAlert_WritesAlongsideNewFlags(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.parentIDs["child-1"] = "parent-1"
	prefs := &fakePreferences{prefs: map[string]*domain.NotificationPreferences{}, tokens: map[string][]*domain.DeviceToken{}}
	notifier := &fakeNotifier{}
	audit := &fakeAuditor{}
	svc := newTestService(repo, prefs, notifier, audit)

	require.NoError(t, svc.CreateNewFlagsAlert(context.Background(), "child-1", 1, []domain.RiskCategory{domain.RiskCategorySelfHarm}))
	require.NoError(t, svc.CreateHighRiskAlert(context.Background(), "child-1", []domain.RiskCategory{domain.RiskCategorySelfHarm}))

	assert.Len(t, repo.byChild["child-1"], 2)

	var alertTypes []domain.AlertType
	for _, alert := range repo.byChild["child-1"] {
		alertTypes = append(alertTypes, alert.AlertType)
	}

	assert.Contains(t, alertTypes, domain.AlertTypeNewFlags)
	assert.Contains(t, alertTypes, domain.AlertTypeHighRisk)
}

func TestService_Create_RespectsMutedAlertType(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.parentIDs["child-1"] = "parent-1"
	prefs := &fakePreferences{
		prefs: map[string]*domain.NotificationPreferences{
			"parent-1": {
				ParentID: "parent-1", EmailEnabled: true, PushEnabled: true,
				PerAlertTypeMuted: map[domain.AlertType]bool{domain.AlertTypeNewFlags: true},
			},
		},
		tokens: map[string][]*domain.DeviceToken{},
	}
	notifier := &fakeNotifier{}
	audit := &fakeAuditor{}
	svc := newTestService(repo, prefs, notifier, audit)

	err := svc.CreateNewFlagsAlert(context.Background(), "child-1", 2, []domain.RiskCategory{domain.RiskCategoryBullying})
	require.NoError(t, err)

	assert.Equal(t, 0, notifier.emailsSent)
	assert.Equal(t, 0, notifier.pushesSent)
}

func TestService_MarkAllRead_MarksOnlyUnread(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.parentIDs["child-1"] = "parent-1"
	prefs := &fakePreferences{prefs: map[string]*domain.NotificationPreferences{}, tokens: map[string][]*domain.DeviceToken{}}
	svc := newTestService(repo, prefs, &fakeNotifier{}, &fakeAuditor{})

	ctx := context.Background()
	require.NoError(t, svc.CreateScanCompleteAlert(ctx, "child-1", 1, 0))
	require.NoError(t, svc.CreateScanCompleteAlert(ctx, "child-1", 1, 0))

	count, err := svc.MarkAllRead(ctx, "child-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	secondPass, err := svc.MarkAllRead(ctx, "child-1")
	require.NoError(t, err)
	assert.Equal(t, 0, secondPass)
}
