// Package alerts synthesizes Alert rows from scan outcomes and delivers them
// over the configured notification channels, per §4.5.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/parentwatch/scanguard/pkg/ajan/logfx"
	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

var (
	ErrFailedToCreateAlert   = errors.New("failed to create alert")
	ErrFailedToMarkRead      = errors.New("failed to mark alert read")
	ErrFailedToMarkAllRead   = errors.New("failed to mark alerts read")
	ErrFailedToListAlerts    = errors.New("failed to list alerts")
	ErrFailedToResolveParent = errors.New("failed to resolve alert's owning parent")
)

// Service synthesizes and delivers Alerts. It satisfies scan.AlertSynthesizer
// for the two creation paths the Scan Worker drives, and additionally
// exposes the mark-read operations the parent-facing surface needs.
type Service struct {
	logger      *logfx.Logger
	repo        Repository
	preferences PreferencesRepository
	notifier    Notifier
	audit       Auditor
	idGenerator IDGenerator
	clock       Clock
}

func NewService(
	logger *logfx.Logger,
	repo Repository,
	preferences PreferencesRepository,
	notifier Notifier,
	audit Auditor,
	idGenerator IDGenerator,
	clock Clock,
) *Service {
	return &Service{
		logger:      logger,
		repo:        repo,
		preferences: preferences,
		notifier:    notifier,
		audit:       audit,
		idGenerator: idGenerator,
		clock:       clock,
	}
}

// CreateScanCompleteAlert satisfies scan.AlertSynthesizer: written at the end
// of every successful scan cycle, regardless of whether anything was
// flagged.
func (s *Service) CreateScanCompleteAlert(ctx context.Context, childProfileID string, channelsScanned, flaggedCount int) error {
	_, err := s.create(ctx, CreateParams{
		ChildProfileID: childProfileID,
		AlertType:      domain.AlertTypeScanComplete,
		Title:          "Scan complete",
		Message:        scanCompleteMessage(channelsScanned, flaggedCount),
		SummaryData: map[string]any{
			"channels_scanned": channelsScanned,
			"flagged_count":    flaggedCount,
		},
	}, true)

	return err
}

// CreateNewFlagsAlert satisfies scan.AlertSynthesizer: written in addition to
// the scan-complete alert whenever a scan surfaces new flagged content.
func (s *Service) CreateNewFlagsAlert(ctx context.Context, childProfileID string, newFlagsCount int, categories []domain.RiskCategory) error {
	_, err := s.create(ctx, CreateParams{
		ChildProfileID: childProfileID,
		AlertType:      domain.AlertTypeNewFlags,
		Title:          "New flagged content",
		Message:        newFlagsMessage(newFlagsCount),
		SummaryData: map[string]any{
			"new_flags_count": newFlagsCount,
			"categories":      categories,
		},
	}, true)

	return err
}

// CreateHighRiskAlert satisfies scan.AlertSynthesizer: written alongside, not
// instead of, a NEW_FLAGS alert whenever a scan produces any severity=high
// AnalysisResult (§9 design note).
func (s *Service) CreateHighRiskAlert(ctx context.Context, childProfileID string, categories []domain.RiskCategory) error {
	_, err := s.create(ctx, CreateParams{
		ChildProfileID: childProfileID,
		AlertType:      domain.AlertTypeHighRisk,
		Title:          "High-risk content detected",
		Message:        "A scan flagged content as high severity. Review it as soon as possible.",
		SummaryData: map[string]any{
			"categories": categories,
		},
	}, true)

	return err
}

// Create writes an arbitrary alert (e.g. HIGH_RISK, ACCOUNT_CHANGE), notifying
// the owning parent when notify is true. Exposed for callers outside the
// scan worker's two fixed alert shapes.
func (s *Service) Create(ctx context.Context, params CreateParams, notify bool) (*domain.Alert, error) {
	return s.create(ctx, params, notify)
}

func (s *Service) create(ctx context.Context, params CreateParams, notify bool) (*domain.Alert, error) {
	alert, err := s.repo.CreateAlert(ctx, s.idGenerator(), params, s.clock.Now())
	if err != nil {
		return nil, errors.Join(ErrFailedToCreateAlert, err)
	}

	if notify {
		s.deliver(ctx, alert)
	}

	return alert, nil
}

// deliver consults NotificationPreferences for the alert's owning parent and
// invokes the Notifier port. Notifier errors never fail the alert write: they
// are already caught and reduced to a bool by the Notifier implementation,
// but a failure to even resolve the parent or preferences is likewise only
// logged here.
func (s *Service) deliver(ctx context.Context, alert *domain.Alert) {
	if s.notifier == nil {
		return
	}

	parentID, err := s.repo.ParentIDForChildProfile(ctx, alert.ChildProfileID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to resolve alert's owning parent for delivery",
			slog.String("alert_id", alert.ID), slog.Any("error", errors.Join(ErrFailedToResolveParent, err)))

		return
	}

	prefs, err := s.preferences.GetPreferences(ctx, parentID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load notification preferences",
			slog.String("parent_id", parentID), slog.Any("error", err))

		return
	}

	if prefs.PerAlertTypeMuted[alert.AlertType] {
		return
	}

	if prefs.EmailEnabled {
		if ok := s.notifier.SendEmail(ctx, parentID, alert); !ok {
			s.logger.WarnContext(ctx, "email notification failed", slog.String("alert_id", alert.ID))
		}
	}

	if prefs.PushEnabled {
		tokens, err := s.preferences.ListDeviceTokens(ctx, parentID)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to load device tokens",
				slog.String("parent_id", parentID), slog.Any("error", err))

			return
		}

		if ok := s.notifier.SendPush(ctx, parentID, tokens, alert); !ok {
			s.logger.WarnContext(ctx, "push notification failed", slog.String("alert_id", alert.ID))
		}
	}
}

// MarkRead marks a single alert as read.
func (s *Service) MarkRead(ctx context.Context, alertID string) (*domain.Alert, error) {
	alert, err := s.repo.MarkRead(ctx, alertID, s.clock.Now())
	if err != nil {
		return nil, errors.Join(ErrFailedToMarkRead, err)
	}

	s.audit.RecordAction(ctx, domain.AuditActionDataUpdated, "alert", alertID, map[string]any{"is_read": true})

	return alert, nil
}

// MarkAllRead marks every unread alert for a child profile as read, returning
// the count of rows affected.
func (s *Service) MarkAllRead(ctx context.Context, childProfileID string) (int, error) {
	count, err := s.repo.MarkAllRead(ctx, childProfileID, s.clock.Now())
	if err != nil {
		return 0, errors.Join(ErrFailedToMarkAllRead, err)
	}

	s.audit.RecordAction(ctx, domain.AuditActionDataUpdated, "child_profile", childProfileID,
		map[string]any{"alerts_marked_read": count})

	return count, nil
}

// ListByChildProfile returns recent alerts for a child profile, most recent
// first.
func (s *Service) ListByChildProfile(ctx context.Context, childProfileID string, limit int) ([]*domain.Alert, error) {
	items, err := s.repo.ListByChildProfile(ctx, childProfileID, limit)
	if err != nil {
		return nil, errors.Join(ErrFailedToListAlerts, err)
	}

	return items, nil
}

func scanCompleteMessage(channelsScanned, flaggedCount int) string {
	channelWord := "channel"
	if channelsScanned != 1 {
		channelWord = "channels"
	}

	if flaggedCount == 0 {
		return fmt.Sprintf("Scan finished: %d %s checked, no new flagged content.", channelsScanned, channelWord)
	}

	return fmt.Sprintf("Scan finished: %d %s checked, flagged content detected. Review the new flags for details.",
		channelsScanned, channelWord)
}

func newFlagsMessage(newFlagsCount int) string {
	if newFlagsCount == 1 {
		return "1 new item was flagged for review."
	}

	return "New items were flagged for review."
}
