package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/parentwatch/scanguard/pkg/ajan/logfx"
	"github.com/parentwatch/scanguard/pkg/api/business/custody"
	"github.com/parentwatch/scanguard/pkg/api/business/domain"
	"github.com/parentwatch/scanguard/pkg/riskanalysis"
)

// recentVideosPerChannel is the max_results passed to fetch_recent_videos.
const recentVideosPerChannel = 10

// flaggedTextMaxRunes bounds the stored excerpt, per §3's "matched
// title+description excerpt" contract.
const flaggedTextMaxRunes = 200

// flaggedExcerpt builds the AnalysisResult.flagged_text value: title and
// description joined, truncated to flaggedTextMaxRunes runes.
func flaggedExcerpt(title, description string) string {
	combined := title + " " + description
	if utf8.RuneCountInString(combined) <= flaggedTextMaxRunes {
		return combined
	}

	runes := []rune(combined)

	return string(runes[:flaggedTextMaxRunes])
}

// ProgressReporter receives the scan's progress checkpoints. The worker
// reports 10 once the subscribed channels are fetched, 90 after the channel
// loop and 100 on completion; nothing is reported per channel or per video.
// A nil Reporter on Worker is a no-op.
type ProgressReporter interface {
	ReportProgress(ctx context.Context, taskID string, percent int)
}

// Worker is the central scan orchestrator described by §4.4.
type Worker struct {
	logger    *logfx.Logger
	custodian Custodian
	fetcher   Fetcher
	accounts  LinkedAccountRepository
	channels  ChannelRepository
	videos    VideoRepository
	alerts    AlertSynthesizer
	audit     Auditor
	lease     Lease
	clock     Clock
	progress  ProgressReporter
}

func NewWorker(
	logger *logfx.Logger,
	custodian Custodian,
	fetcher Fetcher,
	accounts LinkedAccountRepository,
	channels ChannelRepository,
	videos VideoRepository,
	alerts AlertSynthesizer,
	audit Auditor,
	lease Lease,
	clock Clock,
	progress ProgressReporter,
) *Worker {
	return &Worker{
		logger: logger, custodian: custodian, fetcher: fetcher,
		accounts: accounts, channels: channels, videos: videos,
		alerts: alerts, audit: audit, lease: lease, clock: clock, progress: progress,
	}
}

func (w *Worker) report(ctx context.Context, taskID string, percent int) {
	if w.progress != nil {
		w.progress.ReportProgress(ctx, taskID, percent)
	}
}

// cancelled checks ctx at a suspension point per §4.4/§5.
func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Execute runs one ScanRequest to completion. It never panics the caller:
// any error in steps 5-9 is caught, audited as SYSTEM_ERROR, and reported
// as a failed Result, never propagated as a Go error, matching the "worker
// MUST NOT crash the process" requirement.
func (w *Worker) Execute(ctx context.Context, req ScanRequest) Result {
	acquired, release, err := w.lease.TryAcquire(ctx, req.LinkedAccountID)
	if err != nil {
		return Result{Status: "failed", Message: "could not acquire scan lease"}
	}

	if !acquired {
		return Result{Status: "skipped", Reason: "in_progress"}
	}

	defer release()

	return w.run(ctx, req)
}

func (w *Worker) run(ctx context.Context, req ScanRequest) (result Result) { //nolint:nonamedreturns
	defer func() {
		if r := recover(); r != nil {
			w.audit.RecordAction(ctx, domain.AuditActionSystemError, "scan_task", req.TaskID, map[string]any{
				"reason": "panic recovered",
			})
			result = Result{Status: "failed", Message: "internal error"}
		}
	}()

	account, err := w.custodian.GetAuthenticatedClient(ctx, req.LinkedAccountID)
	if err != nil {
		// The Custodian already records a SYSTEM_ERROR audit for a refresh
		// or decrypt failure; only audit here for failures it doesn't cover
		// (e.g. the account row itself being missing), to keep exactly one
		// SYSTEM_ERROR row per failed scan attempt.
		if !errors.Is(err, custody.ErrAuthFailure) && !errors.Is(err, custody.ErrIntegrityError) {
			w.audit.RecordAction(ctx, domain.AuditActionSystemError, "linked_account", req.LinkedAccountID, map[string]any{
				"reason": "auth",
			})
		}

		return Result{Status: "failed", Message: "auth"}
	}

	linkedAccount, err := w.accounts.GetLinkedAccount(ctx, req.LinkedAccountID)
	if err != nil {
		w.audit.RecordAction(ctx, domain.AuditActionSystemError, "linked_account", req.LinkedAccountID, map[string]any{
			"reason": err.Error(),
		})

		return Result{Status: "failed", Message: "auth"}
	}

	child, err := w.accounts.GetChildProfile(ctx, linkedAccount.ChildProfileID)
	if err != nil {
		w.audit.RecordAction(ctx, domain.AuditActionSystemError, "child_profile", linkedAccount.ChildProfileID, map[string]any{
			"reason": "child profile not found",
		})

		return Result{Status: "failed", Message: "child profile not found"}
	}

	w.audit.RecordAction(ctx, domain.AuditActionScanTriggered, "linked_account", req.LinkedAccountID, nil)

	channelIDs, err := w.fetcher.FetchSubscribedChannels(ctx, account.AccessToken)
	if err != nil {
		w.audit.RecordAction(ctx, domain.AuditActionSystemError, "linked_account", req.LinkedAccountID, map[string]any{
			"reason": "fetch_subscribed_channels failed",
		})

		return Result{Status: "failed", Message: "fetch failed"}
	}

	w.report(ctx, req.TaskID, 10)

	flaggedCount := 0
	categoriesSeen := map[domain.RiskCategory]bool{}
	highRiskCategoriesSeen := map[domain.RiskCategory]bool{}

	channelsScanned := 0

	for _, channelID := range channelIDs {
		if cancelled(ctx) {
			return w.finalizeCancelled(ctx, req, linkedAccount.ID)
		}

		scanned, flags, err := w.scanChannel(ctx, linkedAccount.ID, channelID, categoriesSeen, highRiskCategoriesSeen)
		if err != nil {
			w.audit.RecordAction(ctx, domain.AuditActionSystemError, "channel", channelID, map[string]any{
				"reason": err.Error(),
			})

			continue
		}

		if scanned {
			channelsScanned++
		}

		flaggedCount += flags
	}

	w.report(ctx, req.TaskID, 90)

	if err := w.alerts.CreateScanCompleteAlert(ctx, child.ID, channelsScanned, flaggedCount); err != nil {
		w.audit.RecordAction(ctx, domain.AuditActionSystemError, "child_profile", child.ID, map[string]any{
			"reason": "scan complete alert failed",
		})
	}

	if flaggedCount > 0 {
		categories := make([]domain.RiskCategory, 0, len(categoriesSeen))
		for c := range categoriesSeen {
			categories = append(categories, c)
		}

		if err := w.alerts.CreateNewFlagsAlert(ctx, child.ID, flaggedCount, categories); err != nil {
			w.audit.RecordAction(ctx, domain.AuditActionSystemError, "child_profile", child.ID, map[string]any{
				"reason": "new flags alert failed",
			})
		}

		if len(highRiskCategoriesSeen) > 0 {
			highRiskCategories := make([]domain.RiskCategory, 0, len(highRiskCategoriesSeen))
			for c := range highRiskCategoriesSeen {
				highRiskCategories = append(highRiskCategories, c)
			}

			if err := w.alerts.CreateHighRiskAlert(ctx, child.ID, highRiskCategories); err != nil {
				w.audit.RecordAction(ctx, domain.AuditActionSystemError, "child_profile", child.ID, map[string]any{
					"reason": "high risk alert failed",
				})
			}
		}
	}

	_ = w.accounts.UpdateLastScanAt(ctx, linkedAccount.ID, w.clock.Now())

	w.audit.RecordAction(ctx, domain.AuditActionScanCompleted, "linked_account", linkedAccount.ID, map[string]any{
		"channels_scanned": channelsScanned,
		"flagged_count":    flaggedCount,
	})

	w.report(ctx, req.TaskID, 100)

	return Result{Status: "completed", Message: ""}
}

// scanChannel runs steps 6a-6d for one channel, returning whether it was
// successfully scanned and how many flags were found across its videos this
// scan (including ones merged into a pre-existing AnalysisResult row).
func (w *Worker) scanChannel(
	ctx context.Context,
	linkedAccountID, channelID string,
	categoriesSeen, highRiskCategoriesSeen map[domain.RiskCategory]bool,
) (scanned bool, flagged int, err error) {
	details, err := w.fetcher.FetchChannelDetails(ctx, channelID)
	if err != nil {
		return false, 0, fmt.Errorf("fetch_channel_details: %w", err)
	}

	channelRowID, err := w.channels.UpsertChannel(ctx, linkedAccountID, *details, w.clock.Now())
	if err != nil {
		return false, 0, fmt.Errorf("upsert_channel: %w", err)
	}

	videos, err := w.fetcher.FetchRecentVideos(ctx, channelID, recentVideosPerChannel)
	if err != nil {
		return true, 0, fmt.Errorf("fetch_recent_videos: %w", err)
	}

	flagged = 0

	for _, video := range videos {
		if cancelled(ctx) {
			break
		}

		videoRowID, err := w.videos.UpsertVideo(ctx, channelRowID, video)
		if err != nil {
			w.logger.WarnContext(ctx, "upsert video failed", slog.String("video_id", video.VideoID), slog.Any("error", err))

			continue
		}

		result := riskanalysis.AnalyzeContent(video.Title, video.Description)
		if !result.HasRisk {
			continue
		}

		excerpt := flaggedExcerpt(video.Title, video.Description)

		for category, keywords := range result.CategorizedKeywords {
			_, err := w.videos.UpsertAnalysisResult(
				ctx, videoRowID, channelRowID, category, result.OverallSeverity,
				excerpt, keywords, result.ConfidenceScore,
			)
			if err != nil {
				w.logger.WarnContext(ctx, "upsert analysis result failed", slog.Any("error", err))

				continue
			}

			categoriesSeen[category] = true

			if result.OverallSeverity == domain.SeverityHigh {
				highRiskCategoriesSeen[category] = true
			}

			// Count flags found during this scan, not rows newly inserted:
			// a re-scan that merges into an existing AnalysisResult row
			// still found the flag and must count toward flaggedCount so a
			// second NEW_FLAGS alert fires.
			flagged += len(keywords)
		}
	}

	return true, flagged, nil
}

func (w *Worker) finalizeCancelled(ctx context.Context, req ScanRequest, linkedAccountID string) Result {
	w.audit.RecordAction(ctx, domain.AuditActionScanCancelled, "linked_account", linkedAccountID, map[string]any{
		"task_id": req.TaskID,
	})

	return Result{Status: "cancelled", Message: "cancelled"}
}
