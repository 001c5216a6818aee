// Package scan implements the central scan orchestrator: given a
// ScanRequest it fetches a child's subscribed channels and recent videos,
// runs the risk analyzer over them, and synthesizes alerts.
package scan

import (
	"context"
	"time"

	"github.com/parentwatch/scanguard/pkg/api/business/custody"
	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

// ScanRequest is the unit of work a worker executes to completion.
type ScanRequest struct {
	LinkedAccountID string
	TaskID          string
}

// Result is the outcome reported back to the task queue.
type Result struct {
	Status  string // "completed", "failed", "cancelled", "skipped"
	Message string
	Reason  string // set when Status is "skipped", e.g. "in_progress"
}

// ChannelDetails and Video mirror the Platform Fetcher's DTOs without
// importing the youtube adapter package directly, keeping the worker
// transport-agnostic (the Fetcher interface below is satisfied by
// *youtube.ScanAdapter, which wraps *youtube.Fetcher).
type ChannelDetails struct {
	ChannelID       string
	Title           string
	Description     string
	ThumbnailURL    string
	SubscriberCount *int64
	VideoCount      *int64
}

type Video struct {
	VideoID     string
	Title       string
	Description string
	PublishedAt *time.Time
	Duration    string
	ViewCount   *int64
	LikeCount   *int64
}

// Fetcher is the Platform Fetcher port the worker consumes.
type Fetcher interface {
	FetchChannelDetails(ctx context.Context, channelID string) (*ChannelDetails, error)
	FetchRecentVideos(ctx context.Context, channelID string, maxResults int) ([]Video, error)
	FetchSubscribedChannels(ctx context.Context, accessToken string) ([]string, error)
}

// LinkedAccountRepository is the narrow slice of account storage the
// worker needs beyond what the Custodian already owns.
type LinkedAccountRepository interface {
	GetLinkedAccount(ctx context.Context, id string) (*domain.LinkedAccount, error)
	GetChildProfile(ctx context.Context, childProfileID string) (*domain.ChildProfile, error)
	UpdateLastScanAt(ctx context.Context, linkedAccountID string, at time.Time) error
}

// ChannelRepository persists SubscribedChannel rows.
type ChannelRepository interface {
	UpsertChannel(ctx context.Context, linkedAccountID string, details ChannelDetails, fetchedAt time.Time) (channelRowID string, err error)
}

// VideoRepository persists AnalyzedVideo rows and AnalysisResult rows with
// the merge semantics of §4.4 step 6d.
type VideoRepository interface {
	UpsertVideo(ctx context.Context, channelRowID string, video Video) (videoRowID string, err error)

	// UpsertAnalysisResult merges keywordsMatched as a set-union and keeps
	// the higher of the existing and new severity, keyed by
	// (video_row_id, risk_category). Returns whether a new row was created
	// (true) or an existing one updated/left unchanged (false).
	UpsertAnalysisResult(
		ctx context.Context,
		videoRowID, channelRowID string,
		category domain.RiskCategory,
		severity domain.Severity,
		flaggedText string,
		keywordsMatched []string,
		confidenceScore float64,
	) (created bool, err error)
}

// AlertSynthesizer is the narrow slice of the alerts package the worker
// drives on scan completion.
type AlertSynthesizer interface {
	CreateScanCompleteAlert(ctx context.Context, childProfileID string, channelsScanned, flaggedCount int) error
	CreateNewFlagsAlert(ctx context.Context, childProfileID string, newFlagsCount int, categories []domain.RiskCategory) error
	CreateHighRiskAlert(ctx context.Context, childProfileID string, categories []domain.RiskCategory) error
}

// Auditor is the narrow slice of the audit service the worker calls.
type Auditor interface {
	RecordAction(ctx context.Context, action domain.AuditActionType, resourceType, resourceID string, details map[string]any)
}

// Lease grants exclusive per-linked-account scan execution, backed by a
// Postgres advisory lock (see adapters/storage) so two workers never scan
// the same account concurrently.
type Lease interface {
	// TryAcquire returns true if the lease was obtained; the caller must
	// call the returned release func exactly once, win or lose.
	TryAcquire(ctx context.Context, linkedAccountID string) (acquired bool, release func(), err error)
}

// Clock abstracts time.Now for deterministic tests.
type Clock interface{ Now() time.Time }

// Custodian is the narrow slice of custody.Custodian the worker needs.
type Custodian interface {
	GetAuthenticatedClient(ctx context.Context, linkedAccountID string) (*custody.Client, error)
}
