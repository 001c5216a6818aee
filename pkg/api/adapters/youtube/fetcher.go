package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/parentwatch/scanguard/pkg/ajan/logfx"
	"github.com/parentwatch/scanguard/pkg/api/business/cache"
	"github.com/parentwatch/scanguard/pkg/api/business/domain"
)

// ChannelDetails is the fetch_channel_details result shape.
type ChannelDetails struct {
	ChannelID       string
	Title           string
	Description     string
	ThumbnailURL    string
	SubscriberCount *int64
	VideoCount      *int64
}

// Video is the fetch_recent_videos element shape.
type Video struct {
	VideoID     string
	Title       string
	Description string
	PublishedAt *time.Time
	Duration    string
	ViewCount   *int64
	LikeCount   *int64
}

// retryBackoffs is the fixed 1s/2s/4s schedule the fetcher waits between
// retries of a TransientError: up to 3 retries, so at most 4 attempts in all.
var retryBackoffs = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second} //nolint:gochecknoglobals

// Fetcher is the read-only port over the YouTube Data API v3, consulting
// the Cache Port before every call and never caching a failure.
type Fetcher struct {
	httpClient *http.Client
	cache      cache.Cache
	logger     *logfx.Logger
	apiKey     string
	sleep      func(time.Duration)

	channelsURL string
	searchURL   string
	videosURL   string
}

// NewFetcher builds a Fetcher. apiKey authenticates server-to-server Data
// API v3 calls that don't require the child's own OAuth token (channel and
// video lookups are public-data reads).
func NewFetcher(httpClient *http.Client, cch cache.Cache, logger *logfx.Logger, apiKey string) *Fetcher {
	return &Fetcher{
		httpClient:  httpClient,
		cache:       cch,
		logger:      logger,
		apiKey:      apiKey,
		sleep:       time.Sleep,
		channelsURL: channelsEndpoint,
		searchURL:   searchEndpoint,
		videosURL:   videosEndpoint,
	}
}

// WithEndpoints overrides the Data API v3 hosts, for tests.
func (f *Fetcher) WithEndpoints(channelsURL, searchURL, videosURL string) *Fetcher {
	f.channelsURL, f.searchURL, f.videosURL = channelsURL, searchURL, videosURL

	return f
}

// WithSleepFunc overrides the retry backoff sleep, for tests that want to
// skip the real 1s/2s/4s wall-clock delay.
func (f *Fetcher) WithSleepFunc(sleep func(time.Duration)) *Fetcher {
	f.sleep = sleep

	return f
}

// FetchChannelDetails implements the cache-through contract of §4.3.
func (f *Fetcher) FetchChannelDetails(ctx context.Context, channelID string) (*ChannelDetails, error) {
	key := cache.ChannelDetailsKey(channelID)

	if cached, hit, err := f.cache.Get(ctx, key); err == nil && hit {
		var details ChannelDetails
		if json.Unmarshal(cached, &details) == nil {
			return &details, nil
		}
	}

	details, err := withRetry(ctx, f, "fetch_channel_details", func() (*ChannelDetails, error) {
		return f.fetchChannelDetails(ctx, channelID)
	})
	if err != nil {
		return nil, err
	}

	if encoded, marshalErr := json.Marshal(details); marshalErr == nil {
		_ = f.cache.Set(ctx, key, encoded, cache.DefaultTTL)
	}

	return details, nil
}

// FetchRecentVideos implements the cache-through contract of §4.3.
func (f *Fetcher) FetchRecentVideos(ctx context.Context, channelID string, maxResults int) ([]Video, error) {
	key := cache.RecentVideosKey(channelID)

	if cached, hit, err := f.cache.Get(ctx, key); err == nil && hit {
		var videos []Video
		if json.Unmarshal(cached, &videos) == nil {
			return videos, nil
		}
	}

	videos, err := withRetry(ctx, f, "fetch_recent_videos", func() ([]Video, error) {
		return f.fetchRecentVideos(ctx, channelID, maxResults)
	})
	if err != nil {
		return nil, err
	}

	if encoded, marshalErr := json.Marshal(videos); marshalErr == nil {
		_ = f.cache.Set(ctx, key, encoded, cache.DefaultTTL)
	}

	return videos, nil
}

// FetchSubscribedChannels returns the channel IDs to scan for a linked
// account. v1 returns a fixed seed list regardless of the authenticated
// client, matching the documented v1 scope; the signature nonetheless
// takes the real access token so swapping in the subscriptions.list call
// later requires no port change.
func (f *Fetcher) FetchSubscribedChannels(_ context.Context, _ string) ([]string, error) {
	return seedChannelIDs, nil
}

// seedChannelIDs is the v1 fixed list described by §4.3's Open Question
// resolution (see DESIGN.md for the decision).
var seedChannelIDs = []string{ //nolint:gochecknoglobals
	"UCBR8-60-B28hp2BmDPdntcQ", // YouTube's own channel, a safe placeholder seed
}

func withRetry[T any](ctx context.Context, f *Fetcher, op string, call func() (T, error)) (T, error) {
	var (
		zero T
		err  error
	)

	for attempt := 0; ; attempt++ {
		var result T

		result, err = call()
		if err == nil {
			return result, nil
		}

		if !isTransient(err) || attempt >= len(retryBackoffs) {
			return zero, err
		}

		f.logger.WarnContext(ctx, "retrying transient fetcher failure",
			slog.String("op", op), slog.Int("attempt", attempt+1), slog.Any("error", err))

		select {
		case <-ctx.Done():
			return zero, ctx.Err() //nolint:wrapcheck
		default:
			f.sleep(retryBackoffs[attempt])
		}
	}
}

func isTransient(err error) bool {
	return errors.Is(err, domain.ErrTransient)
}

func (f *Fetcher) readBody(resp *http.Response) []byte {
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	return body
}

func classifyStatus(statusCode int, body []byte) error {
	switch {
	case statusCode == http.StatusOK:
		return nil
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("youtube: resource not found: %w", domain.ErrNotFound)
	case statusCode == http.StatusUnauthorized:
		return fmt.Errorf("youtube: unauthorized: %w", domain.ErrAuthFailure)
	case statusCode == http.StatusForbidden:
		// Quota-exceeded surfaces as a scan-level abort, but is still a
		// TransientError: the next day's quota reset makes it retryable.
		return fmt.Errorf("youtube: quota exceeded (403): %w", domain.ErrTransient)
	case statusCode >= http.StatusInternalServerError:
		return fmt.Errorf("youtube: upstream error %d: %w", statusCode, domain.ErrTransient)
	default:
		return fmt.Errorf("youtube: unexpected status %d: body=%q", statusCode, string(body))
	}
}
