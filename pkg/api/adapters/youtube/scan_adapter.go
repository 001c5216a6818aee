package youtube

import (
	"context"

	"github.com/parentwatch/scanguard/pkg/api/business/scan"
)

// ScanAdapter narrows *Fetcher to the scan.Fetcher port, translating
// between this package's DTOs and the worker's transport-agnostic ones.
type ScanAdapter struct {
	fetcher *Fetcher
}

func NewScanAdapter(fetcher *Fetcher) *ScanAdapter {
	return &ScanAdapter{fetcher: fetcher}
}

func (a *ScanAdapter) FetchChannelDetails(ctx context.Context, channelID string) (*scan.ChannelDetails, error) {
	details, err := a.fetcher.FetchChannelDetails(ctx, channelID)
	if err != nil {
		return nil, err
	}

	return &scan.ChannelDetails{
		ChannelID:       details.ChannelID,
		Title:           details.Title,
		Description:     details.Description,
		ThumbnailURL:    details.ThumbnailURL,
		SubscriberCount: details.SubscriberCount,
		VideoCount:      details.VideoCount,
	}, nil
}

func (a *ScanAdapter) FetchRecentVideos(ctx context.Context, channelID string, maxResults int) ([]scan.Video, error) {
	videos, err := a.fetcher.FetchRecentVideos(ctx, channelID, maxResults)
	if err != nil {
		return nil, err
	}

	out := make([]scan.Video, len(videos))
	for i, v := range videos {
		out[i] = scan.Video{
			VideoID:     v.VideoID,
			Title:       v.Title,
			Description: v.Description,
			PublishedAt: v.PublishedAt,
			Duration:    v.Duration,
			ViewCount:   v.ViewCount,
			LikeCount:   v.LikeCount,
		}
	}

	return out, nil
}

func (a *ScanAdapter) FetchSubscribedChannels(ctx context.Context, accessToken string) ([]string, error) {
	return a.fetcher.FetchSubscribedChannels(ctx, accessToken)
}
