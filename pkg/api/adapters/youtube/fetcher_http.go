package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	channelsEndpoint = "https://www.googleapis.com/youtube/v3/channels"
	searchEndpoint   = "https://www.googleapis.com/youtube/v3/search"
	videosEndpoint   = "https://www.googleapis.com/youtube/v3/videos"
)

func (f *Fetcher) fetchChannelDetails(ctx context.Context, channelID string) (*ChannelDetails, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.channelsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("youtube: building channels request: %w", err)
	}

	query := req.URL.Query()
	query.Set("part", "snippet,statistics")
	query.Set("id", channelID)
	query.Set("key", f.apiKey)
	req.URL.RawQuery = query.Encode()

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube: channels request failed: %w", err)
	}

	body := f.readBody(resp)

	if err := classifyStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	var parsed struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				Thumbnails  struct {
					Default struct {
						URL string `json:"url"`
					} `json:"default"`
				} `json:"thumbnails"`
			} `json:"snippet"`
			Statistics struct {
				SubscriberCount string `json:"subscriberCount"`
				VideoCount      string `json:"videoCount"`
			} `json:"statistics"`
		} `json:"items"`
	}

	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("youtube: decoding channels response: %w", err)
	}

	if len(parsed.Items) == 0 {
		return nil, ErrNoChannelFound
	}

	item := parsed.Items[0]

	return &ChannelDetails{
		ChannelID:       item.ID,
		Title:           item.Snippet.Title,
		Description:     item.Snippet.Description,
		ThumbnailURL:    item.Snippet.Thumbnails.Default.URL,
		SubscriberCount: parseInt64OrNil(item.Statistics.SubscriberCount),
		VideoCount:      parseInt64OrNil(item.Statistics.VideoCount),
	}, nil
}

func (f *Fetcher) fetchRecentVideos(ctx context.Context, channelID string, maxResults int) ([]Video, error) {
	videoIDs, err := f.searchRecentVideoIDs(ctx, channelID, maxResults)
	if err != nil {
		return nil, err
	}

	if len(videoIDs) == 0 {
		return nil, nil
	}

	return f.fetchVideoDetails(ctx, videoIDs)
}

func (f *Fetcher) searchRecentVideoIDs(ctx context.Context, channelID string, maxResults int) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("youtube: building search request: %w", err)
	}

	query := req.URL.Query()
	query.Set("part", "id")
	query.Set("channelId", channelID)
	query.Set("order", "date")
	query.Set("type", "video")
	query.Set("maxResults", fmt.Sprintf("%d", maxResults))
	query.Set("key", f.apiKey)
	req.URL.RawQuery = query.Encode()

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube: search request failed: %w", err)
	}

	body := f.readBody(resp)

	if err := classifyStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	var parsed struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}

	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("youtube: decoding search response: %w", err)
	}

	ids := make([]string, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}

	return ids, nil
}

func (f *Fetcher) fetchVideoDetails(ctx context.Context, videoIDs []string) ([]Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.videosURL, nil)
	if err != nil {
		return nil, fmt.Errorf("youtube: building videos request: %w", err)
	}

	query := req.URL.Query()
	query.Set("part", "snippet,contentDetails,statistics")
	query.Set("id", joinCommaSeparated(videoIDs))
	query.Set("key", f.apiKey)
	req.URL.RawQuery = query.Encode()

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube: videos request failed: %w", err)
	}

	body := f.readBody(resp)

	if err := classifyStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	var parsed struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				PublishedAt string `json:"publishedAt"`
			} `json:"snippet"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
			Statistics struct {
				ViewCount string `json:"viewCount"`
				LikeCount string `json:"likeCount"`
			} `json:"statistics"`
		} `json:"items"`
	}

	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("youtube: decoding videos response: %w", err)
	}

	videos := make([]Video, 0, len(parsed.Items))

	for _, item := range parsed.Items {
		var publishedAt *time.Time
		if parsed, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			publishedAt = &parsed
		}

		videos = append(videos, Video{
			VideoID:     item.ID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			PublishedAt: publishedAt,
			Duration:    item.ContentDetails.Duration,
			ViewCount:   parseInt64OrNil(item.Statistics.ViewCount),
			LikeCount:   parseInt64OrNil(item.Statistics.LikeCount),
		})
	}

	return videos, nil
}

func parseInt64OrNil(s string) *int64 {
	if s == "" {
		return nil
	}

	var value int64
	if _, err := fmt.Sscanf(s, "%d", &value); err != nil {
		return nil
	}

	return &value
}

func joinCommaSeparated(values []string) string {
	result := ""
	for i, v := range values {
		if i > 0 {
			result += ","
		}

		result += v
	}

	return result
}
