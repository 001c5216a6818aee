package storage

import (
	"context"
	"time"

	"github.com/parentwatch/scanguard/pkg/api/business/scan"
)

// UpsertChannel satisfies scan.ChannelRepository: one SubscribedChannel row
// per (linked_account_id, channel_id), refreshed on every scan.
func (r *Repository) UpsertChannel(
	ctx context.Context,
	linkedAccountID string,
	details scan.ChannelDetails,
	fetchedAt time.Time,
) (string, error) {
	var channelRowID string

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO subscribed_channels
			(id, linked_account_id, channel_id, title, description, thumbnail_url,
			 subscriber_count, video_count, last_fetched_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (linked_account_id, channel_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			thumbnail_url = EXCLUDED.thumbnail_url,
			subscriber_count = EXCLUDED.subscriber_count,
			video_count = EXCLUDED.video_count,
			last_fetched_at = EXCLUDED.last_fetched_at,
			updated_at = now()
		RETURNING id
	`, newID(), linkedAccountID, details.ChannelID, details.Title, details.Description, details.ThumbnailURL,
		details.SubscriberCount, details.VideoCount, fetchedAt).Scan(&channelRowID)
	if err != nil {
		return "", err
	}

	return channelRowID, nil
}
