package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/parentwatch/scanguard/pkg/api/business/domain"
	"github.com/parentwatch/scanguard/pkg/api/business/scan"
)

// UpsertVideo satisfies scan.VideoRepository: one AnalyzedVideo row per
// video_platform_id (globally unique, see migration comment).
func (r *Repository) UpsertVideo(ctx context.Context, channelRowID string, video scan.Video) (string, error) {
	var videoRowID string

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO analyzed_videos
			(id, channel_id, video_platform_id, title, description, published_at,
			 duration, view_count, like_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (video_platform_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			published_at = EXCLUDED.published_at,
			duration = EXCLUDED.duration,
			view_count = EXCLUDED.view_count,
			like_count = EXCLUDED.like_count,
			updated_at = now()
		RETURNING id
	`, newID(), channelRowID, video.VideoID, video.Title, video.Description, video.PublishedAt,
		video.Duration, video.ViewCount, video.LikeCount).Scan(&videoRowID)
	if err != nil {
		return "", err
	}

	return videoRowID, nil
}

// UpsertAnalysisResult satisfies scan.VideoRepository's merge contract: one
// row per (video_id, risk_category), keywords_matched unioned and severity
// kept at its highest observed value.
func (r *Repository) UpsertAnalysisResult(
	ctx context.Context,
	videoRowID, channelRowID string,
	category domain.RiskCategory,
	severity domain.Severity,
	flaggedText string,
	keywordsMatched []string,
	confidenceScore float64,
) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback() //nolint:errcheck

	var (
		existingSeverity string
		existingKeywords pq.StringArray
		existingText     string
		existingScore    float64
	)

	err = tx.QueryRowContext(ctx, `
		SELECT severity, keywords_matched, flagged_text, confidence_score
		FROM analysis_results
		WHERE video_id = $1 AND risk_category = $2
		FOR UPDATE
	`, videoRowID, string(category)).Scan(&existingSeverity, &existingKeywords, &existingText, &existingScore)

	switch {
	case err == nil:
		mergedSeverity, mergedText := severity, flaggedText
		if severityRank(domain.Severity(existingSeverity)) > severityRank(severity) {
			mergedSeverity, mergedText = domain.Severity(existingSeverity), existingText
		}

		mergedKeywords := unionKeywords([]string(existingKeywords), keywordsMatched)
		mergedScore := confidenceScore
		if existingScore > mergedScore {
			mergedScore = existingScore
		}

		_, updateErr := tx.ExecContext(ctx, `
			UPDATE analysis_results
			SET severity = $3, flagged_text = $4, keywords_matched = $5, confidence_score = $6, updated_at = now()
			WHERE video_id = $1 AND risk_category = $2
		`, videoRowID, string(category), string(mergedSeverity), mergedText, pq.Array(mergedKeywords), mergedScore)
		if updateErr != nil {
			return false, updateErr
		}

		return false, tx.Commit()

	case errors.Is(err, sql.ErrNoRows):
		_, insertErr := tx.ExecContext(ctx, `
			INSERT INTO analysis_results
				(id, video_id, channel_id, risk_category, severity, flagged_text,
				 keywords_matched, confidence_score, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		`, newID(), videoRowID, channelRowID, string(category), string(severity), flaggedText,
			pq.Array(keywordsMatched), confidenceScore)
		if insertErr != nil {
			return false, insertErr
		}

		return true, tx.Commit()

	default:
		return false, err
	}
}

func severityRank(s domain.Severity) int {
	switch s {
	case domain.SeverityHigh:
		return 2
	case domain.SeverityMedium:
		return 1
	default:
		return 0
	}
}

func unionKeywords(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	result := make([]string, 0, len(a)+len(b))

	for _, kw := range append(append([]string{}, a...), b...) {
		if _, ok := seen[kw]; ok {
			continue
		}

		seen[kw] = struct{}{}

		result = append(result, kw)
	}

	return result
}

// ListAnalysisResultsByVideo returns every analysis result recorded for one
// analyzed video.
func (r *Repository) ListAnalysisResultsByVideo(ctx context.Context, videoRowID string) ([]*domain.AnalysisResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, video_id, channel_id, risk_category, severity, flagged_text,
		       keywords_matched, confidence_score, marked_not_harmful, marked_not_harmful_at,
		       marked_not_harmful_by, created_at, updated_at
		FROM analysis_results
		WHERE video_id = $1
	`, videoRowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var results []*domain.AnalysisResult

	for rows.Next() {
		var (
			result   domain.AnalysisResult
			category string
			severity string
			keywords pq.StringArray
			markedBy sql.NullString
			markedAt sql.NullTime
		)

		if scanErr := rows.Scan(
			&result.ID, &result.VideoID, &result.ChannelID, &category, &severity, &result.FlaggedText,
			&keywords, &result.ConfidenceScore, &result.MarkedNotHarmful, &markedAt,
			&markedBy, &result.CreatedAt, &result.UpdatedAt,
		); scanErr != nil {
			return nil, scanErr
		}

		result.RiskCategory = domain.RiskCategory(category)
		result.Severity = domain.Severity(severity)
		result.KeywordsMatched = []string(keywords)
		result.MarkedNotHarmfulBy = nullStringPtr(markedBy)

		if markedAt.Valid {
			result.MarkedNotHarmfulAt = &markedAt.Time
		}

		results = append(results, &result)
	}

	return results, rows.Err()
}
