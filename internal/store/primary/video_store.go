package primary

import (
	"context"
	"fmt"
	"time"

	"clipnote/internal/models"
	"clipnote/internal/store"

	"github.com/jackc/pgx/v5"
)

// --- Video Management ---

var _ store.VideoStore = (*StoreImpl)(nil)

// CreateVideo inserts a new video record.
func (s *StoreImpl) CreateVideo(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (user_id, url, content_id, platform, title, transcript, summary, tags, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING id, created_at, updated_at`

	video.Tags = nonNilTags(video.Tags)
	if video.Status == "" {
		video.Status = models.VideoStatusPending
	}
	err := s.db.QueryRow(ctx, query,
		video.UserID, video.URL, video.ContentID, video.Platform, video.Title,
		video.Transcript, video.Summary, video.Tags, video.Status, time.Now(),
	).Scan(&video.ID, &video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "video")
	}
	return nil
}

func (s *StoreImpl) GetVideo(ctx context.Context, userID, id int64) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1 AND user_id = $2`
	v, err := scanVideo(s.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, mapReadError(err, "failed to get video %d", id)
	}
	return v, nil
}

// FindVideo returns the user's video with the same URL, or with the same
// platform content ID when one is known.
func (s *StoreImpl) FindVideo(ctx context.Context, userID int64, url, contentID string) (*models.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE user_id = $1 AND (url = $2 OR ($3 <> '' AND content_id = $3))
		ORDER BY created_at DESC
		LIMIT 1`
	v, err := scanVideo(s.db.QueryRow(ctx, query, userID, url, contentID))
	if err != nil {
		return nil, mapReadError(err, "failed to find video by url %q", url)
	}
	return v, nil
}

func (s *StoreImpl) UpdateVideo(ctx context.Context, video *models.Video) error {
	query := `
		UPDATE videos
		SET url = $1, content_id = $2, platform = $3, title = $4, transcript = $5,
		    summary = $6, tags = $7, status = $8, updated_at = $9
		WHERE id = $10 AND user_id = $11
		RETURNING updated_at`

	video.Tags = nonNilTags(video.Tags)
	err := s.db.QueryRow(ctx, query,
		video.URL, video.ContentID, video.Platform, video.Title, video.Transcript,
		video.Summary, video.Tags, video.Status, time.Now(), video.ID, video.UserID,
	).Scan(&video.UpdatedAt)
	if err != nil {
		return mapReadError(err, "failed to update video %d", video.ID)
	}
	return nil
}

func (s *StoreImpl) DeleteVideo(ctx context.Context, userID, id int64) error {
	cmdTag, err := s.db.Exec(ctx, `DELETE FROM videos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete video %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) ListVideos(ctx context.Context, userID int64, limit, offset int) ([]*models.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := s.db.Query(ctx, query, userID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return collectVideos(rows)
}

func (s *StoreImpl) UpdateVideoTags(ctx context.Context, userID, id int64, tags []string) error {
	cmdTag, err := s.db.Exec(ctx,
		`UPDATE videos SET tags = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`,
		nonNilTags(tags), time.Now(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update tags of video %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) UpdateVideoTitle(ctx context.Context, userID, id int64, title string) error {
	cmdTag, err := s.db.Exec(ctx,
		`UPDATE videos SET title = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`,
		title, time.Now(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update title of video %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListVideosWithPlaceholderTitles returns videos still titled with a generated
// "Video <id>" or "<Platform> Video" label, or with no title at all.
func (s *StoreImpl) ListVideosWithPlaceholderTitles(ctx context.Context, userID int64) ([]*models.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE user_id = $1 AND (title LIKE 'Video %' OR title LIKE '% Video' OR title = '')
		ORDER BY created_at DESC`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos with placeholder titles: %w", err)
	}
	return collectVideos(rows)
}

func collectVideos(rows pgx.Rows) ([]*models.Video, error) {
	defer rows.Close()
	videos, err := pgx.CollectRows[*models.Video](rows, func(row pgx.CollectableRow) (*models.Video, error) {
		v, err := scanVideo(row)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return videos, nil
}
