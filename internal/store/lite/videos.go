package lite

import (
	"context"
	"fmt"
	"time"

	"clipnote/internal/models"
)

type videoRow struct {
	ID         int64           `db:"id"`
	UserID     int64           `db:"user_id"`
	URL        string          `db:"url"`
	ContentID  string          `db:"content_id"`
	Platform   models.Platform `db:"platform"`
	Title      string          `db:"title"`
	Transcript string          `db:"transcript"`
	Summary    string          `db:"summary"`
	Tags       jsonList        `db:"tags"`
	Status     string          `db:"status"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func (r videoRow) toModel() *models.Video {
	return &models.Video{
		ID:         r.ID,
		UserID:     r.UserID,
		URL:        r.URL,
		ContentID:  r.ContentID,
		Platform:   r.Platform,
		Title:      r.Title,
		Transcript: r.Transcript,
		Summary:    r.Summary,
		Tags:       []string(r.Tags),
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func videoModels(rows []videoRow) []*models.Video {
	out := make([]*models.Video, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out
}

const videoColumns = `id, user_id, url, content_id, platform, title, transcript, summary, tags, status, created_at, updated_at`

func (s *Store) CreateVideo(ctx context.Context, video *models.Video) error {
	if video.Status == "" {
		video.Status = models.VideoStatusPending
	}
	if video.Tags == nil {
		video.Tags = []string{}
	}
	ts := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO videos (user_id, url, content_id, platform, title, transcript, summary, tags, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		video.UserID, video.URL, video.ContentID, video.Platform, video.Title,
		video.Transcript, video.Summary, jsonList(video.Tags), video.Status, ts, ts)
	if err != nil {
		return mapWriteError(err, "video")
	}
	if video.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read video id: %w", err)
	}
	video.CreatedAt, video.UpdatedAt = ts, ts
	return nil
}

func (s *Store) GetVideo(ctx context.Context, userID, id int64) (*models.Video, error) {
	var row videoRow
	err := s.db.GetContext(ctx, &row, `SELECT `+videoColumns+` FROM videos WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return nil, mapReadError(err, "failed to get video %d", id)
	}
	return row.toModel(), nil
}

func (s *Store) FindVideo(ctx context.Context, userID int64, url, contentID string) (*models.Video, error) {
	var row videoRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+videoColumns+`
		FROM videos
		WHERE user_id = ? AND (url = ? OR (? <> '' AND content_id = ?))
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, userID, url, contentID, contentID)
	if err != nil {
		return nil, mapReadError(err, "failed to find video by url %q", url)
	}
	return row.toModel(), nil
}

func (s *Store) UpdateVideo(ctx context.Context, video *models.Video) error {
	if video.Tags == nil {
		video.Tags = []string{}
	}
	ts := now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE videos
		SET url = ?, content_id = ?, platform = ?, title = ?, transcript = ?,
		    summary = ?, tags = ?, status = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		video.URL, video.ContentID, video.Platform, video.Title, video.Transcript,
		video.Summary, jsonList(video.Tags), video.Status, ts, video.ID, video.UserID)
	if err != nil {
		return fmt.Errorf("failed to update video %d: %w", video.ID, err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	video.UpdatedAt = ts
	return nil
}

func (s *Store) DeleteVideo(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete video %d: %w", id, err)
	}
	return requireAffected(res)
}

func (s *Store) ListVideos(ctx context.Context, userID int64, limit, offset int) ([]*models.Video, error) {
	var rows []videoRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+videoColumns+`
		FROM videos
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, userID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videoModels(rows), nil
}

func (s *Store) UpdateVideoTags(ctx context.Context, userID, id int64, tags []string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE videos SET tags = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		jsonList(tags), now(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update tags of video %d: %w", id, err)
	}
	return requireAffected(res)
}

func (s *Store) UpdateVideoTitle(ctx context.Context, userID, id int64, title string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE videos SET title = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		title, now(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update title of video %d: %w", id, err)
	}
	return requireAffected(res)
}

func (s *Store) ListVideosWithPlaceholderTitles(ctx context.Context, userID int64) ([]*models.Video, error) {
	var rows []videoRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+videoColumns+`
		FROM videos
		WHERE user_id = ? AND (title LIKE 'Video %' OR title LIKE '% Video' OR title = '')
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos with placeholder titles: %w", err)
	}
	return videoModels(rows), nil
}
