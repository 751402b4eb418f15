package lite

import (
	"context"
	"fmt"
	"time"

	"clipnote/internal/models"
)

type noteRow struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	Title         string    `db:"title"`
	Content       string    `db:"content"`
	Tags          jsonList  `db:"tags"`
	IsAIGenerated bool      `db:"is_ai_generated"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r noteRow) toModel() *models.Note {
	return &models.Note{
		ID:            r.ID,
		UserID:        r.UserID,
		Title:         r.Title,
		Content:       r.Content,
		Tags:          []string(r.Tags),
		IsAIGenerated: r.IsAIGenerated,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

const noteColumns = `id, user_id, title, content, tags, is_ai_generated, created_at, updated_at`

func (s *Store) CreateNote(ctx context.Context, note *models.Note) error {
	if note.Tags == nil {
		note.Tags = []string{}
	}
	ts := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (user_id, title, content, tags, is_ai_generated, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.UserID, note.Title, note.Content, jsonList(note.Tags), note.IsAIGenerated, ts, ts)
	if err != nil {
		return mapWriteError(err, "note")
	}
	if note.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read note id: %w", err)
	}
	note.CreatedAt, note.UpdatedAt = ts, ts
	return nil
}

func (s *Store) GetNote(ctx context.Context, userID, id int64) (*models.Note, error) {
	var row noteRow
	err := s.db.GetContext(ctx, &row, `SELECT `+noteColumns+` FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return nil, mapReadError(err, "failed to get note %d", id)
	}
	return row.toModel(), nil
}

func (s *Store) UpdateNote(ctx context.Context, note *models.Note) error {
	if note.Tags == nil {
		note.Tags = []string{}
	}
	res, err := s.db.ExecContext(ctx, `UPDATE notes SET title = ?, content = ?, tags = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		note.Title, note.Content, jsonList(note.Tags), now(), note.ID, note.UserID)
	if err != nil {
		return fmt.Errorf("failed to update note %d: %w", note.ID, err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	stored, err := s.GetNote(ctx, note.UserID, note.ID)
	if err != nil {
		return err
	}
	*note = *stored
	return nil
}

func (s *Store) DeleteNote(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note %d: %w", id, err)
	}
	return requireAffected(res)
}

func (s *Store) ListNotes(ctx context.Context, userID int64, limit, offset int) ([]*models.Note, error) {
	var rows []noteRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE user_id = ?
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?`, userID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	notes := make([]*models.Note, 0, len(rows))
	for _, r := range rows {
		notes = append(notes, r.toModel())
	}
	return notes, nil
}

// ListContentItems returns every video followed by every note of the user.
func (s *Store) ListContentItems(ctx context.Context, userID int64) ([]models.ContentItem, error) {
	videos, err := s.ListVideos(ctx, userID, 0, 0)
	if err != nil {
		return nil, err
	}
	notes, err := s.ListNotes(ctx, userID, 0, 0)
	if err != nil {
		return nil, err
	}
	items := make([]models.ContentItem, 0, len(videos)+len(notes))
	for _, v := range videos {
		items = append(items, models.VideoItem(*v))
	}
	for _, n := range notes {
		items = append(items, models.NoteItem(*n))
	}
	return items, nil
}

func (s *Store) ListTagCounts(ctx context.Context, userID int64) ([]models.TagCount, error) {
	counts := []models.TagCount{}
	err := s.db.SelectContext(ctx, &counts, `
		SELECT j.value AS name, COUNT(*) AS count
		FROM (
			SELECT tags FROM videos WHERE user_id = ?
			UNION ALL
			SELECT tags FROM notes WHERE user_id = ?
		) t, json_each(t.tags) j
		WHERE j.value <> ''
		GROUP BY j.value
		ORDER BY count DESC, name ASC`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}
	return counts, nil
}
