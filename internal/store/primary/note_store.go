package primary

import (
	"context"
	"fmt"
	"time"

	"clipnote/internal/models"
	"clipnote/internal/store"

	"github.com/jackc/pgx/v5"
)

// --- Note Management ---

var _ store.NoteStore = (*StoreImpl)(nil)

func (s *StoreImpl) CreateNote(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO notes (user_id, title, content, tags, is_ai_generated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id, created_at, updated_at`

	note.Tags = nonNilTags(note.Tags)
	err := s.db.QueryRow(ctx, query,
		note.UserID, note.Title, note.Content, note.Tags, note.IsAIGenerated, time.Now(),
	).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "note")
	}
	return nil
}

func (s *StoreImpl) GetNote(ctx context.Context, userID, id int64) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND user_id = $2`
	n, err := scanNote(s.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, mapReadError(err, "failed to get note %d", id)
	}
	return n, nil
}

func (s *StoreImpl) UpdateNote(ctx context.Context, note *models.Note) error {
	query := `
		UPDATE notes SET title = $1, content = $2, tags = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
		RETURNING created_at, updated_at, is_ai_generated`

	note.Tags = nonNilTags(note.Tags)
	err := s.db.QueryRow(ctx, query,
		note.Title, note.Content, note.Tags, time.Now(), note.ID, note.UserID,
	).Scan(&note.CreatedAt, &note.UpdatedAt, &note.IsAIGenerated)
	if err != nil {
		return mapReadError(err, "failed to update note %d", note.ID)
	}
	return nil
}

func (s *StoreImpl) DeleteNote(ctx context.Context, userID, id int64) error {
	cmdTag, err := s.db.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) ListNotes(ctx context.Context, userID int64, limit, offset int) ([]*models.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE user_id = $1
		ORDER BY updated_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := s.db.Query(ctx, query, userID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows[*models.Note](rows, func(row pgx.CollectableRow) (*models.Note, error) {
		n, err := scanNote(row)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		return n, nil
	})
}
