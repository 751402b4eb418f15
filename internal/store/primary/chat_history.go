package primary

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clipnote/internal/models"
	"clipnote/internal/store"

	"github.com/jackc/pgx/v5"
)

// --- Chat History Store Implementation ---

var _ store.ChatHistoryStore = (*StoreImpl)(nil)

func (s *StoreImpl) RecordChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	sql := `
		INSERT INTO chat_messages (user_id, message, response, matched_items, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	if msg.MatchedItems == nil {
		msg.MatchedItems = []models.MatchedItem{}
	}
	matched, err := json.Marshal(msg.MatchedItems)
	if err != nil {
		return fmt.Errorf("failed to encode matched items: %w", err)
	}

	err = s.db.QueryRow(ctx, sql, msg.UserID, msg.Message, msg.Response, matched, time.Now()).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return mapWriteError(err, "chat message")
	}
	return nil
}

// ListChatMessages returns the most recent messages in chronological order.
func (s *StoreImpl) ListChatMessages(ctx context.Context, userID int64, limit int) ([]*models.ChatMessage, error) {
	if limit <= 0 {
		limit = 50 // Default limit
	}
	sql := `
		SELECT id, user_id, message, response, matched_items, created_at
		FROM (
			SELECT id, user_id, message, response, matched_items, created_at
			FROM chat_messages
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, id ASC`

	rows, err := s.db.Query(ctx, sql, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows[*models.ChatMessage](rows, func(row pgx.CollectableRow) (*models.ChatMessage, error) {
		m := &models.ChatMessage{}
		var matched []byte
		if err := row.Scan(&m.ID, &m.UserID, &m.Message, &m.Response, &matched, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		m.MatchedItems = []models.MatchedItem{}
		if len(matched) > 0 {
			if err := json.Unmarshal(matched, &m.MatchedItems); err != nil {
				return nil, fmt.Errorf("failed to decode matched items of message %d: %w", m.ID, err)
			}
		}
		return m, nil
	})
}

func (s *StoreImpl) ClearChatMessages(ctx context.Context, userID int64) (int64, error) {
	cmdTag, err := s.db.Exec(ctx, `DELETE FROM chat_messages WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear chat history: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
