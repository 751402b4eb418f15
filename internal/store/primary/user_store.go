package primary

import (
	"context"
	"time"

	"clipnote/internal/models"
	"clipnote/internal/store"
)

// --- User Management ---

var _ store.UserStore = (*StoreImpl)(nil)

func (s *StoreImpl) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query, user.Username, user.PasswordHash, time.Now()).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return mapWriteError(err, "user "+user.Username)
	}
	return nil
}

func (s *StoreImpl) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRow(ctx, `SELECT id, username, password, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, mapReadError(err, "failed to get user %d", id)
	}
	return u, nil
}

func (s *StoreImpl) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRow(ctx, `SELECT id, username, password, created_at FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, mapReadError(err, "failed to get user %q", username)
	}
	return u, nil
}
