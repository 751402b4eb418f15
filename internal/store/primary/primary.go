package primary

import (
	"context"
	"errors"
	"fmt"

	"clipnote/internal/models"
	"clipnote/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StoreImpl implements store.Store using PostgreSQL.
type StoreImpl struct {
	db *pgxpool.Pool
}

var _ store.Store = (*StoreImpl)(nil)

// NewPrimaryStore creates a new PostgreSQL primary store implementation.
func NewPrimaryStore(ctx context.Context, dsn string) (*StoreImpl, error) {
	if dsn == "" {
		return nil, errors.New("database DSN cannot be empty")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database DSN: %w", err)
	}

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &StoreImpl{db: dbpool}, nil
}

// Ping checks the database connection.
func (s *StoreImpl) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection pool.
func (s *StoreImpl) Close() error {
	s.db.Close()
	return nil
}

// --- Helper Functions ---

// mapWriteError translates constraint violations into store sentinels.
func mapWriteError(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s already exists: %w", what, store.ErrDuplicate)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s references a missing row: %w", what, store.ErrForeignKeyViolation)
		}
	}
	return fmt.Errorf("failed to write %s: %w", what, err)
}

func mapReadError(err error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

const videoColumns = `id, user_id, url, content_id, platform, title, transcript, summary, tags, status, created_at, updated_at`

// scanVideo scans a row selected with videoColumns.
func scanVideo(row pgx.Row) (*models.Video, error) {
	v := &models.Video{}
	err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.URL,
		&v.ContentID,
		&v.Platform,
		&v.Title,
		&v.Transcript,
		&v.Summary,
		&v.Tags,
		&v.Status,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Tags = nonNilTags(v.Tags)
	return v, nil
}

const noteColumns = `id, user_id, title, content, tags, is_ai_generated, created_at, updated_at`

func scanNote(row pgx.Row) (*models.Note, error) {
	n := &models.Note{}
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Tags, &n.IsAIGenerated, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	n.Tags = nonNilTags(n.Tags)
	return n, nil
}

// limitArg maps a non-positive limit to NULL, which Postgres treats as LIMIT ALL.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
