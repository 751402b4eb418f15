// Package lite is a single-file SQLite implementation of store.Store for
// local and single-user runs.
package lite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clipnote/internal/store"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    username    TEXT NOT NULL UNIQUE,
    password    TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS videos (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    url         TEXT NOT NULL,
    content_id  TEXT NOT NULL DEFAULT '',
    platform    TEXT NOT NULL DEFAULT 'unknown',
    title       TEXT NOT NULL DEFAULT '',
    transcript  TEXT NOT NULL DEFAULT '',
    summary     TEXT NOT NULL DEFAULT '',
    tags        TEXT NOT NULL DEFAULT '[]',
    status      TEXT NOT NULL DEFAULT 'pending',
    created_at  TIMESTAMP NOT NULL,
    updated_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_videos_user_created ON videos (user_id, created_at);

CREATE TABLE IF NOT EXISTS notes (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id          INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title            TEXT NOT NULL,
    content          TEXT NOT NULL,
    tags             TEXT NOT NULL DEFAULT '[]',
    is_ai_generated  BOOLEAN NOT NULL DEFAULT 0,
    created_at       TIMESTAMP NOT NULL,
    updated_at       TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_messages (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id        INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    message        TEXT NOT NULL,
    response       TEXT NOT NULL,
    matched_items  TEXT NOT NULL DEFAULT '[]',
    created_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS background_jobs (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    job_id               TEXT NOT NULL UNIQUE,
    task_type            TEXT NOT NULL,
    payload              TEXT NOT NULL DEFAULT '{}',
    queue                TEXT NOT NULL,
    status               TEXT NOT NULL,
    related_entity_type  TEXT,
    related_entity_id    INTEGER,
    last_error           TEXT,
    created_at           TIMESTAMP NOT NULL,
    updated_at           TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS ai_usage_logs (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id           INTEGER,
    timestamp         TIMESTAMP NOT NULL,
    provider_name     TEXT NOT NULL,
    service_type      TEXT NOT NULL,
    model_name        TEXT NOT NULL,
    input_tokens      INTEGER NOT NULL DEFAULT 0,
    output_tokens     INTEGER NOT NULL DEFAULT 0,
    cost              REAL NOT NULL DEFAULT 0,
    related_video_id  INTEGER,
    related_job_id    TEXT
);
`

// Store implements store.Store on an embedded SQLite database.
type Store struct {
	db *sqlx.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path cannot be empty")
	}
	dsn := "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
	if path == ":memory:" {
		dsn = "file::memory:?_foreign_keys=on"
	}
	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database %s: %w", path, err)
	}
	// SQLite serialises writers; a single connection also keeps :memory: shared.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to apply sqlite schema: %w", err)
	}
	log.Debugf("Opened sqlite store at %s", path)
	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// --- Helper Functions ---

// jsonList stores a string slice as a JSON array in a TEXT column.
type jsonList []string

func (l jsonList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *jsonList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = jsonList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into tag list", src)
	}
	var out []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("decode tag list: %w", err)
		}
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

func mapWriteError(err error, what string) error {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		switch sqErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%s already exists: %w", what, store.ErrDuplicate)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%s references a missing row: %w", what, store.ErrForeignKeyViolation)
		}
	}
	return fmt.Errorf("failed to write %s: %w", what, err)
}

func mapReadError(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// limitArg maps a non-positive limit to -1, which SQLite treats as no limit.
func limitArg(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func now() time.Time {
	return time.Now().UTC()
}
