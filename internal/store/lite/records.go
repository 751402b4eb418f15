package lite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"clipnote/internal/models"
	"clipnote/internal/store"

	"github.com/google/uuid"
)

// --- Users ---

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	ts := now()
	res, err := s.db.ExecContext(ctx, `INSERT INTO users (username, password, created_at) VALUES (?, ?, ?)`,
		user.Username, user.PasswordHash, ts)
	if err != nil {
		return mapWriteError(err, "user "+user.Username)
	}
	if user.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.CreatedAt = ts
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	if err := s.db.GetContext(ctx, u, `SELECT id, username, password, created_at FROM users WHERE id = ?`, id); err != nil {
		return nil, mapReadError(err, "failed to get user %d", id)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u := &models.User{}
	if err := s.db.GetContext(ctx, u, `SELECT id, username, password, created_at FROM users WHERE username = ?`, username); err != nil {
		return nil, mapReadError(err, "failed to get user %q", username)
	}
	return u, nil
}

// --- Chat history ---

type chatRow struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	Message      string    `db:"message"`
	Response     string    `db:"response"`
	MatchedItems string    `db:"matched_items"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s *Store) RecordChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.MatchedItems == nil {
		msg.MatchedItems = []models.MatchedItem{}
	}
	matched, err := json.Marshal(msg.MatchedItems)
	if err != nil {
		return fmt.Errorf("failed to encode matched items: %w", err)
	}
	ts := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (user_id, message, response, matched_items, created_at)
		VALUES (?, ?, ?, ?, ?)`, msg.UserID, msg.Message, msg.Response, string(matched), ts)
	if err != nil {
		return mapWriteError(err, "chat message")
	}
	if msg.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read chat message id: %w", err)
	}
	msg.CreatedAt = ts
	return nil
}

func (s *Store) ListChatMessages(ctx context.Context, userID int64, limit int) ([]*models.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []chatRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, message, response, matched_items, created_at
		FROM (
			SELECT * FROM chat_messages WHERE user_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
		ORDER BY created_at ASC, id ASC`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	out := make([]*models.ChatMessage, 0, len(rows))
	for _, r := range rows {
		m := &models.ChatMessage{
			ID:           r.ID,
			UserID:       r.UserID,
			Message:      r.Message,
			Response:     r.Response,
			MatchedItems: []models.MatchedItem{},
			CreatedAt:    r.CreatedAt,
		}
		if r.MatchedItems != "" {
			if err := json.Unmarshal([]byte(r.MatchedItems), &m.MatchedItems); err != nil {
				return nil, fmt.Errorf("failed to decode matched items of message %d: %w", r.ID, err)
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Store) ClearChatMessages(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear chat history: %w", err)
	}
	return res.RowsAffected()
}

// --- Jobs ---

type jobRow struct {
	ID                int64          `db:"id"`
	JobID             uuid.UUID      `db:"job_id"`
	TaskType          string         `db:"task_type"`
	Payload           string         `db:"payload"`
	Queue             string         `db:"queue"`
	Status            string         `db:"status"`
	RelatedEntityType sql.NullString `db:"related_entity_type"`
	RelatedEntityID   sql.NullInt64  `db:"related_entity_id"`
	LastError         sql.NullString `db:"last_error"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

func (r jobRow) toModel() *models.BackgroundJob {
	job := &models.BackgroundJob{
		ID:        r.ID,
		JobID:     r.JobID,
		TaskType:  r.TaskType,
		Payload:   json.RawMessage(r.Payload),
		Queue:     r.Queue,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.RelatedEntityType.Valid {
		job.RelatedEntityType = &r.RelatedEntityType.String
	}
	if r.RelatedEntityID.Valid {
		job.RelatedEntityID = &r.RelatedEntityID.Int64
	}
	if r.LastError.Valid {
		job.LastError = &r.LastError.String
	}
	return job
}

func (s *Store) RecordJobEnqueue(ctx context.Context, params store.JobRecordParams) error {
	payload := "{}"
	if params.Payload != nil {
		payload = string(params.Payload)
	}
	var relatedType sql.NullString
	if params.RelatedEntityType != "" {
		relatedType = sql.NullString{String: params.RelatedEntityType, Valid: true}
	}
	var relatedID sql.NullInt64
	if params.RelatedEntityID != 0 {
		relatedID = sql.NullInt64{Int64: params.RelatedEntityID, Valid: true}
	}
	ts := now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO background_jobs (job_id, task_type, payload, queue, status, related_entity_type, related_entity_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (job_id) DO NOTHING`,
		params.JobID.String(), params.TaskType, payload, params.Queue, params.Status, relatedType, relatedID, ts, ts)
	if err != nil {
		return fmt.Errorf("failed to record job enqueue event for JobID %s: %w", params.JobID, err)
	}
	return nil
}

func (s *Store) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string, lastError string) error {
	var errText sql.NullString
	if lastError != "" {
		errText = sql.NullString{String: lastError, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `UPDATE background_jobs SET status = ?, last_error = ?, updated_at = ? WHERE job_id = ?`,
		status, errText, now(), jobID.String())
	if err != nil {
		return fmt.Errorf("failed to update job status for job %s: %w", jobID, err)
	}
	if err := requireAffected(res); err != nil {
		return fmt.Errorf("job %s not found to update status: %w", jobID, err)
	}
	return nil
}

func (s *Store) ListJobs(ctx context.Context, limit, offset int) ([]*models.BackgroundJob, error) {
	var rows []jobRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, job_id, task_type, payload, queue, status, related_entity_type, related_entity_id,
		       last_error, created_at, updated_at
		FROM background_jobs
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query background jobs: %w", err)
	}
	jobs := make([]*models.BackgroundJob, 0, len(rows))
	for _, r := range rows {
		jobs = append(jobs, r.toModel())
	}
	return jobs, nil
}

// --- Cost tracking ---

type usageRow struct {
	ID             int64          `db:"id"`
	UserID         sql.NullInt64  `db:"user_id"`
	Timestamp      time.Time      `db:"timestamp"`
	ProviderName   string         `db:"provider_name"`
	ServiceType    string         `db:"service_type"`
	ModelName      string         `db:"model_name"`
	InputTokens    int            `db:"input_tokens"`
	OutputTokens   int            `db:"output_tokens"`
	Cost           float64        `db:"cost"`
	RelatedVideoID sql.NullInt64  `db:"related_video_id"`
	RelatedJobID   sql.NullString `db:"related_job_id"`
}

func (s *Store) RecordUsage(ctx context.Context, entry *models.AIUsageLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now()
	}
	var jobID sql.NullString
	if entry.RelatedJobID != nil {
		jobID = sql.NullString{String: entry.RelatedJobID.String(), Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_usage_logs (user_id, timestamp, provider_name, service_type, model_name,
		                           input_tokens, output_tokens, cost, related_video_id, related_job_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.UserID, entry.Timestamp, entry.ProviderName, entry.ServiceType, entry.ModelName,
		entry.InputTokens, entry.OutputTokens, entry.Cost, entry.RelatedVideoID, jobID)
	if err != nil {
		return fmt.Errorf("failed to insert ai_usage_log: %w", err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read ai_usage_log id: %w", err)
	}
	return nil
}

func (s *Store) ListUsage(ctx context.Context, limit, offset int) ([]*models.AIUsageLog, error) {
	var rows []usageRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, timestamp, provider_name, service_type, model_name,
		       input_tokens, output_tokens, cost, related_video_id, related_job_id
		FROM ai_usage_logs
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?`, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ai_usage_logs: %w", err)
	}
	logs := make([]*models.AIUsageLog, 0, len(rows))
	for _, r := range rows {
		l := &models.AIUsageLog{
			ID:           r.ID,
			Timestamp:    r.Timestamp,
			ProviderName: r.ProviderName,
			ServiceType:  r.ServiceType,
			ModelName:    r.ModelName,
			InputTokens:  r.InputTokens,
			OutputTokens: r.OutputTokens,
			Cost:         r.Cost,
		}
		if r.UserID.Valid {
			l.UserID = &r.UserID.Int64
		}
		if r.RelatedVideoID.Valid {
			l.RelatedVideoID = &r.RelatedVideoID.Int64
		}
		if r.RelatedJobID.Valid {
			if id, err := uuid.Parse(r.RelatedJobID.String); err == nil {
				l.RelatedJobID = &id
			}
		}
		logs = append(logs, l)
	}
	return logs, nil
}

func (s *Store) GetUsageSummary(ctx context.Context) (totalCost float64, totalInputTokens, totalOutputTokens int64, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(cost),0), COALESCE(SUM(input_tokens),0), COALESCE(SUM(output_tokens),0)
		FROM ai_usage_logs`).Scan(&totalCost, &totalInputTokens, &totalOutputTokens)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to summarize ai_usage_logs: %w", err)
	}
	return totalCost, totalInputTokens, totalOutputTokens, nil
}

func (s *Store) ListUsageByModel(ctx context.Context) ([]models.UsageSummary, error) {
	out := []models.UsageSummary{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT provider_name, model_name, COUNT(*) AS calls,
		       COALESCE(SUM(input_tokens),0) AS input_tokens,
		       COALESCE(SUM(output_tokens),0) AS output_tokens,
		       COALESCE(SUM(cost),0) AS cost
		FROM ai_usage_logs
		GROUP BY provider_name, model_name
		ORDER BY SUM(cost) DESC, provider_name, model_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to group ai_usage_logs: %w", err)
	}
	return out, nil
}
