package primary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clipnote/internal/models"
	"clipnote/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// --- Job Store Implementation ---

var _ store.JobStore = (*StoreImpl)(nil)

// RecordJobEnqueue inserts a record into the background_jobs table.
func (s *StoreImpl) RecordJobEnqueue(ctx context.Context, params store.JobRecordParams) error {
	query := `
		INSERT INTO background_jobs (job_id, task_type, payload, queue, status, related_entity_type, related_entity_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (job_id) DO NOTHING
		RETURNING id`

	var payloadJSON json.RawMessage
	if params.Payload != nil {
		payloadJSON = json.RawMessage(params.Payload)
	} else {
		payloadJSON = json.RawMessage("{}")
	}

	var relatedType sql.NullString
	if params.RelatedEntityType != "" {
		relatedType = sql.NullString{String: params.RelatedEntityType, Valid: true}
	}
	var relatedID sql.NullInt64
	if params.RelatedEntityID != 0 {
		relatedID = sql.NullInt64{Int64: params.RelatedEntityID, Valid: true}
	}

	var insertedID int64
	err := s.db.QueryRow(ctx, query,
		params.JobID,
		params.TaskType,
		payloadJSON,
		params.Queue,
		params.Status,
		relatedType,
		relatedID,
		time.Now(),
	).Scan(&insertedID)
	if err != nil {
		// ON CONFLICT DO NOTHING returns no row when the job was already recorded.
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debugf("Job %s already recorded, skipping insertion.", params.JobID)
			return nil
		}
		return fmt.Errorf("failed to record job enqueue event for JobID %s: %w", params.JobID, err)
	}

	log.Debugf("Recorded job enqueue event for JobID %s with DB ID %d", params.JobID, insertedID)
	return nil
}

// UpdateJobStatus updates the status of a job given its Asynq Task UUID.
// An empty lastError clears the previous error.
func (s *StoreImpl) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string, lastError string) error {
	query := `UPDATE background_jobs SET status = $1, last_error = $2, updated_at = $3 WHERE job_id = $4`
	var errText sql.NullString
	if lastError != "" {
		errText = sql.NullString{String: lastError, Valid: true}
	}
	cmdTag, err := s.db.Exec(ctx, query, status, errText, time.Now(), jobID)
	if err != nil {
		return fmt.Errorf("failed to update job status for job %s: %w", jobID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("job %s not found to update status: %w", jobID, store.ErrNotFound)
	}
	return nil
}

// ListJobs returns recorded background jobs, newest first.
func (s *StoreImpl) ListJobs(ctx context.Context, limit, offset int) ([]*models.BackgroundJob, error) {
	query := `
		SELECT id, job_id, task_type, payload, queue, status, related_entity_type, related_entity_id,
		       last_error, created_at, updated_at
		FROM background_jobs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := s.db.Query(ctx, query, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query background jobs: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows[*models.BackgroundJob](rows, func(row pgx.CollectableRow) (*models.BackgroundJob, error) {
		job := &models.BackgroundJob{}
		err := row.Scan(
			&job.ID, &job.JobID, &job.TaskType, &job.Payload, &job.Queue, &job.Status,
			&job.RelatedEntityType, &job.RelatedEntityID, &job.LastError,
			&job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan background job row: %w", err)
		}
		return job, nil
	})
}
