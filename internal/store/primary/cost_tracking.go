package primary

import (
	"context"
	"fmt"
	"time"

	"clipnote/internal/models"
	"clipnote/internal/store"

	"github.com/jackc/pgx/v5"
)

var _ store.CostTrackingStore = (*StoreImpl)(nil)

// RecordUsage inserts a new AI usage log entry.
func (s *StoreImpl) RecordUsage(ctx context.Context, log *models.AIUsageLog) error {
	query := `
		INSERT INTO ai_usage_logs (
			user_id, timestamp, provider_name, service_type, model_name,
			input_tokens, output_tokens, cost,
			related_video_id, related_job_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}
	err := s.db.QueryRow(ctx, query,
		log.UserID,
		log.Timestamp,
		log.ProviderName,
		log.ServiceType,
		log.ModelName,
		log.InputTokens,
		log.OutputTokens,
		log.Cost,
		log.RelatedVideoID,
		log.RelatedJobID,
	).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("failed to insert ai_usage_log: %w", err)
	}
	return nil
}

// ListUsage returns AI usage logs, newest first.
func (s *StoreImpl) ListUsage(ctx context.Context, limit, offset int) ([]*models.AIUsageLog, error) {
	query := `
		SELECT id, user_id, timestamp, provider_name, service_type, model_name,
		       input_tokens, output_tokens, cost, related_video_id, related_job_id
		FROM ai_usage_logs
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.Query(ctx, query, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ai_usage_logs: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows[*models.AIUsageLog](rows, func(row pgx.CollectableRow) (*models.AIUsageLog, error) {
		var log models.AIUsageLog
		err := row.Scan(
			&log.ID,
			&log.UserID,
			&log.Timestamp,
			&log.ProviderName,
			&log.ServiceType,
			&log.ModelName,
			&log.InputTokens,
			&log.OutputTokens,
			&log.Cost,
			&log.RelatedVideoID,
			&log.RelatedJobID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ai_usage_log: %w", err)
		}
		return &log, nil
	})
}

// GetUsageSummary returns the total cost and token usage.
func (s *StoreImpl) GetUsageSummary(ctx context.Context) (totalCost float64, totalInputTokens, totalOutputTokens int64, err error) {
	query := `
		SELECT
			COALESCE(SUM(cost),0),
			COALESCE(SUM(input_tokens),0),
			COALESCE(SUM(output_tokens),0)
		FROM ai_usage_logs
	`
	err = s.db.QueryRow(ctx, query).Scan(&totalCost, &totalInputTokens, &totalOutputTokens)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to summarize ai_usage_logs: %w", err)
	}
	return totalCost, totalInputTokens, totalOutputTokens, nil
}

// ListUsageByModel aggregates usage per provider and model, most expensive first.
func (s *StoreImpl) ListUsageByModel(ctx context.Context) ([]models.UsageSummary, error) {
	query := `
		SELECT provider_name, model_name, COUNT(*),
		       COALESCE(SUM(input_tokens),0), COALESCE(SUM(output_tokens),0), COALESCE(SUM(cost),0)
		FROM ai_usage_logs
		GROUP BY provider_name, model_name
		ORDER BY SUM(cost) DESC, provider_name, model_name
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to group ai_usage_logs: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows[models.UsageSummary](rows, func(row pgx.CollectableRow) (models.UsageSummary, error) {
		var u models.UsageSummary
		err := row.Scan(&u.ProviderName, &u.ModelName, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.Cost)
		return u, err
	})
}
