package services

import (
	"context"
	"fmt"

	"clipnote/internal/models"
	"clipnote/internal/store"
)

// UsageTotals is the overall AI spend with its per-model breakdown.
type UsageTotals struct {
	TotalCost         float64               `json:"total_cost"`
	TotalInputTokens  int64                 `json:"total_input_tokens"`
	TotalOutputTokens int64                 `json:"total_output_tokens"`
	ByModel           []models.UsageSummary `json:"by_model"`
}

// CostService provides methods for accessing AI usage cost data.
type CostService struct {
	store store.CostTrackingStore
}

// NewCostService creates a new CostService.
func NewCostService(store store.CostTrackingStore) *CostService {
	return &CostService{store: store}
}

// ListUsage retrieves a paginated list of AI usage logs.
func (s *CostService) ListUsage(ctx context.Context, limit, offset int) ([]*models.AIUsageLog, error) {
	logs, err := s.store.ListUsage(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage logs from store: %w", err)
	}
	return logs, nil
}

// GetSummary retrieves the total cost and token usage summary.
func (s *CostService) GetSummary(ctx context.Context) (*UsageTotals, error) {
	totalCost, in, out, err := s.store.GetUsageSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage summary from store: %w", err)
	}
	byModel, err := s.store.ListUsageByModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage by model from store: %w", err)
	}
	if byModel == nil {
		byModel = []models.UsageSummary{}
	}
	return &UsageTotals{TotalCost: totalCost, TotalInputTokens: in, TotalOutputTokens: out, ByModel: byModel}, nil
}
