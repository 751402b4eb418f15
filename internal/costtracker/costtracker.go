// Package costtracker prices LLM token usage and records it to the cost store.
package costtracker

import (
	"context"
	"time"

	"clipnote/internal/config"
	"clipnote/internal/models"
	"clipnote/internal/store"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Usage is one completed LLM call.
type Usage struct {
	Provider     string
	Model        string
	ServiceType  string // e.g., "summary", "chat", "note"
	InputTokens  int
	OutputTokens int
}

// CostTracker provides methods to record and report costs.
type CostTracker interface {
	Record(ctx context.Context, usage Usage) error
	TotalCost(ctx context.Context) (float64, error)
}

// Pricer resolves per-token prices; *config.Config satisfies it.
type Pricer interface {
	PriceFor(provider, model string) (config.PricingInfo, bool)
}

// New returns a tracker writing to costStore. A nil store yields a tracker
// that records nothing.
func New(costStore store.CostTrackingStore, pricer Pricer) CostTracker {
	if costStore == nil {
		return &noopCostTracker{}
	}
	return &storeTracker{store: costStore, pricer: pricer}
}

type storeTracker struct {
	store  store.CostTrackingStore
	pricer Pricer
}

// Record writes a usage log. Calls with no tokens are skipped. Unknown
// pricing still records tokens at zero cost.
func (t *storeTracker) Record(ctx context.Context, usage Usage) error {
	if usage.InputTokens == 0 && usage.OutputTokens == 0 {
		return nil
	}
	var cost float64
	if t.pricer != nil {
		if price, ok := t.pricer.PriceFor(usage.Provider, usage.Model); ok {
			cost = float64(usage.InputTokens)*price.InputPerToken + float64(usage.OutputTokens)*price.OutputPerToken
		} else {
			log.Debugf("Pricing info not found for %s/%s. Recording zero cost.", usage.Provider, usage.Model)
		}
	}

	entry := &models.AIUsageLog{
		Timestamp:    time.Now(),
		ProviderName: usage.Provider,
		ServiceType:  usage.ServiceType,
		ModelName:    usage.Model,
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		Cost:         cost,
	}
	if a, ok := attributionFrom(ctx); ok {
		entry.UserID = a.userID
		entry.RelatedVideoID = a.videoID
		entry.RelatedJobID = a.jobID
	}
	if err := t.store.RecordUsage(ctx, entry); err != nil {
		return err
	}
	log.Debugf("Recorded AI usage: Provider=%s, Service=%s, Model=%s, InputTokens=%d, OutputTokens=%d, Cost=%.8f",
		entry.ProviderName, entry.ServiceType, entry.ModelName, entry.InputTokens, entry.OutputTokens, entry.Cost)
	return nil
}

func (t *storeTracker) TotalCost(ctx context.Context) (float64, error) {
	total, _, _, err := t.store.GetUsageSummary(ctx)
	return total, err
}

type noopCostTracker struct{}

func (n *noopCostTracker) Record(ctx context.Context, usage Usage) error  { return nil }
func (n *noopCostTracker) TotalCost(ctx context.Context) (float64, error) { return 0, nil }

// --- Attribution ---

type attribution struct {
	userID  *int64
	videoID *int64
	jobID   *uuid.UUID
}

type attributionKey struct{}

func attributionFrom(ctx context.Context) (attribution, bool) {
	a, ok := ctx.Value(attributionKey{}).(attribution)
	return a, ok
}

// WithUser attributes usage recorded under ctx to a user.
func WithUser(ctx context.Context, userID int64) context.Context {
	a, _ := attributionFrom(ctx)
	a.userID = &userID
	return context.WithValue(ctx, attributionKey{}, a)
}

// WithVideo attributes usage recorded under ctx to a video.
func WithVideo(ctx context.Context, videoID int64) context.Context {
	a, _ := attributionFrom(ctx)
	a.videoID = &videoID
	return context.WithValue(ctx, attributionKey{}, a)
}

// WithJob attributes usage recorded under ctx to a background job.
func WithJob(ctx context.Context, jobID uuid.UUID) context.Context {
	a, _ := attributionFrom(ctx)
	a.jobID = &jobID
	return context.WithValue(ctx, attributionKey{}, a)
}
