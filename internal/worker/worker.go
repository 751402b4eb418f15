// Package worker runs the asynq task handlers for background processing.
package worker

import (
	"context"
	"fmt"

	"clipnote/internal/config"
	"clipnote/internal/costtracker"
	"clipnote/internal/metrics"
	"clipnote/internal/models"
	"clipnote/internal/services"
	"clipnote/internal/store"
	"clipnote/internal/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// ContentProcessor is the slice of services.ContentService the handlers use.
type ContentProcessor interface {
	ProcessVideo(ctx context.Context, userID, videoID int64) (*models.Video, error)
	RegenerateTags(ctx context.Context, userID, id int64) ([]string, error)
	RegenerateAllTags(ctx context.Context, userID int64, progress func(done, total int)) (*services.RegenerateAllResult, error)
}

var _ ContentProcessor = (*services.ContentService)(nil)

// Deps holds the collaborators of the task handlers. JobStore may be nil, in
// which case job status is not tracked.
type Deps struct {
	Content  ContentProcessor
	JobStore store.JobStore
}

// Handlers implements one asynq handler per task type.
type Handlers struct {
	deps Deps
	// taskID reads the asynq task ID from the handler context.
	taskID func(ctx context.Context) (string, bool)
}

func NewHandlers(deps Deps) *Handlers {
	return &Handlers{deps: deps, taskID: asynq.GetTaskID}
}

// RegisterHandlers wires every task type onto mux.
func RegisterHandlers(mux *asynq.ServeMux, deps Deps) *Handlers {
	h := NewHandlers(deps)
	mux.HandleFunc(tasks.TypeProcessContent, h.HandleProcessContent)
	mux.HandleFunc(tasks.TypeRegenerateTags, h.HandleRegenerateTags)
	mux.HandleFunc(tasks.TypeRegenerateAllTags, h.HandleRegenerateAllTags)
	log.Infof("Registered task handlers: %s, %s, %s", tasks.TypeProcessContent, tasks.TypeRegenerateTags, tasks.TypeRegenerateAllTags)
	return h
}

// HandleProcessContent runs extraction, summary and tagging for a pending video.
func (h *Handlers) HandleProcessContent(ctx context.Context, t *asynq.Task) error {
	p, err := tasks.DecodeVideoPayload(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return h.track(ctx, t, func(ctx context.Context) error {
		video, err := h.deps.Content.ProcessVideo(ctx, p.UserID, p.VideoID)
		if err != nil {
			return err
		}
		log.Infof("Processed video %d for user %d: status=%s", video.ID, p.UserID, video.Status)
		return nil
	})
}

// HandleRegenerateTags recomputes the tags of one video.
func (h *Handlers) HandleRegenerateTags(ctx context.Context, t *asynq.Task) error {
	p, err := tasks.DecodeVideoPayload(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return h.track(ctx, t, func(ctx context.Context) error {
		tags, err := h.deps.Content.RegenerateTags(ctx, p.UserID, p.VideoID)
		if err != nil {
			return err
		}
		log.Debugf("Regenerated %d tags for video %d", len(tags), p.VideoID)
		return nil
	})
}

// HandleRegenerateAllTags recomputes the tags of every video of a user.
// Individual failures are counted, not retried.
func (h *Handlers) HandleRegenerateAllTags(ctx context.Context, t *asynq.Task) error {
	p, err := tasks.DecodeUserPayload(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return h.track(ctx, t, func(ctx context.Context) error {
		res, err := h.deps.Content.RegenerateAllTags(ctx, p.UserID, nil)
		if err != nil {
			return err
		}
		log.Infof("Regenerated tags for user %d: processed=%d updated=%d failed=%d", p.UserID, res.Processed, res.Updated, res.Failed)
		return nil
	})
}

// track marks the job running, runs fn and records the outcome.
func (h *Handlers) track(ctx context.Context, t *asynq.Task, fn func(context.Context) error) error {
	jobID, ok := h.jobID(ctx)
	if ok {
		ctx = costtracker.WithJob(ctx, jobID)
		h.updateStatus(ctx, jobID, models.JobStatusRunning, "")
	}

	err := fn(ctx)
	if err != nil {
		log.Errorf("Task %s failed: %v", t.Type(), err)
		metrics.RecordJob(t.Type(), models.JobStatusFailed)
		if ok {
			h.updateStatus(ctx, jobID, models.JobStatusFailed, err.Error())
		}
		return err
	}

	metrics.RecordJob(t.Type(), models.JobStatusCompleted)
	if ok {
		h.updateStatus(ctx, jobID, models.JobStatusCompleted, "")
	}
	return nil
}

func (h *Handlers) jobID(ctx context.Context) (uuid.UUID, bool) {
	if h.deps.JobStore == nil {
		return uuid.Nil, false
	}
	raw, ok := h.taskID(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Warnf("Task ID %q is not a UUID; job status will not be tracked", raw)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handlers) updateStatus(ctx context.Context, id uuid.UUID, status, lastError string) {
	if err := h.deps.JobStore.UpdateJobStatus(ctx, id, status, lastError); err != nil {
		log.Errorf("Failed to update job %s to %s: %v", id, status, err)
	}
}

// NewServer builds the asynq server from the worker and redis settings.
func NewServer(cfg *config.Config) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues:      cfg.Worker.Queues,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				id, _ := asynq.GetTaskID(ctx)
				log.WithFields(log.Fields{"task_id": id, "type": task.Type()}).Errorf("Asynq task failed: %v", err)
			}),
			Logger: log.StandardLogger(),
		},
	)
}
