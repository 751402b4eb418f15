package store

import (
	"context"
	"errors"
	"fmt"

	"clipnote/internal/models"
	"clipnote/internal/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// AsynqJobClient is a concrete JobClient.
// It enqueues tasks on Redis and records them to the JobStore.
var _ JobClient = (*AsynqJobClient)(nil)

type AsynqJobClient struct {
	client   *asynq.Client
	jobStore JobStore
}

// NewAsynqJobClient connects to Redis with the given options.
func NewAsynqJobClient(redisOpt asynq.RedisClientOpt, js JobStore) (*AsynqJobClient, error) {
	if js == nil {
		return nil, errors.New("JobStore cannot be nil for AsynqJobClient")
	}
	if redisOpt.Addr == "" {
		return nil, errors.New("redis address cannot be empty for AsynqJobClient")
	}
	return &AsynqJobClient{client: asynq.NewClient(redisOpt), jobStore: js}, nil
}

func (jc *AsynqJobClient) Close() error {
	return jc.client.Close()
}

// Enqueue enqueues a task and records the event to the JobStore.
// A failed recording is logged but does not fail the enqueue.
func (jc *AsynqJobClient) Enqueue(ctx context.Context, task *asynq.Task, relatedEntityType string, relatedEntityID int64, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if jc.client == nil {
		return nil, errors.New("AsynqJobClient internal client is not initialized")
	}
	info, err := jc.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		log.Errorf("Failed to enqueue task type '%s': %v", task.Type(), err)
		return nil, err
	}
	log.Debugf("Enqueued task type '%s' id=%s queue=%s", task.Type(), info.ID, info.Queue)

	jobUUID, err := uuid.Parse(info.ID)
	if err != nil {
		log.Errorf("Failed to parse Asynq Task ID '%s' to UUID: %v. Job record might be incomplete.", info.ID, err)
	}

	recordParams := JobRecordParams{
		JobID:             jobUUID,
		TaskType:          task.Type(),
		Payload:           task.Payload(),
		Queue:             info.Queue,
		Status:            models.JobStatusEnqueued,
		RelatedEntityType: relatedEntityType,
		RelatedEntityID:   relatedEntityID,
	}
	if err := jc.jobStore.RecordJobEnqueue(ctx, recordParams); err != nil {
		log.Errorf("Failed to record job enqueue event for Task ID %s: %v", info.ID, err)
	}

	return info, nil
}

func (jc *AsynqJobClient) EnqueueProcessContent(ctx context.Context, userID, videoID int64) error {
	task, err := tasks.NewProcessContentTask(userID, videoID)
	if err != nil {
		return err
	}
	if _, err := jc.Enqueue(ctx, task, models.EntityTypeVideo, videoID, asynq.Queue(tasks.QueueIngest), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue content processing for video %d: %w", videoID, err)
	}
	return nil
}

func (jc *AsynqJobClient) EnqueueRegenerateTags(ctx context.Context, userID, videoID int64) error {
	task, err := tasks.NewRegenerateTagsTask(userID, videoID)
	if err != nil {
		return err
	}
	if _, err := jc.Enqueue(ctx, task, models.EntityTypeVideo, videoID, asynq.Queue(tasks.QueueTags)); err != nil {
		return fmt.Errorf("enqueue tag regeneration for video %d: %w", videoID, err)
	}
	return nil
}

func (jc *AsynqJobClient) EnqueueRegenerateAllTags(ctx context.Context, userID int64) error {
	task, err := tasks.NewRegenerateAllTagsTask(userID)
	if err != nil {
		return err
	}
	if _, err := jc.Enqueue(ctx, task, models.EntityTypeUser, userID, asynq.Queue(tasks.QueueTags)); err != nil {
		return fmt.Errorf("enqueue tag regeneration for user %d: %w", userID, err)
	}
	return nil
}
