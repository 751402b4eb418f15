package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"clipnote/internal/models"
	"clipnote/internal/tasks"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingJobStore struct {
	mu       sync.Mutex
	records  []JobRecordParams
	failWith error
}

func (r *recordingJobStore) RecordJobEnqueue(_ context.Context, params JobRecordParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, params)
	return r.failWith
}

func (r *recordingJobStore) UpdateJobStatus(context.Context, uuid.UUID, string, string) error {
	return nil
}

func (r *recordingJobStore) ListJobs(context.Context, int, int) ([]*models.BackgroundJob, error) {
	return nil, nil
}

func newTestJobClient(t *testing.T, js JobStore) (*AsynqJobClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	jc, err := NewAsynqJobClient(asynq.RedisClientOpt{Addr: mr.Addr()}, js)
	require.NoError(t, err)
	t.Cleanup(func() { _ = jc.Close() })
	return jc, mr
}

func TestNewAsynqJobClient_Validation(t *testing.T) {
	_, err := NewAsynqJobClient(asynq.RedisClientOpt{Addr: "localhost:6379"}, nil)
	assert.Error(t, err)
	_, err = NewAsynqJobClient(asynq.RedisClientOpt{}, &recordingJobStore{})
	assert.Error(t, err)
}

func TestEnqueueProcessContent_RecordsJob(t *testing.T) {
	js := &recordingJobStore{}
	jc, mr := newTestJobClient(t, js)

	require.NoError(t, jc.EnqueueProcessContent(context.Background(), 7, 42))

	require.Len(t, js.records, 1)
	rec := js.records[0]
	assert.Equal(t, tasks.TypeProcessContent, rec.TaskType)
	assert.Equal(t, tasks.QueueIngest, rec.Queue)
	assert.Equal(t, models.JobStatusEnqueued, rec.Status)
	assert.Equal(t, models.EntityTypeVideo, rec.RelatedEntityType)
	assert.Equal(t, int64(42), rec.RelatedEntityID)
	assert.NotEqual(t, uuid.Nil, rec.JobID)

	var payload tasks.VideoPayload
	require.NoError(t, json.Unmarshal(rec.Payload, &payload))
	assert.Equal(t, tasks.VideoPayload{UserID: 7, VideoID: 42}, payload)

	assert.True(t, mr.Exists("asynq:{ingest}:pending"))
}

func TestEnqueueRegenerateAllTags_UsesTagsQueue(t *testing.T) {
	js := &recordingJobStore{}
	jc, _ := newTestJobClient(t, js)

	require.NoError(t, jc.EnqueueRegenerateAllTags(context.Background(), 3))
	require.Len(t, js.records, 1)
	assert.Equal(t, tasks.TypeRegenerateAllTags, js.records[0].TaskType)
	assert.Equal(t, tasks.QueueTags, js.records[0].Queue)
	assert.Equal(t, models.EntityTypeUser, js.records[0].RelatedEntityType)
}

func TestEnqueue_RecordFailureDoesNotFailEnqueue(t *testing.T) {
	js := &recordingJobStore{failWith: errors.New("db down")}
	jc, _ := newTestJobClient(t, js)

	assert.NoError(t, jc.EnqueueRegenerateTags(context.Background(), 1, 2))
	assert.Len(t, js.records, 1)
}

func TestEnqueue_RedisDown(t *testing.T) {
	js := &recordingJobStore{}
	jc, mr := newTestJobClient(t, js)
	mr.Close()

	err := jc.EnqueueProcessContent(context.Background(), 1, 2)
	assert.Error(t, err)
	assert.Empty(t, js.records)
}
