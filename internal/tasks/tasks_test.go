package tasks

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoTasksRoundTrip(t *testing.T) {
	for _, build := range []func(int64, int64) (*asynq.Task, error){NewProcessContentTask, NewRegenerateTagsTask} {
		task, err := build(5, 9)
		require.NoError(t, err)
		p, err := DecodeVideoPayload(task)
		require.NoError(t, err)
		assert.Equal(t, VideoPayload{UserID: 5, VideoID: 9}, p)
	}
}

func TestDecodePayloadErrors(t *testing.T) {
	tests := []struct {
		name    string
		task    *asynq.Task
		decoder func(*asynq.Task) error
	}{
		{"bad json", asynq.NewTask(TypeProcessContent, []byte("{")), func(t *asynq.Task) error { _, err := DecodeVideoPayload(t); return err }},
		{"missing video", asynq.NewTask(TypeRegenerateTags, []byte(`{"user_id":1}`)), func(t *asynq.Task) error { _, err := DecodeVideoPayload(t); return err }},
		{"missing user", asynq.NewTask(TypeRegenerateAllTags, []byte(`{}`)), func(t *asynq.Task) error { _, err := DecodeUserPayload(t); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.decoder(tt.task))
		})
	}
}

func TestRegenerateAllTagsTask(t *testing.T) {
	task, err := NewRegenerateAllTagsTask(4)
	require.NoError(t, err)
	assert.Equal(t, TypeRegenerateAllTags, task.Type())
	p, err := DecodeUserPayload(task)
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.UserID)
}
