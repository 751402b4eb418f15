package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Defines constants for task types used in Asynq.

const (
	// TypeProcessContent runs transcript extraction, summary and tagging for a pending video.
	TypeProcessContent = "content:process"
	// TypeRegenerateTags recomputes the tags of one video.
	TypeRegenerateTags = "tags:regenerate"
	// TypeRegenerateAllTags recomputes the tags of every video of a user.
	TypeRegenerateAllTags = "tags:regenerate_all"
)

// Queue names.
const (
	QueueIngest = "ingest"
	QueueTags   = "tags"
)

type VideoPayload struct {
	UserID  int64 `json:"user_id"`
	VideoID int64 `json:"video_id"`
}

type UserPayload struct {
	UserID int64 `json:"user_id"`
}

func NewProcessContentTask(userID, videoID int64) (*asynq.Task, error) {
	return newTask(TypeProcessContent, VideoPayload{UserID: userID, VideoID: videoID})
}

func NewRegenerateTagsTask(userID, videoID int64) (*asynq.Task, error) {
	return newTask(TypeRegenerateTags, VideoPayload{UserID: userID, VideoID: videoID})
}

func NewRegenerateAllTagsTask(userID int64) (*asynq.Task, error) {
	return newTask(TypeRegenerateAllTags, UserPayload{UserID: userID})
}

func newTask(taskType string, payload any) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, b), nil
}

// DecodeVideoPayload parses the payload of a per-video task.
func DecodeVideoPayload(t *asynq.Task) (VideoPayload, error) {
	var p VideoPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("unmarshal %s payload: %w", t.Type(), err)
	}
	if p.VideoID == 0 || p.UserID == 0 {
		return p, fmt.Errorf("%s payload missing video_id or user_id", t.Type())
	}
	return p, nil
}

// DecodeUserPayload parses the payload of a per-user task.
func DecodeUserPayload(t *asynq.Task) (UserPayload, error) {
	var p UserPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("unmarshal %s payload: %w", t.Type(), err)
	}
	if p.UserID == 0 {
		return p, fmt.Errorf("%s payload missing user_id", t.Type())
	}
	return p, nil
}
