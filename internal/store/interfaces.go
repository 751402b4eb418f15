package store

import (
	"context"

	"clipnote/internal/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// --- Provider Status (Defined here to break import cycle) ---

type ProviderStatus int

const (
	ProviderStatusUnknown  ProviderStatus = iota // Default zero value
	ProviderStatusActive                         // Provider is operational
	ProviderStatusInactive                       // Provider is temporarily unavailable (e.g., network, rate limit)
	ProviderStatusDisabled                       // Provider is not configured or explicitly disabled
)

func (s ProviderStatus) String() string {
	switch s {
	case ProviderStatusActive:
		return "active"
	case ProviderStatusInactive:
		return "inactive"
	case ProviderStatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// --- Job Client ---

type JobClient interface {
	Enqueue(ctx context.Context, task *asynq.Task, relatedEntityType string, relatedEntityID int64, opts ...asynq.Option) (*asynq.TaskInfo, error)
	EnqueueProcessContent(ctx context.Context, userID, videoID int64) error
	EnqueueRegenerateTags(ctx context.Context, userID, videoID int64) error
	EnqueueRegenerateAllTags(ctx context.Context, userID int64) error
	Close() error
}

// --- Video Store ---

// VideoStore persists captured videos. Every lookup is scoped to a user.
type VideoStore interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideo(ctx context.Context, userID, id int64) (*models.Video, error)
	// FindVideo matches an existing capture by URL or by platform content ID.
	FindVideo(ctx context.Context, userID int64, url, contentID string) (*models.Video, error)
	UpdateVideo(ctx context.Context, video *models.Video) error
	DeleteVideo(ctx context.Context, userID, id int64) error
	// ListVideos returns newest first. A limit <= 0 returns every video.
	ListVideos(ctx context.Context, userID int64, limit, offset int) ([]*models.Video, error)
	UpdateVideoTags(ctx context.Context, userID, id int64, tags []string) error
	UpdateVideoTitle(ctx context.Context, userID, id int64, title string) error
	ListVideosWithPlaceholderTitles(ctx context.Context, userID int64) ([]*models.Video, error)
}

// --- Note Store ---

type NoteStore interface {
	CreateNote(ctx context.Context, note *models.Note) error
	GetNote(ctx context.Context, userID, id int64) (*models.Note, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, userID, id int64) error
	ListNotes(ctx context.Context, userID int64, limit, offset int) ([]*models.Note, error)
}

// --- Content Items ---

// ContentItemStore exposes videos and notes as one searchable collection.
type ContentItemStore interface {
	ListContentItems(ctx context.Context, userID int64) ([]models.ContentItem, error)
}

// --- Tag Store ---

type TagStore interface {
	ListTagCounts(ctx context.Context, userID int64) ([]models.TagCount, error)
}

// --- Chat History Store ---

type ChatHistoryStore interface {
	RecordChatMessage(ctx context.Context, msg *models.ChatMessage) error
	ListChatMessages(ctx context.Context, userID int64, limit int) ([]*models.ChatMessage, error)
	ClearChatMessages(ctx context.Context, userID int64) (int64, error)
}

// --- User Store ---

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// --- Job Store ---

// JobRecordParams holds parameters for recording a job event.
type JobRecordParams struct {
	JobID             uuid.UUID
	TaskType          string
	Payload           []byte
	Queue             string
	Status            string
	RelatedEntityType string // Optional: e.g., "video"
	RelatedEntityID   int64  // Optional: e.g., video.ID
}

type JobStore interface {
	RecordJobEnqueue(ctx context.Context, params JobRecordParams) error
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string, lastError string) error
	ListJobs(ctx context.Context, limit, offset int) ([]*models.BackgroundJob, error)
}

// --- Cost Tracking Store ---

type CostTrackingStore interface {
	RecordUsage(ctx context.Context, log *models.AIUsageLog) error
	ListUsage(ctx context.Context, limit, offset int) ([]*models.AIUsageLog, error)
	GetUsageSummary(ctx context.Context) (totalCost float64, totalInputTokens, totalOutputTokens int64, err error)
	ListUsageByModel(ctx context.Context) ([]models.UsageSummary, error)
}

// Store is the full persistence surface. Both the Postgres and the embedded
// SQLite implementations satisfy it.
type Store interface {
	VideoStore
	NoteStore
	ContentItemStore
	TagStore
	ChatHistoryStore
	UserStore
	JobStore
	CostTrackingStore

	Ping(ctx context.Context) error
	Close() error
}
