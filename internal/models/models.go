package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ContentType distinguishes the two kinds of searchable content.
type ContentType string

const (
	ContentTypeVideo ContentType = "video"
	ContentTypeNote  ContentType = "note"
)

// Platform is the social network a captured URL belongs to.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformX         Platform = "x"
	PlatformFacebook  Platform = "facebook"
	PlatformUnknown   Platform = "unknown"
)

// DisplayName is the human label used in placeholder titles and messages.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformYouTube:
		return "YouTube"
	case PlatformInstagram:
		return "Instagram"
	case PlatformX:
		return "X"
	case PlatformFacebook:
		return "Facebook"
	default:
		return "Content"
	}
}

// Processing states of a captured video.
const (
	VideoStatusPending   = "pending"
	VideoStatusCompleted = "completed"
	VideoStatusFailed    = "failed"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Video is a captured social-media URL with its transcript, summary and tags.
type Video struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	URL        string    `db:"url" json:"url"`
	ContentID  string    `db:"content_id" json:"content_id"`
	Platform   Platform  `db:"platform" json:"platform"`
	Title      string    `db:"title" json:"title"`
	Transcript string    `db:"transcript" json:"transcript"`
	Summary    string    `db:"summary" json:"summary"`
	Tags       []string  `db:"tags" json:"tags"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type Note struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	Title         string    `db:"title" json:"title"`
	Content       string    `db:"content" json:"content"`
	Tags          []string  `db:"tags" json:"tags"`
	IsAIGenerated bool      `db:"is_ai_generated" json:"is_ai_generated"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ContentItem is the uniform view of a video or note used by relevance search.
// For notes Summary holds the note body and Transcript is empty.
type ContentItem struct {
	ID         int64       `json:"id"`
	Type       ContentType `json:"type"`
	Title      string      `json:"title"`
	Summary    string      `json:"summary"`
	Transcript string      `json:"transcript"`
	Tags       []string    `json:"tags"`
	URL        string      `json:"url,omitempty"`
	Platform   Platform    `json:"platform,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// VideoItem projects a video into a ContentItem.
func VideoItem(v Video) ContentItem {
	return ContentItem{
		ID:         v.ID,
		Type:       ContentTypeVideo,
		Title:      v.Title,
		Summary:    v.Summary,
		Transcript: v.Transcript,
		Tags:       v.Tags,
		URL:        v.URL,
		Platform:   v.Platform,
		CreatedAt:  v.CreatedAt,
	}
}

// NoteItem projects a note into a ContentItem.
func NoteItem(n Note) ContentItem {
	return ContentItem{
		ID:        n.ID,
		Type:      ContentTypeNote,
		Title:     n.Title,
		Summary:   n.Content,
		Tags:      n.Tags,
		CreatedAt: n.CreatedAt,
	}
}

// MatchedItem is the lightweight projection of a search hit kept in chat history.
type MatchedItem struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	RelevanceScore float64     `json:"relevance_score"`
	Type           ContentType `json:"type"`
}

// ChatMessage is one exchange of the global chat.
type ChatMessage struct {
	ID           int64         `db:"id" json:"id"`
	UserID       int64         `db:"user_id" json:"user_id"`
	Message      string        `db:"message" json:"message"`
	Response     string        `db:"response" json:"response"`
	MatchedItems []MatchedItem `db:"matched_items" json:"matched_items"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}

// TagCount is the number of videos and notes carrying a tag.
type TagCount struct {
	Name  string `db:"name" json:"name"`
	Count int    `db:"count" json:"count"`
}

// AIUsageLog represents a record of AI API usage for cost tracking.
type AIUsageLog struct {
	ID               int64      `db:"id" json:"id"`
	UserID           *int64     `db:"user_id" json:"user_id,omitempty"`
	Timestamp        time.Time  `db:"timestamp" json:"timestamp"`
	ProviderName     string     `db:"provider_name" json:"provider_name"`
	ServiceType      string     `db:"service_type" json:"service_type"` // e.g., "summary", "chat", "note"
	ModelName        string     `db:"model_name" json:"model_name"`
	InputTokens      int        `db:"input_tokens" json:"input_tokens"`
	OutputTokens     int        `db:"output_tokens" json:"output_tokens"`
	Cost             float64    `db:"cost" json:"cost"`
	RelatedVideoID   *int64     `db:"related_video_id" json:"related_video_id,omitempty"`
	RelatedJobID     *uuid.UUID `db:"related_job_id" json:"related_job_id,omitempty"`
}

// UsageSummary aggregates AIUsageLog rows per provider and model.
type UsageSummary struct {
	ProviderName string  `db:"provider_name" json:"provider_name"`
	ModelName    string  `db:"model_name" json:"model_name"`
	Calls        int     `db:"calls" json:"calls"`
	InputTokens  int     `db:"input_tokens" json:"input_tokens"`
	OutputTokens int     `db:"output_tokens" json:"output_tokens"`
	Cost         float64 `db:"cost" json:"cost"`
}

// BackgroundJob mirrors the background_jobs table schema.
type BackgroundJob struct {
	ID                int64           `db:"id" json:"id"`
	JobID             uuid.UUID       `db:"job_id" json:"job_id"` // Asynq Task ID
	TaskType          string          `db:"task_type" json:"task_type"`
	Payload           json.RawMessage `db:"payload" json:"payload"`
	Queue             string          `db:"queue" json:"queue"`
	Status            string          `db:"status" json:"status"`
	RelatedEntityType *string         `db:"related_entity_type" json:"related_entity_type,omitempty"`
	RelatedEntityID   *int64          `db:"related_entity_id" json:"related_entity_id,omitempty"`
	LastError         *string         `db:"last_error" json:"last_error,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}
