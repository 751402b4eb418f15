package models

/*
Job and Task status/type constants for use throughout the codebase.
Centralizing these avoids magic strings.
*/

// Job status constants
const (
	JobStatusEnqueued  = "enqueued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusRetrying  = "retrying"
)

// Service types recorded in AI usage logs.
const (
	ServiceTypeSummary      = "summary"
	ServiceTypeChat         = "chat"
	ServiceTypeNote         = "note"
	ServiceTypeCategorize   = "categorization"
	ServiceTypeAvailability = "availability"
)

// Related entity types for background jobs.
const (
	EntityTypeVideo = "video"
	EntityTypeUser  = "user"
)
