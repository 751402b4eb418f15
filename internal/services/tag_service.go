package services

import (
	"context"
	"fmt"

	"clipnote/internal/models"
	"clipnote/internal/store"
)

type TagService struct {
	store store.TagStore
}

func NewTagService(ts store.TagStore) *TagService {
	return &TagService{store: ts}
}

// ListTags returns every tag the user has on videos and notes with its count,
// most used first.
func (ts *TagService) ListTags(ctx context.Context, userID int64) ([]models.TagCount, error) {
	tags, err := ts.store.ListTagCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for user %d from store: %w", userID, err)
	}
	// Return empty slice, not nil, if no tags found
	if tags == nil {
		return []models.TagCount{}, nil
	}
	return tags, nil
}
