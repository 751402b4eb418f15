package primary

import (
	"context"
	"fmt"

	"clipnote/internal/models"
	"clipnote/internal/store"
)

var _ store.ContentItemStore = (*StoreImpl)(nil)

// ListContentItems returns every video followed by every note of the user,
// each group newest first.
func (s *StoreImpl) ListContentItems(ctx context.Context, userID int64) ([]models.ContentItem, error) {
	videos, err := s.ListVideos(ctx, userID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load videos for content items: %w", err)
	}
	notes, err := s.ListNotes(ctx, userID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes for content items: %w", err)
	}

	items := make([]models.ContentItem, 0, len(videos)+len(notes))
	for _, v := range videos {
		items = append(items, models.VideoItem(*v))
	}
	for _, n := range notes {
		items = append(items, models.NoteItem(*n))
	}
	return items, nil
}
