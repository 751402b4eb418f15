package primary

import (
	"context"
	"fmt"

	"clipnote/internal/models"
	"clipnote/internal/store"

	"github.com/jackc/pgx/v5"
)

// --- Tag Counts ---

var _ store.TagStore = (*StoreImpl)(nil)

// ListTagCounts counts how many videos and notes carry each tag, most used first.
func (s *StoreImpl) ListTagCounts(ctx context.Context, userID int64) ([]models.TagCount, error) {
	query := `
		SELECT tag, COUNT(*) AS count
		FROM (
			SELECT unnest(tags) AS tag FROM videos WHERE user_id = $1
			UNION ALL
			SELECT unnest(tags) AS tag FROM notes WHERE user_id = $1
		) t
		WHERE tag <> ''
		GROUP BY tag
		ORDER BY count DESC, tag ASC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows[models.TagCount](rows, func(row pgx.CollectableRow) (models.TagCount, error) {
		var tc models.TagCount
		if err := row.Scan(&tc.Name, &tc.Count); err != nil {
			return tc, fmt.Errorf("failed to scan tag count: %w", err)
		}
		return tc, nil
	})
}
