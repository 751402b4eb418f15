// Package clix holds flag helpers shared by the cobra commands.
package clix

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	defaultLimit = 20
	maxLimit     = 500
)

type PaginationParams struct {
	Limit  int
	Offset int
}

// AddPaginationFlags registers --limit and --offset.
func AddPaginationFlags(flags *pflag.FlagSet) {
	flags.Int("limit", defaultLimit, "Maximum number of rows to show")
	flags.Int("offset", 0, "Number of rows to skip")
}

func ParsePagination(flags *pflag.FlagSet) (PaginationParams, error) {
	limit, err := flags.GetInt("limit")
	if err != nil {
		return PaginationParams{}, err
	}
	offset, err := flags.GetInt("offset")
	if err != nil {
		return PaginationParams{}, err
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		return PaginationParams{}, fmt.Errorf("offset must not be negative, got %d", offset)
	}
	return PaginationParams{Limit: min(limit, maxLimit), Offset: offset}, nil
}

// ParseTags splits the comma separated --tags flag.
func ParseTags(flags *pflag.FlagSet) ([]string, error) {
	tagsStr, err := flags.GetString("tags")
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, t := range strings.Split(tagsStr, ",") {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags, nil
}

// ResolveUserID returns --user-id when it was set, else fallback.
func ResolveUserID(flags *pflag.FlagSet, fallback int64) (int64, error) {
	id := fallback
	if f := flags.Lookup("user-id"); f != nil && f.Changed {
		v, err := flags.GetInt64("user-id")
		if err != nil {
			return 0, err
		}
		id = v
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid user id %d: pass --user-id or set cli.user_id", id)
	}
	return id, nil
}
