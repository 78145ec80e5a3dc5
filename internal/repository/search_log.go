package repository

import (
	"context"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"roblox-discovery/internal/db"
	"roblox-discovery/internal/domain"
)

type SearchLogRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewSearchLogRepository(queries *db.Queries, logger zerolog.Logger) *SearchLogRepository {
	return &SearchLogRepository{
		queries: queries,
		logger:  logger,
	}
}

// Insert stores entry, filling in ID and CreatedAt when they are empty.
func (r *SearchLogRepository) Insert(ctx context.Context, entry *domain.SearchLog) error {
	if entry.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate search log id: %w", err)
		}
		entry.ID = id
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Filters == "" {
		entry.Filters = "{}"
	}

	err := r.queries.InsertSearchLog(ctx, db.InsertSearchLogParams{
		ID:          entry.ID,
		Query:       entry.Query,
		Filters:     entry.Filters,
		ResultCount: int64(entry.ResultCount),
		CreatedAt:   entry.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert search log: %w", err)
	}
	return nil
}

func (r *SearchLogRepository) Recent(ctx context.Context, limit int) ([]domain.SearchLog, error) {
	rows, err := r.queries.ListRecentSearchLogs(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list search logs: %w", err)
	}

	logs := make([]domain.SearchLog, len(rows))
	for i, row := range rows {
		logs[i] = domain.SearchLog{
			ID:          row.ID,
			Query:       row.Query,
			Filters:     row.Filters,
			ResultCount: int(row.ResultCount),
			CreatedAt:   row.CreatedAt,
		}
	}
	return logs, nil
}

// Popular counts case-insensitive queries logged since the given time.
func (r *SearchLogRepository) Popular(ctx context.Context, since time.Time, limit int) ([]domain.PopularQuery, error) {
	rows, err := r.queries.ListPopularQueries(ctx, since.UTC(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list popular queries: %w", err)
	}

	out := make([]domain.PopularQuery, len(rows))
	for i, row := range rows {
		out[i] = domain.PopularQuery{Query: row.Query, Count: int(row.Count)}
	}
	return out, nil
}
