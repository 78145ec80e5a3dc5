package repository

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"roblox-discovery/internal/constants"
	"roblox-discovery/internal/db"
)

// UniverseRepository remembers place id to universe id translations. They never
// change on Roblox's side, so entries do not expire.
type UniverseRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewUniverseRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *UniverseRepository {
	return &UniverseRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Get returns the known universe ids for placeIDs. Unknown places are absent.
func (r *UniverseRepository) Get(ctx context.Context, placeIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(placeIDs))
	for chunk := range slices.Chunk(placeIDs, constants.DBBatchSize) {
		rows, err := r.queries.ListUniverseIDs(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to list universe ids: %w", err)
		}
		for _, row := range rows {
			out[row.PlaceID] = row.UniverseID
		}
	}

	r.logger.Debug().
		Int("requested", len(placeIDs)).
		Int("found", len(out)).
		Msg("universe ids loaded")
	return out, nil
}

// UpsertBatch stores every mapping in one transaction.
func (r *UniverseRepository) UpsertBatch(ctx context.Context, ids map[string]int64) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	now := time.Now().UTC()

	for _, placeID := range slices.Sorted(maps.Keys(ids)) {
		err := qtx.UpsertUniverseID(ctx, db.UpsertUniverseIDParams{
			PlaceID:    placeID,
			UniverseID: ids[placeID],
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert universe id for place %s: %w", placeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug().Int("count", len(ids)).Msg("universe ids stored")
	return nil
}
