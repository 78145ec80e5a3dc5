package db

import (
	"context"
	"strings"
	"time"
)

type PlaceUniverse struct {
	PlaceID    string
	UniverseID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ListUniverseIDs returns the stored mappings for placeIDs. The caller keeps
// len(placeIDs) under sqlite's bound-variable limit.
func (q *Queries) ListUniverseIDs(ctx context.Context, placeIDs []string) ([]PlaceUniverse, error) {
	if len(placeIDs) == 0 {
		return nil, nil
	}
	query := `SELECT place_id, universe_id, created_at, updated_at FROM place_universe WHERE place_id IN (?` +
		strings.Repeat(",?", len(placeIDs)-1) + `)`
	args := make([]any, len(placeIDs))
	for i, id := range placeIDs {
		args[i] = id
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []PlaceUniverse
	for rows.Next() {
		var i PlaceUniverse
		if err := rows.Scan(&i.PlaceID, &i.UniverseID, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertUniverseID = `INSERT INTO place_universe (place_id, universe_id, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (place_id) DO UPDATE SET
    universe_id = excluded.universe_id,
    updated_at = excluded.updated_at`

type UpsertUniverseIDParams struct {
	PlaceID    string
	UniverseID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) UpsertUniverseID(ctx context.Context, arg UpsertUniverseIDParams) error {
	_, err := q.db.ExecContext(ctx, upsertUniverseID, arg.PlaceID, arg.UniverseID, arg.CreatedAt, arg.UpdatedAt)
	return err
}
