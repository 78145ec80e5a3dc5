package db

import (
	"context"
	"time"
)

type SearchLog struct {
	ID          string
	Query       string
	Filters     string
	ResultCount int64
	CreatedAt   time.Time
}

const insertSearchLog = `INSERT INTO search_logs (id, query, filters, result_count, created_at)
VALUES (?, ?, ?, ?, ?)`

type InsertSearchLogParams struct {
	ID          string
	Query       string
	Filters     string
	ResultCount int64
	CreatedAt   time.Time
}

func (q *Queries) InsertSearchLog(ctx context.Context, arg InsertSearchLogParams) error {
	_, err := q.db.ExecContext(ctx, insertSearchLog, arg.ID, arg.Query, arg.Filters, arg.ResultCount, arg.CreatedAt)
	return err
}

const listRecentSearchLogs = `SELECT id, query, filters, result_count, created_at FROM search_logs
ORDER BY created_at DESC
LIMIT ?`

func (q *Queries) ListRecentSearchLogs(ctx context.Context, limit int64) ([]SearchLog, error) {
	rows, err := q.db.QueryContext(ctx, listRecentSearchLogs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SearchLog
	for rows.Next() {
		var i SearchLog
		if err := rows.Scan(&i.ID, &i.Query, &i.Filters, &i.ResultCount, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listPopularQueries = `SELECT LOWER(query) AS q, COUNT(*) AS n FROM search_logs
WHERE created_at >= ?
GROUP BY q
ORDER BY n DESC, q ASC
LIMIT ?`

type PopularQuery struct {
	Query string
	Count int64
}

func (q *Queries) ListPopularQueries(ctx context.Context, since time.Time, limit int64) ([]PopularQuery, error) {
	rows, err := q.db.QueryContext(ctx, listPopularQueries, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []PopularQuery
	for rows.Next() {
		var i PopularQuery
		if err := rows.Scan(&i.Query, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
