package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roblox-discovery/internal/db"
	"roblox-discovery/internal/domain"
)

func TestSearchLogRepository_InsertFillsDefaults(t *testing.T) {
	t.Parallel()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectExec(`INSERT INTO search_logs`).
		WithArgs(sqlmock.AnyArg(), "blox fruits", "{}", int64(3), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewSearchLogRepository(db.New(sqlDB), zerolog.Nop())
	entry := &domain.SearchLog{Query: "blox fruits", ResultCount: 3}
	require.NoError(t, repo.Insert(context.Background(), entry))

	assert.Len(t, entry.ID, 21)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchLogRepository_InsertError(t *testing.T) {
	t.Parallel()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectExec(`INSERT INTO search_logs`).WillReturnError(errors.New("disk full"))

	repo := NewSearchLogRepository(db.New(sqlDB), zerolog.Nop())
	err = repo.Insert(context.Background(), &domain.SearchLog{ID: "fixed", Query: "doors"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchLogRepository_RecentAndPopular(t *testing.T) {
	t.Parallel()

	_, queries := openTestDB(t)
	repo := NewSearchLogRepository(queries, zerolog.Nop())
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	entries := []domain.SearchLog{
		{Query: "Doors", Filters: `{"genres":["horror"]}`, ResultCount: 4, CreatedAt: base},
		{Query: "doors", ResultCount: 4, CreatedAt: base.Add(time.Minute)},
		{Query: "arsenal", ResultCount: 1, CreatedAt: base.Add(2 * time.Minute)},
		{Query: "old", ResultCount: 0, CreatedAt: base.Add(-48 * time.Hour)},
	}
	for i := range entries {
		require.NoError(t, repo.Insert(ctx, &entries[i]))
	}

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "arsenal", recent[0].Query)
	assert.Equal(t, "doors", recent[1].Query)
	assert.True(t, recent[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	popular, err := repo.Popular(ctx, base.Add(-time.Hour), 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.PopularQuery{
		{Query: "doors", Count: 2},
		{Query: "arsenal", Count: 1},
	}, popular)
}
