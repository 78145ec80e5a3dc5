package service

import (
	"context"
	"time"

	"roblox-discovery/internal/api"
	"roblox-discovery/internal/domain"
)

// RobloxAPI is the part of api.RobloxClient the services call.
type RobloxAPI interface {
	GetGameList(ctx context.Context) (*api.GameListResponse, error)
	GetUniverseID(ctx context.Context, placeID string) (int64, error)
	GetVotes(ctx context.Context, universeIDs []int64) (*api.VotesResponse, error)
	GetGames(ctx context.Context, universeIDs []int64) (*api.GamesResponse, error)
}

type UniverseStore interface {
	Get(ctx context.Context, placeIDs []string) (map[string]int64, error)
	UpsertBatch(ctx context.Context, ids map[string]int64) error
}

type SearchLogStore interface {
	Insert(ctx context.Context, entry *domain.SearchLog) error
	Popular(ctx context.Context, since time.Time, limit int) ([]domain.PopularQuery, error)
	Recent(ctx context.Context, limit int) ([]domain.SearchLog, error)
}
