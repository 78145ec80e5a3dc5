package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"roblox-discovery/internal/cache"
	"roblox-discovery/internal/config"
	"roblox-discovery/internal/constants"
	"roblox-discovery/internal/domain"
	"roblox-discovery/internal/genre"
)

const catalogCacheKey = "catalog:games"

// CatalogService serves the Rolimons game list as the candidate pool for every
// search. The pool is cached and concurrent misses share one upstream fetch.
type CatalogService struct {
	roblox RobloxAPI
	cache  cache.Cache
	ttl    time.Duration
	group  singleflight.Group
	logger zerolog.Logger
}

func NewCatalogService(roblox RobloxAPI, c cache.Cache, cfg *config.Config, logger zerolog.Logger) *CatalogService {
	ttl := cfg.CatalogTTL
	if ttl <= 0 {
		ttl = constants.CatalogCacheTTL
	}
	return &CatalogService{roblox: roblox, cache: c, ttl: ttl, logger: logger}
}

// FetchAll returns every tracked game, most played first. The slice is shared
// between callers and must not be modified.
func (s *CatalogService) FetchAll(ctx context.Context) ([]domain.Game, error) {
	var pool []domain.Game
	err := s.cache.Get(ctx, catalogCacheKey, &pool)
	if err == nil {
		return pool, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn().Err(err).Msg("catalog cache read failed")
	}

	ch := s.group.DoChan(catalogCacheKey, func() (any, error) {
		// a shared fetch must outlive any single caller's cancellation
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ExternalAPITimeout)
		defer cancel()
		return s.refresh(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.Game), nil
	}
}

func (s *CatalogService) refresh(ctx context.Context) ([]domain.Game, error) {
	start := time.Now()
	resp, err := s.roblox.GetGameList(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch game list")
		return nil, fmt.Errorf("failed to fetch game list: %w", err)
	}

	pool := make([]domain.Game, 0, len(resp.Games))
	for placeID, entry := range resp.Games {
		pool = append(pool, domain.Game{
			ID:           placeID,
			Title:        entry.Name,
			LiveCount:    entry.PlayerCount,
			Genres:       genre.Classify(entry.Name),
			ThumbnailURL: entry.ThumbnailURL,
		})
	}
	slices.SortFunc(pool, func(a, b domain.Game) int {
		if c := cmp.Compare(b.LiveCount, a.LiveCount); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if err := s.cache.Set(ctx, catalogCacheKey, pool, s.ttl); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache game list")
	}

	s.logger.Info().
		Int("games", len(pool)).
		Dur("took", time.Since(start)).
		Msg("catalog refreshed")
	return pool, nil
}

// GetByID finds a game in the pool by place id.
func (s *CatalogService) GetByID(ctx context.Context, placeID string) (domain.Game, error) {
	pool, err := s.FetchAll(ctx)
	if err != nil {
		return domain.Game{}, err
	}
	for _, g := range pool {
		if g.ID == placeID {
			return g, nil
		}
	}
	return domain.Game{}, fmt.Errorf("%w: %s", domain.ErrGameNotFound, placeID)
}
