package service

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"roblox-discovery/internal/cache"
	"roblox-discovery/internal/config"
	"roblox-discovery/internal/constants"
	"roblox-discovery/internal/domain"
)

// RatingService turns place ids into vote based ratings. Lookups that fail are
// left out of the result rather than reported as zero, so callers can tell
// "no data" apart from a real rating.
type RatingService struct {
	roblox    RobloxAPI
	universes UniverseStore
	cache     cache.Cache
	ttl       time.Duration
	logger    zerolog.Logger
}

func NewRatingService(roblox RobloxAPI, universes UniverseStore, c cache.Cache, cfg *config.Config, logger zerolog.Logger) *RatingService {
	ttl := cfg.VotesTTL
	if ttl <= 0 {
		ttl = constants.VotesCacheTTL
	}
	return &RatingService{
		roblox:    roblox,
		universes: universes,
		cache:     c,
		ttl:       ttl,
		logger:    logger,
	}
}

func votesKey(universeID int64) string {
	return "votes:" + strconv.FormatInt(universeID, 10)
}

// FetchRatings returns rating info keyed by place id. The error is non-nil only
// when ctx ends first.
func (s *RatingService) FetchRatings(ctx context.Context, placeIDs []string) (map[string]domain.RatingInfo, error) {
	placeIDs = dedupe(placeIDs)
	out := make(map[string]domain.RatingInfo, len(placeIDs))
	if len(placeIDs) == 0 {
		return out, nil
	}

	universes := s.UniverseIDs(ctx, placeIDs)
	universeIDs := make([]int64, 0, len(universes))
	for _, id := range universes {
		universeIDs = append(universeIDs, id)
	}
	votes := s.Votes(ctx, universeIDs)

	for placeID, universeID := range universes {
		if v, ok := votes[universeID]; ok {
			out[placeID] = v.Info()
		}
	}

	s.logger.Debug().
		Int("requested", len(placeIDs)).
		Int("universes", len(universes)).
		Int("rated", len(out)).
		Msg("ratings fetched")

	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// UniverseIDs resolves place ids, first from the store and then from the API
// for the rest. Places that cannot be resolved are absent from the result.
func (s *RatingService) UniverseIDs(ctx context.Context, placeIDs []string) map[string]int64 {
	known, err := s.universes.Get(ctx, placeIDs)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read stored universe ids")
		known = make(map[string]int64)
	}

	var missing []string
	for _, id := range placeIDs {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return known
	}

	var mu sync.Mutex
	resolved := make(map[string]int64, len(missing))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.UniverseLookupWorkers)
	for _, placeID := range missing {
		g.Go(func() error {
			apiCtx, cancel := context.WithTimeout(gctx, constants.ExternalAPITimeout)
			defer cancel()

			universeID, err := s.roblox.GetUniverseID(apiCtx, placeID)
			if err != nil {
				s.logger.Debug().Err(err).Str("place_id", placeID).Msg("universe lookup failed")
				return nil
			}
			if universeID == 0 {
				return nil
			}
			mu.Lock()
			resolved[placeID] = universeID
			mu.Unlock()
			return nil
		})
	}
	// Workers log and drop their own failures, so Wait never returns an error.
	_ = g.Wait()

	if len(resolved) > 0 {
		// store writes should land even if the request that triggered them is gone
		dbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DatabaseTimeout)
		if err := s.universes.UpsertBatch(dbCtx, resolved); err != nil {
			s.logger.Warn().Err(err).Int("count", len(resolved)).Msg("failed to store universe ids")
		}
		cancel()
	}

	maps.Copy(known, resolved)
	return known
}

// Votes returns up/down votes keyed by universe id. Cached entries are served
// as is; the rest are fetched in concurrent batches. A failed batch only loses
// its own entries.
func (s *RatingService) Votes(ctx context.Context, universeIDs []int64) map[int64]domain.Votes {
	out := make(map[int64]domain.Votes, len(universeIDs))
	var uncached []int64
	for _, id := range universeIDs {
		var v domain.Votes
		err := s.cache.Get(ctx, votesKey(id), &v)
		switch {
		case err == nil:
			out[id] = v
		case errors.Is(err, cache.ErrCacheMiss):
			uncached = append(uncached, id)
		default:
			s.logger.Warn().Err(err).Int64("universe_id", id).Msg("votes cache read failed")
			uncached = append(uncached, id)
		}
	}
	if len(uncached) == 0 {
		return out
	}
	slices.Sort(uncached)
	uncached = slices.Compact(uncached)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.UniverseLookupWorkers)
	for batch := range slices.Chunk(uncached, constants.VotesBatchSize) {
		g.Go(func() error {
			apiCtx, cancel := context.WithTimeout(gctx, constants.ExternalAPITimeout)
			defer cancel()

			resp, err := s.roblox.GetVotes(apiCtx, batch)
			if err != nil {
				s.logger.Warn().Err(err).Int("batch", len(batch)).Msg("votes batch failed")
				return nil
			}

			for _, entry := range resp.Data {
				v := domain.Votes{UpVotes: entry.UpVotes, DownVotes: entry.DownVotes}
				mu.Lock()
				out[entry.ID] = v
				mu.Unlock()
				if err := s.cache.Set(gctx, votesKey(entry.ID), v, s.ttl); err != nil {
					s.logger.Warn().Err(err).Int64("universe_id", entry.ID).Msg("failed to cache votes")
				}
			}
			return nil
		})
	}
	// Workers log and drop their own failures, so Wait never returns an error.
	_ = g.Wait()

	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
