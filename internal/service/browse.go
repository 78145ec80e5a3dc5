package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"roblox-discovery/internal/api"
	"roblox-discovery/internal/constants"
	"roblox-discovery/internal/domain"
	"roblox-discovery/internal/genre"
	"roblox-discovery/internal/search"
)

// BrowseService pages through the catalog without a text query and builds the
// detail view of a single game.
type BrowseService struct {
	catalog *CatalogService
	ratings *RatingService
	roblox  RobloxAPI
	logger  zerolog.Logger
}

func NewBrowseService(catalog *CatalogService, ratings *RatingService, roblox RobloxAPI, logger zerolog.Logger) *BrowseService {
	return &BrowseService{catalog: catalog, ratings: ratings, roblox: roblox, logger: logger}
}

// List returns one page of active games plus the number of games that matched
// before the rating filter.
func (s *BrowseService) List(ctx context.Context, req domain.ListRequest) ([]domain.Game, int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	req, err := req.WithDefaults()
	if err != nil {
		return nil, 0, err
	}

	pool, err := s.catalog.FetchAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load catalog: %w", err)
	}

	// games nobody is playing are usually unpublished or test places
	active := search.PreFilter(pool, req.GenreSet(), 1)
	slices.SortStableFunc(active, func(a, b domain.Game) int {
		return cmp.Compare(b.LiveCount, a.LiveCount)
	})
	total := len(active)

	ratingFilter := req.HasRatingFilter()
	start := min(req.Offset, total)
	end := min(start+search.RetentionCount(req.Limit, ratingFilter), total)

	page := make([]domain.ScoredGame, 0, end-start)
	ids := make([]string, 0, end-start)
	for _, g := range active[start:end] {
		page = append(page, domain.ScoredGame{Game: g})
		ids = append(ids, g.ID)
	}

	ratings, err := s.ratings.FetchRatings(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	page = search.Merge(page, ratings)

	if req.Sort == domain.SortRating {
		page = search.Sort(page, domain.SortRating)
	}
	if ratingFilter {
		lo, hi := req.RatingBounds()
		var applied bool
		page, applied = search.FilterByRating(page, lo, hi)
		if !applied {
			s.logger.Warn().Msg("no valid ratings available, skipping rating filter")
		}
	}

	page = page[:min(len(page), req.Limit)]
	games := make([]domain.Game, len(page))
	for i, g := range page {
		games[i] = g.Game
	}

	s.logger.Info().
		Strs("genres", req.Genres).
		Str("sort", string(req.Sort)).
		Int("offset", req.Offset).
		Int("returned", len(games)).
		Int("total", total).
		Msg("listed games")
	return games, total, nil
}

// GetGame combines the live catalog entry with Roblox's detail record and
// votes for one place id.
func (s *BrowseService) GetGame(ctx context.Context, placeID string) (*domain.GameDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Info().Str("place_id", placeID).Msg("getting game")

	live, err := s.catalog.GetByID(ctx, placeID)
	if err != nil && !errors.Is(err, domain.ErrGameNotFound) {
		s.logger.Warn().Err(err).Str("place_id", placeID).Msg("catalog unavailable for game detail")
	}
	inCatalog := err == nil

	universeID, ok := s.ratings.UniverseIDs(ctx, []string{placeID})[placeID]
	if !ok {
		return nil, fmt.Errorf("%w: no universe for place %s", domain.ErrGameNotFound, placeID)
	}

	var (
		details *api.GamesResponse
		votes   map[int64]domain.Votes
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		apiCtx, cancel := context.WithTimeout(gctx, constants.ExternalAPITimeout)
		defer cancel()
		resp, err := s.roblox.GetGames(apiCtx, []int64{universeID})
		if err != nil {
			return fmt.Errorf("failed to fetch game details: %w", err)
		}
		details = resp
		return nil
	})
	g.Go(func() error {
		votes = s.ratings.Votes(gctx, []int64{universeID})
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("place_id", placeID).Msg("failed to fetch game")
		return nil, err
	}
	if len(details.Data) == 0 {
		return nil, fmt.Errorf("%w: universe %d", domain.ErrGameNotFound, universeID)
	}
	d := details.Data[0]

	game := domain.Game{
		ID:        placeID,
		Title:     d.Name,
		LiveCount: d.Playing,
		Genres:    genre.Classify(d.Name),
	}
	if inCatalog {
		game.LiveCount = live.LiveCount
		game.ThumbnailURL = live.ThumbnailURL
	}

	detail := &domain.GameDetail{
		Game:           game,
		UniverseID:     universeID,
		Description:    d.Description,
		Creator:        d.Creator.Name,
		Visits:         d.Visits,
		FavoritedCount: d.FavoritedCount,
		Created:        d.Created,
		Updated:        d.Updated,
	}
	if v, ok := votes[universeID]; ok {
		detail.Game = detail.Game.WithRating(v.Info())
		detail.UpVotes = v.UpVotes
		detail.DownVotes = v.DownVotes
	}
	return detail, nil
}
