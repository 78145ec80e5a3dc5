package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"roblox-discovery/internal/constants"
	"roblox-discovery/internal/domain"
	"roblox-discovery/internal/search"
)

const popularWindow = 24 * time.Hour

type SearchService struct {
	catalog search.CandidateSource
	engine  *search.Engine
	logs    SearchLogStore
	logger  zerolog.Logger
}

func NewSearchService(catalog search.CandidateSource, engine *search.Engine, logs SearchLogStore, logger zerolog.Logger) *SearchService {
	return &SearchService{catalog: catalog, engine: engine, logs: logs, logger: logger}
}

// Search ranks the live catalog against req and records the query.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) ([]domain.ScoredGame, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	req, err := req.WithDefaults()
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("query", req.Query).
		Strs("genres", req.Genres).
		Str("sort", string(req.Sort)).
		Int("limit", req.Limit).
		Msg("searching games")

	pool, err := s.catalog.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	results, err := s.engine.Search(ctx, pool, req)
	if err != nil {
		return nil, err
	}

	s.record(ctx, req, len(results))
	return results, nil
}

// InstantSearch is the as-you-type variant: no rating lookups and no logging.
func (s *SearchService) InstantSearch(ctx context.Context, req domain.SearchRequest) ([]domain.ScoredGame, error) {
	req, err := req.WithDefaults()
	if err != nil {
		return nil, err
	}
	pool, err := s.catalog.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return s.engine.InstantSearch(pool, req)
}

func (s *SearchService) Suggest(ctx context.Context, partial string, limit int) ([]string, error) {
	if err := domain.ValidateQueryLength(partial); err != nil {
		return nil, err
	}
	pool, err := s.catalog.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return search.Suggest(pool, partial, limit), nil
}

// Popular lists the most searched queries of the last day.
func (s *SearchService) Popular(ctx context.Context, limit int) ([]domain.PopularQuery, error) {
	if limit <= 0 {
		limit = constants.DefaultPopularLimit
	}
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	popular, err := s.logs.Popular(ctx, time.Now().Add(-popularWindow), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load popular queries: %w", err)
	}
	return popular, nil
}

// Recent lists the newest recorded searches.
func (s *SearchService) Recent(ctx context.Context, limit int) ([]domain.SearchLog, error) {
	if limit <= 0 {
		limit = constants.DefaultPopularLimit
	}
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	logs, err := s.logs.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent searches: %w", err)
	}
	return logs, nil
}

type searchFilters struct {
	Keywords     []string        `json:"keywords,omitempty"`
	Genres       []string        `json:"genres,omitempty"`
	MinRating    *float64        `json:"min_rating,omitempty"`
	MaxRating    *float64        `json:"max_rating,omitempty"`
	MinLiveCount int             `json:"min_players,omitempty"`
	Sort         domain.SortMode `json:"sort"`
	Limit        int             `json:"limit"`
}

// record is best effort; a failed insert never fails the search.
func (s *SearchService) record(ctx context.Context, req domain.SearchRequest, resultCount int) {
	filters, err := json.Marshal(searchFilters{
		Keywords:     search.ExtractKeywords(req.Query),
		Genres:       req.Genres,
		MinRating:    req.MinRating,
		MaxRating:    req.MaxRating,
		MinLiveCount: req.MinLiveCount,
		Sort:         req.Sort,
		Limit:        req.Limit,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode search filters")
		filters = []byte("{}")
	}

	dbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DatabaseTimeout)
	defer cancel()

	entry := &domain.SearchLog{
		Query:       req.Query,
		Filters:     string(filters),
		ResultCount: resultCount,
	}
	if err := s.logs.Insert(dbCtx, entry); err != nil {
		s.logger.Warn().Err(err).Str("query", req.Query).Msg("failed to record search")
	}
}
