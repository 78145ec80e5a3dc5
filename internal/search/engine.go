package search

import (
	"cmp"
	"context"
	"slices"

	"github.com/rs/zerolog"

	"roblox-discovery/internal/constants"
	"roblox-discovery/internal/domain"
)

// CandidateSource hands out the current catalog pool. The returned slice is a
// shared snapshot and must be treated as read-only.
type CandidateSource interface {
	FetchAll(ctx context.Context) ([]domain.Game, error)
}

// RatingFetcher looks up ratings for a batch of game ids. Ids missing from the
// result have no data; that is not an error.
type RatingFetcher interface {
	FetchRatings(ctx context.Context, ids []string) (map[string]domain.RatingInfo, error)
}

// Engine ranks a candidate pool against a query. It keeps no per-request state,
// so one Engine serves any number of concurrent searches.
type Engine struct {
	matcher *Matcher
	ratings RatingFetcher
	logger  zerolog.Logger
}

func NewEngine(ratings RatingFetcher, logger zerolog.Logger) *Engine {
	return &Engine{
		matcher: NewMatcher(DefaultMatcherOptions()),
		ratings: ratings,
		logger:  logger,
	}
}

// Rank pre-filters the pool, fuzzy matches what is left and returns every match
// ordered by relevance score, best first.
func (e *Engine) Rank(pool []domain.Game, req domain.SearchRequest) []domain.ScoredGame {
	candidates := PreFilter(pool, req.GenreSet(), req.MinLiveCount)
	matches := e.matcher.Match(candidates, req.Query)

	ranked := make([]domain.ScoredGame, len(matches))
	for i, m := range matches {
		ranked[i] = domain.ScoredGame{
			Game:          m.Game,
			Score:         Score(m.Game, m.Score, req.Query),
			MatchedFields: m.Fields,
		}
	}
	slices.SortStableFunc(ranked, func(a, b domain.ScoredGame) int {
		return cmp.Compare(a.Score, b.Score)
	})
	return ranked
}

// RetentionCount is how many ranked games survive to enrichment. A rating
// filter needs headroom for the games it will drop.
func RetentionCount(limit int, ratingFilter bool) int {
	if !ratingFilter {
		return limit
	}
	return min(limit*constants.RatingFilterMultiplier, constants.RatingFilterCeiling)
}

// Search runs the full pipeline: rank, retain, enrich, rating filter, re-sort
// and truncate. Enrichment failures degrade to unrated results and are only
// logged; the error return is for invalid requests and cancelled contexts.
func (e *Engine) Search(ctx context.Context, pool []domain.Game, req domain.SearchRequest) ([]domain.ScoredGame, error) {
	req, err := req.WithDefaults()
	if err != nil {
		return nil, err
	}

	ranked := e.Rank(pool, req)
	retained := ranked[:min(len(ranked), RetentionCount(req.Limit, req.HasRatingFilter()))]

	e.logger.Debug().
		Str("query", req.Query).
		Int("pool", len(pool)).
		Int("matched", len(ranked)).
		Int("retained", len(retained)).
		Msg("ranked candidates")

	ratings := e.enrich(ctx, retained)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := Merge(retained, ratings)

	if req.HasRatingFilter() {
		lo, hi := req.RatingBounds()
		var applied bool
		results, applied = FilterByRating(results, lo, hi)
		if !applied {
			e.logger.Warn().
				Str("query", req.Query).
				Msg("no valid ratings available, skipping rating filter")
		}
	}

	results = Sort(results, req.Sort)
	return results[:min(len(results), req.Limit)], nil
}

// InstantSearch is Search without enrichment: rating filters are ignored and
// games sort with whatever rating data the pool already has.
func (e *Engine) InstantSearch(pool []domain.Game, req domain.SearchRequest) ([]domain.ScoredGame, error) {
	req, err := req.WithDefaults()
	if err != nil {
		return nil, err
	}
	results := Sort(e.Rank(pool, req), req.Sort)
	return results[:min(len(results), req.Limit)], nil
}

func (e *Engine) enrich(ctx context.Context, games []domain.ScoredGame) map[string]domain.RatingInfo {
	if e.ratings == nil || len(games) == 0 {
		return nil
	}
	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}

	ratings, err := e.ratings.FetchRatings(ctx, ids)
	if err != nil {
		e.logger.Warn().Err(err).Int("ids", len(ids)).Msg("rating enrichment failed")
		return nil
	}
	return ratings
}

// Merge returns copies of games with ratings attached. Games without an entry
// are copied unchanged.
func Merge(games []domain.ScoredGame, ratings map[string]domain.RatingInfo) []domain.ScoredGame {
	out := make([]domain.ScoredGame, len(games))
	for i, g := range games {
		out[i] = g
		if info, ok := ratings[g.ID]; ok {
			out[i].Game = g.Game.WithRating(info)
		}
	}
	return out
}
