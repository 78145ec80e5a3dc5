package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"

	"roblox-discovery/internal/api"
	"roblox-discovery/internal/constants"
	"roblox-discovery/internal/domain"
	"roblox-discovery/internal/genre"
)

const DiscoveryPath = "/discovery.v1.Discovery/"

const (
	SearchProcedure          = DiscoveryPath + "Search"
	InstantSearchProcedure   = DiscoveryPath + "InstantSearch"
	SuggestProcedure         = DiscoveryPath + "Suggest"
	BatchRatingsProcedure    = DiscoveryPath + "BatchRatings"
	ListGamesProcedure       = DiscoveryPath + "ListGames"
	GetGameProcedure         = DiscoveryPath + "GetGame"
	ListGenresProcedure      = DiscoveryPath + "ListGenres"
	PopularSearchesProcedure = DiscoveryPath + "PopularSearches"
	RecentSearchesProcedure  = DiscoveryPath + "RecentSearches"
)

type Searcher interface {
	Search(ctx context.Context, req domain.SearchRequest) ([]domain.ScoredGame, error)
	InstantSearch(ctx context.Context, req domain.SearchRequest) ([]domain.ScoredGame, error)
	Suggest(ctx context.Context, partial string, limit int) ([]string, error)
	Popular(ctx context.Context, limit int) ([]domain.PopularQuery, error)
	Recent(ctx context.Context, limit int) ([]domain.SearchLog, error)
}

type Browser interface {
	List(ctx context.Context, req domain.ListRequest) ([]domain.Game, int, error)
	GetGame(ctx context.Context, placeID string) (*domain.GameDetail, error)
}

type RatingFetcher interface {
	FetchRatings(ctx context.Context, placeIDs []string) (map[string]domain.RatingInfo, error)
}

type DiscoveryServer struct {
	search  Searcher
	browse  Browser
	ratings RatingFetcher
	logger  zerolog.Logger
}

func NewDiscoveryServer(search Searcher, browse Browser, ratings RatingFetcher, logger zerolog.Logger) *DiscoveryServer {
	return &DiscoveryServer{search: search, browse: browse, ratings: ratings, logger: logger}
}

// NewHandler mounts every procedure under DiscoveryPath and returns the path
// with the handler, the same shape generated connect handlers have.
func NewHandler(s *DiscoveryServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithReadMaxBytes(constants.MaxRequestBytes),
	}, opts...)

	mux := http.NewServeMux()
	mux.Handle(SearchProcedure, connect.NewUnaryHandler(SearchProcedure, s.Search, opts...))
	mux.Handle(InstantSearchProcedure, connect.NewUnaryHandler(InstantSearchProcedure, s.InstantSearch, opts...))
	mux.Handle(SuggestProcedure, connect.NewUnaryHandler(SuggestProcedure, s.Suggest, opts...))
	mux.Handle(BatchRatingsProcedure, connect.NewUnaryHandler(BatchRatingsProcedure, s.BatchRatings, opts...))
	mux.Handle(ListGamesProcedure, connect.NewUnaryHandler(ListGamesProcedure, s.ListGames, opts...))
	mux.Handle(GetGameProcedure, connect.NewUnaryHandler(GetGameProcedure, s.GetGame, opts...))
	mux.Handle(ListGenresProcedure, connect.NewUnaryHandler(ListGenresProcedure, s.ListGenres, opts...))
	mux.Handle(PopularSearchesProcedure, connect.NewUnaryHandler(PopularSearchesProcedure, s.PopularSearches, opts...))
	mux.Handle(RecentSearchesProcedure, connect.NewUnaryHandler(RecentSearchesProcedure, s.RecentSearches, opts...))
	return DiscoveryPath, mux
}

func (s *DiscoveryServer) Search(ctx context.Context, req *connect.Request[SearchRequest]) (*connect.Response[SearchResponse], error) {
	defer s.timed(ctx, "Search")()

	games, err := s.search.Search(ctx, req.Msg.toDomain())
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	return connect.NewResponse(&SearchResponse{Query: req.Msg.Query, Games: toScoredGames(games, req.Msg.Query)}), nil
}

func (s *DiscoveryServer) InstantSearch(ctx context.Context, req *connect.Request[SearchRequest]) (*connect.Response[SearchResponse], error) {
	games, err := s.search.InstantSearch(ctx, req.Msg.toDomain())
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	return connect.NewResponse(&SearchResponse{Query: req.Msg.Query, Games: toScoredGames(games, req.Msg.Query)}), nil
}

func (s *DiscoveryServer) Suggest(ctx context.Context, req *connect.Request[SuggestRequest]) (*connect.Response[SuggestResponse], error) {
	suggestions, err := s.search.Suggest(ctx, req.Msg.Query, min(req.Msg.Limit, constants.MaxSuggestLimit))
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return connect.NewResponse(&SuggestResponse{Suggestions: suggestions}), nil
}

func (s *DiscoveryServer) BatchRatings(ctx context.Context, req *connect.Request[BatchRatingsRequest]) (*connect.Response[BatchRatingsResponse], error) {
	defer s.timed(ctx, "BatchRatings")()

	ids := req.Msg.PlaceIDs
	switch {
	case len(ids) == 0:
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("placeIds is required"))
	case len(ids) > constants.MaxBatchRatingIDs:
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("at most %d placeIds per call, got %d", constants.MaxBatchRatingIDs, len(ids)))
	}

	ratings, err := s.ratings.FetchRatings(ctx, ids)
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	resp := &BatchRatingsResponse{Ratings: make(map[string]Rating, len(ratings))}
	for id, info := range ratings {
		resp.Ratings[id] = Rating{
			Rating:     info.Rating,
			TotalVotes: info.TotalVotes,
			UpVotes:    info.UpVotes,
			DownVotes:  info.DownVotes,
		}
	}
	return connect.NewResponse(resp), nil
}

func (s *DiscoveryServer) ListGames(ctx context.Context, req *connect.Request[ListGamesRequest]) (*connect.Response[ListGamesResponse], error) {
	defer s.timed(ctx, "ListGames")()

	games, total, err := s.browse.List(ctx, req.Msg.toDomain())
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	resp := &ListGamesResponse{Games: make([]Game, len(games)), Total: total}
	for i, g := range games {
		resp.Games[i] = toGame(g)
	}
	resp.HasMore = max(req.Msg.Offset, 0)+len(games) < total
	return connect.NewResponse(resp), nil
}

func (s *DiscoveryServer) GetGame(ctx context.Context, req *connect.Request[GetGameRequest]) (*connect.Response[GameDetail], error) {
	if req.Msg.PlaceID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("placeId is required"))
	}

	d, err := s.browse.GetGame(ctx, req.Msg.PlaceID)
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	return connect.NewResponse(&GameDetail{
		Game:           toGame(d.Game),
		UniverseID:     d.UniverseID,
		Description:    d.Description,
		Creator:        d.Creator,
		Visits:         d.Visits,
		FavoritedCount: d.FavoritedCount,
		UpVotes:        d.UpVotes,
		DownVotes:      d.DownVotes,
		Created:        d.Created,
		Updated:        d.Updated,
	}), nil
}

func (s *DiscoveryServer) ListGenres(_ context.Context, _ *connect.Request[ListGenresRequest]) (*connect.Response[ListGenresResponse], error) {
	return connect.NewResponse(&ListGenresResponse{Genres: genre.List()}), nil
}

func (s *DiscoveryServer) PopularSearches(ctx context.Context, req *connect.Request[PopularSearchesRequest]) (*connect.Response[PopularSearchesResponse], error) {
	popular, err := s.search.Popular(ctx, min(req.Msg.Limit, constants.MaxPopularLimit))
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	resp := &PopularSearchesResponse{Queries: make([]PopularQuery, len(popular))}
	for i, p := range popular {
		resp.Queries[i] = PopularQuery{Query: p.Query, Count: p.Count}
	}
	return connect.NewResponse(resp), nil
}

func (s *DiscoveryServer) RecentSearches(ctx context.Context, req *connect.Request[RecentSearchesRequest]) (*connect.Response[RecentSearchesResponse], error) {
	logs, err := s.search.Recent(ctx, min(req.Msg.Limit, constants.MaxPopularLimit))
	if err != nil {
		return nil, s.toConnectError(ctx, err)
	}
	resp := &RecentSearchesResponse{Searches: make([]RecentSearch, len(logs))}
	for i, l := range logs {
		resp.Searches[i] = RecentSearch{
			Query:       l.Query,
			Filters:     json.RawMessage(l.Filters),
			ResultCount: l.ResultCount,
			CreatedAt:   l.CreatedAt,
		}
	}
	return connect.NewResponse(resp), nil
}

func (s *DiscoveryServer) timed(ctx context.Context, procedure string) func() {
	start := time.Now()
	return func() {
		s.log(ctx).Debug().
			Str("procedure", procedure).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("procedure finished")
	}
}

// log prefers the request scoped logger set up by the request id middleware.
func (s *DiscoveryServer) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}

func (s *DiscoveryServer) toConnectError(ctx context.Context, err error) error {
	var status *api.StatusError
	code := connect.CodeInternal
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		code = connect.CodeInvalidArgument
	case errors.Is(err, domain.ErrGameNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.As(err, &status):
		code = connect.CodeUnavailable
	}
	if code == connect.CodeInternal || code == connect.CodeUnavailable {
		s.log(ctx).Error().Err(err).Str("code", code.String()).Msg("request failed")
	}
	return connect.NewError(code, err)
}
