package server

import (
	"encoding/json"
	"strings"
	"time"

	"roblox-discovery/internal/domain"
	"roblox-discovery/internal/genre"
	"roblox-discovery/internal/search"
)

type SearchRequest struct {
	Query      string   `json:"query"`
	Genres     []string `json:"genres,omitempty"`
	MinRating  *float64 `json:"minRating,omitempty"`
	MaxRating  *float64 `json:"maxRating,omitempty"`
	MinPlayers int      `json:"minPlayers,omitempty"`
	Sort       string   `json:"sort,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

func (r *SearchRequest) toDomain() domain.SearchRequest {
	return domain.SearchRequest{
		Query:        r.Query,
		Genres:       resolveGenres(r.Genres),
		MinRating:    r.MinRating,
		MaxRating:    r.MaxRating,
		MinLiveCount: r.MinPlayers,
		Sort:         domain.SortMode(r.Sort),
		Limit:        r.Limit,
	}
}

type SearchResponse struct {
	Query string `json:"query"`
	Games []Game `json:"games"`
}

type Game struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	LiveCount     int      `json:"liveCount"`
	Genres        []string `json:"genres"`
	ThumbnailURL  string   `json:"thumbnailUrl,omitempty"`
	Rating        *int     `json:"rating"`
	TotalVotes    int      `json:"totalVotes"`
	Score         *float64   `json:"score,omitempty"`
	MatchedFields []string   `json:"matchedFields,omitempty"`
	Highlight     *Highlight `json:"highlight,omitempty"`
}

// Highlight splits a title around the first occurrence of the query.
type Highlight struct {
	Before string `json:"before"`
	Match  string `json:"match"`
	After  string `json:"after"`
}

// resolveGenres accepts catalog names ("Story-Driven", "PvP") as well as tags
// and returns tags.
func resolveGenres(genres []string) []string {
	if len(genres) == 0 {
		return nil
	}
	out := make([]string, len(genres))
	for i, name := range genres {
		if g, ok := genre.Lookup(strings.TrimSpace(name)); ok {
			out[i] = g.Slug
			continue
		}
		out[i] = name
	}
	return out
}

func toGame(g domain.Game) Game {
	return Game{
		ID:           g.ID,
		Title:        g.Title,
		LiveCount:    g.LiveCount,
		Genres:       g.Genres,
		ThumbnailURL: g.ThumbnailURL,
		Rating:       g.Rating,
		TotalVotes:   g.TotalVotes,
	}
}

func toScoredGames(games []domain.ScoredGame, query string) []Game {
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = toGame(g.Game)
		score := g.Score
		out[i].Score = &score
		out[i].MatchedFields = g.MatchedFields
		if h := search.HighlightMatch(g.Title, query); h.Match != "" {
			out[i].Highlight = &Highlight{Before: h.Before, Match: h.Match, After: h.After}
		}
	}
	return out
}

type SuggestRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

type BatchRatingsRequest struct {
	PlaceIDs []string `json:"placeIds"`
}

type Rating struct {
	Rating     int `json:"rating"`
	TotalVotes int `json:"totalVotes"`
	UpVotes    int `json:"upVotes"`
	DownVotes  int `json:"downVotes"`
}

type BatchRatingsResponse struct {
	Ratings map[string]Rating `json:"ratings"`
}

type ListGamesRequest struct {
	Genres    []string `json:"genres,omitempty"`
	MinRating *float64 `json:"minRating,omitempty"`
	MaxRating *float64 `json:"maxRating,omitempty"`
	Sort      string   `json:"sort,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	Offset    int      `json:"offset,omitempty"`
}

func (r *ListGamesRequest) toDomain() domain.ListRequest {
	return domain.ListRequest{
		Genres:    resolveGenres(r.Genres),
		MinRating: r.MinRating,
		MaxRating: r.MaxRating,
		Sort:      domain.SortMode(r.Sort),
		Limit:     r.Limit,
		Offset:    r.Offset,
	}
}

type ListGamesResponse struct {
	Games   []Game `json:"games"`
	Total   int    `json:"total"`
	HasMore bool   `json:"hasMore"`
}

type GetGameRequest struct {
	PlaceID string `json:"placeId"`
}

type GameDetail struct {
	Game
	UniverseID     int64     `json:"universeId"`
	Description    string    `json:"description"`
	Creator        string    `json:"creator"`
	Visits         int64     `json:"visits"`
	FavoritedCount int64     `json:"favoritedCount"`
	UpVotes        int       `json:"upVotes"`
	DownVotes      int       `json:"downVotes"`
	Created        time.Time `json:"created"`
	Updated        time.Time `json:"updated"`
}

type ListGenresRequest struct{}

type ListGenresResponse struct {
	Genres []genre.Genre `json:"genres"`
}

type PopularSearchesRequest struct {
	Limit int `json:"limit,omitempty"`
}

type PopularQuery struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

type PopularSearchesResponse struct {
	Queries []PopularQuery `json:"queries"`
}

type RecentSearchesRequest struct {
	Limit int `json:"limit,omitempty"`
}

type RecentSearch struct {
	Query       string          `json:"query"`
	Filters     json.RawMessage `json:"filters"`
	ResultCount int             `json:"resultCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type RecentSearchesResponse struct {
	Searches []RecentSearch `json:"searches"`
}
