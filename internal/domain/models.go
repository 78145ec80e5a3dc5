package domain

import (
	"errors"
	"math"
	"time"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrInvalidRequest = errors.New("invalid request")
)

// Game is one searchable record from the catalog pool. Values are never mutated
// once built for a request; enrichment produces a copy through WithRating.
type Game struct {
	ID           string
	Title        string
	LiveCount    int
	Genres       []string
	ThumbnailURL string

	// nil until enriched, or when the game has no votes
	Rating     *int
	TotalVotes int
}

// WithRating returns a copy of g carrying the rating info.
func (g Game) WithRating(info RatingInfo) Game {
	out := g
	out.TotalVotes = info.TotalVotes
	out.Rating = nil
	if info.TotalVotes > 0 {
		r := info.Rating
		out.Rating = &r
	}
	return out
}

// HasGenre reports whether any of the game's tags is in tags.
func (g Game) HasGenre(tags map[string]struct{}) bool {
	for _, genre := range g.Genres {
		if _, ok := tags[genre]; ok {
			return true
		}
	}
	return false
}

type ScoredGame struct {
	Game
	Score         float64
	MatchedFields []string
}

type Votes struct {
	UpVotes   int
	DownVotes int
}

func (v Votes) Total() int {
	return v.UpVotes + v.DownVotes
}

// Percent is the share of up votes rounded to a whole percent, 0 without votes.
func (v Votes) Percent() int {
	total := v.Total()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(v.UpVotes) / float64(total) * 100))
}

func (v Votes) Info() RatingInfo {
	return RatingInfo{
		Rating:     v.Percent(),
		TotalVotes: v.Total(),
		UpVotes:    v.UpVotes,
		DownVotes:  v.DownVotes,
	}
}

// RatingInfo is what the enrichment source reports for one game id.
type RatingInfo struct {
	Rating     int
	TotalVotes int
	UpVotes    int
	DownVotes  int
}

type GameDetail struct {
	Game
	UniverseID     int64
	Description    string
	Creator        string
	Visits         int64
	FavoritedCount int64
	UpVotes        int
	DownVotes      int
	Created        time.Time
	Updated        time.Time
}

type SearchLog struct {
	ID          string
	Query       string
	Filters     string // json
	ResultCount int
	CreatedAt   time.Time
}

type PopularQuery struct {
	Query string
	Count int
}
