package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortRating    SortMode = "rating"
	SortPlayers   SortMode = "players"
	SortTrending  SortMode = "trending"

	// SortNew is accepted by game listing only. Without release dates in the
	// catalog it lists by players.
	SortNew SortMode = "new"
)

func ParseSortMode(s string) (SortMode, error) {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return SortRelevance, nil
	case SortRelevance, SortRating, SortPlayers, SortTrending:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: unknown sort mode %q", ErrInvalidRequest, s)
	}
}

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
	MinRatingBound     = 0.0
	MaxRatingBound     = 100.0

	// MaxQueryLength caps the query in runes; matching cost grows with it.
	MaxQueryLength = 100
)

// SearchRequest describes one search call.
//
//   - Query must not be blank.
//   - Genres is OR-matched against a game's tags; empty means no genre filter.
//   - MinRating/MaxRating default to 0 and 100 when only one is set; both nil
//     means no rating filter.
//   - MinLiveCount of 0 disables the player filter.
//   - Sort defaults to SortRelevance, Limit to DefaultSearchLimit.
type SearchRequest struct {
	Query        string
	Genres       []string
	MinRating    *float64
	MaxRating    *float64
	MinLiveCount int
	Sort         SortMode
	Limit        int
}

func (r SearchRequest) HasRatingFilter() bool {
	return r.MinRating != nil || r.MaxRating != nil
}

// RatingBounds returns the inclusive rating range, filling in defaults.
func (r SearchRequest) RatingBounds() (float64, float64) {
	lo, hi := MinRatingBound, MaxRatingBound
	if r.MinRating != nil {
		lo = *r.MinRating
	}
	if r.MaxRating != nil {
		hi = *r.MaxRating
	}
	return lo, hi
}

// GenreSet returns the lowercased genre filter, nil when no filter is set.
func (r SearchRequest) GenreSet() map[string]struct{} {
	return genreSet(r.Genres)
}

// WithDefaults fills unset fields and validates the rest.
func (r SearchRequest) WithDefaults() (SearchRequest, error) {
	if strings.TrimSpace(r.Query) == "" {
		return r, fmt.Errorf("%w: query is required", ErrInvalidRequest)
	}
	if err := ValidateQueryLength(r.Query); err != nil {
		return r, err
	}
	mode, err := ParseSortMode(string(r.Sort))
	if err != nil {
		return r, err
	}
	r.Sort = mode
	if r.Limit <= 0 {
		r.Limit = DefaultSearchLimit
	}
	if r.Limit > MaxSearchLimit {
		r.Limit = MaxSearchLimit
	}
	if r.MinLiveCount < 0 {
		r.MinLiveCount = 0
	}
	if err := validateRatingBounds(r.MinRating, r.MaxRating); err != nil {
		return r, err
	}
	return r, nil
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ListRequest browses the catalog without a text query.
type ListRequest struct {
	Genres    []string
	MinRating *float64
	MaxRating *float64
	Sort      SortMode
	Limit     int
	Offset    int
}

// HasRatingFilter is true only when the range is narrower than [0,100].
func (r ListRequest) HasRatingFilter() bool {
	lo, hi := r.RatingBounds()
	return lo > MinRatingBound || hi < MaxRatingBound
}

func (r ListRequest) RatingBounds() (float64, float64) {
	return SearchRequest{MinRating: r.MinRating, MaxRating: r.MaxRating}.RatingBounds()
}

func (r ListRequest) GenreSet() map[string]struct{} {
	return genreSet(r.Genres)
}

func (r ListRequest) WithDefaults() (ListRequest, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(string(r.Sort)))) {
	case "":
		r.Sort = SortTrending
	case SortNew:
		r.Sort = SortPlayers
	}
	mode, err := ParseSortMode(string(r.Sort))
	if err != nil {
		return r, err
	}
	r.Sort = mode
	if r.Limit <= 0 {
		r.Limit = DefaultListLimit
	}
	if r.Limit > MaxListLimit {
		r.Limit = MaxListLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
	if err := validateRatingBounds(r.MinRating, r.MaxRating); err != nil {
		return r, err
	}
	return r, nil
}

// ValidateQueryLength rejects text longer than MaxQueryLength runes.
func ValidateQueryLength(q string) error {
	if n := utf8.RuneCountInString(q); n > MaxQueryLength {
		return fmt.Errorf("%w: query is %d characters, at most %d allowed", ErrInvalidRequest, n, MaxQueryLength)
	}
	return nil
}

func genreSet(genres []string) map[string]struct{} {
	if len(genres) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" {
			set[g] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func validateRatingBounds(lo, hi *float64) error {
	for _, v := range []*float64{lo, hi} {
		if v != nil && (*v < MinRatingBound || *v > MaxRatingBound) {
			return fmt.Errorf("%w: rating bound %.1f outside [0,100]", ErrInvalidRequest, *v)
		}
	}
	if lo != nil && hi != nil && *lo > *hi {
		return fmt.Errorf("%w: min rating %.1f above max rating %.1f", ErrInvalidRequest, *lo, *hi)
	}
	return nil
}
