package search

import (
	"cmp"
	"slices"

	"roblox-discovery/internal/domain"
)

// PreFilter applies the filters that do not need enrichment: genre membership
// (any requested tag) and minimum live player count. The pool is not modified.
func PreFilter(pool []domain.Game, genres map[string]struct{}, minLiveCount int) []domain.Game {
	out := make([]domain.Game, 0, len(pool))
	for _, g := range pool {
		if genres != nil && !g.HasGenre(genres) {
			continue
		}
		if minLiveCount > 0 && g.LiveCount < minLiveCount {
			continue
		}
		out = append(out, g)
	}
	return out
}

// HasValidRating reports whether any game carries a rating other than nil or 0.
func HasValidRating(games []domain.ScoredGame) bool {
	for _, g := range games {
		if g.Rating != nil && *g.Rating > 0 {
			return true
		}
	}
	return false
}

// FilterByRating keeps games rated within [lo, hi]. Games with no rating or a
// rating of 0 are dropped. When not a single game has a usable rating the
// enrichment source is assumed down and the filter is skipped; applied reports
// which of the two happened.
func FilterByRating(games []domain.ScoredGame, lo, hi float64) (out []domain.ScoredGame, applied bool) {
	if !HasValidRating(games) {
		return slices.Clone(games), false
	}
	out = make([]domain.ScoredGame, 0, len(games))
	for _, g := range games {
		if g.Rating == nil || *g.Rating == 0 {
			continue
		}
		r := float64(*g.Rating)
		if r >= lo && r <= hi {
			out = append(out, g)
		}
	}
	return out, true
}

// Sort returns games ordered by mode. Relevance keeps the incoming order; the
// other modes are stable so ties keep their relevance order.
func Sort(games []domain.ScoredGame, mode domain.SortMode) []domain.ScoredGame {
	out := slices.Clone(games)
	switch mode {
	case domain.SortRating:
		slices.SortStableFunc(out, func(a, b domain.ScoredGame) int {
			switch {
			case a.Rating == nil && b.Rating == nil:
				return 0
			case a.Rating == nil:
				return 1
			case b.Rating == nil:
				return -1
			}
			return cmp.Compare(*b.Rating, *a.Rating)
		})
	case domain.SortPlayers:
		slices.SortStableFunc(out, func(a, b domain.ScoredGame) int {
			return cmp.Compare(b.LiveCount, a.LiveCount)
		})
	case domain.SortTrending:
		slices.SortStableFunc(out, func(a, b domain.ScoredGame) int {
			return cmp.Compare(TrendingScore(b.Game), TrendingScore(a.Game))
		})
	}
	return out
}

// TrendingScore blends live players with rating; unrated games count as 0%.
func TrendingScore(g domain.Game) float64 {
	rating := 0.0
	if g.Rating != nil {
		rating = float64(*g.Rating)
	}
	return float64(g.LiveCount) * (1 + rating/100)
}
