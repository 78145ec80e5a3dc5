package search

import (
	"math"
	"strings"

	"github.com/hbollon/go-edlib"

	"roblox-discovery/internal/domain"
)

const (
	FieldTitle = "title"
	FieldGenre = "genres"
)

// minScore stands in for a perfect field score so that weighting still
// separates perfect title hits from perfect genre hits.
const minScore = 1e-9

// genreFloor bounds a perfect genre hit to roughly a 2x edge once weighted, well
// below the exact title factor of the scorer.
const genreFloor = 0.03

// reorderPenalty is added to a token match whose words were found out of order.
const reorderPenalty = 0.1

// MatcherOptions tunes the approximate matcher. Scores run from 0 (perfect) to 1
// (no match).
type MatcherOptions struct {
	// Threshold is the worst field score still accepted as a match.
	Threshold float64
	// MinFragmentLength drops query words shorter than this from token
	// matching. Queries made only of short words still match by substring.
	MinFragmentLength int
	TitleWeight       float64
	GenreWeight       float64
}

func DefaultMatcherOptions() MatcherOptions {
	return MatcherOptions{
		Threshold:         0.4,
		MinFragmentLength: 2,
		TitleWeight:       2,
		GenreWeight:       0.5,
	}
}

type Match struct {
	Game   domain.Game
	Score  float64
	Fields []string
}

type Matcher struct {
	opts MatcherOptions
}

func NewMatcher(opts MatcherOptions) *Matcher {
	if opts.TitleWeight <= 0 && opts.GenreWeight <= 0 {
		opts.TitleWeight, opts.GenreWeight = 1, 0
	}
	return &Matcher{opts: opts}
}

// Match scores every game against query and keeps those with at least one field
// inside the threshold. Output order follows the input and carries no ranking.
func (m *Matcher) Match(games []domain.Game, query string) []Match {
	q := fold(query)
	if q == "" {
		q = strings.ToLower(strings.TrimSpace(query))
	}
	if q == "" || len(games) == 0 {
		return nil
	}

	total := m.opts.TitleWeight + m.opts.GenreWeight
	titleWeight := m.opts.TitleWeight / total
	genreWeight := m.opts.GenreWeight / total

	var out []Match
	for _, g := range games {
		title := fold(g.Title)
		if title == "" {
			// decoration-only titles still match on their raw form
			title = strings.ToLower(strings.TrimSpace(g.Title))
		}
		if title == "" {
			continue
		}

		combined := 1.0
		var fields []string

		if s := m.fieldScore(q, title); s <= m.opts.Threshold {
			combined *= math.Pow(math.Max(s, minScore), titleWeight)
			fields = append(fields, FieldTitle)
		}

		if genreWeight > 0 {
			best := 1.0
			for _, genre := range g.Genres {
				if s := m.fieldScore(q, strings.ToLower(genre)); s < best {
					best = s
				}
			}
			if best <= m.opts.Threshold {
				combined *= math.Pow(math.Max(best, genreFloor), genreWeight)
				fields = append(fields, FieldGenre)
			}
		}

		if len(fields) == 0 {
			continue
		}
		out = append(out, Match{Game: g, Score: combined, Fields: fields})
	}
	return out
}

// fieldScore is the better of a location-free approximate substring match and
// an order-insensitive word match.
func (m *Matcher) fieldScore(query, text string) float64 {
	if text == "" {
		return 1
	}
	return math.Min(substringScore(query, text), m.tokenScore(query, text))
}

// substringScore is the fewest edits needed to turn query into any substring of
// text, divided by the query length.
func substringScore(query, text string) float64 {
	q := []rune(query)
	t := []rune(text)
	if len(q) == 0 {
		return 1
	}

	col := make([]int, len(q)+1)
	for i := range col {
		col[i] = i
	}
	best := col[len(q)]

	for _, tc := range t {
		diag := col[0]
		for i := 1; i <= len(q); i++ {
			up := col[i]
			cost := 1
			if q[i-1] == tc {
				cost = 0
			}
			col[i] = min(col[i]+1, col[i-1]+1, diag+cost)
			diag = up
		}
		best = min(best, col[len(q)])
	}

	return math.Min(float64(best)/float64(len(q)), 1)
}

// tokenScore pairs each query word with its closest text word so reordered
// queries ("fruits blox") still line up.
func (m *Matcher) tokenScore(query, text string) float64 {
	var words []string
	for _, w := range strings.Fields(query) {
		if len([]rune(w)) >= m.opts.MinFragmentLength {
			words = append(words, w)
		}
	}
	tokens := strings.Fields(text)
	if len(words) == 0 || len(tokens) == 0 {
		return 1
	}

	errs, length := 0, 0
	last, ordered := -1, true
	for _, w := range words {
		bestDist, bestIdx := math.MaxInt, -1
		for i, tok := range tokens {
			if d := wordDistance(w, tok); d < bestDist {
				bestDist, bestIdx = d, i
			}
		}
		if bestIdx <= last {
			ordered = false
		}
		last = bestIdx
		errs += bestDist
		length += len([]rune(w))
	}

	score := float64(errs) / float64(length)
	if !ordered {
		score += reorderPenalty
	}
	return math.Min(score, 1)
}

// wordDistance compares w against the whole token and against the token's
// prefix of the same length, so partially typed words are not penalised for the
// unseen tail.
func wordDistance(w, tok string) int {
	d := edlib.OSADamerauLevenshteinDistance(w, tok)
	wr, tr := []rune(w), []rune(tok)
	if len(tr) > len(wr) {
		if p := edlib.OSADamerauLevenshteinDistance(w, string(tr[:len(wr)])); p < d {
			d = p
		}
	}
	return d
}
