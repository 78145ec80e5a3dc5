package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"

	"roblox-discovery/internal/domain"
)

const (
	minSuggestLength    = 2
	nearMissSimilarity  = 0.85
	DefaultSuggestLimit = 5
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {},
}

// Suggest returns up to limit distinct titles for autocomplete. Titles that
// start with or contain the partial query come first, most played first; the
// rest of the slots go to close Jaro-Winkler matches on the leading words.
func Suggest(pool []domain.Game, partial string, limit int) []string {
	q := fold(partial)
	if len([]rune(q)) < minSuggestLength {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	type hit struct {
		title   string
		players int
		near    float32
	}
	seen := make(map[string]struct{})
	var direct, near []hit

	for _, g := range pool {
		if _, dup := seen[g.Title]; dup || g.Title == "" {
			continue
		}
		name := fold(g.Title)
		if strings.Contains(name, q) {
			seen[g.Title] = struct{}{}
			direct = append(direct, hit{title: g.Title, players: g.LiveCount})
			continue
		}
		head := leadingRunes(name, len([]rune(q)))
		if sim := edlib.JaroWinklerSimilarity(q, head); sim >= nearMissSimilarity {
			seen[g.Title] = struct{}{}
			near = append(near, hit{title: g.Title, players: g.LiveCount, near: sim})
		}
	}

	slices.SortStableFunc(direct, func(a, b hit) int { return cmp.Compare(b.players, a.players) })
	slices.SortStableFunc(near, func(a, b hit) int {
		if c := cmp.Compare(b.near, a.near); c != 0 {
			return c
		}
		return cmp.Compare(b.players, a.players)
	})

	out := make([]string, 0, limit)
	for _, h := range append(direct, near...) {
		if len(out) == limit {
			break
		}
		out = append(out, h.title)
	}
	return out
}

func leadingRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ExtractKeywords lowercases query and keeps words longer than two characters
// that are not stop words.
func ExtractKeywords(query string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len([]rune(w)) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Highlight splits text around the first case-insensitive occurrence of query.
// Match is empty when the query does not occur.
type Highlight struct {
	Before string
	Match  string
	After  string
}

func HighlightMatch(text, query string) Highlight {
	if query == "" {
		return Highlight{Before: text}
	}
	tr := []rune(text)
	lt := []rune(strings.ToLower(text))
	lq := []rune(strings.ToLower(query))
	if len(lt) != len(tr) {
		// lowercasing changed the rune count; fall back to no highlight
		return Highlight{Before: text}
	}
	idx := runeIndex(lt, lq)
	if idx < 0 {
		return Highlight{Before: text}
	}
	end := idx + len(lq)
	return Highlight{
		Before: string(tr[:idx]),
		Match:  string(tr[idx:end]),
		After:  string(tr[end:]),
	}
}

func runeIndex(s, sub []rune) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if slices.Equal(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
