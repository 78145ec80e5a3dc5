package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roblox-discovery/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestExplain_ExactTitle(t *testing.T) {
	t.Parallel()

	b := Explain(domain.Game{Title: "Blox Fruits"}, 0.5, "blox fruits")

	names := make([]string, 0, len(b.Factors))
	for _, f := range b.Factors {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		FactorExact, FactorPrefix, FactorConsecutive, FactorPhrase,
		FactorPosition, FactorWordRatio, FactorPopularity,
	}, names)
	assert.InDelta(t, 0.612, b.Final, 1e-9)
}

func TestExplain_Factors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		game    domain.Game
		query   string
		has     []string
		missing []string
	}{
		{
			name:    "decorated exact title still exact",
			game:    domain.Game{Title: "【Blox Fruits】 🔥"},
			query:   "Blox Fruits",
			has:     []string{FactorExact, FactorPrefix, FactorPhrase},
			missing: []string{FactorRawPrefix, FactorRawPhrase},
		},
		{
			name:    "raw prefix when the query is only decoration",
			game:    domain.Game{Title: "🔥 Doors"},
			query:   "🔥",
			has:     []string{FactorRawPrefix, FactorRawPhrase},
			missing: []string{FactorPrefix, FactorPhrase, FactorExact},
		},
		{
			name:    "mid title phrase",
			game:    domain.Game{Title: "Welcome to Bloxburg"},
			query:   "bloxburg",
			has:     []string{FactorPhrase, FactorConsecutive, FactorPosition},
			missing: []string{FactorPrefix, FactorExact},
		},
		{
			name:    "gap between words breaks consecutive",
			game:    domain.Game{Title: "Tower of Hell"},
			query:   "tower hell",
			missing: []string{FactorConsecutive, FactorPhrase, FactorPosition},
		},
		{
			name:    "partial words in order are consecutive",
			game:    domain.Game{Title: "Murder Mystery 2"},
			query:   "murd myst",
			has:     []string{FactorConsecutive},
			missing: []string{FactorPhrase},
		},
		{
			name:  "high rating bonus",
			game:  domain.Game{Title: "Doors", Rating: ptr(92)},
			query: "doors",
			has:   []string{FactorRating},
		},
		{
			name:    "rating below ninety gets no bonus",
			game:    domain.Game{Title: "Doors", Rating: ptr(89)},
			query:   "doors",
			missing: []string{FactorRating},
		},
		{
			name:    "no usable query",
			game:    domain.Game{Title: "Doors"},
			query:   "🔥",
			has:     []string{FactorWordRatio, FactorPopularity},
			missing: []string{FactorExact, FactorPrefix, FactorConsecutive, FactorPhrase, FactorPosition},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := Explain(tt.game, 0.2, tt.query)
			for _, name := range tt.has {
				assert.True(t, b.Has(name), "expected factor %s", name)
			}
			for _, name := range tt.missing {
				assert.False(t, b.Has(name), "unexpected factor %s", name)
			}
		})
	}
}

func TestExplain_Position(t *testing.T) {
	t.Parallel()

	// "welcome to " is 11 runes of a 19 rune title
	b := Explain(domain.Game{Title: "Welcome to Bloxburg"}, 0.2, "bloxburg")
	for _, f := range b.Factors {
		if f.Name == FactorPosition {
			assert.InDelta(t, 1-(11.0/19.0)*0.2, f.Multiplier, 1e-9)
			return
		}
	}
	t.Fatal("position factor missing")
}

func TestExplain_PopularityIsCapped(t *testing.T) {
	t.Parallel()

	capped := Explain(domain.Game{Title: "Brookhaven", LiveCount: 1_000_000}, 0.2, "brookhaven")
	huge := Explain(domain.Game{Title: "Brookhaven", LiveCount: 50_000_000}, 0.2, "brookhaven")
	assert.InDelta(t, capped.Final, huge.Final, 1e-12)

	for _, f := range capped.Factors {
		if f.Name == FactorPopularity {
			assert.InDelta(t, 1.7, f.Multiplier, 1e-9)
		}
	}
}

func TestScore_ShorterTitleWins(t *testing.T) {
	t.Parallel()

	m := NewMatcher(DefaultMatcherOptions())
	matches := m.Match([]domain.Game{
		{ID: "focused", Title: "99 Nights in the Forest"},
		{ID: "long", Title: "99 Nights Ripoff Simulator Extra Long Title"},
	}, "99 nights")
	require.Len(t, matches, 2)
	require.InDelta(t, matches[0].Score, matches[1].Score, 1e-12)

	focused := Score(matches[0].Game, matches[0].Score, "99 nights")
	long := Score(matches[1].Game, matches[1].Score, "99 nights")
	assert.Less(t, focused, long)
}

func TestScore_PopularityBreaksTies(t *testing.T) {
	t.Parallel()

	quiet := Score(domain.Game{Title: "Arsenal", LiveCount: 10}, 0.1, "arsenal")
	busy := Score(domain.Game{Title: "Arsenal", LiveCount: 90_000}, 0.1, "arsenal")
	assert.Less(t, busy, quiet)
}

func TestConsecutiveMatch(t *testing.T) {
	t.Parallel()

	assert.True(t, consecutiveMatch("blox fruits", "blox fruits"))
	assert.True(t, consecutiveMatch("the strongest battlegrounds", "strong battle"))
	assert.True(t, consecutiveMatch("bloxburg", "blox"))
	assert.False(t, consecutiveMatch("fruits blox", "blox fruits"))
	assert.False(t, consecutiveMatch("arsenal", "doors"))
	assert.False(t, consecutiveMatch("doors", "doors hotel"))
	assert.False(t, consecutiveMatch("doors", ""))
}
