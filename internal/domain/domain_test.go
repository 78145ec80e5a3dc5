package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestVotes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		votes Votes
		want  int
	}{
		{Votes{UpVotes: 90, DownVotes: 10}, 90},
		{Votes{UpVotes: 2, DownVotes: 1}, 67},
		{Votes{UpVotes: 1, DownVotes: 2}, 33},
		{Votes{UpVotes: 1, DownVotes: 1}, 50},
		{Votes{}, 0},
		{Votes{DownVotes: 5}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.votes.Percent(), "%+v", tt.votes)
	}
}

func TestGame_WithRating(t *testing.T) {
	t.Parallel()

	g := Game{ID: "1", Title: "Doors"}

	rated := g.WithRating(Votes{UpVotes: 9, DownVotes: 1}.Info())
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 90, *rated.Rating)
	assert.Equal(t, 10, rated.TotalVotes)
	assert.Nil(t, g.Rating, "original is untouched")

	disliked := g.WithRating(Votes{DownVotes: 4}.Info())
	require.NotNil(t, disliked.Rating)
	assert.Equal(t, 0, *disliked.Rating)

	unvoted := rated.WithRating(Votes{}.Info())
	assert.Nil(t, unvoted.Rating)
	assert.Equal(t, 0, unvoted.TotalVotes)
}

func TestParseSortMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]SortMode{
		"":          SortRelevance,
		"relevance": SortRelevance,
		" Rating ":  SortRating,
		"PLAYERS":   SortPlayers,
		"trending":  SortTrending,
	} {
		got, err := ParseSortMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSortMode("newest")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSearchRequest_WithDefaults(t *testing.T) {
	t.Parallel()

	got, err := SearchRequest{Query: "doors", Limit: 500, MinLiveCount: -3}.WithDefaults()
	require.NoError(t, err)
	assert.Equal(t, SortRelevance, got.Sort)
	assert.Equal(t, MaxSearchLimit, got.Limit)
	assert.Equal(t, 0, got.MinLiveCount)

	got, err = SearchRequest{Query: strings.Repeat("界", MaxQueryLength)}.WithDefaults()
	require.NoError(t, err, "the cap counts runes, not bytes")
	assert.Equal(t, MaxQueryLength, utf8.RuneCountInString(got.Query))

	got, err = SearchRequest{Query: "doors"}.WithDefaults()
	require.NoError(t, err)
	assert.Equal(t, DefaultSearchLimit, got.Limit)

	invalid := []SearchRequest{
		{Query: "   "},
		{Query: "x", MinRating: ptr(-1.0)},
		{Query: "x", MaxRating: ptr(100.5)},
		{Query: "x", MinRating: ptr(80.0), MaxRating: ptr(20.0)},
		{Query: "x", Sort: "newest"},
		{Query: "x", Sort: SortNew},
		{Query: strings.Repeat("a", MaxQueryLength+1)},
		{Query: strings.Repeat("🔥", MaxQueryLength+1)},
	}
	for _, req := range invalid {
		_, err := req.WithDefaults()
		assert.ErrorIs(t, err, ErrInvalidRequest, "%+v", req)
	}
}

func TestSearchRequest_RatingBounds(t *testing.T) {
	t.Parallel()

	req := SearchRequest{}
	assert.False(t, req.HasRatingFilter())

	req.MinRating = ptr(70.0)
	assert.True(t, req.HasRatingFilter())
	lo, hi := req.RatingBounds()
	assert.Equal(t, 70.0, lo)
	assert.Equal(t, 100.0, hi)
}

func TestGenreSet(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SearchRequest{}.GenreSet())
	assert.Nil(t, SearchRequest{Genres: []string{" ", ""}}.GenreSet())
	assert.Equal(t, map[string]struct{}{"rpg": {}, "horror": {}}, SearchRequest{Genres: []string{" RPG", "horror", "rpg"}}.GenreSet())

	g := Game{Genres: []string{"horror", "survival"}}
	assert.True(t, g.HasGenre(SearchRequest{Genres: []string{"Horror"}}.GenreSet()))
	assert.False(t, g.HasGenre(SearchRequest{Genres: []string{"rpg"}}.GenreSet()))
}

func TestListRequest_WithDefaults(t *testing.T) {
	t.Parallel()

	got, err := ListRequest{Offset: -4}.WithDefaults()
	require.NoError(t, err)
	assert.Equal(t, SortTrending, got.Sort)
	assert.Equal(t, DefaultListLimit, got.Limit)
	assert.Equal(t, 0, got.Offset)

	got, err = ListRequest{Limit: 1000, Sort: "rating"}.WithDefaults()
	require.NoError(t, err)
	assert.Equal(t, MaxListLimit, got.Limit)
	assert.Equal(t, SortRating, got.Sort)

	for _, sort := range []SortMode{"new", " NEW "} {
		got, err = ListRequest{Sort: sort}.WithDefaults()
		require.NoError(t, err)
		assert.Equal(t, SortPlayers, got.Sort)
	}

	assert.False(t, ListRequest{MinRating: ptr(0.0), MaxRating: ptr(100.0)}.HasRatingFilter())
	assert.True(t, ListRequest{MaxRating: ptr(99.0)}.HasRatingFilter())
}
