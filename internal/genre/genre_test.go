package genre

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  []string
	}{
		{title: "Blox Fruits", want: []string{"rpg"}},
		{title: "DOORS", want: []string{"horror"}},
		{title: "Tower of Hell", want: []string{"obby"}},
		{title: "Zombie Survival Tycoon", want: []string{"survival", "tycoon"}},
		{title: "Untitled Place", want: []string{Default}},
		{title: "", want: []string{Default}},
		{title: "Brookhaven 🏡RP", want: []string{"roleplay"}},
		{title: "Arsenal", want: []string{"shooter"}},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.title))
		})
	}
}

func TestClassify_SortedAndUnique(t *testing.T) {
	t.Parallel()

	// "fighting" and "combat" both imply pvp and fighting
	got := Classify("Combat Fighting Arena Parkour")
	assert.True(t, slices.IsSorted(got))
	assert.Equal(t, slices.Compact(slices.Clone(got)), got)
	assert.Subset(t, got, []string{"fighting", "pvp", "obby", "parkour"})
}

func TestList(t *testing.T) {
	t.Parallel()

	genres := List()
	require.Len(t, genres, 20)
	assert.Equal(t, "RPG", genres[0].Name)

	genres[0].Name = "changed"
	assert.Equal(t, "RPG", List()[0].Name)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	g, ok := Lookup("Story-Driven")
	require.True(t, ok)
	assert.Equal(t, "story-driven", g.Slug)

	g, ok = Lookup("PVP")
	require.True(t, ok)
	assert.Equal(t, "swords", g.Icon)

	_, ok = Lookup("obby")
	assert.False(t, ok)
}
