package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain title untouched", in: "Blox Fruits", want: "Blox Fruits"},
		{name: "collapses and trims whitespace", in: "  Blox   Fruits  ", want: "Blox Fruits"},
		{name: "tabs and newlines", in: "Tab\tand\nnewline", want: "Tab and newline"},
		{name: "emoji and cjk brackets", in: "【UPDATE】 Blox Fruits 🔥", want: "UPDATE Blox Fruits"},
		{name: "symbol emoji with selector", in: "[⚔️] Sword Fight", want: "Sword Fight"},
		{name: "ascii parens", in: "Doors (Hotel+)", want: "Doors Hotel+"},
		{name: "angle brackets", in: "《Anime》 〈Defenders〉", want: "Anime Defenders"},
		{name: "fullwidth parens", in: "Grow a Garden （NEW）", want: "Grow a Garden NEW"},
		{name: "only decoration", in: "🔥 [] 🌱", want: ""},
		{name: "keeps case", in: "99 NIGHTS", want: "99 NIGHTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		s := rapid.OneOf(
			rapid.String(),
			rapid.StringMatching(`[ a-zA-Z0-9\[\]()【】《》〈〉（）🔥⚔]{0,40}`),
		).Draw(t, "text")

		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}
