package search

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// decoration matches the pictograph, misc symbol and dingbat blocks, the emoji
// presentation selector and zero width joiner, and the bracket styles used to
// decorate titles such as "【UPDATE】 Blox Fruits 🔥".
var decoration = runes.Predicate(func(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F9FF,
		r >= 0x2600 && r <= 0x26FF,
		r >= 0x2700 && r <= 0x27BF,
		r == 0xFE0F, r == 0x200D:
		return true
	}
	switch r {
	case '[', ']', '(', ')', '（', '）', '【', '】', '《', '》', '〈', '〉':
		return true
	}
	return false
})

// Normalize strips emoji and decorative brackets, composes what is left to NFC,
// collapses whitespace runs to a single space and trims the result. It never
// fails and is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	stripped, _, err := transform.String(transform.Chain(runes.Remove(decoration), norm.NFC), text)
	if err != nil {
		stripped = text
	}
	return strings.Join(strings.Fields(stripped), " ")
}

// fold is Normalize followed by lowercasing, the form every comparison uses.
func fold(text string) string {
	return strings.ToLower(Normalize(text))
}
