package search

import (
	"math"
	"strings"

	"roblox-discovery/internal/domain"
)

// Relevance factor names, as reported by Explain.
const (
	FactorExact       = "exact"
	FactorPrefix      = "prefix"
	FactorRawPrefix   = "raw_prefix"
	FactorConsecutive = "consecutive"
	FactorPhrase      = "phrase"
	FactorRawPhrase   = "raw_phrase"
	FactorPosition    = "position"
	FactorWordRatio   = "word_ratio"
	FactorPopularity  = "popularity"
	FactorRating      = "rating"
)

const (
	exactMultiplier       = 0.05
	prefixMultiplier      = 0.3
	rawPrefixMultiplier   = 0.5
	consecutiveMultiplier = 0.4
	phraseMultiplier      = 0.6
	rawPhraseMultiplier   = 0.7
	ratingMultiplier      = 0.97

	positionWeight   = 0.2
	wordRatioWeight  = 0.3
	popularityWeight = 0.2
	popularityScale  = 100000.0
	popularityCap    = 1.5
	highRating       = 90
)

type Factor struct {
	Name       string
	Multiplier float64
}

// Breakdown is the full account of how a relevance score was reached.
type Breakdown struct {
	Base    float64
	Factors []Factor
	Final   float64
}

// Has reports whether the named factor was applied.
func (b Breakdown) Has(name string) bool {
	for _, f := range b.Factors {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Score returns the composite relevance of g for query; lower is better.
func Score(g domain.Game, base float64, query string) float64 {
	return Explain(g, base, query).Final
}

// Explain computes the relevance score of g and lists every multiplier applied
// to base*100.
func Explain(g domain.Game, base float64, query string) Breakdown {
	b := Breakdown{Base: base, Final: base * 100}
	apply := func(name string, m float64) {
		b.Factors = append(b.Factors, Factor{Name: name, Multiplier: m})
		b.Final *= m
	}

	rawName := strings.ToLower(g.Title)
	rawQuery := strings.ToLower(query)
	name := fold(g.Title)
	q := fold(query)

	if (rawQuery != "" && rawName == rawQuery) || (q != "" && name == q) {
		apply(FactorExact, exactMultiplier)
	}

	switch {
	case q != "" && strings.HasPrefix(name, q):
		apply(FactorPrefix, prefixMultiplier)
	case rawQuery != "" && strings.HasPrefix(rawName, rawQuery):
		apply(FactorRawPrefix, rawPrefixMultiplier)
	}

	if q != "" && consecutiveMatch(name, q) {
		apply(FactorConsecutive, consecutiveMultiplier)
	}

	switch {
	case q != "" && strings.Contains(name, q):
		apply(FactorPhrase, phraseMultiplier)
	case rawQuery != "" && strings.Contains(rawName, rawQuery):
		apply(FactorRawPhrase, rawPhraseMultiplier)
	}

	if q != "" {
		if idx := strings.Index(name, q); idx >= 0 {
			pos := len([]rune(name[:idx]))
			length := len([]rune(name))
			apply(FactorPosition, 1-(float64(pos)/float64(length))*positionWeight)
		}
	}

	queryWords := max(len(strings.Fields(q)), 1)
	titleWords := max(len(strings.Fields(name)), 1)
	apply(FactorWordRatio, 2-(float64(queryWords)/float64(titleWords))*wordRatioWeight)

	popularity := math.Min(float64(g.LiveCount)/popularityScale, popularityCap)
	apply(FactorPopularity, 2-popularity*popularityWeight)

	if g.Rating != nil && *g.Rating >= highRating {
		apply(FactorRating, ratingMultiplier)
	}

	return b
}

// consecutiveMatch reports whether the query words line up, in order and without
// gaps, with a run of title words, each query word being a substring of the
// title word it is aligned with.
func consecutiveMatch(title, query string) bool {
	tw := strings.Fields(title)
	qw := strings.Fields(query)
	if len(qw) == 0 || len(qw) > len(tw) {
		return false
	}
	for i := 0; i+len(qw) <= len(tw); i++ {
		ok := true
		for j, w := range qw {
			if !strings.Contains(tw[i+j], w) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
