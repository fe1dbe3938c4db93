package pipeline

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Stage names, in default pipeline order.
const (
	StageBasicVariation   = "basic_variation"
	StageWordMerging      = "word_merging"
	StageNumberMixing     = "number_mixing"
	StageAdvancedPatterns = "advanced_patterns"
)

// Random ranges drawn by number mixing and advanced patterns.
const (
	minRandomSuffix = 1
	maxRandomSuffix = 9999
	minLongNumber   = 10000000
	maxLongNumber   = 39999999
	minYear         = 1970
	maxYear         = 2024

	// symbolAfterProbability is the chance number mixing appends the symbol
	// instead of prepending it.
	symbolAfterProbability = 0.7
)

// Stage produces candidates from a seed vocabulary.
type Stage interface {
	// Name identifies the stage in logs and reports.
	Name() string

	// Candidates returns a lazy sequence of candidates built from seeds.
	// The sequence may yield duplicates; filtering is up to the consumer.
	Candidates(seeds []string) iter.Seq[string]
}

// BasicVariation yields the lowercase, capitalized and uppercase form of
// every seed. Seeds containing an apostrophe get no uppercase form.
type BasicVariation struct {
	noSimilar bool
}

// NewBasicVariation creates the basic_variation stage.
func NewBasicVariation(noSimilar bool) *BasicVariation {
	return &BasicVariation{noSimilar: noSimilar}
}

// Name implements Stage.
func (*BasicVariation) Name() string { return StageBasicVariation }

// Candidates implements Stage.
func (s *BasicVariation) Candidates(seeds []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		c := newCaser()
		for _, word := range seeds {
			variants := []string{c.lower.String(word), c.capitalize(word)}
			if !strings.Contains(word, "'") {
				variants = append(variants, c.upper.String(word))
			}
			for _, v := range variants {
				if s.noSimilar {
					v = ReplaceSimilar(v)
				}
				if !yield(v) {
					return
				}
			}
		}
	}
}

// WordMerging joins every ordered pair of distinct seed positions with each
// separator. Only the first word is capitalized.
type WordMerging struct {
	separators []string
	noSimilar  bool
}

// NewWordMerging creates the word_merging stage.
func NewWordMerging(separators []string, noSimilar bool) *WordMerging {
	return &WordMerging{separators: slices.Clone(separators), noSimilar: noSimilar}
}

// Name implements Stage.
func (*WordMerging) Name() string { return StageWordMerging }

// Candidates implements Stage.
func (s *WordMerging) Candidates(seeds []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		c := newCaser()
		for i, first := range seeds {
			head := c.capitalize(first)
			for j, second := range seeds {
				if i == j {
					continue
				}
				for _, sep := range s.separators {
					combo := head + sep + second
					if s.noSimilar {
						combo = ReplaceSimilar(combo)
					}
					if !yield(combo) {
						return
					}
				}
			}
		}
	}
}

// NumberMixing appends the numeric patterns plus one random number per seed,
// and adds a random symbol before or after.
type NumberMixing struct {
	patterns []string
	symbols  []string
	rand     Rand
}

// NewNumberMixing creates the number_mixing stage. A nil rng uses DefaultRand.
func NewNumberMixing(patterns, symbols []string, rng Rand) *NumberMixing {
	if rng == nil {
		rng = DefaultRand()
	}
	return &NumberMixing{
		patterns: slices.Clone(patterns),
		symbols:  slices.Clone(symbols),
		rand:     rng,
	}
}

// Name implements Stage.
func (*NumberMixing) Name() string { return StageNumberMixing }

// Candidates implements Stage.
func (s *NumberMixing) Candidates(seeds []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		c := newCaser()
		for _, word := range seeds {
			numbers := append(slices.Clone(s.patterns),
				strconv.Itoa(between(s.rand, minRandomSuffix, maxRandomSuffix)))
			capitalized := c.capitalize(word)

			for _, num := range numbers {
				if !yield(capitalized + num) {
					return
				}
				if !yield(word + num) {
					return
				}

				var mixed string
				if s.rand.Float64() < symbolAfterProbability {
					mixed = word + num + pick(s.rand, s.symbols)
				} else {
					mixed = pick(s.rand, s.symbols) + word + num
				}
				if !yield(mixed) {
					return
				}
			}
		}
	}
}

// AdvancedPatterns yields, per seed, a long random number suffix, a random
// year followed by a symbol, and the word wrapped in two random symbols.
type AdvancedPatterns struct {
	symbols []string
	rand    Rand
}

// NewAdvancedPatterns creates the advanced_patterns stage. A nil rng uses DefaultRand.
func NewAdvancedPatterns(symbols []string, rng Rand) *AdvancedPatterns {
	if rng == nil {
		rng = DefaultRand()
	}
	return &AdvancedPatterns{symbols: slices.Clone(symbols), rand: rng}
}

// Name implements Stage.
func (*AdvancedPatterns) Name() string { return StageAdvancedPatterns }

// Candidates implements Stage.
func (s *AdvancedPatterns) Candidates(seeds []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, word := range seeds {
			if !yield(word + strconv.Itoa(between(s.rand, minLongNumber, maxLongNumber))) {
				return
			}

			year := strconv.Itoa(between(s.rand, minYear, maxYear))
			if !yield(word + year + pick(s.rand, s.symbols)) {
				return
			}

			prefix := pick(s.rand, s.symbols)
			if !yield(prefix + word + pick(s.rand, s.symbols)) {
				return
			}
		}
	}
}
