package wordsource

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/pwforge/internal/config"
)

// NormalizeSeed trims and lowercases w and reports whether the result is
// an admissible seed word.
func NormalizeSeed(w string) (string, bool) {
	w = cases.Lower(language.Und).String(strings.TrimSpace(w))
	n := utf8.RuneCountInString(w)
	if n < config.MinSeedLength || n > config.MaxSeedLength {
		return "", false
	}
	return w, true
}

// SeedSet is the deduplicated, frozen seed vocabulary of a run.
// Words keep first-admission order: base words first, then crawled words.
type SeedSet struct {
	words []string
	index map[string]struct{}
	base  int
}

// NewSeedSet normalizes base and crawled and returns their union.
func NewSeedSet(base, crawled []string) *SeedSet {
	s := &SeedSet{index: make(map[string]struct{}, len(base)+len(crawled))}
	for _, w := range base {
		if s.add(w) {
			s.base++
		}
	}
	for _, w := range crawled {
		s.add(w)
	}
	return s
}

func (s *SeedSet) add(raw string) bool {
	w, ok := NormalizeSeed(raw)
	if !ok {
		return false
	}
	if _, dup := s.index[w]; dup {
		return false
	}
	s.index[w] = struct{}{}
	s.words = append(s.words, w)
	return true
}

// Words returns a copy of the seed words in admission order.
func (s *SeedSet) Words() []string {
	out := make([]string, len(s.words))
	copy(out, s.words)
	return out
}

// Len returns the number of seed words.
func (s *SeedSet) Len() int {
	return len(s.words)
}

// Contains reports whether w, after normalization, is a seed word.
func (s *SeedSet) Contains(w string) bool {
	w, ok := NormalizeSeed(w)
	if !ok {
		return false
	}
	_, found := s.index[w]
	return found
}

// BaseCount returns how many seed words came from the base word list.
func (s *SeedSet) BaseCount() int {
	return s.base
}

// CrawledCount returns how many seed words came only from crawling.
func (s *SeedSet) CrawledCount() int {
	return len(s.words) - s.base
}
