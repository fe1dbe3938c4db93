package wordsource

import "strings"

// Detector identifies the language of a single token.
type Detector interface {
	// Detect returns the lowercase ISO 639-1 code of token's language, or
	// ok == false when the language cannot be determined.
	Detect(token string) (code string, ok bool)
}

// Verdict is the outcome of classifying one token.
type Verdict int

const (
	// Accepted tokens become seed words.
	Accepted Verdict = iota
	// Excluded tokens are on the slang or breach list.
	Excluded
	// WrongLanguage tokens were detected as a non-target language or
	// could not be detected at all.
	WrongLanguage
)

// String returns the verdict name used in logs.
func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case Excluded:
		return "excluded"
	case WrongLanguage:
		return "wrong_language"
	default:
		return "unknown"
	}
}

// Classifier decides which crawled tokens become seed words.
type Classifier struct {
	excluded  map[string]struct{}
	languages map[string]struct{}
	detector  Detector
	slang     int
	breach    int
}

// NewClassifier creates a Classifier. slang and breach are the exclusion
// lists, languages the target ISO 639-1 codes. A nil detector rejects
// every token that reaches language detection.
func NewClassifier(detector Detector, languages, slang, breach []string) *Classifier {
	c := &Classifier{
		excluded:  make(map[string]struct{}, len(slang)+len(breach)),
		languages: make(map[string]struct{}, len(languages)),
		detector:  detector,
		slang:     len(slang),
		breach:    len(breach),
	}
	for _, w := range slang {
		c.excluded[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range breach {
		c.excluded[strings.ToLower(w)] = struct{}{}
	}
	for _, l := range languages {
		c.languages[strings.ToLower(strings.TrimSpace(l))] = struct{}{}
	}
	return c
}

// IsExcluded reports whether token is on an exclusion list.
func (c *Classifier) IsExcluded(token string) bool {
	_, ok := c.excluded[strings.ToLower(token)]
	return ok
}

// Classify applies the exclusion lists, then language detection.
func (c *Classifier) Classify(token string) Verdict {
	if c.IsExcluded(token) {
		return Excluded
	}
	if c.detector == nil {
		return WrongLanguage
	}
	code, ok := c.detector.Detect(token)
	if !ok {
		return WrongLanguage
	}
	if _, target := c.languages[code]; !target {
		return WrongLanguage
	}
	return Accepted
}

// SlangCount returns the size of the slang exclusion list.
func (c *Classifier) SlangCount() int {
	return c.slang
}

// BreachCount returns the size of the breach exclusion list.
func (c *Classifier) BreachCount() int {
	return c.breach
}
