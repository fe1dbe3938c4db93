package wordsource

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LinguaDetector detects the language of single tokens with lingua-go.
// It is built from every language lingua knows, so a token from a
// non-target language is recognized as such instead of being forced into
// a target language.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds a low accuracy mode detector.
func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithLowAccuracyMode().
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code of token's language. ok is
// false when lingua cannot decide.
func (d *LinguaDetector) Detect(token string) (string, bool) {
	lang, ok := d.detector.DetectLanguageOf(token)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// IsSupportedLanguage reports whether code is an ISO 639-1 code lingua
// can detect.
func IsSupportedLanguage(code string) bool {
	for _, lang := range lingua.AllLanguages() {
		if strings.EqualFold(lang.IsoCode639_1().String(), code) {
			return true
		}
	}
	return false
}
