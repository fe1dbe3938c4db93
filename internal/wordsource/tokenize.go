package wordsource

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Token length bounds in runes.
const (
	MinTokenLength = 3
	MaxTokenLength = 20
)

// Tokenize lowercases text and splits it into word-like tokens: runs of
// letters, digits, underscores and apostrophes with apostrophes trimmed
// from both ends. Runs outside the token length bounds are dropped.
// Text is NFC-normalized first so composed and decomposed accents give
// the same token.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		token := strings.Trim(current.String(), "'")
		current.Reset()
		if n := utf8.RuneCountInString(token); n >= MinTokenLength && n <= MaxTokenLength {
			tokens = append(tokens, token)
		}
	}

	for _, r := range norm.NFC.String(text) {
		if isTokenRune(r) {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()

	return tokens
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\''
}
