package pipeline

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// similarReplacer swaps characters that are easy to confuse for their
// look-alike digits and symbols.
var similarReplacer = strings.NewReplacer("i", "1", "o", "0", "s", "$")

// ReplaceSimilar applies the i→1, o→0, s→$ substitution. Only lowercase
// letters are replaced.
func ReplaceSimilar(s string) string {
	return similarReplacer.Replace(s)
}

// caser bundles the x/text casers used by one iteration. cases.Caser keeps
// state and must not be shared between goroutines.
type caser struct {
	upper cases.Caser
	lower cases.Caser
}

func newCaser() *caser {
	return &caser{
		upper: cases.Upper(language.Und),
		lower: cases.Lower(language.Und),
	}
}

// capitalize upper-cases the first rune and lower-cases the rest.
func (c *caser) capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return c.upper.String(s[:size]) + c.lower.String(s[size:])
}

// Capitalize returns s with its first rune upper-cased and the rest
// lower-cased, e.g. "jAMBO" becomes "Jambo".
func Capitalize(s string) string {
	return newCaser().capitalize(s)
}
