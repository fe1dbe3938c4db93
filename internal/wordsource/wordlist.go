package wordsource

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LoadWordlist reads a newline-delimited word list. Entries are trimmed
// and lowercased, blank lines are skipped. A missing file is an empty
// list, not an error.
func LoadWordlist(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path) //nolint:gosec // user-provided list path is intentional
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer f.Close()

	lower := cases.Lower(language.Und)
	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if w := strings.TrimSpace(scanner.Text()); w != "" {
			words = append(words, lower.String(w))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list %s: %w", path, err)
	}
	return words, nil
}
