package collector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LineWriter receives accepted candidates one line at a time.
type LineWriter interface {
	WriteLine(line string) error
}

// FileSink writes a newline-delimited wordlist.
// Every line is handed to the OS before WriteLine returns.
type FileSink struct {
	file  *os.File
	lines int
}

// OpenFileSink opens path for writing. With appendMode the existing content
// is kept and new lines are added after it; otherwise the file is truncated.
// The file is created with mode 0600 if it does not exist.
func OpenFileSink(path string, appendMode bool) (*FileSink, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_RDWR | os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0o600) //nolint:gosec // output path is user-provided
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	if appendMode {
		if err := terminateLastLine(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to prepare output file: %w", err)
		}
	}

	return &FileSink{file: f}, nil
}

// terminateLastLine adds a newline when the file ends without one, so
// appended candidates never join the last existing line.
func terminateLastLine(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err = f.WriteString("\n")
	return err
}

// WriteLine writes line followed by a newline.
func (s *FileSink) WriteLine(line string) error {
	if _, err := s.file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to write candidate: %w", err)
	}
	s.lines++
	return nil
}

// Lines returns the number of lines written through this sink.
func (s *FileSink) Lines() int {
	return s.lines
}

// Path returns the name of the output file.
func (s *FileSink) Path() string {
	return s.file.Name()
}

// Close syncs and closes the output file.
func (s *FileSink) Close() error {
	syncErr := s.file.Sync()
	closeErr := s.file.Close()
	return errors.Join(syncErr, closeErr)
}

// LoadExisting reads the lines of an existing wordlist.
// Blank lines are skipped and duplicates are kept once. A missing file
// yields no lines and no error.
func LoadExisting(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // output path is user-provided
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open existing output: %w", err)
	}
	defer f.Close()

	return readLines(f)
}

func readLines(r io.Reader) ([]string, error) {
	seen := make(map[string]struct{})
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read existing output: %w", err)
	}
	return lines, nil
}
