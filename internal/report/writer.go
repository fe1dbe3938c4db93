package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nao1215/pwforge/internal/config"
	"github.com/nao1215/pwforge/internal/model"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.RunReport) (int, error)
}

// NewWriter returns the Writer for format, one of config.ReportText,
// config.ReportJSON or config.ReportMarkdown.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch format {
	case config.ReportText, "":
		return NewSimpleWriter(output), nil
	case config.ReportJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case config.ReportMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// MultiWriter writes to multiple Writers in order.
// It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
func (m *MultiWriter) Write(report *model.RunReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

const dateLayout = "2006-01-02 15:04:05 MST"

func count(n int) string {
	return humanize.Comma(int64(n))
}

func rate(r *model.RunReport) string {
	return humanize.CommafWithDigits(r.Rate(), 1) + "/s"
}

func duration(r *model.RunReport) string {
	return r.Duration().Round(time.Millisecond).String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func similarText(r *model.RunReport) string {
	if r.Options.NoSimilar {
		return "replaced (i→1, o→0, s→$)"
	}
	return "kept"
}

func symbolText(r *model.RunReport) string {
	if r.Options.CustomSymbols {
		return "custom"
	}
	return "default"
}

func appendText(r *model.RunReport) string {
	if !r.Options.Append {
		return "no"
	}
	return "yes (" + strconv.Itoa(r.Preexisting) + " existing lines)"
}
