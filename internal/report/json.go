package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/pwforge/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is shorthand for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonReport adds derived values to the stored report.
type jsonReport struct {
	*model.RunReport

	DurationMS int64   `json:"duration_ms"`
	Rate       float64 `json:"rate_per_second"`
	Produced   int     `json:"produced"`
	TotalLines int     `json:"total_lines"`
}

// Write outputs the report in JSON format, followed by a newline.
func (w *JSONWriter) Write(report *model.RunReport) (int, error) {
	v := jsonReport{
		RunReport:  report,
		DurationMS: report.Duration().Milliseconds(),
		Rate:       report.Rate(),
		Produced:   report.Produced(),
		TotalLines: report.Total(),
	}

	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
