package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/pwforge/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *model.RunReport {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r := model.NewRunReport(started)
	r.FinishedAt = started.Add(2 * time.Second)
	r.Options = model.RunOptions{
		Output:      "passwords.txt",
		MaxCombos:   100000,
		MinLength:   8,
		NoSimilar:   true,
		URLs:        []string{"https://habari.co.ke/"},
		CrawlDepth:  2,
		Languages:   []string{"sw"},
		SlangWords:  42,
		BreachWords: 1200,
	}
	r.Seeds = model.SeedStats{BaseWords: 2, CrawledWords: 3, Total: 5}
	r.Crawl = &model.CrawlStats{SeedURLs: 1, PagesFetched: 4, Tokens: 80, Accepted: 3, WrongLanguage: 70, Excluded: 7}
	r.Stages = []model.StageStats{
		{Name: "basic_variation", Produced: 15, Accepted: 5, TooShort: 10},
		{Name: "word_merging", Produced: 2000, Accepted: 1995, Duplicates: 5},
	}
	r.Accepted = 2000
	r.Examples = []string{"Jambo_pesa", "Jambopesa"}
	return r
}

func TestNewWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"", false},
		{"json", false},
		{"markdown", false},
		{"xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			w, err := NewWriter(tt.format, &bytes.Buffer{})
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil || w == nil {
				t.Errorf("unexpected result: %v, %v", w, err)
			}
		})
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes all sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		output := buf.String()
		for _, want := range []string{
			"PWFORGE RUN REPORT",
			"CONFIGURATION",
			"100,000",
			"replaced (i→1, o→0, s→$)",
			"1,200 entries",
			"SEED WORDS",
			"CRAWL",
			"word_merging",
			"1,995",
			"Target reached: no",
			"1,000/s",
			"Jambo_pesa",
			"Status:         Complete",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("omits crawl section without urls", func(t *testing.T) {
		t.Parallel()

		r := createTestReport()
		r.Crawl = nil
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(r); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(buf.String(), "\nCRAWL\n") {
			t.Error("expected no crawl section")
		}
	})

	t.Run("hides examples", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithExamples(false)).Write(createTestReport()); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(buf.String(), "Jambo_pesa") {
			t.Error("examples must be hidden")
		}
	})

	t.Run("status lines", func(t *testing.T) {
		t.Parallel()

		r := createTestReport()
		r.Status = model.RunFailed
		r.Error = "disk full"
		var buf bytes.Buffer
		_, _ = NewSimpleWriter(&buf).Write(r)
		if !strings.Contains(buf.String(), "FAILED - disk full") {
			t.Errorf("expected failed status, got %s", buf.String())
		}

		r.Status = model.RunInterrupted
		buf.Reset()
		_, _ = NewSimpleWriter(&buf).Write(r)
		if !strings.Contains(buf.String(), "INTERRUPTED") {
			t.Error("expected interrupted status")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatal(err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("expected a single line, got %q", buf.String())
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["accepted"] != float64(2000) {
			t.Errorf("accepted = %v", decoded["accepted"])
		}
		if decoded["duration_ms"] != float64(2000) {
			t.Errorf("duration_ms = %v", decoded["duration_ms"])
		}
		if decoded["produced"] != float64(2015) {
			t.Errorf("produced = %v", decoded["produced"])
		}
		if _, ok := decoded["crawl"].(map[string]any); !ok {
			t.Error("expected crawl object")
		}
	})

	t.Run("pretty print decodes back into the model", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestReport()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "\n  \"id\"") {
			t.Error("expected indented output")
		}

		var decoded model.RunReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatal(err)
		}
		if len(decoded.Stages) != 2 || decoded.Examples[0] != "Jambo_pesa" {
			t.Errorf("unexpected decoded report: %+v", decoded)
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("tables and chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatal(err)
		}
		output := buf.String()
		for _, want := range []string{
			"# pwforge Run Report",
			"## Stages",
			"```mermaid",
			"Accepted Candidates per Stage",
			"`word_merging`",
			"`Jambo_pesa`",
			"✅ Complete",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("no chart without accepted candidates", func(t *testing.T) {
		t.Parallel()

		r := createTestReport()
		r.Accepted = 0
		r.Examples = nil
		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(r); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(buf.String(), "mermaid") {
			t.Error("expected no pie chart")
		}
		if !strings.Contains(buf.String(), "minimum length") {
			t.Error("expected minimum length hint")
		}
	})
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))
	n, err := mw.Write(createTestReport())
	if err != nil {
		t.Fatal(err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("expected total bytes %d, got %d", text.Len()+js.Len(), n)
	}
}
