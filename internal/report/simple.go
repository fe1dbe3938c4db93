package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/pwforge/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// showExamples controls whether the example candidates are printed.
	showExamples bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithExamples controls whether example candidates are printed. Default true.
func WithExamples(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showExamples = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter:   newBaseWriter(output),
		showExamples: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeConfiguration(&sb, report)
	w.writeSeeds(&sb, report)
	w.writeCrawl(&sb, report)
	w.writeStages(&sb, report)
	w.writeResult(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        PWFORGE RUN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Run ID:         %s\n", report.ID)
	fmt.Fprintf(sb, "Started:        %s\n", report.StartedAt.Format(dateLayout))
	fmt.Fprintf(sb, "Duration:       %s\n", duration(report))
	fmt.Fprintf(sb, "Output:         %s\n", report.Options.Output)

	switch report.Status {
	case model.RunInterrupted:
		sb.WriteString("Status:         INTERRUPTED (partial wordlist)\n")
	case model.RunFailed:
		fmt.Fprintf(sb, "Status:         FAILED - %s\n", report.Error)
	default:
		sb.WriteString("Status:         Complete\n")
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeConfiguration(sb *strings.Builder, report *model.RunReport) {
	section(sb, "CONFIGURATION")

	fmt.Fprintf(sb, "  Target count:   %s\n", count(report.Options.MaxCombos))
	fmt.Fprintf(sb, "  Min length:     %d characters\n", report.Options.MinLength)
	fmt.Fprintf(sb, "  Similar chars:  %s\n", similarText(report))
	fmt.Fprintf(sb, "  Symbols:        %s\n", symbolText(report))
	fmt.Fprintf(sb, "  Append:         %s\n", appendText(report))
	fmt.Fprintf(sb, "  Slang list:     %s terms\n", count(report.Options.SlangWords))
	fmt.Fprintf(sb, "  Breach list:    %s entries\n", count(report.Options.BreachWords))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSeeds(sb *strings.Builder, report *model.RunReport) {
	section(sb, "SEED WORDS")

	fmt.Fprintf(sb, "  Base words:     %s\n", count(report.Seeds.BaseWords))
	fmt.Fprintf(sb, "  Crawled words:  %s\n", count(report.Seeds.CrawledWords))
	fmt.Fprintf(sb, "  Total:          %s\n", count(report.Seeds.Total))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeCrawl(sb *strings.Builder, report *model.RunReport) {
	c := report.Crawl
	if c == nil {
		return
	}
	section(sb, "CRAWL")

	fmt.Fprintf(sb, "  Seed URLs:      %d (%d invalid)\n", c.SeedURLs, c.InvalidURLs)
	fmt.Fprintf(sb, "  Depth:          %d\n", report.Options.CrawlDepth)
	fmt.Fprintf(sb, "  Languages:      %s\n", strings.Join(report.Options.Languages, ", "))
	fmt.Fprintf(sb, "  Pages fetched:  %s\n", count(c.PagesFetched))
	fmt.Fprintf(sb, "  Page errors:    %s\n", count(c.PageErrors))
	fmt.Fprintf(sb, "  Duplicates:     %s\n", count(c.DuplicatePages))
	fmt.Fprintf(sb, "  Tokens:         %s\n", count(c.Tokens))
	fmt.Fprintf(sb, "    excluded:       %s\n", count(c.Excluded))
	fmt.Fprintf(sb, "    wrong language: %s\n", count(c.WrongLanguage))
	fmt.Fprintf(sb, "    accepted:       %s\n", count(c.Accepted))
	if c.EXIFImages > 0 {
		fmt.Fprintf(sb, "  EXIF images:    %s (%s words)\n", count(c.EXIFImages), count(c.EXIFWords))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeStages(sb *strings.Builder, report *model.RunReport) {
	section(sb, "STAGES")

	if len(report.Stages) == 0 {
		sb.WriteString("  No stage ran\n\n")
		return
	}

	fmt.Fprintf(sb, "  %-18s %12s %12s %12s %12s\n", "STAGE", "PRODUCED", "ACCEPTED", "TOO SHORT", "DUPLICATES")
	for _, s := range report.Stages {
		fmt.Fprintf(sb, "  %-18s %12s %12s %12s %12s\n",
			s.Name, count(s.Produced), count(s.Accepted), count(s.TooShort), count(s.Duplicates))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeResult(sb *strings.Builder, report *model.RunReport) {
	section(sb, "RESULT")

	fmt.Fprintf(sb, "  Written:        %s\n", count(report.Accepted))
	fmt.Fprintf(sb, "  Lines in file:  %s\n", count(report.Total()))
	fmt.Fprintf(sb, "  Target reached: %s\n", yesNo(report.TargetReached))
	fmt.Fprintf(sb, "  Rate:           %s\n", rate(report))

	if w.showExamples && len(report.Examples) > 0 {
		sb.WriteString("\n  Examples:\n")
		for _, e := range report.Examples {
			fmt.Fprintf(sb, "    %s\n", e)
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by pwforge\n")
	sb.WriteString("https://github.com/nao1215/pwforge\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
