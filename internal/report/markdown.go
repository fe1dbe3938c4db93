package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/pwforge/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeConfiguration(md, report)
	w.writeSeeds(md, report)
	w.writeStages(md, report)
	w.writeResult(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("pwforge Run Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + report.ID + "`"},
			{"Started", report.StartedAt.Format(dateLayout)},
			{"Duration", duration(report)},
			{"Output", "`" + report.Options.Output + "`"},
			{"Status", statusText(report)},
		},
	})
	md.PlainText("")
}

func statusText(report *model.RunReport) string {
	switch report.Status {
	case model.RunInterrupted:
		return "⚠️ Interrupted (partial wordlist)"
	case model.RunFailed:
		return "❌ Failed - " + report.Error
	default:
		return "✅ Complete"
	}
}

func (w *MarkdownWriter) writeConfiguration(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Configuration")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Setting", "Value"},
		Rows: [][]string{
			{"Target count", count(report.Options.MaxCombos)},
			{"Min length", strconv.Itoa(report.Options.MinLength)},
			{"Similar characters", similarText(report)},
			{"Symbols", symbolText(report)},
			{"Append", appendText(report)},
			{"Slang list", count(report.Options.SlangWords) + " terms"},
			{"Breach list", count(report.Options.BreachWords) + " entries"},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSeeds(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Seed Words")
	md.PlainText("")

	rows := [][]string{
		{"Base words", count(report.Seeds.BaseWords)},
		{"Crawled words", count(report.Seeds.CrawledWords)},
		{"**Total**", "**" + count(report.Seeds.Total) + "**"},
	}
	if c := report.Crawl; c != nil {
		rows = append(rows,
			[]string{"Seed URLs", strconv.Itoa(c.SeedURLs)},
			[]string{"Languages", strings.Join(report.Options.Languages, ", ")},
			[]string{"Pages fetched", count(c.PagesFetched)},
			[]string{"Page errors", count(c.PageErrors)},
			[]string{"Tokens examined", count(c.Tokens)},
			[]string{"Tokens excluded", count(c.Excluded)},
			[]string{"Wrong language", count(c.WrongLanguage)},
		)
		if c.EXIFImages > 0 {
			rows = append(rows, []string{"EXIF words", count(c.EXIFWords)})
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Source", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeStages(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Stages")
	md.PlainText("")

	if len(report.Stages) == 0 {
		md.PlainText("No stage ran.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Stages))
	for i, s := range report.Stages {
		rows[i] = []string{
			"`" + s.Name + "`",
			count(s.Produced),
			count(s.Accepted),
			count(s.TooShort),
			count(s.Duplicates),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Stage", "Produced", "Accepted", "Too short", "Duplicates"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.Accepted > 0 {
		w.writePieChart(md, report)
	}
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.RunReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Accepted Candidates per Stage"),
		piechart.WithShowData(true),
	)
	for _, s := range report.Stages {
		if s.Accepted > 0 {
			chart.LabelAndIntValue(s.Name, uint64(s.Accepted))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeResult(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Result")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Written", count(report.Accepted)},
			{"Lines in file", count(report.Total())},
			{"Target reached", yesNo(report.TargetReached)},
			{"Rate", rate(report)},
		},
	})
	md.PlainText("")

	switch {
	case report.Status == model.RunFailed:
		md.Cautionf("The run failed: %s", report.Error)
	case report.Status == model.RunInterrupted:
		md.Warningf("The run was interrupted. The wordlist holds %s lines.", count(report.Total()))
	case report.Accepted == 0 && !report.TargetReached:
		md.Importantf("No candidate reached the minimum length of %d characters.", report.Options.MinLength)
	case report.TargetReached:
		md.Tip("The target count was reached.")
	default:
		md.Note("Every stage was exhausted before the target count was reached.")
	}
	md.PlainText("")

	if len(report.Examples) > 0 {
		md.H3("Examples")
		md.PlainText("")
		examples := make([]string, len(report.Examples))
		for i, e := range report.Examples {
			examples[i] = "`" + e + "`"
		}
		md.BulletList(examples...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [pwforge](https://github.com/nao1215/pwforge)*")
}
