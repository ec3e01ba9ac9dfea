package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarkdownWriter outputs run summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeRunInfo(md, summary)
	w.writeSites(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title line for the summarized command.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	md.H1(commandTitle(summary.Command) + " Summary")
	md.PlainText("")
}

// writeRunInfo writes the run metadata table.
func (w *MarkdownWriter) writeRunInfo(md *markdown.Markdown, summary *Summary) {
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Date", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration.String()},
			{"Output", "`" + summary.OutputFile + "`"},
			{"Records In", strconv.Itoa(summary.InputCount)},
			{"Records Out", strconv.Itoa(summary.OutputCount)},
			{"Skipped", strconv.Itoa(summary.Skipped)},
		},
	})
	md.PlainText("")

	if summary.Skipped > 0 {
		md.Notef("%d record(s) were skipped during this run; rerun with --verbose to see why.",
			summary.Skipped)
		md.PlainText("")
	}
}

// writeSites writes one table row per output record.
func (w *MarkdownWriter) writeSites(md *markdown.Markdown, summary *Summary) {
	md.H2("Sites")
	md.PlainText("")

	if len(summary.Sites) == 0 {
		md.PlainText("No records produced.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Sites))
	for i, site := range summary.Sites {
		scrapedAt := site.ScrapedAt
		if scrapedAt == "" {
			scrapedAt = "-"
		}
		rows[i] = []string{
			site.SiteID,
			truncateString(site.Title, 50),
			strconv.Itoa(site.Pages),
			strconv.Itoa(site.Links),
			scrapedAt,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Site", "Title", "Pages", "Links", "Scraped At"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the summary footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by schoolscan*")
}

// commandTitle renders a command name as a display title ("crawl"
// becomes "Crawl").
func commandTitle(command string) string {
	if command == "" {
		return "Run"
	}
	return cases.Title(language.English).String(command)
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
