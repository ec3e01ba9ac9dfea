package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display after a run completes.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether the sites section is shown when no
	// records were produced.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeSites(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run information block.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *Summary) {
	title := strings.ToUpper(commandTitle(summary.Command)) + " SUMMARY"

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s%s\n", strings.Repeat(" ", (70-len(title))/2), title))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Date:        %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:    %s\n", summary.Duration))
	sb.WriteString(fmt.Sprintf("Output:      %s\n", summary.OutputFile))
	sb.WriteString(fmt.Sprintf("Records in:  %d\n", summary.InputCount))
	sb.WriteString(fmt.Sprintf("Records out: %d\n", summary.OutputCount))
	sb.WriteString(fmt.Sprintf("Skipped:     %d\n", summary.Skipped))
	sb.WriteString("\n")
}

// writeSites writes one line per output record.
func (w *SimpleWriter) writeSites(sb *strings.Builder, summary *Summary) {
	if len(summary.Sites) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SITES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Sites) == 0 {
		sb.WriteString("  No records produced\n")
	} else {
		for _, site := range summary.Sites {
			title := site.Title
			if title == "" {
				title = "(untitled)"
			}
			sb.WriteString(fmt.Sprintf("  [%s] %s\n", site.SiteID, truncateString(title, 56)))
			sb.WriteString(fmt.Sprintf("      pages: %d  links: %d", site.Pages, site.Links))
			if site.ScrapedAt != "" {
				sb.WriteString(fmt.Sprintf("  scraped: %s", site.ScrapedAt))
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the closing bar.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
