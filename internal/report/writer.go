package report

import (
	"io"
	"time"
)

// Summary describes the outcome of one pipeline run. Commands build a
// Summary after their batch completes and hand it to the summary
// writers for terminal or Markdown output.
type Summary struct {
	// Command names the run: "crawl", "aggregate", "merge", or
	// "directory".
	Command string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Duration is how long the run took.
	Duration time.Duration

	// OutputFile is where the JSON batch was written.
	OutputFile string

	// InputCount is the number of records read (seed sites for a crawl,
	// page records for an aggregation, cards for a merge).
	InputCount int

	// OutputCount is the number of records written.
	OutputCount int

	// Skipped counts records dropped along the way: failed fetches,
	// malformed seeds, unclean sub-pages, cards without a usable URL.
	Skipped int

	// Sites lists one row per output record, in output order.
	Sites []SiteSummary
}

// SiteSummary is one output record's row in the summary.
type SiteSummary struct {
	// SiteID is the site key the record was grouped or crawled under.
	SiteID string

	// Title is the record's display title (source title or school name).
	Title string

	// Pages counts the pages or sub-pages stored under the record.
	Pages int

	// Links counts the record's aggregated outbound links.
	Links int

	// ScrapedAt is the record's capture time, when known.
	ScrapedAt string
}

// Writer defines the interface for summary output.
// Implementations render run summaries in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(summary *Summary) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write summaries, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the summary to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(summary *Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
