// Package report provides output writers for pipeline results.
//
// This package contains two kinds of writers:
//   - JSONWriter: the batch writer for page records, school records, and
//     card exports. It preserves non-ASCII text literally and indents
//     with two spaces, so Japanese output stays readable in the files
//     the pipeline stages exchange.
//   - SimpleWriter / MarkdownWriter: human-readable run summaries for
//     terminal display and documentation.
//
// Design decision: We separate report writing from the data structures
// (which are in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
//
// Summary writers implement the Writer interface, allowing them to be
// used interchangeably and composed for multi-format output.
package report
