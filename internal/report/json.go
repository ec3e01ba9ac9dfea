package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// JSONWriter outputs record batches in JSON format. This is the writer
// behind every file the pipeline stages exchange: page records, school
// records, card exports, and bilingual records all pass through it.
//
// Design decision: We use json.Encoder rather than json.MarshalIndent
// because the encoder lets us disable HTML escaping. The output is full
// of Japanese school names and descriptions, and escaped \uXXXX runs
// would make the files unreadable and balloon their size.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  ").
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

// WithPrettyPrint enables pretty-printed JSON with the standard
// two-space indentation. This is a convenience wrapper for
// WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// Output is compact unless an indent option is supplied.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter:   newBaseWriter(output),
		indent:       false,
		indentPrefix: "",
		indentString: "",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write encodes v to the output with a trailing newline. Non-ASCII
// characters are written literally, never as \uXXXX escapes.
func (w *JSONWriter) Write(v any) (int, error) {
	counter := &countingWriter{next: w.output}

	encoder := json.NewEncoder(counter)
	encoder.SetEscapeHTML(false)
	if w.indent {
		encoder.SetIndent(w.indentPrefix, w.indentString)
	}

	if err := encoder.Encode(v); err != nil {
		return counter.written, err
	}

	return counter.written, nil
}

// countingWriter tracks how many bytes pass through to the next writer.
type countingWriter struct {
	next    io.Writer
	written int
}

// Write forwards p to the next writer and records the byte count.
func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.next.Write(p)
	c.written += n
	return n, err
}

// WriteJSONFile writes v as pretty-printed JSON to path, creating
// parent directories as needed. The file is rewritten wholesale: the
// pipeline's crash-safety model is "rerun the stage", not partial
// writes.
func WriteJSONFile(path string, v any) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	writer := NewJSONWriter(f, WithPrettyPrint())
	if _, err := writer.Write(v); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}
