package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// MaxValueLen is the maximum length, in runes, of a string attribute
// after trimming. Longer values are cut and marked with TruncateMarker.
const MaxValueLen = 256

// TruncateMarker is appended to string values that were cut at
// MaxValueLen.
const TruncateMarker = "...[truncated]"

// TrimHandler wraps an slog.Handler to keep log lines readable when
// attributes carry scraped page content. Scraped values routinely span
// whole pages and embed newlines and tab runs; TrimHandler collapses
// whitespace and truncates long string values before passing records to
// the underlying handler.
//
// Design decision: We use a handler wrapper rather than trimming at
// every call site because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites can log extracted text as-is without worrying about
//     log volume
type TrimHandler struct {
	// handler is the underlying slog handler that receives trimmed records.
	handler slog.Handler
}

// NewTrimHandler creates a new TrimHandler wrapping the given handler.
// All string attributes will be trimmed before being passed to the
// underlying handler. If handler is nil, the returned TrimHandler will
// use slog.Default().Handler().
func NewTrimHandler(handler slog.Handler) *TrimHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &TrimHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TrimHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle trims the record's attributes and passes it to the underlying handler.
func (h *TrimHandler) Handle(ctx context.Context, r slog.Record) error {
	trimmed := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		trimmed.AddAttrs(h.trimAttr(a))
		return true
	})

	return h.handler.Handle(ctx, trimmed)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are trimmed before being added.
func (h *TrimHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	trimmedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		trimmedAttrs[i] = h.trimAttr(a)
	}
	return &TrimHandler{handler: h.handler.WithAttrs(trimmedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *TrimHandler) WithGroup(name string) slog.Handler {
	return &TrimHandler{handler: h.handler.WithGroup(name)}
}

// trimAttr trims a single attribute, recursively handling groups.
func (h *TrimHandler) trimAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		trimmedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			trimmedAttrs[i] = h.trimAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(trimmedAttrs...)}
	}

	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, TrimValue(a.Value.String()))
	}

	return a
}

// TrimValue collapses whitespace runs to single spaces and truncates
// the result to MaxValueLen runes. Truncation happens on rune
// boundaries so multi-byte text is never split mid-character.
func TrimValue(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(collapsed) <= MaxValueLen {
		return collapsed
	}

	runes := []rune(collapsed)
	return string(runes[:MaxValueLen]) + TruncateMarker
}

// NewTrimLogger creates a new slog.Logger with attribute trimming.
// The logger keeps scraped-content attributes down to readable size.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or
// passed to components that accept *slog.Logger.
func NewTrimLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	trimHandler := NewTrimHandler(textHandler)

	return slog.New(trimHandler)
}

// NewTrimJSONLogger creates a new slog.Logger with attribute trimming
// that outputs JSON format. Useful for structured log aggregation.
//
// Parameters:
//   - w: The io.Writer to write log output to
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger configured for JSON output with trimming.
func NewTrimJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	trimHandler := NewTrimHandler(jsonHandler)

	return slog.New(trimHandler)
}
