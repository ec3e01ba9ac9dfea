// Package log provides crawl-friendly logging built on top of the
// standard slog package.
//
// This package extends slog to provide:
//   - Automatic trimming of oversized scraped-content attributes
//   - Whitespace collapsing so multi-line page text stays on one log line
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Why trimming
//
// Crawler and aggregator code logs extracted page text, titles, and
// detail answers for debugging. Those values can span entire pages and
// contain newlines, tab runs, and very long Japanese passages. The
// TrimHandler collapses whitespace and cuts values at a fixed rune
// count, so debug output stays scannable without every call site
// pre-formatting its attributes.
//
// # Usage
//
//	// Create a trimming logger
//	logger := log.NewTrimLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("extracted page",
//	    "url", "https://school.example.com/",
//	    "data", pageText, // Collapsed and truncated automatically
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
