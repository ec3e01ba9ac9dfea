package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestTrimValue tests whitespace collapsing and truncation.
func TestTrimValue(t *testing.T) {
	t.Parallel()

	t.Run("collapses whitespace runs", func(t *testing.T) {
		t.Parallel()

		got := TrimValue("Welcome\n\n\tto   our\r\n school")
		if got != "Welcome to our school" {
			t.Errorf("got %q, expected %q", got, "Welcome to our school")
		}
	})

	t.Run("short values pass through", func(t *testing.T) {
		t.Parallel()

		if got := TrimValue("admissions"); got != "admissions" {
			t.Errorf("got %q, expected unchanged value", got)
		}
	})

	t.Run("long values are cut with a marker", func(t *testing.T) {
		t.Parallel()

		got := TrimValue(strings.Repeat("a", MaxValueLen+50))
		if !strings.HasSuffix(got, TruncateMarker) {
			t.Errorf("expected truncate marker suffix, got %q", got)
		}
		if len(got) != MaxValueLen+len(TruncateMarker) {
			t.Errorf("got length %d, expected %d", len(got), MaxValueLen+len(TruncateMarker))
		}
	})

	t.Run("truncates multi-byte text on rune boundaries", func(t *testing.T) {
		t.Parallel()

		got := TrimValue(strings.Repeat("学", MaxValueLen+10))
		trimmed := strings.TrimSuffix(got, TruncateMarker)

		for _, r := range trimmed {
			if r != '学' {
				t.Fatalf("found corrupted rune %q after truncation", r)
			}
		}
	})
}

// TestTrimHandler_TrimsStringAttrs tests that oversized attributes are
// trimmed in handler output.
func TestTrimHandler_TrimsStringAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewTrimHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(handler)

	pageText := "About our school\n\nFounded in 1975, " + strings.Repeat("long body text ", 100)
	logger.Info("extracted page", "data", pageText, "count", 3)

	output := buf.String()
	if strings.Contains(output, "\nFounded") {
		t.Error("newlines in attribute values should be collapsed")
	}
	if !strings.Contains(output, TruncateMarker) {
		t.Error("long attribute value should carry the truncate marker")
	}
	if !strings.Contains(output, "count=3") {
		t.Errorf("non-string attributes must pass through untouched: %s", output)
	}
}

// TestTrimHandler_WithAttrsAndGroups tests trimming through WithAttrs
// and grouped attributes.
func TestTrimHandler_WithAttrsAndGroups(t *testing.T) {
	t.Parallel()

	t.Run("WithAttrs trims pre-set attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTrimHandler(slog.NewTextHandler(&buf, nil))).
			With("title", "Home\t\tPage")

		logger.Info("visit")

		if !strings.Contains(buf.String(), "title=\"Home Page\"") {
			t.Errorf("expected collapsed title attribute, got %s", buf.String())
		}
	})

	t.Run("group members are trimmed recursively", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTrimHandler(slog.NewTextHandler(&buf, nil)))

		logger.Info("fetched",
			slog.Group("page",
				slog.String("data", strings.Repeat("x", MaxValueLen*2)),
			),
		)

		if !strings.Contains(buf.String(), TruncateMarker) {
			t.Errorf("expected grouped attribute to be truncated, got %s", buf.String())
		}
	})
}

// TestNewTrimLogger tests level selection.
func TestNewTrimLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewTrimLogger(&buf, false)

		logger.Debug("should not appear")
		logger.Warn("should appear")

		output := buf.String()
		if strings.Contains(output, "should not appear") {
			t.Error("debug output should be suppressed when not verbose")
		}
		if !strings.Contains(output, "should appear") {
			t.Error("warn output should always appear")
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewTrimLogger(&buf, true)

		logger.Debug("debug line")

		if !strings.Contains(buf.String(), "debug line") {
			t.Error("debug output should appear in verbose mode")
		}
	})
}
