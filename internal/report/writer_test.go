package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/edudata/schoolscan/internal/model"
)

func testSummary() *Summary {
	return &Summary{
		Command:     "aggregate",
		StartedAt:   time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Duration:    1500 * time.Millisecond,
		OutputFile:  "normalized_output.json",
		InputCount:  12,
		OutputCount: 3,
		Skipped:     2,
		Sites: []SiteSummary{
			{SiteID: "1", Title: "Tokyo International School", Pages: 5, Links: 40, ScrapedAt: "2025-03-14T09:00:00.000000Z"},
			{SiteID: "2", Title: "横浜インターナショナルスクール", Pages: 4, Links: 22, ScrapedAt: "2025-03-14T09:05:00.000000Z"},
			{SiteID: "3", Title: "", Pages: 3, Links: 10},
		},
	}
}

func TestJSONWriterWrite(t *testing.T) {
	t.Parallel()

	t.Run("Preserves non-ASCII characters literally", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewJSONWriter(&buf, WithPrettyPrint())

		cards := []model.SchoolCard{{Name: "東京学園", URL: "https://example.com/tokyo-gakuen"}}
		if _, err := writer.Write(cards); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "東京学園") {
			t.Errorf("output should contain the literal name, got %q", out)
		}
		if strings.Contains(out, `\u`) {
			t.Errorf("output should not contain unicode escapes, got %q", out)
		}
	})

	t.Run("Indents with two spaces and ends with a newline", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewJSONWriter(&buf, WithPrettyPrint())

		n, err := writer.Write(map[string]string{"key": "value"})
		if err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("Write() reported %d bytes, buffer has %d", n, buf.Len())
		}

		out := buf.String()
		if !strings.Contains(out, "\n  \"key\"") {
			t.Errorf("output should be indented with two spaces, got %q", out)
		}
		if !strings.HasSuffix(out, "\n") {
			t.Errorf("output should end with a newline, got %q", out)
		}
	})

	t.Run("Compact output without options", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewJSONWriter(&buf)

		if _, err := writer.Write(map[string]string{"key": "value"}); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}

		if got, want := buf.String(), "{\"key\":\"value\"}\n"; got != want {
			t.Errorf("Write() output = %q, want %q", got, want)
		}
	})
}

func TestWriteJSONFile(t *testing.T) {
	t.Parallel()

	t.Run("Round-trips page records through a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "scraped_output.json")
		pages := []model.PageRecord{
			{ID: "1-1", URL: "https://x.test/a", Data: "ようこそ", Links: []string{}, ScrapedAt: "2025-03-14T09:00:00.000000Z"},
		}

		if err := WriteJSONFile(path, pages); err != nil {
			t.Fatalf("WriteJSONFile() returned error: %v", err)
		}

		data, err := os.ReadFile(path) //nolint:gosec // Test-controlled path
		if err != nil {
			t.Fatalf("read output file: %v", err)
		}

		var got []model.PageRecord
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal output: %v", err)
		}
		if len(got) != 1 || got[0].ID != "1-1" || got[0].Data != "ようこそ" {
			t.Errorf("round-trip mismatch: %+v", got)
		}
	})

	t.Run("Rewrites the file wholesale", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cards.json")
		if err := WriteJSONFile(path, []string{"a", "b", "c"}); err != nil {
			t.Fatalf("first WriteJSONFile() returned error: %v", err)
		}
		if err := WriteJSONFile(path, []string{"d"}); err != nil {
			t.Fatalf("second WriteJSONFile() returned error: %v", err)
		}

		data, err := os.ReadFile(path) //nolint:gosec // Test-controlled path
		if err != nil {
			t.Fatalf("read output file: %v", err)
		}

		var got []string
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal output: %v", err)
		}
		if len(got) != 1 || got[0] != "d" {
			t.Errorf("file should hold only the second write, got %v", got)
		}
	})
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("Renders run information and site rows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewSimpleWriter(&buf)

		if _, err := writer.Write(testSummary()); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"AGGREGATE SUMMARY",
			"Records in:  12",
			"Records out: 3",
			"Skipped:     2",
			"Tokyo International School",
			"横浜インターナショナルスクール",
			"(untitled)",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("Omits sites section when empty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewSimpleWriter(&buf)

		summary := testSummary()
		summary.Sites = nil
		if _, err := writer.Write(summary); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}

		if strings.Contains(buf.String(), "SITES") {
			t.Errorf("empty summary should omit the sites section:\n%s", buf.String())
		}
	})

	t.Run("Shows empty sites section with WithShowEmpty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewSimpleWriter(&buf, WithShowEmpty(true))

		summary := testSummary()
		summary.Sites = nil
		if _, err := writer.Write(summary); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}

		if !strings.Contains(buf.String(), "No records produced") {
			t.Errorf("should show the empty placeholder:\n%s", buf.String())
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("Renders heading and tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewMarkdownWriter(&buf)

		if _, err := writer.Write(testSummary()); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# Aggregate Summary",
			"## Sites",
			"Tokyo International School",
			"`normalized_output.json`",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("Notes skipped records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewMarkdownWriter(&buf)

		if _, err := writer.Write(testSummary()); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}

		if !strings.Contains(buf.String(), "2 record(s) were skipped") {
			t.Errorf("output should note skipped records:\n%s", buf.String())
		}
	})
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, md bytes.Buffer
	writer := NewMultiWriter(NewSimpleWriter(&text), NewMarkdownWriter(&md))

	total, err := writer.Write(testSummary())
	if err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}

	if text.Len() == 0 || md.Len() == 0 {
		t.Fatal("both writers should receive output")
	}
	if total != text.Len()+md.Len() {
		t.Errorf("total = %d, want %d", total, text.Len()+md.Len())
	}
}

func TestCommandTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		want    string
	}{
		{"crawl", "Crawl"},
		{"aggregate", "Aggregate"},
		{"merge", "Merge"},
		{"", "Run"},
	}

	for _, tt := range tests {
		if got := commandTitle(tt.command); got != tt.want {
			t.Errorf("commandTitle(%q) = %q, want %q", tt.command, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"Short string unchanged", "short", 10, "short"},
		{"Long string truncated", "this is a long string", 10, "this is..."},
		{"Tiny budget keeps prefix", "abcdef", 3, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
