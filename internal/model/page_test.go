package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// TestTimestamp tests the Timestamp formatting helper.
func TestTimestamp(t *testing.T) {
	t.Parallel()

	t.Run("formats in UTC with six fractional digits", func(t *testing.T) {
		t.Parallel()

		loc := time.FixedZone("JST", 9*3600)
		ts := Timestamp(time.Date(2025, 3, 14, 18, 30, 45, 123456789, loc))

		if ts != "2025-03-14T09:30:45.123456Z" {
			t.Errorf("got %q, expected %q", ts, "2025-03-14T09:30:45.123456Z")
		}
	})

	t.Run("whole seconds keep the fractional part", func(t *testing.T) {
		t.Parallel()

		ts := Timestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
		if !strings.HasSuffix(ts, ".000000Z") {
			t.Errorf("got %q, expected fixed-width fractional suffix", ts)
		}
	})

	t.Run("orders chronologically under string comparison", func(t *testing.T) {
		t.Parallel()

		earlier := Timestamp(time.Date(2025, 6, 1, 10, 0, 0, 900000000, time.UTC))
		later := Timestamp(time.Date(2025, 6, 1, 10, 0, 1, 100000000, time.UTC))

		if !(earlier < later) {
			t.Errorf("expected %q < %q", earlier, later)
		}
	})
}

// TestHeaderTextsUnmarshalJSON tests the scalar/list tolerance of
// header decoding.
func TestHeaderTextsUnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes a list of strings", func(t *testing.T) {
		t.Parallel()

		var texts HeaderTexts
		if err := json.Unmarshal([]byte(`["Welcome", "About Us"]`), &texts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(texts) != 2 || texts[0] != "Welcome" || texts[1] != "About Us" {
			t.Errorf("got %v, expected [Welcome, About Us]", texts)
		}
	})

	t.Run("decodes a bare string as a one-element list", func(t *testing.T) {
		t.Parallel()

		var texts HeaderTexts
		if err := json.Unmarshal([]byte(`"Welcome"`), &texts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(texts) != 1 || texts[0] != "Welcome" {
			t.Errorf("got %v, expected [Welcome]", texts)
		}
	})

	t.Run("decodes null as empty", func(t *testing.T) {
		t.Parallel()

		var texts HeaderTexts
		if err := json.Unmarshal([]byte(`null`), &texts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(texts) != 0 {
			t.Errorf("got %v, expected empty", texts)
		}
	})

	t.Run("rejects non-string values", func(t *testing.T) {
		t.Parallel()

		var texts HeaderTexts
		if err := json.Unmarshal([]byte(`42`), &texts); err == nil {
			t.Error("expected error for numeric header, got nil")
		}
	})

	t.Run("normalizes mixed header sets", func(t *testing.T) {
		t.Parallel()

		// One scraped export collapses single-match levels to a scalar.
		raw := `{"h1": "International School of Sapporo", "h2": ["Admissions", "Contact"]}`

		var set HeaderSet
		if err := json.Unmarshal([]byte(raw), &set); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(set.H1) != 1 || set.H1[0] != "International School of Sapporo" {
			t.Errorf("h1 = %v, expected single normalized entry", set.H1)
		}
		if len(set.H2) != 2 {
			t.Errorf("h2 = %v, expected 2 entries", set.H2)
		}
		if len(set.H3) != 0 {
			t.Errorf("h3 = %v, expected empty", set.H3)
		}
	})
}

// TestHeaderSetMarshal tests that empty levels disappear from output.
func TestHeaderSetMarshal(t *testing.T) {
	t.Parallel()

	t.Run("omits empty levels", func(t *testing.T) {
		t.Parallel()

		set := HeaderSet{H1: HeaderTexts{"Main"}}
		data, err := json.Marshal(set)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if string(data) != `{"h1":["Main"]}` {
			t.Errorf("got %s, expected h2/h3 omitted", data)
		}
	})

	t.Run("marshals to empty object when nothing was recorded", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(HeaderSet{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if string(data) != `{}` {
			t.Errorf("got %s, expected {}", data)
		}
	})
}

// TestHeaderSetIsEmpty tests the IsEmpty method.
func TestHeaderSetIsEmpty(t *testing.T) {
	t.Parallel()

	if !(HeaderSet{}).IsEmpty() {
		t.Error("zero value should be empty")
	}
	if (HeaderSet{H3: HeaderTexts{"x"}}).IsEmpty() {
		t.Error("set with an h3 entry should not be empty")
	}
}

// TestPageRecordMarshal tests the JSON shape of a page record.
func TestPageRecordMarshal(t *testing.T) {
	t.Parallel()

	t.Run("omits absent title", func(t *testing.T) {
		t.Parallel()

		rec := PageRecord{
			ID:        "3-1",
			URL:       "https://school.example.com/",
			Data:      "About our school",
			Links:     []string{},
			ScrapedAt: "2025-06-01T00:00:00.000000Z",
		}

		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(string(data), `"title"`) {
			t.Errorf("title should be omitted when empty: %s", data)
		}
		if !strings.Contains(string(data), `"links":[]`) {
			t.Errorf("links should marshal as an empty array: %s", data)
		}
	})

	t.Run("round-trips all populated fields", func(t *testing.T) {
		t.Parallel()

		rec := PageRecord{
			ID:    "1-2",
			URL:   "https://school.example.com/admissions",
			Title: "Admissions",
			Headers: HeaderSet{
				H1: HeaderTexts{"Admissions"},
				H2: HeaderTexts{"Fees", "How to apply"},
			},
			Data:      "Applications open in April.",
			Links:     []string{"https://school.example.com/contact"},
			ScrapedAt: "2025-06-01T09:30:45.123456Z",
		}

		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got PageRecord
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.ID != rec.ID || got.Title != rec.Title || got.ScrapedAt != rec.ScrapedAt {
			t.Errorf("round-trip mismatch: got %+v", got)
		}
		if len(got.Headers.H2) != 2 {
			t.Errorf("h2 = %v, expected 2 entries", got.Headers.H2)
		}
	})
}
