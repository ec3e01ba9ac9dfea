package model

import (
	"encoding/json"
	"time"
)

// TimestampLayout is the canonical format for capture timestamps.
// The fractional second is fixed at six digits so that two timestamps in
// this layout order chronologically under plain string comparison. The
// aggregator relies on that property when it picks the earliest source
// snapshot for a school.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Timestamp formats t in UTC using TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// PageRecord represents a single fetched page after extraction.
// This is the unit of exchange between the crawler and the aggregator.
//
// Design decision: PageRecord stores extracted content only, never the
// raw markup. The crawl archive keeps raw responses when persistence is
// enabled, so the in-memory record stays small even on large crawls.
type PageRecord struct {
	// ID is the composite page identifier "<siteID>-<n>", where n is the
	// 1-based sequence of successfully visited pages within one site
	// crawl. Failed fetches never consume a sequence number.
	ID string `json:"id"`

	// URL is the absolute URL the page was fetched from.
	URL string `json:"url"`

	// Title is the text content of the <title> element.
	// Absent for pages without one.
	Title string `json:"title,omitempty"`

	// Headers groups heading texts by level (h1, h2, h3).
	// Levels with no headings are omitted from the JSON output.
	Headers HeaderSet `json:"headers"`

	// Data is the visible page text with script and style content
	// removed and whitespace collapsed to single spaces.
	Data string `json:"data"`

	// Links contains the absolute outbound URLs discovered on the page,
	// restricted to the http and https schemes.
	Links []string `json:"links"`

	// ScrapedAt is the capture time in TimestampLayout form.
	ScrapedAt string `json:"scrapedAt"`
}

// HeaderSet groups heading texts by level for one page.
// A level with no entries is dropped during marshaling, matching the
// extractor's behavior of only recording levels that matched.
type HeaderSet struct {
	H1 HeaderTexts `json:"h1,omitempty"`
	H2 HeaderTexts `json:"h2,omitempty"`
	H3 HeaderTexts `json:"h3,omitempty"`
}

// IsEmpty returns true if no heading was recorded at any level.
func (h HeaderSet) IsEmpty() bool {
	return len(h.H1) == 0 && len(h.H2) == 0 && len(h.H3) == 0
}

// HeaderTexts is the ordered list of heading texts for one level.
//
// Older exports collapse a single-heading level to a bare string instead
// of a one-element list. UnmarshalJSON accepts both shapes and always
// normalizes to a list, so consumers never see the scalar form.
type HeaderTexts []string

// UnmarshalJSON decodes either a JSON array of strings or a single JSON
// string into a list.
func (t *HeaderTexts) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*t = HeaderTexts{single}
	return nil
}
