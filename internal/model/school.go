package model

// SchoolRecord is the aggregated view of one crawled site. Every
// PageRecord sharing a site key folds into exactly one SchoolRecord.
//
// A record is created on the first page seen for its key and then grows
// additively: headers and links union in, sub-pages append, and the
// source snapshot only moves to an earlier capture. Nothing is ever
// removed once folded in.
type SchoolRecord struct {
	// SchoolID numbers records sequentially in first-seen site key
	// order, starting at 1.
	SchoolID int `json:"school_id"`

	// Source identifies the crawl this record came from. URL, Title and
	// ScrapedAt mirror the page with the earliest capture time in the
	// group.
	Source Source `json:"source"`

	// Content holds everything extracted from the site's pages.
	Content Content `json:"content"`

	// Links is the deduplicated union of outbound links across all
	// pages in the group.
	Links []string `json:"links"`
}

// Source is the provenance snapshot of a school record.
type Source struct {
	// ID is the site key the record was grouped under.
	ID string `json:"id"`

	// URL is the address of the earliest captured page in the group.
	URL string `json:"url"`

	// Title is that page's title.
	Title string `json:"title"`

	// ScrapedAt is that page's capture time in TimestampLayout form.
	ScrapedAt string `json:"scrapedAt"`
}

// Content is the aggregated page content of a school record.
type Content struct {
	// Headers is the per-level union of heading texts across the group.
	// All three levels are always present in output, empty or not.
	Headers AggregateHeaders `json:"headers"`

	// SubPages keeps each page's cleaned text separately rather than
	// concatenating everything into one blob.
	SubPages []SubPage `json:"sub_pages"`

	// StructuredData is the fixed-shape school schema. Leaves start
	// empty and are only overwritten by fields present in raw input.
	StructuredData StructuredData `json:"structured_data"`
}

// AggregateHeaders holds the union of heading texts per level. Unlike
// the per-page HeaderSet, levels are never omitted from JSON.
type AggregateHeaders struct {
	H1 HeaderTexts `json:"h1"`
	H2 HeaderTexts `json:"h2"`
	H3 HeaderTexts `json:"h3"`
}

// SubPage is one page's worth of text stored under a school record.
type SubPage struct {
	// Title is the display title chosen for the page, never empty
	// ("Untitled" when nothing better was found).
	Title string `json:"title"`

	// Data is the page's cleaned plain text. Sub-pages are deduplicated
	// by exact equality on this field.
	Data string `json:"data"`
}

// NewSchoolRecord returns a school record for the given site key with
// every field at its empty default. Slice fields are initialized non-nil
// so they marshal as empty JSON arrays rather than null.
func NewSchoolRecord(schoolID int, siteID string) *SchoolRecord {
	return &SchoolRecord{
		SchoolID: schoolID,
		Source:   Source{ID: siteID},
		Content: Content{
			Headers: AggregateHeaders{
				H1: HeaderTexts{},
				H2: HeaderTexts{},
				H3: HeaderTexts{},
			},
			SubPages:       []SubPage{},
			StructuredData: NewStructuredData(),
		},
		Links: []string{},
	}
}
