package aggregate

import (
	"log/slog"
	"strings"

	"github.com/edudata/schoolscan/internal/cleantext"
	"github.com/edudata/schoolscan/internal/model"
)

// Aggregator folds crawled page records into one school record per
// site key.
type Aggregator struct {
	key    KeyFunc
	logger *slog.Logger
}

// AggregatorOption is a functional option for configuring an Aggregator.
type AggregatorOption func(*Aggregator)

// WithKeyFunc overrides how site keys are derived. The default groups
// by composite-id prefix.
func WithKeyFunc(key KeyFunc) AggregatorOption {
	return func(a *Aggregator) {
		if key != nil {
			a.key = key
		}
	}
}

// WithAggregatorLogger sets the logger for per-site progress.
func WithAggregatorLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAggregator creates an Aggregator with the given options.
func NewAggregator(opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		key:    IDPrefixKey,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Aggregate folds pages, in input order, into school records: one per
// distinct site key, returned in first-seen key order with school ids
// numbered sequentially from 1.
//
// Folding is additive, so aggregating an input concatenated with itself
// yields the same sub-pages as aggregating it once.
func (a *Aggregator) Aggregate(pages []model.PageRecord) []*model.SchoolRecord {
	bySite := make(map[string]*model.SchoolRecord)
	records := make([]*model.SchoolRecord, 0)

	for _, page := range pages {
		key := a.key(page)

		record, ok := bySite[key]
		if !ok {
			record = model.NewSchoolRecord(len(records)+1, key)
			// Seed the snapshot from the group's first record, so a group
			// with no capture times still identifies its site.
			record.Source.URL = page.URL
			record.Source.Title = page.Title
			record.Source.ScrapedAt = page.ScrapedAt
			bySite[key] = record
			records = append(records, record)
			a.logger.Debug("new site group",
				slog.String("site", key),
				slog.Int("schoolID", record.SchoolID))
		}

		a.fold(record, page)
	}

	return records
}

// fold merges one page into its school record. The source snapshot only
// moves to an earlier capture; everything else grows and is never
// removed.
func (a *Aggregator) fold(record *model.SchoolRecord, page model.PageRecord) {
	// Earliest capture wins; a seed with no capture time yields to the
	// first stamped page. The fixed-width timestamp layout makes the
	// string comparison equivalent to comparing instants.
	if page.ScrapedAt != "" &&
		(record.Source.ScrapedAt == "" || page.ScrapedAt < record.Source.ScrapedAt) {
		record.Source.URL = page.URL
		record.Source.Title = page.Title
		record.Source.ScrapedAt = page.ScrapedAt
	}

	record.Content.Headers.H1 = union(record.Content.Headers.H1, page.Headers.H1)
	record.Content.Headers.H2 = union(record.Content.Headers.H2, page.Headers.H2)
	record.Content.Headers.H3 = union(record.Content.Headers.H3, page.Headers.H3)

	a.addSubPage(record, subPageTitle(page), page.Data)

	record.Links = union(record.Links, page.Links)
}

// addSubPage appends a {title, data} entry unless the text is blank,
// mostly outside the allowed character set, or already stored verbatim.
func (a *Aggregator) addSubPage(record *model.SchoolRecord, title, data string) {
	if strings.TrimSpace(data) == "" {
		return
	}

	if !cleantext.IsClean(data) {
		a.logger.Debug("sub-page rejected by charset filter",
			slog.String("site", record.Source.ID),
			slog.String("title", title))
		return
	}

	for _, sub := range record.Content.SubPages {
		if sub.Data == data {
			return
		}
	}

	record.Content.SubPages = append(record.Content.SubPages, model.SubPage{
		Title: title,
		Data:  data,
	})
}

// subPageTitle picks the display title for one page: the leading text
// of the first heading level (h1, then h2, then h3) whose leading entry
// is non-blank, then the page title, then "Untitled".
func subPageTitle(page model.PageRecord) string {
	for _, level := range []model.HeaderTexts{page.Headers.H1, page.Headers.H2, page.Headers.H3} {
		if len(level) > 0 && strings.TrimSpace(level[0]) != "" {
			return level[0]
		}
	}

	if page.Title != "" {
		return page.Title
	}
	return "Untitled"
}

// union appends the incoming values not already present, preserving
// first-seen order.
func union(existing []string, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, value := range existing {
		seen[value] = true
	}

	for _, value := range incoming {
		if !seen[value] {
			seen[value] = true
			existing = append(existing, value)
		}
	}

	return existing
}
