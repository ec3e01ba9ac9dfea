package aggregate

import (
	"fmt"
	"strings"

	"github.com/edudata/schoolscan/internal/config"
	"github.com/edudata/schoolscan/internal/model"
)

// KeyFunc derives the site key that groups page records into one school
// record. An empty key is still a valid group; only card-based merging
// treats it as unkeyable.
type KeyFunc func(page model.PageRecord) string

// IDPrefixKey groups by the id substring before the first "-", which is
// the layout the crawler produces: "tis-3" keys as "tis". Ids without a
// dash key as themselves.
func IDPrefixKey(page model.PageRecord) string {
	if i := strings.Index(page.ID, "-"); i >= 0 {
		return page.ID[:i]
	}
	return page.ID
}

// URLSegmentKey groups by the trailing path segment of the page URL.
// Exports of the same school in different languages share URL slugs but
// not ids, so cross-language merging keys on the URL instead.
func URLSegmentKey(page model.PageRecord) string {
	return SiteKeyFromURL(page.URL)
}

// SiteKeyFromURL returns the substring after the last "/" of rawURL.
// It is "" when the URL is empty or ends in a slash.
func SiteKeyFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parts := strings.Split(rawURL, "/")
	return parts[len(parts)-1]
}

// KeyFuncFor maps a configured strategy name to its KeyFunc. The two
// strategies produce incompatible groupings, so the choice is always
// explicit: mixing input keyed under different strategies in one run
// silently yields garbage groups.
func KeyFuncFor(strategy string) (KeyFunc, error) {
	switch strategy {
	case config.KeyStrategyIDPrefix:
		return IDPrefixKey, nil
	case config.KeyStrategyURLSegment:
		return URLSegmentKey, nil
	default:
		return nil, fmt.Errorf("unknown site key strategy %q", strategy)
	}
}
