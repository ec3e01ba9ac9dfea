package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/edudata/schoolscan/internal/config"
	"github.com/edudata/schoolscan/internal/model"
)

// Spider crawls a single site breadth-first from a seed URL, bounded by
// a page budget, and returns the pages it successfully extracted.
//
// A Spider is not safe for concurrent use: crawling is deliberately
// sequential so the politeness delay actually throttles the request
// rate. Crawl may be called repeatedly; each call starts a fresh crawl.
type Spider struct {
	// fetcher performs the HTTP requests.
	fetcher *Fetcher

	// maxPages bounds how many URLs one crawl visits, counting
	// failed fetches. This prevents runaway crawling on large sites.
	maxPages int

	// delay is the pause applied after each fetch attempt.
	// This is a politeness setting to avoid overwhelming servers.
	delay time.Duration

	// ignorePatterns lists URL patterns that are never enqueued.
	ignorePatterns []string

	// followPatterns, when non-empty, restricts enqueueing to URLs
	// matching at least one pattern.
	followPatterns []string

	// respectRobots enables the robots.txt gate for enqueued links.
	respectRobots bool

	// logger records per-page progress and fetch failures.
	logger *slog.Logger

	// now supplies scrapedAt timestamps. Tests override it.
	now func() time.Time

	// visited tracks URLs already popped from the frontier, including
	// failed fetches, so dead links cannot cause retry loops.
	visited map[string]bool

	// extracted counts successful extractions. It numbers the page
	// ids, so the sequence has no gaps when fetches fail.
	extracted int

	// failed counts fetch and parse failures.
	failed int
}

// SpiderOption is a functional option for configuring a Spider.
type SpiderOption func(*Spider)

// WithMaxPages bounds how many URLs one crawl visits, counting failed
// fetches. Values below 1 are ignored.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		if maxPages > 0 {
			s.maxPages = maxPages
		}
	}
}

// WithDelay sets the pause applied after each fetch attempt. Zero
// disables the pause; negative values are ignored.
func WithDelay(delay time.Duration) SpiderOption {
	return func(s *Spider) {
		if delay >= 0 {
			s.delay = delay
		}
	}
}

// WithIgnorePatterns sets URL patterns that are never enqueued, e.g.
// "*.pdf" or "/admin/*". Ignore patterns win over follow patterns.
func WithIgnorePatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.ignorePatterns = patterns
	}
}

// WithFollowPatterns restricts enqueueing to URLs matching at least one
// of the given patterns. An empty list follows everything within the
// seed scope.
func WithFollowPatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.followPatterns = patterns
	}
}

// WithRespectRobots makes the Spider fetch /robots.txt once per crawl
// and skip links its rules disallow for our User-Agent.
func WithRespectRobots(respect bool) SpiderOption {
	return func(s *Spider) {
		s.respectRobots = respect
	}
}

// WithSpiderLogger sets the logger used for per-page progress and
// fetch failures.
func WithSpiderLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSpiderClock overrides the timestamp source for extracted pages.
// Tests use it to pin scrapedAt values.
func WithSpiderClock(now func() time.Time) SpiderOption {
	return func(s *Spider) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSpider creates a Spider that fetches through the given Fetcher.
// If fetcher is nil, a default Fetcher is used.
func NewSpider(fetcher *Fetcher, opts ...SpiderOption) *Spider {
	if fetcher == nil {
		fetcher = NewFetcher(nil)
	}

	s := &Spider{
		fetcher:  fetcher,
		maxPages: config.DefaultMaxPages,
		delay:    config.DefaultCrawlDelay,
		logger:   slog.Default(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Crawl walks the site at seedURL breadth-first and returns the pages
// it extracted, in visit order. Page ids are "<siteID>-<n>" with n
// counting successful extractions from 1.
//
// The frontier only accepts links that start with the seed URL, which
// scopes the crawl to one site (and to one subtree, when the seed has
// a path). The frontier is not de-duplicated: a URL may be enqueued
// more than once, and the visited check at pop time absorbs the
// duplicates. Failed fetches join the visited set and consume page
// budget, but no id.
func (s *Spider) Crawl(ctx context.Context, siteID, seedURL string) ([]model.PageRecord, error) {
	if siteID == "" {
		return nil, errors.New("site id must not be empty")
	}

	seed, err := normalizeURL(seedURL)
	if err != nil {
		return nil, fmt.Errorf("parse seed URL: %w", err)
	}
	if !strings.HasPrefix(seed, "http://") && !strings.HasPrefix(seed, "https://") {
		return nil, fmt.Errorf("seed URL %q is not http or https", seedURL)
	}

	s.visited = make(map[string]bool)
	s.extracted = 0
	s.failed = 0

	var robots *robotstxt.RobotsData
	if s.respectRobots {
		robots = s.fetchRobots(ctx, seed)
	}

	pages := make([]model.PageRecord, 0, s.maxPages)
	queue := []string{seed}

	for len(queue) > 0 && len(s.visited) < s.maxPages {
		select {
		case <-ctx.Done():
			return pages, ctx.Err()
		default:
		}

		current := queue[0]
		queue = queue[1:]

		if s.visited[current] {
			continue
		}
		s.visited[current] = true

		body, err := s.fetcher.Fetch(ctx, current)
		if err != nil {
			s.failed++
			s.logger.Warn("fetch failed",
				slog.String("url", current),
				slog.String("error", err.Error()))
			s.pause(ctx)
			continue
		}

		record, err := s.extractPage(current, body)
		if err != nil {
			s.failed++
			s.logger.Warn("extract failed",
				slog.String("url", current),
				slog.String("error", err.Error()))
			s.pause(ctx)
			continue
		}

		s.extracted++
		record.ID = fmt.Sprintf("%s-%d", siteID, s.extracted)
		pages = append(pages, *record)

		s.logger.Debug("page extracted",
			slog.String("id", record.ID),
			slog.String("url", current),
			slog.Int("links", len(record.Links)))

		for _, link := range record.Links {
			normalized, err := normalizeURL(link)
			if err != nil {
				continue
			}
			if !strings.HasPrefix(normalized, seed) {
				continue
			}
			if s.visited[normalized] {
				continue
			}
			if !s.shouldCrawl(normalized) {
				continue
			}
			if robots != nil && !s.robotsAllowed(robots, normalized) {
				continue
			}
			queue = append(queue, normalized)
		}

		s.pause(ctx)
	}

	return pages, nil
}

// Stats reports counters from the most recent Crawl call.
func (s *Spider) Stats() CrawlStats {
	return CrawlStats{
		URLsVisited:    len(s.visited),
		PagesExtracted: s.extracted,
		FetchFailures:  s.failed,
		MaxPages:       s.maxPages,
	}
}

// CrawlStats summarizes one crawl. URLsVisited counts every fetch
// attempt, so URLsVisited = PagesExtracted + FetchFailures.
type CrawlStats struct {
	URLsVisited    int
	PagesExtracted int
	FetchFailures  int
	MaxPages       int
}

// extractPage parses a fetched body into a PageRecord, resolving links
// against the page's own URL.
func (s *Spider) extractPage(pageURL, body string) (*model.PageRecord, error) {
	extractor, err := NewExtractor(pageURL, WithClock(s.now))
	if err != nil {
		return nil, err
	}
	return extractor.Extract(strings.NewReader(body))
}

// pause sleeps for the politeness delay unless the context is done.
func (s *Spider) pause(ctx context.Context) {
	if s.delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(s.delay):
	}
}

// fetchRobots retrieves and parses the site's robots.txt. Any failure
// is treated as an absent file: the crawl proceeds unrestricted.
func (s *Spider) fetchRobots(ctx context.Context, seed string) *robotstxt.RobotsData {
	u, err := url.Parse(seed)
	if err != nil {
		return nil
	}

	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	body, err := s.fetcher.Fetch(ctx, robotsURL)
	if err != nil {
		s.logger.Debug("robots.txt unavailable",
			slog.String("url", robotsURL),
			slog.String("error", err.Error()))
		return nil
	}

	robots, err := robotstxt.FromString(body)
	if err != nil {
		s.logger.Debug("robots.txt unparsable",
			slog.String("url", robotsURL),
			slog.String("error", err.Error()))
		return nil
	}

	return robots
}

// robotsAllowed reports whether robots rules permit fetching rawURL
// with our User-Agent.
func (s *Spider) robotsAllowed(robots *robotstxt.RobotsData, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return robots.TestAgent(u.RequestURI(), s.fetcher.userAgent)
}

// shouldCrawl applies the ignore and follow pattern gates to a URL.
func (s *Spider) shouldCrawl(rawURL string) bool {
	for _, pattern := range s.ignorePatterns {
		if matchPattern(rawURL, pattern) {
			return false
		}
	}

	if len(s.followPatterns) > 0 {
		for _, pattern := range s.followPatterns {
			if matchPattern(rawURL, pattern) {
				return true
			}
		}
		return false
	}

	return true
}

// normalizeURL canonicalizes a URL for visited-set and frontier use:
// the fragment is dropped, scheme and host are lowercased, and an
// empty path becomes "/".
func normalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), nil
}

// matchPattern checks a URL against a glob-style pattern. Patterns can
// target a path prefix ("/news/*"), an extension ("*.pdf"), or a file
// name ("login.php").
func matchPattern(rawURL, pattern string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		return strings.HasPrefix(path, prefix+"/") || path == prefix
	}

	if strings.HasPrefix(pattern, "*.") {
		ext := strings.TrimPrefix(pattern, "*")
		return strings.HasSuffix(path, ext)
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
		return true
	}

	return false
}
