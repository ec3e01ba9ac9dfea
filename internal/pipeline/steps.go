package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/edudata/schoolscan/internal/aggregate"
	"github.com/edudata/schoolscan/internal/config"
	"github.com/edudata/schoolscan/internal/crawler"
	"github.com/edudata/schoolscan/internal/database"
	"github.com/edudata/schoolscan/internal/model"
	"github.com/edudata/schoolscan/internal/report"
)

// LoadSeedsStep reads the seeds file into the run.
// Invalid entries (missing id or URL) are skipped with a warning rather
// than aborting, so one bad line doesn't block the whole batch.
type LoadSeedsStep struct {
	logger *slog.Logger
}

// NewLoadSeedsStep creates a step that loads the configured seeds file.
func NewLoadSeedsStep(logger *slog.Logger) *LoadSeedsStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadSeedsStep{logger: logger}
}

// Name returns the step's name.
func (s *LoadSeedsStep) Name() string { return "load-seeds" }

// Do loads seeds from the configured file and drops invalid entries.
func (s *LoadSeedsStep) Do(_ context.Context, run *Run) error {
	seeds, err := config.LoadSeeds(run.Config.SeedsFile)
	if err != nil {
		return fmt.Errorf("load seeds: %w", err)
	}

	valid := make([]config.Seed, 0, len(seeds))
	for _, seed := range seeds {
		if !seed.Valid() {
			s.logger.Warn("skipping invalid seed", "id", seed.ID, "url", seed.URL)
			run.Skipped++
			continue
		}
		valid = append(valid, seed)
	}

	run.Seeds = valid
	s.logger.Info("seeds loaded", "file", run.Config.SeedsFile, "count", len(valid))
	return nil
}

// CrawlStep crawls every seed site in order and collects the page
// records. Sites are visited strictly sequentially so the politeness
// delay holds across the whole run.
type CrawlStep struct {
	logger *slog.Logger
	client *http.Client
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlClient sets the HTTP client used for fetching.
// If not set, a client with the configured timeout is created.
func WithCrawlClient(client *http.Client) CrawlStepOption {
	return func(s *CrawlStep) {
		s.client = client
	}
}

// NewCrawlStep creates a step that crawls all loaded seeds.
func NewCrawlStep(logger *slog.Logger, opts ...CrawlStepOption) *CrawlStep {
	if logger == nil {
		logger = slog.Default()
	}
	s := &CrawlStep{logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step's name.
func (s *CrawlStep) Name() string { return "crawl" }

// Do crawls each seed site and appends its pages to the run.
// A fetch failure on one site is recorded and the next site still runs;
// context cancellation stops the remaining sites.
func (s *CrawlStep) Do(ctx context.Context, run *Run) error {
	cfg := run.Config

	client := s.client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	for _, seed := range run.Seeds {
		select {
		case <-ctx.Done():
			run.TimedOut = true
			return ctx.Err()
		default:
		}

		if s.skipRecent(ctx, run, seed) {
			continue
		}

		pages, stats, err := s.crawlSite(ctx, cfg, client, seed)
		if err != nil {
			if ctx.Err() != nil {
				run.TimedOut = true
				return ctx.Err()
			}
			s.logger.Error("site crawl failed", "site", seed.ID, "url", seed.URL, "error", err)
			run.Sites = append(run.Sites, SiteResult{SiteID: seed.ID, SeedURL: seed.URL, Stats: stats})
			continue
		}

		run.Pages = append(run.Pages, pages...)
		run.Sites = append(run.Sites, SiteResult{SiteID: seed.ID, SeedURL: seed.URL, Stats: stats})
		s.logger.Info("site crawled",
			"site", seed.ID,
			"pages", stats.PagesExtracted,
			"failures", stats.FetchFailures,
		)
	}

	return nil
}

// skipRecent reports whether the seed has a recent archived crawl and
// should be skipped under the skip-recent window.
func (s *CrawlStep) skipRecent(ctx context.Context, run *Run, seed config.Seed) bool {
	if run.Archive == nil || run.Config.SkipRecent <= 0 {
		return false
	}

	recent, err := run.Archive.HasRecentCrawl(ctx, seed.ID, run.Config.SkipRecent)
	if err != nil {
		s.logger.Warn("recent-crawl check failed", "site", seed.ID, "error", err)
		return false
	}
	if recent {
		s.logger.Info("skipping recently crawled site",
			"site", seed.ID,
			"window", run.Config.SkipRecent,
		)
		run.Skipped++
	}
	return recent
}

// crawlSite runs one spider over one seed, applying any per-host
// configuration from the config file.
func (s *CrawlStep) crawlSite(ctx context.Context, cfg *config.Config, client *http.Client, seed config.Seed) ([]model.PageRecord, crawler.CrawlStats, error) {
	fetcherOpts := []crawler.FetcherOption{
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	}
	spiderOpts := []crawler.SpiderOption{
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithRespectRobots(cfg.RespectRobots),
		crawler.WithSpiderLogger(s.logger),
	}

	if cfg.SiteConfigs != nil {
		if parsed, err := url.Parse(seed.URL); err == nil {
			site := cfg.SiteConfigs.GetSiteConfig(parsed.Host)
			if site.Cookie != "" {
				fetcherOpts = append(fetcherOpts, crawler.WithCookie(site.Cookie))
			}
			if len(site.Headers) > 0 {
				fetcherOpts = append(fetcherOpts, crawler.WithHeaders(site.Headers))
			}
			if site.MaxPages > 0 {
				spiderOpts = append(spiderOpts, crawler.WithMaxPages(site.MaxPages))
			}
			if len(site.IgnorePatterns) > 0 {
				spiderOpts = append(spiderOpts, crawler.WithIgnorePatterns(site.IgnorePatterns))
			}
			if len(site.FollowPatterns) > 0 {
				spiderOpts = append(spiderOpts, crawler.WithFollowPatterns(site.FollowPatterns))
			}
		}
	}

	spider := crawler.NewSpider(crawler.NewFetcher(client, fetcherOpts...), spiderOpts...)
	pages, err := spider.Crawl(ctx, seed.ID, seed.URL)
	return pages, spider.Stats(), err
}

// ArchiveStep stores crawled pages and per-site run records in the
// crawl archive. The step is a no-op when no archive is attached.
type ArchiveStep struct {
	logger *slog.Logger
}

// NewArchiveStep creates a step that archives the run's crawl results.
func NewArchiveStep(logger *slog.Logger) *ArchiveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArchiveStep{logger: logger}
}

// Name returns the step's name.
func (s *ArchiveStep) Name() string { return "archive" }

// Do saves each site's pages and records its crawl run.
func (s *ArchiveStep) Do(ctx context.Context, run *Run) error {
	if run.Archive == nil {
		s.logger.Debug("no archive attached, skipping")
		return nil
	}

	bySite := groupPagesBySite(run.Pages)

	for _, site := range run.Sites {
		if err := run.Archive.SavePages(ctx, site.SiteID, bySite[site.SiteID]); err != nil {
			return fmt.Errorf("archive pages for site %s: %w", site.SiteID, err)
		}

		crawlRun := &database.CrawlRun{
			SiteID:         site.SiteID,
			SeedURL:        site.SeedURL,
			PagesExtracted: site.Stats.PagesExtracted,
			FetchFailures:  site.Stats.FetchFailures,
		}
		if _, err := run.Archive.RecordCrawlRun(ctx, crawlRun); err != nil {
			return fmt.Errorf("record crawl run for site %s: %w", site.SiteID, err)
		}
	}

	s.logger.Info("crawl archived", "sites", len(run.Sites), "pages", len(run.Pages))
	return nil
}

// groupPagesBySite splits page records by the site-id prefix of their
// composite ids ("3-7" belongs to site "3").
func groupPagesBySite(pages []model.PageRecord) map[string][]model.PageRecord {
	bySite := make(map[string][]model.PageRecord)
	for _, page := range pages {
		siteID, _, ok := strings.Cut(page.ID, "-")
		if !ok {
			siteID = page.ID
		}
		bySite[siteID] = append(bySite[siteID], page)
	}
	return bySite
}

// WritePagesStep writes the crawled page records as the scraped batch
// file.
type WritePagesStep struct {
	logger *slog.Logger
}

// NewWritePagesStep creates a step that writes the scraped output file.
func NewWritePagesStep(logger *slog.Logger) *WritePagesStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &WritePagesStep{logger: logger}
}

// Name returns the step's name.
func (s *WritePagesStep) Name() string { return "write-pages" }

// Do writes all crawled pages to the scraped output file.
// An empty crawl still writes a valid empty JSON array.
func (s *WritePagesStep) Do(_ context.Context, run *Run) error {
	pages := run.Pages
	if pages == nil {
		pages = []model.PageRecord{}
	}

	path := filepath.Join(run.OutDir, config.DefaultCrawlOutput)
	if err := report.WriteJSONFile(path, pages); err != nil {
		return fmt.Errorf("write pages: %w", err)
	}

	s.logger.Info("pages written", "file", path, "count", len(pages))
	return nil
}

// AggregateStep folds the crawled pages into per-school records.
type AggregateStep struct {
	logger *slog.Logger
}

// NewAggregateStep creates a step that aggregates crawled pages.
func NewAggregateStep(logger *slog.Logger) *AggregateStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AggregateStep{logger: logger}
}

// Name returns the step's name.
func (s *AggregateStep) Name() string { return "aggregate" }

// Do aggregates the run's pages using the configured key strategy.
func (s *AggregateStep) Do(_ context.Context, run *Run) error {
	keyFunc, err := aggregate.KeyFuncFor(run.Config.KeyStrategy)
	if err != nil {
		return fmt.Errorf("resolve key strategy: %w", err)
	}

	aggregator := aggregate.NewAggregator(
		aggregate.WithKeyFunc(keyFunc),
		aggregate.WithAggregatorLogger(s.logger),
	)
	run.Schools = aggregator.Aggregate(run.Pages)

	s.logger.Info("pages aggregated", "pages", len(run.Pages), "schools", len(run.Schools))
	return nil
}

// WriteSchoolsStep writes the aggregated school records as the
// normalized batch file.
type WriteSchoolsStep struct {
	logger *slog.Logger
}

// NewWriteSchoolsStep creates a step that writes the normalized output file.
func NewWriteSchoolsStep(logger *slog.Logger) *WriteSchoolsStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &WriteSchoolsStep{logger: logger}
}

// Name returns the step's name.
func (s *WriteSchoolsStep) Name() string { return "write-schools" }

// Do writes the aggregated school records to the normalized output file.
func (s *WriteSchoolsStep) Do(_ context.Context, run *Run) error {
	schools := run.Schools
	if schools == nil {
		schools = []*model.SchoolRecord{}
	}

	path := filepath.Join(run.OutDir, config.DefaultAggregateOutput)
	if err := report.WriteJSONFile(path, schools); err != nil {
		return fmt.Errorf("write schools: %w", err)
	}

	s.logger.Info("schools written", "file", path, "count", len(schools))
	return nil
}

// DefaultPipeline builds the standard end-to-end pipeline: load seeds,
// crawl, archive, write the scraped batch file, aggregate, and write
// the normalized batch file.
//
// The archive step is always present; it no-ops when the run carries no
// archive handle, so callers only open the database when they want the
// side-store.
func DefaultPipeline(logger *slog.Logger, opts ...Option) *Pipeline {
	p := New(append([]Option{WithLogger(logger)}, opts...)...)
	p.AddSteps(
		NewLoadSeedsStep(logger),
		NewCrawlStep(logger),
		NewArchiveStep(logger),
		NewWritePagesStep(logger),
		NewAggregateStep(logger),
		NewWriteSchoolsStep(logger),
	)
	return p
}
