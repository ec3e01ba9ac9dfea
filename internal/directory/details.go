package directory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/edudata/schoolscan/internal/config"
	"github.com/edudata/schoolscan/internal/crawler"
	"github.com/edudata/schoolscan/internal/model"
)

// SaveFunc persists the card list mid-run. Enricher calls it every few
// processed schools so an aborted run loses little work.
type SaveFunc func(cards []model.SchoolCard) error

// Enricher fetches each school's detail page and fills in the card's
// Details sections. Cards that already carry details are skipped, which
// makes re-running the pass a cheap resume.
type Enricher struct {
	fetcher    *crawler.Fetcher
	logger     *slog.Logger
	attempts   int
	retryDelay time.Duration
	delay      time.Duration
	saveEvery  int
	sleep      func(ctx context.Context, d time.Duration) error
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher)

// WithEnricherLogger sets the logger used during enrichment.
func WithEnricherLogger(logger *slog.Logger) EnricherOption {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithAttempts sets how many times a detail page is tried before the
// school is given up on for this run.
func WithAttempts(attempts int) EnricherOption {
	return func(e *Enricher) {
		if attempts > 0 {
			e.attempts = attempts
		}
	}
}

// WithRetryDelay sets the wait before the second attempt. Each further
// attempt doubles it.
func WithRetryDelay(delay time.Duration) EnricherOption {
	return func(e *Enricher) {
		e.retryDelay = delay
	}
}

// WithDetailDelay sets the pause between schools.
func WithDetailDelay(delay time.Duration) EnricherOption {
	return func(e *Enricher) {
		e.delay = delay
	}
}

// WithSaveEvery sets how many processed schools trigger a progress save.
func WithSaveEvery(n int) EnricherOption {
	return func(e *Enricher) {
		if n > 0 {
			e.saveEvery = n
		}
	}
}

// withSleep replaces the pause function, for tests.
func withSleep(sleep func(ctx context.Context, d time.Duration) error) EnricherOption {
	return func(e *Enricher) {
		e.sleep = sleep
	}
}

// NewEnricher creates an Enricher that fetches detail pages with the
// given HTTP client. If client is nil, a default client is used.
func NewEnricher(client *http.Client, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		fetcher: crawler.NewFetcher(client, crawler.WithHeaders(map[string]string{
			"Connection": "keep-alive",
		})),
		logger:     slog.Default(),
		attempts:   config.DefaultDetailAttempts,
		retryDelay: config.DefaultDetailRetryDelay,
		delay:      config.DefaultDetailDelay,
		saveEvery:  config.DefaultSaveEvery,
		sleep:      sleepCtx,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Enrich fills in Details for every card with a URL, in place. Progress
// is saved through saveFn every few schools and once at the end, so the
// output file always reflects the cards processed so far.
//
// A school whose detail page cannot be fetched keeps whatever the card
// already held; the failure never erases existing data.
func (e *Enricher) Enrich(ctx context.Context, cards []model.SchoolCard, saveFn SaveFunc) error {
	remaining := 0
	for i := range cards {
		if cards[i].URL != "" && !cards[i].HasDetails() {
			remaining++
		}
	}
	e.logger.Info("starting detail enrichment", "schools", len(cards), "remaining", remaining)

	processed := 0
	for i := range cards {
		if err := ctx.Err(); err != nil {
			return e.finish(cards, saveFn, err)
		}

		card := &cards[i]
		if card.URL == "" {
			continue
		}
		if card.HasDetails() {
			e.logger.Debug("already has details", "school", card.Name)
			continue
		}

		details, err := e.fetchDetails(ctx, card.URL)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return e.finish(cards, saveFn, ctx.Err())
			}
			e.logger.Warn("detail fetch failed", "school", card.Name, "url", card.URL, "error", err)
		case len(details) == 0:
			e.logger.Debug("no detail sections on page", "school", card.Name)
		default:
			card.Details = details
			e.logger.Info("details fetched", "school", card.Name, "sections", len(details))
		}

		processed++
		if saveFn != nil && processed%e.saveEvery == 0 {
			if err := saveFn(cards); err != nil {
				return fmt.Errorf("save progress: %w", err)
			}
			e.logger.Debug("progress saved", "processed", processed)
		}

		if i < len(cards)-1 {
			if err := e.sleep(ctx, e.delay); err != nil {
				return e.finish(cards, saveFn, err)
			}
		}
	}

	return e.finish(cards, saveFn, nil)
}

// finish performs the final save and returns cause, preferring a save
// failure only when the run itself succeeded.
func (e *Enricher) finish(cards []model.SchoolCard, saveFn SaveFunc, cause error) error {
	if saveFn != nil {
		if err := saveFn(cards); err != nil && cause == nil {
			return fmt.Errorf("save results: %w", err)
		}
	}
	return cause
}

// fetchDetails fetches one detail page with retries and parses it.
// The wait between attempts doubles each time.
func (e *Enricher) fetchDetails(ctx context.Context, pageURL string) (model.DetailSections, error) {
	var lastErr error
	wait := e.retryDelay

	for attempt := 1; attempt <= e.attempts; attempt++ {
		body, err := e.fetcher.Fetch(ctx, pageURL)
		if err == nil {
			return ParseDetails(strings.NewReader(body))
		}

		lastErr = err
		e.logger.Warn("detail attempt failed",
			"url", pageURL,
			"attempt", attempt,
			"of", e.attempts,
			"error", err,
		)

		if attempt < e.attempts {
			if err := e.sleep(ctx, wait); err != nil {
				return nil, err
			}
			wait *= 2
		}
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", e.attempts, lastErr)
}

// ParseDetails extracts the Q&A panels from a school detail page.
// Returns nil when the page has no detailed-answers block; sections
// whose heading or body is missing are skipped.
func ParseDetails(r io.Reader) (model.DetailSections, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse detail page: %w", err)
	}

	group := doc.Find("#detailed-answers").First()
	if group.Length() == 0 {
		return nil, nil
	}

	details := make(model.DetailSections)
	group.Find("div.panel").Each(func(_ int, panel *goquery.Selection) {
		heading := panel.Find(".panel-heading").First()
		if heading.Length() == 0 {
			return
		}
		section := headingText(heading)
		if section == "" {
			return
		}

		body := panel.Find(".panel-body").First()
		if body.Length() == 0 {
			return
		}

		pairs := make(map[string]string)
		body.Find("tr").Each(func(_ int, row *goquery.Selection) {
			question := strings.TrimSpace(row.Find("td.question").First().Text())
			answer := strings.TrimSpace(row.Find("td.answer").First().Text())
			if question != "" && answer != "" {
				pairs[question] = answer
			}
		})

		details[section] = pairs
	})

	if len(details) == 0 {
		return nil, nil
	}
	return details, nil
}

// headingText returns a panel heading's text without its leading icon
// element.
func headingText(heading *goquery.Selection) string {
	clone := heading.Clone()
	clone.Find("i").Remove()
	return strings.TrimSpace(clone.Text())
}
