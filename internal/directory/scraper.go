package directory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/edudata/schoolscan/internal/config"
	"github.com/edudata/schoolscan/internal/model"
)

// Scraper collects school cards from the directory's regional listing
// pages. Regions are visited strictly one after another with a
// politeness delay in between.
type Scraper struct {
	logger        *slog.Logger
	userAgent     string
	locationDelay time.Duration
}

// ScraperOption configures a Scraper.
type ScraperOption func(*Scraper)

// WithScraperLogger sets the logger used during scraping.
func WithScraperLogger(logger *slog.Logger) ScraperOption {
	return func(s *Scraper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScraperUserAgent sets the User-Agent sent to the directory site.
func WithScraperUserAgent(agent string) ScraperOption {
	return func(s *Scraper) {
		if agent != "" {
			s.userAgent = agent
		}
	}
}

// WithLocationDelay sets the pause between regional listing pages.
func WithLocationDelay(delay time.Duration) ScraperOption {
	return func(s *Scraper) {
		s.locationDelay = delay
	}
}

// NewScraper creates a Scraper with the given options.
func NewScraper(opts ...ScraperOption) *Scraper {
	s := &Scraper{
		logger:        slog.Default(),
		userAgent:     config.DefaultUserAgent,
		locationDelay: config.DefaultLocationDelay,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ScrapeAll scrapes every location in order and returns the combined
// cards. A failed location is logged and skipped; the remaining
// locations still run. Context cancellation stops the walk.
func (s *Scraper) ScrapeAll(ctx context.Context, locations []config.Location) ([]model.SchoolCard, error) {
	var cards []model.SchoolCard

	for i, loc := range locations {
		if err := ctx.Err(); err != nil {
			return cards, err
		}

		found, err := s.ScrapeLocation(ctx, loc)
		if err != nil {
			s.logger.Error("location scrape failed", "location", loc.Name, "url", loc.URL, "error", err)
			continue
		}

		cards = append(cards, found...)
		s.logger.Info("location scraped", "location", loc.Name, "schools", len(found))

		if i < len(locations)-1 {
			if err := sleepCtx(ctx, s.locationDelay); err != nil {
				return cards, err
			}
		}
	}

	return cards, nil
}

// ScrapeLocation scrapes one regional listing page into school cards.
// Cards with no extractable content are dropped.
func (s *Scraper) ScrapeLocation(ctx context.Context, loc config.Location) ([]model.SchoolCard, error) {
	collector := colly.NewCollector(
		colly.UserAgent(s.userAgent),
		colly.StdlibContext(ctx),
	)
	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
	}); err != nil {
		return nil, fmt.Errorf("configure collector: %w", err)
	}

	var cards []model.SchoolCard
	collector.OnHTML("div.card-row", func(e *colly.HTMLElement) {
		card := parseCard(e, loc.Name)
		if !cardEmpty(card) {
			cards = append(cards, card)
		}
	})

	var fetchErr error
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("fetch %s: %w", r.Request.URL, err)
	})

	if err := collector.Visit(loc.URL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", loc.URL, err)
	}
	collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	return cards, nil
}

// parseCard extracts one school card from a div.card-row element.
// Returns a card holding only the location when the element has no
// extractable content.
func parseCard(e *colly.HTMLElement, location string) model.SchoolCard {
	card := model.SchoolCard{Location: location}

	link := e.DOM.Find("h2.card-row-title a").First()
	if link.Length() > 0 {
		card.Name = strings.TrimSpace(link.Text())
		if href, ok := link.Attr("href"); ok && href != "" {
			card.URL = e.Request.AbsoluteURL(href)
		}
	}

	if desc := e.DOM.Find("div.card-row-content").First(); desc.Length() > 0 {
		card.Description = strings.TrimSpace(desc.Text())
	}

	parseCardProperties(e.DOM.Find("div.card-row-properties dl").First(), &card)

	return card
}

// parseCardProperties fills the card's labeled fields from a listing
// definition list. The directory renders these inverted: <dd> holds the
// label and the following <dt> holds the value.
func parseCardProperties(dl *goquery.Selection, card *model.SchoolCard) {
	labels := dl.Find("dd")
	values := dl.Find("dt")

	n := labels.Length()
	if values.Length() < n {
		n = values.Length()
	}

	for i := 0; i < n; i++ {
		label := strings.ToLower(strings.TrimSpace(labels.Eq(i).Text()))
		value := strings.TrimSpace(values.Eq(i).Text())

		switch {
		case strings.Contains(label, "curriculum"):
			card.Curriculum = value
		case strings.Contains(label, "language"):
			card.Language = value
		case strings.Contains(label, "ages"):
			card.Ages = value
		case strings.Contains(label, "fees"):
			// "Fees not available" and friends carry no information.
			if !strings.Contains(strings.ToLower(value), "not") {
				card.Fees = value
			}
		}
	}
}

// cardEmpty reports whether parsing produced nothing beyond the
// location name. Such rows are layout artifacts, not schools.
func cardEmpty(card model.SchoolCard) bool {
	return card.Name == "" && card.URL == "" && card.Description == "" &&
		card.Curriculum == "" && card.Language == "" &&
		card.Ages == "" && card.Fees == ""
}

// sleepCtx pauses for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
