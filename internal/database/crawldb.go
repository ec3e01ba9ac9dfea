package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/edudata/schoolscan/internal/model"
)

// CrawlDB provides SQLite-based storage for crawled pages and crawl runs.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all sites rather
// than one file per seed site. This keeps cross-site queries (run
// history, page counts) trivial and makes backup a single-file copy.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "schoolscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses its own connection string format.
	// mode=rw prevents creating new files; mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections for writes,
	// and the pipeline is sequential anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Pages store individual fetched page records
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		page_id TEXT NOT NULL,
		site_id TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT,
		data TEXT,
		headers TEXT,
		links TEXT,
		scraped_at TEXT,
		UNIQUE(url, site_id)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_site ON pages(site_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	CREATE INDEX IF NOT EXISTS idx_pages_scraped_at ON pages(scraped_at);

	-- Crawl runs store per-site crawl outcomes
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site_id TEXT NOT NULL,
		seed_url TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		pages_extracted INTEGER DEFAULT 0,
		fetch_failures INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_site ON crawl_runs(site_id);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON crawl_runs(started_at);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SavePage inserts or updates one page record under the given site id.
// Re-crawling a URL replaces the stored row (same URL + site), so the
// archive always holds the latest capture of each page.
func (cdb *CrawlDB) SavePage(ctx context.Context, siteID string, page model.PageRecord) error {
	headersJSON, err := json.Marshal(page.Headers)
	if err != nil {
		return fmt.Errorf("failed to serialize headers: %w", err)
	}
	linksJSON, err := json.Marshal(page.Links)
	if err != nil {
		return fmt.Errorf("failed to serialize links: %w", err)
	}

	query := `
	INSERT INTO pages (page_id, site_id, url, title, data, headers, links, scraped_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url, site_id) DO UPDATE SET
		page_id = excluded.page_id,
		title = excluded.title,
		data = excluded.data,
		headers = excluded.headers,
		links = excluded.links,
		scraped_at = excluded.scraped_at
	`

	if _, err := cdb.db.ExecContext(ctx, query,
		page.ID,
		siteID,
		page.URL,
		page.Title,
		page.Data,
		string(headersJSON),
		string(linksJSON),
		page.ScrapedAt,
	); err != nil {
		return fmt.Errorf("failed to save page record: %w", err)
	}

	return nil
}

// SavePages stores a batch of page records under one site id.
func (cdb *CrawlDB) SavePages(ctx context.Context, siteID string, pages []model.PageRecord) error {
	for _, page := range pages {
		if err := cdb.SavePage(ctx, siteID, page); err != nil {
			return err
		}
	}
	return nil
}

// GetPagesForSite retrieves a site's archived pages in page-id order.
func (cdb *CrawlDB) GetPagesForSite(ctx context.Context, siteID string) ([]model.PageRecord, error) {
	query := `
	SELECT page_id, url, title, data, headers, links, scraped_at
	FROM pages
	WHERE site_id = ?
	ORDER BY id
	`

	rows, err := cdb.db.QueryContext(ctx, query, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []model.PageRecord
	for rows.Next() {
		var page model.PageRecord
		var headersJSON, linksJSON string

		if err := rows.Scan(
			&page.ID,
			&page.URL,
			&page.Title,
			&page.Data,
			&headersJSON,
			&linksJSON,
			&page.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan page record: %w", err)
		}

		if headersJSON != "" {
			if err := json.Unmarshal([]byte(headersJSON), &page.Headers); err != nil {
				return nil, fmt.Errorf("failed to parse headers: %w", err)
			}
		}
		if linksJSON != "" {
			if err := json.Unmarshal([]byte(linksJSON), &page.Links); err != nil {
				return nil, fmt.Errorf("failed to parse links: %w", err)
			}
		}

		pages = append(pages, page)
	}

	return pages, rows.Err()
}

// CountPages returns the number of archived pages for a site, or the
// total across all sites when siteID is empty.
func (cdb *CrawlDB) CountPages(ctx context.Context, siteID string) (int, error) {
	query := `SELECT COUNT(*) FROM pages`
	args := make([]any, 0, 1)
	if siteID != "" {
		query += ` WHERE site_id = ?`
		args = append(args, siteID)
	}

	var count int
	if err := cdb.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}

// ListSites returns all site ids with archived pages, sorted.
func (cdb *CrawlDB) ListSites(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT site_id FROM pages
	ORDER BY site_id
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}

	return sites, rows.Err()
}

// CrawlRun describes one recorded site crawl.
type CrawlRun struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// SiteID is the seed site the run crawled.
	SiteID string

	// SeedURL is the URL the crawl started from.
	SeedURL string

	// StartedAt is when the run was recorded.
	StartedAt time.Time

	// PagesExtracted counts successfully extracted pages.
	PagesExtracted int

	// FetchFailures counts failed fetch attempts.
	FetchFailures int
}

// RecordCrawlRun stores the outcome of one site crawl.
func (cdb *CrawlDB) RecordCrawlRun(ctx context.Context, run *CrawlRun) (int64, error) {
	query := `
	INSERT INTO crawl_runs (site_id, seed_url, pages_extracted, fetch_failures)
	VALUES (?, ?, ?, ?)
	`

	result, err := cdb.db.ExecContext(ctx, query,
		run.SiteID,
		run.SeedURL,
		run.PagesExtracted,
		run.FetchFailures,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record crawl run: %w", err)
	}

	return result.LastInsertId()
}

// HasRecentCrawl checks if a site was crawled within the specified duration.
// The crawl command uses this for --skip-recent.
func (cdb *CrawlDB) HasRecentCrawl(ctx context.Context, siteID string, duration time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM crawl_runs
	WHERE site_id = ? AND started_at > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(duration.Seconds()))

	var count int
	err := cdb.db.QueryRowContext(ctx, query, siteID, modifier).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check recent crawl: %w", err)
	}

	return count > 0, nil
}

// GetCrawlRuns retrieves a site's recorded runs, most recent first.
func (cdb *CrawlDB) GetCrawlRuns(ctx context.Context, siteID string) ([]CrawlRun, error) {
	query := `
	SELECT id, site_id, seed_url, started_at, pages_extracted, fetch_failures
	FROM crawl_runs
	WHERE site_id = ?
	ORDER BY started_at DESC, id DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl runs: %w", err)
	}
	defer rows.Close()

	var results []CrawlRun
	for rows.Next() {
		var run CrawlRun
		var startedAt string

		if err := rows.Scan(
			&run.ID,
			&run.SiteID,
			&run.SeedURL,
			&startedAt,
			&run.PagesExtracted,
			&run.FetchFailures,
		); err != nil {
			return nil, fmt.Errorf("failed to scan crawl run: %w", err)
		}

		run.StartedAt = parseTimestamp(startedAt)
		results = append(results, run)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
