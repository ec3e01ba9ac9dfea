package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are tuned against the school sites this tool targets;
// several of them reject default client identifiers or throttle fast
// crawlers, so the defaults lean conservative.
const (
	// DefaultTimeout is set to 10 seconds. School sites are ordinary
	// clearnet hosts; if a page takes longer than this it is almost
	// always a dead link, and waiting longer just stalls the crawl.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxPages bounds the number of frontier pops per site crawl.
	// Ten pages is enough to cover the navigation of a typical school
	// site (home, admissions, contact, curriculum) without wandering
	// into calendar archives. Users can override this via --max-pages.
	DefaultMaxPages = 10

	// DefaultCrawlDelay is the politeness delay between fetch attempts
	// within one site crawl. 1 second is conservative and respectful of
	// server resources. Can be adjusted via --crawl-delay.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultUserAgent is a browser-like identifier. Several school
	// directories answer 403 to anything that looks like a script, so
	// the default imitates a desktop Chrome build.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultDetailAttempts is the number of tries for one detail page
	// before giving up on it permanently. Detail hosts shed load by
	// dropping connections rather than serving errors, so a few spaced
	// retries recover most pages.
	DefaultDetailAttempts = 3

	// DefaultDetailRetryDelay is the wait before the first detail-page
	// retry. Each further retry doubles it (5s, 10s, 20s).
	DefaultDetailRetryDelay = 5 * time.Second

	// DefaultDetailDelay is the pause between consecutive detail-page
	// fetches. The detail host rate-limits aggressively; 12 seconds
	// keeps a long enrichment run below its threshold.
	DefaultDetailDelay = 12 * time.Second

	// DefaultLocationDelay is the pause between directory location
	// pages. Listing pages are cheap to serve, so this can be much
	// shorter than the detail delay.
	DefaultLocationDelay = 2 * time.Second

	// DefaultSaveEvery controls how often long enrichment runs flush
	// progress to the output file. Every third school keeps the window
	// of lost work small without rewriting the file constantly.
	DefaultSaveEvery = 3

	// AppName is the application name used for XDG directory paths.
	AppName = "schoolscan"
)

// Default file names for each pipeline stage. The stages chain through
// these files, so one stage's default output is the next stage's
// default input.
const (
	// DefaultSeedsFile lists the sites to crawl as {id, url} pairs.
	DefaultSeedsFile = "urls.json"

	// DefaultCrawlOutput receives the raw page records from a crawl.
	DefaultCrawlOutput = "scraped_output.json"

	// DefaultAggregateOutput receives the per-site school records.
	DefaultAggregateOutput = "normalized_output.json"

	// DefaultDirectoryOutput receives directory cards. The enrichment
	// pass rewrites this same file in place as details come in.
	DefaultDirectoryOutput = "japanese_schools_output.json"

	// DefaultMergeEnglishInput and DefaultMergeJapaneseInput are the two
	// language exports consumed by the bilingual merge.
	DefaultMergeEnglishInput  = "japanese_schools_output.json"
	DefaultMergeJapaneseInput = "japanese_schools_output_jp.json"

	// DefaultMergeOutput receives the merged bilingual records.
	DefaultMergeOutput = "normalized_japanese_schools.json"
)

// Site key derivation strategies accepted by the --key-strategy flag.
const (
	// KeyStrategyIDPrefix groups page records by the composite-id prefix
	// before the first dash. This is the right choice for crawler output.
	KeyStrategyIDPrefix = "id-prefix"

	// KeyStrategyURLSegment groups records by the trailing path segment
	// of their URL. This is the right choice for merging cross-language
	// card exports, where ids differ per export but URLs share a slug.
	KeyStrategyURLSegment = "url-segment"
)

// Config holds all configuration options for schoolscan.
// This struct is designed to be populated from CLI flags and passed
// through the application via dependency injection rather than global
// state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, MergeConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant
// benefit. Commands only read the fields relevant to them.
type Config struct {
	// SeedsFile is the JSON file listing {id, url} seed sites for the
	// crawl command.
	SeedsFile string

	// InputFile is the page-record file consumed by the aggregate
	// command.
	InputFile string

	// EnglishFile and JapaneseFile are the two card exports consumed by
	// the merge command.
	EnglishFile  string
	JapaneseFile string

	// OutputFile is where the active command writes its JSON result.
	// Each command falls back to its stage default when empty.
	OutputFile string

	// ReportFile is an optional human-readable summary destination.
	// When set, aggregate and merge write a Markdown summary next to
	// their JSON output.
	ReportFile string

	// Timeout is the per-request timeout for all HTTP fetches.
	Timeout time.Duration

	// MaxPages bounds the number of frontier pops per site crawl.
	// Failed fetches count against this bound, successful extraction
	// does not raise it.
	MaxPages int

	// CrawlDelay is the politeness delay after every fetch attempt
	// during crawling. Lower values may trigger rate limiting.
	CrawlDelay time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated. Set to 0 to use the
	// default (5MB).
	MaxBodySize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .schoolscan in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific overrides loaded from the config
	// file. This is populated by LoadConfigFile and used during crawls.
	SiteConfigs *File

	// RespectRobots gates crawling on the target's robots.txt.
	// Disabled by default: the seed list is curated by hand and several
	// school sites publish a blanket Disallow while expecting directory
	// crawlers. Enable via --respect-robots for unattended runs.
	RespectRobots bool

	// DBDir is the directory path for storing the SQLite crawl archive.
	// When set, fetched pages and crawl runs are recorded for reuse.
	// When empty, nothing is persisted.
	// Defaults to XDG data directory (~/.local/share/schoolscan on Linux).
	DBDir string

	// SaveToDB indicates whether to record crawl results in the archive.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// SkipRecent makes the crawl command skip seed sites that already
	// have an archived crawl newer than this window. Zero disables the
	// check. Requires the archive to be enabled.
	SkipRecent time.Duration

	// KeyStrategy selects how the aggregate command derives the site
	// key: KeyStrategyIDPrefix or KeyStrategyURLSegment.
	KeyStrategy string

	// DetailAttempts is the number of tries per detail page before the
	// enrichment pass gives up on that URL.
	DetailAttempts int

	// DetailRetryDelay is the wait before the first detail retry;
	// it doubles after every failed attempt.
	DetailRetryDelay time.Duration

	// DetailDelay is the pause between consecutive detail-page fetches.
	DetailDelay time.Duration

	// LocationDelay is the pause between directory location pages.
	LocationDelay time.Duration

	// SaveEvery controls how often the enrichment pass rewrites its
	// output file with accumulated progress.
	SaveEvery int
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, delays).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		SeedsFile:        DefaultSeedsFile,
		EnglishFile:      DefaultMergeEnglishInput,
		JapaneseFile:     DefaultMergeJapaneseInput,
		Timeout:          DefaultTimeout,
		MaxPages:         DefaultMaxPages,
		CrawlDelay:       DefaultCrawlDelay,
		UserAgent:        DefaultUserAgent,
		MaxBodySize:      DefaultMaxBodySize,
		KeyStrategy:      KeyStrategyIDPrefix,
		DetailAttempts:   DefaultDetailAttempts,
		DetailRetryDelay: DefaultDetailRetryDelay,
		DetailDelay:      DefaultDetailDelay,
		LocationDelay:    DefaultLocationDelay,
		SaveEvery:        DefaultSaveEvery,
	}
}

// XDGDataDir returns the XDG data directory for schoolscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/schoolscan
// On macOS: ~/Library/Application Support/schoolscan
// On Windows: %LOCALAPPDATA%\schoolscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for schoolscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/schoolscan
// On macOS: ~/Library/Application Support/schoolscan
// On Windows: %APPDATA%\schoolscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for schoolscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/schoolscan
// On macOS: ~/Library/Caches/schoolscan
// On Windows: %LOCALAPPDATA%\schoolscan\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any network work begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// MaxPages must be positive; zero would mean no crawling at all
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	// All politeness delays must be non-negative
	if c.CrawlDelay < 0 || c.DetailRetryDelay < 0 || c.DetailDelay < 0 || c.LocationDelay < 0 {
		return ErrInvalidDelay
	}

	// MaxBodySize must be non-negative; 0 means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// KeyStrategy must be one of the known names
	if c.KeyStrategy != KeyStrategyIDPrefix && c.KeyStrategy != KeyStrategyURLSegment {
		return ErrInvalidKeyStrategy
	}

	// DetailAttempts must be positive; zero would skip every detail page
	if c.DetailAttempts <= 0 {
		return ErrInvalidDetailAttempts
	}

	// SaveEvery must be positive; zero would divide by zero in the
	// progress-save check
	if c.SaveEvery <= 0 {
		return ErrInvalidSaveEvery
	}

	// SkipRecent needs the archive to compare against
	if c.SkipRecent > 0 && !c.SaveToDB && c.DBDir == "" {
		return ErrSkipRecentWithoutDB
	}

	return nil
}
