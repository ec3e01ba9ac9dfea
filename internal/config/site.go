package config

import "time"

// SiteConfig holds site-specific configuration for a single host.
// This allows customizing crawl behavior per school site: some need a
// consent cookie, some need extra headers, and some have sprawling
// event calendars that should be skipped.
type SiteConfig struct {
	// Cookie is an HTTP cookie to send when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	// Useful for sites that gate content behind a consent banner.
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the global page bound for this site.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// IgnorePatterns are URL patterns to skip during crawling.
	// Patterns are matched against the URL path using glob syntax.
	// Typical entries: "/calendar/*", "/news/20*".
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns are URL patterns to follow during crawling.
	// If specified, only URLs matching these patterns are crawled.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`
}

// CrawlFileConfig carries crawl defaults loaded from the configuration
// file. Zero values mean "not set" and leave the built-in default (or
// CLI flag) in effect, so the precedence is: defaults, then file, then
// flags.
type CrawlFileConfig struct {
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `yaml:"timeoutSeconds,omitempty"`

	// MaxPages is the frontier-pop bound per site crawl.
	MaxPages int `yaml:"maxPages,omitempty"`

	// DelaySeconds is the politeness delay between fetches in seconds.
	DelaySeconds int `yaml:"delaySeconds,omitempty"`

	// UserAgent overrides the browser-like default identifier.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .schoolscan configuration file.
type File struct {
	// Crawl carries file-level crawl defaults applied before CLI flags.
	Crawl CrawlFileConfig `yaml:"crawl,omitempty"`

	// Sites maps hostnames to their site-specific configurations.
	// Keys should be the bare hostname (e.g., "www.school.example.jp").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Locations overrides the built-in directory location list when
	// non-empty.
	Locations []Location `yaml:"locations,omitempty"`
}

// GetSiteConfig returns the configuration for a specific hostname.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if len(siteConfig.Headers) > 0 {
			// Copy before merging: result.Headers still aliases the
			// defaults' map, and writes there would leak this site's
			// headers into every later lookup.
			merged := make(map[string]string, len(result.Headers)+len(siteConfig.Headers))
			for k, v := range result.Headers {
				merged[k] = v
			}
			for k, v := range siteConfig.Headers {
				merged[k] = v
			}
			result.Headers = merged
		}
		if len(siteConfig.IgnorePatterns) > 0 {
			result.IgnorePatterns = siteConfig.IgnorePatterns
		}
		if len(siteConfig.FollowPatterns) > 0 {
			result.FollowPatterns = siteConfig.FollowPatterns
		}
	}

	return result
}

// Apply folds file-level crawl defaults into cfg. Only fields the file
// actually sets are copied, so flag values applied afterwards win.
func (fc CrawlFileConfig) Apply(cfg *Config) {
	if fc.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(fc.TimeoutSeconds) * time.Second
	}
	if fc.MaxPages > 0 {
		cfg.MaxPages = fc.MaxPages
	}
	if fc.DelaySeconds > 0 {
		cfg.CrawlDelay = time.Duration(fc.DelaySeconds) * time.Second
	}
	if fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
}
