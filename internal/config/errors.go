package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and the seed loader,
// and provide specific information about what is wrong with the
// configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than
// fmt.Errorf() because we don't need to include dynamic values in these
// messages.
var (
	// ErrNoSeeds is returned when the seeds file parses to an empty
	// list. A crawl without seed sites has nothing to do.
	ErrNoSeeds = errors.New("no seeds: the seeds file lists no sites")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page bound is not positive.
	// A bound of zero would end every site crawl before the first fetch.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidDelay is returned when any politeness delay is negative.
	// A negative delay is invalid; use 0 for no delay between requests.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidKeyStrategy is returned when --key-strategy names an
	// unknown strategy. Valid values are "id-prefix" and "url-segment".
	ErrInvalidKeyStrategy = errors.New("invalid key strategy: must be \"id-prefix\" or \"url-segment\"")

	// ErrInvalidDetailAttempts is returned when the detail retry budget
	// is not positive. Zero attempts would skip every detail page.
	ErrInvalidDetailAttempts = errors.New("invalid detail attempts: must be positive")

	// ErrInvalidSaveEvery is returned when the progress-save interval is
	// not positive.
	ErrInvalidSaveEvery = errors.New("invalid save interval: must be positive")

	// ErrSkipRecentWithoutDB is returned when --skip-recent is set but
	// no crawl archive is configured to check against.
	ErrSkipRecentWithoutDB = errors.New("skip-recent requires the crawl archive: set --db-dir or enable saving")
)
