package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still printing a human-readable message.
var (
	// ErrNoSeedSource is returned when neither base words nor URLs are given.
	ErrNoSeedSource = errors.New("no seed source: provide base words (-b) or URLs to crawl (-u)")

	// ErrEmptyOutputPath is returned when the output path is blank.
	ErrEmptyOutputPath = errors.New("invalid output path: must not be empty")

	// ErrInvalidMaxCombos is returned when the target count is not positive.
	ErrInvalidMaxCombos = errors.New("invalid max combinations: must be positive")

	// ErrInvalidMinLength is returned when the minimum length is not positive.
	ErrInvalidMinLength = errors.New("invalid minimum length: must be positive")

	// ErrEmptySymbol is returned when the custom symbol list contains an empty entry.
	ErrEmptySymbol = errors.New("invalid symbols: entries must not be empty")

	// ErrInvalidDepth is returned when the crawl depth is below 1.
	ErrInvalidDepth = errors.New("invalid crawl depth: must be at least 1")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxPages is returned when the page limit is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidWorkers is returned when the crawl worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidMaxBodySize is returned when the body size limit is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrNoLanguage is returned when crawling is enabled without a target language.
	ErrNoLanguage = errors.New("no target language: crawled words need at least one language (--lang)")

	// ErrConflictingProxy is returned when --tor and --proxy are both set.
	ErrConflictingProxy = errors.New("conflicting proxy options: --tor and --proxy cannot be used together")

	// ErrInvalidReportFormat is returned for an unknown --report value.
	ErrInvalidReportFormat = errors.New("invalid report format: must be text, json or markdown")
)
