package config

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultOutputPath is the wordlist file written when no -o flag is given.
	DefaultOutputPath = "passwords.txt"

	// DefaultMaxCombos is the number of candidates a run stops at.
	DefaultMaxCombos = 100000

	// DefaultMinLength is the shortest candidate accepted into the wordlist.
	// Most password policies require at least 8 characters, so shorter
	// guesses are wasted attempts.
	DefaultMinLength = 8

	// DefaultCrawlDepth of 1 fetches only the seed pages themselves.
	// Depth is 1-based: depth 2 also follows links found on the seed pages.
	DefaultCrawlDepth = 1

	// DefaultTimeout bounds every page fetch. A blocked fetch is treated as
	// a failed page once this elapses.
	DefaultTimeout = 15 * time.Second

	// DefaultCrawlDelay is the minimum interval between two requests of the
	// same crawl.
	DefaultCrawlDelay = 250 * time.Millisecond

	// DefaultMaxPages limits the pages fetched across the whole crawl.
	DefaultMaxPages = 500

	// DefaultWorkers of 1 crawls seed URLs sequentially.
	DefaultWorkers = 1

	// DefaultMaxBodySize limits how much of each response is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies pwforge in HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 (compatible; pwforge/1.0; +https://github.com/nao1215/pwforge)"

	// DefaultSlangList is the slang exclusion list looked up in the working directory.
	DefaultSlangList = "sheng_words.txt"

	// DefaultBreachList is the breach-pattern exclusion list looked up in the working directory.
	DefaultBreachList = "breach_words.txt"

	// DefaultLanguage is the ISO 639-1 code crawled words must be detected as.
	DefaultLanguage = "sw"

	// DefaultTorStartupTimeout is how long the embedded Tor daemon may take to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute

	// AppName is the application name used for XDG directory paths.
	AppName = "pwforge"
)

// Report formats accepted by --report.
const (
	ReportText     = "text"
	ReportJSON     = "json"
	ReportMarkdown = "markdown"
)

// Seed word length bounds, in runes, applied after normalization.
const (
	MinSeedLength = 3
	MaxSeedLength = 14
)

// DefaultSymbols returns the symbol alphabet used when no custom symbols
// are configured. A fresh slice is returned on every call.
func DefaultSymbols() []string {
	return []string{"!", "@", "#", "$", "%", ".", "*"}
}

// DefaultSeparators returns the separators used by word merging when no
// custom symbols are configured. The empty separator joins words directly.
func DefaultSeparators() []string {
	return []string{"", "_", ".", "-"}
}

// NumericPatterns returns the fixed numeric suffixes mixed into seed words.
func NumericPatterns() []string {
	return []string{"123", "69", "007", "2023", "2024", "00"}
}

// Config holds all options for one generation run.
// It is populated from defaults, the configuration file and CLI flags,
// in that order of precedence, and passed explicitly to every component.
type Config struct {
	// OutputPath is the wordlist file candidates are appended to.
	OutputPath string

	// MaxCombos is the target count; generation stops once this many
	// candidates are in the output.
	MaxCombos int

	// MinLength is the minimum candidate length in runes.
	MinLength int

	// Symbols is the custom symbol list. Nil means "not configured":
	// number mixing and advanced patterns then use DefaultSymbols and
	// word merging uses DefaultSeparators.
	Symbols []string

	// NoSimilar replaces i, o and s with 1, 0 and $ in basic variations
	// and merged words.
	NoSimilar bool

	// BaseWords are the user-supplied seed words.
	BaseWords []string

	// URLs are the seed pages to harvest words from. Empty disables crawling.
	URLs []string

	// CrawlDepth is the maximum recursion depth, starting at 1 for seed pages.
	CrawlDepth int

	// Languages are the ISO 639-1 codes a crawled word must be detected as.
	Languages []string

	// SlangListPath and BreachListPath point at optional exclusion lists.
	// Missing files are treated as empty lists.
	SlangListPath  string
	BreachListPath string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// CrawlDelay is the minimum interval between requests.
	CrawlDelay time.Duration

	// MaxPages limits pages fetched across the whole crawl.
	MaxPages int

	// Workers is the number of seed URLs crawled concurrently.
	Workers int

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// UserAgent is sent with every request.
	UserAgent string

	// HarvestEXIF also extracts words from image metadata on crawled pages.
	HarvestEXIF bool

	// UseTor routes the crawl through an embedded Tor daemon.
	UseTor bool

	// TorStartupTimeout bounds embedded Tor bootstrap.
	TorStartupTimeout time.Duration

	// ProxyAddress routes the crawl through an external SOCKS5 proxy ("host:port").
	ProxyAddress string

	// Append keeps existing output lines and never writes them again.
	// Existing lines count toward MaxCombos.
	Append bool

	// ReportFormat is one of ReportText, ReportJSON or ReportMarkdown.
	ReportFormat string

	// ReportFile receives the run report instead of stdout when set.
	ReportFile string

	// SaveHistory records the run in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	DBDir string

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches log output to JSON.
	LogJSON bool

	// ConfigFilePath is the configuration file given with -c, if any.
	ConfigFilePath string

	// SiteConfigs holds per-host crawl settings loaded from the config file.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		OutputPath:        DefaultOutputPath,
		MaxCombos:         DefaultMaxCombos,
		MinLength:         DefaultMinLength,
		CrawlDepth:        DefaultCrawlDepth,
		Languages:         []string{DefaultLanguage},
		SlangListPath:     DefaultSlangList,
		BreachListPath:    DefaultBreachList,
		Timeout:           DefaultTimeout,
		CrawlDelay:        DefaultCrawlDelay,
		MaxPages:          DefaultMaxPages,
		Workers:           DefaultWorkers,
		MaxBodySize:       DefaultMaxBodySize,
		UserAgent:         DefaultUserAgent,
		TorStartupTimeout: DefaultTorStartupTimeout,
		ReportFormat:      ReportText,
		SaveHistory:       true,
		DBDir:             XDGDataDir(),
		SiteConfigs:       &File{Sites: make(map[string]SiteConfig)},
	}
}

// XDGDataDir returns the XDG data directory for pwforge.
// On Linux: ~/.local/share/pwforge
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pwforge.
// On Linux: ~/.config/pwforge
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// SymbolAlphabet returns the symbols drawn by number mixing and advanced
// patterns: the custom list if configured, DefaultSymbols otherwise.
func (c *Config) SymbolAlphabet() []string {
	if len(c.Symbols) > 0 {
		return slices.Clone(c.Symbols)
	}
	return DefaultSymbols()
}

// Separators returns the separators used by word merging: the custom
// symbol list if configured, DefaultSeparators otherwise.
func (c *Config) Separators() []string {
	if len(c.Symbols) > 0 {
		return slices.Clone(c.Symbols)
	}
	return DefaultSeparators()
}

// CrawlEnabled reports whether any seed URL is configured.
func (c *Config) CrawlEnabled() bool {
	return len(c.URLs) > 0
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the package sentinel errors.
func (c *Config) Validate() error {
	if len(c.BaseWords) == 0 && len(c.URLs) == 0 {
		return ErrNoSeedSource
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return ErrEmptyOutputPath
	}
	if c.MaxCombos <= 0 {
		return ErrInvalidMaxCombos
	}
	if c.MinLength <= 0 {
		return ErrInvalidMinLength
	}
	for _, s := range c.Symbols {
		if s == "" {
			return ErrEmptySymbol
		}
	}
	if c.CrawlDepth < 1 {
		return ErrInvalidDepth
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.CrawlEnabled() && len(c.Languages) == 0 {
		return ErrNoLanguage
	}
	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingProxy
	}
	switch c.ReportFormat {
	case ReportText, ReportJSON, ReportMarkdown:
	default:
		return ErrInvalidReportFormat
	}
	return nil
}

// SplitList splits a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitSymbols splits a comma-separated symbol list. Unlike SplitList it
// does not trim, so a space can be used as a symbol.
func SplitSymbols(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
