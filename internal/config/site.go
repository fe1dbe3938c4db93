package config

import (
	"net/url"
	"strings"
	"time"
)

// SiteConfig holds crawl settings for a single host.
type SiteConfig struct {
	// Cookie is an HTTP cookie to send when crawling this host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Depth overrides the global crawl depth for seed URLs on this host.
	// If zero, the global CrawlDepth is used.
	Depth int `yaml:"depth,omitempty"`

	// IgnorePatterns are URL path globs to skip during crawling.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns are URL path globs to follow during crawling.
	// If specified, only links matching one of them are crawled.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`
}

// GenerationSection is the "generation" block of the configuration file.
type GenerationSection struct {
	MaxCombos  int      `yaml:"maxCombos,omitempty"`
	MinLength  int      `yaml:"minLength,omitempty"`
	Symbols    []string `yaml:"symbols,omitempty"`
	NoSimilar  bool     `yaml:"noSimilar,omitempty"`
	Languages  []string `yaml:"languages,omitempty"`
	SlangList  string   `yaml:"slangList,omitempty"`
	BreachList string   `yaml:"breachList,omitempty"`
	Output     string   `yaml:"output,omitempty"`
}

// CrawlSection is the "crawl" block of the configuration file.
type CrawlSection struct {
	Depth       int           `yaml:"depth,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	Delay       time.Duration `yaml:"delay,omitempty"`
	Workers     int           `yaml:"workers,omitempty"`
	MaxPages    int           `yaml:"maxPages,omitempty"`
	MaxBodySize int64         `yaml:"maxBodySize,omitempty"`
	UserAgent   string        `yaml:"userAgent,omitempty"`
	EXIF        bool          `yaml:"exif,omitempty"`
	Proxy       string        `yaml:"proxy,omitempty"`
}

// File represents the structure of the .pwforge configuration file.
type File struct {
	// Generation overrides the built-in generation defaults.
	Generation GenerationSection `yaml:"generation,omitempty"`

	// Crawl overrides the built-in crawl defaults.
	Crawl CrawlSection `yaml:"crawl,omitempty"`

	// Sites maps hosts (e.g. "example.co.ke") to their crawl settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains site settings applied to every host
	// unless overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a host.
// It merges the host-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	siteConfig, ok := cf.Sites[strings.ToLower(host)]
	if !ok {
		return result
	}

	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if siteConfig.Depth != 0 {
		result.Depth = siteConfig.Depth
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range siteConfig.Headers {
			result.Headers[k] = v
		}
	}
	if len(siteConfig.IgnorePatterns) > 0 {
		result.IgnorePatterns = siteConfig.IgnorePatterns
	}
	if len(siteConfig.FollowPatterns) > 0 {
		result.FollowPatterns = siteConfig.FollowPatterns
	}

	return result
}

// GetSiteConfigForURL looks up the site configuration for the host of rawURL.
// An unparseable URL gets the defaults.
func (cf *File) GetSiteConfigForURL(rawURL string) SiteConfig {
	u, err := url.Parse(rawURL)
	if err != nil {
		return cf.GetSiteConfig("")
	}
	return cf.GetSiteConfig(u.Host)
}

// Apply copies every non-zero value of the file's generation and crawl
// sections onto c. Values already set by CLI flags must be applied after.
func (cf *File) Apply(c *Config) {
	g := cf.Generation
	if g.MaxCombos != 0 {
		c.MaxCombos = g.MaxCombos
	}
	if g.MinLength != 0 {
		c.MinLength = g.MinLength
	}
	if len(g.Symbols) > 0 {
		c.Symbols = g.Symbols
	}
	if g.NoSimilar {
		c.NoSimilar = true
	}
	if len(g.Languages) > 0 {
		c.Languages = g.Languages
	}
	if g.SlangList != "" {
		c.SlangListPath = g.SlangList
	}
	if g.BreachList != "" {
		c.BreachListPath = g.BreachList
	}
	if g.Output != "" {
		c.OutputPath = g.Output
	}

	cr := cf.Crawl
	if cr.Depth != 0 {
		c.CrawlDepth = cr.Depth
	}
	if cr.Timeout != 0 {
		c.Timeout = cr.Timeout
	}
	if cr.Delay != 0 {
		c.CrawlDelay = cr.Delay
	}
	if cr.Workers != 0 {
		c.Workers = cr.Workers
	}
	if cr.MaxPages != 0 {
		c.MaxPages = cr.MaxPages
	}
	if cr.MaxBodySize != 0 {
		c.MaxBodySize = cr.MaxBodySize
	}
	if cr.UserAgent != "" {
		c.UserAgent = cr.UserAgent
	}
	if cr.EXIF {
		c.HarvestEXIF = true
	}
	if cr.Proxy != "" {
		c.ProxyAddress = cr.Proxy
	}

	c.SiteConfigs = cf
}
