package wordsource

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/pwforge/internal/crawler"
	"github.com/nao1215/pwforge/internal/model"
)

// Crawler fetches pages from seed URLs. *crawler.Spider implements it.
type Crawler interface {
	Crawl(ctx context.Context, seeds []string) (*crawler.Result, error)
}

// Collector assembles the seed set from base words and crawled pages.
type Collector struct {
	crawler    Crawler
	classifier *Classifier
	logger     *slog.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithCrawler sets the crawler used when seed URLs are given.
func WithCrawler(c Crawler) Option {
	return func(col *Collector) {
		col.crawler = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(col *Collector) {
		if logger != nil {
			col.logger = logger
		}
	}
}

// NewCollector creates a Collector classifying crawled tokens with classifier.
func NewCollector(classifier *Classifier, opts ...Option) *Collector {
	c := &Collector{
		classifier: classifier,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect returns the union of the normalized base words and the words
// accepted from crawling urls. Crawl statistics are nil when no URL was
// given. Page failures never surface here; the only error is a cancelled
// context.
func (c *Collector) Collect(ctx context.Context, baseWords, urls []string) (*SeedSet, *model.CrawlStats, error) {
	if len(urls) == 0 || c.crawler == nil {
		return NewSeedSet(baseWords, nil), nil, nil
	}

	result, err := c.crawler.Crawl(ctx, urls)
	if err != nil {
		return nil, nil, fmt.Errorf("crawl interrupted: %w", err)
	}

	stats := result.Stats
	seen := make(map[string]struct{})
	var crawled []string

	for _, page := range result.Pages {
		for _, segment := range page.Text {
			for _, token := range Tokenize(segment) {
				if _, dup := seen[token]; dup {
					continue
				}
				seen[token] = struct{}{}
				stats.Tokens++

				switch c.classifier.Classify(token) {
				case Accepted:
					stats.Accepted++
					crawled = append(crawled, token)
				case Excluded:
					stats.Excluded++
				case WrongLanguage:
					stats.WrongLanguage++
				}
			}
		}
	}

	// Image metadata skips language detection.
	for _, value := range result.Metadata {
		for _, token := range Tokenize(value) {
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			stats.Tokens++
			if c.classifier.IsExcluded(token) {
				stats.Excluded++
				continue
			}
			stats.Accepted++
			stats.EXIFWords++
			crawled = append(crawled, token)
		}
	}

	seeds := NewSeedSet(baseWords, crawled)
	c.logger.Debug("seed words collected",
		"base", seeds.BaseCount(),
		"crawled", seeds.CrawledCount(),
		"pages", stats.PagesFetched,
		"page_errors", stats.PageErrors)

	return seeds, &stats, nil
}
