// Package crawler fetches seed pages and extracts the text pwforge
// harvests seed words from.
//
// A Spider crawls each seed URL depth first. Seed pages are depth 1; links
// are followed while the depth is below the limit and only when they stay
// on the seed's host. One visited set is shared by every seed of a crawl,
// so a page reachable from two seeds is fetched once. Pages whose body hash
// was already seen contribute nothing and are not followed again.
//
// Failures are per page: a timeout, DNS error, non-200 status or unreadable
// body is logged and counted in the crawl statistics, and the crawl goes
// on with the remaining links and seeds.
//
//	clients, _ := transport.New(transport.WithUserAgent(ua))
//	spider := crawler.NewSpider(clients, crawler.WithMaxDepth(2))
//	result, err := spider.Crawl(ctx, []string{"https://habari.co.ke"})
//
// The Parser collects the title, meta description and keywords, headings
// h1 to h4, and visible body text. Script, style, noscript and template
// contents are ignored.
package crawler
