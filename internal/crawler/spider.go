package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nao1215/pwforge/internal/config"
	"github.com/nao1215/pwforge/internal/model"
)

// ErrInvalidSeedURL is logged for seed URLs that cannot be crawled.
var ErrInvalidSeedURL = errors.New("invalid seed URL: expected an absolute http or https URL")

// ClientFactory returns HTTP clients carrying per-site cookies and headers.
// *transport.Client implements it.
type ClientFactory interface {
	ForSite(cookie string, headers map[string]string) *http.Client
}

// Spider harvests page text from seed URLs. Each seed is crawled
// recursively up to the maximum depth, following same-host links only.
type Spider struct {
	clients     ClientFactory
	sites       *config.File
	logger      *slog.Logger
	maxDepth    int
	maxPages    int
	workers     int
	delay       time.Duration
	maxBodySize int64
	harvestEXIF bool
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the maximum crawl depth. Seed pages are depth 1.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithMaxPages limits the pages fetched across the whole crawl.
func WithMaxPages(n int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = n
	}
}

// WithWorkers sets how many seed URLs are crawled concurrently.
func WithWorkers(n int) SpiderOption {
	return func(s *Spider) {
		s.workers = n
	}
}

// WithDelay sets the minimum interval between two requests.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithMaxBodySize limits how many bytes of each response are read.
func WithMaxBodySize(n int64) SpiderOption {
	return func(s *Spider) {
		s.maxBodySize = n
	}
}

// WithEXIF also fetches same-host JPEG, TIFF and HEIC images and keeps
// the text tags of their EXIF metadata.
func WithEXIF(enabled bool) SpiderOption {
	return func(s *Spider) {
		s.harvestEXIF = enabled
	}
}

// WithSites sets the per-host cookies, headers, depth overrides and
// path patterns.
func WithSites(sites *config.File) SpiderOption {
	return func(s *Spider) {
		if sites != nil {
			s.sites = sites
		}
	}
}

// WithLogger sets the logger for per-page failures.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSpider creates a Spider fetching through clients.
func NewSpider(clients ClientFactory, opts ...SpiderOption) *Spider {
	s := &Spider{
		clients:     clients,
		sites:       &config.File{Sites: map[string]config.SiteConfig{}},
		logger:      slog.Default(),
		maxDepth:    config.DefaultCrawlDepth,
		maxPages:    config.DefaultMaxPages,
		workers:     config.DefaultWorkers,
		delay:       config.DefaultCrawlDelay,
		maxBodySize: config.DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is the outcome of one crawl.
type Result struct {
	// Pages are the successfully fetched, non-duplicate pages in
	// discovery order.
	Pages []*model.Page

	// Metadata holds EXIF text values harvested from images.
	Metadata []string

	// Stats counts seeds, pages and images.
	Stats model.CrawlStats
}

// traversal is the mutable state of one Crawl call. It is shared by every
// recursive step and every worker, and discarded when Crawl returns.
type traversal struct {
	mu       sync.Mutex
	visited  map[string]bool
	hashes   map[string]bool
	fetches  int
	pages    []*model.Page
	metadata []string
	stats    model.CrawlStats
	limiter  *rate.Limiter
}

// visit marks u as visited and reports whether it was new.
func (t *traversal) visit(u string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.visited[u] {
		return false
	}
	t.visited[u] = true
	return true
}

// reserve takes one fetch from the page budget.
func (t *traversal) reserve(limit int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fetches >= limit {
		return false
	}
	t.fetches++
	return true
}

// addPage records p unless a page with the same content was seen.
func (t *traversal) addPage(p *model.Page) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p.Hash != "" && t.hashes[p.Hash] {
		t.stats.DuplicatePages++
		return false
	}
	if p.Hash != "" {
		t.hashes[p.Hash] = true
	}
	t.pages = append(t.pages, p)
	t.stats.PagesFetched++
	return true
}

func (t *traversal) pageError() {
	t.mu.Lock()
	t.stats.PageErrors++
	t.mu.Unlock()
}

func (t *traversal) addMetadata(values []string) {
	t.mu.Lock()
	t.stats.EXIFImages++
	t.metadata = append(t.metadata, values...)
	t.mu.Unlock()
}

// seedScope holds the settings that apply to every page below one seed.
type seedScope struct {
	host     string
	client   *http.Client
	maxDepth int
	ignore   []string
	follow   []string
}

// Crawl fetches every seed URL and the same-host pages reachable from it
// within the depth limit. Page failures are logged and counted, never
// returned. The returned error is non-nil only when ctx is done; the
// partial result is returned with it.
func (s *Spider) Crawl(ctx context.Context, seeds []string) (*Result, error) {
	tr := &traversal{
		visited: make(map[string]bool),
		hashes:  make(map[string]bool),
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	if s.delay > 0 {
		tr.limiter = rate.NewLimiter(rate.Every(s.delay), 1)
	}

	scopes := make([]seedScope, 0, len(seeds))
	starts := make([]string, 0, len(seeds))
	for _, raw := range seeds {
		start, err := validateSeed(raw)
		if err != nil {
			s.logger.Warn("skipping seed URL", "url", raw, "error", err)
			tr.stats.InvalidURLs++
			continue
		}
		scopes = append(scopes, s.scopeFor(start))
		starts = append(starts, start.String())
	}
	tr.stats.SeedURLs = len(starts)

	workers := max(s.workers, 1)
	if workers == 1 {
		for i := range starts {
			s.crawlPage(ctx, tr, scopes[i], starts[i], 1)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := range starts {
			g.Go(func() error {
				s.crawlPage(gctx, tr, scopes[i], starts[i], 1)
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck // workers never return errors
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	result := &Result{Pages: tr.pages, Metadata: tr.metadata, Stats: tr.stats}
	return result, ctx.Err()
}

// validateSeed parses raw and requires an absolute http(s) URL.
func validateSeed(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeedURL, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidSeedURL
	}
	return u, nil
}

func (s *Spider) scopeFor(start *url.URL) seedScope {
	site := s.sites.GetSiteConfig(start.Host)
	depth := s.maxDepth
	if site.Depth > 0 {
		depth = site.Depth
	}
	return seedScope{
		host:     start.Host,
		client:   s.clients.ForSite(site.Cookie, site.Headers),
		maxDepth: depth,
		ignore:   site.IgnorePatterns,
		follow:   site.FollowPatterns,
	}
}

// crawlPage fetches pageURL at depth and recurses into its links.
func (s *Spider) crawlPage(ctx context.Context, tr *traversal, scope seedScope, pageURL string, depth int) {
	if depth > scope.maxDepth || ctx.Err() != nil {
		return
	}
	pageURL = normalizeURL(pageURL)
	if !tr.visit(pageURL) || !tr.reserve(s.maxPages) {
		return
	}
	if err := tr.limiter.Wait(ctx); err != nil {
		return
	}

	page, err := s.fetchPage(ctx, scope.client, pageURL)
	if err != nil {
		s.logger.Warn("failed to fetch page", "url", pageURL, "error", err)
		tr.pageError()
		return
	}
	page.Depth = depth
	if !tr.addPage(page) {
		s.logger.Debug("duplicate page content", "url", pageURL)
		return
	}

	if s.harvestEXIF {
		s.harvestImages(ctx, tr, scope, page.Images)
	}

	if depth >= scope.maxDepth {
		return
	}
	for _, link := range page.Links {
		if isSameHost(scope.host, link) && shouldCrawl(link, scope.ignore, scope.follow) {
			s.crawlPage(ctx, tr, scope, link, depth+1)
		}
	}
}

// errUnexpectedStatus is wrapped for every non-200 response.
var errUnexpectedStatus = errors.New("unexpected HTTP status")

// fetchPage GETs pageURL and parses it when it is an HTML 200 response.
func (s *Spider) fetchPage(ctx context.Context, client *http.Client, pageURL string) (*model.Page, error) {
	body, resp, err := s.get(ctx, client, pageURL, "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
	}

	page := &model.Page{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		ContentType: mediaType(resp.Header.Get("Content-Type")),
		Raw:         body,
	}
	page.ComputeHash()

	if page.ContentType != "" && !page.IsHTML() {
		return page, nil
	}

	parser, err := NewParser(pageURL)
	if err != nil {
		return nil, err
	}
	parsed, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}
	page.Title = parsed.Title
	page.Text = parsed.Text()
	page.Links = parsed.Links
	page.Images = parsed.Images
	return page, nil
}

// get performs one rate-limited GET and reads at most maxBodySize bytes.
func (s *Spider) get(ctx context.Context, client *http.Client, target, accept string) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", accept)

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, nil, err
	}
	return body, resp, nil
}

// harvestImages reads EXIF text from the same-host images of a page.
// Image URLs share the visited set and page budget with pages.
func (s *Spider) harvestImages(ctx context.Context, tr *traversal, scope seedScope, images []string) {
	for _, imageURL := range images {
		if ctx.Err() != nil {
			return
		}
		if !isEXIFImage(imageURL) || !isSameHost(scope.host, imageURL) {
			continue
		}
		imageURL = normalizeURL(imageURL)
		if !tr.visit(imageURL) || !tr.reserve(s.maxPages) {
			continue
		}
		if err := tr.limiter.Wait(ctx); err != nil {
			return
		}

		body, resp, err := s.get(ctx, scope.client, imageURL, "image/*")
		if err != nil || resp.StatusCode != http.StatusOK {
			s.logger.Debug("failed to fetch image", "url", imageURL, "error", err)
			continue
		}
		if values := ExtractEXIFText(body); len(values) > 0 {
			tr.addMetadata(values)
		}
	}
}

// mediaType strips parameters from a Content-Type value.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mt
}

// normalizeURL strips the fragment, lowercases scheme and host and maps
// an empty path to "/". Unparseable input is returned unchanged.
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// isSameHost reports whether target is on baseHost (host and port,
// case-insensitive, any scheme).
func isSameHost(baseHost, target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, baseHost)
}

// shouldCrawl applies the ignore patterns first, then the follow patterns.
// With no follow patterns every non-ignored path is crawled.
func shouldCrawl(target string, ignore, follow []string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range ignore {
		if matchPattern(pattern, path) {
			return false
		}
	}
	if len(follow) == 0 {
		return true
	}
	for _, pattern := range follow {
		if matchPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchPattern matches a URL path against a glob.
//   - "/admin/*" matches "/admin" and everything below it
//   - "*.pdf" matches any path ending in ".pdf"
//   - other patterns use filepath.Match, and slash-free patterns are
//     also tried against the last path element
func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	if ext, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(ext, ".") && !strings.ContainsAny(ext, "*?[") {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}
	return false
}
