package wordsource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/nao1215/pwforge/internal/crawler"
	"github.com/nao1215/pwforge/internal/log"
	"github.com/nao1215/pwforge/internal/model"
	"github.com/nao1215/pwforge/internal/transport"
)

// stubCrawler returns a fixed result.
type stubCrawler struct {
	result *crawler.Result
	err    error
	called bool
}

func (s *stubCrawler) Crawl(context.Context, []string) (*crawler.Result, error) {
	s.called = true
	return s.result, s.err
}

func TestCollectBaseWordsOnly(t *testing.T) {
	t.Parallel()

	stub := &stubCrawler{}
	col := NewCollector(NewClassifier(fakeDetector{}, []string{"sw"}, nil, nil), WithCrawler(stub))

	seeds, stats, err := col.Collect(t.Context(), []string{" Jambo", "pesa", "ok"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.called {
		t.Error("crawler must not run without URLs")
	}
	if stats != nil {
		t.Errorf("expected nil crawl stats, got %+v", stats)
	}
	if got := seeds.Words(); !slices.Equal(got, []string{"jambo", "pesa"}) {
		t.Errorf("Words() = %q", got)
	}
}

func TestCollectClassifiesCrawledText(t *testing.T) {
	t.Parallel()

	stub := &stubCrawler{result: &crawler.Result{
		Pages: []*model.Page{
			{URL: "https://habari.co.ke/", Text: []string{"Habari Nairobi hello", "poa sana"}},
			{URL: "https://habari.co.ke/2", Text: []string{"habari tena mvua"}},
		},
		Metadata: []string{"Wanjiru Kamau", "poa"},
		Stats:    model.CrawlStats{SeedURLs: 1, PagesFetched: 2},
	}}
	detector := fakeDetector{
		"habari":  "sw",
		"nairobi": "sw",
		"sana":    "sw",
		"tena":    "sw",
		"hello":   "en",
	}
	col := NewCollector(
		NewClassifier(detector, []string{"sw"}, []string{"poa"}, nil),
		WithCrawler(stub),
		WithLogger(log.Discard()),
	)

	seeds, stats, err := col.Collect(t.Context(), []string{"simba", "HABARI"}, []string{"https://habari.co.ke/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"simba", "habari", "nairobi", "sana", "tena", "wanjiru", "kamau"}
	if got := seeds.Words(); !slices.Equal(got, want) {
		t.Errorf("Words() = %q, want %q", got, want)
	}
	if seeds.BaseCount() != 2 {
		t.Errorf("BaseCount() = %d, want 2", seeds.BaseCount())
	}

	// habari nairobi hello poa sana tena mvua wanjiru kamau
	if stats.Tokens != 9 {
		t.Errorf("Tokens = %d, want 9", stats.Tokens)
	}
	if stats.Excluded != 1 {
		t.Errorf("Excluded = %d, want 1", stats.Excluded)
	}
	if stats.WrongLanguage != 2 {
		t.Errorf("WrongLanguage = %d, want 2 (hello, mvua)", stats.WrongLanguage)
	}
	if stats.Accepted != 6 || stats.EXIFWords != 2 {
		t.Errorf("Accepted = %d, EXIFWords = %d", stats.Accepted, stats.EXIFWords)
	}
	if stats.PagesFetched != 2 {
		t.Errorf("crawl counters must be carried over, got %+v", stats)
	}
}

func TestCollectCancelled(t *testing.T) {
	t.Parallel()

	stub := &stubCrawler{result: &crawler.Result{}, err: context.Canceled}
	col := NewCollector(NewClassifier(nil, nil, nil, nil), WithCrawler(stub))

	if _, _, err := col.Collect(t.Context(), []string{"simba"}, []string{"https://x.test"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCollectUnreachableURL(t *testing.T) {
	t.Parallel()

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	clients, err := transport.New()
	if err != nil {
		t.Fatalf("transport.New: %v", err)
	}
	spider := crawler.NewSpider(clients, crawler.WithDelay(0), crawler.WithMaxDepth(2), crawler.WithLogger(log.Discard()))
	col := NewCollector(
		NewClassifier(fakeDetector{"habari": "sw"}, []string{"sw"}, nil, nil),
		WithCrawler(spider),
		WithLogger(log.Discard()),
	)

	base := []string{"nairobi", "jambo"}
	seeds, stats, err := col.Collect(t.Context(), base, []string{deadURL, deadURL + "/page"})
	if err != nil {
		t.Fatalf("unreachable URL must not fail collection: %v", err)
	}
	if got := seeds.Words(); !slices.Equal(got, base) {
		t.Errorf("seed set changed by unreachable URL: %q", got)
	}
	if stats.PageErrors != 2 || stats.PagesFetched != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestCollectLiveSite(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, `<html><head><title>Habari</title></head><body><a href="/pili">x</a></body></html>`)
		case "/pili":
			fmt.Fprint(w, `<html><body><h2>Karibu</h2><script>ignored</script></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	clients, err := transport.New()
	if err != nil {
		t.Fatalf("transport.New: %v", err)
	}
	spider := crawler.NewSpider(clients, crawler.WithDelay(0), crawler.WithMaxDepth(2), crawler.WithLogger(log.Discard()))
	detector := fakeDetector{"habari": "sw", "karibu": "sw", "ignored": "sw"}
	col := NewCollector(NewClassifier(detector, []string{"sw"}, nil, nil), WithCrawler(spider))

	seeds, _, err := col.Collect(t.Context(), nil, []string{srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := seeds.Words(); !slices.Equal(got, []string{"habari", "karibu"}) {
		t.Errorf("Words() = %q", got)
	}
}
