package og

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"swipr/internal/domain"
)

type mapCache struct {
	entries map[int64]domain.OGMetadata
	saves   int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[int64]domain.OGMetadata{}}
}

func (c *mapCache) SaveOGMetadata(_ context.Context, meta domain.OGMetadata) error {
	c.entries[meta.EntryID] = meta
	c.saves++
	return nil
}

func (c *mapCache) OGMetadata(_ context.Context, entryID int64) (*domain.OGMetadata, error) {
	meta, ok := c.entries[entryID]
	if !ok {
		return nil, nil
	}
	return &meta, nil
}

func pageServer(t *testing.T, html string) (*httptest.Server, *int) {
	t.Helper()

	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestFetchParsesOpenGraphTags(t *testing.T) {
	t.Parallel()

	server, _ := pageServer(t, `<html><head>
		<meta property="og:title" content="The Title">
		<meta property="og:description" content="A description">
		<meta property="og:image" content="https://cdn.example.com/pic.png">
		<meta property="og:site_name" content="Example">
	</head><body></body></html>`)

	fetcher := NewFetcher(newMapCache(), server.Client(), nil)
	meta, err := fetcher.Fetch(context.Background(), 1, server.URL, false)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if meta.Title != "The Title" || meta.Description != "A description" {
		t.Fatalf("meta = %+v", meta)
	}
	if meta.Image != "https://cdn.example.com/pic.png" || meta.SiteName != "Example" {
		t.Fatalf("meta = %+v", meta)
	}
	if meta.FetchError != "" {
		t.Fatalf("unexpected fetch error %q", meta.FetchError)
	}
}

func TestFetchFallsBackToTwitterTags(t *testing.T) {
	t.Parallel()

	server, _ := pageServer(t, `<html><head>
		<title>Plain Title</title>
		<meta name="twitter:description" content="From twitter">
		<meta name="twitter:image" content="https://cdn.example.com/tw.png">
	</head><body></body></html>`)

	fetcher := NewFetcher(newMapCache(), server.Client(), nil)
	meta, err := fetcher.Fetch(context.Background(), 2, server.URL, false)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if meta.Title != "Plain Title" {
		t.Fatalf("title should fall back to the title tag, got %q", meta.Title)
	}
	if meta.Description != "From twitter" || meta.Image != "https://cdn.example.com/tw.png" {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestFetchResolvesRelativeImage(t *testing.T) {
	t.Parallel()

	server, _ := pageServer(t, `<html><head>
		<meta property="og:image" content="/static/cover.png">
	</head></html>`)

	fetcher := NewFetcher(newMapCache(), server.Client(), nil)
	meta, err := fetcher.Fetch(context.Background(), 3, server.URL+"/articles/42", false)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	want := server.URL + "/static/cover.png"
	if meta.Image != want {
		t.Fatalf("image = %q, want %q", meta.Image, want)
	}
}

func TestFetchServesFromCache(t *testing.T) {
	t.Parallel()

	server, hits := pageServer(t, `<html><head>
		<meta property="og:title" content="Cached Title">
	</head></html>`)

	cache := newMapCache()
	fetcher := NewFetcher(cache, server.Client(), nil)
	ctx := context.Background()

	if _, err := fetcher.Fetch(ctx, 4, server.URL, false); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	meta, err := fetcher.Fetch(ctx, 4, server.URL, false)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if *hits != 1 {
		t.Fatalf("cached fetch hit the page %d times", *hits)
	}
	if meta.Title != "Cached Title" {
		t.Fatalf("title = %q", meta.Title)
	}
}

func TestFetchForceBypassesCache(t *testing.T) {
	t.Parallel()

	server, hits := pageServer(t, `<html><head>
		<meta property="og:title" content="Fresh Title">
	</head></html>`)

	cache := newMapCache()
	cache.entries[5] = domain.OGMetadata{EntryID: 5, Title: "Stale Title"}

	fetcher := NewFetcher(cache, server.Client(), nil)
	meta, err := fetcher.Fetch(context.Background(), 5, server.URL, true)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if *hits != 1 {
		t.Fatalf("force fetch hit the page %d times, want 1", *hits)
	}
	if meta.Title != "Fresh Title" {
		t.Fatalf("title = %q, want fresh value", meta.Title)
	}
	if cache.entries[5].Title != "Fresh Title" {
		t.Fatal("refetched metadata should replace the cached row")
	}
}

func TestFetchCachesErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	cache := newMapCache()
	fetcher := NewFetcher(cache, server.Client(), nil)

	meta, err := fetcher.Fetch(context.Background(), 6, server.URL, false)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(meta.FetchError, "404") {
		t.Fatalf("fetch error = %q", meta.FetchError)
	}
	if cached := cache.entries[6]; cached.FetchError == "" {
		t.Fatal("failure should be cached")
	}
}
