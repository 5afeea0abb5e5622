package og

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"swipr/internal/domain"
	"swipr/internal/ports"
)

// Fallback tag order when an og:* tag is missing.
var fallbackTags = map[string][]string{
	"og:title":       {"twitter:title"},
	"og:description": {"twitter:description", "description"},
	"og:image":       {"twitter:image", "twitter:image:src"},
}

// Fetcher retrieves Open Graph metadata for entry links and caches
// results, including failures, in the store.
type Fetcher struct {
	cache  ports.OGCache
	client *http.Client
	logger *slog.Logger
}

// NewFetcher wires the cache and an HTTP client.
func NewFetcher(cache ports.OGCache, client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Fetcher{cache: cache, client: client, logger: logger}
}

// Fetch returns metadata for an entry's link, serving from cache
// unless force is set. Fetch errors are cached so broken links are
// not retried on every request.
func (f *Fetcher) Fetch(ctx context.Context, entryID int64, pageURL string, force bool) (domain.OGMetadata, error) {
	if !force {
		cached, err := f.cache.OGMetadata(ctx, entryID)
		if err != nil {
			return domain.OGMetadata{}, err
		}
		if cached != nil {
			return *cached, nil
		}
	}

	meta := domain.OGMetadata{EntryID: entryID}

	doc, err := f.fetchDocument(ctx, pageURL)
	if err != nil {
		meta.FetchError = err.Error()
		f.debug("og fetch failed", "entry_id", entryID, "url", pageURL, "error", err)
	} else {
		meta = parseDocument(doc, entryID, pageURL)
	}

	if err := f.cache.SaveOGMetadata(ctx, meta); err != nil {
		return domain.OGMetadata{}, err
	}
	meta.FetchedAt = time.Now()

	return meta, nil
}

func (f *Fetcher) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Swipr/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func parseDocument(doc *goquery.Document, entryID int64, pageURL string) domain.OGMetadata {
	meta := domain.OGMetadata{
		EntryID:     entryID,
		Title:       metaContent(doc, "og:title"),
		Description: metaContent(doc, "og:description"),
		Image:       metaContent(doc, "og:image"),
		SiteName:    metaContent(doc, "og:site_name"),
	}

	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	meta.Image = resolveImageURL(meta.Image, pageURL)
	return meta
}

// metaContent reads a meta tag by property, falling back through the
// twitter/standard equivalents.
func metaContent(doc *goquery.Document, property string) string {
	names := append([]string{property}, fallbackTags[property]...)
	for _, name := range names {
		selector := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, name, name)
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if trimmed := strings.TrimSpace(content); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func resolveImageURL(image, base string) string {
	if image == "" || strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return image
	}
	ref, err := url.Parse(image)
	if err != nil {
		return image
	}
	return baseURL.ResolveReference(ref).String()
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
