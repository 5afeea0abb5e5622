package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"swipr/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// seedFeed inserts a feed with count entries, newest last, spaced one
// hour apart. Returns the entry IDs in insertion order.
func seedFeed(t *testing.T, store *Store, name string, count int) (int64, []int64) {
	t.Helper()
	ctx := context.Background()

	feedID, err := store.InsertFeed(ctx, name, "https://"+name+".example.com/rss")
	if err != nil {
		t.Fatalf("insert feed: %v", err)
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		id, err := store.InsertArticle(ctx, domain.Article{
			FeedID:      feedID,
			Title:       fmt.Sprintf("%s entry %d", name, i),
			Link:        fmt.Sprintf("https://%s.example.com/%d", name, i),
			Description: "some text",
			PublishedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("insert entry: %v", err)
		}
		ids = append(ids, id)
	}
	return feedID, ids
}

func TestListUnratedRoundRobinFairness(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	feedA, _ := seedFeed(t, store, "feed-a", 5)
	feedB, _ := seedFeed(t, store, "feed-b", 5)
	feedC, _ := seedFeed(t, store, "feed-c", 5)

	articles, err := store.ListUnrated(ctx, 6, nil)
	if err != nil {
		t.Fatalf("list unrated: %v", err)
	}
	if len(articles) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(articles))
	}

	// Interleaved ranks: every feed contributes exactly two entries
	// before any feed gets a third.
	perFeed := map[int64]int{}
	for _, a := range articles {
		perFeed[a.FeedID]++
	}
	for _, feedID := range []int64{feedA, feedB, feedC} {
		if perFeed[feedID] != 2 {
			t.Fatalf("feed %d contributed %d entries, want 2", feedID, perFeed[feedID])
		}
	}

	// The first three results are each feed's newest entry.
	for i := 0; i < 3; i++ {
		for j := 3; j < 6; j++ {
			if articles[j].FeedID == articles[i].FeedID &&
				articles[j].PublishedAt.After(articles[i].PublishedAt) {
				t.Fatalf("rank order violated: entry %d outranks newer entry %d", articles[i].ID, articles[j].ID)
			}
		}
	}
}

func TestListUnratedExcludesRatedAndRequested(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, ids := seedFeed(t, store, "feed-a", 4)

	if err := store.UpsertRating(ctx, ids[0], domain.OutcomeLike); err != nil {
		t.Fatalf("rate: %v", err)
	}

	articles, err := store.ListUnrated(ctx, 10, []int64{ids[1]})
	if err != nil {
		t.Fatalf("list unrated: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(articles))
	}
	for _, a := range articles {
		if a.ID == ids[0] || a.ID == ids[1] {
			t.Fatalf("entry %d should have been excluded", a.ID)
		}
	}
}

func TestListRandomUnratedExcludes(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, ids := seedFeed(t, store, "feed-a", 5)

	if err := store.UpsertRating(ctx, ids[4], domain.OutcomeDislike); err != nil {
		t.Fatalf("rate: %v", err)
	}

	for i := 0; i < 10; i++ {
		articles, err := store.ListRandomUnrated(ctx, 3, []int64{ids[0]})
		if err != nil {
			t.Fatalf("list random: %v", err)
		}
		if len(articles) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(articles))
		}
		for _, a := range articles {
			if a.ID == ids[0] || a.ID == ids[4] {
				t.Fatalf("excluded entry %d returned", a.ID)
			}
		}
	}
}

func TestListUnratedZeroLimit(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	seedFeed(t, store, "feed-a", 2)

	articles, err := store.ListUnrated(context.Background(), 0, nil)
	if err != nil {
		t.Fatalf("list unrated: %v", err)
	}
	if articles != nil {
		t.Fatalf("zero limit should return nothing, got %d", len(articles))
	}
}

func TestUpsertRatingSupersedes(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, ids := seedFeed(t, store, "feed-a", 1)

	if err := store.UpsertRating(ctx, ids[0], domain.OutcomeNeutral); err != nil {
		t.Fatalf("first rating: %v", err)
	}
	if err := store.UpsertRating(ctx, ids[0], domain.OutcomeLike); err != nil {
		t.Fatalf("second rating: %v", err)
	}

	details, err := store.EntryDetails(ctx, ids[0])
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Outcome != domain.OutcomeLike {
		t.Fatalf("outcome = %q, want like", details.Outcome)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.PostsReviewed != 1 {
		t.Fatalf("replaced rating counted twice: reviewed = %d", stats.PostsReviewed)
	}
}

func TestUpsertRatingRejectsInvalidOutcome(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.UpsertRating(context.Background(), 1, domain.Outcome("meh")); err == nil {
		t.Fatal("expected error for invalid outcome")
	}
}

func TestEngagementTracking(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, ids := seedFeed(t, store, "feed-a", 1)

	if err := store.RecordOpen(ctx, ids[0]); err != nil {
		t.Fatalf("record open: %v", err)
	}
	if err := store.RecordOpen(ctx, ids[0]); err != nil {
		t.Fatalf("record open: %v", err)
	}
	if err := store.RecordTimeSpent(ctx, ids[0], 30); err != nil {
		t.Fatalf("record time: %v", err)
	}
	if err := store.RecordTimeSpent(ctx, ids[0], 45); err != nil {
		t.Fatalf("record time: %v", err)
	}

	details, err := store.EntryDetails(ctx, ids[0])
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.OpenCount != 2 {
		t.Fatalf("open count = %d, want 2", details.OpenCount)
	}
	if details.TotalTimeSeconds != 75 {
		t.Fatalf("total time = %d, want 75", details.TotalTimeSeconds)
	}
}

func TestRecordTimeSpentRejectsNegative(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.RecordTimeSpent(context.Background(), 1, -5); err == nil {
		t.Fatal("expected error for negative seconds")
	}
}

func TestStatsAggregates(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, ids := seedFeed(t, store, "feed-a", 4)

	_ = store.UpsertRating(ctx, ids[0], domain.OutcomeLike)
	_ = store.UpsertRating(ctx, ids[1], domain.OutcomeDislike)
	_ = store.UpsertRating(ctx, ids[2], domain.OutcomeNeutral)
	_ = store.RecordOpen(ctx, ids[0])
	_ = store.RecordTimeSpent(ctx, ids[0], 60)

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.TotalPosts != 4 || stats.PostsReviewed != 3 || stats.PostsRemaining != 1 {
		t.Fatalf("pool stats = %d/%d/%d", stats.TotalPosts, stats.PostsReviewed, stats.PostsRemaining)
	}
	if stats.Likes != 1 || stats.Neutral != 1 || stats.Dislikes != 1 {
		t.Fatalf("vote stats = %d/%d/%d", stats.Likes, stats.Neutral, stats.Dislikes)
	}
	if stats.LinksOpened != 1 || stats.TotalTimeSeconds != 60 {
		t.Fatalf("engagement stats = %d/%d", stats.LinksOpened, stats.TotalTimeSeconds)
	}
	if stats.CompletionPercent != 75 {
		t.Fatalf("completion = %v, want 75", stats.CompletionPercent)
	}
}

func TestModelRegistrySingleActive(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.RegisterModel(ctx, "v1", "http://localhost:9001", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	second, err := store.RegisterModel(ctx, "v2", "http://localhost:9002", `{"auc": 0.81}`)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	active, err := store.ActiveModel(ctx)
	if err != nil {
		t.Fatalf("active model: %v", err)
	}
	if active != nil {
		t.Fatalf("freshly registered model should be inactive, got %+v", active)
	}

	if err := store.ActivateModel(ctx, first); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := store.ActivateModel(ctx, second); err != nil {
		t.Fatalf("activate: %v", err)
	}

	models, err := store.ListModels(ctx)
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	activeCount := 0
	for _, m := range models {
		if m.Active {
			activeCount++
			if m.ID != second {
				t.Fatalf("active model = %d, want %d", m.ID, second)
			}
		}
	}
	if activeCount != 1 {
		t.Fatalf("exactly one model may be active, got %d", activeCount)
	}
}

func TestModelRegistryMissingRows(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.ActivateModel(ctx, 42); err == nil {
		t.Fatal("activating a missing model should error")
	}
	if err := store.DeleteModel(ctx, 42); err == nil {
		t.Fatal("deleting a missing model should error")
	}

	info, err := store.ModelByID(ctx, 42)
	if err != nil {
		t.Fatalf("model by id: %v", err)
	}
	if info != nil {
		t.Fatalf("missing model should be nil, got %+v", info)
	}
}

func TestRegisterModelRequiresEndpoint(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if _, err := store.RegisterModel(context.Background(), "v1", "", ""); err == nil {
		t.Fatal("expected error for empty endpoint")
	}
}

func TestOGMetadataCache(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, ids := seedFeed(t, store, "feed-a", 1)

	cached, err := store.OGMetadata(ctx, ids[0])
	if err != nil {
		t.Fatalf("og metadata: %v", err)
	}
	if cached != nil {
		t.Fatalf("cache miss should be nil, got %+v", cached)
	}

	meta := domain.OGMetadata{
		EntryID:     ids[0],
		Title:       "A Page",
		Description: "About things",
		Image:       "https://example.com/cover.png",
		SiteName:    "Example",
	}
	if err := store.SaveOGMetadata(ctx, meta); err != nil {
		t.Fatalf("save og metadata: %v", err)
	}

	cached, err = store.OGMetadata(ctx, ids[0])
	if err != nil {
		t.Fatalf("og metadata: %v", err)
	}
	if cached == nil || cached.Title != "A Page" || cached.Image != "https://example.com/cover.png" {
		t.Fatalf("cached metadata = %+v", cached)
	}
	if cached.FetchedAt.IsZero() {
		t.Fatal("fetched_at should be recorded")
	}

	// Errors are cached too, replacing the earlier row.
	meta.Title = ""
	meta.FetchError = "status 404"
	if err := store.SaveOGMetadata(ctx, meta); err != nil {
		t.Fatalf("save og metadata: %v", err)
	}

	cached, err = store.OGMetadata(ctx, ids[0])
	if err != nil {
		t.Fatalf("og metadata: %v", err)
	}
	if cached.FetchError != "status 404" || cached.Title != "" {
		t.Fatalf("updated metadata = %+v", cached)
	}
}

func TestArticleByID(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, ids := seedFeed(t, store, "feed-a", 1)

	article, err := store.ArticleByID(ctx, ids[0])
	if err != nil {
		t.Fatalf("article by id: %v", err)
	}
	if article == nil || article.FeedName != "feed-a" {
		t.Fatalf("article = %+v", article)
	}
	if article.PublishedAt.IsZero() {
		t.Fatal("published_at should round-trip")
	}

	article, err = store.ArticleByID(ctx, 9999)
	if err != nil {
		t.Fatalf("article by id: %v", err)
	}
	if article != nil {
		t.Fatalf("missing entry should be nil, got %+v", article)
	}
}
