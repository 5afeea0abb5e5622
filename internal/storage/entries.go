package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"swipr/internal/domain"
)

var entryColumns = []string{
	"id", "feed_id", "feed_name", "title", "description", "summary",
	"content", "link", "permalink", "author", "categories",
	"published_at", "word_count", "has_media", "enclosure_url",
	"enclosure_type",
}

func entrySelect() sq.SelectBuilder {
	return sq.Select(
		"e.id",
		"e.feed_id",
		"f.name AS feed_name",
		"COALESCE(e.title, '') AS title",
		"COALESCE(e.description, '') AS description",
		"COALESCE(e.summary, '') AS summary",
		"COALESCE(e.content, '') AS content",
		"COALESCE(e.link, '') AS link",
		"COALESCE(e.permalink, '') AS permalink",
		"COALESCE(e.author, '') AS author",
		"COALESCE(e.categories, '') AS categories",
		"COALESCE(e.published_at, '') AS published_at",
		"COALESCE(e.word_count, 0) AS word_count",
		"COALESCE(e.has_media, 0) AS has_media",
		"COALESCE(e.enclosure_url, '') AS enclosure_url",
		"COALESCE(e.enclosure_type, '') AS enclosure_type",
	).
		From("entries e").
		Join("feeds f ON f.id = e.feed_id")
}

func excludeRated(builder sq.SelectBuilder, excludeIDs []int64) sq.SelectBuilder {
	builder = builder.Where("e.id NOT IN (SELECT entry_id FROM user_votes)")
	if len(excludeIDs) > 0 {
		builder = builder.Where(sq.NotEq{"e.id": excludeIDs})
	}
	return builder
}

// ListUnrated returns unrated entries ordered for feed fairness: the
// newest entry of every feed first, then each feed's second-newest,
// and so on. Within one rank entries sort newest first. This keeps a
// single high-volume feed from crowding out the rest of the pool.
func (r *Store) ListUnrated(ctx context.Context, limit int, excludeIDs []int64) ([]domain.Article, error) {
	if r.db == nil || limit <= 0 {
		return nil, nil
	}

	ranked := excludeRated(entrySelect(), excludeIDs).
		Column("ROW_NUMBER() OVER (PARTITION BY e.feed_id ORDER BY e.published_at DESC) AS feed_rank")

	query := sq.Select(entryColumns...).
		FromSelect(ranked, "ranked").
		OrderBy("feed_rank", "published_at DESC").
		Limit(uint64(limit))

	return r.queryArticles(ctx, query)
}

// ListRandomUnrated returns uniformly random unrated entries; the
// fallback path when scored selection is unavailable or short.
func (r *Store) ListRandomUnrated(ctx context.Context, limit int, excludeIDs []int64) ([]domain.Article, error) {
	if r.db == nil || limit <= 0 {
		return nil, nil
	}

	query := excludeRated(entrySelect(), excludeIDs).
		OrderBy("RANDOM()").
		Limit(uint64(limit))

	return r.queryArticles(ctx, query)
}

// ArticleByID fetches a single entry, or nil when it does not exist.
func (r *Store) ArticleByID(ctx context.Context, entryID int64) (*domain.Article, error) {
	if r.db == nil {
		return nil, nil
	}

	articles, err := r.queryArticles(ctx, entrySelect().Where(sq.Eq{"e.id": entryID}))
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, nil
	}
	return &articles[0], nil
}

func (r *Store) queryArticles(ctx context.Context, builder sq.SelectBuilder) ([]domain.Article, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

func scanArticle(rows *sql.Rows) (domain.Article, error) {
	var (
		article     domain.Article
		publishedAt string
		hasMedia    int
	)

	err := rows.Scan(
		&article.ID,
		&article.FeedID,
		&article.FeedName,
		&article.Title,
		&article.Description,
		&article.Summary,
		&article.Content,
		&article.Link,
		&article.Permalink,
		&article.Author,
		&article.Categories,
		&publishedAt,
		&article.WordCount,
		&hasMedia,
		&article.EnclosureURL,
		&article.EnclosureType,
	)
	if err != nil {
		return domain.Article{}, fmt.Errorf("scan entry: %w", err)
	}

	article.PublishedAt = parseStoredTime(publishedAt)
	article.HasMedia = hasMedia != 0
	return article, nil
}

// InsertFeed registers a feed and returns its identifier. Used by the
// ingestion collaborator and tests; the engine never writes feeds.
func (r *Store) InsertFeed(ctx context.Context, name, url string) (int64, error) {
	query, args, err := sq.Insert("feeds").
		Columns("name", "url").
		Values(name, url).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert feed: %w", err)
	}
	return result.LastInsertId()
}

// InsertArticle stores an ingested entry and returns its identifier.
func (r *Store) InsertArticle(ctx context.Context, article domain.Article) (int64, error) {
	published := ""
	if !article.PublishedAt.IsZero() {
		published = article.PublishedAt.UTC().Format(timeFormat)
	}

	hasMedia := 0
	if article.HasMedia {
		hasMedia = 1
	}

	query, args, err := sq.Insert("entries").
		Columns("feed_id", "guid", "title", "link", "description", "summary",
			"content", "author", "categories", "published_at",
			"enclosure_url", "enclosure_type", "permalink", "word_count", "has_media").
		Values(article.FeedID, article.Link, article.Title, article.Link,
			article.Description, article.Summary, article.Content,
			article.Author, article.Categories, published,
			article.EnclosureURL, article.EnclosureType, article.Permalink,
			article.WordCount, hasMedia).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	return result.LastInsertId()
}
