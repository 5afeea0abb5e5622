package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"swipr/internal/domain"
)

// SaveOGMetadata upserts cached Open Graph data for an entry. Fetch
// failures are stored too, so a broken link is not retried on every
// request.
func (r *Store) SaveOGMetadata(ctx context.Context, meta domain.OGMetadata) error {
	if r.db == nil {
		return nil
	}

	query, args, err := sq.Insert("og_metadata").
		Columns("entry_id", "og_title", "og_description", "og_image", "og_site_name", "fetch_error").
		Values(meta.EntryID, meta.Title, meta.Description, meta.Image, meta.SiteName, meta.FetchError).
		Suffix(`ON CONFLICT(entry_id) DO UPDATE SET
			og_title = excluded.og_title,
			og_description = excluded.og_description,
			og_image = excluded.og_image,
			og_site_name = excluded.og_site_name,
			fetch_error = excluded.fetch_error,
			fetched_at = CURRENT_TIMESTAMP`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save og metadata: %w", err)
	}
	return nil
}

// OGMetadata returns cached Open Graph data, or nil on a cache miss.
func (r *Store) OGMetadata(ctx context.Context, entryID int64) (*domain.OGMetadata, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := sq.Select(
		"COALESCE(og_title, '')",
		"COALESCE(og_description, '')",
		"COALESCE(og_image, '')",
		"COALESCE(og_site_name, '')",
		"COALESCE(fetched_at, '')",
		"COALESCE(fetch_error, '')",
	).
		From("og_metadata").
		Where(sq.Eq{"entry_id": entryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	meta := domain.OGMetadata{EntryID: entryID}
	var fetchedAt string
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&meta.Title, &meta.Description, &meta.Image, &meta.SiteName, &fetchedAt, &meta.FetchError)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query og metadata: %w", err)
	}

	meta.FetchedAt = parseStoredTime(fetchedAt)
	return &meta, nil
}
