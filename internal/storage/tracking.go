package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"swipr/internal/domain"
)

// ListRatedIDs returns the identifiers of all entries with a current
// rating.
func (r *Store) ListRatedIDs(ctx context.Context) (map[int64]struct{}, error) {
	if r.db == nil {
		return map[int64]struct{}{}, nil
	}

	rows, err := r.db.QueryContext(ctx, "SELECT entry_id FROM user_votes")
	if err != nil {
		return nil, fmt.Errorf("query rated ids: %w", err)
	}
	defer rows.Close()

	rated := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		rated[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return rated, nil
}

// UpsertRating records the user's verdict for an entry. A repeated
// rating for the same entry replaces the earlier one.
func (r *Store) UpsertRating(ctx context.Context, entryID int64, outcome domain.Outcome) error {
	if !outcome.Valid() {
		return fmt.Errorf("invalid outcome %q", outcome)
	}
	if r.db == nil {
		return nil
	}

	query, args, err := sq.Insert("user_votes").
		Columns("entry_id", "vote").
		Values(entryID, string(outcome)).
		Suffix(`ON CONFLICT(entry_id) DO UPDATE SET
			vote = excluded.vote,
			voted_at = CURRENT_TIMESTAMP`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// RecordOpen notes that the user followed an entry's link.
func (r *Store) RecordOpen(ctx context.Context, entryID int64) error {
	if r.db == nil {
		return nil
	}

	query, args, err := sq.Insert("link_opens").
		Columns("entry_id").
		Values(entryID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record open: %w", err)
	}
	return nil
}

// RecordTimeSpent accumulates viewing time for an entry.
func (r *Store) RecordTimeSpent(ctx context.Context, entryID int64, seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("negative seconds %d", seconds)
	}
	if r.db == nil {
		return nil
	}

	query, args, err := sq.Insert("time_spent").
		Columns("entry_id", "seconds").
		Values(entryID, seconds).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record time: %w", err)
	}
	return nil
}

// EntryDetails returns the tracking snapshot for one entry, or nil if
// the entry has no tracking data and no rating.
func (r *Store) EntryDetails(ctx context.Context, entryID int64) (*domain.EntryDetails, error) {
	if r.db == nil {
		return nil, nil
	}

	details := &domain.EntryDetails{EntryID: entryID}

	var (
		vote    string
		ratedAt string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT vote, voted_at FROM user_votes WHERE entry_id = ?", entryID).
		Scan(&vote, &ratedAt)
	switch {
	case err == nil:
		details.Outcome = domain.Outcome(vote)
		details.RatedAt = parseStoredTime(ratedAt)
	case errors.Is(err, sql.ErrNoRows):
		// Unrated entries still report engagement counts.
	default:
		return nil, fmt.Errorf("query rating: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM link_opens WHERE entry_id = ?", entryID).
		Scan(&details.OpenCount)
	if err != nil {
		return nil, fmt.Errorf("query opens: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(seconds), 0) FROM time_spent WHERE entry_id = ?", entryID).
		Scan(&details.TotalTimeSeconds)
	if err != nil {
		return nil, fmt.Errorf("query time: %w", err)
	}

	return details, nil
}

// Stats aggregates pool size, rating counts and engagement totals.
func (r *Store) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	if r.db == nil {
		return stats, nil
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN vote = 'like' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN vote = 'neutral' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN vote = 'dislike' THEN 1 ELSE 0 END), 0)
		FROM user_votes`).
		Scan(&stats.PostsReviewed, &stats.Likes, &stats.Neutral, &stats.Dislikes)
	if err != nil {
		return stats, fmt.Errorf("query vote stats: %w", err)
	}

	err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM link_opens").Scan(&stats.LinksOpened)
	if err != nil {
		return stats, fmt.Errorf("query opens: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(seconds), 0) FROM time_spent").Scan(&stats.TotalTimeSeconds)
	if err != nil {
		return stats, fmt.Errorf("query time: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_votes WHERE DATE(voted_at) = DATE('now')").
		Scan(&stats.TodayVotes)
	if err != nil {
		return stats, fmt.Errorf("query today votes: %w", err)
	}

	err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&stats.TotalPosts)
	if err != nil {
		return stats, fmt.Errorf("query total posts: %w", err)
	}

	stats.PostsRemaining = stats.TotalPosts - stats.PostsReviewed
	if stats.TotalPosts > 0 {
		stats.CompletionPercent = float64(stats.PostsReviewed) / float64(stats.TotalPosts) * 100
	}

	return stats, nil
}
