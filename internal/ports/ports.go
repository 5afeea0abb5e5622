package ports

import (
	"context"

	"swipr/internal/domain"
)

// EntryStore is the persistent pool of entries, ratings and engagement.
type EntryStore interface {
	// ListUnrated returns not-yet-rated entries ordered round-robin by
	// feed: rank-within-feed ascending, publication time descending.
	// Rated entries and excludeIDs never appear in the result.
	ListUnrated(ctx context.Context, limit int, excludeIDs []int64) ([]domain.Article, error)

	// ListRandomUnrated returns uniformly random unrated entries for
	// the fallback path; no recency or diversity ordering.
	ListRandomUnrated(ctx context.Context, limit int, excludeIDs []int64) ([]domain.Article, error)

	// ListRatedIDs returns the identifiers of all rated entries.
	ListRatedIDs(ctx context.Context) (map[int64]struct{}, error)

	// UpsertRating records the verdict for an entry, replacing any
	// earlier verdict.
	UpsertRating(ctx context.Context, entryID int64, outcome domain.Outcome) error

	RecordOpen(ctx context.Context, entryID int64) error
	RecordTimeSpent(ctx context.Context, entryID int64, seconds int) error

	ArticleByID(ctx context.Context, entryID int64) (*domain.Article, error)
	EntryDetails(ctx context.Context, entryID int64) (*domain.EntryDetails, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// RelevanceModel scores one article's feature record into a three-way
// outcome distribution. Implementations may fail per call; callers
// drop the candidate and continue.
type RelevanceModel interface {
	Predict(ctx context.Context, features domain.FeatureRecord) (domain.Probabilities, error)
}

// ModelRegistry tracks registered relevance models and which one is
// active. At most one model is active at a time.
type ModelRegistry interface {
	RegisterModel(ctx context.Context, name, endpoint, metadata string) (int64, error)
	ListModels(ctx context.Context) ([]domain.ModelInfo, error)
	ModelByID(ctx context.Context, id int64) (*domain.ModelInfo, error)
	ActiveModel(ctx context.Context) (*domain.ModelInfo, error)
	ActivateModel(ctx context.Context, id int64) error
	DeleteModel(ctx context.Context, id int64) error
}

// OGCache persists fetched Open Graph metadata, including fetch
// failures so broken links are not refetched on every request.
type OGCache interface {
	SaveOGMetadata(ctx context.Context, meta domain.OGMetadata) error
	OGMetadata(ctx context.Context, entryID int64) (*domain.OGMetadata, error)
}
