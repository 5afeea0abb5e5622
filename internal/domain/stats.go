package domain

import "time"

// Stats summarizes the state of the pool and the user's activity.
type Stats struct {
	TotalPosts        int
	PostsReviewed     int
	PostsRemaining    int
	Likes             int
	Neutral           int
	Dislikes          int
	LinksOpened       int
	TotalTimeSeconds  int
	TodayVotes        int
	CompletionPercent float64
}

// EntryDetails is the per-entry tracking snapshot.
type EntryDetails struct {
	EntryID          int64
	Outcome          Outcome
	RatedAt          time.Time
	OpenCount        int
	TotalTimeSeconds int
}

// ModelInfo is a registry row describing an uploadable relevance
// model, identified by the inference endpoint it is served from.
type ModelInfo struct {
	ID           int64
	Name         string
	Endpoint     string
	Active       bool
	RegisteredAt time.Time
	Metadata     string
}

// OGMetadata is cached Open Graph enrichment for an entry's link.
type OGMetadata struct {
	EntryID     int64
	Title       string
	Description string
	Image       string
	SiteName    string
	FetchedAt   time.Time
	FetchError  string
}
