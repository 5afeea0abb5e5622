package domain

import "time"

// Article is a feed entry ingested by the fetcher. Immutable once
// stored; the recommendation engine only ever reads it.
type Article struct {
	ID            int64
	FeedID        int64
	FeedName      string
	Title         string
	Description   string
	Summary       string
	Content       string
	Link          string
	Permalink     string
	Author        string
	Categories    string
	PublishedAt   time.Time
	WordCount     int
	HasMedia      bool
	EnclosureURL  string
	EnclosureType string

	// Engagement counters; zero for entries the user has never opened.
	OpenCount        int
	TotalTimeSeconds int
}

// Outcome is the user's verdict on an article.
type Outcome string

const (
	OutcomeLike    Outcome = "like"
	OutcomeNeutral Outcome = "neutral"
	OutcomeDislike Outcome = "dislike"
)

// Valid reports whether the outcome is one of the three known verdicts.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeLike, OutcomeNeutral, OutcomeDislike:
		return true
	}
	return false
}

// Rating is the current verdict for an entry. A later rating replaces
// the earlier one; there is never more than one per entry.
type Rating struct {
	EntryID int64
	Outcome Outcome
	RatedAt time.Time
}

// Probabilities is the relevance model's three-way outcome
// distribution for a single article. The components sum to 1.
type Probabilities struct {
	Dislike float64
	Neutral float64
	Like    float64
}

// Sum returns the total probability mass, used for shape validation.
func (p Probabilities) Sum() float64 {
	return p.Dislike + p.Neutral + p.Like
}
