package domain

// FeatureRecord is the fixed-shape inference contract sent to the
// relevance model for one article. Field names mirror the columns the
// model was trained on. The high-dimensional text-embedding block used
// at training time is not reproduced here; the inference service
// substitutes a zero vector for it, an accepted accuracy trade-off.
type FeatureRecord struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	FeedName    string `json:"feed_name"`
	Author      string `json:"author"`

	WordCount int `json:"word_count"`
	HasMedia  int `json:"has_media"`

	TitleCharCount       int `json:"title_char_count"`
	TitleWordCount       int `json:"title_word_count"`
	DescriptionCharCount int `json:"description_char_count"`
	DescriptionWordCount int `json:"description_word_count"`

	ReadingTimeMinutes float64 `json:"reading_time_minutes"`

	// Temporal context. Unrated articles carry no rating timestamp, so
	// these hold fixed neutral placeholders.
	VoteHour      int `json:"vote_hour"`
	VoteDayOfWeek int `json:"vote_day_of_week"`
	VoteIsWeekend int `json:"vote_is_weekend"`

	DaysSincePublished float64 `json:"days_since_published"`
	OpenCount          int     `json:"open_count"`
	TotalTime          int     `json:"total_time"`
}
