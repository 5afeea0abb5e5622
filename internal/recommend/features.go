package recommend

import (
	"strings"

	"swipr/internal/domain"
)

// Neutral temporal placeholders for unrated articles. The model was
// trained with the rating timestamp as context; a candidate has none
// yet, so scoring uses a fixed midweek-noon stand-in.
const (
	defaultVoteHour      = 12
	defaultVoteDayOfWeek = 3
	defaultVoteIsWeekend = 0
)

const wordsPerMinute = 200

// BuildFeatures assembles the fixed-shape feature record for one
// candidate. Behavioral counters and days-since-published stay zero:
// candidates are by definition unseen. The training-time text
// embedding is not reconstructed here; the inference service pads a
// zero block in its place (a documented accuracy trade-off).
func BuildFeatures(article domain.Article) domain.FeatureRecord {
	wordCount := article.WordCount
	if wordCount == 0 {
		wordCount = len(strings.Fields(article.Description))
	}

	hasMedia := 0
	if article.HasMedia {
		hasMedia = 1
	}

	feedName := article.FeedName
	if feedName == "" {
		feedName = "unknown"
	}

	return domain.FeatureRecord{
		Title:       article.Title,
		Description: article.Description,
		Content:     article.Content,
		FeedName:    feedName,
		Author:      article.Author,

		WordCount: wordCount,
		HasMedia:  hasMedia,

		TitleCharCount:       len(article.Title),
		TitleWordCount:       len(strings.Fields(article.Title)),
		DescriptionCharCount: len(article.Description),
		DescriptionWordCount: len(strings.Fields(article.Description)),

		ReadingTimeMinutes: float64(wordCount) / wordsPerMinute,

		VoteHour:      defaultVoteHour,
		VoteDayOfWeek: defaultVoteDayOfWeek,
		VoteIsWeekend: defaultVoteIsWeekend,

		DaysSincePublished: 0,
		OpenCount:          0,
		TotalTime:          0,
	}
}
