package response

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"swipr/internal/domain"
	"swipr/internal/recommend"
)

const descriptionLimit = 200

// Item is the caller-facing shape of one recommended article.
type Item struct {
	ID          int64
	Title       string
	Description string
	Link        string
	Permalink   string
	Author      string
	FeedName    string
	PublishedAt time.Time
	Categories  string
	HasMedia    bool
	ImageURL    string

	// Scored is true when the item came from the model-scored path,
	// false for the random fallback.
	Scored bool
}

// Format prepares one pick for presentation: cleaned description,
// extracted image, and the scored/fallback flag.
func Format(pick recommend.Pick) Item {
	article := pick.Article

	title := article.Title
	if title == "" {
		title = "Untitled"
	}

	description := cleanDescription(article)
	if description == "" {
		description = "No description available."
	}

	permalink := article.Permalink
	if permalink == "" {
		permalink = article.Link
	}

	feedName := article.FeedName
	if feedName == "" {
		feedName = "Unknown"
	}

	return Item{
		ID:          article.ID,
		Title:       title,
		Description: description,
		Link:        article.Link,
		Permalink:   permalink,
		Author:      article.Author,
		FeedName:    feedName,
		PublishedAt: article.PublishedAt,
		Categories:  article.Categories,
		HasMedia:    article.HasMedia,
		ImageURL:    ExtractImage(article),
		Scored:      pick.Scored,
	}
}

// cleanDescription prefers the summary, then the description, and
// only falls back to full content when neither exists.
func cleanDescription(article domain.Article) string {
	for _, text := range []string{article.Summary, article.Description, article.Content} {
		if text == "" {
			continue
		}
		return Truncate(StripHTML(text), descriptionLimit)
	}
	return ""
}

var whitespaceExpr = regexp.MustCompile(`\s+`)

// StripHTML removes markup, decodes entities and collapses
// whitespace, leaving plain text.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	text := s
	if err == nil {
		text = doc.Text()
	}

	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(text, " "))
}

// Truncate cuts text to max runes at a word boundary. The boundary is
// only honored past 60% of the limit, so a single long word cannot
// shrink the cut too far. Trailing punctuation is trimmed before the
// ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	cut := string(runes[:max])
	if lastSpace := strings.LastIndex(cut, " "); lastSpace > max*6/10 {
		cut = cut[:lastSpace]
	}

	return strings.TrimRight(cut, ".,;:!? ") + "..."
}

// ExtractImage finds a representative image: an image enclosure if
// present, otherwise the first <img> in the entry's content or
// description.
func ExtractImage(article domain.Article) string {
	if article.EnclosureURL != "" && strings.HasPrefix(article.EnclosureType, "image/") {
		return article.EnclosureURL
	}

	content := article.Content
	if content == "" {
		content = article.Description
	}
	if content == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img").First().Attr("src")
	return src
}
