package digest

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"swipr/internal/response"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Swipr Picks</title>
	<style>
		* { box-sizing: border-box; }
		body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; background: #f5f5f5; }
		h1 { color: #333; border-bottom: 2px solid #007AFF; padding-bottom: 10px; }
		.article { background: white; border-radius: 8px; padding: 16px; margin-bottom: 12px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
		.rank { display: inline-block; width: 28px; height: 28px; background: #007AFF; color: white; border-radius: 50%; text-align: center; line-height: 28px; font-weight: bold; font-size: 14px; margin-right: 12px; }
		.title { font-size: 18px; font-weight: 600; color: #1a1a1a; text-decoration: none; }
		.title:hover { color: #007AFF; }
		.meta { color: #666; font-size: 13px; margin-top: 8px; }
		.badge { display: inline-block; background: #e8f5e9; color: #2e7d32; padding: 2px 8px; border-radius: 4px; font-weight: 500; font-size: 12px; }
		.badge.random { background: #fff3e0; color: #e65100; }
		.feed { color: #007AFF; }
		.description { color: #444; font-size: 14px; margin-top: 8px; line-height: 1.5; }
		.generated { text-align: center; color: #999; font-size: 12px; margin-top: 30px; }
	</style>
</head>
<body>
	<h1>Your Next {{len .Items}} Articles</h1>
{{range .Entries}}
	<div class="article">
		<span class="rank">{{.Rank}}</span>
		<a href="{{.Item.Link}}" target="_blank" class="title">{{.Item.Title}}</a>
		<div class="meta">
			{{if .Item.Scored}}<span class="badge">recommended</span>{{else}}<span class="badge random">random</span>{{end}}
			<span class="feed">{{.Item.FeedName}}</span>
			{{if not .Item.PublishedAt.IsZero}}&middot; {{.Item.PublishedAt.Format "2006-01-02 15:04"}}{{end}}
		</div>
		<div class="description">{{.Item.Description}}</div>
	</div>
{{end}}
	<p class="generated">Generated {{.GeneratedAt.Format "2006-01-02 15:04"}}</p>
</body>
</html>
`

var page = template.Must(template.New("digest").Parse(pageTemplate))

type entry struct {
	Rank int
	Item response.Item
}

type pageData struct {
	Items       []response.Item
	Entries     []entry
	GeneratedAt time.Time
}

// Render writes the digest page for one batch of picks.
func Render(w io.Writer, items []response.Item, generatedAt time.Time) error {
	data := pageData{Items: items, GeneratedAt: generatedAt}
	for i, item := range items {
		data.Entries = append(data.Entries, entry{Rank: i + 1, Item: item})
	}

	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("render digest: %w", err)
	}
	return nil
}

// WriteFile renders the digest to a file path.
func WriteFile(path string, items []response.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create digest file: %w", err)
	}

	if err := Render(f, items, time.Now()); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close digest file: %w", err)
	}
	return nil
}
