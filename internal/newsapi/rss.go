package newsapi

import (
	"context"
	"strings"

	"github.com/iceymoss/sentinelpost/internal/core"

	"github.com/mmcdole/gofeed"
)

// RSSSource adapts a set of RSS feeds to the NewsSource interface, for
// deployments without a news API key. Item position within its feed stands
// in for the producer rank.
type RSSSource struct {
	feeds  []string
	parser *gofeed.Parser
}

var _ core.NewsSource = (*RSSSource)(nil)

func NewRSSSource(feeds []string) *RSSSource {
	return &RSSSource{feeds: feeds, parser: gofeed.NewParser()}
}

// FetchNews parses every configured feed and keeps items whose title or
// description mentions at least one keyword. Feeds that fail to parse are
// skipped; the remaining feeds still contribute.
func (s *RSSSource) FetchNews(ctx context.Context, keywords []string) ([]core.RawArticle, error) {
	var out []core.RawArticle
	for _, feedURL := range s.feeds {
		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			continue
		}
		for i, item := range feed.Items {
			if !matchesAny(item.Title+" "+item.Description, keywords) {
				continue
			}
			published := ""
			if item.PublishedParsed != nil {
				published = item.PublishedParsed.Format("2006-01-02 15:04:05")
			}
			rank := i + 1
			out = append(out, core.RawArticle{
				Title:         item.Title,
				Link:          item.Link,
				Rights:        feed.Title,
				PublishedDate: published,
				Summary:       item.Description,
				Topic:         firstCategory(item),
				Language:      feed.Language,
				Rank:          &rank,
			})
		}
	}
	return out, nil
}

func matchesAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return len(keywords) == 0
}

func firstCategory(item *gofeed.Item) string {
	if len(item.Categories) > 0 {
		return item.Categories[0]
	}
	return "general"
}
