// Package feed renders resolved Hacker News items as an RSS 2.0 document.
// Rendering is a deterministic transformation: item order in the feed is
// exactly the order of the input slice.
package feed

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"

	"github.com/lnagel/ohtujutt-rss/internal/hn"
)

// Config holds the feed's channel-level fields.
type Config struct {
	Title       string
	Link        string
	Description string
}

// DefaultConfig returns the standard front-page channel fields.
func DefaultConfig() Config {
	return Config{
		Title:       "Hacker News Front Page",
		Link:        "https://news.ycombinator.com/",
		Description: "Top stories from Hacker News",
	}
}

// Build assembles an RSS feed document from items, preserving their order.
func Build(cfg Config, items []hn.Item, now time.Time) *feeds.Feed {
	out := &feeds.Feed{
		Title:       cfg.Title,
		Link:        &feeds.Link{Href: cfg.Link},
		Description: cfg.Description,
		Created:     now,
	}

	for _, item := range items {
		out.Items = append(out.Items, &feeds.Item{
			Id:          item.DiscussionURL(),
			Title:       item.Title,
			Link:        &feeds.Link{Href: item.Link()},
			Description: describe(item),
			Author:      &feeds.Author{Name: item.By},
			Created:     item.Published(),
		})
	}

	return out
}

// RSS renders items as an RSS 2.0 XML string.
func RSS(cfg Config, items []hn.Item, now time.Time) (string, error) {
	rss, err := Build(cfg, items, now).ToRss()
	if err != nil {
		return "", fmt.Errorf("render rss: %w", err)
	}
	return rss, nil
}

// describe builds the item summary line shown by feed readers.
func describe(item hn.Item) string {
	return fmt.Sprintf("%d points, %d comments. Comments: %s",
		item.Score, item.Descendants, item.DiscussionURL())
}
