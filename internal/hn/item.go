package hn

import (
	"fmt"
	"time"
)

// Item is one Hacker News item as returned by the upstream API. Only the
// fields the feed needs are decoded; the rest of the payload is ignored.
type Item struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Deleted     bool   `json:"deleted"`
	Dead        bool   `json:"dead"`
}

// DiscussionURL returns the Hacker News comment page for the item.
func (i Item) DiscussionURL() string {
	return fmt.Sprintf("https://news.ycombinator.com/item?id=%d", i.ID)
}

// Link returns the story's own URL, falling back to the discussion page
// for link-less items such as Ask HN posts.
func (i Item) Link() string {
	if i.URL != "" {
		return i.URL
	}
	return i.DiscussionURL()
}

// Published returns the item's creation time.
func (i Item) Published() time.Time {
	return time.Unix(i.Time, 0).UTC()
}
