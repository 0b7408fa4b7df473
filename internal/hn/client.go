// Package hn talks to the Hacker News Firebase API and assembles front-page
// listings into resolved items. The upstream contract is treated as opaque:
// a fully-formed URL either yields a parseable JSON body or a non-success
// status; payload schema is interpreted only as far as the feed needs.
package hn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lnagel/ohtujutt-rss/pkg/fetcher"
)

// Client fetches listings and items from the Hacker News API through the
// retrying fetcher.
type Client struct {
	baseURL string
	fetcher *fetcher.Fetcher
	logger  zerolog.Logger
}

// NewClient creates a Client for the API at baseURL (no trailing slash).
func NewClient(baseURL string, f *fetcher.Fetcher) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if f == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	return &Client{
		baseURL: baseURL,
		fetcher: f,
		logger:  log.With().Str("component", "hn").Logger(),
	}, nil
}

// TopStories returns the current front-page listing: story ids in rank
// order, best first.
func (c *Client) TopStories(ctx context.Context) ([]int, error) {
	url := c.baseURL + "/v0/topstories.json"

	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch top stories: %w", err)
	}

	var ids []int
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fetcher.NewPayloadError(url, err)
	}
	return ids, nil
}

// Item fetches a single item by id. A malformed body or the API's JSON
// "null" (unknown id) is a payload error: non-retryable, scoped to this
// item.
func (c *Client) Item(ctx context.Context, id int) (Item, error) {
	url := fmt.Sprintf("%s/v0/item/%d.json", c.baseURL, id)

	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return Item{}, err
	}

	if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return Item{}, fetcher.NewPayloadError(url, fmt.Errorf("no such item: %d", id))
	}

	var item Item
	if err := json.Unmarshal(body, &item); err != nil {
		return Item{}, fetcher.NewPayloadError(url, err)
	}
	return item, nil
}
