package hn

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lnagel/ohtujutt-rss/pkg/assembler"
	"github.com/lnagel/ohtujutt-rss/pkg/cache"
)

// listingKey is the cache key for the front-page listing. Items and
// listings live in separate typed caches but share the key namespace
// convention.
var listingKey = cache.Key("listing", "front")

// listingCacheSize bounds the listing cache. Only the front page is cached
// today; the headroom is for per-tag listings.
const listingCacheSize = 16

// Service produces resolved front-page items. It owns the listing cache
// and drives the item assembler; both caches and the underlying limiter
// are created once at startup and shared for the process lifetime.
type Service struct {
	client    *Client
	items     *assembler.Assembler[Item]
	listings  *cache.Cache[[]int]
	feedItems int
	logger    zerolog.Logger
}

// ServiceConfig holds service construction parameters.
type ServiceConfig struct {
	// FeedItems is how many listing entries are resolved per front page,
	// capped by the assembler's per-batch ceiling.
	FeedItems int

	// ItemCache is the shared item cache, keyed "item:<id>".
	ItemCache *cache.Cache[Item]
}

// NewService creates a Service over client.
func NewService(client *Client, cfg ServiceConfig) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if cfg.ItemCache == nil {
		return nil, fmt.Errorf("item cache is required")
	}
	if cfg.FeedItems < 1 || cfg.FeedItems > assembler.MaxBatchItems {
		return nil, fmt.Errorf("feed items must be 1-%d (got %d)", assembler.MaxBatchItems, cfg.FeedItems)
	}

	listings, err := cache.New[[]int](listingCacheSize, cfg.ItemCache.Stats().TTL)
	if err != nil {
		return nil, fmt.Errorf("create listing cache: %w", err)
	}

	return &Service{
		client:    client,
		items:     assembler.New(cfg.ItemCache, "item"),
		listings:  listings,
		feedItems: cfg.FeedItems,
		logger:    log.With().Str("component", "hn").Logger(),
	}, nil
}

// FrontPage returns the resolved front-page items in rank order. Items that
// fail to resolve are omitted. The one failure that empties the whole
// result is the listing itself being unobtainable, in which case the root
// cause is logged and an error returned.
func (s *Service) FrontPage(ctx context.Context) ([]Item, error) {
	ids, err := s.listing(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Front-page listing unavailable")
		return nil, err
	}

	if len(ids) > s.feedItems {
		ids = ids[:s.feedItems]
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = strconv.Itoa(id)
	}

	items := s.items.Resolve(ctx, strIDs, func(ctx context.Context, id string) (Item, error) {
		n, err := strconv.Atoi(id)
		if err != nil {
			return Item{}, fmt.Errorf("bad item id %q: %w", id, err)
		}
		return s.client.Item(ctx, n)
	})

	return items, nil
}

// listing returns the front-page id listing, from cache when fresh.
func (s *Service) listing(ctx context.Context) ([]int, error) {
	if ids, ok := s.listings.Get(listingKey); ok {
		return ids, nil
	}

	ids, err := s.client.TopStories(ctx)
	if err != nil {
		return nil, err
	}

	s.listings.Set(listingKey, ids)
	return ids, nil
}
