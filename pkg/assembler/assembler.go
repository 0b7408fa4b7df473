package assembler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lnagel/ohtujutt-rss/pkg/cache"
)

// Prometheus metrics for batch assembly.
var (
	batchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ohtujutt_batches_total",
		Help: "Total number of assembled batches",
	})

	batchItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ohtujutt_batch_items_total",
		Help: "Total batch items by resolution outcome",
	}, []string{"outcome"}) // "hit", "fetched", "failed"

	batchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ohtujutt_batch_duration_seconds",
		Help:    "Duration of batch assembly in seconds",
		Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
	})
)

// MaxBatchItems is the fixed ceiling on identifiers resolved per batch.
// Identifiers beyond the ceiling are dropped up front, never fetched.
const MaxBatchItems = 50

// FetchFunc resolves a single item by identifier. Implementations are
// expected to route through the retrying fetcher, which bounds parallelism
// via the shared limiter.
type FetchFunc[T any] func(ctx context.Context, id string) (T, error)

// Assembler resolves an ordered list of item identifiers against a cache,
// fetching misses concurrently and reassembling results in input order.
// Individual item failures are logged and omitted; they never fail the
// batch as a whole.
type Assembler[T any] struct {
	cache  *cache.Cache[T]
	kind   string
	logger zerolog.Logger
}

// New creates an Assembler resolving items of the given cache key kind
// (e.g. "item") against c.
func New[T any](c *cache.Cache[T], kind string) *Assembler[T] {
	return &Assembler[T]{
		cache:  c,
		kind:   kind,
		logger: log.With().Str("component", "assembler").Logger(),
	}
}

// Resolve returns the items for ids in input order. Cached items are used
// directly; the rest are fetched concurrently and cached on success. Items
// whose fetch fails are omitted from the output. Duplicate ids are allowed
// and each occurrence contributes one output position.
func (a *Assembler[T]) Resolve(ctx context.Context, ids []string, fetch FetchFunc[T]) []T {
	start := time.Now()
	batchesTotal.Inc()
	defer func() {
		batchDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	logger := a.logger.With().Str("batch_id", uuid.NewString()).Logger()

	if len(ids) > MaxBatchItems {
		logger.Debug().
			Int("requested", len(ids)).
			Int("ceiling", MaxBatchItems).
			Msg("Capping batch to item ceiling")
		ids = ids[:MaxBatchItems]
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cache.Key(a.kind, id)
	}

	hits := a.cache.GetBatch(keys)

	// Collect distinct miss ids; a duplicated miss is fetched once and
	// fills every position it occupies.
	var misses []string
	seen := make(map[string]struct{})
	for i, key := range keys {
		if _, ok := hits[key]; ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		misses = append(misses, ids[i])
	}

	fetched := a.fetchMisses(ctx, logger, misses, fetch)

	// Reassemble in input order; failed items are dropped silently here,
	// each already logged by fetchMisses.
	out := make([]T, 0, len(ids))
	for i, key := range keys {
		if v, ok := hits[key]; ok {
			batchItemsTotal.WithLabelValues("hit").Inc()
			out = append(out, v)
			continue
		}
		if v, ok := fetched[ids[i]]; ok {
			batchItemsTotal.WithLabelValues("fetched").Inc()
			out = append(out, v)
			continue
		}
		batchItemsTotal.WithLabelValues("failed").Inc()
	}

	logger.Info().
		Int("requested", len(ids)).
		Int("cache_hits", len(hits)).
		Int("fetched", len(fetched)).
		Int("failed", len(misses)-len(fetched)).
		Dur("duration", time.Since(start)).
		Msg("Batch assembled")

	return out
}

// fetchMisses fetches the given ids concurrently and stores successes in
// the cache. Failures are logged per item and excluded from the result.
func (a *Assembler[T]) fetchMisses(ctx context.Context, logger zerolog.Logger, ids []string, fetch FetchFunc[T]) map[string]T {
	fetched := make(map[string]T, len(ids))
	if len(ids) == 0 {
		return fetched
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()

			value, err := fetch(ctx, id)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("id", id).
					Msg("Item fetch failed, omitting from batch")
				return
			}

			a.cache.Set(cache.Key(a.kind, id), value)

			mu.Lock()
			fetched[id] = value
			mu.Unlock()
		}()
	}
	wg.Wait()

	return fetched
}
