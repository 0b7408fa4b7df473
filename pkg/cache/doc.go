// Package cache provides a bounded in-memory TTL cache with LRU eviction.
//
// The cache holds at most a fixed number of entries, each with its own
// time-to-live. When a write would exceed capacity, the least-recently-used
// entry is evicted first. Expired entries are treated as absent and purged
// lazily when touched by a read or write.
//
// Recency is deliberately updated only by writes and explicit Touch calls.
// Get and GetBatch are peek reads, so batch lookups never distort the
// eviction order.
//
// # Basic Usage
//
//	// Create a cache of up to 200 story items, one hour TTL
//	c, err := cache.New[hn.Item](200, time.Hour)
//	if err != nil {
//		return err
//	}
//
//	c.Set(cache.Key("item", "1038081"), item)
//
//	if item, ok := c.Get(cache.Key("item", "1038081")); ok {
//		// cache hit
//	}
//
//	// Batch lookup: absent and expired keys are simply omitted
//	found := c.GetBatch(keys)
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - ohtujutt_cache_hits_total - Cache hits
//   - ohtujutt_cache_misses_total - Cache misses
//   - ohtujutt_cache_evictions_total - LRU evictions on write overflow
//   - ohtujutt_cache_expirations_total - Entries purged after TTL expiry
//   - ohtujutt_cache_entries - Current number of live entries
//
// Instances are safe for concurrent use. Create one at process startup and
// pass it by handle to all consumers; the package holds no global cache
// state.
package cache
