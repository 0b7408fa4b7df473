package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// entry is a single cached value with its own expiry.
type entry[V any] struct {
	key        string
	value      V
	insertedAt time.Time
	ttl        time.Duration
}

// expired reports whether the entry's TTL has passed at time now.
func (e *entry[V]) expired(now time.Time) bool {
	return !now.Before(e.insertedAt.Add(e.ttl))
}

// Stats is a snapshot of cache configuration and occupancy.
type Stats struct {
	Size    int
	MaxSize int
	TTL     time.Duration
}

// Cache is a bounded in-memory key/value store with per-entry TTL and LRU
// eviction. Values are immutable once stored; overwrite with Set to change
// them. Safe for concurrent use.
type Cache[V any] struct {
	mu         sync.Mutex
	maxEntries int
	defaultTTL time.Duration

	// order holds *entry[V] with the most recently used at the front.
	// Only writes and Touch move entries; peek reads do not.
	order   *list.List
	entries map[string]*list.Element

	// now is replaced in tests to control expiry.
	now func() time.Time
}

// New creates a Cache holding at most maxEntries values, each expiring
// defaultTTL after its write unless overridden per call.
func New[V any](maxEntries int, defaultTTL time.Duration) (*Cache[V], error) {
	if maxEntries < 1 {
		return nil, fmt.Errorf("max entries must be >= 1 (got %d)", maxEntries)
	}
	if defaultTTL <= 0 {
		return nil, fmt.Errorf("default TTL must be > 0 (got %v)", defaultTTL)
	}

	return &Cache[V]{
		maxEntries: maxEntries,
		defaultTTL: defaultTTL,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
		now:        time.Now,
	}, nil
}

// Get returns the value stored under key if present and unexpired. An
// expired entry is purged and reported as absent. Get is a peek read: it
// does not affect LRU recency.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.entries[key]
	if !ok {
		cacheMisses.Inc()
		return zero, false
	}

	ent := elem.Value.(*entry[V])
	if ent.expired(c.now()) {
		c.removeElement(elem)
		cacheExpirations.Inc()
		cacheMisses.Inc()
		return zero, false
	}

	cacheHits.Inc()
	return ent.value, true
}

// GetBatch returns the values for all present, unexpired keys. Absent keys
// are omitted from the result, never an error. Like Get, this is a peek
// read and leaves LRU recency untouched.
func (c *Cache[V]) GetBatch(keys []string) map[string]V {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	found := make(map[string]V, len(keys))
	for _, key := range keys {
		elem, ok := c.entries[key]
		if !ok {
			cacheMisses.Inc()
			continue
		}
		ent := elem.Value.(*entry[V])
		if ent.expired(now) {
			c.removeElement(elem)
			cacheExpirations.Inc()
			cacheMisses.Inc()
			continue
		}
		cacheHits.Inc()
		found[key] = ent.value
	}
	return found
}

// Set stores value under key with the cache-wide default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL. Writing an
// existing key overwrites it and marks it most recently used. When the
// cache is at capacity, the least-recently-used entry is evicted first;
// the key being written is never its own eviction victim.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		ent := elem.Value.(*entry[V])
		ent.value = value
		ent.insertedAt = c.now()
		ent.ttl = ttl
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.maxEntries {
		c.evictOldest()
	}

	elem := c.order.PushFront(&entry[V]{
		key:        key,
		value:      value,
		insertedAt: c.now(),
		ttl:        ttl,
	})
	c.entries[key] = elem
	cacheEntries.Set(float64(c.order.Len()))
}

// Touch marks key as most recently used and reports whether a live entry
// was found. This is the one read that affects eviction order.
func (c *Cache[V]) Touch(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	if elem.Value.(*entry[V]).expired(c.now()) {
		c.removeElement(elem)
		cacheExpirations.Inc()
		return false
	}
	c.order.MoveToFront(elem)
	return true
}

// Has reports whether a live entry exists for key without affecting
// recency or hit/miss counters.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	if elem.Value.(*entry[V]).expired(c.now()) {
		c.removeElement(elem)
		cacheExpirations.Inc()
		return false
	}
	return true
}

// Delete removes key and reports whether an entry was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeElement(elem)
	return true
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.entries = make(map[string]*list.Element)
	cacheEntries.Set(0)
}

// Stats returns the current occupancy and configuration.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:    c.order.Len(),
		MaxSize: c.maxEntries,
		TTL:     c.defaultTTL,
	}
}

// evictOldest removes the least-recently-used entry. Caller holds the lock.
func (c *Cache[V]) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	c.removeElement(elem)
	cacheEvictions.Inc()
}

// removeElement unlinks an entry from both the list and the index.
// Caller holds the lock.
func (c *Cache[V]) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.entries, elem.Value.(*entry[V]).key)
	cacheEntries.Set(float64(c.order.Len()))
}
