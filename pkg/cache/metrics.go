package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks reads that found a live entry
	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ohtujutt_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// cacheMisses tracks reads that found nothing, including expired entries
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ohtujutt_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// cacheEvictions tracks LRU evictions triggered by writes at capacity
	cacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ohtujutt_cache_evictions_total",
			Help: "Total number of entries evicted to make room for writes",
		},
	)

	// cacheExpirations tracks entries purged lazily after their TTL passed
	cacheExpirations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ohtujutt_cache_expirations_total",
			Help: "Total number of entries purged after TTL expiry",
		},
	)

	// cacheEntries tracks the current number of live entries
	cacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ohtujutt_cache_entries",
			Help: "Current number of entries held in the cache",
		},
	)
)
