// Package metrics documents the Prometheus metrics exposed by the service.
// All metrics are defined in their owning packages (limiter, fetcher,
// cache, assembler) via promauto to keep registration local and avoid
// circular dependencies; this package is the central reference.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the service. All
// metrics register themselves against it via promauto in their packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Limiter Metrics (pkg/limiter):
//   - ohtujutt_limiter_active_tasks (Gauge): Tasks currently holding a slot
//   - ohtujutt_limiter_pending_tasks (Gauge): Tasks queued waiting for a slot
//   - ohtujutt_limiter_scheduled_total (Counter): Tasks scheduled through the limiter
//
// Fetch Metrics (pkg/fetcher):
//   - ohtujutt_fetch_requests_total{outcome} (Counter): Attempts by outcome
//     (success, network_error, body_read_error or HTTP status code)
//   - ohtujutt_fetch_duration_seconds (Histogram): Attempt duration
//   - ohtujutt_fetch_retries_total{error_class} (Counter): Retries by error class
//   - ohtujutt_fetch_backoff_seconds{error_class} (Histogram): Backoff before retries
//   - ohtujutt_fetch_retry_exhausted_total{error_class} (Counter): Spent retry budgets
//
// Cache Metrics (pkg/cache):
//   - ohtujutt_cache_hits_total (Counter): Cache hits
//   - ohtujutt_cache_misses_total (Counter): Cache misses
//   - ohtujutt_cache_evictions_total (Counter): LRU evictions on write overflow
//   - ohtujutt_cache_expirations_total (Counter): Lazily purged expired entries
//   - ohtujutt_cache_entries (Gauge): Current live entries
//
// Batch Metrics (pkg/assembler):
//   - ohtujutt_batches_total (Counter): Assembled batches
//   - ohtujutt_batch_items_total{outcome} (Counter): Items by outcome (hit, fetched, failed)
//   - ohtujutt_batch_duration_seconds (Histogram): Batch assembly duration
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(ohtujutt_cache_hits_total[5m])) /
//   (sum(rate(ohtujutt_cache_hits_total[5m])) + sum(rate(ohtujutt_cache_misses_total[5m])))
//
//   # Fetch Error Rate by Class
//   rate(ohtujutt_fetch_retries_total[5m])
//
//   # P95 Batch Latency
//   histogram_quantile(0.95, rate(ohtujutt_batch_duration_seconds_bucket[5m]))
//
//   # Limiter Saturation
//   ohtujutt_limiter_pending_tasks > 0
