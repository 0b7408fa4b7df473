// Package assembler merges cached and freshly fetched items into an ordered
// result while tolerating partial failure.
//
// One Resolve call is one batch: the input identifiers are capped at
// MaxBatchItems, partitioned into cache hits and misses, the misses fetched
// concurrently through the caller's fetch function, and the output rebuilt
// in exactly the input order. A failed item is logged and omitted; it never
// aborts the batch. Completion order of concurrent fetches has no effect on
// output order.
//
// Concurrent duplicate batches are intentionally not deduplicated or
// coalesced; stampedes are mitigated only by cache TTL spacing.
package assembler
