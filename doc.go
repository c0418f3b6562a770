// Package xanthus provides a concurrent, bounded, in-memory cache with
// W-TinyLFU admission, TTL/TTI/predicate-based expiration, and a
// deferred maintenance cycle that keeps the read/write hot path lock-free.
//
// # Overview
//
// Xanthus is built around four tightly coupled pieces sharing one set of
// data structures (a sharded map, three access-order deques, one
// write-order deque, and a frequency sketch):
//
//   - the lock-free-on-the-hot-path Get/Insert/Remove
//   - a deferred maintenance cycle that batches read/write effects onto
//     bounded channels and applies them under a single mutex
//   - W-TinyLFU size-aware admission and eviction
//   - an expiration sweeper (TTL/TTI/InvalidateAll) and a predicate-based
//     asynchronous invalidator
//
// # Quick Start
//
//	import "github.com/agilira/xanthus"
//
//	type User struct {
//	    ID   int
//	    Name string
//	}
//
//	maxCapacity := uint64(10_000)
//	cache := xanthus.New[string, User](xanthus.Config[string, User]{
//	    MaxCapacity: &maxCapacity,
//	    TimeToLive:  time.Hour,
//	})
//	defer cache.Close()
//
//	cache.Insert("user:123", User{ID: 123, Name: "Alice"})
//
//	if user, found := cache.Get("user:123"); found {
//	    fmt.Printf("User: %s\n", user.Name)
//	}
//
//	stats := cache.Stats()
//	fmt.Printf("hit ratio: %.2f%%\n", stats.HitRatio())
//
// # W-TinyLFU Admission
//
// Every Insert is admitted or rejected by the maintenance cycle, not by
// Insert itself: the new entry is written into the segmented map
// synchronously (so a concurrent Get observes it immediately), but whether
// it survives the next maintenance cycle depends on a frequency-sketch
// comparison against whatever it would have to evict. A newcomer with no
// observed history (frequency 0) loses to any resident victim that has been
// read even once; repeated misses raise its sketch count until it wins.
// This resists scans and one-hit wonders without the bookkeeping cost of
// exact LRU.
//
// # Concurrency Model
//
// Reads and writes never block on each other or on maintenance:
//
//   - Get/Insert/Remove only ever hold a per-shard mutex, briefly.
//   - Each emits a lightweight deferred record (readOp/writeOp) into a
//     bounded channel and returns; the read channel is lossy under
//     backpressure (a dropped read costs at most a sketch increment and
//     a deque reorder), the write channel is not (Insert/Remove retry with
//     a short backoff rather than ever drop a write).
//   - A single maintenance goroutine (CAS-guarded so only one runs at a
//     time) drains both channels, mutates the deques and sketch, runs
//     admission, sweeps expirations, and advances invalidation, all under
//     one mutex.
//
// Eviction and expiration are therefore eventually, not immediately,
// reflected in Len/Stats — but Get never returns a value past its TTL/TTI
// or a registered invalidation predicate, because the read path re-checks
// expiration against the entry's own timestamps before returning.
//
// # Expiration
//
//	cache := xanthus.New[string, User](xanthus.Config[string, User]{
//	    TimeToLive: 5 * time.Minute, // expire 5 minutes after last write
//	    TimeToIdle: time.Minute,     // expire 1 minute after last read/write
//	})
//
// TTL is swept against the write-order deque (anchored on last-modified);
// TTI and InvalidateAll are swept against the access-order deques (anchored
// on last-accessed). Both sweeps are bounded per maintenance cycle so a
// large expired backlog never makes one cycle unbounded.
//
// # Predicate Invalidation
//
//	id, err := cache.InvalidateIf(func(k string, v User) bool {
//	    return v.ID == 123
//	})
//
// InvalidateIf requires a write-order deque, which exists whenever TTL is
// set or Config.InvalidatorEnabled is true; otherwise it returns
// ErrCodeWriteOrderQueueDisabled. Matching entries are rejected both lazily
// (a Get that would otherwise hit re-checks every live predicate) and
// eagerly, via an incremental background scan the maintenance cycle drives
// a batch at a time.
//
// # Observability
//
// Cache.Stats() returns always-on counters with zero configuration:
//
//	stats := cache.Stats()
//	fmt.Printf("hits=%d misses=%d evictions=%d\n",
//	    stats.Hits, stats.Misses, stats.Evictions)
//
// For richer, pluggable observability, set Config.MetricsCollector; the
// default is a NoOpMetricsCollector so unconfigured caches pay nothing.
// The xanthus/otel sub-package adapts MetricsCollector onto OpenTelemetry
// histograms and counters:
//
//	import xanthusotel "github.com/agilira/xanthus/otel"
//
//	collector, _ := xanthusotel.NewOTelMetricsCollector(meterProvider)
//	cache := xanthus.New[string, User](xanthus.Config[string, User]{
//	    MetricsCollector: collector,
//	})
//
// # Hot Reload
//
// HotConfig watches a config file with github.com/agilira/argus and applies
// the subset of parameters that can change without reconstructing the cache:
// TimeToLive, TimeToIdle, and InvalidatorEnabled. MaxCapacity and the shard
// count are fixed for the life of a Cache, exactly as they are for the
// underlying segmented map.
//
// # Error Handling
//
// Xanthus uses github.com/agilira/go-errors for structured, categorized
// errors:
//
//	if _, err := cache.InvalidateIf(pred); err != nil {
//	    if xanthus.IsWriteOrderQueueDisabled(err) {
//	        // no TTL and InvalidatorEnabled wasn't set at construction
//	    } else if xanthus.IsNoSpaceLeft(err) {
//	        // predicate-id space exhausted; likely a registration leak
//	    }
//	}
//
// # Thread Safety
//
// All Cache methods are safe for concurrent use from any number of
// goroutines. Internal synchronization:
//
//   - per-shard mutexes in the segmented map (held briefly, never across
//     channel sends)
//   - one maintenance mutex guarding every deque and the frequency sketch,
//     held only by the single in-flight maintenance cycle
//   - a dedicated RWMutex for the predicate registry
//
// No global lock is ever held across a Get or Insert.
package xanthus
