// cache.go: the public API. Cache is a thin, typed handle around a store;
// it exists only to keep the unexported engine internals (store, segment,
// entry, deque) out of the exported surface.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

import "time"

// Cache is a concurrent, bounded, in-memory key-value cache with
// W-TinyLFU admission and TTL/TTI/predicate-based expiration.
//
// A Cache must be constructed with New and must eventually be Closed to
// release its housekeeper goroutine.
type Cache[K comparable, V any] struct {
	s *store[K, V]
}

// New builds a Cache from cfg. cfg is validated in place: unset fields
// receive their defaults (see Config.Validate).
func New[K comparable, V any](cfg Config[K, V]) *Cache[K, V] {
	return &Cache[K, V]{s: newStore[K, V](cfg)}
}

// Get returns the value stored under key, and whether it was found. A
// miss can mean the key was never inserted, has expired, or matched a
// registered invalidation predicate.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.s.get(key)
}

// Insert stores value under key, replacing any previous value. Admission
// is decided asynchronously by the maintenance cycle; Insert itself never
// blocks on capacity.
func (c *Cache[K, V]) Insert(key K, value V) {
	c.s.insert(key, value)
}

// Remove deletes key, returning its prior value if present.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	return c.s.remove(key)
}

// InvalidateAll marks every entry written before this call as expired.
// Entries written concurrently with, or after, the call may or may not be
// affected; InvalidateAll does not block waiting for the maintenance cycle
// to reclaim their memory.
func (c *Cache[K, V]) InvalidateAll() {
	c.s.invalidateAll()
}

// InvalidateIf registers a predicate over entries that existed at the time
// of this call. Matching entries are evicted both lazily (a Get that would
// otherwise hit re-checks every live predicate) and eagerly, via an
// incremental background scan driven by the maintenance cycle.
//
// It returns ErrCodeWriteOrderQueueDisabled if the cache has neither TTL
// nor InvalidatorEnabled set, since there is no write-order deque for the
// background scan to walk. It returns ErrCodeNoSpaceLeft if predicate-id
// space is exhausted (10,000 consecutive collisions), which in practice
// only happens under a severe predicate-registration leak.
func (c *Cache[K, V]) InvalidateIf(predicate func(K, V) bool) (PredicateID, error) {
	return c.s.invalidator.register(predicate)
}

// Len returns the number of entries currently resident across every
// segment, including entries that have expired but have not yet been
// swept by the maintenance cycle.
func (c *Cache[K, V]) Len() int {
	return c.s.len()
}

// Policy reports the Cache's effective configuration. MaxCapacity and
// NumSegments are fixed at construction; TTL and TTI are read from the
// live store, so they reflect any change applied through HotConfig.
func (c *Cache[K, V]) Policy() Policy {
	ttl := time.Duration(c.s.ttlTicks.Load())
	tti := time.Duration(c.s.ttiTicks.Load())
	var maxCap *uint64
	if c.s.maxCapacity != 0 {
		mc := c.s.maxCapacity
		maxCap = &mc
	}
	return Policy{
		MaxCapacity: maxCap,
		NumSegments: numSegments,
		TTL:         ttl,
		TTI:         tti,
	}
}

// Stats returns a snapshot of the cache's always-on hit/miss/eviction
// counters. Unlike the pluggable Config.MetricsCollector, Stats is cheap to
// read and requires no configuration, so callers that only want a hit ratio
// don't need to stand up an OTEL pipeline.
func (c *Cache[K, V]) Stats() CacheStats {
	return c.s.stats()
}

// Close stops the background housekeeper goroutine. A Cache remains
// usable for Get/Insert/Remove after Close, but no further maintenance
// cycles will run, so eviction, expiration and invalidation all stop
// making progress.
func (c *Cache[K, V]) Close() error {
	return c.s.close()
}
