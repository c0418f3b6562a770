// store.go: the segmented map, deques, and the synchronous halves of the
// read/write hot path. The maintenance cycle itself (admission, eviction,
// expiration, invalidation) lives in admission.go, expiration.go and
// invalidator.go; this file owns the glue that drives them.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

import (
	"sync"
	"sync/atomic"
	"time"
)

// store is the engine behind Cache. It is never exposed directly; Cache is
// a thin, typed handle around it.
type store[K comparable, V any] struct {
	cfg Config[K, V]

	segments    []*segment[K, V]
	segmentMask uint64

	sketch *frequencySketch

	// hot-path channels carrying deferred effects to the maintenance cycle.
	readCh  chan readOp[K, V]
	writeCh chan writeOp[K, V]

	// maintenanceMu guards every deque. It is held only by the goroutine
	// running a maintenance cycle. The invalidator's registry has its own
	// RWMutex (invalidator.mu).
	maintenanceMu sync.Mutex
	deques        deques[K, V]

	maintenanceRunning atomic.Bool

	serial atomic.Uint64

	maxCapacity  uint64 // 0 means unbounded
	weightedSize atomic.Uint64

	validAfter atomic.Uint64 // 0 means unset

	// ttlTicks / ttiTicks / invalidatorEnabled mirror the corresponding
	// Config fields but live behind atomics so HotConfig (hot-reload.go) can
	// adjust them without reconstructing the cache. 0 means disabled.
	ttlTicks           atomic.Uint64
	ttiTicks           atomic.Uint64
	invalidatorEnabled atomic.Bool

	invalidator *invalidator[K, V]

	housekeeper *housekeeper[K, V]

	closed atomic.Bool

	// stats backs Cache.Stats(); kept distinct from cfg.MetricsCollector,
	// which is a pluggable external sink while Stats() is the cache's own
	// zero-configuration always-on counters.
	hits          atomic.Uint64
	misses        atomic.Uint64
	sets          atomic.Uint64
	deletes       atomic.Uint64
	evictions     atomic.Uint64
	expirations   atomic.Uint64
	invalidations atomic.Uint64
}

func newStore[K comparable, V any](cfg Config[K, V]) *store[K, V] {
	cfg.Validate()

	sizeHint := 0
	if cfg.InitialCapacity != nil {
		sizeHint = (*cfg.InitialCapacity + writeLogSize*4) / numSegments
	}

	segs := make([]*segment[K, V], numSegments)
	for i := range segs {
		segs[i] = newSegment[K, V](sizeHint)
	}

	var maxCap uint64
	if cfg.MaxCapacity != nil {
		maxCap = *cfg.MaxCapacity
	}

	sketchCapacity := int(maxCap) * 32
	if sketchCapacity < 100 {
		sketchCapacity = 100
	}

	s := &store[K, V]{
		cfg:         cfg,
		segments:    segs,
		segmentMask: uint64(numSegments - 1),
		sketch:      newFrequencySketch(sketchCapacity),
		readCh:      make(chan readOp[K, V], readLogSize),
		writeCh:     make(chan writeOp[K, V], writeLogSize),
		maxCapacity: maxCap,
	}
	s.ttlTicks.Store(uint64(cfg.TimeToLive))
	s.ttiTicks.Store(uint64(cfg.TimeToIdle))
	s.invalidatorEnabled.Store(cfg.InvalidatorEnabled)
	s.invalidator = newInvalidator[K, V](s)
	s.housekeeper = newHousekeeper(s)
	s.housekeeper.start()
	return s
}

func (s *store[K, V]) segmentFor(hash uint64) *segment[K, V] {
	return s.segments[hash&s.segmentMask]
}

func (s *store[K, V]) writeOrderEnabled() bool {
	return s.ttlTicks.Load() > 0 || s.invalidatorEnabled.Load()
}

// get is the synchronous read path.
func (s *store[K, V]) get(key K) (V, bool) {
	start := s.cfg.Clock.Now()
	var zero V
	hash := s.cfg.Hasher(key)
	seg := s.segmentFor(hash)

	ent, ok := seg.get(key)
	if !ok {
		s.recordRead(readOp[K, V]{kind: readMiss, hash: hash})
		s.maybeSchedule()
		s.misses.Add(1)
		s.cfg.MetricsCollector.RecordGet(int64(s.cfg.Clock.Now()-start), false)
		return zero, false
	}

	now := s.cfg.Clock.Now()
	if s.isExpired(ent, now) || s.invalidator.applies(key, ent) {
		s.recordRead(readOp[K, V]{kind: readMiss, hash: hash})
		s.maybeSchedule()
		s.misses.Add(1)
		s.cfg.MetricsCollector.RecordGet(int64(s.cfg.Clock.Now()-start), false)
		return zero, false
	}

	value := ent.value
	s.recordRead(readOp[K, V]{kind: readHit, hash: hash, entry: ent, now: now})
	s.maybeSchedule()
	s.hits.Add(1)
	s.cfg.MetricsCollector.RecordGet(int64(s.cfg.Clock.Now()-start), true)
	return value, true
}

func (s *store[K, V]) isExpired(ent *entry[K, V], now uint64) bool {
	return ent.expired(now, s.validAfter.Load(), s.ttlTicks.Load(), s.ttiTicks.Load())
}

// insert is the synchronous write path.
func (s *store[K, V]) insert(key K, value V) {
	start := s.cfg.Clock.Now()
	hash := s.cfg.Hasher(key)
	weight := s.cfg.Weigher(key, value)
	seg := s.segmentFor(hash)

	onInsert := func() *entry[K, V] {
		return newEntry[K, V](key, hash, value, weight, s.serial.Add(1))
	}
	onModify := func(*entry[K, V]) *entry[K, V] {
		return newEntry[K, V](key, hash, value, weight, s.serial.Add(1))
	}

	// previous's deque nodes (if it was already admitted) are left intact
	// here: applyUpsert transplants them onto current instead of unlinking
	// and recreating, so a key updated repeatedly never grows weightedSize
	// beyond its own weight. Any read op still in flight against previous
	// is harmless -- it is either drained before this upsert in the same
	// maintenance cycle (superseded moments later) or, once the transplant
	// has run, gated out by previous.admitted having flipped false.
	current, previous := seg.insertOrModify(key, onInsert, onModify)

	s.recordWrite(writeOp[K, V]{kind: writeUpsert, hash: hash, entry: current, prev: previous, serial: current.serial})
	s.maybeSchedule()
	s.sets.Add(1)
	s.cfg.MetricsCollector.RecordSet(int64(s.cfg.Clock.Now() - start))
}

// remove is the synchronous remove path.
func (s *store[K, V]) remove(key K) (V, bool) {
	start := s.cfg.Clock.Now()
	var zero V
	hash := s.cfg.Hasher(key)
	seg := s.segmentFor(hash)

	ent, ok := seg.remove(key)
	if !ok {
		return zero, false
	}
	s.recordWrite(writeOp[K, V]{kind: writeRemove, hash: hash, entry: ent})
	s.maybeSchedule()
	s.deletes.Add(1)
	s.cfg.MetricsCollector.RecordDelete(int64(s.cfg.Clock.Now() - start))
	return ent.value, true
}

func (s *store[K, V]) invalidateAll() {
	s.validAfter.Store(s.cfg.Clock.Now())
}

func (s *store[K, V]) len() int {
	var n int
	for _, seg := range s.segments {
		seg.mu.Lock()
		n += len(seg.m)
		seg.mu.Unlock()
	}
	return n
}

// stats snapshots the cache's always-on counters. Unlike cfg.MetricsCollector
// (a pluggable external sink), these are read directly by Cache.Stats().
func (s *store[K, V]) stats() CacheStats {
	return CacheStats{
		Hits:          s.hits.Load(),
		Misses:        s.misses.Load(),
		Sets:          s.sets.Load(),
		Deletes:       s.deletes.Load(),
		Evictions:     s.evictions.Load(),
		Expirations:   s.expirations.Load(),
		Invalidations: s.invalidations.Load(),
		Size:          s.len(),
		WeightedSize:  s.weightedSize.Load(),
	}
}

// setTTL updates the TTL applied to future and existing entries without
// reconstructing the cache. Zero disables TTL. See hot-reload.go.
func (s *store[K, V]) setTTL(d time.Duration) {
	s.ttlTicks.Store(uint64(d))
}

// setTTI updates the TTI applied to future and existing entries without
// reconstructing the cache. Zero disables TTI. See hot-reload.go.
func (s *store[K, V]) setTTI(d time.Duration) {
	s.ttiTicks.Store(uint64(d))
}

// setInvalidatorEnabled toggles whether the write-order deque is kept alive
// purely to serve InvalidateIf, independent of TTL. See hot-reload.go.
func (s *store[K, V]) setInvalidatorEnabled(enabled bool) {
	s.invalidatorEnabled.Store(enabled)
}

// maybeSchedule requests a maintenance cycle if either channel has crossed
// its flush threshold. Non-blocking: trySchedule wakes the housekeeper
// goroutine, which runs the cycle, or does nothing if a wake-up is already
// pending.
func (s *store[K, V]) maybeSchedule() {
	if len(s.readCh) > readLogFlushPoint || len(s.writeCh) > writeLogFlushPoint {
		s.housekeeper.trySchedule()
	}
}

// close stops the housekeeper before the store becomes unusable, so no
// maintenance cycle ever observes a partially torn-down state.
func (s *store[K, V]) close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.housekeeper.stop()
	return nil
}
