// invalidator.go: predicate-based invalidation. Registering a predicate
// marks every entry written before that moment as a candidate; the get hot
// path consults the registry synchronously (applies), while the maintenance
// cycle hands an incremental scan of the write-order deque off to a
// TaskExecutor (advance) so long-lived predicates evict their matches in
// the background without every Get paying the cost of a full scan, and
// without the scan itself blocking the maintenance mutex.
//
// Grounded on the reference design's invalidator: a registered predicate
// only ever needs to examine entries that existed at registration time
// (registeredAt), and can be pruned from the registry once a background
// scan confirms nothing earlier than that remains unexamined.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

import (
	"sync"
	"sync/atomic"
)

// PredicateID identifies a registered invalidation predicate, returned by
// InvalidateIf so it can later be cancelled (not currently exposed; kept
// for parity with the registration API's natural return value).
type PredicateID uint64

// predicateState tracks one registered predicate. registeredAt is the
// store's serial counter at registration time (this repository's
// Go-idiomatic stand-in for the reference design's wall-clock
// registered_at: serial order and modification order coincide here, and
// comparing serials needs no clock read). exhausted is set once a
// background scan has walked the write-order deque to its tail without
// truncation while this predicate was part of the snapshot, meaning
// nothing at or before registeredAt remains unexamined.
type predicateState[K comparable, V any] struct {
	fn           func(K, V) bool
	registeredAt uint64
	exhausted    bool
}

// predicateSnapshot is the immutable view of one predicate handed to a
// background scan task; it never touches the registry's mutex.
type predicateSnapshot[K comparable, V any] struct {
	id           uint64
	fn           func(K, V) bool
	registeredAt uint64
}

// invalidationResult is produced by a background scan task and collected by
// the next maintenance cycle, per the single-writer rule that only the
// maintenance goroutine touches the deques and registry.
type invalidationResult[K comparable, V any] struct {
	invalidated []*entry[K, V]
	exhausted   map[uint64]bool
}

type invalidator[K comparable, V any] struct {
	s *store[K, V]

	mu         sync.RWMutex
	predicates map[uint64]*predicateState[K, V]
	nextID     uint64

	// isEmpty lets applies() skip the RWMutex entirely in the overwhelmingly
	// common case of no predicates registered.
	isEmpty atomic.Bool

	// taskRunning guards the "single task in flight per cache" resource
	// model: set when a scan is submitted, cleared only once its result has
	// been collected by a maintenance cycle.
	taskRunning atomic.Bool

	resultMu sync.Mutex
	result   *invalidationResult[K, V]
}

func newInvalidator[K comparable, V any](s *store[K, V]) *invalidator[K, V] {
	inv := &invalidator[K, V]{s: s, predicates: make(map[uint64]*predicateState[K, V])}
	inv.isEmpty.Store(true)
	return inv
}

// applies reports whether any registered predicate matches (key, ent),
// meaning ent should be treated as absent. Called from the synchronous get
// path, so it must stay cheap: the isEmpty fast path and an RLock are the
// only cost when there is nothing to check. This check is independent of
// how far the background scan has progressed: a predicate is enforced for
// every read the instant it is registered, regardless of when its matches
// are physically reclaimed.
func (inv *invalidator[K, V]) applies(key K, ent *entry[K, V]) bool {
	if inv.isEmpty.Load() {
		return false
	}
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	for _, p := range inv.predicates {
		if ent.serial > p.registeredAt {
			continue
		}
		if p.fn(key, ent.value) {
			return true
		}
	}
	return false
}

// register adds a new predicate, returning its id. It requires the
// write-order deque to exist (TTL or InvalidatorEnabled), since the
// background scan walks that deque; without it, a predicate could only
// ever be enforced via applies()'s O(predicates) synchronous check, which
// is the behavior InvalidatorEnabled exists to opt out of paying silently.
func (inv *invalidator[K, V]) register(fn func(K, V) bool) (PredicateID, error) {
	if !inv.s.writeOrderEnabled() {
		return 0, NewErrWriteOrderQueueDisabled()
	}

	inv.mu.Lock()
	var id uint64
	found := false
	for attempt := 0; attempt < maxPredicateIDRetries; attempt++ {
		id = inv.nextID
		inv.nextID++
		if _, exists := inv.predicates[id]; !exists {
			found = true
			break
		}
	}
	if !found {
		inv.mu.Unlock()
		return 0, NewErrNoSpaceLeft(maxPredicateIDRetries)
	}

	inv.predicates[id] = &predicateState[K, V]{
		fn:           fn,
		registeredAt: inv.s.serial.Load(),
	}
	inv.isEmpty.Store(false)
	inv.mu.Unlock()

	inv.s.housekeeper.trySchedule()
	return PredicateID(id), nil
}

// advance is called once per maintenance cycle while maintenanceMu is held.
// It first collects any result left by a previously completed scan task,
// then -- if the registry is non-empty and no task is currently in flight
// -- snapshots up to batch candidates from the write-order deque and the
// active predicates, and hands the actual scan off to the TaskExecutor so
// it runs off the maintenance goroutine.
func (inv *invalidator[K, V]) advance(batch int) {
	inv.collectResult()

	if inv.isEmpty.Load() {
		return
	}
	if !inv.taskRunning.CompareAndSwap(false, true) {
		return
	}

	inv.mu.RLock()
	snaps := make([]predicateSnapshot[K, V], 0, len(inv.predicates))
	for id, p := range inv.predicates {
		if p.exhausted {
			continue
		}
		snaps = append(snaps, predicateSnapshot[K, V]{id: id, fn: p.fn, registeredAt: p.registeredAt})
	}
	inv.mu.RUnlock()

	if len(snaps) == 0 {
		inv.taskRunning.Store(false)
		return
	}

	candidates := make([]*entry[K, V], 0, batch)
	node := inv.s.deques.writeOrder.front()
	for node != nil && len(candidates) < batch {
		if ent := node.owner.Load(); ent != nil && node.ownerIs(ent) {
			candidates = append(candidates, ent)
		}
		node = node.next
	}
	truncated := node != nil

	inv.s.cfg.TaskExecutor.Submit(func() {
		inv.runScan(snaps, candidates, truncated)
	})
}

// runScan executes off the maintenance goroutine (via TaskExecutor). It
// must never touch the deques or the predicate registry directly; it only
// reads the segmented map (through the usual guarded removeIf) and writes
// its findings into the result slot for the next maintenance cycle to
// apply.
func (inv *invalidator[K, V]) runScan(snaps []predicateSnapshot[K, V], candidates []*entry[K, V], truncated bool) {
	res := &invalidationResult[K, V]{exhausted: make(map[uint64]bool, len(snaps))}

	for _, ent := range candidates {
		for _, snap := range snaps {
			if ent.serial > snap.registeredAt {
				continue
			}
			if !snap.fn(ent.key, ent.value) {
				continue
			}
			seg := inv.s.segmentFor(ent.hash)
			if _, ok := seg.removeIf(ent.key, func(cur *entry[K, V]) bool { return cur == ent }); ok {
				res.invalidated = append(res.invalidated, ent)
			}
			break
		}
	}

	if !truncated {
		for _, snap := range snaps {
			res.exhausted[snap.id] = true
		}
	}

	inv.resultMu.Lock()
	inv.result = res
	inv.resultMu.Unlock()
}

// collectResult applies a completed scan task's findings: unlinks every
// invalidated entry from the deques, marks predicates whose scan reached
// the tail of the write-order deque as exhausted, prunes exhausted
// predicates from the registry, and releases the single-task-in-flight
// slot.
func (inv *invalidator[K, V]) collectResult() {
	inv.resultMu.Lock()
	res := inv.result
	inv.result = nil
	inv.resultMu.Unlock()
	if res == nil {
		return
	}

	for _, ent := range res.invalidated {
		inv.s.invalidateEntry(ent)
	}

	inv.mu.Lock()
	for id, done := range res.exhausted {
		if !done {
			continue
		}
		if p, ok := inv.predicates[id]; ok {
			p.exhausted = true
		}
	}
	for id, p := range inv.predicates {
		if p.exhausted {
			delete(inv.predicates, id)
		}
	}
	if len(inv.predicates) == 0 {
		inv.isEmpty.Store(true)
	}
	inv.mu.Unlock()

	inv.taskRunning.Store(false)
}
