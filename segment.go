// segment.go: one shard of the concurrent key-value map.
//
// The store fans a key out to one of numSegments shards by hash; each shard
// serializes its own mutations behind a mutex. See SPEC_FULL.md §9 for why this
// collapses the reference design's optimistic, closures-may-run-twice
// insert_with_or_modify into "the closure runs exactly once".
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

import "sync"

type segment[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*entry[K, V]
}

func newSegment[K comparable, V any](sizeHint int) *segment[K, V] {
	return &segment[K, V]{m: make(map[K]*entry[K, V], sizeHint)}
}

// get returns the current entry for key, if any.
func (s *segment[K, V]) get(key K) (*entry[K, V], bool) {
	s.mu.Lock()
	e, ok := s.m[key]
	s.mu.Unlock()
	return e, ok
}

// remove unconditionally removes key and returns the entry that was present.
func (s *segment[K, V]) remove(key K) (*entry[K, V], bool) {
	s.mu.Lock()
	e, ok := s.m[key]
	if ok {
		delete(s.m, key)
	}
	s.mu.Unlock()
	return e, ok
}

// removeIf removes key only if cond(currentEntry) reports true, re-checking
// the condition against whatever is actually stored (the caller's snapshot
// of the entry may be stale). Used by the expiration sweeper and the
// invalidator, both of which must not remove an entry that changed after
// they decided to act on it.
func (s *segment[K, V]) removeIf(key K, cond func(*entry[K, V]) bool) (*entry[K, V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[key]
	if !ok || !cond(e) {
		return nil, false
	}
	delete(s.m, key)
	return e, true
}

// insertOrModify stores a new entry for key, built by onInsert if the key is
// absent or by onModify(old) if it is present. Returns the entry that is now
// current and, if an existing entry was replaced, the one it replaced.
func (s *segment[K, V]) insertOrModify(key K, onInsert func() *entry[K, V], onModify func(old *entry[K, V]) *entry[K, V]) (current, previous *entry[K, V]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, existed := s.m[key]
	if existed {
		current = onModify(old)
		previous = old
	} else {
		current = onInsert()
	}
	s.m[key] = current
	return current, previous
}
