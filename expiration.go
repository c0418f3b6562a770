// expiration.go: the expiration sweeper run at the end of each maintenance
// cycle.
//
// TTL is checked against the write-order deque (insertion/update order,
// oldest first) since time-to-live is anchored on lastModified and the
// write-order deque is already sorted by that field. TTI and global
// invalidate-all are checked against the access-order deques (window,
// probation, protected) since idle time is anchored on lastAccessed.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

func (s *store[K, V]) sweepExpired(batch int) {
	now := s.cfg.Clock.Now()
	validAfter := s.validAfter.Load()
	ttl := s.ttlTicks.Load()
	tti := s.ttiTicks.Load()

	if ttl != 0 {
		s.sweepWriteOrder(now, validAfter, ttl, batch)
	}
	if tti != 0 || validAfter != 0 {
		s.sweepAccessOrder(&s.deques.window, now, validAfter, tti, batch)
		s.sweepAccessOrder(&s.deques.probation, now, validAfter, tti, batch)
		s.sweepAccessOrder(&s.deques.protected, now, validAfter, tti, batch)
	}
}

// sweepWriteOrder walks the write-order deque from the front (oldest
// write), removing entries whose TTL (or global invalidate-all) has
// elapsed, and stops at the first entry that has not expired: everything
// after it is younger still.
func (s *store[K, V]) sweepWriteOrder(now, validAfter, ttl uint64, batch int) {
	d := &s.deques.writeOrder
	node := d.front()
	for i := 0; node != nil && i < batch; i++ {
		next := node.next
		ent := node.owner.Load()
		if ent == nil || !node.ownerIs(ent) {
			d.unlink(node)
			node = next
			continue
		}
		if !ent.expired(now, validAfter, ttl, 0) {
			break
		}
		s.expireEntry(ent)
		node = next
	}
}

// sweepAccessOrder walks an access-order deque from the front (least
// recently used/accessed), removing entries whose TTI (or global
// invalidate-all) has elapsed. Unlike write-order, TTI is not monotonic
// with deque position once reads reorder the deque mid-sweep, so this walk
// does not stop at the first non-expired node; it simply bounds itself to
// batch candidates.
func (s *store[K, V]) sweepAccessOrder(d *deque[K, V], now, validAfter, tti uint64, batch int) {
	node := d.front()
	checked := 0
	for node != nil && checked < batch {
		next := node.next
		ent := node.owner.Load()
		if ent == nil || !node.ownerIs(ent) {
			d.unlink(node)
			node = next
			checked++
			continue
		}
		if ent.expired(now, validAfter, 0, tti) {
			s.expireEntry(ent)
		}
		node = next
		checked++
	}
}

// expireEntry unlinks ent from every deque it belongs to, removes it from
// its segment, and records the expiration.
func (s *store[K, V]) expireEntry(ent *entry[K, V]) {
	s.handleRemove(ent)
	seg := s.segmentFor(ent.hash)
	seg.removeIf(ent.key, func(cur *entry[K, V]) bool { return cur == ent })
	s.expirations.Add(1)
	s.cfg.MetricsCollector.RecordExpiration()
}

// invalidateEntry is expireEntry's counterpart for predicate-driven
// removals: same unlink/remove sequence, different metric.
func (s *store[K, V]) invalidateEntry(ent *entry[K, V]) {
	s.handleRemove(ent)
	seg := s.segmentFor(ent.hash)
	seg.removeIf(ent.key, func(cur *entry[K, V]) bool { return cur == ent })
	s.invalidations.Add(1)
	s.cfg.MetricsCollector.RecordInvalidation(1)
}
