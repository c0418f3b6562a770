// maintenance.go: the single maintenance cycle that drains the read/write
// channels and mutates the deques, sketch and weighted size. Only one
// maintenance cycle runs at a time (maintenanceRunning, CAS-guarded); it
// always holds maintenanceMu while touching the deques.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

// syncPace is the return value of a maintenance cycle, consumed by the
// housekeeper to decide how soon to schedule the next one.
type syncPace int8

const (
	paceKeep syncPace = iota
	paceNormal
	paceFast
)

// sync runs up to maxSyncRepeats drain passes, then sweeps expirations and
// advances invalidation. It returns false if another cycle was already in
// flight (the caller should not treat this as an error).
func (s *store[K, V]) sync() (syncPace, bool) {
	if !s.maintenanceRunning.CompareAndSwap(false, true) {
		return paceKeep, false
	}
	defer s.maintenanceRunning.Store(false)

	s.maintenanceMu.Lock()
	defer s.maintenanceMu.Unlock()

	var pace syncPace
	for i := 0; i < maxSyncRepeats; i++ {
		readLen := len(s.readCh)
		writeLen := len(s.writeCh)
		if readLen == 0 && writeLen == 0 {
			break
		}
		s.applyReads(readLen)
		s.applyWrites(writeLen)

		if readLen <= readLogFlushPoint && writeLen <= writeLogFlushPoint {
			break
		}
		if i == maxSyncRepeats-1 {
			pace = paceFast
		}
	}

	if s.ttlTicks.Load() > 0 || s.ttiTicks.Load() > 0 || s.validAfter.Load() != 0 {
		s.sweepExpired(evictionBatchSize)
	}

	s.invalidator.advance(invalidationBatchSize)
	s.evictToCapacity()

	if pace == paceKeep && len(s.writeCh) <= writeLogLowWaterMark {
		pace = paceNormal
	}
	return pace, true
}

func (s *store[K, V]) applyReads(count int) {
	for i := 0; i < count; i++ {
		var op readOp[K, V]
		select {
		case op = <-s.readCh:
		default:
			return
		}

		s.sketch.increment(op.hash)
		if op.kind != readHit {
			continue
		}

		ent := op.entry
		if !ent.admitted.Load() {
			continue
		}
		node := ent.accessNode.Load()
		if node == nil || !node.ownerIs(ent) {
			continue
		}
		ent.lastAccessed.Store(op.now)
		s.deques.accessDeque(node.region).moveToBack(node)
	}
}

func (s *store[K, V]) applyWrites(count int) {
	for i := 0; i < count; i++ {
		var op writeOp[K, V]
		select {
		case op = <-s.writeCh:
		default:
			return
		}

		switch op.kind {
		case writeRemove:
			s.handleRemove(op.entry)
		case writeUpsert:
			s.applyUpsert(op)
		}
	}
}

func (s *store[K, V]) applyUpsert(op writeOp[K, V]) {
	ent := op.entry
	now := s.cfg.Clock.Now()
	ent.lastAccessed.Store(now)
	ent.lastModified.Store(now)

	if ent.admitted.Load() {
		accessNode := ent.accessNode.Load()
		if accessNode != nil && accessNode.ownerIs(ent) {
			s.deques.accessDeque(accessNode.region).moveToBack(accessNode)
		}
		if writeNode := ent.writeNode.Load(); writeNode != nil && writeNode.ownerIs(ent) {
			s.deques.writeOrder.moveToBack(writeNode)
		}
		return
	}

	// An update that supersedes an already-admitted entry inherits its
	// deque slot outright: it already won admission once for this key, and
	// running the replacement through admission again would double-count
	// its weight (the superseded entry's weight would never be subtracted)
	// and could even see it lose to its own prior self on a frequency tie.
	// The CAS loses the race to a concurrent handleRemove (the superseded
	// entry expired or was evicted before this upsert was processed); in
	// that case the slot is already reclaimed and ent falls through to
	// ordinary admission below.
	if prev := op.prev; prev != nil && prev.admitted.CompareAndSwap(true, false) {
		s.transplantAdmission(prev, ent)
		return
	}

	if s.maxCapacity == 0 || s.weightedSize.Load()+ent.weight <= s.maxCapacity {
		s.handleAdmit(ent)
		return
	}
	if ent.weight > s.maxCapacity {
		// Too large to ever fit; drop it outright.
		seg := s.segmentFor(ent.hash)
		seg.removeIf(ent.key, func(cur *entry[K, V]) bool { return cur == ent })
		return
	}
	s.admit(ent)
}

// transplantAdmission carries prev's deque nodes over to ent by repointing
// their owner rather than unlinking and recreating them, then adjusts
// weightedSize by the delta between the two weights (normally zero; nonzero
// only if the Weigher produces a different weight for the new value).
func (s *store[K, V]) transplantAdmission(prev, ent *entry[K, V]) {
	if node := prev.accessNode.Load(); node != nil && node.ownerIs(prev) {
		node.owner.Store(ent)
		ent.accessNode.Store(node)
		s.deques.accessDeque(node.region).moveToBack(node)
	}
	if node := prev.writeNode.Load(); node != nil && node.ownerIs(prev) {
		node.owner.Store(ent)
		ent.writeNode.Store(node)
		s.deques.writeOrder.moveToBack(node)
	}
	prev.clearNodeRefs()
	ent.admitted.Store(true)

	switch {
	case ent.weight > prev.weight:
		s.weightedSize.Add(ent.weight - prev.weight)
	case ent.weight < prev.weight:
		s.weightedSize.Add(^(prev.weight - ent.weight - 1))
	}
}

// handleAdmit links a freshly admitted entry into probation (and
// write-order, if enabled), marks it admitted, and accounts its weight.
func (s *store[K, V]) handleAdmit(ent *entry[K, V]) {
	node := &deqNode[K, V]{key: ent.key, hash: ent.hash, region: regionProbation}
	node.owner.Store(ent)
	s.deques.probation.pushBack(node)
	ent.accessNode.Store(node)

	if s.writeOrderEnabled() {
		wnode := &deqNode[K, V]{key: ent.key, hash: ent.hash, region: regionWriteOrder}
		wnode.owner.Store(ent)
		s.deques.writeOrder.pushBack(wnode)
		ent.writeNode.Store(wnode)
	}

	ent.admitted.Store(true)
	s.weightedSize.Add(ent.weight)
}

// handleRemove unlinks an admitted entry from whichever deques it belongs
// to and subtracts its weight. Safe to call on an entry that was never
// admitted (no-op).
func (s *store[K, V]) handleRemove(ent *entry[K, V]) {
	if ent == nil || !ent.admitted.CompareAndSwap(true, false) {
		return
	}
	if node := ent.accessNode.Load(); node != nil && node.ownerIs(ent) {
		s.deques.accessDeque(node.region).unlink(node)
	}
	if node := ent.writeNode.Load(); node != nil && node.ownerIs(ent) {
		s.deques.writeOrder.unlink(node)
	}
	ent.clearNodeRefs()
	s.weightedSize.Add(^(ent.weight - 1)) // subtract ent.weight via two's complement (wrapping, not saturating)
}
