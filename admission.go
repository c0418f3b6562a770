// admission.go: W-TinyLFU admission, run when the cache is at capacity and
// a new candidate needs to displace something already resident.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

// admit decides whether a just-written, not-yet-admitted entry displaces
// enough lower-frequency victims from the LRU end of probation to make
// room for it. It walks probation from the front (oldest) accumulating
// victim weight and frequency until the accumulated weight covers the
// candidate's, then compares total frequencies; admissionStrictGreater
// means ties favor the resident victims (protects against hash-flooding
// sweeps where many same-frequency newcomers would otherwise churn the
// cache).
func (s *store[K, V]) admit(candidate *entry[K, V]) {
	candidateFreq := s.sketch.frequency(candidate.hash)

	var victimWeight, victimFreq uint64
	var victimNodes, skippedNodes []*deqNode[K, V]
	consecutiveMisses := 0

	node := s.deques.probation.front()
	rejected := false
	for node != nil {
		next := node.next
		victim := node.owner.Load()
		if victim == nil || !node.ownerIs(victim) {
			skippedNodes = append(skippedNodes, node)
			consecutiveMisses++
			if consecutiveMisses > maxConsecutiveRetries {
				break
			}
			node = next
			continue
		}
		consecutiveMisses = 0

		victimWeight += victim.weight
		victimFreq += s.sketch.frequency(victim.hash)
		victimNodes = append(victimNodes, node)

		if candidateFreq < victimFreq {
			rejected = true
			break
		}
		if victimWeight >= candidate.weight {
			break
		}
		node = next
	}

	freqWins := candidateFreq > victimFreq
	if !admissionStrictGreater {
		freqWins = candidateFreq >= victimFreq
	}
	admitCandidate := !rejected && victimWeight >= candidate.weight && freqWins

	if admitCandidate {
		for _, vn := range victimNodes {
			victim := vn.owner.Load()
			if victim == nil || !vn.ownerIs(victim) {
				skippedNodes = append(skippedNodes, vn)
				continue
			}
			seg := s.segmentFor(victim.hash)
			_, removed := seg.removeIf(victim.key, func(cur *entry[K, V]) bool { return cur == victim })
			if removed {
				s.handleRemove(victim)
				s.evictions.Add(1)
				s.cfg.MetricsCollector.RecordEviction()
			} else {
				skippedNodes = append(skippedNodes, vn)
			}
		}
		s.handleAdmit(candidate)
	} else {
		s.evictEntry(candidate)
	}

	for _, vn := range skippedNodes {
		if vn.owner.Load() != nil {
			s.deques.probation.moveToBack(vn)
		}
	}
}

// evictEntry removes a never-admitted (or just-rejected) candidate from its
// segment outright: it never entered the deques, so there is nothing to
// unlink.
func (s *store[K, V]) evictEntry(ent *entry[K, V]) {
	seg := s.segmentFor(ent.hash)
	seg.removeIf(ent.key, func(cur *entry[K, V]) bool { return cur == ent })
	s.evictions.Add(1)
	s.cfg.MetricsCollector.RecordEviction()
}

// evictToCapacity is invoked after expiration sweeps and invalidation, in
// case weighted size still exceeds maxCapacity (e.g. after an update whose
// new value weighs more than the value it replaced: transplantAdmission
// accounts the difference without running admission). It evicts from the
// front of probation, then window, until the cache fits or runs dry.
func (s *store[K, V]) evictToCapacity() {
	if s.maxCapacity == 0 {
		return
	}
	for i := 0; i < evictionBatchSize && s.weightedSize.Load() > s.maxCapacity; i++ {
		node := s.deques.probation.front()
		if node == nil {
			node = s.deques.window.front()
		}
		if node == nil {
			return
		}
		ent := node.owner.Load()
		if ent == nil || !node.ownerIs(ent) {
			s.deques.accessDeque(node.region).unlink(node)
			continue
		}
		s.handleRemove(ent)
		seg := s.segmentFor(ent.hash)
		seg.removeIf(ent.key, func(cur *entry[K, V]) bool { return cur == ent })
		s.evictions.Add(1)
		s.cfg.MetricsCollector.RecordEviction()
	}
}
