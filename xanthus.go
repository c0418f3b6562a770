// Package xanthus provides a concurrent, bounded, in-memory cache with
// W-TinyLFU admission, TTL/TTI expiration, and predicate-based invalidation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

const (
	// Version of the xanthus cache library.
	Version = "v0.1.0-dev"

	// numSegments is the fixed shard count of the concurrent map.
	numSegments = 64

	// maxSyncRepeats bounds how many read/write drain passes a single
	// maintenance cycle performs before moving on to sweeping/invalidation.
	maxSyncRepeats = 4

	// readLogFlushPoint / writeLogFlushPoint: channel length above which a
	// maintenance cycle is requested from the hot path.
	readLogFlushPoint  = 512
	writeLogFlushPoint = 512

	// readLogSize / writeLogSize: channel capacity, sized so maxSyncRepeats
	// passes can never outrun producers without the channel filling first.
	readLogSize  = readLogFlushPoint * (maxSyncRepeats + 2)
	writeLogSize = writeLogFlushPoint * (maxSyncRepeats + 2)

	// writeLogLowWaterMark: at or below this, the housekeeper drops back to
	// the normal pace.
	writeLogLowWaterMark = writeLogFlushPoint / 2

	// writeRetryInterval is the backoff between retries when the write
	// channel is full; a write is never dropped.
	writeRetryInterval = 50 // microseconds

	// evictionBatchSize / invalidationBatchSize bound a single maintenance
	// cycle's sweeper and invalidator work.
	evictionBatchSize     = 500
	invalidationBatchSize = 500

	// maxConsecutiveRetries bounds admission's tolerance for victim nodes
	// whose entries have already been removed concurrently.
	maxConsecutiveRetries = 5

	// maxPredicateIDRetries bounds predicate-ID wrap-around collision
	// retries before giving up.
	maxPredicateIDRetries = 10_000

	// admissionStrictGreater selects strict '>' (vs '>=') when comparing
	// candidate frequency to aggregated victim frequency. Strict comparison
	// resists pollution at a small hit-ratio cost; kept as an unexported
	// constant rather than a build tag, see DESIGN.md.
	admissionStrictGreater = true

	// unsetTick is the sentinel timestamp meaning "not yet stamped by
	// maintenance". It must sort after every real tick so a fresh entry is
	// never mistaken for expired before maintenance runs.
	unsetTick = ^uint64(0)
)
