// config.go: cache configuration.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

import (
	"hash/maphash"
	"time"
)

// Config holds construction-time parameters for a Cache. There is no
// fluent options API, only field defaults applied by Validate.
type Config[K comparable, V any] struct {
	// MaxCapacity is the maximum weighted size the cache will hold. Nil or
	// <= 0 means unbounded (admission never rejects, eviction never runs).
	MaxCapacity *uint64

	// InitialCapacity hints the starting size of the segmented map. The
	// effective seed is InitialCapacity + writeLogSize*4, matching the
	// headroom the reference design reserves for in-flight writes, split
	// evenly across the numSegments segments.
	InitialCapacity *int

	// Hasher computes a key's hash. Defaults to maphash.Comparable seeded
	// once per cache instance.
	Hasher func(K) uint64

	// Weigher computes an entry's weight for capacity accounting. Defaults
	// to a constant weight of 1 (plain LRU-by-count behavior).
	Weigher func(K, V) uint64

	// TimeToLive expires entries a fixed duration after they were last
	// written. Zero disables TTL.
	TimeToLive time.Duration

	// TimeToIdle expires entries a fixed duration after they were last
	// read or written. Zero disables TTI.
	TimeToIdle time.Duration

	// InvalidatorEnabled reserves the write-order deque even when TTL is
	// unset, so InvalidateIf can be used. If TimeToLive is set the
	// write-order deque exists regardless of this flag.
	InvalidatorEnabled bool

	// Logger is kept on the cache's configuration. Defaults to NoOpLogger.
	// The maintenance cycle, housekeeper and invalidator do not write to it;
	// HotConfig takes its own Logger through HotConfigOptions.
	Logger Logger

	// Clock provides monotonic ticks for TTL/TTI. Defaults to a
	// go-timecache-backed system clock. Tests inject a fake clock here.
	Clock Clock

	// MetricsCollector receives per-operation timings and counters.
	// Defaults to NoOpMetricsCollector.
	MetricsCollector MetricsCollector

	// TaskExecutor runs invalidation-scan tasks. Defaults to one goroutine
	// per submitted task.
	TaskExecutor TaskExecutor
}

// Validate normalizes cfg in place, filling every unset field with its
// default. It never returns a configuration error and leaves numeric
// fields exactly as given.
func (c *Config[K, V]) Validate() {
	if c.Weigher == nil {
		c.Weigher = func(K, V) uint64 { return 1 }
	}
	if c.Hasher == nil {
		seed := maphash.MakeSeed()
		c.Hasher = func(k K) uint64 { return maphash.Comparable(seed, k) }
	}
	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}
	if c.Clock == nil {
		c.Clock = systemClock{}
	}
	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}
	if c.TaskExecutor == nil {
		c.TaskExecutor = goroutineTaskExecutor{}
	}
}

// Policy reports a Cache's effective parameters. MaxCapacity and
// NumSegments are fixed at construction; TTL and TTI are the current
// values, including any change applied through HotConfig.
type Policy struct {
	MaxCapacity *uint64
	NumSegments int
	TTL         time.Duration
	TTI         time.Duration
}
