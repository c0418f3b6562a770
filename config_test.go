// config_test.go: unit tests for Config, Validate and Policy.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

import (
	"testing"
	"time"
)

// fakeClock is a manually-advanced Clock for deterministic TTL/TTI tests.
type fakeClock struct {
	now uint64
}

func (c *fakeClock) Now() uint64 { return c.now }
func (c *fakeClock) advance(d time.Duration) {
	c.now += uint64(d)
}

func TestConfig_Validate_Defaults(t *testing.T) {
	cfg := Config[string, int]{}
	cfg.Validate()

	if cfg.Weigher == nil {
		t.Error("Validate() left Weigher nil")
	}
	if cfg.Hasher == nil {
		t.Error("Validate() left Hasher nil")
	}
	if cfg.Logger == nil {
		t.Error("Validate() left Logger nil")
	}
	if cfg.Clock == nil {
		t.Error("Validate() left Clock nil")
	}
	if cfg.MetricsCollector == nil {
		t.Error("Validate() left MetricsCollector nil")
	}
	if cfg.TaskExecutor == nil {
		t.Error("Validate() left TaskExecutor nil")
	}

	if w := cfg.Weigher("k", 1); w != 1 {
		t.Errorf("default Weigher = %d, want 1", w)
	}
}

func TestConfig_Validate_PreservesSetFields(t *testing.T) {
	logger := NoOpLogger{}
	clock := &fakeClock{now: 42}
	weigher := func(string, int) uint64 { return 7 }

	cfg := Config[string, int]{
		Logger:  logger,
		Clock:   clock,
		Weigher: weigher,
	}
	cfg.Validate()

	if cfg.Clock.Now() != 42 {
		t.Errorf("Validate() replaced an explicit Clock")
	}
	if w := cfg.Weigher("k", 1); w != 7 {
		t.Errorf("Validate() replaced an explicit Weigher: got %d, want 7", w)
	}
}

func TestConfig_Validate_HasherIsStableAndDistributes(t *testing.T) {
	cfg := Config[string, int]{}
	cfg.Validate()

	h1 := cfg.Hasher("alpha")
	h2 := cfg.Hasher("alpha")
	if h1 != h2 {
		t.Errorf("Hasher not stable across calls: %d != %d", h1, h2)
	}

	if cfg.Hasher("alpha") == cfg.Hasher("beta") {
		t.Error("Hasher produced identical hashes for distinct keys (possible, but vanishingly unlikely for this input)")
	}
}

func TestCache_Policy_ReflectsConfig(t *testing.T) {
	maxCap := uint64(500)
	cache := New[string, int](Config[string, int]{
		MaxCapacity: &maxCap,
		TimeToLive:  time.Minute,
		TimeToIdle:  30 * time.Second,
	})
	defer func() { _ = cache.Close() }()

	policy := cache.Policy()
	if policy.MaxCapacity == nil || *policy.MaxCapacity != maxCap {
		t.Errorf("Policy().MaxCapacity = %v, want %d", policy.MaxCapacity, maxCap)
	}
	if policy.NumSegments != numSegments {
		t.Errorf("Policy().NumSegments = %d, want %d", policy.NumSegments, numSegments)
	}
	if policy.TTL != time.Minute {
		t.Errorf("Policy().TTL = %v, want %v", policy.TTL, time.Minute)
	}
	if policy.TTI != 30*time.Second {
		t.Errorf("Policy().TTI = %v, want %v", policy.TTI, 30*time.Second)
	}
}

func TestCache_Policy_UnboundedWhenMaxCapacityUnset(t *testing.T) {
	cache := New[string, int](Config[string, int]{})
	defer func() { _ = cache.Close() }()

	if policy := cache.Policy(); policy.MaxCapacity != nil {
		t.Errorf("Policy().MaxCapacity = %v, want nil (unbounded)", policy.MaxCapacity)
	}
}

func TestCacheStats_HitRatio(t *testing.T) {
	tests := []struct {
		name  string
		stats CacheStats
		want  float64
	}{
		{"no hits or misses", CacheStats{Hits: 0, Misses: 0}, 0},
		{"all hits", CacheStats{Hits: 100, Misses: 0}, 100},
		{"all misses", CacheStats{Hits: 0, Misses: 100}, 0},
		{"50% hit ratio", CacheStats{Hits: 50, Misses: 50}, 50},
		{"75% hit ratio", CacheStats{Hits: 75, Misses: 25}, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.HitRatio(); got != tt.want {
				t.Errorf("CacheStats.HitRatio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCache_Stats_TracksHitsAndMisses(t *testing.T) {
	cache := New[string, int](Config[string, int]{})
	defer func() { _ = cache.Close() }()

	cache.Insert("a", 1)
	if _, ok := cache.Get("a"); !ok {
		t.Fatal("expected hit on freshly inserted key")
	}
	if _, ok := cache.Get("missing"); ok {
		t.Fatal("expected miss on key never inserted")
	}

	stats := cache.Stats()
	if stats.Hits != 1 {
		t.Errorf("Stats().Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Stats().Misses = %d, want 1", stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("Stats().Sets = %d, want 1", stats.Sets)
	}
	if got := stats.HitRatio(); got != 50 {
		t.Errorf("Stats().HitRatio() = %v, want 50", got)
	}
}

func TestNoOpLogger(t *testing.T) {
	logger := NoOpLogger{}

	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")

	logger.Debug("test", "key", "value")
	logger.Info("test", "key", "value")
	logger.Warn("test", "key", "value")
	logger.Error("test", "key", "value")
}

func TestNoOpMetricsCollector(t *testing.T) {
	c := NoOpMetricsCollector{}
	c.RecordGet(100, true)
	c.RecordSet(100)
	c.RecordDelete(100)
	c.RecordEviction()
	c.RecordExpiration()
	c.RecordInvalidation(3)
}
