// sketch_test.go: unit tests and benchmarks for the frequency sketch.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

import (
	"hash/fnv"
	"strconv"
	"testing"
)

func testHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func TestNewFrequencySketch(t *testing.T) {
	tests := []struct {
		name    string
		maxSize int
		wantMin int
	}{
		{"small size", 100, 64},
		{"medium size", 1000, 64},
		{"large size", 10000, 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sketch := newFrequencySketch(tt.maxSize)

			if len(sketch.table) < tt.wantMin {
				t.Errorf("table size %d < minimum %d", len(sketch.table), tt.wantMin)
			}

			tableSize := len(sketch.table)
			if tableSize&(tableSize-1) != 0 {
				t.Errorf("table size %d is not power of 2", tableSize)
			}

			if sketch.tableMask != uint64(tableSize-1) {
				t.Errorf("tableMask %d != %d", sketch.tableMask, tableSize-1)
			}
		})
	}
}

func TestNextPowerOf2(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{8, 8},
		{9, 16},
		{15, 16},
		{16, 16},
		{17, 32},
		{1000, 1024},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.input), func(t *testing.T) {
			got := nextPowerOf2(tt.input)
			if got != tt.expected {
				t.Errorf("nextPowerOf2(%d) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFrequencySketch_IncrementAndFrequency(t *testing.T) {
	sketch := newFrequencySketch(1000)
	keyHash := testHash("test-key")

	if freq := sketch.frequency(keyHash); freq != 0 {
		t.Errorf("initial frequency = %d, want 0", freq)
	}

	sketch.increment(keyHash)
	if freq := sketch.frequency(keyHash); freq == 0 {
		t.Errorf("frequency after increment = %d, want > 0", freq)
	}

	for i := 0; i < 5; i++ {
		sketch.increment(keyHash)
	}

	if freq := sketch.frequency(keyHash); freq == 0 {
		t.Errorf("frequency after multiple increments = %d, want > 0", freq)
	}
}

func TestFrequencySketch_SaturatesAt15(t *testing.T) {
	sketch := newFrequencySketch(1000)
	keyHash := testHash("saturation-test")

	for i := 0; i < 100; i++ {
		sketch.increment(keyHash)
	}

	if freq := sketch.frequency(keyHash); freq > 15 {
		t.Errorf("frequency %d > 15, counters should saturate at 15", freq)
	}
}

func TestFrequencySketch_DifferentKeysAllCounted(t *testing.T) {
	sketch := newFrequencySketch(1000)

	keys := []string{"key1", "key2", "key3", "different-key", "another-one"}
	hashes := make([]uint64, len(keys))
	for i, key := range keys {
		hashes[i] = testHash(key)
	}

	for i, hash := range hashes {
		for j := 0; j <= i; j++ {
			sketch.increment(hash)
		}
	}

	for i, hash := range hashes {
		if freq := sketch.frequency(hash); freq == 0 && i > 0 {
			t.Errorf("key %d frequency = 0, expected > 0", i)
		}
	}
}

func TestFrequencySketch_Reset(t *testing.T) {
	sketch := newFrequencySketch(1000)
	keyHash := testHash("reset-test")

	for i := 0; i < 8; i++ {
		sketch.increment(keyHash)
	}

	before := sketch.frequency(keyHash)
	if before == 0 {
		t.Fatalf("frequency before reset = 0, expected > 0")
	}

	sketch.reset()

	after := sketch.frequency(keyHash)
	if after > before {
		t.Errorf("frequency after reset %d > before reset %d", after, before)
	}
}

func TestFrequencySketch_AgesAutomaticallyAtResetThreshold(t *testing.T) {
	sketch := newFrequencySketch(100) // resetThreshold = 1000
	keyHash := testHash("ages-key")

	for i := 0; i < 20; i++ {
		sketch.increment(keyHash)
	}
	before := sketch.frequency(keyHash)

	// Drive sampleSize across resetThreshold with unrelated keys.
	for i := int64(0); i < sketch.resetThreshold; i++ {
		sketch.increment(testHash(strconv.FormatInt(i, 10)))
	}

	after := sketch.frequency(keyHash)
	if after > before {
		t.Errorf("frequency after automatic aging %d > before %d", after, before)
	}
}

func TestMin4(t *testing.T) {
	tests := []struct {
		a, b, c, d uint64
		want       uint64
	}{
		{1, 2, 3, 4, 1},
		{4, 3, 2, 1, 1},
		{2, 1, 4, 3, 1},
		{5, 5, 5, 5, 5},
		{0, 10, 20, 30, 0},
		{15, 14, 13, 12, 12},
	}

	for _, tt := range tests {
		got := min4(tt.a, tt.b, tt.c, tt.d)
		if got != tt.want {
			t.Errorf("min4(%d, %d, %d, %d) = %d, want %d", tt.a, tt.b, tt.c, tt.d, got, tt.want)
		}
	}
}

func BenchmarkFrequencySketch_Increment(b *testing.B) {
	sketch := newFrequencySketch(10000)
	keyHashes := make([]uint64, 1000)
	for i := range keyHashes {
		keyHashes[i] = testHash("key" + strconv.Itoa(i))
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		sketch.increment(keyHashes[i%len(keyHashes)])
	}
}

func BenchmarkFrequencySketch_Frequency(b *testing.B) {
	sketch := newFrequencySketch(10000)
	keyHashes := make([]uint64, 1000)
	for i := range keyHashes {
		keyHashes[i] = testHash("key" + strconv.Itoa(i))
		sketch.increment(keyHashes[i])
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		sketch.frequency(keyHashes[i%len(keyHashes)])
	}
}
