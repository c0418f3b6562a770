// util.go: small helpers shared across the engine.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

import "time"

// sleepMicros backs off the write path when the write channel is momentarily
// full. Kept as a function so tests can observe call counts via a hook if
// ever needed; today it's a thin wrapper over time.Sleep.
func sleepMicros(us int64) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}
