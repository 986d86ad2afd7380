// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

// Package raceflag reports whether the race detector is active, so tests
// can skip concurrency scenarios that trigger false positives against the
// atomix memory-ordering primitives used by ring and engine.
package raceflag

// Enabled is true when the race detector is active.
const Enabled = true
