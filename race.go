// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package duplex

// RaceEnabled is true when the race detector is active.
// Used by tests to skip two-thread channel runs: the descriptor rings
// synchronise through atomic indices the detector cannot see, which
// triggers false positives.
const RaceEnabled = true
