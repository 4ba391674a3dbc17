// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qheap

import "github.com/bytedance/gopkg/lang/fastrand"

// xrand is a xorshift64* generator. The containers keep their own state so
// that a fixed seed reproduces the exact pivot choices, which side-by-side
// comparison tests rely on. The default seed comes from fastrand.
type xrand struct {
	s uint64
}

func newXrand(seed uint64) xrand {
	if seed == 0 {
		seed = fastrand.Uint64() | 1
	}
	return xrand{s: seed}
}

func (r *xrand) next() uint64 {
	x := r.s
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.s = x
	return x * 0x2545f4914f6cdd1d
}

// uint32n returns a uniform value in [0, n). n must be > 0.
func (r *xrand) uint32n(n uint32) uint32 {
	return uint32((r.next() >> 32) * uint64(n) >> 32)
}
