// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qheap

import (
	"math/rand"
	"testing"
)

type probe struct {
	val int
	pos int32
}

type probeIndex struct{}

func (probeIndex) Index(p *probe) int32       { return p.pos }
func (probeIndex) SetIndex(p *probe, i int32) { p.pos = i }

func newProbeLST(opts ...Option) *LST[*probe] {
	return NewLST(func(a, b *probe) int { return a.val - b.val }, Indexer[*probe](probeIndex{}), opts...)
}

// checkLST verifies the structural invariants: the fictitious pivot closes
// the live region, pivot positions strictly increase along the walk from
// idx, every live slot holds an element whose stored location matches, and
// every bucket element lies between its bounding pivot values.
func checkLST(t *testing.T, l *LST[*probe]) {
	t.Helper()

	fict := l.stack.item(0)
	if fict != l.idx+l.n {
		t.Fatalf("fictitious pivot %d, want idx(%d)+n(%d)", fict, l.idx, l.n)
	}
	if l.idx < 0 || l.idx > l.mask {
		t.Fatalf("idx %d out of [0, %d]", l.idx, l.mask)
	}

	depth := l.stack.depth()
	prev := l.idx - 1
	for r := depth - 1; r >= 0; r-- {
		v := l.stack.item(r)
		if v <= prev {
			t.Fatalf("pivot at depth %d is %d, not above %d", r, v, prev)
		}
		if r == depth-1 && v < l.idx {
			t.Fatalf("top pivot %d before idx %d", v, l.idx)
		}
		prev = v
	}

	for off := int32(0); off < l.n; off++ {
		pos := l.idx + off
		e := l.p[pos&l.mask]
		if e == nil {
			t.Fatalf("nil element at offset %d (pos %d)", off, pos)
		}
		if e.pos != pos&l.mask {
			t.Fatalf("element at pos %d stores location %d", pos&l.mask, e.pos)
		}
	}

	// Bucket elements against their bounding pivots. Level depth-1 is
	// bounded below by nothing, every other level r by the pivot at r+1;
	// level r > 0 is bounded above by the pivot at r, while the fictitious
	// pivot bounds nothing from above.
	for r := depth - 1; r >= 0; r-- {
		lo, hi := l.lower(r), l.upper(r)
		for pos := lo; pos <= hi; pos++ {
			e := l.p[pos&l.mask]
			if r > 0 {
				up := l.p[l.stack.item(r)&l.mask]
				if e.val > up.val {
					t.Fatalf("bucket %d: element %d above pivot %d", r, e.val, up.val)
				}
			}
			if r < depth-1 {
				down := l.p[l.stack.item(r+1)&l.mask]
				if e.val < down.val {
					t.Fatalf("bucket %d: element %d below pivot %d", r, e.val, down.val)
				}
			}
		}
	}
}

func TestLSTStructuralInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	l := newProbeLST(WithSeed(21), WithCapacity(64))

	var live []*probe
	for i := 0; i < 20_000; i++ {
		switch rng.Intn(4) {
		case 0, 1:
			p := &probe{val: rng.Intn(512), pos: -1}
			l.Insert(p)
			live = append(live, p)
		case 2:
			if e, ok := l.Pop(); ok {
				for k, p := range live {
					if p == e {
						live = append(live[:k], live[k+1:]...)
						break
					}
				}
			}
		case 3:
			if len(live) > 0 {
				k := rng.Intn(len(live))
				if err := l.Extract(live[k]); err != nil {
					t.Fatalf("op %d: extract: %v", i, err)
				}
				live = append(live[:k], live[k+1:]...)
			}
		}
		if l.Len() != len(live) {
			t.Fatalf("op %d: len %d, want %d", i, l.Len(), len(live))
		}
		if i%64 == 0 {
			checkLST(t, l)
		}
	}
	checkLST(t, l)

	for range live {
		if _, ok := l.Pop(); !ok {
			t.Fatal("tree drained early")
		}
	}
	if _, ok := l.Pop(); ok {
		t.Fatal("tree not empty after drain")
	}
	checkLST(t, l)
}

func TestLSTIndexNormalisationOnWrap(t *testing.T) {
	l := newProbeLST(WithSeed(3), WithCapacity(8))

	// March idx around the ring several times with a steady population.
	for i := 0; i < 100; i++ {
		l.Insert(&probe{val: i, pos: -1})
		if l.Len() > 4 {
			if _, ok := l.Pop(); !ok {
				t.Fatal("pop failed")
			}
		}
		checkLST(t, l)
	}
	if l.idx < 0 || l.idx > l.mask {
		t.Fatalf("idx %d not renormalised", l.idx)
	}
}
