// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qheap

import "testing"

func TestPivotStackBasic(t *testing.T) {
	s := newPivotStack(0)

	if s.depth() != 1 {
		t.Fatalf("depth: got %d, want 1", s.depth())
	}
	if s.item(0) != 0 {
		t.Fatalf("fictitious pivot: got %d, want 0", s.item(0))
	}

	for i := int32(1); i <= 100; i++ {
		s.push(i)
	}
	if s.depth() != 101 {
		t.Fatalf("depth after pushes: got %d, want 101", s.depth())
	}
	if s.item(100) != 100 {
		t.Fatalf("top: got %d, want 100", s.item(100))
	}

	s.set(50, -7)
	if s.item(50) != -7 {
		t.Fatalf("set/item: got %d, want -7", s.item(50))
	}

	s.pop(60)
	if s.depth() != 41 {
		t.Fatalf("depth after pop(60): got %d, want 41", s.depth())
	}
	if s.item(40) != 40 {
		t.Fatalf("top after pop: got %d, want 40", s.item(40))
	}
}

func TestPivotStackNeverPopsFictitious(t *testing.T) {
	s := newPivotStack(5)
	s.push(1)
	s.push(2)

	s.pop(100)
	if s.depth() != 1 {
		t.Fatalf("depth: got %d, want 1", s.depth())
	}
	if s.item(0) != 5 {
		t.Fatalf("fictitious pivot lost: got %d, want 5", s.item(0))
	}
}
