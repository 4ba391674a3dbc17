// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qheap

// QuickHeap is a randomised priority queue built on incremental quicksort:
// the circular array is partitioned just far enough to expose the current
// minimum at the starting index, and the pivot stack remembers the work so
// later operations reuse it.
//
// Index bookkeeping matches LST: idx stays reduced in [0, capacity), pivot
// entries are raw, and everything renormalises when idx wraps.
//
// Not safe for concurrent use.
type QuickHeap[T any] struct {
	cmp   CompareFunc[T]
	ix    Indexer[T]
	p     []T
	mask  int32
	idx   int32
	n     int32
	stack pivotStack
	rng   xrand
}

// NewQuickHeap creates an empty quickheap. The indexer may be nil; the
// quickheap never looks elements up by value, it only keeps stored
// locations current for callers that track them.
// Panics if cmp is nil.
func NewQuickHeap[T any](cmp CompareFunc[T], ix Indexer[T], opts ...Option) *QuickHeap[T] {
	if cmp == nil {
		panic("qheap: comparator must not be nil")
	}
	o := buildOptions(opts)
	return &QuickHeap[T]{
		cmp:   cmp,
		ix:    ix,
		p:     make([]T, o.capacity),
		mask:  o.capacity - 1,
		stack: newPivotStack(0),
		rng:   newXrand(o.seed),
	}
}

// Len returns the number of elements in the heap.
func (h *QuickHeap[T]) Len() int { return int(h.n) }

// Cap returns the current element capacity.
func (h *QuickHeap[T]) Cap() int { return len(h.p) }

func (h *QuickHeap[T]) item(i int32) T { return h.p[i&h.mask] }

func (h *QuickHeap[T]) place(i int32, e T) {
	h.p[i&h.mask] = e
	if h.ix != nil {
		h.ix.SetIndex(e, i&h.mask)
	}
}

func (h *QuickHeap[T]) move(dst, src int32) {
	if dst == src {
		return
	}
	h.place(dst, h.p[src&h.mask])
}

func (h *QuickHeap[T]) swap(a, b int32) {
	ea, eb := h.p[a&h.mask], h.p[b&h.mask]
	h.place(a, eb)
	h.place(b, ea)
}

// refine runs incremental quicksort: partition the leftmost segment until
// the top pivot sits at idx, at which point p[idx] is the minimum.
func (h *QuickHeap[T]) refine() {
	for {
		top := h.stack.item(h.stack.depth() - 1)
		if top == h.idx {
			return
		}
		lo, hi := h.idx, top-1
		if lo == hi {
			h.stack.push(lo)
			continue
		}
		pos := lo + int32(h.rng.uint32n(uint32(hi-lo+1)))
		v := h.item(pos)

		a, b := lo, hi
		for {
			for h.cmp(h.item(a), v) < 0 {
				a++
			}
			for h.cmp(h.item(b), v) > 0 {
				b--
			}
			if a >= b {
				break
			}
			h.swap(a, b)
			if a == pos {
				pos = b
			} else if b == pos {
				pos = a
			}
			a++
			b--
		}
		split := b
		if pos > b {
			split = b + 1
		}
		if pos != split {
			h.swap(pos, split)
		}
		h.stack.push(split)
	}
}

// Peek returns the least element without removing it.
// Returns false when the heap is empty.
func (h *QuickHeap[T]) Peek() (T, bool) {
	var zero T
	if h.n == 0 {
		return zero, false
	}
	h.refine()
	return h.item(h.idx), true
}

// Pop removes and returns the least element.
// Returns false when the heap is empty.
func (h *QuickHeap[T]) Pop() (T, bool) {
	var zero T
	if h.n == 0 {
		return zero, false
	}
	h.refine()
	e := h.item(h.idx)
	h.p[h.idx&h.mask] = zero
	if h.ix != nil {
		h.ix.SetIndex(e, -1)
	}
	h.stack.pop(1)
	h.n--
	h.idx++
	if h.idx&h.mask == 0 {
		h.reduceIndices()
	}
	return e, true
}

// Insert adds x. The walk starts at the fictitious pivot and moves inward:
// each pivot on the way shifts one slot right, and because bucket order
// does not matter only the bucket's lowest element moves to fill the gap.
// x lands in the first bucket whose bounding pivots admit it.
func (h *QuickHeap[T]) Insert(x T) {
	if h.n == int32(len(h.p)) {
		h.expand()
	}
	r := 0
	for {
		q := h.stack.item(r)
		if r > 0 {
			h.move(q+1, q)
		}
		h.stack.set(r, q+1)
		if r == h.stack.depth()-1 || h.cmp(h.item(h.stack.item(r+1)), x) <= 0 {
			h.place(q, x)
			break
		}
		h.move(q, h.stack.item(r+1)+1)
		r++
	}
	h.n++
}

func (h *QuickHeap[T]) reduceIndices() {
	d := h.idx
	h.idx = 0
	for k := 0; k < h.stack.depth(); k++ {
		h.stack.set(k, h.stack.item(k)-d)
	}
}

// expand doubles the storage, moving the wrapped prefix to the new upper
// half so the live region stays contiguous in raw index space; same
// translation rule as the skeleton tree.
func (h *QuickHeap[T]) expand() {
	oldCap := int32(len(h.p))
	np := make([]T, oldCap*2)
	copy(np, h.p)
	copy(np[oldCap:], h.p[:h.idx])
	var zero T
	for j := int32(0); j < h.idx; j++ {
		if h.ix != nil {
			h.ix.SetIndex(np[oldCap+j], oldCap+j)
		}
		np[j] = zero
	}
	h.p = np
	h.mask = oldCap*2 - 1
}
