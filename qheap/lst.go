// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qheap

// LST is a leftmost skeleton tree: a randomised priority queue over a
// circular array, refined from the quickheap so that removing the minimum
// is O(1) amortised and arbitrary elements can be deleted by value.
//
// The tree is either a bucket (an unordered multiset) or a triple
// (root, left subtree, right bucket) with left ≤ root ≤ right. In memory it
// is one circular array plus a stack of pivot positions; a subtree is named
// by the stack depth of the least pivot bounding it from above, 0 being the
// whole tree under the fictitious pivot.
//
// Index bookkeeping: idx is the reduced position of the leftmost bucket's
// first slot and stays in [0, capacity). Pivot entries are raw positions in
// [idx, idx+capacity]; raw differences are exact element counts, and only
// array accesses reduce modulo capacity. When idx itself wraps, every entry
// is renormalised.
//
// Not safe for concurrent use.
type LST[T comparable] struct {
	cmp   CompareFunc[T]
	ix    Indexer[T]
	p     []T
	mask  int32
	idx   int32
	n     int32
	stack pivotStack
	rng   xrand
}

// NewLST creates an empty leftmost skeleton tree.
// Panics if cmp or ix is nil: deletion by value needs the element
// back-index.
func NewLST[T comparable](cmp CompareFunc[T], ix Indexer[T], opts ...Option) *LST[T] {
	if cmp == nil {
		panic("qheap: comparator must not be nil")
	}
	if ix == nil {
		panic("qheap: indexer must not be nil")
	}
	o := buildOptions(opts)
	return &LST[T]{
		cmp:   cmp,
		ix:    ix,
		p:     make([]T, o.capacity),
		mask:  o.capacity - 1,
		stack: newPivotStack(0),
		rng:   newXrand(o.seed),
	}
}

// Len returns the number of elements in the tree.
func (l *LST[T]) Len() int { return int(l.n) }

// Cap returns the current element capacity.
func (l *LST[T]) Cap() int { return len(l.p) }

func (l *LST[T]) item(i int32) T { return l.p[i&l.mask] }

func (l *LST[T]) place(i int32, e T) {
	l.p[i&l.mask] = e
	l.ix.SetIndex(e, i&l.mask)
}

func (l *LST[T]) move(dst, src int32) {
	if dst == src {
		return
	}
	e := l.p[src&l.mask]
	l.p[dst&l.mask] = e
	l.ix.SetIndex(e, dst&l.mask)
}

func (l *LST[T]) swap(a, b int32) {
	ea, eb := l.p[a&l.mask], l.p[b&l.mask]
	l.p[a&l.mask], l.p[b&l.mask] = eb, ea
	l.ix.SetIndex(ea, b&l.mask)
	l.ix.SetIndex(eb, a&l.mask)
}

func (l *LST[T]) clear(i int32) {
	var zero T
	l.p[i&l.mask] = zero
}

// length is the number of buckets in subtree i.
func (l *LST[T]) length(i int) int { return l.stack.depth() - i }

func (l *LST[T]) isBucket(i int) bool { return l.length(i) == 1 }

// size is the number of elements in subtree i, pivots of enclosing
// subtrees excluded.
func (l *LST[T]) size(i int) int32 {
	if i == 0 {
		return l.n
	}
	return l.stack.item(i) - l.idx
}

// flatten drops every pivot above depth i, merging the subtree into one
// bucket. The fictitious pivot is never dropped.
func (l *LST[T]) flatten(i int) {
	l.stack.pop(l.stack.depth() - 1 - i)
}

// lower and upper bound bucket i, raw inclusive. upper < lower for an
// empty bucket.
func (l *LST[T]) lower(i int) int32 {
	if l.isBucket(i) {
		return l.idx
	}
	return l.stack.item(i+1) + 1
}

func (l *LST[T]) upper(i int) int32 { return l.stack.item(i) - 1 }

// partition splits the pure, non-empty bucket i around a uniformly chosen
// pivot and pushes the pivot's final position. Hoare's scheme can leave the
// pivot anywhere inside either half, so it is swapped onto the split point
// afterwards; the stack records only canonical pivot positions.
func (l *LST[T]) partition(i int) {
	lo, hi := l.lower(i), l.upper(i)
	if lo == hi {
		l.stack.push(lo)
		return
	}
	pos := lo + int32(l.rng.uint32n(uint32(hi-lo+1)))
	v := l.item(pos)

	a, b := lo, hi
	for {
		for l.cmp(l.item(a), v) < 0 {
			a++
		}
		for l.cmp(l.item(b), v) > 0 {
			b--
		}
		if a >= b {
			break
		}
		l.swap(a, b)
		if a == pos {
			pos = b
		} else if b == pos {
			pos = a
		}
		a++
		b--
	}

	// p[lo..b] ≤ v and p[b+1..hi] ≥ v; land the pivot on the boundary.
	h := b
	if pos > b {
		h = b + 1
	}
	if pos != h {
		l.swap(pos, h)
	}
	l.stack.push(h)
}

// findEmptyLeft partitions leftmost buckets until a subtree of size zero is
// reached. The pivot at the returned stack depth is the minimum and sits at
// position idx.
func (l *LST[T]) findEmptyLeft() int {
	i := 0
	for l.size(i) > 0 {
		if l.isBucket(i) {
			l.partition(i)
		}
		i++
	}
	return i
}

// Peek returns the least element without removing it.
// Returns false when the tree is empty.
func (l *LST[T]) Peek() (T, bool) {
	var zero T
	if l.n == 0 {
		return zero, false
	}
	i := l.findEmptyLeft()
	return l.item(l.stack.item(i)), true
}

// Pop removes and returns the least element.
// Returns false when the tree is empty.
func (l *LST[T]) Pop() (T, bool) {
	var zero T
	if l.n == 0 {
		return zero, false
	}
	i := l.findEmptyLeft()
	e := l.item(l.idx)
	// Demote the minimum from pivot to bucket element, then take the
	// idx++ fast path in bucketDelete.
	l.flatten(i - 1)
	l.bucketDelete(l.stack.depth()-1, l.idx)
	return e, true
}

// ExtractMin removes the least element and discards it.
func (l *LST[T]) ExtractMin() bool {
	_, ok := l.Pop()
	return ok
}

// Insert adds x, descending the skeleton until x fits a bucket. At each
// level below the root the walk flattens with probability 1/(size+1),
// which keeps the pivot distribution random under mixed workloads.
func (l *LST[T]) Insert(x T) {
	if l.n == int32(len(l.p)) {
		l.expand()
	}
	i := 0
	for !l.isBucket(i) {
		if i > 0 && l.rng.uint32n(uint32(l.size(i))+1) == 0 {
			l.flatten(i)
			break
		}
		if l.cmp(x, l.item(l.stack.item(i+1))) >= 0 {
			break
		}
		i++
	}
	l.bucketAdd(i, x)
}

// Extract removes x from the tree. Returns ErrNotFound if x is not present.
func (l *LST[T]) Extract(x T) error {
	red := l.ix.Index(x)
	if red < 0 || red > l.mask || l.p[red] != x {
		return ErrNotFound
	}
	off := (red - l.idx) & l.mask
	if off >= l.n {
		return ErrNotFound
	}
	pos := l.idx + off

	// A pivot cannot be deleted in place; flatten it into a bucket first.
	// Stack entries grow toward the bottom, so stop scanning once past pos.
	for r := l.stack.depth() - 1; r >= 1; r-- {
		v := l.stack.item(r)
		if v == pos {
			l.flatten(r - 1)
			l.bucketDelete(l.stack.depth()-1, pos)
			return nil
		}
		if v > pos {
			l.bucketDelete(r, pos)
			return nil
		}
	}
	l.bucketDelete(0, pos)
	return nil
}

// bucketAdd opens a slot at the top of bucket i and places x there. Buckets
// are unordered, so each bucket to the right donates its lowest element to
// its own new top slot and its lower pivot shifts one slot right; only a
// constant amount of work happens per stack level.
func (l *LST[T]) bucketAdd(i int, x T) {
	hole := l.stack.item(0)
	l.stack.set(0, hole+1)
	for r := 1; r <= i; r++ {
		q := l.stack.item(r)
		l.move(hole, q+1)
		l.move(q+1, q)
		l.stack.set(r, q+1)
		hole = q
	}
	l.place(hole, x)
	l.n++
}

// bucketDelete removes the element at raw position pos from bucket i.
// pos == idx is the pop fast path: the leftmost bucket just starts one slot
// later. Otherwise the hole is filled from its bucket's top and every pivot
// to the right slides one slot left, mirroring bucketAdd.
func (l *LST[T]) bucketDelete(i int, pos int32) {
	e := l.item(pos)
	if pos == l.idx {
		l.clear(pos)
		l.ix.SetIndex(e, -1)
		l.n--
		l.idx++
		if l.idx&l.mask == 0 {
			l.reduceIndices()
		}
		return
	}

	hole := pos
	for r := i; r >= 1; r-- {
		top := l.stack.item(r) - 1
		l.move(hole, top)
		l.move(top, l.stack.item(r))
		l.stack.set(r, top)
		hole = top + 1
	}
	last := l.stack.item(0) - 1
	l.move(hole, last)
	l.clear(last)
	l.stack.set(0, last)
	l.ix.SetIndex(e, -1)
	l.n--
}

// reduceIndices renormalises after idx has walked a full turn around the
// array, so raw positions stay small and exact.
func (l *LST[T]) reduceIndices() {
	d := l.idx
	l.idx = 0
	for k := 0; k < l.stack.depth(); k++ {
		l.stack.set(k, l.stack.item(k)-d)
	}
}

// expand doubles the storage. The array is circular, so the wrapped prefix
// [0, idx) moves to the new upper half and the live region stays contiguous
// in raw index space; pivot entries below 2×capacity remain valid as-is.
func (l *LST[T]) expand() {
	oldCap := int32(len(l.p))
	np := make([]T, oldCap*2)
	copy(np, l.p)
	copy(np[oldCap:], l.p[:l.idx])
	var zero T
	for j := int32(0); j < l.idx; j++ {
		l.ix.SetIndex(np[oldCap+j], oldCap+j)
		np[j] = zero
	}
	l.p = np
	l.mask = oldCap*2 - 1
}
