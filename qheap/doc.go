// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package qheap provides randomised priority queues over circular arrays:
// the quickheap and its refinement, the leftmost skeleton tree.
//
// Both are cache-oblivious alternatives to the binary heap. Instead of
// maintaining a total heap order they keep a stack of pivots from past
// partitions and sort incrementally, only as far as exposing the current
// minimum requires. The skeleton tree additionally walks its starting index
// forward on every Pop, making Pop O(1) amortised, and supports
// deletion of arbitrary elements by value.
//
// Elements carry their own location: the container stores each element's
// reduced array position through the Indexer and keeps it current across
// partitions, insertions and growth. Store the value in the element itself:
//
//	type entry struct {
//	    priority int64
//	    pos      int32
//	}
//
//	type entryIndex struct{}
//
//	func (entryIndex) Index(e *entry) int32        { return e.pos }
//	func (entryIndex) SetIndex(e *entry, i int32)  { e.pos = i }
//
//	lst := qheap.NewLST(
//	    func(a, b *entry) int { return int(a.priority - b.priority) },
//	    entryIndex{},
//	)
//
//	lst.Insert(&entry{priority: 7})
//	e, ok := lst.Pop()
//
// Neither container is safe for concurrent use, and neither owns its
// elements: destroying a container leaves the elements alone.
package qheap
