// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qheap_test

import (
	"fmt"

	"code.hybscloud.com/duplex/qheap"
)

// ExampleLST orders queued packets by priority class, then age.
func ExampleLST() {
	type packet struct {
		name     string
		priority qheap.Priority
		age      int
		pos      int32
	}

	l := qheap.NewLST(
		func(a, b *packet) int {
			if a.priority != b.priority {
				return int(a.priority) - int(b.priority)
			}
			return a.age - b.age
		},
		indexerFuncs[*packet]{
			index:    func(p *packet) int32 { return p.pos },
			setIndex: func(p *packet, i int32) { p.pos = i },
		},
	)

	l.Insert(&packet{name: "accounting", priority: qheap.PriorityLow, age: 1, pos: -1})
	l.Insert(&packet{name: "status", priority: qheap.PriorityNow, age: 3, pos: -1})
	l.Insert(&packet{name: "auth-old", priority: qheap.PriorityNormal, age: 1, pos: -1})
	l.Insert(&packet{name: "auth-new", priority: qheap.PriorityNormal, age: 2, pos: -1})

	for {
		p, ok := l.Pop()
		if !ok {
			break
		}
		fmt.Println(p.name)
	}

	// Output:
	// status
	// auth-old
	// auth-new
	// accounting
}

// indexerFuncs adapts a pair of functions to the Indexer interface.
type indexerFuncs[T any] struct {
	index    func(T) int32
	setIndex func(T, int32)
}

func (f indexerFuncs[T]) Index(e T) int32       { return f.index(e) }
func (f indexerFuncs[T]) SetIndex(e T, i int32) { f.setIndex(e, i) }
