// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import "code.hybscloud.com/atomix"

// dataQueue is the single-producer single-consumer descriptor ring carrying
// one direction of a channel.
//
// Lamport ring buffer with cached index optimization: the producer caches
// the consumer's dequeue index and vice versa, reducing cross-core cache
// line traffic. Each end of a channel is the sole producer of one ring and
// the sole consumer of the other.
type dataQueue struct {
	_          pad
	head       atomix.Uint64 // Consumer reads from here
	_          pad
	cachedTail uint64 // Consumer's cached view of tail
	_          pad
	tail       atomix.Uint64 // Producer writes here
	_          pad
	cachedHead uint64 // Producer's cached view of head
	_          pad
	buffer     []*Descriptor
	mask       uint64
}

func newDataQueue(capacity int) *dataQueue {
	n := uint64(roundToPow2(capacity))
	return &dataQueue{
		buffer: make([]*Descriptor, n),
		mask:   n - 1,
	}
}

// push adds a descriptor (producer only).
// Returns ErrWouldBlock if the ring is full.
func (q *dataQueue) push(d *Descriptor) error {
	tail := q.tail.LoadRelaxed()
	if tail-q.cachedHead > q.mask {
		q.cachedHead = q.head.LoadAcquire()
		if tail-q.cachedHead > q.mask {
			return ErrWouldBlock
		}
	}

	q.buffer[tail&q.mask] = d
	q.tail.StoreRelease(tail + 1)
	return nil
}

// pop removes and returns a descriptor (consumer only).
// Returns (nil, ErrWouldBlock) if the ring is empty.
func (q *dataQueue) pop() (*Descriptor, error) {
	head := q.head.LoadRelaxed()
	if head >= q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head >= q.cachedTail {
			return nil, ErrWouldBlock
		}
	}

	d := q.buffer[head&q.mask]
	q.buffer[head&q.mask] = nil
	q.head.StoreRelease(head + 1)
	return d, nil
}
