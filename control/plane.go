// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package control carries wake-up messages between threads.
//
// A Plane belongs to one thread: any number of peers enqueue fixed-size
// messages onto its ring and nudge the wake channel, and only the owning
// thread dequeues. The wake channel stands in for an event descriptor — it
// coalesces, so one receive can correspond to many pending messages and the
// owner drains the ring until it would block:
//
//	for {
//	    select {
//	    case <-plane.Wake():
//	        for {
//	            m, err := plane.Recv()
//	            if err != nil {
//	                break
//	            }
//	            dispatch(m)
//	        }
//	    case <-done:
//	        return
//	    }
//	}
package control

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// ErrWouldBlock indicates the ring is full (Send) or empty (Recv).
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// Plane is a bounded multi-producer single-consumer message ring with an
// edge-triggered wake channel.
//
// Producers claim positions with FAA (SCQ-style), requiring 2n physical
// slots for capacity n. The consumer reads sequentially.
type Plane[T any] struct {
	_        pad
	head     atomix.Uint64 // Consumer index (single consumer writes, producers read)
	_        pad
	tail     atomix.Uint64 // Producer index (FAA)
	_        pad
	buffer   []slot[T]
	capacity uint64 // n (usable capacity)
	size     uint64 // 2n (physical slots)
	mask     uint64 // 2n - 1
	wake     chan struct{}
}

type slot[T any] struct {
	cycle atomix.Uint64 // Round number
	data  T
	_     padShort
}

// NewPlane creates a control plane with the given message capacity.
// Capacity rounds up to the next power of 2.
func NewPlane[T any](capacity int) *Plane[T] {
	if capacity < 2 {
		panic("control: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	size := n * 2

	p := &Plane[T]{
		buffer:   make([]slot[T], size),
		capacity: n,
		size:     size,
		mask:     size - 1,
		wake:     make(chan struct{}, 1),
	}

	for i := uint64(0); i < size; i++ {
		p.buffer[i].cycle.StoreRelaxed(i / n)
	}

	return p
}

// Send enqueues a message and wakes the owner (any thread may call).
// Returns ErrWouldBlock if the ring is full.
func (p *Plane[T]) Send(m *T) error {
	sw := spin.Wait{}
	for {
		tail := p.tail.LoadAcquire()
		head := p.head.LoadRelaxed()
		if tail >= head+p.capacity {
			return ErrWouldBlock
		}

		myTail := p.tail.AddAcqRel(1) - 1

		s := &p.buffer[myTail&p.mask]
		expectedCycle := myTail / p.capacity

		slotCycle := s.cycle.LoadAcquire()

		if slotCycle == expectedCycle {
			s.data = *m
			s.cycle.StoreRelease(expectedCycle + 1)
			p.notify()
			return nil
		}

		if int64(slotCycle) < int64(expectedCycle) {
			return ErrWouldBlock
		}
		sw.Once()
	}
}

// Recv dequeues one message (owner only).
// Returns (zero-value, ErrWouldBlock) if the ring is empty.
func (p *Plane[T]) Recv() (T, error) {
	head := p.head.LoadRelaxed()
	cycle := head / p.capacity
	s := &p.buffer[head&p.mask]

	slotCycle := s.cycle.LoadAcquire()

	if slotCycle != cycle+1 {
		var zero T
		return zero, ErrWouldBlock
	}

	m := s.data
	var zero T
	s.data = zero
	nextEnqCycle := (head + p.size) / p.capacity
	s.cycle.StoreRelease(nextEnqCycle)
	p.head.StoreRelaxed(head + 1)

	return m, nil
}

// Wake returns the wake channel. It is edge-triggered and coalescing: a
// single receive may cover any number of queued messages, so drain the ring
// after each receive.
func (p *Plane[T]) Wake() <-chan struct{} {
	return p.wake
}

// Pending approximates the number of queued messages. Exact only when
// producers are quiescent.
func (p *Plane[T]) Pending() int {
	t := p.tail.LoadAcquire()
	h := p.head.LoadAcquire()
	if t <= h {
		return 0
	}
	return int(t - h)
}

// Cap returns the message capacity.
func (p *Plane[T]) Cap() int {
	return int(p.capacity)
}

func (p *Plane[T]) notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func roundToPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// pad prevents false sharing between hot fields.
type pad [64]byte

// padShort pads each slot by most of a cache line to reduce false sharing
// between adjacent entries.
type padShort [64 - 8]byte
