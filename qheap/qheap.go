// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qheap

import "errors"

// InitialCapacity is the default element capacity of a new container.
// Storage doubles on demand; capacities round up to the next power of 2.
const InitialCapacity = 2048

// ErrNotFound is returned by Extract when the element is not in the tree.
var ErrNotFound = errors.New("qheap: element not found")

// Indexer reads and writes the location a container stores inside each
// element. The stored value is the element's reduced position in the
// circular array; −1 marks an element that is not in the container.
//
// The container moves elements during partitioning and insertion and keeps
// the stored location current through this interface, which is what makes
// O(log n) deletion by value possible without a search.
type Indexer[T any] interface {
	Index(T) int32
	SetIndex(T, int32)
}

// CompareFunc orders elements. A negative result means a precedes b.
// Both containers surface the least element first; equal keys are
// unordered relative to each other.
type CompareFunc[T any] func(a, b T) int

// Priority classes for queued packets, highest first.
type Priority uint8

const (
	PriorityNow Priority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
)

// Options configures container creation.
type Options struct {
	capacity int32
	seed     uint64
}

// Option applies a configuration value to a container under construction.
type Option func(*Options)

// WithCapacity sets the initial element capacity.
// Rounds up to the next power of 2. Panics if n < 2.
func WithCapacity(n int) Option {
	if n < 2 {
		panic("qheap: capacity must be >= 2")
	}
	return func(o *Options) {
		o.capacity = int32(roundToPow2(n))
	}
}

// WithSeed fixes the random-number state. Pivot selection and flattening
// become deterministic, which comparison tests depend on. A zero seed
// selects a random one.
func WithSeed(seed uint64) Option {
	return func(o *Options) {
		o.seed = seed
	}
}

func buildOptions(opts []Option) Options {
	o := Options{capacity: InitialCapacity}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func roundToPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
