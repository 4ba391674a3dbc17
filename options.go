// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import (
	"time"

	"code.hybscloud.com/duplex/control"
)

// DefaultDepth is the default per-direction descriptor ring depth.
const DefaultDepth = 1024

// Builder creates channels with fluent configuration.
//
// Example:
//
//	ch := duplex.New(requestorPlane, responderPlane).Build()
//
//	// Both ends serviced by one thread, callbacks run synchronously:
//	ch := duplex.New(reqPlane, rspPlane).SameThread().Build()
type Builder struct {
	requestor  *control.Plane[Message]
	responder  *control.Plane[Message]
	sameThread bool
	eager      bool
	depth      int
}

// New creates a channel builder over the two threads' control planes: the
// plane that wakes the requestor thread and the plane that wakes the
// responder thread. Panics if either is nil.
func New(requestor, responder *control.Plane[Message]) *Builder {
	if requestor == nil || responder == nil {
		panic("duplex: control planes must not be nil")
	}
	return &Builder{requestor: requestor, responder: responder, depth: DefaultDepth}
}

// SameThread marks both ends as serviced by a single thread. Sends invoke
// the peer callback synchronously; the rings and counters stay untouched.
func (b *Builder) SameThread() *Builder {
	b.sameThread = true
	return b
}

// Depth sets the per-direction descriptor ring depth.
// Rounds up to the next power of 2. Panics if n < 2.
func (b *Builder) Depth(n int) *Builder {
	if n < 2 {
		panic("duplex: depth must be >= 2")
	}
	b.depth = n
	return b
}

// EagerSignals enables the richer wake-up suppression predicate. The
// default protocol signals conservatively; with this knob on, wake-ups are
// also skipped while the peer is close behind and demonstrably awake.
func (b *Builder) EagerSignals() *Builder {
	b.eager = true
	return b
}

// Build creates the channel in the active state with both ends' stamps
// seeded to now. Receive callbacks must be installed before data flows.
func (b *Builder) Build() *Channel {
	now := time.Now()
	c := &Channel{
		sameThread: b.sameThread,
		eager:      b.eager,
		depth:      roundToPow2(b.depth),
	}
	c.ends[requestorEnd].init(b.requestor, c.depth, now)
	c.ends[responderEnd].init(b.responder, c.depth, now)
	c.active.StoreRelease(true)
	return c
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
