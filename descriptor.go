// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import "time"

// Descriptor is the unit of data flowing through a channel. The payload is
// opaque to the channel; the named fields are channel protocol state.
//
// The producer fills When (or leaves it zero to have the channel stamp it)
// and Data. Sequence and Ack are assigned on send. A responder fills
// ProcessingTime and CPUTime on replies; a zero ProcessingTime marks a
// negative acknowledgement and is excluded from timing estimates.
type Descriptor struct {
	When     time.Time
	Sequence uint64
	Ack      uint64

	ProcessingTime time.Duration
	CPUTime        time.Duration

	Data any
}

// RecvFunc consumes one inbound descriptor. Callbacks run on the receiving
// end's thread (or, on a same-thread channel, inside the peer's send call).
type RecvFunc func(ctx any, ch *Channel, d *Descriptor)
