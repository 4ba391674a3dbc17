// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import (
	"time"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/duplex/control"
)

// emaWeight is the inverse smoothing factor of every running estimate:
// new = (sample + (emaWeight-1)*old) / emaWeight.
const emaWeight = 8

// end is the per-direction half of a channel. Every field except theirView
// and mustSignal is owned by the thread on this side; the two atomics are
// heuristic inputs to wake-up suppression and delivery never depends on
// them.
type end struct {
	// q is the inbound descriptor ring, written by the peer.
	q *dataQueue

	// ctl wakes the thread owning this end.
	ctl *control.Plane[Message]

	recv    RecvFunc
	recvCtx any

	sequence             uint64 // descriptors sent from this end
	ack                  uint64 // highest peer sequence consumed
	sequenceAtLastSignal uint64

	// theirView is the peer's progress through this end's outbound stream,
	// stored by the peer's receive path, read here before signalling.
	theirView atomix.Uint64

	// mustSignal is set by the demultiplexer when the peer has been seen
	// idle or behind; the next send must not suppress its wake-up.
	mustSignal atomix.Bool

	numOutstanding uint64
	numPackets     uint64
	numSignals     uint64
	numResignals   uint64
	numWakes       uint64

	lastWrite      time.Time
	lastReadOther  time.Time
	lastSentSignal time.Time

	// messageInterval estimates the mean spacing of sends from this end.
	messageInterval time.Duration
}

func (e *end) init(ctl *control.Plane[Message], depth int, now time.Time) {
	e.q = newDataQueue(depth)
	e.ctl = ctl
	e.lastWrite = now
	e.lastReadOther = now
}

// noteWrite folds one send into the interval estimate and advances
// lastWrite. Stamps must not go backwards; that is a caller bug.
func (e *end) noteWrite(when time.Time) {
	if when.Before(e.lastWrite) {
		panic("duplex: descriptor timestamp going backwards")
	}
	e.messageInterval = ema(e.messageInterval, when.Sub(e.lastWrite))
	e.lastWrite = when
}

func ema(old, sample time.Duration) time.Duration {
	if old == 0 {
		return sample
	}
	return (sample + (emaWeight-1)*old) / emaWeight
}
