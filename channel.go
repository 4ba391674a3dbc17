// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import (
	"fmt"
	"io"
	"time"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/duplex/control"
)

// Ends of a channel, indexed by the thread that owns them.
const (
	requestorEnd = 0
	responderEnd = 1
)

// Channel is a bidirectional request/reply link between exactly two
// threads: the requestor submits work and consumes replies, the responder
// consumes work and submits replies. Each direction is a single-producer
// single-consumer descriptor ring; wake-ups travel out of band through the
// peer's control plane and are suppressed when the peer is known to be
// awake and reading.
//
// Every method is bound to one side: SendReply, RecvRequest and the close
// ack run on the responder thread; SendRequest, RecvReply and close
// initiation on the requestor thread. Nothing in the channel blocks; all waiting happens
// outside, on the control planes' wake channels.
type Channel struct {
	active     atomix.Bool
	sameThread bool
	eager      bool
	depth      int

	ends [2]end

	// Responder timing, folded in from replies on the requestor thread.
	processingTime time.Duration
	cpuTime        time.Duration
}

// SetRecvReply installs the requestor-side callback. Must be set before any
// data flows.
func (c *Channel) SetRecvReply(ctx any, fn RecvFunc) {
	c.ends[requestorEnd].recv = fn
	c.ends[requestorEnd].recvCtx = ctx
}

// SetRecvRequest installs the responder-side callback. Must be set before
// any data flows.
func (c *Channel) SetRecvRequest(ctx any, fn RecvFunc) {
	c.ends[responderEnd].recv = fn
	c.ends[responderEnd].recvCtx = ctx
}

// Active reports whether the close handshake has not yet begun.
func (c *Channel) Active() bool {
	return c.active.LoadAcquire()
}

// SendRequest queues d toward the responder and wakes it (requestor
// thread). On a full ring it drains pending replies and returns
// ErrWouldBlock; the descriptor was not queued.
func (c *Channel) SendRequest(d *Descriptor) error {
	if !c.active.LoadAcquire() {
		return ErrInactive
	}
	rs := &c.ends[responderEnd]
	if c.sameThread {
		if rs.recv == nil {
			panic("duplex: request callback not installed")
		}
		rs.recv(rs.recvCtx, c, d)
		return nil
	}

	rq := &c.ends[requestorEnd]
	when := d.When
	stamped := false
	if when.IsZero() {
		when = time.Now()
		d.When = when
		stamped = true
	}
	d.Sequence = rq.sequence + 1
	d.Ack = rq.ack
	if err := rs.q.push(d); err != nil {
		if stamped {
			// A retry restamps, keeping lastWrite monotone.
			d.When = time.Time{}
		}
		for c.RecvReply() {
		}
		return err
	}
	rq.sequence++
	rq.numOutstanding = rq.sequence - rq.ack
	rq.numPackets++
	rq.noteWrite(when)

	if c.suppress(rq, when) {
		return nil
	}
	// Transport errors are ignored here: the data is already queued and the
	// responder will find it on its next pass.
	c.signal(rq, rs, SignalDataToResponder, rq.sequence, when)
	return nil
}

// SendReply queues d toward the requestor (responder thread), picks up any
// requests that arrived meanwhile, and signals the requestor unless it is
// known to still be working through earlier replies. On a full ring it
// drains pending requests and returns ErrWouldBlock.
func (c *Channel) SendReply(d *Descriptor) error {
	if !c.active.LoadAcquire() {
		return ErrInactive
	}
	rq := &c.ends[requestorEnd]
	if c.sameThread {
		if rq.recv == nil {
			panic("duplex: reply callback not installed")
		}
		rq.recv(rq.recvCtx, c, d)
		return nil
	}

	rs := &c.ends[responderEnd]
	if rs.sequence >= rs.ack {
		panic("duplex: reply without outstanding request")
	}
	when := d.When
	stamped := false
	if when.IsZero() {
		when = time.Now()
		d.When = when
		stamped = true
	}
	d.Sequence = rs.sequence + 1
	d.Ack = rs.ack
	if err := rq.q.push(d); err != nil {
		if stamped {
			// A retry restamps, keeping lastWrite monotone.
			d.When = time.Time{}
		}
		for c.RecvRequest() {
		}
		return err
	}
	rs.sequence++
	rs.numOutstanding = rs.ack - rs.sequence
	rs.numPackets++
	rs.noteWrite(when)

	for c.RecvRequest() {
	}

	if rs.numOutstanding == 0 {
		// The requestor must learn the responder has gone quiet.
		c.signal(rs, rq, SignalDataDoneResponder, rs.sequence, when)
		return nil
	}
	if c.suppress(rs, when) {
		return nil
	}
	their := rs.theirView.LoadAcquire()
	if rs.sequenceAtLastSignal > their && !rs.mustSignal.LoadAcquire() {
		// The requestor has not caught up to the previous signal yet.
		return nil
	}
	c.signal(rs, rq, SignalDataToRequestor, rs.sequence, when)
	return nil
}

// NullReply advances the responder sequence without delivering anything
// (responder thread). The requestor sees the gap as a silently dropped
// request.
func (c *Channel) NullReply() {
	rs := &c.ends[responderEnd]
	if c.sameThread {
		rs.sequence++
		return
	}
	if rs.sequence >= rs.ack {
		panic("duplex: null reply without outstanding request")
	}
	rs.sequence++
	rs.numOutstanding = rs.ack - rs.sequence
}

// RecvReply drains one reply (requestor thread). Reports whether a
// descriptor was consumed.
func (c *Channel) RecvReply() bool {
	rq := &c.ends[requestorEnd]
	d, err := rq.q.pop()
	if err != nil {
		return false
	}
	if d.Sequence <= rq.ack {
		panic("duplex: reply sequence not monotonic")
	}
	if d.Sequence > rq.sequence || d.Ack > rq.sequence {
		panic("duplex: reply acknowledges data never sent")
	}
	if d.ProcessingTime != 0 {
		c.processingTime = ema(c.processingTime, d.ProcessingTime)
		c.cpuTime = ema(c.cpuTime, d.CPUTime)
	}
	rq.ack = d.Sequence
	rq.numOutstanding = rq.sequence - rq.ack
	c.ends[responderEnd].theirView.StoreRelease(d.Sequence)
	if now := time.Now(); now.After(rq.lastReadOther) {
		rq.lastReadOther = now
	}
	if rq.recv == nil {
		panic("duplex: reply callback not installed")
	}
	rq.recv(rq.recvCtx, c, d)
	return true
}

// RecvRequest drains one request (responder thread). Reports whether a
// descriptor was consumed.
func (c *Channel) RecvRequest() bool {
	rs := &c.ends[responderEnd]
	d, err := rs.q.pop()
	if err != nil {
		return false
	}
	if d.Sequence <= rs.ack {
		panic("duplex: request sequence not monotonic")
	}
	if d.Ack > rs.sequence {
		panic("duplex: request acknowledges data never sent")
	}
	rs.ack = d.Sequence
	rs.numOutstanding = rs.ack - rs.sequence
	c.ends[requestorEnd].theirView.StoreRelease(d.Sequence)
	if now := time.Now(); now.After(rs.lastReadOther) {
		rs.lastReadOther = now
	}
	if rs.recv == nil {
		panic("duplex: request callback not installed")
	}
	rs.recv(rs.recvCtx, c, d)
	return true
}

// ResponderSleeping tells the requestor the responder is about to idle with
// work still outstanding, so the requestor re-wakes it (responder thread).
// No-op when nothing is outstanding.
func (c *Channel) ResponderSleeping() error {
	rs := &c.ends[responderEnd]
	if rs.numOutstanding == 0 {
		return nil
	}
	return c.signal(rs, &c.ends[requestorEnd], SignalResponderSleeping, rs.ack, time.Now())
}

// SignalOpen hands the channel to the responder thread.
func (c *Channel) SignalOpen() error {
	return c.signal(&c.ends[requestorEnd], &c.ends[responderEnd], SignalOpen, 0, time.Now())
}

// SignalResponderClose initiates the close handshake from the requestor
// side. The channel goes inactive immediately; it must be kept live until
// both close messages have been observed and the rings drained.
func (c *Channel) SignalResponderClose() error {
	c.active.StoreRelease(false)
	return c.signal(&c.ends[requestorEnd], &c.ends[responderEnd], SignalClose, SideResponderBound, time.Now())
}

// ResponderAckClose acknowledges (or initiates) close from the responder
// side.
func (c *Channel) ResponderAckClose() error {
	c.active.StoreRelease(false)
	return c.signal(&c.ends[responderEnd], &c.ends[requestorEnd], SignalClose, SideRequestorBound, time.Now())
}

// ServiceMessage demultiplexes one control record pulled off a control
// plane, returning the event for the caller's loop and the channel it
// concerns.
//
// A DataDoneResponder or ResponderSleeping record arrives on the requestor
// thread and means the responder was seen idle or behind: the next request
// must signal regardless of suppression state, and the responder is
// re-woken immediately in case data raced its last drain.
func ServiceMessage(now time.Time, m Message) (Event, *Channel) {
	ch := m.Ch
	switch m.Signal {
	case SignalError, SignalDataToResponder, SignalDataToRequestor, SignalOpen, SignalClose:
		return Event(m.Signal), ch
	case SignalDataDoneResponder:
		ch.ends[requestorEnd].mustSignal.StoreRelease(true)
		ch.resignalResponder(now)
		return EventDataReadyRequestor, ch
	case SignalResponderSleeping:
		ch.ends[requestorEnd].mustSignal.StoreRelease(true)
		ch.resignalResponder(now)
		return EventNoop, ch
	}
	return EventError, ch
}

// ServiceWake accounts one wake-up taken on the given control plane against
// the end it belongs to. Call from the thread that owns the plane.
func (c *Channel) ServiceWake(p *control.Plane[Message]) {
	switch p {
	case c.ends[requestorEnd].ctl:
		c.ends[requestorEnd].numWakes++
	case c.ends[responderEnd].ctl:
		c.ends[responderEnd].numWakes++
	}
}

func (c *Channel) signal(from, to *end, sig Signal, ack uint64, now time.Time) error {
	m := Message{Signal: sig, Ack: ack, Ch: c}
	if err := to.ctl.Send(&m); err != nil {
		return err
	}
	from.numSignals++
	from.sequenceAtLastSignal = from.sequence
	from.lastSentSignal = now
	from.mustSignal.StoreRelease(false)
	return nil
}

func (c *Channel) resignalResponder(now time.Time) {
	rq := &c.ends[requestorEnd]
	m := Message{Signal: SignalDataToResponder, Ack: rq.sequence, Ch: c}
	if c.ends[responderEnd].ctl.Send(&m) == nil {
		rq.numResignals++
		rq.lastSentSignal = now
	}
}

// suppress applies the optional richer predicate: skip the wake-up when the
// peer is within half a ring of caught-up and both our last read from the
// peer and our last signal are fresh relative to the message interval. Disabled unless
// the channel was built with EagerSignals.
func (c *Channel) suppress(e *end, now time.Time) bool {
	if !c.eager {
		return false
	}
	if e.mustSignal.LoadAcquire() {
		return false
	}
	if e.sequence-e.theirView.LoadAcquire() >= uint64(c.depth)/2 {
		return false
	}
	window := 4 * e.messageInterval
	if window <= 0 {
		return false
	}
	return now.Sub(e.lastReadOther) <= window && now.Sub(e.lastSentSignal) <= window
}

// EndStats is a point-in-time copy of one end's counters.
type EndStats struct {
	Sequence        uint64
	Ack             uint64
	Outstanding     uint64
	Packets         uint64
	Signals         uint64
	Resignals       uint64
	Wakes           uint64
	TheirView       uint64
	MessageInterval time.Duration
}

// Stats is a point-in-time copy of the channel's accounting. Consistent
// only while both threads are quiescent; individual fields are otherwise
// approximate.
type Stats struct {
	Active         bool
	Requestor      EndStats
	Responder      EndStats
	ProcessingTime time.Duration
	CPUTime        time.Duration
}

func (e *end) stats() EndStats {
	return EndStats{
		Sequence:        e.sequence,
		Ack:             e.ack,
		Outstanding:     e.numOutstanding,
		Packets:         e.numPackets,
		Signals:         e.numSignals,
		Resignals:       e.numResignals,
		Wakes:           e.numWakes,
		TheirView:       e.theirView.LoadAcquire(),
		MessageInterval: e.messageInterval,
	}
}

// Stats snapshots the channel's accounting.
func (c *Channel) Stats() Stats {
	return Stats{
		Active:         c.active.LoadAcquire(),
		Requestor:      c.ends[requestorEnd].stats(),
		Responder:      c.ends[responderEnd].stats(),
		ProcessingTime: c.processingTime,
		CPUTime:        c.cpuTime,
	}
}

// DumpState writes a human-readable dump of the channel's accounting.
func (c *Channel) DumpState(w io.Writer) {
	s := c.Stats()
	fmt.Fprintf(w, "active          : %v\n", s.Active)
	for _, side := range []struct {
		name string
		e    EndStats
	}{{"requestor", s.Requestor}, {"responder", s.Responder}} {
		fmt.Fprintf(w, "[%s]\n", side.name)
		fmt.Fprintf(w, "  sequence      : %d\n", side.e.Sequence)
		fmt.Fprintf(w, "  ack           : %d\n", side.e.Ack)
		fmt.Fprintf(w, "  outstanding   : %d\n", side.e.Outstanding)
		fmt.Fprintf(w, "  packets       : %d\n", side.e.Packets)
		fmt.Fprintf(w, "  signals       : %d\n", side.e.Signals)
		fmt.Fprintf(w, "  resignals     : %d\n", side.e.Resignals)
		fmt.Fprintf(w, "  wakes         : %d\n", side.e.Wakes)
		fmt.Fprintf(w, "  their view    : %d\n", side.e.TheirView)
		fmt.Fprintf(w, "  msg interval  : %v\n", side.e.MessageInterval)
	}
	fmt.Fprintf(w, "processing time : %v\n", s.ProcessingTime)
	fmt.Fprintf(w, "cpu time        : %v\n", s.CPUTime)
}
