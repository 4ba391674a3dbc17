// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package duplex provides a bidirectional request/reply channel between two
// threads.
//
// A channel joins a requestor (network I/O) and a responder (worker). Each
// direction is a bounded single-producer single-consumer descriptor ring;
// nothing in the channel ever blocks. Waking the peer happens out of band
// through per-thread control planes (package control), and wake-ups are
// suppressed while sequence/ack progress shows the peer is already awake
// and reading.
//
// # Quick Start
//
//	reqPlane := control.NewPlane[duplex.Message](64)
//	rspPlane := control.NewPlane[duplex.Message](64)
//
//	ch := duplex.New(reqPlane, rspPlane).Build()
//	ch.SetRecvRequest(nil, handleRequest)
//	ch.SetRecvReply(nil, handleReply)
//	ch.SignalOpen()
//
//	// Requestor thread
//	ch.SendRequest(&duplex.Descriptor{Data: pkt})
//
//	// Responder thread
//	for {
//	    select {
//	    case <-rspPlane.Wake():
//	        for {
//	            m, err := rspPlane.Recv()
//	            if err != nil {
//	                break
//	            }
//	            ev, ch := duplex.ServiceMessage(time.Now(), m)
//	            if ev == duplex.EventDataToResponder {
//	                for ch.RecvRequest() {
//	                }
//	            }
//	        }
//	    }
//	}
//
// # Protocol
//
// Every descriptor carries a per-direction sequence number and the sender's
// ack of the opposite stream. Receivers publish their progress through an
// atomic the sender reads before signalling: if the peer has not yet caught
// up to the previous wake-up, another one would be redundant. When the
// responder finishes its backlog it announces DataDoneResponder, which the
// requestor's demultiplexer converts into "signal eagerly again".
//
// Closing is cooperative: either side flips the channel inactive and pushes
// a close record; the channel stays live until both sides have observed
// close and drained their rings.
//
// # Threading
//
// Exactly two threads may touch a channel. Requestor-side methods
// (SendRequest, RecvReply, SignalResponderClose) belong to one thread,
// responder-side methods (SendReply, NullReply, RecvRequest,
// ResponderSleeping, ResponderAckClose) to the other. A channel built with
// SameThread collapses both roles into synchronous callback calls.
package duplex
