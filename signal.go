// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

// Signal identifies a control message. The first five values share numeric
// space with Event, so the demultiplexer returns them unchanged.
type Signal uint32

const (
	SignalError Signal = iota
	SignalDataToResponder
	SignalDataToRequestor
	SignalOpen
	SignalClose
	SignalDataDoneResponder
	SignalResponderSleeping
)

func (s Signal) String() string {
	switch s {
	case SignalError:
		return "error"
	case SignalDataToResponder:
		return "data-to-responder"
	case SignalDataToRequestor:
		return "data-to-requestor"
	case SignalOpen:
		return "open"
	case SignalClose:
		return "close"
	case SignalDataDoneResponder:
		return "data-done-responder"
	case SignalResponderSleeping:
		return "responder-sleeping"
	}
	return "unknown"
}

// Event is what ServiceMessage reports to the thread draining a control
// plane.
type Event uint32

const (
	EventError Event = iota
	EventDataToResponder
	EventDataToRequestor
	EventOpen
	EventClose
	EventDataReadyRequestor
	EventNoop
)

func (e Event) String() string {
	switch e {
	case EventError:
		return "error"
	case EventDataToResponder:
		return "data-to-responder"
	case EventDataToRequestor:
		return "data-to-requestor"
	case EventOpen:
		return "open"
	case EventClose:
		return "close"
	case EventDataReadyRequestor:
		return "data-ready-requestor"
	case EventNoop:
		return "noop"
	}
	return "unknown"
}

// Sides of a channel, used in the Ack field of close messages.
const (
	SideResponderBound uint64 = 0 // close travelling toward the responder
	SideRequestorBound uint64 = 1 // close travelling toward the requestor
)

// Message is the fixed control record a channel pushes through a control
// plane: which condition fired, a progress value, and the channel it
// concerns. For SignalClose the Ack field carries the closing side; for
// data signals it carries the sender's sequence and is informational.
type Message struct {
	Signal Signal
	Ack    uint64
	Ch     *Channel
}
