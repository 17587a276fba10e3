/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package ipc

import "fmt"

// CallState tracks which side currently owns a call.
type CallState int

const (
	// CallSending is the state of a call waiting in the target answerbox.
	CallSending CallState = iota
	// CallDispatched is the state of a call taken by the receiving task.
	CallDispatched
	// CallAnswered is the state of a call waiting to be collected by its caller.
	CallAnswered
	// CallForgotten is the terminal state of a call nobody will collect.
	CallForgotten
)

// String returns the state name
func (s CallState) String() string {
	switch s {
	case CallSending:
		return "sending"
	case CallDispatched:
		return "dispatched"
	case CallAnswered:
		return "answered"
	case CallForgotten:
		return "forgotten"
	default:
		return fmt.Sprintf("CallState(%d)", int(s))
	}
}

// Status qualifies the payload carried by a Reply.
type Status int

const (
	// StatusOK means the payload was written by the receiving task.
	StatusOK Status = iota
	// StatusPeerGone means the receiving task terminated before answering.
	// The payload is empty.
	StatusPeerGone
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusPeerGone:
		return "peer-gone"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Request is a call handed to the receiving task.
// The payload belongs to the receiver until the call is answered.
type Request struct {
	Call    CallID
	Sender  TaskID
	Payload []byte
}

// Reply is an answered call handed back to its caller.
type Reply struct {
	Call    CallID
	Status  Status
	Payload []byte
}

// PeerGone reports whether the receiving task died before answering.
func (r *Reply) PeerGone() bool {
	return r.Status == StatusPeerGone
}

// call is the envelope moving between answerboxes. Its mutable fields are
// only touched by the side owning it, under the lock of the answerbox the
// ownership moves through.
type call struct {
	id CallID
	// phone is the phone the call was sent through. It is a relation only: the
	// phone may be disconnected, or even reallocated, while the call lives.
	phone *phone
	// epoch is the connection epoch of the phone at send time.
	epoch   uint64
	target  *answerbox
	payload []byte
	state   CallState
	status  Status
}

func (c *call) expect(states ...CallState) {
	for _, state := range states {
		if c.state == state {
			return
		}
	}
	panic(fmt.Sprintf("ipc: call %d is %s, expected %v", c.id, c.state, states))
}

// forget moves the call to its terminal state and drops the payload.
func (c *call) forget() {
	if c.state == CallForgotten {
		panic(fmt.Sprintf("ipc: call %d forgotten twice", c.id))
	}
	c.state = CallForgotten
	c.payload = nil
}

func (c *call) request() *Request {
	return &Request{
		Call:    c.id,
		Sender:  c.phone.ownerID,
		Payload: c.payload,
	}
}

func (c *call) reply() *Reply {
	return &Reply{
		Call:    c.id,
		Status:  c.status,
		Payload: c.payload,
	}
}
