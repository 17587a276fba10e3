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

// EventsTopic is the topic kernel lifecycle events are published on.
const EventsTopic = "ipc.events"

// ForgetReason explains why a call was forgotten.
type ForgetReason int

const (
	// ForgetDisconnected means the caller's phone was disconnected.
	ForgetDisconnected ForgetReason = iota
	// ForgetCallerGone means the caller terminated before collecting the answer.
	ForgetCallerGone
)

// String returns the reason name
func (r ForgetReason) String() string {
	switch r {
	case ForgetDisconnected:
		return "disconnected"
	case ForgetCallerGone:
		return "caller-gone"
	default:
		return "unknown"
	}
}

// TaskCreated is published when a task is registered.
type TaskCreated struct {
	Task TaskID
}

// TaskTerminated is published once a task has been swept.
type TaskTerminated struct {
	Task TaskID
	// PhonesDisconnected counts the task's own phones that were connected.
	PhonesDisconnected int
	// PhonesHungUp counts foreign phones that pointed at the task.
	PhonesHungUp int
	// CallsPeerGone counts the calls answered on the task's behalf.
	CallsPeerGone int
	// CallsForgotten counts the calls destroyed by the sweep.
	CallsForgotten int
}

// PhoneDisconnected is published when a task releases a connected phone.
type PhoneDisconnected struct {
	Task   TaskID
	Phone  PhoneID
	Callee TaskID
}

// PhoneHungUp is published when a phone loses its callee because the callee terminated.
type PhoneHungUp struct {
	Task   TaskID
	Phone  PhoneID
	Callee TaskID
}

// DeadLetter is published for every call forgotten without reaching its caller.
type DeadLetter struct {
	Call   CallID
	Caller TaskID
	Callee TaskID
	Reason ForgetReason
}
