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

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/goipc/internal/collection"
)

// answerbox is the mailbox of a task.
//
//   - calls holds the calls received and not yet taken by a receiver, oldest first.
//   - dispatched holds the calls taken by a receiver and not yet answered.
//   - answered holds the answers waiting for this task to collect them.
//
// outstanding tracks the calls this task sent that are neither answered nor
// forgotten yet; phones is the set of phones currently connected to the box.
// cond is broadcast whenever calls or answered grow, an outstanding call is
// settled, or the box closes.
type answerbox struct {
	owner TaskID

	mu     sync.Mutex
	cond   *sync.Cond
	closed bool

	calls       *collection.Queue[CallID, *call]
	dispatched  *collection.Queue[CallID, *call]
	answered    *collection.Queue[CallID, *call]
	outstanding mapset.Set[CallID]
	phones      mapset.Set[*phone]
}

func newAnswerbox(owner TaskID) *answerbox {
	box := &answerbox{
		owner:       owner,
		calls:       collection.NewQueue[CallID, *call](),
		dispatched:  collection.NewQueue[CallID, *call](),
		answered:    collection.NewQueue[CallID, *call](),
		outstanding: mapset.NewThreadUnsafeSet[CallID](),
		phones:      mapset.NewThreadUnsafeSet[*phone](),
	}
	box.cond = sync.NewCond(&box.mu)
	return box
}

// enqueue queues a freshly sent call. The caller holds the box lock.
func (b *answerbox) enqueue(c *call) {
	c.expect(CallSending)
	b.calls.PushBack(c.id, c)
	b.cond.Broadcast()
}

// dispatch moves the oldest call to the dispatched queue. The caller holds
// the box lock and has checked the queue is not empty.
func (b *answerbox) dispatch() *call {
	c, ok := b.calls.PopFront()
	if !ok {
		panic("ipc: dispatching from an empty answerbox")
	}
	c.expect(CallSending)
	c.state = CallDispatched
	b.dispatched.PushBack(c.id, c)
	return c
}

// deliver hands an answered call over to this box, the caller's one.
func (b *answerbox) deliver(c *call) {
	c.state = CallAnswered
	b.outstanding.Remove(c.id)
	b.answered.PushBack(c.id, c)
	b.cond.Broadcast()
}

// settle forgets a call this box's task sent.
func (b *answerbox) settle(c *call) {
	c.forget()
	b.outstanding.Remove(c.id)
	b.cond.Broadcast()
}

// close marks the box dead and wakes every waiter.
func (b *answerbox) close() {
	b.closed = true
	b.cond.Broadcast()
}

// lockBoxes locks two answerboxes, lower task id first, and returns the
// matching unlock. The same box is locked once.
func lockBoxes(a, b *answerbox) (unlock func()) {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}

	first, second := a, b
	if second.owner < first.owner {
		first, second = second, first
	}

	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}
