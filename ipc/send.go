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
	"context"

	gerrors "github.com/tochemey/goipc/errors"
)

// Send queues a call carrying payload into the answerbox the phone is
// connected to and returns its id. Send is all-or-nothing: when the phone
// cannot be resolved or the payload cannot be copied no queue is touched.
func (k *Kernel) Send(taskID TaskID, phoneID PhoneID, payload []byte) (CallID, error) {
	t, err := k.task(taskID)
	if err != nil {
		return 0, err
	}

	p, err := t.table.lookup(phoneID)
	if err != nil {
		return 0, err
	}
	defer p.mu.Unlock()

	body, err := k.copier.CopyIn(taskID, payload)
	if err != nil {
		return 0, gerrors.NewPayloadError(err)
	}

	c := &call{
		id:      CallID(k.nextCallID.Inc()),
		phone:   p,
		epoch:   p.epoch,
		target:  p.callee,
		payload: body,
		state:   CallSending,
	}

	if err := k.enqueue(c); err != nil {
		return 0, err
	}

	k.metric.CallsSent().Add(context.Background(), 1)
	k.logger.Debugf("task %d sent call %d through phone %s to task %d", taskID, c.id, phoneID, c.target.owner)
	return c.id, nil
}

// enqueue queues the call into its target and records it as outstanding for
// the caller. The phone lock is held.
func (k *Kernel) enqueue(c *call) error {
	callerBox := c.phone.ownerBox
	unlock := lockBoxes(callerBox, c.target)
	defer unlock()

	// a dying callee behaves as if the phone were already hung up
	if c.target.closed {
		return gerrors.ErrNotFound
	}

	if callerBox.closed {
		return gerrors.ErrTaskTerminated
	}

	callerBox.outstanding.Add(c.id)
	c.target.enqueue(c)
	return nil
}

// Receive blocks until a call is waiting in the task's answerbox, then takes
// the oldest one. The call stays owned by the task until it is answered.
// Receive returns early with the context error when ctx is done, and with
// ErrTaskTerminated once the task is being swept.
func (k *Kernel) Receive(ctx context.Context, taskID TaskID) (*Request, error) {
	t, err := k.task(taskID)
	if err != nil {
		return nil, err
	}

	box := t.box
	box.mu.Lock()
	defer box.mu.Unlock()

	if err := wait(ctx, box, func() bool { return box.calls.Len() > 0 }); err != nil {
		return nil, err
	}

	c := box.dispatch()
	k.logger.Debugf("task %d received call %d from task %d", taskID, c.id, c.phone.ownerID)
	return c.request(), nil
}

// wait suspends on the box condition until ready returns true. The box lock
// is held on entry and on return. The box being closed or ctx being done
// ends the wait with an error.
func wait(ctx context.Context, box *answerbox, ready func() bool) error {
	stop := context.AfterFunc(ctx, func() {
		box.mu.Lock()
		box.cond.Broadcast()
		box.mu.Unlock()
	})
	defer stop()

	for {
		if box.closed {
			return gerrors.ErrTaskTerminated
		}
		if ready() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		box.cond.Wait()
	}
}
