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

// Answer writes payload as the response of a call the task received and
// routes it back to the caller. The call must have been taken by Receive and
// not answered yet. An answer nobody can collect anymore is forgotten, which
// is not an error for the answering task.
func (k *Kernel) Answer(taskID TaskID, callID CallID, payload []byte) error {
	t, err := k.task(taskID)
	if err != nil {
		return err
	}

	box := t.box
	box.mu.Lock()
	closed := box.closed
	c, ok := box.dispatched.Get(callID)
	box.mu.Unlock()

	switch {
	case closed:
		return gerrors.ErrTaskTerminated
	case !ok:
		return gerrors.ErrNotOwned
	}

	body, err := k.copier.CopyIn(taskID, payload)
	if err != nil {
		return gerrors.NewPayloadError(err)
	}

	reason, delivered, err := k.answer(box, c, body)
	if err != nil {
		return err
	}

	if !delivered {
		k.reportForgotten(reason, c)
		return nil
	}

	k.metric.CallsAnswered().Add(context.Background(), 1)
	k.logger.Debugf("task %d answered call %d of task %d", taskID, callID, c.phone.ownerID)
	return nil
}

// answer takes the call out of the dispatched queue and routes it with the
// given response. The call may have been answered or swept in between the
// lookup and the locking.
func (k *Kernel) answer(box *answerbox, c *call, body []byte) (ForgetReason, bool, error) {
	unlock := lockBoxes(box, c.phone.ownerBox)
	defer unlock()

	// the sweep got to the call first
	if box.closed {
		return 0, false, gerrors.ErrTaskTerminated
	}

	if _, ok := box.dispatched.Remove(c.id); !ok {
		return 0, false, gerrors.ErrNotOwned
	}

	c.payload = body
	c.status = StatusOK
	reason, delivered := route(c, c.phone.ownerBox)
	return reason, delivered, nil
}

// route hands an answered call to the caller's answerbox when the caller can
// still collect it, and forgets it otherwise. An answer is deliverable only
// while the caller is alive and the phone is still on the connection the
// call was sent over. The caller's answerbox lock is held.
func route(c *call, callerBox *answerbox) (ForgetReason, bool) {
	c.expect(CallSending, CallDispatched)

	p := c.phone
	switch {
	case callerBox.closed:
		callerBox.settle(c)
		return ForgetCallerGone, false
	case p.callee == nil || p.epoch != c.epoch:
		callerBox.settle(c)
		return ForgetDisconnected, false
	default:
		callerBox.deliver(c)
		return 0, true
	}
}

// Collect waits for the answer to the given call sent by the task and
// destroys the call. It fails with ErrNotOwned when the call is neither
// answered nor outstanding, which includes calls already collected or
// forgotten.
func (k *Kernel) Collect(ctx context.Context, taskID TaskID, callID CallID) (*Reply, error) {
	t, err := k.task(taskID)
	if err != nil {
		return nil, err
	}

	box := t.box
	box.mu.Lock()
	defer box.mu.Unlock()

	ready := func() bool {
		return box.answered.Contains(callID) || !box.outstanding.Contains(callID)
	}

	if err := wait(ctx, box, ready); err != nil {
		return nil, err
	}

	c, ok := box.answered.Remove(callID)
	if !ok {
		return nil, gerrors.ErrNotOwned
	}
	return c.reply(), nil
}

// CollectAny waits for the oldest answer waiting for the task.
// It returns ErrNoPendingCalls when nothing is answered nor outstanding.
func (k *Kernel) CollectAny(ctx context.Context, taskID TaskID) (*Reply, error) {
	t, err := k.task(taskID)
	if err != nil {
		return nil, err
	}

	box := t.box
	box.mu.Lock()
	defer box.mu.Unlock()

	ready := func() bool {
		return box.answered.Len() > 0 || box.outstanding.Cardinality() == 0
	}

	if err := wait(ctx, box, ready); err != nil {
		return nil, err
	}

	c, ok := box.answered.PopFront()
	if !ok {
		return nil, gerrors.ErrNoPendingCalls
	}
	return c.reply(), nil
}

// Call sends payload through the phone and waits for the answer.
// When ctx ends first the call stays outstanding and can still be collected
// with Collect.
func (k *Kernel) Call(ctx context.Context, taskID TaskID, phoneID PhoneID, payload []byte) (*Reply, error) {
	callID, err := k.Send(taskID, phoneID, payload)
	if err != nil {
		return nil, err
	}
	return k.Collect(ctx, taskID, callID)
}
