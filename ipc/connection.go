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
	"fmt"

	gerrors "github.com/tochemey/goipc/errors"
)

// AllocatePhone hands out a free phone slot of the task. The phone is not
// connected yet.
func (k *Kernel) AllocatePhone(taskID TaskID) (PhoneID, error) {
	t, err := k.task(taskID)
	if err != nil {
		return 0, err
	}

	id, err := t.table.allocate()
	if err != nil {
		return 0, err
	}

	k.metric.PhonesAllocated().Add(context.Background(), 1)
	k.logger.Debugf("task %d allocated phone %s", taskID, id)
	return id, nil
}

// ConnectPhone connects an allocated phone of the task to the answerbox of
// the target task. A connected phone must be released before it can be
// connected again.
func (k *Kernel) ConnectPhone(taskID TaskID, phoneID PhoneID, targetID TaskID) error {
	t, err := k.task(taskID)
	if err != nil {
		return err
	}

	target, err := k.task(targetID)
	if err != nil {
		return err
	}

	p, err := t.table.hold(phoneID)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()

	if p.connected() {
		return gerrors.ErrAlreadyConnected
	}

	if err := connect(p, target.box); err != nil {
		return err
	}

	k.logger.Debugf("task %d connected phone %s to task %d", taskID, phoneID, targetID)
	return nil
}

// DeallocatePhone releases a phone of the task, disconnecting it first when
// it is connected. Calls sent through it that no receiver took yet are
// forgotten, and so are the answers to it nobody collected.
func (k *Kernel) DeallocatePhone(taskID TaskID, phoneID PhoneID) error {
	t, err := k.task(taskID)
	if err != nil {
		return err
	}

	var callee *answerbox
	forgotten, err := t.table.release(phoneID, func(p *phone) []*call {
		callee = p.callee
		return disconnect(p)
	})
	if err != nil {
		return err
	}

	k.reportForgotten(ForgetDisconnected, forgotten...)
	if callee != nil {
		k.logger.Debugf("task %d disconnected phone %s from task %d", taskID, phoneID, callee.owner)
		k.events.Publish(EventsTopic, &PhoneDisconnected{Task: taskID, Phone: phoneID, Callee: callee.owner})
	}
	k.logger.Debugf("task %d released phone %s", taskID, phoneID)
	return nil
}

// connect points a busy, unconnected phone at box. The phone lock is held.
func connect(p *phone, box *answerbox) error {
	if !p.busy || p.connected() {
		panic(fmt.Sprintf("ipc: connecting phone %s of task %d in a bad state", p.id(), p.ownerID))
	}

	unlock := lockBoxes(p.ownerBox, box)
	defer unlock()

	if box.closed || p.ownerBox.closed {
		return gerrors.ErrTaskTerminated
	}

	p.callee = box
	p.epoch++
	box.phones.Add(p)
	return nil
}

// disconnect cuts a connected phone off its callee. Calls still waiting in
// the callee's incoming queue and answers of the current connection waiting
// in the owner's answered queue are forgotten and returned; dispatched calls
// are left to their receiver. Answers left over from an earlier connection
// of the slot stay collectable. The phone lock is held.
func disconnect(p *phone) []*call {
	box := p.callee
	if box == nil {
		panic(fmt.Sprintf("ipc: disconnecting phone %s of task %d which is not connected", p.id(), p.ownerID))
	}

	unlock := lockBoxes(p.ownerBox, box)
	defer unlock()

	p.callee = nil
	box.phones.Remove(p)

	sentByPhone := func(c *call) bool { return c.phone == p }
	pending := box.calls.RemoveFunc(sentByPhone)
	for _, c := range pending {
		p.ownerBox.settle(c)
	}

	epoch := p.epoch
	uncollected := p.ownerBox.answered.RemoveFunc(func(c *call) bool {
		return c.phone == p && c.epoch == epoch
	})
	for _, c := range uncollected {
		c.forget()
	}

	return append(pending, uncollected...)
}

// hangUp cuts a foreign phone off a dying answerbox. Unlike disconnect it
// leaves every call alone, so the answers already routed to the phone's
// owner stay collectable. It reports whether the phone was still connected
// to box, along with the phone id.
func hangUp(p *phone, box *answerbox) (PhoneID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.callee != box {
		return 0, false
	}

	unlock := lockBoxes(p.ownerBox, box)
	defer unlock()

	p.callee = nil
	box.phones.Remove(p)
	return p.id(), true
}
