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

// TerminateTask sweeps the IPC state of a dying task and unregisters it.
// Once it returns no phone, answerbox or call of any other task references
// the task anymore:
//
//   - its own phones are disconnected and freed, forgetting what they sent;
//   - every call waiting in its answerbox is answered with StatusPeerGone;
//   - foreign phones connected to it are hung up;
//   - answers it did not collect are destroyed.
//
// Terminating a task is done once; later calls return ErrTaskNotFound.
func (k *Kernel) TerminateTask(taskID TaskID) error {
	t, err := k.unregister(taskID)
	if err != nil {
		return err
	}

	// waiters and senders see the task dying before its phones go
	box := t.box
	box.mu.Lock()
	box.close()
	box.mu.Unlock()

	disconnected, forgotten := t.table.close(disconnect)
	k.reportForgotten(ForgetCallerGone, forgotten...)

	box.mu.Lock()
	incoming := append(box.calls.Drain(), box.dispatched.Drain()...)
	phones := box.phones.ToSlice()
	box.mu.Unlock()

	peerGone := k.answerPeerGone(incoming)

	hungUp := 0
	for _, p := range phones {
		phoneID, ok := hangUp(p, box)
		if !ok {
			continue
		}
		hungUp++
		k.logger.Debugf("phone %s of task %d hung up by task %d", phoneID, p.ownerID, taskID)
		k.events.Publish(EventsTopic, &PhoneHungUp{Task: p.ownerID, Phone: phoneID, Callee: taskID})
	}

	box.mu.Lock()
	uncollected := box.answered.Drain()
	for _, c := range uncollected {
		c.forget()
	}
	box.outstanding.Clear()
	box.mu.Unlock()
	k.reportForgotten(ForgetCallerGone, uncollected...)

	k.metric.TasksTerminated().Add(context.Background(), 1)
	k.logger.Infof("task %d terminated: %d phones disconnected, %d phones hung up, %d calls peer gone, %d calls forgotten",
		taskID, len(disconnected), hungUp, peerGone, len(forgotten)+len(uncollected))
	k.events.Publish(EventsTopic, &TaskTerminated{
		Task:               taskID,
		PhonesDisconnected: len(disconnected),
		PhonesHungUp:       hungUp,
		CallsPeerGone:      peerGone,
		CallsForgotten:     len(forgotten) + len(uncollected),
	})
	return nil
}

// unregister removes the task from the registry. Only one caller wins.
func (k *Kernel) unregister(taskID TaskID) (*task, error) {
	t, ok := k.tasks.delete(taskID)
	if !ok {
		return nil, gerrors.ErrTaskNotFound
	}
	return t, nil
}

// answerPeerGone answers the calls a dying task received on its behalf and
// returns how many reached their caller.
func (k *Kernel) answerPeerGone(calls []*call) int {
	delivered := 0
	for _, c := range calls {
		callerBox := c.phone.ownerBox
		callerBox.mu.Lock()
		c.payload = nil
		c.status = StatusPeerGone
		reason, ok := route(c, callerBox)
		callerBox.mu.Unlock()

		if !ok {
			k.reportForgotten(reason, c)
			continue
		}
		delivered++
	}
	return delivered
}
