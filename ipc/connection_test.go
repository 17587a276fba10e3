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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/goipc/errors"
)

func TestConnectPhone(t *testing.T) {
	k := newTestKernel(t)
	caller := createTask(t, k)
	callee := createTask(t, k)

	t.Run("With unknown tasks", func(t *testing.T) {
		phoneID, err := k.AllocatePhone(caller)
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, k.DeallocatePhone(caller, phoneID)) })

		assert.ErrorIs(t, k.ConnectPhone(TaskID(99), phoneID, callee), gerrors.ErrTaskNotFound)
		assert.ErrorIs(t, k.ConnectPhone(caller, phoneID, TaskID(99)), gerrors.ErrTaskNotFound)
	})

	t.Run("With phone not allocated", func(t *testing.T) {
		assert.ErrorIs(t, k.ConnectPhone(caller, newPhoneID(0, 42), callee), gerrors.ErrNotOwned)
	})

	t.Run("With phone already connected", func(t *testing.T) {
		phoneID := dial(t, k, caller, callee)
		t.Cleanup(func() { require.NoError(t, k.DeallocatePhone(caller, phoneID)) })

		assert.ErrorIs(t, k.ConnectPhone(caller, phoneID, callee), gerrors.ErrAlreadyConnected)
		assert.ErrorIs(t, k.ConnectPhone(caller, phoneID, caller), gerrors.ErrAlreadyConnected)
		assert.Equal(t, 1, stats(t, k, caller).ConnectedPhones)
	})

	t.Run("With a connection to itself", func(t *testing.T) {
		phoneID := dial(t, k, caller, caller)
		t.Cleanup(func() { require.NoError(t, k.DeallocatePhone(caller, phoneID)) })

		reply := roundTrip(t, k, caller, phoneID, caller, []byte("echo"))
		assert.Equal(t, []byte("echo"), reply.Payload)
	})

	t.Run("With a dying target", func(t *testing.T) {
		box := newAnswerbox(7)
		box.close()
		p := newPhone(caller, newAnswerbox(caller), 0)
		p.busy = true
		assert.ErrorIs(t, connect(p, box), gerrors.ErrTaskTerminated)
		assert.False(t, p.connected())
	})

	t.Run("With phone in a bad state", func(t *testing.T) {
		p := newPhone(caller, newAnswerbox(caller), 0)
		assert.Panics(t, func() { _ = connect(p, newAnswerbox(callee)) })
	})
}

func TestDeallocatePhone(t *testing.T) {
	t.Run("With unknown phone", func(t *testing.T) {
		k := newTestKernel(t)
		task := createTask(t, k)
		assert.ErrorIs(t, k.DeallocatePhone(task, newPhoneID(0, 1)), gerrors.ErrNotAllocated)
		assert.ErrorIs(t, k.DeallocatePhone(TaskID(99), newPhoneID(0, 1)), gerrors.ErrTaskNotFound)
	})

	t.Run("With unconnected phone", func(t *testing.T) {
		k := newTestKernel(t)
		task := createTask(t, k)
		phoneID, err := k.AllocatePhone(task)
		require.NoError(t, err)

		require.NoError(t, k.DeallocatePhone(task, phoneID))
		assert.Zero(t, stats(t, k, task).BusyPhones)
		assert.ErrorIs(t, k.DeallocatePhone(task, phoneID), gerrors.ErrNotAllocated)
	})

	t.Run("With pending calls of several phones", func(t *testing.T) {
		k := newTestKernel(t)
		sub, err := k.Subscribe()
		require.NoError(t, err)

		caller := createTask(t, k)
		callee := createTask(t, k)
		first := dial(t, k, caller, callee)
		second := dial(t, k, caller, callee)

		var dropped []CallID
		for range 3 {
			callID, err := k.Send(caller, first, []byte("first"))
			require.NoError(t, err)
			dropped = append(dropped, callID)
		}
		for range 2 {
			_, err := k.Send(caller, second, []byte("second"))
			require.NoError(t, err)
		}

		require.NoError(t, k.DeallocatePhone(caller, first))

		calleeStats := stats(t, k, callee)
		assert.Equal(t, 2, calleeStats.Pending)
		callerStats := stats(t, k, caller)
		assert.Equal(t, 2, callerStats.Outstanding)
		assert.Equal(t, 1, callerStats.BusyPhones)

		forgotten := forgottenFor(drain(sub), ForgetDisconnected)
		require.Len(t, forgotten, 3)
		for i, event := range forgotten {
			assert.Equal(t, dropped[i], event.Call)
			assert.Equal(t, caller, event.Caller)
			assert.Equal(t, callee, event.Callee)
		}

		// the survivors still come out in order
		for range 2 {
			request, err := k.Receive(context.Background(), callee)
			require.NoError(t, err)
			assert.Equal(t, []byte("second"), request.Payload)
		}
	})

	t.Run("With dispatched call answered after the disconnect", func(t *testing.T) {
		k := newTestKernel(t)
		caller := createTask(t, k)
		callee := createTask(t, k)
		phoneID := dial(t, k, caller, callee)

		callID, err := k.Send(caller, phoneID, []byte("ping"))
		require.NoError(t, err)
		request, err := k.Receive(context.Background(), callee)
		require.NoError(t, err)

		require.NoError(t, k.DeallocatePhone(caller, phoneID))
		assert.Equal(t, 1, stats(t, k, callee).Dispatched)

		require.NoError(t, k.Answer(callee, request.Call, []byte("pong")))
		callerStats := stats(t, k, caller)
		assert.Zero(t, callerStats.Answered)
		assert.Zero(t, callerStats.Outstanding)

		_, err = k.Collect(context.Background(), caller, callID)
		assert.ErrorIs(t, err, gerrors.ErrNotOwned)
	})

	t.Run("With uncollected answers", func(t *testing.T) {
		k := newTestKernel(t)
		caller := createTask(t, k)
		callee := createTask(t, k)
		phoneID := dial(t, k, caller, callee)

		_, err := k.Send(caller, phoneID, []byte("ping"))
		require.NoError(t, err)
		request, err := k.Receive(context.Background(), callee)
		require.NoError(t, err)
		require.NoError(t, k.Answer(callee, request.Call, []byte("pong")))
		assert.Equal(t, 1, stats(t, k, caller).Answered)

		require.NoError(t, k.DeallocatePhone(caller, phoneID))
		assert.Zero(t, stats(t, k, caller).Answered)
	})

	t.Run("With the slot reconnected before the answer", func(t *testing.T) {
		k := newTestKernel(t, WithPhoneTableSize(1))
		caller := createTask(t, k)
		callee := createTask(t, k)
		stale := dial(t, k, caller, callee)

		callID, err := k.Send(caller, stale, []byte("ping"))
		require.NoError(t, err)
		request, err := k.Receive(context.Background(), callee)
		require.NoError(t, err)

		require.NoError(t, k.DeallocatePhone(caller, stale))
		fresh := dial(t, k, caller, callee)
		assert.Equal(t, stale.Slot(), fresh.Slot())

		// the answer belongs to the previous connection of the slot
		require.NoError(t, k.Answer(callee, request.Call, []byte("pong")))
		assert.Zero(t, stats(t, k, caller).Answered)

		_, err = k.Collect(context.Background(), caller, callID)
		assert.ErrorIs(t, err, gerrors.ErrNotOwned)
	})

	t.Run("With peer gone answers of an earlier connection", func(t *testing.T) {
		k := newTestKernel(t)
		caller := createTask(t, k)
		first := createTask(t, k)
		second := createTask(t, k)
		phoneID := dial(t, k, caller, first)

		callID, err := k.Send(caller, phoneID, []byte("ping"))
		require.NoError(t, err)
		require.NoError(t, k.TerminateTask(first))

		// the hung up phone is reused for another callee
		require.NoError(t, k.ConnectPhone(caller, phoneID, second))
		_, err = k.Send(caller, phoneID, []byte("ping"))
		require.NoError(t, err)
		require.NoError(t, k.DeallocatePhone(caller, phoneID))

		callerStats := stats(t, k, caller)
		assert.Equal(t, 1, callerStats.Answered)
		assert.Zero(t, callerStats.Outstanding)

		reply, err := k.Collect(context.Background(), caller, callID)
		require.NoError(t, err)
		assert.True(t, reply.PeerGone())
	})

	t.Run("With disconnect of an unconnected phone", func(t *testing.T) {
		p := newPhone(1, newAnswerbox(1), 0)
		assert.Panics(t, func() { disconnect(p) })
	})
}
