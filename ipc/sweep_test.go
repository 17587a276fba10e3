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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/goipc/errors"
)

func TestTerminateTask(t *testing.T) {
	t.Run("With idle task", func(t *testing.T) {
		k := newTestKernel(t)
		task := createTask(t, k)
		_, err := k.AllocatePhone(task)
		require.NoError(t, err)

		require.NoError(t, k.TerminateTask(task))
		assert.Empty(t, k.Tasks())
		assert.ErrorIs(t, k.TerminateTask(task), gerrors.ErrTaskNotFound)

		_, err = k.AllocatePhone(task)
		assert.ErrorIs(t, err, gerrors.ErrTaskNotFound)
	})

	t.Run("With callee holding pending and dispatched calls", func(t *testing.T) {
		k := newTestKernel(t)
		sub, err := k.Subscribe()
		require.NoError(t, err)

		caller := createTask(t, k)
		callee := createTask(t, k)
		phoneID := dial(t, k, caller, callee)

		dispatchedID, err := k.Send(caller, phoneID, []byte("first"))
		require.NoError(t, err)
		pendingID, err := k.Send(caller, phoneID, []byte("second"))
		require.NoError(t, err)
		_, err = k.Receive(context.Background(), callee)
		require.NoError(t, err)

		require.NoError(t, k.TerminateTask(callee))

		for _, callID := range []CallID{dispatchedID, pendingID} {
			reply, err := k.Collect(context.Background(), caller, callID)
			require.NoError(t, err)
			assert.Equal(t, StatusPeerGone, reply.Status)
			assert.Empty(t, reply.Payload)
		}

		// the phone was slammed but is still the caller's
		s := stats(t, k, caller)
		assert.Equal(t, 1, s.BusyPhones)
		assert.Zero(t, s.ConnectedPhones)

		_, err = k.Send(caller, phoneID, []byte("third"))
		assert.ErrorIs(t, err, gerrors.ErrNotFound)
		assert.ErrorIs(t, k.ConnectPhone(caller, phoneID, callee), gerrors.ErrTaskNotFound)
		require.NoError(t, k.DeallocatePhone(caller, phoneID))

		var terminated *TaskTerminated
		for _, event := range drain(sub) {
			if e, ok := event.(*TaskTerminated); ok {
				terminated = e
			}
		}
		require.NotNil(t, terminated)
		assert.Equal(t, &TaskTerminated{Task: callee, PhonesHungUp: 1, CallsPeerGone: 2}, terminated)
	})

	t.Run("With caller gone before the answer", func(t *testing.T) {
		k := newTestKernel(t)
		sub, err := k.Subscribe()
		require.NoError(t, err)

		caller := createTask(t, k)
		callee := createTask(t, k)
		phoneID := dial(t, k, caller, callee)

		callID, err := k.Send(caller, phoneID, []byte("ping"))
		require.NoError(t, err)
		request, err := k.Receive(context.Background(), callee)
		require.NoError(t, err)

		require.NoError(t, k.TerminateTask(caller))

		// the answering side does not notice
		require.NoError(t, k.Answer(callee, request.Call, []byte("pong")))
		assert.Equal(t, &TaskStats{}, stats(t, k, callee))

		forgotten := forgottenFor(drain(sub), ForgetCallerGone)
		require.Len(t, forgotten, 1)
		assert.Equal(t, callID, forgotten[0].Call)
	})

	t.Run("With caller gone before the receive", func(t *testing.T) {
		k := newTestKernel(t)
		caller := createTask(t, k)
		callee := createTask(t, k)
		phoneID := dial(t, k, caller, callee)

		for range 3 {
			_, err := k.Send(caller, phoneID, []byte("ping"))
			require.NoError(t, err)
		}
		require.Equal(t, 3, stats(t, k, callee).Pending)

		require.NoError(t, k.TerminateTask(caller))
		assert.Equal(t, &TaskStats{}, stats(t, k, callee))
	})

	t.Run("With answers left uncollected", func(t *testing.T) {
		k := newTestKernel(t)
		sub, err := k.Subscribe()
		require.NoError(t, err)

		caller := createTask(t, k)
		callee := createTask(t, k)
		phoneID := dial(t, k, caller, callee)

		_, err = k.Send(caller, phoneID, []byte("ping"))
		require.NoError(t, err)
		request, err := k.Receive(context.Background(), callee)
		require.NoError(t, err)
		require.NoError(t, k.Answer(callee, request.Call, []byte("pong")))
		require.Equal(t, 1, stats(t, k, caller).Answered)

		require.NoError(t, k.TerminateTask(caller))

		events := drain(sub)
		// the phone disconnect drops the answer before the answerbox is swept
		assert.Len(t, forgottenFor(events, ForgetCallerGone), 1)
		assert.Zero(t, stats(t, k, callee).Dispatched)
	})

	t.Run("With peer gone answers left uncollected", func(t *testing.T) {
		k := newTestKernel(t)
		sub, err := k.Subscribe()
		require.NoError(t, err)

		caller := createTask(t, k)
		callee := createTask(t, k)
		phoneID := dial(t, k, caller, callee)

		callID, err := k.Send(caller, phoneID, []byte("ping"))
		require.NoError(t, err)
		require.NoError(t, k.TerminateTask(callee))
		require.Equal(t, 1, stats(t, k, caller).Answered)

		// the slammed phone is no longer connected, the answerbox sweep drops the answer
		require.NoError(t, k.TerminateTask(caller))

		events := drain(sub)
		forgotten := forgottenFor(events, ForgetCallerGone)
		require.Len(t, forgotten, 1)
		assert.Equal(t, callID, forgotten[0].Call)

		var terminated *TaskTerminated
		for _, event := range events {
			if e, ok := event.(*TaskTerminated); ok && e.Task == caller {
				terminated = e
			}
		}
		require.NotNil(t, terminated)
		assert.Equal(t, &TaskTerminated{Task: caller, CallsForgotten: 1}, terminated)
	})

	t.Run("With both sides calling each other", func(t *testing.T) {
		k := newTestKernel(t)
		left := createTask(t, k)
		right := createTask(t, k)
		toRight := dial(t, k, left, right)
		toLeft := dial(t, k, right, left)

		leftCall, err := k.Send(left, toRight, []byte("l"))
		require.NoError(t, err)
		_, err = k.Send(right, toLeft, []byte("r"))
		require.NoError(t, err)
		_, err = k.Receive(context.Background(), left)
		require.NoError(t, err)

		require.NoError(t, k.TerminateTask(right))

		reply, err := k.Collect(context.Background(), left, leftCall)
		require.NoError(t, err)
		assert.True(t, reply.PeerGone())

		// the call right sent is gone from left's answerbox
		s := stats(t, k, left)
		assert.Zero(t, s.Pending)
		assert.Equal(t, 1, s.Dispatched)
		assert.Zero(t, s.ConnectedPhones)
	})

	t.Run("With collector waiting on its own termination", func(t *testing.T) {
		k := newTestKernel(t)
		caller := createTask(t, k)
		callee := createTask(t, k)
		phoneID := dial(t, k, caller, callee)

		done := make(chan error, 1)
		go func() {
			_, err := k.Call(context.Background(), caller, phoneID, []byte("ping"))
			done <- err
		}()

		require.Eventually(t, func() bool {
			s, err := k.Stats(callee)
			return err == nil && s.Pending == 1
		}, 5*time.Second, time.Millisecond)

		require.NoError(t, k.TerminateTask(caller))
		select {
		case err := <-done:
			assert.True(t, errors.Is(err, gerrors.ErrTaskTerminated) || errors.Is(err, gerrors.ErrTaskNotFound))
		case <-time.After(5 * time.Second):
			require.Fail(t, "collector was not woken up")
		}
	})
}

func TestTerminateUnderLoad(t *testing.T) {
	const (
		servers = 4
		clients = 8
		calls   = 100
	)

	k := newTestKernel(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverIDs := make([]TaskID, servers)
	for i := range serverIDs {
		serverIDs[i] = createTask(t, k)
	}

	serving := new(errgroup.Group)
	for _, server := range serverIDs {
		serving.Go(func() error {
			for {
				request, err := k.Receive(ctx, server)
				if err != nil {
					return ignoreGone(err)
				}
				if err := k.Answer(server, request.Call, request.Payload); err != nil {
					return ignoreGone(err)
				}
			}
		})
	}

	calling := new(errgroup.Group)
	for i := range clients {
		client := createTask(t, k)
		phoneID := dial(t, k, client, serverIDs[i%servers])
		calling.Go(func() error {
			for range calls {
				reply, err := k.Call(ctx, client, phoneID, []byte("ping"))
				if errors.Is(err, gerrors.ErrNotFound) {
					return nil
				}
				if err != nil {
					return err
				}
				if reply.PeerGone() {
					return nil
				}
			}
			return nil
		})
	}

	// take half of the servers down while the clients are calling
	for _, server := range serverIDs[:servers/2] {
		require.NoError(t, k.TerminateTask(server))
	}

	require.NoError(t, calling.Wait())
	require.NoError(t, k.Shutdown(ctx))
	require.NoError(t, serving.Wait())
	assert.Empty(t, k.Tasks())
}

func ignoreGone(err error) error {
	if errors.Is(err, gerrors.ErrTaskTerminated) || errors.Is(err, gerrors.ErrTaskNotFound) {
		return nil
	}
	return err
}
