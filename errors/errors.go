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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrExhausted is returned when a task's phone table has no free slot left.
	ErrExhausted = errors.New("phone table exhausted")

	// ErrNotFound is returned when sending through a phone that is not allocated or not connected.
	ErrNotFound = errors.New("phone not found")

	// ErrNotAllocated is returned when releasing a phone the task does not currently hold.
	ErrNotAllocated = errors.New("phone is not allocated")

	// ErrAlreadyConnected is returned when connecting a phone that is already connected.
	ErrAlreadyConnected = errors.New("phone is already connected")

	// ErrNotOwned is returned when a task acts on a phone or a call it does not currently own.
	ErrNotOwned = errors.New("not owned by the task")

	// ErrPayload is returned when a message body cannot be copied across the task boundary.
	ErrPayload = errors.New("invalid payload")

	// ErrTaskNotFound is returned when the given task id is unknown to the kernel.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskTerminated is returned when a task is being or has been torn down.
	ErrTaskTerminated = errors.New("task terminated")

	// ErrNoPendingCalls is returned when collecting while no call awaits an answer.
	ErrNoPendingCalls = errors.New("no call awaiting an answer")

	// ErrKernelStopped is returned when the kernel has been shut down.
	ErrKernelStopped = errors.New("kernel is stopped")

	// ErrInvalidConfig is returned when the kernel options fail validation.
	ErrInvalidConfig = errors.New("invalid kernel configuration")
)

// PayloadError wraps the reason a message body could not be copied.
// It matches ErrPayload with errors.Is.
type PayloadError struct {
	err error
}

// enforce compilation error
var _ error = (*PayloadError)(nil)

// NewPayloadError returns an instance of PayloadError
func NewPayloadError(err error) *PayloadError {
	return &PayloadError{
		err: fmt.Errorf("%w: %w", ErrPayload, err),
	}
}

// Error implements the standard error interface
func (p *PayloadError) Error() string {
	return p.err.Error()
}

func (p *PayloadError) Unwrap() error {
	return p.err
}
