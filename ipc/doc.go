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

// Package ipc implements a synchronous call/answer rendezvous between tasks.
//
// A task allocates a phone from its phone table, connects it to another
// task's answerbox and sends calls through it. The receiving task pulls calls
// from its answerbox, answers them, and the answer is routed back to the
// answerbox of the caller where it waits to be collected. A call is owned by
// exactly one side at any instant and ownership only moves under the
// answerbox locks.
//
// When a task terminates the kernel sweeps it: its phones are disconnected,
// every call still waiting in its answerbox is answered with StatusPeerGone,
// foreign phones pointing at it are hung up and answers it will never collect
// are dropped.
//
// Locks are always taken in the order phone table, phone, answerbox. When two
// answerboxes are involved the one owned by the lower task id is locked first.
package ipc
