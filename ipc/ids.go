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

import "fmt"

// TaskID identifies a task registered with the kernel.
type TaskID uint64

// PhoneID is a generation-checked handle on a phone table slot.
// The low 32 bits hold the slot index and the high 32 bits the generation
// the slot had when it was handed out, so an id kept after the slot was
// released and reallocated no longer resolves. The zero value never resolves.
type PhoneID uint64

func newPhoneID(slot int, generation uint32) PhoneID {
	return PhoneID(uint64(generation)<<32 | uint64(uint32(slot)))
}

// Slot returns the index of the phone in its table.
func (id PhoneID) Slot() int {
	return int(uint32(id))
}

// Generation returns the slot generation the id was issued for.
func (id PhoneID) Generation() uint32 {
	return uint32(id >> 32)
}

// String returns the slot and generation as "slot/generation".
func (id PhoneID) String() string {
	return fmt.Sprintf("%d/%d", id.Slot(), id.Generation())
}

// CallID identifies a call. Ids are kernel-wide and never reused.
type CallID uint64
