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

import "sync"

// phone is a slot of a phone table.
//
// busy is written with both the table lock and the phone lock held. callee
// and epoch are written with both the phone lock and the owner's answerbox
// lock held, so either lock is enough to read them.
type phone struct {
	mu sync.Mutex

	ownerID  TaskID
	ownerBox *answerbox
	slot     int

	busy       bool
	generation uint32

	callee *answerbox
	// epoch is bumped on every connect so answers to calls sent over a
	// previous connection of the slot are never delivered.
	epoch uint64
}

func newPhone(ownerID TaskID, ownerBox *answerbox, slot int) *phone {
	return &phone{
		ownerID:  ownerID,
		ownerBox: ownerBox,
		slot:     slot,
	}
}

func (p *phone) id() PhoneID {
	return newPhoneID(p.slot, p.generation)
}

// connected reports whether the phone currently points at an answerbox.
func (p *phone) connected() bool {
	return p.callee != nil
}
