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
	"sync"

	gerrors "github.com/tochemey/goipc/errors"
)

// phoneTable is the fixed-size set of phones of a task. mu is the task lock
// arbitrating allocation.
type phoneTable struct {
	mu     sync.Mutex
	phones []*phone
	busy   int
	closed bool
}

func newPhoneTable(owner TaskID, box *answerbox, size int) *phoneTable {
	phones := make([]*phone, size)
	for slot := range phones {
		phones[slot] = newPhone(owner, box, slot)
	}
	return &phoneTable{phones: phones}
}

// allocate hands out the first free slot. Allocation does not connect.
func (x *phoneTable) allocate() (PhoneID, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return 0, gerrors.ErrTaskTerminated
	}

	for _, p := range x.phones {
		p.mu.Lock()
		if !p.busy {
			p.busy = true
			p.generation++
			// a wrapped generation must not produce the never-valid zero id
			if p.generation == 0 {
				p.generation++
			}
			id := p.id()
			p.mu.Unlock()
			x.busy++
			return id, nil
		}
		p.mu.Unlock()
	}
	return 0, gerrors.ErrExhausted
}

// lookup resolves a connected phone and returns it locked. The caller must
// unlock it. This is the gate every send goes through.
func (x *phoneTable) lookup(id PhoneID) (*phone, error) {
	p, err := x.hold(id)
	if err != nil {
		return nil, gerrors.ErrNotFound
	}
	if !p.connected() {
		p.mu.Unlock()
		return nil, gerrors.ErrNotFound
	}
	return p, nil
}

// hold resolves an allocated phone, connected or not, and returns it locked.
func (x *phoneTable) hold(id PhoneID) (*phone, error) {
	slot := id.Slot()
	if slot < 0 || slot >= len(x.phones) {
		return nil, gerrors.ErrNotOwned
	}

	p := x.phones[slot]
	p.mu.Lock()
	if !p.busy || p.generation != id.Generation() {
		p.mu.Unlock()
		return nil, gerrors.ErrNotOwned
	}
	return p, nil
}

// release frees the slot behind id, disconnecting it first when connected.
// It returns the calls the disconnect forgot.
func (x *phoneTable) release(id PhoneID, disconnect func(*phone) []*call) ([]*call, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return nil, gerrors.ErrTaskTerminated
	}

	p, err := x.hold(id)
	if err != nil {
		return nil, gerrors.ErrNotAllocated
	}
	defer p.mu.Unlock()
	return x.deallocate(p, disconnect), nil
}

// deallocate frees a busy slot. The table and phone locks are held.
func (x *phoneTable) deallocate(p *phone, disconnect func(*phone) []*call) []*call {
	if !p.busy {
		panic("ipc: deallocating a phone that is not allocated")
	}

	var forgotten []*call
	if p.connected() {
		forgotten = disconnect(p)
	}
	p.busy = false
	x.busy--
	return forgotten
}

// close frees every slot and refuses further allocation. It returns the
// phones that were connected along with the calls their disconnect forgot.
func (x *phoneTable) close(disconnect func(*phone) []*call) (disconnected []PhoneID, forgotten []*call) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.closed = true
	for _, p := range x.phones {
		p.mu.Lock()
		if p.busy {
			if p.connected() {
				disconnected = append(disconnected, p.id())
			}
			forgotten = append(forgotten, x.deallocate(p, disconnect)...)
		}
		p.mu.Unlock()
	}
	return disconnected, forgotten
}

// counts returns the number of allocated and connected phones.
func (x *phoneTable) counts() (busy, connected int) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, p := range x.phones {
		p.mu.Lock()
		if p.connected() {
			connected++
		}
		p.mu.Unlock()
	}
	return x.busy, connected
}
