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

// task is the IPC state a task owns: its phone table and its answerbox.
type task struct {
	id    TaskID
	box   *answerbox
	table *phoneTable
}

func newTask(id TaskID, phones int) *task {
	box := newAnswerbox(id)
	return &task{
		id:    id,
		box:   box,
		table: newPhoneTable(id, box, phones),
	}
}

// TaskStats is a point-in-time snapshot of a task's IPC state.
type TaskStats struct {
	// BusyPhones is the number of allocated phone slots.
	BusyPhones int
	// ConnectedPhones is the number of allocated phones connected to an answerbox.
	ConnectedPhones int
	// Pending is the number of received calls not taken by a receiver yet.
	Pending int
	// Dispatched is the number of calls taken by a receiver and not answered yet.
	Dispatched int
	// Answered is the number of answers waiting to be collected.
	Answered int
	// Outstanding is the number of calls sent by the task still waiting for an answer.
	Outstanding int
}

func (t *task) stats() *TaskStats {
	busy, connected := t.table.counts()

	t.box.mu.Lock()
	defer t.box.mu.Unlock()
	return &TaskStats{
		BusyPhones:      busy,
		ConnectedPhones: connected,
		Pending:         t.box.calls.Len(),
		Dispatched:      t.box.dispatched.Len(),
		Answered:        t.box.answered.Len(),
		Outstanding:     t.box.outstanding.Cardinality(),
	}
}
