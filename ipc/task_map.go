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
	"encoding/binary"

	csmap "github.com/mhmtszr/concurrent-swiss-map"

	"github.com/tochemey/goipc/hash"
)

// taskMap is the kernel's task registry, sharded to keep CPUs working on
// different tasks off each other's locks.
type taskMap struct {
	tasks *csmap.CsMap[TaskID, *task]
}

func newTaskMap(shards int, hasher hash.Hasher) *taskMap {
	m := csmap.Create[TaskID, *task](
		csmap.WithShardCount[TaskID, *task](uint64(shards)),
		csmap.WithCustomHasher[TaskID, *task](func(id TaskID) uint64 {
			var key [8]byte
			binary.LittleEndian.PutUint64(key[:], uint64(id))
			return hasher.HashCode(key[:])
		}),
	)
	return &taskMap{tasks: m}
}

func (m *taskMap) get(id TaskID) (*task, bool) {
	return m.tasks.Load(id)
}

func (m *taskMap) set(t *task) {
	m.tasks.Store(t.id, t)
}

// delete removes the task and reports whether this call removed it.
// Task ids are never reused, so the loaded task is the one deleted.
func (m *taskMap) delete(id TaskID) (*task, bool) {
	t, ok := m.tasks.Load(id)
	if !ok || !m.tasks.Delete(id) {
		return nil, false
	}
	return t, true
}

func (m *taskMap) len() int {
	return m.tasks.Count()
}

func (m *taskMap) ids() []TaskID {
	ids := make([]TaskID, 0, m.len())
	m.tasks.Range(func(id TaskID, _ *task) bool {
		ids = append(ids, id)
		return false
	})
	return ids
}
