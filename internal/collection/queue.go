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

package collection

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Queue is an insertion-ordered queue whose entries can also be looked up and
// removed by key in O(1). It is not safe for concurrent use; callers guard it
// with their own lock.
type Queue[K comparable, V any] struct {
	entries *orderedmap.OrderedMap[K, V]
}

// NewQueue creates an empty Queue.
func NewQueue[K comparable, V any]() *Queue[K, V] {
	return &Queue[K, V]{entries: orderedmap.New[K, V]()}
}

// PushBack appends the value at the tail. It reports false, leaving the
// queue untouched, when the key is already queued.
func (q *Queue[K, V]) PushBack(key K, value V) bool {
	if _, ok := q.entries.Get(key); ok {
		return false
	}
	q.entries.Set(key, value)
	return true
}

// PopFront removes and returns the oldest value.
func (q *Queue[K, V]) PopFront() (V, bool) {
	oldest := q.entries.Oldest()
	if oldest == nil {
		var zero V
		return zero, false
	}
	q.entries.Delete(oldest.Key)
	return oldest.Value, true
}

// Get returns the value queued under key.
func (q *Queue[K, V]) Get(key K) (V, bool) {
	return q.entries.Get(key)
}

// Contains reports whether key is queued.
func (q *Queue[K, V]) Contains(key K) bool {
	_, ok := q.entries.Get(key)
	return ok
}

// Remove unlinks the value queued under key.
func (q *Queue[K, V]) Remove(key K) (V, bool) {
	return q.entries.Delete(key)
}

// RemoveFunc unlinks every value matching fn and returns them oldest first.
func (q *Queue[K, V]) RemoveFunc(fn func(V) bool) []V {
	var removed []V
	for pair := q.entries.Oldest(); pair != nil; {
		next := pair.Next()
		if fn(pair.Value) {
			q.entries.Delete(pair.Key)
			removed = append(removed, pair.Value)
		}
		pair = next
	}
	return removed
}

// Drain empties the queue and returns its values oldest first.
func (q *Queue[K, V]) Drain() []V {
	values := make([]V, 0, q.entries.Len())
	for pair := q.entries.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Value)
	}
	q.entries = orderedmap.New[K, V]()
	return values
}

// Len returns the number of queued values.
func (q *Queue[K, V]) Len() int {
	return q.entries.Len()
}
