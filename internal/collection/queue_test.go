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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	t.Run("With FIFO order", func(t *testing.T) {
		q := NewQueue[int, string]()
		require.True(t, q.PushBack(1, "a"))
		require.True(t, q.PushBack(2, "b"))
		require.True(t, q.PushBack(3, "c"))
		require.Equal(t, 3, q.Len())

		v, ok := q.PopFront()
		require.True(t, ok)
		assert.Equal(t, "a", v)
		assert.False(t, q.Contains(1))
		assert.True(t, q.Contains(2))

		assert.Equal(t, []string{"b", "c"}, q.Drain())
		assert.Zero(t, q.Len())
		_, ok = q.PopFront()
		assert.False(t, ok)
	})

	t.Run("With duplicate key", func(t *testing.T) {
		q := NewQueue[int, string]()
		require.True(t, q.PushBack(1, "a"))
		require.False(t, q.PushBack(1, "z"))
		v, ok := q.Get(1)
		require.True(t, ok)
		assert.Equal(t, "a", v)
		assert.Equal(t, 1, q.Len())
	})

	t.Run("With keyed removal", func(t *testing.T) {
		q := NewQueue[int, string]()
		q.PushBack(1, "a")
		q.PushBack(2, "b")
		q.PushBack(3, "c")

		v, ok := q.Remove(2)
		require.True(t, ok)
		assert.Equal(t, "b", v)
		_, ok = q.Remove(2)
		assert.False(t, ok)
		_, ok = q.Get(2)
		assert.False(t, ok)

		v, _ = q.PopFront()
		assert.Equal(t, "a", v)
		v, _ = q.PopFront()
		assert.Equal(t, "c", v)
	})

	t.Run("With RemoveFunc", func(t *testing.T) {
		q := NewQueue[int, int]()
		for i := range 10 {
			q.PushBack(i, i)
		}
		evens := q.RemoveFunc(func(v int) bool { return v%2 == 0 })
		assert.Equal(t, []int{0, 2, 4, 6, 8}, evens)
		assert.Equal(t, 5, q.Len())
		assert.Empty(t, q.RemoveFunc(func(v int) bool { return v > 100 }))
		assert.Equal(t, []int{1, 3, 5, 7, 9}, q.Drain())
	})

	t.Run("With key queued again after removal", func(t *testing.T) {
		q := NewQueue[int, string]()
		q.PushBack(1, "a")
		q.PushBack(2, "b")
		_, ok := q.Remove(1)
		require.True(t, ok)
		require.True(t, q.PushBack(1, "c"))

		assert.Equal(t, []string{"b", "c"}, q.Drain())
		assert.Empty(t, q.Drain())
		require.True(t, q.PushBack(1, "d"))
		assert.Equal(t, 1, q.Len())
	})
}
