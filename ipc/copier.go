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
	"bytes"
	"fmt"
)

// Copier moves message bodies across the task boundary. The kernel calls it
// once per Send and once per Answer, before any queue is touched, so a
// failing copy leaves no trace.
type Copier interface {
	// CopyIn returns a kernel-owned copy of the body supplied by the task.
	CopyIn(from TaskID, body []byte) ([]byte, error)
}

// boundedCopier duplicates bodies up to a size limit.
type boundedCopier struct {
	limit int
}

var _ Copier = boundedCopier{}

func (c boundedCopier) CopyIn(_ TaskID, body []byte) ([]byte, error) {
	if len(body) > c.limit {
		return nil, fmt.Errorf("body of %d bytes exceeds the %d bytes limit", len(body), c.limit)
	}
	return bytes.Clone(body), nil
}
