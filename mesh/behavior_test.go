// MIT License
//
// Copyright (c) 2024-2026 Meshwork Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBehaviorStack(t *testing.T) {
	var trace []string
	record := func(tag string) Behavior {
		return func(*Context) {
			trace = append(trace, tag)
		}
	}

	t.Run("With initial behavior", func(t *testing.T) {
		trace = nil
		stack := newBehaviorStack(record("initial"))
		require.Equal(t, 1, stack.Len())
		stack.Peek()(nil)
		assert.Equal(t, []string{"initial"}, trace)
	})
	t.Run("With Replace swapping the top", func(t *testing.T) {
		trace = nil
		stack := newBehaviorStack(record("initial"))
		stack.Replace(record("replaced"))
		require.Equal(t, 1, stack.Len())
		stack.Peek()(nil)
		assert.Equal(t, []string{"replaced"}, trace)
	})
	t.Run("With Push and Pop", func(t *testing.T) {
		trace = nil
		stack := newBehaviorStack(record("initial"))
		stack.Push(record("stacked"))
		require.Equal(t, 2, stack.Len())
		stack.Peek()(nil)

		stack.Pop()
		require.Equal(t, 1, stack.Len())
		stack.Peek()(nil)
		assert.Equal(t, []string{"stacked", "initial"}, trace)
	})
	t.Run("With Pop never removing the bottom", func(t *testing.T) {
		trace = nil
		stack := newBehaviorStack(record("initial"))
		stack.Pop()
		stack.Pop()
		require.Equal(t, 1, stack.Len())
		stack.Peek()(nil)
		assert.Equal(t, []string{"initial"}, trace)
	})
}
