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

import "sync"

// Behavior handles a single envelope. It runs to completion before the next
// envelope is popped and must not retain the context beyond its own
// invocation: a subsequent Become may invalidate any assumption it captured.
type Behavior func(ctx *Context)

// behaviorStack holds an actor's replaceable behaviors. The bottom of the
// stack is the behavior the actor was spawned with; Become swaps the top,
// BecomeStacked pushes, UnBecome pops back to the previous one.
type behaviorStack struct {
	mu    sync.RWMutex
	stack []Behavior
}

// newBehaviorStack creates a stack seeded with the initial behavior.
func newBehaviorStack(initial Behavior) *behaviorStack {
	return &behaviorStack{
		stack: []Behavior{initial},
	}
}

// Peek returns the currently active behavior.
func (bs *behaviorStack) Peek() Behavior {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	if len(bs.stack) == 0 {
		return nil
	}
	return bs.stack[len(bs.stack)-1]
}

// Replace swaps the active behavior. It takes effect for every envelope
// popped after the swap, including ones already queued.
func (bs *behaviorStack) Replace(behavior Behavior) {
	bs.mu.Lock()
	bs.stack[len(bs.stack)-1] = behavior
	bs.mu.Unlock()
}

// Push makes the given behavior active while keeping the previous one
// underneath for UnBecome.
func (bs *behaviorStack) Push(behavior Behavior) {
	bs.mu.Lock()
	bs.stack = append(bs.stack, behavior)
	bs.mu.Unlock()
}

// Pop restores the behavior active before the last Push. The initial
// behavior at the bottom of the stack is never popped.
func (bs *behaviorStack) Pop() {
	bs.mu.Lock()
	if len(bs.stack) > 1 {
		bs.stack[len(bs.stack)-1] = nil
		bs.stack = bs.stack[:len(bs.stack)-1]
	}
	bs.mu.Unlock()
}

// Len returns the stack depth.
func (bs *behaviorStack) Len() int {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return len(bs.stack)
}
