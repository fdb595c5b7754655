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
	"sync"
	"sync/atomic"
)

// mpscNode is a node of the unbounded MPSC queue, specialized for *Envelope.
type mpscNode struct {
	next atomic.Pointer[mpscNode]
	data *Envelope
}

// Single global pool for mpscNode to avoid per-op allocations.
var mpscNodePool = sync.Pool{New: func() any { return new(mpscNode) }}

// UnboundedMailbox is an unbounded, lock-free MPSC mailbox. Enqueue never
// rejects, so actors using it never shed load; pair it with behaviors that
// are guaranteed to keep up, or memory grows without bound.
//
// Characteristics
//   - FIFO ordering across all producers; envelope priorities are ignored.
//   - Lock-free operations via atomic pointer primitives.
//   - Nodes are reused through a sync.Pool to avoid per-envelope allocations.
//
// Not safe for multiple concurrent Dequeue callers.
type UnboundedMailbox struct {
	// Separate cache lines to avoid false sharing between producers and consumer
	head  atomic.Pointer[mpscNode] // consumer only
	_pad1 [64]byte
	tail  atomic.Pointer[mpscNode] // producers only
	_pad2 [64]byte
}

// enforce compilation error
var _ Mailbox = (*UnboundedMailbox)(nil)

// NewUnboundedMailbox creates and initializes an UnboundedMailbox. The queue
// starts with a dummy node so producers append by swapping the tail and
// linking through the previous node.
func NewUnboundedMailbox() *UnboundedMailbox {
	dummy := mpscNodePool.Get().(*mpscNode)
	dummy.next.Store(nil)
	dummy.data = nil
	m := &UnboundedMailbox{}
	m.head.Store(dummy)
	m.tail.Store(dummy)
	return m
}

// Enqueue places the envelope in the mailbox. Never blocks, never rejects;
// always returns nil. Safe for concurrent producers.
func (m *UnboundedMailbox) Enqueue(envelope *Envelope) error {
	n := mpscNodePool.Get().(*mpscNode)
	n.data = envelope

	prev := m.tail.Swap(n)
	prev.next.Store(n)
	return nil
}

// Dequeue removes and returns the envelope at the head of the mailbox, or
// nil when the mailbox is empty. Must be called by a single consumer.
func (m *UnboundedMailbox) Dequeue() *Envelope {
	head := m.head.Load() // single consumer
	next := head.next.Load()

	if next == nil {
		return nil
	}

	m.head.Store(next)
	envelope := next.data

	// Return old head to pool for reuse
	head.next.Store(nil)
	head.data = nil
	mpscNodePool.Put(head)
	return envelope
}

// DrainAll removes and returns all queued envelopes in FIFO order.
func (m *UnboundedMailbox) DrainAll() []*Envelope {
	var drained []*Envelope
	for {
		envelope := m.Dequeue()
		if envelope == nil {
			return drained
		}
		drained = append(drained, envelope)
	}
}

// IsEmpty reports whether the mailbox currently has no envelopes. Under
// heavy contention it can briefly report empty between the tail swap and the
// link; no envelopes are lost.
func (m *UnboundedMailbox) IsEmpty() bool {
	head := m.head.Load()
	return head.next.Load() == nil
}

// Len returns a best-effort snapshot of the number of queued envelopes.
// It performs an O(n) traversal and is intended for diagnostics.
func (m *UnboundedMailbox) Len() int64 {
	var count int64
	node := m.head.Load().next.Load()
	for node != nil {
		count++
		node = node.next.Load()
	}
	return count
}

// Dispose discards any queued envelopes.
func (m *UnboundedMailbox) Dispose() {
	m.DrainAll()
}
