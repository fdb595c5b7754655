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

	"go.uber.org/atomic"

	gerrors "github.com/meshwork-io/meshwork/errors"
)

// PriorityMailbox is the default mailbox: a bounded queue partitioned into
// four priority lanes, drained strictly high-to-low.
//
// Semantics
//   - The capacity bound covers all lanes together. Enqueue rejects with
//     errors.ErrMailboxFull once the total count reaches capacity; nothing
//     blocks and nothing is partially accepted.
//   - Dequeue scans lanes from PriorityCritical down to PriorityLow and
//     returns the head of the first non-empty lane. Within a lane envelopes
//     are strictly FIFO.
//   - No starvation protection: a sustained stream of critical traffic can
//     delay low-priority envelopes indefinitely. Critical signals must win.
//
// Concurrency
//   - Safe for multiple concurrent producers; a single mutex guards the lanes.
//   - Dequeue is intended for a single consumer goroutine.
type PriorityMailbox struct {
	mu       sync.Mutex
	lanes    [numLanes][]*Envelope
	capacity int
	size     *atomic.Int64
}

// enforce compilation error
var _ Mailbox = (*PriorityMailbox)(nil)

// NewPriorityMailbox creates a PriorityMailbox with the given capacity.
// A non-positive capacity falls back to DefaultMailboxCapacity.
func NewPriorityMailbox(capacity int) *PriorityMailbox {
	if capacity <= 0 {
		capacity = DefaultMailboxCapacity
	}
	return &PriorityMailbox{
		capacity: capacity,
		size:     atomic.NewInt64(0),
	}
}

// Enqueue appends the envelope to the lane matching its priority.
// It returns errors.ErrMailboxFull when the mailbox is at capacity; the
// envelope is then dropped, not queued.
func (m *PriorityMailbox) Enqueue(envelope *Envelope) error {
	m.mu.Lock()
	if m.size.Load() >= int64(m.capacity) {
		m.mu.Unlock()
		return gerrors.ErrMailboxFull
	}
	lane := clampPriority(envelope.Priority())
	m.lanes[lane] = append(m.lanes[lane], envelope)
	m.size.Inc()
	m.mu.Unlock()
	return nil
}

// Dequeue removes and returns the head of the highest-priority non-empty
// lane, or nil when the mailbox is empty.
func (m *PriorityMailbox) Dequeue() *Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	for lane := PriorityCritical; lane >= PriorityLow; lane-- {
		if len(m.lanes[lane]) == 0 {
			continue
		}
		envelope := m.lanes[lane][0]
		m.lanes[lane][0] = nil
		m.lanes[lane] = m.lanes[lane][1:]
		m.size.Dec()
		return envelope
	}
	return nil
}

// Peek returns the envelope Dequeue would return next without removing it,
// or nil when the mailbox is empty.
func (m *PriorityMailbox) Peek() *Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	for lane := PriorityCritical; lane >= PriorityLow; lane-- {
		if len(m.lanes[lane]) > 0 {
			return m.lanes[lane][0]
		}
	}
	return nil
}

// DrainAll removes and returns all queued envelopes, highest-priority lane
// first and FIFO within each lane, then leaves the mailbox empty.
func (m *PriorityMailbox) DrainAll() []*Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	drained := make([]*Envelope, 0, m.size.Load())
	for lane := PriorityCritical; lane >= PriorityLow; lane-- {
		drained = append(drained, m.lanes[lane]...)
		m.lanes[lane] = nil
	}
	m.size.Store(0)
	return drained
}

// IsEmpty reports whether the mailbox currently has no envelopes.
func (m *PriorityMailbox) IsEmpty() bool {
	return m.size.Load() == 0
}

// Len returns the number of queued envelopes across all lanes.
func (m *PriorityMailbox) Len() int64 {
	return m.size.Load()
}

// Capacity returns the configured capacity bound.
func (m *PriorityMailbox) Capacity() int {
	return m.capacity
}

// Dispose discards any queued envelopes.
func (m *PriorityMailbox) Dispose() {
	m.DrainAll()
}
