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
	gods "github.com/Workiva/go-datastructures/queue"

	gerrors "github.com/meshwork-io/meshwork/errors"
)

// BoundedMailbox is a bounded, single-lane FIFO mailbox backed by a ring
// buffer. It ignores envelope priorities entirely; use it for actors whose
// traffic is homogeneous and where the ring buffer's throughput matters more
// than lane ordering.
//
// Concurrency: safe for multiple producers (MPSC) and a single consumer.
type BoundedMailbox struct {
	underlying *gods.RingBuffer
}

// enforce compilation error
var _ Mailbox = (*BoundedMailbox)(nil)

// NewBoundedMailbox creates a bounded FIFO mailbox with the given capacity.
// A non-positive capacity falls back to DefaultMailboxCapacity.
func NewBoundedMailbox(capacity int) *BoundedMailbox {
	if capacity <= 0 {
		capacity = DefaultMailboxCapacity
	}
	return &BoundedMailbox{
		underlying: gods.NewRingBuffer(uint64(capacity)),
	}
}

// Enqueue inserts an envelope into the mailbox without blocking. It returns
// errors.ErrMailboxFull when the ring buffer is at capacity and propagates
// the underlying error when the mailbox has been disposed.
func (mailbox *BoundedMailbox) Enqueue(envelope *Envelope) error {
	ok, err := mailbox.underlying.Offer(envelope)
	if err != nil {
		return err
	}
	if !ok {
		return gerrors.ErrMailboxFull
	}
	return nil
}

// Dequeue removes and returns the next envelope in FIFO order, or nil when
// the mailbox is empty or disposed.
func (mailbox *BoundedMailbox) Dequeue() *Envelope {
	if mailbox.underlying.Len() > 0 {
		item, _ := mailbox.underlying.Get()
		if envelope, ok := item.(*Envelope); ok {
			return envelope
		}
	}
	return nil
}

// DrainAll removes and returns all queued envelopes in FIFO order.
func (mailbox *BoundedMailbox) DrainAll() []*Envelope {
	var drained []*Envelope
	for {
		envelope := mailbox.Dequeue()
		if envelope == nil {
			return drained
		}
		drained = append(drained, envelope)
	}
}

// IsEmpty reports whether the mailbox currently has no envelopes.
func (mailbox *BoundedMailbox) IsEmpty() bool {
	return mailbox.underlying.Len() == 0
}

// Len returns the current number of queued envelopes.
func (mailbox *BoundedMailbox) Len() int64 {
	return int64(mailbox.underlying.Len())
}

// Dispose releases the underlying ring buffer and unblocks any internal
// waiters it maintains. Do not use the mailbox after calling Dispose.
func (mailbox *BoundedMailbox) Dispose() {
	mailbox.underlying.Dispose()
}
