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

// Mailbox defines the contract for an actor's envelope queue.
//
// Concurrency and ordering
//   - Implementations MUST be thread-safe for multiple concurrent producers
//     calling Enqueue.
//   - The actor runtime consumes from a single goroutine, so implementations
//     SHOULD optimize Dequeue for a single consumer (MPSC).
//   - The default expectation is FIFO ordering. The priority mailbox orders
//     across lanes first and documents so explicitly.
//
// Non-blocking behavior
//   - Enqueue MUST NOT block. Bounded implementations MUST return
//     errors.ErrMailboxFull when full instead of blocking.
//   - Dequeue MUST NOT block and returns nil when the mailbox is empty.
//     The actor runtime polls Dequeue in a loop.
//
// Resource management
//   - DrainAll removes and returns every queued envelope; the runtime uses it
//     to dead-letter abandoned envelopes when an actor is killed.
//   - Dispose MUST release any resources held by the implementation. After
//     Dispose, Enqueue SHOULD fail and Dequeue SHOULD return nil.
type Mailbox interface {
	// Enqueue pushes an envelope into the mailbox. Bounded queues MUST
	// return errors.ErrMailboxFull when full. Safe for concurrent producers.
	Enqueue(envelope *Envelope) error
	// Dequeue removes and returns the next envelope, or nil when the mailbox
	// is empty. Intended for a single consumer goroutine.
	Dequeue() *Envelope
	// DrainAll removes and returns all queued envelopes in dequeue order and
	// leaves the mailbox empty.
	DrainAll() []*Envelope
	// IsEmpty reports whether the mailbox currently has no envelopes.
	// This is a best-effort snapshot under concurrency.
	IsEmpty() bool
	// Len returns a snapshot of the number of queued envelopes.
	Len() int64
	// Dispose releases any resources used by the implementation. The mailbox
	// MUST NOT be used after Dispose returns.
	Dispose()
}
