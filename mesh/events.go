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

import "time"

// Event stream topics published by the mesh runtime.
const (
	// TopicLifecycle carries ActorStarted and ActorKilled events.
	TopicLifecycle = "lifecycle"
	// TopicDeadletters carries Deadletter events.
	TopicDeadletters = "deadletters"
)

// ActorStarted is published on TopicLifecycle when an actor has been
// registered with the router and can receive envelopes.
type ActorStarted struct {
	// Address is the registered actor address.
	Address string
	// At is the registration time.
	At time.Time
}

// ActorKilled is published on TopicLifecycle after an actor's final drain
// has exited and its mailbox was abandoned.
type ActorKilled struct {
	// Address is the address the actor was registered under.
	Address string
	// At is the time the actor finished shutting down.
	At time.Time
}

// Deadletter is published on TopicDeadletters whenever an envelope could not
// be delivered or matched: unknown recipient, rejected by a full mailbox,
// expired TTL, abandoned at actor death, or an orphan reply.
type Deadletter struct {
	// Envelope is the undeliverable envelope.
	Envelope *Envelope
	// Reason states why the envelope was dropped.
	Reason error
	// At is the drop time.
	At time.Time
}
