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
	"time"

	"github.com/google/uuid"
)

// Kind identifies the communication pattern an envelope belongs to.
type Kind int

const (
	// KindTell marks a fire-and-forget envelope; no reply is expected.
	KindTell Kind = iota
	// KindAsk marks a request envelope expecting exactly one correlated
	// reply or a timeout.
	KindAsk
	// KindReply marks an envelope carrying the answer to an ask, matched
	// through its correlation id.
	KindReply
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTell:
		return "tell"
	case KindAsk:
		return "ask"
	case KindReply:
		return "reply"
	default:
		return "unknown"
	}
}

// Message priorities. An envelope priority outside this range is clamped.
const (
	// PriorityLow is the lowest delivery priority.
	PriorityLow = 0
	// PriorityNormal is the default delivery priority.
	PriorityNormal = 1
	// PriorityHigh marks envelopes that should preempt normal traffic.
	PriorityHigh = 2
	// PriorityCritical marks envelopes that must win over everything else.
	PriorityCritical = 3

	numLanes = PriorityCritical + 1
)

// ExternalAddress is the synthetic sender address attached to envelopes that
// enter the mesh through its external surface rather than from an actor.
const ExternalAddress = "$external"

// Envelope is the immutable unit of communication between actors. Once
// constructed it is owned exclusively by whichever queue currently holds it:
// ownership moves from sender to router to mailbox to the draining actor and
// is never shared. The only mutation the runtime performs is appending the
// sender's address to the hop trail before routing.
type Envelope struct {
	id            string
	kind          Kind
	from          string
	to            string
	topic         string
	payload       any
	priority      int
	timestamp     time.Time
	ttl           time.Duration
	hops          []string
	correlationID string
}

// newEnvelope builds an envelope of the given kind from the send configuration.
func newEnvelope(kind Kind, from, to string, payload any, cfg *sendConfig) *Envelope {
	return &Envelope{
		id:        uuid.NewString(),
		kind:      kind,
		from:      from,
		to:        to,
		topic:     cfg.topic,
		payload:   payload,
		priority:  clampPriority(cfg.priority),
		timestamp: time.Now(),
		ttl:       cfg.ttl,
	}
}

// newReply builds the reply to an ask envelope. Priority and TTL are inherited
// from the originating envelope so that answers travel at least as urgently as
// their questions.
func newReply(from string, origin *Envelope, payload any) *Envelope {
	return &Envelope{
		id:            uuid.NewString(),
		kind:          KindReply,
		from:          from,
		to:            origin.From(),
		topic:         origin.Topic(),
		payload:       payload,
		priority:      origin.Priority(),
		timestamp:     time.Now(),
		ttl:           origin.TTL(),
		correlationID: origin.ID(),
	}
}

// ID returns the unique identifier of the envelope.
func (e *Envelope) ID() string {
	return e.id
}

// Kind returns the communication pattern of the envelope.
func (e *Envelope) Kind() Kind {
	return e.kind
}

// From returns the sender address.
func (e *Envelope) From() string {
	return e.from
}

// To returns the recipient address.
func (e *Envelope) To() string {
	return e.to
}

// Topic returns the optional routing/classification tag. The core treats it
// as opaque.
func (e *Envelope) Topic() string {
	return e.topic
}

// Payload returns the opaque application data.
func (e *Envelope) Payload() any {
	return e.payload
}

// Priority returns the clamped delivery priority.
func (e *Envelope) Priority() int {
	return e.priority
}

// Timestamp returns the envelope creation time.
func (e *Envelope) Timestamp() time.Time {
	return e.timestamp
}

// TTL returns the maximum lifetime of the envelope. Zero means no expiry.
func (e *Envelope) TTL() time.Duration {
	return e.ttl
}

// CorrelationID returns the id of the originating ask for reply envelopes,
// or the originating tell when a behavior answers a fire-and-forget sender.
func (e *Envelope) CorrelationID() string {
	return e.correlationID
}

// Hops returns a copy of the addresses the envelope has passed through,
// in forwarding order.
func (e *Envelope) Hops() []string {
	out := make([]string, len(e.hops))
	copy(out, e.hops)
	return out
}

// IsExpired reports whether the envelope outlived its TTL. Expiry is
// evaluated when an actor pops the envelope for processing: expired
// envelopes are dropped as dead letters and the drain continues.
func (e *Envelope) IsExpired() bool {
	return e.ttl > 0 && time.Since(e.timestamp) > e.ttl
}

// appendHop records the address forwarding this envelope. Called by the
// sender before the envelope is handed to the router, while it still owns
// the envelope exclusively.
func (e *Envelope) appendHop(address string) {
	e.hops = append(e.hops, address)
}

// clampPriority forces a priority into the supported lane range.
func clampPriority(priority int) int {
	if priority < PriorityLow {
		return PriorityLow
	}
	if priority > PriorityCritical {
		return PriorityCritical
	}
	return priority
}
