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

	gerrors "github.com/meshwork-io/meshwork/errors"
	"github.com/meshwork-io/meshwork/future"
	"github.com/meshwork-io/meshwork/internal/collection"
)

// pendingAsk tracks one in-flight ask: the completable the asker awaits and
// the timer that fails it when no reply lands in time.
type pendingAsk struct {
	recipient   string
	completable future.Completable
	timer       *time.Timer
}

// router owns the address registry and the ask correlation table. All
// delivery, reply matching and dead-lettering funnels through it; envelopes
// are never mutated to carry correlation state.
type router struct {
	mesh     *Mesh
	registry *pidMap
	pending  *collection.Map[string, *pendingAsk]
}

func newRouter(mesh *Mesh) *router {
	return &router{
		mesh:     mesh,
		registry: newPIDMap(initialRegistrySize),
		pending:  collection.NewMap[string, *pendingAsk](),
	}
}

// register binds an address to a PID. A previous binding for the same
// address is replaced; the displaced actor keeps running and must be shut
// down explicitly through its handle.
func (r *router) register(pid *PID) {
	r.registry.set(pid)
}

// lookup returns the PID bound to the given address.
func (r *router) lookup(address string) (*PID, bool) {
	return r.registry.get(address)
}

// addresses returns the addresses of all live actors.
func (r *router) addresses() []string {
	pids := r.registry.pids()
	out := make([]string, 0, len(pids))
	for _, pid := range pids {
		out = append(out, pid.Address())
	}
	return out
}

// route delivers one envelope. Replies are matched against the pending ask
// table; tells and asks go to the recipient's mailbox. Anything
// undeliverable becomes a dead letter.
func (r *router) route(envelope *Envelope) {
	if envelope.Kind() == KindReply {
		r.resolveReply(envelope)
		return
	}

	pid, ok := r.registry.get(envelope.To())
	if !ok {
		r.deadLetter(envelope, gerrors.ErrUnknownRecipient)
		return
	}

	if err := pid.doReceive(envelope); err != nil {
		r.deadLetter(envelope, err)
	}
}

// ask registers a pending entry keyed by the envelope id, arms the timeout
// and then delivers the request. The future settles exactly once: reply,
// timeout, recipient death or immediate delivery failure, whichever comes
// first.
func (r *router) ask(envelope *Envelope, timeout time.Duration) future.Future {
	completable := future.NewCompletable()
	if timeout <= 0 {
		timeout = r.mesh.askTimeout
	}

	entry := &pendingAsk{
		recipient:   envelope.To(),
		completable: completable,
	}
	entry.timer = time.AfterFunc(timeout, func() {
		if _, ok := r.pending.Remove(envelope.ID()); ok {
			r.mesh.metric.incAskTimeouts()
			completable.Failure(gerrors.ErrAskTimeout)
		}
	})
	r.pending.Set(envelope.ID(), entry)

	pid, ok := r.registry.get(envelope.To())
	if !ok {
		r.failPending(envelope.ID(), gerrors.ErrUnknownRecipient)
		r.deadLetter(envelope, gerrors.ErrUnknownRecipient)
		return completable.Future()
	}

	if err := pid.doReceive(envelope); err != nil {
		r.failPending(envelope.ID(), err)
		r.deadLetter(envelope, err)
	}
	return completable.Future()
}

// resolveReply settles the pending ask matching the reply's correlation id.
// A reply with no live pending entry, including one arriving after the
// timeout fired, is an orphan and is dead-lettered with no further effect.
func (r *router) resolveReply(envelope *Envelope) {
	entry, ok := r.pending.Remove(envelope.CorrelationID())
	if !ok {
		r.deadLetter(envelope, gerrors.ErrOrphanReply)
		return
	}
	entry.timer.Stop()
	entry.completable.Success(envelope.Payload())
}

// failPending removes and fails one pending ask, if it is still live.
func (r *router) failPending(id string, err error) {
	if entry, ok := r.pending.Remove(id); ok {
		entry.timer.Stop()
		entry.completable.Failure(err)
	}
}

// kill stops the actor at the given address and fails every pending ask
// addressed to it, so askers never hang on a dead recipient.
func (r *router) kill(address string) error {
	pid, ok := r.registry.get(address)
	if !ok {
		return gerrors.ErrUnknownRecipient
	}
	r.registry.delete(address)
	r.stopPID(pid)
	return nil
}

// stopPID closes an actor's intake and reconciles its pending asks.
func (r *router) stopPID(pid *PID) {
	pid.stop()
	address := pid.Address()
	var stale []string
	r.pending.Range(func(id string, entry *pendingAsk) {
		if entry.recipient == address {
			stale = append(stale, id)
		}
	})
	for _, id := range stale {
		r.failPending(id, gerrors.ErrRecipientUnavailable)
	}
}

// deadLetter records an undeliverable or failed envelope: a warn log, the
// counter, and a publication on the dead letters topic for subscribers.
func (r *router) deadLetter(envelope *Envelope, reason error) {
	r.mesh.logger.Warnf("deadletter to=(%s) from=(%s) kind=(%s) reason: %v",
		envelope.To(), envelope.From(), envelope.Kind(), reason)
	r.mesh.metric.incDeadletters()
	r.mesh.eventsStream.Publish(TopicDeadletters, &Deadletter{
		Envelope: envelope,
		Reason:   reason,
		At:       time.Now(),
	})
}
