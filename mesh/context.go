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
	"github.com/meshwork-io/meshwork/future"
	"github.com/meshwork-io/meshwork/log"
)

// contextPoolSize bounds the channel-based pool for Context. Items in a
// channel survive GC cycles, which keeps allocation behavior stable under
// burst traffic compared to sync.Pool.
const contextPoolSize = 256

// contextCh is a channel-based bounded pool for Context objects.
var contextCh = make(chan *Context, contextPoolSize)

// getContext retrieves a Context from the pool, falling back to a heap
// allocation when the pool is empty.
func getContext() *Context {
	select {
	case ctx := <-contextCh:
		return ctx
	default:
		return new(Context)
	}
}

// releaseContext resets the context and returns it to the pool. When the
// pool is full the context is dropped for GC collection.
func releaseContext(ctx *Context) {
	ctx.reset()
	select {
	case contextCh <- ctx:
	default:
	}
}

// Context carries the per-envelope operations available to a behavior while
// it handles a single envelope.
//
// Lifecycle: a Context is created by the runtime for each delivered envelope
// and is only valid within the scope of handling that envelope. Behaviors
// must not retain it (or closures over it) beyond the current invocation.
type Context struct {
	pid      *PID
	envelope *Envelope
}

// build populates the context for one envelope delivery.
func (ctx *Context) build(pid *PID, envelope *Envelope) *Context {
	ctx.pid = pid
	ctx.envelope = envelope
	return ctx
}

// reset clears the context before it returns to the pool.
func (ctx *Context) reset() {
	ctx.pid = nil
	ctx.envelope = nil
}

// Self returns the address of the actor handling the envelope.
func (ctx *Context) Self() string {
	return ctx.pid.Address()
}

// Envelope returns the envelope being handled.
func (ctx *Context) Envelope() *Envelope {
	return ctx.envelope
}

// Payload is a shortcut for Envelope().Payload().
func (ctx *Context) Payload() any {
	return ctx.envelope.Payload()
}

// Logger returns the runtime logger.
func (ctx *Context) Logger() log.Logger {
	return ctx.pid.mesh.logger
}

// Reply routes an answer back to the sender of the envelope being handled.
//
// For an ask, the reply carries the envelope id as correlation id and
// settles the asker's future. For a tell from a known sender, the answer is
// delivered as a fresh tell to the sender's mailbox, with the correlation id
// set for application-level matching. Reply is a no-op when the envelope is
// itself a reply, carries no sender, or is a tell from outside the mesh.
func (ctx *Context) Reply(payload any) {
	envelope := ctx.envelope
	if envelope.Kind() == KindReply || envelope.From() == "" {
		return
	}

	var reply *Envelope
	switch envelope.Kind() {
	case KindAsk:
		reply = newReply(ctx.pid.Address(), envelope, payload)
	default:
		// an external tell has no mailbox to answer to; external callers
		// expecting an answer use Ask
		if envelope.From() == ExternalAddress {
			return
		}
		reply = newEnvelope(KindTell, ctx.pid.Address(), envelope.From(), payload, &sendConfig{
			priority: envelope.Priority(),
			ttl:      envelope.TTL(),
			topic:    envelope.Topic(),
		})
		reply.correlationID = envelope.ID()
	}
	reply.appendHop(ctx.pid.Address())
	ctx.pid.mesh.router.route(reply)
}

// Tell sends a fire-and-forget envelope to another actor. The priority
// defaults to PriorityNormal; the TTL is inherited from the envelope being
// handled unless overridden with WithTTL.
func (ctx *Context) Tell(to string, payload any, opts ...SendOption) {
	cfg := newSendConfig(opts...)
	if !cfg.ttlSet {
		cfg.ttl = ctx.envelope.TTL()
	}
	envelope := newEnvelope(KindTell, ctx.pid.Address(), to, payload, cfg)
	envelope.appendHop(ctx.pid.Address())
	ctx.pid.mesh.router.route(envelope)
}

// Ask sends a request envelope and returns a future the router settles when
// a correlated reply arrives, the ask times out, or the recipient is
// unknown. The returned future must be awaited outside the mailbox-ordering
// expectations: draining continues while the ask is in flight.
func (ctx *Context) Ask(to string, payload any, opts ...SendOption) future.Future {
	cfg := newSendConfig(opts...)
	if !cfg.ttlSet {
		cfg.ttl = ctx.envelope.TTL()
	}
	envelope := newEnvelope(KindAsk, ctx.pid.Address(), to, payload, cfg)
	envelope.appendHop(ctx.pid.Address())
	return ctx.pid.mesh.router.ask(envelope, cfg.timeout)
}

// Become replaces the actor's behavior for all subsequent envelopes,
// including ones already queued but not yet popped. It is not retroactive
// to the envelope currently mid-processing.
func (ctx *Context) Become(behavior Behavior) {
	ctx.pid.behaviors.Replace(behavior)
}

// BecomeStacked makes the given behavior active while keeping the current
// one underneath for UnBecome.
func (ctx *Context) BecomeStacked(behavior Behavior) {
	ctx.pid.behaviors.Push(behavior)
}

// UnBecome restores the behavior active before the last BecomeStacked.
func (ctx *Context) UnBecome() {
	ctx.pid.behaviors.Pop()
}

// Stop kills the actor from within its own behavior. The envelope currently
// being handled finishes; queued envelopes are abandoned as dead letters.
func (ctx *Context) Stop() {
	ctx.pid.mesh.router.kill(ctx.pid.Address())
}
