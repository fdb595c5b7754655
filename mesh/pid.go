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
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"

	gerrors "github.com/meshwork-io/meshwork/errors"
)

// processing states for the single-flight drain loop.
const (
	// idle means there is no goroutine draining the mailbox.
	idle int32 = iota
	// busy means exactly one goroutine is draining the mailbox.
	busy
)

// PID is the runtime handle of a spawned actor. It owns the actor's mailbox,
// its behavior stack and the single drain goroutine that processes envelopes
// one at a time.
type PID struct {
	address   string
	mesh      *Mesh
	mailbox   Mailbox
	behaviors *behaviorStack

	// processing arbitrates the drain loop: only the goroutine that flips
	// idle to busy may dequeue.
	processing *atomic.Int32
	// running gates intake. Once false the actor accepts no new envelopes.
	running *atomic.Bool

	preStart  func(ctx context.Context) error
	postStop  func(ctx context.Context) error
	startedAt time.Time

	panicsCount *atomic.Int64
	processed   *atomic.Int64

	cleanupOnce sync.Once
	stopped     chan struct{}
}

// newPID creates the runtime handle and runs the PreStart hook with retries.
// A PreStart that still fails after all retries aborts the spawn.
func newPID(address string, behavior Behavior, mesh *Mesh, cfg *spawnConfig) (*PID, error) {
	pid := &PID{
		address:     address,
		mesh:        mesh,
		mailbox:     cfg.mailbox,
		behaviors:   newBehaviorStack(behavior),
		processing:  atomic.NewInt32(idle),
		running:     atomic.NewBool(false),
		preStart:    cfg.preStart,
		postStop:    cfg.postStop,
		panicsCount: atomic.NewInt64(0),
		processed:   atomic.NewInt64(0),
		stopped:     make(chan struct{}),
	}

	if pid.preStart != nil {
		retrier := retry.NewRetrier(cfg.preStartRetries, 100*time.Millisecond, time.Second)
		if err := retrier.RunContext(context.Background(), pid.preStart); err != nil {
			return nil, gerrors.NewErrPreStartFailure(err)
		}
	}

	pid.startedAt = time.Now()
	pid.running.Store(true)
	return pid, nil
}

// Address returns the actor's mesh-unique address.
func (pid *PID) Address() string {
	return pid.address
}

// IsRunning reports whether the actor still accepts envelopes.
func (pid *PID) IsRunning() bool {
	return pid.running.Load()
}

// ProcessedCount returns the number of envelopes the actor has handled.
func (pid *PID) ProcessedCount() int64 {
	return pid.processed.Load()
}

// PanicsCount returns the number of behavior panics the actor has survived.
func (pid *PID) PanicsCount() int64 {
	return pid.panicsCount.Load()
}

// MailboxLen returns the number of envelopes waiting in the mailbox.
func (pid *PID) MailboxLen() int64 {
	return pid.mailbox.Len()
}

// StartedAt returns the time the actor finished starting.
func (pid *PID) StartedAt() time.Time {
	return pid.startedAt
}

// doReceive enqueues one envelope and schedules a drain. Envelopes offered
// to a stopped actor or to a full mailbox are reported back to the caller
// for dead-lettering.
func (pid *PID) doReceive(envelope *Envelope) error {
	if !pid.running.Load() {
		return gerrors.ErrDead
	}
	if err := pid.mailbox.Enqueue(envelope); err != nil {
		return err
	}
	pid.process()
	return nil
}

// process starts the drain goroutine when none is active. The idle/busy
// swap guarantees at most one drainer per actor, which is what serializes
// envelope handling without a dedicated goroutine per actor.
func (pid *PID) process() {
	if pid.processing.CompareAndSwap(idle, busy) {
		go pid.drain()
	}
}

// drain pops and handles envelopes until the mailbox looks empty, then
// flips back to idle. The re-check after flipping closes the race where an
// envelope lands between the last pop and the flip.
func (pid *PID) drain() {
	defer func() {
		if !pid.running.Load() {
			pid.cleanup()
		}
	}()

	for {
		if !pid.running.Load() {
			return
		}
		if envelope := pid.mailbox.Dequeue(); envelope != nil {
			pid.handle(envelope)
			continue
		}

		pid.processing.Store(idle)
		if pid.mailbox.IsEmpty() || !pid.running.Load() {
			return
		}
		if !pid.processing.CompareAndSwap(idle, busy) {
			return
		}
	}
}

// handle runs the active behavior on one envelope with panic isolation.
// Expired envelopes are dead-lettered without touching the behavior.
func (pid *PID) handle(envelope *Envelope) {
	if envelope.IsExpired() {
		pid.mesh.router.deadLetter(envelope, gerrors.ErrEnvelopeExpired)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			pid.panicsCount.Inc()
			pid.mesh.metric.incPanics(pid.address)
			err := gerrors.NewPanicError(fmt.Errorf("%v\n%s", r, string(debug.Stack())))
			pid.mesh.router.deadLetter(envelope, err)
		}
	}()

	ctx := getContext().build(pid, envelope)
	defer releaseContext(ctx)

	pid.behaviors.Peek()(ctx)
	pid.processed.Inc()
	pid.mesh.metric.incDelivered(pid.address)
}

// Shutdown stops the actor through its handle and waits for its cleanup,
// bounded by the context. Unlike Mesh.Kill it also reaches actors whose
// address binding was replaced by a later Spawn.
func (pid *PID) Shutdown(ctx context.Context) error {
	if current, ok := pid.mesh.router.lookup(pid.address); ok && current == pid {
		pid.mesh.router.registry.delete(pid.address)
		pid.mesh.router.stopPID(pid)
	} else {
		// displaced handle: pending asks keyed by this address belong to
		// the current binding, leave them alone
		pid.stop()
	}
	return pid.awaitStop(ctx)
}

// stop closes intake and nudges the drain loop so cleanup runs even when
// the mailbox is already empty and no drainer is active.
func (pid *PID) stop() {
	if !pid.running.CompareAndSwap(true, false) {
		return
	}
	if pid.processing.CompareAndSwap(idle, busy) {
		go pid.drain()
	}
}

// cleanup dead-letters abandoned envelopes, runs PostStop and publishes the
// lifecycle event. It runs exactly once, on the drain goroutine, after
// intake has closed.
func (pid *PID) cleanup() {
	pid.cleanupOnce.Do(func() {
		for _, envelope := range pid.mailbox.DrainAll() {
			pid.mesh.router.deadLetter(envelope, gerrors.ErrDead)
		}
		pid.mailbox.Dispose()

		if pid.postStop != nil {
			if err := pid.postStop(context.Background()); err != nil {
				pid.mesh.logger.Errorf("actor=(%s) postStop failed: %v", pid.address, err)
			}
		}

		pid.mesh.eventsStream.Publish(TopicLifecycle, &ActorKilled{
			Address: pid.address,
			At:      time.Now(),
		})
		close(pid.stopped)
	})
}

// awaitStop blocks until cleanup has finished or the context expires.
func (pid *PID) awaitStop(ctx context.Context) error {
	select {
	case <-pid.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
