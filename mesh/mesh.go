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
	"os"
	"regexp"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/meshwork-io/meshwork/errors"
	"github.com/meshwork-io/meshwork/eventstream"
	"github.com/meshwork-io/meshwork/future"
	"github.com/meshwork-io/meshwork/log"
)

// meshNamePattern constrains mesh and actor names to word characters with
// non-leading dashes and underscores.
var meshNamePattern = regexp.MustCompile("^[a-zA-Z0-9][a-zA-Z0-9-_]*$")

// Mesh is an in-process actor runtime. Actors are spawned under unique
// addresses, exchange envelopes through priority mailboxes, and are driven
// by a shared router that also correlates asks with their replies.
//
// A Mesh must be started before use and shut down to release its actors:
//
//	m, _ := mesh.New("orders")
//	_ = m.Start(ctx)
//	defer m.Shutdown(ctx)
type Mesh struct {
	name    string
	logger  log.Logger
	started *atomic.Bool

	router       *router
	scheduler    *scheduler
	eventsStream eventstream.Stream

	askTimeout      time.Duration
	mailboxCapacity int

	meter  metric.Meter
	metric *meshMetric
}

// New creates a mesh with the given name. The name must match
// ^[a-zA-Z0-9][a-zA-Z0-9-_]*$.
func New(name string, opts ...Option) (*Mesh, error) {
	if !meshNamePattern.MatchString(name) {
		return nil, gerrors.ErrInvalidMeshName
	}

	m := &Mesh{
		name:            name,
		logger:          log.New(log.ErrorLevel, os.Stderr),
		started:         atomic.NewBool(false),
		eventsStream:    eventstream.New(),
		askTimeout:      DefaultAskTimeout,
		mailboxCapacity: DefaultMailboxCapacity,
	}
	for _, opt := range opts {
		opt.Apply(m)
	}

	if m.askTimeout <= 0 {
		return nil, gerrors.ErrInvalidTimeout
	}

	m.router = newRouter(m)
	m.scheduler = newScheduler(m.logger, DefaultShutdownTimeout)

	if m.meter != nil {
		mm, err := newMeshMetric(m.meter)
		if err != nil {
			return nil, err
		}
		m.metric = mm
	}
	return m, nil
}

// Name returns the mesh name.
func (m *Mesh) Name() string {
	return m.name
}

// Logger returns the mesh logger.
func (m *Mesh) Logger() log.Logger {
	return m.logger
}

// Running reports whether the mesh has been started and not yet shut down.
func (m *Mesh) Running() bool {
	return m.started.Load()
}

// Start starts the mesh and its scheduler.
func (m *Mesh) Start(ctx context.Context) error {
	if !m.started.CompareAndSwap(false, true) {
		return nil
	}
	m.logger.Infof("mesh=(%s) starting...", m.name)
	m.scheduler.Start(ctx)
	m.logger.Infof("mesh=(%s) started", m.name)
	return nil
}

// Spawn creates an actor under the given address with the given initial
// behavior. Spawning on an address that is already bound replaces the
// binding without killing the previous actor; shut the displaced actor down
// through its handle to avoid orphaned live actors. The PreStart hook, when
// set, runs to completion before the actor becomes reachable; its failure
// aborts the spawn.
func (m *Mesh) Spawn(address string, behavior Behavior, opts ...SpawnOption) (*PID, error) {
	if !m.started.Load() {
		return nil, gerrors.ErrMeshNotStarted
	}
	if address == "" {
		return nil, gerrors.ErrAddressRequired
	}
	if !meshNamePattern.MatchString(address) {
		return nil, gerrors.ErrInvalidMeshName
	}
	if behavior == nil {
		return nil, gerrors.ErrBehaviorRequired
	}

	cfg := newSpawnConfig(m.mailboxCapacity, opts...)
	pid, err := newPID(address, behavior, m, cfg)
	if err != nil {
		return nil, err
	}

	m.router.register(pid)
	m.eventsStream.Publish(TopicLifecycle, &ActorStarted{
		Address: address,
		At:      pid.StartedAt(),
	})
	m.logger.Infof("actor=(%s) spawned in mesh=(%s)", address, m.name)
	return pid, nil
}

// Actor returns the PID bound to the given address.
func (m *Mesh) Actor(address string) (*PID, bool) {
	return m.router.lookup(address)
}

// Addresses returns the addresses of all live actors.
func (m *Mesh) Addresses() []string {
	return m.router.addresses()
}

// ActorsCount returns the number of live actors.
func (m *Mesh) ActorsCount() int {
	return m.router.registry.len()
}

// Tell sends a fire-and-forget envelope from outside the mesh. Delivery
// failures, unknown recipients included, surface as dead letters rather
// than errors.
func (m *Mesh) Tell(to string, payload any, opts ...SendOption) error {
	if !m.started.Load() {
		return gerrors.ErrMeshNotStarted
	}
	envelope := newEnvelope(KindTell, ExternalAddress, to, payload, newSendConfig(opts...))
	m.router.route(envelope)
	return nil
}

// Ask sends a request from outside the mesh and blocks until the reply
// arrives, the ask deadline fires, or the context expires. The deadline
// defaults to the mesh ask timeout and can be overridden with WithTimeout.
func (m *Mesh) Ask(ctx context.Context, to string, payload any, opts ...SendOption) (any, error) {
	f, err := m.AskAsync(to, payload, opts...)
	if err != nil {
		return nil, err
	}
	return f.Await(ctx)
}

// AskAsync sends a request from outside the mesh and returns a future that
// settles with the reply payload or the delivery failure.
func (m *Mesh) AskAsync(to string, payload any, opts ...SendOption) (future.Future, error) {
	if !m.started.Load() {
		return nil, gerrors.ErrMeshNotStarted
	}
	cfg := newSendConfig(opts...)
	envelope := newEnvelope(KindAsk, ExternalAddress, to, payload, cfg)
	return m.router.ask(envelope, cfg.timeout), nil
}

// Kill stops the actor at the given address. The envelope in flight, if
// any, finishes; queued envelopes are dead-lettered and pending asks
// addressed to the actor fail with ErrRecipientUnavailable.
func (m *Mesh) Kill(address string) error {
	if !m.started.Load() {
		return gerrors.ErrMeshNotStarted
	}
	if err := m.router.kill(address); err != nil {
		return err
	}
	m.logger.Infof("actor=(%s) killed in mesh=(%s)", address, m.name)
	return nil
}

// ScheduleOnce delivers a tell to the given actor once after the interval.
func (m *Mesh) ScheduleOnce(to string, payload any, interval time.Duration, opts ...SendOption) error {
	if !m.started.Load() {
		return gerrors.ErrMeshNotStarted
	}
	return m.scheduler.ScheduleOnce(func() error {
		return m.Tell(to, payload, opts...)
	}, interval)
}

// Schedule delivers a tell to the given actor repeatedly at the interval.
func (m *Mesh) Schedule(to string, payload any, interval time.Duration, opts ...SendOption) error {
	if !m.started.Load() {
		return gerrors.ErrMeshNotStarted
	}
	return m.scheduler.Schedule(func() error {
		return m.Tell(to, payload, opts...)
	}, interval)
}

// ScheduleWithCron delivers a tell to the given actor per the cron
// expression.
func (m *Mesh) ScheduleWithCron(to string, payload any, cronExpression string, opts ...SendOption) error {
	if !m.started.Load() {
		return gerrors.ErrMeshNotStarted
	}
	return m.scheduler.ScheduleWithCron(func() error {
		return m.Tell(to, payload, opts...)
	}, cronExpression)
}

// Subscribe returns a subscriber attached to the given topics. Lifecycle
// events are published on TopicLifecycle and dead letters on
// TopicDeadletters.
func (m *Mesh) Subscribe(topics ...string) (eventstream.Subscriber, error) {
	if !m.started.Load() {
		return nil, gerrors.ErrMeshNotStarted
	}
	subscriber := m.eventsStream.AddSubscriber()
	for _, topic := range topics {
		m.eventsStream.Subscribe(subscriber, topic)
	}
	return subscriber, nil
}

// Unsubscribe detaches the subscriber from the given topics.
func (m *Mesh) Unsubscribe(subscriber eventstream.Subscriber, topics ...string) {
	for _, topic := range topics {
		m.eventsStream.Unsubscribe(subscriber, topic)
	}
}

// Shutdown stops the scheduler, kills all actors concurrently and closes
// the event stream. It waits for each actor's in-flight envelope and
// PostStop hook, bounded by the context deadline.
func (m *Mesh) Shutdown(ctx context.Context) error {
	if !m.started.CompareAndSwap(true, false) {
		return gerrors.ErrMeshNotStarted
	}
	m.logger.Infof("mesh=(%s) shutting down...", m.name)

	m.scheduler.Stop(ctx)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultShutdownTimeout)
		defer cancel()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, pid := range m.router.registry.pids() {
		pid := pid
		eg.Go(func() error {
			m.router.stopPID(pid)
			return pid.awaitStop(egCtx)
		})
	}

	var err error
	if werr := eg.Wait(); werr != nil {
		err = multierr.Append(err, werr)
	}

	m.router.registry.reset()
	for _, id := range m.router.pending.Keys() {
		m.router.failPending(id, gerrors.ErrMeshNotStarted)
	}
	m.eventsStream.Close()

	if err != nil {
		m.logger.Errorf("mesh=(%s) shutdown failed: %v", m.name, err)
		return err
	}
	m.logger.Infof("mesh=(%s) shut down", m.name)
	return nil
}
