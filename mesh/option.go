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
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/meshwork-io/meshwork/log"
)

// Option is the interface that applies a mesh configuration option.
type Option interface {
	// Apply sets the Option value of a Mesh.
	Apply(m *Mesh)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Mesh)

// Apply applies the Mesh option
func (f OptionFunc) Apply(m *Mesh) {
	f(m)
}

// WithLogger sets the mesh custom logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(m *Mesh) {
		m.logger = logger
	})
}

// WithAskTimeout sets the default deadline applied to asks that do not carry
// an explicit timeout.
func WithAskTimeout(timeout time.Duration) Option {
	return OptionFunc(func(m *Mesh) {
		m.askTimeout = timeout
	})
}

// WithMailboxCapacity sets the default mailbox capacity used by Spawn when
// the caller does not override it.
func WithMailboxCapacity(capacity int) Option {
	return OptionFunc(func(m *Mesh) {
		m.mailboxCapacity = capacity
	})
}

// WithMeter enables runtime metrics recorded against the given meter.
func WithMeter(meter metric.Meter) Option {
	return OptionFunc(func(m *Mesh) {
		m.meter = meter
	})
}

// spawnConfig collects the per-actor settings applied by Spawn.
type spawnConfig struct {
	mailbox         Mailbox
	mailboxCapacity int
	preStart        func(ctx context.Context) error
	postStop        func(ctx context.Context) error
	preStartRetries int
}

// newSpawnConfig returns a spawnConfig with the mesh defaults applied.
func newSpawnConfig(defaultCapacity int, opts ...SpawnOption) *spawnConfig {
	cfg := &spawnConfig{
		mailboxCapacity: defaultCapacity,
		preStartRetries: DefaultPreStartMaxRetries,
	}
	for _, opt := range opts {
		opt.Apply(cfg)
	}
	if cfg.mailbox == nil {
		cfg.mailbox = NewPriorityMailbox(cfg.mailboxCapacity)
	}
	return cfg
}

// SpawnOption is the interface that applies a per-actor option.
type SpawnOption interface {
	// Apply sets the SpawnOption value of a spawnConfig.
	Apply(cfg *spawnConfig)
}

// enforce compilation error
var _ SpawnOption = spawnOption(nil)

// spawnOption implements the SpawnOption interface.
type spawnOption func(cfg *spawnConfig)

// Apply applies the spawn option
func (f spawnOption) Apply(cfg *spawnConfig) {
	f(cfg)
}

// WithMailbox sets the mailbox instance the actor drains. It overrides
// WithCapacity.
func WithMailbox(mailbox Mailbox) SpawnOption {
	return spawnOption(func(cfg *spawnConfig) {
		cfg.mailbox = mailbox
	})
}

// WithCapacity sets the capacity of the actor's default priority mailbox.
func WithCapacity(capacity int) SpawnOption {
	return spawnOption(func(cfg *spawnConfig) {
		cfg.mailboxCapacity = capacity
	})
}

// WithPreStart sets a hook executed before the actor is registered with the
// router. The hook is retried on failure; when every attempt fails, Spawn
// returns the error and the actor never receives an envelope.
func WithPreStart(hook func(ctx context.Context) error) SpawnOption {
	return spawnOption(func(cfg *spawnConfig) {
		cfg.preStart = hook
	})
}

// WithPreStartRetries sets how many times a failing PreStart hook is
// retried before Spawn gives up.
func WithPreStartRetries(retries int) SpawnOption {
	return spawnOption(func(cfg *spawnConfig) {
		cfg.preStartRetries = retries
	})
}

// WithPostStop sets a hook executed after the actor's final drain exits.
func WithPostStop(hook func(ctx context.Context) error) SpawnOption {
	return spawnOption(func(cfg *spawnConfig) {
		cfg.postStop = hook
	})
}

// sendConfig collects the per-envelope settings applied by Tell/Ask/Reply.
//
// ttlSet distinguishes "no TTL" from "TTL not given": envelopes sent from
// within a behavior inherit the TTL of the envelope being processed unless
// WithTTL was applied.
type sendConfig struct {
	priority int
	ttl      time.Duration
	ttlSet   bool
	topic    string
	timeout  time.Duration
}

// newSendConfig returns a sendConfig with the runtime defaults applied.
func newSendConfig(opts ...SendOption) *sendConfig {
	cfg := &sendConfig{
		priority: PriorityNormal,
	}
	for _, opt := range opts {
		opt.Apply(cfg)
	}
	return cfg
}

// SendOption is the interface that applies a per-envelope option.
type SendOption interface {
	// Apply sets the SendOption value of a sendConfig.
	Apply(cfg *sendConfig)
}

// enforce compilation error
var _ SendOption = sendOption(nil)

// sendOption implements the SendOption interface.
type sendOption func(cfg *sendConfig)

// Apply applies the send option
func (f sendOption) Apply(cfg *sendConfig) {
	f(cfg)
}

// WithPriority sets the envelope priority. Values outside the supported
// lane range are clamped.
func WithPriority(priority int) SendOption {
	return sendOption(func(cfg *sendConfig) {
		cfg.priority = priority
	})
}

// WithTTL sets the maximum lifetime of the envelope. An envelope that
// outlives its TTL before an actor pops it is dropped as a dead letter.
func WithTTL(ttl time.Duration) SendOption {
	return sendOption(func(cfg *sendConfig) {
		cfg.ttl = ttl
		cfg.ttlSet = true
	})
}

// WithTopic sets the opaque routing/classification tag of the envelope.
func WithTopic(topic string) SendOption {
	return sendOption(func(cfg *sendConfig) {
		cfg.topic = topic
	})
}

// WithTimeout sets the ask deadline. It has no effect on tells.
func WithTimeout(timeout time.Duration) SendOption {
	return sendOption(func(cfg *sendConfig) {
		cfg.timeout = timeout
	})
}
