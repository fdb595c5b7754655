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
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/meshwork-io/meshwork/errors"
	"github.com/meshwork-io/meshwork/log"
)

func TestNewMesh(t *testing.T) {
	t.Run("With valid name", func(t *testing.T) {
		m, err := New("orders-mesh_1")
		require.NoError(t, err)
		assert.Equal(t, "orders-mesh_1", m.Name())
		assert.False(t, m.Running())
	})
	t.Run("With invalid name", func(t *testing.T) {
		for _, name := range []string{"", "-leading", "_leading", "has space", "has/slash"} {
			m, err := New(name)
			require.Nil(t, m)
			assert.ErrorIs(t, err, gerrors.ErrInvalidMeshName)
		}
	})
	t.Run("With invalid ask timeout", func(t *testing.T) {
		m, err := New("testMesh", WithAskTimeout(-time.Second))
		require.Nil(t, m)
		assert.ErrorIs(t, err, gerrors.ErrInvalidTimeout)
	})
}

func TestMeshNotStarted(t *testing.T) {
	m, err := New("testMesh", WithLogger(log.DiscardLogger))
	require.NoError(t, err)

	_, err = m.Spawn("worker", discardBehavior)
	assert.ErrorIs(t, err, gerrors.ErrMeshNotStarted)
	assert.ErrorIs(t, m.Tell("worker", nil), gerrors.ErrMeshNotStarted)
	_, err = m.Ask(context.TODO(), "worker", nil)
	assert.ErrorIs(t, err, gerrors.ErrMeshNotStarted)
	assert.ErrorIs(t, m.Kill("worker"), gerrors.ErrMeshNotStarted)
	_, err = m.Subscribe(TopicLifecycle)
	assert.ErrorIs(t, err, gerrors.ErrMeshNotStarted)
	assert.ErrorIs(t, m.ScheduleOnce("worker", nil, time.Second), gerrors.ErrMeshNotStarted)
	assert.ErrorIs(t, m.Shutdown(context.TODO()), gerrors.ErrMeshNotStarted)
}

func TestSpawn(t *testing.T) {
	t.Run("With registration", func(t *testing.T) {
		m := newTestMesh(t)
		pid, err := m.Spawn("worker", discardBehavior)
		require.NoError(t, err)
		require.NotNil(t, pid)
		assert.True(t, pid.IsRunning())

		found, ok := m.Actor("worker")
		require.True(t, ok)
		assert.Same(t, pid, found)
		assert.Equal(t, 1, m.ActorsCount())
		assert.Contains(t, m.Addresses(), "worker")
	})
	t.Run("With invalid arguments", func(t *testing.T) {
		m := newTestMesh(t)
		_, err := m.Spawn("", discardBehavior)
		assert.ErrorIs(t, err, gerrors.ErrAddressRequired)
		_, err = m.Spawn("-bad", discardBehavior)
		assert.ErrorIs(t, err, gerrors.ErrInvalidMeshName)
		_, err = m.Spawn("worker", nil)
		assert.ErrorIs(t, err, gerrors.ErrBehaviorRequired)
	})
	t.Run("With duplicate address replacing the binding", func(t *testing.T) {
		m := newTestMesh(t)
		first, err := m.Spawn("worker", discardBehavior)
		require.NoError(t, err)
		second, err := m.Spawn("worker", discardBehavior)
		require.NoError(t, err)

		// the displaced actor stays alive until shut down through its handle
		assert.True(t, first.IsRunning())
		assert.True(t, second.IsRunning())
		assert.Equal(t, 1, m.ActorsCount())

		found, ok := m.Actor("worker")
		require.True(t, ok)
		assert.Same(t, second, found)

		require.NoError(t, first.Shutdown(context.TODO()))
		assert.False(t, first.IsRunning())
		assert.True(t, second.IsRunning())
		assert.Equal(t, 1, m.ActorsCount())
	})
}

func TestTell(t *testing.T) {
	t.Run("With delivery", func(t *testing.T) {
		m := newTestMesh(t)
		received := make(chan any, 1)
		_, err := m.Spawn("worker", func(ctx *Context) {
			received <- ctx.Payload()
		})
		require.NoError(t, err)

		require.NoError(t, m.Tell("worker", "ping"))
		select {
		case payload := <-received:
			assert.Equal(t, "ping", payload)
		case <-time.After(time.Second):
			t.Fatal("envelope was not delivered")
		}
	})
	t.Run("With unknown recipient dead-lettered", func(t *testing.T) {
		m := newTestMesh(t)
		subscriber, err := m.Subscribe(TopicDeadletters)
		require.NoError(t, err)

		require.NoError(t, m.Tell("nobody", "lost"))
		eventually(t, time.Second, func() bool {
			for message := range subscriber.Iterator() {
				deadletter, ok := message.Payload().(*Deadletter)
				if ok && errors.Is(deadletter.Reason, gerrors.ErrUnknownRecipient) {
					return deadletter.Envelope.To() == "nobody"
				}
			}
			return false
		})
	})
	t.Run("With external sender address", func(t *testing.T) {
		m := newTestMesh(t)
		from := make(chan string, 1)
		_, err := m.Spawn("worker", func(ctx *Context) {
			from <- ctx.Envelope().From()
		})
		require.NoError(t, err)

		require.NoError(t, m.Tell("worker", nil))
		select {
		case sender := <-from:
			assert.Equal(t, ExternalAddress, sender)
		case <-time.After(time.Second):
			t.Fatal("envelope was not delivered")
		}
	})
}

func TestAsk(t *testing.T) {
	t.Run("With reply correlation", func(t *testing.T) {
		m := newTestMesh(t)
		_, err := m.Spawn("echo", echoBehavior)
		require.NoError(t, err)

		reply, err := m.Ask(context.TODO(), "echo", "marco")
		require.NoError(t, err)
		assert.Equal(t, "marco", reply)
	})
	t.Run("With concurrent asks resolved independently", func(t *testing.T) {
		m := newTestMesh(t)
		_, err := m.Spawn("echo", echoBehavior)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				want := fmt.Sprintf("payload-%d", i)
				reply, err := m.Ask(context.TODO(), "echo", want)
				assert.NoError(t, err)
				assert.Equal(t, want, reply)
			}(i)
		}
		wg.Wait()
	})
	t.Run("With unknown recipient", func(t *testing.T) {
		m := newTestMesh(t)
		_, err := m.Ask(context.TODO(), "nobody", "lost")
		assert.ErrorIs(t, err, gerrors.ErrUnknownRecipient)
	})
	t.Run("With timeout and late reply being a no-op", func(t *testing.T) {
		m := newTestMesh(t)
		subscriber, err := m.Subscribe(TopicDeadletters)
		require.NoError(t, err)

		gate := make(chan struct{})
		_, err = m.Spawn("slow", func(ctx *Context) {
			<-gate
			ctx.Reply("too late")
		})
		require.NoError(t, err)

		_, err = m.Ask(context.TODO(), "slow", "hurry", WithTimeout(50*time.Millisecond))
		assert.ErrorIs(t, err, gerrors.ErrAskTimeout)

		// the reply now matches no pending ask and becomes an orphan
		close(gate)
		eventually(t, time.Second, func() bool {
			for message := range subscriber.Iterator() {
				deadletter, ok := message.Payload().(*Deadletter)
				if ok && errors.Is(deadletter.Reason, gerrors.ErrOrphanReply) {
					return deadletter.Envelope.Payload() == "too late"
				}
			}
			return false
		})
	})
	t.Run("With recipient killed while asks are pending", func(t *testing.T) {
		m := newTestMesh(t)
		gate := make(chan struct{})
		started := make(chan struct{}, 1)
		defer close(gate)

		_, err := m.Spawn("doomed", func(*Context) {
			started <- struct{}{}
			<-gate
		})
		require.NoError(t, err)

		// occupy the actor so the ask below stays pending
		require.NoError(t, m.Tell("doomed", "block"))
		<-started

		f, err := m.AskAsync("doomed", "question")
		require.NoError(t, err)
		require.NoError(t, m.Kill("doomed"))

		_, err = f.Await(context.TODO())
		assert.ErrorIs(t, err, gerrors.ErrRecipientUnavailable)
	})
	t.Run("With context cancellation", func(t *testing.T) {
		m := newTestMesh(t)
		gate := make(chan struct{})
		defer close(gate)
		_, err := m.Spawn("slow", func(*Context) {
			<-gate
		})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.TODO())
		cancel()
		_, err = m.Ask(ctx, "slow", "question")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestActorToActor(t *testing.T) {
	t.Run("With tell and reply to sender", func(t *testing.T) {
		m := newTestMesh(t)
		answers := make(chan *Envelope, 1)

		_, err := m.Spawn("responder", func(ctx *Context) {
			ctx.Reply("pong")
		})
		require.NoError(t, err)

		_, err = m.Spawn("initiator", func(ctx *Context) {
			switch ctx.Payload() {
			case "go":
				ctx.Tell("responder", "ping")
			default:
				answers <- ctx.Envelope()
			}
		})
		require.NoError(t, err)

		require.NoError(t, m.Tell("initiator", "go"))
		select {
		case envelope := <-answers:
			assert.Equal(t, "pong", envelope.Payload())
			assert.Equal(t, KindTell, envelope.Kind())
			assert.Equal(t, "responder", envelope.From())
			assert.NotEmpty(t, envelope.CorrelationID())
		case <-time.After(time.Second):
			t.Fatal("no answer delivered to initiator")
		}
	})
	t.Run("With ask from inside a behavior", func(t *testing.T) {
		m := newTestMesh(t)
		answers := make(chan any, 1)

		_, err := m.Spawn("oracle", echoBehavior)
		require.NoError(t, err)

		_, err = m.Spawn("seeker", func(ctx *Context) {
			f := ctx.Ask("oracle", "wisdom")
			go func() {
				reply, err := f.Await(context.TODO())
				if err == nil {
					answers <- reply
				}
			}()
		})
		require.NoError(t, err)

		require.NoError(t, m.Tell("seeker", "go"))
		select {
		case reply := <-answers:
			assert.Equal(t, "wisdom", reply)
		case <-time.After(time.Second):
			t.Fatal("ask from behavior was not answered")
		}
	})
	t.Run("With hops recorded along the path", func(t *testing.T) {
		m := newTestMesh(t)
		hops := make(chan []string, 1)

		_, err := m.Spawn("sink", func(ctx *Context) {
			hops <- ctx.Envelope().Hops()
		})
		require.NoError(t, err)

		_, err = m.Spawn("relay", func(ctx *Context) {
			ctx.Tell("sink", ctx.Payload())
		})
		require.NoError(t, err)

		require.NoError(t, m.Tell("relay", "payload"))
		select {
		case path := <-hops:
			assert.Equal(t, []string{"relay"}, path)
		case <-time.After(time.Second):
			t.Fatal("envelope never reached the sink")
		}
	})
	t.Run("With TTL inherited by forwarded envelopes", func(t *testing.T) {
		m := newTestMesh(t)
		ttls := make(chan time.Duration, 1)

		_, err := m.Spawn("sink", func(ctx *Context) {
			ttls <- ctx.Envelope().TTL()
		})
		require.NoError(t, err)

		_, err = m.Spawn("relay", func(ctx *Context) {
			ctx.Tell("sink", ctx.Payload())
		})
		require.NoError(t, err)

		require.NoError(t, m.Tell("relay", "payload", WithTTL(time.Minute)))
		select {
		case ttl := <-ttls:
			assert.Equal(t, time.Minute, ttl)
		case <-time.After(time.Second):
			t.Fatal("envelope never reached the sink")
		}
	})
}

func TestContextStop(t *testing.T) {
	m := newTestMesh(t)
	pid, err := m.Spawn("ephemeral", func(ctx *Context) {
		ctx.Stop()
	})
	require.NoError(t, err)

	require.NoError(t, m.Tell("ephemeral", "die"))
	require.NoError(t, pid.awaitStop(context.TODO()))
	assert.False(t, pid.IsRunning())
	_, ok := m.Actor("ephemeral")
	assert.False(t, ok)
}

func TestLifecycleEvents(t *testing.T) {
	m := newTestMesh(t)
	subscriber, err := m.Subscribe(TopicLifecycle)
	require.NoError(t, err)

	pid, err := m.Spawn("watched", discardBehavior)
	require.NoError(t, err)
	require.NoError(t, m.Kill("watched"))
	require.NoError(t, pid.awaitStop(context.TODO()))

	var sawStarted, sawKilled bool
	eventually(t, time.Second, func() bool {
		for message := range subscriber.Iterator() {
			switch event := message.Payload().(type) {
			case *ActorStarted:
				sawStarted = sawStarted || event.Address == "watched"
			case *ActorKilled:
				sawKilled = sawKilled || event.Address == "watched"
			}
		}
		return sawStarted && sawKilled
	})
}

func TestKillUnknownActor(t *testing.T) {
	m := newTestMesh(t)
	assert.ErrorIs(t, m.Kill("nobody"), gerrors.ErrUnknownRecipient)
}

func TestScheduleOnce(t *testing.T) {
	m := newTestMesh(t)
	received := make(chan any, 1)
	_, err := m.Spawn("worker", func(ctx *Context) {
		received <- ctx.Payload()
	})
	require.NoError(t, err)

	require.NoError(t, m.ScheduleOnce("worker", "later", 50*time.Millisecond))
	select {
	case payload := <-received:
		assert.Equal(t, "later", payload)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled envelope was not delivered")
	}
}

func TestSchedule(t *testing.T) {
	m := newTestMesh(t)
	received := make(chan any, 10)
	_, err := m.Spawn("worker", func(ctx *Context) {
		received <- ctx.Payload()
	})
	require.NoError(t, err)

	require.NoError(t, m.Schedule("worker", "tick", 30*time.Millisecond))
	for i := 0; i < 2; i++ {
		select {
		case payload := <-received:
			assert.Equal(t, "tick", payload)
		case <-time.After(2 * time.Second):
			t.Fatal("recurring envelope was not delivered")
		}
	}
}

func TestShutdown(t *testing.T) {
	t.Run("With all actors stopped", func(t *testing.T) {
		ctx := context.TODO()
		m, err := New("testMesh", WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		require.NoError(t, m.Start(ctx))

		var pids []*PID
		for i := 0; i < 5; i++ {
			pid, err := m.Spawn(fmt.Sprintf("worker-%d", i), discardBehavior)
			require.NoError(t, err)
			pids = append(pids, pid)
		}

		require.NoError(t, m.Shutdown(ctx))
		assert.False(t, m.Running())
		for _, pid := range pids {
			assert.False(t, pid.IsRunning())
		}
		assert.Zero(t, m.ActorsCount())
	})
	t.Run("With pending asks failed", func(t *testing.T) {
		ctx := context.TODO()
		m, err := New("testMesh", WithLogger(log.DiscardLogger))
		require.NoError(t, err)
		require.NoError(t, m.Start(ctx))

		gate := make(chan struct{})
		started := make(chan struct{}, 1)
		_, err = m.Spawn("slow", func(*Context) {
			started <- struct{}{}
			<-gate
		})
		require.NoError(t, err)

		require.NoError(t, m.Tell("slow", "block"))
		<-started
		f, err := m.AskAsync("slow", "question")
		require.NoError(t, err)

		close(gate)
		require.NoError(t, m.Shutdown(ctx))

		_, err = f.Await(context.TODO())
		require.Error(t, err)
	})
}

func TestRestartAfterShutdownFails(t *testing.T) {
	ctx := context.TODO()
	m, err := New("testMesh", WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, m.Start(ctx))
	require.NoError(t, m.Shutdown(ctx))

	_, err = m.Spawn("worker", discardBehavior)
	assert.ErrorIs(t, err, gerrors.ErrMeshNotStarted)
}
