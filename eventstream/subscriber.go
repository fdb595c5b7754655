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

package eventstream

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Subscriber defines the subscriber interface.
//
// Note: the unexported methods intentionally prevent external implementations.
// Subscribers are created by a Stream via AddSubscriber().
type Subscriber interface {
	ID() string
	Active() bool
	Topics() []string
	Iterator() chan *Message
	Shutdown()

	signal(message *Message)
	subscribe(topic string)
	unsubscribe(topic string)
}

// subscriber is the default Subscriber implementation.
type subscriber struct {
	id     string
	topics mapset.Set[string]
	active *atomic.Bool

	mu       sync.Mutex
	messages []*Message
}

// enforce compilation error
var _ Subscriber = (*subscriber)(nil)

func newSubscriber() *subscriber {
	return &subscriber{
		id:     uuid.NewString(),
		topics: mapset.NewSet[string](),
		active: atomic.NewBool(true),
	}
}

// ID returns the subscriber's unique identifier.
func (s *subscriber) ID() string {
	return s.id
}

// Active reports whether the subscriber still receives messages.
func (s *subscriber) Active() bool {
	return s.active.Load()
}

// Topics returns the topics the subscriber is subscribed to.
func (s *subscriber) Topics() []string {
	return s.topics.ToSlice()
}

// Shutdown deactivates the subscriber. Buffered messages remain readable
// through Iterator.
func (s *subscriber) Shutdown() {
	s.active.Store(false)
}

// Iterator drains the messages buffered at the time of invocation and
// returns them through a closed channel. Messages published concurrently
// with the call are not guaranteed to be included.
func (s *subscriber) Iterator() chan *Message {
	s.mu.Lock()
	buffered := s.messages
	s.messages = nil
	s.mu.Unlock()

	out := make(chan *Message, len(buffered))
	for _, msg := range buffered {
		out <- msg
	}
	close(out)
	return out
}

func (s *subscriber) signal(message *Message) {
	if !s.active.Load() {
		return
	}
	s.mu.Lock()
	s.messages = append(s.messages, message)
	s.mu.Unlock()
}

func (s *subscriber) subscribe(topic string) {
	s.topics.Add(topic)
}

func (s *subscriber) unsubscribe(topic string) {
	s.topics.Remove(topic)
}
