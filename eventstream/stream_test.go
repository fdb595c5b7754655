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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishReachesSubscribedTopicsOnly(t *testing.T) {
	stream := New()
	defer stream.Close()

	sub := stream.AddSubscriber()
	stream.Subscribe(sub, "deadletters")

	stream.Publish("deadletters", "dropped")
	stream.Publish("lifecycle", "started")

	var received []*Message
	for msg := range sub.Iterator() {
		received = append(received, msg)
	}

	require.Len(t, received, 1)
	assert.Equal(t, "deadletters", received[0].Topic())
	assert.Equal(t, "dropped", received[0].Payload())
}

func TestSubscribersCount(t *testing.T) {
	stream := New()
	defer stream.Close()

	assert.Zero(t, stream.SubscribersCount("lifecycle"))

	one := stream.AddSubscriber()
	two := stream.AddSubscriber()
	stream.Subscribe(one, "lifecycle")
	stream.Subscribe(two, "lifecycle")
	assert.Equal(t, 2, stream.SubscribersCount("lifecycle"))

	stream.Unsubscribe(two, "lifecycle")
	assert.Equal(t, 1, stream.SubscribersCount("lifecycle"))
}

func TestRemoveSubscriberStopsDelivery(t *testing.T) {
	stream := New()
	defer stream.Close()

	sub := stream.AddSubscriber()
	stream.Subscribe(sub, "lifecycle")
	stream.RemoveSubscriber(sub)

	assert.False(t, sub.Active())
	assert.Empty(t, sub.Topics())

	stream.Publish("lifecycle", "ignored")
	assert.Empty(t, sub.Iterator())
}

func TestCloseDeactivatesAllSubscribers(t *testing.T) {
	stream := New()
	one := stream.AddSubscriber()
	two := stream.AddSubscriber()
	stream.Subscribe(one, "a")
	stream.Subscribe(two, "b")

	stream.Close()
	assert.False(t, one.Active())
	assert.False(t, two.Active())
	assert.Zero(t, stream.SubscribersCount("a"))
}
