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

const (
	// DefaultMailboxCapacity bounds an actor's priority mailbox when no
	// per-actor capacity is configured.
	DefaultMailboxCapacity = 10_000

	// DefaultAskTimeout is the deadline applied to asks that do not carry
	// an explicit timeout.
	DefaultAskTimeout = 5 * time.Second

	// DefaultPreStartMaxRetries is the number of times a PreStart hook is
	// retried before Spawn gives up.
	DefaultPreStartMaxRetries = 5

	// DefaultShutdownTimeout bounds how long Shutdown waits for each actor
	// to finish its in-flight envelope.
	DefaultShutdownTimeout = 3 * time.Second

	// initialRegistrySize pre-sizes the router's actor registry.
	initialRegistrySize = 64
)
