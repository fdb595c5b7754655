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

// Package errors defines the sentinel errors surfaced by the meshwork runtime.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMeshName is returned when the mesh name contains invalid characters.
	// A valid name must consist of only alphanumeric characters ([a-zA-Z0-9]), with
	// optional hyphens or underscores that are not leading.
	ErrInvalidMeshName = errors.New("invalid mesh name, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")

	// ErrMeshNotStarted indicates that the mesh has not been started before use.
	ErrMeshNotStarted = errors.New("mesh is not running")

	// ErrDead indicates that the actor is no longer alive or has been killed.
	ErrDead = errors.New("actor is not alive")

	// ErrMailboxFull is returned when an envelope is rejected because the target
	// mailbox has reached its capacity.
	ErrMailboxFull = errors.New("mailbox is full")

	// ErrUnknownRecipient is returned when an envelope targets an address that is
	// not registered with the router.
	ErrUnknownRecipient = errors.New("unknown recipient")

	// ErrRecipientUnavailable is returned to pending asks whose target actor was
	// killed before it could reply.
	ErrRecipientUnavailable = errors.New("recipient is unavailable")

	// ErrAskTimeout indicates that an ask timed out while waiting for a reply.
	ErrAskTimeout = errors.New("ask timed out")

	// ErrOrphanReply indicates a reply whose correlation id matches no
	// pending ask, typically because the ask already timed out.
	ErrOrphanReply = errors.New("reply matches no pending ask")

	// ErrInvalidTimeout is returned when a timeout value is less than or equal to zero.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrAddressRequired is returned when an actor address is required but empty.
	ErrAddressRequired = errors.New("actor address is required")

	// ErrBehaviorRequired is returned when an actor is spawned without a behavior.
	ErrBehaviorRequired = errors.New("actor behavior is required")

	// ErrEnvelopeExpired indicates that an envelope outlived its TTL before it
	// could be delivered to a behavior.
	ErrEnvelopeExpired = errors.New("envelope has expired")

	// ErrSchedulerNotStarted is returned when attempting to schedule a delivery
	// before the scheduler has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrReplyNotSupported indicates that the envelope being handled does not
	// carry a sender a reply could be routed back to.
	ErrReplyNotSupported = errors.New("envelope does not support replies")
)

// PanicError wraps a panic recovered at the per-envelope processing boundary.
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// NewErrPreStartFailure wraps the error returned by a failed PreStart hook.
func NewErrPreStartFailure(err error) error {
	return fmt.Errorf("preStart failed: %w", err)
}
