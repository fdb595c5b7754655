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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meshMetric holds the runtime instruments. A nil *meshMetric is valid and
// records nothing, so call sites never need a nil check of their own.
type meshMetric struct {
	delivered   metric.Int64Counter
	deadletters metric.Int64Counter
	panics      metric.Int64Counter
	askTimeouts metric.Int64Counter
}

// newMeshMetric creates the mesh instruments against the given meter.
func newMeshMetric(meter metric.Meter) (*meshMetric, error) {
	m := new(meshMetric)
	var err error
	if m.delivered, err = meter.Int64Counter(
		"mesh_envelopes_delivered",
		metric.WithDescription("Total number of envelopes delivered to behaviors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create delivered instrument: %w", err)
	}
	if m.deadletters, err = meter.Int64Counter(
		"mesh_deadletters",
		metric.WithDescription("Total number of dead-lettered envelopes"),
	); err != nil {
		return nil, fmt.Errorf("failed to create deadletters instrument: %w", err)
	}
	if m.panics, err = meter.Int64Counter(
		"mesh_behavior_panics",
		metric.WithDescription("Total number of panics recovered at the envelope boundary"),
	); err != nil {
		return nil, fmt.Errorf("failed to create panics instrument: %w", err)
	}
	if m.askTimeouts, err = meter.Int64Counter(
		"mesh_ask_timeouts",
		metric.WithDescription("Total number of asks rejected by timeout"),
	); err != nil {
		return nil, fmt.Errorf("failed to create askTimeouts instrument: %w", err)
	}
	return m, nil
}

func (m *meshMetric) incDelivered(address string) {
	if m == nil {
		return
	}
	m.delivered.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("address", address)))
}

func (m *meshMetric) incDeadletters() {
	if m == nil {
		return
	}
	m.deadletters.Add(context.Background(), 1)
}

func (m *meshMetric) incPanics(address string) {
	if m == nil {
		return
	}
	m.panics.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("address", address)))
}

func (m *meshMetric) incAskTimeouts() {
	if m == nil {
		return
	}
	m.askTimeouts.Add(context.Background(), 1)
}
