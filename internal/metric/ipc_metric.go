/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package metric

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// IPCMetric groups the kernel instruments.
type IPCMetric struct {
	callsSent       metric.Int64Counter
	callsAnswered   metric.Int64Counter
	callsForgotten  metric.Int64Counter
	phonesAllocated metric.Int64Counter
	tasksTerminated metric.Int64Counter
	tasksAlive      metric.Int64ObservableGauge
}

// NewIPCMetric creates the kernel instruments on the given meter.
func NewIPCMetric(meter metric.Meter) (*IPCMetric, error) {
	m := new(IPCMetric)
	var err error

	if m.callsSent, err = meter.Int64Counter(
		"ipc_calls_sent",
		metric.WithDescription("Total number of calls queued into an answerbox"),
	); err != nil {
		return nil, fmt.Errorf("failed to create callsSent instrument, %w", err)
	}

	if m.callsAnswered, err = meter.Int64Counter(
		"ipc_calls_answered",
		metric.WithDescription("Total number of answers given by a receiver and routed back to their caller"),
	); err != nil {
		return nil, fmt.Errorf("failed to create callsAnswered instrument, %w", err)
	}

	if m.callsForgotten, err = meter.Int64Counter(
		"ipc_calls_forgotten",
		metric.WithDescription("Total number of calls destroyed without being collected"),
	); err != nil {
		return nil, fmt.Errorf("failed to create callsForgotten instrument, %w", err)
	}

	if m.phonesAllocated, err = meter.Int64Counter(
		"ipc_phones_allocated",
		metric.WithDescription("Total number of phone slots handed out"),
	); err != nil {
		return nil, fmt.Errorf("failed to create phonesAllocated instrument, %w", err)
	}

	if m.tasksTerminated, err = meter.Int64Counter(
		"ipc_tasks_terminated",
		metric.WithDescription("Total number of tasks swept"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tasksTerminated instrument, %w", err)
	}

	if m.tasksAlive, err = meter.Int64ObservableGauge(
		"ipc_tasks_alive",
		metric.WithDescription("Number of tasks currently registered with the kernel"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tasksAlive instrument, %w", err)
	}

	return m, nil
}

// CallsSent returns the sent calls counter
func (x *IPCMetric) CallsSent() metric.Int64Counter {
	return x.callsSent
}

// CallsAnswered returns the answered calls counter
func (x *IPCMetric) CallsAnswered() metric.Int64Counter {
	return x.callsAnswered
}

// CallsForgotten returns the forgotten calls counter
func (x *IPCMetric) CallsForgotten() metric.Int64Counter {
	return x.callsForgotten
}

// PhonesAllocated returns the allocated phones counter
func (x *IPCMetric) PhonesAllocated() metric.Int64Counter {
	return x.phonesAllocated
}

// TasksTerminated returns the terminated tasks counter
func (x *IPCMetric) TasksTerminated() metric.Int64Counter {
	return x.tasksTerminated
}

// TasksAlive returns the live tasks gauge
func (x *IPCMetric) TasksAlive() metric.Int64ObservableGauge {
	return x.tasksAlive
}
