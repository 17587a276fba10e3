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

package ipc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/goipc/errors"
	"github.com/tochemey/goipc/eventstream"
	"github.com/tochemey/goipc/hash"
	"github.com/tochemey/goipc/internal/metric"
	"github.com/tochemey/goipc/internal/validation"
	"github.com/tochemey/goipc/log"
	"github.com/tochemey/goipc/telemetry"
)

// Kernel owns the tasks and routes calls between them.
// It is safe for concurrent use by any number of goroutines.
type Kernel struct {
	id string

	// lifecycle serialises task creation against Shutdown
	lifecycle sync.RWMutex
	running   *atomic.Bool

	tasks      *taskMap
	nextTaskID *atomic.Uint64
	nextCallID *atomic.Uint64

	logger         log.Logger
	phoneTableSize int
	maxPayloadSize int
	registryShards int
	hasher         hash.Hasher
	copier         Copier

	telemetry    *telemetry.Telemetry
	metric       *metric.IPCMetric
	registration otelmetric.Registration

	events eventstream.Stream
}

// NewKernel creates a running kernel with no task.
func NewKernel(opts ...Option) (*Kernel, error) {
	k := &Kernel{
		id:             uuid.NewString(),
		running:        atomic.NewBool(false),
		nextTaskID:     atomic.NewUint64(0),
		nextCallID:     atomic.NewUint64(0),
		logger:         log.DefaultLogger,
		phoneTableSize: DefaultPhoneTableSize,
		maxPayloadSize: DefaultMaxPayloadSize,
		registryShards: DefaultRegistryShards,
		hasher:         hash.DefaultHasher(),
		events:         eventstream.New(),
	}

	for _, opt := range opts {
		opt.Apply(k)
	}

	if err := k.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", gerrors.ErrInvalidConfig, err)
	}

	if k.copier == nil {
		k.copier = boundedCopier{limit: k.maxPayloadSize}
	}

	if k.telemetry == nil {
		k.telemetry = telemetry.New()
	}

	k.tasks = newTaskMap(k.registryShards, k.hasher)
	k.logger = k.logger.With("kernel", k.id)

	if err := k.registerMetrics(); err != nil {
		return nil, err
	}

	k.running.Store(true)
	k.logger.Infof("kernel started with %d phones per task", k.phoneTableSize)
	return k, nil
}

// ID returns the kernel instance id
func (k *Kernel) ID() string {
	return k.id
}

// Logger returns the kernel logger
func (k *Kernel) Logger() log.Logger {
	return k.logger
}

// CreateTask registers a new task with an empty phone table and answerbox.
func (k *Kernel) CreateTask() (TaskID, error) {
	k.lifecycle.RLock()
	defer k.lifecycle.RUnlock()

	if !k.running.Load() {
		return 0, gerrors.ErrKernelStopped
	}

	t := newTask(TaskID(k.nextTaskID.Inc()), k.phoneTableSize)
	k.tasks.set(t)

	k.logger.Debugf("task %d created", t.id)
	k.events.Publish(EventsTopic, &TaskCreated{Task: t.id})
	return t.id, nil
}

// Tasks returns the ids of the registered tasks. Order is not guaranteed.
func (k *Kernel) Tasks() []TaskID {
	return k.tasks.ids()
}

// Stats returns a snapshot of the IPC state of the given task.
func (k *Kernel) Stats(id TaskID) (*TaskStats, error) {
	t, err := k.task(id)
	if err != nil {
		return nil, err
	}
	return t.stats(), nil
}

// Subscribe returns a subscriber receiving the kernel lifecycle events.
func (k *Kernel) Subscribe() (eventstream.Subscriber, error) {
	if !k.running.Load() {
		return nil, gerrors.ErrKernelStopped
	}
	sub := k.events.AddSubscriber()
	k.events.Subscribe(sub, EventsTopic)
	return sub, nil
}

// Unsubscribe removes the given subscriber.
func (k *Kernel) Unsubscribe(sub eventstream.Subscriber) {
	k.events.RemoveSubscriber(sub)
}

// Shutdown terminates every remaining task and stops the kernel.
// Tasks are swept concurrently.
func (k *Kernel) Shutdown(ctx context.Context) error {
	k.lifecycle.Lock()
	wasRunning := k.running.Swap(false)
	k.lifecycle.Unlock()

	if !wasRunning {
		return nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, id := range k.tasks.ids() {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := k.TerminateTask(id); err != nil && !errors.Is(err, gerrors.ErrTaskNotFound) {
				return err
			}
			return nil
		})
	}

	err := eg.Wait()
	if k.registration != nil {
		err = multierr.Append(err, k.registration.Unregister())
	}
	k.events.Close()

	if err != nil {
		k.logger.Errorf("kernel shutdown failed: %v", err)
		return err
	}

	k.logger.Info("kernel stopped")
	return nil
}

// task resolves a registered task.
func (k *Kernel) task(id TaskID) (*task, error) {
	if t, ok := k.tasks.get(id); ok {
		return t, nil
	}
	return nil, gerrors.ErrTaskNotFound
}

func (k *Kernel) validate() error {
	return validation.New().
		AddValidator(validation.NewRequiredValidator("logger", k.logger)).
		AddValidator(validation.NewRequiredValidator("hasher", k.hasher)).
		AddValidator(validation.NewRangeValidator("phone table size", k.phoneTableSize, 1, maxPhoneTableSize)).
		AddValidator(validation.NewRangeValidator("max payload size", k.maxPayloadSize, 1, maxPayloadSize)).
		AddValidator(validation.NewRangeValidator("registry shards", k.registryShards, 1, maxRegistryShards)).
		Validate()
}

func (k *Kernel) registerMetrics() error {
	ipcMetric, err := metric.NewIPCMetric(k.telemetry.Meter)
	if err != nil {
		return err
	}

	registration, err := k.telemetry.Meter.RegisterCallback(func(_ context.Context, observer otelmetric.Observer) error {
		observer.ObserveInt64(ipcMetric.TasksAlive(), int64(k.tasks.len()))
		return nil
	}, ipcMetric.TasksAlive())
	if err != nil {
		return fmt.Errorf("failed to register tasks alive callback, %w", err)
	}

	k.metric = ipcMetric
	k.registration = registration
	return nil
}

// reportForgotten records calls forgotten while locks were held.
// It must be called with no lock held.
func (k *Kernel) reportForgotten(reason ForgetReason, calls ...*call) {
	if len(calls) == 0 {
		return
	}

	k.metric.CallsForgotten().Add(context.Background(), int64(len(calls)))
	for _, c := range calls {
		k.logger.Debugf("call %d from task %d to task %d forgotten: %s", c.id, c.phone.ownerID, c.target.owner, reason)
		k.events.Publish(EventsTopic, &DeadLetter{
			Call:   c.id,
			Caller: c.phone.ownerID,
			Callee: c.target.owner,
			Reason: reason,
		})
	}
}
