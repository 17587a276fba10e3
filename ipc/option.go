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
	"github.com/tochemey/goipc/hash"
	"github.com/tochemey/goipc/log"
	"github.com/tochemey/goipc/telemetry"
)

const (
	// DefaultPhoneTableSize is the number of phone slots per task.
	DefaultPhoneTableSize = 16
	// DefaultMaxPayloadSize is the largest body the default copier accepts.
	DefaultMaxPayloadSize = 64 << 10
	// DefaultRegistryShards is the number of shards of the task registry.
	DefaultRegistryShards = 32

	maxPhoneTableSize = 1 << 16
	maxPayloadSize    = 1 << 30
	maxRegistryShards = 1 << 10
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(k *Kernel)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Kernel)

// Apply applies the option
func (f OptionFunc) Apply(k *Kernel) {
	f(k)
}

// WithLogger sets the kernel logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(k *Kernel) {
		k.logger = logger
	})
}

// WithPhoneTableSize sets the number of phone slots every task gets
func WithPhoneTableSize(size int) Option {
	return OptionFunc(func(k *Kernel) {
		k.phoneTableSize = size
	})
}

// WithMaxPayloadSize sets the largest request or response body accepted by
// the default copier. It has no effect when WithCopier is used.
func WithMaxPayloadSize(size int) Option {
	return OptionFunc(func(k *Kernel) {
		k.maxPayloadSize = size
	})
}

// WithCopier replaces the default copier
func WithCopier(copier Copier) Option {
	return OptionFunc(func(k *Kernel) {
		k.copier = copier
	})
}

// WithTelemetry sets the telemetry the kernel records its metrics with
func WithTelemetry(telemetry *telemetry.Telemetry) Option {
	return OptionFunc(func(k *Kernel) {
		k.telemetry = telemetry
	})
}

// WithRegistryShards sets the number of shards of the task registry
func WithRegistryShards(shards int) Option {
	return OptionFunc(func(k *Kernel) {
		k.registryShards = shards
	})
}

// WithHasher sets the hasher the task registry picks shards with
func WithHasher(hasher hash.Hasher) Option {
	return OptionFunc(func(k *Kernel) {
		k.hasher = hasher
	})
}
