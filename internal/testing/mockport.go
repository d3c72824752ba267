// Copyright 2026 The rfsling Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testing provides test doubles for the host link and the radio
// register bus, so protocol and driver logic can be exercised without
// hardware.
package testing

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrScriptExhausted is returned when a MockPort runs out of scripted
// bytes and BlockOnEmpty is off.
var ErrScriptExhausted = errors.New("mock port script exhausted")

// MockPort is a scripted SerialPort double. Bytes queued with Script are
// returned in order from ReceiveByte; everything written with SendBytes
// is recorded.
type MockPort struct {
	mu   sync.Mutex
	rx   []byte
	sent []byte

	// BlockOnEmpty makes ReceiveByte wait on the context instead of
	// failing when the script runs dry, imitating a silent host.
	BlockOnEmpty bool

	closed  bool
	timeout time.Duration
}

// NewMockPort creates an empty mock port.
func NewMockPort() *MockPort {
	return &MockPort{timeout: time.Second}
}

// Script appends bytes to the read queue.
func (p *MockPort) Script(data ...byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rx = append(p.rx, data...)
}

// Sent returns a copy of everything written to the port.
func (p *MockPort) Sent() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]byte, len(p.sent))
	copy(out, p.sent)
	return out
}

// ReceiveByte pops the next scripted byte. With BlockOnEmpty set it
// polls for late-scripted bytes until the context gives up, imitating a
// host that has gone quiet.
func (p *MockPort) ReceiveByte(ctx context.Context) (byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return 0, errors.New("mock port closed")
		}
		if len(p.rx) > 0 {
			b := p.rx[0]
			p.rx = p.rx[1:]
			p.mu.Unlock()
			return b, nil
		}
		block := p.BlockOnEmpty
		p.mu.Unlock()

		if !block {
			return 0, ErrScriptExhausted
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

// SendBytes records written bytes.
func (p *MockPort) SendBytes(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("mock port closed")
	}
	p.sent = append(p.sent, data...)
	return nil
}

// SetReadTimeout records the timeout; the mock never blocks on it.
func (p *MockPort) SetReadTimeout(timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeout = timeout
	return nil
}

// Close marks the port closed.
func (p *MockPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// IsConnected reports whether Close has been called.
func (p *MockPort) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed
}

// Name returns a fixed identifier.
func (*MockPort) Name() string { return "mock" }
