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

// Package uart provides the serial host link implementation of
// rfsling.SerialPort.
//
// Byte arrival is modelled as message passing: a single reader goroutine
// owns the OS port and feeds a bounded channel, and ReceiveByte consumes
// from that channel on the protocol goroutine. The reader never blocks
// on anything but the port itself, mirroring an arrival interrupt that
// only moves bytes.
package uart

import (
	"context"
	"fmt"
	"time"

	rfsling "github.com/anthoturc/rfsling"
	"github.com/anthoturc/rfsling/internal/syncutil"
	"go.bug.st/serial"
)

// rxBufferSize bounds the arrival queue. 256 bytes covers a full chunk
// plus protocol overhead without letting a chatty host grow memory.
const rxBufferSize = 256

// pollTimeout is the reader goroutine's port read timeout; it doubles as
// the shutdown latency bound.
const pollTimeout = 50 * time.Millisecond

// Port implements rfsling.SerialPort over a serial device.
type Port struct {
	port     serial.Port
	portName string

	rx   chan byte
	done chan struct{}

	mu          syncutil.Mutex
	readTimeout time.Duration
	closed      bool
}

// New opens a serial port at the protocol's fixed rate (115200 8N1) and
// starts the arrival reader.
func New(portName string) (*Port, error) {
	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: rfsling.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	if err := port.SetReadTimeout(pollTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set serial read timeout: %w", err)
	}

	p := &Port{
		port:        port,
		portName:    portName,
		rx:          make(chan byte, rxBufferSize),
		done:        make(chan struct{}),
		readTimeout: 250 * time.Millisecond,
	}
	go p.readLoop()
	return p, nil
}

// readLoop is the producer side of the arrival queue. It drops bytes
// when the queue is full; the flush detector will re-synchronize.
func (p *Port) readLoop() {
	buf := make([]byte, 64)
	for {
		select {
		case <-p.done:
			return
		default:
		}

		n, err := p.port.Read(buf)
		if err != nil {
			rfsling.Debugf("uart %s: read error: %v", p.portName, err)
			return
		}
		for _, b := range buf[:n] {
			select {
			case p.rx <- b:
			case <-p.done:
				return
			default:
				rfsling.Debugf("uart %s: arrival queue full, byte dropped", p.portName)
			}
		}
	}
}

// ReceiveByte returns the next byte from the arrival queue, waiting up
// to the read timeout. Timeouts surface as rfsling.ErrTransportTimeout
// so retry logic can classify them.
func (p *Port) ReceiveByte(ctx context.Context) (byte, error) {
	p.mu.Lock()
	timeout := p.readTimeout
	closed := p.closed
	p.mu.Unlock()

	if closed {
		return 0, rfsling.NewTransportError("receive", p.portName,
			rfsling.ErrTransportClosed, rfsling.ErrorTypePermanent)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case b := <-p.rx:
		return b, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-timer.C:
		return 0, rfsling.NewTransportError("receive", p.portName,
			rfsling.ErrTransportTimeout, rfsling.ErrorTypeTimeout)
	case <-p.done:
		return 0, rfsling.NewTransportError("receive", p.portName,
			rfsling.ErrTransportClosed, rfsling.ErrorTypePermanent)
	}
}

// SendBytes writes to the port.
func (p *Port) SendBytes(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return rfsling.NewTransportError("send", p.portName,
			rfsling.ErrTransportClosed, rfsling.ErrorTypePermanent)
	}

	rfsling.DebugHex("uart tx", data)
	if _, err := p.port.Write(data); err != nil {
		return rfsling.NewTransportError("send", p.portName, err, rfsling.ErrorTypeTransient)
	}
	return nil
}

// SetReadTimeout sets the per-byte receive timeout.
func (p *Port) SetReadTimeout(timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readTimeout = timeout
	return nil
}

// Close stops the reader and closes the port.
func (p *Port) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	if err := p.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", p.portName, err)
	}
	return nil
}

// IsConnected reports whether the port is open.
func (p *Port) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed
}

// Name returns the port path.
func (p *Port) Name() string {
	return p.portName
}
