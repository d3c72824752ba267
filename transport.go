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

package rfsling

import (
	"context"
	"time"
)

// SerialPort defines the interface for the byte-level host link.
// This can be implemented by a UART backend or a test double.
type SerialPort interface {
	// ReceiveByte blocks for the next byte from the host, honoring the
	// context and the port's read timeout
	ReceiveByte(ctx context.Context) (byte, error)

	// SendBytes writes bytes to the host
	SendBytes(data []byte) error

	// SetReadTimeout sets the per-byte read timeout
	SetReadTimeout(timeout time.Duration) error

	// Close closes the port
	Close() error

	// IsConnected returns true if the port is open
	IsConnected() bool

	// Name returns the port identifier for error context
	Name() string
}

// RadioBus defines the interface for the radio's synchronous register bus.
// This can be implemented by an SPI backend or a test double. The enable
// and select lines are the CE and CSN pins of the nRF24L01+; select-line
// sequencing around register transactions is the backend's job, the line
// setters exist for mode changes and explicit bus release.
type RadioBus interface {
	// WriteRegister writes one register
	WriteRegister(address, value byte) error

	// ReadRegister reads one register
	ReadRegister(address byte) (byte, error)

	// WriteAddressRegister writes a multi-byte address register
	WriteAddressRegister(address byte, value []byte) error

	// WritePayload clocks payload bytes into the TX FIFO
	WritePayload(data []byte) error

	// SetEnableLine drives the CE pin
	SetEnableLine(high bool) error

	// SetSelectLine drives the CSN pin
	SetSelectLine(high bool) error

	// Close releases the bus
	Close() error
}

// RadioMode is the operating mode the radio hardware should be in.
type RadioMode int

const (
	// ModeListen has the radio receiving on the configured address
	ModeListen RadioMode = iota
	// ModeTransmit has the radio sending pending data
	ModeTransmit
)

func (m RadioMode) String() string {
	switch m {
	case ModeListen:
		return "listen"
	case ModeTransmit:
		return "transmit"
	default:
		return "unknown"
	}
}
