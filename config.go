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

import "time"

// Host link wire constants. Both ends of the serial link hard-code these;
// changing any of them is a protocol break.
const (
	// BaudRate is the agreed host link speed.
	BaudRate = 115200

	// FlushMarker is the byte whose repeated appearance signals the serial
	// buffer has settled and real protocol data may begin.
	FlushMarker = 0x09

	// FlushCount is the number of consecutive FlushMarker bytes required
	// to leave the flushing state.
	FlushCount = 5

	// HandshakeByte is the request/acknowledge token exchanged at each
	// phase boundary. It happens to equal FlushMarker ('\t') on the wire.
	HandshakeByte = '\t'

	// ChannelBytes is the serial width of the channel field.
	ChannelBytes = 1

	// AddressBytes is the serial width of the radio address, sent
	// least significant byte first.
	AddressBytes = 4

	// ExtensionBytes is the fixed, blank-padded width of a file extension.
	ExtensionBytes = 10

	// ChunkSizeBytes is the serial width of a chunk size prefix.
	ChunkSizeBytes = 1

	// MaxChunkSize is the largest accepted chunk payload. 224 is a
	// multiple of the radio FIFO width that still fits the host link's
	// buffer budget.
	MaxChunkSize = 224
)

// SessionConfig contains configuration options for a Session
type SessionConfig struct {
	// RetryConfig configures retry behavior for handshake attempts
	RetryConfig *RetryConfig
	// HandshakeTimeout bounds each wait for the handshake echo
	HandshakeTimeout time.Duration
	// ReadTimeout bounds each single-byte read from the host link
	ReadTimeout time.Duration
	// AirAddressBits selects how many low bits of the 32-bit serial
	// address are used on air. The frame's address field is 24 bits
	// wide, so values above 24 are capped there.
	AirAddressBits int
	// EchoChunks mirrors each received chunk back to the host,
	// terminated by the handshake byte, for host-side debugging
	EchoChunks bool
}

// DefaultSessionConfig returns default session configuration
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		RetryConfig:      DefaultRetryConfig(),
		HandshakeTimeout: 1 * time.Second,
		ReadTimeout:      250 * time.Millisecond,
		AirAddressBits:   24,
	}
}
