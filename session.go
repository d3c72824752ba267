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
	"encoding/binary"
	"fmt"

	"github.com/anthoturc/rfsling/internal/espb"
)

// BoardState indicates whether the board is still being configured or has
// been configured and is ready to move file data.
type BoardState int

const (
	// BoardConfiguring accepts channel, address and extension writes
	BoardConfiguring BoardState = iota
	// BoardReady rejects configuration writes and accepts file chunks
	BoardReady
)

func (s BoardState) String() string {
	switch s {
	case BoardConfiguring:
		return "configuring"
	case BoardReady:
		return "ready"
	default:
		return "unknown"
	}
}

// LinkConfig is the radio link configuration negotiated over the host
// link during the configuring phase. The address is kept as the four raw
// bytes it arrived as, least significant first.
type LinkConfig struct {
	Channel   byte
	Address   [AddressBytes]byte
	Extension [ExtensionBytes]byte

	channelSet bool
	addressSet bool
}

// AddressNum returns the address as a 32-bit value.
func (c *LinkConfig) AddressNum() uint32 {
	return binary.LittleEndian.Uint32(c.Address[:])
}

// Session holds all state for one host-to-board protocol session: the
// configuration state machine, the serial flush detector and the pending
// file chunk. One Session corresponds to one power-on (or soft-reset)
// lifetime of the board side of the link.
//
// Thread Safety: Session is NOT thread-safe. All methods must be called
// from a single goroutine; byte-arrival concurrency is confined to the
// SerialPort implementation.
type Session struct {
	port   SerialPort
	config *SessionConfig
	flush  *FlushDetector

	state BoardState
	link  LinkConfig

	chunk     [MaxChunkSize]byte
	chunkSize byte
	chunkFull bool
}

// NewSession creates a session over the given host link port.
func NewSession(port SerialPort, config *SessionConfig) *Session {
	if config == nil {
		config = DefaultSessionConfig()
	}
	return &Session{
		port:   port,
		config: config,
		flush:  NewFlushDetector(),
	}
}

// BoardState returns the session's configuration phase.
func (s *Session) BoardState() BoardState {
	return s.state
}

// SerialState returns the flush detector's state.
func (s *Session) SerialState() SerialState {
	return s.flush.State()
}

// LinkConfig returns a copy of the current link configuration.
func (s *Session) LinkConfig() LinkConfig {
	return s.link
}

// Channel returns the configured RF channel.
func (s *Session) Channel() byte {
	return s.link.Channel
}

// AddressBytes returns the configured address as raw serial bytes.
func (s *Session) AddressBytes() [AddressBytes]byte {
	return s.link.Address
}

// AddressNum returns the configured address as a 32-bit value.
func (s *Session) AddressNum() uint32 {
	return s.link.AddressNum()
}

// Extension returns the configured file extension, still blank-padded.
func (s *Session) Extension() []byte {
	ext := make([]byte, ExtensionBytes)
	copy(ext, s.link.Extension[:])
	return ext
}

// SetChannel sets the RF channel. It fails with ErrConfigLocked outside
// the configuring phase and with espb.ErrChannelOutOfRange for channels
// the radio cannot tune.
func (s *Session) SetChannel(channel byte) error {
	if s.state != BoardConfiguring {
		return fmt.Errorf("%w: cannot set channel while %s", ErrConfigLocked, s.state)
	}
	if int(channel) > espb.MaxChannel {
		return fmt.Errorf("%w: %d not in [0, %d]",
			espb.ErrChannelOutOfRange, channel, espb.MaxChannel)
	}
	s.link.Channel = channel
	s.link.channelSet = true
	return nil
}

// SetAddress sets the radio address from its four serial bytes. It fails
// with ErrConfigLocked outside the configuring phase.
func (s *Session) SetAddress(address [AddressBytes]byte) error {
	if s.state != BoardConfiguring {
		return fmt.Errorf("%w: cannot set address while %s", ErrConfigLocked, s.state)
	}
	s.link.Address = address
	s.link.addressSet = true
	return nil
}

// SetExtension sets the blank-padded file extension. It fails with
// ErrConfigLocked outside the configuring phase.
func (s *Session) SetExtension(extension []byte) error {
	if s.state != BoardConfiguring {
		return fmt.Errorf("%w: cannot set extension while %s", ErrConfigLocked, s.state)
	}
	if len(extension) != ExtensionBytes {
		return fmt.Errorf("extension must be %d bytes, got %d", ExtensionBytes, len(extension))
	}
	copy(s.link.Extension[:], extension)
	return nil
}

// CommitConfig moves the session from configuring to ready. It fails with
// ErrIncompleteConfig if the channel or address was never set. After a
// successful commit the link configuration is immutable until SoftReset.
func (s *Session) CommitConfig() error {
	if s.state != BoardConfiguring {
		return fmt.Errorf("%w: already %s", ErrConfigLocked, s.state)
	}
	if !s.link.channelSet || !s.link.addressSet {
		return fmt.Errorf("%w: channel set=%t address set=%t",
			ErrIncompleteConfig, s.link.channelSet, s.link.addressSet)
	}
	s.state = BoardReady
	return nil
}

// SoftReset returns the session to the configuring phase. Any pending
// chunk is discarded and the flush detector is re-armed, so the next
// session must synchronize from scratch. SoftReset always succeeds.
func (s *Session) SoftReset() {
	s.state = BoardConfiguring
	s.link = LinkConfig{}
	s.EmptyFileChunk()
	s.EmptyFileExtension()
	s.flush.Reset()
}

// ExpectedRadioMode derives the radio's operating mode from the session
// phase and pending-data state: transmit while a full chunk awaits the
// radio, listen otherwise.
func (s *Session) ExpectedRadioMode() RadioMode {
	if s.state == BoardReady && s.chunkFull {
		return ModeTransmit
	}
	return ModeListen
}
