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
	"github.com/anthoturc/rfsling/internal/nrf24"
)

// Radio drives an nRF24L01+ over its register bus. It configures the
// chip from a committed LinkConfig and moves pending chunks into the
// air as Enhanced-ShockBurst-style frames. The chip's automatic
// retransmission and acknowledgement run in hardware; Radio only sets
// the registers that enable them.
type Radio struct {
	bus      RadioBus
	preamble byte
	airBits  int
	mode     RadioMode
	packetID byte
}

// NewRadio creates a radio on the given register bus. airAddressBits
// selects how many low bits of the 32-bit link address go on air; the
// frame's address field caps it at 24.
func NewRadio(bus RadioBus, airAddressBits int) *Radio {
	if airAddressBits <= 0 || airAddressBits > espb.AddressBits {
		airAddressBits = espb.AddressBits
	}
	return &Radio{
		bus:      bus,
		preamble: espb.DefaultPreamble,
		airBits:  airAddressBits,
		mode:     ModeListen,
	}
}

// AirAddress reduces a 32-bit link address to the bits used on air.
func (r *Radio) AirAddress(address uint32) uint32 {
	return address & (1<<r.airBits - 1)
}

// Configure programs the chip from a committed link configuration:
// channel, both directions of the air address, fixed two-byte payload
// width, CRC, and hardware auto-acknowledgement with retransmission.
func (r *Radio) Configure(link LinkConfig) error {
	if _, err := espb.FrequencyForChannel(int(link.Channel)); err != nil {
		return err
	}

	air := r.AirAddress(link.AddressNum())
	var airBytes [4]byte
	binary.LittleEndian.PutUint32(airBytes[:], air)

	writes := []struct {
		addr  byte
		value byte
	}{
		{nrf24.RegRFCh, link.Channel},
		{nrf24.RegSetupAW, 0x01}, // 3-byte address width
		{nrf24.RegRxPwP0, 2},     // fixed two payload bytes per frame
		{nrf24.RegEnAA, 0x01},    // auto-ack on pipe 0
		{nrf24.RegEnRxAddr, 0x01},
		{nrf24.RegSetupRetr, 0x2F}, // 750us retransmit delay, 15 retries
	}
	for _, w := range writes {
		if err := r.bus.WriteRegister(w.addr, w.value); err != nil {
			return fmt.Errorf("configure register 0x%02X: %w", w.addr, err)
		}
	}

	// TX and RX pipe 0 share the address so hardware acks can come back.
	for _, reg := range []byte{nrf24.RegTxAddr, nrf24.RegRxAddrP0} {
		if err := r.bus.WriteAddressRegister(reg, airBytes[:3]); err != nil {
			return fmt.Errorf("configure address register 0x%02X: %w", reg, err)
		}
	}

	return r.powerUp()
}

// powerUp writes the CONFIG register with CRC enabled and the radio in
// the mode last applied.
func (r *Radio) powerUp() error {
	value := byte(1<<nrf24.BitPwrUp | 1<<nrf24.BitEnCRC)
	if r.mode == ModeListen {
		value |= 1 << nrf24.BitPrimRX
	}
	return r.bus.WriteRegister(nrf24.RegConfig, value)
}

// Mode returns the mode most recently applied to the hardware.
func (r *Radio) Mode() RadioMode {
	return r.mode
}

// ApplyMode drives the chip into the given mode: primary-receive with
// the enable line high for listen, primary-transmit for transmit. The
// enable line is dropped while CONFIG changes so the state switch is
// clean.
func (r *Radio) ApplyMode(mode RadioMode) error {
	if err := r.bus.SetEnableLine(false); err != nil {
		return err
	}
	r.mode = mode
	if err := r.powerUp(); err != nil {
		return err
	}
	return r.bus.SetEnableLine(true)
}

// Listen drives the chip into primary-receive mode with CE asserted.
func (r *Radio) Listen() error {
	return r.ApplyMode(ModeListen)
}

// Transmit drives the chip into primary-transmit mode.
func (r *Radio) Transmit() error {
	return r.ApplyMode(ModeTransmit)
}

// SendChunk transmits a pending chunk as a sequence of frames, two
// payload bytes per frame. Every frame leaves the no-ack flag cleared
// so the hardware ack round-trip confirms delivery.
func (r *Radio) SendChunk(link LinkConfig, chunk []byte) error {
	if err := r.ApplyMode(ModeTransmit); err != nil {
		return fmt.Errorf("enter transmit mode: %w", err)
	}

	air := r.AirAddress(link.AddressNum())
	for i := 0; i < len(chunk); i += 2 {
		f := espb.Frame{
			Preamble: r.preamble,
			Address:  air,
			PacketID: r.packetID,
		}
		f.Byte1 = chunk[i]
		f.PayloadLen = 1
		if i+1 < len(chunk) {
			f.Byte2 = chunk[i+1]
			f.PayloadLen = 2
		}
		r.packetID = (r.packetID + 1) & 0x03

		packed, err := espb.Encode(f)
		if err != nil {
			return fmt.Errorf("encode frame at offset %d: %w", i, err)
		}

		var wire [8]byte
		binary.BigEndian.PutUint64(wire[:], packed)
		if err := r.bus.WritePayload(wire[:]); err != nil {
			return fmt.Errorf("write payload at offset %d: %w", i, err)
		}
	}

	return r.ApplyMode(ModeListen)
}
