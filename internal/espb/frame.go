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

// Package espb packs and unpacks the Enhanced-ShockBurst-style frame the
// nRF24L01+ clocks out on air, and maps RF channels to frequencies.
//
// The frame is modelled as an explicit shift/mask codec over a uint64
// rather than a struct overlay: bit-field layout is compiler-defined and
// does not survive a change of platform, the field offsets below do.
package espb

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Codec errors.
var (
	// ErrChannelOutOfRange is returned for channels outside [0, MaxChannel].
	ErrChannelOutOfRange = errors.New("channel out of range")
	// ErrFieldOverflow is returned when a frame field exceeds its bit width.
	ErrFieldOverflow = errors.New("frame field overflows its bit width")
)

// Channel and frequency limits. The chip tunes 1 MHz-spaced channels
// starting at 2400 MHz; 125 channels fit below the 2525 MHz band edge.
const (
	MaxChannel  = 124
	NumChannels = 125

	MinFrequency = 2400 * physic.MegaHertz
	MaxFrequency = 2525 * physic.MegaHertz
)

// Frame field widths, in bits. They sum to exactly 64.
const (
	PreambleBits   = 8
	AddressBits    = 24
	PayloadLenBits = 6
	PacketIDBits   = 2
	NoAckBits      = 1
	Byte1Bits      = 8
	Byte2Bits      = 8
	PaddingBits    = 7
)

// Field shifts from the least significant bit of the packed uint64.
// Layout, most significant first: preamble, address, control
// (payload length | packet id | no-ack), byte1, byte2, padding.
const (
	paddingShift  = 0
	byte2Shift    = paddingShift + PaddingBits
	byte1Shift    = byte2Shift + Byte2Bits
	controlShift  = byte1Shift + Byte1Bits
	addressShift  = controlShift + PayloadLenBits + PacketIDBits + NoAckBits
	preambleShift = addressShift + AddressBits

	noAckShift      = controlShift
	packetIDShift   = noAckShift + NoAckBits
	payloadLenShift = packetIDShift + PacketIDBits
)

// Field masks, pre-shift.
const (
	addressMask    = 1<<AddressBits - 1
	payloadLenMask = 1<<PayloadLenBits - 1
	packetIDMask   = 1<<PacketIDBits - 1
	noAckMask      = 1<<NoAckBits - 1
)

// DefaultPreamble is the synchronization byte preceding each frame.
const DefaultPreamble = 0xAA

// Frame is the unpacked view of one on-air frame. Address carries only
// the low AddressBits bits; payload is fixed at two bytes, padded by the
// codec to the full 64-bit width.
type Frame struct {
	Preamble   byte
	Address    uint32
	PayloadLen byte
	PacketID   byte
	NoAck      bool
	Byte1      byte
	Byte2      byte
}

// Encode packs f into its 64-bit wire representation. It returns
// ErrFieldOverflow if any field does not fit its declared width.
func Encode(f Frame) (uint64, error) {
	if f.Address > addressMask {
		return 0, fmt.Errorf("%w: address 0x%X exceeds %d bits",
			ErrFieldOverflow, f.Address, AddressBits)
	}
	if f.PayloadLen > payloadLenMask {
		return 0, fmt.Errorf("%w: payload length %d exceeds %d bits",
			ErrFieldOverflow, f.PayloadLen, PayloadLenBits)
	}
	if f.PacketID > packetIDMask {
		return 0, fmt.Errorf("%w: packet id %d exceeds %d bits",
			ErrFieldOverflow, f.PacketID, PacketIDBits)
	}

	var noAck uint64
	if f.NoAck {
		noAck = 1
	}

	packed := uint64(f.Preamble)<<preambleShift |
		uint64(f.Address)<<addressShift |
		uint64(f.PayloadLen)<<payloadLenShift |
		uint64(f.PacketID)<<packetIDShift |
		noAck<<noAckShift |
		uint64(f.Byte1)<<byte1Shift |
		uint64(f.Byte2)<<byte2Shift
	return packed, nil
}

// Decode unpacks a 64-bit wire frame. It is the exact inverse of Encode
// for every frame Encode accepts; the padding bits are ignored.
func Decode(packed uint64) Frame {
	return Frame{
		Preamble:   byte(packed >> preambleShift),
		Address:    uint32(packed>>addressShift) & addressMask,
		PayloadLen: byte(packed>>payloadLenShift) & payloadLenMask,
		PacketID:   byte(packed>>packetIDShift) & packetIDMask,
		NoAck:      packed>>noAckShift&noAckMask != 0,
		Byte1:      byte(packed >> byte1Shift),
		Byte2:      byte(packed >> byte2Shift),
	}
}

// FrequencyForChannel returns the centre frequency of an RF channel.
// Channels are 1 MHz apart starting at MinFrequency.
func FrequencyForChannel(channel int) (physic.Frequency, error) {
	if channel < 0 || channel > MaxChannel {
		return 0, fmt.Errorf("%w: %d not in [0, %d]",
			ErrChannelOutOfRange, channel, MaxChannel)
	}
	return MinFrequency + physic.Frequency(channel)*physic.MegaHertz, nil
}
