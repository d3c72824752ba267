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

// Package nrf24 holds the nRF24L01+ register map, register bit positions
// and SPI command bytes. Addresses must match the data sheet bit-exactly;
// the chip has no tolerance for a wrong address byte.
package nrf24

import (
	"errors"
	"fmt"
)

// ErrUnknownRegister is returned by AddressOf for names that are not part
// of the register map or that fall in the reserved test gap.
var ErrUnknownRegister = errors.New("unknown register")

// Register addresses (data sheet section 9). The 0x18-0x1B gap is used by
// test registers and is deliberately absent from the map.
const (
	RegConfig     = 0x00
	RegEnAA       = 0x01
	RegEnRxAddr   = 0x02
	RegSetupAW    = 0x03
	RegSetupRetr  = 0x04
	RegRFCh       = 0x05
	RegRFSetup    = 0x06
	RegStatus     = 0x07
	RegObserveTx  = 0x08
	RegCD         = 0x09
	RegRxAddrP0   = 0x0A
	RegRxAddrP1   = 0x0B
	RegRxAddrP2   = 0x0C
	RegRxAddrP3   = 0x0D
	RegRxAddrP4   = 0x0E
	RegRxAddrP5   = 0x0F
	RegTxAddr     = 0x10
	RegRxPwP0     = 0x11
	RegRxPwP1     = 0x12
	RegRxPwP2     = 0x13
	RegRxPwP3     = 0x14
	RegRxPwP4     = 0x15
	RegRxPwP5     = 0x16
	RegFIFOStatus = 0x17
	RegDynPd      = 0x1C
	RegFeature    = 0x1D
)

// CONFIG register bit positions.
const (
	BitPrimRX    = 0 // 1: PRX, 0: PTX
	BitPwrUp     = 1 // 1: power up, 0: power down
	BitCRCO      = 2 // 0: 1-byte CRC, 1: 2-byte CRC
	BitEnCRC     = 3 // enable CRC
	BitMaskMaxRT = 4 // mask MAX_RT interrupt
	BitMaskTxDS  = 5 // mask TX_DS interrupt
	BitMaskRxDR  = 6 // mask RX_DR interrupt
)

// SPI command bytes (data sheet section 8.3.1).
const (
	CmdReadRegister   = 0x00 // OR with 5-bit register address
	CmdWriteRegister  = 0x20 // OR with 5-bit register address
	CmdReadRxPayload  = 0x61
	CmdWriteTxPayload = 0xA0
	CmdFlushTx        = 0xE1
	CmdFlushRx        = 0xE2
	CmdNop            = 0xFF
)

// registersByName maps the data sheet mnemonics to their address bytes.
// Test registers in the 0x18-0x1B gap are intentionally not listed.
var registersByName = map[string]byte{
	"CONFIG":      RegConfig,
	"EN_AA":       RegEnAA,
	"EN_RXADDR":   RegEnRxAddr,
	"SETUP_AW":    RegSetupAW,
	"SETUP_RETR":  RegSetupRetr,
	"RF_CH":       RegRFCh,
	"RF_SETUP":    RegRFSetup,
	"STATUS":      RegStatus,
	"OBSERVE_TX":  RegObserveTx,
	"CD":          RegCD,
	"RX_ADDR_P0":  RegRxAddrP0,
	"RX_ADDR_P1":  RegRxAddrP1,
	"RX_ADDR_P2":  RegRxAddrP2,
	"RX_ADDR_P3":  RegRxAddrP3,
	"RX_ADDR_P4":  RegRxAddrP4,
	"RX_ADDR_P5":  RegRxAddrP5,
	"TX_ADDR":     RegTxAddr,
	"RX_PW_P0":    RegRxPwP0,
	"RX_PW_P1":    RegRxPwP1,
	"RX_PW_P2":    RegRxPwP2,
	"RX_PW_P3":    RegRxPwP3,
	"RX_PW_P4":    RegRxPwP4,
	"RX_PW_P5":    RegRxPwP5,
	"FIFO_STATUS": RegFIFOStatus,
	"DYNPD":       RegDynPd,
	"FEATURE":     RegFeature,
}

// AddressOf resolves a register mnemonic to its address byte.
func AddressOf(name string) (byte, error) {
	addr, ok := registersByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRegister, name)
	}
	return addr, nil
}
