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

// Package spi provides the nRF24L01+ register bus implementation of
// rfsling.RadioBus over a periph.io SPI port.
package spi

import (
	"fmt"

	rfsling "github.com/anthoturc/rfsling"
	"github.com/anthoturc/rfsling/internal/nrf24"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// The chip tolerates up to 10 Mbps on SPI; 8 MHz keeps margin on long
// jumper wires.
const defaultFreq = 8 * physic.MegaHertz

// Bus implements rfsling.RadioBus for an nRF24L01+ on SPI.
type Bus struct {
	port     spi.PortCloser
	conn     spi.Conn
	ce       gpio.PinIO
	csn      gpio.PinIO // nil when the controller drives chip select
	portName string
}

// Options configures the SPI bus pins.
type Options struct {
	// CEPin names the chip-enable GPIO, e.g. "GPIO22"
	CEPin string
	// CSNPin optionally names a GPIO driven as chip-select-not. Leave
	// empty to let the SPI controller sequence chip select itself.
	CSNPin string
}

// New opens the SPI port and claims the control pins.
func New(portName string, opts Options) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %s: %w", portName, err)
	}

	conn, err := port.Connect(defaultFreq, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to connect SPI: %w", err)
	}

	ce := gpioreg.ByName(opts.CEPin)
	if ce == nil {
		_ = port.Close()
		return nil, fmt.Errorf("CE pin %q not found", opts.CEPin)
	}
	if err := ce.Out(gpio.Low); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to drive CE pin: %w", err)
	}

	b := &Bus{
		port:     port,
		conn:     conn,
		ce:       ce,
		portName: portName,
	}

	if opts.CSNPin != "" {
		csn := gpioreg.ByName(opts.CSNPin)
		if csn == nil {
			_ = port.Close()
			return nil, fmt.Errorf("CSN pin %q not found", opts.CSNPin)
		}
		// CSN is active low; idle high.
		if err := csn.Out(gpio.High); err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("failed to drive CSN pin: %w", err)
		}
		b.csn = csn
	}

	return b, nil
}

// transact clocks one command through the chip, asserting CSN around it
// when the pin is under our control. Every transaction starts with a
// high to low CSN transition.
func (b *Bus) transact(w, r []byte) error {
	if b.csn != nil {
		if err := b.csn.Out(gpio.Low); err != nil {
			return fmt.Errorf("assert CSN: %w", err)
		}
		defer func() { _ = b.csn.Out(gpio.High) }()
	}
	if err := b.conn.Tx(w, r); err != nil {
		return fmt.Errorf("SPI transaction: %w", err)
	}
	return nil
}

// WriteRegister writes one register via the W_REGISTER command.
func (b *Bus) WriteRegister(address, value byte) error {
	w := []byte{nrf24.CmdWriteRegister | address, value}
	rfsling.DebugHex("spi write", w)
	return b.transact(w, make([]byte, len(w)))
}

// ReadRegister reads one register via the R_REGISTER command.
func (b *Bus) ReadRegister(address byte) (byte, error) {
	w := []byte{nrf24.CmdReadRegister | address, nrf24.CmdNop}
	r := make([]byte, len(w))
	if err := b.transact(w, r); err != nil {
		return 0, err
	}
	// r[0] is the status register the chip clocks out first.
	return r[1], nil
}

// WriteAddressRegister writes a multi-byte address register, least
// significant byte first as the chip expects.
func (b *Bus) WriteAddressRegister(address byte, value []byte) error {
	w := make([]byte, 0, len(value)+1)
	w = append(w, nrf24.CmdWriteRegister|address)
	w = append(w, value...)
	rfsling.DebugHex("spi write addr", w)
	return b.transact(w, make([]byte, len(w)))
}

// WritePayload clocks bytes into the TX FIFO via W_TX_PAYLOAD.
func (b *Bus) WritePayload(data []byte) error {
	w := make([]byte, 0, len(data)+1)
	w = append(w, nrf24.CmdWriteTxPayload)
	w = append(w, data...)
	return b.transact(w, make([]byte, len(w)))
}

// FlushTx empties the TX FIFO.
func (b *Bus) FlushTx() error {
	return b.transact([]byte{nrf24.CmdFlushTx}, make([]byte, 1))
}

// FlushRx empties the RX FIFO.
func (b *Bus) FlushRx() error {
	return b.transact([]byte{nrf24.CmdFlushRx}, make([]byte, 1))
}

// SetEnableLine drives the CE pin.
func (b *Bus) SetEnableLine(high bool) error {
	return b.ce.Out(gpio.Level(high))
}

// SetSelectLine drives the CSN pin when it is under GPIO control.
func (b *Bus) SetSelectLine(high bool) error {
	if b.csn == nil {
		return nil
	}
	return b.csn.Out(gpio.Level(high))
}

// Close drops CE and releases the SPI port.
func (b *Bus) Close() error {
	_ = b.ce.Out(gpio.Low)
	if err := b.port.Close(); err != nil {
		return fmt.Errorf("failed to close SPI port %s: %w", b.portName, err)
	}
	return nil
}
