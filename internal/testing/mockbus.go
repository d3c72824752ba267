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

package testing

import "sync"

// RegisterWrite records one register write on the mock bus.
type RegisterWrite struct {
	Address byte
	Value   byte
}

// MockBus is a recording RadioBus double. Register writes, address
// writes, payloads and line changes are all captured in order; reads are
// served from a settable register file.
type MockBus struct {
	mu sync.Mutex

	Registers     map[byte]byte
	AddressWrites map[byte][]byte
	Writes        []RegisterWrite
	Payloads      [][]byte
	EnableHistory []bool
	SelectHistory []bool
	Closed        bool
}

// NewMockBus creates a mock bus with an empty register file.
func NewMockBus() *MockBus {
	return &MockBus{
		Registers:     make(map[byte]byte),
		AddressWrites: make(map[byte][]byte),
	}
}

// WriteRegister records the write and updates the register file.
func (b *MockBus) WriteRegister(address, value byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Writes = append(b.Writes, RegisterWrite{Address: address, Value: value})
	b.Registers[address] = value
	return nil
}

// ReadRegister serves from the register file.
func (b *MockBus) ReadRegister(address byte) (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Registers[address], nil
}

// WriteAddressRegister records a multi-byte address write.
func (b *MockBus) WriteAddressRegister(address byte, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	b.AddressWrites[address] = stored
	return nil
}

// WritePayload records one TX FIFO payload.
func (b *MockBus) WritePayload(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	b.Payloads = append(b.Payloads, stored)
	return nil
}

// SetEnableLine records a CE transition.
func (b *MockBus) SetEnableLine(high bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.EnableHistory = append(b.EnableHistory, high)
	return nil
}

// SetSelectLine records a CSN transition.
func (b *MockBus) SetSelectLine(high bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.SelectHistory = append(b.SelectHistory, high)
	return nil
}

// Close marks the bus closed.
func (b *MockBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Closed = true
	return nil
}
