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

// SerialState indicates whether the host link is still being flushed of
// stale bytes or is delivering trusted protocol data.
type SerialState int

const (
	// SerialFlushing discards bytes until the marker run is seen
	SerialFlushing SerialState = iota
	// SerialReading delivers every byte to the protocol layer
	SerialReading
)

func (s SerialState) String() string {
	switch s {
	case SerialFlushing:
		return "flushing"
	case SerialReading:
		return "reading"
	default:
		return "unknown"
	}
}

// FlushDetector absorbs whatever a freshly opened serial link has sitting
// in its buffers. It counts consecutive marker bytes and switches to the
// reading state the instant the run reaches the threshold. The switch is
// one-way; only Reset re-arms it.
//
// Feed is safe to call from a byte-arrival callback: it only updates the
// match counter and state, it never blocks.
type FlushDetector struct {
	marker    byte
	threshold int
	matches   int
	state     SerialState
}

// NewFlushDetector creates a detector armed with the protocol's marker
// byte and run threshold.
func NewFlushDetector() *FlushDetector {
	return &FlushDetector{
		marker:    FlushMarker,
		threshold: FlushCount,
		state:     SerialFlushing,
	}
}

// State returns the detector's current state.
func (d *FlushDetector) State() SerialState {
	return d.state
}

// Feed consumes one received byte. It returns true if the byte should be
// delivered to the protocol layer, false if it was absorbed by the flush.
// The byte that completes the marker run is itself absorbed.
func (d *FlushDetector) Feed(b byte) bool {
	if d.state == SerialReading {
		return true
	}

	if b != d.marker {
		d.matches = 0
		return false
	}

	d.matches++
	if d.matches >= d.threshold {
		d.state = SerialReading
	}
	return false
}

// Reset re-arms the detector for a new session.
func (d *FlushDetector) Reset() {
	d.matches = 0
	d.state = SerialFlushing
}
