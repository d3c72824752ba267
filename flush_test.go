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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlushDetectorMarkerRun(t *testing.T) {
	t.Parallel()

	d := NewFlushDetector()
	assert.Equal(t, SerialFlushing, d.State())

	for i := 0; i < FlushCount-1; i++ {
		assert.False(t, d.Feed(FlushMarker), "byte %d should be absorbed", i)
		assert.Equal(t, SerialFlushing, d.State())
	}

	// The byte completing the run is itself absorbed.
	assert.False(t, d.Feed(FlushMarker))
	assert.Equal(t, SerialReading, d.State())
}

func TestFlushDetectorCounterResetsOnMismatch(t *testing.T) {
	t.Parallel()

	d := NewFlushDetector()
	discarded := 0

	// 4 markers, 1 stray byte, then a full 5-marker run: all 9 pre-sync
	// bytes are discarded and only the second run completes the switch.
	for i := 0; i < 4; i++ {
		assert.False(t, d.Feed(FlushMarker))
		discarded++
	}
	assert.False(t, d.Feed(0x42))
	discarded++
	assert.Equal(t, SerialFlushing, d.State())

	for i := 0; i < 4; i++ {
		assert.False(t, d.Feed(FlushMarker))
		discarded++
		assert.Equal(t, SerialFlushing, d.State())
	}
	assert.False(t, d.Feed(FlushMarker))
	assert.Equal(t, 9, discarded)
	assert.Equal(t, SerialReading, d.State())
}

func TestFlushDetectorDeliversEverythingOnceReading(t *testing.T) {
	t.Parallel()

	d := NewFlushDetector()
	for i := 0; i < FlushCount; i++ {
		d.Feed(FlushMarker)
	}
	assert.Equal(t, SerialReading, d.State())

	// Marker bytes are data now; the detector takes no further action.
	assert.True(t, d.Feed(FlushMarker))
	assert.True(t, d.Feed(0x00))
	assert.True(t, d.Feed(0xFF))
	assert.Equal(t, SerialReading, d.State())
}

func TestFlushDetectorReset(t *testing.T) {
	t.Parallel()

	d := NewFlushDetector()
	for i := 0; i < FlushCount; i++ {
		d.Feed(FlushMarker)
	}
	assert.Equal(t, SerialReading, d.State())

	d.Reset()
	assert.Equal(t, SerialFlushing, d.State())
	assert.False(t, d.Feed(0x42))
}
