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

	"github.com/anthoturc/rfsling/internal/espb"
	testutil "github.com/anthoturc/rfsling/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	return NewSession(testutil.NewMockPort(), DefaultSessionConfig())
}

func TestSessionStartsConfiguring(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	assert.Equal(t, BoardConfiguring, s.BoardState())
	assert.Equal(t, SerialFlushing, s.SerialState())
	assert.False(t, s.ChunkPending())
}

func TestSetChannelValidation(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	require.NoError(t, s.SetChannel(40))
	assert.Equal(t, byte(40), s.Channel())

	err := s.SetChannel(125)
	require.ErrorIs(t, err, espb.ErrChannelOutOfRange)
	assert.Equal(t, byte(40), s.Channel(), "failed write must not mutate")
}

func TestConfigWritesLockedAfterCommit(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	require.NoError(t, s.SetChannel(40))
	require.NoError(t, s.SetAddress([AddressBytes]byte{0x01, 0x02, 0x03, 0x04}))
	require.NoError(t, s.CommitConfig())
	assert.Equal(t, BoardReady, s.BoardState())

	require.ErrorIs(t, s.SetChannel(41), ErrConfigLocked)
	require.ErrorIs(t, s.SetAddress([AddressBytes]byte{}), ErrConfigLocked)
	ext := make([]byte, ExtensionBytes)
	require.ErrorIs(t, s.SetExtension(ext), ErrConfigLocked)

	assert.Equal(t, byte(40), s.Channel(), "locked write must not mutate")
	assert.Equal(t, uint32(0x04030201), s.AddressNum())
}

func TestCommitConfigIncomplete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setChannel bool
		setAddress bool
		wantErr    error
	}{
		{name: "Nothing_Set", wantErr: ErrIncompleteConfig},
		{name: "Only_Channel", setChannel: true, wantErr: ErrIncompleteConfig},
		{name: "Only_Address", setAddress: true, wantErr: ErrIncompleteConfig},
		{name: "Both_Set", setChannel: true, setAddress: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestSession()
			if tt.setChannel {
				require.NoError(t, s.SetChannel(1))
			}
			if tt.setAddress {
				require.NoError(t, s.SetAddress([AddressBytes]byte{1, 2, 3, 4}))
			}

			err := s.CommitConfig()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, BoardConfiguring, s.BoardState())
			} else {
				require.NoError(t, err)
				assert.Equal(t, BoardReady, s.BoardState())
			}
		})
	}
}

func TestSoftResetReopensConfiguration(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	require.NoError(t, s.SetChannel(40))
	require.NoError(t, s.SetAddress([AddressBytes]byte{1, 2, 3, 4}))
	require.NoError(t, s.CommitConfig())
	require.ErrorIs(t, s.SetChannel(41), ErrConfigLocked)

	require.NoError(t, s.StartChunk(3))
	s.storeChunk([]byte{1, 2, 3})
	require.True(t, s.ChunkPending())

	s.SoftReset()

	assert.Equal(t, BoardConfiguring, s.BoardState())
	assert.Equal(t, SerialFlushing, s.SerialState(), "flush detection must be re-armed")
	assert.False(t, s.ChunkPending(), "pending chunk must be discarded")
	require.NoError(t, s.SetChannel(41))

	// The old configuration did not survive the reset.
	require.ErrorIs(t, s.CommitConfig(), ErrIncompleteConfig)
}

func TestExpectedRadioMode(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	assert.Equal(t, ModeListen, s.ExpectedRadioMode(), "always listen while configuring")

	require.NoError(t, s.SetChannel(40))
	require.NoError(t, s.SetAddress([AddressBytes]byte{1, 2, 3, 4}))
	require.NoError(t, s.CommitConfig())
	assert.Equal(t, ModeListen, s.ExpectedRadioMode(), "listen until a chunk is pending")

	require.NoError(t, s.StartChunk(2))
	s.storeChunk([]byte{0xCA, 0xFE})
	assert.Equal(t, ModeTransmit, s.ExpectedRadioMode())

	s.EmptyFileChunk()
	assert.Equal(t, ModeListen, s.ExpectedRadioMode())
}

func TestAddressNumIsLittleEndian(t *testing.T) {
	t.Parallel()

	s := newTestSession()
	require.NoError(t, s.SetAddress([AddressBytes]byte{0x01, 0x02, 0x03, 0x04}))
	assert.Equal(t, uint32(0x04030201), s.AddressNum())
	assert.Equal(t, [AddressBytes]byte{0x01, 0x02, 0x03, 0x04}, s.AddressBytes())
}
