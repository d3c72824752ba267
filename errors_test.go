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
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "Nil", err: nil, want: false},
		{name: "Transport_Timeout", err: ErrTransportTimeout, want: true},
		{name: "Transport_Read", err: ErrTransportRead, want: true},
		{name: "Transport_Write", err: ErrTransportWrite, want: true},
		{name: "Handshake_Timeout", err: ErrHandshakeTimeout, want: true},
		{name: "Handshake_Failed", err: ErrHandshakeFailed, want: false},
		{name: "Config_Locked", err: ErrConfigLocked, want: false},
		{name: "Chunk_Busy", err: ErrChunkBusy, want: false},
		{
			name: "Wrapped_Handshake_Timeout",
			err:  &SessionError{Op: "handshake", Phase: "sync", Err: ErrHandshakeTimeout},
			want: true,
		},
		{
			name: "Transport_Error_Transient",
			err:  NewTransportError("receive", "/dev/ttyUSB0", io.ErrUnexpectedEOF, ErrorTypeTransient),
			want: true,
		},
		{
			name: "Transport_Error_Permanent",
			err:  NewTransportError("receive", "/dev/ttyUSB0", ErrTransportClosed, ErrorTypePermanent),
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "Nil", err: nil, want: false},
		{name: "Handshake_Failed", err: ErrHandshakeFailed, want: true},
		{name: "Transport_Closed", err: ErrTransportClosed, want: true},
		{name: "EOF", err: io.EOF, want: true},
		{name: "Handshake_Timeout", err: ErrHandshakeTimeout, want: false},
		{name: "Chunk_Size", err: ErrChunkSizeOutOfRange, want: false},
		{
			name: "Transport_Error_Permanent",
			err:  NewTransportError("send", "mock", ErrTransportClosed, ErrorTypePermanent),
			want: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

func TestGetErrorType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ErrorTypeTimeout, GetErrorType(ErrTransportTimeout))
	assert.Equal(t, ErrorTypeTimeout, GetErrorType(ErrHandshakeTimeout))
	assert.Equal(t, ErrorTypeTransient, GetErrorType(ErrTransportRead))
	assert.Equal(t, ErrorTypePermanent, GetErrorType(ErrConfigLocked))
	assert.Equal(t, ErrorTypePermanent, GetErrorType(nil))
}

func TestTransportErrorFormat(t *testing.T) {
	t.Parallel()

	err := NewTransportError("receive", "/dev/ttyUSB0", ErrTransportTimeout, ErrorTypeTimeout)
	assert.Equal(t, "receive /dev/ttyUSB0: transport timeout", err.Error())
	assert.True(t, errors.Is(err, ErrTransportTimeout))

	bare := NewTransportError("send", "", ErrTransportWrite, ErrorTypeTransient)
	assert.Equal(t, "send: transport write failed", bare.Error())
}

func TestSessionErrorFormat(t *testing.T) {
	t.Parallel()

	err := &SessionError{Op: "read channel", Phase: "config", Err: ErrTransportTimeout}
	assert.Equal(t, "read channel during config: transport timeout", err.Error())
	assert.True(t, errors.Is(err, ErrTransportTimeout))
}
