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
	"context"
	"testing"
	"time"

	testutil "github.com/anthoturc/rfsling/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastHandshakeConfig keeps handshake tests quick.
func fastHandshakeConfig() *SessionConfig {
	cfg := DefaultSessionConfig()
	cfg.HandshakeTimeout = 20 * time.Millisecond
	cfg.RetryConfig = &RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
		RetryTimeout:      time.Second,
	}
	return cfg
}

func TestHandshakeEcho(t *testing.T) {
	t.Parallel()

	port := testutil.NewMockPort()
	s := NewSession(port, fastHandshakeConfig())
	s.flush.state = SerialReading

	port.Script(HandshakeByte)

	require.NoError(t, s.Handshake(context.Background()))
	assert.Equal(t, []byte{HandshakeByte}, port.Sent(), "token must be sent before awaiting echo")
}

func TestHandshakeSkipsResidualNoise(t *testing.T) {
	t.Parallel()

	port := testutil.NewMockPort()
	s := NewSession(port, fastHandshakeConfig())
	s.flush.state = SerialReading

	port.Script(0x55, 0xAA, HandshakeByte)

	require.NoError(t, s.Handshake(context.Background()))
}

func TestHandshakeTimesOutThenFails(t *testing.T) {
	t.Parallel()

	port := testutil.NewMockPort()
	port.BlockOnEmpty = true
	s := NewSession(port, fastHandshakeConfig())
	s.flush.state = SerialReading

	start := time.Now()
	err := s.Handshake(context.Background())
	require.ErrorIs(t, err, ErrHandshakeFailed)
	assert.GreaterOrEqual(t, time.Since(start), 3*20*time.Millisecond,
		"all attempts must wait out their timeout")

	// Three tokens, one per attempt.
	assert.Equal(t, []byte{HandshakeByte, HandshakeByte, HandshakeByte}, port.Sent())
}

func TestHandshakeRecoversOnRetry(t *testing.T) {
	t.Parallel()

	port := testutil.NewMockPort()
	port.BlockOnEmpty = true
	s := NewSession(port, fastHandshakeConfig())
	s.flush.state = SerialReading

	// Echo arrives only while the second attempt is waiting.
	go func() {
		time.Sleep(30 * time.Millisecond)
		port.Script(HandshakeByte)
	}()

	require.NoError(t, s.Handshake(context.Background()))
}
