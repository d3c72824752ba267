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
	"errors"
	"fmt"
)

// Handshake performs one request/acknowledge exchange with the host: it
// sends the handshake byte, then blocks until the same byte is echoed
// back or the handshake timeout expires. Individual timeouts are retried
// per the session's retry configuration; once attempts are exhausted the
// error is ErrHandshakeFailed, which is fatal for the session and
// requires a soft reset. Exactly one handshake is ever in flight.
func (s *Session) Handshake(ctx context.Context) error {
	err := RetryWithConfig(ctx, s.config.RetryConfig, func() error {
		return s.handshakeOnce(ctx)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrHandshakeTimeout) {
		return fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
	}
	return err
}

// handshakeOnce runs a single send-and-await-echo attempt.
func (s *Session) handshakeOnce(ctx context.Context) error {
	if err := s.port.SendBytes([]byte{HandshakeByte}); err != nil {
		return NewTransportError("handshake send", s.port.Name(), err, ErrorTypeTransient)
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.config.HandshakeTimeout)
	defer cancel()

	for {
		b, err := s.receiveByte(waitCtx)
		switch {
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTransportTimeout):
			return fmt.Errorf("%w: no echo within %v", ErrHandshakeTimeout, s.config.HandshakeTimeout)
		case err != nil:
			return err
		}
		// Anything that is not the token is residual noise; keep waiting
		// for the echo until the deadline decides.
		if b == HandshakeByte {
			return nil
		}
	}
}
