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
	"fmt"
)

// StartChunk accepts a declared chunk size and arms the chunk buffer for
// that many payload bytes. It fails with ErrChunkBusy while the previous
// chunk has not been consumed, and with ErrChunkSizeOutOfRange for sizes
// beyond MaxChunkSize. The buffer is single: back-pressure is applied by
// refusal, never by overwrite.
func (s *Session) StartChunk(size int) error {
	if s.chunkFull {
		return fmt.Errorf("%w: previous chunk of %d bytes not yet consumed",
			ErrChunkBusy, s.chunkSize)
	}
	if size < 0 || size > MaxChunkSize {
		return fmt.Errorf("%w: %d not in [0, %d]",
			ErrChunkSizeOutOfRange, size, MaxChunkSize)
	}
	s.chunkSize = byte(size)
	return nil
}

// storeChunk fills the armed chunk buffer and marks it full.
func (s *Session) storeChunk(payload []byte) {
	copy(s.chunk[:], payload)
	s.chunkSize = byte(len(payload))
	s.chunkFull = true
}

// FileChunk returns the pending chunk payload, or nil if none is pending.
func (s *Session) FileChunk() []byte {
	if !s.chunkFull {
		return nil
	}
	chunk := make([]byte, s.chunkSize)
	copy(chunk, s.chunk[:s.chunkSize])
	return chunk
}

// FileChunkSize returns the declared size of the pending chunk.
func (s *Session) FileChunkSize() int {
	return int(s.chunkSize)
}

// ChunkPending returns true while a received chunk awaits consumption.
func (s *Session) ChunkPending() bool {
	return s.chunkFull
}

// EmptyFileChunk releases the chunk buffer. The consumer must call it
// after taking a chunk, or the next size byte is refused.
func (s *Session) EmptyFileChunk() {
	s.chunkSize = 0
	s.chunkFull = false
}

// EmptyFileExtension clears the stored extension, for starting a new
// file without a full session reset.
func (s *Session) EmptyFileExtension() {
	s.link.Extension = [ExtensionBytes]byte{}
}

// receiveByte reads the next trusted protocol byte from the host link,
// running every received byte through the flush detector. Bytes absorbed
// by the flush are dropped here and never surface.
func (s *Session) receiveByte(ctx context.Context) (byte, error) {
	for {
		b, err := s.port.ReceiveByte(ctx)
		if err != nil {
			return 0, err
		}
		if s.flush.Feed(b) {
			return b, nil
		}
	}
}

// receiveFull reads exactly len(buf) protocol bytes.
func (s *Session) receiveFull(ctx context.Context, buf []byte) error {
	for i := range buf {
		b, err := s.receiveByte(ctx)
		if err != nil {
			return fmt.Errorf("after %d of %d bytes: %w", i, len(buf), err)
		}
		buf[i] = b
	}
	return nil
}

// ReadConfig runs the configuring phase of the host wire protocol:
// one channel byte, four address bytes, then the extension bytes.
func (s *Session) ReadConfig(ctx context.Context) error {
	channel, err := s.receiveByte(ctx)
	if err != nil {
		return &SessionError{Op: "read channel", Phase: "config", Err: err}
	}
	if err := s.SetChannel(channel); err != nil {
		return &SessionError{Op: "set channel", Phase: "config", Err: err}
	}

	var address [AddressBytes]byte
	if err := s.receiveFull(ctx, address[:]); err != nil {
		return &SessionError{Op: "read address", Phase: "config", Err: err}
	}
	if err := s.SetAddress(address); err != nil {
		return &SessionError{Op: "set address", Phase: "config", Err: err}
	}

	return s.ReadExtension(ctx)
}

// ReadExtension reads the fixed-width, blank-padded file extension.
func (s *Session) ReadExtension(ctx context.Context) error {
	ext := make([]byte, ExtensionBytes)
	if err := s.receiveFull(ctx, ext); err != nil {
		return &SessionError{Op: "read extension", Phase: "config", Err: err}
	}
	if err := s.SetExtension(ext); err != nil {
		return &SessionError{Op: "set extension", Phase: "config", Err: err}
	}
	return nil
}

// ReadChunk receives one size-prefixed chunk into the chunk buffer and
// returns the declared size. A size of zero is the host's end-of-file
// signal and leaves the buffer empty. Chunk reception has no timeout of
// its own; cancel the context to abandon a stalled host.
func (s *Session) ReadChunk(ctx context.Context) (int, error) {
	size, err := s.receiveByte(ctx)
	if err != nil {
		return 0, &SessionError{Op: "read chunk size", Phase: "chunk", Err: err}
	}
	if err := s.StartChunk(int(size)); err != nil {
		return 0, &SessionError{Op: "accept chunk size", Phase: "chunk", Err: err}
	}
	if size == 0 {
		return 0, nil
	}

	payload := make([]byte, size)
	if err := s.receiveFull(ctx, payload); err != nil {
		return 0, &SessionError{Op: "read chunk payload", Phase: "chunk", Err: err}
	}
	s.storeChunk(payload)

	if s.config.EchoChunks {
		if err := s.echoChunk(payload); err != nil {
			return 0, &SessionError{Op: "echo chunk", Phase: "chunk", Err: err}
		}
	}
	return int(size), nil
}

// echoChunk mirrors a received chunk back to the host, terminated by the
// handshake byte so the host knows where the echo ends.
func (s *Session) echoChunk(payload []byte) error {
	if err := s.port.SendBytes(payload); err != nil {
		return err
	}
	return s.port.SendBytes([]byte{HandshakeByte})
}
