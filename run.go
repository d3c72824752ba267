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

// ChunkConsumer is the transport collaborator that takes each pending
// chunk off the session. Radio satisfies it via ConsumerFunc, and tests
// substitute their own.
type ChunkConsumer interface {
	ConsumeChunk(ctx context.Context, link LinkConfig, chunk []byte) error
}

// ConsumerFunc adapts a function to the ChunkConsumer interface.
type ConsumerFunc func(ctx context.Context, link LinkConfig, chunk []byte) error

// ConsumeChunk calls f.
func (f ConsumerFunc) ConsumeChunk(ctx context.Context, link LinkConfig, chunk []byte) error {
	return f(ctx, link, chunk)
}

// RadioConsumer adapts a Radio into the session's chunk consumer. The
// radio is programmed from the link configuration before the first chunk
// goes out.
func RadioConsumer(r *Radio) ChunkConsumer {
	var configured bool
	return ConsumerFunc(func(_ context.Context, link LinkConfig, chunk []byte) error {
		if !configured {
			if err := r.Configure(link); err != nil {
				return fmt.Errorf("configure radio: %w", err)
			}
			configured = true
		}
		return r.SendChunk(link, chunk)
	})
}

// Run drives one complete file session over the host wire protocol:
//
//	flush-marker run -> handshake -> configuration (channel, address,
//	extension) -> commit handshake -> repeated {size byte, payload,
//	consumer-ack handshake} until a zero size byte ends the file.
//
// Each received chunk is handed to the consumer, after which the chunk
// buffer is released so the host may send the next one. Run returns the
// first fatal error; the caller decides between SoftReset and abandoning
// the port.
func (s *Session) Run(ctx context.Context, consumer ChunkConsumer) error {
	if err := s.Handshake(ctx); err != nil {
		return &SessionError{Op: "handshake", Phase: "sync", Err: err}
	}

	if err := s.ReadConfig(ctx); err != nil {
		return err
	}
	if err := s.CommitConfig(); err != nil {
		return &SessionError{Op: "commit config", Phase: "config", Err: err}
	}
	if err := s.Handshake(ctx); err != nil {
		return &SessionError{Op: "commit handshake", Phase: "config", Err: err}
	}

	Debugf("session configured: channel=%d address=0x%08X extension=%q",
		s.Channel(), s.AddressNum(), s.Extension())

	for {
		if err := s.Handshake(ctx); err != nil {
			return &SessionError{Op: "chunk handshake", Phase: "chunk", Err: err}
		}

		size, err := s.ReadChunk(ctx)
		if err != nil {
			return err
		}
		if size == 0 {
			Debugln("end of file signalled by host")
			return nil
		}

		if consumer != nil {
			if err := consumer.ConsumeChunk(ctx, s.link, s.FileChunk()); err != nil {
				return fmt.Errorf("consume chunk: %w", err)
			}
		}
		s.EmptyFileChunk()
	}
}
