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

package uart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsConsoleTTY(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		port string
		want bool
	}{
		{name: "Virtual_Console", port: "/dev/tty1", want: true},
		{name: "Virtual_Console_High", port: "/dev/tty63", want: true},
		{name: "Bare_TTY", port: "/dev/tty", want: true},
		{name: "USB_Serial", port: "/dev/ttyUSB0", want: false},
		{name: "ACM_Serial", port: "/dev/ttyACM0", want: false},
		{name: "Hardware_UART", port: "/dev/ttyS0", want: false},
		{name: "Darwin_USB", port: "/dev/cu.usbserial-0001", want: false},
		{name: "Windows_COM", port: "COM3", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isConsoleTTY(tt.port))
		})
	}
}
