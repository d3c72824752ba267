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
	"fmt"
	"strings"

	"go.bug.st/serial"
)

// ListPorts returns candidate serial ports for the host link, filtering
// out devices that are never USB serial adapters (console ttys and the
// like on Linux).
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	candidates := make([]string, 0, len(ports))
	for _, port := range ports {
		if isConsoleTTY(port) {
			continue
		}
		candidates = append(candidates, port)
	}
	return candidates, nil
}

// isConsoleTTY filters virtual console devices that GetPortsList reports
// on some systems.
func isConsoleTTY(port string) bool {
	base := port[strings.LastIndex(port, "/")+1:]
	if !strings.HasPrefix(base, "tty") {
		return false
	}
	rest := base[len("tty"):]
	if rest == "" {
		return true
	}
	// ttyS0, ttyUSB0, ttyACM0 are real ports; tty1, tty2... are consoles.
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
