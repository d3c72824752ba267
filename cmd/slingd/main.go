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

// slingd is the board-side daemon: it accepts radio configuration and
// file chunks from a host over a serial link and slings each chunk out
// through an nRF24L01+ on SPI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	rfsling "github.com/anthoturc/rfsling"
	"github.com/anthoturc/rfsling/transport/spi"
	"github.com/anthoturc/rfsling/transport/uart"
)

type config struct {
	serialPort string
	spiPort    string
	cePin      string
	csnPin     string
	echo       bool
	debug      bool
	dryRun     bool
}

// Package-level flag variables
var (
	flagSerialPort string
	flagSPIPort    string
	flagCEPin      string
	flagCSNPin     string
	flagEcho       bool
	flagDebug      bool
	flagDryRun     bool
)

func init() {
	flag.StringVar(&flagSerialPort, "port", "", "Host link serial port (auto-detect if empty)")
	flag.StringVar(&flagSPIPort, "spi", "/dev/spidev0.0", "SPI port for the radio")
	flag.StringVar(&flagCEPin, "ce", "GPIO22", "Chip-enable GPIO name")
	flag.StringVar(&flagCSNPin, "csn", "", "Chip-select-not GPIO name (controller CS if empty)")
	flag.BoolVar(&flagEcho, "echo", false, "Echo received chunks back to the host")
	flag.BoolVar(&flagDebug, "debug", false, "Enable debug output")
	flag.BoolVar(&flagDryRun, "dry-run", false, "Run the host protocol without a radio attached")
}

func parseConfig() *config {
	cfg := &config{
		serialPort: flagSerialPort,
		spiPort:    flagSPIPort,
		cePin:      flagCEPin,
		csnPin:     flagCSNPin,
		echo:       flagEcho,
		debug:      flagDebug,
		dryRun:     flagDryRun,
	}

	if cfg.debug {
		rfsling.SetDebugEnabled(true)
	}

	return cfg
}

// pickSerialPort resolves the host link port, auto-detecting when none
// was given.
func pickSerialPort(cfg *config) (string, error) {
	if cfg.serialPort != "" {
		return cfg.serialPort, nil
	}

	ports, err := uart.ListPorts()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", errors.New("no serial ports found; pass -port explicitly")
	}
	if len(ports) > 1 {
		return "", fmt.Errorf("multiple serial ports found (%s); pass -port explicitly",
			strings.Join(ports, ", "))
	}
	return ports[0], nil
}

func run(ctx context.Context, cfg *config) error {
	portName, err := pickSerialPort(cfg)
	if err != nil {
		return err
	}

	port, err := uart.New(portName)
	if err != nil {
		return err
	}
	defer func() { _ = port.Close() }()

	sessionCfg := rfsling.DefaultSessionConfig()
	sessionCfg.EchoChunks = cfg.echo
	session := rfsling.NewSession(port, sessionCfg)

	var consumer rfsling.ChunkConsumer
	var radio *rfsling.Radio
	if !cfg.dryRun {
		bus, busErr := spi.New(cfg.spiPort, spi.Options{CEPin: cfg.cePin, CSNPin: cfg.csnPin})
		if busErr != nil {
			return busErr
		}
		defer func() { _ = bus.Close() }()
		radio = rfsling.NewRadio(bus, sessionCfg.AirAddressBits)
		consumer = rfsling.RadioConsumer(radio)
	}

	fmt.Printf("listening on %s at %d baud\n", portName, rfsling.BaudRate)

	for {
		err := runSession(ctx, session, radio, consumer)
		switch {
		case errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			fmt.Fprintf(os.Stderr, "session error: %v\n", err)
			if rfsling.IsFatal(err) && !errors.Is(err, rfsling.ErrHandshakeFailed) {
				return err
			}
		}
		// One file per session; soft reset re-arms for the next host run.
		session.SoftReset()
	}
}

func runSession(ctx context.Context, session *rfsling.Session,
	radio *rfsling.Radio, consumer rfsling.ChunkConsumer,
) error {
	if err := session.Run(ctx, consumer); err != nil {
		return err
	}

	fmt.Printf("received file %q on channel %d\n",
		strings.TrimRight(string(session.Extension()), " \x00"), session.Channel())

	if radio != nil {
		if err := radio.ApplyMode(session.ExpectedRadioMode()); err != nil {
			return fmt.Errorf("apply radio mode: %w", err)
		}
	}
	return nil
}

func main() {
	flag.Parse()
	cfg := parseConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "slingd: %v\n", err)
		os.Exit(1)
	}
}
