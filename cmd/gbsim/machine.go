package main

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/sarchlab/gbsim/config"
	"github.com/sarchlab/gbsim/emu"
	"github.com/sarchlab/gbsim/peripheral"
)

// machine is an emulator with its I/O devices attached.
type machine struct {
	emulator *emu.Emulator
	timer    *peripheral.Timer
	joypad   *peripheral.Joypad
	serial   *peripheral.Serial
}

// newMachine builds a machine from a cartridge image and an optional boot
// ROM. Serial output is written to serialOut.
func newMachine(
	cfg *config.Config,
	rom, bootROM []byte,
	serialOut io.Writer,
	logger logr.Logger,
) (*machine, error) {
	e := emu.NewEmulator(cfg.EmulatorOptions(logger)...)

	if err := e.LoadROM(rom); err != nil {
		return nil, fmt.Errorf("failed to load rom: %w", err)
	}
	if bootROM != nil {
		if err := e.LoadBootROM(bootROM); err != nil {
			return nil, fmt.Errorf("failed to load boot rom: %w", err)
		}
	}

	bus := e.Memory()
	m := &machine{emulator: e}

	var err error
	if m.timer, err = peripheral.NewTimer(bus); err != nil {
		return nil, err
	}
	if m.joypad, err = peripheral.NewJoypad(bus); err != nil {
		return nil, err
	}
	if m.serial, err = peripheral.NewSerial(bus, serialOut, logger.WithName("serial")); err != nil {
		return nil, err
	}

	e.Attach(m.timer)

	return m, nil
}
