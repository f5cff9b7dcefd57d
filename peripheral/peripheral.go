// Package peripheral provides the I/O-register owners of the Game Boy that
// the CPU core needs to run real software: the timer, the joypad and the
// serial port.
//
// Each peripheral installs hooks on the bus for the registers it owns and
// touches bus state only from those hooks and from Tick, both of which run
// between CPU steps.
package peripheral

import "github.com/sarchlab/gbsim/emu"

// Bus is the part of the memory bus a peripheral uses.
type Bus interface {
	MapIO(addr uint16, h *emu.IOHandler) error
	IO(addr uint16) uint8
	SetIO(addr uint16, value uint8)
}

func requestInterrupt(bus Bus, mask uint8) {
	bus.SetIO(emu.AddrIF, bus.IO(emu.AddrIF)|mask)
}
