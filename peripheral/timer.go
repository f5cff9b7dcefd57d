package peripheral

import (
	"fmt"

	"github.com/sarchlab/gbsim/emu"
)

// divPeriod is the number of cycles between DIV increments (16384 Hz).
const divPeriod = 256

// timaPeriods maps TAC bits 0-1 to the cycles between TIMA increments.
var timaPeriods = [4]int{1024, 16, 64, 256}

// Timer implements DIV, TIMA, TMA and TAC.
type Timer struct {
	bus Bus

	divCounter  int
	timaCounter int
}

// NewTimer creates a timer and installs its DIV hook on the bus.
func NewTimer(bus Bus) (*Timer, error) {
	t := &Timer{bus: bus}

	err := bus.MapIO(emu.AddrDIV, &emu.IOHandler{
		Write: func(uint16, uint8) { t.ResetDivider() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to map DIV: %w", err)
	}

	return t, nil
}

// ResetDivider clears DIV and its prescaler, as any write to DIV does.
func (t *Timer) ResetDivider() {
	t.bus.SetIO(emu.AddrDIV, 0)
	t.divCounter = 0
}

// Tick advances the timer by the given number of cycles.
func (t *Timer) Tick(cycles int) {
	t.divCounter += cycles
	for t.divCounter >= divPeriod {
		t.divCounter -= divPeriod
		t.bus.SetIO(emu.AddrDIV, t.bus.IO(emu.AddrDIV)+1)
	}

	tac := t.bus.IO(emu.AddrTAC)
	if tac&0x04 == 0 {
		return
	}

	period := timaPeriods[tac&0x03]
	t.timaCounter += cycles
	for t.timaCounter >= period {
		t.timaCounter -= period
		t.incrementTIMA()
	}
}

func (t *Timer) incrementTIMA() {
	tima := t.bus.IO(emu.AddrTIMA)
	if tima != 0xFF {
		t.bus.SetIO(emu.AddrTIMA, tima+1)
		return
	}

	t.bus.SetIO(emu.AddrTIMA, t.bus.IO(emu.AddrTMA))
	requestInterrupt(t.bus, emu.IntTimer)
}
