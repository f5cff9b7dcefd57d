package peripheral

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/sarchlab/gbsim/emu"
)

// startInternalTransfer is the SC value that starts a transfer on the
// internal clock.
const startInternalTransfer = 0x81

// Serial implements SB and SC with no link partner. A transfer completes
// immediately: the outgoing byte goes to a writer and 0xFF comes back.
type Serial struct {
	bus    Bus
	out    io.Writer
	logger logr.Logger

	transfers uint64
}

// NewSerial creates a serial port writing transferred bytes to out and
// installs its SC hook on the bus.
func NewSerial(bus Bus, out io.Writer, logger logr.Logger) (*Serial, error) {
	s := &Serial{bus: bus, out: out, logger: logger}

	err := bus.MapIO(emu.AddrSC, &emu.IOHandler{
		Write: func(_ uint16, v uint8) {
			bus.SetIO(emu.AddrSC, v)
			if v == startInternalTransfer {
				s.transfer(v)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to map SC: %w", err)
	}

	return s, nil
}

func (s *Serial) transfer(sc uint8) {
	b := s.bus.IO(emu.AddrSB)
	if _, err := s.out.Write([]byte{b}); err != nil {
		s.logger.Error(err, "serial output failed", "byte", b)
	}
	s.logger.V(1).Info("serial transfer", "byte", b)

	s.transfers++
	s.bus.SetIO(emu.AddrSB, 0xFF)
	s.bus.SetIO(emu.AddrSC, sc&^0x80)
	requestInterrupt(s.bus, emu.IntSerial)
}

// Transfers returns the number of completed transfers.
func (s *Serial) Transfers() uint64 {
	return s.transfers
}
