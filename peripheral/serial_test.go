package peripheral_test

import (
	"bytes"
	"errors"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gbsim/emu"
	"github.com/sarchlab/gbsim/peripheral"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

var _ = Describe("Serial", func() {
	var (
		bus    *emu.Bus
		out    *bytes.Buffer
		serial *peripheral.Serial
	)

	BeforeEach(func() {
		bus = emu.NewMemory()
		out = &bytes.Buffer{}
		var err error
		serial, err = peripheral.NewSerial(bus, out, logr.Discard())
		Expect(err).NotTo(HaveOccurred())
	})

	It("should transfer SB on an internal-clock start", func() {
		bus.Write8(emu.AddrSB, 'G')
		bus.Write8(emu.AddrSC, 0x81)

		Expect(out.String()).To(Equal("G"))
		Expect(bus.Read8(emu.AddrSB)).To(Equal(uint8(0xFF)))
		Expect(bus.Read8(emu.AddrSC)).To(Equal(uint8(0x01)))
		Expect(bus.Read8(emu.AddrIF) & emu.IntSerial).NotTo(BeZero())
		Expect(serial.Transfers()).To(Equal(uint64(1)))
	})

	It("should ignore other SC writes", func() {
		bus.Write8(emu.AddrSB, 'x')
		bus.Write8(emu.AddrSC, 0x80)

		Expect(out.Len()).To(BeZero())
		Expect(bus.Read8(emu.AddrSC)).To(Equal(uint8(0x80)))
	})

	It("should print what a program sends", func() {
		e := emu.NewEmulator()
		_, err := peripheral.NewSerial(e.Memory(), out, logr.Discard())
		Expect(err).NotTo(HaveOccurred())

		program := []byte{
			0x3E, 'o', // LD A,'o'
			0xE0, 0x01, // LDH [$FF01],A
			0x3E, 0x81, // LD A,$81
			0xE0, 0x02, // LDH [$FF02],A
			0x3E, 'k',
			0xE0, 0x01,
			0x3E, 0x81,
			0xE0, 0x02,
		}
		for i, b := range program {
			e.Memory().Write8(0xC000+uint16(i), b)
		}
		e.RegFile().PC = 0xC000

		for i := 0; i < 8; i++ {
			e.Step()
		}

		Expect(out.String()).To(Equal("ok"))
	})

	It("should log output errors", func() {
		var lines []string
		logger := funcr.New(func(_, args string) {
			lines = append(lines, args)
		}, funcr.Options{})

		_, err := peripheral.NewSerial(bus, failingWriter{}, logger)
		Expect(err).NotTo(HaveOccurred())

		bus.Write8(emu.AddrSC, 0x81)

		Expect(lines).To(HaveLen(1))
		Expect(lines[0]).To(ContainSubstring("serial output failed"))
	})
})
