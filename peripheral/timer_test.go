package peripheral_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gbsim/emu"
	"github.com/sarchlab/gbsim/peripheral"
)

var _ = Describe("Timer", func() {
	var (
		bus   *emu.Bus
		timer *peripheral.Timer
	)

	BeforeEach(func() {
		bus = emu.NewMemory()
		var err error
		timer, err = peripheral.NewTimer(bus)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should increment DIV every 256 cycles", func() {
		timer.Tick(252)
		Expect(bus.Read8(emu.AddrDIV)).To(BeZero())

		timer.Tick(4)
		Expect(bus.Read8(emu.AddrDIV)).To(Equal(uint8(1)))

		timer.Tick(256 * 255)
		Expect(bus.Read8(emu.AddrDIV)).To(BeZero())
	})

	It("should reset DIV on any write", func() {
		timer.Tick(1000)
		bus.Write8(emu.AddrDIV, 0x55)
		Expect(bus.Read8(emu.AddrDIV)).To(BeZero())

		timer.Tick(255)
		Expect(bus.Read8(emu.AddrDIV)).To(BeZero())
	})

	It("should leave TIMA alone while disabled", func() {
		bus.Write8(emu.AddrTAC, 0x01)
		timer.Tick(1024)
		Expect(bus.Read8(emu.AddrTIMA)).To(BeZero())
	})

	DescribeTable("TIMA rate",
		func(tac uint8, period int) {
			bus.Write8(emu.AddrTAC, 0x04|tac)

			timer.Tick(period - 4)
			Expect(bus.Read8(emu.AddrTIMA)).To(BeZero())

			timer.Tick(4)
			Expect(bus.Read8(emu.AddrTIMA)).To(Equal(uint8(1)))
		},
		Entry("4096 Hz", uint8(0), 1024),
		Entry("262144 Hz", uint8(1), 16),
		Entry("65536 Hz", uint8(2), 64),
		Entry("16384 Hz", uint8(3), 256),
	)

	It("should reload TMA and request an interrupt on overflow", func() {
		bus.Write8(emu.AddrTAC, 0x05)
		bus.Write8(emu.AddrTMA, 0xF0)
		bus.Write8(emu.AddrTIMA, 0xFF)

		timer.Tick(16)

		Expect(bus.Read8(emu.AddrTIMA)).To(Equal(uint8(0xF0)))
		Expect(bus.Read8(emu.AddrIF) & emu.IntTimer).NotTo(BeZero())
	})

	It("should wake a halted CPU through the emulator", func() {
		e := emu.NewEmulator()
		t, err := peripheral.NewTimer(e.Memory())
		Expect(err).NotTo(HaveOccurred())
		e.Attach(t)

		program := []byte{
			0x3E, 0x04, // LD A,$04
			0xE0, 0xFF, // LDH [$FFFF],A   enable timer interrupt
			0x3E, 0x05, // LD A,$05
			0xE0, 0x07, // LDH [$FF07],A   start timer, 16 cycles per tick
			0x3E, 0xFE, // LD A,$FE
			0xE0, 0x05, // LDH [$FF05],A   TIMA
			0x76, // HALT
			0x3C, // INC A
		}
		for i, b := range program {
			e.Memory().Write8(0xC000+uint16(i), b)
		}
		e.RegFile().PC = 0xC000

		for i := 0; i < 20 && e.RegFile().PC != 0xC00E; i++ {
			Expect(e.Step().Err).NotTo(HaveOccurred())
		}

		Expect(e.RegFile().PC).To(Equal(uint16(0xC00E)))
		Expect(e.RegFile().A).To(Equal(uint8(0xFF)))
	})
})
