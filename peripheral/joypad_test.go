package peripheral_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gbsim/emu"
	"github.com/sarchlab/gbsim/peripheral"
)

var _ = Describe("Joypad", func() {
	var (
		bus    *emu.Bus
		joypad *peripheral.Joypad
	)

	BeforeEach(func() {
		bus = emu.NewMemory()
		var err error
		joypad, err = peripheral.NewJoypad(bus)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should read all released with no group selected", func() {
		joypad.Press(peripheral.ButtonA)
		Expect(bus.Read8(emu.AddrP1)).To(Equal(uint8(0xFF)))
	})

	It("should report directions when selected", func() {
		bus.Write8(emu.AddrP1, 0x20)
		joypad.Press(peripheral.ButtonDown)
		joypad.Press(peripheral.ButtonStart)

		Expect(bus.Read8(emu.AddrP1)).To(Equal(uint8(0xE7)))
	})

	It("should report actions when selected", func() {
		bus.Write8(emu.AddrP1, 0x10)
		joypad.Press(peripheral.ButtonA)
		joypad.Press(peripheral.ButtonStart)

		Expect(bus.Read8(emu.AddrP1)).To(Equal(uint8(0xD6)))
	})

	It("should track releases", func() {
		bus.Write8(emu.AddrP1, 0x10)
		joypad.Press(peripheral.ButtonB)
		Expect(joypad.Pressed(peripheral.ButtonB)).To(BeTrue())

		joypad.Release(peripheral.ButtonB)

		Expect(joypad.Pressed(peripheral.ButtonB)).To(BeFalse())
		Expect(bus.Read8(emu.AddrP1)).To(Equal(uint8(0xDF)))
	})

	It("should request an interrupt only for visible presses", func() {
		bus.Write8(emu.AddrP1, 0x20)

		joypad.Press(peripheral.ButtonA)
		Expect(bus.Read8(emu.AddrIF) & emu.IntJoypad).To(BeZero())

		joypad.Press(peripheral.ButtonUp)
		Expect(bus.Read8(emu.AddrIF) & emu.IntJoypad).NotTo(BeZero())
	})

	It("should name buttons", func() {
		Expect(peripheral.ButtonSelect.String()).To(Equal("select"))
		Expect(peripheral.Button(9).String()).To(Equal("button(9)"))
	})

	It("should wake a stopped CPU", func() {
		e := emu.NewEmulator()
		j, err := peripheral.NewJoypad(e.Memory())
		Expect(err).NotTo(HaveOccurred())

		e.Memory().Write8(0xC000, 0x10) // STOP
		e.RegFile().PC = 0xC000
		e.Step()
		e.Memory().Write8(emu.AddrP1, 0x10)

		j.Press(peripheral.ButtonStart)
		e.Step()

		Expect(e.RegFile().Mode).To(Equal(emu.ModeRunning))
	})
})
