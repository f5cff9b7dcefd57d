package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gbsim/emu"
)

var _ = Describe("Bus", func() {
	var bus *emu.Bus

	BeforeEach(func() {
		bus = emu.NewMemory()
	})

	DescribeTable("read/write round trip",
		func(start, end uint32) {
			for a := start; a <= end; a++ {
				v := uint8(a*7 + 3)
				bus.Write8(uint16(a), v)
				Expect(bus.Read8(uint16(a))).To(Equal(v), "address 0x%04X", a)
			}
		},
		Entry("VRAM", uint32(0x8000), uint32(0x9FFF)),
		Entry("External RAM", uint32(0xA000), uint32(0xBFFF)),
		Entry("Work RAM", uint32(0xC000), uint32(0xDFFF)),
		Entry("OAM", uint32(0xFE00), uint32(0xFE9F)),
		Entry("High RAM", uint32(0xFF80), uint32(0xFFFE)),
		Entry("Interrupt Enable", uint32(0xFFFF), uint32(0xFFFF)),
	)

	Describe("Echo RAM", func() {
		It("should observe writes to Work RAM", func() {
			for k := uint16(0); k < 0x1E00; k += 0x11 {
				bus.Write8(0xC000+k, uint8(k))
				Expect(bus.Read8(0xE000 + k)).To(Equal(uint8(k)))
			}
		})

		It("should write through to Work RAM", func() {
			for k := uint16(0); k < 0x1E00; k += 0x13 {
				bus.Write8(0xE000+k, ^uint8(k))
				Expect(bus.Read8(0xC000 + k)).To(Equal(^uint8(k)))
			}
		})

		It("should decode to the mirrored Work RAM cell", func() {
			kind, off := bus.Decode(0xE123)
			Expect(kind).To(Equal(emu.RegionWRAM))
			Expect(off).To(Equal(uint16(0x0123)))
		})
	})

	Describe("Unusable region", func() {
		It("should read 0xFF and drop writes", func() {
			for a := uint16(0xFEA0); a <= 0xFEFF; a++ {
				bus.Write8(a, 0x12)
				Expect(bus.Read8(a)).To(Equal(emu.UnusableValue))
			}
		})
	})

	Describe("ROM", func() {
		It("should drop writes", func() {
			Expect(bus.LoadROM([]byte{0x11, 0x22})).To(Succeed())

			bus.Write8(0x0000, 0x99)
			bus.Write8(0x4000, 0x99)

			Expect(bus.Read8(0x0000)).To(Equal(uint8(0x11)))
			Expect(bus.Read8(0x4000)).To(Equal(uint8(0xFF)))
		})

		It("should fill the unused tail with 0xFF", func() {
			Expect(bus.LoadROM(make([]byte, 0x100))).To(Succeed())
			Expect(bus.Read8(0x00FF)).To(BeZero())
			Expect(bus.Read8(0x0100)).To(Equal(uint8(0xFF)))
			Expect(bus.Read8(0x7FFF)).To(Equal(uint8(0xFF)))
		})

		It("should map both banks", func() {
			rom := make([]byte, emu.ROMSize)
			rom[0x3FFF] = 0xA1
			rom[0x4000] = 0xB2
			Expect(bus.LoadROM(rom)).To(Succeed())

			Expect(bus.Read8(0x3FFF)).To(Equal(uint8(0xA1)))
			Expect(bus.Read8(0x4000)).To(Equal(uint8(0xB2)))
		})

		It("should reject images larger than 32 KB", func() {
			err := bus.LoadROM(make([]byte, emu.ROMSize+1))
			Expect(err).To(MatchError(emu.ErrROMTooLarge))
		})
	})

	Describe("Boot ROM overlay", func() {
		BeforeEach(func() {
			rom := make([]byte, 0x200)
			for i := range rom {
				rom[i] = 0xAA
			}
			boot := make([]byte, emu.BootROMSize)
			for i := range boot {
				boot[i] = uint8(i)
			}
			Expect(bus.LoadROM(rom)).To(Succeed())
			Expect(bus.LoadBootROM(boot)).To(Succeed())
		})

		It("should shadow the first page of ROM while active", func() {
			Expect(bus.BootROMActive()).To(BeTrue())
			for a := uint16(0); a < 0x100; a++ {
				Expect(bus.Read8(a)).To(Equal(uint8(a)))
			}
			Expect(bus.Read8(0x0100)).To(Equal(uint8(0xAA)))
		})

		It("should expose ROM permanently after any write to 0xFF50", func() {
			bus.Write8(emu.AddrBootROMDisable, 0x00)
			Expect(bus.BootROMActive()).To(BeFalse())

			for a := uint16(0); a < 0x100; a++ {
				Expect(bus.Read8(a)).To(Equal(uint8(0xAA)))
			}

			bus.Write8(emu.AddrBootROMDisable, 0x01)
			Expect(bus.Read8(0x0010)).To(Equal(uint8(0xAA)))
		})

		It("should run the disable callback once", func() {
			calls := 0
			bus.OnBootROMDisable(func() { calls++ })

			bus.Write8(emu.AddrBootROMDisable, 0x01)
			bus.Write8(emu.AddrBootROMDisable, 0x01)

			Expect(calls).To(Equal(1))
		})

		It("should refuse a new boot ROM once disabled", func() {
			bus.Write8(emu.AddrBootROMDisable, 0x01)
			Expect(bus.LoadBootROM([]byte{0x00})).To(MatchError(emu.ErrBootROMDisabled))
		})

		It("should reject bad boot ROM sizes", func() {
			Expect(bus.LoadBootROM(nil)).To(MatchError(emu.ErrEmptyBootROM))
			Expect(bus.LoadBootROM(make([]byte, emu.BootROMSize+1))).
				To(MatchError(emu.ErrBootROMTooLarge))
		})
	})

	Describe("16-bit access", func() {
		It("should be little-endian", func() {
			bus.Write16(0xC100, 0x1234)
			Expect(bus.Read8(0xC100)).To(Equal(uint8(0x34)))
			Expect(bus.Read8(0xC101)).To(Equal(uint8(0x12)))
			Expect(bus.Read16(0xC100)).To(Equal(uint16(0x1234)))
		})
	})

	Describe("I/O hooks", func() {
		It("should store plain bytes without a hook", func() {
			bus.Write8(0xFF42, 0x77)
			Expect(bus.Read8(0xFF42)).To(Equal(uint8(0x77)))
			Expect(bus.IO(0xFF42)).To(Equal(uint8(0x77)))
		})

		It("should route accesses through an installed hook", func() {
			var written []uint8
			Expect(bus.MapIO(0xFF42, &emu.IOHandler{
				Read:  func(uint16) uint8 { return 0x5A },
				Write: func(_ uint16, v uint8) { written = append(written, v) },
			})).To(Succeed())

			bus.Write8(0xFF42, 0x01)
			Expect(written).To(Equal([]uint8{0x01}))
			Expect(bus.Read8(0xFF42)).To(Equal(uint8(0x5A)))
			Expect(bus.IO(0xFF42)).To(BeZero())
		})

		It("should fall back to the stored byte for a nil Read", func() {
			Expect(bus.MapIO(0xFF05, &emu.IOHandler{
				Write: func(a uint16, v uint8) { bus.SetIO(a, v+1) },
			})).To(Succeed())

			bus.Write8(0xFF05, 0x10)
			Expect(bus.Read8(0xFF05)).To(Equal(uint8(0x11)))
		})

		It("should reject addresses outside the window", func() {
			Expect(bus.MapIO(0xFF80, &emu.IOHandler{})).To(MatchError(emu.ErrNotIOAddress))
			Expect(bus.MapIO(0xC000, &emu.IOHandler{})).To(MatchError(emu.ErrNotIOAddress))
		})

		It("should disable the boot ROM even when 0xFF50 is hooked", func() {
			Expect(bus.LoadBootROM([]byte{0x01})).To(Succeed())
			Expect(bus.MapIO(emu.AddrBootROMDisable, &emu.IOHandler{
				Write: func(uint16, uint8) {},
			})).To(Succeed())

			bus.Write8(emu.AddrBootROMDisable, 0x01)
			Expect(bus.BootROMActive()).To(BeFalse())
		})
	})

	Describe("Decode", func() {
		It("should map every address to a region", func() {
			for a := 0; a <= 0xFFFF; a++ {
				kind, _ := bus.Decode(uint16(a))
				Expect(kind.String()).NotTo(HavePrefix("region("))
			}
		})

		DescribeTable("region boundaries",
			func(addr uint16, kind emu.RegionKind, off uint16) {
				k, o := bus.Decode(addr)
				Expect(k).To(Equal(kind))
				Expect(o).To(Equal(off))
			},
			Entry("ROM bank 0", uint16(0x0000), emu.RegionROM0, uint16(0)),
			Entry("ROM bank 1", uint16(0x4001), emu.RegionROMN, uint16(1)),
			Entry("VRAM", uint16(0x9FFF), emu.RegionVRAM, uint16(0x1FFF)),
			Entry("External RAM", uint16(0xA000), emu.RegionExtRAM, uint16(0)),
			Entry("Echo", uint16(0xFDFF), emu.RegionWRAM, uint16(0x1DFF)),
			Entry("OAM", uint16(0xFE9F), emu.RegionOAM, uint16(0x9F)),
			Entry("Unusable", uint16(0xFEA0), emu.RegionUnusable, uint16(0)),
			Entry("I/O", uint16(0xFF7F), emu.RegionIO, uint16(0x7F)),
			Entry("High RAM", uint16(0xFF80), emu.RegionHRAM, uint16(0)),
			Entry("IE", uint16(0xFFFF), emu.RegionIE, uint16(0)),
		)
	})

	Describe("RegionData", func() {
		It("should expose VRAM and OAM storage", func() {
			bus.Write8(0x8001, 0x42)
			bus.Write8(0xFE02, 0x24)

			Expect(bus.RegionData(emu.RegionVRAM)[1]).To(Equal(uint8(0x42)))
			Expect(bus.RegionData(emu.RegionOAM)[2]).To(Equal(uint8(0x24)))
			Expect(bus.RegionData(emu.RegionOAM)).To(HaveLen(emu.OAMSize))
		})

		It("should return nil for regions without storage", func() {
			Expect(bus.RegionData(emu.RegionUnusable)).To(BeNil())
		})
	})
})
