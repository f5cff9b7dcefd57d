package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/gbsim/emu"
)

var _ = Describe("ALU", func() {
	var (
		regFile *emu.RegFile
		alu     *emu.ALU
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		alu = emu.NewALU(regFile)
	})

	Describe("8-bit arithmetic", func() {
		It("should set H on a carry out of bit 3", func() {
			regFile.A = 0x0F
			alu.Add(0x01)
			Expect(regFile.A).To(Equal(uint8(0x10)))
			Expect(regFile.F).To(Equal(emu.Flags{H: true}))
		})

		It("should set Z and C when the sum wraps to zero", func() {
			regFile.A = 0xF0
			alu.Add(0x10)
			Expect(regFile.A).To(BeZero())
			Expect(regFile.F).To(Equal(emu.Flags{Z: true, C: true}))
		})

		It("should add the carry in Adc", func() {
			regFile.A = 0x0E
			regFile.F.C = true
			alu.Adc(0x01)
			Expect(regFile.A).To(Equal(uint8(0x10)))
			Expect(regFile.F).To(Equal(emu.Flags{H: true}))
		})

		It("should set H and C on borrows", func() {
			regFile.A = 0x10
			alu.Sub(0x21)
			Expect(regFile.A).To(Equal(uint8(0xEF)))
			Expect(regFile.F).To(Equal(emu.Flags{N: true, H: true, C: true}))
		})

		It("should subtract the carry in Sbc", func() {
			regFile.A = 0x01
			regFile.F.C = true
			alu.Sbc(0x00)
			Expect(regFile.A).To(BeZero())
			Expect(regFile.F).To(Equal(emu.Flags{Z: true, N: true}))
		})

		It("should leave A unchanged in Cp", func() {
			regFile.A = 0x3C
			alu.Cp(0x3C)
			Expect(regFile.A).To(Equal(uint8(0x3C)))
			Expect(regFile.F).To(Equal(emu.Flags{Z: true, N: true}))
		})

		It("should set H for And only", func() {
			regFile.A = 0xF0
			alu.And(0x0F)
			Expect(regFile.F).To(Equal(emu.Flags{Z: true, H: true}))

			regFile.A = 0xF0
			alu.Xor(0xF0)
			Expect(regFile.F).To(Equal(emu.Flags{Z: true}))

			regFile.A = 0x00
			alu.Or(0x01)
			Expect(regFile.F).To(Equal(emu.Flags{}))
		})

		It("should leave C alone in Inc and Dec", func() {
			regFile.F.C = true
			Expect(alu.Inc(0xFF)).To(BeZero())
			Expect(regFile.F).To(Equal(emu.Flags{Z: true, H: true, C: true}))

			Expect(alu.Dec(0x10)).To(Equal(uint8(0x0F)))
			Expect(regFile.F).To(Equal(emu.Flags{N: true, H: true, C: true}))
		})
	})

	Describe("16-bit arithmetic", func() {
		It("should carry out of bits 11 and 15 in AddHL", func() {
			regFile.F.Z = true
			regFile.SetHL(0x0FFF)
			alu.AddHL(0x0001)
			Expect(regFile.HL()).To(Equal(uint16(0x1000)))
			Expect(regFile.F).To(Equal(emu.Flags{Z: true, H: true}))

			regFile.SetHL(0xFFFF)
			alu.AddHL(0x0001)
			Expect(regFile.HL()).To(BeZero())
			Expect(regFile.F).To(Equal(emu.Flags{Z: true, H: true, C: true}))
		})

		DescribeTable("AddSPOffset",
			func(sp uint16, e uint8, want uint16, h, c bool) {
				regFile.SP = sp
				regFile.F = emu.Flags{Z: true, N: true}
				Expect(alu.AddSPOffset(e)).To(Equal(want))
				Expect(regFile.F).To(Equal(emu.Flags{H: h, C: c}))
			},
			Entry("positive without carries", uint16(0x1000), uint8(0x01), uint16(0x1001), false, false),
			Entry("positive with both carries", uint16(0xFFF8), uint8(0x08), uint16(0x0000), true, true),
			Entry("negative borrows from the high byte", uint16(0x0001), uint8(0xFF), uint16(0x0000), true, true),
			Entry("negative without low-byte carry", uint16(0x1000), uint8(0xFE), uint16(0x0FFE), false, false),
		)
	})

	DescribeTable("DAA",
		func(a uint8, n, h, c bool, wantA uint8, wantZ, wantC bool) {
			regFile.A = a
			regFile.F = emu.Flags{N: n, H: h, C: c}

			alu.DAA()

			Expect(regFile.A).To(Equal(wantA))
			Expect(regFile.F).To(Equal(emu.Flags{Z: wantZ, N: n, C: wantC}))
		},
		Entry("low digit overflow", uint8(0x0A), false, false, false, uint8(0x10), false, false),
		Entry("both digits overflow", uint8(0x9A), false, false, false, uint8(0x00), true, true),
		Entry("half carry after add", uint8(0x12), false, true, false, uint8(0x18), false, false),
		Entry("carry after add", uint8(0x00), false, false, true, uint8(0x60), false, true),
		Entry("half borrow after sub", uint8(0x0F), true, true, false, uint8(0x09), false, false),
		Entry("borrow after sub", uint8(0xA0), true, false, true, uint8(0x40), false, true),
		Entry("both borrows after sub", uint8(0xFA), true, true, true, uint8(0x94), false, true),
		Entry("valid BCD", uint8(0x99), false, false, false, uint8(0x99), false, false),
	)

	Describe("rotates and shifts", func() {
		It("should rotate bit 7 into C and bit 0 in RLC", func() {
			Expect(alu.RLC(0x85)).To(Equal(uint8(0x0B)))
			Expect(regFile.F).To(Equal(emu.Flags{C: true}))
		})

		It("should rotate through carry in RL and RR", func() {
			regFile.F.C = true
			Expect(alu.RL(0x80)).To(Equal(uint8(0x01)))
			Expect(regFile.F.C).To(BeTrue())

			regFile.F.C = false
			Expect(alu.RR(0x01)).To(BeZero())
			Expect(regFile.F).To(Equal(emu.Flags{Z: true, C: true}))
		})

		It("should keep bit 7 in SRA and clear it in SRL", func() {
			Expect(alu.SRA(0x81)).To(Equal(uint8(0xC0)))
			Expect(regFile.F.C).To(BeTrue())
			Expect(alu.SRL(0x81)).To(Equal(uint8(0x40)))
			Expect(regFile.F.C).To(BeTrue())
		})

		It("should never set H or C in Swap", func() {
			regFile.F = emu.Flags{H: true, C: true}
			Expect(alu.Swap(0xF1)).To(Equal(uint8(0x1F)))
			Expect(regFile.F).To(Equal(emu.Flags{}))
		})
	})

	Describe("Bit", func() {
		It("should set Z from the inverted bit and leave C alone", func() {
			regFile.F = emu.Flags{N: true, C: true}
			alu.Bit(3, 0xF7)
			Expect(regFile.F).To(Equal(emu.Flags{Z: true, H: true, C: true}))

			alu.Bit(7, 0x80)
			Expect(regFile.F).To(Equal(emu.Flags{H: true, C: true}))
		})
	})

	Describe("accumulator flag ops", func() {
		It("should complement A and carry", func() {
			regFile.A = 0x35
			alu.CPL()
			Expect(regFile.A).To(Equal(uint8(0xCA)))
			Expect(regFile.F).To(Equal(emu.Flags{N: true, H: true}))

			alu.SCF()
			Expect(regFile.F).To(Equal(emu.Flags{C: true}))

			alu.CCF()
			Expect(regFile.F).To(Equal(emu.Flags{}))
		})
	})
})
