package emu

// ALU implements LR35902 arithmetic, logic, rotate and bit operations.
// Accumulator operations read and write A; the rest take an operand and
// return the result. All of them update F.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Add performs A = A + v.
func (a *ALU) Add(v uint8) {
	a.adc(v, 0)
}

// Adc performs A = A + v + C.
func (a *ALU) Adc(v uint8) {
	a.adc(v, carryBit(a.regFile.F.C))
}

func (a *ALU) adc(v, carry uint8) {
	acc := a.regFile.A
	sum := uint16(acc) + uint16(v) + uint16(carry)
	result := uint8(sum)

	a.regFile.F = Flags{
		Z: result == 0,
		H: (acc&0x0F)+(v&0x0F)+carry > 0x0F,
		C: sum > 0xFF,
	}
	a.regFile.A = result
}

// Sub performs A = A - v.
func (a *ALU) Sub(v uint8) {
	a.regFile.A = a.sbc(v, 0)
}

// Sbc performs A = A - v - C.
func (a *ALU) Sbc(v uint8) {
	a.regFile.A = a.sbc(v, carryBit(a.regFile.F.C))
}

// Cp compares A with v: flags as for Sub, A unchanged.
func (a *ALU) Cp(v uint8) {
	a.sbc(v, 0)
}

func (a *ALU) sbc(v, carry uint8) uint8 {
	acc := a.regFile.A
	result := acc - v - carry

	a.regFile.F = Flags{
		Z: result == 0,
		N: true,
		H: acc&0x0F < (v&0x0F)+carry,
		C: uint16(acc) < uint16(v)+uint16(carry),
	}
	return result
}

// And performs A = A & v.
func (a *ALU) And(v uint8) {
	a.regFile.A &= v
	a.regFile.F = Flags{Z: a.regFile.A == 0, H: true}
}

// Xor performs A = A ^ v.
func (a *ALU) Xor(v uint8) {
	a.regFile.A ^= v
	a.regFile.F = Flags{Z: a.regFile.A == 0}
}

// Or performs A = A | v.
func (a *ALU) Or(v uint8) {
	a.regFile.A |= v
	a.regFile.F = Flags{Z: a.regFile.A == 0}
}

// Inc returns v + 1. C is unaffected.
func (a *ALU) Inc(v uint8) uint8 {
	result := v + 1
	f := &a.regFile.F
	f.Z = result == 0
	f.N = false
	f.H = v&0x0F == 0x0F
	return result
}

// Dec returns v - 1. C is unaffected.
func (a *ALU) Dec(v uint8) uint8 {
	result := v - 1
	f := &a.regFile.F
	f.Z = result == 0
	f.N = true
	f.H = v&0x0F == 0
	return result
}

// AddHL performs HL = HL + v. H is the carry out of bit 11, C out of bit 15.
// Z is unaffected.
func (a *ALU) AddHL(v uint16) {
	hl := a.regFile.HL()
	sum := uint32(hl) + uint32(v)

	f := &a.regFile.F
	f.N = false
	f.H = (hl&0x0FFF)+(v&0x0FFF) > 0x0FFF
	f.C = sum > 0xFFFF

	a.regFile.SetHL(uint16(sum))
}

// AddSPOffset returns SP + e for a signed displacement byte e. Z and N are
// cleared; H and C come from adding the low byte of SP and the unsigned
// displacement byte.
func (a *ALU) AddSPOffset(e uint8) uint16 {
	sp := a.regFile.SP
	a.regFile.F = Flags{
		H: (sp&0x0F)+uint16(e&0x0F) > 0x0F,
		C: (sp&0xFF)+uint16(e) > 0xFF,
	}
	return uint16(int32(sp) + int32(int8(e)))
}

// DAA adjusts A into packed BCD after an addition or subtraction.
func (a *ALU) DAA() {
	f := &a.regFile.F
	acc := a.regFile.A

	if !f.N {
		if f.C || acc > 0x99 {
			acc += 0x60
			f.C = true
		}
		if f.H || acc&0x0F > 0x09 {
			acc += 0x06
		}
	} else {
		if f.C {
			acc -= 0x60
		}
		if f.H {
			acc -= 0x06
		}
	}

	f.Z = acc == 0
	f.H = false
	a.regFile.A = acc
}

// CPL complements A.
func (a *ALU) CPL() {
	a.regFile.A = ^a.regFile.A
	a.regFile.F.N = true
	a.regFile.F.H = true
}

// SCF sets the carry flag.
func (a *ALU) SCF() {
	f := &a.regFile.F
	f.N, f.H, f.C = false, false, true
}

// CCF complements the carry flag.
func (a *ALU) CCF() {
	f := &a.regFile.F
	f.N, f.H, f.C = false, false, !f.C
}

// RLC rotates left; bit 7 goes to both C and bit 0.
func (a *ALU) RLC(v uint8) uint8 {
	out := v >> 7
	return a.shiftResult(v<<1|out, out)
}

// RRC rotates right; bit 0 goes to both C and bit 7.
func (a *ALU) RRC(v uint8) uint8 {
	out := v & 1
	return a.shiftResult(v>>1|out<<7, out)
}

// RL rotates left through the carry flag.
func (a *ALU) RL(v uint8) uint8 {
	return a.shiftResult(v<<1|carryBit(a.regFile.F.C), v>>7)
}

// RR rotates right through the carry flag.
func (a *ALU) RR(v uint8) uint8 {
	return a.shiftResult(v>>1|carryBit(a.regFile.F.C)<<7, v&1)
}

// SLA shifts left; bit 0 becomes 0.
func (a *ALU) SLA(v uint8) uint8 {
	return a.shiftResult(v<<1, v>>7)
}

// SRA shifts right arithmetically; bit 7 is preserved.
func (a *ALU) SRA(v uint8) uint8 {
	return a.shiftResult(v>>1|v&0x80, v&1)
}

// SRL shifts right logically; bit 7 becomes 0.
func (a *ALU) SRL(v uint8) uint8 {
	return a.shiftResult(v>>1, v&1)
}

// Swap exchanges the nibbles of v. H and C are always cleared.
func (a *ALU) Swap(v uint8) uint8 {
	return a.shiftResult(v<<4|v>>4, 0)
}

func (a *ALU) shiftResult(result, carryOut uint8) uint8 {
	a.regFile.F = Flags{Z: result == 0, C: carryOut != 0}
	return result
}

// Bit tests bit b of v. C is unaffected.
func (a *ALU) Bit(b, v uint8) {
	f := &a.regFile.F
	f.Z = v&(1<<(b&7)) == 0
	f.N = false
	f.H = true
}

func carryBit(c bool) uint8 {
	if c {
		return 1
	}
	return 0
}
