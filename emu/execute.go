package emu

import "fmt"

// execute runs one unprefixed opcode whose byte has already been fetched
// and returns the cycles it consumed.
func (e *Emulator) execute(op uint8) (int, error) {
	r := e.regFile

	switch {
	case op == 0x76:
		r.Mode = ModeHalted
		return 4, nil
	case op >= 0x40 && op < 0x80:
		dst, src := (op>>3)&7, op&7
		e.writeR8(dst, e.readR8(src))
		if dst == RegHLIndirect || src == RegHLIndirect {
			return 8, nil
		}
		return 4, nil
	case op >= 0x80 && op < 0xC0:
		e.aluOp((op>>3)&7, e.readR8(op&7))
		if op&7 == RegHLIndirect {
			return 8, nil
		}
		return 4, nil
	}

	switch op {
	case 0x00: // NOP
		return 4, nil

	case 0x01, 0x11, 0x21, 0x31: // LD rr,n16
		r.WritePair(op>>4, e.fetch16())
		return 12, nil

	case 0x02:
		e.memory.Write8(r.BC(), r.A)
		return 8, nil
	case 0x12:
		e.memory.Write8(r.DE(), r.A)
		return 8, nil
	case 0x22:
		hl := r.HL()
		e.memory.Write8(hl, r.A)
		r.SetHL(hl + 1)
		return 8, nil
	case 0x32:
		hl := r.HL()
		e.memory.Write8(hl, r.A)
		r.SetHL(hl - 1)
		return 8, nil

	case 0x0A:
		r.A = e.memory.Read8(r.BC())
		return 8, nil
	case 0x1A:
		r.A = e.memory.Read8(r.DE())
		return 8, nil
	case 0x2A:
		hl := r.HL()
		r.A = e.memory.Read8(hl)
		r.SetHL(hl + 1)
		return 8, nil
	case 0x3A:
		hl := r.HL()
		r.A = e.memory.Read8(hl)
		r.SetHL(hl - 1)
		return 8, nil

	case 0x03, 0x13, 0x23, 0x33: // INC rr
		rp := op >> 4
		r.WritePair(rp, r.ReadPair(rp)+1)
		return 8, nil
	case 0x0B, 0x1B, 0x2B, 0x3B: // DEC rr
		rp := op >> 4
		r.WritePair(rp, r.ReadPair(rp)-1)
		return 8, nil

	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C: // INC r
		reg := (op >> 3) & 7
		e.writeR8(reg, e.alu.Inc(e.readR8(reg)))
		return r8Cycles(reg, 4, 12), nil
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D: // DEC r
		reg := (op >> 3) & 7
		e.writeR8(reg, e.alu.Dec(e.readR8(reg)))
		return r8Cycles(reg, 4, 12), nil
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E: // LD r,n8
		reg := (op >> 3) & 7
		e.writeR8(reg, e.fetch8())
		return r8Cycles(reg, 8, 12), nil

	// The accumulator rotates always clear Z, unlike their CB forms.
	case 0x07:
		r.A = e.alu.RLC(r.A)
		r.F.Z = false
		return 4, nil
	case 0x0F:
		r.A = e.alu.RRC(r.A)
		r.F.Z = false
		return 4, nil
	case 0x17:
		r.A = e.alu.RL(r.A)
		r.F.Z = false
		return 4, nil
	case 0x1F:
		r.A = e.alu.RR(r.A)
		r.F.Z = false
		return 4, nil

	case 0x08: // LD [a16],SP
		e.memory.Write16(e.fetch16(), r.SP)
		return 20, nil
	case 0x09, 0x19, 0x29, 0x39: // ADD HL,rr
		e.alu.AddHL(r.ReadPair(op >> 4))
		return 8, nil

	case 0x10: // STOP
		e.fetch8()
		r.Mode = ModeStopped
		return 4, nil

	case 0x18: // JR e8
		e.jumpRelative(e.fetch8())
		return 12, nil
	case 0x20, 0x28, 0x30, 0x38: // JR cc,e8
		disp := e.fetch8()
		if !e.condition((op >> 3) & 3) {
			return 8, nil
		}
		e.jumpRelative(disp)
		return 12, nil

	case 0x27:
		e.alu.DAA()
		return 4, nil
	case 0x2F:
		e.alu.CPL()
		return 4, nil
	case 0x37:
		e.alu.SCF()
		return 4, nil
	case 0x3F:
		e.alu.CCF()
		return 4, nil

	case 0xC0, 0xC8, 0xD0, 0xD8: // RET cc
		if !e.condition((op >> 3) & 3) {
			return 8, nil
		}
		r.PC = e.pop()
		return 20, nil
	case 0xC9: // RET
		r.PC = e.pop()
		return 16, nil
	case 0xD9: // RETI
		r.PC = e.pop()
		r.IME = true
		return 16, nil

	case 0xC1, 0xD1, 0xE1, 0xF1: // POP rr
		e.writeStackPair((op>>4)&3, e.pop())
		return 12, nil
	case 0xC5, 0xD5, 0xE5, 0xF5: // PUSH rr
		e.push(e.readStackPair((op >> 4) & 3))
		return 16, nil

	case 0xC2, 0xCA, 0xD2, 0xDA: // JP cc,a16
		addr := e.fetch16()
		if !e.condition((op >> 3) & 3) {
			return 12, nil
		}
		r.PC = addr
		return 16, nil
	case 0xC3: // JP a16
		r.PC = e.fetch16()
		return 16, nil
	case 0xE9: // JP HL
		r.PC = r.HL()
		return 4, nil

	case 0xC4, 0xCC, 0xD4, 0xDC: // CALL cc,a16
		addr := e.fetch16()
		if !e.condition((op >> 3) & 3) {
			return 12, nil
		}
		e.push(r.PC)
		r.PC = addr
		return 24, nil
	case 0xCD: // CALL a16
		addr := e.fetch16()
		e.push(r.PC)
		r.PC = addr
		return 24, nil

	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF: // RST
		e.push(r.PC)
		r.PC = uint16(op & 0x38)
		return 16, nil

	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE: // ALU A,n8
		e.aluOp((op>>3)&7, e.fetch8())
		return 8, nil

	case 0xE0: // LDH [a8],A
		e.memory.Write8(0xFF00|uint16(e.fetch8()), r.A)
		return 12, nil
	case 0xF0: // LDH A,[a8]
		r.A = e.memory.Read8(0xFF00 | uint16(e.fetch8()))
		return 12, nil
	case 0xE2: // LDH [C],A
		e.memory.Write8(0xFF00|uint16(r.C), r.A)
		return 8, nil
	case 0xF2: // LDH A,[C]
		r.A = e.memory.Read8(0xFF00 | uint16(r.C))
		return 8, nil
	case 0xEA: // LD [a16],A
		e.memory.Write8(e.fetch16(), r.A)
		return 16, nil
	case 0xFA: // LD A,[a16]
		r.A = e.memory.Read8(e.fetch16())
		return 16, nil

	case 0xE8: // ADD SP,e8
		r.SP = e.alu.AddSPOffset(e.fetch8())
		return 16, nil
	case 0xF8: // LD HL,SP+e8
		r.SetHL(e.alu.AddSPOffset(e.fetch8()))
		return 12, nil
	case 0xF9: // LD SP,HL
		r.SP = r.HL()
		return 8, nil

	case 0xF3: // DI
		r.IME = false
		return 4, nil
	case 0xFB: // EI
		r.IME = true
		return 4, nil
	}

	return 4, fmt.Errorf("%w: 0x%02X at 0x%04X", ErrIllegalOpcode, op, r.PC-1)
}

// executeCB runs one CB-prefixed opcode and returns the cycles consumed by
// the prefix and the opcode together.
func (e *Emulator) executeCB(op uint8) int {
	reg := op & 7
	bit := (op >> 3) & 7
	v := e.readR8(reg)

	switch op >> 6 {
	case 0:
		v = e.cbShifts[bit](v)
	case 1:
		e.alu.Bit(bit, v)
		return r8Cycles(reg, 8, 12)
	case 2:
		v &^= 1 << bit
	case 3:
		v |= 1 << bit
	}

	e.writeR8(reg, v)
	return r8Cycles(reg, 8, 16)
}

// aluOp applies one of the eight accumulator operations in encoding order.
func (e *Emulator) aluOp(sel, v uint8) {
	switch sel {
	case 0:
		e.alu.Add(v)
	case 1:
		e.alu.Adc(v)
	case 2:
		e.alu.Sub(v)
	case 3:
		e.alu.Sbc(v)
	case 4:
		e.alu.And(v)
	case 5:
		e.alu.Xor(v)
	case 6:
		e.alu.Or(v)
	default:
		e.alu.Cp(v)
	}
}

// condition evaluates a 2-bit condition code: NZ, Z, NC, C.
func (e *Emulator) condition(cc uint8) bool {
	f := e.regFile.F
	switch cc & 3 {
	case 0:
		return !f.Z
	case 1:
		return f.Z
	case 2:
		return !f.C
	default:
		return f.C
	}
}

// jumpRelative adds a signed displacement to PC. PC already points past the
// displacement byte.
func (e *Emulator) jumpRelative(disp uint8) {
	e.regFile.PC = uint16(int32(e.regFile.PC) + int32(int8(disp)))
}

func (e *Emulator) fetch8() uint8 {
	v := e.memory.Read8(e.regFile.PC)
	e.regFile.PC++
	return v
}

func (e *Emulator) fetch16() uint16 {
	lo := e.fetch8()
	hi := e.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (e *Emulator) readR8(reg uint8) uint8 {
	if reg == RegHLIndirect {
		return e.memory.Read8(e.regFile.HL())
	}
	return e.regFile.ReadReg(reg)
}

func (e *Emulator) writeR8(reg, v uint8) {
	if reg == RegHLIndirect {
		e.memory.Write8(e.regFile.HL(), v)
		return
	}
	e.regFile.WriteReg(reg, v)
}

// push stores a word below SP, high byte first.
func (e *Emulator) push(v uint16) {
	r := e.regFile
	r.SP--
	e.memory.Write8(r.SP, uint8(v>>8))
	r.SP--
	e.memory.Write8(r.SP, uint8(v))
}

// pop loads a word from SP, low byte first.
func (e *Emulator) pop() uint16 {
	r := e.regFile
	lo := e.memory.Read8(r.SP)
	r.SP++
	hi := e.memory.Read8(r.SP)
	r.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// readStackPair and writeStackPair use the PUSH/POP encoding, where pair 3
// is AF instead of SP.
func (e *Emulator) readStackPair(rp uint8) uint16 {
	if rp == 3 {
		return e.regFile.AF()
	}
	return e.regFile.ReadPair(rp)
}

func (e *Emulator) writeStackPair(rp uint8, v uint16) {
	if rp == 3 {
		e.regFile.SetAF(v)
		return
	}
	e.regFile.WritePair(rp, v)
}

func r8Cycles(reg uint8, regCycles, memCycles int) int {
	if reg == RegHLIndirect {
		return memCycles
	}
	return regCycles
}
