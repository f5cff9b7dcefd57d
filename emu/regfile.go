// Package emu provides functional LR35902 (Game Boy CPU) emulation.
package emu

// Mode is the execution mode of the CPU.
type Mode uint8

// Execution modes.
const (
	ModeRunning Mode = iota
	ModeHalted
	ModeStopped
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeRunning:
		return "running"
	case ModeHalted:
		return "halted"
	case ModeStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Register indices used by the r8 operand encoding. Index 6 selects the byte
// at address HL and is resolved by the emulator, not the register file.
const (
	RegB uint8 = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegHLIndirect
	RegA
)

// RegFile represents the LR35902 register file.
type RegFile struct {
	A, B, C, D, E, H, L uint8

	// F holds the condition flags.
	F Flags

	// SP is the stack pointer.
	SP uint16

	// PC is the program counter.
	PC uint16

	// IME is the interrupt master enable flag.
	IME bool

	// Mode is the current execution mode.
	Mode Mode
}

// BC returns the BC register pair.
func (r *RegFile) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }

// DE returns the DE register pair.
func (r *RegFile) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }

// HL returns the HL register pair.
func (r *RegFile) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

// AF returns the AF register pair.
func (r *RegFile) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F.Byte()) }

// SetBC writes the BC register pair.
func (r *RegFile) SetBC(v uint16) { r.B, r.C = uint8(v>>8), uint8(v) }

// SetDE writes the DE register pair.
func (r *RegFile) SetDE(v uint16) { r.D, r.E = uint8(v>>8), uint8(v) }

// SetHL writes the HL register pair.
func (r *RegFile) SetHL(v uint16) { r.H, r.L = uint8(v>>8), uint8(v) }

// SetAF writes the AF register pair. The low nibble of F is discarded.
func (r *RegFile) SetAF(v uint16) {
	r.A = uint8(v >> 8)
	r.F = FlagsFromByte(uint8(v))
}

// ReadReg reads an 8-bit register by r8 index. RegHLIndirect reads as 0.
func (r *RegFile) ReadReg(reg uint8) uint8 {
	switch reg {
	case RegB:
		return r.B
	case RegC:
		return r.C
	case RegD:
		return r.D
	case RegE:
		return r.E
	case RegH:
		return r.H
	case RegL:
		return r.L
	case RegA:
		return r.A
	default:
		return 0
	}
}

// WriteReg writes an 8-bit register by r8 index. Writes to RegHLIndirect
// are ignored.
func (r *RegFile) WriteReg(reg uint8, value uint8) {
	switch reg {
	case RegB:
		r.B = value
	case RegC:
		r.C = value
	case RegD:
		r.D = value
	case RegE:
		r.E = value
	case RegH:
		r.H = value
	case RegL:
		r.L = value
	case RegA:
		r.A = value
	}
}

// ReadPair reads a 16-bit pair by rp index (0=BC, 1=DE, 2=HL, 3=SP).
func (r *RegFile) ReadPair(rp uint8) uint16 {
	switch rp & 3 {
	case 0:
		return r.BC()
	case 1:
		return r.DE()
	case 2:
		return r.HL()
	default:
		return r.SP
	}
}

// WritePair writes a 16-bit pair by rp index (0=BC, 1=DE, 2=HL, 3=SP).
func (r *RegFile) WritePair(rp uint8, v uint16) {
	switch rp & 3 {
	case 0:
		r.SetBC(v)
	case 1:
		r.SetDE(v)
	case 2:
		r.SetHL(v)
	default:
		r.SP = v
	}
}

// ResetPostBoot loads the register values the DMG boot ROM leaves behind.
func (r *RegFile) ResetPostBoot() {
	*r = RegFile{
		A:  0x01,
		F:  FlagsFromByte(0xB0),
		B:  0x00,
		C:  0x13,
		D:  0x00,
		E:  0xD8,
		H:  0x01,
		L:  0x4D,
		SP: 0xFFFE,
		PC: 0x0100,
	}
}
