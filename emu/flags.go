// Package emu provides functional LR35902 (Game Boy CPU) emulation.
package emu

// Flag bit positions within the F register.
const (
	FlagZ byte = 1 << 7
	FlagN byte = 1 << 6
	FlagH byte = 1 << 5
	FlagC byte = 1 << 4
)

// Flags represents the four LR35902 condition flags.
type Flags struct {
	// Z is the zero flag.
	Z bool
	// N is the subtract flag.
	N bool
	// H is the half-carry flag.
	H bool
	// C is the carry flag.
	C bool
}

// Byte packs the flags into the F register layout. The low nibble is always
// zero.
func (f Flags) Byte() byte {
	var b byte
	if f.Z {
		b |= FlagZ
	}
	if f.N {
		b |= FlagN
	}
	if f.H {
		b |= FlagH
	}
	if f.C {
		b |= FlagC
	}
	return b
}

// FlagsFromByte unpacks an F register value. Bits 0-3 are ignored.
func FlagsFromByte(b byte) Flags {
	return Flags{
		Z: b&FlagZ != 0,
		N: b&FlagN != 0,
		H: b&FlagH != 0,
		C: b&FlagC != 0,
	}
}
