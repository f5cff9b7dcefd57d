package insts

import (
	"fmt"
	"strings"
	"sync"
)

// row is the compact source form of one opcode entry.
type row struct {
	code     uint8
	mnemonic string
	operands string
	length   int
	cycles   int
	notTaken int
	flags    string
	group    Group
}

// r8Names is indexed by the 3-bit register field of an opcode.
var r8Names = [8]string{"B", "C", "D", "E", "H", "L", "[HL]", "A"}

// unprefixedRows lists every unprefixed opcode outside the regular
// 0x40-0xBF block, which buildUnprefixed generates.
var unprefixedRows = []row{
	{0x00, "NOP", "", 1, 4, 0, "----", GroupMisc},
	{0x01, "LD", "BC,n16", 3, 12, 0, "----", GroupLoad16},
	{0x02, "LD", "[BC],A", 1, 8, 0, "----", GroupLoad8},
	{0x03, "INC", "BC", 1, 8, 0, "----", GroupALU16},
	{0x04, "INC", "B", 1, 4, 0, "Z0H-", GroupALU8},
	{0x05, "DEC", "B", 1, 4, 0, "Z1H-", GroupALU8},
	{0x06, "LD", "B,n8", 2, 8, 0, "----", GroupLoad8},
	{0x07, "RLCA", "", 1, 4, 0, "000C", GroupRotateShift},
	{0x08, "LD", "[a16],SP", 3, 20, 0, "----", GroupLoad16},
	{0x09, "ADD", "HL,BC", 1, 8, 0, "-0HC", GroupALU16},
	{0x0A, "LD", "A,[BC]", 1, 8, 0, "----", GroupLoad8},
	{0x0B, "DEC", "BC", 1, 8, 0, "----", GroupALU16},
	{0x0C, "INC", "C", 1, 4, 0, "Z0H-", GroupALU8},
	{0x0D, "DEC", "C", 1, 4, 0, "Z1H-", GroupALU8},
	{0x0E, "LD", "C,n8", 2, 8, 0, "----", GroupLoad8},
	{0x0F, "RRCA", "", 1, 4, 0, "000C", GroupRotateShift},

	{0x10, "STOP", "n8", 2, 4, 0, "----", GroupMisc},
	{0x11, "LD", "DE,n16", 3, 12, 0, "----", GroupLoad16},
	{0x12, "LD", "[DE],A", 1, 8, 0, "----", GroupLoad8},
	{0x13, "INC", "DE", 1, 8, 0, "----", GroupALU16},
	{0x14, "INC", "D", 1, 4, 0, "Z0H-", GroupALU8},
	{0x15, "DEC", "D", 1, 4, 0, "Z1H-", GroupALU8},
	{0x16, "LD", "D,n8", 2, 8, 0, "----", GroupLoad8},
	{0x17, "RLA", "", 1, 4, 0, "000C", GroupRotateShift},
	{0x18, "JR", "e8", 2, 12, 0, "----", GroupBranch},
	{0x19, "ADD", "HL,DE", 1, 8, 0, "-0HC", GroupALU16},
	{0x1A, "LD", "A,[DE]", 1, 8, 0, "----", GroupLoad8},
	{0x1B, "DEC", "DE", 1, 8, 0, "----", GroupALU16},
	{0x1C, "INC", "E", 1, 4, 0, "Z0H-", GroupALU8},
	{0x1D, "DEC", "E", 1, 4, 0, "Z1H-", GroupALU8},
	{0x1E, "LD", "E,n8", 2, 8, 0, "----", GroupLoad8},
	{0x1F, "RRA", "", 1, 4, 0, "000C", GroupRotateShift},

	{0x20, "JR", "NZ,e8", 2, 12, 8, "----", GroupBranch},
	{0x21, "LD", "HL,n16", 3, 12, 0, "----", GroupLoad16},
	{0x22, "LD", "[HL+],A", 1, 8, 0, "----", GroupLoad8},
	{0x23, "INC", "HL", 1, 8, 0, "----", GroupALU16},
	{0x24, "INC", "H", 1, 4, 0, "Z0H-", GroupALU8},
	{0x25, "DEC", "H", 1, 4, 0, "Z1H-", GroupALU8},
	{0x26, "LD", "H,n8", 2, 8, 0, "----", GroupLoad8},
	{0x27, "DAA", "", 1, 4, 0, "Z-0C", GroupALU8},
	{0x28, "JR", "Z,e8", 2, 12, 8, "----", GroupBranch},
	{0x29, "ADD", "HL,HL", 1, 8, 0, "-0HC", GroupALU16},
	{0x2A, "LD", "A,[HL+]", 1, 8, 0, "----", GroupLoad8},
	{0x2B, "DEC", "HL", 1, 8, 0, "----", GroupALU16},
	{0x2C, "INC", "L", 1, 4, 0, "Z0H-", GroupALU8},
	{0x2D, "DEC", "L", 1, 4, 0, "Z1H-", GroupALU8},
	{0x2E, "LD", "L,n8", 2, 8, 0, "----", GroupLoad8},
	{0x2F, "CPL", "", 1, 4, 0, "-11-", GroupALU8},

	{0x30, "JR", "NC,e8", 2, 12, 8, "----", GroupBranch},
	{0x31, "LD", "SP,n16", 3, 12, 0, "----", GroupLoad16},
	{0x32, "LD", "[HL-],A", 1, 8, 0, "----", GroupLoad8},
	{0x33, "INC", "SP", 1, 8, 0, "----", GroupALU16},
	{0x34, "INC", "[HL]", 1, 12, 0, "Z0H-", GroupALU8},
	{0x35, "DEC", "[HL]", 1, 12, 0, "Z1H-", GroupALU8},
	{0x36, "LD", "[HL],n8", 2, 12, 0, "----", GroupLoad8},
	{0x37, "SCF", "", 1, 4, 0, "-001", GroupALU8},
	{0x38, "JR", "C,e8", 2, 12, 8, "----", GroupBranch},
	{0x39, "ADD", "HL,SP", 1, 8, 0, "-0HC", GroupALU16},
	{0x3A, "LD", "A,[HL-]", 1, 8, 0, "----", GroupLoad8},
	{0x3B, "DEC", "SP", 1, 8, 0, "----", GroupALU16},
	{0x3C, "INC", "A", 1, 4, 0, "Z0H-", GroupALU8},
	{0x3D, "DEC", "A", 1, 4, 0, "Z1H-", GroupALU8},
	{0x3E, "LD", "A,n8", 2, 8, 0, "----", GroupLoad8},
	{0x3F, "CCF", "", 1, 4, 0, "-00C", GroupALU8},

	{0xC0, "RET", "NZ", 1, 20, 8, "----", GroupBranch},
	{0xC1, "POP", "BC", 1, 12, 0, "----", GroupLoad16},
	{0xC2, "JP", "NZ,a16", 3, 16, 12, "----", GroupBranch},
	{0xC3, "JP", "a16", 3, 16, 0, "----", GroupBranch},
	{0xC4, "CALL", "NZ,a16", 3, 24, 12, "----", GroupBranch},
	{0xC5, "PUSH", "BC", 1, 16, 0, "----", GroupLoad16},
	{0xC6, "ADD", "A,n8", 2, 8, 0, "Z0HC", GroupALU8},
	{0xC7, "RST", "$00", 1, 16, 0, "----", GroupBranch},
	{0xC8, "RET", "Z", 1, 20, 8, "----", GroupBranch},
	{0xC9, "RET", "", 1, 16, 0, "----", GroupBranch},
	{0xCA, "JP", "Z,a16", 3, 16, 12, "----", GroupBranch},
	{0xCB, "PREFIX", "", 1, 4, 0, "----", GroupMisc},
	{0xCC, "CALL", "Z,a16", 3, 24, 12, "----", GroupBranch},
	{0xCD, "CALL", "a16", 3, 24, 0, "----", GroupBranch},
	{0xCE, "ADC", "A,n8", 2, 8, 0, "Z0HC", GroupALU8},
	{0xCF, "RST", "$08", 1, 16, 0, "----", GroupBranch},

	{0xD0, "RET", "NC", 1, 20, 8, "----", GroupBranch},
	{0xD1, "POP", "DE", 1, 12, 0, "----", GroupLoad16},
	{0xD2, "JP", "NC,a16", 3, 16, 12, "----", GroupBranch},
	{0xD3, "ILLEGAL_D3", "", 1, 4, 0, "----", GroupIllegal},
	{0xD4, "CALL", "NC,a16", 3, 24, 12, "----", GroupBranch},
	{0xD5, "PUSH", "DE", 1, 16, 0, "----", GroupLoad16},
	{0xD6, "SUB", "A,n8", 2, 8, 0, "Z1HC", GroupALU8},
	{0xD7, "RST", "$10", 1, 16, 0, "----", GroupBranch},
	{0xD8, "RET", "C", 1, 20, 8, "----", GroupBranch},
	{0xD9, "RETI", "", 1, 16, 0, "----", GroupBranch},
	{0xDA, "JP", "C,a16", 3, 16, 12, "----", GroupBranch},
	{0xDB, "ILLEGAL_DB", "", 1, 4, 0, "----", GroupIllegal},
	{0xDC, "CALL", "C,a16", 3, 24, 12, "----", GroupBranch},
	{0xDD, "ILLEGAL_DD", "", 1, 4, 0, "----", GroupIllegal},
	{0xDE, "SBC", "A,n8", 2, 8, 0, "Z1HC", GroupALU8},
	{0xDF, "RST", "$18", 1, 16, 0, "----", GroupBranch},

	{0xE0, "LDH", "[a8],A", 2, 12, 0, "----", GroupLoad8},
	{0xE1, "POP", "HL", 1, 12, 0, "----", GroupLoad16},
	{0xE2, "LDH", "[C],A", 1, 8, 0, "----", GroupLoad8},
	{0xE3, "ILLEGAL_E3", "", 1, 4, 0, "----", GroupIllegal},
	{0xE4, "ILLEGAL_E4", "", 1, 4, 0, "----", GroupIllegal},
	{0xE5, "PUSH", "HL", 1, 16, 0, "----", GroupLoad16},
	{0xE6, "AND", "A,n8", 2, 8, 0, "Z010", GroupALU8},
	{0xE7, "RST", "$20", 1, 16, 0, "----", GroupBranch},
	{0xE8, "ADD", "SP,e8", 2, 16, 0, "00HC", GroupALU16},
	{0xE9, "JP", "HL", 1, 4, 0, "----", GroupBranch},
	{0xEA, "LD", "[a16],A", 3, 16, 0, "----", GroupLoad8},
	{0xEB, "ILLEGAL_EB", "", 1, 4, 0, "----", GroupIllegal},
	{0xEC, "ILLEGAL_EC", "", 1, 4, 0, "----", GroupIllegal},
	{0xED, "ILLEGAL_ED", "", 1, 4, 0, "----", GroupIllegal},
	{0xEE, "XOR", "A,n8", 2, 8, 0, "Z000", GroupALU8},
	{0xEF, "RST", "$28", 1, 16, 0, "----", GroupBranch},

	{0xF0, "LDH", "A,[a8]", 2, 12, 0, "----", GroupLoad8},
	{0xF1, "POP", "AF", 1, 12, 0, "ZNHC", GroupLoad16},
	{0xF2, "LDH", "A,[C]", 1, 8, 0, "----", GroupLoad8},
	{0xF3, "DI", "", 1, 4, 0, "----", GroupMisc},
	{0xF4, "ILLEGAL_F4", "", 1, 4, 0, "----", GroupIllegal},
	{0xF5, "PUSH", "AF", 1, 16, 0, "----", GroupLoad16},
	{0xF6, "OR", "A,n8", 2, 8, 0, "Z000", GroupALU8},
	{0xF7, "RST", "$30", 1, 16, 0, "----", GroupBranch},
	{0xF8, "LD", "HL,SP+e8", 2, 12, 0, "00HC", GroupLoad16},
	{0xF9, "LD", "SP,HL", 1, 8, 0, "----", GroupLoad16},
	{0xFA, "LD", "A,[a16]", 3, 16, 0, "----", GroupLoad8},
	{0xFB, "EI", "", 1, 4, 0, "----", GroupMisc},
	{0xFC, "ILLEGAL_FC", "", 1, 4, 0, "----", GroupIllegal},
	{0xFD, "ILLEGAL_FD", "", 1, 4, 0, "----", GroupIllegal},
	{0xFE, "CP", "A,n8", 2, 8, 0, "Z1HC", GroupALU8},
	{0xFF, "RST", "$38", 1, 16, 0, "----", GroupBranch},
}

// aluRows describes the eight accumulator operations of 0x80-0xBF, in
// encoding order.
var aluRows = [8]struct {
	mnemonic string
	flags    string
}{
	{"ADD", "Z0HC"},
	{"ADC", "Z0HC"},
	{"SUB", "Z1HC"},
	{"SBC", "Z1HC"},
	{"AND", "Z010"},
	{"XOR", "Z000"},
	{"OR", "Z000"},
	{"CP", "Z1HC"},
}

// cbShiftRows describes the eight rotate/shift operations of CB 0x00-0x3F.
var cbShiftRows = [8]struct {
	mnemonic string
	flags    string
}{
	{"RLC", "Z00C"},
	{"RRC", "Z00C"},
	{"RL", "Z00C"},
	{"RR", "Z00C"},
	{"SLA", "Z00C"},
	{"SRA", "Z00C"},
	{"SWAP", "Z000"},
	{"SRL", "Z00C"},
}

func (r row) opcode(prefixed bool) Opcode {
	op := Opcode{
		Code:           r.code,
		Prefixed:       prefixed,
		Mnemonic:       r.mnemonic,
		Length:         r.length,
		Cycles:         r.cycles,
		CyclesNotTaken: r.notTaken,
		Flags:          parseFlags(r.flags),
		Group:          r.group,
	}
	if r.operands != "" {
		op.Operands = strings.Split(r.operands, ",")
	}
	return op
}

func buildUnprefixed() [256]Opcode {
	var table [256]Opcode
	var seen [256]bool

	set := func(r row) {
		if seen[r.code] {
			panic(fmt.Sprintf("insts: duplicate unprefixed opcode 0x%02X", r.code))
		}
		seen[r.code] = true
		table[r.code] = r.opcode(false)
	}

	for _, r := range unprefixedRows {
		set(r)
	}

	for code := 0x40; code <= 0x7F; code++ {
		dst, src := (code>>3)&7, code&7
		if code == 0x76 {
			set(row{0x76, "HALT", "", 1, 4, 0, "----", GroupMisc})
			continue
		}
		cycles := 4
		if dst == 6 || src == 6 {
			cycles = 8
		}
		set(row{uint8(code), "LD", r8Names[dst] + "," + r8Names[src],
			1, cycles, 0, "----", GroupLoad8})
	}

	for code := 0x80; code <= 0xBF; code++ {
		op, src := (code>>3)&7, code&7
		cycles := 4
		if src == 6 {
			cycles = 8
		}
		set(row{uint8(code), aluRows[op].mnemonic, "A," + r8Names[src],
			1, cycles, 0, aluRows[op].flags, GroupALU8})
	}

	for code, ok := range seen {
		if !ok {
			panic(fmt.Sprintf("insts: missing unprefixed opcode 0x%02X", code))
		}
	}

	return table
}

func buildCBPrefixed() [256]Opcode {
	var table [256]Opcode

	for code := 0; code < 256; code++ {
		reg := r8Names[code&7]
		bit := (code >> 3) & 7
		indirect := code&7 == 6

		var r row
		switch code >> 6 {
		case 0:
			r = row{mnemonic: cbShiftRows[bit].mnemonic, operands: reg,
				flags: cbShiftRows[bit].flags, group: GroupRotateShift}
		case 1:
			r = row{mnemonic: "BIT", operands: fmt.Sprintf("%d,%s", bit, reg),
				flags: "Z01-", group: GroupRotateShift}
		case 2:
			r = row{mnemonic: "RES", operands: fmt.Sprintf("%d,%s", bit, reg),
				flags: "----", group: GroupRotateShift}
		default:
			r = row{mnemonic: "SET", operands: fmt.Sprintf("%d,%s", bit, reg),
				flags: "----", group: GroupRotateShift}
		}

		r.code = uint8(code)
		r.length = 2
		r.cycles = 8
		if indirect {
			r.cycles = 16
			if code>>6 == 1 {
				r.cycles = 12
			}
		}
		table[code] = r.opcode(true)
	}

	return table
}

// Table holds metadata for both opcode spaces.
type Table struct {
	unprefixed [256]Opcode
	cbPrefixed [256]Opcode
}

// NewTable builds a metadata table.
func NewTable() *Table {
	return &Table{
		unprefixed: buildUnprefixed(),
		cbPrefixed: buildCBPrefixed(),
	}
}

var defaultTable = sync.OnceValue(NewTable)

// DefaultTable returns the process-wide table, built on first use.
func DefaultTable() *Table {
	return defaultTable()
}

// Unprefixed returns the metadata of an unprefixed opcode.
func (t *Table) Unprefixed(code uint8) *Opcode {
	return &t.unprefixed[code]
}

// CBPrefixed returns the metadata of a CB-prefixed opcode.
func (t *Table) CBPrefixed(code uint8) *Opcode {
	return &t.cbPrefixed[code]
}

// Lookup returns the metadata for a raw opcode byte and, when the byte is
// the CB prefix, the byte that follows it.
func (t *Table) Lookup(code, next uint8) *Opcode {
	if code == PrefixCB {
		return t.CBPrefixed(next)
	}
	return t.Unprefixed(code)
}

// PrefixCB is the escape byte that selects the CB-prefixed opcode space.
const PrefixCB uint8 = 0xCB
