package insts

import (
	"fmt"
	"strings"
)

// Reader is the read side of a memory bus.
type Reader interface {
	Read8(addr uint16) uint8
}

// Instruction is a decoded instruction at a specific address.
type Instruction struct {
	// Addr is the address of the first byte.
	Addr uint16

	// Op is the opcode metadata.
	Op *Opcode

	// Bytes holds the encoded instruction, prefix included.
	Bytes []byte
}

// Imm8 returns the first byte following the opcode.
func (i *Instruction) Imm8() uint8 {
	if i.Op.Prefixed || len(i.Bytes) < 2 {
		return 0
	}
	return i.Bytes[1]
}

// Imm16 returns the little-endian word following the opcode.
func (i *Instruction) Imm16() uint16 {
	if len(i.Bytes) < 3 {
		return 0
	}
	return uint16(i.Bytes[2])<<8 | uint16(i.Bytes[1])
}

// Target returns the destination of a relative jump.
func (i *Instruction) Target() uint16 {
	next := i.Addr + uint16(i.Op.Length)
	return uint16(int32(next) + int32(int8(i.Imm8())))
}

// String renders the instruction in assembler syntax, e.g. "JP $0150".
func (i *Instruction) String() string {
	if len(i.Op.Operands) == 0 {
		return i.Op.Mnemonic
	}

	ops := make([]string, len(i.Op.Operands))
	for k, o := range i.Op.Operands {
		ops[k] = i.render(o)
	}
	return i.Op.Mnemonic + " " + strings.Join(ops, ", ")
}

func (i *Instruction) render(operand string) string {
	switch {
	case strings.Contains(operand, "n16"):
		return strings.Replace(operand, "n16", fmt.Sprintf("$%04X", i.Imm16()), 1)
	case strings.Contains(operand, "a16"):
		return strings.Replace(operand, "a16", fmt.Sprintf("$%04X", i.Imm16()), 1)
	case strings.Contains(operand, "n8"):
		return strings.Replace(operand, "n8", fmt.Sprintf("$%02X", i.Imm8()), 1)
	case strings.Contains(operand, "a8"):
		return strings.Replace(operand, "a8", fmt.Sprintf("$FF%02X", i.Imm8()), 1)
	case operand == "e8" && i.Op.Group == GroupBranch:
		return fmt.Sprintf("$%04X", i.Target())
	case strings.Contains(operand, "+e8"):
		return strings.Replace(operand, "+e8", fmt.Sprintf("%+d", int8(i.Imm8())), 1)
	case operand == "e8":
		return fmt.Sprintf("%d", int8(i.Imm8()))
	default:
		return operand
	}
}

// Decoder decodes LR35902 machine code using a metadata table.
type Decoder struct {
	table *Table
}

// NewDecoder creates a decoder backed by the default table.
func NewDecoder() *Decoder {
	return &Decoder{table: DefaultTable()}
}

// Table returns the decoder's metadata table.
func (d *Decoder) Table() *Table {
	return d.table
}

// Decode decodes the instruction starting at addr. Reads wrap around the
// top of the address space.
func (d *Decoder) Decode(r Reader, addr uint16) *Instruction {
	code := r.Read8(addr)
	op := d.table.Unprefixed(code)
	if code == PrefixCB {
		op = d.table.CBPrefixed(r.Read8(addr + 1))
	}

	b := make([]byte, op.Length)
	for k := range b {
		b[k] = r.Read8(addr + uint16(k))
	}

	return &Instruction{Addr: addr, Op: op, Bytes: b}
}

// Disassemble decodes n consecutive instructions starting at addr.
func (d *Decoder) Disassemble(r Reader, addr uint16, n int) []*Instruction {
	out := make([]*Instruction, 0, n)
	for k := 0; k < n; k++ {
		inst := d.Decode(r, addr)
		out = append(out, inst)
		addr += uint16(inst.Op.Length)
	}
	return out
}
