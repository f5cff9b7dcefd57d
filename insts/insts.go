// Package insts provides LR35902 opcode metadata and disassembly.
//
// The metadata table describes all 256 unprefixed and 256 CB-prefixed
// opcodes: mnemonic, operands, encoded length, cycle cost and flag effects.
// The execution engine does not dispatch through it; it serves traces,
// diagnostics and the tests that cross-check the engine's timing.
//
// Usage:
//
//	table := insts.DefaultTable()
//	op := table.Unprefixed(0xC3) // JP a16
//	fmt.Println(op.Mnemonic, op.Length, op.Cycles)
package insts

import "strings"

// Group classifies opcodes by what they do.
type Group uint8

// Opcode groups.
const (
	GroupMisc Group = iota
	GroupBranch
	GroupLoad8
	GroupLoad16
	GroupALU8
	GroupALU16
	GroupRotateShift
	GroupIllegal
)

var groupNames = [...]string{
	GroupMisc:        "control/misc",
	GroupBranch:      "control/br",
	GroupLoad8:       "x8/lsm",
	GroupLoad16:      "x16/lsm",
	GroupALU8:        "x8/alu",
	GroupALU16:       "x16/alu",
	GroupRotateShift: "x8/rsb",
	GroupIllegal:     "illegal",
}

// String returns the group name.
func (g Group) String() string {
	if int(g) < len(groupNames) {
		return groupNames[g]
	}
	return "unknown"
}

// FlagEffect describes what an opcode does to one flag.
type FlagEffect uint8

// Flag effects.
const (
	FlagUnaffected FlagEffect = iota
	FlagReset
	FlagSet
	FlagDependent
)

// Opcode holds the metadata of one opcode.
type Opcode struct {
	// Code is the opcode byte (the second byte for CB-prefixed opcodes).
	Code uint8

	// Prefixed is true for CB-prefixed opcodes.
	Prefixed bool

	// Mnemonic is the instruction name, e.g. "LD".
	Mnemonic string

	// Operands lists operand templates, e.g. "A", "[HL+]", "n8", "a16".
	Operands []string

	// Length is the encoded length in bytes, including any prefix.
	Length int

	// Cycles is the cost in clock cycles; for conditional control flow it
	// is the cost when the branch is taken.
	Cycles int

	// CyclesNotTaken is the cost of a conditional branch that falls
	// through. Zero for unconditional opcodes.
	CyclesNotTaken int

	// Flags lists the effect on Z, N, H and C, in that order.
	Flags [4]FlagEffect

	// Group classifies the opcode.
	Group Group
}

// Conditional reports whether the opcode's cost depends on a condition.
func (o *Opcode) Conditional() bool {
	return o.CyclesNotTaken != 0
}

// Illegal reports whether the opcode has no defined semantics.
func (o *Opcode) Illegal() bool {
	return o.Group == GroupIllegal
}

// Condition returns the condition operand ("NZ", "Z", "NC", "C") of a
// conditional branch, or "" for other opcodes.
func (o *Opcode) Condition() string {
	if !o.Conditional() || len(o.Operands) == 0 {
		return ""
	}
	return o.Operands[0]
}

// String returns the opcode template, e.g. "LD B, n8".
func (o *Opcode) String() string {
	if len(o.Operands) == 0 {
		return o.Mnemonic
	}
	return o.Mnemonic + " " + strings.Join(o.Operands, ", ")
}

// parseFlags converts a four-character flag string such as "Z0H-".
func parseFlags(s string) [4]FlagEffect {
	var out [4]FlagEffect
	for i := 0; i < 4 && i < len(s); i++ {
		switch s[i] {
		case '-':
			out[i] = FlagUnaffected
		case '0':
			out[i] = FlagReset
		case '1':
			out[i] = FlagSet
		default:
			out[i] = FlagDependent
		}
	}
	return out
}
