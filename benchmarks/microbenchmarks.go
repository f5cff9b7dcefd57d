package benchmarks

import "github.com/sarchlab/gbsim/emu"

// GetMicrobenchmarks returns the standard set of microbenchmarks for cycle
// calibration. Each benchmark targets one group of the instruction table and
// carries a hand-counted cycle total.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		nopSled(),
		aluImmediate(),
		loopSum(),
		memoryCopy(),
		functionCalls(),
		branchNotTaken(),
		branchTaken(),
		bcdCounter(),
		bitOperations(),
		stackPushPop(),
	}
}

// GetCoreBenchmarks returns a minimal set of 3 core benchmarks for quick validation.
// These cover a counted loop, memory traffic and call/return.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		loopSum(),
		memoryCopy(),
		functionCalls(),
	}
}

// 1. NOP sled - baseline fetch cost
func nopSled() Benchmark {
	return Benchmark{
		Name:        "nop_sled",
		Description: "20 NOPs - baseline 4-cycle instruction",
		Program: BuildProgram(
			Repeat(20, 0x00),
			[]byte{0x76}, // HALT
		),
		ExpectedCycles: 20*4 + 4,
		ExpectedA:      0,
	}
}

// 2. ALU immediate - 8-cycle operand fetch
func aluImmediate() Benchmark {
	return Benchmark{
		Name:        "alu_immediate",
		Description: "10 ADD A,n8 - immediate operand ALU throughput",
		Program: BuildProgram(
			[]byte{0x3E, 0x00},     // LD A,$00
			Repeat(10, 0xC6, 0x01), // ADD A,$01
			[]byte{0x76},
		),
		ExpectedCycles: 8 + 10*8 + 4,
		ExpectedA:      10,
	}
}

// 3. Loop sum - for i := 10; i > 0; i-- { a += i }
func loopSum() Benchmark {
	return Benchmark{
		Name:        "loop_sum",
		Description: "10-iteration counted loop - JR NZ taken and not taken",
		Program: []byte{
			0x3E, 0x00, // LD A,$00
			0x06, 0x0A, // LD B,$0A
			0x80,       // loop: ADD A,B
			0x05,       // DEC B
			0x20, 0xFC, // JR NZ,loop
			0x76,
		},
		// 9 taken branches at 12 cycles, the final one not taken at 8.
		ExpectedCycles: 8 + 8 + 10*(4+4) + 9*12 + 8 + 4,
		ExpectedA:      55,
	}
}

// 4. Memory copy - 8 bytes from 0xD000 to 0xD100
func memoryCopy() Benchmark {
	return Benchmark{
		Name:        "memory_copy",
		Description: "8-byte copy loop - [HL+] loads and [DE] stores",
		Setup: func(regFile *emu.RegFile, memory *emu.Bus) {
			for i := uint16(0); i < 8; i++ {
				memory.Write8(0xD000+i, uint8(i+1))
			}
		},
		Program: []byte{
			0x21, 0x00, 0xD0, // LD HL,$D000
			0x11, 0x00, 0xD1, // LD DE,$D100
			0x0E, 0x08,       // LD C,$08
			0x2A,             // loop: LD A,[HL+]
			0x12,             // LD [DE],A
			0x13,             // INC DE
			0x0D,             // DEC C
			0x20, 0xFA,       // JR NZ,loop
			0x76,
		},
		ExpectedCycles: 12 + 12 + 8 + 8*(8+8+8+4) + 7*12 + 8 + 4,
		ExpectedA:      8,
	}
}

// 5. Function calls - CALL/RET pairs through the stack
func functionCalls() Benchmark {
	return Benchmark{
		Name:        "function_calls",
		Description: "3 CALL/RET pairs - stack traffic and control transfer",
		Program: []byte{
			0x3E, 0x00,       // LD A,$00
			0xCD, 0x0C, 0xC0, // CALL $C00C
			0xCD, 0x0C, 0xC0,
			0xCD, 0x0C, 0xC0,
			0x76,
			0x3C, // $C00C: INC A
			0xC9, // RET
		},
		ExpectedCycles: 8 + 3*(24+4+16) + 4,
		ExpectedA:      3,
	}
}

// 6. Branch not taken - conditional JR falling through
func branchNotTaken() Benchmark {
	return Benchmark{
		Name:        "branch_not_taken",
		Description: "8 JR NZ with Z set - not-taken branch cost",
		Program: BuildProgram(
			[]byte{0xAF}, // XOR A
			Repeat(8, 0x20, 0x00),
			[]byte{0x76},
		),
		ExpectedCycles: 4 + 8*8 + 4,
		ExpectedA:      0,
	}
}

// 7. Branch taken - conditional JR to the next instruction
func branchTaken() Benchmark {
	return Benchmark{
		Name:        "branch_taken",
		Description: "8 JR C with carry set - taken branch cost",
		Program: BuildProgram(
			[]byte{0x37}, // SCF
			Repeat(8, 0x38, 0x00),
			[]byte{0x76},
		),
		ExpectedCycles: 4 + 8*12 + 4,
		ExpectedA:      0,
	}
}

// 8. BCD counter - DAA after every increment
func bcdCounter() Benchmark {
	return Benchmark{
		Name:        "bcd_counter",
		Description: "12 ADD A,1 + DAA - decimal adjust",
		Program: BuildProgram(
			[]byte{0x3E, 0x00},
			Repeat(12, 0xC6, 0x01, 0x27), // ADD A,$01; DAA
			[]byte{0x76},
		),
		ExpectedCycles: 8 + 12*(8+4) + 4,
		ExpectedA:      0x12,
	}
}

// 9. Bit operations - CB-prefixed read-modify-write on [HL]
func bitOperations() Benchmark {
	return Benchmark{
		Name:        "bit_operations",
		Description: "SET/RES/BIT on [HL] and SWAP - CB prefix costs",
		Program: []byte{
			0x21, 0x00, 0xD0, // LD HL,$D000
			0xCB, 0xC6,       // SET 0,[HL]
			0xCB, 0xFE,       // SET 7,[HL]
			0xCB, 0x7E,       // BIT 7,[HL]
			0xCB, 0x86,       // RES 0,[HL]
			0x7E,             // LD A,[HL]
			0xCB, 0x37,       // SWAP A
			0x76,
		},
		ExpectedCycles: 12 + 16 + 16 + 12 + 16 + 8 + 8 + 4,
		ExpectedA:      0x08,
	}
}

// 10. Stack push/pop - register pair moves through memory
func stackPushPop() Benchmark {
	return Benchmark{
		Name:        "stack_push_pop",
		Description: "PUSH/POP through BC, DE and AF",
		Program: []byte{
			0x01, 0x34, 0x12, // LD BC,$1234
			0xC5,             // PUSH BC
			0xD1,             // POP DE
			0xD5,             // PUSH DE
			0xF1,             // POP AF
			0x76,
		},
		ExpectedCycles: 12 + 16 + 12 + 16 + 12 + 4,
		ExpectedA:      0x12,
	}
}
