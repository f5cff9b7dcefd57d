package emu

import "errors"

// Sentinel errors reported by the bus and the execution engine.
var (
	// ErrIllegalOpcode is reported when the CPU fetches an opcode that has
	// no defined LR35902 semantics.
	ErrIllegalOpcode = errors.New("illegal opcode")

	// ErrROMTooLarge is reported when a cartridge image exceeds the two
	// fixed ROM banks.
	ErrROMTooLarge = errors.New("rom image too large")

	// ErrBootROMTooLarge is reported when a boot ROM exceeds 256 bytes.
	ErrBootROMTooLarge = errors.New("boot rom image too large")

	// ErrEmptyBootROM is reported when an empty boot ROM is loaded.
	ErrEmptyBootROM = errors.New("boot rom image is empty")

	// ErrBootROMDisabled is reported when a boot ROM is loaded after the
	// overlay has been switched off.
	ErrBootROMDisabled = errors.New("boot rom overlay already disabled")

	// ErrNotIOAddress is reported when an I/O hook targets an address
	// outside 0xFF00-0xFF7F.
	ErrNotIOAddress = errors.New("address outside the i/o register window")

	// ErrMaxInstructions is reported when the instruction limit is reached.
	ErrMaxInstructions = errors.New("max instructions reached")
)
