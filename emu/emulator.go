// Package emu provides functional LR35902 (Game Boy CPU) emulation.
package emu

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/sarchlab/gbsim/insts"
	"github.com/sarchlab/gbsim/timing/clock"
)

// haltedCycles is the cost of a step taken while the CPU is halted or
// stopped.
const haltedCycles = 4

// StepResult represents the result of executing a single step.
type StepResult struct {
	// Cycles is the number of clock cycles the step consumed.
	Cycles int

	// Err is set if the step hit an illegal opcode or the instruction limit.
	Err error
}

// Peripheral is a device that advances alongside the CPU. Tick is called
// after every step with the cycles that step consumed.
type Peripheral interface {
	Tick(cycles int)
}

// Emulator executes LR35902 instructions functionally.
type Emulator struct {
	regFile *RegFile
	memory  *Bus
	clock   *clock.Clock
	decoder *insts.Decoder
	alu     *ALU
	logger  logr.Logger

	cbShifts    [8]func(uint8) uint8
	peripherals []Peripheral

	trace         bool
	throttle      bool
	stopOnIllegal bool

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithLogger sets the logger. Illegal opcodes are logged at V(0), boot ROM
// disable at V(1) and instruction traces at V(2).
func WithLogger(logger logr.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithClock sets the clock the emulator advances.
func WithClock(c *clock.Clock) EmulatorOption {
	return func(e *Emulator) {
		e.clock = c
	}
}

// WithTrace enables per-instruction trace logging.
func WithTrace(enabled bool) EmulatorOption {
	return func(e *Emulator) {
		e.trace = enabled
	}
}

// WithThrottle paces Run to real time.
func WithThrottle(enabled bool) EmulatorOption {
	return func(e *Emulator) {
		e.throttle = enabled
	}
}

// WithStopOnIllegalOpcode controls whether RunFrame returns on an illegal
// opcode. When disabled the opcode is logged and execution continues.
func WithStopOnIllegalOpcode(stop bool) EmulatorOption {
	return func(e *Emulator) {
		e.stopOnIllegal = stop
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new emulator with the post-boot register state.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	regFile := &RegFile{}
	regFile.ResetPostBoot()

	e := &Emulator{
		regFile:       regFile,
		memory:        NewMemory(),
		decoder:       insts.NewDecoder(),
		logger:        logr.Discard(),
		stopOnIllegal: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.clock == nil {
		e.clock = clock.New()
	}

	e.alu = NewALU(regFile)
	e.cbShifts = [8]func(uint8) uint8{
		e.alu.RLC, e.alu.RRC, e.alu.RL, e.alu.RR,
		e.alu.SLA, e.alu.SRA, e.alu.Swap, e.alu.SRL,
	}

	e.memory.OnBootROMDisable(func() {
		e.logger.V(1).Info("boot rom disabled", "pc", hex16(e.regFile.PC))
	})

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Snapshot returns a copy of the register file.
func (e *Emulator) Snapshot() RegFile {
	return *e.regFile
}

// Memory returns the emulator's memory bus.
func (e *Emulator) Memory() *Bus {
	return e.memory
}

// Clock returns the emulator's clock.
func (e *Emulator) Clock() *clock.Clock {
	return e.clock
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Attach registers a peripheral to be ticked after every step.
func (e *Emulator) Attach(p Peripheral) {
	e.peripherals = append(e.peripherals, p)
}

// LoadROM loads a cartridge image.
func (e *Emulator) LoadROM(data []byte) error {
	return e.memory.LoadROM(data)
}

// LoadBootROM loads a boot ROM and resets the CPU so execution starts at
// 0x0000 with all registers cleared.
func (e *Emulator) LoadBootROM(data []byte) error {
	if err := e.memory.LoadBootROM(data); err != nil {
		return err
	}
	*e.regFile = RegFile{}
	return nil
}

// Wake returns a halted or stopped CPU to running mode.
func (e *Emulator) Wake() {
	e.regFile.Mode = ModeRunning
}

// Step executes one instruction, or idles for 4 cycles while the CPU is
// halted or stopped.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	if e.regFile.Mode != ModeRunning && !e.wakeUp() {
		e.advance(haltedCycles)
		return StepResult{Cycles: haltedCycles}
	}

	pc := e.regFile.PC
	if e.trace {
		if l := e.logger.V(2); l.Enabled() {
			inst := e.decoder.Decode(e.memory, pc)
			l.Info("exec", "pc", hex16(pc), "inst", inst.String(),
				"af", hex16(e.regFile.AF()), "bc", hex16(e.regFile.BC()),
				"de", hex16(e.regFile.DE()), "hl", hex16(e.regFile.HL()),
				"sp", hex16(e.regFile.SP))
		}
	}

	var (
		cycles int
		err    error
	)

	opcode := e.fetch8()
	if opcode == insts.PrefixCB {
		cycles = e.executeCB(e.fetch8())
	} else {
		cycles, err = e.execute(opcode)
	}

	if err != nil {
		e.logger.Info("illegal opcode", "pc", hex16(pc), "opcode", hex8(opcode))
	}

	e.instructionCount++
	e.advance(cycles)

	return StepResult{Cycles: cycles, Err: err}
}

// wakeUp checks the wake condition of the current mode and returns true if
// the CPU is running again. HALT ends when an enabled interrupt is
// requested, regardless of IME. STOP ends on a joypad request.
func (e *Emulator) wakeUp() bool {
	pending := e.memory.IO(AddrIF) & 0x1F
	switch e.regFile.Mode {
	case ModeHalted:
		pending &= e.memory.IO(AddrIE)
	case ModeStopped:
		pending &= IntJoypad
	}

	if pending == 0 {
		return false
	}
	e.regFile.Mode = ModeRunning
	return true
}

func (e *Emulator) advance(cycles int) {
	e.clock.Tick(uint64(cycles))
	for _, p := range e.peripherals {
		p.Tick(cycles)
	}
}

// RunFrame steps until the clock's frame budget is consumed and returns the
// cycles spent. It stops early on an error; illegal opcodes only count as
// errors when the emulator is configured to stop on them.
func (e *Emulator) RunFrame() (uint64, error) {
	start := e.clock.Cycles()

	for !e.clock.FrameDone() {
		result := e.Step()
		if result.Err == nil {
			continue
		}
		if errors.Is(result.Err, ErrIllegalOpcode) && !e.stopOnIllegal {
			continue
		}
		return e.clock.Cycles() - start, result.Err
	}

	e.clock.EndFrame()
	return e.clock.Cycles() - start, nil
}

// Run executes frames until the given number of frames has completed, an
// error occurs or the context is cancelled. A frame count of 0 runs until
// cancellation. Cancellation is only observed between frames.
func (e *Emulator) Run(ctx context.Context, frames uint64) error {
	var pacer *clock.Pacer
	if e.throttle {
		pacer = clock.NewPacer(e.clock)
	}

	for n := uint64(0); frames == 0 || n < frames; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := e.RunFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}

		if pacer != nil {
			if err := pacer.Wait(ctx); err != nil {
				return err
			}
		}
	}

	return nil
}

func hex8(v uint8) string {
	return fmt.Sprintf("0x%02X", v)
}

func hex16(v uint16) string {
	return fmt.Sprintf("0x%04X", v)
}
