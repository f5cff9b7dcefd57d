// Package benchmarks provides cycle-accounting benchmark infrastructure for
// GBSim calibration.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"

	"github.com/sarchlab/gbsim/emu"
)

// ProgramBase is where benchmark programs are loaded. Work RAM is writable,
// so programs can be placed without building a cartridge image.
const ProgramBase uint16 = 0xC000

// StackTop is the initial stack pointer for every benchmark.
const StackTop uint16 = 0xFFFE

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Cycles is the total number of clock cycles, including the final HALT
	Cycles uint64 `json:"cycles"`

	// Instructions is the number of instructions executed
	Instructions uint64 `json:"instructions"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// ExpectedCycles is the hand-counted cycle total for the program
	ExpectedCycles uint64 `json:"expected_cycles"`

	// ResultA is the accumulator when the program halted
	ResultA uint8 `json:"result_a"`

	// ExpectedA is the accumulator value the program should leave behind
	ExpectedA uint8 `json:"expected_a"`

	// Passed reports whether both cycles and the accumulator matched
	Passed bool `json:"passed"`

	// Error is set if the program hit an illegal opcode or never halted
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the emulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program. Programs run from
// ProgramBase until they execute HALT.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup prepares the emulator state (e.g., initialize registers, memory)
	Setup func(regFile *emu.RegFile, memory *emu.Bus)

	// Program is the LR35902 machine code to execute
	Program []byte

	// ExpectedCycles is the exact cycle count (for validation)
	ExpectedCycles uint64

	// ExpectedA is the expected accumulator on HALT (for validation)
	ExpectedA uint8
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// MaxInstructions bounds each run so a program that never halts fails
	// instead of hanging. 0 means no limit.
	MaxInstructions uint64

	// Logger receives emulator logs. Defaults to a discarding logger.
	Logger logr.Logger

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		MaxInstructions: 1_000_000,
		Logger:          logr.Discard(),
		Output:          os.Stdout,
		Verbose:         false,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Logger.GetSink() == nil {
		config.Logger = logr.Discard()
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result := h.runBenchmark(bench)
		if h.config.Verbose {
			_, _ = fmt.Fprintf(h.config.Output, "ran %s: %d cycles, passed=%v\n",
				result.Name, result.Cycles, result.Passed)
		}
		results = append(results, result)
	}

	return results
}

// runBenchmark executes a single benchmark on a fresh emulator.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	e := emu.NewEmulator(
		emu.WithLogger(h.config.Logger.WithValues("benchmark", bench.Name)),
		emu.WithMaxInstructions(h.config.MaxInstructions),
	)

	regFile := e.RegFile()
	memory := e.Memory()
	*regFile = emu.RegFile{SP: StackTop, PC: ProgramBase}

	if bench.Setup != nil {
		bench.Setup(regFile, memory)
	}

	for i, b := range bench.Program {
		memory.Write8(ProgramBase+uint16(i), b)
	}

	result := BenchmarkResult{
		Name:           bench.Name,
		Description:    bench.Description,
		ExpectedCycles: bench.ExpectedCycles,
		ExpectedA:      bench.ExpectedA,
	}

	start := time.Now()
	for regFile.Mode == emu.ModeRunning {
		if step := e.Step(); step.Err != nil {
			result.Error = step.Err.Error()
			break
		}
	}
	result.WallTime = time.Since(start)

	result.Cycles = e.Clock().Cycles()
	result.Instructions = e.InstructionCount()
	if result.Instructions > 0 {
		result.CPI = float64(result.Cycles) / float64(result.Instructions)
	}
	result.ResultA = regFile.A
	result.Passed = result.Error == "" &&
		result.Cycles == bench.ExpectedCycles &&
		result.ResultA == bench.ExpectedA

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== GBSim Timing Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Result A: 0x%02X (expected 0x%02X)\n", r.ResultA, r.ExpectedA)
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Cycles:          %d (expected %d)\n", r.Cycles, r.ExpectedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions:    %d\n", r.Instructions)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:             %.3f\n", r.CPI)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Passed: %v\n", r.Passed)
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,expected_cycles,instructions,cpi,result_a,expected_a,passed")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%.3f,%d,%d,%v\n",
			r.Name,
			r.Cycles,
			r.ExpectedCycles,
			r.Instructions,
			r.CPI,
			r.ResultA,
			r.ExpectedA,
			r.Passed,
		)
	}
}

// BuildProgram concatenates instruction byte sequences.
func BuildProgram(chunks ...[]byte) []byte {
	var program []byte
	for _, c := range chunks {
		program = append(program, c...)
	}
	return program
}

// Repeat returns n copies of an instruction byte sequence.
func Repeat(n int, inst ...byte) []byte {
	program := make([]byte, 0, n*len(inst))
	for i := 0; i < n; i++ {
		program = append(program, inst...)
	}
	return program
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Version of the simulator
	Version string `json:"version"`

	// MaxInstructions is the per-benchmark instruction limit
	MaxInstructions uint64 `json:"max_instructions"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// Passed is the number of benchmarks whose cycles and result matched
	Passed int `json:"passed"`

	// TotalCycles is the sum of all emulated cycles
	TotalCycles uint64 `json:"total_cycles"`

	// TotalInstructions is the sum of all instructions executed
	TotalInstructions uint64 `json:"total_instructions"`

	// AverageCPI is the average cycles per instruction
	AverageCPI float64 `json:"average_cpi"`

	// TotalWallTime is the total wall clock time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// Version is reported in JSON benchmark reports.
const Version = "0.1.0"

// Summarize computes aggregate statistics over a set of results.
func Summarize(results []BenchmarkResult) ReportSummary {
	summary := ReportSummary{TotalBenchmarks: len(results)}
	for _, r := range results {
		summary.TotalCycles += r.Cycles
		summary.TotalInstructions += r.Instructions
		summary.TotalWallTime += r.WallTime
		if r.Passed {
			summary.Passed++
		}
	}

	if summary.TotalInstructions > 0 {
		summary.AverageCPI = float64(summary.TotalCycles) / float64(summary.TotalInstructions)
	}
	return summary
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
			Version:         Version,
			MaxInstructions: h.config.MaxInstructions,
		},
		Results: results,
		Summary: Summarize(results),
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
