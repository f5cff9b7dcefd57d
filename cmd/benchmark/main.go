// Command benchmark runs the GBSim cycle-accounting benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv        Output results in CSV format (default: human-readable)
//	-json       Output results as a JSON report
//	-core       Run only the 3 core benchmarks
//	-max-instr  Per-benchmark instruction limit
//
// Example:
//
//	# Run all benchmarks with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
//
// Every benchmark carries a hand-counted cycle total; the command exits
// non-zero when any benchmark disagrees with it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/gbsim/benchmarks"
)

func main() {
	// Parse flags
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	coreOnly := flag.Bool("core", false, "Run only the core benchmarks")
	maxInstr := flag.Uint64("max-instr", benchmarks.DefaultConfig().MaxInstructions,
		"Per-benchmark instruction limit (0 = unlimited)")
	flag.Parse()

	// Configure harness
	config := benchmarks.DefaultConfig()
	config.MaxInstructions = *maxInstr
	config.Output = os.Stdout

	// Create harness and add benchmarks
	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	// Print configuration
	if !*csvOutput && !*jsonOutput {
		fmt.Println("GBSim Timing Benchmark Harness")
		fmt.Println("==============================")
		fmt.Printf("Max instructions: %d\n", config.MaxInstructions)
		fmt.Println("")
	}

	// Run benchmarks
	results := harness.RunAll()

	// Output results
	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)

		summary := benchmarks.Summarize(results)
		fmt.Println("=== Summary ===")
		fmt.Println("")
		fmt.Printf("Passed: %d/%d\n", summary.Passed, summary.TotalBenchmarks)
		fmt.Printf("Total cycles: %d\n", summary.TotalCycles)
		fmt.Printf("Average CPI: %.3f\n", summary.AverageCPI)
	}

	if benchmarks.Summarize(results).Passed != len(results) {
		os.Exit(1)
	}
}
