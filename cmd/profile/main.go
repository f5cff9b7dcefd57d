// Package main provides a profiling wrapper for GBSim to identify performance bottlenecks.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/gbsim/config"
	"github.com/sarchlab/gbsim/emu"
	"github.com/sarchlab/gbsim/loader"
)

var (
	cpuProfile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile  = flag.String("memprofile", "", "write memory profile to file")
	duration    = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	frames      = flag.Uint64("frames", 600, "frames to run (0 = until the duration expires)")
	instruction = flag.Uint64("max-instr", 0, "max instructions to execute (0 = unlimited)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <cartridge.gb>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	romPath := flag.Arg(0)

	cart, err := loader.LoadCartridge(romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading cartridge: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded: %s\n", romPath)
	fmt.Printf("Title: %s\n", cart.Header.Title)

	// Profiling runs unthrottled and keeps going past illegal opcodes.
	cfg := config.Default()
	cfg.MaxInstructions = *instruction
	cfg.StopOnIllegalOpcode = false

	emulator := emu.NewEmulator(cfg.EmulatorOptions(cfg.NewLogger(os.Stderr))...)
	if err := emulator.LoadROM(cart.ROM); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading cartridge: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	runErr := emulator.Run(ctx, *frames)
	elapsed := time.Since(start)

	switch {
	case errors.Is(runErr, context.DeadlineExceeded):
		fmt.Printf("\nTimeout reached after %v - stopped execution\n", *duration)
	case runErr != nil:
		fmt.Printf("\nStopped: %v\n", runErr)
	}

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	stats := emulator.Clock().Stats()
	instrCount := emulator.InstructionCount()

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Frames: %d\n", stats.Frames)
	fmt.Printf("Cycles: %d\n", stats.Cycles)
	fmt.Printf("Instructions executed: %d\n", instrCount)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}
	if elapsed > 0 {
		fmt.Printf("Speed: %.1fx real time\n", stats.Elapsed.Seconds()/elapsed.Seconds())
	}
}
