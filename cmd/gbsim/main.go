// Package main provides the entry point for GBSim.
// GBSim is a cycle-counted Game Boy (LR35902) CPU emulator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sarchlab/gbsim/config"
	"github.com/sarchlab/gbsim/emu"
	"github.com/sarchlab/gbsim/loader"
)

var (
	configPath      = flag.String("config", "", "Path to configuration file (.json, .yaml or .yml)")
	bootROMPath     = flag.String("boot", "", "Path to a 256-byte boot ROM")
	frames          = flag.Uint64("frames", 0, "Number of frames to run (0 = until interrupted)")
	maxInstr        = flag.Uint64("max-instr", 0, "Max instructions to execute (0 = unlimited)")
	throttle        = flag.Bool("throttle", false, "Pace execution to real time")
	trace           = flag.Bool("trace", false, "Log every executed instruction (needs -v 2)")
	verbosity       = flag.Int("v", 0, "Log verbosity (0-2)")
	continueIllegal = flag.Bool("continue-on-illegal", false, "Keep running after an illegal opcode")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: gbsim [options] <cartridge.gb>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	os.Exit(run(flag.Arg(0)))
}

func run(romPath string) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	logger := cfg.NewLogger(os.Stderr).WithName("gbsim")

	cart, err := loader.LoadCartridge(romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading cartridge: %v\n", err)
		return 1
	}
	if !cart.HeaderChecksumOK {
		logger.Info("header checksum mismatch", "title", cart.Header.Title)
	}

	var bootROM []byte
	if *bootROMPath != "" {
		if bootROM, err = loader.LoadBootROM(*bootROMPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading boot rom: %v\n", err)
			return 1
		}
	}

	m, err := newMachine(cfg, cart.ROM, bootROM, os.Stdout, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating machine: %v\n", err)
		return 1
	}

	logger.V(1).Info("cartridge loaded", "title", cart.Header.Title,
		"type", cart.Header.Type.String(), "boot_rom", bootROM != nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := m.emulator.Run(ctx, cfg.Frames)

	stats := m.emulator.Clock().Stats()
	fmt.Fprintf(os.Stderr, "\nCartridge: %s (%s)\n", cart.Header.Title, romPath)
	fmt.Fprintf(os.Stderr, "Frames: %d\n", stats.Frames)
	fmt.Fprintf(os.Stderr, "Cycles: %d\n", stats.Cycles)
	fmt.Fprintf(os.Stderr, "Instructions executed: %d\n", m.emulator.InstructionCount())
	fmt.Fprintf(os.Stderr, "Emulated time: %v\n", stats.Elapsed)
	fmt.Fprintf(os.Stderr, "Serial transfers: %d\n", m.serial.Transfers())

	switch {
	case runErr == nil, errors.Is(runErr, context.Canceled):
		return 0
	case errors.Is(runErr, emu.ErrMaxInstructions):
		fmt.Fprintf(os.Stderr, "Stopped: %v\n", runErr)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return 1
	}
}

// loadConfig reads the configuration file, if any, and applies the flags
// that were set explicitly on top of it.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "frames":
			cfg.Frames = *frames
		case "max-instr":
			cfg.MaxInstructions = *maxInstr
		case "throttle":
			cfg.Throttle = *throttle
		case "trace":
			cfg.Trace = *trace
		case "v":
			cfg.LogVerbosity = *verbosity
		case "continue-on-illegal":
			cfg.StopOnIllegalOpcode = !*continueIllegal
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
