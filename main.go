// Package main provides the entry point for GBSim.
// GBSim is a cycle-counted Game Boy (LR35902) CPU emulator built on Akita's
// time units.
//
// For the full CLI, use: go run ./cmd/gbsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("GBSim - Game Boy CPU Emulator")
	fmt.Println("")
	fmt.Println("Usage: gbsim [options] <cartridge.gb>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -boot      Path to a 256-byte boot ROM")
	fmt.Println("  -config    Path to a JSON or YAML configuration file")
	fmt.Println("  -frames    Number of frames to run")
	fmt.Println("  -v         Log verbosity (0-2)")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/gbsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/gbsim' instead.")
	}
}
