// Package main provides the entry point for A32JIT.
// A32JIT is the execution-control layer of an AArch32 dynamic binary
// translator, built on Akita cache components.
//
// For the stress harness, use: go run ./cmd/a32jit
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("A32JIT - AArch32 translator execution-control layer")
	fmt.Println("")
	fmt.Println("Usage: a32jit [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config            Path to code cache configuration JSON file")
	fmt.Println("  -duration          How long to run before halting")
	fmt.Println("  -invalidate-every  Interval between cache invalidations")
	fmt.Println("  -v                 Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/a32jit' for the full harness.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/a32jit' instead.")
	}
}
