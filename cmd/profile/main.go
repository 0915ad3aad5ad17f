// Package main provides a profiling wrapper around the A32JIT stress
// loop, for identifying hot spots in the control layer's drain and
// dispatch paths.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/a32jit/codecache"
	"github.com/sarchlab/a32jit/jit"
	"github.com/sarchlab/a32jit/spincore"
)

var (
	cpuProfile      = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile      = flag.String("memprofile", "", "write memory profile to file")
	duration        = flag.Duration("duration", 10*time.Second, "max duration to run")
	maxBlocks       = flag.Uint64("max-blocks", 1000000, "max blocks to execute (0 = unlimited)")
	invalidateEvery = flag.Uint64("invalidate-every", 64, "request a range invalidation every N steps (0 = never)")
)

func main() {
	flag.Parse()

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

	cache := codecache.New(codecache.DefaultConfig())
	core := &spincore.Core{RegionBase: 0x1000, RegionSize: 1 << 20}
	j := jit.New(jit.DefaultConfig(),
		jit.WithAddressSpace(cache),
		jit.WithCore(core),
	)
	j.Regs()[15] = core.RegionBase

	timer := time.AfterFunc(*duration, func() {
		j.HaltExecution(jit.HaltReasonUser1)
	})
	defer timer.Stop()

	// Stepping keeps every drain and dispatch on the profiled path; the
	// sustained-Run path is the stress harness's job.
	start := time.Now()
	steps := uint64(0)
	for {
		hr := j.Step()
		if hr.Has(jit.HaltReasonUser1) {
			break
		}
		steps++
		if *maxBlocks > 0 && steps >= *maxBlocks {
			break
		}
		if *invalidateEvery > 0 && steps%*invalidateEvery == 0 {
			j.InvalidateCacheRange(core.RegionBase, 0x40)
		}
	}
	elapsed := time.Since(start)

	stats := cache.Stats()
	fmt.Printf("Executed %d blocks in %v\n", core.BlocksRun(), elapsed.Round(time.Millisecond))
	fmt.Printf("Cache: %d lookups, %d misses, %d clears\n",
		stats.Lookups, stats.Misses, stats.Clears)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
			os.Exit(1)
		}
	}
}
