// Package main provides the A32JIT stress harness. It drives the
// execution-control layer the way an emulator frontend would: one
// goroutine runs translated code while control goroutines invalidate the
// code cache and finally halt execution.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sarchlab/a32jit/codecache"
	"github.com/sarchlab/a32jit/jit"
	"github.com/sarchlab/a32jit/spincore"
)

var (
	configPath      = flag.String("config", "", "Path to code cache configuration JSON file")
	duration        = flag.Duration("duration", 2*time.Second, "How long to run before halting")
	invalidateEvery = flag.Duration("invalidate-every", 50*time.Millisecond, "Interval between cache range invalidations (0 = never)")
	rangeLen        = flag.Uint64("range-len", 0x100, "Length in guest bytes of each range invalidation")
	fullEvery       = flag.Int("full-every", 8, "Issue a full ClearCache every Nth invalidation (0 = never)")
	regionSize      = flag.Uint("region-size", 1<<20, "Size in bytes of the synthetic guest code region")
	verbose         = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	cfg := jit.DefaultConfig()
	if *configPath != "" {
		cacheCfg, err := codecache.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg.Cache = cacheCfg
	}

	cache := codecache.New(cfg.Cache)
	core := &spincore.Core{RegionBase: 0x1000, RegionSize: uint32(*regionSize)}
	j := jit.New(cfg,
		jit.WithAddressSpace(cache),
		jit.WithCore(core),
	)
	j.Regs()[15] = core.RegionBase

	if *verbose {
		fmt.Printf("Cache: %d blocks, %d-way, %dB span\n",
			cfg.Cache.NumBlocks, cfg.Cache.Associativity, cfg.Cache.BlockSpan)
		fmt.Printf("Running for %v\n", *duration)
	}

	// Control threads: periodic invalidations plus one final halt.
	stopInvalidator := make(chan struct{})
	if *invalidateEvery > 0 {
		go invalidator(j, core.RegionBase, stopInvalidator)
	}
	timer := time.AfterFunc(*duration, func() {
		j.HaltExecution(jit.HaltReasonUser1)
	})
	defer timer.Stop()

	start := time.Now()
	runs := 0
	for {
		hr := j.Run()
		runs++
		if *verbose {
			fmt.Printf("Run %d stopped: %s\n", runs, hr)
		}
		if hr.Has(jit.HaltReasonUser1) {
			j.ClearHalt(jit.HaltReasonUser1)
			break
		}
		// Any other stop was an invalidation handshake; the trailing
		// drain already applied it, so just resume.
	}
	elapsed := time.Since(start)
	close(stopInvalidator)

	stats := cache.Stats()
	fmt.Printf("Executed %d blocks in %v (%d Run calls)\n",
		core.BlocksRun(), elapsed.Round(time.Millisecond), runs)
	fmt.Printf("Cache: %d lookups, %d hits, %d misses, %d evictions, %d clears\n",
		stats.Lookups, stats.Hits, stats.Misses, stats.Evictions, stats.Clears)
}

// invalidator issues range invalidations on a ticker, with a full
// ClearCache mixed in every fullEvery ticks.
func invalidator(j *jit.Jit, regionBase uint32, stop <-chan struct{}) {
	ticker := time.NewTicker(*invalidateEvery)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n++
			if *fullEvery > 0 && n%*fullEvery == 0 {
				j.ClearCache()
			} else {
				start := regionBase + uint32(n)*0x40
				j.InvalidateCacheRange(start, *rangeLen)
			}
		}
	}
}
