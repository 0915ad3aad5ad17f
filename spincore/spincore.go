// Package spincore provides a stand-in execution core for stress tools
// and integration tests. It does not emulate guest instructions: each
// "translated" block is a synthetic host routine that advances the guest
// PC through a code region and counts the work in R0. What it does do
// faithfully is the collaborator contract: execute blocks out of the
// address space and poll the halt mask at block granularity.
package spincore

import (
	"github.com/sarchlab/a32jit/codecache"
	"github.com/sarchlab/a32jit/jit"
	"github.com/sarchlab/a32jit/state"
)

// Core is a jit.Core that runs synthetic blocks out of a
// codecache.Cache.
type Core struct {
	// RegionBase and RegionSize bound the guest addresses the core
	// pretends to execute; the PC wraps within [RegionBase,
	// RegionBase+RegionSize).
	RegionBase uint32
	RegionSize uint32

	blocksRun uint64
}

// BlocksRun returns the number of blocks executed so far. Only valid
// between Run/Step calls, from the execution goroutine.
func (c *Core) BlocksRun() uint64 {
	return c.blocksRun
}

// Run executes blocks until any halt bit is raised.
func (c *Core) Run(as jit.AddressSpace, regs *state.RegFile, halt *jit.HaltMask) jit.HaltReason {
	cache := as.(*codecache.Cache)
	for {
		if hr := halt.Current(); hr != 0 {
			return hr
		}
		c.runBlock(cache, regs)
	}
}

// Step executes exactly one block and reports the step boundary along
// with any bits raised meanwhile.
func (c *Core) Step(as jit.AddressSpace, regs *state.RegFile, halt *jit.HaltMask) jit.HaltReason {
	c.runBlock(as.(*codecache.Cache), regs)
	return halt.Current() | jit.HaltReasonStep
}

func (c *Core) runBlock(cache *codecache.Cache, regs *state.RegFile) {
	pc := regs.Regs[15]
	entry, ok := cache.Lookup(pc)
	if !ok {
		entry = c.translate(cache, pc)
		cache.Insert(entry)
	}
	entry.Fn(regs)
	c.blocksRun++
}

// translate builds the synthetic block for pc.
func (c *Core) translate(cache *codecache.Cache, pc uint32) codecache.Entry {
	span := uint32(cache.Config().BlockSpan)
	base, size := c.RegionBase, c.RegionSize
	if size == 0 {
		size = span
	}
	return codecache.Entry{
		GuestAddr: pc,
		GuestLen:  span,
		Fn: func(r *state.RegFile) {
			r.Regs[0]++
			next := r.Regs[15] + span
			if next < base || next >= base+size {
				next = base
			}
			r.Regs[15] = next
		},
	}
}
