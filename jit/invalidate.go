package jit

import (
	"math"
	"sync"

	"github.com/sarchlab/a32jit/intervals"
)

// invalidationTracker accumulates cache invalidation requests from any
// goroutine and hands them to the driver at its two drain points. The
// payload is either "discard everything" or a coalesced set of guest
// address ranges; one mutex guards both.
type invalidationTracker struct {
	mu     sync.Mutex
	all    bool
	ranges intervals.Set
}

// requestAll records a whole-cache invalidation. Any accumulated ranges
// are dropped, as the full discard subsumes them.
func (t *invalidationTracker) requestAll(halt *HaltMask) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.all = true
	t.ranges.Clear()
	halt.Raise(HaltReasonCacheInvalidation)
}

// requestRange records an invalidation of length guest bytes starting at
// start, merging with any range already pending. A zero length is a
// caller bug and panics.
func (t *invalidationTracker) requestRange(start uint32, length uint64, halt *HaltMask) {
	if length == 0 {
		panic("jit: InvalidateCacheRange called with zero length")
	}

	end := uint64(start) + length - 1
	if end > math.MaxUint32 {
		end = math.MaxUint32
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.ranges.Add(intervals.Interval{Start: start, End: uint32(end)})
	halt.Raise(HaltReasonCacheInvalidation)
}

// drainAndApply applies every pending invalidation and empties the
// payload. Called only by the driver, immediately before and after each
// delegation to the core.
//
// The halt bit is lowered before the payload is read: a request racing
// with this drain re-raises the bit, so the next drain of the same
// Run/Step call picks it up rather than losing it.
func (t *invalidationTracker) drainAndApply(halt *HaltMask, as AddressSpace) {
	halt.Lower(HaltReasonCacheInvalidation)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.all {
		as.ClearCache()
		t.all = false
		t.ranges.Clear()
		return
	}

	if !t.ranges.Empty() {
		// Range-precise invalidation would need a translated-block to
		// guest-range map carried end to end. Discarding everything is
		// always safe and invalidation is rare next to execution.
		as.ClearCache()
		t.ranges.Clear()
	}
}
