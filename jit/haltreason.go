package jit

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// HaltReason is a bit-set describing why guest execution stopped. A core
// may report several reasons at once.
type HaltReason uint32

const (
	// HaltReasonStep reports that a Step call retired its single
	// instruction.
	HaltReasonStep HaltReason = 0x0000_0001

	// HaltReasonCacheInvalidation reports a pending cache invalidation.
	// The driver raises and consumes this bit itself; cores only ever
	// observe it.
	HaltReasonCacheInvalidation HaltReason = 0x0000_0002

	// HaltReasonMemoryAbort reports a guest memory abort.
	HaltReasonMemoryAbort HaltReason = 0x0000_0004
)

// HaltReasonUser1 through HaltReasonUser8 are reserved for callers, e.g.
// breakpoints or watchdog stops. The control layer never raises or
// clears them on its own.
const (
	HaltReasonUser1 HaltReason = 0x0100_0000 << iota
	HaltReasonUser2
	HaltReasonUser3
	HaltReasonUser4
	HaltReasonUser5
	HaltReasonUser6
	HaltReasonUser7
	HaltReasonUser8
)

// Has reports whether every bit of the given reason is set.
func (hr HaltReason) Has(bit HaltReason) bool {
	return hr&bit == bit && bit != 0
}

var haltReasonNames = []struct {
	bit  HaltReason
	name string
}{
	{HaltReasonStep, "Step"},
	{HaltReasonCacheInvalidation, "CacheInvalidation"},
	{HaltReasonMemoryAbort, "MemoryAbort"},
	{HaltReasonUser1, "User1"},
	{HaltReasonUser2, "User2"},
	{HaltReasonUser3, "User3"},
	{HaltReasonUser4, "User4"},
	{HaltReasonUser5, "User5"},
	{HaltReasonUser6, "User6"},
	{HaltReasonUser7, "User7"},
	{HaltReasonUser8, "User8"},
}

// String formats the set bits as a |-separated list, e.g.
// "CacheInvalidation|User1".
func (hr HaltReason) String() string {
	if hr == 0 {
		return "none"
	}

	var parts []string
	rest := hr
	for _, entry := range haltReasonNames {
		if rest&entry.bit != 0 {
			parts = append(parts, entry.name)
			rest &^= entry.bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%08X", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// HaltMask is the shared halt-reason bitmask: the single channel through
// which control threads interrupt a running core. All operations are
// lock-free atomics, safe from any goroutine while a core is executing.
//
// Cores poll the mask at block granularity and return control once any
// bit is set.
type HaltMask struct {
	bits atomic.Uint32
}

// Raise ORs the given reason into the mask.
func (m *HaltMask) Raise(hr HaltReason) {
	m.bits.Or(uint32(hr))
}

// Lower clears the given reason from the mask.
func (m *HaltMask) Lower(hr HaltReason) {
	m.bits.And(^uint32(hr))
}

// Current returns the mask as of this instant.
func (m *HaltMask) Current() HaltReason {
	return HaltReason(m.bits.Load())
}
