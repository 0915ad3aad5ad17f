// Package jit implements the execution-control layer of the translator:
// it owns the guest register state, the halt protocol, and the cache
// invalidation handshake, and drives an execution core against an
// address space holding translated code.
//
// Concurrency contract: exactly one goroutine calls Run, Step, Reset and
// the register accessors; any number of goroutines may concurrently call
// ClearCache, InvalidateCacheRange, HaltExecution and ClearHalt.
package jit

import (
	"github.com/sarchlab/a32jit/codecache"
	"github.com/sarchlab/a32jit/state"
)

// AddressSpace holds translated code for guest instructions. The control
// layer only ever tells it to discard everything; lookup and insertion
// are between the address space and the core.
type AddressSpace interface {
	// ClearCache discards every translated block.
	ClearCache()
}

// Core executes translated guest code. Both operations run until a halt
// condition: any bit raised in the halt mask, a guest-requested stop, or
// (for Step) one instruction boundary. They return the reasons that
// stopped them.
//
// Cores must poll the halt mask at block granularity; they never block
// waiting on it.
type Core interface {
	Run(as AddressSpace, regs *state.RegFile, halt *HaltMask) HaltReason
	Step(as AddressSpace, regs *state.RegFile, halt *HaltMask) HaltReason
}

// Config carries translator settings. The control layer stores them and
// hands them to collaborators at construction; beyond building the
// default code cache it does not interpret them.
type Config struct {
	// ArchVersion is the guest architecture version, e.g. 8 for ARMv8
	// AArch32.
	ArchVersion int

	// Cache is the geometry of the default code cache. Ignored when an
	// address space is injected with WithAddressSpace.
	Cache codecache.Config
}

// DefaultConfig returns the default translator settings.
func DefaultConfig() Config {
	return Config{
		ArchVersion: 8,
		Cache:       codecache.DefaultConfig(),
	}
}

// Jit binds configuration, guest register state, an address space and a
// core into one translator instance.
type Jit struct {
	config    Config
	regs      *state.RegFile
	addrSpace AddressSpace
	core      Core

	halt  HaltMask
	inval invalidationTracker

	// executing guards Run and Step against reentry. A plain field, not
	// a lock: the entry points are serialized by contract and violating
	// that contract is fatal, not recoverable.
	executing bool
}

// Option configures a Jit at construction.
type Option func(*Jit)

// WithAddressSpace injects the address space collaborator. Without it
// the Jit builds a codecache.Cache from its configuration.
func WithAddressSpace(as AddressSpace) Option {
	return func(j *Jit) {
		j.addrSpace = as
	}
}

// WithCore injects the core collaborator. Mandatory: a Jit cannot
// execute without one.
func WithCore(c Core) Option {
	return func(j *Jit) {
		j.core = c
	}
}

// New creates a translator instance. It panics if no core collaborator
// is provided.
func New(config Config, opts ...Option) *Jit {
	j := &Jit{
		config: config,
		regs:   state.NewRegFile(),
	}

	for _, opt := range opts {
		opt(j)
	}

	if j.addrSpace == nil {
		j.addrSpace = codecache.New(config.Cache)
	}
	if j.core == nil {
		panic("jit: New requires a core collaborator (use WithCore)")
	}

	return j
}

// Config returns the translator settings.
func (j *Jit) Config() Config {
	return j.config
}

// Run executes guest code until the core observes a halt condition and
// returns the reasons it stopped. Not reentrant: calling Run or Step
// while either is in progress panics.
//
// Pending invalidations are applied before delegating to the core and
// again after it returns; the trailing drain picks up requests that
// arrived after the core's last halt-mask poll.
func (j *Jit) Run() HaltReason {
	if j.executing {
		panic("jit: Run called while already executing")
	}
	j.performCacheInvalidation()

	j.executing = true
	defer func() { j.executing = false }()

	hr := j.core.Run(j.addrSpace, j.regs, &j.halt)

	j.performCacheInvalidation()

	return hr
}

// Step executes a single guest instruction. The same reentrancy and
// drain semantics as Run apply.
func (j *Jit) Step() HaltReason {
	if j.executing {
		panic("jit: Step called while already executing")
	}
	j.performCacheInvalidation()

	j.executing = true
	defer func() { j.executing = false }()

	hr := j.core.Step(j.addrSpace, j.regs, &j.halt)

	j.performCacheInvalidation()

	return hr
}

func (j *Jit) performCacheInvalidation() {
	j.inval.drainAndApply(&j.halt, j.addrSpace)
}

// ClearCache requests that all translated code be discarded. Safe from
// any goroutine, including while executing; a running core observes the
// cache-invalidation halt bit and returns so the drain can run.
func (j *Jit) ClearCache() {
	j.inval.requestAll(&j.halt)
}

// InvalidateCacheRange requests that translated code for the length
// guest bytes starting at start be discarded. Safe from any goroutine.
// A zero length panics.
func (j *Jit) InvalidateCacheRange(start uint32, length uint64) {
	j.inval.requestRange(start, length, &j.halt)
}

// HaltExecution raises the given halt reason. Safe from any goroutine;
// this is the only cancellation path, best-effort in timing (bounded by
// the core's polling granularity) but certain in outcome.
func (j *Jit) HaltExecution(hr HaltReason) {
	j.halt.Raise(hr)
}

// ClearHalt lowers the given halt reason. Safe from any goroutine.
func (j *Jit) ClearHalt(hr HaltReason) {
	j.halt.Lower(hr)
}

// Reset returns the live register state to its reset values. Idle only;
// it touches neither the code cache nor the halt mask.
func (j *Jit) Reset() {
	if j.executing {
		panic("jit: Reset called while executing")
	}
	j.regs.Reset()
}

// RegFile returns the live register state. It is owned by the execution
// goroutine while executing; mutating it during a Run or Step is a data
// race the caller must avoid.
func (j *Jit) RegFile() *state.RegFile {
	return j.regs
}

// Regs returns the live general-purpose registers. Mutating them while
// executing is a data race the caller must avoid.
func (j *Jit) Regs() *[16]uint32 {
	return &j.regs.Regs
}

// ExtRegs returns the live extension registers. The same idle-only
// mutation contract as Regs applies.
func (j *Jit) ExtRegs() *[64]uint32 {
	return &j.regs.ExtRegs
}

// Cpsr returns the live raw CPSR value.
func (j *Jit) Cpsr() uint32 {
	return j.regs.Cpsr()
}

// SetCpsr sets the live raw CPSR value.
func (j *Jit) SetCpsr(value uint32) {
	j.regs.SetCpsr(value)
}

// Fpscr returns the live raw FPSCR value.
func (j *Jit) Fpscr() uint32 {
	return j.regs.Fpscr()
}

// SetFpscr sets the live raw FPSCR value.
func (j *Jit) SetFpscr(value uint32) {
	j.regs.SetFpscr(value)
}

// SaveContext returns a detached snapshot of the live register state.
func (j *Jit) SaveContext() *state.Context {
	ctx := &state.Context{}
	ctx.CaptureFrom(j.regs)
	return ctx
}

// SaveContextInto overwrites ctx with the live register state.
func (j *Jit) SaveContextInto(ctx *state.Context) {
	ctx.CaptureFrom(j.regs)
}

// LoadContext overwrites the live register state from a snapshot. Idle
// only.
func (j *Jit) LoadContext(ctx *state.Context) {
	ctx.RestoreInto(j.regs)
}

// ClearExclusiveState clears the guest exclusive-monitor flag.
func (j *Jit) ClearExclusiveState() {
	j.regs.Exclusive = false
}

// DumpDisassembly would print the translated code for debugging. No
// backend implements it.
func (j *Jit) DumpDisassembly() {
	panic("jit: DumpDisassembly is not implemented")
}
