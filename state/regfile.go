// Package state holds the guest-visible register state of the AArch32
// translator and the detached snapshots of it.
package state

// DefaultCpsr is the CPSR encoding after reset: User mode, ARM state,
// all condition flags clear.
const DefaultCpsr uint32 = 0x0000_0010

// DefaultFpscr is the FPSCR encoding after reset: round-to-nearest,
// no exceptions flagged.
const DefaultFpscr uint32 = 0x0000_0000

// RegFile represents the AArch32 guest register file.
// It contains 16 general-purpose registers (R0-R12, SP, LR, PC),
// 64 extension registers (S0-S63), the CPSR and FPSCR, and the
// exclusive-monitor flag used by load/store-exclusive emulation.
//
// The layout is fixed at construction; translated code reads and writes
// it directly while the register file is owned by the execution thread.
type RegFile struct {
	// Regs holds general-purpose registers R0-R15.
	// Regs[13] is SP, Regs[14] is LR, Regs[15] is PC.
	Regs [16]uint32

	// ExtRegs holds the VFP extension registers S0-S63.
	ExtRegs [64]uint32

	// Exclusive is true while a load-exclusive has marked the
	// exclusive monitor and no store-exclusive or clear has run yet.
	Exclusive bool

	cpsr  uint32
	fpscr uint32
}

// NewRegFile returns a register file in its reset state.
func NewRegFile() *RegFile {
	r := &RegFile{}
	r.Reset()
	return r
}

// Reset returns the register file to its reset state: all general-purpose
// and extension registers zero, CPSR and FPSCR at their default encodings,
// exclusive monitor clear.
func (r *RegFile) Reset() {
	*r = RegFile{cpsr: DefaultCpsr, fpscr: DefaultFpscr}
}

// Cpsr returns the raw CPSR value.
func (r *RegFile) Cpsr() uint32 {
	return r.cpsr
}

// SetCpsr sets the raw CPSR value.
func (r *RegFile) SetCpsr(value uint32) {
	r.cpsr = value
}

// Fpscr returns the raw FPSCR value.
func (r *RegFile) Fpscr() uint32 {
	return r.fpscr
}

// SetFpscr sets the raw FPSCR value.
func (r *RegFile) SetFpscr(value uint32) {
	r.fpscr = value
}
