package state

// Context is a detached snapshot of a guest register file. It owns its
// values outright: saving into a Context, assigning one Context to
// another, or loading one back never aliases the live register state.
// The register arrays are Go arrays, so plain struct assignment is a
// deep copy.
type Context struct {
	state RegFile
}

// NewContext returns a context holding a reset-state register file.
func NewContext() *Context {
	return &Context{state: *NewRegFile()}
}

// CaptureFrom overwrites the context with a copy of the given register
// file.
func (c *Context) CaptureFrom(r *RegFile) {
	c.state = *r
}

// RestoreInto overwrites the given register file with the context's
// values.
func (c *Context) RestoreInto(r *RegFile) {
	*r = c.state
}

// Regs returns the snapshot's general-purpose registers.
func (c *Context) Regs() *[16]uint32 {
	return &c.state.Regs
}

// ExtRegs returns the snapshot's extension registers.
func (c *Context) ExtRegs() *[64]uint32 {
	return &c.state.ExtRegs
}

// Cpsr returns the snapshot's raw CPSR value.
func (c *Context) Cpsr() uint32 {
	return c.state.Cpsr()
}

// SetCpsr sets the snapshot's raw CPSR value.
func (c *Context) SetCpsr(value uint32) {
	c.state.SetCpsr(value)
}

// Fpscr returns the snapshot's raw FPSCR value.
func (c *Context) Fpscr() uint32 {
	return c.state.Fpscr()
}

// SetFpscr sets the snapshot's raw FPSCR value.
func (c *Context) SetFpscr(value uint32) {
	c.state.SetFpscr(value)
}
