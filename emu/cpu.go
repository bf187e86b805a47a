package emu

// CPUBus is the processor's only path to memory and I/O. Fetch is used for
// opcode (M1) cycles; Read and Write for every other memory access.
type CPUBus interface {
	Fetch(addr uint16) uint8
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
	In(port uint16) uint8
	Out(port uint16, val uint8)
}

// Flag bits of the F register. X and Y are the undocumented copies of
// result bits 3 and 5.
const (
	flagC  uint8 = 0x01
	flagN  uint8 = 0x02
	flagPV uint8 = 0x04
	flagX  uint8 = 0x08
	flagH  uint8 = 0x10
	flagY  uint8 = 0x20
	flagZ  uint8 = 0x40
	flagS  uint8 = 0x80
)

const (
	resetSP   = 0xDFF0
	irqVector = 0x0038
	nmiVector = 0x0066

	// haltCycles is the idle cost of a Step while halted.
	haltCycles = 4
)

// indexMode selects which register pair stands in for HL while an
// instruction is decoded.
type indexMode uint8

const (
	indexHL indexMode = iota
	indexIX
	indexIY
)

// CPU is a Z80 interpreter. Registers are exported for tests and debuggers.
type CPU struct {
	A, F, B, C, D, E, H, L         uint8
	A2, F2, B2, C2, D2, E2, H2, L2 uint8

	IX, IY uint16
	SP, PC uint16
	WZ     uint16

	I, R uint8
	IM   uint8

	IFF1, IFF2 bool
	Halted     bool

	// eiShadow blocks interrupt acceptance for the instruction after EI.
	eiShadow bool

	index indexMode
	// penalty collects extra T-states for indexed memory operands.
	penalty int

	bus CPUBus
}

// NewCPU creates a CPU wired to bus and resets it.
func NewCPU(bus CPUBus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset restores the startup register state.
func (c *CPU) Reset() {
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0, 0
	c.A2, c.F2, c.B2, c.C2, c.D2, c.E2, c.H2, c.L2 = 0, 0, 0, 0, 0, 0, 0, 0
	c.IX, c.IY = 0, 0
	c.SP = resetSP
	c.PC = 0
	c.WZ = 0
	c.I, c.R = 0, 0
	c.IM = 1
	c.IFF1, c.IFF2 = false, false
	c.Halted = false
	c.eiShadow = false
	c.index = indexHL
	c.penalty = 0
}

// Step executes one instruction and returns the T-states it took.
func (c *CPU) Step() int {
	c.eiShadow = false
	if c.Halted {
		c.incR()
		return haltCycles
	}
	c.index = indexHL
	c.penalty = 0
	return c.execute(c.fetchOpcode())
}

// RequestInterrupt raises the maskable interrupt line for one check. It
// returns the acknowledge cost, or 0 when the interrupt was not taken.
func (c *CPU) RequestInterrupt() int {
	if !c.IFF1 || c.eiShadow {
		return 0
	}
	c.IFF1 = false
	c.IFF2 = false
	c.Halted = false
	c.incR()
	c.push(c.PC)
	if c.IM == 2 {
		// The data bus floats high on this system, so the vector byte is 0xFF.
		c.PC = c.read16(uint16(c.I)<<8 | 0xFF)
		c.WZ = c.PC
		return 19
	}
	c.PC = irqVector
	c.WZ = c.PC
	return 13
}

// RequestNMI enters the non-maskable interrupt handler.
func (c *CPU) RequestNMI() int {
	c.IFF2 = c.IFF1
	c.IFF1 = false
	c.Halted = false
	c.eiShadow = false
	c.incR()
	c.push(c.PC)
	c.PC = nmiVector
	c.WZ = c.PC
	return 11
}

// InterruptsEnabled reports whether a maskable interrupt would be accepted.
func (c *CPU) InterruptsEnabled() bool {
	return c.IFF1 && !c.eiShadow
}

func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }

func (c *CPU) SetBC(v uint16) { c.B, c.C = uint8(v>>8), uint8(v) }
func (c *CPU) SetDE(v uint16) { c.D, c.E = uint8(v>>8), uint8(v) }
func (c *CPU) SetHL(v uint16) { c.H, c.L = uint8(v>>8), uint8(v) }
func (c *CPU) SetAF(v uint16) { c.A, c.F = uint8(v>>8), uint8(v) }

func (c *CPU) incR() {
	c.R = c.R&0x80 | (c.R+1)&0x7F
}

func (c *CPU) fetchOpcode() uint8 {
	op := c.bus.Fetch(c.PC)
	c.PC++
	c.incR()
	return op
}

func (c *CPU) fetch8() uint8 {
	v := c.bus.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := c.bus.Read(addr)
	hi := c.bus.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) write16(addr, v uint16) {
	c.bus.Write(addr, uint8(v))
	c.bus.Write(addr+1, uint8(v>>8))
}

func (c *CPU) push(v uint16) {
	c.SP--
	c.bus.Write(c.SP, uint8(v>>8))
	c.SP--
	c.bus.Write(c.SP, uint8(v))
}

func (c *CPU) pop() uint16 {
	lo := c.bus.Read(c.SP)
	c.SP++
	hi := c.bus.Read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// hl returns HL, IX or IY depending on the active prefix.
func (c *CPU) hl() uint16 {
	switch c.index {
	case indexIX:
		return c.IX
	case indexIY:
		return c.IY
	}
	return c.HL()
}

func (c *CPU) setHL(v uint16) {
	switch c.index {
	case indexIX:
		c.IX = v
	case indexIY:
		c.IY = v
	default:
		c.SetHL(v)
	}
}

// memHL resolves the (HL) operand. Under a DD/FD prefix it reads the
// displacement byte and addresses (IX+d) or (IY+d) instead.
func (c *CPU) memHL() uint16 {
	if c.index == indexHL {
		return c.HL()
	}
	d := int8(c.fetch8())
	addr := c.hl() + uint16(d)
	c.WZ = addr
	c.penalty += 8
	return addr
}

// reg8 reads register r in the standard 3-bit encoding (B C D E H L - A).
// H and L become the index register halves under a prefix. r must not be 6.
func (c *CPU) reg8(r uint8) uint8 {
	switch r {
	case 4:
		switch c.index {
		case indexIX:
			return uint8(c.IX >> 8)
		case indexIY:
			return uint8(c.IY >> 8)
		}
		return c.H
	case 5:
		switch c.index {
		case indexIX:
			return uint8(c.IX)
		case indexIY:
			return uint8(c.IY)
		}
		return c.L
	}
	return c.plainReg8(r)
}

func (c *CPU) setReg8(r, v uint8) {
	switch r {
	case 4:
		switch c.index {
		case indexIX:
			c.IX = uint16(v)<<8 | c.IX&0x00FF
			return
		case indexIY:
			c.IY = uint16(v)<<8 | c.IY&0x00FF
			return
		}
	case 5:
		switch c.index {
		case indexIX:
			c.IX = c.IX&0xFF00 | uint16(v)
			return
		case indexIY:
			c.IY = c.IY&0xFF00 | uint16(v)
			return
		}
	}
	c.setPlainReg8(r, v)
}

// plainReg8 ignores any index prefix. Used when the other operand is (IX+d).
func (c *CPU) plainReg8(r uint8) uint8 {
	switch r {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 7:
		return c.A
	}
	return 0
}

func (c *CPU) setPlainReg8(r, v uint8) {
	switch r {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 7:
		c.A = v
	}
}

// rp reads a register pair in the BC DE HL SP encoding.
func (c *CPU) rp(p uint8) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.hl()
	}
	return c.SP
}

func (c *CPU) setRP(p uint8, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.setHL(v)
	default:
		c.SP = v
	}
}

// rp2 is the PUSH/POP encoding, with AF in place of SP.
func (c *CPU) rp2(p uint8) uint16 {
	if p == 3 {
		return c.AF()
	}
	return c.rp(p)
}

func (c *CPU) setRP2(p uint8, v uint16) {
	if p == 3 {
		c.SetAF(v)
		return
	}
	c.setRP(p, v)
}

// cond evaluates condition code y: NZ Z NC C PO PE P M.
func (c *CPU) cond(y uint8) bool {
	var set bool
	switch y >> 1 {
	case 0:
		set = c.F&flagZ != 0
	case 1:
		set = c.F&flagC != 0
	case 2:
		set = c.F&flagPV != 0
	case 3:
		set = c.F&flagS != 0
	}
	if y&1 == 0 {
		return !set
	}
	return set
}

func (c *CPU) exx() {
	c.B, c.B2 = c.B2, c.B
	c.C, c.C2 = c.C2, c.C
	c.D, c.D2 = c.D2, c.D
	c.E, c.E2 = c.E2, c.E
	c.H, c.H2 = c.H2, c.H
	c.L, c.L2 = c.L2, c.L
}

func (c *CPU) exAF() {
	c.A, c.A2 = c.A2, c.A
	c.F, c.F2 = c.F2, c.F
}
