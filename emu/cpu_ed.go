package emu

// imModes maps the y field of ED IM opcodes, mirrors included.
var imModes = [8]uint8{0, 0, 1, 2, 0, 0, 1, 2}

// executeED runs the extended group. Undefined bytes are an 8 T-state no-op.
func (c *CPU) executeED() int {
	op := c.fetchOpcode()
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 1:
		return c.executeEDX1(y, z, p, q)
	case 2:
		if z <= 3 && y >= 4 {
			return c.executeBlock(y, z)
		}
	}
	return 8
}

func (c *CPU) executeEDX1(y, z, p, q uint8) int {
	switch z {
	case 0:
		v := c.bus.In(c.BC())
		c.WZ = c.BC() + 1
		if y != 6 {
			c.setPlainReg8(y, v)
		}
		c.F = c.F&flagC | szpTable[v]
		return 12
	case 1:
		var v uint8
		if y != 6 {
			v = c.plainReg8(y)
		}
		c.bus.Out(c.BC(), v)
		c.WZ = c.BC() + 1
		return 12
	case 2:
		// rp(2) is HL here: index prefixes never reach the ED group.
		if q == 0 {
			c.SetHL(c.sbc16(c.HL(), c.rp(p)))
		} else {
			c.SetHL(c.adc16(c.HL(), c.rp(p)))
		}
		return 15
	case 3:
		addr := c.fetch16()
		if q == 0 {
			c.write16(addr, c.rp(p))
		} else {
			c.setRP(p, c.read16(addr))
		}
		c.WZ = addr + 1
		return 20
	case 4:
		c.neg()
		return 8
	case 5:
		// RETN and RETI both restore IFF1 from IFF2.
		c.IFF1 = c.IFF2
		c.PC = c.pop()
		c.WZ = c.PC
		return 14
	case 6:
		c.IM = imModes[y]
		return 8
	}

	switch y {
	case 0:
		c.I = c.A
		return 9
	case 1:
		c.R = c.A
		return 9
	case 2, 3:
		if y == 2 {
			c.A = c.I
		} else {
			c.A = c.R
		}
		f := c.F&flagC | c.A&(flagS|flagY|flagX)
		if c.A == 0 {
			f |= flagZ
		}
		if c.IFF2 {
			f |= flagPV
		}
		c.F = f
		return 9
	case 4:
		addr := c.HL()
		v := c.bus.Read(addr)
		c.bus.Write(addr, c.A<<4|v>>4)
		c.A = c.A&0xF0 | v&0x0F
		c.F = c.F&flagC | szpTable[c.A]
		c.WZ = addr + 1
		return 18
	case 5:
		addr := c.HL()
		v := c.bus.Read(addr)
		c.bus.Write(addr, v<<4|c.A&0x0F)
		c.A = c.A&0xF0 | v>>4
		c.F = c.F&flagC | szpTable[c.A]
		c.WZ = addr + 1
		return 18
	}
	return 8
}

// executeBlock runs LDI/CPI/INI/OUTI and their decrement and repeat forms.
// y selects direction and repeat (4 inc, 5 dec, 6 inc repeat, 7 dec repeat);
// z selects the operation. A repeating form that is not finished rewinds PC
// over the two opcode bytes and reports 21 T-states, so the next Step runs
// it again.
func (c *CPU) executeBlock(y, z uint8) int {
	step := uint16(1)
	if y&1 != 0 {
		step = 0xFFFF
	}
	repeat := y >= 6

	var again bool
	switch z {
	case 0:
		again = c.ldBlock(step)
	case 1:
		again = c.cpBlock(step)
	case 2:
		again = c.inBlock(step)
	case 3:
		again = c.outBlock(step)
	}

	if repeat && again {
		c.PC -= 2
		c.WZ = c.PC + 1
		return 21
	}
	return 16
}

func (c *CPU) ldBlock(step uint16) bool {
	v := c.bus.Read(c.HL())
	c.bus.Write(c.DE(), v)
	c.SetHL(c.HL() + step)
	c.SetDE(c.DE() + step)
	c.SetBC(c.BC() - 1)

	n := v + c.A
	f := c.F&(flagS|flagZ|flagC) | n&flagX | (n<<4)&flagY
	if c.BC() != 0 {
		f |= flagPV
	}
	c.F = f
	return c.BC() != 0
}

func (c *CPU) cpBlock(step uint16) bool {
	v := c.bus.Read(c.HL())
	r := c.A - v
	c.SetHL(c.HL() + step)
	c.SetBC(c.BC() - 1)
	c.WZ += step

	f := c.F&flagC | flagN | r&flagS
	if r == 0 {
		f |= flagZ
	}
	if (c.A^v^r)&0x10 != 0 {
		f |= flagH
	}
	n := r
	if f&flagH != 0 {
		n--
	}
	f |= n&flagX | (n<<4)&flagY
	if c.BC() != 0 {
		f |= flagPV
	}
	c.F = f
	return c.BC() != 0 && r != 0
}

func (c *CPU) inBlock(step uint16) bool {
	v := c.bus.In(c.BC())
	c.WZ = c.BC() + step
	c.bus.Write(c.HL(), v)
	c.B--
	c.SetHL(c.HL() + step)
	c.blockIOFlags(v, uint16(c.C+uint8(step)))
	return c.B != 0
}

func (c *CPU) outBlock(step uint16) bool {
	v := c.bus.Read(c.HL())
	c.B--
	c.WZ = c.BC() + step
	c.bus.Out(c.BC(), v)
	c.SetHL(c.HL() + step)
	c.blockIOFlags(v, uint16(c.L))
	return c.B != 0
}

// blockIOFlags sets the flags shared by the INI/OUTI family. k is the
// second addend of the undocumented carry computation.
func (c *CPU) blockIOFlags(v uint8, k uint16) {
	f := c.B & (flagS | flagY | flagX)
	if c.B == 0 {
		f |= flagZ
	}
	if v&0x80 != 0 {
		f |= flagN
	}
	sum := uint16(v) + k
	if sum > 0xFF {
		f |= flagH | flagC
	}
	if parity(uint8(sum)&7 ^ c.B) {
		f |= flagPV
	}
	c.F = f
}
