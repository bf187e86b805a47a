package emu

// execute decodes an unprefixed opcode (or one following DD/FD, with
// c.index set) using the x/y/z/p/q fields of the opcode byte.
func (c *CPU) execute(op uint8) int {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return c.executeX0(y, z, p, q)
	case 1:
		if op == 0x76 {
			c.Halted = true
			return 4
		}
		switch {
		case y == 6:
			addr := c.memHL()
			c.bus.Write(addr, c.plainReg8(z))
			return 7 + c.penalty
		case z == 6:
			addr := c.memHL()
			c.setPlainReg8(y, c.bus.Read(addr))
			return 7 + c.penalty
		}
		c.setReg8(y, c.reg8(z))
		return 4
	case 2:
		if z == 6 {
			addr := c.memHL()
			c.alu(y, c.bus.Read(addr))
			return 7 + c.penalty
		}
		c.alu(y, c.reg8(z))
		return 4
	}
	return c.executeX3(y, z, p, q)
}

func (c *CPU) executeX0(y, z, p, q uint8) int {
	switch z {
	case 0:
		switch y {
		case 0:
			return 4
		case 1:
			c.exAF()
			return 4
		case 2:
			d := int8(c.fetch8())
			c.B--
			if c.B != 0 {
				c.PC += uint16(d)
				c.WZ = c.PC
				return 13
			}
			return 8
		case 3:
			d := int8(c.fetch8())
			c.PC += uint16(d)
			c.WZ = c.PC
			return 12
		default:
			d := int8(c.fetch8())
			if c.cond(y - 4) {
				c.PC += uint16(d)
				c.WZ = c.PC
				return 12
			}
			return 7
		}
	case 1:
		if q == 0 {
			c.setRP(p, c.fetch16())
			return 10
		}
		c.setHL(c.add16(c.hl(), c.rp(p)))
		return 11
	case 2:
		return c.executeIndirectLoad(p, q)
	case 3:
		if q == 0 {
			c.setRP(p, c.rp(p)+1)
		} else {
			c.setRP(p, c.rp(p)-1)
		}
		return 6
	case 4:
		if y == 6 {
			addr := c.memHL()
			c.bus.Write(addr, c.inc8(c.bus.Read(addr)))
			return 11 + c.penalty
		}
		c.setReg8(y, c.inc8(c.reg8(y)))
		return 4
	case 5:
		if y == 6 {
			addr := c.memHL()
			c.bus.Write(addr, c.dec8(c.bus.Read(addr)))
			return 11 + c.penalty
		}
		c.setReg8(y, c.dec8(c.reg8(y)))
		return 4
	case 6:
		if y == 6 {
			addr := c.memHL()
			c.bus.Write(addr, c.fetch8())
			if c.penalty > 0 {
				// The immediate byte overlaps the displacement's internal cycles.
				c.penalty -= 3
			}
			return 10 + c.penalty
		}
		c.setReg8(y, c.fetch8())
		return 7
	}

	switch y {
	case 0, 1, 2, 3:
		c.rotA(y)
	case 4:
		c.daa()
	case 5:
		c.cpl()
	case 6:
		c.scf()
	case 7:
		c.ccf()
	}
	return 4
}

// executeIndirectLoad covers LD (BC)/(DE)/(nn) and their reverse forms.
func (c *CPU) executeIndirectLoad(p, q uint8) int {
	switch p {
	case 0, 1:
		addr := c.BC()
		if p == 1 {
			addr = c.DE()
		}
		if q == 0 {
			c.bus.Write(addr, c.A)
			c.WZ = uint16(c.A)<<8 | (addr+1)&0xFF
		} else {
			c.A = c.bus.Read(addr)
			c.WZ = addr + 1
		}
		return 7
	case 2:
		addr := c.fetch16()
		if q == 0 {
			c.write16(addr, c.hl())
		} else {
			c.setHL(c.read16(addr))
		}
		c.WZ = addr + 1
		return 16
	}
	addr := c.fetch16()
	if q == 0 {
		c.bus.Write(addr, c.A)
		c.WZ = uint16(c.A)<<8 | (addr+1)&0xFF
	} else {
		c.A = c.bus.Read(addr)
		c.WZ = addr + 1
	}
	return 13
}

func (c *CPU) executeX3(y, z, p, q uint8) int {
	switch z {
	case 0:
		if c.cond(y) {
			c.PC = c.pop()
			c.WZ = c.PC
			return 11
		}
		return 5
	case 1:
		if q == 0 {
			c.setRP2(p, c.pop())
			return 10
		}
		switch p {
		case 0:
			c.PC = c.pop()
			c.WZ = c.PC
			return 10
		case 1:
			c.exx()
			return 4
		case 2:
			c.PC = c.hl()
			return 4
		}
		c.SP = c.hl()
		return 6
	case 2:
		addr := c.fetch16()
		c.WZ = addr
		if c.cond(y) {
			c.PC = addr
		}
		return 10
	case 3:
		return c.executeX3Z3(y)
	case 4:
		addr := c.fetch16()
		c.WZ = addr
		if c.cond(y) {
			c.push(c.PC)
			c.PC = addr
			return 17
		}
		return 10
	case 5:
		if q == 0 {
			c.push(c.rp2(p))
			return 11
		}
		switch p {
		case 0:
			addr := c.fetch16()
			c.push(c.PC)
			c.PC = addr
			c.WZ = addr
			return 17
		case 1:
			return c.executeIndexed(indexIX)
		case 2:
			return c.executeED()
		}
		return c.executeIndexed(indexIY)
	case 6:
		c.alu(y, c.fetch8())
		return 7
	}
	c.push(c.PC)
	c.PC = uint16(y) * 8
	c.WZ = c.PC
	return 11
}

func (c *CPU) executeX3Z3(y uint8) int {
	switch y {
	case 0:
		c.PC = c.fetch16()
		c.WZ = c.PC
		return 10
	case 1:
		if c.index != indexHL {
			return c.executeIndexedCB()
		}
		return c.executeCB()
	case 2:
		n := c.fetch8()
		c.bus.Out(uint16(c.A)<<8|uint16(n), c.A)
		c.WZ = uint16(c.A)<<8 | uint16(n+1)
		return 11
	case 3:
		port := uint16(c.A)<<8 | uint16(c.fetch8())
		c.A = c.bus.In(port)
		c.WZ = port + 1
		return 11
	case 4:
		v := c.read16(c.SP)
		c.write16(c.SP, c.hl())
		c.setHL(v)
		c.WZ = v
		return 19
	case 5:
		// EX DE,HL ignores index prefixes.
		c.D, c.H = c.H, c.D
		c.E, c.L = c.L, c.E
		return 4
	case 6:
		c.IFF1 = false
		c.IFF2 = false
		return 4
	}
	c.IFF1 = true
	c.IFF2 = true
	c.eiShadow = true
	return 4
}

// executeIndexed handles a DD or FD prefix. The prefix costs 4 T-states on
// top of the instruction it modifies; a prefix followed by another prefix
// acts as a 4 T-state no-op.
func (c *CPU) executeIndexed(mode indexMode) int {
	switch c.bus.Fetch(c.PC) {
	case 0xDD, 0xFD, 0xED:
		return 4
	}
	c.index = mode
	c.penalty = 0
	cycles := c.execute(c.fetchOpcode()) + 4
	c.index = indexHL
	return cycles
}
