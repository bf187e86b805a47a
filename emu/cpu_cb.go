package emu

// executeCB runs the bit-operation group: shifts, BIT, RES and SET against
// a register or (HL).
func (c *CPU) executeCB() int {
	op := c.fetchOpcode()
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	if z == 6 {
		addr := c.HL()
		v := c.bus.Read(addr)
		switch x {
		case 0:
			c.bus.Write(addr, c.rot(y, v))
		case 1:
			c.bit(y, v, uint8(c.WZ>>8))
			return 12
		case 2:
			c.bus.Write(addr, v&^(1<<y))
		case 3:
			c.bus.Write(addr, v|1<<y)
		}
		return 15
	}

	v := c.plainReg8(z)
	switch x {
	case 0:
		c.setPlainReg8(z, c.rot(y, v))
	case 1:
		c.bit(y, v, v)
	case 2:
		c.setPlainReg8(z, v&^(1<<y))
	case 3:
		c.setPlainReg8(z, v|1<<y)
	}
	return 8
}

// executeIndexedCB runs DDCB/FDCB. The displacement precedes the operation
// byte, and neither is an M1 fetch. Non-BIT forms also copy the result into
// the register named by the low three bits, unless that is (HL).
// The caller adds the 4 T-state prefix cost.
func (c *CPU) executeIndexedCB() int {
	d := int8(c.fetch8())
	op := c.fetch8()
	addr := c.hl() + uint16(d)
	c.WZ = addr

	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	v := c.bus.Read(addr)
	var r uint8
	switch x {
	case 0:
		r = c.rot(y, v)
	case 1:
		c.bit(y, v, uint8(addr>>8))
		return 16
	case 2:
		r = v &^ (1 << y)
	case 3:
		r = v | 1<<y
	}
	c.bus.Write(addr, r)
	if z != 6 {
		c.setPlainReg8(z, r)
	}
	return 19
}
