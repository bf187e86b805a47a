package emu

// szpTable holds S, Z, Y, X and parity flags for every byte value.
var szpTable [256]uint8

func init() {
	for i := 0; i < 256; i++ {
		v := uint8(i)
		f := v & (flagS | flagY | flagX)
		if v == 0 {
			f |= flagZ
		}
		if parity(v) {
			f |= flagPV
		}
		szpTable[i] = f
	}
}

// parity reports whether v has an even number of set bits.
func parity(v uint8) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

func (c *CPU) add8(v, carry uint8) {
	a := c.A
	sum := uint16(a) + uint16(v) + uint16(carry)
	r := uint8(sum)
	f := r & (flagS | flagY | flagX)
	if r == 0 {
		f |= flagZ
	}
	if (a^v^r)&0x10 != 0 {
		f |= flagH
	}
	if (a^r)&(v^r)&0x80 != 0 {
		f |= flagPV
	}
	if sum > 0xFF {
		f |= flagC
	}
	c.A = r
	c.F = f
}

// sub8 subtracts v and carry from A. When store is false it is CP: A is
// left alone and X/Y come from the operand.
func (c *CPU) sub8(v, carry uint8, store bool) {
	a := c.A
	diff := uint16(a) - uint16(v) - uint16(carry)
	r := uint8(diff)
	f := flagN | r&flagS
	if store {
		f |= r & (flagY | flagX)
	} else {
		f |= v & (flagY | flagX)
	}
	if r == 0 {
		f |= flagZ
	}
	if (a^v^r)&0x10 != 0 {
		f |= flagH
	}
	if (a^v)&(a^r)&0x80 != 0 {
		f |= flagPV
	}
	if diff > 0xFF {
		f |= flagC
	}
	if store {
		c.A = r
	}
	c.F = f
}

func (c *CPU) and8(v uint8) {
	c.A &= v
	c.F = szpTable[c.A] | flagH
}

func (c *CPU) xor8(v uint8) {
	c.A ^= v
	c.F = szpTable[c.A]
}

func (c *CPU) or8(v uint8) {
	c.A |= v
	c.F = szpTable[c.A]
}

// alu runs one of the eight accumulator operations selected by y:
// ADD ADC SUB SBC AND XOR OR CP.
func (c *CPU) alu(y, v uint8) {
	carry := c.F & flagC
	switch y {
	case 0:
		c.add8(v, 0)
	case 1:
		c.add8(v, carry)
	case 2:
		c.sub8(v, 0, true)
	case 3:
		c.sub8(v, carry, true)
	case 4:
		c.and8(v)
	case 5:
		c.xor8(v)
	case 6:
		c.or8(v)
	case 7:
		c.sub8(v, 0, false)
	}
}

func (c *CPU) inc8(v uint8) uint8 {
	r := v + 1
	f := c.F&flagC | r&(flagS|flagY|flagX)
	if r == 0 {
		f |= flagZ
	}
	if v&0x0F == 0x0F {
		f |= flagH
	}
	if v == 0x7F {
		f |= flagPV
	}
	c.F = f
	return r
}

func (c *CPU) dec8(v uint8) uint8 {
	r := v - 1
	f := c.F&flagC | flagN | r&(flagS|flagY|flagX)
	if r == 0 {
		f |= flagZ
	}
	if v&0x0F == 0 {
		f |= flagH
	}
	if v == 0x80 {
		f |= flagPV
	}
	c.F = f
	return r
}

func (c *CPU) add16(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	r := uint16(sum)
	f := c.F&(flagS|flagZ|flagPV) | uint8(r>>8)&(flagY|flagX)
	if (a^b^r)&0x1000 != 0 {
		f |= flagH
	}
	if sum > 0xFFFF {
		f |= flagC
	}
	c.F = f
	c.WZ = a + 1
	return r
}

func (c *CPU) adc16(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b) + uint32(c.F&flagC)
	r := uint16(sum)
	f := uint8(r>>8) & (flagS | flagY | flagX)
	if r == 0 {
		f |= flagZ
	}
	if (a^b^r)&0x1000 != 0 {
		f |= flagH
	}
	if (a^r)&(b^r)&0x8000 != 0 {
		f |= flagPV
	}
	if sum > 0xFFFF {
		f |= flagC
	}
	c.F = f
	c.WZ = a + 1
	return r
}

func (c *CPU) sbc16(a, b uint16) uint16 {
	diff := uint32(a) - uint32(b) - uint32(c.F&flagC)
	r := uint16(diff)
	f := flagN | uint8(r>>8)&(flagS|flagY|flagX)
	if r == 0 {
		f |= flagZ
	}
	if (a^b^r)&0x1000 != 0 {
		f |= flagH
	}
	if (a^b)&(a^r)&0x8000 != 0 {
		f |= flagPV
	}
	if diff > 0xFFFF {
		f |= flagC
	}
	c.F = f
	c.WZ = a + 1
	return r
}

// rot runs the CB-group shift selected by y: RLC RRC RL RR SLA SRA SLL SRL.
func (c *CPU) rot(y, v uint8) uint8 {
	var r, carry uint8
	switch y {
	case 0:
		carry = v >> 7
		r = v<<1 | carry
	case 1:
		carry = v & 1
		r = v>>1 | carry<<7
	case 2:
		carry = v >> 7
		r = v<<1 | c.F&flagC
	case 3:
		carry = v & 1
		r = v>>1 | (c.F&flagC)<<7
	case 4:
		carry = v >> 7
		r = v << 1
	case 5:
		carry = v & 1
		r = v>>1 | v&0x80
	case 6:
		carry = v >> 7
		r = v<<1 | 1
	case 7:
		carry = v & 1
		r = v >> 1
	}
	c.F = szpTable[r] | carry
	return r
}

// rotA runs the accumulator rotates RLCA RRCA RLA RRA, which leave S, Z
// and P/V untouched.
func (c *CPU) rotA(y uint8) {
	a := c.A
	var carry uint8
	switch y {
	case 0:
		carry = a >> 7
		a = a<<1 | carry
	case 1:
		carry = a & 1
		a = a>>1 | carry<<7
	case 2:
		carry = a >> 7
		a = a<<1 | c.F&flagC
	case 3:
		carry = a & 1
		a = a>>1 | (c.F&flagC)<<7
	}
	c.A = a
	c.F = c.F&(flagS|flagZ|flagPV) | a&(flagY|flagX) | carry
}

// bit tests bit n of v. xy supplies the undocumented X/Y bits, which come
// from the operand for registers and from WZ for memory forms.
func (c *CPU) bit(n, v, xy uint8) {
	f := c.F&flagC | flagH | xy&(flagY|flagX)
	if v&(1<<n) == 0 {
		f |= flagZ | flagPV
	} else if n == 7 {
		f |= flagS
	}
	c.F = f
}

func (c *CPU) daa() {
	a := c.A
	var adjust, carry, half uint8
	carry = c.F & flagC
	if c.F&flagH != 0 || a&0x0F > 9 {
		adjust = 0x06
	}
	if carry != 0 || a > 0x99 {
		adjust |= 0x60
		carry = flagC
	}
	if c.F&flagN != 0 {
		if c.F&flagH != 0 && a&0x0F < 6 {
			half = flagH
		}
		a -= adjust
	} else {
		if a&0x0F > 9 {
			half = flagH
		}
		a += adjust
	}
	c.A = a
	c.F = szpTable[a] | half | carry | c.F&flagN
}

func (c *CPU) cpl() {
	c.A = ^c.A
	c.F = c.F&(flagS|flagZ|flagPV|flagC) | flagH | flagN | c.A&(flagY|flagX)
}

func (c *CPU) scf() {
	c.F = c.F&(flagS|flagZ|flagPV) | flagC | c.A&(flagY|flagX)
}

// ccf copies the old carry into H before inverting C.
func (c *CPU) ccf() {
	f := c.F&(flagS|flagZ|flagPV) | c.A&(flagY|flagX)
	if c.F&flagC != 0 {
		f |= flagH
	} else {
		f |= flagC
	}
	c.F = f
}

func (c *CPU) neg() {
	v := c.A
	c.A = 0
	c.sub8(v, 0, true)
}
