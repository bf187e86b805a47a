package emu

// Joypad port bits, active low. Port A carries all of player 1 and
// player 2's up/down; port B carries the rest of player 2 in its low nibble.
const (
	padUp      uint8 = 0x01
	padDown    uint8 = 0x02
	padLeft    uint8 = 0x04
	padRight   uint8 = 0x08
	padButton1 uint8 = 0x10
	padButton2 uint8 = 0x20

	// Player 2 up/down as seen on port A.
	padP2Up   uint8 = 0x40
	padP2Down uint8 = 0x80
)

// ReadPort decodes an I/O read. Only the low 8 bits of the port select a
// device; unmapped ports read 0xFF.
func (b *Bus) ReadPort(port uint8) uint8 {
	switch {
	case port&0xFE == 0x7E:
		if port&1 == 0 {
			return b.vdp.ReadVCounter()
		}
		return b.vdp.ReadHCounter()
	case port&0xC0 == 0x80:
		if port&1 == 0 {
			return b.vdp.ReadData()
		}
		return b.vdp.ReadStatus()
	case port&0xC0 == 0xC0:
		if port&1 == 0 {
			return b.joypad1
		}
		return b.joypad2&0x0F | 0xF0
	}
	return 0xFF
}

// WritePort decodes an I/O write. The PSG (0x40-0x7F) and the memory and
// I/O control ports are accepted and ignored.
func (b *Bus) WritePort(port, val uint8) {
	if port&0xC0 != 0x80 {
		return
	}
	if port&1 == 0 {
		b.vdp.WriteData(val)
	} else {
		b.vdp.WriteControl(val)
	}
}

// SetJoypads stores both joypad port bytes as given (0 = pressed).
func (b *Bus) SetJoypads(port1, port2 uint8) {
	b.joypad1 = port1
	b.joypad2 = port2
}

// Joypads returns the current joypad port bytes.
func (b *Bus) Joypads() (port1, port2 uint8) {
	return b.joypad1, b.joypad2
}

// packJoypads folds two controllers' pressed-button masks into the two
// active-low port bytes.
func packJoypads(p1, p2 uint8) (port1, port2 uint8) {
	port1 = p1 & (padUp | padDown | padLeft | padRight | padButton1 | padButton2)
	if p2&padUp != 0 {
		port1 |= padP2Up
	}
	if p2&padDown != 0 {
		port1 |= padP2Down
	}
	port2 = (p2 >> 2) & 0x0F
	return ^port1, ^port2
}
