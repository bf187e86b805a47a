package emu

// Compile-time interface check.
var _ CPUBus = (*Bus)(nil)

// Fetch reads an opcode byte. The system has no M1-specific decoding, so it
// is an ordinary memory read.
func (b *Bus) Fetch(addr uint16) uint8 {
	return b.ReadByte(addr)
}

// Read implements CPUBus.
func (b *Bus) Read(addr uint16) uint8 {
	return b.ReadByte(addr)
}

// Write implements CPUBus.
func (b *Bus) Write(addr uint16, val uint8) {
	b.WriteByte(addr, val)
}

// In decodes the low byte of the 16-bit port address placed on the bus.
func (b *Bus) In(port uint16) uint8 {
	return b.ReadPort(uint8(port))
}

// Out decodes the low byte of the 16-bit port address placed on the bus.
func (b *Bus) Out(port uint16, val uint8) {
	b.WritePort(uint8(port), val)
}
