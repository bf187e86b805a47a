package emu

const (
	systemRAMSize = 0x2000 // 8KB, mirrored across 0xC000-0xFFFF
	bankSize      = 0x4000
	fixedROMSize  = 0x0400 // first 1KB never pages

	// Mapper registers at the top of the RAM mirror.
	mapperControl = 0xFFFC
	mapperSlot0   = 0xFFFD
	mapperSlot1   = 0xFFFE
	mapperSlot2   = 0xFFFF
)

// Bus owns system RAM and the cartridge image and decodes the CPU's memory
// and port accesses.
//
// Address map:
//
//	0x0000-0x03FF   ROM page 0, fixed
//	0x0400-0x3FFF   ROM slot 0 (bank register 0xFFFD)
//	0x4000-0x7FFF   ROM slot 1 (bank register 0xFFFE)
//	0x8000-0xBFFF   ROM slot 2 (bank register 0xFFFF)
//	0xC000-0xFFFF   8KB system RAM, mirrored
type Bus struct {
	rom   []byte
	ram   [systemRAMSize]byte
	banks [3]uint8

	vdp *VDP

	joypad1 uint8
	joypad2 uint8
}

// NewBus creates a Bus that forwards video ports to vdp.
func NewBus(vdp *VDP) *Bus {
	b := &Bus{vdp: vdp}
	b.Reset()
	return b
}

// LoadRom replaces the cartridge image with a copy of rom. Callers reset
// the bus afterwards.
func (b *Bus) LoadRom(rom []byte) {
	b.rom = append([]byte(nil), rom...)
}

// Reset clears RAM, releases both joypads and restores the default paging.
// Slot 2 starts at page 2, or at the last complete page when that is higher.
func (b *Bus) Reset() {
	clear(b.ram[:])
	b.banks[0] = 0
	b.banks[1] = 1
	b.banks[2] = uint8(min(max(2, len(b.rom)/bankSize-1), 0xFF))
	b.joypad1 = 0xFF
	b.joypad2 = 0xFF
}

// ReadByte decodes a CPU memory read.
func (b *Bus) ReadByte(addr uint16) uint8 {
	switch {
	case addr < fixedROMSize:
		return b.readROM(0, int(addr))
	case addr < 0x4000:
		return b.readROM(b.banks[0], int(addr))
	case addr < 0x8000:
		return b.readROM(b.banks[1], int(addr-0x4000))
	case addr < 0xC000:
		return b.readROM(b.banks[2], int(addr-0x8000))
	}
	return b.ram[addr&(systemRAMSize-1)]
}

// WriteByte decodes a CPU memory write. Writes to ROM are dropped. The top
// four addresses of the RAM mirror also drive the mapper.
func (b *Bus) WriteByte(addr uint16, val uint8) {
	if addr < 0xC000 {
		return
	}
	b.ram[addr&(systemRAMSize-1)] = val

	switch addr {
	case mapperControl:
		// Cartridge RAM and ROM write-protect bits are not modeled.
	case mapperSlot0:
		b.banks[0] = val
	case mapperSlot1:
		b.banks[1] = val
	case mapperSlot2:
		b.banks[2] = val
	}
}

// readROM returns the byte at offset within bank. Any bank value is valid:
// the linear offset wraps around the image.
func (b *Bus) readROM(bank uint8, offset int) uint8 {
	if len(b.rom) == 0 {
		return 0xFF
	}
	return b.rom[(int(bank)*bankSize+offset)%len(b.rom)]
}

// Bank returns the page selected for slot 0, 1 or 2.
func (b *Bus) Bank(slot int) uint8 {
	if slot < 0 || slot >= len(b.banks) {
		return 0
	}
	return b.banks[slot]
}

// RAM returns the live 8KB system RAM.
func (b *Bus) RAM() []byte {
	return b.ram[:]
}

// ROM returns the loaded cartridge image.
func (b *Bus) ROM() []byte {
	return b.rom
}
