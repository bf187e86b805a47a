package emu

import (
	"encoding/binary"
	"fmt"
)

const (
	copierHeaderSize = 512
	headerSignature  = "TMR SEGA"
)

// headerOffsets are the locations checked for the cartridge header, most
// common first.
var headerOffsets = []int{0x7FF0, 0x3FF0, 0x1FF0}

// checksumEnd maps the header's size code to the end of the checksummed
// range. Codes not listed are reserved.
var checksumEnd = map[uint8]int{
	0xA: 0x1FF0,
	0xB: 0x3FF0,
	0xC: 0x7FF0,
	0xD: 0xBFF0,
	0xE: 0x10000,
	0xF: 0x20000,
	0x0: 0x40000,
	0x1: 0x80000,
	0x2: 0x100000,
}

// Header is the 16-byte cartridge header.
type Header struct {
	Offset      int    // Where the header was found
	Checksum    uint16 // Little-endian checksum field
	ProductCode int    // BCD product code with the extra high digit folded in
	Version     uint8
	RegionCode  uint8 // 3 = Japan, 4 = export, 5-7 = Game Gear
	SizeCode    uint8
}

// StripCopierHeader drops the 512-byte header that some ROM dumping
// hardware prepended to images. Images without one are returned as is.
func StripCopierHeader(rom []byte) []byte {
	if len(rom)%bankSize == copierHeaderSize {
		return rom[copierHeaderSize:]
	}
	return rom
}

// ParseHeader locates and decodes the cartridge header.
func ParseHeader(rom []byte) (Header, error) {
	for _, off := range headerOffsets {
		if off+16 > len(rom) {
			continue
		}
		if string(rom[off:off+8]) != headerSignature {
			continue
		}
		h := rom[off : off+16]
		product := bcd(h[12]) + bcd(h[13])*100 + int(h[14]>>4)*10000
		return Header{
			Offset:      off,
			Checksum:    binary.LittleEndian.Uint16(h[10:12]),
			ProductCode: product,
			Version:     h[14] & 0x0F,
			RegionCode:  h[15] >> 4,
			SizeCode:    h[15] & 0x0F,
		}, nil
	}
	return Header{}, fmt.Errorf("no %q header found (%d bytes)", headerSignature, len(rom))
}

// ValidateChecksum verifies the header checksum. The sum covers the range
// given by the size code, skipping the 16 bytes at 0x7FF0.
func ValidateChecksum(rom []byte) error {
	h, err := ParseHeader(rom)
	if err != nil {
		return err
	}
	end, ok := checksumEnd[h.SizeCode]
	if !ok {
		return fmt.Errorf("reserved ROM size code 0x%X", h.SizeCode)
	}
	if end > len(rom) {
		return fmt.Errorf("ROM too short for size code 0x%X: %d bytes, need %d", h.SizeCode, len(rom), end)
	}

	var computed uint16
	for i := 0; i < end; i++ {
		if i >= 0x7FF0 && i < 0x8000 {
			continue
		}
		computed += uint16(rom[i])
	}
	if computed != h.Checksum {
		return fmt.Errorf("checksum mismatch: header=%04X computed=%04X", h.Checksum, computed)
	}
	return nil
}

func bcd(b uint8) int {
	return int(b>>4)*10 + int(b&0x0F)
}
