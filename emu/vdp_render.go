package emu

// Name table entry attribute bits (high byte).
const (
	tileIndexHigh uint8 = 0x01
	tileHFlip     uint8 = 0x02
	tileVFlip     uint8 = 0x04
	tilePalette   uint8 = 0x08
	tilePriority  uint8 = 0x10
)

// renderScanline draws one visible line into the framebuffer. The line is
// composed as CRAM indices in lineColor and converted to RGBA at the end.
func (v *VDP) renderScanline(line int) {
	backdrop := 16 + v.regs[7]&0x0F

	if v.regs[1]&0x40 == 0 {
		for x := range v.lineColor {
			v.lineColor[x] = backdrop
		}
		v.writeLine(line)
		return
	}

	v.renderBackground(line)
	v.renderSprites(line)

	if v.regs[0]&0x20 != 0 {
		for x := 0; x < 8; x++ {
			v.lineColor[x] = backdrop
		}
	}
	v.writeLine(line)
}

func (v *VDP) writeLine(line int) {
	row := v.framebuffer.Pix[line*v.framebuffer.Stride:]
	for x, idx := range v.lineColor {
		c := v.palette[idx&0x1F]
		o := x * 4
		row[o] = c.R
		row[o+1] = c.G
		row[o+2] = c.B
		row[o+3] = c.A
	}
}

// renderBackground fills lineColor from the 32x28 name table, applying
// scroll, the scroll locks and per-tile flip, palette and priority bits.
func (v *VDP) renderBackground(line int) {
	nameTable := uint16(v.regs[2]&0x0E) << 10
	hScroll := v.regs[8]
	if v.regs[0]&0x40 != 0 && line < 16 {
		hScroll = 0
	}
	rightLock := v.regs[0]&0x80 != 0

	for x := 0; x < ScreenWidth; x++ {
		vScroll := v.vScroll
		if rightLock && x >= 192 {
			vScroll = 0
		}
		y := line + int(vScroll)
		if y >= 224 {
			y -= 224
		}
		sx := uint8(x) - hScroll

		entry := nameTable + uint16(y/8*32+int(sx/8))*2
		lo := v.vram[entry&(vramSize-1)]
		hi := v.vram[(entry+1)&(vramSize-1)]

		tile := uint16(hi&tileIndexHigh)<<8 | uint16(lo)
		row := y & 7
		if hi&tileVFlip != 0 {
			row = 7 - row
		}
		col := sx & 7
		if hi&tileHFlip != 0 {
			col = 7 - col
		}

		idx := v.tilePixel(tile*32+uint16(row)*4, col)
		if hi&tilePalette != 0 {
			idx |= 0x10
		}
		v.lineColor[x] = idx
		v.bgPriority[x] = hi&tilePriority != 0 && idx&0x0F != 0
	}
}

// tilePixel decodes one pixel of a 4bpp planar tile row starting at addr.
// col 0 is the leftmost pixel, held in bit 7 of each plane.
func (v *VDP) tilePixel(addr uint16, col uint8) uint8 {
	shift := 7 - col
	var idx uint8
	for plane := uint16(0); plane < 4; plane++ {
		b := v.vram[(addr+plane)&(vramSize-1)]
		idx |= ((b >> shift) & 1) << plane
	}
	return idx
}
